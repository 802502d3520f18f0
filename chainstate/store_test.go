/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package chainstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStoreVersions(t *testing.T) {

	t.Parallel()

	store := newMemoryStore(t)

	key := []byte("key")

	tx, err := store.Begin(SentinelBlockIdentity, NewBlockIdentity(0))
	require.NoError(t, err)
	require.NoError(t, tx.Put(key, []byte("a")))

	// reads observe pending writes
	value, ok, err := tx.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("a"), value)

	// the store does not
	_, ok, err = store.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	record, err := tx.CommitToBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), record.Height)
	assert.Equal(t, uint64(1), record.Writes)
	assert.Equal(t, SentinelBlockIdentity, record.Parent)

	tx, err = store.BeginNext()
	require.NoError(t, err)
	assert.Equal(t, NewBlockIdentity(1), tx.ID())
	require.NoError(t, tx.Put(key, []byte("b")))
	_, err = tx.CommitToBlock()
	require.NoError(t, err)

	tx, err = store.BeginNext()
	require.NoError(t, err)
	require.NoError(t, tx.Delete(key))
	_, err = tx.CommitToBlock()
	require.NoError(t, err)

	value, ok, err = store.GetAt(key, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("a"), value)

	value, ok, err = store.GetAt(key, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("b"), value)

	_, ok, err = store.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	tip, ok, err := store.Tip()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), tip.Height)
	assert.Equal(t, NewBlockIdentity(2), tip.ID)

	block, ok, err := store.BlockAt(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewBlockIdentity(1), block.ID)
	assert.Equal(t, NewBlockIdentity(0), block.Parent)
}

func TestStoreBeginNotTip(t *testing.T) {

	t.Parallel()

	store := newMemoryStore(t)

	_, err := store.Begin(NewBlockIdentity(5), NewBlockIdentity(6))
	require.ErrorIs(t, err, ErrNotTip)

	tx, err := store.BeginNext()
	require.NoError(t, err)
	_, err = tx.CommitToBlock()
	require.NoError(t, err)

	_, err = store.Begin(SentinelBlockIdentity, NewBlockIdentity(0))
	require.ErrorIs(t, err, ErrNotTip)

	_, err = tx.CommitToBlock()
	require.ErrorIs(t, err, ErrTxDone)
}

func TestStoreRollback(t *testing.T) {

	t.Parallel()

	store := newMemoryStore(t)

	tx, err := store.BeginNext()
	require.NoError(t, err)
	require.NoError(t, tx.Put([]byte("key"), []byte("value")))
	tx.Rollback()

	require.ErrorIs(t, tx.Put([]byte("key"), []byte("value")), ErrTxDone)

	_, ok, err := store.Tip()
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := store.Dump()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreCountKeys(t *testing.T) {

	t.Parallel()

	store := newMemoryStore(t)

	tx, err := store.BeginNext()
	require.NoError(t, err)
	for _, key := range []string{"a1", "a2", "a3", "b1"} {
		require.NoError(t, tx.Put([]byte(key), []byte("value")))
	}
	_, err = tx.CommitToBlock()
	require.NoError(t, err)

	tx, err = store.BeginNext()
	require.NoError(t, err)
	require.NoError(t, tx.Put([]byte("a1"), []byte("other")))
	require.NoError(t, tx.Delete([]byte("a2")))
	_, err = tx.CommitToBlock()
	require.NoError(t, err)

	count, err := store.CountKeys([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountKeys(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestLedger(t *testing.T) {

	t.Parallel()

	store := newMemoryStore(t)

	tx, err := store.BeginNext()
	require.NoError(t, err)

	owner := []byte{0, 0, 0, 0, 0, 0, 0, 1}

	exists, err := tx.ValueExists(owner, []byte("key"))
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, tx.SetValue(owner, []byte("key"), []byte("value")))

	value, err := tx.GetValue(owner, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	// values of other owners are separate
	value, err = tx.GetValue([]byte{2}, []byte("key"))
	require.NoError(t, err)
	assert.Nil(t, value)

	first, err := tx.AllocateSlabIndex(owner)
	require.NoError(t, err)
	second, err := tx.AllocateSlabIndex(owner)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, CreditAccount(tx, GenesisAccounts[0], 10))
	require.NoError(t, CreditAccount(tx, GenesisAccounts[0], 5))
	balance, err := ReadBalance(tx, GenesisAccounts[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(15), balance)
}
