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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDeployer struct {
	deployed map[uint64]Contract
}

func (d *testDeployer) DeployContract(tx *Tx, contract Contract) error {
	if d.deployed == nil {
		d.deployed = map[uint64]Contract{}
	}
	d.deployed[tx.Height()] = contract
	return tx.SetValue(contract.Address[:], []byte("code."+contract.Name), []byte(contract.Code))
}

func newTestBootstrapper(t *testing.T) (*Bootstrapper, *testDeployer) {
	dir := t.TempDir()
	deployer := &testDeployer{}
	return &Bootstrapper{
		CacheDir:   filepath.Join(dir, "cache"),
		ScratchDir: filepath.Join(dir, "scratch"),
		Deployer:   deployer,
		Logger:     zerolog.Nop(),
	}, deployer
}

func dumpAndClose(t *testing.T, store *Store) []Entry {
	t.Helper()

	entries, err := store.Dump()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	return entries
}

func TestBootstrap(t *testing.T) {

	t.Parallel()

	const scale = 2_000

	bootstrapper, deployer := newTestBootstrapper(t)

	var committed []BlockRecord
	bootstrapper.OnBlock = func(record BlockRecord) error {
		committed = append(committed, record)
		return nil
	}

	store, err := bootstrapper.Bootstrap(context.Background(), scale)
	require.NoError(t, err)

	assert.Equal(t, bootstrapper.ScratchDir, store.Path())

	// genesis and the appended blocks
	require.Len(t, committed, DefaultBlocks+1)
	assert.Equal(t, SentinelBlockIdentity, committed[0].Parent)
	for i, record := range committed {
		assert.Equal(t, NewBlockIdentity(uint32(i)), record.ID)
		assert.Equal(t, uint64(i), record.Height)
	}

	// the trait contracts are deployed in blocks 1, 2, and 3
	require.Len(t, deployer.deployed, 3)
	assert.Equal(t, "Trait", deployer.deployed[1].Name)
	assert.Equal(t, "TraitImpl", deployer.deployed[2].Name)
	assert.Equal(t, "callTrait", deployer.deployed[3].Name)

	syntheticKeys, err := store.CountKeys(ledgerKey(StorageOwner[:], StorageKey("key-")))
	require.NoError(t, err)
	assert.Equal(t, scale, syntheticKeys)

	blockKeys, err := store.CountKeys(ledgerKey(StorageOwner[:], StorageKey("block-")))
	require.NoError(t, err)
	assert.Equal(t, DefaultBlocks*DefaultBlockKeys, blockKeys)

	value, ok, err := store.Get(ledgerKey(StorageOwner[:], StorageKey(SyntheticKey(42))))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, syntheticValue(SyntheticKey(42)), value)

	// genesis accounts are funded
	tx, err := store.BeginNext()
	require.NoError(t, err)
	for _, address := range GenesisAccounts {
		balance, err := ReadBalance(tx, address)
		require.NoError(t, err)
		assert.Equal(t, uint64(GenesisBalance), balance)
	}
	tx.Rollback()

	require.NoError(t, store.Close())
}

func TestBootstrapCacheHit(t *testing.T) {

	t.Parallel()

	const scale = 500

	bootstrapper, deployer := newTestBootstrapper(t)

	store, err := bootstrapper.Bootstrap(context.Background(), scale)
	require.NoError(t, err)

	first := dumpAndClose(t, store)

	_, err = os.Stat(bootstrapper.CachePath(scale))
	require.NoError(t, err)

	// the second bootstrap hits the cache and does not deploy again
	deployer.deployed = nil

	store, err = bootstrapper.Bootstrap(context.Background(), scale)
	require.NoError(t, err)

	second := dumpAndClose(t, store)

	assert.Nil(t, deployer.deployed)
	assert.Equal(t, first, second)
}

func TestBootstrapScratchIsolation(t *testing.T) {

	t.Parallel()

	const scale = 100

	bootstrapper, _ := newTestBootstrapper(t)

	store, err := bootstrapper.Bootstrap(context.Background(), scale)
	require.NoError(t, err)

	original, err := store.Dump()
	require.NoError(t, err)

	// writes to the scratch copy
	tx, err := store.BeginNext()
	require.NoError(t, err)
	require.NoError(t, tx.Put([]byte("mutation"), []byte("value")))
	_, err = tx.CommitToBlock()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// do not reach the cache
	store, err = bootstrapper.Bootstrap(context.Background(), scale)
	require.NoError(t, err)

	assert.Equal(t, original, dumpAndClose(t, store))
}

func TestBootstrapIOError(t *testing.T) {

	t.Parallel()

	dir := t.TempDir()

	// the cache directory cannot be created below a regular file
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	bootstrapper := &Bootstrapper{
		CacheDir:   filepath.Join(file, "cache"),
		ScratchDir: filepath.Join(dir, "scratch"),
		Deployer:   &testDeployer{},
	}

	_, err := bootstrapper.Bootstrap(context.Background(), 1)
	var ioErr *BootstrapIOError
	require.ErrorAs(t, err, &ioErr)
}

func TestPopulateRequiresContractBlocks(t *testing.T) {

	t.Parallel()

	store := newMemoryStore(t)

	bootstrapper := &Bootstrapper{
		Blocks:   2,
		Deployer: &testDeployer{},
	}
	require.Error(t, bootstrapper.Populate(store, 1))
}

func TestBootstrapCachePath(t *testing.T) {

	t.Parallel()

	bootstrapper, deployer := newTestBootstrapper(t)

	assert.Equal(
		t,
		filepath.Join(bootstrapper.CacheDir, "warmed-100-10x100"),
		bootstrapper.CachePath(100),
	)

	store, err := bootstrapper.Bootstrap(context.Background(), 100)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// other block settings build a separate warmed store
	bootstrapper.Blocks = 4
	bootstrapper.BlockKeys = 3
	deployer.deployed = nil

	cachePath := bootstrapper.CachePath(100)
	assert.Equal(t, filepath.Join(bootstrapper.CacheDir, "warmed-100-4x3"), cachePath)

	store, err = bootstrapper.Bootstrap(context.Background(), 100)
	require.NoError(t, err)

	assert.Len(t, deployer.deployed, 3)

	blockKeys, err := store.CountKeys(ledgerKey(StorageOwner[:], StorageKey("block-")))
	require.NoError(t, err)
	assert.Equal(t, 4*3, blockKeys)
	require.NoError(t, store.Close())

	_, err = os.Stat(cachePath)
	require.NoError(t, err)
}
