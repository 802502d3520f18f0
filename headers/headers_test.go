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

package headers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/cadence-benchmarking/chainstate"
)

func TestDerivedOracle(t *testing.T) {
	t.Parallel()

	oracle := DerivedOracle{}

	t.Run("counter", func(t *testing.T) {
		t.Parallel()

		id := chainstate.NewBlockIdentity(7)

		info, ok, err := oracle.HeaderInfo(id)
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, uint32(7), info.BurnHeight)
		assert.Equal(t, uint64(1), info.Timestamp)
		assert.Equal(t, id[:], info.BlockHash)
		assert.Equal(t, id[:], info.BurnHeaderHash)
		assert.Equal(t, make([]byte, 32), info.VRFSeed)
	})

	t.Run("sentinel", func(t *testing.T) {
		t.Parallel()

		info, ok, err := oracle.HeaderInfo(chainstate.SentinelBlockIdentity)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, uint32(0), info.BurnHeight)
	})

	t.Run("miner", func(t *testing.T) {
		t.Parallel()

		payment, ok, err := oracle.MinerPayment(chainstate.NewBlockIdentity(1))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, MinerPayment{}, payment)
	})
}

func TestSQLiteOracle(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "headers", "headers.sqlite")

	oracle, err := OpenSQLiteOracle(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, oracle.Close())
	}()

	record := chainstate.BlockRecord{
		ID:     chainstate.NewBlockIdentity(3),
		Parent: chainstate.NewBlockIdentity(2),
		Height: 3,
		Writes: 12,
	}

	t.Run("absent", func(t *testing.T) {
		_, ok, err := oracle.HeaderInfo(chainstate.NewBlockIdentity(99))
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = oracle.MinerPayment(chainstate.NewBlockIdentity(99))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	require.NoError(t, oracle.RecordBlock(record))

	t.Run("header", func(t *testing.T) {
		info, ok, err := oracle.HeaderInfo(record.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, HeaderForBlock(record), info)
	})

	t.Run("payment", func(t *testing.T) {
		payment, ok, err := oracle.MinerPayment(record.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, chainstate.GenesisAccounts[1], payment.Recipient)
		assert.Equal(t, uint64(1_000), payment.Coinbase)
		assert.Equal(t, uint64(12), payment.TxFees)
	})

	t.Run("replace", func(t *testing.T) {
		info := HeaderInfo{
			BlockHash:      []byte{1},
			BurnHeaderHash: []byte{2},
			BurnHeight:     4,
			Timestamp:      5,
			VRFSeed:        []byte{6},
		}
		require.NoError(t, oracle.InsertHeader(record.ID, info))

		actual, ok, err := oracle.HeaderInfo(record.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, info, actual)
	})
}

func TestSQLiteOracleReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "headers.sqlite")

	oracle, err := OpenSQLiteOracle(path)
	require.NoError(t, err)

	id := chainstate.NewBlockIdentity(1)
	require.NoError(t, oracle.InsertPayment(id, MinerPayment{
		Recipient: chainstate.GenesisAccounts[0],
		Coinbase:  10,
		TxFees:    2,
	}))
	require.NoError(t, oracle.Close())

	oracle, err = OpenSQLiteOracle(path)
	require.NoError(t, err)
	defer oracle.Close()

	payment, ok, err := oracle.MinerPayment(id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(10), payment.Coinbase)
}
