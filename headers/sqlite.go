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
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/onflow/cadence/common"

	"github.com/onflow/cadence-benchmarking/chainstate"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS block_headers (
        index_block_hash TEXT PRIMARY KEY,
        block_hash TEXT NOT NULL,
        burn_header_hash TEXT NOT NULL,
        burn_header_height INTEGER NOT NULL,
        burn_header_timestamp INTEGER NOT NULL,
        vrf_seed TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS payments (
        index_block_hash TEXT NOT NULL,
        address TEXT NOT NULL,
        miner INTEGER NOT NULL,
        coinbase INTEGER NOT NULL,
        tx_fees INTEGER NOT NULL,
        PRIMARY KEY (index_block_hash, miner)
    )`,
}

const (
	headerQuery = `SELECT block_hash, burn_header_hash, burn_header_height, burn_header_timestamp, vrf_seed
        FROM block_headers WHERE index_block_hash = ?`
	paymentQuery = `SELECT address, coinbase, tx_fees
        FROM payments WHERE index_block_hash = ? AND miner = 1`
)

// SQLiteOracle looks up headers in an SQLite database.
type SQLiteOracle struct {
	db *sql.DB
}

var _ Oracle = &SQLiteOracle{}

// OpenSQLiteOracle opens the database at the given path.
// If the file does not exist, it is created, together with the schema.
func OpenSQLiteOracle(path string) (*SQLiteOracle, error) {
	_, err := os.Stat(path)
	create := os.IsNotExist(err)
	if err != nil && !create {
		return nil, fmt.Errorf("could not stat %s: %w", path, err)
	}

	if create {
		err = os.MkdirAll(filepath.Dir(path), 0o755)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	oracle := &SQLiteOracle{db: db}

	// tables are created idempotently, also for existing files from older runs
	err = oracle.instantiate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return oracle, nil
}

func (o *SQLiteOracle) instantiate() error {
	tx, err := o.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to instantiate header database: %w", err)
	}
	for _, statement := range schema {
		_, err = tx.Exec(statement)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to instantiate header database: %w", err)
		}
	}
	return tx.Commit()
}

func (o *SQLiteOracle) Close() error {
	return o.db.Close()
}

func (o *SQLiteOracle) HeaderInfo(id chainstate.BlockIdentity) (HeaderInfo, bool, error) {
	var blockHash, burnHeaderHash, vrfSeed string
	var info HeaderInfo

	err := o.db.QueryRow(headerQuery, id.String()).Scan(
		&blockHash,
		&burnHeaderHash,
		&info.BurnHeight,
		&info.Timestamp,
		&vrfSeed,
	)
	if err == sql.ErrNoRows {
		return HeaderInfo{}, false, nil
	}
	if err != nil {
		return HeaderInfo{}, false, fmt.Errorf("failed to query header of %s: %w", id, err)
	}

	for _, field := range []struct {
		encoded string
		decoded *[]byte
	}{
		{blockHash, &info.BlockHash},
		{burnHeaderHash, &info.BurnHeaderHash},
		{vrfSeed, &info.VRFSeed},
	} {
		*field.decoded, err = hex.DecodeString(field.encoded)
		if err != nil {
			return HeaderInfo{}, false, fmt.Errorf("bad header of %s in database: %w", id, err)
		}
	}

	return info, true, nil
}

func (o *SQLiteOracle) MinerPayment(id chainstate.BlockIdentity) (MinerPayment, bool, error) {
	var address string
	var payment MinerPayment

	err := o.db.QueryRow(paymentQuery, id.String()).Scan(
		&address,
		&payment.Coinbase,
		&payment.TxFees,
	)
	if err == sql.ErrNoRows {
		return MinerPayment{}, false, nil
	}
	if err != nil {
		return MinerPayment{}, false, fmt.Errorf("failed to query miner payment of %s: %w", id, err)
	}

	payment.Recipient, err = common.HexToAddress(address)
	if err != nil {
		return MinerPayment{}, false, fmt.Errorf("bad miner payment of %s in database: %w", id, err)
	}

	return payment, true, nil
}

// InsertHeader stores the header information of a block.
func (o *SQLiteOracle) InsertHeader(id chainstate.BlockIdentity, info HeaderInfo) error {
	_, err := o.db.Exec(
		`INSERT OR REPLACE INTO block_headers
            (index_block_hash, block_hash, burn_header_hash, burn_header_height, burn_header_timestamp, vrf_seed)
            VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(),
		hex.EncodeToString(info.BlockHash),
		hex.EncodeToString(info.BurnHeaderHash),
		info.BurnHeight,
		info.Timestamp,
		hex.EncodeToString(info.VRFSeed),
	)
	if err != nil {
		return fmt.Errorf("failed to insert header of %s: %w", id, err)
	}
	return nil
}

// InsertPayment stores the payment to the miner of a block.
func (o *SQLiteOracle) InsertPayment(id chainstate.BlockIdentity, payment MinerPayment) error {
	_, err := o.db.Exec(
		`INSERT OR REPLACE INTO payments
            (index_block_hash, address, miner, coinbase, tx_fees)
            VALUES (?, ?, 1, ?, ?)`,
		id.String(),
		payment.Recipient.Hex(),
		payment.Coinbase,
		payment.TxFees,
	)
	if err != nil {
		return fmt.Errorf("failed to insert miner payment of %s: %w", id, err)
	}
	return nil
}

// RecordBlock seeds the database with the header and the miner payment of a committed block.
// It can be used as the bootstrap's block hook.
func (o *SQLiteOracle) RecordBlock(record chainstate.BlockRecord) error {
	err := o.InsertHeader(record.ID, HeaderForBlock(record))
	if err != nil {
		return err
	}
	return o.InsertPayment(record.ID, MinerPayment{
		Recipient: chainstate.GenesisAccounts[record.Height%uint64(len(chainstate.GenesisAccounts))],
		Coinbase:  1_000,
		TxFees:    record.Writes,
	})
}
