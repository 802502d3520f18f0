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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Store is a versioned key/value store.
//
// Writes happen in block-scoped transactions.
// Every committed write is kept as a version of its key at the height of its block,
// so the state at any height can be read back.
type Store struct {
	db   *leveldb.DB
	path string
}

const (
	prefixVersion byte = 'v'
	prefixBlock   byte = 'b'
	prefixHeight  byte = 'h'
)

var keyTip = []byte{'t'}

const (
	versionDeleted byte = iota
	versionPresent
)

var ErrNotTip = errors.New("parent is not the tip of the store")

var cborEncMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// Open opens or creates the store at the given path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	return &Store{
		db:   db,
		path: path,
	}, nil
}

// OpenMemory creates an empty in-memory store.
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}
	return &Store{db: db}, nil
}

// Path returns the path of the store, or the empty string for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BlockRecord describes a committed block.
type BlockRecord struct {
	ID     BlockIdentity `cbor:"1,keyasint"`
	Parent BlockIdentity `cbor:"2,keyasint"`
	Height uint64        `cbor:"3,keyasint"`
	Writes uint64        `cbor:"4,keyasint"`
}

func versionPrefix(key []byte) []byte {
	prefix := make([]byte, 0, 5+len(key))
	prefix = append(prefix, prefixVersion)
	prefix = binary.BigEndian.AppendUint32(prefix, uint32(len(key)))
	return append(prefix, key...)
}

func versionKey(key []byte, height uint64) []byte {
	return binary.BigEndian.AppendUint64(versionPrefix(key), height)
}

func blockKey(id BlockIdentity) []byte {
	return append([]byte{prefixBlock}, id[:]...)
}

func heightKey(height uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte{prefixHeight}, height)
}

// Get returns the latest committed version of the value of the given key.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	return s.getInRange(util.BytesPrefix(versionPrefix(key)))
}

// GetAt returns the version of the value of the given key visible at the given height.
func (s *Store) GetAt(key []byte, height uint64) ([]byte, bool, error) {
	return s.getInRange(&util.Range{
		Start: versionPrefix(key),
		Limit: versionKey(key, height+1),
	})
}

func (s *Store) getInRange(r *util.Range) ([]byte, bool, error) {
	iter := s.db.NewIterator(r, nil)
	defer iter.Release()

	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return nil, false, fmt.Errorf("Get %x: %w", r.Start, err)
		}
		return nil, false, nil
	}

	version := iter.Value()
	if len(version) == 0 || version[0] == versionDeleted {
		return nil, false, nil
	}

	value := make([]byte, len(version)-1)
	copy(value, version[1:])
	return value, true, nil
}

// Block returns the record of the block with the given identity.
func (s *Store) Block(id BlockIdentity) (BlockRecord, bool, error) {
	data, err := s.db.Get(blockKey(id), nil)
	if err == leveldb.ErrNotFound {
		return BlockRecord{}, false, nil
	}
	if err != nil {
		return BlockRecord{}, false, fmt.Errorf("Get block %s: %w", id, err)
	}

	var record BlockRecord
	err = cbor.Unmarshal(data, &record)
	if err != nil {
		return BlockRecord{}, false, fmt.Errorf("failed to decode block %s: %w", id, err)
	}
	return record, true, nil
}

// BlockAt returns the record of the block at the given height.
func (s *Store) BlockAt(height uint64) (BlockRecord, bool, error) {
	data, err := s.db.Get(heightKey(height), nil)
	if err == leveldb.ErrNotFound {
		return BlockRecord{}, false, nil
	}
	if err != nil {
		return BlockRecord{}, false, fmt.Errorf("Get height %d: %w", height, err)
	}
	id, ok := BlockIdentityFromBytes(data)
	if !ok {
		return BlockRecord{}, false, fmt.Errorf("invalid block identity at height %d", height)
	}
	return s.Block(id)
}

// Tip returns the record of the latest committed block.
// It returns false if no block has been committed yet.
func (s *Store) Tip() (BlockRecord, bool, error) {
	data, err := s.db.Get(keyTip, nil)
	if err == leveldb.ErrNotFound {
		return BlockRecord{}, false, nil
	}
	if err != nil {
		return BlockRecord{}, false, fmt.Errorf("Get tip: %w", err)
	}
	id, ok := BlockIdentityFromBytes(data)
	if !ok {
		return BlockRecord{}, false, fmt.Errorf("invalid tip %x", data)
	}
	return s.Block(id)
}

// Begin starts a transaction for the block with the given identity.
//
// The parent must be the tip of the store,
// or the sentinel identity if the store has no blocks yet.
func (s *Store) Begin(parent BlockIdentity, id BlockIdentity) (*Tx, error) {
	tip, ok, err := s.Tip()
	if err != nil {
		return nil, err
	}

	var height uint64
	switch {
	case !ok && parent.IsSentinel():
		height = 0
	case ok && tip.ID == parent:
		height = tip.Height + 1
	default:
		return nil, fmt.Errorf("failed to begin block %s on %s: %w", id, parent, ErrNotTip)
	}

	return &Tx{
		store:   s,
		id:      id,
		parent:  parent,
		height:  height,
		pending: map[string]pendingWrite{},
	}, nil
}

// BeginNext starts a transaction for the block after the tip.
// Its identity is derived from its height.
func (s *Store) BeginNext() (*Tx, error) {
	tip, ok, err := s.Tip()
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.Begin(SentinelBlockIdentity, NewBlockIdentity(0))
	}
	return s.Begin(tip.ID, NewBlockIdentity(uint32(tip.Height+1)))
}

// Entry is a raw key/value pair of the store.
type Entry struct {
	Key   []byte
	Value []byte
}

// Dump returns all raw entries of the store, in key order.
func (s *Store) Dump() ([]Entry, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	var entries []Entry
	for iter.Next() {
		entries = append(entries, Entry{
			Key:   bytes.Clone(iter.Key()),
			Value: bytes.Clone(iter.Value()),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to dump store: %w", err)
	}
	return entries, nil
}

// CountKeys returns the number of keys with the given prefix
// which have a present latest version.
func (s *Store) CountKeys(prefix []byte) (int, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{prefixVersion}), nil)
	defer iter.Release()

	var count int
	var current []byte
	var present bool

	// versions of a key are adjacent, ordered by height,
	// so the last version of each group is the latest
	flush := func() {
		if current != nil && present && bytes.HasPrefix(current, prefix) {
			count++
		}
	}

	for iter.Next() {
		raw := iter.Key()
		key := raw[5 : len(raw)-8]
		if !bytes.Equal(key, current) {
			flush()
			current = bytes.Clone(key)
		}
		value := iter.Value()
		present = len(value) > 0 && value[0] == versionPresent
	}
	flush()

	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("failed to count keys: %w", err)
	}
	return count, nil
}

type pendingWrite struct {
	value   []byte
	deleted bool
}

// Tx is a block-scoped transaction.
// Reads observe the transaction's own pending writes.
// A transaction is not safe for concurrent use.
type Tx struct {
	store   *Store
	id      BlockIdentity
	parent  BlockIdentity
	height  uint64
	pending map[string]pendingWrite
	done    bool
}

var ErrTxDone = errors.New("transaction has already been committed or rolled back")

func (tx *Tx) ID() BlockIdentity {
	return tx.id
}

func (tx *Tx) Parent() BlockIdentity {
	return tx.parent
}

func (tx *Tx) Height() uint64 {
	return tx.height
}

func (tx *Tx) Store() *Store {
	return tx.store
}

func (tx *Tx) Get(key []byte) ([]byte, bool, error) {
	if tx.done {
		return nil, false, ErrTxDone
	}
	if write, ok := tx.pending[string(key)]; ok {
		if write.deleted {
			return nil, false, nil
		}
		return bytes.Clone(write.value), true, nil
	}
	return tx.store.Get(key)
}

func (tx *Tx) Put(key []byte, value []byte) error {
	if tx.done {
		return ErrTxDone
	}
	tx.pending[string(key)] = pendingWrite{
		value: bytes.Clone(value),
	}
	return nil
}

func (tx *Tx) Delete(key []byte) error {
	if tx.done {
		return ErrTxDone
	}
	tx.pending[string(key)] = pendingWrite{
		deleted: true,
	}
	return nil
}

// PendingWrites returns the number of keys written by the transaction.
func (tx *Tx) PendingWrites() int {
	return len(tx.pending)
}

// CommitToBlock writes all pending writes as versions at the height of the transaction's block,
// and makes the block the tip of the store.
func (tx *Tx) CommitToBlock() (BlockRecord, error) {
	if tx.done {
		return BlockRecord{}, ErrTxDone
	}
	tx.done = true

	keys := make([]string, 0, len(tx.pending))
	for key := range tx.pending {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	batch := new(leveldb.Batch)
	for _, key := range keys {
		write := tx.pending[key]
		var version []byte
		if write.deleted {
			version = []byte{versionDeleted}
		} else {
			version = append([]byte{versionPresent}, write.value...)
		}
		batch.Put(versionKey([]byte(key), tx.height), version)
	}

	record := BlockRecord{
		ID:     tx.id,
		Parent: tx.parent,
		Height: tx.height,
		Writes: uint64(len(keys)),
	}
	encoded, err := cborEncMode.Marshal(record)
	if err != nil {
		return BlockRecord{}, fmt.Errorf("failed to encode block %s: %w", tx.id, err)
	}
	batch.Put(blockKey(tx.id), encoded)
	batch.Put(heightKey(tx.height), tx.id[:])
	batch.Put(keyTip, tx.id[:])

	err = tx.store.db.Write(batch, nil)
	if err != nil {
		return BlockRecord{}, fmt.Errorf("failed to commit block %s: %w", tx.id, err)
	}

	tx.pending = nil
	return record, nil
}

// Rollback discards all pending writes.
func (tx *Tx) Rollback() {
	tx.done = true
	tx.pending = nil
}
