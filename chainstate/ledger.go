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
	"encoding/binary"
	"fmt"

	"github.com/onflow/atree"
	"github.com/onflow/cadence/common"
)

const prefixLedger byte = 'l'

// slabIndexKey is the ledger key of the last slab index allocated for an owner.
var slabIndexKey = []byte("$slab_index")

func ledgerKey(owner, key []byte) []byte {
	result := make([]byte, 0, 5+len(owner)+len(key))
	result = append(result, prefixLedger)
	result = binary.BigEndian.AppendUint32(result, uint32(len(owner)))
	result = append(result, owner...)
	return append(result, key...)
}

var _ atree.Ledger = &Tx{}

func (tx *Tx) GetValue(owner, key []byte) ([]byte, error) {
	value, _, err := tx.Get(ledgerKey(owner, key))
	return value, err
}

func (tx *Tx) SetValue(owner, key, value []byte) error {
	if len(value) == 0 {
		return tx.Delete(ledgerKey(owner, key))
	}
	return tx.Put(ledgerKey(owner, key), value)
}

func (tx *Tx) ValueExists(owner, key []byte) (bool, error) {
	_, ok, err := tx.Get(ledgerKey(owner, key))
	return ok, err
}

func (tx *Tx) AllocateSlabIndex(owner []byte) (atree.SlabIndex, error) {
	var index atree.SlabIndex

	data, err := tx.GetValue(owner, slabIndexKey)
	if err != nil {
		return index, err
	}

	var next uint64
	if len(data) == len(index) {
		next = binary.BigEndian.Uint64(data)
	}
	next++

	binary.BigEndian.PutUint64(index[:], next)

	err = tx.SetValue(owner, slabIndexKey, index[:])
	if err != nil {
		return atree.SlabIndex{}, err
	}
	return index, nil
}

// StorageOwner is the ledger owner of host storage.
var StorageOwner = common.ZeroAddress

// StorageKey returns the ledger key of a host storage entry.
func StorageKey(key string) []byte {
	return append([]byte("storage/"), key...)
}

var balanceKey = []byte("balance")

// ReadBalance returns the native token balance of the account.
func ReadBalance(ledger atree.Ledger, address common.Address) (uint64, error) {
	data, err := ledger.GetValue(address[:], balanceKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance of %s: %w", address, err)
	}
	if len(data) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(data), nil
}

// WriteBalance sets the native token balance of the account.
func WriteBalance(ledger atree.Ledger, address common.Address, balance uint64) error {
	err := ledger.SetValue(address[:], balanceKey, binary.BigEndian.AppendUint64(nil, balance))
	if err != nil {
		return fmt.Errorf("failed to write balance of %s: %w", address, err)
	}
	return nil
}

// CreditAccount adds the amount to the native token balance of the account.
func CreditAccount(ledger atree.Ledger, address common.Address, amount uint64) error {
	balance, err := ReadBalance(ledger, address)
	if err != nil {
		return err
	}
	if balance+amount < balance {
		return fmt.Errorf("balance of %s overflows", address)
	}
	return WriteBalance(ledger, address, balance+amount)
}
