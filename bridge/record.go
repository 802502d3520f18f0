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

package bridge

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/onflow/atree"
	"github.com/onflow/cadence/common"
)

// ModuleRecord is the persisted footprint of a compiled contract.
type ModuleRecord struct {
	Location   string `cbor:"1,keyasint"`
	SourceHash []byte `cbor:"2,keyasint"`
	DataSize   uint64 `cbor:"3,keyasint"`
	ModuleSize uint64 `cbor:"4,keyasint"`
}

var cborEncMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

func recordOwner(location common.Location) common.Address {
	if addressLocation, ok := location.(common.AddressLocation); ok {
		return addressLocation.Address
	}
	return common.ZeroAddress
}

func recordKey(location common.Location) []byte {
	return []byte("module/" + string(location.ID()))
}

// WriteModuleRecord persists the record of the contract at the given location.
func WriteModuleRecord(ledger atree.Ledger, location common.Location, record ModuleRecord) error {
	data, err := cborEncMode.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode module record of %s: %w", location, err)
	}
	owner := recordOwner(location)
	return ledger.SetValue(owner[:], recordKey(location), data)
}

// ReadModuleRecord returns the record of the contract at the given location, if any.
func ReadModuleRecord(ledger atree.Ledger, location common.Location) (ModuleRecord, bool, error) {
	owner := recordOwner(location)
	data, err := ledger.GetValue(owner[:], recordKey(location))
	if err != nil {
		return ModuleRecord{}, false, err
	}
	if len(data) == 0 {
		return ModuleRecord{}, false, nil
	}

	var record ModuleRecord
	err = cbor.Unmarshal(data, &record)
	if err != nil {
		return ModuleRecord{}, false, fmt.Errorf("failed to decode module record of %s: %w", location, err)
	}
	return record, true, nil
}
