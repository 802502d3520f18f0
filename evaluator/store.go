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

package evaluator

import (
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/onflow/atree"
	"github.com/onflow/cadence/common"
)

// AnalysisRecord is the persisted analysis of a program.
type AnalysisRecord struct {
	Location     string   `cbor:"1,keyasint"`
	CodeHash     []byte   `cbor:"2,keyasint"`
	Code         []byte   `cbor:"3,keyasint"`
	Declarations []string `cbor:"4,keyasint"`
}

var cborEncMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// AnalysisStore persists analyses of deployed programs in the ledger.
//
// Checked programs are kept in memory.
// Programs persisted by another process are analyzed again when they are first looked up.
type AnalysisStore struct {
	// Ledger is the ledger records are read from and written to.
	// It is replaced when a new block transaction begins.
	Ledger atree.Ledger

	analyzer *Analyzer

	mu       sync.Mutex
	analyses map[common.Location]*Analysis
}

func NewAnalysisStore(ledger atree.Ledger) *AnalysisStore {
	return &AnalysisStore{
		Ledger:   ledger,
		analyses: map[common.Location]*Analysis{},
	}
}

func analysisOwner(location common.Location) common.Address {
	if addressLocation, ok := location.(common.AddressLocation); ok {
		return addressLocation.Address
	}
	return common.ZeroAddress
}

func analysisKey(location common.Location) []byte {
	return []byte("analysis/" + string(location.ID()))
}

// Put persists the analysis.
func (s *AnalysisStore) Put(analysis *Analysis) error {
	codeHash := analysis.CodeHash()

	data, err := cborEncMode.Marshal(AnalysisRecord{
		Location:     string(analysis.Location.ID()),
		CodeHash:     codeHash[:],
		Code:         analysis.Code,
		Declarations: analysis.Declarations(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode analysis of %s: %w", analysis.Location, err)
	}

	owner := analysisOwner(analysis.Location)
	err = s.Ledger.SetValue(owner[:], analysisKey(analysis.Location), data)
	if err != nil {
		return fmt.Errorf("failed to persist analysis of %s: %w", analysis.Location, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[analysis.Location] = analysis

	return nil
}

// Record returns the persisted record of the program at the given location.
// A store without a ledger has no persisted records.
func (s *AnalysisStore) Record(location common.Location) (*AnalysisRecord, bool, error) {
	if s.Ledger == nil {
		return nil, false, nil
	}

	owner := analysisOwner(location)
	data, err := s.Ledger.GetValue(owner[:], analysisKey(location))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read analysis of %s: %w", location, err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}

	var record AnalysisRecord
	err = cbor.Unmarshal(data, &record)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode analysis of %s: %w", location, err)
	}
	return &record, true, nil
}

// Get returns the analysis of the program at the given location.
func (s *AnalysisStore) Get(location common.Location) (*Analysis, error) {
	s.mu.Lock()
	analysis, ok := s.analyses[location]
	s.mu.Unlock()
	if ok {
		return analysis, nil
	}

	record, ok, err := s.Record(location)
	if err != nil {
		return nil, err
	}
	if !ok || s.analyzer == nil {
		return nil, ImportNotFoundError{Location: location}
	}

	analysis, err = s.analyzer.Analyze(location, record.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze persisted %s: %w", location, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[location] = analysis

	return analysis, nil
}
