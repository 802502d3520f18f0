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

package generator

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Operation -linecomment

// Operation identifies a primitive operation of the VM whose cost is measured.
// The name of an operation is also the benchmark group name.
type Operation uint8

const (
	OperationUnknown Operation = iota // unknown

	// arithmetic.
	OperationAdd // add
	OperationSub // sub
	OperationMul // mul
	OperationDiv // div
	OperationMod // mod

	// bitwise.
	OperationBitwiseAnd // bitwise-and
	OperationBitwiseOr  // bitwise-or
	OperationBitwiseXor // bitwise-xor
	OperationShiftLeft  // shift-left
	OperationShiftRight // shift-right

	// comparison.
	OperationLess         // less
	OperationLessEqual    // less-equal
	OperationGreater      // greater
	OperationGreaterEqual // greater-equal

	// logic.
	OperationAnd   // and
	OperationOr    // or
	OperationNot   // not
	OperationEqual // equal

	// hashing.
	OperationSHA2_256   // sha2-256
	OperationSHA3_256   // sha3-256
	OperationKECCAK_256 // keccak-256
	OperationSHA2_384   // sha2-384
	OperationSHA3_384   // sha3-384
	OperationHash160    // hash160

	// signatures.
	OperationSecp256k1Verify  // secp256k1-verify
	OperationSecp256k1Recover // secp256k1-recover
	OperationP256Verify       // p256-verify

	// fungible tokens.
	OperationFTDefine   // ft-define
	OperationFTMint     // ft-mint
	OperationFTTransfer // ft-transfer
	OperationFTBalance  // ft-balance
	OperationFTSupply   // ft-supply
	OperationFTBurn     // ft-burn

	// non-fungible tokens.
	OperationNFTMint     // nft-mint
	OperationNFTTransfer // nft-transfer
	OperationNFTOwner    // nft-owner
	OperationNFTBurn     // nft-burn

	// native token.
	OperationTokenTransfer // token-transfer
	OperationTokenBalance  // token-balance

	// tuples.
	OperationTupleGet   // tuple-get
	OperationTupleCons  // tuple-cons
	OperationTupleMerge // tuple-merge

	// optionals.
	OperationOptionalCheck   // optional-check
	OperationOptionalUnwrap  // optional-unwrap
	OperationOptionalDefault // optional-default

	// sequences.
	OperationListCons      // list-cons
	OperationListLength    // list-length
	OperationListElementAt // list-element-at
	OperationListConcat    // list-concat
	OperationListAppend    // list-append
	OperationListIndexOf   // list-index-of
	OperationListSlice     // list-slice

	// data.
	OperationVarGet    // var-get
	OperationVarSet    // var-set
	OperationMapGet    // map-get
	OperationMapSet    // map-set
	OperationMapInsert // map-insert
	OperationMapRemove // map-remove

	// host storage.
	OperationStorageGet // storage-get
	OperationStoragePut // storage-put

	// control.
	OperationIf           // if
	OperationLet          // let
	OperationScopeDepth   // scope-depth
	OperationFunctionCall // function-call

	// strings.
	OperationStringConcat // string-concat
	OperationStringLength // string-length
	OperationIntToString  // int-to-string
	OperationStringToInt  // string-to-int

	// conversions.
	OperationIntCast // int-cast

	// principals.
	OperationPrincipalOf     // principal-of
	OperationAddressToString // address-to-string
	OperationIsStandard      // is-standard

	// chain.
	OperationBlockInfo // block-info
	OperationTraitCall // trait-call

	// analysis-time operations, not measurable through a run-once closure.
	OperationContractDeploy // contract-deploy
	OperationMapCreate      // map-create
	OperationVarCreate      // var-create

	// NOTE: must be last.
	OperationCount // count
)

// AllOperations returns all known operations, in declaration order.
func AllOperations() []Operation {
	operations := make([]Operation, 0, OperationCount-1)
	for operation := OperationUnknown + 1; operation < OperationCount; operation++ {
		operations = append(operations, operation)
	}
	return operations
}

var operationsByName = func() map[string]Operation {
	result := make(map[string]Operation, OperationCount)
	for _, operation := range AllOperations() {
		result[operation.String()] = operation
	}
	return result
}()

// ParseOperation returns the operation with the given name.
func ParseOperation(name string) (Operation, error) {
	operation, ok := operationsByName[strings.TrimSpace(name)]
	if !ok {
		return OperationUnknown, &UnknownOperationError{
			Name:        name,
			Suggestions: suggestOperations(name, 3),
		}
	}
	return operation, nil
}

// suggestOperations returns up to max operation names closest to the given name.
func suggestOperations(name string, max int) []string {
	type candidate struct {
		name     string
		distance int
	}

	candidates := make([]candidate, 0, len(operationsByName))
	for _, operation := range AllOperations() {
		operationName := operation.String()
		distance := levenshtein.DistanceForStrings(
			[]rune(name),
			[]rune(operationName),
			levenshtein.DefaultOptions,
		)
		if distance > len(operationName)/2+1 {
			continue
		}
		candidates = append(candidates, candidate{
			name:     operationName,
			distance: distance,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}

	suggestions := make([]string, len(candidates))
	for i, candidate := range candidates {
		suggestions[i] = candidate.name
	}
	return suggestions
}
