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

// Generator produces workloads.
// It is not safe for concurrent use, as it owns its source of randomness.
type Generator struct {
	fixtures *Fixtures
	random   *Random
}

// New returns a generator which takes its fixtures from the given cache.
func New(fixtures *Fixtures, random *Random) *Generator {
	if fixtures == nil {
		fixtures = NewFixtures()
	}
	if random == nil {
		random = NewRandom()
	}
	return &Generator{
		fixtures: fixtures,
		random:   random,
	}
}

// workloadBuilder is the state of a workload under construction.
type workloadBuilder struct {
	spec       WorkloadSpec
	setup      *setupProgram
	body       *block
	throughput uint64
}

type generateFunc func(g *Generator, b *workloadBuilder) error

// Family is a group of related operations.
type Family struct {
	Name       string
	Operations []Operation
}

var families = []Family{
	{"arithmetic", []Operation{OperationAdd, OperationSub, OperationMul, OperationDiv, OperationMod}},
	{"bitwise", []Operation{OperationBitwiseAnd, OperationBitwiseOr, OperationBitwiseXor, OperationShiftLeft, OperationShiftRight}},
	{"comparison", []Operation{OperationLess, OperationLessEqual, OperationGreater, OperationGreaterEqual}},
	{"logic", []Operation{OperationAnd, OperationOr, OperationNot, OperationEqual}},
	{"hashing", []Operation{OperationSHA2_256, OperationSHA3_256, OperationKECCAK_256, OperationSHA2_384, OperationSHA3_384, OperationHash160}},
	{"signatures", []Operation{OperationSecp256k1Verify, OperationSecp256k1Recover, OperationP256Verify}},
	{"fungible tokens", []Operation{OperationFTDefine, OperationFTMint, OperationFTTransfer, OperationFTBalance, OperationFTSupply, OperationFTBurn}},
	{"non-fungible tokens", []Operation{OperationNFTMint, OperationNFTTransfer, OperationNFTOwner, OperationNFTBurn}},
	{"native token", []Operation{OperationTokenTransfer, OperationTokenBalance}},
	{"tuples", []Operation{OperationTupleGet, OperationTupleCons, OperationTupleMerge}},
	{"optionals", []Operation{OperationOptionalCheck, OperationOptionalUnwrap, OperationOptionalDefault}},
	{"sequences", []Operation{OperationListCons, OperationListLength, OperationListElementAt, OperationListConcat, OperationListAppend, OperationListIndexOf, OperationListSlice}},
	{"data", []Operation{OperationVarGet, OperationVarSet, OperationMapGet, OperationMapSet, OperationMapInsert, OperationMapRemove}},
	{"host storage", []Operation{OperationStorageGet, OperationStoragePut}},
	{"control", []Operation{OperationIf, OperationLet, OperationScopeDepth, OperationFunctionCall}},
	{"strings", []Operation{OperationStringConcat, OperationStringLength, OperationIntToString, OperationStringToInt}},
	{"conversions", []Operation{OperationIntCast}},
	{"principals", []Operation{OperationPrincipalOf, OperationAddressToString, OperationIsStandard}},
	{"chain", []Operation{OperationBlockInfo, OperationTraitCall}},
	{"analysis", []Operation{OperationContractDeploy, OperationMapCreate, OperationVarCreate}},
}

// Families returns the operation families, in declaration order.
func Families() []Family {
	return families
}

var generators = map[Operation]generateFunc{
	OperationAdd: generateArithmetic("+"),
	OperationSub: generateArithmetic("-"),
	OperationMul: generateArithmetic("*"),
	OperationDiv: generateArithmetic("/"),
	OperationMod: generateArithmetic("%"),

	OperationBitwiseAnd: generateBitwise("&"),
	OperationBitwiseOr:  generateBitwise("|"),
	OperationBitwiseXor: generateBitwise("^"),
	OperationShiftLeft:  generateShift("<<"),
	OperationShiftRight: generateShift(">>"),

	OperationLess:         generateComparison("<"),
	OperationLessEqual:    generateComparison("<="),
	OperationGreater:      generateComparison(">"),
	OperationGreaterEqual: generateComparison(">="),

	OperationAnd:   generateLogic("&&"),
	OperationOr:    generateLogic("||"),
	OperationNot:   generateNot,
	OperationEqual: generateLogic("=="),

	OperationSHA2_256:   generateHash("sha2_256"),
	OperationSHA3_256:   generateHash("sha3_256"),
	OperationKECCAK_256: generateHash("keccak_256"),
	OperationSHA2_384:   generateHash("sha2_384"),
	OperationSHA3_384:   generateHash("sha3_384"),
	OperationHash160:    generateHash("hash160"),

	OperationSecp256k1Verify:  generateSecp256k1Verify,
	OperationSecp256k1Recover: generateSecp256k1Recover,
	OperationP256Verify:       generateP256Verify,

	OperationFTDefine:   generateFTDefine,
	OperationFTMint:     generateFTMint,
	OperationFTTransfer: generateFTTransfer,
	OperationFTBalance:  generateFTBalance,
	OperationFTSupply:   generateFTSupply,
	OperationFTBurn:     generateFTBurn,

	OperationNFTMint:     generateNFTMint,
	OperationNFTTransfer: generateNFTTransfer,
	OperationNFTOwner:    generateNFTOwner,
	OperationNFTBurn:     generateNFTBurn,

	OperationTokenTransfer: generateTokenTransfer,
	OperationTokenBalance:  generateTokenBalance,

	OperationTupleGet:   generateTupleGet,
	OperationTupleCons:  generateTupleCons,
	OperationTupleMerge: generateTupleMerge,

	OperationOptionalCheck:   generateOptionalCheck,
	OperationOptionalUnwrap:  generateOptionalUnwrap,
	OperationOptionalDefault: generateOptionalDefault,

	OperationListCons:      generateListCons,
	OperationListLength:    generateListMember(".length"),
	OperationListElementAt: generateListElementAt,
	OperationListConcat:    generateListMember(".concat(testList)"),
	OperationListAppend:    generateListAppend,
	OperationListIndexOf:   generateListIndexOf,
	OperationListSlice:     generateListSlice,

	OperationVarGet:    generateVarGet,
	OperationVarSet:    generateVarSet,
	OperationMapGet:    generateMapGet,
	OperationMapSet:    generateMapSet,
	OperationMapInsert: generateMapInsert,
	OperationMapRemove: generateMapRemove,

	OperationStorageGet: generateStorageGet,
	OperationStoragePut: generateStoragePut,

	OperationIf:           generateIf,
	OperationLet:          generateLet,
	OperationScopeDepth:   generateScopeDepth,
	OperationFunctionCall: generateFunctionCall,

	OperationStringConcat: generateStringConcat,
	OperationStringLength: generateStringLength,
	OperationIntToString:  generateIntToString,
	OperationStringToInt:  generateStringToInt,

	OperationIntCast: generateIntCast,

	OperationPrincipalOf:     generatePrincipalOf,
	OperationAddressToString: generateAddressToString,
	OperationIsStandard:      generateIsStandard,

	OperationBlockInfo: generateBlockInfo,
	OperationTraitCall: generateTraitCall,
}

// HasGenerator returns true if workloads can be generated for the operation.
func (op Operation) HasGenerator() bool {
	_, ok := generators[op]
	return ok
}

// Family returns the name of the family of the operation.
func (op Operation) Family() string {
	for _, family := range families {
		for _, operation := range family.Operations {
			if operation == op {
				return family.Name
			}
		}
	}
	return ""
}

// Generate produces the workload for the given spec.
//
// An operation without a generator results in a NotImplementedError.
func (g *Generator) Generate(spec WorkloadSpec) (*Workload, error) {
	generate, ok := generators[spec.Operation]
	if !ok {
		return nil, &NotImplementedError{
			Operation: spec.Operation,
		}
	}

	if spec.Scale == 0 {
		return nil, &InvalidWorkloadSpecError{
			Spec:   spec,
			Reason: "scale must be at least 1",
		}
	}

	builder := &workloadBuilder{
		spec:       spec,
		setup:      newSetupProgram(),
		body:       newBlock(1),
		throughput: max(spec.Size, 1),
	}

	err := generate(g, builder)
	if err != nil {
		return nil, err
	}

	return &Workload{
		Spec:             spec,
		Setup:            builder.setup.render(),
		HasSetupFunction: builder.setup.hasFunction(),
		Program:          renderTestFunction(builder.body),
		Throughput:       builder.throughput,
	}, nil
}

// repeat calls f once for each application of the operation.
func (b *workloadBuilder) repeat(f func(i uint64)) {
	for i := uint64(0); i < b.spec.Scale; i++ {
		f(i)
	}
}
