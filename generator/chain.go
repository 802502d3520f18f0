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

// BlockInfoProperties are the properties of a block the header oracle can look up.
var BlockInfoProperties = []string{
	"header-hash",
	"burnchain-header-hash",
	"time",
	"burnchain-height",
	"miner-address",
	"vrf-seed",
}

// blockInfoMaxHeight is the height of the tip of the warmed store.
const blockInfoMaxHeight = 10

func generateBlockInfo(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add(
			"let %s = blockInfo(%d, %q)",
			b.body.fresh("r"),
			g.random.Uint64N(blockInfoMaxHeight+1),
			BlockInfoProperties[g.random.IntN(len(BlockInfoProperties))],
		)
	})
	b.throughput = 1
	return nil
}

// TraitContractsAddress is the address of the account
// the bootstrap deploys the trait contracts to.
var TraitContractsAddress = [8]byte{7: 0x01}

// TraitUserFunctionName is the name of the function
// of the trait user contract deployed by the bootstrap.
const TraitUserFunctionName = "callTrait"

func generateTraitCall(_ *Generator, b *workloadBuilder) error {
	b.setup.addImport("import %s from %s", TraitUserFunctionName, addressLiteral(TraitContractsAddress))
	b.repeat(func(_ uint64) {
		b.body.add("let %s = %s()", b.body.fresh("r"), TraitUserFunctionName)
	})
	b.throughput = 1
	return nil
}
