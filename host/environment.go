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

package host

import (
	"github.com/onflow/atree"
	"github.com/rs/zerolog"

	"github.com/onflow/cadence-benchmarking/chainstate"
	"github.com/onflow/cadence-benchmarking/headers"
)

// BlockIndex resolves block heights to blocks.
type BlockIndex interface {
	BlockAt(height uint64) (chainstate.BlockRecord, bool, error)
}

// Environment is the state intrinsics operate on.
// Asset and storage state lives in the ledger.
type Environment struct {
	Ledger atree.Ledger
	// Headers answers block info lookups.
	// If nil, answers are derived from the block identity.
	Headers headers.Oracle
	// Blocks resolves heights of block info lookups to block identities.
	// If nil, identities are derived from the height.
	Blocks BlockIndex
	Logger zerolog.Logger
}

// NewEnvironment returns an environment operating on the given ledger.
func NewEnvironment(ledger atree.Ledger) *Environment {
	return &Environment{
		Ledger:  ledger,
		Headers: headers.DerivedOracle{},
		Logger:  zerolog.Nop(),
	}
}

func (env *Environment) headerOracle() headers.Oracle {
	if env.Headers == nil {
		return headers.DerivedOracle{}
	}
	return env.Headers
}
