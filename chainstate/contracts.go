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
	"github.com/onflow/cadence/common"
)

// Contract is a program deployed to an account.
// Its name is the name of its sole declaration.
type Contract struct {
	Address common.Address
	Name    string
	Code    string
}

// Location returns the location of the contract.
func (c Contract) Location() common.AddressLocation {
	return common.AddressLocation{
		Address: c.Address,
		Name:    c.Name,
	}
}

// ContractDeployer deploys contracts within a transaction:
// it analyzes the contract, persists the analysis, and then initializes it.
type ContractDeployer interface {
	DeployContract(tx *Tx, contract Contract) error
}

// TraitContractsAddress is the account the trait contracts are deployed to.
var TraitContractsAddress = common.MustBytesToAddress([]byte{0x1})

// TraitContracts returns the contracts used to measure calls through a trait:
// the trait definer, the trait implementer, and the trait user.
func TraitContracts() []Contract {
	return []Contract{
		{
			Address: TraitContractsAddress,
			Name:    "Trait",
			Code: `
              access(all) struct interface Trait {
                  access(all) fun get(): Int
              }
            `,
		},
		{
			Address: TraitContractsAddress,
			Name:    "TraitImpl",
			Code: `
              import Trait from 0x1

              access(all) struct TraitImpl: Trait {
                  access(all) fun get(): Int {
                      return 42
                  }
              }
            `,
		},
		{
			Address: TraitContractsAddress,
			Name:    "callTrait",
			Code: `
              import Trait, TraitImpl from 0x1

              access(all) fun callTrait(): Int {
                  let value: {Trait} = TraitImpl()
                  return value.get()
              }
            `,
		},
	}
}
