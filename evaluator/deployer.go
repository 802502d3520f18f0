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

	"github.com/onflow/cadence-benchmarking/chainstate"
	"github.com/onflow/cadence-benchmarking/host"
)

// Deployer deploys contracts: it analyzes them, persists the analysis,
// and then initializes them in a fresh context.
type Deployer struct {
	Analyzer *Analyzer
}

var _ chainstate.ContractDeployer = Deployer{}

// NewDeployer returns a deployer persisting analyses in the ledger of the deploying transaction.
func NewDeployer() Deployer {
	return Deployer{
		Analyzer: NewAnalyzer(NewAnalysisStore(nil)),
	}
}

func codeKey(name string) []byte {
	return []byte("code/" + name)
}

func (d Deployer) DeployContract(tx *chainstate.Tx, contract chainstate.Contract) error {
	store := d.Analyzer.Store()
	store.Ledger = tx

	location := contract.Location()
	code := []byte(contract.Code)

	analysis, err := d.Analyzer.Analyze(location, code)
	if err != nil {
		return fmt.Errorf("failed to deploy %s: %w", location, err)
	}

	err = store.Put(analysis)
	if err != nil {
		return err
	}

	err = tx.SetValue(contract.Address[:], codeKey(contract.Name), code)
	if err != nil {
		return fmt.Errorf("failed to deploy %s: %w", location, err)
	}

	env := host.NewEnvironment(tx)
	env.Logger = d.Analyzer.Logger

	err = NewContext(env, store).Load(analysis)
	if err != nil {
		return fmt.Errorf("failed to initialize %s: %w", location, err)
	}

	d.Analyzer.Logger.Info().
		Str("location", location.String()).
		Uint64("height", tx.Height()).
		Msg("deployed contract")

	return nil
}

// DeployedCode returns the code of the contract deployed to the address under the name.
func DeployedCode(tx *chainstate.Tx, contract chainstate.Contract) ([]byte, bool, error) {
	code, err := tx.GetValue(contract.Address[:], codeKey(contract.Name))
	if err != nil {
		return nil, false, err
	}
	return code, len(code) > 0, nil
}
