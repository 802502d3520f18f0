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
	"github.com/onflow/atree"
	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/interpreter"
	"github.com/rs/zerolog"

	"github.com/onflow/cadence-benchmarking/host"
)

// ContractContext is the execution context of a contract compiled to a module.
type ContractContext struct {
	Location   common.Location
	Module     []byte
	SourceHash [32]byte
	// DataSize is the size of the module's data segments.
	DataSize uint64
}

// Context is the context programs are evaluated in.
//
// No computation or memory gauges are attached, so evaluation is free:
// measurements are not skewed by the cost accounting of the VM.
type Context struct {
	Environment *host.Environment
	Store       *AnalysisStore
	// Contract is set once the loaded program is compiled to a module.
	Contract *ContractContext
	Logger   zerolog.Logger

	storage     *interpreter.InMemoryStorage
	interpreter *interpreter.Interpreter
	analysis    *Analysis
	uuid        uint64
}

// NewContext returns a context in which intrinsics operate on the given environment,
// and imports are resolved through the given store.
func NewContext(env *host.Environment, store *AnalysisStore) *Context {
	storage := interpreter.NewInMemoryStorage(nil)
	return &Context{
		Environment: env,
		Store:       store,
		Logger:      zerolog.Nop(),
		storage:     &storage,
	}
}

// Ledger returns the ledger the context operates on.
func (c *Context) Ledger() atree.Ledger {
	return c.Environment.Ledger
}

// SetLedger replaces the ledger of the environment and the analysis store,
// e.g. when a new block transaction begins.
func (c *Context) SetLedger(ledger atree.Ledger) {
	c.Environment.Ledger = ledger
	c.Store.Ledger = ledger
}

// Analysis returns the loaded program.
func (c *Context) Analysis() *Analysis {
	return c.analysis
}

func (c *Context) config() *interpreter.Config {
	baseActivation := newBaseActivation(c.Environment)

	return &interpreter.Config{
		Storage: c.storage,
		BaseActivationHandler: func(_ common.Location) *interpreter.VariableActivation {
			return baseActivation
		},
		ImportLocationHandler: func(inter *interpreter.Interpreter, location common.Location) interpreter.Import {
			analysis, err := c.Store.Get(location)
			if err != nil {
				panic(err)
			}

			subInterpreter, err := inter.NewSubInterpreter(
				interpreter.ProgramFromChecker(analysis.Checker),
				location,
			)
			if err != nil {
				panic(err)
			}

			return interpreter.InterpreterImport{
				Interpreter: subInterpreter,
			}
		},
		UUIDHandler: func() (uint64, error) {
			c.uuid++
			return c.uuid, nil
		},
	}
}

// Load evaluates the top-level declarations of the program,
// making its functions available for invocation.
func (c *Context) Load(analysis *Analysis) error {
	inter, err := interpreter.NewInterpreter(
		interpreter.ProgramFromChecker(analysis.Checker),
		analysis.Location,
		c.config(),
	)
	if err != nil {
		return err
	}

	err = inter.Interpret()
	if err != nil {
		return err
	}

	c.interpreter = inter
	c.analysis = analysis

	c.Logger.Debug().
		Str("location", analysis.Location.String()).
		Msg("loaded program")

	return nil
}

// Invoke invokes the top-level function of the loaded program.
func (c *Context) Invoke(name string) (interpreter.Value, error) {
	if c.interpreter == nil {
		return nil, NotLoadedError{}
	}
	return c.interpreter.Invoke(name)
}
