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

package driver

import (
	"fmt"

	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/interpreter"
	"github.com/rs/zerolog"

	"github.com/onflow/cadence-benchmarking/bridge"
	"github.com/onflow/cadence-benchmarking/chainstate"
	"github.com/onflow/cadence-benchmarking/evaluator"
	"github.com/onflow/cadence-benchmarking/generator"
	"github.com/onflow/cadence-benchmarking/headers"
	"github.com/onflow/cadence-benchmarking/host"
)

// Case is one sweep point of a benchmark: a generated workload measured through a backend.
//
// A case moves through its states in order:
// BuildContext, Parse, ApplySetup, and Measure.
// A failing step moves the case to StateFailed, and calling a step out of order panics.
type Case struct {
	Workload *generator.Workload
	Backend  Backend
	// Headers answers block info lookups. If nil, answers are derived from block identities.
	Headers      headers.Oracle
	BridgeConfig bridge.Config
	Logger       zerolog.Logger

	state         State
	err           error
	location      common.Location
	analysisStore *evaluator.AnalysisStore
	context       *evaluator.Context
	analysis      *evaluator.Analysis
	bridge        *bridge.Bridge
	runOnce       RunOnceFunc
}

func NewCase(workload *generator.Workload, backend Backend) *Case {
	return &Case{
		Workload:     workload,
		Backend:      backend,
		BridgeConfig: bridge.DefaultConfig(),
		Logger:       zerolog.Nop(),
		location:     common.StringLocation(fmt.Sprintf("%s-%d", workload.Spec.Operation, workload.Spec.Size)),
	}
}

func (c *Case) State() State {
	return c.state
}

// Err returns the error which failed the case, if any.
func (c *Case) Err() error {
	return c.err
}

func (c *Case) Location() common.Location {
	return c.location
}

// Analysis returns the checked program of the workload, once the case is parsed.
func (c *Case) Analysis() *evaluator.Analysis {
	return c.analysis
}

func (c *Case) transition(to State) {
	if !c.state.canTransition(to) {
		panic(IllegalTransitionError{
			From: c.state,
			To:   to,
		})
	}

	c.Logger.Trace().
		Str("from", c.state.String()).
		Str("to", to.String()).
		Msg("case transition")

	c.state = to
}

// expect panics if the case is not in the given state.
func (c *Case) expect(state State, next State) {
	if c.state != state {
		panic(IllegalTransitionError{
			From: c.state,
			To:   next,
		})
	}
}

func (c *Case) fail(err error) error {
	c.err = err
	c.transition(StateFailed)
	return err
}

// BuildContext builds the evaluation context of the case
// on a new block transaction of the store.
func (c *Case) BuildContext(store *chainstate.Store) error {
	c.expect(StateUninitialized, StateContextBuilt)

	tx, err := store.BeginNext()
	if err != nil {
		return c.fail(err)
	}

	env := host.NewEnvironment(tx)
	env.Blocks = store
	if c.Headers != nil {
		env.Headers = c.Headers
	}
	env.Logger = c.Logger

	c.analysisStore = evaluator.NewAnalysisStore(tx)
	c.context = evaluator.NewContext(env, c.analysisStore)
	c.context.Logger = c.Logger

	c.transition(StateContextBuilt)
	return nil
}

// Parse parses and checks the program of the workload.
// For the WASM backend, the program is also compiled to a module.
func (c *Case) Parse() error {
	c.expect(StateContextBuilt, StateParsed)

	source := []byte(c.Workload.Source())

	var analysis *evaluator.Analysis
	var err error

	switch c.Backend {
	case BackendInterpreter:
		analyzer := evaluator.NewAnalyzer(c.analysisStore)
		analyzer.Logger = c.Logger
		analysis, err = analyzer.Analyze(c.location, source)

	case BackendWasm:
		analysis, err = bridge.Compile(c.context, c.analysisStore, c.location, source)

	default:
		err = fmt.Errorf("unsupported backend %s", c.Backend)
	}
	if err != nil {
		return c.fail(err)
	}

	c.analysis = analysis
	c.transition(StateParsed)
	return nil
}

// ApplySetup evaluates the setup function of the workload, if any,
// and prepares the run-once function of the backend.
func (c *Case) ApplySetup() error {
	c.expect(StateParsed, StateSetupApplied)

	if c.Backend == BackendInterpreter || c.Workload.HasSetupFunction {
		err := c.context.Load(c.analysis)
		if err != nil {
			return c.fail(err)
		}
	}

	if c.Workload.HasSetupFunction {
		_, err := c.context.Invoke(generator.SetupFunctionName)
		if err != nil {
			return c.fail(err)
		}
		c.transition(StateSetupApplied)
	}

	switch c.Backend {
	case BackendInterpreter:
		c.runOnce = c.interpret

	case BackendWasm:
		loaded, err := bridge.LoadModule(c.context, c.BridgeConfig)
		if err != nil {
			return c.fail(err)
		}
		if !loaded.Succeeded() {
			return c.fail(&UnexpectedResultError{
				Location: c.location,
				Result:   fmt.Sprint(loaded.Results()),
			})
		}
		c.bridge = loaded
		c.runOnce = c.runTopLevel
	}

	return nil
}

// Prepare builds the context, parses the program, and applies the setup.
func (c *Case) Prepare(store *chainstate.Store) error {
	err := c.BuildContext(store)
	if err != nil {
		return err
	}
	err = c.Parse()
	if err != nil {
		return err
	}
	return c.ApplySetup()
}

func (c *Case) interpret() error {
	result, err := c.context.Invoke(generator.TestFunctionName)
	if err != nil {
		return err
	}
	if result != interpreter.TrueValue {
		return &UnexpectedResultError{
			Location: c.location,
			Result:   fmt.Sprint(result),
		}
	}
	return nil
}

func (c *Case) runTopLevel() error {
	err := c.bridge.RunTopLevel()
	if err != nil {
		return err
	}
	if !c.bridge.Succeeded() {
		return &UnexpectedResultError{
			Location: c.location,
			Result:   fmt.Sprint(c.bridge.Results()),
		}
	}
	return nil
}

// RunOnce runs the measured function once.
// The case must be prepared.
func (c *Case) RunOnce() error {
	if c.runOnce == nil {
		panic(IllegalTransitionError{
			From: c.state,
			To:   StateMeasuring,
		})
	}
	return c.runOnce()
}

// Measure samples the run-once function of the prepared case.
func (c *Case) Measure(sampler Sampler) (*Samples, error) {
	c.transition(StateMeasuring)

	samples, err := sampler.Sample(c.Workload.Throughput, c.runOnce)
	if err != nil {
		return nil, c.fail(err)
	}

	c.transition(StateReported)
	return samples, nil
}

// Close discards the writes of the case.
func (c *Case) Close() {
	if c.context == nil {
		return
	}
	if tx, ok := c.context.Ledger().(*chainstate.Tx); ok {
		tx.Rollback()
	}
}
