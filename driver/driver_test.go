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
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/onflow/cadence/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/cadence-benchmarking/bridge"
	"github.com/onflow/cadence-benchmarking/chainstate"
	"github.com/onflow/cadence-benchmarking/evaluator"
	"github.com/onflow/cadence-benchmarking/generator"
	. "github.com/onflow/cadence-benchmarking/test_utils/common_utils"
)

func newTestStore(t testing.TB) *chainstate.Store {
	return NewWarmedStore(t, evaluator.NewDeployer())
}

func generate(t testing.TB, operation generator.Operation, size uint64) *generator.Workload {
	workload, err := generator.New(nil, nil).Generate(generator.WorkloadSpec{
		Operation: operation,
		Scale:     2,
		Size:      size,
	})
	require.NoError(t, err)
	return workload
}

func newTestBootstrapper(t testing.TB) *chainstate.Bootstrapper {
	dir := t.TempDir()
	return &chainstate.Bootstrapper{
		CacheDir:   filepath.Join(dir, "cache"),
		ScratchDir: filepath.Join(dir, "scratch"),
		Blocks:     4,
		BlockKeys:  2,
		Deployer:   evaluator.NewDeployer(),
	}
}

var testSampler = FixedSampler{
	Rounds:     2,
	Iterations: 3,
}

func TestStateTransitions(t *testing.T) {

	t.Parallel()

	assert.True(t, StateUninitialized.canTransition(StateContextBuilt))
	assert.True(t, StateParsed.canTransition(StateSetupApplied))
	assert.True(t, StateParsed.canTransition(StateMeasuring))
	assert.True(t, StateSetupApplied.canTransition(StateMeasuring))
	assert.True(t, StateMeasuring.canTransition(StateReported))
	assert.True(t, StateMeasuring.canTransition(StateFailed))
	assert.True(t, StateUninitialized.canTransition(StateFailed))

	assert.False(t, StateUninitialized.canTransition(StateParsed))
	assert.False(t, StateContextBuilt.canTransition(StateMeasuring))
	assert.False(t, StateReported.canTransition(StateMeasuring))
	assert.False(t, StateReported.canTransition(StateFailed))
	assert.False(t, StateFailed.canTransition(StateFailed))

	assert.Equal(t, "setup-applied", StateSetupApplied.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func TestBackends(t *testing.T) {

	t.Parallel()

	for _, backend := range Backends() {
		parsed, err := ParseBackend(backend.String())
		require.NoError(t, err)
		assert.Equal(t, backend, parsed)
	}

	backend, err := ParseBackend(" WASM ")
	require.NoError(t, err)
	assert.Equal(t, BackendWasm, backend)

	_, err = ParseBackend("jit")
	require.Error(t, err)
}

func TestCase(t *testing.T) {

	t.Parallel()

	for _, backend := range Backends() {
		backend := backend

		t.Run(backend.String(), func(t *testing.T) {

			t.Parallel()

			c := NewCase(generate(t, generator.OperationAdd, 4), backend)
			defer c.Close()

			require.NoError(t, c.Prepare(newTestStore(t)))
			assert.Equal(t, StateParsed, c.State())

			require.NoError(t, c.RunOnce())

			samples, err := c.Measure(testSampler)
			require.NoError(t, err)
			assert.Len(t, samples.NsPerOp, 2)
			assert.Equal(t, 6, samples.Iterations)
			assert.Equal(t, StateReported, c.State())
			assert.NoError(t, c.Err())
		})
	}
}

func TestCaseWorkloads(t *testing.T) {

	t.Parallel()

	for _, backend := range Backends() {
		for _, operation := range []generator.Operation{
			generator.OperationAdd,
			generator.OperationSHA3_256,
			generator.OperationFTBalance,
			generator.OperationStoragePut,
		} {
			backend := backend
			operation := operation

			t.Run(backend.String()+"/"+operation.String(), func(t *testing.T) {

				t.Parallel()

				c := NewCase(generate(t, operation, 8), backend)
				defer c.Close()

				require.NoError(t, c.Prepare(newTestStore(t)))
				require.NotNil(t, c.Analysis())

				samples, err := c.Measure(FixedSampler{Rounds: 1, Iterations: 2})
				require.NoError(t, err)
				assert.Len(t, samples.NsPerOp, 1)
				assert.Equal(t, StateReported, c.State())
			})
		}
	}
}

// programShape counts the parts of a program which determine its cost.
type programShape struct {
	Functions         int
	Statements        int
	BinaryExpressions int
	Literals          int
}

func shapeOf(program *ast.Program) programShape {
	var shape programShape
	for _, function := range program.FunctionDeclarations() {
		shape.Functions++
		for _, statement := range function.FunctionBlock.Block.Statements {
			shape.Statements++
			switch statement := statement.(type) {
			case *ast.VariableDeclaration:
				shape.addExpression(statement.Value)
			case *ast.ReturnStatement:
				if statement.Expression != nil {
					shape.addExpression(statement.Expression)
				}
			}
		}
	}
	return shape
}

func (s *programShape) addExpression(expression ast.Expression) {
	switch expression := expression.(type) {
	case *ast.BinaryExpression:
		s.BinaryExpressions++
		s.addExpression(expression.Left)
		s.addExpression(expression.Right)
	case *ast.UnaryExpression:
		s.addExpression(expression.Expression)
	case *ast.CastingExpression:
		s.addExpression(expression.Expression)
	case *ast.IntegerExpression:
		s.Literals++
	}
}

func TestCaseStoresAgree(t *testing.T) {

	t.Parallel()

	workload := generate(t, generator.OperationAdd, 8)

	inMemory := NewCase(workload, BackendInterpreter)
	defer inMemory.Close()
	require.NoError(t, inMemory.Prepare(newTestStore(t)))

	store, err := newTestBootstrapper(t).Bootstrap(context.Background(), 100)
	require.NoError(t, err)
	defer store.Close()

	warmed := NewCase(workload, BackendInterpreter)
	defer warmed.Close()
	require.NoError(t, warmed.Prepare(store))

	shape := shapeOf(inMemory.Analysis().Program)

	// two applications of seven additions over eight operands each
	assert.Equal(
		t,
		programShape{
			Functions:         1,
			Statements:        3,
			BinaryExpressions: 14,
			Literals:          16,
		},
		shape,
	)
	assert.Equal(t, shape, shapeOf(warmed.Analysis().Program))
}

func TestCaseSetup(t *testing.T) {

	t.Parallel()

	for _, backend := range Backends() {
		backend := backend

		t.Run(backend.String(), func(t *testing.T) {

			t.Parallel()

			workload := generate(t, generator.OperationFTTransfer, 4)
			require.True(t, workload.HasSetupFunction)

			c := NewCase(workload, backend)
			defer c.Close()

			require.NoError(t, c.Prepare(newTestStore(t)))
			assert.Equal(t, StateSetupApplied, c.State())

			_, err := c.Measure(testSampler)
			require.NoError(t, err)
			assert.Equal(t, StateReported, c.State())
		})
	}
}

func TestCaseIllegalTransitions(t *testing.T) {

	t.Parallel()

	t.Run("parse before context", func(t *testing.T) {

		t.Parallel()

		c := NewCase(generate(t, generator.OperationAdd, 1), BackendInterpreter)

		assert.PanicsWithValue(t,
			IllegalTransitionError{
				From: StateUninitialized,
				To:   StateParsed,
			},
			func() {
				_ = c.Parse()
			},
		)
	})

	t.Run("run before setup", func(t *testing.T) {

		t.Parallel()

		c := NewCase(generate(t, generator.OperationAdd, 1), BackendInterpreter)
		require.NoError(t, c.BuildContext(newTestStore(t)))
		defer c.Close()

		assert.Panics(t, func() {
			_ = c.RunOnce()
		})
	})

	t.Run("measure twice", func(t *testing.T) {

		t.Parallel()

		c := NewCase(generate(t, generator.OperationAdd, 1), BackendInterpreter)
		require.NoError(t, c.Prepare(newTestStore(t)))
		defer c.Close()

		_, err := c.Measure(testSampler)
		require.NoError(t, err)

		assert.PanicsWithValue(t,
			IllegalTransitionError{
				From: StateReported,
				To:   StateMeasuring,
			},
			func() {
				_, _ = c.Measure(testSampler)
			},
		)
	})
}

func TestCaseCompileError(t *testing.T) {

	t.Parallel()

	c := NewCase(generate(t, generator.OperationListLength, 4), BackendWasm)
	defer c.Close()

	err := c.Prepare(newTestStore(t))

	var compileErr *bridge.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, StateFailed, c.State())
	assert.Same(t, compileErr, c.Err())
}

func TestFixedSampler(t *testing.T) {

	t.Parallel()

	var calls int
	samples, err := FixedSampler{Rounds: 3, Iterations: 5}.Sample(1, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 15, calls)
	assert.Equal(t, 15, samples.Iterations)
	assert.Len(t, samples.NsPerOp, 3)

	expected := errors.New("failed")
	_, err = FixedSampler{}.Sample(1, func() error {
		return expected
	})
	assert.ErrorIs(t, err, expected)
}

func TestBenchmarkSampler(t *testing.T) {

	t.Parallel()

	var calls int
	samples, err := BenchmarkSampler{Rounds: 1, Repetitions: 2}.Sample(8, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Len(t, samples.NsPerOp, 1)
	assert.Equal(t, calls, samples.Iterations)
	assert.Zero(t, samples.Iterations%2)

	expected := errors.New("failed")
	_, err = BenchmarkSampler{}.Sample(8, func() error {
		return expected
	})
	assert.ErrorIs(t, err, expected)
}

func TestDriverRun(t *testing.T) {

	t.Parallel()

	d := New(generator.New(nil, nil), testSampler)

	var reported int
	d.OnResult = func(_ *Result) {
		reported++
	}

	result, err := d.Run(
		context.Background(),
		Sweep{
			Operations: []generator.Operation{
				generator.OperationAdd,
				generator.OperationListLength,
			},
			Sizes:   []uint64{1, 4},
			Scale:   2,
			Backend: BackendWasm,
		},
	)
	require.NoError(t, err)

	require.Len(t, result.Results, 4)
	assert.Equal(t, 4, reported)

	assert.True(t, result.Complete(generator.OperationAdd))
	assert.False(t, result.Complete(generator.OperationListLength))

	failed := result.Failed()
	require.Len(t, failed, 2)
	for _, failure := range failed {
		assert.Equal(t, generator.OperationListLength, failure.Spec.Operation)
		assert.Equal(t, StateFailed, failure.State)

		var compileErr *bridge.CompileError
		assert.ErrorAs(t, failure.Err, &compileErr)
	}

	for _, measured := range result.Results[:2] {
		assert.True(t, measured.Succeeded())
		assert.NotZero(t, measured.Throughput)
		assert.Len(t, measured.Samples.NsPerOp, 2)
	}
}

func TestDriverRunWarmedStore(t *testing.T) {

	t.Parallel()

	bootstrapper := newTestBootstrapper(t)

	d := New(generator.New(nil, nil), testSampler)
	d.Bootstrapper = bootstrapper
	d.StateScale = 50

	result, err := d.Run(
		context.Background(),
		Sweep{
			Operations: []generator.Operation{
				generator.OperationAdd,
				generator.OperationFTTransfer,
			},
			Sizes:   []uint64{1, 4},
			Scale:   2,
			Backend: BackendInterpreter,
		},
	)
	require.NoError(t, err)

	require.Len(t, result.Results, 4)
	assert.Empty(t, result.Failed())
	assert.True(t, result.Complete(generator.OperationAdd))
	assert.True(t, result.Complete(generator.OperationFTTransfer))

	// the warmed store was built once and cached
	_, err = os.Stat(bootstrapper.CachePath(50))
	require.NoError(t, err)
}

func TestDriverRunAborts(t *testing.T) {

	t.Parallel()

	d := New(generator.New(nil, nil), testSampler)

	result, err := d.Run(
		context.Background(),
		Sweep{
			Operations: []generator.Operation{
				generator.OperationAdd,
				generator.OperationContractDeploy,
			},
			Sizes:   []uint64{1},
			Scale:   1,
			Backend: BackendInterpreter,
		},
	)

	var notImplementedErr *generator.NotImplementedError
	require.ErrorAs(t, err, &notImplementedErr)
	assert.Equal(t, generator.OperationContractDeploy, notImplementedErr.Operation)

	// the cases before the failure are kept
	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].Succeeded())
}

func TestDriverRunCanceled(t *testing.T) {

	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(generator.New(nil, nil), testSampler)

	_, err := d.Run(ctx, Sweep{
		Operations: []generator.Operation{generator.OperationAdd},
		Sizes:      []uint64{1},
		Scale:      1,
	})
	require.ErrorIs(t, err, context.Canceled)
}
