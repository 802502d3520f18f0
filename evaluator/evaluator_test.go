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
	"testing"

	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/interpreter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/cadence-benchmarking/chainstate"
	"github.com/onflow/cadence-benchmarking/generator"
	"github.com/onflow/cadence-benchmarking/host"
	. "github.com/onflow/cadence-benchmarking/test_utils/common_utils"
)

// newWarmedTx returns a transaction on an in-memory store
// to which the trait contracts are deployed.
func newWarmedTx(t *testing.T) *chainstate.Tx {
	return BeginNext(t, NewWarmedStore(t, NewDeployer()))
}

func newTestContext(t *testing.T) (*Analyzer, *Context) {
	tx := newWarmedTx(t)
	store := NewAnalysisStore(tx)
	analyzer := NewAnalyzer(store)
	return analyzer, NewContext(host.NewEnvironment(tx), store)
}

var testLocation = common.StringLocation("test")

func TestAnalyzeErrors(t *testing.T) {

	t.Parallel()

	analyzer := NewAnalyzer(NewAnalysisStore(nil))

	t.Run("parse", func(t *testing.T) {

		t.Parallel()

		_, err := analyzer.Analyze(testLocation, []byte("access(all) fun test( {"))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.NotEmpty(t, parseErr.Diagnostic)
	})

	t.Run("check", func(t *testing.T) {

		t.Parallel()

		_, err := analyzer.Analyze(testLocation, []byte(`
          access(all) fun test(): Bool {
              return ftSupply(1)
          }
        `))
		var checkErr *CheckError
		require.ErrorAs(t, err, &checkErr)
		assert.NotEmpty(t, checkErr.Diagnostic)
	})

	t.Run("missing import", func(t *testing.T) {

		t.Parallel()

		_, err := analyzer.Analyze(testLocation, []byte(`
          import Missing from 0x2

          access(all) fun test(): Bool {
              return true
          }
        `))
		require.Error(t, err)
	})
}

func TestAnalysisStoreWithoutLedger(t *testing.T) {

	t.Parallel()

	store := NewAnalysisStore(nil)

	_, ok, err := store.Record(testLocation)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(testLocation)
	require.ErrorAs(t, err, &ImportNotFoundError{})
}

func TestContextInvoke(t *testing.T) {

	t.Parallel()

	analyzer, context := newTestContext(t)

	analysis, err := analyzer.Analyze(testLocation, []byte(`
      access(all) fun test(): UInt64 {
          ftDefine("gold", 0)
          ftMint("gold", 7, 0x0000000000000003)
          return ftBalance("gold", 0x0000000000000003)
      }
    `))
	require.NoError(t, err)

	_, err = context.Invoke("test")
	require.Equal(t, NotLoadedError{}, err)

	require.NoError(t, context.Load(analysis))

	result, err := context.Invoke("test")
	require.NoError(t, err)
	assert.Equal(t, interpreter.NewUnmeteredUInt64Value(7), result)

	assert.True(t, analysis.HasFunction("test"))
	assert.False(t, analysis.HasFunction("setup"))
}

func TestContextIntrinsicError(t *testing.T) {

	t.Parallel()

	analyzer, context := newTestContext(t)

	analysis, err := analyzer.Analyze(testLocation, []byte(`
      access(all) fun test(): Bool {
          return secp256k1Verify("zz", "", "")
      }
    `))
	require.NoError(t, err)
	require.NoError(t, context.Load(analysis))

	_, err = context.Invoke("test")
	require.Error(t, err)
}

func TestDeployedContracts(t *testing.T) {

	t.Parallel()

	tx := newWarmedTx(t)

	for _, contract := range chainstate.TraitContracts() {
		code, ok, err := DeployedCode(tx, contract)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, contract.Code, string(code))
	}

	// a fresh store only has the persisted records,
	// so the imported programs are analyzed again
	store := NewAnalysisStore(tx)
	analyzer := NewAnalyzer(store)

	record, ok, err := store.Record(chainstate.TraitContracts()[2].Location())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{generator.TraitUserFunctionName}, record.Declarations)

	analysis, err := analyzer.Analyze(testLocation, []byte(`
      import callTrait from 0x1

      access(all) fun test(): Int {
          return callTrait()
      }
    `))
	require.NoError(t, err)

	context := NewContext(host.NewEnvironment(tx), store)
	require.NoError(t, context.Load(analysis))

	result, err := context.Invoke("test")
	require.NoError(t, err)
	assert.Equal(t, interpreter.NewUnmeteredIntValueFromInt64(42), result)
}

func TestGeneratedWorkloads(t *testing.T) {

	t.Parallel()

	g := generator.New(nil, nil)

	for _, operation := range generator.AllOperations() {
		if !operation.HasGenerator() {
			continue
		}

		for _, size := range []uint64{1, 20} {

			spec := generator.WorkloadSpec{
				Operation: operation,
				Scale:     3,
				Size:      size,
			}

			workload, err := g.Generate(spec)
			require.NoError(t, err)

			t.Run(fmt.Sprintf("%s/%d", operation, size), func(t *testing.T) {

				t.Parallel()

				analyzer, context := newTestContext(t)

				analysis, err := analyzer.Analyze(testLocation, []byte(workload.Source()))
				require.NoError(t, err, workload.Source())
				require.NoError(t, context.Load(analysis))

				if workload.HasSetupFunction {
					_, err = context.Invoke(generator.SetupFunctionName)
					require.NoError(t, err)
				}

				for i := 0; i < 2; i++ {
					result, err := context.Invoke(generator.TestFunctionName)
					require.NoError(t, err)
					assert.Equal(t, interpreter.TrueValue, result)
				}
			})
		}
	}
}
