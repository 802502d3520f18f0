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


package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytecodealliance/wasmtime-go/v22"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/cadence-benchmarking/driver"
	"github.com/onflow/cadence-benchmarking/generator"
)

func writeFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {

	t.Parallel()

	config, err := Load(LoadOptions{})
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Backend, config.Backend)
	assert.Equal(t, defaults.Sizes, config.Sizes)
	assert.Equal(t, defaults.Store, config.Store)
	assert.Equal(t, defaults.Sampler, config.Sampler)
	assert.Equal(t, defaults.Wasm, config.Wasm)
	assert.Equal(t, defaults.Log, config.Log)
	assert.Equal(t, defaults.Output, config.Output)
	assert.Empty(t, config.Operations)
	assert.Zero(t, config.Seed)

	sweep, err := config.Sweep()
	require.NoError(t, err)
	assert.Equal(t, driver.BackendInterpreter, sweep.Backend)
	assert.Equal(t, uint64(100), sweep.Scale)
	assert.NotEmpty(t, sweep.Operations)
	for _, operation := range sweep.Operations {
		assert.True(t, operation.HasGenerator(), operation.String())
	}

	assert.Equal(
		t,
		driver.BenchmarkSampler{Rounds: 10, Repetitions: 1},
		config.NewSampler(),
	)
}

func TestLoadFile(t *testing.T) {

	t.Parallel()

	path := writeFile(t, "costbench.yaml", `
backend: wasm
scale: 7
sizes: [1, 32]
operations: [add, hashing]
sampler:
  kind: fixed
  rounds: 3
  iterations: 5
wasm:
  opt_level: none
`)

	config, err := Load(LoadOptions{File: path})
	require.NoError(t, err)

	assert.Equal(t, "wasm", config.Backend)
	assert.Equal(t, uint64(7), config.Scale)
	assert.Equal(t, []uint64{1, 32}, config.Sizes)
	// defaults are kept for unset values
	assert.Equal(t, uint64(10_000), config.StateScale)

	sweep, err := config.Sweep()
	require.NoError(t, err)
	assert.Equal(t, driver.BackendWasm, sweep.Backend)
	assert.Equal(
		t,
		[]generator.Operation{
			generator.OperationAdd,
			generator.OperationSHA2_256,
			generator.OperationSHA3_256,
			generator.OperationKECCAK_256,
			generator.OperationSHA2_384,
			generator.OperationSHA3_384,
			generator.OperationHash160,
		},
		sweep.Operations,
	)

	assert.Equal(t, driver.FixedSampler{Rounds: 3, Iterations: 5}, config.NewSampler())

	bridgeConfig, err := config.BridgeConfig(config.NewLogger(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, wasmtime.OptLevelNone, bridgeConfig.OptLevel)
	assert.Equal(t, 512*1024, bridgeConfig.MaxWasmStack)
}

func TestLoadMissingFile(t *testing.T) {

	t.Parallel()

	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestLoadEnvironment(t *testing.T) {

	t.Setenv("COSTBENCH_SCALE", "3")
	t.Setenv("COSTBENCH_SAMPLER_ROUNDS", "2")
	t.Setenv("COSTBENCH_BACKEND", "wasm")

	config, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, uint64(3), config.Scale)
	assert.Equal(t, 2, config.Sampler.Rounds)
	assert.Equal(t, "wasm", config.Backend)
}

func TestLoadFlags(t *testing.T) {

	t.Parallel()

	path := writeFile(t, "costbench.yaml", `
scale: 7
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint64("scale", 0, "")
	flags.String("backend", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--scale=9", "--log-level=debug"}))

	config, err := Load(LoadOptions{
		File:  path,
		Flags: flags,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(9), config.Scale)
	assert.Equal(t, "debug", config.Log.Level)
	// unchanged flags do not override
	assert.Equal(t, "interpreter", config.Backend)

	key, ok := FlagKey("log-level")
	assert.True(t, ok)
	assert.Equal(t, "log.level", key)
}

func TestValidate(t *testing.T) {

	t.Parallel()

	test := func(key string, modify func(config *Config)) {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			config := DefaultConfig()
			modify(&config)

			err := config.Validate()
			var configErr *InvalidConfigError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, key, configErr.Key)
		})
	}

	test("backend", func(config *Config) { config.Backend = "jit" })
	test("scale", func(config *Config) { config.Scale = 0 })
	test("sizes", func(config *Config) { config.Sizes = nil })
	test("operations", func(config *Config) { config.Operations = []string{"ad"} })
	test("sampler.kind", func(config *Config) { config.Sampler.Kind = "random" })
	test("sampler.rounds", func(config *Config) { config.Sampler.Rounds = 0 })
	test("wasm.opt_level", func(config *Config) { config.Wasm.OptLevel = "fast" })
	test("log.level", func(config *Config) { config.Log.Level = "loud" })
	test("output.formats", func(config *Config) { config.Output.Formats = []string{"csv"} })
}

func TestResolveOperations(t *testing.T) {

	t.Parallel()

	operations, err := ResolveOperations([]string{"signatures", "add", "p256-verify"})
	require.NoError(t, err)
	assert.Equal(
		t,
		[]generator.Operation{
			generator.OperationSecp256k1Verify,
			generator.OperationSecp256k1Recover,
			generator.OperationP256Verify,
			generator.OperationAdd,
		},
		operations,
	)

	_, err = ResolveOperations([]string{"sha3_256"})
	var unknownErr *generator.UnknownOperationError
	require.ErrorAs(t, err, &unknownErr)
	assert.Contains(t, unknownErr.Suggestions, "sha3-256")
}

func TestPlan(t *testing.T) {

	t.Parallel()

	t.Run("sweeps", func(t *testing.T) {
		t.Parallel()

		plan, err := ParsePlan([]byte(`
name: hashing
backend: wasm
sizes: [32, 64]
sweeps:
  - operations: [sha3-256]
  - operations: [signatures]
    scale: 10
    sizes: [1]
    backend: interpreter
`))
		require.NoError(t, err)
		assert.Equal(t, "hashing", plan.Name)

		config := DefaultConfig()
		sweeps, err := plan.Resolve(&config)
		require.NoError(t, err)

		assert.Equal(
			t,
			[]driver.Sweep{
				{
					Operations: []generator.Operation{generator.OperationSHA3_256},
					Sizes:      []uint64{32, 64},
					Scale:      100,
					Backend:    driver.BackendWasm,
				},
				{
					Operations: []generator.Operation{
						generator.OperationSecp256k1Verify,
						generator.OperationSecp256k1Recover,
						generator.OperationP256Verify,
					},
					Sizes:   []uint64{1},
					Scale:   10,
					Backend: driver.BackendInterpreter,
				},
			},
			sweeps,
		)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := ParsePlan([]byte(`
sweeps:
  - operations: [add]
    repeat: 3
`))
		var planErr *InvalidPlanError
		require.ErrorAs(t, err, &planErr)
	})

	t.Run("duplicate key", func(t *testing.T) {
		t.Parallel()

		_, err := ParsePlan([]byte(`
name: first
name: second
sweeps:
  - operations: [add]
`))
		var planErr *InvalidPlanError
		require.ErrorAs(t, err, &planErr)
	})

	t.Run("no sweeps", func(t *testing.T) {
		t.Parallel()

		_, err := ParsePlan([]byte(`name: empty`))
		var planErr *InvalidPlanError
		require.ErrorAs(t, err, &planErr)
	})

	t.Run("unknown operation", func(t *testing.T) {
		t.Parallel()

		plan, err := ParsePlan([]byte(`
sweeps:
  - operations: [mull]
`))
		require.NoError(t, err)

		config := DefaultConfig()
		_, err = plan.Resolve(&config)
		var planErr *InvalidPlanError
		require.ErrorAs(t, err, &planErr)
	})

	t.Run("read", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "plan.yaml", "sweeps: [{operations: [add], extra: 1}]")

		_, err := ReadPlan(path)
		var planErr *InvalidPlanError
		require.ErrorAs(t, err, &planErr)
		assert.Equal(t, path, planErr.Path)
	})
}

func TestNewLogger(t *testing.T) {

	t.Parallel()

	config := DefaultConfig()
	config.Log.Format = "json"
	config.Log.Level = "warn"

	var buf bytes.Buffer
	logger := config.NewLogger(&buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("operation", "add").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"operation":"add"`)
	assert.Contains(t, buf.String(), `"message":"shown"`)
}
