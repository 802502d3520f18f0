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
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytecodealliance/wasmtime-go/v22"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/onflow/cadence-benchmarking/bridge"
	"github.com/onflow/cadence-benchmarking/driver"
	"github.com/onflow/cadence-benchmarking/generator"
)

const (
	// ConfigName is the name of the configuration file, without extension
	ConfigName = "costbench"
	// EnvPrefix is the prefix of the environment variables overriding the configuration
	EnvPrefix = "COSTBENCH"
)

// Config is the configuration of the harness.
type Config struct {
	Backend string `mapstructure:"backend"`
	// Scale is the number of applications of the operation in each program
	Scale uint64 `mapstructure:"scale"`
	// StateScale is the number of keys of the warmed store
	StateScale uint64   `mapstructure:"state_scale"`
	Sizes      []uint64 `mapstructure:"sizes"`
	// Operations are operation or family names. Empty means all operations with a generator
	Operations []string `mapstructure:"operations"`
	// Seed makes generation reproducible. Zero seeds from entropy
	Seed uint64 `mapstructure:"seed"`
	// Headers is the path of a SQLite header database. Empty derives headers from block identities
	Headers string        `mapstructure:"headers"`
	Store   StoreConfig   `mapstructure:"store"`
	Sampler SamplerConfig `mapstructure:"sampler"`
	Wasm    WasmConfig    `mapstructure:"wasm"`
	Log     LogConfig     `mapstructure:"log"`
	Output  OutputConfig  `mapstructure:"output"`
}

type StoreConfig struct {
	// Memory runs each case on a fresh in-memory store instead of a warmed store copy
	Memory     bool   `mapstructure:"memory"`
	CacheDir   string `mapstructure:"cache_dir"`
	ScratchDir string `mapstructure:"scratch_dir"`
	Blocks     int    `mapstructure:"blocks"`
	BlockKeys  int    `mapstructure:"block_keys"`
}

type SamplerConfig struct {
	// Kind is either "benchmark" or "fixed"
	Kind        string `mapstructure:"kind"`
	Rounds      int    `mapstructure:"rounds"`
	Repetitions int    `mapstructure:"repetitions"`
	// Iterations is the number of run-once calls per round of the fixed sampler
	Iterations int `mapstructure:"iterations"`
}

type WasmConfig struct {
	// OptLevel is "none", "speed" or "speed_and_size"
	OptLevel    string `mapstructure:"opt_level"`
	MaxStack    int    `mapstructure:"max_stack"`
	MemoryLimit int64  `mapstructure:"memory_limit"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// Format is either "console" or "json"
	Format string `mapstructure:"format"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
	// Formats are any of "json", "pprof", "html"
	Formats []string `mapstructure:"formats"`
}

const (
	SamplerKindBenchmark = "benchmark"
	SamplerKindFixed     = "fixed"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:    driver.BackendInterpreter.String(),
		Scale:      100,
		StateScale: 10_000,
		Sizes:      []uint64{1, 2, 4, 8, 16, 32, 64, 128},
		Store: StoreConfig{
			CacheDir:   ".costbench/cache",
			ScratchDir: ".costbench/scratch",
			Blocks:     10,
			BlockKeys:  100,
		},
		Sampler: SamplerConfig{
			Kind:        SamplerKindBenchmark,
			Rounds:      10,
			Repetitions: 1,
			Iterations:  100,
		},
		Wasm: WasmConfig{
			OptLevel:    "speed",
			MaxStack:    512 * 1024,
			MemoryLimit: 64 * 1024 * 1024,
		},
		Log: LogConfig{
			Level:  zerolog.InfoLevel.String(),
			Format: "console",
		},
		Output: OutputConfig{
			Dir:     "results",
			Formats: []string{"json"},
		},
	}
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"backend":     "backend",
	"scale":       "scale",
	"state-scale": "state_scale",
	"sizes":       "sizes",
	"operations":  "operations",
	"seed":        "seed",
	"headers":     "headers",
	"memory":      "store.memory",
	"cache-dir":   "store.cache_dir",
	"rounds":      "sampler.rounds",
	"sampler":     "sampler.kind",
	"log-level":   "log.level",
	"output":      "output.dir",
	"formats":     "output.formats",
}

// FlagKey returns the configuration key the command line flag overrides.
func FlagKey(flag string) (string, bool) {
	key, ok := flagKeys[flag]
	return key, ok
}

type LoadOptions struct {
	// File is the path of the configuration file.
	// If empty, a file named ConfigName is looked up in the working directory, and is optional.
	File string
	// Flags override the file and the environment.
	Flags *pflag.FlagSet
}

// Load reads the configuration from the defaults, the configuration file,
// the environment and the command line flags, in increasing order of precedence.
func Load(options LoadOptions) (*Config, error) {
	v := viper.New()

	setDefaults(v, DefaultConfig())

	if options.File != "" {
		v.SetConfigFile(options.File)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if options.File != "" || !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if options.Flags != nil {
		for flag, key := range flagKeys {
			f := options.Flags.Lookup(flag)
			if f == nil {
				continue
			}
			err = v.BindPFlag(key, f)
			if err != nil {
				return nil, err
			}
		}
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("scale", defaults.Scale)
	v.SetDefault("state_scale", defaults.StateScale)
	v.SetDefault("sizes", defaults.Sizes)
	v.SetDefault("operations", []string{})
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("headers", defaults.Headers)
	v.SetDefault("store.memory", defaults.Store.Memory)
	v.SetDefault("store.cache_dir", defaults.Store.CacheDir)
	v.SetDefault("store.scratch_dir", defaults.Store.ScratchDir)
	v.SetDefault("store.blocks", defaults.Store.Blocks)
	v.SetDefault("store.block_keys", defaults.Store.BlockKeys)
	v.SetDefault("sampler.kind", defaults.Sampler.Kind)
	v.SetDefault("sampler.rounds", defaults.Sampler.Rounds)
	v.SetDefault("sampler.repetitions", defaults.Sampler.Repetitions)
	v.SetDefault("sampler.iterations", defaults.Sampler.Iterations)
	v.SetDefault("wasm.opt_level", defaults.Wasm.OptLevel)
	v.SetDefault("wasm.max_stack", defaults.Wasm.MaxStack)
	v.SetDefault("wasm.memory_limit", defaults.Wasm.MemoryLimit)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.formats", defaults.Output.Formats)
}

// Validate checks that all enumerated values are known and all counts are positive.
func (c *Config) Validate() error {
	if _, err := driver.ParseBackend(c.Backend); err != nil {
		return &InvalidConfigError{Key: "backend", Err: err}
	}

	if c.Scale == 0 {
		return &InvalidConfigError{Key: "scale", Err: errors.New("must be at least 1")}
	}

	if len(c.Sizes) == 0 {
		return &InvalidConfigError{Key: "sizes", Err: errors.New("must not be empty")}
	}

	if _, err := c.OperationList(); err != nil {
		return &InvalidConfigError{Key: "operations", Err: err}
	}

	switch c.Sampler.Kind {
	case SamplerKindBenchmark, SamplerKindFixed:
	default:
		return &InvalidConfigError{
			Key: "sampler.kind",
			Err: fmt.Errorf("unknown sampler: %s", c.Sampler.Kind),
		}
	}

	if c.Sampler.Rounds < 1 {
		return &InvalidConfigError{Key: "sampler.rounds", Err: errors.New("must be at least 1")}
	}

	if _, err := c.Wasm.optLevel(); err != nil {
		return &InvalidConfigError{Key: "wasm.opt_level", Err: err}
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return &InvalidConfigError{Key: "log.level", Err: err}
	}

	for _, format := range c.Output.Formats {
		switch format {
		case "json", "pprof", "html":
		default:
			return &InvalidConfigError{
				Key: "output.formats",
				Err: fmt.Errorf("unknown format: %s", format),
			}
		}
	}

	return nil
}

// OperationList resolves the configured operation and family names.
// Without names, all operations with a generator are returned.
func (c *Config) OperationList() ([]generator.Operation, error) {
	if len(c.Operations) == 0 {
		var operations []generator.Operation
		for _, operation := range generator.AllOperations() {
			if operation.HasGenerator() {
				operations = append(operations, operation)
			}
		}
		return operations, nil
	}

	return ResolveOperations(c.Operations)
}

// ResolveOperations resolves operation and family names, without duplicates, in order.
func ResolveOperations(names []string) ([]generator.Operation, error) {
	var operations []generator.Operation
	seen := map[generator.Operation]struct{}{}

	add := func(operation generator.Operation) {
		if _, ok := seen[operation]; ok {
			return
		}
		seen[operation] = struct{}{}
		operations = append(operations, operation)
	}

names:
	for _, name := range names {
		for _, family := range generator.Families() {
			if family.Name == name {
				for _, operation := range family.Operations {
					add(operation)
				}
				continue names
			}
		}

		operation, err := generator.ParseOperation(name)
		if err != nil {
			return nil, err
		}
		add(operation)
	}

	return operations, nil
}

// Sweep returns the sweep of the configuration.
func (c *Config) Sweep() (driver.Sweep, error) {
	backend, err := driver.ParseBackend(c.Backend)
	if err != nil {
		return driver.Sweep{}, err
	}

	operations, err := c.OperationList()
	if err != nil {
		return driver.Sweep{}, err
	}

	return driver.Sweep{
		Operations: operations,
		Sizes:      c.Sizes,
		Scale:      c.Scale,
		Backend:    backend,
	}, nil
}

// NewSampler returns the sampler of the configuration.
func (c *Config) NewSampler() driver.Sampler {
	if c.Sampler.Kind == SamplerKindFixed {
		return driver.FixedSampler{
			Rounds:     c.Sampler.Rounds,
			Iterations: c.Sampler.Iterations,
		}
	}
	return driver.BenchmarkSampler{
		Rounds:      c.Sampler.Rounds,
		Repetitions: c.Sampler.Repetitions,
	}
}

// BridgeConfig returns the configuration of the WebAssembly backend.
func (c *Config) BridgeConfig(logger zerolog.Logger) (bridge.Config, error) {
	optLevel, err := c.Wasm.optLevel()
	if err != nil {
		return bridge.Config{}, err
	}
	return bridge.Config{
		OptLevel:     optLevel,
		MaxWasmStack: c.Wasm.MaxStack,
		MemoryLimit:  c.Wasm.MemoryLimit,
		Logger:       logger,
	}, nil
}

func (c WasmConfig) optLevel() (wasmtime.OptLevel, error) {
	switch c.OptLevel {
	case "none":
		return wasmtime.OptLevelNone, nil
	case "speed":
		return wasmtime.OptLevelSpeed, nil
	case "speed_and_size":
		return wasmtime.OptLevelSpeedAndSize, nil
	}
	return 0, fmt.Errorf("unknown optimization level: %s", c.OptLevel)
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// NewLogger returns a logger writing to out in the configured format, at the configured level.
func (c *Config) NewLogger(out io.Writer) zerolog.Logger {
	if c.Log.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
		}
	}
	return zerolog.New(out).
		Level(c.LogLevel()).
		With().
		Timestamp().
		Logger()
}
