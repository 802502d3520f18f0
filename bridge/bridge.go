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

package bridge

import (
	goerrors "errors"

	"github.com/bytecodealliance/wasmtime-go/v22"
	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/errors"
	"github.com/rs/zerolog"

	"github.com/onflow/cadence-benchmarking/chainstate"
	"github.com/onflow/cadence-benchmarking/compiler"
	"github.com/onflow/cadence-benchmarking/evaluator"
	"github.com/onflow/cadence-benchmarking/host"
)

// Compile analyzes and compiles the source to a module.
//
// The analysis is persisted in the store, the module is attached to the context,
// and its footprint is recorded in the ledger of the context.
// If the ledger is a block transaction, the block is committed
// and the context continues in the next block.
func Compile(
	ctx *evaluator.Context,
	store *evaluator.AnalysisStore,
	location common.Location,
	source []byte,
) (*evaluator.Analysis, error) {

	analysis, err := evaluator.NewAnalyzer(store).Analyze(location, source)
	if err != nil {
		return nil, &CompileError{
			Location: location,
			Err:      err,
		}
	}

	result, err := compiler.Compile(analysis, host.Lookup)
	if err != nil {
		return nil, &CompileError{
			Location: location,
			Err:      err,
		}
	}

	// the program compiled, failures from here on are broken invariants

	err = store.Put(analysis)
	if err != nil {
		panic(errors.NewUnexpectedErrorFromCause(err))
	}

	sourceHash := analysis.CodeHash()

	ctx.Contract = &evaluator.ContractContext{
		Location:   location,
		Module:     result.Bytes,
		SourceHash: sourceHash,
		DataSize:   result.DataSize(),
	}

	err = WriteModuleRecord(
		ctx.Ledger(),
		location,
		ModuleRecord{
			Location:   string(location.ID()),
			SourceHash: sourceHash[:],
			DataSize:   result.DataSize(),
			ModuleSize: uint64(len(result.Bytes)),
		},
	)
	if err != nil {
		panic(errors.NewUnexpectedErrorFromCause(err))
	}

	if tx, ok := ctx.Ledger().(*chainstate.Tx); ok {
		_, err = tx.CommitToBlock()
		if err != nil {
			panic(errors.NewUnexpectedErrorFromCause(err))
		}
		next, err := tx.Store().BeginNext()
		if err != nil {
			panic(errors.NewUnexpectedErrorFromCause(err))
		}
		ctx.SetLedger(next)
	}

	ctx.Logger.Debug().
		Str("location", location.String()).
		Int("size", len(result.Bytes)).
		Uint64("data", result.DataSize()).
		Strs("intrinsics", result.Intrinsics).
		Msg("compiled module")

	return analysis, nil
}

// Config configures the engine modules are executed with.
type Config struct {
	OptLevel wasmtime.OptLevel
	// MaxWasmStack is the maximum stack size, in bytes.
	MaxWasmStack int
	// MemoryLimit is the maximum size of the linear memory, in bytes.
	MemoryLimit int64
	Logger      zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		OptLevel:     wasmtime.OptLevelSpeed,
		MaxWasmStack: 512 * 1024,
		MemoryLimit:  64 * 1024 * 1024,
		Logger:       zerolog.Nop(),
	}
}

func (c Config) engine() *wasmtime.Engine {
	config := wasmtime.NewConfig()

	config.SetMaxWasmStack(c.MaxWasmStack)

	// Deterministic configuration

	config.SetWasmThreads(false)
	config.SetWasmSIMD(false)
	config.SetWasmRelaxedSIMD(false)
	config.SetWasmRelaxedSIMDDeterministic(false)

	config.SetStrategy(wasmtime.StrategyCranelift)
	config.SetCraneliftFlag("enable_nan_canonicalization", "true")
	config.SetCraneliftOptLevel(c.OptLevel)

	config.SetWasmReferenceTypes(false)
	config.SetWasmMemory64(false)
	config.SetWasmMultiMemory(false)
	config.SetWasmMultiValue(false)

	return wasmtime.NewEngineWithConfig(config)
}

// Bridge is an instantiated module, linked against the intrinsics of the context.
// A bridge is owned by a single benchmark case and is not safe for concurrent use.
type Bridge struct {
	Location common.Location
	Logger   zerolog.Logger

	ctx      *evaluator.Context
	store    *wasmtime.Store
	instance *wasmtime.Instance
	memory   *wasmtime.Memory
	results  []wasmtime.Val
	heapBase uint32
	heapTop  uint32
	// hostErr is the error of the intrinsic which trapped the current invocation.
	hostErr error
}

// LoadModule instantiates the module attached to the context
// and invokes its entry function once.
// The context must hold a compiled module.
func LoadModule(ctx *evaluator.Context, config Config) (*Bridge, error) {
	contract := ctx.Contract
	if contract == nil || len(contract.Module) == 0 {
		panic(errors.NewUnexpectedError("no module is compiled for the context"))
	}

	location := contract.Location

	engine := config.engine()

	module, err := wasmtime.NewModule(engine, contract.Module)
	if err != nil {
		return nil, &UnableToLoadModuleError{
			Location: location,
			Err:      err,
		}
	}

	store := wasmtime.NewStore(engine)
	store.Limiter(config.MemoryLimit, -1, -1, -1, 1)

	bridge := &Bridge{
		Location: location,
		Logger:   config.Logger,
		ctx:      ctx,
		store:    store,
	}

	linker := wasmtime.NewLinker(engine)
	for _, imported := range module.Imports() {
		err := bridge.defineImport(linker, imported)
		if err != nil {
			return nil, &UnableToLoadModuleError{
				Location: location,
				Err:      err,
			}
		}
	}

	instance, err := linker.Instantiate(store, module)
	if err != nil {
		return nil, &UnableToLoadModuleError{
			Location: location,
			Err:      err,
		}
	}
	bridge.instance = instance

	err = bridge.initMemory()
	if err != nil {
		return nil, &UnableToLoadModuleError{
			Location: location,
			Err:      err,
		}
	}

	entry, err := bridge.entry()
	if err != nil {
		return nil, err
	}

	// placeholder result slots, matching the declared results of the entry function
	resultTypes := entry.Type(store).Results()
	bridge.results = make([]wasmtime.Val, len(resultTypes))
	for i, resultType := range resultTypes {
		bridge.results[i] = zeroVal(resultType.Kind())
	}

	err = bridge.invoke(entry)
	if err != nil {
		return nil, err
	}

	bridge.Logger.Debug().
		Str("location", location.String()).
		Uint32("heapBase", bridge.heapBase).
		Msg("loaded module")

	return bridge, nil
}

func zeroVal(kind wasmtime.ValKind) wasmtime.Val {
	switch kind {
	case wasmtime.KindI32:
		return wasmtime.ValI32(0)
	case wasmtime.KindI64:
		return wasmtime.ValI64(0)
	case wasmtime.KindF32:
		return wasmtime.ValF32(0)
	case wasmtime.KindF64:
		return wasmtime.ValF64(0)
	}
	panic(errors.NewUnexpectedError("unsupported result kind %s", kind))
}

func (b *Bridge) initMemory() error {
	memoryExport := b.instance.GetExport(b.store, compiler.MemoryExportName)
	if memoryExport == nil || memoryExport.Memory() == nil {
		return goerrors.New("module does not export its memory")
	}
	b.memory = memoryExport.Memory()

	heapBaseExport := b.instance.GetExport(b.store, compiler.HeapBaseExportName)
	if heapBaseExport == nil || heapBaseExport.Global() == nil {
		return goerrors.New("module does not export its heap base")
	}
	b.heapBase = uint32(heapBaseExport.Global().Get(b.store).I32())
	b.heapTop = b.heapBase

	return nil
}

// entry locates the entry function of the module.
func (b *Bridge) entry() (*wasmtime.Func, error) {
	entry := b.instance.GetFunc(b.store, compiler.TopLevelFunctionName)
	if entry == nil {
		return nil, &MissingEntryPointError{
			Location: b.Location,
			Name:     compiler.TopLevelFunctionName,
		}
	}
	return entry, nil
}

// RunTopLevel invokes the entry function of the already instantiated module again.
func (b *Bridge) RunTopLevel() error {
	entry, err := b.entry()
	if err != nil {
		return err
	}
	return b.invoke(entry)
}

// Results returns the results of the last invocation of the entry function.
func (b *Bridge) Results() []wasmtime.Val {
	return b.results
}

// Succeeded returns true if the last invocation of the entry function returned true.
func (b *Bridge) Succeeded() bool {
	return len(b.results) == 1 &&
		b.results[0].Kind() == wasmtime.KindI32 &&
		b.results[0].I32() != 0
}

func (b *Bridge) invoke(entry *wasmtime.Func) error {
	// strings returned by intrinsics only live for one invocation
	b.heapTop = b.heapBase
	b.hostErr = nil

	result, err := entry.Call(b.store)
	if err != nil {
		return b.trapError(err)
	}

	switch result := result.(type) {
	case nil:
	case int32:
		b.results[0] = wasmtime.ValI32(result)
	case int64:
		b.results[0] = wasmtime.ValI64(result)
	case float32:
		b.results[0] = wasmtime.ValF32(result)
	case float64:
		b.results[0] = wasmtime.ValF64(result)
	case []wasmtime.Val:
		copy(b.results, result)
	default:
		panic(errors.NewUnexpectedError("unsupported result %T", result))
	}

	return nil
}

func (b *Bridge) trapError(err error) error {
	if b.hostErr != nil {
		return &RuntimeTrapError{
			Location: b.Location,
			Message:  b.hostErr.Error(),
			Err:      b.hostErr,
		}
	}

	var trap *wasmtime.Trap
	if goerrors.As(err, &trap) {
		return &RuntimeTrapError{
			Location: b.Location,
			Message:  trap.Message(),
		}
	}

	return &RuntimeTrapError{
		Location: b.Location,
		Message:  err.Error(),
	}
}
