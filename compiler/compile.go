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

package compiler

import (
	"github.com/onflow/cadence/errors"

	"github.com/onflow/cadence-benchmarking/compiler/ir"
	"github.com/onflow/cadence-benchmarking/evaluator"
	"github.com/onflow/cadence-benchmarking/wasm"
)

const (
	// ImportModuleName is the module of the function imports of intrinsics
	ImportModuleName = "env"
	// EntryFunctionName is the function run by the top-level entry
	EntryFunctionName = "test"
	// TopLevelFunctionName is the export of the function
	// running the top level of the program
	TopLevelFunctionName = ".top-level"
	// MemoryExportName is the export of the linear memory
	MemoryExportName = "memory"
	// HeapBaseExportName is the export of the global holding the first offset
	// of linear memory not used by data segments.
	// Hosts write results of intrinsics starting at this offset
	HeapBaseExportName = "__heap_base"
)

// heapAlignment is the alignment of the heap base.
const heapAlignment = 8

// Result is a program compiled to a module.
type Result struct {
	Module *wasm.Module
	Bytes  []byte
	// Intrinsics are the intrinsics imported by the module.
	Intrinsics []string
}

// DataSize returns the size of the data segments of the module.
func (r *Result) DataSize() uint64 {
	return r.Module.DataSize()
}

// Compile compiles the entry function of the analyzed program,
// and all functions it calls, to a module.
func Compile(analysis *evaluator.Analysis, intrinsics IntrinsicResolver) (*Result, error) {
	program, err := NewCompiler(analysis.Location, analysis.Program, intrinsics).
		Compile(EntryFunctionName)
	if err != nil {
		return nil, err
	}

	module, bytes, err := GenerateWasm(analysis.Location.String(), program, intrinsics)
	if err != nil {
		return nil, err
	}

	return &Result{
		Module:     module,
		Bytes:      bytes,
		Intrinsics: program.Intrinsics,
	}, nil
}

// GenerateWasm generates and encodes a module for the program.
// The entry function must be the first function of the program.
func GenerateWasm(name string, program *ir.Program, intrinsics IntrinsicResolver) (*wasm.Module, []byte, error) {
	codeGen := NewWasmCodeGen(name)
	mod := codeGen.mod

	for _, intrinsicName := range program.Intrinsics {
		intrinsic, err := intrinsics(intrinsicName)
		if err != nil {
			return nil, nil, err
		}
		funcIndex, err := mod.AddFunctionImport(
			ImportModuleName,
			intrinsicName,
			IntrinsicFunctionType(intrinsic),
		)
		if err != nil {
			return nil, nil, err
		}
		codeGen.intrinsicIndices[intrinsicName] = funcIndex
	}

	// function indices are needed before the bodies are generated,
	// as functions may call each other

	for _, f := range program.Funcs {
		codeGen.funcIndices[f.Name] = mod.AddFunction(
			f.Name,
			generateWasmFunctionType(f.Type),
			nil,
		)
	}

	entry := program.Funcs[0]
	entryIndex := codeGen.funcIndices[entry.Name]

	topLevelIndex := mod.AddFunction(
		TopLevelFunctionName,
		generateWasmFunctionType(entry.Type),
		&wasm.Code{
			Instructions: []wasm.Instruction{
				wasm.InstructionCall{FuncIndex: entryIndex},
			},
		},
	)

	for _, f := range program.Funcs {
		code, ok := f.Accept(codeGen).(*wasm.Code)
		if !ok {
			panic(errors.NewUnreachableError())
		}
		err := mod.SetFunctionCode(codeGen.funcIndices[f.Name], code)
		if err != nil {
			return nil, nil, err
		}
	}

	heapBase := (mod.RequiredMemorySize() + heapAlignment - 1) / heapAlignment * heapAlignment
	heapBaseIndex := mod.AddGlobal(&wasm.Global{
		Type: wasm.ValueTypeI32,
		Init: []wasm.Instruction{
			wasm.InstructionI32Const{Value: int32(heapBase)},
		},
	})

	mod.ExportMemory(MemoryExportName)
	mod.ExportFunction(EntryFunctionName, entryIndex)
	mod.ExportFunction(TopLevelFunctionName, topLevelIndex)
	mod.ExportGlobal(HeapBaseExportName, heapBaseIndex)

	return mod.Encode(true)
}
