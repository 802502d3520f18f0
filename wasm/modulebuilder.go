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

package wasm

import (
	"errors"
)

// ModuleBuilder allows building modules.
type ModuleBuilder struct {
	name               string
	functionImports    []*Import
	types              []*FunctionType
	functions          []*Function
	globals            []*Global
	data               []*Data
	requiredMemorySize uint32
	exports            []*Export
}

func NewModuleBuilder(name string) *ModuleBuilder {
	return &ModuleBuilder{
		name: name,
	}
}

// typeIndex returns the index of the given function type,
// adding it if no equal type was added before.
func (b *ModuleBuilder) typeIndex(functionType *FunctionType) uint32 {
	for i, existing := range b.types {
		if existing.Equal(functionType) {
			return uint32(i)
		}
	}
	b.types = append(b.types, functionType)
	return uint32(len(b.types) - 1)
}

func (b *ModuleBuilder) AddFunction(name string, functionType *FunctionType, code *Code) uint32 {
	typeIndex := b.typeIndex(functionType)
	// function indices include function imports
	funcIndex := uint32(len(b.functionImports) + len(b.functions))
	b.functions = append(
		b.functions,
		&Function{
			Name:      name,
			TypeIndex: typeIndex,
			Code:      code,
		},
	)
	return funcIndex
}

func (b *ModuleBuilder) AddFunctionImport(module string, name string, functionType *FunctionType) (uint32, error) {
	if len(b.functions) > 0 {
		return 0, errors.New("cannot add function imports after adding functions")
	}

	typeIndex := b.typeIndex(functionType)
	funcIndex := uint32(len(b.functionImports))
	b.functionImports = append(
		b.functionImports,
		&Import{
			Module:    module,
			Name:      name,
			TypeIndex: typeIndex,
		},
	)

	return funcIndex, nil
}

// FunctionCount returns the number of imported and defined functions.
func (b *ModuleBuilder) FunctionCount() uint32 {
	return uint32(len(b.functionImports) + len(b.functions))
}

// SetFunctionCode replaces the code of a previously added function.
// Function indices must be known before bodies which call each other can be compiled.
func (b *ModuleBuilder) SetFunctionCode(funcIndex uint32, code *Code) error {
	index := int(funcIndex) - len(b.functionImports)
	if index < 0 || index >= len(b.functions) {
		return errors.New("cannot set code of unknown or imported function")
	}
	b.functions[index].Code = code
	return nil
}

func (b *ModuleBuilder) AddGlobal(global *Global) uint32 {
	b.globals = append(b.globals, global)
	return uint32(len(b.globals) - 1)
}

// RequireMemory reserves the given number of bytes of memory
// and returns the offset of the reserved region.
func (b *ModuleBuilder) RequireMemory(size uint32) uint32 {
	offset := b.requiredMemorySize
	b.requiredMemorySize += size
	return offset
}

// RequiredMemorySize returns the number of bytes reserved so far.
func (b *ModuleBuilder) RequiredMemorySize() uint32 {
	return b.requiredMemorySize
}

func (b *ModuleBuilder) AddData(offset uint32, value []byte) {
	b.data = append(b.data, &Data{
		// NOTE: currently only one memory is supported
		MemoryIndex: 0,
		Offset: []Instruction{
			InstructionI32Const{Value: int32(offset)},
		},
		Init: value,
	})
}

func (b *ModuleBuilder) Build() *Module {
	// NOTE: currently only one memory is supported.
	// at least one page is always present, hosts write results into it
	pages := (b.requiredMemorySize + MemoryPageSize - 1) / MemoryPageSize
	if pages == 0 {
		pages = 1
	}
	memories := []*Memory{
		{
			Min: pages,
			Max: nil,
		},
	}

	return &Module{
		Name:      b.name,
		Types:     b.types,
		Imports:   b.functionImports,
		Functions: b.functions,
		Memories:  memories,
		Globals:   b.globals,
		Data:      b.data,
		Exports:   b.exports,
	}
}

func (b *ModuleBuilder) ExportMemory(name string) {
	b.AddExport(&Export{
		Name: name,
		Descriptor: MemoryExport{
			MemoryIndex: 0,
		},
	})
}

func (b *ModuleBuilder) ExportFunction(name string, funcIndex uint32) {
	b.AddExport(&Export{
		Name: name,
		Descriptor: FunctionExport{
			FunctionIndex: funcIndex,
		},
	})
}

func (b *ModuleBuilder) ExportGlobal(name string, globalIndex uint32) {
	b.AddExport(&Export{
		Name: name,
		Descriptor: GlobalExport{
			GlobalIndex: globalIndex,
		},
	})
}

func (b *ModuleBuilder) AddExport(export *Export) {
	b.exports = append(b.exports, export)
}

// sizeHint estimates the size of the encoded module,
// dominated by the function bodies and the data segments.
func (b *ModuleBuilder) sizeHint() int {
	size := 64
	for _, function := range b.functions {
		size += 8
		if function.Code != nil {
			size += 4 * len(function.Code.Instructions)
		}
	}
	for _, segment := range b.data {
		size += 8 + len(segment.Init)
	}
	return size
}

// Encode builds the module and writes it in the WASM binary format.
func (b *ModuleBuilder) Encode(writeNames bool) (*Module, []byte, error) {
	module := b.Build()

	buf := NewBuffer(b.sizeHint())
	w := NewWASMWriter(buf)
	w.WriteNames = writeNames
	if err := w.WriteModule(module); err != nil {
		return nil, nil, err
	}

	return module, buf.Bytes(), nil
}
