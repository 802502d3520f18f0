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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWASMWriter_writeMagicAndVersion(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	require.NoError(t, w.writeMagicAndVersion())

	require.Equal(t,
		[]byte{
			// magic
			0x0, 0x61, 0x73, 0x6d,
			// version
			0x1, 0x0, 0x0, 0x0,
		},
		b.data,
	)
}

func TestWASMWriter_writeTypeSection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	err := w.writeTypeSection([]*FunctionType{
		{
			Params:  []ValueType{ValueTypeI64, ValueTypeI32},
			Results: []ValueType{ValueTypeI64},
		},
	})
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			// section ID: type
			0x1,
			// section size: 7
			0x87, 0x80, 0x80, 0x80, 0x0,
			// type count
			0x1,
			// function type
			0x60,
			// parameters: i64, i32
			0x2, 0x7e, 0x7f,
			// results: i64
			0x1, 0x7e,
		},
		b.data,
	)
}

func TestWASMWriter_writeImportSection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	err := w.writeImportSection([]*Import{
		{
			Module:    "env",
			Name:      "log",
			TypeIndex: 1,
		},
	})
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			// section ID: import
			0x2,
			// section size: 11
			0x8b, 0x80, 0x80, 0x80, 0x0,
			// import count
			0x1,
			// module = "env"
			0x3, 0x65, 0x6e, 0x76,
			// name = "log"
			0x3, 0x6c, 0x6f, 0x67,
			// function import
			0x0,
			// type index
			0x1,
		},
		b.data,
	)
}

func TestWASMWriter_writeFunctionSection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	err := w.writeFunctionSection([]*Function{
		{Name: "a", TypeIndex: 0},
		{Name: "b", TypeIndex: 3},
	})
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			// section ID: function
			0x3,
			// section size: 3
			0x83, 0x80, 0x80, 0x80, 0x0,
			// function count
			0x2,
			// type indices
			0x0, 0x3,
		},
		b.data,
	)
}

func TestWASMWriter_writeMemorySection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	max := uint32(2)

	err := w.writeMemorySection([]*Memory{
		{Min: 1024},
		{Min: 2048, Max: &max},
	})
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			// section ID: memory
			0x5,
			// section size: 8
			0x88, 0x80, 0x80, 0x80, 0x0,
			// memory count
			0x2,
			// no max, min 1024
			0x0, 0x80, 0x8,
			// max, min 2048, max 2
			0x1, 0x80, 0x10, 0x2,
		},
		b.data,
	)
}

func TestWASMWriter_writeGlobalSection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	err := w.writeGlobalSection([]*Global{
		{
			Type:    ValueTypeI32,
			Mutable: false,
			Init: []Instruction{
				InstructionI32Const{Value: 16},
			},
		},
		{
			Type:    ValueTypeI64,
			Mutable: true,
			Init: []Instruction{
				InstructionI64Const{Value: -1},
			},
		},
	})
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			// section ID: global
			0x6,
			// section size: 11
			0x8b, 0x80, 0x80, 0x80, 0x0,
			// global count
			0x2,
			// i32, immutable, i32.const 16, end
			0x7f, 0x0, 0x41, 0x10, 0xb,
			// i64, mutable, i64.const -1, end
			0x7e, 0x1, 0x42, 0x7f, 0xb,
		},
		b.data,
	)
}

func TestWASMWriter_writeExportSection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	err := w.writeExportSection([]*Export{
		{Name: "test", Descriptor: FunctionExport{FunctionIndex: 4}},
		{Name: "memory", Descriptor: MemoryExport{MemoryIndex: 0}},
		{Name: "heap", Descriptor: GlobalExport{GlobalIndex: 0}},
	})
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			// section ID: export
			0x7,
			// section size: 24
			0x98, 0x80, 0x80, 0x80, 0x0,
			// export count
			0x3,
			// "test", function 4
			0x4, 0x74, 0x65, 0x73, 0x74, 0x0, 0x4,
			// "memory", memory 0
			0x6, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x2, 0x0,
			// "heap", global 0
			0x4, 0x68, 0x65, 0x61, 0x70, 0x3, 0x0,
		},
		b.data,
	)
}

func TestWASMWriter_writeStartSection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	require.NoError(t, w.writeStartSection(1))

	require.Equal(t,
		[]byte{
			// section ID: start
			0x8,
			// section size: 1
			0x81, 0x80, 0x80, 0x80, 0x0,
			// function index
			0x1,
		},
		b.data,
	)
}

func TestWASMWriter_writeCodeSection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	err := w.writeCodeSection([]*Function{
		{
			Name:      "add",
			TypeIndex: 0,
			Code: &Code{
				Locals: []ValueType{
					ValueTypeI64,
					ValueTypeI64,
					ValueTypeI32,
				},
				Instructions: []Instruction{
					InstructionLocalGet{LocalIndex: 0},
					InstructionLocalGet{LocalIndex: 1},
					InstructionI64Add{},
				},
			},
		},
	})
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			// section ID: code
			0xa,
			// section size: 17
			0x91, 0x80, 0x80, 0x80, 0x0,
			// function count
			0x1,
			// code size: 11
			0x8b, 0x80, 0x80, 0x80, 0x0,
			// local groups: 2
			0x2,
			// 2 x i64
			0x2, 0x7e,
			// 1 x i32
			0x1, 0x7f,
			// local.get 0
			0x20, 0x0,
			// local.get 1
			0x20, 0x1,
			// i64.add
			0x7c,
			// end
			0xb,
		},
		b.data,
	)
}

func TestWASMWriter_writeDataSection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	err := w.writeDataSection([]*Data{
		{
			MemoryIndex: 0,
			Offset: []Instruction{
				InstructionI32Const{Value: 2},
			},
			Init: []byte{3, 4, 5},
		},
	})
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			// section ID: data
			0xb,
			// section size: 9
			0x89, 0x80, 0x80, 0x80, 0x0,
			// segment count
			0x1,
			// memory index
			0x0,
			// i32.const 2, end
			0x41, 0x2, 0xb,
			// init
			0x3, 0x3, 0x4, 0x5,
		},
		b.data,
	)
}

func TestWASMWriter_writeName(t *testing.T) {

	t.Parallel()

	t.Run("valid", func(t *testing.T) {

		t.Parallel()

		var b Buffer
		w := NewWASMWriter(&b)

		require.NoError(t, w.writeName("test"))

		require.Equal(t,
			[]byte{0x4, 0x74, 0x65, 0x73, 0x74},
			b.data,
		)
	})

	t.Run("invalid", func(t *testing.T) {

		t.Parallel()

		var b Buffer
		w := NewWASMWriter(&b)

		name := string([]byte{0xff, 0xfe, 0xfd})
		err := w.writeName(name)
		require.Error(t, err)

		assert.Equal(t,
			InvalidNonUTF8NameError{
				Name:   name,
				Offset: 0,
			},
			err,
		)

		assert.Empty(t, b.data)
	})
}

func TestWASMWriter_writeNameSection(t *testing.T) {

	t.Parallel()

	var b Buffer
	w := NewWASMWriter(&b)

	err := w.writeNameSection(
		"test",
		[]*Import{
			{Module: "foo", Name: "bar"},
		},
		[]*Function{
			{Name: "add"},
		},
	)
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			// section ID: custom
			0x0,
			// section size: 37
			0xa5, 0x80, 0x80, 0x80, 0x0,
			// "name"
			0x4, 0x6e, 0x61, 0x6d, 0x65,
			// sub-section: module name, size 5
			0x0, 0x85, 0x80, 0x80, 0x80, 0x0,
			// "test"
			0x4, 0x74, 0x65, 0x73, 0x74,
			// sub-section: function names, size 15
			0x1, 0x8f, 0x80, 0x80, 0x80, 0x0,
			// name count
			0x2,
			// 0: "foo.bar"
			0x0, 0x7, 0x66, 0x6f, 0x6f, 0x2e, 0x62, 0x61, 0x72,
			// 1: "add"
			0x1, 0x3, 0x61, 0x64, 0x64,
		},
		b.data,
	)
}

func TestWASMWriter_WriteModule(t *testing.T) {

	t.Parallel()

	var b Buffer

	w := NewWASMWriter(&b)
	w.WriteNames = true

	max := uint32(2048)
	start := uint32(1)

	module := &Module{
		Name: "test",
		Types: []*FunctionType{
			{},
			{
				Params:  []ValueType{ValueTypeI32, ValueTypeI32},
				Results: []ValueType{ValueTypeI32},
			},
		},
		Imports: []*Import{
			{Module: "env", Name: "add", TypeIndex: 1},
		},
		Functions: []*Function{
			{
				Name:      "start",
				TypeIndex: 0,
				Code: &Code{
					Instructions: []Instruction{
						InstructionReturn{},
					},
				},
			},
			{
				Name:      "add",
				TypeIndex: 1,
				Code: &Code{
					Locals: []ValueType{ValueTypeI32},
					Instructions: []Instruction{
						InstructionLocalGet{LocalIndex: 0},
						InstructionLocalGet{LocalIndex: 1},
						InstructionI32Add{},
					},
				},
			},
		},
		Memories: []*Memory{
			{Min: 1024, Max: &max},
		},
		Exports: []*Export{
			{Name: "add", Descriptor: FunctionExport{FunctionIndex: 0}},
			{Name: "mem", Descriptor: MemoryExport{MemoryIndex: 0}},
		},
		StartFunctionIndex: &start,
		Data: []*Data{
			{
				MemoryIndex: 0,
				Offset: []Instruction{
					InstructionI32Const{Value: 0},
				},
				Init: []byte{0x0, 0x1, 0x2, 0x3},
			},
		},
	}

	require.NoError(t, w.WriteModule(module))

	require.Equal(t,
		[]byte{
			// magic
			0x0, 0x61, 0x73, 0x6d,
			// version
			0x1, 0x0, 0x0, 0x0,
			// type section
			0x1,
			0x8a, 0x80, 0x80, 0x80, 0x0,
			0x2,
			0x60, 0x0, 0x0,
			0x60, 0x2, 0x7f, 0x7f, 0x1, 0x7f,
			// import section
			0x2,
			0x8b, 0x80, 0x80, 0x80, 0x0,
			0x1,
			0x3, 0x65, 0x6e, 0x76, 0x3, 0x61, 0x64, 0x64, 0x0, 0x1,
			// function section
			0x3,
			0x83, 0x80, 0x80, 0x80, 0x0,
			0x2,
			0x0,
			0x1,
			// memory section
			0x5,
			0x86, 0x80, 0x80, 0x80, 0x0,
			0x1,
			0x1, 0x80, 0x8, 0x80, 0x10,
			// export section
			0x07,
			0x8d, 0x80, 0x80, 0x80, 0x00,
			0x02,
			0x03, 0x61, 0x64, 0x64,
			0x00, 0x00,
			0x03, 0x6d, 0x65, 0x6d,
			0x02, 0x00,
			// start section
			0x8,
			0x81, 0x80, 0x80, 0x80, 0x0,
			0x1,
			// code section
			0xa,
			0x97, 0x80, 0x80, 0x80, 0x0,
			0x2,
			0x83, 0x80, 0x80, 0x80, 0x0, 0x0, 0xf, 0xb,
			0x89, 0x80, 0x80, 0x80, 0x0, 0x1, 0x1, 0x7f, 0x20, 0x0, 0x20, 0x1, 0x6a, 0xb,
			// data section
			0xb,
			0x8a, 0x80, 0x80, 0x80, 0x0,
			0x1,
			0x0,
			0x41, 0x0, 0xb,
			0x4,
			0x0, 0x1, 0x2, 0x3,
			// name section
			0x0,
			0xac, 0x80, 0x80, 0x80, 0x0,
			0x4, 0x6e, 0x61, 0x6d, 0x65, 0x0, 0x85, 0x80,
			0x80, 0x80, 0x0, 0x4, 0x74, 0x65, 0x73, 0x74,
			0x1, 0x96, 0x80, 0x80, 0x80, 0x0, 0x3, 0x0,
			0x7, 0x65, 0x6e, 0x76, 0x2e, 0x61, 0x64, 0x64,
			0x1, 0x5, 0x73, 0x74, 0x61, 0x72, 0x74,
			0x2, 0x3, 0x61, 0x64, 0x64,
		},
		b.data,
	)
}

func TestWASMWriter_writeInstruction(t *testing.T) {

	t.Parallel()

	test := func(t *testing.T, instruction Instruction, expected []byte) {
		var b Buffer
		w := NewWASMWriter(&b)
		require.NoError(t, instruction.write(w))
		require.Equal(t, expected, b.data)
	}

	t.Run("block, i64 result", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionBlock{
				Block: Block{
					BlockType: ValueTypeI64,
					Instructions1: []Instruction{
						InstructionI64Const{Value: 1},
					},
				},
			},
			[]byte{
				// block i64
				0x02, 0x7e,
				// i64.const 1
				0x42, 0x01,
				// end
				0x0b,
			},
		)
	})

	t.Run("block, empty", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionBlock{
				Block: Block{
					Instructions1: []Instruction{
						InstructionNop{},
					},
				},
			},
			[]byte{0x02, 0x40, 0x01, 0x0b},
		)
	})

	t.Run("block, type index result", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionBlock{
				Block: Block{
					BlockType: TypeIndexBlockType{TypeIndex: 2},
					Instructions1: []Instruction{
						InstructionUnreachable{},
					},
				},
			},
			[]byte{0x02, 0x2, 0x0, 0x0b},
		)
	})

	t.Run("block, second instructions", func(t *testing.T) {

		t.Parallel()

		var b Buffer
		w := NewWASMWriter(&b)

		instruction := InstructionBlock{
			Block: Block{
				BlockType: ValueTypeI32,
				Instructions1: []Instruction{
					InstructionI32Const{Value: 1},
				},
				Instructions2: []Instruction{
					InstructionI32Const{Value: 2},
				},
			},
		}
		err := instruction.write(w)
		require.Equal(t,
			InvalidBlockSecondInstructionsError{
				Offset: 4,
			},
			err,
		)
	})

	t.Run("loop, br_if", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionLoop{
				Block: Block{
					Instructions1: []Instruction{
						InstructionLocalGet{LocalIndex: 0},
						InstructionBrIf{LabelIndex: 0},
					},
				},
			},
			[]byte{0x03, 0x40, 0x20, 0x0, 0x0d, 0x0, 0x0b},
		)
	})

	t.Run("if-else, i32 result", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionIf{
				Block: Block{
					BlockType: ValueTypeI32,
					Instructions1: []Instruction{
						InstructionI32Const{Value: 1},
					},
					Instructions2: []Instruction{
						InstructionI32Const{Value: 2},
					},
				},
			},
			[]byte{
				// if i32
				0x04, 0x7f,
				// i32.const 1
				0x41, 0x01,
				// else
				0x05,
				// i32.const 2
				0x41, 0x02,
				// end
				0x0b,
			},
		)
	})

	t.Run("br_table", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionBrTable{
				LabelIndices:      []uint32{3, 2, 1, 0},
				DefaultLabelIndex: 4,
			},
			[]byte{0x0e, 0x04, 0x03, 0x02, 0x01, 0x00, 0x04},
		)
	})

	t.Run("i64.const, negative", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionI64Const{Value: -65},
			[]byte{0x42, 0xbf, 0x7f},
		)
	})

	t.Run("i64.store", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionI64Store{
				Memory: MemoryArgument{Align: 3, Offset: 8},
			},
			[]byte{0x37, 0x3, 0x8},
		)
	})

	t.Run("memory.grow", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionMemoryGrow{},
			[]byte{0x40, 0x0},
		)
	})

	t.Run("call", func(t *testing.T) {

		t.Parallel()

		test(t,
			InstructionCall{FuncIndex: 200},
			[]byte{0x10, 0xc8, 0x01},
		)
	})
}

func TestModuleBuilder(t *testing.T) {

	t.Parallel()

	b := NewModuleBuilder("bench")

	logType := &FunctionType{
		Params: []ValueType{ValueTypeI64},
	}

	first, err := b.AddFunctionImport("env", "first", logType)
	require.NoError(t, err)
	require.Equal(t, uint32(0), first)

	second, err := b.AddFunctionImport("env", "second", &FunctionType{
		Params: []ValueType{ValueTypeI64},
	})
	require.NoError(t, err)
	require.Equal(t, uint32(1), second)

	testIndex := b.AddFunction(
		"test",
		&FunctionType{Results: []ValueType{ValueTypeI32}},
		nil,
	)
	require.Equal(t, uint32(2), testIndex)
	require.Equal(t, uint32(3), b.FunctionCount())

	_, err = b.AddFunctionImport("env", "late", logType)
	require.Error(t, err)

	require.NoError(t,
		b.SetFunctionCode(testIndex, &Code{
			Instructions: []Instruction{
				InstructionI32Const{Value: 1},
			},
		}),
	)
	require.Error(t, b.SetFunctionCode(first, &Code{}))

	offset := b.RequireMemory(10)
	require.Equal(t, uint32(0), offset)
	b.AddData(offset, []byte("0123456789"))
	require.Equal(t, uint32(10), b.RequiredMemorySize())

	heapBase := b.AddGlobal(&Global{
		Type: ValueTypeI32,
		Init: []Instruction{
			InstructionI32Const{Value: 16},
		},
	})

	b.ExportMemory("memory")
	b.ExportFunction("test", testIndex)
	b.ExportGlobal("heap", heapBase)

	module, encoded, err := b.Encode(true)
	require.NoError(t, err)

	// equal import types share a type
	require.Len(t, module.Types, 2)
	require.Equal(t, module.Imports[0].TypeIndex, module.Imports[1].TypeIndex)

	require.Len(t, module.Memories, 1)
	require.Equal(t, uint32(1), module.Memories[0].Min)
	require.Equal(t, uint64(10), module.DataSize())
	require.Len(t, module.Exports, 3)

	require.Equal(t, wasmMagic, encoded[:4])
	require.Equal(t, wasmVersion, encoded[4:8])
}
