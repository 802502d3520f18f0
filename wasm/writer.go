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
	"fmt"
	"unicode/utf8"
)

// WASMWriter allows writing WASM binaries.
type WASMWriter struct {
	buf        *Buffer
	WriteNames bool
}

func NewWASMWriter(buf *Buffer) *WASMWriter {
	return &WASMWriter{
		buf: buf,
	}
}

// InvalidNonUTF8NameError is returned when a name is not valid UTF-8.
type InvalidNonUTF8NameError struct {
	Name   string
	Offset int
}

func (e InvalidNonUTF8NameError) Error() string {
	return fmt.Sprintf(
		"invalid non-UTF-8 name at offset %d: %q",
		e.Offset,
		e.Name,
	)
}

// InvalidBlockSecondInstructionsError is returned when a block or loop
// has a second set of instructions, which only if instructions may have.
type InvalidBlockSecondInstructionsError struct {
	Offset int
}

func (e InvalidBlockSecondInstructionsError) Error() string {
	return fmt.Sprintf(
		"invalid second instructions for block at offset %d",
		e.Offset,
	)
}

// UnsupportedBlockTypeError is returned when a block has an unknown block type.
type UnsupportedBlockTypeError struct {
	BlockType BlockType
	Offset    int
}

func (e UnsupportedBlockTypeError) Error() string {
	return fmt.Sprintf(
		"unsupported block type at offset %d: %T",
		e.Offset,
		e.BlockType,
	)
}

// WriteModule writes a module in the WASM binary format.
func (w *WASMWriter) WriteModule(module *Module) error {
	if err := w.writeMagicAndVersion(); err != nil {
		return err
	}

	if len(module.Types) > 0 {
		if err := w.writeTypeSection(module.Types); err != nil {
			return err
		}
	}

	if len(module.Imports) > 0 {
		if err := w.writeImportSection(module.Imports); err != nil {
			return err
		}
	}

	if len(module.Functions) > 0 {
		if err := w.writeFunctionSection(module.Functions); err != nil {
			return err
		}
	}

	if len(module.Memories) > 0 {
		if err := w.writeMemorySection(module.Memories); err != nil {
			return err
		}
	}

	if len(module.Globals) > 0 {
		if err := w.writeGlobalSection(module.Globals); err != nil {
			return err
		}
	}

	if len(module.Exports) > 0 {
		if err := w.writeExportSection(module.Exports); err != nil {
			return err
		}
	}

	if module.StartFunctionIndex != nil {
		if err := w.writeStartSection(*module.StartFunctionIndex); err != nil {
			return err
		}
	}

	if len(module.Functions) > 0 {
		if err := w.writeCodeSection(module.Functions); err != nil {
			return err
		}
	}

	if len(module.Data) > 0 {
		if err := w.writeDataSection(module.Data); err != nil {
			return err
		}
	}

	if w.WriteNames {
		if err := w.writeNameSection(module.Name, module.Imports, module.Functions); err != nil {
			return err
		}
	}

	return nil
}

func (w *WASMWriter) writeMagicAndVersion() error {
	if err := w.buf.WriteBytes(wasmMagic); err != nil {
		return err
	}
	return w.buf.WriteBytes(wasmVersion)
}

// writeSection writes a section with the given ID.
// The size of the section is determined after the content was written.
func (w *WASMWriter) writeSection(sectionID sectionID, content func() error) error {
	if err := w.buf.WriteByte(byte(sectionID)); err != nil {
		return err
	}

	sizeOffset, err := w.buf.writeFixedUint32LEB128Space()
	if err != nil {
		return err
	}

	if err := content(); err != nil {
		return err
	}

	return w.buf.writeUint32LEB128SizeAt(sizeOffset)
}

// writeVector writes the count of the elements, followed by each element.
func writeVector[T any](w *WASMWriter, elements []T, write func(T) error) error {
	if err := w.buf.writeUint32LEB128(uint32(len(elements))); err != nil {
		return err
	}
	for _, element := range elements {
		if err := write(element); err != nil {
			return err
		}
	}
	return nil
}

func (w *WASMWriter) writeTypeSection(functionTypes []*FunctionType) error {
	return w.writeSection(sectionIDType, func() error {
		return writeVector(w, functionTypes, w.writeFuncType)
	})
}

func (w *WASMWriter) writeFuncType(funcType *FunctionType) error {
	if err := w.buf.WriteByte(functionTypeIndicator); err != nil {
		return err
	}
	if err := writeVector(w, funcType.Params, w.writeValueType); err != nil {
		return err
	}
	return writeVector(w, funcType.Results, w.writeValueType)
}

func (w *WASMWriter) writeValueType(valueType ValueType) error {
	return w.buf.WriteByte(byte(valueType))
}

func (w *WASMWriter) writeImportSection(imports []*Import) error {
	return w.writeSection(sectionIDImport, func() error {
		return writeVector(w, imports, w.writeImport)
	})
}

func (w *WASMWriter) writeImport(im *Import) error {
	if err := w.writeName(im.Module); err != nil {
		return err
	}
	if err := w.writeName(im.Name); err != nil {
		return err
	}
	if err := w.buf.WriteByte(byte(importIndicatorFunction)); err != nil {
		return err
	}
	return w.buf.writeUint32LEB128(im.TypeIndex)
}

func (w *WASMWriter) writeFunctionSection(functions []*Function) error {
	return w.writeSection(sectionIDFunction, func() error {
		return writeVector(w, functions, func(function *Function) error {
			return w.buf.writeUint32LEB128(function.TypeIndex)
		})
	})
}

func (w *WASMWriter) writeMemorySection(memories []*Memory) error {
	return w.writeSection(sectionIDMemory, func() error {
		return writeVector(w, memories, w.writeMemory)
	})
}

func (w *WASMWriter) writeMemory(memory *Memory) error {
	indicator := limitIndicatorNoMax
	if memory.Max != nil {
		indicator = limitIndicatorMax
	}
	if err := w.buf.WriteByte(byte(indicator)); err != nil {
		return err
	}
	if err := w.buf.writeUint32LEB128(memory.Min); err != nil {
		return err
	}
	if memory.Max != nil {
		return w.buf.writeUint32LEB128(*memory.Max)
	}
	return nil
}

func (w *WASMWriter) writeGlobalSection(globals []*Global) error {
	return w.writeSection(sectionIDGlobal, func() error {
		return writeVector(w, globals, w.writeGlobal)
	})
}

func (w *WASMWriter) writeGlobal(global *Global) error {
	if err := w.writeValueType(global.Type); err != nil {
		return err
	}
	var mutability byte
	if global.Mutable {
		mutability = 1
	}
	if err := w.buf.WriteByte(mutability); err != nil {
		return err
	}
	return w.writeExpr(global.Init)
}

func (w *WASMWriter) writeExportSection(exports []*Export) error {
	return w.writeSection(sectionIDExport, func() error {
		return writeVector(w, exports, w.writeExport)
	})
}

func (w *WASMWriter) writeExport(export *Export) error {
	if err := w.writeName(export.Name); err != nil {
		return err
	}

	var indicator exportIndicator
	var index uint32

	switch descriptor := export.Descriptor.(type) {
	case FunctionExport:
		indicator = exportIndicatorFunction
		index = descriptor.FunctionIndex
	case MemoryExport:
		indicator = exportIndicatorMemory
		index = descriptor.MemoryIndex
	case GlobalExport:
		indicator = exportIndicatorGlobal
		index = descriptor.GlobalIndex
	default:
		return fmt.Errorf("unsupported export descriptor: %T", descriptor)
	}

	if err := w.buf.WriteByte(byte(indicator)); err != nil {
		return err
	}
	return w.buf.writeUint32LEB128(index)
}

func (w *WASMWriter) writeStartSection(funcIndex uint32) error {
	return w.writeSection(sectionIDStart, func() error {
		return w.buf.writeUint32LEB128(funcIndex)
	})
}

func (w *WASMWriter) writeCodeSection(functions []*Function) error {
	return w.writeSection(sectionIDCode, func() error {
		return writeVector(w, functions, func(function *Function) error {
			return w.writeFunctionBody(function.Code)
		})
	})
}

// writeFunctionBody writes the size of the body, the locals grouped
// by consecutive runs of the same type, and the instructions.
func (w *WASMWriter) writeFunctionBody(code *Code) error {
	sizeOffset, err := w.buf.writeFixedUint32LEB128Space()
	if err != nil {
		return err
	}

	type localGroup struct {
		count     uint32
		valueType ValueType
	}

	var groups []localGroup
	for _, local := range code.Locals {
		last := len(groups) - 1
		if last >= 0 && groups[last].valueType == local {
			groups[last].count++
			continue
		}
		groups = append(groups, localGroup{count: 1, valueType: local})
	}

	err = writeVector(w, groups, func(group localGroup) error {
		if err := w.buf.writeUint32LEB128(group.count); err != nil {
			return err
		}
		return w.writeValueType(group.valueType)
	})
	if err != nil {
		return err
	}

	if err := w.writeExpr(code.Instructions); err != nil {
		return err
	}

	return w.buf.writeUint32LEB128SizeAt(sizeOffset)
}

// writeExpr writes the instructions, followed by an end instruction.
func (w *WASMWriter) writeExpr(instructions []Instruction) error {
	if err := w.writeInstructions(instructions); err != nil {
		return err
	}
	return w.buf.WriteByte(byte(opcodeEnd))
}

func (w *WASMWriter) writeInstructions(instructions []Instruction) error {
	for _, instruction := range instructions {
		if err := instruction.write(w); err != nil {
			return err
		}
	}
	return nil
}

func (w *WASMWriter) writeOpcodeUint32(opcode opcode, value uint32) error {
	if err := w.buf.WriteByte(byte(opcode)); err != nil {
		return err
	}
	return w.buf.writeUint32LEB128(value)
}

func (w *WASMWriter) writeMemoryInstruction(opcode opcode, memory MemoryArgument) error {
	if err := w.buf.WriteByte(byte(opcode)); err != nil {
		return err
	}
	if err := w.buf.writeUint32LEB128(memory.Align); err != nil {
		return err
	}
	return w.buf.writeUint32LEB128(memory.Offset)
}

func (w *WASMWriter) writeBlockType(blockType BlockType) error {
	switch blockType := blockType.(type) {
	case nil:
		return w.buf.WriteByte(emptyBlockType)
	case ValueType:
		return w.writeValueType(blockType)
	case TypeIndexBlockType:
		// type indices are encoded as positive signed 33-bit integers
		return w.buf.writeInt64LEB128(int64(blockType.TypeIndex))
	default:
		return UnsupportedBlockTypeError{
			BlockType: blockType,
			Offset:    int(w.buf.offset),
		}
	}
}

func (w *WASMWriter) writeBlockInstruction(opcode opcode, block Block, allowElse bool) error {
	if err := w.buf.WriteByte(byte(opcode)); err != nil {
		return err
	}

	if err := w.writeBlockType(block.BlockType); err != nil {
		return err
	}

	if err := w.writeInstructions(block.Instructions1); err != nil {
		return err
	}

	if len(block.Instructions2) > 0 {
		if !allowElse {
			return InvalidBlockSecondInstructionsError{
				Offset: int(w.buf.offset),
			}
		}

		if err := w.buf.WriteByte(byte(opcodeElse)); err != nil {
			return err
		}

		if err := w.writeInstructions(block.Instructions2); err != nil {
			return err
		}
	}

	return w.buf.WriteByte(byte(opcodeEnd))
}

func (w *WASMWriter) writeDataSection(segments []*Data) error {
	return w.writeSection(sectionIDData, func() error {
		return writeVector(w, segments, w.writeDataSegment)
	})
}

func (w *WASMWriter) writeDataSegment(segment *Data) error {
	if err := w.buf.writeUint32LEB128(segment.MemoryIndex); err != nil {
		return err
	}
	if err := w.writeExpr(segment.Offset); err != nil {
		return err
	}
	if err := w.buf.writeUint32LEB128(uint32(len(segment.Init))); err != nil {
		return err
	}
	return w.buf.WriteBytes(segment.Init)
}

// writeName writes a name, a length-prefixed UTF-8 string.
func (w *WASMWriter) writeName(name string) error {
	if !utf8.ValidString(name) {
		return InvalidNonUTF8NameError{
			Name:   name,
			Offset: int(w.buf.offset),
		}
	}

	if err := w.buf.writeUint32LEB128(uint32(len(name))); err != nil {
		return err
	}
	return w.buf.WriteString(name)
}

// writeNameSection writes the custom name section,
// with the module name and the names of all imported and defined functions.
func (w *WASMWriter) writeNameSection(moduleName string, imports []*Import, functions []*Function) error {
	return w.writeSection(sectionIDCustom, func() error {
		if err := w.writeName(customSectionNameName); err != nil {
			return err
		}

		err := w.writeNameSubSection(nameSubSectionIDModuleName, func() error {
			return w.writeName(moduleName)
		})
		if err != nil {
			return err
		}

		return w.writeNameSubSection(nameSubSectionIDFunctionNames, func() error {
			count := len(imports) + len(functions)
			if err := w.buf.writeUint32LEB128(uint32(count)); err != nil {
				return err
			}

			var funcIndex uint32

			for _, im := range imports {
				if err := w.writeFunctionName(funcIndex, im.FullName()); err != nil {
					return err
				}
				funcIndex++
			}

			for _, function := range functions {
				if err := w.writeFunctionName(funcIndex, function.Name); err != nil {
					return err
				}
				funcIndex++
			}

			return nil
		})
	})
}

func (w *WASMWriter) writeNameSubSection(id nameSubSectionID, content func() error) error {
	if err := w.buf.WriteByte(byte(id)); err != nil {
		return err
	}
	sizeOffset, err := w.buf.writeFixedUint32LEB128Space()
	if err != nil {
		return err
	}
	if err := content(); err != nil {
		return err
	}
	return w.buf.writeUint32LEB128SizeAt(sizeOffset)
}

func (w *WASMWriter) writeFunctionName(funcIndex uint32, name string) error {
	if err := w.buf.writeUint32LEB128(funcIndex); err != nil {
		return err
	}
	return w.writeName(name)
}
