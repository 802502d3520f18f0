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

// Instruction represents an instruction in the code of a WASM binary.
type Instruction interface {
	write(w *WASMWriter) error
}

type opcode byte

const (
	opcodeUnreachable   opcode = 0x00
	opcodeNop           opcode = 0x01
	opcodeBlock         opcode = 0x02
	opcodeLoop          opcode = 0x03
	opcodeIf            opcode = 0x04
	opcodeElse          opcode = 0x05
	opcodeEnd           opcode = 0x0B
	opcodeBr            opcode = 0x0C
	opcodeBrIf          opcode = 0x0D
	opcodeBrTable       opcode = 0x0E
	opcodeReturn        opcode = 0x0F
	opcodeCall          opcode = 0x10
	opcodeDrop          opcode = 0x1A
	opcodeSelect        opcode = 0x1B
	opcodeLocalGet      opcode = 0x20
	opcodeLocalSet      opcode = 0x21
	opcodeLocalTee      opcode = 0x22
	opcodeGlobalGet     opcode = 0x23
	opcodeGlobalSet     opcode = 0x24
	opcodeI32Load       opcode = 0x28
	opcodeI64Load       opcode = 0x29
	opcodeI32Store      opcode = 0x36
	opcodeI64Store      opcode = 0x37
	opcodeMemorySize    opcode = 0x3F
	opcodeMemoryGrow    opcode = 0x40
	opcodeI32Const      opcode = 0x41
	opcodeI64Const      opcode = 0x42
	opcodeI32Eqz        opcode = 0x45
	opcodeI32Eq         opcode = 0x46
	opcodeI32Ne         opcode = 0x47
	opcodeI64Eqz        opcode = 0x50
	opcodeI64Eq         opcode = 0x51
	opcodeI64Ne         opcode = 0x52
	opcodeI64LtS        opcode = 0x53
	opcodeI64LtU        opcode = 0x54
	opcodeI64GtS        opcode = 0x55
	opcodeI64GtU        opcode = 0x56
	opcodeI64LeS        opcode = 0x57
	opcodeI64LeU        opcode = 0x58
	opcodeI64GeS        opcode = 0x59
	opcodeI64GeU        opcode = 0x5A
	opcodeI32Add        opcode = 0x6A
	opcodeI32Sub        opcode = 0x6B
	opcodeI32And        opcode = 0x71
	opcodeI32Or         opcode = 0x72
	opcodeI32Xor        opcode = 0x73
	opcodeI64Add        opcode = 0x7C
	opcodeI64Sub        opcode = 0x7D
	opcodeI64Mul        opcode = 0x7E
	opcodeI64DivS       opcode = 0x7F
	opcodeI64DivU       opcode = 0x80
	opcodeI64RemS       opcode = 0x81
	opcodeI64RemU       opcode = 0x82
	opcodeI64And        opcode = 0x83
	opcodeI64Or         opcode = 0x84
	opcodeI64Xor        opcode = 0x85
	opcodeI64Shl        opcode = 0x86
	opcodeI64ShrS       opcode = 0x87
	opcodeI64ShrU       opcode = 0x88
	opcodeI32WrapI64    opcode = 0xA7
	opcodeI64ExtendI32S opcode = 0xAC
	opcodeI64ExtendI32U opcode = 0xAD
)

// BlockType is the type of a block: empty, a single value type, or a function type index.
type BlockType interface {
	isBlockType()
}

// emptyBlockType is the byte used to indicate a block without results.
const emptyBlockType byte = 0x40

// TypeIndexBlockType is a block type given by the index of a function type.
type TypeIndexBlockType struct {
	TypeIndex uint32
}

func (TypeIndexBlockType) isBlockType() {}

// Block is the body of a block, loop, or if instruction.
// Only if instructions may have second instructions, the else branch.
type Block struct {
	BlockType     BlockType
	Instructions1 []Instruction
	Instructions2 []Instruction
}

// simpleInstruction is an instruction without immediates.
type simpleInstruction opcode

func (i simpleInstruction) write(w *WASMWriter) error {
	return w.buf.WriteByte(byte(i))
}

type InstructionUnreachable struct{}

func (InstructionUnreachable) write(w *WASMWriter) error {
	return simpleInstruction(opcodeUnreachable).write(w)
}

type InstructionNop struct{}

func (InstructionNop) write(w *WASMWriter) error {
	return simpleInstruction(opcodeNop).write(w)
}

type InstructionBlock struct {
	Block Block
}

func (i InstructionBlock) write(w *WASMWriter) error {
	return w.writeBlockInstruction(opcodeBlock, i.Block, false)
}

type InstructionLoop struct {
	Block Block
}

func (i InstructionLoop) write(w *WASMWriter) error {
	return w.writeBlockInstruction(opcodeLoop, i.Block, false)
}

type InstructionIf struct {
	Block Block
}

func (i InstructionIf) write(w *WASMWriter) error {
	return w.writeBlockInstruction(opcodeIf, i.Block, true)
}

type InstructionBr struct {
	LabelIndex uint32
}

func (i InstructionBr) write(w *WASMWriter) error {
	return w.writeOpcodeUint32(opcodeBr, i.LabelIndex)
}

type InstructionBrIf struct {
	LabelIndex uint32
}

func (i InstructionBrIf) write(w *WASMWriter) error {
	return w.writeOpcodeUint32(opcodeBrIf, i.LabelIndex)
}

type InstructionBrTable struct {
	LabelIndices      []uint32
	DefaultLabelIndex uint32
}

func (i InstructionBrTable) write(w *WASMWriter) error {
	err := w.buf.WriteByte(byte(opcodeBrTable))
	if err != nil {
		return err
	}
	err = w.buf.writeUint32LEB128(uint32(len(i.LabelIndices)))
	if err != nil {
		return err
	}
	for _, labelIndex := range i.LabelIndices {
		err = w.buf.writeUint32LEB128(labelIndex)
		if err != nil {
			return err
		}
	}
	return w.buf.writeUint32LEB128(i.DefaultLabelIndex)
}

type InstructionReturn struct{}

func (InstructionReturn) write(w *WASMWriter) error {
	return simpleInstruction(opcodeReturn).write(w)
}

type InstructionCall struct {
	FuncIndex uint32
}

func (i InstructionCall) write(w *WASMWriter) error {
	return w.writeOpcodeUint32(opcodeCall, i.FuncIndex)
}

type InstructionDrop struct{}

func (InstructionDrop) write(w *WASMWriter) error {
	return simpleInstruction(opcodeDrop).write(w)
}

type InstructionSelect struct{}

func (InstructionSelect) write(w *WASMWriter) error {
	return simpleInstruction(opcodeSelect).write(w)
}

type InstructionLocalGet struct {
	LocalIndex uint32
}

func (i InstructionLocalGet) write(w *WASMWriter) error {
	return w.writeOpcodeUint32(opcodeLocalGet, i.LocalIndex)
}

type InstructionLocalSet struct {
	LocalIndex uint32
}

func (i InstructionLocalSet) write(w *WASMWriter) error {
	return w.writeOpcodeUint32(opcodeLocalSet, i.LocalIndex)
}

type InstructionLocalTee struct {
	LocalIndex uint32
}

func (i InstructionLocalTee) write(w *WASMWriter) error {
	return w.writeOpcodeUint32(opcodeLocalTee, i.LocalIndex)
}

type InstructionGlobalGet struct {
	GlobalIndex uint32
}

func (i InstructionGlobalGet) write(w *WASMWriter) error {
	return w.writeOpcodeUint32(opcodeGlobalGet, i.GlobalIndex)
}

type InstructionGlobalSet struct {
	GlobalIndex uint32
}

func (i InstructionGlobalSet) write(w *WASMWriter) error {
	return w.writeOpcodeUint32(opcodeGlobalSet, i.GlobalIndex)
}

// MemoryArgument is the alignment and offset of a memory access.
type MemoryArgument struct {
	Align  uint32
	Offset uint32
}

type InstructionI32Load struct {
	Memory MemoryArgument
}

func (i InstructionI32Load) write(w *WASMWriter) error {
	return w.writeMemoryInstruction(opcodeI32Load, i.Memory)
}

type InstructionI64Load struct {
	Memory MemoryArgument
}

func (i InstructionI64Load) write(w *WASMWriter) error {
	return w.writeMemoryInstruction(opcodeI64Load, i.Memory)
}

type InstructionI32Store struct {
	Memory MemoryArgument
}

func (i InstructionI32Store) write(w *WASMWriter) error {
	return w.writeMemoryInstruction(opcodeI32Store, i.Memory)
}

type InstructionI64Store struct {
	Memory MemoryArgument
}

func (i InstructionI64Store) write(w *WASMWriter) error {
	return w.writeMemoryInstruction(opcodeI64Store, i.Memory)
}

type InstructionMemorySize struct{}

func (InstructionMemorySize) write(w *WASMWriter) error {
	// the memory index is reserved, always 0
	return w.buf.WriteBytes([]byte{byte(opcodeMemorySize), 0x0})
}

type InstructionMemoryGrow struct{}

func (InstructionMemoryGrow) write(w *WASMWriter) error {
	return w.buf.WriteBytes([]byte{byte(opcodeMemoryGrow), 0x0})
}

type InstructionI32Const struct {
	Value int32
}

func (i InstructionI32Const) write(w *WASMWriter) error {
	err := w.buf.WriteByte(byte(opcodeI32Const))
	if err != nil {
		return err
	}
	return w.buf.writeInt32LEB128(i.Value)
}

type InstructionI64Const struct {
	Value int64
}

func (i InstructionI64Const) write(w *WASMWriter) error {
	err := w.buf.WriteByte(byte(opcodeI64Const))
	if err != nil {
		return err
	}
	return w.buf.writeInt64LEB128(i.Value)
}

type InstructionI32Eqz struct{}

func (InstructionI32Eqz) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI32Eqz).write(w)
}

type InstructionI32Eq struct{}

func (InstructionI32Eq) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI32Eq).write(w)
}

type InstructionI32Ne struct{}

func (InstructionI32Ne) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI32Ne).write(w)
}

type InstructionI64Eqz struct{}

func (InstructionI64Eqz) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64Eqz).write(w)
}

type InstructionI64Eq struct{}

func (InstructionI64Eq) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64Eq).write(w)
}

type InstructionI64Ne struct{}

func (InstructionI64Ne) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64Ne).write(w)
}

type InstructionI64LtS struct{}

func (InstructionI64LtS) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64LtS).write(w)
}

type InstructionI64LtU struct{}

func (InstructionI64LtU) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64LtU).write(w)
}

type InstructionI64GtS struct{}

func (InstructionI64GtS) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64GtS).write(w)
}

type InstructionI64GtU struct{}

func (InstructionI64GtU) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64GtU).write(w)
}

type InstructionI64LeS struct{}

func (InstructionI64LeS) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64LeS).write(w)
}

type InstructionI64LeU struct{}

func (InstructionI64LeU) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64LeU).write(w)
}

type InstructionI64GeS struct{}

func (InstructionI64GeS) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64GeS).write(w)
}

type InstructionI64GeU struct{}

func (InstructionI64GeU) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64GeU).write(w)
}

type InstructionI32Add struct{}

func (InstructionI32Add) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI32Add).write(w)
}

type InstructionI32Sub struct{}

func (InstructionI32Sub) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI32Sub).write(w)
}

type InstructionI32And struct{}

func (InstructionI32And) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI32And).write(w)
}

type InstructionI32Or struct{}

func (InstructionI32Or) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI32Or).write(w)
}

type InstructionI32Xor struct{}

func (InstructionI32Xor) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI32Xor).write(w)
}

type InstructionI64Add struct{}

func (InstructionI64Add) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64Add).write(w)
}

type InstructionI64Sub struct{}

func (InstructionI64Sub) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64Sub).write(w)
}

type InstructionI64Mul struct{}

func (InstructionI64Mul) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64Mul).write(w)
}

type InstructionI64DivS struct{}

func (InstructionI64DivS) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64DivS).write(w)
}

type InstructionI64DivU struct{}

func (InstructionI64DivU) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64DivU).write(w)
}

type InstructionI64RemS struct{}

func (InstructionI64RemS) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64RemS).write(w)
}

type InstructionI64RemU struct{}

func (InstructionI64RemU) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64RemU).write(w)
}

type InstructionI64And struct{}

func (InstructionI64And) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64And).write(w)
}

type InstructionI64Or struct{}

func (InstructionI64Or) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64Or).write(w)
}

type InstructionI64Xor struct{}

func (InstructionI64Xor) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64Xor).write(w)
}

type InstructionI64Shl struct{}

func (InstructionI64Shl) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64Shl).write(w)
}

type InstructionI64ShrS struct{}

func (InstructionI64ShrS) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64ShrS).write(w)
}

type InstructionI64ShrU struct{}

func (InstructionI64ShrU) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64ShrU).write(w)
}

type InstructionI32WrapI64 struct{}

func (InstructionI32WrapI64) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI32WrapI64).write(w)
}

type InstructionI64ExtendI32S struct{}

func (InstructionI64ExtendI32S) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64ExtendI32S).write(w)
}

type InstructionI64ExtendI32U struct{}

func (InstructionI64ExtendI32U) write(w *WASMWriter) error {
	return simpleInstruction(opcodeI64ExtendI32U).write(w)
}
