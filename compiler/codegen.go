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
	"encoding/binary"

	"github.com/onflow/cadence/errors"

	"github.com/onflow/cadence-benchmarking/compiler/ir"
	"github.com/onflow/cadence-benchmarking/host"
	"github.com/onflow/cadence-benchmarking/wasm"
)

// WasmCodeGen generates a WASM module from IR.
type WasmCodeGen struct {
	mod              *wasm.ModuleBuilder
	code             *wasm.Code
	instructions     *[]wasm.Instruction
	funcIndices      map[string]uint32
	intrinsicIndices map[string]uint32
	dataOffsets      map[string]uint32
	paramCount       uint32
	scratchLocal     *uint32
}

var _ ir.Visitor = &WasmCodeGen{}

func NewWasmCodeGen(name string) *WasmCodeGen {
	return &WasmCodeGen{
		mod:              wasm.NewModuleBuilder(name),
		funcIndices:      map[string]uint32{},
		intrinsicIndices: map[string]uint32{},
		dataOffsets:      map[string]uint32{},
	}
}

// ValueType returns the WASM type of values of the given type.
// Strings and operands are a pointer into linear memory and a length,
// packed into a 64-bit integer.
func ValueType(valType ir.ValType) (wasm.ValueType, bool) {
	switch valType {
	case ir.ValTypeBool:
		return wasm.ValueTypeI32, true
	case ir.ValTypeInt64,
		ir.ValTypeUInt64,
		ir.ValTypeAddress,
		ir.ValTypeString,
		ir.ValTypeOperand:

		return wasm.ValueTypeI64, true
	}
	return 0, false
}

func generateWasmFunctionType(funcType ir.FuncType) *wasm.FunctionType {
	params := make([]wasm.ValueType, 0, len(funcType.Params))
	for _, param := range funcType.Params {
		valueType, ok := ValueType(param)
		if !ok {
			panic(errors.NewUnreachableError())
		}
		params = append(params, valueType)
	}

	var results []wasm.ValueType
	if result, ok := ValueType(funcType.Result); ok {
		results = []wasm.ValueType{result}
	}

	return &wasm.FunctionType{
		Params:  params,
		Results: results,
	}
}

// IntrinsicFunctionType returns the type of the function import of an intrinsic.
func IntrinsicFunctionType(intrinsic *host.Intrinsic) *wasm.FunctionType {
	params := make([]ir.ValType, 0, len(intrinsic.Parameters))
	for _, parameter := range intrinsic.Parameters {
		params = append(params, intrinsicValType(parameter.Kind))
	}
	return generateWasmFunctionType(ir.FuncType{
		Params: params,
		Result: intrinsicValType(intrinsic.Result),
	})
}

// PackPointer packs a pointer into linear memory and a length into a 64-bit integer.
func PackPointer(offset uint32, length uint32) int64 {
	return int64(uint64(offset)<<32 | uint64(length))
}

// UnpackPointer unpacks a pointer into linear memory and a length from a 64-bit integer.
func UnpackPointer(packed int64) (offset uint32, length uint32) {
	return uint32(uint64(packed) >> 32), uint32(packed)
}

func (codeGen *WasmCodeGen) emit(instructions ...wasm.Instruction) {
	*codeGen.instructions = append(*codeGen.instructions, instructions...)
}

// collect returns the instructions emitted by the given function.
func (codeGen *WasmCodeGen) collect(f func()) []wasm.Instruction {
	previous := codeGen.instructions
	var instructions []wasm.Instruction
	codeGen.instructions = &instructions
	defer func() {
		codeGen.instructions = previous
	}()
	f()
	return instructions
}

// data returns the offset of the given bytes in linear memory,
// adding a data segment for them if needed.
func (codeGen *WasmCodeGen) data(value []byte) uint32 {
	if len(value) == 0 {
		return 0
	}
	key := string(value)
	if offset, ok := codeGen.dataOffsets[key]; ok {
		return offset
	}
	offset := codeGen.mod.RequireMemory(uint32(len(value)))
	codeGen.mod.AddData(offset, value)
	codeGen.dataOffsets[key] = offset
	return offset
}

func (codeGen *WasmCodeGen) emitData(value []byte) {
	offset := codeGen.data(value)
	codeGen.emit(wasm.InstructionI64Const{
		Value: PackPointer(offset, uint32(len(value))),
	})
}

func (codeGen *WasmCodeGen) VisitInt64(c ir.Int64) ir.Repr {
	codeGen.emit(wasm.InstructionI64Const{Value: c.Value})
	return nil
}

func (codeGen *WasmCodeGen) VisitUInt64(c ir.UInt64) ir.Repr {
	codeGen.emit(wasm.InstructionI64Const{Value: int64(c.Value)})
	return nil
}

func (codeGen *WasmCodeGen) VisitBool(c ir.Bool) ir.Repr {
	var value int32
	if c.Value {
		value = 1
	}
	codeGen.emit(wasm.InstructionI32Const{Value: value})
	return nil
}

func (codeGen *WasmCodeGen) VisitAddress(c ir.Address) ir.Repr {
	codeGen.emit(wasm.InstructionI64Const{
		Value: int64(binary.BigEndian.Uint64(c.Value[:])),
	})
	return nil
}

func (codeGen *WasmCodeGen) VisitString(c ir.String) ir.Repr {
	codeGen.emitData([]byte(c.Value))
	return nil
}

func (codeGen *WasmCodeGen) VisitOperand(c ir.Operand) ir.Repr {
	codeGen.emitData(c.Value)
	return nil
}

func (codeGen *WasmCodeGen) VisitSequence(sequence *ir.Sequence) ir.Repr {
	for _, stmt := range sequence.Stmts {
		stmt.Accept(codeGen)
	}
	return nil
}

func (codeGen *WasmCodeGen) VisitIf(stmt *ir.If) ir.Repr {
	stmt.Test.Accept(codeGen)

	then := codeGen.collect(func() {
		stmt.Then.Accept(codeGen)
	})

	var otherwise []wasm.Instruction
	if stmt.Else != nil {
		otherwise = codeGen.collect(func() {
			stmt.Else.Accept(codeGen)
		})
	}

	codeGen.emit(wasm.InstructionIf{
		Block: wasm.Block{
			Instructions1: then,
			Instructions2: otherwise,
		},
	})
	return nil
}

func (codeGen *WasmCodeGen) VisitStoreLocal(storeLocal *ir.StoreLocal) ir.Repr {
	storeLocal.Exp.Accept(codeGen)
	codeGen.emit(wasm.InstructionLocalSet{
		LocalIndex: storeLocal.LocalIndex,
	})
	return nil
}

func (codeGen *WasmCodeGen) VisitDrop(drop *ir.Drop) ir.Repr {
	drop.Exp.Accept(codeGen)
	if drop.Exp.Type() != ir.ValTypeVoid {
		codeGen.emit(wasm.InstructionDrop{})
	}
	return nil
}

func (codeGen *WasmCodeGen) VisitReturn(r *ir.Return) ir.Repr {
	if r.Exp != nil {
		r.Exp.Accept(codeGen)
	}
	codeGen.emit(wasm.InstructionReturn{})
	return nil
}

func (codeGen *WasmCodeGen) VisitConst(c *ir.Const) ir.Repr {
	c.Constant.Accept(codeGen)
	return nil
}

func (codeGen *WasmCodeGen) VisitCopyLocal(c *ir.CopyLocal) ir.Repr {
	codeGen.emit(wasm.InstructionLocalGet{
		LocalIndex: c.LocalIndex,
	})
	return nil
}

func (codeGen *WasmCodeGen) VisitUnOpExpr(expr *ir.UnOpExpr) ir.Repr {
	switch expr.Op {
	case ir.UnOpNot:
		expr.Exp.Accept(codeGen)
		codeGen.emit(wasm.InstructionI32Eqz{})
		return nil

	case ir.UnOpNegate:
		codeGen.emit(wasm.InstructionI64Const{Value: 0})
		expr.Exp.Accept(codeGen)
		codeGen.emit(wasm.InstructionI64Sub{})
		return nil
	}
	panic(errors.NewUnreachableError())
}

func (codeGen *WasmCodeGen) VisitBinOpExpr(expr *ir.BinOpExpr) ir.Repr {

	// logical operations short-circuit

	switch expr.Op {
	case ir.BinOpAnd:
		expr.Left.Accept(codeGen)
		codeGen.emit(wasm.InstructionIf{
			Block: wasm.Block{
				BlockType: wasm.ValueTypeI32,
				Instructions1: codeGen.collect(func() {
					expr.Right.Accept(codeGen)
				}),
				Instructions2: []wasm.Instruction{
					wasm.InstructionI32Const{Value: 0},
				},
			},
		})
		return nil

	case ir.BinOpOr:
		expr.Left.Accept(codeGen)
		codeGen.emit(wasm.InstructionIf{
			Block: wasm.Block{
				BlockType: wasm.ValueTypeI32,
				Instructions1: []wasm.Instruction{
					wasm.InstructionI32Const{Value: 1},
				},
				Instructions2: codeGen.collect(func() {
					expr.Right.Accept(codeGen)
				}),
			},
		})
		return nil
	}

	expr.Left.Accept(codeGen)
	expr.Right.Accept(codeGen)

	operandType := expr.Left.Type()

	if operandType == ir.ValTypeBool {
		switch expr.Op {
		case ir.BinOpEqual:
			codeGen.emit(wasm.InstructionI32Eq{})
			return nil
		case ir.BinOpNotEqual:
			codeGen.emit(wasm.InstructionI32Ne{})
			return nil
		}
		panic(errors.NewUnreachableError())
	}

	signed := operandType.IsSigned()

	var instruction wasm.Instruction

	switch expr.Op {
	case ir.BinOpPlus:
		instruction = wasm.InstructionI64Add{}
	case ir.BinOpMinus:
		instruction = wasm.InstructionI64Sub{}
	case ir.BinOpMul:
		instruction = wasm.InstructionI64Mul{}
	case ir.BinOpDiv:
		instruction = signedOrUnsigned(signed, wasm.InstructionI64DivS{}, wasm.InstructionI64DivU{})
	case ir.BinOpMod:
		instruction = signedOrUnsigned(signed, wasm.InstructionI64RemS{}, wasm.InstructionI64RemU{})
	case ir.BinOpBitwiseAnd:
		instruction = wasm.InstructionI64And{}
	case ir.BinOpBitwiseOr:
		instruction = wasm.InstructionI64Or{}
	case ir.BinOpBitwiseXor:
		instruction = wasm.InstructionI64Xor{}
	case ir.BinOpShiftLeft:
		instruction = wasm.InstructionI64Shl{}
	case ir.BinOpShiftRight:
		instruction = signedOrUnsigned(signed, wasm.InstructionI64ShrS{}, wasm.InstructionI64ShrU{})
	case ir.BinOpLess:
		instruction = signedOrUnsigned(signed, wasm.InstructionI64LtS{}, wasm.InstructionI64LtU{})
	case ir.BinOpLessEqual:
		instruction = signedOrUnsigned(signed, wasm.InstructionI64LeS{}, wasm.InstructionI64LeU{})
	case ir.BinOpGreater:
		instruction = signedOrUnsigned(signed, wasm.InstructionI64GtS{}, wasm.InstructionI64GtU{})
	case ir.BinOpGreaterEqual:
		instruction = signedOrUnsigned(signed, wasm.InstructionI64GeS{}, wasm.InstructionI64GeU{})
	case ir.BinOpEqual:
		instruction = wasm.InstructionI64Eq{}
	case ir.BinOpNotEqual:
		instruction = wasm.InstructionI64Ne{}
	default:
		panic(errors.NewUnreachableError())
	}

	codeGen.emit(instruction)
	return nil
}

func signedOrUnsigned(signed bool, s, u wasm.Instruction) wasm.Instruction {
	if signed {
		return s
	}
	return u
}

// scratch returns the index of a 64-bit local for temporary values.
func (codeGen *WasmCodeGen) scratch() uint32 {
	if codeGen.scratchLocal == nil {
		codeGen.code.Locals = append(codeGen.code.Locals, wasm.ValueTypeI64)
		index := codeGen.paramCount + uint32(len(codeGen.code.Locals)) - 1
		codeGen.scratchLocal = &index
	}
	return *codeGen.scratchLocal
}

// VisitConvert converts between Int64 and UInt64.
// Both directions are out of range exactly when the sign bit is set.
func (codeGen *WasmCodeGen) VisitConvert(convert *ir.Convert) ir.Repr {
	convert.Exp.Accept(codeGen)

	scratch := codeGen.scratch()

	codeGen.emit(
		wasm.InstructionLocalTee{LocalIndex: scratch},
		wasm.InstructionLocalGet{LocalIndex: scratch},
		wasm.InstructionI64Const{Value: 0},
		wasm.InstructionI64LtS{},
		wasm.InstructionIf{
			Block: wasm.Block{
				Instructions1: []wasm.Instruction{
					wasm.InstructionUnreachable{},
				},
			},
		},
	)
	return nil
}

func (codeGen *WasmCodeGen) VisitConditional(conditional *ir.Conditional) ir.Repr {
	conditional.Test.Accept(codeGen)

	valueType, ok := ValueType(conditional.Type())
	if !ok {
		panic(errors.NewUnreachableError())
	}

	codeGen.emit(wasm.InstructionIf{
		Block: wasm.Block{
			BlockType: valueType,
			Instructions1: codeGen.collect(func() {
				conditional.Then.Accept(codeGen)
			}),
			Instructions2: codeGen.collect(func() {
				conditional.Else.Accept(codeGen)
			}),
		},
	})
	return nil
}

func (codeGen *WasmCodeGen) VisitCall(call *ir.Call) ir.Repr {
	for _, argument := range call.Arguments {
		argument.Accept(codeGen)
	}

	indices := codeGen.funcIndices
	if call.Intrinsic {
		indices = codeGen.intrinsicIndices
	}

	funcIndex, ok := indices[call.Function]
	if !ok {
		panic(errors.NewUnexpectedError("unknown function: %s", call.Function))
	}

	codeGen.emit(wasm.InstructionCall{
		FuncIndex: funcIndex,
	})
	return nil
}

func (codeGen *WasmCodeGen) VisitFunc(f *ir.Func) ir.Repr {
	codeGen.code = &wasm.Code{}
	codeGen.paramCount = uint32(len(f.Type.Params))
	codeGen.scratchLocal = nil

	for _, local := range f.Locals {
		valueType, ok := ValueType(local.Type)
		if !ok {
			panic(errors.NewUnreachableError())
		}
		codeGen.code.Locals = append(codeGen.code.Locals, valueType)
	}

	codeGen.code.Instructions = codeGen.collect(func() {
		f.Statement.Accept(codeGen)

		// all paths of functions with a result return,
		// the end of the body is never reached
		if f.Type.Result != ir.ValTypeVoid && !ir.EndsInReturn(f.Statement) {
			codeGen.emit(wasm.InstructionUnreachable{})
		}
	})

	return codeGen.code
}
