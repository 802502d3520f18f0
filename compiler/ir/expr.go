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

package ir

type Expr interface {
	isExpr()
	Type() ValType
	Accept(Visitor) Repr
}

type Constant interface {
	isConstant()
	Type() ValType
	Accept(Visitor) Repr
}

type Int64 struct {
	Value int64
}

func (Int64) isConstant() {}

func (Int64) Type() ValType { return ValTypeInt64 }

func (c Int64) Accept(v Visitor) Repr {
	return v.VisitInt64(c)
}

type UInt64 struct {
	Value uint64
}

func (UInt64) isConstant() {}

func (UInt64) Type() ValType { return ValTypeUInt64 }

func (c UInt64) Accept(v Visitor) Repr {
	return v.VisitUInt64(c)
}

type Bool struct {
	Value bool
}

func (Bool) isConstant() {}

func (Bool) Type() ValType { return ValTypeBool }

func (c Bool) Accept(v Visitor) Repr {
	return v.VisitBool(c)
}

type Address struct {
	Value [8]byte
}

func (Address) isConstant() {}

func (Address) Type() ValType { return ValTypeAddress }

func (c Address) Accept(v Visitor) Repr {
	return v.VisitAddress(c)
}

type String struct {
	Value string
}

func (String) isConstant() {}

func (String) Type() ValType { return ValTypeString }

func (c String) Accept(v Visitor) Repr {
	return v.VisitString(c)
}

// Operand is an encoded hash operand.
type Operand struct {
	Value []byte
}

func (Operand) isConstant() {}

func (Operand) Type() ValType { return ValTypeOperand }

func (c Operand) Accept(v Visitor) Repr {
	return v.VisitOperand(c)
}

type Const struct {
	Constant Constant
}

func (*Const) isExpr() {}

func (e *Const) Type() ValType {
	return e.Constant.Type()
}

func (e *Const) Accept(v Visitor) Repr {
	return v.VisitConst(e)
}

type CopyLocal struct {
	LocalIndex uint32
	LocalType  ValType
}

func (*CopyLocal) isExpr() {}

func (e *CopyLocal) Type() ValType {
	return e.LocalType
}

func (e *CopyLocal) Accept(v Visitor) Repr {
	return v.VisitCopyLocal(e)
}

type UnOp uint8

const (
	UnOpNot UnOp = iota
	UnOpNegate
)

type UnOpExpr struct {
	Op  UnOp
	Exp Expr
}

func (*UnOpExpr) isExpr() {}

func (e *UnOpExpr) Type() ValType {
	return e.Exp.Type()
}

func (e *UnOpExpr) Accept(v Visitor) Repr {
	return v.VisitUnOpExpr(e)
}

type BinOp uint8

const (
	BinOpPlus BinOp = iota
	BinOpMinus
	BinOpMul
	BinOpDiv
	BinOpMod
	BinOpBitwiseAnd
	BinOpBitwiseOr
	BinOpBitwiseXor
	BinOpShiftLeft
	BinOpShiftRight
	BinOpLess
	BinOpLessEqual
	BinOpGreater
	BinOpGreaterEqual
	BinOpEqual
	BinOpNotEqual
	BinOpAnd
	BinOpOr
)

// IsComparison returns true if the operation results in a boolean.
func (op BinOp) IsComparison() bool {
	return op >= BinOpLess
}

// BinOpExpr is a binary operation.
// Both operands have the same type.
type BinOpExpr struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

func (*BinOpExpr) isExpr() {}

func (e *BinOpExpr) Type() ValType {
	if e.Op.IsComparison() {
		return ValTypeBool
	}
	return e.Left.Type()
}

func (e *BinOpExpr) Accept(v Visitor) Repr {
	return v.VisitBinOpExpr(e)
}

// Convert converts between integer types,
// trapping if the value is out of range of the target type.
type Convert struct {
	To  ValType
	Exp Expr
}

func (*Convert) isExpr() {}

func (e *Convert) Type() ValType {
	return e.To
}

func (e *Convert) Accept(v Visitor) Repr {
	return v.VisitConvert(e)
}

type Conditional struct {
	Test Expr
	Then Expr
	Else Expr
}

func (*Conditional) isExpr() {}

func (e *Conditional) Type() ValType {
	return e.Then.Type()
}

func (e *Conditional) Accept(v Visitor) Repr {
	return v.VisitConditional(e)
}

// Call calls a function of the program or an intrinsic.
type Call struct {
	Function   string
	Intrinsic  bool
	Arguments  []Expr
	ResultType ValType
}

func (*Call) isExpr() {}

func (e *Call) Type() ValType {
	return e.ResultType
}

func (e *Call) Accept(v Visitor) Repr {
	return v.VisitCall(e)
}
