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

// ValType is the type of a value.
type ValType uint8

const (
	ValTypeUnknown ValType = iota
	ValTypeVoid
	ValTypeInt64
	ValTypeUInt64
	ValTypeBool
	ValTypeAddress
	// ValTypeString is a string in linear memory, a pointer and a length.
	ValTypeString
	// ValTypeOperand is an encoded hash operand in linear memory, a pointer and a length.
	ValTypeOperand
)

func (t ValType) String() string {
	switch t {
	case ValTypeUnknown:
		return "unknown"
	case ValTypeVoid:
		return "Void"
	case ValTypeInt64:
		return "Int64"
	case ValTypeUInt64:
		return "UInt64"
	case ValTypeBool:
		return "Bool"
	case ValTypeAddress:
		return "Address"
	case ValTypeString:
		return "String"
	case ValTypeOperand:
		return "Operand"
	}
	return "invalid"
}

// IsInteger returns true if the type is a fixed-size integer type.
func (t ValType) IsInteger() bool {
	return t == ValTypeInt64 || t == ValTypeUInt64
}

// IsSigned returns true if the type is a signed integer type.
func (t ValType) IsSigned() bool {
	return t == ValTypeInt64
}

// FuncType is the type of a function.
type FuncType struct {
	Params []ValType
	Result ValType
}

type Local struct {
	Type ValType
}

type Func struct {
	Name      string
	Type      FuncType
	Locals    []Local
	Statement Stmt
}

func (f *Func) Accept(v Visitor) Repr {
	return v.VisitFunc(f)
}

// Program is a compiled program: its functions,
// and the intrinsics they call.
type Program struct {
	Funcs      []*Func
	Intrinsics []string
}
