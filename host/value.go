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

package host

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/onflow/cadence/common"
)

// Kind is the kind of a value passed to or returned from an intrinsic.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt64
	KindUInt64
	KindBool
	KindString
	KindAddress
	KindOperand
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "Void"
	case KindInt64:
		return "Int64"
	case KindUInt64:
		return "UInt64"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindAddress:
		return "Address"
	case KindOperand:
		return "Operand"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a value passed to or returned from an intrinsic.
type Value interface {
	Kind() Kind
}

type Int64 int64

func (Int64) Kind() Kind { return KindInt64 }

type UInt64 uint64

func (UInt64) Kind() Kind { return KindUInt64 }

type Bool bool

func (Bool) Kind() Kind { return KindBool }

type String string

func (String) Kind() Kind { return KindString }

type Address common.Address

func (Address) Kind() Kind { return KindAddress }

// OperandKind is the kind of an operand of a hash function.
type OperandKind uint8

const (
	OperandKindUInt128 OperandKind = iota
	OperandKindInt128
	OperandKindBuffer
)

// integerOperandSize is the size of the payload of integer operands.
const integerOperandSize = 16

// Operand is an operand of a hash function: a 128-bit integer or a buffer.
// Integers are encoded as 16 little-endian bytes, in two's complement if signed.
type Operand struct {
	OperandKind OperandKind
	Payload     []byte
}

func (Operand) Kind() Kind { return KindOperand }

var (
	maxUInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	twoTo128   = new(big.Int).Lsh(big.NewInt(1), 128)
)

func littleEndian128(v *big.Int) []byte {
	bigEndian := v.FillBytes(make([]byte, integerOperandSize))
	for i, j := 0, len(bigEndian)-1; i < j; i, j = i+1, j-1 {
		bigEndian[i], bigEndian[j] = bigEndian[j], bigEndian[i]
	}
	return bigEndian
}

// NewUInt128Operand returns the operand of an unsigned 128-bit integer.
func NewUInt128Operand(v *big.Int) (Operand, error) {
	if v.Sign() < 0 || v.Cmp(maxUInt128) > 0 {
		return Operand{}, fmt.Errorf("%s is out of range of UInt128", v)
	}
	return Operand{
		OperandKind: OperandKindUInt128,
		Payload:     littleEndian128(v),
	}, nil
}

// NewInt128Operand returns the operand of a signed 128-bit integer.
func NewInt128Operand(v *big.Int) (Operand, error) {
	if v.Cmp(minInt128) < 0 || v.Cmp(maxInt128) > 0 {
		return Operand{}, fmt.Errorf("%s is out of range of Int128", v)
	}
	if v.Sign() < 0 {
		v = new(big.Int).Add(v, twoTo128)
	}
	return Operand{
		OperandKind: OperandKindInt128,
		Payload:     littleEndian128(v),
	}, nil
}

// NewBufferOperand returns the operand of a hex-encoded buffer.
func NewBufferOperand(encoded string) (Operand, error) {
	payload, err := hex.DecodeString(encoded)
	if err != nil {
		return Operand{}, fmt.Errorf("invalid buffer %q: %w", encoded, err)
	}
	return Operand{
		OperandKind: OperandKindBuffer,
		Payload:     payload,
	}, nil
}

// Encode returns the kind of the operand followed by its payload.
func (o Operand) Encode() []byte {
	result := make([]byte, 0, 1+len(o.Payload))
	result = append(result, byte(o.OperandKind))
	return append(result, o.Payload...)
}

// DecodeOperand decodes an operand encoded with Encode.
func DecodeOperand(data []byte) (Operand, error) {
	if len(data) == 0 {
		return Operand{}, fmt.Errorf("empty operand")
	}

	kind := OperandKind(data[0])
	payload := data[1:]

	switch kind {
	case OperandKindUInt128, OperandKindInt128:
		if len(payload) != integerOperandSize {
			return Operand{}, fmt.Errorf("integer operand has %d bytes", len(payload))
		}
	case OperandKindBuffer:
	default:
		return Operand{}, fmt.Errorf("unknown operand kind %d", kind)
	}

	return Operand{
		OperandKind: kind,
		Payload:     payload,
	}, nil
}
