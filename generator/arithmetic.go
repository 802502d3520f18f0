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

package generator

import (
	"math"
	"math/big"
	"math/bits"
	"strconv"
	"strings"
)

// arithmeticOperands returns the operand count of arithmetic applications.
func arithmeticOperands(size uint64) uint64 {
	return max(size, 2)
}

// arithmeticRange returns the inclusive range of literals for the operation,
// clamped so that no application of operands literals overflows Int64.
func arithmeticRange(operation Operation, operands uint64) (lo int64, hi int64) {
	switch operation {
	case OperationMul:
		return 1, int64(rootBound(math.MaxInt64, operands))
	case OperationDiv, OperationMod:
		return 1, max(math.MaxInt64/int64(operands+1), 1)
	default:
		return 0, math.MaxInt64 / int64(operands+1)
	}
}

// rootBound returns the largest b such that b^n <= limit.
func rootBound(limit uint64, n uint64) uint64 {
	if n <= 1 {
		return limit
	}
	if n >= 64 {
		return 1
	}
	b := uint64(math.Pow(float64(limit), 1/float64(n)))
	for b > 1 && !powerFits(b, n, limit) {
		b--
	}
	for powerFits(b+1, n, limit) {
		b++
	}
	return max(b, 1)
}

func powerFits(b, n, limit uint64) bool {
	result := uint64(1)
	for i := uint64(0); i < n; i++ {
		hi, lo := bits.Mul64(result, b)
		if hi != 0 || lo > limit {
			return false
		}
		result = lo
	}
	return true
}

func generateArithmetic(operator string) generateFunc {
	return func(g *Generator, b *workloadBuilder) error {
		operands := arithmeticOperands(b.spec.Size)
		lo, hi := arithmeticRange(b.spec.Operation, operands)

		b.repeat(func(_ uint64) {
			terms := make([]string, operands)
			for i := range terms {
				terms[i] = strconv.FormatInt(g.random.Int64Range(lo, hi), 10)
			}
			b.body.add(
				"let %s: Int64 = %s",
				b.body.fresh("r"),
				strings.Join(terms, " "+operator+" "),
			)
		})

		b.throughput = operands
		return nil
	}
}

// integerKind is the type of the operands of a bitwise application.
// The kind is chosen uniformly per application.
type integerKind uint8

const (
	integerKindUInt64 integerKind = iota
	integerKindInt64
)

func (g *Generator) integerKind() integerKind {
	if g.random.Bool() {
		return integerKindInt64
	}
	return integerKindUInt64
}

func (k integerKind) typeName() string {
	if k == integerKindInt64 {
		return "Int64"
	}
	return "UInt64"
}

func (g *Generator) integerLiteral(kind integerKind) string {
	if kind == integerKindInt64 {
		return strconv.FormatInt(g.random.Int64Range(math.MinInt64+1, math.MaxInt64), 10)
	}
	return strconv.FormatUint(g.random.Uint64(), 10)
}

func generateBitwise(operator string) generateFunc {
	return func(g *Generator, b *workloadBuilder) error {
		b.repeat(func(_ uint64) {
			kind := g.integerKind()
			b.body.add(
				"let %s: %s = %s %s %s",
				b.body.fresh("r"),
				kind.typeName(),
				g.integerLiteral(kind),
				operator,
				g.integerLiteral(kind),
			)
		})
		b.throughput = 2
		return nil
	}
}

func generateShift(operator string) generateFunc {
	return func(g *Generator, b *workloadBuilder) error {
		b.repeat(func(_ uint64) {
			kind := g.integerKind()
			amount := g.random.Uint64N(64)

			var value string
			switch {
			case operator == "<<" && kind == integerKindInt64:
				value = strconv.FormatInt(g.random.Int64Range(0, math.MaxInt64>>amount), 10)
			case operator == "<<":
				value = strconv.FormatUint(g.random.Uint64Range(0, math.MaxUint64>>amount), 10)
			default:
				value = g.integerLiteral(kind)
			}

			b.body.add(
				"let %s: %s = %s %s %d",
				b.body.fresh("r"),
				kind.typeName(),
				value,
				operator,
				amount,
			)
		})
		b.throughput = 2
		return nil
	}
}

// comparisonOperand returns a literal of a type wide enough for size bytes.
func (g *Generator) comparisonOperand(size uint64) string {
	switch {
	case size <= 8:
		return "(" + strconv.FormatUint(g.random.Uint64(), 10) + " as UInt64)"
	case size <= 16:
		return "(" + g.random.UInt128().Dec() + " as UInt128)"
	default:
		value := new(big.Int).SetBytes(g.random.Bytes(int(size)))
		return "(" + value.String() + " as Int)"
	}
}

func generateComparison(operator string) generateFunc {
	return func(g *Generator, b *workloadBuilder) error {
		b.repeat(func(_ uint64) {
			b.body.add(
				"let %s: Bool = %s %s %s",
				b.body.fresh("r"),
				g.comparisonOperand(b.spec.Size),
				operator,
				g.comparisonOperand(b.spec.Size),
			)
		})
		return nil
	}
}

func (g *Generator) boolLiteral() string {
	return strconv.FormatBool(g.random.Bool())
}

func generateLogic(operator string) generateFunc {
	return func(g *Generator, b *workloadBuilder) error {
		operands := max(b.spec.Size, 2)
		b.repeat(func(_ uint64) {
			terms := make([]string, operands)
			for i := range terms {
				switch operator {
				case "&&":
					terms[i] = "true"
				case "||":
					terms[i] = "false"
				default:
					terms[i] = g.boolLiteral()
				}
			}
			b.body.add(
				"let %s: Bool = %s",
				b.body.fresh("r"),
				strings.Join(terms, " "+operator+" "),
			)
		})
		b.throughput = operands
		return nil
	}
}

func generateNot(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add("let %s: Bool = !%s", b.body.fresh("r"), g.boolLiteral())
	})
	b.throughput = 1
	return nil
}
