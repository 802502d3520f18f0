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
	"fmt"
	"math"
	"strconv"
	"strings"
)

func (g *Generator) smallInt64Literal() string {
	return strconv.FormatInt(g.random.Int64Range(-1_000_000, 1_000_000), 10)
}

func generateIf(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		result := b.body.fresh("r")
		b.body.add("var %s: Int64 = 0", result)
		b.body.open("if %s {", g.boolLiteral())
		b.body.add("%s = %s", result, g.smallInt64Literal())
		b.body.otherwise()
		b.body.add("%s = %s", result, g.smallInt64Literal())
		b.body.close()
	})
	b.throughput = 1
	return nil
}

func generateLet(g *Generator, b *workloadBuilder) error {
	bindings := max(b.spec.Size, 1)
	b.repeat(func(_ uint64) {
		for i := uint64(0); i < bindings; i++ {
			b.body.add("let %s: Int64 = %s", b.body.fresh("l"), g.smallInt64Literal())
		}
	})
	b.throughput = bindings
	return nil
}

// generateScopeDepth declares a variable in the outermost of size nested scopes,
// and reads it from the innermost scope.
func generateScopeDepth(g *Generator, b *workloadBuilder) error {
	arena := NewScopeArena(int(max(b.spec.Size, 1)))
	innermost := arena.Depth() - 1

	for depth := 0; depth < arena.Depth(); depth++ {
		b.body.open("if true {")
		b.body.add("let %s: Int64 = %s", arena.Frame(depth).Variable, g.smallInt64Literal())
	}

	outermost := arena.Frame(0).Variable
	if _, ok := arena.Resolve(innermost, outermost); !ok {
		panic(fmt.Errorf("variable %s is not in scope", outermost))
	}
	b.repeat(func(_ uint64) {
		b.body.add("let %s = %s", b.body.fresh("r"), outermost)
	})

	for depth := innermost; depth >= 0; depth-- {
		b.body.close()
	}

	b.throughput = uint64(arena.Depth())
	return nil
}

func generateFunctionCall(g *Generator, b *workloadBuilder) error {
	parameterCount := max(b.spec.Size, 1)
	name := fmt.Sprintf("call%d", parameterCount)

	parameters := make([]string, parameterCount)
	for i := range parameters {
		parameters[i] = fmt.Sprintf("_ p%d: Int64", i)
	}
	b.setup.declare(
		"access(all) fun %s(%s): Int64 {\n    return p0\n}",
		name,
		strings.Join(parameters, ", "),
	)

	b.repeat(func(_ uint64) {
		arguments := make([]string, parameterCount)
		for i := range arguments {
			arguments[i] = g.smallInt64Literal()
		}
		b.body.add("let %s = %s(%s)", b.body.fresh("r"), name, strings.Join(arguments, ", "))
	})
	b.throughput = parameterCount
	return nil
}

func generateIntCast(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		value := g.random.Int64Range(0, math.MaxInt64)
		if g.random.Bool() {
			b.body.add("let %s = UInt64((%d as Int64))", b.body.fresh("r"), value)
		} else {
			b.body.add("let %s = Int64((%d as UInt64))", b.body.fresh("r"), value)
		}
	})
	b.throughput = 8
	return nil
}
