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

const tupleMergeFunctionName = "mergeTuples"

func generateTupleGet(g *Generator, b *workloadBuilder) error {
	shape := g.fixtures.Tuple(max(b.spec.Size, 1))
	b.setup.declare("%s", shape.Declaration)

	b.body.add("let testTuple = %s", shape.Constructor)
	b.repeat(func(_ uint64) {
		field := shape.FieldNames[g.random.IntN(len(shape.FieldNames))]
		b.body.add("let %s = testTuple.%s", b.body.fresh("r"), field)
	})
	b.throughput = shape.Size
	return nil
}

func generateTupleCons(g *Generator, b *workloadBuilder) error {
	shape := g.fixtures.Tuple(max(b.spec.Size, 1))
	b.setup.declare("%s", shape.Declaration)

	b.repeat(func(_ uint64) {
		b.body.add("let %s = %s", b.body.fresh("r"), shape.Constructor)
	})
	b.throughput = shape.Size
	return nil
}

func generateTupleMerge(g *Generator, b *workloadBuilder) error {
	shape := g.fixtures.Tuple(max(b.spec.Size, 1))
	b.setup.declare(
		"access(all) fun %s(_ a: {String: UInt32}, _ b: {String: UInt32}): {String: UInt32} {\n"+
			"    var result = a\n"+
			"    for key in b.keys {\n"+
			"        result[key] = b[key]!\n"+
			"    }\n"+
			"    return result\n"+
			"}",
		tupleMergeFunctionName,
	)

	b.body.add("let tupleA: {String: UInt32} = %s", shape.Dictionaries[0])
	b.body.add("let tupleB: {String: UInt32} = %s", shape.Dictionaries[1])
	b.repeat(func(_ uint64) {
		b.body.add("let %s = %s(tupleA, tupleB)", b.body.fresh("r"), tupleMergeFunctionName)
	})
	b.throughput = uint64(len(shape.Dictionaries[0]) + len(shape.Dictionaries[1]))
	return nil
}

// optionalLiteral returns an optional integer which is nil with the given probability, in percent.
func (g *Generator) optionalLiteral(nilPercent int) string {
	if g.random.IntN(100) < nilPercent {
		return "(nil as Int?)"
	}
	return "(" + g.integerLiteral(integerKindInt64) + " as Int?)"
}

func generateOptionalCheck(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add("let %s: Bool = %s != nil", b.body.fresh("r"), g.optionalLiteral(50))
	})
	b.throughput = 1
	return nil
}

func generateOptionalUnwrap(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add("let %s: Int = %s!", b.body.fresh("r"), g.optionalLiteral(0))
	})
	b.throughput = 1
	return nil
}

func generateOptionalDefault(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add(
			"let %s: Int = %s ?? %s",
			b.body.fresh("r"),
			g.optionalLiteral(50),
			g.integerLiteral(integerKindInt64),
		)
	})
	b.throughput = 1
	return nil
}

func (g *Generator) declareTestList(b *workloadBuilder, keyword string) *ListFixture {
	list := g.fixtures.List(max(b.spec.Size, 1))
	b.body.add("%s testList: [UInt64] = %s", keyword, list.Literal)
	b.throughput = uint64(len(list.Elements))
	return list
}

func generateListCons(g *Generator, b *workloadBuilder) error {
	list := g.fixtures.List(max(b.spec.Size, 1))
	b.repeat(func(_ uint64) {
		b.body.add("let %s: [UInt64] = %s", b.body.fresh("r"), list.Literal)
	})
	b.throughput = uint64(len(list.Elements))
	return nil
}

// generateListMember generates accesses of a member of the test list.
func generateListMember(member string) generateFunc {
	return func(g *Generator, b *workloadBuilder) error {
		g.declareTestList(b, "let")
		b.repeat(func(_ uint64) {
			b.body.add("let %s = testList%s", b.body.fresh("r"), member)
		})
		return nil
	}
}

func generateListElementAt(g *Generator, b *workloadBuilder) error {
	list := g.declareTestList(b, "let")
	b.repeat(func(_ uint64) {
		b.body.add("let %s = testList[%d]", b.body.fresh("r"), g.random.IntN(len(list.Elements)))
	})
	return nil
}

func generateListAppend(g *Generator, b *workloadBuilder) error {
	g.declareTestList(b, "var")
	b.repeat(func(_ uint64) {
		b.body.add("testList.append(%d)", g.random.Uint64N(1_000_000))
	})
	return nil
}

func generateListIndexOf(g *Generator, b *workloadBuilder) error {
	list := g.declareTestList(b, "let")
	b.repeat(func(_ uint64) {
		// search for an element of the list, or for an element it does not contain,
		// with equal probability
		var element uint64
		if g.random.Bool() {
			element = list.Elements[g.random.IntN(len(list.Elements))]
		} else {
			element = 1_000_000 + g.random.Uint64N(1_000_000)
		}
		b.body.add("let %s = testList.firstIndex(of: %d)", b.body.fresh("r"), element)
	})
	return nil
}

func generateListSlice(g *Generator, b *workloadBuilder) error {
	list := g.declareTestList(b, "let")
	b.repeat(func(_ uint64) {
		from := g.random.IntN(len(list.Elements) + 1)
		upTo := from + g.random.IntN(len(list.Elements)-from+1)
		b.body.add(
			"let %s = testList.slice(from: %d, upTo: %d)",
			b.body.fresh("r"),
			from,
			upTo,
		)
	})
	return nil
}
