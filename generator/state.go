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
)

func (g *Generator) declareTestVar(b *workloadBuilder) string {
	text := g.fixtures.Text(b.spec.Size)
	b.setup.declare("access(all) var testVar: String = %q", text)
	return text
}

func generateVarGet(g *Generator, b *workloadBuilder) error {
	g.declareTestVar(b)
	b.repeat(func(_ uint64) {
		b.body.add("let %s = testVar", b.body.fresh("r"))
	})
	return nil
}

func generateVarSet(g *Generator, b *workloadBuilder) error {
	text := g.declareTestVar(b)
	b.repeat(func(_ uint64) {
		b.body.add("testVar = %q", text)
	})
	return nil
}

func mapKey(i uint64) string {
	return fmt.Sprintf("key-%d", i)
}

// declareTestMap declares the test dictionary,
// and when populated is true, adds one entry per application to it in the setup function.
func (g *Generator) declareTestMap(b *workloadBuilder, populated bool) string {
	text := g.fixtures.Text(b.spec.Size)
	b.setup.declare("access(all) var testMap: {String: String} = {}")
	if populated {
		b.repeat(func(i uint64) {
			b.setup.body.add("testMap[%q] = %q", mapKey(i), text)
		})
	}
	return text
}

func generateMapGet(g *Generator, b *workloadBuilder) error {
	g.declareTestMap(b, true)
	b.repeat(func(i uint64) {
		b.body.add("let %s = testMap[%q]", b.body.fresh("r"), mapKey(i))
	})
	return nil
}

func generateMapSet(g *Generator, b *workloadBuilder) error {
	text := g.declareTestMap(b, false)
	b.repeat(func(i uint64) {
		b.body.add("testMap[%q] = %q", mapKey(i), text)
	})
	return nil
}

func generateMapInsert(g *Generator, b *workloadBuilder) error {
	text := g.declareTestMap(b, false)
	b.repeat(func(i uint64) {
		b.body.add("let %s = testMap.insert(key: %q, %q)", b.body.fresh("r"), mapKey(i), text)
	})
	return nil
}

func generateMapRemove(g *Generator, b *workloadBuilder) error {
	g.declareTestMap(b, true)
	b.repeat(func(i uint64) {
		b.body.add("let %s = testMap.remove(key: %q)", b.body.fresh("r"), mapKey(i))
	})
	return nil
}

func storageKey(i uint64) string {
	return fmt.Sprintf("bench-%d", i)
}

func generateStorageGet(g *Generator, b *workloadBuilder) error {
	text := g.fixtures.Text(b.spec.Size)
	b.repeat(func(i uint64) {
		b.setup.body.add("storagePut(%q, %q)", storageKey(i), text)
		b.body.add("let %s = storageGet(%q)", b.body.fresh("r"), storageKey(i))
	})
	return nil
}

func generateStoragePut(g *Generator, b *workloadBuilder) error {
	text := g.fixtures.Text(b.spec.Size)
	b.repeat(func(i uint64) {
		b.body.add("let %s = storagePut(%q, %q)", b.body.fresh("r"), storageKey(i), text)
	})
	return nil
}
