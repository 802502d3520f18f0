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
	"strings"

	"github.com/rivo/uniseg"
)

func generateStringConcat(g *Generator, b *workloadBuilder) error {
	text := g.fixtures.Text(b.spec.Size)
	b.repeat(func(_ uint64) {
		b.body.add("let %s = %q.concat(%q)", b.body.fresh("r"), text, text)
	})
	b.throughput = uint64(max(2*uniseg.GraphemeClusterCount(text), 1))
	return nil
}

func generateStringLength(g *Generator, b *workloadBuilder) error {
	text := g.fixtures.Text(b.spec.Size)
	b.repeat(func(_ uint64) {
		b.body.add("let %s = %q.length", b.body.fresh("r"), text)
	})
	b.throughput = uint64(max(uniseg.GraphemeClusterCount(text), 1))
	return nil
}

// digits returns a decimal number of n digits, without leading zeros.
func (g *Generator) digits(n uint64) string {
	n = max(n, 1)
	var sb strings.Builder
	sb.Grow(int(n))
	sb.WriteByte(byte('1' + g.random.IntN(9)))
	for i := uint64(1); i < n; i++ {
		sb.WriteByte(byte('0' + g.random.IntN(10)))
	}
	return sb.String()
}

func generateIntToString(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add("let %s = (%s as Int).toString()", b.body.fresh("r"), g.digits(b.spec.Size))
	})
	return nil
}

func generateStringToInt(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add("let %s = Int.fromString(%q)", b.body.fresh("r"), g.digits(b.spec.Size))
	})
	return nil
}
