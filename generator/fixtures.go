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
	"strconv"
	"strings"
	"sync"
)

// Fixtures memoizes expensive per-size values shared by all generated workloads:
// text literals, list literals, and tuple shapes.
//
// Values are built lazily, on first use, from a source seeded with the size,
// so a fixture is the same no matter which workload requests it first.
// Returned values must not be mutated.
type Fixtures struct {
	mu     sync.Mutex
	texts  map[uint64]string
	lists  map[uint64]*ListFixture
	tuples map[uint64]*TupleShape
}

// NewFixtures returns an empty fixture cache.
func NewFixtures() *Fixtures {
	return &Fixtures{
		texts:  map[uint64]string{},
		lists:  map[uint64]*ListFixture{},
		tuples: map[uint64]*TupleShape{},
	}
}

func fixtureRandom(size uint64, salt uint64) *Random {
	return NewSeededRandom(size*31 + salt)
}

// Text returns a string of size grapheme clusters.
func (f *Fixtures) Text(size uint64) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	text, ok := f.texts[size]
	if !ok {
		text = fixtureRandom(size, 1).Text(int(size))
		f.texts[size] = text
	}
	return text
}

// ListFixture is a list of UInt64 elements and its literal.
type ListFixture struct {
	Elements []uint64
	Literal  string
}

// List returns a list of size elements.
func (f *Fixtures) List(size uint64) *ListFixture {
	f.mu.Lock()
	defer f.mu.Unlock()

	list, ok := f.lists[size]
	if ok {
		return list
	}

	random := fixtureRandom(size, 2)
	elements := make([]uint64, size)
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range elements {
		element := random.Uint64N(1_000_000)
		elements[i] = element
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(element, 10))
	}
	sb.WriteByte(']')

	list = &ListFixture{
		Elements: elements,
		Literal:  sb.String(),
	}
	f.lists[size] = list
	return list
}

// TupleShape is a composite type with a fixed number of fields,
// named id0, id1, and so on, all of type UInt32.
type TupleShape struct {
	Size       uint64
	TypeName   string
	FieldNames []string
	// Declaration declares the type.
	Declaration string
	// Constructor is an invocation of the type's initializer with fixed field values.
	Constructor string
	// Dictionaries are two dictionary literals with the same keys as the fields,
	// used when tuples are merged.
	Dictionaries [2]string
}

// Tuple returns the shape of tuples with size fields.
func (f *Fixtures) Tuple(size uint64) *TupleShape {
	f.mu.Lock()
	defer f.mu.Unlock()

	shape, ok := f.tuples[size]
	if ok {
		return shape
	}

	random := fixtureRandom(size, 3)

	typeName := fmt.Sprintf("Tuple%d", size)
	fieldNames := make([]string, size)
	for i := range fieldNames {
		fieldNames[i] = fmt.Sprintf("id%d", i)
	}

	var declaration strings.Builder
	_, _ = fmt.Fprintf(&declaration, "access(all) struct %s {\n", typeName)
	for _, name := range fieldNames {
		_, _ = fmt.Fprintf(&declaration, "    access(all) let %s: UInt32\n", name)
	}
	declaration.WriteString("\n    init(")
	for i, name := range fieldNames {
		if i > 0 {
			declaration.WriteString(", ")
		}
		_, _ = fmt.Fprintf(&declaration, "%s: UInt32", name)
	}
	declaration.WriteString(") {\n")
	for _, name := range fieldNames {
		_, _ = fmt.Fprintf(&declaration, "        self.%[1]s = %[1]s\n", name)
	}
	declaration.WriteString("    }\n}")

	var constructor strings.Builder
	constructor.WriteString(typeName)
	constructor.WriteByte('(')
	for i, name := range fieldNames {
		if i > 0 {
			constructor.WriteString(", ")
		}
		_, _ = fmt.Fprintf(&constructor, "%s: %d", name, random.Uint64N(1<<32))
	}
	constructor.WriteByte(')')

	var dictionaries [2]string
	for d := range dictionaries {
		var dictionary strings.Builder
		dictionary.WriteByte('{')
		for i, name := range fieldNames {
			if i > 0 {
				dictionary.WriteString(", ")
			}
			_, _ = fmt.Fprintf(&dictionary, "%q: %d", name, random.Uint64N(1<<32))
		}
		dictionary.WriteByte('}')
		dictionaries[d] = dictionary.String()
	}

	shape = &TupleShape{
		Size:         size,
		TypeName:     typeName,
		FieldNames:   fieldNames,
		Declaration:  declaration.String(),
		Constructor:  constructor.String(),
		Dictionaries: dictionaries,
	}
	f.tuples[size] = shape
	return shape
}
