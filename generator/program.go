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
	"strings"
)

const indentation = "    "

// block accumulates the statements of a function body.
type block struct {
	lines  []string
	indent int
	names  map[string]int
}

func newBlock(indent int) *block {
	return &block{
		indent: indent,
		names:  map[string]int{},
	}
}

func (b *block) add(format string, args ...any) {
	b.lines = append(
		b.lines,
		strings.Repeat(indentation, b.indent)+fmt.Sprintf(format, args...),
	)
}

// open adds a line which opens a nested block, e.g. an if-statement.
func (b *block) open(format string, args ...any) {
	b.add(format, args...)
	b.indent++
}

// otherwise closes the current block and opens the else branch of an if-statement.
func (b *block) otherwise() {
	b.indent--
	b.open("} else {")
}

func (b *block) close() {
	b.indent--
	b.add("}")
}

// fresh returns a new identifier with the given prefix.
func (b *block) fresh(prefix string) string {
	n := b.names[prefix]
	b.names[prefix] = n + 1
	return fmt.Sprintf("%s%d", prefix, n)
}

func (b *block) isEmpty() bool {
	return len(b.lines) == 0
}

func (b *block) writeTo(sb *strings.Builder) {
	for _, line := range b.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

// renderTestFunction wraps the body in the public, parameterless,
// success-returning function every workload is measured through.
func renderTestFunction(body *block) string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "access(all) fun %s(): Bool {\n", TestFunctionName)
	body.writeTo(&sb)
	_, _ = fmt.Fprintf(&sb, "%sreturn true\n}\n", indentation)
	return sb.String()
}

// setupProgram accumulates the global declarations and
// the statements of the setup function of a workload.
type setupProgram struct {
	imports      []string
	declarations []string
	body         *block
}

func newSetupProgram() *setupProgram {
	return &setupProgram{
		body: newBlock(1),
	}
}

func (p *setupProgram) addImport(format string, args ...any) {
	p.imports = append(p.imports, fmt.Sprintf(format, args...))
}

func (p *setupProgram) declare(format string, args ...any) {
	p.declarations = append(p.declarations, fmt.Sprintf(format, args...))
}

func (p *setupProgram) hasFunction() bool {
	return !p.body.isEmpty()
}

func (p *setupProgram) render() string {
	var sb strings.Builder

	for _, imp := range p.imports {
		sb.WriteString(imp)
		sb.WriteByte('\n')
	}

	for i, declaration := range p.declarations {
		if i > 0 || len(p.imports) > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(declaration)
		sb.WriteByte('\n')
	}

	if p.hasFunction() {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		_, _ = fmt.Fprintf(&sb, "access(all) fun %s() {\n", SetupFunctionName)
		p.body.writeTo(&sb)
		sb.WriteString("}\n")
	}

	return sb.String()
}

// ScopeArena holds a chain of nested lexical scopes.
// Frames are indexed by depth, and each frame refers to its parent by index.
type ScopeArena struct {
	frames []ScopeFrame
}

// ScopeFrame is a lexical scope declaring a single variable.
type ScopeFrame struct {
	// Parent is the index of the enclosing frame, or -1 for the outermost frame.
	Parent   int
	Variable string
}

// NewScopeArena returns an arena with a chain of depth frames.
// The frame at depth d declares the variable v<d>.
func NewScopeArena(depth int) *ScopeArena {
	arena := &ScopeArena{
		frames: make([]ScopeFrame, 0, depth),
	}
	for d := 0; d < depth; d++ {
		arena.frames = append(arena.frames, ScopeFrame{
			Parent:   d - 1,
			Variable: fmt.Sprintf("v%d", d),
		})
	}
	return arena
}

// Depth returns the number of frames.
func (a *ScopeArena) Depth() int {
	return len(a.frames)
}

// Frame returns the frame at the given depth.
func (a *ScopeArena) Frame(depth int) ScopeFrame {
	return a.frames[depth]
}

// Resolve walks from the frame at the given depth outwards through the parent references,
// and returns the depth of the frame declaring the variable.
func (a *ScopeArena) Resolve(depth int, variable string) (int, bool) {
	for index := depth; index >= 0; index = a.frames[index].Parent {
		if a.frames[index].Variable == variable {
			return index, true
		}
	}
	return -1, false
}
