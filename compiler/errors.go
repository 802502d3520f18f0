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

package compiler

import (
	"fmt"

	"github.com/onflow/cadence/ast"
	"github.com/onflow/cadence/common"

	"github.com/onflow/cadence-benchmarking/compiler/ir"
)

// UnsupportedError is returned when a program uses a construct
// that cannot be compiled to a module.
type UnsupportedError struct {
	Location  common.Location
	Position  ast.Position
	Construct string
}

func (*UnsupportedError) IsUserError() {}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf(
		"%s:%d:%d: cannot compile %s",
		e.Location,
		e.Position.Line,
		e.Position.Column,
		e.Construct,
	)
}

// TypeMismatchError is returned when an expression has a different type than expected.
type TypeMismatchError struct {
	Location common.Location
	Position ast.Position
	Expected ir.ValType
	Actual   ir.ValType
}

func (*TypeMismatchError) IsUserError() {}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"%s:%d:%d: expected %s, got %s",
		e.Location,
		e.Position.Line,
		e.Position.Column,
		e.Expected,
		e.Actual,
	)
}

// InvalidLiteralError is returned when a literal is out of range of its type,
// or cannot be decoded.
type InvalidLiteralError struct {
	Location common.Location
	Position ast.Position
	Type     string
	Err      error
}

func (*InvalidLiteralError) IsUserError() {}

func (e *InvalidLiteralError) Error() string {
	return fmt.Sprintf(
		"%s:%d:%d: invalid %s literal: %s",
		e.Location,
		e.Position.Line,
		e.Position.Column,
		e.Type,
		e.Err,
	)
}

func (e *InvalidLiteralError) Unwrap() error {
	return e.Err
}

// MissingEntryFunctionError is returned when the program does not declare
// the function run by the top-level entry.
type MissingEntryFunctionError struct {
	Location common.Location
	Name     string
}

func (*MissingEntryFunctionError) IsUserError() {}

func (e *MissingEntryFunctionError) Error() string {
	return fmt.Sprintf(
		"%s: missing function %s(): Bool",
		e.Location,
		e.Name,
	)
}
