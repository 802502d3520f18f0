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

package evaluator

import (
	"fmt"
	"strings"

	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/errors"
	"github.com/onflow/cadence/pretty"
)

func diagnostic(err error, location common.Location, code []byte) string {
	var sb strings.Builder
	printErr := pretty.NewErrorPrettyPrinter(&sb, false).
		PrettyPrintError(err, location, map[common.Location][]byte{location: code})
	if printErr != nil {
		return err.Error()
	}
	return strings.TrimSpace(sb.String())
}

// ParseError is returned when a program cannot be parsed.
type ParseError struct {
	Location   common.Location
	Diagnostic string
	Err        error
}

var _ errors.UserError = &ParseError{}

func (*ParseError) IsUserError() {}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s:\n%s", e.Location, e.Diagnostic)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CheckError is returned when a program is not valid.
type CheckError struct {
	Location   common.Location
	Diagnostic string
	Err        error
}

var _ errors.UserError = &CheckError{}

func (*CheckError) IsUserError() {}

func (e *CheckError) Error() string {
	return fmt.Sprintf("failed to check %s:\n%s", e.Location, e.Diagnostic)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// ImportNotFoundError is returned when an imported program has not been analyzed or deployed.
type ImportNotFoundError struct {
	Location common.Location
}

var _ errors.UserError = ImportNotFoundError{}

func (ImportNotFoundError) IsUserError() {}

func (e ImportNotFoundError) Error() string {
	return fmt.Sprintf("cannot import %s: not found", e.Location)
}

// NotLoadedError is returned when a function is invoked on a context without a loaded program.
type NotLoadedError struct{}

var _ errors.InternalError = NotLoadedError{}

func (NotLoadedError) IsInternalError() {}

func (NotLoadedError) Error() string {
	return "no program is loaded"
}
