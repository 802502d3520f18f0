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


package report

import (
	"fmt"

	"github.com/onflow/cadence/errors"
)

// InvalidReportError is returned when a report cannot be decoded.
type InvalidReportError struct {
	Err error
}

var _ errors.UserError = &InvalidReportError{}

func (*InvalidReportError) IsUserError() {}

func (e *InvalidReportError) Error() string {
	return fmt.Sprintf("invalid report: %s", e.Err)
}

func (e *InvalidReportError) Unwrap() error {
	return e.Err
}

// InsufficientDataError is returned when an operation has too few measured sizes
// to fit a cost function.
type InsufficientDataError struct {
	Operation string
	Points    int
}

var _ errors.UserError = InsufficientDataError{}

func (InsufficientDataError) IsUserError() {}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf(
		"cannot fit cost function of %s: %d measured sizes, at least %d required",
		e.Operation,
		e.Points,
		minFitPoints,
	)
}

// InvalidQueryError is returned when a query cannot be parsed or evaluated.
type InvalidQueryError struct {
	Query string
	Err   error
}

var _ errors.UserError = &InvalidQueryError{}

func (*InvalidQueryError) IsUserError() {}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Query, e.Err)
}

func (e *InvalidQueryError) Unwrap() error {
	return e.Err
}
