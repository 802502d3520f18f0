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

	"github.com/onflow/cadence/errors"
)

// NotImplementedError is returned when an operation has no registered generator.
// It is a bug in the harness, not a condition to recover from.
type NotImplementedError struct {
	Operation Operation
}

var _ errors.InternalError = &NotImplementedError{}

func (*NotImplementedError) IsInternalError() {}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("generation not implemented for operation %s", e.Operation)
}

// UnknownOperationError is returned when an operation name is not known.
type UnknownOperationError struct {
	Name        string
	Suggestions []string
}

var _ errors.UserError = &UnknownOperationError{}

func (*UnknownOperationError) IsUserError() {}

func (e *UnknownOperationError) Error() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "unknown operation %q", e.Name)
	if len(e.Suggestions) > 0 {
		sb.WriteString(", did you mean ")
		for i, suggestion := range e.Suggestions {
			if i > 0 {
				sb.WriteString(" or ")
			}
			_, _ = fmt.Fprintf(&sb, "%q", suggestion)
		}
		sb.WriteString("?")
	}
	return sb.String()
}

// InvalidWorkloadSpecError is returned when a workload spec cannot be generated,
// for example when the scale is zero.
type InvalidWorkloadSpecError struct {
	Spec   WorkloadSpec
	Reason string
}

var _ errors.UserError = &InvalidWorkloadSpecError{}

func (*InvalidWorkloadSpecError) IsUserError() {}

func (e *InvalidWorkloadSpecError) Error() string {
	return fmt.Sprintf("invalid workload %s: %s", e.Spec, e.Reason)
}
