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

package host

import (
	"fmt"

	"github.com/onflow/cadence/errors"
)

// UnknownIntrinsicError is returned when an intrinsic with the given name does not exist.
type UnknownIntrinsicError struct {
	Name string
}

var _ errors.UserError = UnknownIntrinsicError{}

func (UnknownIntrinsicError) IsUserError() {}

func (e UnknownIntrinsicError) Error() string {
	return fmt.Sprintf("unknown intrinsic: %s", e.Name)
}

// ArgumentCountError is returned when an intrinsic is called with the wrong number of arguments.
type ArgumentCountError struct {
	Intrinsic string
	Expected  int
	Actual    int
}

var _ errors.InternalError = ArgumentCountError{}

func (ArgumentCountError) IsInternalError() {}

func (e ArgumentCountError) Error() string {
	return fmt.Sprintf(
		"%s: expected %d arguments, got %d",
		e.Intrinsic,
		e.Expected,
		e.Actual,
	)
}

// ArgumentKindError is returned when an argument of an intrinsic has the wrong kind.
type ArgumentKindError struct {
	Intrinsic string
	Index     int
	Expected  Kind
	Actual    Kind
}

var _ errors.InternalError = ArgumentKindError{}

func (ArgumentKindError) IsInternalError() {}

func (e ArgumentKindError) Error() string {
	return fmt.Sprintf(
		"%s: argument %d must be %s, got %s",
		e.Intrinsic,
		e.Index,
		e.Expected,
		e.Actual,
	)
}

// InvalidArgumentError is returned when an argument of an intrinsic has the right kind,
// but an invalid value, e.g. a malformed hex string.
type InvalidArgumentError struct {
	Intrinsic string
	Index     int
	Err       error
}

var _ errors.UserError = InvalidArgumentError{}

func (InvalidArgumentError) IsUserError() {}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument %d: %s", e.Intrinsic, e.Index, e.Err)
}

func (e InvalidArgumentError) Unwrap() error {
	return e.Err
}

// UnknownBlockPropertyError is returned when block info is requested for an unknown property.
type UnknownBlockPropertyError struct {
	Property string
}

var _ errors.UserError = UnknownBlockPropertyError{}

func (UnknownBlockPropertyError) IsUserError() {}

func (e UnknownBlockPropertyError) Error() string {
	return fmt.Sprintf("unknown block property: %s", e.Property)
}
