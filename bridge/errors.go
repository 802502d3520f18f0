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

package bridge

import (
	"fmt"

	"github.com/onflow/cadence/common"
)

// CompileError is reported when a program cannot be analyzed or compiled to a module.
type CompileError struct {
	Location common.Location
	Err      error
}

func (*CompileError) IsUserError() {}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s: %s", e.Location, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// UnableToLoadModuleError is reported when the module is malformed
// or cannot be instantiated.
type UnableToLoadModuleError struct {
	Location common.Location
	Err      error
}

func (*UnableToLoadModuleError) IsUserError() {}

func (e *UnableToLoadModuleError) Error() string {
	return fmt.Sprintf("unable to load module of %s: %s", e.Location, e.Err)
}

func (e *UnableToLoadModuleError) Unwrap() error {
	return e.Err
}

// MissingEntryPointError is reported when the module does not export its entry function.
type MissingEntryPointError struct {
	Location common.Location
	Name     string
}

func (*MissingEntryPointError) IsUserError() {}

func (e *MissingEntryPointError) Error() string {
	return fmt.Sprintf("defines not found: module of %s does not export function %q", e.Location, e.Name)
}

// RuntimeTrapError is reported when the execution of the module traps.
// Err is set if the trap was raised by a failing intrinsic.
type RuntimeTrapError struct {
	Location common.Location
	Message  string
	Err      error
}

func (*RuntimeTrapError) IsUserError() {}

func (e *RuntimeTrapError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("execution of %s trapped: %s", e.Location, e.Err)
	}
	return fmt.Sprintf("execution of %s trapped: %s", e.Location, e.Message)
}

func (e *RuntimeTrapError) Unwrap() error {
	return e.Err
}
