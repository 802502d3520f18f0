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

package chainstate

import (
	"fmt"
)

// BootstrapIOError is returned when the warmed store cannot be built or copied.
// It is fatal for the whole run.
type BootstrapIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *BootstrapIOError) Error() string {
	return fmt.Sprintf("bootstrap failed to %s %s: %s", e.Op, e.Path, e.Err)
}

func (e *BootstrapIOError) Unwrap() error {
	return e.Err
}

func bootstrapIOError(op string, path string, err error) error {
	return &BootstrapIOError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}
