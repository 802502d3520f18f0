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


package config

import (
	"fmt"

	"github.com/onflow/cadence/errors"
)

// InvalidConfigError is returned when a configuration value is invalid.
type InvalidConfigError struct {
	Key string
	Err error
}

var _ errors.UserError = &InvalidConfigError{}

func (*InvalidConfigError) IsUserError() {}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Err)
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Err
}

// InvalidPlanError is returned when a sweep plan cannot be decoded.
type InvalidPlanError struct {
	Path string
	Err  error
}

var _ errors.UserError = &InvalidPlanError{}

func (*InvalidPlanError) IsUserError() {}

func (e *InvalidPlanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid sweep plan: %s", e.Err)
	}
	return fmt.Sprintf("invalid sweep plan %s: %s", e.Path, e.Err)
}

func (e *InvalidPlanError) Unwrap() error {
	return e.Err
}
