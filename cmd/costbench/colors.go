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


package main

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora/v4"
	"github.com/onflow/cadence/errors"
)

func colorizer(noColor bool) *aurora.Aurora {
	return aurora.New(aurora.WithColors(!noColor))
}

func printError(w io.Writer, err error) {
	au := colorizer(false)

	kind := "error"
	switch {
	case errors.IsUserError(err):
		kind = "user error"
	case errors.IsInternalError(err):
		kind = "internal error"
	}

	_, _ = fmt.Fprintf(w, "%s: %s\n", au.Bold(au.Red(kind)), err)
}
