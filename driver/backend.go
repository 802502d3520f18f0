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

package driver

import (
	"fmt"
	"strings"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Backend -linecomment

// Backend is the execution pipeline a case is measured through.
type Backend uint8

const (
	// BackendInterpreter evaluates the checked program with the tree-walking interpreter
	BackendInterpreter Backend = iota // interpreter
	// BackendWasm compiles the program to a module and executes it with wasmtime.
	BackendWasm // wasm
)

func Backends() []Backend {
	return []Backend{
		BackendInterpreter,
		BackendWasm,
	}
}

func ParseBackend(name string) (Backend, error) {
	for _, backend := range Backends() {
		if strings.EqualFold(backend.String(), strings.TrimSpace(name)) {
			return backend, nil
		}
	}
	return 0, fmt.Errorf("unknown backend %q", name)
}

func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Backend) UnmarshalText(text []byte) error {
	backend, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = backend
	return nil
}
