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
)

const (
	// TestFunctionName is the name of the measured function of every generated program.
	TestFunctionName = "test"
	// SetupFunctionName is the name of the function of a setup program
	// which creates the state the measured function needs.
	SetupFunctionName = "setup"
)

// WorkloadSpec describes a generated workload:
// Scale is the number of applications of the operation,
// Size is the operand count or payload length of each application.
type WorkloadSpec struct {
	Operation Operation
	Scale     uint64
	Size      uint64
}

func (s WorkloadSpec) String() string {
	return fmt.Sprintf("%s(scale=%d, size=%d)", s.Operation, s.Scale, s.Size)
}

// Workload is the program text generated for a WorkloadSpec.
type Workload struct {
	Spec WorkloadSpec
	// Setup holds the global declarations the program needs, if any.
	// When HasSetupFunction is true, it declares a function named SetupFunctionName
	// which must be invoked once, before the measured function.
	Setup            string
	HasSetupFunction bool
	// Program is the measured function, named TestFunctionName.
	Program string
	// Throughput is the declared unit of work of one application, in bytes or elements.
	Throughput uint64
}

// HasSetup returns true if the workload has a setup program.
func (w *Workload) HasSetup() bool {
	return len(w.Setup) > 0
}

// Source returns the complete source code: the setup program followed by the measured program.
func (w *Workload) Source() string {
	if !w.HasSetup() {
		return w.Program
	}
	var sb strings.Builder
	sb.Grow(len(w.Setup) + len(w.Program) + 2)
	sb.WriteString(w.Setup)
	sb.WriteString("\n\n")
	sb.WriteString(w.Program)
	return sb.String()
}
