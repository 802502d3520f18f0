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
	"github.com/onflow/cadence/errors"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=State -linecomment

// State is the state of a benchmark case.
type State uint8

const (
	StateUninitialized State = iota // uninitialized
	StateContextBuilt               // context-built
	StateParsed                     // parsed
	StateSetupApplied               // setup-applied
	StateMeasuring                  // measuring
	StateReported                   // reported
	StateFailed                     // failed
)

// transitions are the legal transitions between states.
// Any non-terminal state may fail.
var transitions = map[State][]State{
	StateUninitialized: {StateContextBuilt},
	StateContextBuilt:  {StateParsed},
	StateParsed:        {StateSetupApplied, StateMeasuring},
	StateSetupApplied:  {StateMeasuring},
	StateMeasuring:     {StateReported},
}

func (s State) IsTerminal() bool {
	return s == StateReported || s == StateFailed
}

func (s State) canTransition(to State) bool {
	if to == StateFailed {
		return !s.IsTerminal()
	}
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IllegalTransitionError is a bug in the driver.
type IllegalTransitionError struct {
	From State
	To   State
}

var _ errors.InternalError = IllegalTransitionError{}

func (IllegalTransitionError) IsInternalError() {}

func (e IllegalTransitionError) Error() string {
	return "illegal case transition from " + e.From.String() + " to " + e.To.String()
}
