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
	"sort"
)

// Parameter is a parameter of an intrinsic.
type Parameter struct {
	Name string
	Kind Kind
}

// Intrinsic is a capability of the VM exposed to programs,
// both to interpreted programs and to compiled modules.
type Intrinsic struct {
	Name       string
	Parameters []Parameter
	Result     Kind
	Function   func(env *Environment, args []Value) (Value, error)
}

// Call checks the arguments and calls the intrinsic.
func (i *Intrinsic) Call(env *Environment, args []Value) (Value, error) {
	if len(args) != len(i.Parameters) {
		return nil, ArgumentCountError{
			Intrinsic: i.Name,
			Expected:  len(i.Parameters),
			Actual:    len(args),
		}
	}
	for index, arg := range args {
		expected := i.Parameters[index].Kind
		if arg == nil || arg.Kind() != expected {
			var actual Kind
			if arg != nil {
				actual = arg.Kind()
			}
			return nil, ArgumentKindError{
				Intrinsic: i.Name,
				Index:     index,
				Expected:  expected,
				Actual:    actual,
			}
		}
	}
	return i.Function(env, args)
}

var intrinsics = map[string]*Intrinsic{}

func register(intrinsic *Intrinsic) {
	if _, ok := intrinsics[intrinsic.Name]; ok {
		panic("duplicate intrinsic: " + intrinsic.Name)
	}
	intrinsics[intrinsic.Name] = intrinsic
}

// Intrinsics returns all intrinsics, sorted by name.
func Intrinsics() []*Intrinsic {
	result := make([]*Intrinsic, 0, len(intrinsics))
	for _, intrinsic := range intrinsics {
		result = append(result, intrinsic)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Lookup returns the intrinsic with the given name.
func Lookup(name string) (*Intrinsic, error) {
	intrinsic, ok := intrinsics[name]
	if !ok {
		return nil, UnknownIntrinsicError{Name: name}
	}
	return intrinsic, nil
}

func param(name string, kind Kind) Parameter {
	return Parameter{Name: name, Kind: kind}
}
