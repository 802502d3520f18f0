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
	"github.com/onflow/cadence-benchmarking/chainstate"
)

func init() {
	register(&Intrinsic{
		Name:       "storageGet",
		Parameters: []Parameter{param("key", KindString)},
		Result:     KindString,
		Function: func(env *Environment, args []Value) (Value, error) {
			key := args[0].(String)
			value, err := env.Ledger.GetValue(chainstate.StorageOwner[:], chainstate.StorageKey(string(key)))
			if err != nil {
				return nil, err
			}
			return String(value), nil
		},
	})

	register(&Intrinsic{
		Name: "storagePut",
		Parameters: []Parameter{
			param("key", KindString),
			param("value", KindString),
		},
		Result: KindBool,
		Function: func(env *Environment, args []Value) (Value, error) {
			key := args[0].(String)
			value := args[1].(String)
			err := env.Ledger.SetValue(
				chainstate.StorageOwner[:],
				chainstate.StorageKey(string(key)),
				[]byte(value),
			)
			if err != nil {
				return nil, err
			}
			return Bool(true), nil
		},
	})
}
