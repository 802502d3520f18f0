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
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/onflow/cadence/common"
)

// PrincipalOf returns the address of the account controlled by the compressed secp256k1 public key:
// the leading bytes of its hash160.
func PrincipalOf(publicKey []byte) (common.Address, error) {
	_, err := ethcrypto.DecompressPubkey(publicKey)
	if err != nil {
		return common.ZeroAddress, err
	}

	var result common.Address
	copy(result[:], Hash160(publicKey))
	return result, nil
}

// IsStandard returns true if the address is a standard address,
// as opposed to a contract-only address, which has the high bit set.
func IsStandard(address common.Address) bool {
	return address[0] < 0x80
}

func init() {
	register(&Intrinsic{
		Name:       "principalOf",
		Parameters: []Parameter{param("publicKey", KindString)},
		Result:     KindAddress,
		Function: func(_ *Environment, args []Value) (Value, error) {
			publicKey, err := hexArgument("principalOf", args, 0)
			if err != nil {
				return nil, err
			}
			principal, err := PrincipalOf(publicKey)
			if err != nil {
				return nil, InvalidArgumentError{
					Intrinsic: "principalOf",
					Index:     0,
					Err:       err,
				}
			}
			return Address(principal), nil
		},
	})

	register(&Intrinsic{
		Name:       "isStandard",
		Parameters: []Parameter{param("address", KindAddress)},
		Result:     KindBool,
		Function: func(_ *Environment, args []Value) (Value, error) {
			return Bool(IsStandard(address(args[0]))), nil
		},
	})
}
