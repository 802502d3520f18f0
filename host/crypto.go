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
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/onflow/crypto"
	"github.com/onflow/crypto/hash"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// HashFunction hashes the payload of an operand.
type HashFunction func(data []byte) []byte

// HashFunctions are the hash functions available as intrinsics, by name.
var HashFunctions = map[string]HashFunction{
	"sha2_256": func(data []byte) []byte {
		sum := sha256.Sum256(data)
		return sum[:]
	},
	"sha2_384": func(data []byte) []byte {
		sum := sha512.Sum384(data)
		return sum[:]
	},
	"sha3_256": func(data []byte) []byte {
		sum := sha3.Sum256(data)
		return sum[:]
	},
	"sha3_384": func(data []byte) []byte {
		sum := sha3.Sum384(data)
		return sum[:]
	},
	"keccak_256": func(data []byte) []byte {
		return ethcrypto.Keccak256(data)
	},
	"hash160": Hash160,
}

// Hash160 returns RIPEMD-160 of SHA-256 of the data.
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	hasher := ripemd160.New()
	_, _ = hasher.Write(sum[:])
	return hasher.Sum(nil)
}

// P256Hasher returns the hasher P-256 signatures are verified with.
func P256Hasher() hash.Hasher {
	return hash.NewSHA3_256()
}

const secp256k1SignatureSize = 64

// VerifySecp256k1 verifies a signature of the message.
// The signature may carry a trailing recovery id, which is ignored.
func VerifySecp256k1(message, signature, publicKey []byte) bool {
	if len(signature) < secp256k1SignatureSize {
		return false
	}
	return ethcrypto.VerifySignature(publicKey, message, signature[:secp256k1SignatureSize])
}

// RecoverSecp256k1 recovers the compressed public key which signed the message.
// The signature must carry the recovery id.
func RecoverSecp256k1(message, signature []byte) ([]byte, bool) {
	publicKey, err := ethcrypto.SigToPub(message, signature)
	if err != nil {
		return nil, false
	}
	return ethcrypto.CompressPubkey(publicKey), true
}

// VerifyP256 verifies a P-256 signature of the message.
func VerifyP256(message, signature, publicKey []byte) bool {
	key, err := crypto.DecodePublicKey(crypto.ECDSAP256, publicKey)
	if err != nil {
		return false
	}
	valid, err := key.Verify(signature, message, P256Hasher())
	return err == nil && valid
}

func hexArgument(intrinsic string, args []Value, index int) ([]byte, error) {
	result, err := hex.DecodeString(string(args[index].(String)))
	if err != nil {
		return nil, InvalidArgumentError{
			Intrinsic: intrinsic,
			Index:     index,
			Err:       err,
		}
	}
	return result, nil
}

func init() {
	for name, function := range HashFunctions {
		register(&Intrinsic{
			Name:       name,
			Parameters: []Parameter{param("value", KindOperand)},
			Result:     KindString,
			Function: func(_ *Environment, args []Value) (Value, error) {
				operand := args[0].(Operand)
				return String(hex.EncodeToString(function(operand.Payload))), nil
			},
		})
	}

	register(&Intrinsic{
		Name: "secp256k1Verify",
		Parameters: []Parameter{
			param("message", KindString),
			param("signature", KindString),
			param("publicKey", KindString),
		},
		Result: KindBool,
		Function: func(_ *Environment, args []Value) (Value, error) {
			decoded := make([][]byte, len(args))
			for index := range args {
				var err error
				decoded[index], err = hexArgument("secp256k1Verify", args, index)
				if err != nil {
					return nil, err
				}
			}
			return Bool(VerifySecp256k1(decoded[0], decoded[1], decoded[2])), nil
		},
	})

	register(&Intrinsic{
		Name: "secp256k1Recover",
		Parameters: []Parameter{
			param("message", KindString),
			param("signature", KindString),
		},
		Result: KindString,
		Function: func(_ *Environment, args []Value) (Value, error) {
			message, err := hexArgument("secp256k1Recover", args, 0)
			if err != nil {
				return nil, err
			}
			signature, err := hexArgument("secp256k1Recover", args, 1)
			if err != nil {
				return nil, err
			}
			publicKey, ok := RecoverSecp256k1(message, signature)
			if !ok {
				return String(""), nil
			}
			return String(hex.EncodeToString(publicKey)), nil
		},
	})

	register(&Intrinsic{
		Name: "p256Verify",
		Parameters: []Parameter{
			param("message", KindString),
			param("signature", KindString),
			param("publicKey", KindString),
		},
		Result: KindBool,
		Function: func(_ *Environment, args []Value) (Value, error) {
			decoded := make([][]byte, len(args))
			for index := range args {
				var err error
				decoded[index], err = hexArgument("p256Verify", args, index)
				if err != nil {
					return nil, err
				}
			}
			return Bool(VerifyP256(decoded[0], decoded[1], decoded[2])), nil
		},
	})
}
