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
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/onflow/crypto"
	"github.com/onflow/crypto/hash"
)

// hashOperandSize is the serialized size of hash operands of the integer kinds:
// a 16-byte integer prefixed with its kind.
const hashOperandSize = 17

const hashBufferSize = 32

// hashOperand returns a literal of an operand of a hash function.
//
// Up to size 17, an operand is uniformly an unsigned 128-bit integer,
// a signed 128-bit integer, or a 32-byte buffer.
// Operands of larger sizes are buffers of that size.
func (g *Generator) hashOperand(size uint64) string {
	if size > hashOperandSize {
		return fmt.Sprintf("%q", g.random.Hex(int(size)))
	}

	switch g.random.IntN(3) {
	case 0:
		return fmt.Sprintf("(%s as UInt128)", g.random.UInt128().Dec())
	case 1:
		return fmt.Sprintf("(%s as Int128)", g.random.Int128())
	default:
		return fmt.Sprintf("%q", g.random.Hex(hashBufferSize))
	}
}

func generateHash(function string) generateFunc {
	return func(g *Generator, b *workloadBuilder) error {
		operand := g.hashOperand(b.spec.Size)
		b.repeat(func(_ uint64) {
			b.body.add("let %s = %s(%s)", b.body.fresh("r"), function, operand)
		})
		b.throughput = max(b.spec.Size, hashOperandSize)
		return nil
	}
}

const signedMessageSize = 32

// secp256k1Key returns a fresh secp256k1 private key.
func (g *Generator) secp256k1Key() (*ecdsa.PrivateKey, error) {
	for attempt := 0; attempt < 16; attempt++ {
		key, err := ethcrypto.ToECDSA(g.random.Bytes(32))
		if err == nil {
			return key, nil
		}
	}
	return nil, fmt.Errorf("failed to generate secp256k1 key")
}

type secp256k1Signature struct {
	message string
	// signature is the 64-byte compact signature followed by the recovery id
	signature string
	publicKey string
}

func (g *Generator) secp256k1Signature() (secp256k1Signature, error) {
	key, err := g.secp256k1Key()
	if err != nil {
		return secp256k1Signature{}, err
	}

	message := g.random.Bytes(signedMessageSize)
	signature, err := ethcrypto.Sign(message, key)
	if err != nil {
		return secp256k1Signature{}, fmt.Errorf("failed to sign message: %w", err)
	}

	return secp256k1Signature{
		message:   hex.EncodeToString(message),
		signature: hex.EncodeToString(signature),
		publicKey: hex.EncodeToString(ethcrypto.CompressPubkey(&key.PublicKey)),
	}, nil
}

func generateSecp256k1Verify(g *Generator, b *workloadBuilder) (err error) {
	b.repeat(func(_ uint64) {
		if err != nil {
			return
		}
		var signature secp256k1Signature
		signature, err = g.secp256k1Signature()
		if err != nil {
			return
		}
		b.body.add(
			"let %s = secp256k1Verify(%q, %q, %q)",
			b.body.fresh("r"),
			signature.message,
			signature.signature,
			signature.publicKey,
		)
	})
	b.throughput = signedMessageSize
	return err
}

func generateSecp256k1Recover(g *Generator, b *workloadBuilder) (err error) {
	b.repeat(func(_ uint64) {
		if err != nil {
			return
		}
		var signature secp256k1Signature
		signature, err = g.secp256k1Signature()
		if err != nil {
			return
		}
		b.body.add(
			"let %s = secp256k1Recover(%q, %q)",
			b.body.fresh("r"),
			signature.message,
			signature.signature,
		)
	})
	b.throughput = signedMessageSize
	return err
}

// P256Hasher returns the hasher used for P-256 signatures,
// both when they are generated and when they are verified.
func P256Hasher() hash.Hasher {
	return hash.NewSHA3_256()
}

func generateP256Verify(g *Generator, b *workloadBuilder) (err error) {
	b.repeat(func(_ uint64) {
		if err != nil {
			return
		}

		var key crypto.PrivateKey
		key, err = crypto.GeneratePrivateKey(crypto.ECDSAP256, g.random.Bytes(crypto.KeyGenSeedMinLen))
		if err != nil {
			err = fmt.Errorf("failed to generate P-256 key: %w", err)
			return
		}

		message := g.random.Bytes(signedMessageSize)

		var signature crypto.Signature
		signature, err = key.Sign(message, P256Hasher())
		if err != nil {
			err = fmt.Errorf("failed to sign message: %w", err)
			return
		}

		b.body.add(
			"let %s = p256Verify(%q, %q, %q)",
			b.body.fresh("r"),
			hex.EncodeToString(message),
			hex.EncodeToString(signature),
			hex.EncodeToString(key.PublicKey().Encode()),
		)
	})
	b.throughput = signedMessageSize
	return err
}

// addressLiteral returns an address literal.
func addressLiteral(address [8]byte) string {
	return "0x" + hex.EncodeToString(address[:])
}

func generatePrincipalOf(g *Generator, b *workloadBuilder) (err error) {
	b.repeat(func(_ uint64) {
		if err != nil {
			return
		}
		var key *ecdsa.PrivateKey
		key, err = g.secp256k1Key()
		if err != nil {
			return
		}
		b.body.add(
			"let %s = principalOf(%q)",
			b.body.fresh("r"),
			hex.EncodeToString(ethcrypto.CompressPubkey(&key.PublicKey)),
		)
	})
	b.throughput = 33
	return err
}

func generateAddressToString(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add(
			"let %s = (%s as Address).toString()",
			b.body.fresh("r"),
			addressLiteral(g.random.Address()),
		)
	})
	b.throughput = 8
	return nil
}

func generateIsStandard(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add(
			"let %s = isStandard(%s)",
			b.body.fresh("r"),
			addressLiteral(g.random.Address()),
		)
	})
	b.throughput = 8
	return nil
}
