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
	"encoding/hex"
	"math/big"
	"math/rand/v2"

	"github.com/holiman/uint256"
)

// Random is the source of all randomness of the generator.
// It is not safe for concurrent use.
type Random struct {
	rand *rand.Rand
}

// NewRandom returns a source seeded from entropy.
func NewRandom() *Random {
	return NewSeededRandom(rand.Uint64())
}

// NewSeededRandom returns a source which produces the same sequence for the same seed.
func NewSeededRandom(seed uint64) *Random {
	return &Random{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Uint64 returns a uniformly distributed value.
func (r *Random) Uint64() uint64 {
	return r.rand.Uint64()
}

// Uint64N returns a value in [0, n).
func (r *Random) Uint64N(n uint64) uint64 {
	return r.rand.Uint64N(n)
}

// IntN returns a value in [0, n).
func (r *Random) IntN(n int) int {
	return r.rand.IntN(n)
}

// Int64Range returns a value in [lo, hi].
func (r *Random) Int64Range(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := uint64(hi - lo)
	if span == ^uint64(0) {
		return int64(r.rand.Uint64())
	}
	return lo + int64(r.rand.Uint64N(span+1))
}

// Uint64Range returns a value in [lo, hi].
func (r *Random) Uint64Range(lo, hi uint64) uint64 {
	if hi <= lo {
		return lo
	}
	span := hi - lo
	if span == ^uint64(0) {
		return r.rand.Uint64()
	}
	return lo + r.rand.Uint64N(span+1)
}

// Bool returns true or false with equal probability.
func (r *Random) Bool() bool {
	return r.rand.Uint64()&1 == 1
}

// Read fills p with random bytes. It never fails.
func (r *Random) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := r.rand.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// Bytes returns n random bytes.
func (r *Random) Bytes(n int) []byte {
	b := make([]byte, n)
	_, _ = r.Read(b)
	return b
}

// Hex returns the hex encoding of n random bytes.
func (r *Random) Hex(n int) string {
	return hex.EncodeToString(r.Bytes(n))
}

const lowercaseLetters = "abcdefghijklmnopqrstuvwxyz"

// Letters returns n random lowercase ASCII letters.
func (r *Random) Letters(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = lowercaseLetters[r.rand.IntN(len(lowercaseLetters))]
	}
	return string(b)
}

// textCharacters are the characters of generated text.
// Each entry is one grapheme cluster, some of them span multiple bytes.
var textCharacters = []string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"é", "ß", "λ", "世", "e\u0301", "\U0001F600",
}

// Text returns a string of n grapheme clusters.
func (r *Random) Text(n int) string {
	var b []byte
	for i := 0; i < n; i++ {
		b = append(b, textCharacters[r.rand.IntN(len(textCharacters))]...)
	}
	return string(b)
}

// UInt128 returns a uniformly distributed unsigned 128-bit integer.
func (r *Random) UInt128() *uint256.Int {
	return new(uint256.Int).SetBytes(r.Bytes(16))
}

var int128Offset = new(big.Int).Lsh(big.NewInt(1), 127)

// Int128 returns a uniformly distributed signed 128-bit integer.
func (r *Random) Int128() *big.Int {
	value := r.UInt128().ToBig()
	return value.Sub(value, int128Offset)
}

// Address returns a random non-zero 8-byte account address.
func (r *Random) Address() [8]byte {
	var address [8]byte
	for {
		_, _ = r.Read(address[:])
		if address != [8]byte{} {
			return address
		}
	}
}
