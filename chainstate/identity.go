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

package chainstate

import (
	"encoding/binary"
	"encoding/hex"
)

// BlockIdentity identifies a block.
//
// Identities of benchmark blocks are derived from a counter:
// the first 4 bytes are the little-endian counter, the remaining bytes are zero.
type BlockIdentity [32]byte

// SentinelBlockIdentity is the parent of the genesis block.
var SentinelBlockIdentity = func() (id BlockIdentity) {
	for i := range id {
		id[i] = 0xff
	}
	return
}()

// NewBlockIdentity returns the identity derived from the given counter.
func NewBlockIdentity(counter uint32) BlockIdentity {
	var id BlockIdentity
	binary.LittleEndian.PutUint32(id[:4], counter)
	return id
}

// Counter returns the counter the identity was derived from.
func (id BlockIdentity) Counter() uint32 {
	return binary.LittleEndian.Uint32(id[:4])
}

func (id BlockIdentity) IsSentinel() bool {
	return id == SentinelBlockIdentity
}

// Height returns the height of the block with the identity.
// The sentinel is at height 0, like the genesis block.
func (id BlockIdentity) Height() uint32 {
	if id.IsSentinel() {
		return 0
	}
	return id.Counter()
}

func (id BlockIdentity) String() string {
	return hex.EncodeToString(id[:])
}

// BlockIdentityFromBytes returns the identity with the given bytes.
// It returns false if the slice has the wrong length.
func BlockIdentityFromBytes(b []byte) (BlockIdentity, bool) {
	var id BlockIdentity
	if len(b) != len(id) {
		return id, false
	}
	copy(id[:], b)
	return id, true
}
