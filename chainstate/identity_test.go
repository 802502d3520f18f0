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
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockIdentityInjective(t *testing.T) {

	t.Parallel()

	const count = 100_000

	seen := make(map[BlockIdentity]uint32, count)
	for counter := uint32(0); counter < count; counter++ {
		id := NewBlockIdentity(counter)

		other, ok := seen[id]
		require.False(t, ok, "%d and %d have the same identity", counter, other)
		seen[id] = counter

		assert.Equal(t, counter, id.Counter())
		assert.False(t, id.IsSentinel())
	}
}

func TestBlockIdentityCounter(t *testing.T) {

	t.Parallel()

	properties := gopter.NewProperties(nil)

	properties.Property("counter is recovered from the first 4 bytes", prop.ForAll(
		func(counter uint32) bool {
			id := NewBlockIdentity(counter)
			for _, b := range id[4:] {
				if b != 0 {
					return false
				}
			}
			return id.Counter() == counter &&
				id.Height() == counter
		},
		gen.UInt32(),
	))

	properties.TestingRun(t)
}

func TestSentinelBlockIdentity(t *testing.T) {

	t.Parallel()

	assert.True(t, SentinelBlockIdentity.IsSentinel())
	assert.Equal(t, uint32(0), SentinelBlockIdentity.Height())
	assert.Equal(t, uint32(0xffffffff), SentinelBlockIdentity.Counter())

	id, ok := BlockIdentityFromBytes(SentinelBlockIdentity[:])
	require.True(t, ok)
	assert.Equal(t, SentinelBlockIdentity, id)

	_, ok = BlockIdentityFromBytes([]byte{1, 2, 3})
	assert.False(t, ok)
}
