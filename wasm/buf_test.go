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

package wasm

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {

	t.Parallel()

	t.Run("write", func(t *testing.T) {

		t.Parallel()

		buf := NewBuffer(2)
		require.NoError(t, buf.WriteByte(0x1))
		require.NoError(t, buf.WriteBytes([]byte{0x2, 0x3, 0x4}))
		require.NoError(t, buf.WriteString("ab"))

		n, err := buf.Write([]byte{0x5})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		assert.Equal(t, []byte{0x1, 0x2, 0x3, 0x4, 'a', 'b', 0x5}, buf.Bytes())
		assert.Equal(t, 7, buf.Len())
	})

	t.Run("overwrite", func(t *testing.T) {

		t.Parallel()

		var buf Buffer
		require.NoError(t, buf.WriteBytes([]byte{0x1, 0x2, 0x3}))

		buf.offset = 1
		require.NoError(t, buf.WriteByte(0x9))
		require.NoError(t, buf.WriteBytes([]byte{0x8, 0x7}))

		assert.Equal(t, []byte{0x1, 0x9, 0x8, 0x7}, buf.Bytes())
		assert.Equal(t, offset(4), buf.offset)
	})

	t.Run("read", func(t *testing.T) {

		t.Parallel()

		buf := Buffer{data: []byte{0x1}}

		b, err := buf.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte(0x1), b)

		_, err = buf.ReadByte()
		assert.ErrorIs(t, err, io.EOF)
	})
}
