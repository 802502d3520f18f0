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
	"fmt"
)

// The maximum number of bytes an N-bit integer may be encoded as, ceil(N/7).
// See https://webassembly.github.io/spec/core/binary/values.html#binary-int
const (
	max32bitLEB128ByteCount = 5
	max64bitLEB128ByteCount = 10
)

// writeUnsignedLEB128 writes v in canonical unsigned LEB128 format,
// with the fewest bytes possible.
func (buf *Buffer) writeUnsignedLEB128(v uint64) error {
	for {
		c := uint8(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		err := buf.WriteByte(c)
		if err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

// writeSignedLEB128 writes v in canonical signed LEB128 format,
// with the fewest bytes possible.
func (buf *Buffer) writeSignedLEB128(v int64) error {
	for {
		c := uint8(v & 0x7f)
		sign := c & 0x40
		v >>= 7
		done := (v == 0 && sign == 0) || (v == -1 && sign != 0)
		if !done {
			c |= 0x80
		}
		err := buf.WriteByte(c)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (buf *Buffer) writeUint32LEB128(v uint32) error {
	return buf.writeUnsignedLEB128(uint64(v))
}

func (buf *Buffer) writeUint64LEB128(v uint64) error {
	return buf.writeUnsignedLEB128(v)
}

func (buf *Buffer) writeInt32LEB128(v int32) error {
	return buf.writeSignedLEB128(int64(v))
}

func (buf *Buffer) writeInt64LEB128(v int64) error {
	return buf.writeSignedLEB128(v)
}

// readUnsignedLEB128 reads an unsigned LEB128 integer of at most maxByteCount bytes.
func (buf *Buffer) readUnsignedLEB128(maxByteCount int) (uint64, error) {
	var result uint64
	for i := 0; i < maxByteCount; i++ {
		b, err := buf.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			break
		}
	}
	return result, nil
}

// readSignedLEB128 reads a signed LEB128 integer of at most maxByteCount bytes.
func (buf *Buffer) readSignedLEB128(maxByteCount int) (int64, error) {
	var result int64
	var shift uint
	for i := 0; i < maxByteCount; i++ {
		b, err := buf.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			break
		}
	}
	return result, nil
}

func (buf *Buffer) readUint32LEB128() (uint32, error) {
	v, err := buf.readUnsignedLEB128(max32bitLEB128ByteCount)
	return uint32(v), err
}

func (buf *Buffer) readUint64LEB128() (uint64, error) {
	return buf.readUnsignedLEB128(max64bitLEB128ByteCount)
}

func (buf *Buffer) readInt32LEB128() (int32, error) {
	v, err := buf.readSignedLEB128(max32bitLEB128ByteCount)
	return int32(v), err
}

func (buf *Buffer) readInt64LEB128() (int64, error) {
	return buf.readSignedLEB128(max64bitLEB128ByteCount)
}

// writeUint32LEB128FixedLength writes v in non-canonical unsigned LEB128 format,
// padded to the given number of bytes.
func (buf *Buffer) writeUint32LEB128FixedLength(v uint32, length int) error {
	for i := 0; i < length; i++ {
		c := uint8(v & 0x7f)
		v >>= 7
		if i < length-1 {
			c |= 0x80
		}
		err := buf.WriteByte(c)
		if err != nil {
			return err
		}
	}
	if v != 0 {
		return fmt.Errorf("writeUint32LEB128FixedLength: length too small: %d", length)
	}
	return nil
}

// writeFixedUint32LEB128Space reserves space for a size,
// which is later filled in by writeUint32LEB128SizeAt.
func (buf *Buffer) writeFixedUint32LEB128Space() (offset, error) {
	off := buf.offset
	for i := 0; i < max32bitLEB128ByteCount; i++ {
		err := buf.WriteByte(0)
		if err != nil {
			return 0, err
		}
	}
	return off, nil
}

// writeUint32LEB128SizeAt writes the number of bytes written after the space
// reserved at the given offset into that space.
func (buf *Buffer) writeUint32LEB128SizeAt(off offset) error {
	currentOff := buf.offset
	if currentOff < max32bitLEB128ByteCount || currentOff-max32bitLEB128ByteCount < off {
		return fmt.Errorf("writeUint32LEB128SizeAt: invalid offset: %d", off)
	}
	size := uint32(currentOff - off - max32bitLEB128ByteCount)
	buf.offset = off
	defer func() {
		buf.offset = currentOff
	}()
	return buf.writeUint32LEB128FixedLength(size, max32bitLEB128ByteCount)
}
