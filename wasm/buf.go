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
	"slices"
)

// offset is a position in a Buffer.
type offset int

// Buffer holds the bytes of a module while it is written or read.
//
// Writing before the end overwrites the existing bytes,
// which is how section sizes are filled in after the section contents are written.
type Buffer struct {
	data   []byte
	offset offset
}

var _ io.ByteWriter = &Buffer{}
var _ io.ByteReader = &Buffer{}
var _ io.Writer = &Buffer{}

// NewBuffer returns an empty buffer with room for the given number of bytes.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		data: make([]byte, 0, capacity),
	}
}

func (buf *Buffer) WriteByte(b byte) error {
	if int(buf.offset) == len(buf.data) {
		buf.data = append(buf.data, b)
	} else {
		buf.data[buf.offset] = b
	}
	buf.offset++
	return nil
}

// WriteBytes writes the data at the current offset, growing the buffer as needed.
func (buf *Buffer) WriteBytes(data []byte) error {
	end := int(buf.offset) + len(data)
	if end > len(buf.data) {
		buf.data = slices.Grow(buf.data, end-len(buf.data))[:end]
	}
	copy(buf.data[buf.offset:end], data)
	buf.offset = offset(end)
	return nil
}

// WriteString writes the bytes of the string at the current offset.
func (buf *Buffer) WriteString(s string) error {
	return buf.WriteBytes([]byte(s))
}

func (buf *Buffer) Write(data []byte) (int, error) {
	err := buf.WriteBytes(data)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

func (buf *Buffer) ReadByte() (byte, error) {
	if int(buf.offset) >= len(buf.data) {
		return 0, io.EOF
	}
	b := buf.data[buf.offset]
	buf.offset++
	return b, nil
}

// Len returns the number of bytes in the buffer.
func (buf *Buffer) Len() int {
	return len(buf.data)
}

func (buf *Buffer) Bytes() []byte {
	return buf.data
}
