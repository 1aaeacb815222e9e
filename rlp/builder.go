/*
   Copyright 2024 The Erigon contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package rlp

import "github.com/erigontech/ffx-embedded/dataerr"

// BuilderTag marks the offset of a reserved 5-byte array header created
// by AppendMutableArray, to be resolved later by AdjustCount.
type BuilderTag int

// Builder appends RLP data into a caller-supplied buffer. Arrays whose
// length isn't known ahead of time are written with a reserved 5-byte
// header holding the item count; Finalize recursively compacts every
// such header to its minimal RLP form.
type Builder struct {
	data   []byte
	offset int
	Err    error
}

// Build wraps data as the output buffer for a new Builder.
func Build(data []byte) Builder {
	return Builder{data: data}
}

func (b *Builder) fail(kind dataerr.Kind) error {
	if b.Err == nil {
		b.Err = dataerr.Wrap("rlp.Builder", kind, nil)
	}
	return b.Err
}

func getByteCount(value int) int {
	switch {
	case value < 0x100:
		return 1
	case value < 0x10000:
		return 2
	case value < 0x1000000:
		return 3
	default:
		return 4
	}
}

func (b *Builder) appendByte(v byte) error {
	if b.Err != nil {
		return b.Err
	}
	if len(b.data) < b.offset+1 {
		return b.fail(dataerr.BufferOverrun)
	}
	b.data[b.offset] = v
	b.offset++
	return nil
}

func (b *Builder) appendBytes(data []byte) error {
	if b.Err != nil {
		return b.Err
	}
	if len(b.data) < b.offset+len(data) {
		return b.fail(dataerr.BufferOverrun)
	}
	copy(b.data[b.offset:], data)
	b.offset += len(data)
	return nil
}

// reserveTag marks a header written with the 5-byte reserved form
// (tag byte + 4-byte big-endian count), used only for mutable arrays.
const reserveTag = tagArray + 55 + 4

// appendHeader writes a header for tag (tagData or tagArray) with the
// given length. Passing isReserve writes the worst-case 5-byte form
// holding length verbatim (length is then an item count, not a byte
// count, until AdjustCount rewrites it).
func (b *Builder) appendHeader(tag byte, length int, isReserve bool) error {
	if b.Err != nil {
		return b.Err
	}

	if !isReserve && length <= 55 {
		return b.appendByte(tag + byte(length))
	}

	byteCount := 4
	if !isReserve {
		byteCount = getByteCount(length)
	}

	if err := b.appendByte(tag + 55 + byte(byteCount)); err != nil {
		return err
	}
	for i := byteCount - 1; i >= 0; i-- {
		if err := b.appendByte(byte(length >> uint(8*i))); err != nil {
			return err
		}
	}
	return nil
}

// AppendData appends a byte-string item. A single byte with value <=
// 0x7f is its own minimal encoding and is written as-is.
func (b *Builder) AppendData(data []byte) error {
	if b.Err != nil {
		return b.Err
	}
	if len(data) == 1 && data[0] <= 0x7f {
		return b.appendByte(data[0])
	}
	if err := b.appendHeader(tagData, len(data), false); err != nil {
		return err
	}
	return b.appendBytes(data)
}

// AppendString appends a byte-string item from a Go string.
func (b *Builder) AppendString(s string) error {
	return b.AppendData([]byte(s))
}

// AppendArray begins an array of count items; the next count Append*
// calls supply its elements. A zero-length array is written in its
// final compact form directly; non-empty arrays reserve a worst-case
// 5-byte header to be compacted by Finalize.
func (b *Builder) AppendArray(count int) error {
	if count == 0 {
		return b.appendHeader(tagArray, 0, false)
	}
	return b.appendHeader(tagArray, count, true)
}

// AppendMutableArray reserves a 5-byte array header for a count that
// isn't known yet; call AdjustCount once the final item count is known.
func (b *Builder) AppendMutableArray() (BuilderTag, error) {
	tag := BuilderTag(b.offset)
	if err := b.appendHeader(tagArray, 0, true); err != nil {
		return 0, err
	}
	return tag, nil
}

// AdjustCount rewrites the reserved header at tag with count (the
// number of items, not bytes — Finalize turns this into a byte length).
func (b *Builder) AdjustCount(tag BuilderTag, count int) error {
	if b.Err != nil {
		return b.Err
	}
	saved := b.offset
	b.offset = int(tag)
	err := b.appendHeader(tagArray, count, true)
	b.offset = saved
	return err
}

func readValue(data []byte) int {
	var v int
	for _, b := range data {
		v = (v << 8) | int(b)
	}
	return v
}

// finalize recursively compacts the item at rlp.offset and returns its
// total encoded length (header + payload), or 0 on error (with Err set).
func (b *Builder) finalize() int {
	v := b.data[b.offset]

	if v <= 0x7f {
		return 1
	}

	// Data, or an Array that isn't using the reserved 5-byte form, is
	// already compact.
	if (v&0xc0) == tagData || v != reserveTag {
		tagBits := v & 0x3f
		if tagBits <= 55 {
			return 1 + int(tagBits)
		}
		nbytes := int(tagBits) - 55
		if nbytes > 4 {
			b.fail(dataerr.Overflow)
			return 0
		}
		return 1 + nbytes + readValue(b.data[b.offset+1:b.offset+1+nbytes])
	}

	baseOffset := b.offset
	dataOffset := baseOffset + 5

	count := readValue(b.data[baseOffset+1 : baseOffset+5])
	b.offset = dataOffset
	length := 0
	for i := 0; i < count; i++ {
		l := b.finalize()
		if l == 0 {
			return 0
		}
		length += l
		b.offset = dataOffset + length
	}

	// Rewrite the 5-byte reserved header in its compact form, then
	// shift the already-finalized children, and everything after them,
	// left to close the gap so the next sibling starts right after.
	b.offset = baseOffset
	if err := b.appendHeader(tagArray, length, false); err != nil {
		return 0
	}
	if b.offset != dataOffset {
		copy(b.data[b.offset:], b.data[dataOffset:])
	}

	return b.offset - baseOffset + length
}

// Finalize compacts every reserved mutable-array header into its
// minimal RLP form and returns the total encoded length. The builder
// must not be appended to again afterward.
func (b *Builder) Finalize() (int, error) {
	if b.Err != nil {
		return 0, b.Err
	}

	b.offset = 0

	length := b.finalize()
	if b.Err != nil {
		return 0, b.Err
	}
	if length == 0 {
		return 0, b.fail(dataerr.BadData)
	}

	b.offset = length
	return length, nil
}

// Bytes returns the encoded output. Call Finalize first.
func (b *Builder) Bytes() []byte { return b.data[:b.offset] }

// Len returns the current output length (only meaningful for the
// compact length after Finalize; during building it tracks the
// intermediate, non-compact length).
func (b *Builder) Len() int { return b.offset }
