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

package cbor

import "github.com/erigontech/ffx-embedded/dataerr"

// Tag marks the offset of a reserved 2-byte count field created by
// AppendArrayMutable/AppendMapMutable, to be resolved later by
// AdjustCount once the final element count is known.
type Tag int

// Builder appends CBOR-encoded values into a caller-supplied buffer. It
// never allocates or grows the buffer; BufferOverrun is returned once
// data is exhausted.
type Builder struct {
	data   []byte
	offset int
	Err    error
}

// Build wraps data as the output buffer for a new Builder.
func Build(data []byte) Builder {
	return Builder{data: data}
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int { return b.offset }

// Bytes returns the written prefix of the builder's buffer.
func (b *Builder) Bytes() []byte { return b.data[:b.offset] }

func (b *Builder) fail(kind dataerr.Kind) error {
	if b.Err == nil {
		b.Err = dataerr.Wrap("cbor.Builder", kind, nil)
	}
	return b.Err
}

func majorByte(major byte, value uint64) byte { return (major << 5) | byte(value) }

// appendHeader writes a short CBOR header for major type typ encoding
// value, rounding the trailing byte count up to a power of two
// (24/25/26/27 => 1/2/4/8 trailing bytes).
func (b *Builder) appendHeader(typ byte, value uint64) error {
	if b.Err != nil {
		return b.Err
	}

	if value < 23 {
		if len(b.data) < b.offset+1 {
			return b.fail(dataerr.BufferOverrun)
		}
		b.data[b.offset] = majorByte(typ, value)
		b.offset++
		return nil
	}

	var raw [8]byte
	inset := 7
	for i := 7; i >= 0; i-- {
		v := byte((value >> uint(56-i*8)) & 0xff)
		raw[i] = v
		if v != 0 {
			inset = i
		}
	}

	counts := [8]byte{27, 27, 27, 27, 26, 26, 25, 24}
	count := counts[inset]
	inset = 8 - (1 << (count - 24))

	need := 1 + (8 - inset)
	if len(b.data) < b.offset+need {
		return b.fail(dataerr.BufferOverrun)
	}

	off := b.offset
	b.data[off] = majorByte(typ, uint64(count))
	off++
	for i := inset; i < 8; i++ {
		b.data[off] = raw[i]
		off++
	}
	b.offset = off
	return nil
}

// AppendBoolean appends a boolean scalar.
func (b *Builder) AppendBoolean(value bool) error {
	if b.Err != nil {
		return b.Err
	}
	if len(b.data) < b.offset+1 {
		return b.fail(dataerr.BufferOverrun)
	}
	v := byte(20)
	if value {
		v = 21
	}
	b.data[b.offset] = majorByte(7, uint64(v))
	b.offset++
	return nil
}

// AppendNull appends a null scalar.
func (b *Builder) AppendNull() error {
	if b.Err != nil {
		return b.Err
	}
	if len(b.data) < b.offset+1 {
		return b.fail(dataerr.BufferOverrun)
	}
	b.data[b.offset] = majorByte(7, 22)
	b.offset++
	return nil
}

// AppendNumber appends an unsigned integer.
func (b *Builder) AppendNumber(value uint64) error {
	return b.appendHeader(0, value)
}

// AppendData appends a byte-string value.
func (b *Builder) AppendData(data []byte) error {
	if err := b.appendHeader(2, uint64(len(data))); err != nil {
		return err
	}
	if len(b.data) < b.offset+len(data) {
		return b.fail(dataerr.BufferOverrun)
	}
	copy(b.data[b.offset:], data)
	b.offset += len(data)
	return nil
}

// AppendString appends a UTF-8 text-string value.
func (b *Builder) AppendString(s string) error {
	if b.Err != nil {
		return b.Err
	}
	if err := b.appendHeader(3, uint64(len(s))); err != nil {
		return err
	}
	if len(b.data) < b.offset+len(s) {
		return b.fail(dataerr.BufferOverrun)
	}
	copy(b.data[b.offset:], s)
	b.offset += len(s)
	return nil
}

// AppendArray begins a fixed-length array of count items; the next
// count Append* calls supply its elements.
func (b *Builder) AppendArray(count uint64) error {
	return b.appendHeader(4, count)
}

// AppendMap begins a fixed-length map of count entries; the next
// 2*count Append* calls supply its key/value pairs (keys must be
// appended with AppendString).
func (b *Builder) AppendMap(count uint64) error {
	return b.appendHeader(5, count)
}

// appendMutable reserves a 3-byte header (major-type tag + 2-byte count
// placeholder) for a container whose element count isn't known yet.
func (b *Builder) appendMutable(major byte) (Tag, error) {
	if b.Err != nil {
		return 0, b.Err
	}
	if len(b.data) < b.offset+3 {
		return 0, b.fail(dataerr.BufferOverrun)
	}
	b.data[b.offset] = majorByte(major, 25)
	b.offset++
	tag := Tag(b.offset)
	b.data[b.offset] = 0
	b.data[b.offset+1] = 0
	b.offset += 2
	return tag, nil
}

// AppendArrayMutable reserves space for an array whose length will be
// fixed up later with AdjustCount.
func (b *Builder) AppendArrayMutable() (Tag, error) { return b.appendMutable(4) }

// AppendMapMutable reserves space for a map whose length will be fixed
// up later with AdjustCount.
func (b *Builder) AppendMapMutable() (Tag, error) { return b.appendMutable(5) }

// AdjustCount writes count into the 2-byte placeholder at tag. count
// must fit in 16 bits; Overflow is returned (and recorded on the
// builder) otherwise.
func (b *Builder) AdjustCount(tag Tag, count uint64) error {
	if b.Err != nil {
		return b.Err
	}
	if count > 0xffff {
		return b.fail(dataerr.Overflow)
	}
	b.data[tag] = byte((count >> 8) & 0xff)
	b.data[tag+1] = byte(count & 0xff)
	return nil
}

// AppendRaw copies already-encoded CBOR bytes verbatim into the
// builder's output, useful for splicing a sub-document assembled
// separately.
func (b *Builder) AppendRaw(data []byte) error {
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

// AppendBuilder splices everything src has written so far into b.
func (b *Builder) AppendBuilder(src *Builder) error {
	return b.AppendRaw(src.Bytes())
}
