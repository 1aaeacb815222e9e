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

// Package cbor implements a minimal, allocation-free subset of CBOR
// (RFC 8949): unsigned integers, byte strings, text strings, arrays,
// maps, booleans and null. Indefinite-length items, negative integers,
// floats and tags are unsupported and surface as UnsupportedFeature.
//
// Reading is done through a Cursor, a small value type that walks the
// encoded buffer without copying it; writing is done through a Builder
// that appends directly into a caller-supplied byte slice.
package cbor

import (
	"github.com/erigontech/ffx-embedded/dataerr"
)

// Type is a bitmask so CheckType/CheckLength can test against several
// candidate types at once, the same way the Map/Array constraint does
// in followKey/followIndex.
type Type uint8

const (
	TypeError   Type = 0
	TypeNull    Type = 1 << 0
	TypeBoolean Type = 1 << 1
	TypeNumber  Type = 1 << 2
	TypeString  Type = 1 << 3
	TypeData    Type = 1 << 4
	TypeArray   Type = 1 << 5
	TypeMap     Type = 1 << 6
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeData:
		return "data"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	default:
		return "error"
	}
}

// maxLength caps container and byte-string lengths at 24 bits; nothing
// an embedded caller hands us legitimately needs a longer count.
const maxLength = 0xffffff

func typeOfHeader(header byte) Type {
	switch header >> 5 {
	case 0:
		return TypeNumber
	case 2:
		return TypeData
	case 3:
		return TypeString
	case 4:
		return TypeArray
	case 5:
		return TypeMap
	case 7:
		switch header & 0x1f {
		case 20, 21:
			return TypeBoolean
		case 22:
			return TypeNull
		}
	}
	return TypeError
}

// Cursor reads CBOR-encoded data without copying the backing buffer. Its
// zero value is not usable; construct one with Walk.
type Cursor struct {
	data   []byte
	offset int
	Err    error
}

// Walk returns a cursor positioned at the start of data.
func Walk(data []byte) Cursor {
	return Cursor{data: data}
}

// Clone returns an independent copy of the cursor (Cursor holds no
// pointers of its own beyond the shared, read-only backing array, so
// this is just a value copy, kept as a named operation for parity with
// the rest of the API).
func (c Cursor) Clone() Cursor { return c }

type cursorInfo struct {
	dataOffset int
	typ        Type
	value      uint64
	safe       int
	headerSize int
	err        error
}

func getInfo(c Cursor) cursorInfo {
	if c.Err != nil {
		return cursorInfo{err: c.Err}
	}
	length := len(c.data)
	offset := c.offset
	if offset >= length {
		return cursorInfo{err: dataerr.BufferOverrun}
	}

	safe := length - offset - 1
	header := c.data[offset]
	typ := typeOfHeader(header)

	switch typ {
	case TypeError:
		return cursorInfo{err: dataerr.UnsupportedFeature}
	case TypeNull:
		return cursorInfo{typ: typ, headerSize: 1, dataOffset: offset + 1}
	case TypeBoolean:
		v := uint64(0)
		if header&0x1f == 21 {
			v = 1
		}
		return cursorInfo{typ: typ, value: v, headerSize: 1, dataOffset: offset + 1}
	}

	count := uint32(header & 0x1f)
	if count <= 23 {
		return cursorInfo{typ: typ, value: uint64(count), headerSize: 1, dataOffset: offset + 1, safe: safe}
	}

	if count > 27 {
		return cursorInfo{err: dataerr.UnsupportedFeature}
	}

	// 24 => 1 byte, 25 => 2 bytes, 26 => 4 bytes, 27 => 8 bytes
	nbytes := int(1) << (count - 24)
	if nbytes > safe {
		return cursorInfo{err: dataerr.BufferOverrun}
	}

	headerSize := 1 + nbytes
	dataOffset := offset + headerSize

	var v uint64
	for i := 0; i < nbytes; i++ {
		v = (v << 8) | uint64(c.data[offset+1+i])
	}

	return cursorInfo{typ: typ, value: v, headerSize: headerSize, dataOffset: dataOffset, safe: safe - nbytes}
}

// Type returns the CBOR type at the cursor, or TypeError if the cursor
// is exhausted or the data is malformed.
func (c Cursor) Type() Type {
	if c.offset >= len(c.data) {
		return TypeError
	}
	return typeOfHeader(c.data[c.offset])
}

// CheckType reports whether the cursor's type is one of types.
func (c Cursor) CheckType(types Type) bool {
	return c.Type()&types != 0
}

// GetValue returns the scalar value for Null (always 0), Boolean (0/1)
// or Number cursors.
func (c Cursor) GetValue() (uint64, error) {
	info := getInfo(c)
	if info.err != nil {
		return 0, dataerr.Wrap("cbor.GetValue", errKind(info.err), info.err)
	}
	switch info.typ {
	case TypeNull, TypeBoolean, TypeNumber:
		return info.value, nil
	default:
		return 0, dataerr.Wrap("cbor.GetValue", dataerr.InvalidOperation, nil)
	}
}

// GetData exposes the underlying bytes of a Data or String item without
// copying. The caller must not retain the slice beyond the lifetime of
// the buffer passed to Walk.
func (c Cursor) GetData() ([]byte, error) {
	info := getInfo(c)
	if info.err != nil {
		return nil, dataerr.Wrap("cbor.GetData", errKind(info.err), info.err)
	}
	if info.typ != TypeData && info.typ != TypeString {
		return nil, dataerr.Wrap("cbor.GetData", dataerr.InvalidOperation, nil)
	}
	if int(info.value) > info.safe {
		return nil, dataerr.Wrap("cbor.GetData", dataerr.BufferOverrun, nil)
	}
	if info.value >= maxLength {
		return nil, dataerr.Wrap("cbor.GetData", dataerr.Overflow, nil)
	}
	return c.data[info.dataOffset : info.dataOffset+int(info.value)], nil
}

// GetLength returns the element count of an Array/Map, or the byte
// length of a Data/String.
func (c Cursor) GetLength() (uint64, error) {
	info := getInfo(c)
	if info.err != nil {
		return 0, dataerr.Wrap("cbor.GetLength", errKind(info.err), info.err)
	}
	if info.value > maxLength {
		return 0, dataerr.Wrap("cbor.GetLength", dataerr.Overflow, nil)
	}
	switch info.typ {
	case TypeData, TypeString, TypeArray, TypeMap:
		return info.value, nil
	default:
		return 0, dataerr.Wrap("cbor.GetLength", dataerr.InvalidOperation, nil)
	}
}

// CheckLength reports whether the cursor's type matches types and its
// length equals length. It never returns an error; on any failure it
// simply reports false, matching its use as a guard in access-list and
// transaction field validation.
func (c Cursor) CheckLength(types Type, length uint64) bool {
	if c.Err != nil {
		return false
	}
	if !c.CheckType(types) {
		return false
	}
	got, err := c.GetLength()
	if err != nil {
		return false
	}
	return got == length
}

func errKind(err error) dataerr.Kind {
	if k, ok := err.(dataerr.Kind); ok {
		return k
	}
	if e, ok := err.(*dataerr.Error); ok {
		return e.Kind
	}
	return dataerr.BadData
}

// next advances a cursor past the current value; for Array/Map it
// enters the first element rather than skipping the container.
func next(c *Cursor) error {
	if c.offset >= len(c.data) {
		return dataerr.BufferOverrun
	}
	info := getInfo(*c)
	if info.err != nil {
		return info.err
	}
	switch info.typ {
	case TypeArray, TypeMap, TypeNull, TypeBoolean, TypeNumber:
		c.offset += info.headerSize
	case TypeData, TypeString:
		c.offset = info.dataOffset + int(info.value)
	}
	return nil
}

// Iterator walks the children of an Array or Map container cursor.
type Iterator struct {
	Child Cursor
	Key   Cursor
	Err   error

	container Cursor
	count     uint64
	index     uint64
	started   bool
}

// Iterate begins iteration over container, which must be an Array or
// Map cursor. Call NextChild to advance.
func (c Cursor) Iterate() Iterator {
	if c.Err != nil {
		return Iterator{Err: c.Err}
	}
	return Iterator{container: c}
}

func (it *Iterator) firstValue() bool {
	info := getInfo(it.container)
	if info.err != nil {
		it.Err = info.err
		return false
	}
	if info.value == 0 {
		return false
	}
	if info.value > maxLength {
		it.Err = dataerr.Overflow
		return false
	}

	follow := it.container
	if info.typ == TypeArray {
		if err := next(&follow); err != nil {
			it.Err = err
			return false
		}
		it.count = info.value
		it.index = 0
		it.Child = follow
		it.Key = Cursor{Err: dataerr.NotFound}
		return true
	}

	if info.typ == TypeMap {
		if err := next(&follow); err != nil {
			it.Err = err
			return false
		}
		if !follow.CheckType(TypeString) {
			it.Err = dataerr.BadData
			return false
		}
		it.Key = follow
		if err := next(&follow); err != nil {
			it.Err = err
			return false
		}
		it.count = info.value
		it.index = 0
		it.Child = follow
		return true
	}

	it.Err = dataerr.InvalidOperation
	return false
}

func (it *Iterator) nextValue() bool {
	hasKey := it.container.Type() == TypeMap
	if it.count == 0 {
		it.Err = dataerr.InvalidOperation
		return false
	}
	if it.index+1 == it.count {
		return false
	}
	it.index++

	follow := it.Child
	skip := 1
	for skip != 0 {
		switch follow.Type() {
		case TypeArray:
			n, err := follow.GetLength()
			if err != nil {
				it.Err = err
				return false
			}
			skip += int(n)
		case TypeMap:
			n, err := follow.GetLength()
			if err != nil {
				it.Err = err
				return false
			}
			skip += 2 * int(n)
		}
		if err := next(&follow); err != nil {
			it.Err = err
			return false
		}
		skip--
	}

	if hasKey {
		if !follow.CheckType(TypeString) {
			it.Err = dataerr.BadData
			return false
		}
		it.Key = follow
		if err := next(&follow); err != nil {
			it.Err = err
			return false
		}
	} else {
		it.Key = Cursor{Err: dataerr.NotFound}
	}
	it.Child = follow
	return true
}

// NextChild advances the iterator to the next child, populating Child
// (and Key, for Map containers). It returns false at the end of the
// container or on error (check Err to distinguish the two).
func (it *Iterator) NextChild() bool {
	if it.Err != nil {
		return false
	}
	if !it.started {
		it.started = true
		return it.firstValue()
	}
	return it.nextValue()
}

func keyEquals(key string, c Cursor) bool {
	data, err := c.GetData()
	if err != nil {
		return false
	}
	return string(data) == key
}

// FollowKey returns a cursor for the value associated with key in a Map
// cursor. If cursor is not a Map, or key is absent, the returned cursor
// carries InvalidOperation or NotFound respectively.
func (c Cursor) FollowKey(key string) Cursor {
	if c.Err != nil {
		return c
	}
	if !c.CheckType(TypeMap) {
		return Cursor{Err: dataerr.InvalidOperation}
	}
	it := c.Iterate()
	for it.NextChild() {
		if keyEquals(key, it.Key) {
			return it.Child
		}
	}
	if it.Err != nil {
		return Cursor{Err: it.Err}
	}
	return Cursor{Err: dataerr.NotFound}
}

// FollowIndex returns a cursor for the index-th element of an Array or
// Map cursor.
func (c Cursor) FollowIndex(index uint64) Cursor {
	if c.Err != nil {
		return c
	}
	if !c.CheckType(TypeArray | TypeMap) {
		return Cursor{Err: dataerr.InvalidOperation}
	}
	it := c.Iterate()
	var i uint64
	for it.NextChild() {
		if it.Err != nil {
			return Cursor{Err: it.Err}
		}
		if i == index {
			return it.Child
		}
		i++
	}
	if it.Err != nil {
		return Cursor{Err: it.Err}
	}
	return Cursor{Err: dataerr.NotFound}
}
