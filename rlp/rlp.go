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

// Package rlp implements Ethereum's Recursive-Length-Prefix encoding:
// https://ethereum.org/en/developers/docs/data-structures-and-encoding/rlp/
//
// An item is either Data (a byte string) or an Array of items. As with
// package cbor, reading is done through a non-copying Cursor and
// writing through a Builder; the builder reserves a worst-case 5-byte
// header for arrays whose length isn't known up front and compacts
// them to their minimal RLP form in Finalize.
package rlp

import "github.com/erigontech/ffx-embedded/dataerr"

type Type uint8

const (
	TypeError Type = 0
	TypeData  Type = 1 << 5
	TypeArray Type = 1 << 6
)

const (
	tagArray = 0xc0
	tagData  = 0x80
)

// Cursor reads RLP-encoded data without copying the backing buffer.
type Cursor struct {
	data   []byte
	offset int
	Err    error
}

// Walk returns a cursor positioned at the start of data.
func Walk(data []byte) Cursor {
	return Cursor{data: data}
}

func (c Cursor) Clone() Cursor { return c }

type header struct {
	typ           Type
	headerSize    int
	payloadOffset int
	payloadLen    int
}

func parseHeader(data []byte, offset int) (header, error) {
	if offset >= len(data) {
		return header{}, dataerr.BufferOverrun
	}
	b := data[offset]

	if b < 0x80 {
		return header{typ: TypeData, headerSize: 0, payloadOffset: offset, payloadLen: 1}, nil
	}

	var typ Type
	var tag byte
	var shortMax byte
	if b < tagArray {
		typ, tag, shortMax = TypeData, tagData, 0xb7
	} else {
		typ, tag, shortMax = TypeArray, tagArray, 0xf7
	}

	if b <= shortMax {
		length := int(b - tag)
		if offset+1+length > len(data) {
			return header{}, dataerr.BufferOverrun
		}
		return header{typ: typ, headerSize: 1, payloadOffset: offset + 1, payloadLen: length}, nil
	}

	nbytes := int(b - shortMax)
	if nbytes > 8 {
		return header{}, dataerr.Overflow
	}
	if offset+1+nbytes > len(data) {
		return header{}, dataerr.BufferOverrun
	}

	var length int
	for i := 0; i < nbytes; i++ {
		length = (length << 8) | int(data[offset+1+i])
	}

	payloadOffset := offset + 1 + nbytes
	if payloadOffset+length > len(data) {
		return header{}, dataerr.BufferOverrun
	}

	return header{typ: typ, headerSize: 1 + nbytes, payloadOffset: payloadOffset, payloadLen: length}, nil
}

// Type returns TypeData or TypeArray, or TypeError if the cursor is
// exhausted or malformed.
func (c Cursor) Type() Type {
	h, err := parseHeader(c.data, c.offset)
	if err != nil {
		return TypeError
	}
	return h.typ
}

// GetDataLength returns the byte length of the item's payload: for Data
// this is the string length, for Array the byte length of the
// concatenated child encodings.
func (c Cursor) GetDataLength() (uint64, error) {
	if c.Err != nil {
		return 0, c.Err
	}
	h, err := parseHeader(c.data, c.offset)
	if err != nil {
		return 0, dataerr.Wrap("rlp.GetDataLength", errKind(err), err)
	}
	return uint64(h.payloadLen), nil
}

// GetData returns the payload bytes of a Data item.
func (c Cursor) GetData() ([]byte, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	h, err := parseHeader(c.data, c.offset)
	if err != nil {
		return nil, dataerr.Wrap("rlp.GetData", errKind(err), err)
	}
	if h.typ != TypeData {
		return nil, dataerr.Wrap("rlp.GetData", dataerr.InvalidOperation, nil)
	}
	return c.data[h.payloadOffset : h.payloadOffset+h.payloadLen], nil
}

// GetArrayCount walks an Array's children and returns how many there
// are. RLP doesn't store an item count directly (only the payload byte
// length), so this has to decode every child header.
func (c Cursor) GetArrayCount() (uint64, error) {
	if c.Err != nil {
		return 0, c.Err
	}
	h, err := parseHeader(c.data, c.offset)
	if err != nil {
		return 0, dataerr.Wrap("rlp.GetArrayCount", errKind(err), err)
	}
	if h.typ != TypeArray {
		return 0, dataerr.Wrap("rlp.GetArrayCount", dataerr.InvalidOperation, nil)
	}

	end := h.payloadOffset + h.payloadLen
	var count uint64
	offset := h.payloadOffset
	for offset < end {
		child, err := parseHeader(c.data, offset)
		if err != nil {
			return 0, dataerr.Wrap("rlp.GetArrayCount", errKind(err), err)
		}
		offset = child.payloadOffset + child.payloadLen
		count++
	}
	if offset != end {
		return 0, dataerr.Wrap("rlp.GetArrayCount", dataerr.BadData, nil)
	}
	return count, nil
}

// FollowIndex returns a cursor for the index-th item of an Array.
func (c Cursor) FollowIndex(index uint64) Cursor {
	if c.Err != nil {
		return c
	}
	h, err := parseHeader(c.data, c.offset)
	if err != nil {
		return Cursor{Err: dataerr.Wrap("rlp.FollowIndex", errKind(err), err)}
	}
	if h.typ != TypeArray {
		return Cursor{Err: dataerr.InvalidOperation}
	}

	end := h.payloadOffset + h.payloadLen
	offset := h.payloadOffset
	var i uint64
	for offset < end {
		child, err := parseHeader(c.data, offset)
		if err != nil {
			return Cursor{Err: dataerr.Wrap("rlp.FollowIndex", errKind(err), err)}
		}
		if i == index {
			return Cursor{data: c.data, offset: offset}
		}
		offset = child.payloadOffset + child.payloadLen
		i++
	}
	if offset != end {
		return Cursor{Err: dataerr.Wrap("rlp.FollowIndex", dataerr.BadData, nil)}
	}
	return Cursor{Err: dataerr.NotFound}
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

// Iterator walks the children of an Array cursor in order.
type Iterator struct {
	Child Cursor
	Err   error

	data         []byte
	nextOffset   int
	containerEnd int
}

// Iterate begins iteration over container, which must be an Array.
func (c Cursor) Iterate() Iterator {
	if c.Err != nil {
		return Iterator{Err: c.Err}
	}
	h, err := parseHeader(c.data, c.offset)
	if err != nil {
		return Iterator{Err: dataerr.Wrap("rlp.Iterate", errKind(err), err)}
	}
	if h.typ != TypeArray {
		return Iterator{Err: dataerr.InvalidOperation}
	}
	return Iterator{
		data:         c.data,
		nextOffset:   h.payloadOffset,
		containerEnd: h.payloadOffset + h.payloadLen,
	}
}

// NextChild advances to the next element, populating Child. It returns
// false at the end of the array or on error.
func (it *Iterator) NextChild() bool {
	if it.Err != nil {
		return false
	}
	if it.nextOffset >= it.containerEnd {
		return false
	}
	h, err := parseHeader(it.data, it.nextOffset)
	if err != nil {
		it.Err = dataerr.Wrap("rlp.NextChild", errKind(err), err)
		return false
	}
	end := h.payloadOffset + h.payloadLen
	if end > it.containerEnd {
		it.Err = dataerr.Wrap("rlp.NextChild", dataerr.BadData, nil)
		return false
	}
	it.Child = Cursor{data: it.data, offset: it.nextOffset}
	it.nextOffset = end
	return true
}
