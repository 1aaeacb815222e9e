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

package rlp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/ffx-embedded/rlp"
)

func TestSingleByteData(t *testing.T) {
	buf := make([]byte, 16)
	b := rlp.Build(buf)
	require.NoError(t, b.AppendData([]byte{0x61}))
	n, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, []byte{0x61}, b.Bytes()[:n])
}

func TestShortStringHeader(t *testing.T) {
	buf := make([]byte, 16)
	b := rlp.Build(buf)
	require.NoError(t, b.AppendString("dog"))
	n, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, []byte{0x83, 'd', 'o', 'g'}, b.Bytes()[:n])
}

func TestEmptyArray(t *testing.T) {
	buf := make([]byte, 16)
	b := rlp.Build(buf)
	require.NoError(t, b.AppendArray(0))
	n, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, []byte{0xc0}, b.Bytes()[:n])
}

func TestMutableArrayRoundtrip(t *testing.T) {
	buf := make([]byte, 64)
	b := rlp.Build(buf)
	tag, err := b.AppendMutableArray()
	require.NoError(t, err)
	require.NoError(t, b.AppendString("cat"))
	require.NoError(t, b.AppendString("dog"))
	require.NoError(t, b.AdjustCount(tag, 2))
	n, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, []byte{0xc8, 0x83, 'c', 'a', 't', 0x83, 'd', 'o', 'g'}, b.Bytes()[:n])

	c := rlp.Walk(b.Bytes()[:n])
	require.Equal(t, rlp.TypeArray, c.Type())
	count, err := c.GetArrayCount()
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	var items []string
	it := c.Iterate()
	for it.NextChild() {
		data, err := it.Child.GetData()
		require.NoError(t, err)
		items = append(items, string(data))
	}
	require.NoError(t, it.Err)
	require.Equal(t, []string{"cat", "dog"}, items)
}

func TestNestedMutableArray(t *testing.T) {
	// [ "a", [ "b", "c" ] ], exercising a mutable array nested inside
	// another mutable array (access-list shape).
	buf := make([]byte, 64)
	b := rlp.Build(buf)
	outer, err := b.AppendMutableArray()
	require.NoError(t, err)
	require.NoError(t, b.AppendString("a"))
	inner, err := b.AppendMutableArray()
	require.NoError(t, err)
	require.NoError(t, b.AppendString("b"))
	require.NoError(t, b.AppendString("c"))
	require.NoError(t, b.AdjustCount(inner, 2))
	require.NoError(t, b.AdjustCount(outer, 2))
	n, err := b.Finalize()
	require.NoError(t, err)

	c := rlp.Walk(b.Bytes()[:n])
	count, err := c.GetArrayCount()
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	inner2 := c.FollowIndex(1)
	require.Equal(t, rlp.TypeArray, inner2.Type())
	innerCount, err := inner2.GetArrayCount()
	require.NoError(t, err)
	require.EqualValues(t, 2, innerCount)
}

func TestChildExceedingContainerIsBadData(t *testing.T) {
	// The array header claims a 2-byte payload, but its first child is a
	// 3-byte string that runs past the container's end.
	raw := []byte{0xc2, 0x83, 'd', 'o', 'g'}

	it := rlp.Walk(raw).Iterate()
	require.False(t, it.NextChild())
	require.Error(t, it.Err)

	_, err := rlp.Walk(raw).GetArrayCount()
	require.Error(t, err)
}

func TestBufferOverrun(t *testing.T) {
	buf := make([]byte, 2)
	b := rlp.Build(buf)
	require.NoError(t, b.AppendString("a"))
	require.Error(t, b.AppendString("bbbb"))
}
