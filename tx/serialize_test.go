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

package tx_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/ffx-embedded/cbor"
	"github.com/erigontech/ffx-embedded/dataerr"
	"github.com/erigontech/ffx-embedded/rlp"
	"github.com/erigontech/ffx-embedded/tx"
)

func TestSerializeUnsignedMinimal(t *testing.T) {
	buf := make([]byte, 64)
	b := cbor.Build(buf)
	require.NoError(t, b.AppendMap(2))
	require.NoError(t, b.AppendString("type"))
	require.NoError(t, b.AppendData([]byte{2}))
	require.NoError(t, b.AppendString("chainId"))
	require.NoError(t, b.AppendData([]byte{1}))

	out := make([]byte, 64)
	n, err := tx.SerializeUnsigned(cbor.Walk(b.Bytes()), out)
	require.NoError(t, err)

	// Every field but chainId is absent (nonce, fees, gas limit, to,
	// value, data all come back as zero-length data), and the access
	// list defaults to empty: [1, "", "", "", "", "", "", "", []].
	want := []byte{0x02, 0xc9, 0x01, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0xc0}
	require.Equal(t, want, out[:n])
}

func TestSerializeUnsignedWithAccessList(t *testing.T) {
	addr := bytes.Repeat([]byte{0xaa}, 20)
	slot := bytes.Repeat([]byte{0xbb}, 32)

	buf := make([]byte, 256)
	b := cbor.Build(buf)
	require.NoError(t, b.AppendMap(3))
	require.NoError(t, b.AppendString("type"))
	require.NoError(t, b.AppendData([]byte{2}))
	require.NoError(t, b.AppendString("chainId"))
	require.NoError(t, b.AppendData([]byte{1}))
	require.NoError(t, b.AppendString("accessList"))
	require.NoError(t, b.AppendArray(1))
	require.NoError(t, b.AppendArray(2))
	require.NoError(t, b.AppendData(addr))
	require.NoError(t, b.AppendArray(1))
	require.NoError(t, b.AppendData(slot))

	out := make([]byte, 256)
	n, err := tx.SerializeUnsigned(cbor.Walk(b.Bytes()), out)
	require.NoError(t, err)
	require.Equal(t, uint8(tx.Type2), out[0])

	body := rlp.Walk(out[1:n])
	count, err := body.GetArrayCount()
	require.NoError(t, err)
	require.Equal(t, uint64(9), count)

	accessList := body.FollowIndex(8)
	entryCount, err := accessList.GetArrayCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), entryCount)

	entry := accessList.FollowIndex(0)
	gotAddr, err := entry.FollowIndex(0).GetData()
	require.NoError(t, err)
	require.Equal(t, addr, gotAddr)

	slots := entry.FollowIndex(1)
	slotCount, err := slots.GetArrayCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), slotCount)
	gotSlot, err := slots.FollowIndex(0).GetData()
	require.NoError(t, err)
	require.Equal(t, slot, gotSlot)
}

func TestSerializeUnsignedFullFields(t *testing.T) {
	to := bytes.Repeat([]byte{0x35}, 20)
	fields := []struct {
		key  string
		data []byte
	}{
		{"type", []byte{2}},
		{"chainId", []byte{1}},
		{"nonce", []byte{9}},
		{"maxPriorityFeePerGas", []byte{0x3b, 0x9a, 0xca, 0x00}}, // 1 gwei
		{"maxFeePerGas", []byte{0x04, 0xa8, 0x17, 0xc8, 0x00}},   // 20 gwei
		{"gasLimit", []byte{0x52, 0x08}},                         // 21000
		{"to", to},
		{"value", []byte{0x0d, 0xe0, 0xb6, 0xb3, 0xa7, 0x64, 0x00, 0x00}}, // 1 ether
		{"data", nil},
	}

	buf := make([]byte, 256)
	b := cbor.Build(buf)
	require.NoError(t, b.AppendMap(uint64(len(fields)+1)))
	for _, f := range fields {
		require.NoError(t, b.AppendString(f.key))
		require.NoError(t, b.AppendData(f.data))
	}
	require.NoError(t, b.AppendString("accessList"))
	require.NoError(t, b.AppendArray(0))

	out := make([]byte, 256)
	n, err := tx.SerializeUnsigned(cbor.Walk(b.Bytes()), out)
	require.NoError(t, err)

	want, err := hex.DecodeString("02f00109843b9aca008504a817c800825208943535353535353535353535353535353535353535880de0b6b3a764000080c0")
	require.NoError(t, err)
	require.Equal(t, want, out[:n])

	// Re-parsing the serialized form yields the original field values.
	chainID, err := tx.GetChainID(out[:n])
	require.NoError(t, err)
	require.Equal(t, []byte{1}, chainID)
	gotTo, err := tx.GetAddress(out[:n])
	require.NoError(t, err)
	require.Equal(t, to, gotTo)
	value, err := tx.GetValue(out[:n])
	require.NoError(t, err)
	require.Equal(t, []byte{0x0d, 0xe0, 0xb6, 0xb3, 0xa7, 0x64, 0x00, 0x00}, value)
	require.False(t, tx.IsSigned(out[:n]))
}

func TestSerializeUnsignedRejectsNonType2(t *testing.T) {
	buf := make([]byte, 64)
	b := cbor.Build(buf)
	require.NoError(t, b.AppendMap(1))
	require.NoError(t, b.AppendString("type"))
	require.NoError(t, b.AppendData([]byte{1}))

	out := make([]byte, 64)
	_, err := tx.SerializeUnsigned(cbor.Walk(b.Bytes()), out)
	require.True(t, dataerr.Is(err, dataerr.UnsupportedFeature))
}

func TestSerializeUnsignedRejectsOversizedNumber(t *testing.T) {
	buf := make([]byte, 64)
	b := cbor.Build(buf)
	require.NoError(t, b.AppendMap(2))
	require.NoError(t, b.AppendString("type"))
	require.NoError(t, b.AppendData([]byte{2}))
	require.NoError(t, b.AppendString("chainId"))
	require.NoError(t, b.AppendData(bytes.Repeat([]byte{1}, 33)))

	out := make([]byte, 64)
	_, err := tx.SerializeUnsigned(cbor.Walk(b.Bytes()), out)
	require.True(t, dataerr.Is(err, dataerr.Overflow))
}
