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

package ec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/ffx-embedded/ec"
)

func testKey(fill byte) []byte {
	key := make([]byte, ec.PrivateKeyLen)
	for i := range key {
		key[i] = fill
	}
	key[31] = fill + 1
	return key
}

func TestSignatureRoundtrip(t *testing.T) {
	var sig ec.Signature
	for i := range sig.R {
		sig.R[i] = byte(i)
		sig.S[i] = byte(64 - i)
	}
	sig.YParity = 1

	raw := sig.Bytes()
	parsed, err := ec.ParseSignature(raw[:])
	require.NoError(t, err)
	require.Equal(t, sig, parsed)
}

func TestParseSignatureRejectsBadParity(t *testing.T) {
	raw := make([]byte, ec.SignatureLen)
	raw[64] = 2
	_, err := ec.ParseSignature(raw)
	require.Error(t, err)
}

func TestCompressDecompressRoundtrip(t *testing.T) {
	pub, err := ec.PublicFromPrivate(testKey(0x11))
	require.NoError(t, err)
	require.Len(t, pub, ec.UncompressedPubKeyLen)

	compressed, err := ec.CompressPubkey(pub)
	require.NoError(t, err)
	require.Len(t, compressed, ec.CompressedPubKeyLen)

	uncompressed, err := ec.DecompressPubkey(compressed)
	require.NoError(t, err)
	require.Equal(t, pub, uncompressed)
}

func TestAddScalarsCommutes(t *testing.T) {
	a := testKey(0x22)
	b := testKey(0x33)

	ab, err := ec.AddScalars(a, b)
	require.NoError(t, err)
	ba, err := ec.AddScalars(b, a)
	require.NoError(t, err)
	require.True(t, bytes.Equal(ab, ba))
}

func TestAddPointMatchesScalarSum(t *testing.T) {
	// point(a) + b*G == point((a + b) mod n)
	a := testKey(0x44)
	b := testKey(0x55)

	pubA, err := ec.PublicFromPrivate(a)
	require.NoError(t, err)

	sumPoint, err := ec.AddPoint(pubA, b)
	require.NoError(t, err)

	sumScalar, err := ec.AddScalars(a, b)
	require.NoError(t, err)
	pubSum, err := ec.PublicFromPrivate(sumScalar)
	require.NoError(t, err)

	require.Equal(t, pubSum, sumPoint)
}
