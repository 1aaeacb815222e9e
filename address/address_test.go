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

package address_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/ffx-embedded/address"
)

func TestChecksumVector(t *testing.T) {
	addr, err := address.Parse("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	require.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", address.Checksum(addr))
}

func TestChecksumRoundtripIdempotent(t *testing.T) {
	addr, err := address.Parse("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	checksummed := address.Checksum(addr)

	reparsed, err := address.Parse(checksummed)
	require.NoError(t, err)
	require.Equal(t, addr, reparsed)
	require.Equal(t, checksummed, address.Checksum(reparsed))
}

func TestVerifyChecksum(t *testing.T) {
	require.True(t, address.VerifyChecksum("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	require.True(t, address.VerifyChecksum("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	require.False(t, address.VerifyChecksum("0x5aAEB6053F3E94C9b9A09f33669435E7Ef1BeAed"))
}

func TestParseRejectsBadLength(t *testing.T) {
	_, err := address.Parse("0x5aaeb6")
	require.Error(t, err)
}

func TestParseRejectsMissingPrefix(t *testing.T) {
	_, err := address.Parse("5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.Error(t, err)
}
