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

// Package address implements EIP-55 checksummed Ethereum addresses:
// deriving the 20-byte address from an uncompressed public key, and
// rendering/parsing its "0x" + 40-hex-nibble checksummed text form.
package address

import (
	"strings"

	"github.com/erigontech/ffx-embedded/dataerr"
	"github.com/erigontech/ffx-embedded/hash"
)

// Length is the byte length of an Ethereum address.
const Length = 20

const hexNibbles = "0123456789abcdef"

// FromPubkey computes the 20-byte address from a 65-byte uncompressed
// public key: the low 20 bytes of Keccak-256 of the 64-byte X||Y point
// (the leading 0x04 prefix byte is excluded from the hash).
func FromPubkey(pubkey []byte) ([Length]byte, error) {
	var out [Length]byte
	if len(pubkey) != 65 {
		return out, dataerr.Wrap("address.FromPubkey", dataerr.BadData, nil)
	}
	digest := hash.Keccak256(pubkey[1:])
	copy(out[:], digest[12:])
	return out, nil
}

// Checksum renders address in its EIP-55 checksummed "0x..." text form:
// lowercase hex, with each alpha nibble uppercased if the corresponding
// nibble of Keccak-256(lowercase hex) is >= 8.
func Checksum(addr [Length]byte) string {
	hexChars := make([]byte, 2*Length)
	for i, b := range addr {
		hexChars[2*i] = hexNibbles[b>>4]
		hexChars[2*i+1] = hexNibbles[b&0xf]
	}

	digest := hash.Keccak256(hexChars)
	for i := 0; i < 2*Length; i++ {
		c := hexChars[i]
		if c < 'a' {
			continue
		}
		nibble := digest[i/2] >> 4
		if i%2 == 1 {
			nibble = digest[i/2] & 0xf
		}
		if nibble >= 8 {
			hexChars[i] = c - 0x20
		}
	}

	return "0x" + string(hexChars)
}

// Parse validates and decodes a "0x" + 40-hex-nibble address string.
// Checksum casing, if present, is not verified here; use VerifyChecksum
// for that.
func Parse(s string) ([Length]byte, error) {
	var out [Length]byte
	if !strings.HasPrefix(s, "0x") || len(s) != 2+2*Length {
		return out, dataerr.Wrap("address.Parse", dataerr.BadData, nil)
	}
	for i := 0; i < Length; i++ {
		hi, ok1 := hexVal(s[2+2*i])
		lo, ok2 := hexVal(s[3+2*i])
		if !ok1 || !ok2 {
			return out, dataerr.Wrap("address.Parse", dataerr.BadData, nil)
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// VerifyChecksum reports whether s is a validly EIP-55 checksummed
// rendering of its address (case-insensitive all-lower/all-upper
// addresses are accepted as unchecksummed and also pass).
func VerifyChecksum(s string) bool {
	addr, err := Parse(s)
	if err != nil {
		return false
	}
	checksummed := Checksum(addr)
	return s == checksummed || s == strings.ToLower(checksummed) ||
		s == "0x"+strings.ToUpper(checksummed[2:])
}
