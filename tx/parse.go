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

package tx

import (
	"github.com/erigontech/ffx-embedded/dataerr"
	"github.com/erigontech/ffx-embedded/rlp"
)

// field indices within the 9-field unsigned (and 12-field signed) RLP
// envelope body.
const (
	fieldChainID = 0
	fieldTo      = 5
	fieldValue   = 6
	fieldData    = 7
)

// Type returns the EIP-2718 envelope type byte of tx, or 0 if tx is
// empty or not a type-2 transaction (the only type this package can
// otherwise interpret).
func Type(tx []byte) uint8 {
	if len(tx) == 0 || tx[0] != Type2 {
		return 0
	}
	return tx[0]
}

func body(tx []byte) (rlp.Cursor, error) {
	if Type(tx) != Type2 {
		return rlp.Cursor{}, dataerr.Wrap("tx.body", dataerr.UnsupportedFeature, nil)
	}
	if len(tx) == 1 {
		return rlp.Cursor{}, dataerr.Wrap("tx.body", dataerr.BadData, nil)
	}
	return rlp.Walk(tx[1:]), nil
}

func readField(tx []byte, format fieldFormat, index uint64) ([]byte, error) {
	cursor, err := body(tx)
	if err != nil {
		return nil, err
	}

	count, err := cursor.GetArrayCount()
	if err != nil {
		return nil, dataerr.Wrap("tx.readField", errKind(err), err)
	}
	if count != 9 && count != 12 {
		return nil, dataerr.Wrap("tx.readField", dataerr.BadData, nil)
	}

	field := cursor.FollowIndex(index)
	if field.Err != nil {
		return nil, dataerr.Wrap("tx.readField", errKind(field.Err), field.Err)
	}
	data, err := field.GetData()
	if err != nil {
		return nil, dataerr.Wrap("tx.readField", errKind(err), err)
	}

	switch format {
	case formatAddress:
		if len(data) != 20 {
			return nil, dataerr.Wrap("tx.readField", dataerr.BadData, nil)
		}
	case formatNullableAddress:
		if len(data) != 0 && len(data) != 20 {
			return nil, dataerr.Wrap("tx.readField", dataerr.BadData, nil)
		}
	case formatNumber:
		if len(data) > 32 {
			return nil, dataerr.Wrap("tx.readField", dataerr.BadData, nil)
		}
	}
	return data, nil
}

// GetChainID returns the raw (big-endian, minimally encoded) chainId field.
func GetChainID(tx []byte) ([]byte, error) {
	return readField(tx, formatNumber, fieldChainID)
}

// GetAddress returns the raw "to" field: empty for contract creation,
// otherwise 20 bytes.
func GetAddress(tx []byte) ([]byte, error) {
	return readField(tx, formatNullableAddress, fieldTo)
}

// GetValue returns the raw (minimally encoded) value field.
func GetValue(tx []byte) ([]byte, error) {
	return readField(tx, formatNumber, fieldValue)
}

// GetData returns the raw calldata field.
func GetData(tx []byte) ([]byte, error) {
	return readField(tx, formatData, fieldData)
}

// IsSigned reports whether tx's RLP body carries the 12-field signed
// form (yParity, r, s appended) rather than the 9-field unsigned form.
func IsSigned(tx []byte) bool {
	cursor, err := body(tx)
	if err != nil {
		return false
	}
	count, err := cursor.GetArrayCount()
	if err != nil {
		return false
	}
	return count == 12
}
