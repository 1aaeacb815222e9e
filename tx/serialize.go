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

// Package tx translates a CBOR-described transaction into a canonical
// EIP-1559 (type 2) RLP payload, and parses the fields back out of a
// serialized transaction. Only type 2 is supported; everything else is
// UnsupportedFeature.
package tx

import (
	"github.com/erigontech/ffx-embedded/cbor"
	"github.com/erigontech/ffx-embedded/dataerr"
	"github.com/erigontech/ffx-embedded/rlp"
)

// Type2 is the EIP-2718 envelope byte for an EIP-1559 transaction.
const Type2 = 0x02

type fieldFormat int

const (
	formatData fieldFormat = iota
	formatNumber
	formatAddress
	formatNullableAddress
)

// unsignedFieldKeys lists the first eight CBOR keys consumed by
// serialize1559, in RLP field order; the ninth field, "accessList", is
// appended by appendAccessList.
var unsignedFieldKeys = []struct {
	key    string
	format fieldFormat
}{
	{"chainId", formatNumber},
	{"nonce", formatNumber},
	{"maxPriorityFeePerGas", formatNumber},
	{"maxFeePerGas", formatNumber},
	{"gasLimit", formatNumber},
	{"to", formatNullableAddress},
	{"value", formatNumber},
	{"data", formatData},
}

func appendField(b *rlp.Builder, format fieldFormat, tx cbor.Cursor, key string) error {
	value := tx.FollowKey(key)
	if dataerr.Is(value.Err, dataerr.NotFound) {
		return b.AppendData(nil)
	}
	if value.Err != nil {
		return dataerr.Wrap("tx.appendField", errKind(value.Err), value.Err)
	}
	if !value.CheckType(cbor.TypeData) {
		return dataerr.Wrap("tx.appendField", dataerr.BadData, nil)
	}

	data, err := value.GetData()
	if err != nil {
		return dataerr.Wrap("tx.appendField", dataerr.BadData, err)
	}

	switch format {
	case formatNumber:
		for len(data) > 0 && data[0] == 0 {
			data = data[1:]
		}
		if len(data) > 32 {
			return dataerr.Wrap("tx.appendField", dataerr.Overflow, nil)
		}
	case formatAddress:
		if len(data) != 20 {
			return dataerr.Wrap("tx.appendField", dataerr.BadData, nil)
		}
	case formatNullableAddress:
		if len(data) != 0 && len(data) != 20 {
			return dataerr.Wrap("tx.appendField", dataerr.BadData, nil)
		}
	}

	return b.AppendData(data)
}

func appendAccessList(b *rlp.Builder, tx cbor.Cursor) error {
	accessList := tx.FollowKey("accessList")
	if dataerr.Is(accessList.Err, dataerr.NotFound) {
		return b.AppendArray(0)
	}
	if accessList.Err != nil {
		return dataerr.Wrap("tx.appendAccessList", errKind(accessList.Err), accessList.Err)
	}
	if !accessList.CheckType(cbor.TypeArray) {
		return dataerr.Wrap("tx.appendAccessList", dataerr.BadData, nil)
	}

	listTag, err := b.AppendMutableArray()
	if err != nil {
		return err
	}

	var entryCount int
	it := accessList.Iterate()
	for it.NextChild() {
		if !it.Child.CheckLength(cbor.TypeArray, 2) {
			return dataerr.Wrap("tx.appendAccessList", dataerr.BadData, nil)
		}
		if err := b.AppendArray(2); err != nil {
			return err
		}

		addrCursor := it.Child.FollowIndex(0)
		addr, err := addrCursor.GetData()
		if err != nil {
			return dataerr.Wrap("tx.appendAccessList", errKind(err), err)
		}
		if len(addr) != 20 {
			return dataerr.Wrap("tx.appendAccessList", dataerr.BadData, nil)
		}
		if err := b.AppendData(addr); err != nil {
			return err
		}

		slots := it.Child.FollowIndex(1)
		if !slots.CheckType(cbor.TypeArray) {
			return dataerr.Wrap("tx.appendAccessList", dataerr.BadData, nil)
		}

		slotTag, err := b.AppendMutableArray()
		if err != nil {
			return err
		}
		var slotCount int
		slotIt := slots.Iterate()
		for slotIt.NextChild() {
			slot, err := slotIt.Child.GetData()
			if err != nil {
				return dataerr.Wrap("tx.appendAccessList", errKind(err), err)
			}
			if len(slot) != 32 {
				return dataerr.Wrap("tx.appendAccessList", dataerr.BadData, nil)
			}
			if err := b.AppendData(slot); err != nil {
				return err
			}
			slotCount++
			if err := b.AdjustCount(slotTag, slotCount); err != nil {
				return err
			}
		}
		if slotIt.Err != nil {
			return dataerr.Wrap("tx.appendAccessList", errKind(slotIt.Err), slotIt.Err)
		}

		entryCount++
		if err := b.AdjustCount(listTag, entryCount); err != nil {
			return err
		}
	}
	if it.Err != nil {
		return dataerr.Wrap("tx.appendAccessList", errKind(it.Err), it.Err)
	}

	return nil
}

func serialize1559(tx cbor.Cursor, b *rlp.Builder) error {
	if err := b.AppendArray(9); err != nil {
		return err
	}
	for _, f := range unsignedFieldKeys {
		if err := appendField(b, f.format, tx, f.key); err != nil {
			return err
		}
	}
	return appendAccessList(b, tx)
}

func readType(tx cbor.Cursor) (uint64, error) {
	typeCursor := tx.FollowKey("type")
	if typeCursor.Err != nil {
		return 0, dataerr.Wrap("tx.readType", errKind(typeCursor.Err), typeCursor.Err)
	}
	if !typeCursor.CheckType(cbor.TypeData) {
		return 0, dataerr.Wrap("tx.readType", dataerr.BadData, nil)
	}
	data, err := typeCursor.GetData()
	if err != nil {
		return 0, dataerr.Wrap("tx.readType", dataerr.BadData, err)
	}
	if len(data) > 8 {
		return 0, dataerr.Wrap("tx.readType", dataerr.Overflow, nil)
	}
	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// SerializeUnsigned consumes a CBOR-described transaction (recognized
// keys: "type", the keys in unsignedFieldKeys, and "accessList") and writes the EIP-2718 envelope byte
// followed by the canonical RLP payload into out, returning the total
// length written.
func SerializeUnsigned(tx cbor.Cursor, out []byte) (int, error) {
	typ, err := readType(tx)
	if err != nil {
		return 0, err
	}
	if typ != 2 {
		return 0, dataerr.Wrap("tx.SerializeUnsigned", dataerr.UnsupportedFeature, nil)
	}
	if len(out) < 1 {
		return 0, dataerr.Wrap("tx.SerializeUnsigned", dataerr.BufferOverrun, nil)
	}
	out[0] = Type2

	b := rlp.Build(out[1:])
	if err := serialize1559(tx, &b); err != nil {
		return 0, err
	}
	n, err := b.Finalize()
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

func errKind(err error) dataerr.Kind {
	if k, ok := err.(dataerr.Kind); ok {
		return k
	}
	return dataerr.BadData
}
