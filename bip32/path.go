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

package bip32

import "github.com/erigontech/ffx-embedded/dataerr"

// maxUnhardenedComponent is the largest partial component value to
// which DerivePath still appends another decimal digit; a component
// whose value reaches HardenedBit is rejected with Overflow.
const maxUnhardenedComponent = 214748364

// DerivePath walks n through each "/"-separated component of path. A
// leading "m" is accepted only on a root (depth 0) node; a path without
// it is applied relative to n. Decimal components may be followed by
// "'" to mark them hardened.
func (n Node) DerivePath(path string) (Node, error) {
	cur := n

	length := len(path) + 1
	var index uint32
	var count int
	for i := 0; i < length; i++ {
		var c byte
		if i < len(path) {
			c = path[i]
		}

		switch {
		case c == '/' || c == 0:
			if count == 0 {
				return Node{}, dataerr.Wrap("bip32.DerivePath", dataerr.BadData, nil)
			}
			child, err := cur.DeriveChild(index)
			if err != nil {
				return Node{}, err
			}
			cur = child
			count = 0
			index = 0

		case c >= '0' && c <= '9':
			if index > maxUnhardenedComponent {
				return Node{}, dataerr.Wrap("bip32.DerivePath", dataerr.Overflow, nil)
			}
			if index&HardenedBit != 0 {
				return Node{}, dataerr.Wrap("bip32.DerivePath", dataerr.BadData, nil)
			}
			count++
			index = index*10 + uint32(c-'0')
			if index&HardenedBit != 0 {
				return Node{}, dataerr.Wrap("bip32.DerivePath", dataerr.Overflow, nil)
			}

		case c == '\'':
			if index&HardenedBit != 0 {
				return Node{}, dataerr.Wrap("bip32.DerivePath", dataerr.BadData, nil)
			}
			index |= HardenedBit

		case c == 'm':
			if i != 0 || cur.Depth != 0 {
				return Node{}, dataerr.Wrap("bip32.DerivePath", dataerr.BadData, nil)
			}
			if length > 2 && path[1] != '/' {
				return Node{}, dataerr.Wrap("bip32.DerivePath", dataerr.BadData, nil)
			}
			i++

		default:
			return Node{}, dataerr.Wrap("bip32.DerivePath", dataerr.BadData, nil)
		}
	}

	return cur, nil
}

// DeriveAccount implements the Ledger Live legacy account convention,
// m/44'/60'/{account}'/0/0. The final two components are not hardened,
// matching the addresses Ledger devices actually produce.
func (n Node) DeriveAccount(account uint32) (Node, error) {
	if account&HardenedBit != 0 {
		return Node{}, dataerr.Wrap("bip32.DeriveAccount", dataerr.BadData, nil)
	}
	node, err := n.DerivePath("m/44'/60'")
	if err != nil {
		return Node{}, err
	}
	node, err = node.DeriveChild(HardenedBit | account)
	if err != nil {
		return Node{}, err
	}
	return node.DerivePath("0/0")
}

// DeriveIndexedAccount implements the MetaMask convention,
// m/44'/60'/0'/0/{account}.
func (n Node) DeriveIndexedAccount(account uint32) (Node, error) {
	if account&HardenedBit != 0 {
		return Node{}, dataerr.Wrap("bip32.DeriveIndexedAccount", dataerr.BadData, nil)
	}
	node, err := n.DerivePath("m/44'/60'/0'/0")
	if err != nil {
		return Node{}, err
	}
	return node.DeriveChild(account)
}
