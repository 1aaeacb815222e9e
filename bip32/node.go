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

// Package bip32 implements hierarchical-deterministic key derivation:
// master-node generation from a BIP-39 seed, hardened/non-hardened
// child derivation for both private ("prime") and neutered (public-only)
// nodes, path parsing, and the two Ethereum deriveAccount conventions.
package bip32

import (
	"encoding/binary"

	"github.com/erigontech/ffx-embedded/dataerr"
	"github.com/erigontech/ffx-embedded/ec"
	"github.com/erigontech/ffx-embedded/hash"
)

// HardenedBit marks a child index as hardened (requires the parent's
// private key to derive).
const HardenedBit = uint32(0x80000000)

// masterSecret is the HMAC key for master-node generation, "Bitcoin seed".
var masterSecret = []byte("Bitcoin seed")

// Node is a BIP-32 HD tree node. Prime nodes carry a 32-byte private
// key; neutered nodes carry only a 33-byte compressed public key and
// cannot derive hardened children.
type Node struct {
	privkey   [32]byte
	pubkey    [33]byte // compressed; valid when Neutered
	Chaincode [32]byte
	Depth     uint32
	Index     uint32
	Neutered  bool
}

// InitSeed derives the master node from a BIP-39 seed via
// HMAC-SHA512("Bitcoin seed", seed). The left 32 bytes become the
// master private key (rejected if not a valid secp256k1 scalar); the
// right 32 bytes become the chain code.
func InitSeed(seed []byte) (Node, error) {
	i := hash.HMACSHA512(masterSecret, seed)

	var n Node
	copy(n.privkey[:], i[:32])
	if _, err := ec.PublicFromPrivate(n.privkey[:]); err != nil {
		return Node{}, dataerr.Wrap("bip32.InitSeed", dataerr.BadData, err)
	}
	copy(n.Chaincode[:], i[32:])
	return n, nil
}

// compressedPubkey returns the node's 33-byte compressed public key,
// computing it from the private key for prime nodes.
func (n Node) compressedPubkey() ([33]byte, error) {
	if n.Neutered {
		return n.pubkey, nil
	}
	uncompressed, err := ec.PublicFromPrivate(n.privkey[:])
	if err != nil {
		return [33]byte{}, err
	}
	compressed, err := ec.CompressPubkey(uncompressed)
	if err != nil {
		return [33]byte{}, err
	}
	var out [33]byte
	copy(out[:], compressed)
	return out, nil
}

// DeriveChild derives child index from n using CKDpriv (prime nodes) or
// the neutered CKDpub (neutered nodes, non-hardened indices only).
func (n Node) DeriveChild(index uint32) (Node, error) {
	if n.Depth == 0xffffffff {
		return Node{}, dataerr.Wrap("bip32.DeriveChild", dataerr.Overflow, nil)
	}

	var data [37]byte
	if n.Neutered {
		if index&HardenedBit != 0 {
			return Node{}, dataerr.Wrap("bip32.DeriveChild", dataerr.InvalidOperation, nil)
		}
		pub, err := n.compressedPubkey()
		if err != nil {
			return Node{}, err
		}
		copy(data[:33], pub[:])
	} else if index&HardenedBit != 0 {
		copy(data[1:33], n.privkey[:])
	} else {
		pub, err := n.compressedPubkey()
		if err != nil {
			return Node{}, err
		}
		copy(data[:33], pub[:])
	}
	binary.BigEndian.PutUint32(data[33:], index)

	i := hash.HMACSHA512(n.Chaincode[:], data[:])
	il := i[:32]

	out := n
	out.Depth = n.Depth + 1
	out.Index = index

	if n.Neutered {
		sum, err := ec.AddPointCompressed(n.pubkey[:], il)
		if err != nil {
			return Node{}, dataerr.Wrap("bip32.DeriveChild", dataerr.BadData, err)
		}
		copy(out.pubkey[:], sum[:])
	} else {
		childKey, err := ec.AddScalars(il, n.privkey[:])
		if err != nil {
			return Node{}, dataerr.Wrap("bip32.DeriveChild", dataerr.BadData, err)
		}
		copy(out.privkey[:], childKey)
	}
	copy(out.Chaincode[:], i[32:])

	return out, nil
}

// Neuter returns a copy of n stripped of its private key, holding only
// the compressed public key.
func (n Node) Neuter() (Node, error) {
	if n.Neutered {
		return n, nil
	}
	pub, err := n.compressedPubkey()
	if err != nil {
		return Node{}, err
	}
	out := n
	out.privkey = [32]byte{}
	out.pubkey = pub
	out.Neutered = true
	return out, nil
}

// Privkey returns the 32-byte private key, or an error if n is neutered.
func (n Node) Privkey() ([32]byte, error) {
	if n.Neutered {
		return [32]byte{}, dataerr.Wrap("bip32.Privkey", dataerr.InvalidOperation, nil)
	}
	return n.privkey, nil
}

// Pubkey returns the public key, compressed (33 bytes) or uncompressed
// (65 bytes).
func (n Node) Pubkey(compressed bool) ([]byte, error) {
	if compressed {
		pub, err := n.compressedPubkey()
		if err != nil {
			return nil, err
		}
		return pub[:], nil
	}
	if n.Neutered {
		return ec.DecompressPubkey(n.pubkey[:])
	}
	return ec.PublicFromPrivate(n.privkey[:])
}
