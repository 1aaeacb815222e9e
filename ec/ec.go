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

// Package ec wraps the secp256k1 operations the rest of the module
// needs. Signing and recovery go through the process-wide cgo context
// from github.com/erigontech/secp256k1; public-key computation and the
// scalar/point arithmetic needed for BIP-32 child derivation go through
// the pure-Go btcec curve, since none of it signs and so none of it
// needs the cgo context.
package ec

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/erigontech/secp256k1"

	"github.com/erigontech/ffx-embedded/dataerr"
)

const (
	PrivateKeyLen         = 32
	UncompressedPubKeyLen = 65
	CompressedPubKeyLen   = 33
	SignatureLen          = 65 // r || s || v
)

// Signature is a recoverable ECDSA signature in its component form.
type Signature struct {
	R       [32]byte
	S       [32]byte
	YParity byte // 0 or 1
}

// Bytes serializes the signature in the 65-byte compact form r || s || v
// produced by Sign.
func (s Signature) Bytes() [SignatureLen]byte {
	var out [SignatureLen]byte
	copy(out[:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.YParity
	return out
}

// ParseSignature splits a 65-byte compact signature into its r, s and
// yParity components.
func ParseSignature(sig []byte) (Signature, error) {
	if len(sig) != SignatureLen {
		return Signature{}, dataerr.Wrap("ec.ParseSignature", dataerr.BadData, nil)
	}
	if sig[64] > 1 {
		return Signature{}, dataerr.Wrap("ec.ParseSignature", dataerr.BadData, nil)
	}
	var out Signature
	copy(out.R[:], sig[:32])
	copy(out.S[:], sig[32:64])
	out.YParity = sig[64]
	return out, nil
}

// Sign produces a recoverable ECDSA signature over hash (expected to
// already be a 32-byte digest) using privkey. Callers must not call this
// concurrently from goroutines that share the same underlying secp256k1
// context buffers.
func Sign(hash, privkey []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, dataerr.Wrap("ec.Sign", dataerr.BadData, nil)
	}
	if len(privkey) != PrivateKeyLen {
		return nil, dataerr.Wrap("ec.Sign", dataerr.BadData, nil)
	}
	sig, err := secp256k1.Sign(hash, privkey)
	if err != nil {
		return nil, dataerr.Wrap("ec.Sign", dataerr.InvalidOperation, err)
	}
	return sig, nil
}

// RecoverPubkey recovers the 65-byte uncompressed public key that
// produced sig over hash.
func RecoverPubkey(hash, sig []byte) ([]byte, error) {
	if len(hash) != 32 || len(sig) != SignatureLen {
		return nil, dataerr.Wrap("ec.RecoverPubkey", dataerr.BadData, nil)
	}
	pub, err := secp256k1.RecoverPubkeyWithContext(secp256k1.DefaultContext, hash, sig, nil)
	if err != nil {
		return nil, dataerr.Wrap("ec.RecoverPubkey", dataerr.InvalidOperation, err)
	}
	return pub, nil
}

// PublicFromPrivate derives the 65-byte uncompressed public key for a
// 32-byte private key scalar, using the pure-Go btcec curve (no signing
// involved, so the cgo context isn't needed).
func PublicFromPrivate(privkey []byte) ([]byte, error) {
	if len(privkey) != PrivateKeyLen {
		return nil, dataerr.Wrap("ec.PublicFromPrivate", dataerr.BadData, nil)
	}
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(privkey); overflow {
		return nil, dataerr.Wrap("ec.PublicFromPrivate", dataerr.Overflow, nil)
	}
	if scalar.IsZero() {
		return nil, dataerr.Wrap("ec.PublicFromPrivate", dataerr.InvalidOperation, nil)
	}
	_, pub := btcec.PrivKeyFromBytes(privkey)
	return pub.SerializeUncompressed(), nil
}

// CompressPubkey converts a 65-byte uncompressed public key to its
// 33-byte compressed form.
func CompressPubkey(pubkey []byte) ([]byte, error) {
	if len(pubkey) != UncompressedPubKeyLen {
		return nil, dataerr.Wrap("ec.CompressPubkey", dataerr.BadData, nil)
	}
	pub, err := btcec.ParsePubKey(pubkey)
	if err != nil {
		return nil, dataerr.Wrap("ec.CompressPubkey", dataerr.BadData, err)
	}
	return pub.SerializeCompressed(), nil
}

// DecompressPubkey converts a 33-byte compressed public key to its
// 65-byte uncompressed form.
func DecompressPubkey(pubkey []byte) ([]byte, error) {
	if len(pubkey) != CompressedPubKeyLen {
		return nil, dataerr.Wrap("ec.DecompressPubkey", dataerr.BadData, nil)
	}
	pub, err := btcec.ParsePubKey(pubkey)
	if err != nil {
		return nil, dataerr.Wrap("ec.DecompressPubkey", dataerr.BadData, err)
	}
	return pub.SerializeUncompressed(), nil
}

// AddScalars computes (a + b) mod n, the curve order, as used by BIP-32's
// CKDpriv: child key = (parse256(IL) + parent key) mod n.
func AddScalars(a, b []byte) ([]byte, error) {
	if len(a) != PrivateKeyLen || len(b) != PrivateKeyLen {
		return nil, dataerr.Wrap("ec.AddScalars", dataerr.BadData, nil)
	}
	var sa, sb btcec.ModNScalar
	if overflow := sa.SetByteSlice(a); overflow {
		return nil, dataerr.Wrap("ec.AddScalars", dataerr.Overflow, nil)
	}
	if overflow := sb.SetByteSlice(b); overflow {
		return nil, dataerr.Wrap("ec.AddScalars", dataerr.Overflow, nil)
	}
	sum := sa.Add(&sb)
	if sum.IsZero() {
		return nil, dataerr.Wrap("ec.AddScalars", dataerr.InvalidOperation, nil)
	}
	out := sum.Bytes()
	return out[:], nil
}

// MulScalars computes (a * b) mod n, the curve order.
func MulScalars(a, b []byte) ([]byte, error) {
	if len(a) != PrivateKeyLen || len(b) != PrivateKeyLen {
		return nil, dataerr.Wrap("ec.MulScalars", dataerr.BadData, nil)
	}
	var sa, sb btcec.ModNScalar
	if overflow := sa.SetByteSlice(a); overflow {
		return nil, dataerr.Wrap("ec.MulScalars", dataerr.Overflow, nil)
	}
	if overflow := sb.SetByteSlice(b); overflow {
		return nil, dataerr.Wrap("ec.MulScalars", dataerr.Overflow, nil)
	}
	product := sa.Mul(&sb)
	out := product.Bytes()
	return out[:], nil
}

// AddPoint computes parentPubkey + IL*G (uncompressed, 65 bytes each),
// used by BIP-32's CKDpub for neutered (watch-only) derivation.
func AddPoint(parentPubkey, il []byte) ([]byte, error) {
	if len(parentPubkey) != UncompressedPubKeyLen || len(il) != PrivateKeyLen {
		return nil, dataerr.Wrap("ec.AddPoint", dataerr.BadData, nil)
	}
	parent, err := btcec.ParsePubKey(parentPubkey)
	if err != nil {
		return nil, dataerr.Wrap("ec.AddPoint", dataerr.BadData, err)
	}
	sum, err := addPoint(parent, il)
	if err != nil {
		return nil, err
	}
	return sum.SerializeUncompressed(), nil
}

// AddPointCompressed is AddPoint taking and returning the 33-byte
// compressed point representation, used when the neutered BIP-32 node
// only ever stores a compressed parent public key.
func AddPointCompressed(parentPubkey, il []byte) ([]byte, error) {
	if len(parentPubkey) != CompressedPubKeyLen || len(il) != PrivateKeyLen {
		return nil, dataerr.Wrap("ec.AddPointCompressed", dataerr.BadData, nil)
	}
	parent, err := btcec.ParsePubKey(parentPubkey)
	if err != nil {
		return nil, dataerr.Wrap("ec.AddPointCompressed", dataerr.BadData, err)
	}
	sum, err := addPoint(parent, il)
	if err != nil {
		return nil, err
	}
	return sum.SerializeCompressed(), nil
}

func addPoint(parent *btcec.PublicKey, il []byte) (*btcec.PublicKey, error) {
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(il); overflow {
		return nil, dataerr.Wrap("ec.addPoint", dataerr.Overflow, nil)
	}
	var ilPoint, parentPoint, sum btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&scalar, &ilPoint)
	parent.AsJacobian(&parentPoint)
	btcec.AddNonConst(&ilPoint, &parentPoint, &sum)
	sum.ToAffine()
	return btcec.NewPublicKey(&sum.X, &sum.Y), nil
}
