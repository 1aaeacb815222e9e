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

package bip32_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/ffx-embedded/address"
	"github.com/erigontech/ffx-embedded/bip32"
	"github.com/erigontech/ffx-embedded/bip39"
	"github.com/erigontech/ffx-embedded/ec"
)

const zeroPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func defaultAccountAddress(t *testing.T) string {
	t.Helper()

	m, err := bip39.InitPhrase(zeroPhrase)
	require.NoError(t, err)
	seed, err := m.Seed("")
	require.NoError(t, err)

	master, err := bip32.InitSeed(seed[:])
	require.NoError(t, err)

	account, err := master.DerivePath("m/44'/60'/0'/0/0")
	require.NoError(t, err)

	priv, err := account.Privkey()
	require.NoError(t, err)
	pub, err := ec.PublicFromPrivate(priv[:])
	require.NoError(t, err)

	addr, err := address.FromPubkey(pub)
	require.NoError(t, err)

	return address.Checksum(addr)
}

func TestDefaultAccountAddressVector(t *testing.T) {
	require.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", defaultAccountAddress(t))
}

func TestDeriveAccountMatchesDerivePath(t *testing.T) {
	m, err := bip39.InitPhrase(zeroPhrase)
	require.NoError(t, err)
	seed, err := m.Seed("")
	require.NoError(t, err)
	master, err := bip32.InitSeed(seed[:])
	require.NoError(t, err)

	viaPath, err := master.DerivePath("m/44'/60'/0'/0/0")
	require.NoError(t, err)
	viaAccount, err := master.DeriveAccount(0)
	require.NoError(t, err)
	viaIndexed, err := master.DeriveIndexedAccount(0)
	require.NoError(t, err)

	pathPriv, err := viaPath.Privkey()
	require.NoError(t, err)
	accountPriv, err := viaAccount.Privkey()
	require.NoError(t, err)
	indexedPriv, err := viaIndexed.Privkey()
	require.NoError(t, err)

	require.Equal(t, pathPriv, accountPriv)
	require.Equal(t, pathPriv, indexedPriv)
}

func TestNeuteredMatchesPrimePubkeyForNonHardened(t *testing.T) {
	seed := make([]byte, bip39.SeedLength)
	for i := range seed {
		seed[i] = byte(i)
	}
	master, err := bip32.InitSeed(seed)
	require.NoError(t, err)

	neutered, err := master.Neuter()
	require.NoError(t, err)

	primeChild, err := master.DeriveChild(5)
	require.NoError(t, err)
	neuteredChild, err := neutered.DeriveChild(5)
	require.NoError(t, err)

	primePub, err := primeChild.Pubkey(true)
	require.NoError(t, err)
	neuteredPub, err := neuteredChild.Pubkey(true)
	require.NoError(t, err)

	require.Equal(t, primePub, neuteredPub)
}

func TestNeuteredRejectsHardenedChild(t *testing.T) {
	seed := make([]byte, bip39.SeedLength)
	master, err := bip32.InitSeed(seed)
	require.NoError(t, err)

	neutered, err := master.Neuter()
	require.NoError(t, err)

	_, err = neutered.DeriveChild(bip32.HardenedBit | 1)
	require.Error(t, err)
}

func TestDerivePathRejectsNonRootM(t *testing.T) {
	seed := make([]byte, bip39.SeedLength)
	master, err := bip32.InitSeed(seed)
	require.NoError(t, err)
	child, err := master.DeriveChild(0)
	require.NoError(t, err)

	_, err = child.DerivePath("m/0")
	require.Error(t, err)
}

func TestDerivePathRejectsTrailingTick(t *testing.T) {
	seed := make([]byte, bip39.SeedLength)
	master, err := bip32.InitSeed(seed)
	require.NoError(t, err)

	_, err = master.DerivePath("m/44''")
	require.Error(t, err)
}
