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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erigontech/ffx-embedded/address"
	"github.com/erigontech/ffx-embedded/bip32"
	"github.com/erigontech/ffx-embedded/bip39"
	"github.com/erigontech/ffx-embedded/ec"
)

var (
	addressAccount  uint32
	addressPassword string
	addressIndexed  bool
	addressPath     string
)

func init() {
	addressDeriveCmd.Flags().Uint32Var(&addressAccount, "account", 0, "account index")
	addressDeriveCmd.Flags().StringVar(&addressPassword, "password", "", "BIP-39 passphrase (must be ASCII)")
	addressDeriveCmd.Flags().BoolVar(&addressIndexed, "indexed", false, "use the MetaMask-style m/44'/60'/0'/0/N convention instead of Ledger's m/44'/60'/N'/0/0")
	addressDeriveCmd.Flags().StringVar(&addressPath, "path", "", "explicit derivation path, overrides --account/--indexed")
	addressCmd.AddCommand(addressDeriveCmd)
	rootCmd.AddCommand(addressCmd)
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Derive Ethereum addresses from a mnemonic",
}

var addressDeriveCmd = &cobra.Command{
	Use:   "derive <phrase>",
	Short: "Derive the checksummed address for an account of a mnemonic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bip39.InitPhrase(args[0])
		if err != nil {
			return err
		}
		seed, err := m.Seed(addressPassword)
		if err != nil {
			return err
		}
		master, err := bip32.InitSeed(seed[:])
		if err != nil {
			return err
		}

		var account bip32.Node
		switch {
		case addressPath != "":
			account, err = master.DerivePath(addressPath)
		case addressIndexed:
			account, err = master.DeriveIndexedAccount(addressAccount)
		default:
			account, err = master.DeriveAccount(addressAccount)
		}
		if err != nil {
			return err
		}

		priv, err := account.Privkey()
		if err != nil {
			return err
		}
		pub, err := ec.PublicFromPrivate(priv[:])
		if err != nil {
			return err
		}
		addr, err := address.FromPubkey(pub)
		if err != nil {
			return err
		}

		log.WithField("account", addressAccount).Debug("derived address")
		fmt.Println(address.Checksum(addr))
		return nil
	},
}
