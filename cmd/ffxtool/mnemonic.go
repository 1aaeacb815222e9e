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
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erigontech/ffx-embedded/bip39"
)

var (
	mnemonicWords    int
	mnemonicPassword string
)

func init() {
	mnemonicNewCmd.Flags().IntVar(&mnemonicWords, "words", 12, "word count: 12, 15, 18, 21 or 24")
	mnemonicCmd.AddCommand(mnemonicNewCmd)

	mnemonicSeedCmd.Flags().StringVar(&mnemonicPassword, "password", "", "BIP-39 passphrase (must be ASCII)")
	mnemonicCmd.AddCommand(mnemonicSeedCmd)

	rootCmd.AddCommand(mnemonicCmd)
}

var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Generate and inspect BIP-39 mnemonics",
}

func entropyLenForWords(words int) (int, error) {
	switch words {
	case 12:
		return 16, nil
	case 15:
		return 20, nil
	case 18:
		return 24, nil
	case 21:
		return 28, nil
	case 24:
		return 32, nil
	default:
		return 0, fmt.Errorf("unsupported word count %d", words)
	}
}

var mnemonicNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a fresh mnemonic from random entropy",
	RunE: func(cmd *cobra.Command, args []string) error {
		entropyLen, err := entropyLenForWords(mnemonicWords)
		if err != nil {
			return err
		}

		entropy := make([]byte, entropyLen)
		if _, err := rand.Read(entropy); err != nil {
			return fmt.Errorf("reading entropy: %w", err)
		}

		m, err := bip39.InitEntropy(entropy)
		if err != nil {
			return err
		}
		log.WithField("words", m.WordCount).Debug("generated mnemonic")
		fmt.Println(m.Phrase())
		return nil
	},
}

var mnemonicSeedCmd = &cobra.Command{
	Use:   "seed <phrase>",
	Short: "Derive the 64-byte BIP-39 seed for a mnemonic phrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bip39.InitPhrase(args[0])
		if err != nil {
			return err
		}
		seed, err := m.Seed(mnemonicPassword)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(seed[:]))
		return nil
	},
}
