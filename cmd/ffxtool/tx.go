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
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erigontech/ffx-embedded/cbor"
	"github.com/erigontech/ffx-embedded/tx"
)

func init() {
	txCmd.AddCommand(txSerializeCmd)
	txCmd.AddCommand(txInspectCmd)
	rootCmd.AddCommand(txCmd)
}

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Serialize and inspect EIP-1559 transactions",
}

var txSerializeCmd = &cobra.Command{
	Use:   "serialize <cbor-file>",
	Short: "Serialize a CBOR-described transaction to its canonical RLP envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		out := make([]byte, len(raw)*2+64)
		n, err := tx.SerializeUnsigned(cbor.Walk(raw), out)
		if err != nil {
			return fmt.Errorf("serializing transaction: %w", err)
		}

		log.WithField("bytes", n).Debug("serialized transaction")
		fmt.Println(hex.EncodeToString(out[:n]))
		return nil
	},
}

var txInspectCmd = &cobra.Command{
	Use:   "inspect <hex-tx>",
	Short: "Print the chainId, to, value and data fields of a serialized transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("decoding transaction hex: %w", err)
		}

		chainID, err := tx.GetChainID(raw)
		if err != nil {
			return err
		}
		to, err := tx.GetAddress(raw)
		if err != nil {
			return err
		}
		value, err := tx.GetValue(raw)
		if err != nil {
			return err
		}
		data, err := tx.GetData(raw)
		if err != nil {
			return err
		}

		fmt.Printf("type:    %#x\n", tx.Type(raw))
		fmt.Printf("signed:  %v\n", tx.IsSigned(raw))
		fmt.Printf("chainId: %s\n", hex.EncodeToString(chainID))
		if len(to) == 0 {
			fmt.Println("to:      (contract creation)")
		} else {
			fmt.Printf("to:      0x%s\n", hex.EncodeToString(to))
		}
		fmt.Printf("value:   %s\n", hex.EncodeToString(value))
		fmt.Printf("data:    %s\n", hex.EncodeToString(data))
		return nil
	},
}
