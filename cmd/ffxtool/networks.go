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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/erigontech/ffx-embedded/db"
)

func init() {
	networksCmd.AddCommand(networksListCmd)
	networksCmd.AddCommand(networksLookupCmd)
	rootCmd.AddCommand(networksCmd)
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List and look up known chain IDs",
}

var networksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known network",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, n := range db.All() {
			fmt.Printf("%-10d %-10s %s\n", n.ChainID, n.Token, n.Name)
		}
		return nil
	},
}

var networksLookupCmd = &cobra.Command{
	Use:   "lookup <chainId>",
	Short: "Look up a single network by chain ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing chain ID: %w", err)
		}
		n, ok := db.Lookup(chainID)
		if !ok {
			return fmt.Errorf("unknown chain ID %d", chainID)
		}
		fmt.Printf("%-10d %-10s %s\n", n.ChainID, n.Token, n.Name)
		return nil
	},
}
