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

// Package db holds the static chain-id -> network-name/token lookup
// table.
package db

// Network describes one entry of the chain-id lookup table.
type Network struct {
	ChainID uint64
	Name    string
	Token   string
}

// networks lists the chains a wallet-facing display needs names and
// token symbols for.
var networks = []Network{
	{ChainID: 1, Name: "mainnet", Token: "ETH"},
	{ChainID: 10, Name: "Optimism", Token: "ETH"},
	{ChainID: 137, Name: "Polygon", Token: "POL"},
	{ChainID: 8453, Name: "Base", Token: "ETH"},
	{ChainID: 42161, Name: "Arbitrum", Token: "ETH"},
	{ChainID: 59144, Name: "Linea", Token: "ETH"},
	{ChainID: 11155111, Name: "Sepolia", Token: "sETH"},
}

// Lookup returns the Network entry for chainID, and false if unlisted.
func Lookup(chainID uint64) (Network, bool) {
	for _, n := range networks {
		if n.ChainID == chainID {
			return n, true
		}
	}
	return Network{}, false
}

// All returns every known network, in table order.
func All() []Network {
	out := make([]Network, len(networks))
	copy(out, networks)
	return out
}
