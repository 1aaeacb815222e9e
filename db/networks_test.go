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

package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/ffx-embedded/db"
)

func TestLookupKnownChain(t *testing.T) {
	n, ok := db.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "mainnet", n.Name)
	require.Equal(t, "ETH", n.Token)
}

func TestLookupUnknownChain(t *testing.T) {
	_, ok := db.Lookup(999999)
	require.False(t, ok)
}

func TestAllReturnsIndependentCopy(t *testing.T) {
	all := db.All()
	require.NotEmpty(t, all)

	all[0].Name = "mutated"

	n, ok := db.Lookup(all[0].ChainID)
	require.True(t, ok)
	require.NotEqual(t, "mutated", n.Name)
}

func TestPolygonUsesPOLToken(t *testing.T) {
	n, ok := db.Lookup(137)
	require.True(t, ok)
	require.Equal(t, "Polygon", n.Name)
	require.Equal(t, "POL", n.Token)
}
