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

package decimal

import (
	"strings"

	"github.com/holiman/uint256"

	"github.com/erigontech/ffx-embedded/dataerr"
)

// ParseValue is the inverse of FormatValue: it parses a fixed-point
// decimal string (optionally grouped, with at most one decimal point)
// denominated in decimals places back into its raw integer value
// (e.g. "1.5" with decimals=18 parses to 1_500_000_000_000_000_000).
func ParseValue(s string, decimals int) (*uint256.Int, error) {
	s = strings.ReplaceAll(s, ",", "")

	intPart, fracPart, hasPoint := strings.Cut(s, ".")
	if !hasPoint {
		fracPart = ""
	}
	if len(fracPart) > decimals {
		return nil, dataerr.Wrap("decimal.ParseValue", dataerr.Overflow, nil)
	}
	fracPart += strings.Repeat("0", decimals-len(fracPart))

	digits := intPart + fracPart
	if digits == "" {
		digits = "0"
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, dataerr.Wrap("decimal.ParseValue", dataerr.BadData, nil)
		}
	}

	value, overflow := uint256.FromDecimal(digits)
	if overflow != nil {
		return nil, dataerr.Wrap("decimal.ParseValue", dataerr.Overflow, nil)
	}
	return value, nil
}
