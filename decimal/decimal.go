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

// Package decimal formats a 256-bit unsigned integer (wei, say) as a
// fixed-point decimal string: rounding the truncated tail before
// trimming trailing zeros, grouping the integer part, and eliding the
// decimal point entirely when zero decimals are requested.
//
// Values are unsigned 256-bit (holiman/uint256.Int, the same integer
// type used for balances and transaction values throughout the
// Ethereum tooling this module sits beside); ParseValue returns
// Overflow for anything that doesn't fit.
package decimal

import (
	"strings"

	"github.com/holiman/uint256"
)

// Round selects how the truncated tail beyond MaxDecimals is handled.
type Round int

const (
	RoundTruncate Round = iota
	RoundUp
	RoundDown
	RoundFloor
	RoundCeiling
)

// Format controls how FormatValue renders a value.
type Format struct {
	// Decimals is the number of decimal places value is denominated in
	// (e.g. 18 for wei).
	Decimals int

	// MinDecimals is the fewest digits to keep right of the point after
	// trailing-zero trimming.
	MinDecimals int

	// MaxDecimals is the most digits to keep right of the point before
	// rounding kicks in. Zero means "same as Decimals" (no truncation).
	MaxDecimals int

	// Groups is the integer-part grouping size; 0 disables grouping.
	// A nonzero value less than 3 is raised to 3.
	Groups int

	Round Round

	// DecimalChar/GroupChar default to '.' and ',' when zero.
	DecimalChar byte
	GroupChar   byte
}

// Result is the outcome of FormatValue.
type Result struct {
	Text     string
	Decimals int
	Rounded  bool
}

func normalize(f Format) Format {
	if f.DecimalChar == 0 {
		f.DecimalChar = '.'
	}
	if f.GroupChar == 0 {
		f.GroupChar = ','
	}
	if f.Groups != 0 && f.Groups < 3 {
		f.Groups = 3
	}
	if f.MaxDecimals == 0 || f.MaxDecimals > f.Decimals {
		f.MaxDecimals = f.Decimals
	}
	if f.MinDecimals > f.Decimals {
		f.MinDecimals = f.Decimals
	}
	if f.MaxDecimals < f.MinDecimals {
		f.MaxDecimals = f.MinDecimals
	}
	return f
}

var ten = uint256.NewInt(10)

// FormatValue renders value (interpreted with f.Decimals decimal
// places) as a fixed-point string.
func FormatValue(value *uint256.Int, f Format) (Result, error) {
	f = normalize(f)

	decimals := f.Decimals
	rounded := false

	working := new(uint256.Int).Set(value)
	truncate := f.Decimals - f.MaxDecimals

	var lastRemainder uint64
	quotient := new(uint256.Int)
	modulus := new(uint256.Int)
	for ; truncate > 0; truncate-- {
		quotient.DivMod(working, ten, modulus)
		lastRemainder = modulus.Uint64()
		if lastRemainder != 0 {
			rounded = true
		}
		working.Set(quotient)
		decimals--
	}

	if rounded {
		switch f.Round {
		case RoundTruncate, RoundFloor:
		case RoundUp:
			if lastRemainder >= 5 {
				working.AddUint64(working, 1)
			}
		case RoundDown:
			if lastRemainder > 5 {
				working.AddUint64(working, 1)
			}
		case RoundCeiling:
			working.AddUint64(working, 1)
		}
	} else {
		// No rounding occurred: trim trailing zeros down to MinDecimals.
		check := new(uint256.Int)
		for decimals > f.MinDecimals {
			quotient.DivMod(working, ten, check)
			if !check.IsZero() {
				break
			}
			decimals--
			working.Set(quotient)
		}
	}

	digits := working.Dec()

	// Left-pad so there are always at least decimals+1 integer-adjacent
	// digits to split a decimal point out of.
	if len(digits) < decimals+1 {
		digits = strings.Repeat("0", decimals+1-len(digits)) + digits
	}

	intPart := digits[:len(digits)-decimals]
	fracPart := digits[len(digits)-decimals:]

	// Trim leading zeros from the integer part, keeping at least one.
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	if f.Groups != 0 {
		intPart = group(intPart, f.Groups, f.GroupChar)
	}

	// decimals == 0 elides the point entirely, whether the format asked
	// for no decimals or trimming removed them all.
	var out strings.Builder
	out.WriteString(intPart)
	if decimals > 0 {
		out.WriteByte(f.DecimalChar)
		out.WriteString(fracPart)
	}

	return Result{Text: out.String(), Decimals: decimals, Rounded: rounded}, nil
}

func group(digits string, size int, sep byte) string {
	if len(digits) <= size {
		return digits
	}
	var out strings.Builder
	lead := len(digits) % size
	if lead == 0 {
		lead = size
	}
	out.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += size {
		out.WriteByte(sep)
		out.WriteString(digits[i : i+size])
	}
	return out.String()
}
