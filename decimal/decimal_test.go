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

package decimal_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/ffx-embedded/decimal"
)

func TestFormatOneEther(t *testing.T) {
	value, overflow := uint256.FromDecimal("1000000000000000000")
	require.Nil(t, overflow)

	result, err := decimal.FormatValue(value, decimal.Format{Decimals: 18})
	require.NoError(t, err)
	require.Equal(t, "1", result.Text)
}

func TestFormatFractional(t *testing.T) {
	value, overflow := uint256.FromDecimal("1500000000000000000")
	require.Nil(t, overflow)

	result, err := decimal.FormatValue(value, decimal.Format{Decimals: 18})
	require.NoError(t, err)
	require.Equal(t, "1.5", result.Text)
}

func TestFormatMaxDecimalsTruncatesAndRounds(t *testing.T) {
	value, overflow := uint256.FromDecimal("1999999999999999999")
	require.Nil(t, overflow)

	truncated, err := decimal.FormatValue(value, decimal.Format{Decimals: 18, MaxDecimals: 2, Round: decimal.RoundTruncate})
	require.NoError(t, err)
	require.Equal(t, "1.99", truncated.Text)

	// Rounding carries into the kept decimals but, unlike the no-rounding
	// path, does not re-trim trailing zeros afterward.
	up, err := decimal.FormatValue(value, decimal.Format{Decimals: 18, MaxDecimals: 2, Round: decimal.RoundUp})
	require.NoError(t, err)
	require.Equal(t, "2.00", up.Text)
}

func TestFormatGrouping(t *testing.T) {
	value, overflow := uint256.FromDecimal("1234567000000000000000000")
	require.Nil(t, overflow)

	result, err := decimal.FormatValue(value, decimal.Format{Decimals: 18, Groups: 3})
	require.NoError(t, err)
	require.Equal(t, "1,234,567", result.Text)
}

func TestFormatZeroDecimalsElidesPoint(t *testing.T) {
	value := uint256.NewInt(42)
	result, err := decimal.FormatValue(value, decimal.Format{Decimals: 0})
	require.NoError(t, err)
	require.Equal(t, "42", result.Text)
}

func TestFormatMinDecimalsKeepsTrailingZeros(t *testing.T) {
	value, overflow := uint256.FromDecimal("1000000000000000000")
	require.Nil(t, overflow)

	result, err := decimal.FormatValue(value, decimal.Format{Decimals: 18, MinDecimals: 4})
	require.NoError(t, err)
	require.Equal(t, "1.0000", result.Text)
}

func TestParseFormatRoundtrip(t *testing.T) {
	value, err := decimal.ParseValue("1.5", 18)
	require.NoError(t, err)

	result, err := decimal.FormatValue(value, decimal.Format{Decimals: 18})
	require.NoError(t, err)
	require.Equal(t, "1.5", result.Text)
}

func TestParseRejectsTooManyFractionDigits(t *testing.T) {
	_, err := decimal.ParseValue("1.0000000000000000001", 18)
	require.Error(t, err)
}
