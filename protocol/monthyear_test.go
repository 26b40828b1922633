package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthYear(t *testing.T) {
	month, year, err := ParseMonthYear("012025")
	require.NoError(t, err)
	assert.Equal(t, 1, month)
	assert.Equal(t, 2025, year)

	month, year, err = ParseMonthYear("122031")
	require.NoError(t, err)
	assert.Equal(t, 12, month)
	assert.Equal(t, 2031, year)
}

func TestParseMonthYearStripsQuotes(t *testing.T) {
	month, year, err := ParseMonthYear(`"032025"`)
	require.NoError(t, err)
	assert.Equal(t, 3, month)
	assert.Equal(t, 2025, year)

	month, year, err = ParseMonthYear("  '062024' ")
	require.NoError(t, err)
	assert.Equal(t, 6, month)
	assert.Equal(t, 2024, year)
}

func TestParseMonthYearErrors(t *testing.T) {
	_, _, err := ParseMonthYear("12025")
	assert.ErrorIs(t, err, ErrMonthYearFormat)
	_, _, err = ParseMonthYear("")
	assert.ErrorIs(t, err, ErrMonthYearFormat)
	_, _, err = ParseMonthYear("ab2025")
	assert.ErrorIs(t, err, ErrMonthYearDigits)
	_, _, err = ParseMonthYear("0120a5")
	assert.ErrorIs(t, err, ErrMonthYearDigits)
	_, _, err = ParseMonthYear("002025")
	assert.ErrorIs(t, err, ErrMonthRange)
	_, _, err = ParseMonthYear("132025")
	assert.ErrorIs(t, err, ErrMonthRange)
}

func TestDisplayAndParsePrice(t *testing.T) {
	assert.Equal(t, "100.5", DisplayPrice(100_500).String())
	assert.Equal(t, "0.001", DisplayPrice(1).String())
	assert.Equal(t, "2.5", DisplaySize(2_500).String())

	ticks, err := ParsePrice("100.5")
	require.NoError(t, err)
	assert.Equal(t, int64(100_500), ticks)

	// anything finer than the tick truncates
	ticks, err = ParsePrice("1.23456")
	require.NoError(t, err)
	assert.Equal(t, int64(1_234), ticks)

	_, err = ParsePrice("abc")
	assert.Error(t, err)
}
