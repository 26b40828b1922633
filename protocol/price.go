package protocol

import "github.com/shopspring/decimal"

// Prices and sizes travel on the wire as integer counts of the smallest
// unit: thousandths of USD for prices, thousandths of the instrument for
// sizes. These helpers convert to decimal values for human display.

const tickExponent = -3

// DisplayPrice converts a price in millesimal ticks to its decimal USD
// value.
func DisplayPrice(ticks int64) decimal.Decimal {
	return decimal.New(ticks, tickExponent)
}

// DisplaySize converts a size in millesimal units to its decimal value.
func DisplaySize(units int64) decimal.Decimal {
	return decimal.New(units, tickExponent)
}

// ParsePrice converts a decimal USD amount into millesimal ticks,
// truncating anything finer than the tick.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Shift(-tickExponent).Truncate(0).IntPart(), nil
}
