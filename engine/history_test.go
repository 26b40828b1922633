package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradeAt(id int64, price int64, ts time.Time) *Trade {
	return &Trade{
		OrderID:   id,
		Side:      Bid,
		OrderKind: Limit,
		Size:      1_000,
		Price:     price,
		Timestamp: ts.UnixMilli(),
	}
}

func TestPriceHistoryDailyBars(t *testing.T) {
	day1 := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)

	eng := NewEngine(WithTrades([]*Trade{
		tradeAt(1, 100_000, day1),
		tradeAt(2, 120_000, day1.Add(time.Hour)),
		tradeAt(3, 90_000, day1.Add(2*time.Hour)),
		tradeAt(4, 110_000, day1.Add(3*time.Hour)),
		tradeAt(5, 50_000, day2),
	}))

	bars, err := eng.PriceHistory(3, 2025)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	bar := bars["2025-03-03"]
	require.NotNil(t, bar)
	assert.Equal(t, int64(100_000), bar.Open)
	assert.Equal(t, int64(120_000), bar.High)
	assert.Equal(t, int64(90_000), bar.Low)
	assert.Equal(t, int64(110_000), bar.Close)

	bar = bars["2025-03-04"]
	require.NotNil(t, bar)
	assert.Equal(t, int64(50_000), bar.Open)
	assert.Equal(t, int64(50_000), bar.Close)
}

func TestPriceHistoryFirstPriceSeedsExtremes(t *testing.T) {
	day := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	// a single trade sets all four fields to the same price
	eng := NewEngine(WithTrades([]*Trade{tradeAt(1, 42_000, day)}))

	bars, err := eng.PriceHistory(6, 2025)
	require.NoError(t, err)
	bar := bars["2025-06-10"]
	require.NotNil(t, bar)
	assert.Equal(t, OHLC{Open: 42_000, High: 42_000, Low: 42_000, Close: 42_000}, *bar)
}

func TestPriceHistoryEmptyMonth(t *testing.T) {
	day := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	eng := NewEngine(WithTrades([]*Trade{tradeAt(1, 100_000, day)}))

	bars, err := eng.PriceHistory(2, 2025)
	require.NoError(t, err)
	assert.Empty(t, bars)

	bars, err = eng.PriceHistory(3, 2024)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestPriceHistoryInvalidMonth(t *testing.T) {
	eng := NewEngine()

	_, err := eng.PriceHistory(0, 2025)
	assert.ErrorIs(t, err, ErrInvalidParam)
	_, err = eng.PriceHistory(13, 2025)
	assert.ErrorIs(t, err, ErrInvalidParam)
}
