package engine

import "time"

// OHLC is the daily open/high/low/close summary derived from the trade
// log. The first price seen in a day sets open (and seeds the other
// fields); every later price updates close and the extrema.
type OHLC struct {
	Open  int64 `json:"open"`
	High  int64 `json:"high"`
	Low   int64 `json:"low"`
	Close int64 `json:"close"`
}

func (o *OHLC) update(price int64) {
	if price > o.High {
		o.High = price
	}
	if price < o.Low {
		o.Low = price
	}
	o.Close = price
}

// PriceHistory scans the trade log once and returns the per-day OHLC
// bars for the requested month, keyed by ISO day (YYYY-MM-DD) under UTC.
// An empty map means no data for that month, not an error.
func (e *Engine) PriceHistory(month, year int) (map[string]*OHLC, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidParam
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	daily := make(map[string]*OHLC)

	for _, t := range e.trades {
		ts := time.UnixMilli(t.Timestamp).UTC()
		if ts.Year() != year || int(ts.Month()) != month {
			continue
		}

		day := ts.Format("2006-01-02")
		bar, ok := daily[day]
		if !ok {
			daily[day] = &OHLC{Open: t.Price, High: t.Price, Low: t.Price, Close: t.Price}
			continue
		}
		bar.update(t.Price)
	}

	return daily, nil
}
