package engine

import (
	"encoding/json"
	"fmt"
)

// Side represents the order side (Ask/Bid).
type Side int8

const (
	Ask Side = 1
	Bid Side = 2
)

// String returns the wire representation of the side.
func (s Side) String() string {
	switch s {
	case Ask:
		return "ask"
	case Bid:
		return "bid"
	}
	return "unknown"
}

// MarshalJSON serializes the side as "ask"/"bid", the format used by the
// wire protocol and the persisted trade log.
func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses "ask"/"bid".
func (s *Side) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	side, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// ParseSide converts a wire side string into a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "ask":
		return Ask, nil
	case "bid":
		return Bid, nil
	}
	return 0, fmt.Errorf("invalid side %q: %w", s, ErrInvalidParam)
}

// OrderKind represents the kind of order.
type OrderKind string

const (
	Limit  OrderKind = "limit"
	Market OrderKind = "market"
	Stop   OrderKind = "stop"
)

// Order represents one resting or transient trading intent.
// Price and Size are expressed in the smallest units of the instrument
// (millesimal ticks); Price is 0 for market orders and holds the stop
// price for stop orders.
type Order struct {
	ID     int64     `json:"orderId"`
	Side   Side      `json:"type"`
	Kind   OrderKind `json:"orderType"`
	Price  int64     `json:"price"`
	Size   int64     `json:"size"`
	Filled int64     `json:"filledSize"`
	Owner  string    `json:"owner"`

	// Intrusive FIFO links within a price level (ignored by JSON).
	next *Order
	prev *Order
}

// Remaining returns the unfilled size.
func (o *Order) Remaining() int64 {
	return o.Size - o.Filled
}

// Fill records qty units as executed. The filled size can never exceed
// the initial size; a violation means the matching loop's bookkeeping is
// broken, so callers treat a non-nil error as fatal.
func (o *Order) Fill(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("fill quantity %d must be positive: %w", qty, ErrInvalidParam)
	}
	if o.Filled+qty > o.Size {
		return fmt.Errorf("order %d: fill %d exceeds remaining %d", o.ID, qty, o.Remaining())
	}
	o.Filled += qty
	return nil
}
