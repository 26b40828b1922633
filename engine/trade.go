package engine

// Trade is the immutable record of one side's fill from a match. Every
// match produces exactly two Trade records (one per leg) sharing size,
// price and timestamp. The json tags match the persisted trade log and
// the notification payload.
type Trade struct {
	OrderID   int64     `json:"orderId"`
	Side      Side      `json:"type"`
	OrderKind OrderKind `json:"orderType"`
	Size      int64     `json:"size"`
	Price     int64     `json:"price"`
	Timestamp int64     `json:"timestamp"` // Unix milliseconds
}
