package engine

import (
	"fmt"
	"sync"
	"time"
)

// Engine owns the two book sides, the stop-order registry, the last
// traded price and the trade log, and implements the insert, cancel,
// match and trigger algorithms.
//
// All mutating operations serialize through one write lock covering the
// entire matching state; read-only operations (price history, trade
// snapshots) take the read lock. Internal helpers carry the Locked
// suffix and assume the write lock is held: they never re-acquire it, so
// the trigger cascade runs entirely under the caller's single
// acquisition. Go's mutex hands the lock to the longest waiter once it
// has waited over a millisecond, so no caller starves behind a stream of
// newer requests.
type Engine struct {
	mu          sync.RWMutex
	askQueue    *bookQueue
	bidQueue    *bookQueue
	stopOrders  map[int64]*Order
	trades      []*Trade
	lastPrice   int64
	nextOrderID int64
	notifier    TradeNotifier
}

// Stats contains counters describing the current book state.
type Stats struct {
	AskDepthCount  int64
	AskOrderCount  int64
	BidDepthCount  int64
	BidOrderCount  int64
	StopOrderCount int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the sink for per-leg execution notifications.
func WithNotifier(n TradeNotifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithTrades seeds the engine with a reloaded trade log. The order-id
// counter resumes past the largest id seen so ids are never reused
// across restarts.
func WithTrades(trades []*Trade) Option {
	return func(e *Engine) {
		e.trades = append(e.trades, trades...)
		for _, t := range trades {
			if t.OrderID >= e.nextOrderID {
				e.nextOrderID = t.OrderID + 1
			}
		}
	}
}

// NewEngine creates a new matching engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		askQueue:    newAskQueue(),
		bidQueue:    newBidQueue(),
		stopOrders:  make(map[int64]*Order),
		trades:      make([]*Trade, 0),
		lastPrice:   1,
		nextOrderID: 1,
		notifier:    NewDiscardTradeNotifier(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// InsertLimitOrder matches the order against the opposite book and rests
// any remainder on its own side. Returns the assigned order id.
func (e *Engine) InsertLimitOrder(side Side, size, price int64, owner string) (int64, error) {
	if side != Ask && side != Bid {
		return 0, ErrInvalidParam
	}
	if size <= 0 || price <= 0 {
		return 0, ErrInvalidParam
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.newOrderLocked(side, Limit, price, size, owner)
	e.matchLocked(order, order.Price)
	if order.Remaining() > 0 {
		e.ownQueue(side).insertOrder(order)
	}

	return order.ID, nil
}

// InsertMarketOrder executes the order in full against the best
// available prices, or rejects it without touching the book when the
// opposite side cannot cover the requested size.
func (e *Engine) InsertMarketOrder(side Side, size int64, owner string) (int64, error) {
	if side != Ask && side != Bid {
		return 0, ErrInvalidParam
	}
	if size <= 0 {
		return 0, ErrInvalidParam
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.oppositeQueue(side).availableSize(size) < size {
		return 0, ErrInsufficientLiquidity
	}

	order := e.newOrderLocked(side, Market, 0, size, owner)
	e.matchLocked(order, 0)

	return order.ID, nil
}

// InsertStopOrder parks the order in the stop registry. It becomes live
// only when a later trade moves the last price across its stop price.
func (e *Engine) InsertStopOrder(side Side, size, stopPrice int64, owner string) (int64, error) {
	if side != Ask && side != Bid {
		return 0, ErrInvalidParam
	}
	if size <= 0 || stopPrice <= 0 {
		return 0, ErrInvalidParam
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.newOrderLocked(side, Stop, stopPrice, size, owner)
	e.stopOrders[order.ID] = order

	return order.ID, nil
}

// CancelOrder removes the order from the ask book, the bid book or the
// stop registry, in that lookup order. Fully filled orders are not
// cancellable and report ErrNotFound.
func (e *Engine) CancelOrder(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if order := e.askQueue.order(id); order != nil && order.Remaining() > 0 {
		e.askQueue.removeOrder(order.Price, id)
		return nil
	}

	if order := e.bidQueue.order(id); order != nil && order.Remaining() > 0 {
		e.bidQueue.removeOrder(order.Price, id)
		return nil
	}

	if order, ok := e.stopOrders[id]; ok && order.Remaining() > 0 {
		delete(e.stopOrders, id)
		return nil
	}

	return ErrNotFound
}

// LastPrice returns the price of the most recently executed trade.
func (e *Engine) LastPrice() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastPrice
}

// Trades returns a copy of the trade log.
func (e *Engine) Trades() []*Trade {
	e.mu.RLock()
	defer e.mu.RUnlock()

	trades := make([]*Trade, len(e.trades))
	copy(trades, e.trades)
	return trades
}

// Persist invokes save with the live trade log while holding the write
// lock for the duration, so every save is a point-in-time consistent
// snapshot at the cost of pausing matching.
func (e *Engine) Persist(save func(trades []*Trade) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return save(e.trades)
}

// Stats returns usage counters for the book sides and the stop registry.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Stats{
		AskDepthCount:  e.askQueue.depthCount(),
		AskOrderCount:  e.askQueue.orderCount(),
		BidDepthCount:  e.bidQueue.depthCount(),
		BidOrderCount:  e.bidQueue.orderCount(),
		StopOrderCount: int64(len(e.stopOrders)),
	}
}

func (e *Engine) newOrderLocked(side Side, kind OrderKind, price, size int64, owner string) *Order {
	order := &Order{
		ID:    e.nextOrderID,
		Side:  side,
		Kind:  kind,
		Price: price,
		Size:  size,
		Owner: owner,
	}
	e.nextOrderID++
	return order
}

func (e *Engine) ownQueue(side Side) *bookQueue {
	if side == Ask {
		return e.askQueue
	}
	return e.bidQueue
}

func (e *Engine) oppositeQueue(side Side) *bookQueue {
	if side == Ask {
		return e.bidQueue
	}
	return e.askQueue
}

// matchLocked runs the matching loop for an incoming order against the
// opposite book. limitPrice bounds the acceptable resting price for
// limit orders; 0 means no bound (market path). Trades always execute at
// the resting order's price, and the resting side fills in strict
// arrival order within a level.
func (e *Engine) matchLocked(incoming *Order, limitPrice int64) {
	target := e.oppositeQueue(incoming.Side)

	for incoming.Remaining() > 0 {
		resting := target.peekHeadOrder()
		if resting == nil {
			break
		}

		if limitPrice > 0 {
			// The spread has not crossed; the remainder rests.
			if incoming.Side == Ask && resting.Price < limitPrice {
				break
			}
			if incoming.Side == Bid && resting.Price > limitPrice {
				break
			}
		}

		qty := min(incoming.Remaining(), resting.Remaining())

		bidOrder, askOrder := incoming, resting
		if incoming.Side == Ask {
			bidOrder, askOrder = resting, incoming
		}

		e.executeTradeLocked(bidOrder, askOrder, target, resting.Price, qty)
	}
}

// executeTradeLocked is the single point where a match mutates state: it
// fills both legs, settles the resting book side, updates the last
// price, resolves any stop-order cascade, appends the two trade legs and
// hands both notifications to the sink. A fill failure here means the
// matching loop's own bookkeeping is broken, so it panics rather than
// leave the book half-applied.
func (e *Engine) executeTradeLocked(bidOrder, askOrder *Order, restingQueue *bookQueue, price, qty int64) {
	if err := bidOrder.Fill(qty); err != nil {
		panic(fmt.Sprintf("engine: bid leg fill: %v", err))
	}
	if err := askOrder.Fill(qty); err != nil {
		panic(fmt.Sprintf("engine: ask leg fill: %v", err))
	}

	// The book must be consistent before the trigger check re-enters the
	// market-matching path.
	restingQueue.settleHead(qty)

	e.lastPrice = price
	e.checkStopOrdersLocked()

	ts := time.Now().UnixMilli()

	bidTrade := &Trade{
		OrderID:   bidOrder.ID,
		Side:      Bid,
		OrderKind: bidOrder.Kind,
		Size:      qty,
		Price:     price,
		Timestamp: ts,
	}
	askTrade := &Trade{
		OrderID:   askOrder.ID,
		Side:      Ask,
		OrderKind: askOrder.Kind,
		Size:      qty,
		Price:     price,
		Timestamp: ts,
	}

	e.trades = append(e.trades, bidTrade, askTrade)

	logger.Debug("trade executed",
		"bid_order_id", bidOrder.ID,
		"ask_order_id", askOrder.ID,
		"price", price,
		"size", qty)

	e.notifier.TradeExecuted(bidOrder.Owner, bidTrade)
	e.notifier.TradeExecuted(askOrder.Owner, askTrade)
}

// checkStopOrdersLocked scans the stop registry after every last-price
// change. A triggered order leaves the registry and re-enters the book
// as a market order with the same id, matched without a liquidity
// pre-check; whatever cannot fill is discarded. Executing a converted
// order produces further trades, which re-run this check, so the scan
// repeats until no pending stop satisfies its condition at the final
// last price.
func (e *Engine) checkStopOrdersLocked() {
	for {
		var fired *Order
		for _, order := range e.stopOrders {
			if order.Side == Ask && e.lastPrice <= order.Price {
				fired = order
				break
			}
			if order.Side == Bid && e.lastPrice >= order.Price {
				fired = order
				break
			}
		}

		if fired == nil {
			return
		}

		delete(e.stopOrders, fired.ID)

		logger.Debug("stop order triggered",
			"order_id", fired.ID,
			"side", fired.Side.String(),
			"stop_price", fired.Price,
			"last_price", e.lastPrice)

		converted := &Order{
			ID:    fired.ID,
			Side:  fired.Side,
			Kind:  Market,
			Price: 0,
			Size:  fired.Remaining(),
			Owner: fired.Owner,
		}
		e.matchLocked(converted, 0)
	}
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
