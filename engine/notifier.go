package engine

import "sync"

// TradeNotifier receives one event per executed leg, addressed to the
// owner of that leg.
//
// IMPORTANT: implementations are invoked while the engine holds its
// write lock and must not block: hand the delivery off (buffered
// channel, goroutine) instead of performing network I/O inline.
type TradeNotifier interface {
	TradeExecuted(owner string, trade *Trade)
}

// NotifiedTrade pairs a trade leg with the user it was addressed to.
type NotifiedTrade struct {
	Owner string
	Trade *Trade
}

// MemoryTradeNotifier stores notifications in memory, useful for testing.
type MemoryTradeNotifier struct {
	mu     sync.RWMutex
	events []NotifiedTrade
}

// NewMemoryTradeNotifier creates a new MemoryTradeNotifier.
func NewMemoryTradeNotifier() *MemoryTradeNotifier {
	return &MemoryTradeNotifier{
		events: make([]NotifiedTrade, 0),
	}
}

// TradeExecuted appends the event to the in-memory slice.
func (m *MemoryTradeNotifier) TradeExecuted(owner string, trade *Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, NotifiedTrade{Owner: owner, Trade: trade})
}

// Count returns the number of events stored.
func (m *MemoryTradeNotifier) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// Get returns the event at the specified index.
func (m *MemoryTradeNotifier) Get(index int) NotifiedTrade {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.events[index]
}

// Events returns a copy of all events stored.
func (m *MemoryTradeNotifier) Events() []NotifiedTrade {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]NotifiedTrade, len(m.events))
	copy(events, m.events)
	return events
}

// DiscardTradeNotifier drops all events, useful for benchmarking.
type DiscardTradeNotifier struct {
}

// NewDiscardTradeNotifier creates a new DiscardTradeNotifier.
func NewDiscardTradeNotifier() *DiscardTradeNotifier {
	return &DiscardTradeNotifier{}
}

// TradeExecuted does nothing.
func (d *DiscardTradeNotifier) TradeExecuted(owner string, trade *Trade) {
}
