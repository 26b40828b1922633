package notify

import (
	"encoding/json"

	"cross/engine"
)

// EndpointLookup resolves a username to its registered notification
// endpoint. *account.Store satisfies it.
type EndpointLookup interface {
	Endpoint(username string) (string, bool)
}

// payload is the wire shape of one notification: a single-element trade
// list, matching what clients expect from the venue.
type payload struct {
	Trades []*engine.Trade `json:"trades"`
}

// TradeFanout implements engine.TradeNotifier: it resolves the leg
// owner's endpoint and enqueues the JSON payload. Users without a
// registered endpoint (not logged in) are silently skipped.
type TradeFanout struct {
	svc       *Service
	endpoints EndpointLookup
}

// NewTradeFanout creates a TradeFanout delivering through svc.
func NewTradeFanout(svc *Service, endpoints EndpointLookup) *TradeFanout {
	return &TradeFanout{
		svc:       svc,
		endpoints: endpoints,
	}
}

// TradeExecuted enqueues one notification for the owner of the leg.
func (f *TradeFanout) TradeExecuted(owner string, trade *engine.Trade) {
	dest, ok := f.endpoints.Endpoint(owner)
	if !ok {
		return
	}

	body, err := json.Marshal(payload{Trades: []*engine.Trade{trade}})
	if err != nil {
		logger.Error("failed to marshal trade notification", "owner", owner, "error", err)
		return
	}

	f.svc.Send(dest, body)
}
