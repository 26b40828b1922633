// Package protocol defines the carrier types and response codes of the
// line-delimited JSON wire protocol: one request object per line in,
// one response object per line out.
package protocol

import "cross/engine"

// Operation names accepted in the "operation" field.
const (
	OpRegister          = "register"
	OpLogin             = "login"
	OpLogout            = "logout"
	OpUpdateCredentials = "updateCredentials"
	OpInsertLimitOrder  = "insertLimitOrder"
	OpInsertMarketOrder = "insertMarketOrder"
	OpInsertStopOrder   = "insertStopOrder"
	OpCancelOrder       = "cancelOrder"
	OpGetPriceHistory   = "getPriceHistory"
)

// Request is the envelope for every client request. Fields not used by
// an operation stay at their zero value.
type Request struct {
	Operation   string `json:"operation"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	OldPassword string `json:"oldPassword,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
	UDPHost     string `json:"udpIp,omitempty"`
	UDPPort     int    `json:"udpPort,omitempty"`
	Side        string `json:"type,omitempty"` // "ask" | "bid"
	Size        int64  `json:"size,omitempty"`
	Price       int64  `json:"price,omitempty"`
	StopPrice   int64  `json:"stopPrice,omitempty"`
	OrderID     int64  `json:"orderId,omitempty"`
	MonthYear   string `json:"monthYear,omitempty"`
}

// Response carries either a status code plus message, an order id, or a
// price-history map, depending on the operation.
type Response struct {
	Code         int                     `json:"response,omitempty"`
	ErrorMessage string                  `json:"errorMessage,omitempty"`
	OrderID      int64                   `json:"orderId,omitempty"`
	PriceHistory map[string]*engine.OHLC `json:"priceHistory,omitempty"`
}

// RejectedOrderID is returned in place of an order id when an insert is
// refused (invalid request, no session, or a market order that cannot be
// filled in full).
const RejectedOrderID int64 = -1

// StatusOK is the success code shared by every status-style response.
const StatusOK = 100

// Register response codes.
const (
	RegisterOK              = 100
	RegisterInvalidPassword = 101
	RegisterUsernameTaken   = 102
	RegisterError           = 103
)

// Login response codes.
const (
	LoginOK              = 100
	LoginMismatch        = 101
	LoginAlreadyLoggedIn = 102
	LoginError           = 103
)

// Logout response codes.
const (
	LogoutOK    = 100
	LogoutError = 101
)

// UpdateCredentials response codes.
const (
	UpdateOK                 = 100
	UpdateInvalidNewPassword = 101
	UpdateMismatch           = 102
	UpdateSamePassword       = 103
	UpdateLoggedIn           = 104
	UpdateError              = 105
)

// CancelOrder response codes.
const (
	CancelOK    = 100
	CancelError = 101
)

// GetPriceHistory response codes.
const (
	HistoryOK             = 100
	HistoryMissingParam   = 103
	HistoryInvalidFormat  = 104
	HistoryInvalidNumbers = 105
	HistoryInvalidMonth   = 106
	HistoryNoData         = 107
)

// StatusInternalError reports an internal failure while handling a
// request.
const StatusInternalError = 500
