package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"cross/account"
	"cross/engine"
	"cross/protocol"
)

// session tracks the state of one client connection. A username is bound
// by a successful login and cleared by logout or disconnect.
type session struct {
	id       string
	remote   string
	username string
}

func (s *Server) handleLine(sess *session, line []byte) protocol.Response {
	var req protocol.Request
	if err := json.Unmarshal(line, &req); err != nil {
		logger.Warn("malformed request", "session_id", sess.id, "error", err)
		return protocol.Response{Code: protocol.StatusInternalError, ErrorMessage: "malformed request"}
	}

	logger.Debug("operation received", "session_id", sess.id, "operation", req.Operation)

	switch req.Operation {
	case protocol.OpRegister:
		return s.handleRegister(&req)
	case protocol.OpLogin:
		return s.handleLogin(sess, &req)
	case protocol.OpLogout:
		return s.handleLogout(sess)
	case protocol.OpUpdateCredentials:
		return s.handleUpdateCredentials(&req)
	case protocol.OpInsertLimitOrder:
		return s.handleInsertLimitOrder(sess, &req)
	case protocol.OpInsertMarketOrder:
		return s.handleInsertMarketOrder(sess, &req)
	case protocol.OpInsertStopOrder:
		return s.handleInsertStopOrder(sess, &req)
	case protocol.OpCancelOrder:
		return s.handleCancelOrder(sess, &req)
	case protocol.OpGetPriceHistory:
		return s.handlePriceHistory(sess, &req)
	}

	return protocol.Response{
		Code:         protocol.RegisterError,
		ErrorMessage: fmt.Sprintf("unknown operation %q", req.Operation),
	}
}

func (s *Server) handleRegister(req *protocol.Request) protocol.Response {
	if req.Username == "" || req.Password == "" {
		return protocol.Response{Code: protocol.RegisterError, ErrorMessage: "username and password are required"}
	}

	switch err := s.accounts.Register(req.Username, req.Password); {
	case err == nil:
		s.persist()
		return okResponse()
	case errors.Is(err, account.ErrInvalidPassword):
		return protocol.Response{Code: protocol.RegisterInvalidPassword, ErrorMessage: err.Error()}
	case errors.Is(err, account.ErrUsernameTaken):
		return protocol.Response{Code: protocol.RegisterUsernameTaken, ErrorMessage: err.Error()}
	default:
		return protocol.Response{Code: protocol.RegisterError, ErrorMessage: err.Error()}
	}
}

func (s *Server) handleLogin(sess *session, req *protocol.Request) protocol.Response {
	if req.Username == "" || req.Password == "" {
		return protocol.Response{Code: protocol.LoginError, ErrorMessage: "username and password are required"}
	}
	if req.UDPPort <= 0 || req.UDPPort > 65535 {
		return protocol.Response{Code: protocol.LoginError, ErrorMessage: "a valid udpPort is required"}
	}

	host := req.UDPHost
	if host == "" {
		// Fall back to the address the client connected from.
		host, _, _ = net.SplitHostPort(sess.remote)
	}
	endpoint := net.JoinHostPort(host, fmt.Sprintf("%d", req.UDPPort))

	switch err := s.accounts.Login(req.Username, req.Password, endpoint); {
	case err == nil:
		sess.username = req.Username
		s.persist()
		logger.Info("user logged in", "session_id", sess.id, "user", req.Username, "notify_endpoint", endpoint)
		return okResponse()
	case errors.Is(err, account.ErrCredentialMismatch):
		return protocol.Response{Code: protocol.LoginMismatch, ErrorMessage: err.Error()}
	case errors.Is(err, account.ErrAlreadyLoggedIn):
		return protocol.Response{Code: protocol.LoginAlreadyLoggedIn, ErrorMessage: err.Error()}
	default:
		return protocol.Response{Code: protocol.LoginError, ErrorMessage: err.Error()}
	}
}

func (s *Server) handleLogout(sess *session) protocol.Response {
	if sess.username == "" {
		return protocol.Response{Code: protocol.LogoutError, ErrorMessage: "no user bound to this connection"}
	}

	if err := s.accounts.Logout(sess.username); err != nil {
		return protocol.Response{Code: protocol.LogoutError, ErrorMessage: err.Error()}
	}

	logger.Info("user logged out", "session_id", sess.id, "user", sess.username)
	sess.username = ""
	s.persist()
	return okResponse()
}

func (s *Server) handleUpdateCredentials(req *protocol.Request) protocol.Response {
	if req.Username == "" || req.OldPassword == "" || req.NewPassword == "" {
		return protocol.Response{Code: protocol.UpdateError, ErrorMessage: "username, oldPassword and newPassword are required"}
	}

	switch err := s.accounts.UpdateCredentials(req.Username, req.OldPassword, req.NewPassword); {
	case err == nil:
		s.persist()
		return okResponse()
	case errors.Is(err, account.ErrSamePassword):
		return protocol.Response{Code: protocol.UpdateSamePassword, ErrorMessage: err.Error()}
	case errors.Is(err, account.ErrInvalidPassword):
		return protocol.Response{Code: protocol.UpdateInvalidNewPassword, ErrorMessage: err.Error()}
	case errors.Is(err, account.ErrLoggedIn):
		return protocol.Response{Code: protocol.UpdateLoggedIn, ErrorMessage: err.Error()}
	case errors.Is(err, account.ErrCredentialMismatch):
		return protocol.Response{Code: protocol.UpdateMismatch, ErrorMessage: err.Error()}
	default:
		return protocol.Response{Code: protocol.UpdateError, ErrorMessage: err.Error()}
	}
}

func (s *Server) handleInsertLimitOrder(sess *session, req *protocol.Request) protocol.Response {
	if sess.username == "" {
		return rejectedOrder()
	}

	side, err := engine.ParseSide(req.Side)
	if err != nil {
		return rejectedOrder()
	}

	id, err := s.eng.InsertLimitOrder(side, req.Size, req.Price, sess.username)
	if err != nil {
		return rejectedOrder()
	}

	return protocol.Response{OrderID: id}
}

func (s *Server) handleInsertMarketOrder(sess *session, req *protocol.Request) protocol.Response {
	if sess.username == "" {
		return rejectedOrder()
	}

	side, err := engine.ParseSide(req.Side)
	if err != nil {
		return rejectedOrder()
	}

	id, err := s.eng.InsertMarketOrder(side, req.Size, sess.username)
	if err != nil {
		// Insufficient liquidity rejects the whole order; the book is
		// untouched and the client sees -1.
		return rejectedOrder()
	}

	return protocol.Response{OrderID: id}
}

func (s *Server) handleInsertStopOrder(sess *session, req *protocol.Request) protocol.Response {
	if sess.username == "" {
		return rejectedOrder()
	}

	side, err := engine.ParseSide(req.Side)
	if err != nil {
		return rejectedOrder()
	}

	id, err := s.eng.InsertStopOrder(side, req.Size, req.StopPrice, sess.username)
	if err != nil {
		return rejectedOrder()
	}

	return protocol.Response{OrderID: id}
}

func (s *Server) handleCancelOrder(sess *session, req *protocol.Request) protocol.Response {
	if sess.username == "" {
		return protocol.Response{Code: protocol.CancelError, ErrorMessage: "user not logged in"}
	}
	if req.OrderID <= 0 {
		return protocol.Response{Code: protocol.CancelError, ErrorMessage: "a valid orderId is required"}
	}

	if err := s.eng.CancelOrder(req.OrderID); err != nil {
		return protocol.Response{Code: protocol.CancelError, ErrorMessage: "order does not exist or cannot be cancelled"}
	}

	return okResponse()
}

func (s *Server) handlePriceHistory(sess *session, req *protocol.Request) protocol.Response {
	if req.MonthYear == "" {
		return protocol.Response{Code: protocol.HistoryMissingParam, ErrorMessage: "monthYear is required"}
	}

	month, year, err := protocol.ParseMonthYear(req.MonthYear)
	if err != nil {
		switch {
		case errors.Is(err, protocol.ErrMonthYearFormat):
			return protocol.Response{Code: protocol.HistoryInvalidFormat, ErrorMessage: err.Error()}
		case errors.Is(err, protocol.ErrMonthYearDigits):
			return protocol.Response{Code: protocol.HistoryInvalidNumbers, ErrorMessage: err.Error()}
		default:
			return protocol.Response{Code: protocol.HistoryInvalidMonth, ErrorMessage: err.Error()}
		}
	}

	if sess.username == "" {
		return protocol.Response{Code: protocol.HistoryNoData, ErrorMessage: "user not logged in"}
	}

	history, err := s.eng.PriceHistory(month, year)
	if err != nil {
		return protocol.Response{Code: protocol.HistoryInvalidMonth, ErrorMessage: err.Error()}
	}
	if len(history) == 0 {
		return protocol.Response{Code: protocol.HistoryNoData, ErrorMessage: "no data available for the specified month and year"}
	}

	return protocol.Response{Code: protocol.HistoryOK, PriceHistory: history}
}

func okResponse() protocol.Response {
	return protocol.Response{Code: protocol.StatusOK, ErrorMessage: "OK"}
}

func rejectedOrder() protocol.Response {
	return protocol.Response{OrderID: protocol.RejectedOrderID}
}
