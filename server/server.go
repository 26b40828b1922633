// Package server implements the venue's request/response transport:
// a TCP listener, one worker goroutine per connection, line-delimited
// JSON requests dispatched to the matching engine and the account store.
package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"

	"cross/account"
	"cross/engine"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger allows setting a custom logger
func SetLogger(l *slog.Logger) {
	logger = l
}

// maxLineBytes bounds a single request line.
const maxLineBytes = 64 * 1024

// Server accepts client connections and serves the wire protocol.
type Server struct {
	addr       string
	eng        *engine.Engine
	accounts   *account.Store
	persist    func()
	ln         net.Listener
	mu         sync.Mutex
	conns      map[net.Conn]struct{}
	isShutdown atomic.Bool
	wg         sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithPersistHook registers a callback invoked after every successful
// account mutation, mirroring the venue's save-on-change policy.
// Failures inside the hook must not propagate to the caller.
func WithPersistHook(fn func()) Option {
	return func(s *Server) {
		s.persist = fn
	}
}

// New creates a Server for the given listen address.
func New(addr string, eng *engine.Engine, accounts *account.Store, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		eng:      eng,
		accounts: accounts,
		persist:  func() {},
		conns:    make(map[net.Conn]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Listen binds the TCP listener without serving yet, so callers can
// read the bound address before accepting traffic.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr returns the bound listen address. Valid after Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve runs the accept loop until Stop is called. Each connection is
// handled by its own worker goroutine.
func (s *Server) Serve() error {
	if s.ln == nil {
		return errors.New("server: Serve called before Listen")
	}

	logger.Info("server listening", "addr", s.ln.Addr().String())

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.isShutdown.Load() {
				return nil
			}
			logger.Error("accept failed", "error", err)
			continue
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// ListenAndServe binds the listener and runs the accept loop.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Stop ceases accepting new connections, closes the live ones and waits
// for their workers to finish. In-flight engine operations run to
// completion because the engine lock is only released once an operation
// has fully applied. Stop is idempotent.
func (s *Server) Stop() {
	if !s.isShutdown.CompareAndSwap(false, true) {
		return
	}

	if s.ln != nil {
		_ = s.ln.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	logger.Info("server stopped")
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()

	sess := &session{
		id:     xid.New().String(),
		remote: conn.RemoteAddr().String(),
	}

	logger.Info("client connected", "session_id", sess.id, "remote", sess.remote)

	defer func() {
		// Fallback for clients that disconnect without logging out.
		if sess.username != "" {
			if err := s.accounts.Logout(sess.username); err == nil {
				logger.Info("forced logout on disconnect", "session_id", sess.id, "user", sess.username)
			}
		}

		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()

		_ = conn.Close()
		logger.Info("client disconnected", "session_id", sess.id, "remote", sess.remote)
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	encoder := json.NewEncoder(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handleLine(sess, line)
		if err := encoder.Encode(resp); err != nil {
			logger.Warn("response write failed", "session_id", sess.id, "error", err)
			return
		}
	}
}
