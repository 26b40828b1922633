// Package notify delivers trade-execution events to the UDP endpoint
// each user registered at login. Delivery is fire-and-forget: the
// matching path hands payloads to a buffered channel and a single writer
// goroutine does the socket work, so a slow or unreachable target never
// stalls a trader.
package notify

import (
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger allows setting a custom logger
func SetLogger(l *slog.Logger) {
	logger = l
}

type datagram struct {
	dest    string
	payload []byte
}

// Service owns one UDP socket and the delivery queue.
type Service struct {
	conn       net.PacketConn
	queue      chan datagram
	done       chan struct{}
	isShutdown atomic.Bool
	wg         sync.WaitGroup
}

// NewService opens a UDP socket on an ephemeral port and starts the
// writer goroutine.
func NewService() (*Service, error) {
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, err
	}

	s := &Service{
		conn:  conn,
		queue: make(chan datagram, 1024),
		done:  make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s, nil
}

// Send enqueues a payload for delivery to dest ("host:port"). It never
// blocks: when the queue is full or the service is shut down the payload
// is dropped and logged.
func (s *Service) Send(dest string, payload []byte) {
	if s.isShutdown.Load() {
		logger.Warn("notification dropped: service is shut down", "dest", dest)
		return
	}

	select {
	case s.queue <- datagram{dest: dest, payload: payload}:
	default:
		logger.Warn("notification dropped: queue full", "dest", dest)
	}
}

func (s *Service) run() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case d := <-s.queue:
			s.deliver(d)
		}
	}
}

func (s *Service) deliver(d datagram) {
	addr, err := net.ResolveUDPAddr("udp", d.dest)
	if err != nil {
		logger.Warn("notification dropped: bad destination", "dest", d.dest, "error", err)
		return
	}

	if _, err := s.conn.WriteTo(d.payload, addr); err != nil {
		if !s.isShutdown.Load() {
			logger.Warn("notification send failed", "dest", d.dest, "error", err)
		}
	}
}

// Close stops the writer goroutine and closes the socket. Queued but
// undelivered payloads are dropped.
func (s *Service) Close() error {
	if !s.isShutdown.CompareAndSwap(false, true) {
		return nil
	}

	close(s.done)
	s.wg.Wait()
	return s.conn.Close()
}
