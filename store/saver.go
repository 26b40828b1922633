package store

import (
	"path/filepath"
	"sync"
	"time"

	"cross/account"
	"cross/engine"
)

// Saver periodically snapshots the user registry and the trade log to
// dataDir, and on demand after account mutations. The trade snapshot
// runs under the engine's write lock, so matching pauses for the
// duration of the file write; the save is a consistent point-in-time
// image in exchange.
type Saver struct {
	dataDir  string
	interval time.Duration
	eng      *engine.Engine
	accounts *account.Store
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewSaver creates a Saver; call Start to begin the periodic loop.
func NewSaver(dataDir string, interval time.Duration, eng *engine.Engine, accounts *account.Store) *Saver {
	return &Saver{
		dataDir:  dataDir,
		interval: interval,
		eng:      eng,
		accounts: accounts,
		done:     make(chan struct{}),
	}
}

// Start launches the periodic save loop.
func (s *Saver) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *Saver) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.SaveNow(); err != nil {
				logger.Error("periodic save failed", "error", err)
			} else {
				logger.Info("completed periodic data save", "dir", s.dataDir)
			}
		}
	}
}

// SaveNow snapshots both files immediately.
func (s *Saver) SaveNow() error {
	if err := SaveUsers(filepath.Join(s.dataDir, UsersFile), s.accounts.Users()); err != nil {
		return err
	}

	return s.eng.Persist(func(trades []*engine.Trade) error {
		return SaveTrades(filepath.Join(s.dataDir, TradesFile), trades)
	})
}

// Stop ends the periodic loop and performs a final save.
func (s *Saver) Stop() error {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return s.SaveNow()
}
