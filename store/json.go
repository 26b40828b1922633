// Package store persists the user registry and the trade log as JSON
// files. Saves write to a temporary file in the same directory and
// rename it into place, so a crash mid-save never corrupts the previous
// snapshot.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"cross/engine"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger allows setting a custom logger
func SetLogger(l *slog.Logger) {
	logger = l
}

const (
	// UsersFile is the file name of the credential snapshot.
	UsersFile = "users.json"
	// TradesFile is the file name of the trade log snapshot.
	TradesFile = "trades.json"
)

type usersFile struct {
	Users map[string]string `json:"users"`
}

type tradesFile struct {
	Trades []*engine.Trade `json:"trades"`
}

// LoadUsers reads the credential snapshot. A missing file means a fresh
// venue and yields an empty map, not an error.
func LoadUsers(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("users file not found, starting empty", "path", path)
			return make(map[string]string), nil
		}
		return nil, err
	}

	var root usersFile
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Users == nil {
		root.Users = make(map[string]string)
	}

	return root.Users, nil
}

// SaveUsers writes the credential snapshot atomically.
func SaveUsers(path string, users map[string]string) error {
	return writeAtomic(path, usersFile{Users: users})
}

// LoadTrades reads the trade log snapshot. A missing file yields an
// empty log, not an error.
func LoadTrades(path string) ([]*engine.Trade, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("trades file not found, starting empty", "path", path)
			return nil, nil
		}
		return nil, err
	}

	var root tradesFile
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	return root.Trades, nil
}

// SaveTrades writes the trade log snapshot atomically.
func SaveTrades(path string, trades []*engine.Trade) error {
	if trades == nil {
		trades = []*engine.Trade{}
	}
	return writeAtomic(path, tradesFile{Trades: trades})
}

func writeAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
