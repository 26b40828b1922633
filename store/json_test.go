package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cross/account"
	"cross/engine"
)

func TestUsersRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), UsersFile)

	users := map[string]string{"alice": "secret1!", "bob": "other2@"}
	require.NoError(t, SaveUsers(path, users))

	loaded, err := LoadUsers(path)
	require.NoError(t, err)
	assert.Equal(t, users, loaded)
}

func TestLoadUsersMissingFile(t *testing.T) {
	loaded, err := LoadUsers(filepath.Join(t.TempDir(), UsersFile))
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestTradesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), TradesFile)

	trades := []*engine.Trade{
		{OrderID: 1, Side: engine.Bid, OrderKind: engine.Limit, Size: 1_000, Price: 100_000, Timestamp: 1756700000000},
		{OrderID: 2, Side: engine.Ask, OrderKind: engine.Market, Size: 1_000, Price: 100_000, Timestamp: 1756700000000},
	}
	require.NoError(t, SaveTrades(path, trades))

	loaded, err := LoadTrades(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, trades[0], loaded[0])
	assert.Equal(t, trades[1], loaded[1])
}

func TestLoadTradesMissingFile(t *testing.T) {
	loaded, err := LoadTrades(filepath.Join(t.TempDir(), TradesFile))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveCreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", UsersFile)
	require.NoError(t, SaveUsers(path, map[string]string{}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveTrades(filepath.Join(dir, TradesFile), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, TradesFile, entries[0].Name())
}

func TestSaverSaveNow(t *testing.T) {
	dir := t.TempDir()

	accounts := account.NewStore()
	require.NoError(t, accounts.Register("alice", "secret1!"))

	eng := engine.NewEngine()
	_, err := eng.InsertLimitOrder(engine.Ask, 1_000, 100_000, "alice")
	require.NoError(t, err)
	_, err = eng.InsertLimitOrder(engine.Bid, 1_000, 100_000, "alice")
	require.NoError(t, err)

	saver := NewSaver(dir, time.Minute, eng, accounts)
	require.NoError(t, saver.SaveNow())

	users, err := LoadUsers(filepath.Join(dir, UsersFile))
	require.NoError(t, err)
	assert.Equal(t, "secret1!", users["alice"])

	trades, err := LoadTrades(filepath.Join(dir, TradesFile))
	require.NoError(t, err)
	assert.Len(t, trades, 2)
}

func TestSaverStopPerformsFinalSave(t *testing.T) {
	dir := t.TempDir()

	accounts := account.NewStore()
	eng := engine.NewEngine()

	saver := NewSaver(dir, time.Hour, eng, accounts)
	saver.Start()

	require.NoError(t, accounts.Register("late", "secret1!"))
	require.NoError(t, saver.Stop())

	users, err := LoadUsers(filepath.Join(dir, UsersFile))
	require.NoError(t, err)
	assert.Contains(t, users, "late")
}
