package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cross/account"
	"cross/engine"
	"cross/notify"
	"cross/server"
	"cross/store"
)

func main() {
	var (
		addr         = flag.String("addr", ":7777", "tcp listen address")
		dataDir      = flag.String("data", "data", "directory for users.json and trades.json")
		saveInterval = flag.Duration("save-interval", 30*time.Second, "periodic persistence interval")
		debug        = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	engine.SetLogger(logger)
	server.SetLogger(logger)
	notify.SetLogger(logger)
	store.SetLogger(logger)

	users, err := store.LoadUsers(filepath.Join(*dataDir, store.UsersFile))
	if err != nil {
		logger.Error("load users failed", "err", err)
		os.Exit(1)
	}
	trades, err := store.LoadTrades(filepath.Join(*dataDir, store.TradesFile))
	if err != nil {
		logger.Error("load trades failed", "err", err)
		os.Exit(1)
	}

	accounts := account.NewStore(account.WithUsers(users))

	udp, err := notify.NewService()
	if err != nil {
		logger.Error("udp notifier init failed", "err", err)
		os.Exit(1)
	}
	defer udp.Close()

	eng := engine.NewEngine(
		engine.WithTrades(trades),
		engine.WithNotifier(notify.NewTradeFanout(udp, accounts)),
	)

	saver := store.NewSaver(*dataDir, *saveInterval, eng, accounts)
	saver.Start()

	srv := server.New(*addr, eng, accounts, server.WithPersistHook(func() {
		if err := saver.SaveNow(); err != nil {
			logger.Error("persist failed", "err", err)
		}
	}))
	if err := srv.Listen(); err != nil {
		logger.Error("listen failed", "addr", *addr, "err", err)
		os.Exit(1)
	}
	logger.Info("venue listening", "addr", srv.Addr().String(), "data", *dataDir)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigc
		logger.Info("shutting down", "signal", sig.String())
		srv.Stop()
	}()

	if err := srv.Serve(); err != nil {
		logger.Error("serve failed", "err", err)
	}

	if err := saver.Stop(); err != nil {
		logger.Error("final save failed", "err", err)
		os.Exit(1)
	}
	logger.Info("venue stopped")
}
