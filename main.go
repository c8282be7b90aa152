package main

import (
	"flag"
	"net/http"

	"go.uber.org/zap"

	"safari-zone/server/internal/store"
)

func main() {
	var (
		addr   string
		dbPath string
		seed   int64
	)
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&dbPath, "db", "safari.db", "path to the zone configuration database")
	flag.Int64Var(&seed, "seed", 0, "fixed RNG seed for new games (0 uses wall-clock seeding)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	st, err := store.Open(dbPath)
	if err != nil {
		logger.Fatal("open zone store", zap.Error(err))
	}
	defer st.Close()
	if err := st.Migrate(); err != nil {
		logger.Fatal("migrate zone store", zap.Error(err))
	}

	hub := newHub(logger, defaultDex, systemClock{}, st, seed)
	api := newAPIServer(hub, logger)

	logger.Info("safari server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, api.routes()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
