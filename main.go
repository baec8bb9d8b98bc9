package main

import (
	"flag"
	"net/http"

	"crossrealm/internal/broadcast"
	"crossrealm/internal/config"
	"crossrealm/internal/httpapi"
	"crossrealm/internal/logging"
	"crossrealm/internal/match"
	"crossrealm/internal/settlement"
	"crossrealm/internal/storage"
	"crossrealm/internal/ws"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	addr := flag.String("addr", "", "listen address (overrides ADDR)")
	flag.Parse()

	cfg := config.Load()
	if *debug {
		cfg.Debug = true
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	log := logging.New(cfg.Debug)
	log.Info().Str("commit", commit).Str("built", buildDate).Msg("crossrealm starting")

	var store *storage.Store
	if cfg.DatabaseURL != "" {
		db, err := storage.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		store = storage.NewStore(db)
		log.Info().Msg("database connected")
	} else {
		log.Warn().Msg("DATABASE_URL not set, game records disabled")
	}

	var settle settlement.Requester = settlement.NewLogRequester(log)
	if store != nil {
		settle = settlement.NewStoreRequester(store, log)
	}

	router := broadcast.NewRouter(log)
	registry := match.NewRegistry(match.RegistryConfig{
		Notifier:    router,
		Settlement:  settle,
		Store:       store,
		GraceWindow: cfg.GraceWindow,
		Logger:      log,
	})
	server := ws.NewServer(registry, router, store, cfg.AllowedOrigins, log)

	api := httpapi.New(registry, store, server, version(), log)
	mux := api.Routes()
	mux.Get("/ws", server.HandleWS)

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
