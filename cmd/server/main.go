package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"pokebattle/internal/battle"
	"pokebattle/internal/catalog"
	"pokebattle/internal/config"
	"pokebattle/internal/models"
	"pokebattle/internal/server"
	"pokebattle/internal/session"
	"pokebattle/internal/stats"
)

// Build metadata injected via -ldflags at build time
var buildVersion = "dev"

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	resolver, err := catalog.NewDirResolver(cfg.SpriteDir)
	if err != nil {
		logger.Warn().Err(err).Str("dir", cfg.SpriteDir).Msg("no sprite dir, using empty resolver")
		resolver = catalog.StaticResolver{}
	}

	cat := catalog.New(resolver, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	records, err := catalog.FetchRecords(ctx, cfg.CatalogSource)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("source", cfg.CatalogSource).Msg("failed to fetch catalog")
	}
	if err := cat.Load(records); err != nil {
		logger.Fatal().Err(err).Msg("failed to load catalog")
	}

	// The server is created after the session, so the engine and session
	// callbacks close over this variable.
	var srv *server.Server

	eng := battle.New(logger,
		battle.WithDelay(cfg.RoundDelay),
		battle.WithObserver(func(e battle.Entry) {
			if srv != nil {
				srv.Broadcast(models.WsMsg{Type: "log", Data: e})
			}
		}),
	)
	sess := session.New(cat, eng, cfg.TeamCredits, cfg.MaxTeamSize, logger,
		session.WithOnChange(func() {
			if srv != nil {
				srv.Broadcast(models.WsMsg{Type: "changed"})
			}
		}),
	)
	srv = server.New(sess, stats.New(), buildVersion, logger)

	r := mux.NewRouter()
	srv.Routes(r)

	logger.Info().Str("addr", cfg.ListenAddr).Str("version", buildVersion).Int("pokemon", cat.Len()).Msg("pokebattle listening")
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
