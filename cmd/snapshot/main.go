package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_dashboard/internal/adapters/backend"
	"hotel_dashboard/internal/adapters/memstate"
	"hotel_dashboard/internal/adapters/observability"
	redisad "hotel_dashboard/internal/adapters/redis"
	"hotel_dashboard/internal/app"
	"hotel_dashboard/internal/domain"
	"hotel_dashboard/internal/shared"
	mysqlrepo "hotel_dashboard/internal/storage/mysql"
)

// snapshot runs a single aggregation cycle, prints the resulting state as
// JSON on stdout and exits non-zero when the cycle failed.
func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("snapshot failed")
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := shared.Load()
	if err != nil {
		return err
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("base", cfg.BackendBase).
		Str("state_store", cfg.StateStore).
		Msg("snapshot starting")

	var snaps domain.SnapshotRepository
	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		snaps = mysqlrepo.New(db)
	}

	var store domain.StateStore = memstate.New()
	if cfg.StateStore == "redis" {
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		store = redisad.NewStateStore(rc)
	}

	client, err := backend.New(cfg.BackendBase, cfg.BackendToken, cfg.BackendRPS)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}
	dash := app.NewDashboardService(app.NewGateway(client), store, snaps, time.Now)

	st, loadErr := dash.Load(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		log.Error().Err(err).Msg("encode state")
	}

	if loadErr != nil {
		return fmt.Errorf("cycle ended %s: %w", st.Phase, loadErr)
	}
	log.Info().Uint64("generation", st.Generation).Msg("snapshot completed")
	return nil
}
