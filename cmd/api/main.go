package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_dashboard/internal/adapters/backend"
	server "hotel_dashboard/internal/adapters/http_server"
	"hotel_dashboard/internal/adapters/memstate"
	"hotel_dashboard/internal/adapters/observability"
	redisad "hotel_dashboard/internal/adapters/redis"
	"hotel_dashboard/internal/app"
	"hotel_dashboard/internal/domain"
	"hotel_dashboard/internal/shared"
	mysqlrepo "hotel_dashboard/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// cycle log is optional
	var snaps domain.SnapshotRepository
	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("mysql open failed")
		}
		log.Info().Msg("database connection ok")
		snaps = mysqlrepo.New(db)
	}

	rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	var store domain.StateStore = memstate.New()
	if cfg.StateStore == "redis" {
		store = redisad.NewStateStore(rc)
	}

	client, err := backend.New(cfg.BackendBase, cfg.BackendToken, cfg.BackendRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend client")
	}
	dash := app.NewDashboardService(app.NewGateway(client), store, snaps, time.Now)
	q := app.NewQueryService(client, redisad.NewFromClient(rc), cfg.CacheTTL, time.Now)

	// first cycle runs at boot; readers see idle/loading until it lands
	go func() {
		if _, err := dash.Load(ctx); err != nil {
			log.Warn().Err(err).Msg("initial dashboard load failed")
		}
	}()
	if cfg.RefreshInterval > 0 {
		go dash.RunEvery(ctx, cfg.RefreshInterval)
	}

	srv := server.New(log.Logger, 30*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Dash: dash, Q: q})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("state_store", cfg.StateStore).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
