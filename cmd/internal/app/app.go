// Package app wires the Gambit server runtime: config, logging, metrics,
// HTTP routes, and the realtime gateway.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gambit/cmd/internal/game"
	"gambit/cmd/internal/realtime"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// App is the Gambit server runtime. It owns the HTTP server wiring, the
// metrics registry, the match archive, and the realtime hub behind /ws.
type App struct {
	cfg Config
	log Logger

	registry *prometheus.Registry

	dbPool    *pgxpool.Pool
	dbEnabled bool

	archive realtime.MatchStore
	hub     *realtime.Hub
	ws      *realtime.WSGateway
}

// New constructs a fully wired App instance from config and logger.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	archive, dbPool, dbEnabled, err := newArchive(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub(log, game.NewChess(), realtime.NewMetrics(registry), archive)
	ws := realtime.NewWSGateway(log, hub)

	return &App{
		cfg:       cfg,
		log:       log,
		registry:  registry,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		archive:   archive,
		hub:       hub,
		ws:        ws,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.registry, a.dbPool, a.dbEnabled, a.archive, a.ws)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("server.shutdown.fail", "err", err)
			return err
		}
		return nil
	})

	err := g.Wait()

	if cerr := a.archive.Close(); cerr != nil {
		a.log.Error("archive.close.fail", "err", cerr)
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}

	if err != nil {
		a.log.Error("server.fail", "err", err)
		return err
	}
	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newArchive decides between the Postgres-backed match archive and the
// in-memory dev archive.
//
// Ownership model: the app owns the pool lifecycle; PostgresStore.Close()
// is a no-op.
func newArchive(ctx context.Context, cfg Config, log Logger) (realtime.MatchStore, *pgxpool.Pool, bool, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_archive")
		return realtime.NewInMemoryStore(0), nil, false, nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, false, err
	}

	store, err := realtime.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, false, err
	}

	log.Info("db.enabled.postgres_archive")
	return store, pool, true, nil
}
