package app

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbConnectTimeout = 3 * time.Second

// NewDBPool builds the pgx pool behind the match archive and verifies a
// connection can actually be acquired before handing it out. The archive is
// optional, so a bad GAMBIT_DATABASE_URL should fail startup loudly rather
// than surface later as dropped match records.
//
// It does not create or migrate the matches table; the schema is managed
// outside the server.
func NewDBPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	applyPoolSizes(pcfg, cfg.DBMaxConns, cfg.DBMinConns)

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	if err := PingDB(ctx, pool, dbConnectTimeout); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// applyPoolSizes overrides the pool bounds where configured. Archive writes
// are one short INSERT per finished game, so the defaults stay small.
func applyPoolSizes(pcfg *pgxpool.Config, maxConns, minConns int32) {
	if maxConns > 0 {
		pcfg.MaxConns = maxConns
	}
	if minConns >= 0 {
		pcfg.MinConns = minConns
	}
}

// PingDB checks if we can acquire a connection within timeout. Readiness
// probes reuse it against the live pool.
func PingDB(parent context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	conn.Release()
	return nil
}
