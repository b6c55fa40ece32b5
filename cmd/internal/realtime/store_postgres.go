package realtime

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a MatchStore backed by PostgreSQL.
//
// Ownership model:
// - PostgresStore does NOT own the pgx pool. The caller must close the pool.
// - Close() is therefore a no-op.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures PostgresStore behavior.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the DB schema used by this store (default: "gambit").
// The schema name is validated and safely quoted in queries.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return errors.New("realtime: empty schema")
		}
		if !isValidPGIdent(schema) {
			return errors.New("realtime: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a Postgres-backed MatchStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "gambit",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, errors.New("realtime: nil pool")
	}
	return st, nil
}

// Close is a no-op because the pool is owned by the caller.
func (s *PostgresStore) Close() error { return nil }

// RecordMatch inserts a finished-match summary. Re-recording the same game id
// is a no-op, which keeps retries harmless.
func (s *PostgresStore) RecordMatch(ctx context.Context, rec MatchRecord) error {
	if s == nil || s.pool == nil {
		return errors.New("realtime: nil store")
	}
	if rec.GameID == "" {
		return errors.New("realtime: missing game id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	matches := pgIdent(s.schema, "matches")

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+matches+` (game_id, white, black, result, method, moves, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (game_id) DO NOTHING`,
		rec.GameID, rec.White, rec.Black, rec.Result, rec.Method,
		strings.Join(rec.Moves, " "), rec.StartedAt, rec.EndedAt,
	)
	return err
}

// RecentMatches returns up to limit records, newest first.
func (s *PostgresStore) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("realtime: nil store")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampRecentLimit(limit)

	matches := pgIdent(s.schema, "matches")

	rows, err := s.pool.Query(ctx,
		`SELECT game_id, white, black, result, method, moves, started_at, ended_at
		 FROM `+matches+`
		 ORDER BY ended_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MatchRecord, 0, limit)
	for rows.Next() {
		var rec MatchRecord
		var moves string
		if err := rows.Scan(
			&rec.GameID, &rec.White, &rec.Black, &rec.Result, &rec.Method,
			&moves, &rec.StartedAt, &rec.EndedAt,
		); err != nil {
			return nil, err
		}
		rec.Moves = strings.Fields(moves)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var pgIdentRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func isValidPGIdent(s string) bool {
	return pgIdentRE.MatchString(s)
}

func pgIdent(schema, table string) string {
	// pgx.Identifier safely quotes identifiers, preventing SQL injection.
	return pgx.Identifier{schema, table}.Sanitize()
}
