package app

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestApplyPoolSizes(t *testing.T) {
	t.Parallel()

	pcfg, err := pgxpool.ParseConfig("postgres://gambit@localhost:5432/gambit")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	applyPoolSizes(pcfg, 25, 2)
	if pcfg.MaxConns != 25 || pcfg.MinConns != 2 {
		t.Fatalf("pool bounds=%d/%d want 25/2", pcfg.MaxConns, pcfg.MinConns)
	}

	// Zero max keeps the pgx default; zero min is an explicit value.
	prevMax := pcfg.MaxConns
	applyPoolSizes(pcfg, 0, 0)
	if pcfg.MaxConns != prevMax {
		t.Fatalf("MaxConns=%d; zero must not override", pcfg.MaxConns)
	}
	if pcfg.MinConns != 0 {
		t.Fatalf("MinConns=%d want explicit 0", pcfg.MinConns)
	}
}
