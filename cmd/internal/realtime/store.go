package realtime

import (
	"context"
	"time"
)

// MatchRecord is the canonical summary of a finished (or abandoned) game.
type MatchRecord struct {
	GameID string   `json:"game_id"`
	White  string   `json:"white"`
	Black  string   `json:"black"`
	Result string   `json:"result"` // "1-0", "0-1", "1/2-1/2", or "*" when abandoned
	Method string   `json:"method"` // e.g. "Checkmate", "Stalemate", "Abandoned"
	Moves  []string `json:"moves"`  // canonical SAN, in play order

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// MatchStore archives completed matches.
//
// Live session state is never stored: a restart always begins with an empty
// queue and no sessions. The archive only receives a summary after a session
// ends, and writes are best-effort.
type MatchStore interface {
	RecordMatch(ctx context.Context, rec MatchRecord) error
	// RecentMatches returns up to limit records, newest first.
	RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error)
	Close() error
}
