package realtime

import (
	"context"
	"errors"
	"sync"
)

const (
	memMaxMatches      = 1000
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

// InMemoryStore is the archive used when no database is configured.
// It keeps a bounded window of the most recent matches.
type InMemoryStore struct {
	mu      sync.Mutex
	max     int
	matches []MatchRecord // oldest first
}

// NewInMemoryStore constructs an in-memory MatchStore. max <= 0 selects the
// default bound.
func NewInMemoryStore(max int) *InMemoryStore {
	if max <= 0 {
		max = memMaxMatches
	}
	return &InMemoryStore{max: max}
}

// Close closes the store (noop for in-memory).
func (s *InMemoryStore) Close() error { return nil }

// RecordMatch appends a record, evicting the oldest beyond the bound.
func (s *InMemoryStore) RecordMatch(ctx context.Context, rec MatchRecord) error {
	if rec.GameID == "" {
		return errors.New("realtime: missing game id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches = append(s.matches, rec)
	if len(s.matches) > s.max {
		s.matches = s.matches[len(s.matches)-s.max:]
	}
	return nil
}

// RecentMatches returns up to limit records, newest first.
func (s *InMemoryStore) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampRecentLimit(limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.matches)
	if limit > n {
		limit = n
	}

	out := make([]MatchRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.matches[i])
	}
	return out, nil
}

func clampRecentLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}
