package realtime

import (
	"time"

	"gambit/cmd/internal/game"
)

// Session is one active two-party game. All fields are guarded by the hub
// mutex; nothing outside the hub mutates a session.
type Session struct {
	ID    string
	White *Client
	Black *Client

	// Engine is the rules authority owning the shared game state.
	Engine game.Engine
	// Moves is the canonical SAN record in play order.
	Moves []string

	StartedAt time.Time
}

// SessionID derives the deterministic session id for a pairing. Connection
// ids are unique, so the concatenation is too.
func SessionID(whiteConnID, blackConnID string) string {
	return "game_" + whiteConnID + "_" + blackConnID
}

// SideOf reports which side the given connection holds.
func (s *Session) SideOf(connID string) (game.Side, bool) {
	switch connID {
	case s.White.ConnID:
		return game.SideWhite, true
	case s.Black.ConnID:
		return game.SideBlack, true
	}
	return "", false
}

// Member returns the client holding the given side.
func (s *Session) Member(side game.Side) *Client {
	if side == game.SideBlack {
		return s.Black
	}
	return s.White
}
