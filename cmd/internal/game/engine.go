// Package game defines the rules authority consumed by the realtime hub.
//
// The hub treats an Engine as opaque: it asks whose turn it is, hands over a
// proposed move, and reads back the canonical record, the position snapshot,
// and the terminal outcome. The default binding is chess (see chess.go), but
// nothing in the hub depends on that.
package game

import "errors"

// Side is one of the two turn-taking roles within a session.
type Side string

const (
	SideWhite Side = "w"
	SideBlack Side = "b"
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideWhite {
		return SideBlack
	}
	return SideWhite
}

// ErrIllegalMove marks a move the rules reject in the current position.
var ErrIllegalMove = errors.New("game: illegal move")

// MoveRequest is a proposed move as submitted by a client. Either SAN or the
// From/To squares are set; Promotion is optional and only meaningful for
// coordinate input.
type MoveRequest struct {
	SAN       string
	From      string
	To        string
	Promotion string
}

// Outcome describes how a finished game ended.
type Outcome struct {
	// Winner is empty when Draw is true.
	Winner Side
	Draw   bool
	// Result is the standard score string: "1-0", "0-1", or "1/2-1/2".
	Result string
	// Method names the termination, e.g. "Checkmate" or "Stalemate".
	Method string
}

// Engine holds the rules and state of a single session's game.
//
// Implementations are not safe for concurrent use; the caller serializes
// access (the hub touches engines only under its own mutex).
type Engine interface {
	// Apply validates and applies a proposed move, returning its canonical
	// SAN record. Illegal or unparseable moves return ErrIllegalMove.
	Apply(req MoveRequest) (string, error)
	// Turn reports the side to move.
	Turn() Side
	// Terminal reports whether the game has ended, and how.
	Terminal() (bool, Outcome)
	// Snapshot returns the full position in FEN.
	Snapshot() string
}

// Factory produces a fresh Engine at the initial position, one per session.
type Factory func() Engine
