// Package v1 defines the Gambit Game Protocol v1 contract.
//
// It is intentionally stable and dependency-light, and is shared between the
// server and clients so the wire protocol stays authoritative in one place.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Version is the protocol version identifier embedded into every envelope.
const Version = "v1"

// Subprotocol is the websocket subprotocol clients must negotiate.
const Subprotocol = "gambit.game.v1"

// Type constants (wire-stable).
const (
	// TypeMove is both the client move proposal (client -> server) and the
	// applied-move record fanned out to a session (server -> session members).
	TypeMove = "move"

	// TypePlayerRole tells a client which side it plays (server -> client, unicast, once at pairing).
	TypePlayerRole = "player_role"
	// TypeGameStart announces a newly created session (server -> session members).
	TypeGameStart = "game_start"
	// TypeBoardState carries the full position snapshot after an applied move (server -> session members).
	TypeBoardState = "board_state"
	// TypeInvalidMove echoes a rejected move back to its submitter only (server -> client, unicast).
	TypeInvalidMove = "invalid_move"
	// TypeGameOver announces a finished game (server -> session members).
	TypeGameOver = "game_over"
	// TypePlayerCount broadcasts the process-wide presence count (server -> everyone).
	TypePlayerCount = "player_count"
	// TypeError is a generic protocol-error envelope (server -> client, unicast).
	TypeError = "error"
)

// Envelope is the canonical wire wrapper.
type Envelope struct {
	V       string          `json:"v"`
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	TS      time.Time       `json:"ts,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Validate performs strict structural validation for an Envelope.
func (e Envelope) Validate() error {
	if strings.TrimSpace(e.V) == "" {
		return errors.New("missing field: v")
	}
	if e.V != Version {
		return fmt.Errorf("unsupported protocol version: %q", e.V)
	}
	if strings.TrimSpace(e.Type) == "" {
		return errors.New("missing field: type")
	}

	switch e.Type {
	case TypeMove,
		TypePlayerRole,
		TypeGameStart,
		TypeBoardState,
		TypeInvalidMove,
		TypeGameOver,
		TypePlayerCount,
		TypeError:
		return nil
	default:
		return fmt.Errorf("unknown type: %q", e.Type)
	}
}

// ---- Payloads ----

// MovePayload is a client move proposal. Either SAN or the from/to squares
// must be set; the server validates nothing beyond handing it to the rules
// engine.
type MovePayload struct {
	SAN       string `json:"san,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
}

// PlayerRolePayload assigns a side ("w" or "b") at pairing time.
type PlayerRolePayload struct {
	Role string `json:"role"`
}

// GameStartPayload announces a session and the display names per side.
type GameStartPayload struct {
	GameID string `json:"game_id"`
	White  string `json:"white"`
	Black  string `json:"black"`
}

// MoveAppliedPayload is the canonical record of an accepted move.
// Turn is the side to move after the move was applied.
type MoveAppliedPayload struct {
	Turn string `json:"turn"`
	SAN  string `json:"san"`
}

// BoardStatePayload is the full position snapshot in FEN.
type BoardStatePayload struct {
	FEN string `json:"fen"`
}

// InvalidMovePayload echoes the rejected move payload back verbatim.
type InvalidMovePayload struct {
	Move json.RawMessage `json:"move"`
}

// GameOverPayload names the winner and loser by display name. Winner and
// Loser are empty on drawn outcomes; Result/Method always describe the end.
type GameOverPayload struct {
	Winner string `json:"winner,omitempty"`
	Loser  string `json:"loser,omitempty"`
	Result string `json:"result"`
	Method string `json:"method"`
}

// PlayerCountPayload carries the process-wide count of open connections.
type PlayerCountPayload struct {
	Count int `json:"count"`
}

// ErrorPayload is a generic error response payload.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
