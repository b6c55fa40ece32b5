// Package realtime contains Gambit's websocket gateway and the matchmaking,
// session, and broadcast core behind it.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gambit/cmd/internal/game"
	v1 "gambit/shared/contracts/game/v1"
)

const archiveWriteTimeout = 5 * time.Second

// Hub owns every piece of cross-connection state: the set of open
// connections (presence), the FIFO matchmaking queue, and the session
// registry with its connection->session index.
//
// Concurrency model: one mutex serializes all mutations, so concurrent
// arrivals observe a total order and pairing never races.
type Hub struct {
	log       *slog.Logger
	newEngine game.Factory
	metrics   *Metrics
	archive   MatchStore

	mu            sync.Mutex
	clients       map[string]*Client // every open connection, by conn id
	queue         []*Client          // unpaired connections, strict arrival order
	sessions      map[string]*Session
	sessionByConn map[string]string // maintained in lockstep with sessions
}

// NewHub constructs a hub. Nil dependencies fall back to a discard logger,
// the chess engine, unregistered metrics, and the in-memory archive.
func NewHub(log *slog.Logger, newEngine game.Factory, metrics *Metrics, archive MatchStore) *Hub {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if newEngine == nil {
		newEngine = game.NewChess()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if archive == nil {
		archive = NewInMemoryStore(0)
	}
	return &Hub{
		log:           log,
		newEngine:     newEngine,
		metrics:       metrics,
		archive:       archive,
		clients:       make(map[string]*Client),
		sessions:      make(map[string]*Session),
		sessionByConn: make(map[string]string),
	}
}

// Connect registers an opened connection: counts it for presence, broadcasts
// the new count, and either pairs it with the longest-waiting connection or
// enqueues it.
func (h *Hub) Connect(c *Client) {
	if c == nil || c.ConnID == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ConnID]; ok {
		h.log.Error("hub.invariant.duplicate_conn_id", "conn_id", c.ConnID)
		return
	}
	h.clients[c.ConnID] = c
	h.broadcastPresenceLocked()
	h.log.Info("hub.connect", "conn_id", c.ConnID, "name", c.Name)

	h.matchLocked(c)
}

// Disconnect runs the disconnect reconciliation in order: queue removal,
// session teardown (the survivor is NOT re-queued), presence decrement.
// Calling it again for the same connection is a no-op, which keeps the
// presence count honest under double-close.
func (h *Hub) Disconnect(c *Client) {
	if c == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ConnID]; !ok {
		return
	}

	for i, w := range h.queue {
		if w.ConnID == c.ConnID {
			h.queue = append(h.queue[:i], h.queue[i+1:]...)
			break
		}
	}
	h.metrics.PlayersWaiting.Set(float64(len(h.queue)))

	if sid, ok := h.sessionByConn[c.ConnID]; ok {
		h.endSessionLocked(sid, endReasonDisconnect, nil)
	}

	delete(h.clients, c.ConnID)
	h.broadcastPresenceLocked()
	h.log.Info("hub.disconnect", "conn_id", c.ConnID, "name", c.Name)
}

// SubmitMove validates turn ownership and legality for a proposed move and
// fans out the result. Submissions from connections with no session, or out
// of turn, are a normal race between the two clients and are dropped without
// a reply. Rejected moves are echoed back to the submitter only.
func (h *Hub) SubmitMove(c *Client, req game.MoveRequest, raw json.RawMessage) {
	if c == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sid, ok := h.sessionByConn[c.ConnID]
	if !ok {
		h.metrics.Moves.WithLabelValues(MoveDiscarded).Inc()
		h.log.Debug("move.discard.no_session", "conn_id", c.ConnID)
		return
	}
	s := h.sessions[sid]
	if s == nil {
		h.log.Error("hub.invariant.dangling_session_index", "conn_id", c.ConnID, "game_id", sid)
		delete(h.sessionByConn, c.ConnID)
		return
	}
	side, ok := s.SideOf(c.ConnID)
	if !ok {
		h.log.Error("hub.invariant.member_mismatch", "conn_id", c.ConnID, "game_id", sid)
		return
	}
	if s.Engine.Turn() != side {
		h.metrics.Moves.WithLabelValues(MoveDiscarded).Inc()
		h.log.Debug("move.discard.out_of_turn", "conn_id", c.ConnID, "game_id", sid, "side", side)
		return
	}

	san, err := applyMove(s.Engine, req)
	if err != nil {
		h.metrics.Moves.WithLabelValues(MoveRejected).Inc()
		h.log.Debug("move.reject", "conn_id", c.ConnID, "game_id", sid, "err", err)
		h.sendTo(c, newEvent(v1.TypeInvalidMove, v1.InvalidMovePayload{Move: raw}))
		return
	}

	s.Moves = append(s.Moves, san)
	h.metrics.Moves.WithLabelValues(MoveApplied).Inc()

	applied := newEvent(v1.TypeMove, v1.MoveAppliedPayload{Turn: string(s.Engine.Turn()), SAN: san})
	state := newEvent(v1.TypeBoardState, v1.BoardStatePayload{FEN: s.Engine.Snapshot()})
	h.sendTo(s.White, applied)
	h.sendTo(s.Black, applied)
	h.sendTo(s.White, state)
	h.sendTo(s.Black, state)

	done, out := s.Engine.Terminal()
	if !done {
		return
	}

	over := v1.GameOverPayload{Result: out.Result, Method: out.Method}
	if !out.Draw {
		over.Winner = s.Member(out.Winner).Name
		over.Loser = s.Member(out.Winner.Other()).Name
	}
	env := newEvent(v1.TypeGameOver, over)
	h.sendTo(s.White, env)
	h.sendTo(s.Black, env)

	// Terminal sessions are destroyed right after the game_over broadcast;
	// a late move then hits the ordinary "no session" discard path.
	h.endSessionLocked(sid, endReasonTerminal, &out)
}

// matchLocked pairs the arriving connection with the oldest waiting entry,
// or enqueues it. The entry that was already waiting plays white.
func (h *Hub) matchLocked(arriving *Client) {
	if sid, ok := h.sessionByConn[arriving.ConnID]; ok {
		h.log.Error("hub.invariant.arrival_already_in_session", "conn_id", arriving.ConnID, "game_id", sid)
		return
	}

	for len(h.queue) > 0 {
		opponent := h.queue[0]
		h.queue = h.queue[1:]
		if sid, ok := h.sessionByConn[opponent.ConnID]; ok {
			h.log.Error("hub.invariant.queued_and_in_session", "conn_id", opponent.ConnID, "game_id", sid)
			continue
		}
		h.startSessionLocked(opponent, arriving)
		h.metrics.PlayersWaiting.Set(float64(len(h.queue)))
		return
	}

	h.queue = append(h.queue, arriving)
	h.metrics.PlayersWaiting.Set(float64(len(h.queue)))
	h.log.Debug("hub.queue.wait", "conn_id", arriving.ConnID, "depth", len(h.queue))
}

func (h *Hub) startSessionLocked(white, black *Client) {
	s := &Session{
		ID:        SessionID(white.ConnID, black.ConnID),
		White:     white,
		Black:     black,
		Engine:    h.newEngine(),
		StartedAt: time.Now().UTC(),
	}
	h.sessions[s.ID] = s
	h.sessionByConn[white.ConnID] = s.ID
	h.sessionByConn[black.ConnID] = s.ID

	h.metrics.SessionsActive.Inc()
	h.metrics.SessionsStarted.Inc()
	h.log.Info("session.start", "game_id", s.ID, "white", white.Name, "black", black.Name)

	h.sendTo(white, newEvent(v1.TypePlayerRole, v1.PlayerRolePayload{Role: string(game.SideWhite)}))
	h.sendTo(black, newEvent(v1.TypePlayerRole, v1.PlayerRolePayload{Role: string(game.SideBlack)}))

	start := newEvent(v1.TypeGameStart, v1.GameStartPayload{GameID: s.ID, White: white.Name, Black: black.Name})
	h.sendTo(white, start)
	h.sendTo(black, start)
}

// endSessionLocked removes a session and clears both membership pointers.
// Idempotent: ending an already-ended session is a no-op.
func (h *Hub) endSessionLocked(sid, reason string, out *game.Outcome) {
	s, ok := h.sessions[sid]
	if !ok {
		return
	}
	delete(h.sessions, sid)
	delete(h.sessionByConn, s.White.ConnID)
	delete(h.sessionByConn, s.Black.ConnID)

	h.metrics.SessionsActive.Dec()
	h.metrics.SessionsEnded.WithLabelValues(reason).Inc()

	rec := MatchRecord{
		GameID:    s.ID,
		White:     s.White.Name,
		Black:     s.Black.Name,
		Result:    "*",
		Method:    "Abandoned",
		Moves:     append([]string(nil), s.Moves...),
		StartedAt: s.StartedAt,
		EndedAt:   time.Now().UTC(),
	}
	if out != nil {
		rec.Result = out.Result
		rec.Method = out.Method
	}
	// Best-effort and off the hot path: the archive may be a database.
	go h.archiveMatch(rec)

	h.log.Info("session.end", "game_id", sid, "reason", reason, "result", rec.Result)
}

func (h *Hub) archiveMatch(rec MatchRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveWriteTimeout)
	defer cancel()

	if err := h.archive.RecordMatch(ctx, rec); err != nil {
		h.log.Error("archive.record.fail", "game_id", rec.GameID, "err", err)
	}
}

// broadcastPresenceLocked pushes the current presence count to every open
// connection and mirrors it into the gauge.
func (h *Hub) broadcastPresenceLocked() {
	h.metrics.ConnectionsOpen.Set(float64(len(h.clients)))

	env := newEvent(v1.TypePlayerCount, v1.PlayerCountPayload{Count: len(h.clients)})
	for _, c := range h.clients {
		h.sendTo(c, env)
	}
}

// sendTo enqueues an envelope for one client. Non-blocking: clients that are
// shutting down are skipped and full queues drop rather than stall the hub.
// Per-connection ordering is preserved by the client's FIFO send queue.
func (h *Hub) sendTo(c *Client, env v1.Envelope) {
	if c == nil {
		return
	}

	select {
	case <-c.Done():
		return
	default:
	}

	select {
	case c.Send <- env:
	default:
		h.log.Debug("hub.send.drop", "conn_id", c.ConnID, "type", env.Type)
	}
}

// applyMove shields the hub from a misbehaving engine: a panic inside the
// rules authority downgrades to an illegal-move rejection instead of taking
// the session or the process down.
func applyMove(e game.Engine, req game.MoveRequest) (san string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: engine panic: %v", game.ErrIllegalMove, r)
		}
	}()
	return e.Apply(req)
}

func newEvent(typ string, payload any) v1.Envelope {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = json.RawMessage(`{}`)
	}
	now := time.Now().UTC()
	return v1.Envelope{
		V:       v1.Version,
		Type:    typ,
		ID:      NewEnvelopeID(now),
		TS:      now,
		Payload: raw,
	}
}
