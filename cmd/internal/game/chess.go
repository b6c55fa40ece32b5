package game

import (
	"strings"

	"github.com/notnil/chess"
)

// NewChess returns a Factory producing chess engines backed by notnil/chess,
// starting from the standard initial position.
func NewChess() Factory {
	return func() Engine {
		return &chessEngine{game: chess.NewGame()}
	}
}

type chessEngine struct {
	game *chess.Game
}

func (e *chessEngine) Apply(req MoveRequest) (string, error) {
	if san := strings.TrimSpace(req.SAN); san != "" {
		return e.applySAN(san)
	}
	return e.applyCoords(req)
}

func (e *chessEngine) applySAN(san string) (string, error) {
	pos := e.game.Position()

	mv, err := chess.AlgebraicNotation{}.Decode(pos, san)
	if err != nil {
		return "", ErrIllegalMove
	}

	// Canonical SAN must be encoded against the pre-move position.
	canonical := chess.AlgebraicNotation{}.Encode(pos, mv)
	if err := e.game.Move(mv); err != nil {
		return "", ErrIllegalMove
	}
	return canonical, nil
}

func (e *chessEngine) applyCoords(req MoveRequest) (string, error) {
	from := strings.ToLower(strings.TrimSpace(req.From))
	to := strings.ToLower(strings.TrimSpace(req.To))
	if from == "" || to == "" {
		return "", ErrIllegalMove
	}
	promo := promoPieceType(strings.ToLower(strings.TrimSpace(req.Promotion)))

	pos := e.game.Position()
	for _, mv := range pos.ValidMoves() {
		if mv.S1().String() != from || mv.S2().String() != to {
			continue
		}
		if p := mv.Promo(); p != chess.NoPieceType {
			// Queen when the client did not say otherwise.
			want := promo
			if want == chess.NoPieceType {
				want = chess.Queen
			}
			if p != want {
				continue
			}
		} else if promo != chess.NoPieceType {
			continue
		}

		canonical := chess.AlgebraicNotation{}.Encode(pos, mv)
		if err := e.game.Move(mv); err != nil {
			return "", ErrIllegalMove
		}
		return canonical, nil
	}
	return "", ErrIllegalMove
}

func (e *chessEngine) Turn() Side {
	if e.game.Position().Turn() == chess.Black {
		return SideBlack
	}
	return SideWhite
}

func (e *chessEngine) Terminal() (bool, Outcome) {
	out := e.game.Outcome()
	if out == chess.NoOutcome {
		return false, Outcome{}
	}

	o := Outcome{
		Result: string(out),
		Method: e.game.Method().String(),
	}
	switch out {
	case chess.WhiteWon:
		o.Winner = SideWhite
	case chess.BlackWon:
		o.Winner = SideBlack
	default:
		o.Draw = true
	}
	return true, o
}

func (e *chessEngine) Snapshot() string {
	return e.game.Position().String()
}

func promoPieceType(s string) chess.PieceType {
	switch s {
	case "q":
		return chess.Queen
	case "r":
		return chess.Rook
	case "b":
		return chess.Bishop
	case "n":
		return chess.Knight
	default:
		return chess.NoPieceType
	}
}
