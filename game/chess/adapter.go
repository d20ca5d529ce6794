package chess

import (
	"fmt"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Action types understood by Apply
const (
	ActionSelect    = "select"
	ActionMove      = "move"
	ActionUndo      = "undo"
	ActionSurrender = "surrender"
	ActionReset     = "reset"
)

// Apply dispatches a host command
func (g *Game) Apply(action engine.Action) []engine.Event {
	switch action.Type {
	case ActionSelect:
		return g.SelectSquare(engine.Position{Row: action.Row, Col: action.Col})
	case ActionMove:
		return g.Move(
			engine.Position{Row: action.Row, Col: action.Col},
			engine.Position{Row: action.ToRow, Col: action.ToCol},
		)
	case ActionUndo:
		return g.Undo()
	case ActionSurrender:
		return g.Surrender()
	case ActionReset:
		return g.Reset()
	default:
		return []engine.Event{engine.Invalid("unknown chess action %q", action.Type)}
	}
}

// PossibleActions lists every legal move for the side to move
func (g *Game) PossibleActions() []engine.Action {
	if g.Finished() {
		return nil
	}
	var actions []engine.Action
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			from := engine.Position{Row: r, Col: c}
			if g.state.Board.At(from).Side() != g.state.Turn {
				continue
			}
			for _, to := range g.state.Board.Destinations(from) {
				actions = append(actions, engine.Action{
					Type: ActionMove, Row: r, Col: c, ToRow: to.Row, ToCol: to.Col,
				})
			}
		}
	}
	return actions
}

// View is the snapshot handed to hosts: the position plus its FEN and the
// current selection. Restore reads only the embedded State.
type View struct {
	State
	FEN       string     `json:"fen"`
	Selection *Selection `json:"selection,omitempty"`
}

// Snapshot implements engine.Game
func (g *Game) Snapshot() any {
	return View{State: g.State(), FEN: g.FEN(), Selection: g.Selection()}
}

// Restore replaces the position with a persisted snapshot and clears the selection
func (g *Game) Restore(data []byte) error {
	var s State
	if err := engine.RestoreJSON(data, &s); err != nil {
		return err
	}
	if s.Turn != White && s.Turn != Black {
		return fmt.Errorf("%w: turn must be white or black", engine.ErrInvalidState)
	}
	switch s.Status {
	case StatusPlaying:
		if s.Winner != NoSide {
			return fmt.Errorf("%w: a game in play has no winner", engine.ErrInvalidState)
		}
	case StatusEndedByCapture, StatusEndedBySurrender:
		if s.Winner != White && s.Winner != Black {
			return fmt.Errorf("%w: finished game needs a winner", engine.ErrInvalidState)
		}
	default:
		return fmt.Errorf("%w: unknown status %q", engine.ErrInvalidState, s.Status)
	}
	var taken Captures
	for i, h := range s.History {
		if !InBounds(h.From) || !InBounds(h.To) || h.Moved == Empty {
			return fmt.Errorf("%w: history entry %d is malformed", engine.ErrInvalidState, i)
		}
		if h.Side != White && h.Side != Black {
			return fmt.Errorf("%w: history entry %d has no side", engine.ErrInvalidState, i)
		}
		if h.Captured != Empty {
			list := taken.of(h.Side)
			*list = append(*list, h.Captured)
		}
	}
	if !samePieces(taken.White, s.Captured.White) || !samePieces(taken.Black, s.Captured.Black) {
		return fmt.Errorf("%w: captured pieces do not match the move history", engine.ErrInvalidState)
	}

	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	s.Captured = s.Captured.clone()
	g.state = s
	g.selected = nil
	return nil
}

func samePieces(a, b []Piece) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
