package tictactoe

import (
	"fmt"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Action types understood by Apply
const (
	ActionPlace       = "place"
	ActionReset       = "reset"
	ActionResetScores = "reset_scores"
)

// Apply dispatches a host command
func (g *Game) Apply(action engine.Action) []engine.Event {
	switch action.Type {
	case ActionPlace:
		return g.PlaceMark(action.Index)
	case ActionReset:
		return g.Reset()
	case ActionResetScores:
		return g.ResetScores()
	default:
		return []engine.Event{engine.Invalid("unknown tictactoe action %q", action.Type)}
	}
}

// PossibleActions lists every empty cell while the game is undecided
func (g *Game) PossibleActions() []engine.Action {
	if g.Finished() {
		return nil
	}
	var actions []engine.Action
	for i, m := range g.state.Board {
		if m == None {
			actions = append(actions, engine.Action{Type: ActionPlace, Index: i})
		}
	}
	return actions
}

// Snapshot implements engine.Game
func (g *Game) Snapshot() any {
	return g.State()
}

// Restore replaces the state with a persisted snapshot
func (g *Game) Restore(data []byte) error {
	var s State
	if err := engine.RestoreJSON(data, &s); err != nil {
		return err
	}

	xCount, oCount := 0, 0
	for _, m := range s.Board {
		switch m {
		case X:
			xCount++
		case O:
			oCount++
		case None:
		default:
			return fmt.Errorf("%w: unknown mark %q", engine.ErrInvalidState, m)
		}
	}
	if s.Turn != X && s.Turn != O {
		return fmt.Errorf("%w: turn must be X or O", engine.ErrInvalidState)
	}
	if xCount+oCount != s.Moves {
		return fmt.Errorf("%w: %d marks on board but %d moves recorded", engine.ErrInvalidState, xCount+oCount, s.Moves)
	}
	if s.Winner != None && s.Winner != X && s.Winner != O {
		return fmt.Errorf("%w: unknown winner %q", engine.ErrInvalidState, s.Winner)
	}
	if s.Winner != None && s.Draw {
		return fmt.Errorf("%w: game cannot be both won and drawn", engine.ErrInvalidState)
	}
	winner, line, won := FindWinner(s.Board)
	if s.Winner != winner {
		return fmt.Errorf("%w: board is won by %q but winner is %q", engine.ErrInvalidState, winner, s.Winner)
	}
	s.WinningLine = nil
	if won {
		s.WinningLine = line[:]
	}

	g.state = s
	return nil
}
