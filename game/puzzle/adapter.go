package puzzle

import (
	"fmt"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Action types understood by Apply
const (
	ActionMoveTile   = "move_tile"
	ActionShuffle    = "shuffle"
	ActionInitialize = "initialize"
	ActionReset      = "reset"
)

// Apply dispatches a host command. initialize reads the new size from Index.
func (g *Game) Apply(action engine.Action) []engine.Event {
	switch action.Type {
	case ActionMoveTile:
		return g.MoveTile(action.Index)
	case ActionShuffle:
		return g.Shuffle()
	case ActionInitialize:
		return g.Initialize(action.Index)
	case ActionReset:
		return g.Reset()
	default:
		return []engine.Event{engine.Invalid("unknown puzzle action %q", action.Type)}
	}
}

// PossibleActions lists the tiles next to the blank, or shuffle when the
// puzzle is not running
func (g *Game) PossibleActions() []engine.Action {
	if !g.started || g.solved {
		return []engine.Action{{Type: ActionShuffle}}
	}
	neighbors := g.board.Neighbors()
	actions := make([]engine.Action, 0, len(neighbors))
	for _, idx := range neighbors {
		actions = append(actions, engine.Action{Type: ActionMoveTile, Index: idx})
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
	if err := s.Board.validate(); err != nil {
		return err
	}
	if s.Moves < 0 || s.Elapsed < 0 {
		return fmt.Errorf("%w: counters must not be negative", engine.ErrInvalidState)
	}
	if s.Solved && s.Started {
		return fmt.Errorf("%w: a solved puzzle cannot be running", engine.ErrInvalidState)
	}

	g.board = s.Board.Clone()
	g.moves, g.elapsed = s.Moves, s.Elapsed
	g.started, g.solved = s.Started, s.Solved
	g.score = s.Score
	if s.BestScore > g.best {
		g.best = s.BestScore
	}
	return nil
}
