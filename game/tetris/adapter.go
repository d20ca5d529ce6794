package tetris

import (
	"fmt"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Action types understood by Apply
const (
	ActionStart    = "start"
	ActionPause    = "pause"
	ActionResume   = "resume"
	ActionLeft     = "left"
	ActionRight    = "right"
	ActionDown     = "down"
	ActionMove     = "move"
	ActionRotate   = "rotate"
	ActionHardDrop = "hard_drop"
	ActionReset    = "reset"
)

// Apply dispatches a host command
func (g *Game) Apply(action engine.Action) []engine.Event {
	switch action.Type {
	case ActionStart:
		return g.Start()
	case ActionPause:
		return g.Pause()
	case ActionResume:
		return g.Resume()
	case ActionLeft:
		return g.Move(-1, 0)
	case ActionRight:
		return g.Move(1, 0)
	case ActionDown:
		return g.Move(0, 1)
	case ActionMove:
		return g.Move(action.DX, action.DY)
	case ActionRotate:
		return g.Rotate()
	case ActionHardDrop:
		return g.HardDrop()
	case ActionReset:
		return g.Reset()
	default:
		return []engine.Event{engine.Invalid("unknown tetris action %q", action.Type)}
	}
}

// PossibleActions lists the commands accepted in the current status
func (g *Game) PossibleActions() []engine.Action {
	switch g.status {
	case StatusPlaying:
		return []engine.Action{
			{Type: ActionLeft}, {Type: ActionRight}, {Type: ActionDown},
			{Type: ActionRotate}, {Type: ActionHardDrop}, {Type: ActionPause},
		}
	case StatusPaused:
		return []engine.Action{{Type: ActionResume}}
	default:
		return []engine.Action{{Type: ActionStart}}
	}
}

// Snapshot implements engine.Game
func (g *Game) Snapshot() any {
	return g.State()
}

// Restore replaces the state with a persisted snapshot. Board dimensions
// must match the configuration; the randomizer keeps its own sequence.
func (g *Game) Restore(data []byte) error {
	var s State
	if err := engine.RestoreJSON(data, &s); err != nil {
		return err
	}
	if s.Width != g.opts.Width || s.Height != g.opts.Height {
		return fmt.Errorf("%w: snapshot board %dx%d does not match configured %dx%d",
			engine.ErrInvalidState, s.Width, s.Height, g.opts.Width, g.opts.Height)
	}
	if len(s.Grid) != s.Height || (len(s.Grid) > 0 && len(s.Grid[0]) != s.Width) {
		return fmt.Errorf("%w: grid does not match board size", engine.ErrInvalidState)
	}
	next := TetrominoIndex(s.Next)
	if next < 0 {
		return fmt.Errorf("%w: unknown next piece %q", engine.ErrInvalidState, s.Next)
	}
	if s.Level != s.Lines/linesPerLevel+1 {
		return fmt.Errorf("%w: level %d does not match %d lines", engine.ErrInvalidState, s.Level, s.Lines)
	}

	switch s.Status {
	case StatusPlaying, StatusPaused:
		if s.Active == nil {
			return fmt.Errorf("%w: %s game needs an active piece", engine.ErrInvalidState, s.Status)
		}
	case StatusNotStarted, StatusGameOver:
		s.Active = nil
	default:
		return fmt.Errorf("%w: unknown status %q", engine.ErrInvalidState, s.Status)
	}

	prev := *g
	g.grid = s.Grid.clone()
	g.active = s.Active
	g.next = next
	g.score, g.level, g.lines = s.Score, s.Level, s.Lines
	g.status = s.Status
	if g.active != nil && !g.fits(g.active.Shape, g.active.Origin) {
		*g = prev
		return fmt.Errorf("%w: active piece overlaps the stack", engine.ErrInvalidState)
	}
	return nil
}
