package tictactoe

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Mark is the content of one cell
type Mark string

const (
	None Mark = ""
	X    Mark = "X"
	O    Mark = "O"

	Cells = 9
)

// Status values reported by Game.Status
const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDrawn      = "drawn"
)

// Lines are the eight winning triples in scan order: rows, columns, diagonals
var Lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Tally counts wins per player across resets
type Tally struct {
	X int `json:"x"`
	O int `json:"o"`
}

// State is the authoritative line game state
type State struct {
	Board       [Cells]Mark `json:"board"`
	Turn        Mark        `json:"turn"`
	Winner      Mark        `json:"winner,omitempty"`
	WinningLine []int       `json:"winning_line,omitempty"`
	Draw        bool        `json:"draw"`
	Moves       int         `json:"moves"`
	Scores      Tally       `json:"scores"`
}

// Game is a 3x3 three-in-a-row engine
type Game struct {
	state    State
	starting Mark
}

// New creates a game where starting moves first
func New(starting Mark) (*Game, error) {
	if starting != X && starting != O {
		return nil, fmt.Errorf("%w: starting player must be X or O, got %q", engine.ErrInvalidConfig, starting)
	}
	g := &Game{starting: starting}
	g.state.Turn = starting
	return g, nil
}

// State returns a copy of the current state
func (g *Game) State() State {
	s := g.state
	if g.state.WinningLine != nil {
		s.WinningLine = append([]int(nil), g.state.WinningLine...)
	}
	return s
}

// Kind implements engine.Game
func (g *Game) Kind() engine.Kind { return engine.KindTicTacToe }

// Status reports in_progress, won or drawn
func (g *Game) Status() string {
	switch {
	case g.state.Winner != None:
		return StatusWon
	case g.state.Draw:
		return StatusDrawn
	default:
		return StatusInProgress
	}
}

// Finished reports whether the game is decided
func (g *Game) Finished() bool { return g.Status() != StatusInProgress }

// Score returns the winner's tally, or 0 while undecided or drawn
func (g *Game) Score() int {
	switch g.state.Winner {
	case X:
		return g.state.Scores.X
	case O:
		return g.state.Scores.O
	}
	return 0
}

// PlaceMark writes the current player's mark into cell
func (g *Game) PlaceMark(cell int) []engine.Event {
	if cell < 0 || cell >= Cells {
		return []engine.Event{engine.Invalid("cell %d is off the board", cell)}
	}
	if g.Finished() {
		return []engine.Event{engine.Invalid("game is already decided")}
	}
	if g.state.Board[cell] != None {
		return []engine.Event{engine.Invalid("cell %d is already taken by %s", cell, g.state.Board[cell])}
	}

	mark := g.state.Turn
	g.state.Board[cell] = mark
	g.state.Moves++
	pos := &engine.Position{Row: cell / 3, Col: cell % 3}

	events := []engine.Event{{
		Type:     engine.EventMoveMade,
		Message:  fmt.Sprintf("%s placed on cell %d", mark, cell),
		Position: pos,
	}}

	if winner, line, ok := FindWinner(g.state.Board); ok {
		g.state.Winner = winner
		g.state.WinningLine = line[:]
		if winner == X {
			g.state.Scores.X++
		} else {
			g.state.Scores.O++
		}
		return append(events, engine.Event{
			Type:    engine.EventWin,
			Message: fmt.Sprintf("Player %s wins!", winner),
			Value:   g.Score(),
		})
	}

	if g.state.Moves == Cells {
		g.state.Draw = true
		return append(events, engine.Event{Type: engine.EventDraw, Message: "The game ends in a draw"})
	}

	g.state.Turn = opponent(mark)
	return events
}

// Reset clears the board; the score tally survives
func (g *Game) Reset() []engine.Event {
	scores := g.state.Scores
	g.state = State{Turn: g.starting, Scores: scores}
	return []engine.Event{{Type: engine.EventReset, Message: "New game started"}}
}

// ResetScores clears the tally and the board
func (g *Game) ResetScores() []engine.Event {
	g.state.Scores = Tally{}
	g.Reset()
	return []engine.Event{{Type: engine.EventScoresReset, Message: "Scores cleared"}}
}

// FindWinner scans Lines in order and returns the first complete triple
func FindWinner(board [Cells]Mark) (Mark, [3]int, bool) {
	for _, line := range Lines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != None && a == b && a == c {
			return a, line, true
		}
	}
	return None, [3]int{}, false
}

func opponent(m Mark) Mark {
	if m == X {
		return O
	}
	return X
}

// Tick implements engine.Game; the line game has no clock
func (g *Game) Tick() []engine.Event { return nil }

// TickInterval implements engine.Game
func (g *Game) TickInterval() time.Duration { return 0 }
