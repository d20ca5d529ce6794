package puzzle

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Status values reported by Game.Status
const (
	StatusNotStarted = "not_started"
	StatusPlaying    = "playing"
	StatusSolved     = "solved"
)

// Scoring constants
const (
	BaseScore      = 1000
	MoveCost       = 10
	MinimumScore   = 100
	SecondsPerTick = 1
)

// State is the persisted view of a puzzle session
type State struct {
	Board     Board `json:"board"`
	Moves     int   `json:"moves"`
	Elapsed   int   `json:"elapsed"`
	Started   bool  `json:"started"`
	Solved    bool  `json:"solved"`
	Score     int   `json:"score"`
	BestScore int   `json:"best_score,omitempty"`
}

// Game is the sliding tile engine
type Game struct {
	board   *Board
	moves   int
	elapsed int
	started bool
	solved  bool
	score   int
	best    int
	steps   int
	rng     engine.Rand
}

// New creates a solved, not yet started puzzle. steps is the length of the
// random walk performed by Shuffle.
func New(size, steps int, rng engine.Rand) (*Game, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: puzzle needs a random source", engine.ErrInvalidConfig)
	}
	if steps < engine.MinShuffleSteps || steps > engine.MaxShuffleSteps {
		return nil, fmt.Errorf("%w: shuffle steps must be between %d and %d, got %d",
			engine.ErrInvalidConfig, engine.MinShuffleSteps, engine.MaxShuffleSteps, steps)
	}
	board, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	return &Game{board: board, steps: steps, rng: rng}, nil
}

// ComputeScore applies the completion formula max(1000 - moves*10 - seconds, 100)
func ComputeScore(moves, seconds int) int {
	score := BaseScore - moves*MoveCost - seconds
	if score < MinimumScore {
		return MinimumScore
	}
	return score
}

// State returns a copy of the current state
func (g *Game) State() State {
	return State{
		Board:     *g.board.Clone(),
		Moves:     g.moves,
		Elapsed:   g.elapsed,
		Started:   g.started,
		Solved:    g.solved,
		Score:     g.score,
		BestScore: g.best,
	}
}

// Board returns a copy of the grid
func (g *Game) Board() *Board { return g.board.Clone() }

// Kind implements engine.Game
func (g *Game) Kind() engine.Kind { return engine.KindPuzzle }

// Status reports not_started, playing or solved
func (g *Game) Status() string {
	switch {
	case g.solved:
		return StatusSolved
	case g.started:
		return StatusPlaying
	default:
		return StatusNotStarted
	}
}

// Finished reports whether the puzzle has been completed
func (g *Game) Finished() bool { return g.solved }

// Score returns the completion score, 0 until solved
func (g *Game) Score() int { return g.score }

// SetBestScore seeds the externally stored best result
func (g *Game) SetBestScore(score int) { g.best = score }

// BestScore returns the best known result, 0 when none
func (g *Game) BestScore() int { return g.best }

// Initialize lays out a solved board of the given size and clears counters
func (g *Game) Initialize(size int) []engine.Event {
	board, err := NewBoard(size)
	if err != nil {
		return []engine.Event{engine.Invalid("puzzle size must be 3 or 4, got %d", size)}
	}
	g.board = board
	g.moves, g.elapsed, g.score = 0, 0, 0
	g.started, g.solved = false, false
	return []engine.Event{{Type: engine.EventReset, Message: fmt.Sprintf("%dx%d puzzle ready, shuffle to start", size, size)}}
}

// Reset re-initializes the puzzle at its current size
func (g *Game) Reset() []engine.Event {
	return g.Initialize(g.board.Size)
}

// Shuffle walks the blank through random legal swaps and starts the clock.
// The walk continues past its configured length if it lands on the solved layout.
func (g *Game) Shuffle() []engine.Event {
	for i := 0; i < g.steps || g.board.Solved(); i++ {
		neighbors := g.board.Neighbors()
		g.board.Slide(neighbors[g.rng.Intn(len(neighbors))])
	}
	g.moves, g.elapsed, g.score = 0, 0, 0
	g.started, g.solved = true, false
	return []engine.Event{{Type: engine.EventShuffled, Message: fmt.Sprintf("Puzzle shuffled, order tiles 1-%d", len(g.board.Tiles)-1)}}
}

// MoveTile slides the tile at index into the blank
func (g *Game) MoveTile(index int) []engine.Event {
	if g.solved {
		return []engine.Event{engine.Invalid("puzzle is already solved")}
	}
	if !g.started {
		return []engine.Event{engine.Invalid("shuffle the puzzle before moving tiles")}
	}
	tile := 0
	if index >= 0 && index < len(g.board.Tiles) {
		tile = g.board.Tiles[index]
	}
	if !g.board.Slide(index) {
		return []engine.Event{engine.Invalid("tile at %d is not next to the blank", index)}
	}
	g.moves++

	events := []engine.Event{{
		Type:     engine.EventMoveMade,
		Message:  fmt.Sprintf("Moved tile %d", tile),
		Position: &engine.Position{Row: index / g.board.Size, Col: index % g.board.Size},
		Value:    g.moves,
	}}

	if !g.board.Solved() {
		return events
	}

	g.solved, g.started = true, false
	g.score = ComputeScore(g.moves, g.elapsed)
	if g.best == 0 || g.score > g.best {
		g.best = g.score
		return append(events, engine.Event{
			Type:    engine.EventNewBestScore,
			Message: fmt.Sprintf("New best score: %d points!", g.score),
			Value:   g.score,
		})
	}
	return append(events, engine.Event{
		Type:    engine.EventSolved,
		Message: fmt.Sprintf("Solved in %d moves and %d seconds", g.moves, g.elapsed),
		Value:   g.score,
	})
}

// Tick advances the clock by one second while a shuffled puzzle is unsolved
func (g *Game) Tick() []engine.Event {
	if !g.started || g.solved {
		return nil
	}
	g.elapsed += SecondsPerTick
	return nil
}

// TickInterval is one second while the clock runs
func (g *Game) TickInterval() time.Duration {
	if g.started && !g.solved {
		return time.Second
	}
	return 0
}
