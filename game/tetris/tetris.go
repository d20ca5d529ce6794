package tetris

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Status values reported by Game.Status
const (
	StatusNotStarted = "not_started"
	StatusPlaying    = "playing"
	StatusPaused     = "paused"
	StatusGameOver   = "game_over"
)

const (
	pointsPerLine = 100
	linesPerLevel = 10
)

// Grid is the locked fill matrix indexed [row][col], row 0 at the top
type Grid [][]bool

func newGrid(width, height int) Grid {
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]bool, width)
	}
	return g
}

func (g Grid) clone() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]bool(nil), row...)
	}
	return out
}

// Rows renders the grid with '#' for filled cells
func (g Grid) Rows() []string { return renderRows(g) }

// MarshalJSON encodes the grid as row strings
func (g Grid) MarshalJSON() ([]byte, error) { return json.Marshal(renderRows(g)) }

// UnmarshalJSON decodes row strings
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := ParseShape(rows...)
	if err != nil {
		return err
	}
	*g = Grid(parsed)
	return nil
}

// State is the persisted view of a block-stack session
type State struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Grid       Grid   `json:"grid"`
	Active     *Piece `json:"active,omitempty"`
	Next       string `json:"next"`
	Score      int    `json:"score"`
	Level      int    `json:"level"`
	Lines      int    `json:"lines"`
	IntervalMs int    `json:"interval_ms"`
	Status     string `json:"status"`
}

// Game is the falling block engine
type Game struct {
	opts   engine.TetrisOptions
	rand   Randomizer
	grid   Grid
	active *Piece
	next   int
	score  int
	level  int
	lines  int
	status string
}

// New creates a game waiting for Start, or already running when
// opts.StartImmediately is set
func New(opts engine.TetrisOptions, rng engine.Rand) (*Game, error) {
	if opts.Width < engine.MinTetrisWidth || opts.Width > engine.MaxTetrisWidth ||
		opts.Height < engine.MinTetrisHeight || opts.Height > engine.MaxTetrisHeight {
		return nil, fmt.Errorf("%w: board %dx%d out of range", engine.ErrInvalidConfig, opts.Width, opts.Height)
	}
	if opts.MinIntervalMs < engine.MinDropIntervalMs || opts.BaseIntervalMs < opts.MinIntervalMs || opts.IntervalStepMs < 0 {
		return nil, fmt.Errorf("%w: drop intervals base=%d step=%d min=%d", engine.ErrInvalidConfig,
			opts.BaseIntervalMs, opts.IntervalStepMs, opts.MinIntervalMs)
	}
	r, err := NewRandomizer(opts.Randomizer, rng)
	if err != nil {
		return nil, err
	}

	g := &Game{opts: opts, rand: r}
	g.Reset()
	if opts.StartImmediately {
		g.Start()
	}
	return g, nil
}

// State returns a deep copy of the current state
func (g *Game) State() State {
	s := State{
		Width:      g.opts.Width,
		Height:     g.opts.Height,
		Grid:       g.grid.clone(),
		Next:       Tetrominoes[g.next].Name,
		Score:      g.score,
		Level:      g.level,
		Lines:      g.lines,
		IntervalMs: int(g.Interval() / time.Millisecond),
		Status:     g.status,
	}
	if g.active != nil {
		p := *g.active
		p.Shape = Shape(Grid(g.active.Shape).clone())
		s.Active = &p
	}
	return s
}

// Kind implements engine.Game
func (g *Game) Kind() engine.Kind { return engine.KindTetris }

// Status reports not_started, playing, paused or game_over
func (g *Game) Status() string { return g.status }

// Finished reports whether the stack reached the spawn row
func (g *Game) Finished() bool { return g.status == StatusGameOver }

// Score returns the points earned by clearing rows
func (g *Game) Score() int { return g.score }

// Level is lines/10 + 1
func (g *Game) Level() int { return g.level }

// Interval is the automatic drop period for the current level
func (g *Game) Interval() time.Duration {
	ms := g.opts.BaseIntervalMs - (g.level-1)*g.opts.IntervalStepMs
	if ms < g.opts.MinIntervalMs {
		ms = g.opts.MinIntervalMs
	}
	return time.Duration(ms) * time.Millisecond
}

// TickInterval is the drop interval while playing, 0 otherwise
func (g *Game) TickInterval() time.Duration {
	if g.status != StatusPlaying {
		return 0
	}
	return g.Interval()
}

// Reset empties the board and waits for Start
func (g *Game) Reset() []engine.Event {
	g.grid = newGrid(g.opts.Width, g.opts.Height)
	g.active = nil
	g.score, g.lines, g.level = 0, 0, 1
	g.next = g.rand.Next()
	g.status = StatusNotStarted
	return []engine.Event{{Type: engine.EventReset, Message: "Board cleared, start to play"}}
}

// Start begins a new game from an empty board
func (g *Game) Start() []engine.Event {
	g.Reset()
	g.status = StatusPlaying
	events := []engine.Event{{Type: engine.EventStarted, Message: "Game started"}}
	return append(events, g.spawn()...)
}

// Pause stops the clock
func (g *Game) Pause() []engine.Event {
	if g.status != StatusPlaying {
		return []engine.Event{engine.Invalid("cannot pause while %s", g.status)}
	}
	g.status = StatusPaused
	return []engine.Event{{Type: engine.EventPaused, Message: "Paused"}}
}

// Resume restarts the clock after Pause
func (g *Game) Resume() []engine.Event {
	if g.status != StatusPaused {
		return []engine.Event{engine.Invalid("cannot resume while %s", g.status)}
	}
	g.status = StatusPlaying
	return []engine.Event{{Type: engine.EventResumed, Message: "Resumed"}}
}

// spawn places the queued piece at the top and draws a new one. Overlap
// with the stack ends the game.
func (g *Game) spawn() []engine.Event {
	t := Tetrominoes[g.next]
	g.next = g.rand.Next()

	x := g.opts.Width/2 - 1
	if x+t.Shape.Width() > g.opts.Width {
		x = g.opts.Width - t.Shape.Width()
	}
	p := &Piece{Name: t.Name, Shape: t.Shape, Origin: Point{X: x, Y: 0}}

	if !g.fits(p.Shape, p.Origin) {
		g.active = nil
		g.status = StatusGameOver
		return []engine.Event{{
			Type:    engine.EventGameOver,
			Message: fmt.Sprintf("Game over! Score: %d", g.score),
			Value:   g.score,
		}}
	}
	g.active = p
	return nil
}

// fits reports whether shape at origin stays on the board and off the stack
func (g *Game) fits(shape Shape, origin Point) bool {
	for r, row := range shape {
		for c, filled := range row {
			if !filled {
				continue
			}
			x, y := origin.X+c, origin.Y+r
			if x < 0 || x >= g.opts.Width || y < 0 || y >= g.opts.Height {
				return false
			}
			if g.grid[y][x] {
				return false
			}
		}
	}
	return true
}

// Move translates the active piece. A blocked downward move locks it.
func (g *Game) Move(dx, dy int) []engine.Event {
	if g.status != StatusPlaying {
		return []engine.Event{engine.Invalid("cannot move while %s", g.status)}
	}
	if dy < 0 {
		return []engine.Event{engine.Invalid("pieces cannot move up")}
	}
	if dx == 0 && dy == 0 {
		return []engine.Event{engine.Invalid("empty move")}
	}

	target := Point{X: g.active.Origin.X + dx, Y: g.active.Origin.Y + dy}
	if g.fits(g.active.Shape, target) {
		g.active.Origin = target
		return []engine.Event{{
			Type:     engine.EventMoveMade,
			Message:  fmt.Sprintf("%s piece at %d,%d", g.active.Name, target.X, target.Y),
			Position: &engine.Position{Row: target.Y, Col: target.X},
		}}
	}
	if dy > 0 {
		return g.lock()
	}
	return []engine.Event{engine.Invalid("%s piece is blocked", g.active.Name)}
}

// Rotate turns the active piece clockwise if the result fits; no wall kicks
func (g *Game) Rotate() []engine.Event {
	if g.status != StatusPlaying {
		return []engine.Event{engine.Invalid("cannot rotate while %s", g.status)}
	}
	rotated := g.active.Shape.Rotate()
	if !g.fits(rotated, g.active.Origin) {
		return []engine.Event{engine.Invalid("no room to rotate %s piece", g.active.Name)}
	}
	g.active.Shape = rotated
	return []engine.Event{{
		Type:     engine.EventMoveMade,
		Message:  fmt.Sprintf("Rotated %s piece", g.active.Name),
		Position: &engine.Position{Row: g.active.Origin.Y, Col: g.active.Origin.X},
	}}
}

// HardDrop drops the active piece as far as it goes and locks it
func (g *Game) HardDrop() []engine.Event {
	if g.status != StatusPlaying {
		return []engine.Event{engine.Invalid("cannot drop while %s", g.status)}
	}
	for g.fits(g.active.Shape, Point{X: g.active.Origin.X, Y: g.active.Origin.Y + 1}) {
		g.active.Origin.Y++
	}
	return g.lock()
}

// lock writes the active piece into the grid, clears full rows and spawns
func (g *Game) lock() []engine.Event {
	for _, pt := range g.active.Cells() {
		g.grid[pt.Y][pt.X] = true
	}
	events := []engine.Event{{
		Type:     engine.EventMoveMade,
		Message:  fmt.Sprintf("%s piece locked", g.active.Name),
		Position: &engine.Position{Row: g.active.Origin.Y, Col: g.active.Origin.X},
	}}
	g.active = nil

	if cleared := g.clearRows(); cleared > 0 {
		g.score += cleared * pointsPerLine * g.level
		g.lines += cleared
		events = append(events, engine.Event{
			Type:    engine.EventLinesCleared,
			Message: fmt.Sprintf("%d line(s) cleared", cleared),
			Value:   cleared,
		})
		if level := g.lines/linesPerLevel + 1; level != g.level {
			g.level = level
			events = append(events, engine.Event{
				Type:    engine.EventLevelUp,
				Message: fmt.Sprintf("Level %d", level),
				Value:   level,
			})
		}
	}

	return append(events, g.spawn()...)
}

// clearRows removes full rows, shifts the rest down and refills the top
func (g *Game) clearRows() int {
	kept := make(Grid, 0, len(g.grid))
	for _, row := range g.grid {
		full := true
		for _, filled := range row {
			if !filled {
				full = false
				break
			}
		}
		if !full {
			kept = append(kept, row)
		}
	}
	cleared := len(g.grid) - len(kept)
	if cleared == 0 {
		return 0
	}
	g.grid = append(newGrid(g.opts.Width, cleared), kept...)
	return cleared
}

// Tick performs one automatic downward step while playing
func (g *Game) Tick() []engine.Event {
	if g.status != StatusPlaying {
		return nil
	}
	return g.Move(0, 1)
}
