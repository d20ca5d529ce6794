package chess

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Status values reported by Game.Status
const (
	StatusPlaying          = "playing"
	StatusEndedByCapture   = "ended_by_capture"
	StatusEndedBySurrender = "ended_by_surrender"
)

// HistoryEntry is the reversible delta of one completed move
type HistoryEntry struct {
	From     engine.Position `json:"from"`
	To       engine.Position `json:"to"`
	Moved    Piece           `json:"moved"`
	Captured Piece           `json:"captured,omitempty"`
	Side     Side            `json:"side"`
	Notation string          `json:"notation"`
}

// Captures holds the pieces each side has taken
type Captures struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func (c Captures) clone() Captures {
	return Captures{
		White: append([]Piece{}, c.White...),
		Black: append([]Piece{}, c.Black...),
	}
}

func (c *Captures) of(side Side) *[]Piece {
	if side == White {
		return &c.White
	}
	return &c.Black
}

// State is the authoritative chess position. Selection is not part of it.
type State struct {
	Board    Board          `json:"board"`
	Turn     Side           `json:"turn"`
	Status   string         `json:"status"`
	Winner   Side           `json:"winner,omitempty"`
	History  []HistoryEntry `json:"history"`
	Captured Captures       `json:"captured"`
}

// Selection is the transient click state shown to players
type Selection struct {
	Square       engine.Position   `json:"square"`
	Destinations []engine.Position `json:"destinations"`
}

// Game is the simplified chess engine: movement geometry only, and the game
// ends when a king is captured or a side surrenders
type Game struct {
	state    State
	selected *Selection
}

// New returns a game in the standard starting position, white to move
func New() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// State returns a deep copy of the position
func (g *Game) State() State {
	s := g.state
	s.History = append([]HistoryEntry{}, g.state.History...)
	s.Captured = g.state.Captured.clone()
	return s
}

// Selection returns the selected square and its cached destinations, or nil
func (g *Game) Selection() *Selection {
	if g.selected == nil {
		return nil
	}
	return &Selection{
		Square:       g.selected.Square,
		Destinations: append([]engine.Position(nil), g.selected.Destinations...),
	}
}

// Kind implements engine.Game
func (g *Game) Kind() engine.Kind { return engine.KindChess }

// Status reports playing, ended_by_capture or ended_by_surrender
func (g *Game) Status() string { return g.state.Status }

// Finished reports whether the game has ended
func (g *Game) Finished() bool { return g.state.Status != StatusPlaying }

// Score is the material the winner captured, 0 while playing
func (g *Game) Score() int {
	if g.state.Winner == NoSide {
		return 0
	}
	total := 0
	for _, p := range *g.state.Captured.of(g.state.Winner) {
		total += p.Value()
	}
	return total
}

// Reset restores the standard setup
func (g *Game) Reset() []engine.Event {
	g.state = State{
		Board:    StandardBoard(),
		Turn:     White,
		Status:   StatusPlaying,
		History:  []HistoryEntry{},
		Captured: Captures{White: []Piece{}, Black: []Piece{}},
	}
	g.selected = nil
	return []engine.Event{{Type: engine.EventReset, Message: "New game, white to move"}}
}

// Destinations returns the legal destinations of the piece at pos
func (g *Game) Destinations(pos engine.Position) []engine.Position {
	return g.state.Board.Destinations(pos)
}

// SelectSquare handles a click on pos: select an own piece, deselect it,
// switch to another own piece, or move to a cached destination
func (g *Game) SelectSquare(pos engine.Position) []engine.Event {
	if g.Finished() {
		return []engine.Event{engine.Invalid("game is over")}
	}
	if !InBounds(pos) {
		return []engine.Event{engine.Invalid("square %d,%d is off the board", pos.Row, pos.Col)}
	}

	if sel := g.selected; sel != nil {
		if sel.Square == pos {
			g.selected = nil
			return []engine.Event{{Type: engine.EventDeselected, Message: "Selection cleared", Position: &pos}}
		}
		for _, dest := range sel.Destinations {
			if dest == pos {
				g.selected = nil
				return g.executeMove(sel.Square, pos)
			}
		}
	}

	piece := g.state.Board.At(pos)
	if piece.Side() != g.state.Turn {
		g.selected = nil
		return []engine.Event{engine.Invalid("%s is not a legal choice for %s", Square(pos), g.state.Turn)}
	}

	dests := g.state.Board.Destinations(pos)
	g.selected = &Selection{Square: pos, Destinations: dests}
	return []engine.Event{{
		Type:     engine.EventSelected,
		Message:  fmt.Sprintf("Selected %s on %s, %d moves available", piece, Square(pos), len(dests)),
		Position: &pos,
		Value:    len(dests),
	}}
}

// Move validates and executes a move from one square to another
func (g *Game) Move(from, to engine.Position) []engine.Event {
	if g.Finished() {
		return []engine.Event{engine.Invalid("game is over")}
	}
	if !InBounds(from) || !InBounds(to) {
		return []engine.Event{engine.Invalid("move leaves the board")}
	}
	if g.state.Board.At(from).Side() != g.state.Turn {
		return []engine.Event{engine.Invalid("no %s piece on %s", g.state.Turn, Square(from))}
	}
	for _, dest := range g.state.Board.Destinations(from) {
		if dest == to {
			g.selected = nil
			return g.executeMove(from, to)
		}
	}
	return []engine.Event{engine.Invalid("%s-%s is not a legal move", Square(from), Square(to))}
}

// executeMove applies an already validated move
func (g *Game) executeMove(from, to engine.Position) []engine.Event {
	moved := g.state.Board.At(from)
	captured := g.state.Board.At(to)
	mover := g.state.Turn

	g.state.Board.set(to, moved)
	g.state.Board.set(from, Empty)
	if captured != Empty {
		list := g.state.Captured.of(mover)
		*list = append(*list, captured)
	}

	entry := HistoryEntry{
		From:     from,
		To:       to,
		Moved:    moved,
		Captured: captured,
		Side:     mover,
		Notation: Square(from) + "-" + Square(to),
	}
	g.state.History = append(g.state.History, entry)
	g.state.Turn = mover.Opponent()

	events := []engine.Event{{
		Type:     engine.EventMoveMade,
		Message:  entry.Notation,
		Position: &to,
		Value:    len(g.state.History),
	}}

	if captured.Type() == WhiteKing {
		g.state.Status = StatusEndedByCapture
		g.state.Winner = mover
		events = append(events, engine.Event{
			Type:    engine.EventWin,
			Message: fmt.Sprintf("%s captured the king and wins", mover),
			Value:   g.Score(),
		})
	}
	return events
}

// Undo takes back the last move. A game that ended by king capture reopens;
// a surrendered game cannot be undone.
func (g *Game) Undo() []engine.Event {
	if g.state.Status == StatusEndedBySurrender {
		return []engine.Event{engine.Invalid("cannot undo after a surrender")}
	}
	n := len(g.state.History)
	if n == 0 {
		return []engine.Event{engine.Invalid("no moves to undo")}
	}

	last := g.state.History[n-1]
	g.state.History = g.state.History[:n-1]
	g.state.Board.set(last.From, last.Moved)
	g.state.Board.set(last.To, last.Captured)
	if last.Captured != Empty {
		list := g.state.Captured.of(last.Side)
		*list = (*list)[:len(*list)-1]
	}
	g.state.Turn = last.Side
	g.state.Status = StatusPlaying
	g.state.Winner = NoSide
	g.selected = nil

	return []engine.Event{{
		Type:     engine.EventUndone,
		Message:  "Undid " + last.Notation,
		Position: &last.From,
	}}
}

// Surrender ends the game; the opponent of the side to move wins
func (g *Game) Surrender() []engine.Event {
	if g.Finished() {
		return []engine.Event{engine.Invalid("game is over")}
	}
	loser := g.state.Turn
	g.state.Status = StatusEndedBySurrender
	g.state.Winner = loser.Opponent()
	g.selected = nil
	return []engine.Event{
		{Type: engine.EventSurrendered, Message: fmt.Sprintf("%s surrenders", loser)},
		{Type: engine.EventWin, Message: fmt.Sprintf("%s wins by surrender", g.state.Winner), Value: g.Score()},
	}
}

// Tick implements engine.Game; chess has no clock
func (g *Game) Tick() []engine.Event { return nil }

// TickInterval implements engine.Game
func (g *Game) TickInterval() time.Duration { return 0 }
