package catalog

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wricardo/mcp-training/arcade/game/chess"
	"github.com/wricardo/mcp-training/arcade/game/engine"
	"github.com/wricardo/mcp-training/arcade/game/puzzle"
	"github.com/wricardo/mcp-training/arcade/game/tetris"
	"github.com/wricardo/mcp-training/arcade/game/tictactoe"
)

var (
	_ engine.Game           = (*tictactoe.Game)(nil)
	_ engine.Game           = (*puzzle.Game)(nil)
	_ engine.Game           = (*chess.Game)(nil)
	_ engine.Game           = (*tetris.Game)(nil)
	_ engine.BestScoreAware = (*puzzle.Game)(nil)
)

// Entry describes a game for listings
type Entry struct {
	Kind        engine.Kind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Difficulty  string      `json:"difficulty"`
	Players     string      `json:"players"`
	Duration    string      `json:"duration"`
	Rating      float64     `json:"rating"`
	Category    string      `json:"category"`
	Actions     []string    `json:"actions"`
}

var entries = []Entry{
	{
		Kind:        engine.KindTicTacToe,
		Title:       "Tic-Tac-Toe",
		Description: "Classic 3x3 game. First to complete a line wins!",
		Difficulty:  "Easy",
		Players:     "1-2",
		Duration:    "5 minutes",
		Rating:      4.2,
		Category:    "Strategy",
		Actions:     []string{tictactoe.ActionPlace, tictactoe.ActionReset, tictactoe.ActionResetScores},
	},
	{
		Kind:        engine.KindTetris,
		Title:       "Tetris",
		Description: "Stack the falling blocks and complete horizontal lines for a high score.",
		Difficulty:  "Medium",
		Players:     "1",
		Duration:    "15 minutes",
		Rating:      4.7,
		Category:    "Puzzle",
		Actions: []string{
			tetris.ActionStart, tetris.ActionPause, tetris.ActionResume, tetris.ActionLeft, tetris.ActionRight,
			tetris.ActionDown, tetris.ActionMove, tetris.ActionRotate, tetris.ActionHardDrop, tetris.ActionReset,
		},
	},
	{
		Kind:        engine.KindChess,
		Title:       "Chess",
		Description: "The game of kings, simplified: capture the enemy king to win.",
		Difficulty:  "Hard",
		Players:     "2",
		Duration:    "30 minutes",
		Rating:      4.5,
		Category:    "Strategy",
		Actions:     []string{chess.ActionSelect, chess.ActionMove, chess.ActionUndo, chess.ActionSurrender, chess.ActionReset},
	},
	{
		Kind:        engine.KindPuzzle,
		Title:       "Sliding Puzzle",
		Description: "Slide the tiles around the blank until they are back in order.",
		Difficulty:  "Medium",
		Players:     "1",
		Duration:    "20 minutes",
		Rating:      4.1,
		Category:    "Puzzle",
		Actions:     []string{puzzle.ActionMoveTile, puzzle.ActionShuffle, puzzle.ActionInitialize, puzzle.ActionReset},
	},
}

// Entries returns the catalog in display order
func Entries() []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Actions = append([]string(nil), e.Actions...)
		out[i] = e
	}
	return out
}

// Lookup returns the entry for kind
func Lookup(kind engine.Kind) (Entry, bool) {
	for _, e := range Entries() {
		if e.Kind == kind {
			return e, true
		}
	}
	return Entry{}, false
}

// NewRand returns a random source seeded by seed, or by the clock when seed is 0
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// NewGame builds the engine described by cfg. A nil rng is replaced with
// one seeded from cfg.Seed.
func NewGame(cfg *engine.GameConfig, rng engine.Rand) (engine.Game, error) {
	if err := engine.ValidateGameConfig(cfg); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(cfg.Seed)
	}

	var (
		game engine.Game
		err  error
	)
	switch cfg.Kind {
	case engine.KindTicTacToe:
		var g *tictactoe.Game
		g, err = tictactoe.New(tictactoe.Mark(cfg.TicTacToeSettings().StartingPlayer))
		game = g
	case engine.KindPuzzle:
		opts := cfg.PuzzleSettings()
		var g *puzzle.Game
		g, err = puzzle.New(opts.Size, opts.ShuffleSteps, rng)
		game = g
	case engine.KindChess:
		game = chess.New()
	case engine.KindTetris:
		var g *tetris.Game
		g, err = tetris.New(cfg.TetrisSettings(), rng)
		game = g
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", engine.ErrInvalidConfig, cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s game %q: %w", cfg.Kind, cfg.Name, err)
	}
	return game, nil
}
