package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GameConfig represents one playable game configuration loaded from JSON
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`

	// Seed fixes the random source; 0 means seed from the clock
	Seed int64 `json:"seed,omitempty"`

	TicTacToe *TicTacToeOptions `json:"tictactoe,omitempty"`
	Puzzle    *PuzzleOptions    `json:"puzzle,omitempty"`
	Tetris    *TetrisOptions    `json:"tetris,omitempty"`
}

// TicTacToeOptions configures the line game
type TicTacToeOptions struct {
	StartingPlayer string `json:"starting_player"`
}

// PuzzleOptions configures the sliding puzzle
type PuzzleOptions struct {
	Size         int `json:"size"`
	ShuffleSteps int `json:"shuffle_steps"`
}

// TetrisOptions configures the block-stack game
type TetrisOptions struct {
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	BaseIntervalMs   int    `json:"base_interval_ms"`
	IntervalStepMs   int    `json:"interval_step_ms"`
	MinIntervalMs    int    `json:"min_interval_ms"`
	Randomizer       string `json:"randomizer"`
	StartImmediately bool   `json:"start_immediately,omitempty"`
}

// DefaultTicTacToeOptions returns the classic settings with X opening
func DefaultTicTacToeOptions() TicTacToeOptions {
	return TicTacToeOptions{StartingPlayer: "X"}
}

// DefaultPuzzleOptions returns a 3x3 puzzle shuffled with 1000 steps
func DefaultPuzzleOptions() PuzzleOptions {
	return PuzzleOptions{Size: 3, ShuffleSteps: DefaultShuffleStep}
}

// DefaultTetrisOptions returns the 10x20 board with a 1s base drop interval
func DefaultTetrisOptions() TetrisOptions {
	return TetrisOptions{
		Width:          10,
		Height:         20,
		BaseIntervalMs: 1000,
		IntervalStepMs: 100,
		MinIntervalMs:  100,
		Randomizer:     "uniform",
	}
}

// TicTacToeSettings returns the configured options with defaults filled in
func (c *GameConfig) TicTacToeSettings() TicTacToeOptions {
	opts := DefaultTicTacToeOptions()
	if c != nil && c.TicTacToe != nil && c.TicTacToe.StartingPlayer != "" {
		opts.StartingPlayer = strings.ToUpper(c.TicTacToe.StartingPlayer)
	}
	return opts
}

// PuzzleSettings returns the configured options with defaults filled in
func (c *GameConfig) PuzzleSettings() PuzzleOptions {
	opts := DefaultPuzzleOptions()
	if c == nil || c.Puzzle == nil {
		return opts
	}
	if c.Puzzle.Size != 0 {
		opts.Size = c.Puzzle.Size
	}
	if c.Puzzle.ShuffleSteps != 0 {
		opts.ShuffleSteps = c.Puzzle.ShuffleSteps
	}
	return opts
}

// TetrisSettings returns the configured options with defaults filled in
func (c *GameConfig) TetrisSettings() TetrisOptions {
	opts := DefaultTetrisOptions()
	if c == nil || c.Tetris == nil {
		return opts
	}
	t := c.Tetris
	if t.Width != 0 {
		opts.Width = t.Width
	}
	if t.Height != 0 {
		opts.Height = t.Height
	}
	if t.BaseIntervalMs != 0 {
		opts.BaseIntervalMs = t.BaseIntervalMs
	}
	if t.IntervalStepMs != 0 {
		opts.IntervalStepMs = t.IntervalStepMs
	}
	if t.MinIntervalMs != 0 {
		opts.MinIntervalMs = t.MinIntervalMs
	}
	if t.Randomizer != "" {
		opts.Randomizer = t.Randomizer
	}
	opts.StartImmediately = t.StartImmediately
	return opts
}

// ValidateGameConfig validates a game configuration so engines can be built from it
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfig)
	}
	if !config.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, config.Kind)
	}

	switch config.Kind {
	case KindTicTacToe:
		opts := config.TicTacToeSettings()
		if opts.StartingPlayer != "X" && opts.StartingPlayer != "O" {
			return fmt.Errorf("%w: tictactoe.starting_player must be X or O, got %q", ErrInvalidConfig, opts.StartingPlayer)
		}

	case KindPuzzle:
		opts := config.PuzzleSettings()
		if opts.Size != 3 && opts.Size != 4 {
			return fmt.Errorf("%w: puzzle.size must be 3 or 4, got %d", ErrInvalidConfig, opts.Size)
		}
		if opts.ShuffleSteps < MinShuffleSteps || opts.ShuffleSteps > MaxShuffleSteps {
			return fmt.Errorf("%w: puzzle.shuffle_steps must be between %d and %d, got %d",
				ErrInvalidConfig, MinShuffleSteps, MaxShuffleSteps, opts.ShuffleSteps)
		}

	case KindTetris:
		opts := config.TetrisSettings()
		if opts.Width < MinTetrisWidth || opts.Width > MaxTetrisWidth {
			return fmt.Errorf("%w: tetris.width must be between %d and %d, got %d",
				ErrInvalidConfig, MinTetrisWidth, MaxTetrisWidth, opts.Width)
		}
		if opts.Height < MinTetrisHeight || opts.Height > MaxTetrisHeight {
			return fmt.Errorf("%w: tetris.height must be between %d and %d, got %d",
				ErrInvalidConfig, MinTetrisHeight, MaxTetrisHeight, opts.Height)
		}
		if opts.MinIntervalMs < MinDropIntervalMs {
			return fmt.Errorf("%w: tetris.min_interval_ms must be at least %d, got %d",
				ErrInvalidConfig, MinDropIntervalMs, opts.MinIntervalMs)
		}
		if opts.BaseIntervalMs < opts.MinIntervalMs {
			return fmt.Errorf("%w: tetris.base_interval_ms (%d) must not be below min_interval_ms (%d)",
				ErrInvalidConfig, opts.BaseIntervalMs, opts.MinIntervalMs)
		}
		if opts.IntervalStepMs < 0 {
			return fmt.Errorf("%w: tetris.interval_step_ms must not be negative", ErrInvalidConfig)
		}
		if opts.Randomizer != "uniform" && opts.Randomizer != "bag" {
			return fmt.Errorf("%w: tetris.randomizer must be uniform or bag, got %q", ErrInvalidConfig, opts.Randomizer)
		}
	}

	return nil
}

// LoadGameConfig loads and validates a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filepath.Base(filename), err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a built-in configuration for kind
func DefaultConfig(kind Kind) *GameConfig {
	switch kind {
	case KindPuzzle:
		opts := DefaultPuzzleOptions()
		return &GameConfig{Name: "puzzle", Description: "Sliding puzzle 3x3", Kind: KindPuzzle, Puzzle: &opts}
	case KindChess:
		return &GameConfig{Name: "chess", Description: "Simplified chess, capture the king to win", Kind: KindChess}
	case KindTetris:
		opts := DefaultTetrisOptions()
		return &GameConfig{Name: "tetris", Description: "Falling blocks on a 10x20 board", Kind: KindTetris, Tetris: &opts}
	default:
		opts := DefaultTicTacToeOptions()
		return &GameConfig{Name: "tictactoe", Description: "Classic 3x3 tic-tac-toe", Kind: KindTicTacToe, TicTacToe: &opts}
	}
}
