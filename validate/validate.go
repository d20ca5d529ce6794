// Command validate checks game configuration JSON files, by default every
// file in the ../configs directory. It checks:
//   - JSON structure, with unknown fields reported
//   - Required fields and a known game kind
//   - Option blocks: only the block matching the kind may be present
//   - Per-kind option ranges (puzzle size, tetris board and drop intervals...)
//   - Playability: the engine builds, offers at least one action, and its
//     snapshot restores into a fresh engine
//   - Chess positions: the exported FEN parses back to the same board
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/arcade/game/catalog"
	"github.com/wricardo/mcp-training/arcade/game/chess"
	"github.com/wricardo/mcp-training/arcade/game/engine"
)

var errInvalidConfigs = errors.New("some configurations are invalid")

// ValidationResult captures the outcome of validating a single file.
// Info holds the summary lines of a valid file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			result.fail("Unexpected field: %v", err)
		} else {
			result.fail("Invalid JSON: %v", err)
		}
		return result
	}

	checkOptionBlocks(&config, &result)

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), engine.ErrInvalidConfig.Error()+": "))
	}

	if !result.Valid {
		return result
	}

	play, err := checkPlayable(&config)
	if err != nil {
		result.fail("Not playable: %v", err)
		return result
	}

	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Kind: %s", config.Kind),
		fmt.Sprintf("✓ Settings: %s", describeSettings(&config)),
		fmt.Sprintf("✓ Opening actions: %d", play.actions),
	)
	if play.fen != "" {
		result.Info = append(result.Info, fmt.Sprintf("✓ FEN: %s", play.fen))
	}
	return result
}

// checkOptionBlocks rejects option blocks that belong to another kind
func checkOptionBlocks(config *engine.GameConfig, result *ValidationResult) {
	blocks := map[engine.Kind]bool{
		engine.KindTicTacToe: config.TicTacToe != nil,
		engine.KindPuzzle:    config.Puzzle != nil,
		engine.KindTetris:    config.Tetris != nil,
	}
	for kind, present := range blocks {
		if present && kind != config.Kind {
			result.fail("Option block %q does not apply to kind %q", kind, config.Kind)
		}
	}
}

// playability is what checkPlayable learned about a fresh engine
type playability struct {
	actions int
	fen     string
}

// checkPlayable builds the engine, confirms it offers an opening action and
// that its snapshot restores into a fresh engine
func checkPlayable(config *engine.GameConfig) (playability, error) {
	var play playability
	game, err := catalog.NewGame(config, catalog.NewRand(1))
	if err != nil {
		return play, err
	}

	actions := game.PossibleActions()
	if len(actions) == 0 {
		return play, errors.New("no actions available at start")
	}
	play.actions = len(actions)

	snapshot, err := json.Marshal(game.Snapshot())
	if err != nil {
		return play, fmt.Errorf("snapshot: %w", err)
	}
	fresh, err := catalog.NewGame(config, catalog.NewRand(2))
	if err != nil {
		return play, err
	}
	if err := fresh.Restore(snapshot); err != nil {
		return play, fmt.Errorf("restore: %w", err)
	}
	if fresh.Status() != game.Status() {
		return play, fmt.Errorf("restored status %q, want %q", fresh.Status(), game.Status())
	}

	if g, ok := game.(*chess.Game); ok {
		if play.fen, err = checkFEN(g); err != nil {
			return play, err
		}
	}
	return play, nil
}

// checkFEN exports the position and reads it back
func checkFEN(g *chess.Game) (string, error) {
	fen := g.FEN()
	board, side, err := chess.ParseFEN(fen)
	if err != nil {
		return "", fmt.Errorf("fen %q: %w", fen, err)
	}
	state := g.State()
	if board != state.Board {
		return "", fmt.Errorf("fen %q does not reproduce the board", fen)
	}
	if side != state.Turn {
		return "", fmt.Errorf("fen %q has %s to move, want %s", fen, side, state.Turn)
	}
	return fen, nil
}

func describeSettings(config *engine.GameConfig) string {
	switch config.Kind {
	case engine.KindTicTacToe:
		return fmt.Sprintf("%s starts", config.TicTacToeSettings().StartingPlayer)
	case engine.KindPuzzle:
		opts := config.PuzzleSettings()
		return fmt.Sprintf("%dx%d board, %d shuffle steps", opts.Size, opts.Size, opts.ShuffleSteps)
	case engine.KindTetris:
		opts := config.TetrisSettings()
		return fmt.Sprintf("%dx%d well, %dms drop (-%dms/level, min %dms), %s pieces",
			opts.Width, opts.Height, opts.BaseIntervalMs, opts.IntervalStepMs, opts.MinIntervalMs, opts.Randomizer)
	default:
		return "standard board"
	}
}

// configFiles returns the explicit files, or every *.json file in dir
func configFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no config files found in %s", dir)
	}
	return files, nil
}

// printReport writes one section per file and reports whether all are valid
func printReport(w io.Writer, results []ValidationResult, quiet bool) bool {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	allValid := true
	for _, result := range results {
		if result.Valid && quiet {
			continue
		}

		bold.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			green.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			allValid = false
			red.Fprintln(w, "❌ INVALID")
			for _, err := range result.Errors {
				red.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		green.Fprintf(w, "✅ All %d configurations are valid!\n", len(results))
	} else {
		red.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate game configuration files",
		ArgsUsage: "[file.json...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: "../configs",
				Usage: "directory scanned when no files are given",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only print invalid files and the summary",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("no-color") {
				color.NoColor = true
			}

			files, err := configFiles(cmd.String("dir"), cmd.Args().Slice())
			if err != nil {
				return err
			}

			results := make([]ValidationResult, 0, len(files))
			for _, file := range files {
				results = append(results, validateConfig(file))
			}

			if !printReport(cmd.Root().Writer, results, cmd.Bool("quiet")) {
				return errInvalidConfigs
			}
			return nil
		},
	}
}

// main validates the configuration files and exits with non-zero status if
// any are invalid
func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errInvalidConfigs) {
			color.New(color.FgRed).Fprintln(os.Stderr, "Error: "+err.Error())
		}
		os.Exit(1)
	}
}
