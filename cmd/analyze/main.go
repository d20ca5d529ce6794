// Command analyze plays batches of bot games against configuration files in
// the project's configs directory and prints outcome statistics per config:
// how often games finish, final statuses, score spread, game length, and the
// events seen along the way. Games are driven by a random policy or by a Lua
// policy script.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/arcade/game/bot"
	"github.com/wricardo/mcp-training/arcade/game/catalog"
	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Analysis aggregates the bot results for one configuration
type Analysis struct {
	Config     string
	Kind       engine.Kind
	Games      int
	Finished   int
	Statuses   map[string]int
	Events     map[engine.EventType]int
	TotalScore int
	MinScore   int
	MaxScore   int
	TotalSteps int
	Accepted   int
}

// Add folds one game result into the analysis
func (a *Analysis) Add(res bot.Result) {
	if a.Games == 0 || res.Score < a.MinScore {
		a.MinScore = res.Score
	}
	if a.Games == 0 || res.Score > a.MaxScore {
		a.MaxScore = res.Score
	}
	a.Games++
	if res.Finished {
		a.Finished++
	}
	a.Statuses[res.Status]++
	for ev, n := range res.Events {
		a.Events[ev] += n
	}
	a.TotalScore += res.Score
	a.TotalSteps += res.Steps
	a.Accepted += res.Accepted
}

// AvgScore is the mean final score
func (a *Analysis) AvgScore() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.TotalScore) / float64(a.Games)
}

// AvgSteps is the mean number of commands per game
func (a *Analysis) AvgSteps() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.TotalSteps) / float64(a.Games)
}

// AcceptRate is the share of commands the engine accepted
func (a *Analysis) AcceptRate() float64 {
	if a.TotalSteps == 0 {
		return 0
	}
	return float64(a.Accepted) / float64(a.TotalSteps)
}

// Options control a batch run
type Options struct {
	Games    int
	MaxSteps int
	Seed     int64
	Script   string
}

// newPolicy returns the Lua policy when a script is given, else a random one
func newPolicy(opts Options, seed int64) (bot.Policy, func(), error) {
	if opts.Script != "" {
		p, err := bot.LoadLuaPolicy(opts.Script)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	return bot.NewRandomPolicy(catalog.NewRand(seed)), func() {}, nil
}

// analyzeConfig plays opts.Games bot games on the configuration at path
func analyzeConfig(ctx context.Context, path string, opts Options) (*Analysis, error) {
	cfg, err := engine.LoadGameConfig(path)
	if err != nil {
		return nil, err
	}

	policy, closePolicy, err := newPolicy(opts, opts.Seed)
	if err != nil {
		return nil, err
	}
	defer closePolicy()

	analysis := &Analysis{
		Config:   strings.TrimSuffix(filepath.Base(path), ".json"),
		Kind:     cfg.Kind,
		Statuses: map[string]int{},
		Events:   map[engine.EventType]int{},
	}

	for i := 0; i < opts.Games; i++ {
		var seed int64
		if opts.Seed != 0 {
			seed = opts.Seed + int64(i)
		}
		game, err := catalog.NewGame(cfg, catalog.NewRand(seed))
		if err != nil {
			return nil, err
		}

		// Untimed runs never tick, so puzzle needs its shuffle first
		if cfg.Kind == engine.KindPuzzle {
			game.Apply(engine.Action{Type: "shuffle"})
		}

		res, err := bot.Play(ctx, game, policy, opts.MaxSteps)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}
		analysis.Add(res)
	}

	return analysis, nil
}

// printAnalysis writes a human readable report for one configuration
func printAnalysis(w io.Writer, a *Analysis) {
	title := color.New(color.Bold, color.FgCyan)
	good := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)

	title.Fprintf(w, "\n=== Analyzing %s (%s) ===\n", a.Config, a.Kind)
	fmt.Fprintf(w, "Games played: %d\n", a.Games)

	finishRate := 0.0
	if a.Games > 0 {
		finishRate = float64(a.Finished) / float64(a.Games)
	}
	line := fmt.Sprintf("Finished: %d/%d (%.0f%%)\n", a.Finished, a.Games, finishRate*100)
	if a.Finished == a.Games {
		good.Fprint(w, "✅ "+line)
	} else {
		warn.Fprint(w, "⚠️  "+line)
	}

	fmt.Fprintf(w, "Score: avg %.1f, min %d, max %d\n", a.AvgScore(), a.MinScore, a.MaxScore)
	fmt.Fprintf(w, "Steps: avg %.1f, accepted %.0f%%\n", a.AvgSteps(), a.AcceptRate()*100)

	fmt.Fprintf(w, "Final statuses:\n")
	for _, status := range sortedKeys(a.Statuses) {
		fmt.Fprintf(w, "   %-20s %d\n", status, a.Statuses[status])
	}

	events := map[string]int{}
	for ev, n := range a.Events {
		events[string(ev)] = n
	}
	fmt.Fprintf(w, "Events:\n")
	for _, ev := range sortedKeys(events) {
		fmt.Fprintf(w, "   %-20s %d\n", ev, events[ev])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "play bot games against configurations and summarize the outcomes",
		ArgsUsage: "[config.json...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "configs", Usage: "directory scanned when no files are given"},
			&cli.IntFlag{Name: "games", Value: 20, Usage: "games per configuration"},
			&cli.IntFlag{Name: "max-steps", Value: 500, Usage: "command limit per game"},
			&cli.Int64Flag{Name: "seed", Usage: "base random seed (0 = clock)"},
			&cli.StringFlag{Name: "script", Usage: "Lua policy script (random policy when empty)"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("no-color") {
				color.NoColor = true
			}

			opts := Options{
				Games:    cmd.Int("games"),
				MaxSteps: cmd.Int("max-steps"),
				Seed:     cmd.Int64("seed"),
				Script:   cmd.String("script"),
			}
			if opts.Games <= 0 || opts.MaxSteps <= 0 {
				return fmt.Errorf("games and max-steps must be positive")
			}

			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				files, err = filepath.Glob(filepath.Join(cmd.String("dir"), "*.json"))
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no config files found")
			}

			w := cmd.Root().Writer
			for _, file := range files {
				analysis, err := analyzeConfig(ctx, file, opts)
				if err != nil {
					color.New(color.FgRed).Fprintf(w, "\n=== %s ===\nError: %v\n", filepath.Base(file), err)
					continue
				}
				printAnalysis(w, analysis)
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
