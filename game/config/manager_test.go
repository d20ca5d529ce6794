package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

func writeConfigFile(t *testing.T, dir, name string, config any) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("default file is preferred", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "chess", engine.DefaultConfig(engine.KindChess))
		writeConfigFile(t, dir, "tictactoe", engine.DefaultConfig(engine.KindTicTacToe))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.DefaultName() != "tictactoe" {
			t.Errorf("DefaultName() = %q, want tictactoe", manager.DefaultName())
		}
		if manager.GetDefault().Kind != engine.KindTicTacToe {
			t.Errorf("Default kind = %s", manager.GetDefault().Kind)
		}
	})

	t.Run("first valid file when default is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "puzzle", engine.DefaultConfig(engine.KindPuzzle))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.DefaultName() != "puzzle" {
			t.Errorf("DefaultName() = %q, want puzzle", manager.DefaultName())
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory uses built-in default", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed even without config files, got error: %v", err)
		}

		defaultConfig := manager.GetDefault()
		if defaultConfig == nil || defaultConfig.Kind != engine.KindTicTacToe {
			t.Fatalf("Expected built-in tic-tac-toe default, got %+v", defaultConfig)
		}

		// The built-in default resolves by name so sessions can be reloaded
		loaded, err := manager.LoadConfig(manager.DefaultName())
		if err != nil || loaded != defaultConfig {
			t.Errorf("LoadConfig(default) = %v, %v", loaded, err)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "tictactoe", engine.DefaultConfig(engine.KindTicTacToe))
	writeConfigFile(t, dir, "tetris", engine.DefaultConfig(engine.KindTetris))
	writeConfigFile(t, dir, "bad-kind", map[string]any{"name": "Bad", "description": "d", "kind": "checkers"})
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	tests := []struct {
		name     string
		config   string
		wantKind engine.Kind
		wantErr  error
	}{
		{name: "by id", config: "tetris", wantKind: engine.KindTetris},
		{name: "with extension", config: "tetris.json", wantKind: engine.KindTetris},
		{name: "missing", config: "nonexistent", wantErr: ErrConfigNotFound},
		{name: "path traversal", config: "../tetris", wantErr: ErrConfigNotFound},
		{name: "unknown kind", config: "bad-kind", wantErr: ErrInvalidConfig},
		{name: "malformed json", config: "broken", wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := manager.LoadConfig(tt.config)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadConfig(%q) error = %v, want %v", tt.config, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig(%q) error = %v", tt.config, err)
			}
			if config.Kind != tt.wantKind {
				t.Errorf("LoadConfig(%q) kind = %s, want %s", tt.config, config.Kind, tt.wantKind)
			}
		})
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "tictactoe", engine.DefaultConfig(engine.KindTicTacToe))
	writeConfigFile(t, dir, "chess", engine.DefaultConfig(engine.KindChess))
	writeConfigFile(t, dir, "invalid", map[string]any{"name": "", "kind": "chess"})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs() error = %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("ListConfigs() returned %d configs, want 2 (invalid and non-json skipped)", len(configs))
	}
	if configs[0].ConfigID != "chess" || configs[1].ConfigID != "tictactoe" {
		t.Errorf("ListConfigs() should be sorted by id, got %s, %s", configs[0].ConfigID, configs[1].ConfigID)
	}
	if configs[0].Kind != engine.KindChess || configs[0].Filename != "chess.json" {
		t.Errorf("Unexpected config info %+v", configs[0])
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	custom := engine.DefaultConfig(engine.KindPuzzle)
	custom.Name = "Big puzzle"
	custom.Puzzle.Size = 4

	if err := manager.SaveConfig("big", custom); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "big.json")); err != nil {
		t.Errorf("Expected big.json on disk: %v", err)
	}

	// A fresh manager reads it back from disk
	fresh, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	loaded, err := fresh.LoadConfig("big")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.PuzzleSettings().Size != 4 {
		t.Errorf("Saved puzzle size = %d, want 4", loaded.PuzzleSettings().Size)
	}

	invalid := engine.DefaultConfig(engine.KindPuzzle)
	invalid.Puzzle.Size = 5
	if err := manager.SaveConfig("bad", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("SaveConfig(invalid) error = %v, want ErrInvalidConfig", err)
	}
	if err := manager.SaveConfig("../escape", custom); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("SaveConfig(bad name) error = %v, want ErrInvalidConfig", err)
	}
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "tictactoe", engine.DefaultConfig(engine.KindTicTacToe))
	writeConfigFile(t, dir, "chess", engine.DefaultConfig(engine.KindChess))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("chess"); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	if manager.DefaultName() != "chess" || manager.GetDefault().Kind != engine.KindChess {
		t.Errorf("SetDefault did not switch the default")
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("SetDefault(missing) error = %v", err)
	}

	// Edits on disk show up after a refresh
	changed := engine.DefaultConfig(engine.KindTicTacToe)
	changed.TicTacToe.StartingPlayer = "O"
	writeConfigFile(t, dir, "tictactoe", changed)

	manager.RefreshCache()
	loaded, err := manager.LoadConfig("tictactoe")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.TicTacToeSettings().StartingPlayer != "O" {
		t.Errorf("Expected refreshed config, got starting player %s", loaded.TicTacToeSettings().StartingPlayer)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "tictactoe", engine.DefaultConfig(engine.KindTicTacToe))
	writeConfigFile(t, dir, "tetris", engine.DefaultConfig(engine.KindTetris))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("tetris"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := manager.ListConfigs(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent access error: %v", err)
	}
}

func TestRepositoryConfigs(t *testing.T) {
	manager, err := NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs() error = %v", err)
	}

	kinds := map[engine.Kind]bool{}
	for _, info := range configs {
		kinds[info.Kind] = true
	}
	for _, kind := range engine.Kinds {
		if !kinds[kind] {
			t.Errorf("configs/ has no %s configuration", kind)
		}
	}
	if manager.DefaultName() != DefaultConfigName {
		t.Errorf("DefaultName() = %q, want %q", manager.DefaultName(), DefaultConfigName)
	}
}
