// Package config provides configuration management for the game arcade.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory. The
// file name without extension is the config ID used to create sessions. Each
// file names the game kind and carries an options block for that kind:
//
//	{
//	  "name": "Tetris (7-bag)",
//	  "description": "Tetris dealing every piece once per bag of seven",
//	  "kind": "tetris",
//	  "tetris": {"width": 10, "height": 20, "randomizer": "bag"}
//	}
//
// Omitted options take the engine defaults. An optional "seed" fixes the
// random source for reproducible shuffles and piece sequences.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("puzzle-4x4")
//	configs, err := manager.ListConfigs()
//
// The default config is tictactoe.json; when it is missing the first valid
// file is used, and an empty directory falls back to a built-in tic-tac-toe.
package config
