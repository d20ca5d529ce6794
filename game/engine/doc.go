// Package engine defines the contract shared by every game in the arcade.
//
// The engine package provides:
//   - The Game interface that rule engines implement
//   - Actions, events and the transport GameState view
//   - Game configurations with per-kind options and validation
//   - Snapshot helpers used when sessions are persisted
//
// Core Types:
//
// Game is driven by a host through Apply, Reset and Tick. Engines report
// what happened as a slice of Events; a command is accepted when none of its
// events is EventInvalidMove. GameConfig selects the engine Kind and carries
// the option block for that kind.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/tetris.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := catalog.NewGame(config, catalog.NewRand(config.Seed))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	events := game.Apply(engine.Action{Type: "start"})
//	state, _ := engine.Describe(config.Name, game, engine.LastMessage(events), 1)
//
// Engines are not safe for concurrent use; the session layer serializes
// commands and clock ticks per game.
package engine
