// Package service provides the business logic layer for the game arcade.
//
// The service package implements:
//   - Multi-session game management across every game kind
//   - Configuration management and loading
//   - Command and clock processing
//   - Score recording and the leaderboard
//   - Move history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the rule engines. Engines are single-threaded, so each Session carries its
// own lock and every command, tick and save for that session runs under it.
// Sessions share nothing, so different sessions progress concurrently.
//
// Usage:
//
//	configMgr, _ := config.NewManager("configs")
//	sessionMgr := session.NewManager()
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithScoreStore(store),
//		service.WithLogger(logger),
//	)
//
//	info, err := gameService.CreateSession(ctx, "tetris", "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Act(ctx, info.ID, engine.Action{Type: "start"}, false)
//
// Clocks:
//
// Timed games (tetris, the running puzzle timer) advance when the host calls
// AdvanceClocks, typically from a ticker in main. Each session keeps the time
// of its last tick and catches up by whole intervals.
//
// Scores:
//
// Whenever a command or tick ends a round (win, solved, new best score, game
// over) the service writes the result to the configured scores.Store. Games
// that track a best score are seeded from the store on creation and reset.
package service
