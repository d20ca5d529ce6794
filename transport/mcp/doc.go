// Package mcp provides the Model Context Protocol front end of the game arcade.
//
// The package is a thin client: every tool call is forwarded to the REST API
// and the JSON answer is rendered as text an agent can read. Boards are drawn
// per game kind (tic-tac-toe cells numbered 0-8, puzzle tiles with "__" for
// the blank, chess ranks and files, tetris wells with the falling piece as '@').
//
// MCP Tools:
//   - create_session: Create a session from a configuration
//   - list_sessions: List active sessions, optionally by game
//   - get_session: Session details and board
//   - game_state: Current board, status, score and possible actions
//   - act: Apply one action
//   - bulk_act: Apply several actions, stopping at the first rejection
//   - tick: Advance a running game clock
//   - reset_game: Start the session's game over
//   - move_history: Paginated action history
//   - list_configs: Available configurations
//   - list_games: Game catalog
//   - leaderboard: Best recorded scores
//   - game_instructions: Rules and action reference
//
// act and bulk_act take an "intent" argument that is never sent to the
// server; it exists so agents explain their reasoning.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	// or mount on the HTTP server
//	httpServer := server.NewStreamableHTTPServer(client.GetMCPServer())
//	router.PathPrefix("/mcp").Handler(httpServer)
package mcp
