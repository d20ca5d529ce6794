// Package api provides HTTP REST API handlers for the game arcade.
//
// The api package implements:
//   - Session management endpoints
//   - Action, bulk action, tick and reset endpoints for every game kind
//   - Paginated move history
//   - Configuration listing, lookup and creation
//   - Game catalog and leaderboard
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                  {"config_id": "tetris", "player": "ada"}
//   - GET    /api/sessions                  ?sort=created|accessed&order=asc|desc&limit=N&kind=K
//   - GET    /api/sessions/unified          ?sessionIds=a,b or ?configName=C
//   - GET    /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Game Operations:
//   - GET  /api/sessions/{id}/state
//   - POST /api/sessions/{id}/actions       {"action": {"type": "place", "index": 4}, "reset": false}
//   - POST /api/sessions/{id}/bulk-actions  {"actions": [...], "reset": false}
//   - POST /api/sessions/{id}/tick          {"count": 3}
//   - POST /api/sessions/{id}/reset
//   - GET  /api/sessions/{id}/history       ?page=1&limit=20&order=desc
//
// Configuration and catalog:
//   - GET  /api/configs
//   - POST /api/configs                     engine.GameConfig plus optional "config_id"
//   - GET  /api/configs/{name}
//   - GET  /api/games
//   - GET  /api/leaderboard                 ?kind=tetris&limit=10
//
// Other:
//   - GET /health
//   - GET /ws?session={id}
//
// Actions:
//
// An action is a JSON object whose "type" selects the command; the other
// fields are read only when the command needs them:
//
//	{"type": "place", "index": 4}                                   // tic-tac-toe
//	{"type": "move_tile", "index": 7}                               // puzzle
//	{"type": "select", "row": 6, "col": 4}                          // chess
//	{"type": "move", "row": 6, "col": 4, "to_row": 4, "to_col": 4}  // chess
//	{"type": "move", "dx": -1, "dy": 0}                             // tetris
//
// A rejected action is not an HTTP error: the response has "accepted": false
// and an invalid_move event explaining why.
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{"error": "failed to get session zz: session not found"}
//
// Unknown sessions and configs map to 404, invalid configs and game kinds to
// 400, and anything else to 500.
//
// Every successful command is broadcast to the session's WebSocket clients.
package api
