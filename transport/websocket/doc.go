// Package websocket provides WebSocket transport for the game arcade.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State and event broadcasting after every command
//   - Clock tick broadcasting for timed games
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is served by a read pump
// and a write pump goroutine. The hub's session map is guarded by a mutex
// so broadcasts may be issued from any goroutine.
//
// Message Protocol:
//
// Outgoing messages are JSON-encoded:
//
//	{
//	  "session_id": "a1b2",
//	  "event": "state_update",
//	  "game_state": {"kind": "tetris", "status": "playing", ...},
//	  "events": [{"type": "lines_cleared", "value": 2, ...}]
//	}
//
// Background clock ticks use the "clock_tick" event and carry the number of
// ticks applied in "data". Incoming frames are ignored; commands go through
// the REST API.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.WithLogger(logger))
//	go hub.Run()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// A client whose send buffer fills up is dropped rather than blocking the
// broadcaster.
package websocket
