// Package session provides session management for the game arcade.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session persistence to JSON files
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// It builds each session's engine through the game catalog, so it serves
// every game kind. FilePersistence stores one JSON file per session holding
// the config ID, player, command history and the engine snapshot; loading a
// file rebuilds the engine from its config and restores the snapshot.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference and are looked up
// case-insensitively. Caller-chosen IDs are limited to letters, digits,
// dashes and underscores so they are safe file names.
//
// Concurrency:
//
// The manager's map is guarded by its own lock. Game state is guarded by
// each session's lock: Save and UpdateLastAccessed expect the caller to hold
// it, while SaveAllSessions and CleanupExpiredSessions take it themselves.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", configMgr)
//	manager := session.NewManagerWithPersistence(persistence, session.WithLogger(logger))
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := manager.Create("", service.CreateParams{ConfigID: "chess", Config: cfg})
package session
