// Package scores stores finished-game results for best-score lookups and
// the leaderboard. SQLiteStore keeps them in a database file; MemoryStore is
// used when no database path is configured and in tests.
package scores
