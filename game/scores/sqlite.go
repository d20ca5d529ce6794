package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS scores (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		config TEXT NOT NULL,
		player TEXT NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL,
		outcome TEXT NOT NULL DEFAULT '',
		recorded_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_scores_kind_config ON scores(kind, config, score DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);`,
}

const selectColumns = `SELECT id, kind, config, player, session_id, score, outcome, recorded_at FROM scores`

var pragmas = []struct {
	stmt string
	what string
}{
	{"PRAGMA journal_mode=WAL;", "enable WAL mode"},
	{"PRAGMA busy_timeout=5000;", "set busy timeout"},
}

// SQLiteStore persists results in a SQLite database file
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// Option configures a SQLiteStore
type Option func(*SQLiteStore)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *SQLiteStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// applyPragmas tunes the connection. Failures only cost performance, so
// they are logged and the store stays usable.
func applyPragmas(db execer, logger *zap.Logger) {
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			logger.Warn("couldn't "+p.what, zap.String("pragma", p.stmt), zap.Error(err))
		}
	}
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	store := &SQLiteStore{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(store)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create score database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open score database: %w", err)
	}

	applyPragmas(db, store.logger)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply score schema: %w", err)
		}
	}

	store.db = db
	return store, nil
}

// Record inserts entry and returns it with ID and timestamp filled in
func (s *SQLiteStore) Record(ctx context.Context, entry Entry) (Entry, error) {
	entry = prepare(entry)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, kind, config, player, session_id, score, outcome, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.Kind), entry.Config, entry.Player, entry.SessionID,
		entry.Score, entry.Outcome, entry.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record score: %w", err)
	}
	return entry, nil
}

// Best returns the highest score for a kind and configuration
func (s *SQLiteStore) Best(ctx context.Context, kind engine.Kind, config string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE kind = ? AND config = ? ORDER BY score DESC, recorded_at ASC LIMIT 1`,
		string(kind), config,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrScoreNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to load best score: %w", err)
	}
	return entry, nil
}

// Top returns the highest scores, optionally filtered by kind
func (s *SQLiteStore) Top(ctx context.Context, kind engine.Kind, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if kind == "" {
		rows, err = s.db.QueryContext(ctx, selectColumns+` ORDER BY score DESC, recorded_at ASC LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, selectColumns+` WHERE kind = ? ORDER BY score DESC, recorded_at ASC LIMIT ?`, string(kind), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read leaderboard row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e        Entry
		kind     string
		recorded int64
	)
	if err := row.Scan(&e.ID, &kind, &e.Config, &e.Player, &e.SessionID, &e.Score, &e.Outcome, &recorded); err != nil {
		return Entry{}, err
	}
	e.Kind = engine.Kind(kind)
	e.RecordedAt = time.UnixMilli(recorded).UTC()
	return e, nil
}
