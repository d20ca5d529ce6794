package scores

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

var ErrScoreNotFound = errors.New("score not found")

// DefaultTopLimit is used when Top is called with a non-positive limit
const DefaultTopLimit = 10

// Entry is one recorded result
type Entry struct {
	ID         string      `json:"id"`
	Kind       engine.Kind `json:"kind"`
	Config     string      `json:"config"`
	Player     string      `json:"player"`
	SessionID  string      `json:"session_id"`
	Score      int         `json:"score"`
	Outcome    string      `json:"outcome"`
	RecordedAt time.Time   `json:"recorded_at"`
}

// Store persists results and answers best-score and leaderboard queries
type Store interface {
	Record(ctx context.Context, entry Entry) (Entry, error)
	Best(ctx context.Context, kind engine.Kind, config string) (Entry, error)
	Top(ctx context.Context, kind engine.Kind, limit int) ([]Entry, error)
	Close() error
}

// prepare fills generated fields before an entry is stored
func prepare(entry Entry) Entry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}
	entry.RecordedAt = entry.RecordedAt.UTC().Truncate(time.Millisecond)
	return entry
}

// MemoryStore keeps results in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record stores entry and returns it with ID and timestamp filled in
func (m *MemoryStore) Record(ctx context.Context, entry Entry) (Entry, error) {
	entry = prepare(entry)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return entry, nil
}

// Best returns the highest score for a kind and configuration
func (m *MemoryStore) Best(ctx context.Context, kind engine.Kind, config string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Entry
	for _, e := range m.entries {
		if e.Kind == kind && e.Config == config {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return Entry{}, ErrScoreNotFound
	}
	rank(matches)
	return matches[0], nil
}

// Top returns the highest scores, optionally filtered by kind
func (m *MemoryStore) Top(ctx context.Context, kind engine.Kind, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Entry
	for _, e := range m.entries {
		if kind == "" || e.Kind == kind {
			matches = append(matches, e)
		}
	}
	rank(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Close implements Store
func (m *MemoryStore) Close() error { return nil }

// rank orders by score, earliest first on ties
func rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].RecordedAt.Before(entries[j].RecordedAt)
	})
}
