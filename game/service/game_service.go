package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/arcade/game/catalog"
	"github.com/wricardo/mcp-training/arcade/game/engine"
	"github.com/wricardo/mcp-training/arcade/game/scores"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrUnknownGame          = errors.New("unknown game kind")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName, player string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Act(ctx context.Context, sessionID string, action engine.Action, reset bool) (*ActionResult, error)
	BulkAct(ctx context.Context, sessionID string, actions []engine.Action, reset bool) (*BulkActionResult, error)
	Tick(ctx context.Context, sessionID string, count int) (*TickResult, error)
	AdvanceClocks(ctx context.Context, now time.Time) ([]ClockUpdate, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration and catalog
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
	ListGames(ctx context.Context) ([]catalog.Entry, error)
	Leaderboard(ctx context.Context, kind engine.Kind, limit int) ([]scores.Entry, error)
}

// SessionManager defines session storage operations. Save and
// UpdateLastAccessed expect the caller to hold the session lock.
type SessionManager interface {
	Create(id string, params CreateParams) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, params CreateParams) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// CreateParams describes the game a new session runs
type CreateParams struct {
	ConfigID string
	Config   *engine.GameConfig
	Player   string
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	DefaultName() string
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. Commands, ticks and
// persistence of one session are serialized through Lock.
type Session struct {
	ID             string
	Game           engine.Game
	Config         *engine.GameConfig
	ConfigID       string
	Player         string
	History        []engine.MoveHistoryEntry
	Message        string
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// LastTick is when the clock last advanced the game; zero while the
	// game has no running clock
	LastTick time.Time

	mu sync.Mutex
}

// Lock acquires exclusive access to the session's game
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session
func (s *Session) Unlock() { s.mu.Unlock() }

// State builds the transport view of the session's game
func (s *Session) State() (*engine.GameState, error) {
	return engine.Describe(s.ConfigID, s.Game, s.Message, len(s.History))
}
