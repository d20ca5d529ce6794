package service

import (
	"time"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Kind           engine.Kind        `json:"kind"`
	Player         string             `json:"player"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult contains the result of a single command
type ActionResult struct {
	Accepted  bool              `json:"accepted"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// BulkActionResult contains the result of several commands applied in order
type BulkActionResult struct {
	ActionsExecuted  int               `json:"actions_executed"`
	ActionsAccepted  int               `json:"actions_accepted"`
	RequestedActions int               `json:"requested_actions"`
	Success          bool              `json:"success"`
	GameState        *engine.GameState `json:"game_state"`
	Events           []GameEvent       `json:"events"`
	StoppedReason    string            `json:"stopped_reason,omitempty"`
	StoppedOnAction  int               `json:"stopped_on_action,omitempty"` // 1-based
	Truncated        bool              `json:"truncated,omitempty"`
	Limit            int               `json:"limit,omitempty"`
	StartScore       int               `json:"start_score"`
	EndScore         int               `json:"end_score"`
	ScoreDelta       int               `json:"score_delta"`
	Finished         bool              `json:"finished"`
	Message          string            `json:"message,omitempty"`
}

// TickResult contains the outcome of manually advancing a game's clock
type TickResult struct {
	Ticks     int               `json:"ticks"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// ClockUpdate reports a session whose game advanced during AdvanceClocks
type ClockUpdate struct {
	SessionID string            `json:"session_id"`
	Ticks     int               `json:"ticks"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      engine.EventType `json:"type"`
	Message   string           `json:"message"`
	Value     int              `json:"value,omitempty"`
	Position  *engine.Position `json:"position,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string      `json:"filename"`
	ConfigID    string      `json:"config_id"` // The identifier to use for session creation
	Name        string      `json:"name"`      // Display name
	Description string      `json:"description"`
	Kind        engine.Kind `json:"kind"`
}
