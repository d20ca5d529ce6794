package engine

import "encoding/json"

// Kind identifies which rule engine a game session runs
type Kind string

const (
	KindTicTacToe Kind = "tictactoe"
	KindPuzzle    Kind = "puzzle"
	KindChess     Kind = "chess"
	KindTetris    Kind = "tetris"

	// Validation constants
	MinShuffleSteps    = 100
	MaxShuffleSteps    = 5000
	MinTetrisWidth     = 4
	MaxTetrisWidth     = 30
	MinTetrisHeight    = 4
	MaxTetrisHeight    = 40
	MaxBulkActions     = 50
	MinDropIntervalMs  = 10
	DefaultShuffleStep = 1000
)

// Kinds lists every supported engine in catalog order
var Kinds = []Kind{KindTicTacToe, KindTetris, KindChess, KindPuzzle}

// Valid reports whether k names a known engine
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Position represents row,col coordinates; row 0 is the top of the board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Action is a single host command addressed to an engine.
// Only the fields relevant to Type are read.
type Action struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	ToRow int    `json:"to_row"`
	ToCol int    `json:"to_col"`
	DX    int    `json:"dx"`
	DY    int    `json:"dy"`
}

// EventType names something that happened while applying a command
type EventType string

const (
	EventMoveMade     EventType = "move_made"
	EventWin          EventType = "win"
	EventDraw         EventType = "draw"
	EventLinesCleared EventType = "lines_cleared"
	EventLevelUp      EventType = "level_up"
	EventGameOver     EventType = "game_over"
	EventNewBestScore EventType = "new_best_score"
	EventSolved       EventType = "solved"
	EventInvalidMove  EventType = "invalid_move"

	EventReset       EventType = "reset"
	EventStarted     EventType = "started"
	EventPaused      EventType = "paused"
	EventResumed     EventType = "resumed"
	EventShuffled    EventType = "shuffled"
	EventSelected    EventType = "selected"
	EventDeselected  EventType = "deselected"
	EventUndone      EventType = "undone"
	EventSurrendered EventType = "surrendered"
	EventScoresReset EventType = "scores_reset"
)

// Event is emitted by engines for the host to react to (notifications, storage)
type Event struct {
	Type     EventType `json:"type"`
	Message  string    `json:"message"`
	Position *Position `json:"position,omitempty"`
	Value    int       `json:"value,omitempty"` // score, rows cleared, level... depending on Type
}

// GameState is the transport view of one session's game
type GameState struct {
	Kind            Kind            `json:"kind"`
	ConfigName      string          `json:"config_name"`
	Status          string          `json:"status"`
	Finished        bool            `json:"finished"`
	Score           int             `json:"score"`
	Message         string          `json:"message"`
	TotalActions    int             `json:"total_actions"`
	PossibleActions []Action        `json:"possible_actions,omitempty"`
	Board           json.RawMessage `json:"board"`
}

// MoveHistoryEntry represents a single command in a session's history
type MoveHistoryEntry struct {
	Action     Action      `json:"action"`
	Accepted   bool        `json:"accepted"`
	Events     []EventType `json:"events"`
	Timestamp  int64       `json:"timestamp"`
	MoveNumber int         `json:"move_number"`
}
