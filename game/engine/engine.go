package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidState  = errors.New("invalid game state")
)

// Game is the contract every rule engine satisfies so a host can drive it
// without knowing which game it is. Implementations are single-threaded:
// callers serialize commands and ticks.
type Game interface {
	// Identity and status
	Kind() Kind
	Status() string
	Finished() bool
	Score() int

	// Commands
	Apply(action Action) []Event
	Reset() []Event
	PossibleActions() []Action

	// Clock input; TickInterval returns 0 while the game has nothing to time
	Tick() []Event
	TickInterval() time.Duration

	// Persistence
	Snapshot() any
	Restore(data []byte) error
}

// Rand is the random source engines draw from; *rand.Rand satisfies it
type Rand interface {
	Intn(n int) int
}

// BestScoreAware is implemented by engines that compare results against an
// externally stored best score
type BestScoreAware interface {
	SetBestScore(score int)
	BestScore() int
}

// Invalid builds the event engines emit when they reject a command
func Invalid(format string, args ...any) Event {
	return Event{Type: EventInvalidMove, Message: fmt.Sprintf(format, args...)}
}

// Accepted reports whether a command's events describe a state change
func Accepted(events []Event) bool {
	if len(events) == 0 {
		return false
	}
	for _, ev := range events {
		if ev.Type == EventInvalidMove {
			return false
		}
	}
	return true
}

// LastMessage returns the message of the last event, or "" when there are none
func LastMessage(events []Event) string {
	if len(events) == 0 {
		return ""
	}
	return events[len(events)-1].Message
}

// HasEvent reports whether events contains an event of type t
func HasEvent(events []Event, t EventType) bool {
	for _, ev := range events {
		if ev.Type == t {
			return true
		}
	}
	return false
}

// Describe builds the transport view of a game
func Describe(configName string, game Game, message string, totalActions int) (*GameState, error) {
	board, err := json.Marshal(game.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s snapshot: %w", game.Kind(), err)
	}

	return &GameState{
		Kind:            game.Kind(),
		ConfigName:      configName,
		Status:          game.Status(),
		Finished:        game.Finished(),
		Score:           game.Score(),
		Message:         message,
		TotalActions:    totalActions,
		PossibleActions: game.PossibleActions(),
		Board:           board,
	}, nil
}

// RestoreJSON decodes a persisted snapshot into dst, wrapping decode failures
// in ErrInvalidState
func RestoreJSON(data []byte, dst any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty snapshot", ErrInvalidState)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}
