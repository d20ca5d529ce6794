package engine

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// stubGame is a fixed Game used to exercise the kernel helpers
type stubGame struct {
	status   string
	finished bool
	score    int
	board    any
}

func (g *stubGame) Kind() Kind                  { return KindTicTacToe }
func (g *stubGame) Status() string              { return g.status }
func (g *stubGame) Finished() bool              { return g.finished }
func (g *stubGame) Score() int                  { return g.score }
func (g *stubGame) Apply(Action) []Event        { return nil }
func (g *stubGame) Reset() []Event              { return []Event{{Type: EventReset}} }
func (g *stubGame) Tick() []Event               { return nil }
func (g *stubGame) TickInterval() time.Duration { return 0 }
func (g *stubGame) Snapshot() any               { return g.board }
func (g *stubGame) Restore([]byte) error        { return nil }
func (g *stubGame) PossibleActions() []Action {
	return []Action{{Type: "place", Index: 4}}
}

func TestKindValid(t *testing.T) {
	for _, kind := range Kinds {
		if !kind.Valid() {
			t.Errorf("Expected %s to be valid", kind)
		}
	}
	if Kind("checkers").Valid() || Kind("").Valid() {
		t.Error("Unknown kinds must not be valid")
	}
}

func TestAccepted(t *testing.T) {
	tests := []struct {
		name     string
		events   []Event
		expected bool
	}{
		{"no events", nil, false},
		{"move", []Event{{Type: EventMoveMade}}, true},
		{"move then win", []Event{{Type: EventMoveMade}, {Type: EventWin}}, true},
		{"invalid", []Event{Invalid("cell %d is taken", 4)}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Accepted(test.events); got != test.expected {
				t.Errorf("Expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestEventHelpers(t *testing.T) {
	ev := Invalid("cell %d is taken", 4)
	if ev.Type != EventInvalidMove || ev.Message != "cell 4 is taken" {
		t.Errorf("Unexpected invalid event: %+v", ev)
	}

	events := []Event{{Type: EventMoveMade, Message: "X to 4"}, {Type: EventWin, Message: "X wins"}}
	if got := LastMessage(events); got != "X wins" {
		t.Errorf("Expected last message 'X wins', got %q", got)
	}
	if LastMessage(nil) != "" {
		t.Error("Expected empty message for no events")
	}
	if !HasEvent(events, EventWin) || HasEvent(events, EventDraw) {
		t.Error("HasEvent reported the wrong events")
	}
}

func TestDescribe(t *testing.T) {
	game := &stubGame{status: "won", finished: true, score: 1, board: map[string]int{"cells": 9}}

	state, err := Describe("classic", game, "X wins", 5)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if state.Kind != KindTicTacToe || state.ConfigName != "classic" || state.Status != "won" {
		t.Errorf("Unexpected header: %+v", state)
	}
	if !state.Finished || state.Score != 1 || state.TotalActions != 5 || state.Message != "X wins" {
		t.Errorf("Unexpected state: %+v", state)
	}
	if len(state.PossibleActions) != 1 || state.PossibleActions[0].Index != 4 {
		t.Errorf("Unexpected possible actions: %+v", state.PossibleActions)
	}
	if string(state.Board) != `{"cells":9}` {
		t.Errorf("Unexpected board: %s", state.Board)
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"kind", "config_name", "status", "finished", "score", "total_actions", "possible_actions", "board"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected key %q in %s", key, data)
		}
	}
}

func TestDescribe_UnmarshalableSnapshot(t *testing.T) {
	game := &stubGame{board: func() {}}
	if _, err := Describe("classic", game, "", 0); err == nil {
		t.Error("Expected error for snapshot that cannot be marshaled")
	}
}

func TestRestoreJSON(t *testing.T) {
	var dst struct {
		Score int `json:"score"`
	}

	if err := RestoreJSON([]byte(`{"score": 3}`), &dst); err != nil || dst.Score != 3 {
		t.Errorf("Expected score 3, got %d (err %v)", dst.Score, err)
	}
	if err := RestoreJSON(nil, &dst); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState for empty snapshot, got %v", err)
	}
	if err := RestoreJSON([]byte(`{`), &dst); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState for broken snapshot, got %v", err)
	}
}

func TestActionJSONTags(t *testing.T) {
	var action Action
	if err := json.Unmarshal([]byte(`{"type": "move", "row": 6, "col": 4, "to_row": 4, "to_col": 4}`), &action); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := Action{Type: "move", Row: 6, Col: 4, ToRow: 4, ToCol: 4}
	if action != want {
		t.Errorf("Expected %+v, got %+v", want, action)
	}
}
