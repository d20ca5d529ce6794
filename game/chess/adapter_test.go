package chess

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

func TestApply_Dispatch(t *testing.T) {
	g := New()

	events := g.Apply(engine.Action{Type: ActionSelect, Row: 6, Col: 4})
	require.Len(t, events, 1)
	assert.Equal(t, engine.EventSelected, events[0].Type)

	events = g.Apply(engine.Action{Type: ActionMove, Row: 6, Col: 4, ToRow: 4, ToCol: 4})
	require.True(t, engine.Accepted(events))
	state := g.State()
	assert.Equal(t, Black, state.Turn)
	assert.Equal(t, Empty, state.Board.At(pos(6, 4)))
	assert.Equal(t, WhitePawn, state.Board.At(pos(4, 4)))

	events = g.Apply(engine.Action{Type: ActionUndo})
	require.True(t, engine.Accepted(events))
	assert.Equal(t, White, g.State().Turn)
}

func TestApply_UnknownActionLeavesStateUntouched(t *testing.T) {
	g := New()
	before := g.State()

	events := g.Apply(engine.Action{Type: "castle"})
	require.Len(t, events, 1)
	assert.Equal(t, engine.EventInvalidMove, events[0].Type)
	assert.Equal(t, before, g.State())
}

func TestPossibleActions_EmptyOnceFinished(t *testing.T) {
	g := New()
	require.True(t, engine.Accepted(g.Apply(engine.Action{Type: ActionSurrender})))
	assert.Equal(t, StatusEndedBySurrender, g.Status())
	assert.Empty(t, g.PossibleActions())

	require.True(t, engine.Accepted(g.Apply(engine.Action{Type: ActionReset})))
	assert.Len(t, g.PossibleActions(), 20)
}

func TestSnapshot_CarriesSelectionAndFEN(t *testing.T) {
	g := New()
	g.Apply(engine.Action{Type: ActionSelect, Row: 6, Col: 4})

	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	var view View
	require.NoError(t, json.Unmarshal(data, &view))
	require.NotNil(t, view.Selection)
	assert.Equal(t, pos(6, 4), view.Selection.Square)
	assert.Equal(t, []engine.Position{pos(5, 4), pos(4, 4)}, view.Selection.Destinations)
	assert.Equal(t, g.FEN(), view.FEN)
	assert.Equal(t, g.State(), view.State)

	restored := New()
	require.NoError(t, restored.Restore(data))
	assert.Equal(t, g.State(), restored.State())
	assert.Nil(t, restored.Selection())

	g.Apply(engine.Action{Type: ActionSelect, Row: 6, Col: 4})
	data, err = json.Marshal(g.Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"selection"`)
}

func TestRestore_RejectsInconsistentSnapshots(t *testing.T) {
	const board = `["rnbqkbnr","pppp.ppp","........","........","........","........","PPPPPPPP","RNBQKBNR"]`

	tests := []struct {
		name     string
		snapshot string
	}{
		{
			name: "capture missing from the capturing side",
			snapshot: `{"board":` + board + `,"turn":"black","status":"playing",
				"history":[{"from":{"row":6,"col":4},"to":{"row":1,"col":4},"moved":"P","captured":"p","side":"white","notation":"e2-e7"}],
				"captured":{"white":[],"black":[]}}`,
		},
		{
			name: "capture credited to the wrong side",
			snapshot: `{"board":` + board + `,"turn":"black","status":"playing",
				"history":[{"from":{"row":6,"col":4},"to":{"row":1,"col":4},"moved":"P","captured":"p","side":"white","notation":"e2-e7"}],
				"captured":{"white":[],"black":["p"]}}`,
		},
		{
			name: "captured piece without a move",
			snapshot: `{"board":` + board + `,"turn":"white","status":"playing",
				"history":[],"captured":{"white":["p"],"black":[]}}`,
		},
		{
			name: "history entry without a side",
			snapshot: `{"board":` + board + `,"turn":"black","status":"playing",
				"history":[{"from":{"row":6,"col":4},"to":{"row":4,"col":4},"moved":"P","notation":"e2-e4"}],
				"captured":{"white":[],"black":[]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			err := g.Restore([]byte(tt.snapshot))
			assert.True(t, errors.Is(err, engine.ErrInvalidState), "got %v", err)
			assert.Equal(t, New().State(), g.State())

			events := g.Undo()
			require.Len(t, events, 1)
			assert.Equal(t, engine.EventInvalidMove, events[0].Type)
		})
	}
}
