package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

func TestPossibleActions(t *testing.T) {
	g := newPuzzle(t, 3)
	assert.Equal(t, []engine.Action{{Type: ActionShuffle}}, g.PossibleActions())

	require.True(t, engine.Accepted(g.Apply(engine.Action{Type: ActionShuffle})))

	actions := g.PossibleActions()
	neighbors := g.Board().Neighbors()
	require.Len(t, actions, len(neighbors))
	for i, a := range actions {
		assert.Equal(t, ActionMoveTile, a.Type)
		assert.Equal(t, neighbors[i], a.Index)
	}
}

func TestApply_Initialize(t *testing.T) {
	g := newPuzzle(t, 3)

	events := g.Apply(engine.Action{Type: ActionInitialize, Index: 4})
	require.True(t, engine.Accepted(events))
	assert.Equal(t, 4, g.Board().Size)
	assert.Equal(t, StatusNotStarted, g.Status())

	events = g.Apply(engine.Action{Type: ActionInitialize, Index: 5})
	require.Len(t, events, 1)
	assert.Equal(t, engine.EventInvalidMove, events[0].Type)
	assert.Equal(t, 4, g.Board().Size)
}

func TestApply_UnknownActionLeavesStateUntouched(t *testing.T) {
	g := newPuzzle(t, 3)
	g.Shuffle()
	before := g.State()

	events := g.Apply(engine.Action{Type: "rotate"})
	require.Len(t, events, 1)
	assert.Equal(t, engine.EventInvalidMove, events[0].Type)
	assert.Equal(t, before, g.State())
}
