package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

func actionTypes(actions []engine.Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Type)
	}
	return out
}

func TestPossibleActions_FollowStatus(t *testing.T) {
	g := newTetris(t)
	assert.Equal(t, []string{ActionStart}, actionTypes(g.PossibleActions()))

	require.True(t, engine.Accepted(g.Apply(engine.Action{Type: ActionStart})))
	assert.Equal(t, []string{ActionLeft, ActionRight, ActionDown, ActionRotate, ActionHardDrop, ActionPause},
		actionTypes(g.PossibleActions()))

	require.True(t, engine.Accepted(g.Apply(engine.Action{Type: ActionPause})))
	assert.Equal(t, []string{ActionResume}, actionTypes(g.PossibleActions()))

	require.True(t, engine.Accepted(g.Apply(engine.Action{Type: ActionResume})))
	assert.Equal(t, StatusPlaying, g.Status())
}

func TestApply_UnknownActionLeavesStateUntouched(t *testing.T) {
	g := newTetris(t)
	g.Start()
	before := g.State()

	events := g.Apply(engine.Action{Type: "hold"})
	require.Len(t, events, 1)
	assert.Equal(t, engine.EventInvalidMove, events[0].Type)
	assert.Equal(t, before, g.State())
}

func TestApply_MoveReadsOffsets(t *testing.T) {
	g := newTetris(t)
	g.Start()
	col := g.State().Active.Origin.X

	require.True(t, engine.Accepted(g.Apply(engine.Action{Type: ActionMove, DX: 1})))
	assert.Equal(t, col+1, g.State().Active.Origin.X)

	events := g.Apply(engine.Action{Type: ActionMove, DY: -1})
	require.Len(t, events, 1)
	assert.Equal(t, engine.EventInvalidMove, events[0].Type)
}
