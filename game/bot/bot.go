package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

var ErrNoActions = errors.New("no actions available")

// Policy picks the next command for a game
type Policy interface {
	Choose(game engine.Game) (engine.Action, error)
}

// RandomPolicy picks uniformly among the possible actions
type RandomPolicy struct {
	rng engine.Rand
}

// NewRandomPolicy creates a policy drawing from rng
func NewRandomPolicy(rng engine.Rand) *RandomPolicy {
	return &RandomPolicy{rng: rng}
}

// Choose implements Policy
func (p *RandomPolicy) Choose(game engine.Game) (engine.Action, error) {
	actions := game.PossibleActions()
	if len(actions) == 0 {
		return engine.Action{}, ErrNoActions
	}
	return actions[p.rng.Intn(len(actions))], nil
}

// Result summarizes one bot-played game
type Result struct {
	Kind     engine.Kind              `json:"kind"`
	Status   string                   `json:"status"`
	Finished bool                     `json:"finished"`
	Score    int                      `json:"score"`
	Steps    int                      `json:"steps"`
	Accepted int                      `json:"accepted"`
	Events   map[engine.EventType]int `json:"events"`
}

// Play drives game with policy until it finishes, runs out of actions, or
// maxSteps commands have been applied
func Play(ctx context.Context, game engine.Game, policy Policy, maxSteps int) (Result, error) {
	res := Result{Kind: game.Kind(), Events: map[engine.EventType]int{}}

	for res.Steps < maxSteps && !game.Finished() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		action, err := policy.Choose(game)
		if errors.Is(err, ErrNoActions) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("policy failed at step %d: %w", res.Steps, err)
		}

		events := game.Apply(action)
		res.Steps++
		if engine.Accepted(events) {
			res.Accepted++
		}
		for _, ev := range events {
			res.Events[ev.Type]++
		}
	}

	res.Status = game.Status()
	res.Finished = game.Finished()
	res.Score = game.Score()
	return res, nil
}
