package tetris

import (
	"fmt"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Randomizer names accepted in configuration
const (
	RandomizerUniform = "uniform"
	RandomizerBag     = "bag"
)

// Randomizer picks the next tetromino index
type Randomizer interface {
	Next() int
}

// NewRandomizer builds the named randomizer over rng
func NewRandomizer(name string, rng engine.Rand) (Randomizer, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: tetris needs a random source", engine.ErrInvalidConfig)
	}
	switch name {
	case RandomizerUniform, "":
		return &uniform{rng: rng}, nil
	case RandomizerBag:
		return &bag{rng: rng}, nil
	}
	return nil, fmt.Errorf("%w: unknown randomizer %q", engine.ErrInvalidConfig, name)
}

// uniform draws every piece independently
type uniform struct {
	rng engine.Rand
}

func (u *uniform) Next() int { return u.rng.Intn(len(Tetrominoes)) }

// bag deals each of the seven pieces once per shuffled bag
type bag struct {
	rng     engine.Rand
	pending []int
}

func (b *bag) Next() int {
	if len(b.pending) == 0 {
		b.refill()
	}
	next := b.pending[0]
	b.pending = b.pending[1:]
	return next
}

func (b *bag) refill() {
	b.pending = make([]int, len(Tetrominoes))
	for i := range b.pending {
		b.pending[i] = i
	}
	for i := len(b.pending) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		b.pending[i], b.pending[j] = b.pending[j], b.pending[i]
	}
}
