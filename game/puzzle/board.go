package puzzle

import (
	"fmt"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Blank is the tile value of the empty cell
const Blank = 0

// Board is an N×N grid of tiles stored row-major
type Board struct {
	Size  int   `json:"size"`
	Tiles []int `json:"tiles"`
	Blank int   `json:"blank"`
}

// NewBoard returns a solved board: 1..N²-1 in order, blank last
func NewBoard(size int) (*Board, error) {
	if size != 3 && size != 4 {
		return nil, fmt.Errorf("%w: puzzle size must be 3 or 4, got %d", engine.ErrInvalidConfig, size)
	}
	n := size * size
	tiles := make([]int, n)
	for i := 0; i < n-1; i++ {
		tiles[i] = i + 1
	}
	tiles[n-1] = Blank
	return &Board{Size: size, Tiles: tiles, Blank: n - 1}, nil
}

// Neighbors returns the indexes adjacent to the blank, ordered up, down, left, right
func (b *Board) Neighbors() []int {
	row, col := b.Blank/b.Size, b.Blank%b.Size
	out := make([]int, 0, 4)
	if row > 0 {
		out = append(out, b.Blank-b.Size)
	}
	if row < b.Size-1 {
		out = append(out, b.Blank+b.Size)
	}
	if col > 0 {
		out = append(out, b.Blank-1)
	}
	if col < b.Size-1 {
		out = append(out, b.Blank+1)
	}
	return out
}

// IsNeighbor reports whether index can slide into the blank
func (b *Board) IsNeighbor(index int) bool {
	for _, n := range b.Neighbors() {
		if n == index {
			return true
		}
	}
	return false
}

// Slide swaps the tile at index with the blank when they are adjacent
func (b *Board) Slide(index int) bool {
	if !b.IsNeighbor(index) {
		return false
	}
	b.Tiles[b.Blank], b.Tiles[index] = b.Tiles[index], b.Tiles[b.Blank]
	b.Blank = index
	return true
}

// Solved reports whether every tile sits in its home cell
func (b *Board) Solved() bool {
	last := len(b.Tiles) - 1
	for i, v := range b.Tiles {
		want := i + 1
		if i == last {
			want = Blank
		}
		if v != want {
			return false
		}
	}
	return true
}

// Clone returns a deep copy
func (b *Board) Clone() *Board {
	return &Board{Size: b.Size, Tiles: append([]int(nil), b.Tiles...), Blank: b.Blank}
}

// validate checks a decoded board: permutation of 0..N²-1 with Blank pointing at 0
func (b *Board) validate() error {
	if b.Size != 3 && b.Size != 4 {
		return fmt.Errorf("%w: puzzle size must be 3 or 4, got %d", engine.ErrInvalidState, b.Size)
	}
	n := b.Size * b.Size
	if len(b.Tiles) != n {
		return fmt.Errorf("%w: expected %d tiles, got %d", engine.ErrInvalidState, n, len(b.Tiles))
	}
	seen := make([]bool, n)
	for _, v := range b.Tiles {
		if v < 0 || v >= n || seen[v] {
			return fmt.Errorf("%w: tiles are not a permutation of 0..%d", engine.ErrInvalidState, n-1)
		}
		seen[v] = true
	}
	if b.Blank < 0 || b.Blank >= n || b.Tiles[b.Blank] != Blank {
		return fmt.Errorf("%w: blank index %d does not hold the empty tile", engine.ErrInvalidState, b.Blank)
	}
	return nil
}
