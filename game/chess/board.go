package chess

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// Size is the board width and height
const Size = 8

// Pawn home rows; row 0 is black's back rank
const (
	whitePawnRow = 6
	blackPawnRow = 1
)

var (
	rookDirs   = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirs = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirs  = append(append([][2]int{}, rookDirs...), bishopDirs...)
)

var knightJumps = [][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// Board is the 8x8 piece grid indexed [row][col]
type Board [Size][Size]Piece

// StandardBoard returns the initial setup with black on row 0 and white on row 7
func StandardBoard() Board {
	var b Board
	back := []Piece{WhiteRook, WhiteKnight, WhiteBishop, WhiteQueen, WhiteKing, WhiteBishop, WhiteKnight, WhiteRook}
	for col, p := range back {
		b[7][col] = p
		b[0][col] = p - 'A' + 'a'
		b[whitePawnRow][col] = WhitePawn
		b[blackPawnRow][col] = BlackPawn
	}
	return b
}

// InBounds reports whether pos lies on the board
func InBounds(pos engine.Position) bool {
	return pos.Row >= 0 && pos.Row < Size && pos.Col >= 0 && pos.Col < Size
}

// At returns the piece at pos; callers check bounds first
func (b *Board) At(pos engine.Position) Piece { return b[pos.Row][pos.Col] }

func (b *Board) set(pos engine.Position, p Piece) { b[pos.Row][pos.Col] = p }

// Destinations lists the squares the piece at from may move to. Check and
// pins are ignored; same-side squares are never included.
func (b *Board) Destinations(from engine.Position) []engine.Position {
	if !InBounds(from) {
		return nil
	}
	piece := b.At(from)
	side := piece.Side()
	if side == NoSide {
		return nil
	}

	switch piece.Type() {
	case WhitePawn:
		return b.pawnDestinations(from, side)
	case WhiteRook:
		return b.rays(from, side, rookDirs)
	case WhiteBishop:
		return b.rays(from, side, bishopDirs)
	case WhiteQueen:
		return b.rays(from, side, queenDirs)
	case WhiteKnight:
		return b.steps(from, side, knightJumps)
	case WhiteKing:
		return b.steps(from, side, queenDirs)
	}
	return nil
}

func (b *Board) pawnDestinations(from engine.Position, side Side) []engine.Position {
	dir, home := -1, whitePawnRow
	if side == Black {
		dir, home = 1, blackPawnRow
	}

	var out []engine.Position
	one := engine.Position{Row: from.Row + dir, Col: from.Col}
	if InBounds(one) && b.At(one) == Empty {
		out = append(out, one)
		two := engine.Position{Row: from.Row + 2*dir, Col: from.Col}
		if from.Row == home && InBounds(two) && b.At(two) == Empty {
			out = append(out, two)
		}
	}
	for _, dc := range []int{-1, 1} {
		diag := engine.Position{Row: from.Row + dir, Col: from.Col + dc}
		if InBounds(diag) && b.At(diag).Side() == side.Opponent() {
			out = append(out, diag)
		}
	}
	return out
}

// rays walks each direction until the edge or the first occupied square,
// which is included only when it holds an enemy piece
func (b *Board) rays(from engine.Position, side Side, dirs [][2]int) []engine.Position {
	var out []engine.Position
	for _, d := range dirs {
		pos := engine.Position{Row: from.Row + d[0], Col: from.Col + d[1]}
		for InBounds(pos) {
			occupant := b.At(pos)
			if occupant != Empty {
				if occupant.Side() != side {
					out = append(out, pos)
				}
				break
			}
			out = append(out, pos)
			pos = engine.Position{Row: pos.Row + d[0], Col: pos.Col + d[1]}
		}
	}
	return out
}

func (b *Board) steps(from engine.Position, side Side, offsets [][2]int) []engine.Position {
	var out []engine.Position
	for _, d := range offsets {
		pos := engine.Position{Row: from.Row + d[0], Col: from.Col + d[1]}
		if InBounds(pos) && b.At(pos).Side() != side {
			out = append(out, pos)
		}
	}
	return out
}

// Rows renders the board top to bottom, "." for empty squares
func (b Board) Rows() []string {
	rows := make([]string, Size)
	for r := 0; r < Size; r++ {
		var sb strings.Builder
		for c := 0; c < Size; c++ {
			sb.WriteString(b[r][c].String())
		}
		rows[r] = sb.String()
	}
	return rows
}

// MarshalJSON encodes the board as eight row strings
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Rows())
}

// UnmarshalJSON decodes eight row strings of eight piece letters each
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != Size {
		return fmt.Errorf("expected %d rows, got %d", Size, len(rows))
	}
	var out Board
	for r, row := range rows {
		if len(row) != Size {
			return fmt.Errorf("row %d has %d squares", r, len(row))
		}
		for c := 0; c < Size; c++ {
			var p Piece
			if err := p.UnmarshalText([]byte{row[c]}); err != nil {
				return fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			out[r][c] = p
		}
	}
	*b = out
	return nil
}

// Square returns algebraic coordinates such as "e2" for pos
func Square(pos engine.Position) string {
	return fmt.Sprintf("%c%d", 'a'+pos.Col, Size-pos.Row)
}
