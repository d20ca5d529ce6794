package tetris

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	filledCell = '#'
	emptyCell  = '.'
)

// Point is a column/row coordinate; Y grows downward
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Shape is a rectangular matrix of filled cells, indexed [row][col]
type Shape [][]bool

// Tetromino is one of the seven named shapes in spawn orientation
type Tetromino struct {
	Name  string
	Shape Shape
}

// Tetrominoes is the fixed shape table; randomizers return indexes into it
var Tetrominoes = []Tetromino{
	{Name: "I", Shape: mustShape("####")},
	{Name: "O", Shape: mustShape("##", "##")},
	{Name: "T", Shape: mustShape(".#.", "###")},
	{Name: "S", Shape: mustShape(".##", "##.")},
	{Name: "Z", Shape: mustShape("##.", ".##")},
	{Name: "J", Shape: mustShape("#..", "###")},
	{Name: "L", Shape: mustShape("..#", "###")},
}

// TetrominoIndex returns the table index of name, or -1
func TetrominoIndex(name string) int {
	for i, t := range Tetrominoes {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// ParseShape reads rows of '#' and '.' into a shape
func ParseShape(rows ...string) (Shape, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("shape has no rows")
	}
	width := len(rows[0])
	s := make(Shape, len(rows))
	for r, row := range rows {
		if len(row) != width || width == 0 {
			return nil, fmt.Errorf("shape row %d has width %d, want %d", r, len(row), width)
		}
		s[r] = make([]bool, width)
		for c := 0; c < width; c++ {
			switch row[c] {
			case filledCell:
				s[r][c] = true
			case emptyCell:
			default:
				return nil, fmt.Errorf("shape row %d has unknown cell %q", r, row[c])
			}
		}
	}
	return s, nil
}

// mustShape panics on a malformed shape table entry
func mustShape(rows ...string) Shape {
	s, err := ParseShape(rows...)
	if err != nil {
		panic(err)
	}
	return s
}

// Height is the number of rows
func (s Shape) Height() int { return len(s) }

// Width is the number of columns
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Rotate returns a new shape turned 90° clockwise: transpose, then reverse
// each row. The receiver is not modified.
func (s Shape) Rotate() Shape {
	h, w := s.Height(), s.Width()
	out := make(Shape, w)
	for i := 0; i < w; i++ {
		out[i] = make([]bool, h)
		for j := 0; j < h; j++ {
			out[i][j] = s[h-1-j][i]
		}
	}
	return out
}

// Rows renders the shape with '#' for filled cells
func (s Shape) Rows() []string { return renderRows(s) }

// MarshalJSON encodes the shape as row strings
func (s Shape) MarshalJSON() ([]byte, error) { return json.Marshal(renderRows(s)) }

// UnmarshalJSON decodes row strings
func (s *Shape) UnmarshalJSON(data []byte) error {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := ParseShape(rows...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func renderRows(cells [][]bool) []string {
	rows := make([]string, len(cells))
	for r, row := range cells {
		var sb strings.Builder
		for _, filled := range row {
			if filled {
				sb.WriteByte(filledCell)
			} else {
				sb.WriteByte(emptyCell)
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

// Piece is the falling shape and the board position of its top-left cell
type Piece struct {
	Name   string `json:"name"`
	Shape  Shape  `json:"shape"`
	Origin Point  `json:"origin"`
}

// Cells returns the board coordinates covered by the piece
func (p *Piece) Cells() []Point {
	var out []Point
	for r, row := range p.Shape {
		for c, filled := range row {
			if filled {
				out = append(out, Point{X: p.Origin.X + c, Y: p.Origin.Y + r})
			}
		}
	}
	return out
}
