package chess

import (
	"fmt"
	"strings"
)

// Side is one of the two players
type Side string

const (
	NoSide Side = ""
	White  Side = "white"
	Black  Side = "black"
)

// Opponent returns the other side
func (s Side) Opponent() Side {
	switch s {
	case White:
		return Black
	case Black:
		return White
	}
	return NoSide
}

// Piece is a board code: upper case for white, lower case for black, 0 for empty
type Piece byte

const (
	Empty Piece = 0

	WhiteKing   Piece = 'K'
	WhiteQueen  Piece = 'Q'
	WhiteRook   Piece = 'R'
	WhiteBishop Piece = 'B'
	WhiteKnight Piece = 'N'
	WhitePawn   Piece = 'P'

	BlackKing   Piece = 'k'
	BlackQueen  Piece = 'q'
	BlackRook   Piece = 'r'
	BlackBishop Piece = 'b'
	BlackKnight Piece = 'n'
	BlackPawn   Piece = 'p'
)

var material = map[Piece]int{
	WhitePawn:   1,
	WhiteKnight: 3,
	WhiteBishop: 3,
	WhiteRook:   5,
	WhiteQueen:  9,
	WhiteKing:   0,
}

// Side reports which player owns the piece
func (p Piece) Side() Side {
	switch {
	case p >= 'A' && p <= 'Z':
		return White
	case p >= 'a' && p <= 'z':
		return Black
	}
	return NoSide
}

// Type returns the white form of the piece, used to switch on movement rules
func (p Piece) Type() Piece {
	if p >= 'a' && p <= 'z' {
		return p - 'a' + 'A'
	}
	return p
}

// Value is the material worth used for scoring
func (p Piece) Value() int { return material[p.Type()] }

// Valid reports whether p is one of the twelve piece codes or Empty
func (p Piece) Valid() bool {
	if p == Empty {
		return true
	}
	_, ok := material[p.Type()]
	return ok
}

// String renders the piece letter, "." for an empty square
func (p Piece) String() string {
	if p == Empty {
		return "."
	}
	return string(rune(p))
}

// MarshalText encodes the piece letter; Empty encodes as ""
func (p Piece) MarshalText() ([]byte, error) {
	if p == Empty {
		return []byte{}, nil
	}
	return []byte{byte(p)}, nil
}

// UnmarshalText accepts a single piece letter, "" or "."
func (p *Piece) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" || s == "." {
		*p = Empty
		return nil
	}
	if len(s) != 1 || !Piece(s[0]).Valid() {
		return fmt.Errorf("unknown piece %q", s)
	}
	*p = Piece(s[0])
	return nil
}
