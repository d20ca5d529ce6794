package chess

import (
	"fmt"
	"strconv"
	"strings"

	nchess "github.com/notnil/chess"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

var pieceLetters = map[nchess.PieceType]Piece{
	nchess.King:   WhiteKing,
	nchess.Queen:  WhiteQueen,
	nchess.Rook:   WhiteRook,
	nchess.Bishop: WhiteBishop,
	nchess.Knight: WhiteKnight,
	nchess.Pawn:   WhitePawn,
}

// FEN exports the position. Castling and en passant are not part of this
// variant, so those fields are always "-".
func (g *Game) FEN() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Size; c++ {
			p := g.state.Board[r][c]
			if p == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(byte(p))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}

	side := "w"
	if g.state.Turn == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s - - 0 %d", sb.String(), side, len(g.state.History)/2+1)
}

// ParseFEN reads the placement and side to move of a FEN string
func ParseFEN(fen string) (Board, Side, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return Board{}, NoSide, fmt.Errorf("%w: %v", engine.ErrInvalidState, err)
	}
	pos := nchess.NewGame(opt).Position()

	var b Board
	for sq, piece := range pos.Board().SquareMap() {
		letter, ok := pieceLetters[piece.Type()]
		if !ok {
			continue
		}
		if piece.Color() == nchess.Black {
			letter = letter - 'A' + 'a'
		}
		b[Size-1-int(sq.Rank())][int(sq.File())] = letter
	}

	side := White
	if pos.Turn() == nchess.Black {
		side = Black
	}
	return b, side, nil
}

// NewFromFEN starts a game from an arbitrary placement with an empty history
func NewFromFEN(fen string) (*Game, error) {
	board, side, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	g := New()
	g.state.Board = board
	g.state.Turn = side
	return g, nil
}
