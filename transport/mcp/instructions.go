package mcp

import (
	"strings"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

var gameRules = map[engine.Kind]string{
	engine.KindTicTacToe: `TIC-TAC-TOE
Two players alternate placing marks on a 3x3 board; X starts unless the
config says otherwise. Three in a row (row, column or diagonal) wins, a full
board without a line is a draw. Cells are numbered 0-8 left to right, top to
bottom. Wins are tallied per mark across resets.

Actions:
  {"type": "place", "index": 4}     mark the centre for the player to move
  {"type": "reset"}                 clear the board, keep the tally
  {"type": "reset_scores"}          zero the tally`,

	engine.KindPuzzle: `SLIDING PUZZLE
Tiles 1..N*N-1 sit on an N x N board with one blank. Shuffle first; the clock
starts with the shuffle. Move a tile adjacent to the blank to slide it in.
Solve by arranging tiles in order with the blank last. Fewer moves and less
time score higher; your best score is kept.

Actions:
  {"type": "shuffle"}               scramble the board and start the clock
  {"type": "move_tile", "index": 7} slide the tile at board position 7
  {"type": "initialize", "index": 4} switch to a 4x4 board (3 or 4)
  {"type": "reset"}                 solved board, clock stopped`,

	engine.KindChess: `CHESS (simplified)
White moves first. Pieces move by their usual patterns; there is no check,
castling, en passant or promotion. Capturing the enemy king wins.
Row 0 is black's back rank (rank 8), column 0 is file a.

Actions:
  {"type": "select", "row": 6, "col": 4}                          pick a piece, then click a target
  {"type": "move", "row": 6, "col": 4, "to_row": 4, "to_col": 4}  e2 to e4 in one step
  {"type": "undo"}                  take back the last move
  {"type": "surrender"}             the side to move resigns
  {"type": "reset"}                 new game`,

	engine.KindTetris: `TETRIS
Pieces fall one row per tick; the interval shrinks as the level rises. Clear
full rows for points (100 per row times the level). The game ends when a
new piece cannot spawn. Start before moving; ticks only advance while running.

Actions:
  {"type": "start"} / {"type": "pause"} / {"type": "resume"}
  {"type": "left"} / {"type": "right"} / {"type": "down"}
  {"type": "move", "dx": -2, "dy": 0}  shift several columns or rows at once
  {"type": "rotate"}                rotate clockwise
  {"type": "hard_drop"}             drop to the floor and lock
  {"type": "reset"}                 empty well, stopped`,
}

// instructions returns the rules for one game, or all of them for an empty kind
func instructions(kind engine.Kind) string {
	var b strings.Builder
	b.WriteString("GAME ARCADE INSTRUCTIONS\n\n")
	b.WriteString("Create a session with create_session, then send actions with act or bulk_act.\n")
	b.WriteString("Every game state lists its possible actions. A rejected action does not\n")
	b.WriteString("change the game; the response explains why.\n")

	kinds := engine.Kinds
	if kind != "" {
		kinds = []engine.Kind{kind}
	}
	for _, k := range kinds {
		b.WriteString("\n")
		b.WriteString(gameRules[k])
		b.WriteString("\n")
	}
	return b.String()
}
