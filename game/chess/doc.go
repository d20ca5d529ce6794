// Package chess implements a simplified chess variant.
//
// Pieces follow standard movement and capture geometry but check, pins,
// castling, en passant and promotion do not exist. The only ways a game ends
// are capturing the opposing king or surrendering.
//
// The board is indexed [row][col] with black on row 0 and white on row 7.
// Every move is stored as a reversible delta so Undo never copies the board.
// Click selection is kept beside the position, never inside State, so
// snapshots and undo ignore it.
package chess
