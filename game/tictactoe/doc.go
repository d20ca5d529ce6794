// Package tictactoe implements the 3x3 line game.
//
// Players alternate placing marks; after every placement the eight winning
// triples are scanned in a fixed order (rows, then columns, then diagonals)
// and the first complete one decides the game. A full board without a
// winner is a draw. Illegal placements are rejected with an invalid_move
// event and leave the state untouched.
//
// The win tally survives Reset and is cleared only by ResetScores.
package tictactoe
