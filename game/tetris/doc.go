// Package tetris implements the falling block game.
//
// The active piece never overlaps the locked grid or leaves the board while
// the game is playing. A downward move that cannot happen locks the piece,
// removes full rows and spawns the next one; the host calls Tick at
// TickInterval to drive automatic drops.
package tetris
