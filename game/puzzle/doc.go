// Package puzzle implements the N×N sliding tile game.
//
// The blank is tile 0. Shuffle only ever performs legal swaps starting from
// the current layout, so every shuffled board can be solved. The host drives
// the elapsed-time counter by calling Tick once per second; completion
// scores are compared against a best score supplied with SetBestScore.
package puzzle
