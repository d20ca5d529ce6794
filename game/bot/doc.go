// Package bot plays games automatically for the batch simulator. Policies
// only ever pick from a game's PossibleActions, so engines stay free of any
// opponent logic. LuaPolicy lets simulation strategies be written as scripts.
package bot
