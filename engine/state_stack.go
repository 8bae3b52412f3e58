package engine

import (
	gm "merlin-engine/merlinmg"
)

const fiftyMoveLimit = 100

// State is one step of position history: enough to detect repetitions and
// the 50-move rule.
type State struct {
	Hash   uint64
	Rule50 int
}

// gameHistory is the position history of the game being played, recorded
// by the UCI layer. stateStack extends it with the moves of the current
// search line.
var gameHistory []State
var stateStack []State

// ResetHistory starts a fresh game history containing just the current
// position.
func ResetHistory(b *gm.Board) {
	gameHistory = gameHistory[:0]
	gameHistory = append(gameHistory, State{Hash: b.Hash(), Rule50: b.HalfmoveClock()})
}

// RecordPosition appends the current position to the game history; the UCI
// layer calls it after every move applied to the game board.
func RecordPosition(b *gm.Board) {
	gameHistory = append(gameHistory, State{Hash: b.Hash(), Rule50: b.HalfmoveClock()})
}

// syncStateStack primes the search stack from the game history. If the
// history does not end at the current position (e.g. a bare test board),
// the stack restarts from the board alone.
func syncStateStack(b *gm.Board) {
	stateStack = append(stateStack[:0], gameHistory...)
	if n := len(stateStack); n == 0 || stateStack[n-1].Hash != b.Hash() {
		stateStack = append(stateStack[:0], State{Hash: b.Hash(), Rule50: b.HalfmoveClock()})
	}
}

func pushState(b *gm.Board) {
	stateStack = append(stateStack, State{Hash: b.Hash(), Rule50: b.HalfmoveClock()})
}

func popState() {
	stateStack = stateStack[:len(stateStack)-1]
}

// isDraw reports whether the position on top of the stack is drawn by the
// 50-move rule or by repetition. One earlier occurrence within the
// reversible-move window counts: the searcher scores the first repetition
// as a draw rather than waiting for the third occurrence.
func isDraw() bool {
	top := len(stateStack) - 1
	curr := stateStack[top]
	if curr.Rule50 >= fiftyMoveLimit {
		return true
	}
	start := Max(top-curr.Rule50, 0)
	for i := top - 2; i >= start; i -= 2 {
		if stateStack[i].Hash == curr.Hash {
			return true
		}
	}
	return false
}
