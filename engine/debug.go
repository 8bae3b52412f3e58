package engine

import (
	"fmt"

	gm "merlin-engine/merlinmg"
)

// DumpStaticEval prints the static evaluation of the position as info
// strings; driven by the UCI "eval" debug command.
func DumpStaticEval(b *gm.Board) {
	score := Evaluate(b)
	phase := GetPiecePhase(b)
	fmt.Println("info string fen", b.ToFEN())
	fmt.Println("info string phase", phase, "of", TotalPhase)
	fmt.Println("info string static eval", score, "cp (side to move)")
}

// DumpRootMoveOrdering prints every legal move with its ordering score,
// highest first; driven by the UCI "moveordering" debug command.
func DumpRootMoveOrdering(b *gm.Board) {
	list := scoreMoves(b, b.GenerateMoves(), 0, 0, 0)
	fmt.Println("info string move ordering for", b.ToFEN())
	for i := 0; i < len(list.moves); i++ {
		move := orderNextMove(i, &list)
		fmt.Printf("info string #%d %s score=%d\n", i+1, move, list.moves[i].score)
	}
}
