package engine

import (
	gm "merlin-engine/merlinmg"
)

/*
HISTORY / COUNTER MOVES
A quiet move that fails high earns a history bonus scaled by depth^2 and is
remembered as the counter to the move that preceded it; quiet moves that
were tried before it at the same node take a malus. The table saturates at
historyMaxVal and is halved when it gets there, so old scores fade.
*/

var historyMove [2][64][64]int32
var counterMove [2][64][64]gm.Move

const historyMaxVal = 8000

func incrementHistory(side gm.Color, move gm.Move, depth int8) {
	entry := &historyMove[side][move.From()][move.To()]
	*entry += int32(depth) * int32(depth)
	if *entry >= historyMaxVal {
		ageHistoryTable(side)
	}
}

func decrementHistory(side gm.Color, move gm.Move) {
	entry := &historyMove[side][move.From()][move.To()]
	if *entry > 0 {
		*entry /= 4
	}
}

func storeCounter(side gm.Color, prevMove, move gm.Move) {
	if prevMove != 0 {
		counterMove[side][prevMove.From()][prevMove.To()] = move
	}
}

func ageHistoryTable(side gm.Color) {
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			historyMove[side][from][to] /= 2
		}
	}
}

func clearHistoryTables() {
	for side := 0; side < 2; side++ {
		for from := 0; from < 64; from++ {
			for to := 0; to < 64; to++ {
				historyMove[side][from][to] = 0
				counterMove[side][from][to] = 0
			}
		}
	}
}

// Precomputed late-move reductions indexed by depth and move count.
var lmrTable [MaxDepth + 1][64]int8

func initLMRTable() {
	for d := 1; d <= MaxDepth; d++ {
		for m := 1; m < 64; m++ {
			r := 1 + d/8 + m/16
			r = Min(r, d-2)
			lmrTable[d][m] = int8(Max(r, 0))
		}
	}
}
