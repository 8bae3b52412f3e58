package main

import (
	"flag"
	"fmt"
	"time"

	"merlin-engine/engine"
	gm "merlin-engine/merlinmg"
)

// A small fixed-depth benchmark over standard test positions, for
// comparing search speed and move quality across changes.
var benchPositions = []string{
	gm.FENStartPos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
}

func main() {
	depth := flag.Int("depth", 8, "search depth per position")
	flag.Parse()

	total := time.Duration(0)
	for _, fen := range benchPositions {
		board, err := gm.ParseFEN(fen)
		if err != nil {
			fmt.Println("bad position:", err)
			continue
		}
		engine.ResetForNewGame()
		engine.ResetHistory(board)

		start := time.Now()
		move, score := engine.StartSearch(board, engine.Limits{Depth: *depth})
		elapsed := time.Since(start)
		total += elapsed

		fmt.Printf("%-70s best %-6s score %-6d %8.2fs\n", fen, move, score, elapsed.Seconds())
	}
	fmt.Printf("total: %.2fs\n", total.Seconds())
}
