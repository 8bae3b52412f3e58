package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	gm "merlin-engine/merlinmg"
)

func main() {
	fen := flag.String("fen", gm.FENStartPos, "FEN string (defaults to the initial position)")
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at the root")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}
	board, err := gm.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *divide {
		div := gm.PerftDivide(board, *depth)
		lines := make([]string, 0, len(div))
		var total uint64
		for m, n := range div {
			lines = append(lines, fmt.Sprintf("%s: %d", m, n))
			total += n
		}
		sort.Strings(lines)
		for _, l := range lines {
			fmt.Println(l)
		}
		fmt.Printf("\nNodes searched: %d\n", total)
		return
	}

	start := time.Now()
	nodes := gm.Perft(board, *depth)
	elapsed := time.Since(start)
	nps := float64(nodes) / elapsed.Seconds()
	fmt.Printf("perft(%d) = %d  (%.2fs, %.0f nps)\n", *depth, nodes, elapsed.Seconds(), nps)
}
