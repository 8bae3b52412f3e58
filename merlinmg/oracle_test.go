package merlinmg_test

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"

	gm "merlin-engine/merlinmg"
)

// Differential tests against dragontoothmg, an independent magic-bitboard
// move generator: both implementations must agree on the legal move set
// and on perft counts for every probe position.

var oracleFens = []string{
	dragontoothmg.Startpos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
	"8/8/3p4/KPp4r/1R3p1k/8/4P1P1/8 w - c6 0 1",
	"1n5k/P7/8/8/8/8/8/7K w - - 0 1",
}

func sortedMoveStrings(moves []string) []string {
	sort.Strings(moves)
	return moves
}

func TestMoveSetMatchesOracle(t *testing.T) {
	for _, fen := range oracleFens {
		ours := gm.MustParseFEN(fen)
		theirs := dragontoothmg.ParseFen(fen)

		var ourMoves, oracleMoves []string
		for _, m := range ours.GenerateMoves() {
			ourMoves = append(ourMoves, m.String())
		}
		for _, m := range theirs.GenerateLegalMoves() {
			oracleMoves = append(oracleMoves, m.String())
		}
		sortedMoveStrings(ourMoves)
		sortedMoveStrings(oracleMoves)

		if len(ourMoves) != len(oracleMoves) {
			t.Errorf("%s\nmove count %d, oracle %d\nours:   %v\noracle: %v",
				fen, len(ourMoves), len(oracleMoves), ourMoves, oracleMoves)
			continue
		}
		for i := range ourMoves {
			if ourMoves[i] != oracleMoves[i] {
				t.Errorf("%s\nmove set differs at %q vs %q", fen, ourMoves[i], oracleMoves[i])
				break
			}
		}
	}
}

func oraclePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		nodes += oraclePerft(b, depth-1)
		unapply()
	}
	return nodes
}

func TestPerftMatchesOracle(t *testing.T) {
	depth := 3
	if testing.Short() {
		depth = 2
	}
	for _, fen := range oracleFens {
		ours := gm.MustParseFEN(fen)
		theirs := dragontoothmg.ParseFen(fen)
		got := gm.Perft(ours, depth)
		want := oraclePerft(&theirs, depth)
		if got != want {
			t.Errorf("%s\nperft(%d) = %d, oracle says %d", fen, depth, got, want)
		}
	}
}
