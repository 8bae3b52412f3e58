package merlinmg_test

import (
	"testing"

	gm "merlin-engine/merlinmg"
)

type perftCase struct {
	fen    string
	counts []uint64 // counts[i] is perft(i+1)
}

// The standard perft suite (CPW positions).
var perftSuite = []perftCase{
	{gm.FENStartPos, []uint64{20, 400, 8902, 197281, 4865609}},
	{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		[]uint64{48, 2039, 97862, 4085603}},
	{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		[]uint64{14, 191, 2812, 43238, 674624}},
	{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		[]uint64{6, 264, 9467, 422333}},
	{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
		[]uint64{44, 1486, 62379, 2103487}},
	{"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		[]uint64{46, 2079, 89890, 3894594}},
}

func TestPerftSuite(t *testing.T) {
	for _, tc := range perftSuite {
		b, err := gm.ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
		}
		for depth, want := range tc.counts {
			if want > 500000 && testing.Short() {
				continue
			}
			if got := gm.Perft(b, depth+1); got != want {
				t.Errorf("%s\nperft(%d) = %d, want %d", tc.fen, depth+1, got, want)
				break
			}
		}
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	b := gm.MustParseFEN(gm.FENStartPos)
	div := gm.PerftDivide(b, 3)
	var total uint64
	for _, n := range div {
		total += n
	}
	if total != 8902 {
		t.Fatalf("divide sums to %d, want 8902", total)
	}
	if len(div) != 20 {
		t.Fatalf("expected 20 root moves, got %d", len(div))
	}
}

func moveStrings(moves []gm.Move) map[string]bool {
	set := make(map[string]bool, len(moves))
	for _, m := range moves {
		set[m.String()] = true
	}
	return set
}

// The en-passant capture b5xc6 would clear both pawns off the fifth rank
// and expose the a5 king to the h5 rook, so it must not be generated.
func TestEnPassantDiscoveredCheck(t *testing.T) {
	b := gm.MustParseFEN("8/8/3p4/KPp4r/1R3p1k/8/4P1P1/8 w - c6 0 1")
	moves := moveStrings(b.GenerateMoves())
	if moves["b5c6"] {
		t.Fatal("en passant b5c6 generated despite the rank-five pin")
	}
}

// With no slider lined up on the king, the capture is fine.
func TestEnPassantAllowedWhenSafe(t *testing.T) {
	b := gm.MustParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	moves := moveStrings(b.GenerateMoves())
	if !moves["e5d6"] {
		t.Fatal("legal en passant e5d6 missing")
	}
}

// An en-passant capture of the checking pawn is a legal evasion.
func TestEnPassantCapturesChecker(t *testing.T) {
	b := gm.MustParseFEN("8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1")
	if !b.InCheck() {
		t.Fatal("black king on c5 should be checked by the d4 pawn")
	}
	moves := moveStrings(b.GenerateMoves())
	if !moves["e4d3"] {
		t.Fatal("en passant evasion e4d3 missing")
	}
}

func TestCastlingThroughCheckNotGenerated(t *testing.T) {
	// The f1 square is covered by the f8 rook.
	b := gm.MustParseFEN("4kr2/8/8/8/8/8/8/4K2R w K - 0 1")
	if moves := moveStrings(b.GenerateMoves()); moves["e1g1"] {
		t.Fatal("castling through an attacked square generated")
	}

	// The g1 destination is covered by the g8 rook.
	b = gm.MustParseFEN("4k1r1/8/8/8/8/8/8/4K2R w K - 0 1")
	if moves := moveStrings(b.GenerateMoves()); moves["e1g1"] {
		t.Fatal("castling into an attacked square generated")
	}

	// With the rook off the king's path, castling is available again.
	b = gm.MustParseFEN("4k3/7r/8/8/8/8/8/4K2R w K - 0 1")
	if moves := moveStrings(b.GenerateMoves()); !moves["e1g1"] {
		t.Fatal("legal castling move missing")
	}
}

func TestCastlingBlockedByPieces(t *testing.T) {
	b := gm.MustParseFEN("4k3/8/8/8/8/8/8/4KB1R w K - 0 1")
	if moves := moveStrings(b.GenerateMoves()); moves["e1g1"] {
		t.Fatal("castling across an occupied square generated")
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Knight on d3 and rook on e8 both give check.
	b := gm.MustParseFEN("4r2k/8/8/8/8/3n4/3P1P2/4K3 w - - 0 1")
	if !b.CheckState().DoubleCheck {
		t.Fatal("position should be double check")
	}
	for _, m := range b.GenerateMoves() {
		if m.MovedPiece() != gm.WhiteKing {
			t.Fatalf("non-king move %s generated in double check", m)
		}
	}
}

func TestSingleCheckBlockOrCapture(t *testing.T) {
	// Rook e8 checks the e1 king; blocking on the e-file, capturing the
	// rook, and king moves are the only options.
	b := gm.MustParseFEN("4r2k/8/8/8/8/8/3B4/R3K3 w - - 0 1")
	for _, m := range b.GenerateMoves() {
		if m.MovedPiece() == gm.WhiteKing {
			continue
		}
		onFile := gm.FileOf(m.To()) == 4
		captures := m.To() == gm.SqE8
		if !onFile && !captures {
			t.Fatalf("move %s neither blocks nor captures the checker", m)
		}
	}
}

func TestPinnedPieceRestricted(t *testing.T) {
	// The d2 bishop is pinned by the a5 queen against the e1 king.
	b := gm.MustParseFEN("4k3/8/8/q7/8/8/3B4/4K3 w - - 0 1")
	for _, m := range b.GenerateMoves() {
		if m.MovedPiece() != gm.WhiteBishop {
			continue
		}
		to := m.To()
		if to != gm.Square(18) && to != gm.Square(25) && to != gm.Square(32) { // c3, b4, a5
			t.Fatalf("pinned bishop escaped its ray with %s", m)
		}
	}
}

func TestPinnedKnightHasNoMoves(t *testing.T) {
	b := gm.MustParseFEN("4k3/4r3/8/8/8/4N3/8/4K3 w - - 0 1")
	for _, m := range b.GenerateMoves() {
		if m.MovedPiece() == gm.WhiteKnight {
			t.Fatalf("pinned knight move %s generated", m)
		}
	}
}

func TestCapturesFilterMatchesFullGeneration(t *testing.T) {
	fens := []string{
		gm.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
	}
	for _, fen := range fens {
		b := gm.MustParseFEN(fen)
		all := b.GenerateMoves()
		captures := moveStrings(b.GenerateCapturesInto(nil))
		quiets := moveStrings(b.GenerateQuietsInto(nil))

		for _, m := range all {
			tactical := m.IsCapture() || m.PromotionPiece() != gm.NoPiece
			if tactical && m.IsCapture() && !captures[m.String()] {
				t.Errorf("%s: capture %s missing from captures filter", fen, m)
			}
			if !tactical && !quiets[m.String()] {
				t.Errorf("%s: quiet %s missing from quiets filter", fen, m)
			}
			if captures[m.String()] && quiets[m.String()] {
				t.Errorf("%s: %s appears in both filters", fen, m)
			}
		}
		if len(captures)+len(quiets) < len(all) {
			t.Errorf("%s: filters lost moves (%d + %d < %d)", fen, len(captures), len(quiets), len(all))
		}
	}
}

// The checks filter must agree exactly with making every legal move and
// asking whether the opponent ended up in check.
func TestGenerateChecksMatchesMakeMove(t *testing.T) {
	fens := []string{
		gm.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K2R w K - 0 2",
		"6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1",
	}
	for _, fen := range fens {
		b := gm.MustParseFEN(fen)
		checks := moveStrings(b.GenerateChecksInto(nil))
		for _, m := range b.GenerateMoves() {
			ok, st := b.MakeMove(m)
			if !ok {
				t.Fatalf("%s: legal move %s rejected", fen, m)
			}
			gives := b.InCheck()
			b.UnmakeMove(m, st)
			if gives != checks[m.String()] {
				t.Errorf("%s: move %s gives check=%v but checks filter says %v",
					fen, m, gives, checks[m.String()])
			}
		}
	}
}

func TestMoveEncodingRoundTrip(t *testing.T) {
	b := gm.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	for _, m := range b.GenerateMoves() {
		rebuilt := gm.NewMove(m.From(), m.To(), m.MovedPiece(), m.CapturedPiece(), m.PromotionPiece(), m.Flags())
		if rebuilt != m {
			t.Fatalf("move %s does not round-trip through its fields", m)
		}
	}
}

func BenchmarkPerftStartpos(b *testing.B) {
	board := gm.MustParseFEN(gm.FENStartPos)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if gm.Perft(board, 4) != 197281 {
			b.Fatal("bad perft")
		}
	}
}
