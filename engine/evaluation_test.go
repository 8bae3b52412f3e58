package engine

import (
	"strings"
	"testing"

	gm "merlin-engine/merlinmg"
)

// mirrorBoard rebuilds the position with colors swapped and ranks
// flipped vertically; the side to move, castling rights and en-passant
// square flip along. The result is the identical game seen from the other
// chair, so the evaluation must not change.
func mirrorBoard(t *testing.T, b *gm.Board) *gm.Board {
	t.Helper()
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := gm.Square(rank*8 + file)
			p := b.PieceAt(gm.FlipVertical(sq))
			if p == gm.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			ch := " PNBRQK"[p.Type()]
			if p.Color() == gm.White {
				ch += 'a' - 'A' // white becomes black
			}
			sb.WriteByte(byte(ch))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.SideToMove() == gm.White {
		sb.WriteString(" b ")
	} else {
		sb.WriteString(" w ")
	}

	castle := ""
	letters := []string{"K", "Q", "k", "q"}
	for i, right := range []gm.CastlingRights{gm.CastleBlackKing, gm.CastleBlackQueen, gm.CastleWhiteKing, gm.CastleWhiteQueen} {
		if b.Castling()&right != 0 {
			castle += letters[i]
		}
	}
	if castle == "" {
		castle = "-"
	}
	sb.WriteString(castle)

	if ep := b.EnPassantSquare(); ep != gm.NoSquare {
		flipped := gm.FlipVertical(ep)
		sb.WriteString(" " + string([]byte{'a' + byte(gm.FileOf(flipped)), '1' + byte(gm.RankOf(flipped))}))
	} else {
		sb.WriteString(" -")
	}
	sb.WriteString(" 0 1")

	return gm.MustParseFEN(sb.String())
}

func TestEvaluationSymmetry(t *testing.T) {
	fens := []string{
		gm.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 0 1",
		"6k1/3b4/1p1p2p1/p1pPbr2/P1P3K1/1P6/4r3/3R4 b - - 1 51",
		"8/6pk/p1p4p/1p5r/1P1R4/P3q2P/6P1/3Q3K w - - 0 42",
	}
	for _, fen := range fens {
		b := gm.MustParseFEN(fen)
		mirrored := mirrorBoard(t, b)
		if got, want := Evaluate(mirrored), Evaluate(b); got != want {
			t.Errorf("asymmetric evaluation for %q: %d vs %d (mirror %q)",
				fen, want, got, mirrored.ToFEN())
		}
	}
}

func TestEvaluationBounded(t *testing.T) {
	fens := []string{
		gm.FENStartPos,
		"k7/8/8/8/8/8/8/KQQQQQQR w - - 0 1",
		"kqqqqqqr/8/8/8/8/8/8/K7 w - - 0 1",
	}
	for _, fen := range fens {
		b := gm.MustParseFEN(fen)
		if s := Evaluate(b); Abs(s) >= Checkmate {
			t.Errorf("evaluation %d of %q reaches into the mate range", s, fen)
		}
	}
}

func TestEvaluationDeterministic(t *testing.T) {
	b := gm.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	first := Evaluate(b)
	for i := 0; i < 5; i++ {
		if Evaluate(b) != first {
			t.Fatal("evaluation changed between calls on the same position")
		}
	}
}

func TestStartingPositionRoughlyBalanced(t *testing.T) {
	b := gm.MustParseFEN(gm.FENStartPos)
	if s := Evaluate(b); Abs(s) > 100 {
		t.Errorf("starting position evaluates to %d", s)
	}
}

func TestMaterialAdvantageShows(t *testing.T) {
	// White is a queen up; the score from White's view must be large.
	b := gm.MustParseFEN("k7/8/8/8/8/8/8/KQ6 w - - 0 1")
	if s := Evaluate(b); s < 500 {
		t.Errorf("queen-up position evaluates to only %d", s)
	}
	// The same position with Black to move must look bad for Black.
	b = gm.MustParseFEN("k7/8/8/8/8/8/8/KQ6 b - - 0 1")
	if s := Evaluate(b); s > -500 {
		t.Errorf("queen-down side evaluates to %d", s)
	}
}
