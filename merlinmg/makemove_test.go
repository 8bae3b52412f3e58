package merlinmg_test

import (
	"testing"

	gm "merlin-engine/merlinmg"
)

// snapshot captures every observable field of a position.
type snapshot struct {
	fen   string
	hash  uint64
	check gm.CheckInfo
}

func snap(b *gm.Board) snapshot {
	return snapshot{fen: b.ToFEN(), hash: b.Hash(), check: b.CheckState()}
}

// walkMakeUnmake verifies, for every legal move of the position, that
// make/unmake restores the position byte for byte and that the
// incremental hash stays consistent with a full recompute.
func walkMakeUnmake(t *testing.T, fen string, depth int) {
	t.Helper()
	b, err := gm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	walkRec(t, b, depth)
}

func walkRec(t *testing.T, b *gm.Board, depth int) {
	if depth == 0 {
		return
	}
	before := snap(b)
	for _, m := range b.GenerateMoves() {
		ok, st := b.MakeMove(m)
		if !ok {
			t.Fatalf("generated move %s rejected in %s", m, before.fen)
		}
		if b.ColorInCheck(b.SideToMove().Other()) {
			t.Fatalf("move %s leaves the mover in check in %s", m, before.fen)
		}
		if b.Hash() != b.ComputeZobrist() {
			t.Fatalf("hash drifted after %s in %s", m, before.fen)
		}
		if !b.Validate() {
			t.Fatalf("inconsistent board after %s in %s", m, before.fen)
		}
		walkRec(t, b, depth-1)
		b.UnmakeMove(m, st)
		if after := snap(b); after != before {
			t.Fatalf("unmake of %s did not restore position:\nbefore %+v\nafter  %+v", m, before, after)
		}
	}
}

func TestMakeUnmakeSymmetry(t *testing.T) {
	positions := []string{
		gm.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
	}
	for _, fen := range positions {
		walkMakeUnmake(t, fen, 2)
	}
}

func TestMakeMoveCastlingMovesRook(t *testing.T) {
	b := gm.MustParseFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	m := gm.NewMove(gm.SqE1, gm.SqG1, gm.WhiteKing, gm.NoPiece, gm.NoPiece, gm.FlagCastle)
	before := snap(b)
	ok, st := b.MakeMove(m)
	if !ok {
		t.Fatal("castling rejected")
	}
	if b.PieceAt(gm.SqF1) != gm.WhiteRook || b.PieceAt(gm.SqH1) != gm.NoPiece {
		t.Fatal("rook did not move to f1")
	}
	if b.Castling()&gm.CastleWhiteKing != 0 {
		t.Fatal("castling right not cleared")
	}
	b.UnmakeMove(m, st)
	if snap(b) != before {
		t.Fatal("castling unmake did not restore position")
	}
}

func TestMakeMoveEnPassant(t *testing.T) {
	b := gm.MustParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	var ep gm.Move
	for _, m := range b.GenerateMoves() {
		if m.Flags() == gm.FlagEnPassant {
			ep = m
		}
	}
	if ep == 0 {
		t.Fatal("no en-passant move generated")
	}
	before := snap(b)
	ok, st := b.MakeMove(ep)
	if !ok {
		t.Fatal("en passant rejected")
	}
	if b.PieceAt(gm.Square(35)) != gm.NoPiece { // d5 pawn gone
		t.Fatal("captured pawn still on d5")
	}
	b.UnmakeMove(ep, st)
	if snap(b) != before {
		t.Fatal("en-passant unmake did not restore position")
	}
}

func TestMakeMovePromotion(t *testing.T) {
	b := gm.MustParseFEN("1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	before := snap(b)
	promos := 0
	for _, m := range b.GenerateMoves() {
		if m.PromotionPiece() == gm.NoPiece {
			continue
		}
		promos++
		ok, st := b.MakeMove(m)
		if !ok {
			t.Fatalf("promotion %s rejected", m)
		}
		if got := b.PieceAt(m.To()); got != m.PromotionPiece() {
			t.Fatalf("expected %v on %v, got %v", m.PromotionPiece(), m.To(), got)
		}
		b.UnmakeMove(m, st)
		if snap(b) != before {
			t.Fatalf("promotion unmake of %s did not restore position", m)
		}
	}
	// a7a8 and a7xb8, four pieces each
	if promos != 8 {
		t.Fatalf("expected 8 promotion moves, got %d", promos)
	}
}

func TestNullMoveSymmetry(t *testing.T) {
	fens := []string{
		gm.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R b KQkq - 3 7",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
	}
	for _, fen := range fens {
		b := gm.MustParseFEN(fen)
		if b.InCheck() {
			t.Fatalf("test position %q must not be in check", fen)
		}
		before := snap(b)
		st := b.MakeNullMove()
		if b.EnPassantSquare() != gm.NoSquare {
			t.Fatal("null move must clear the en-passant square")
		}
		if b.Hash() != b.ComputeZobrist() {
			t.Fatal("hash drifted after null move")
		}
		b.UnmakeNullMove(st)
		if snap(b) != before {
			t.Fatalf("null-move unmake did not restore %q", fen)
		}
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	// Moving the pinned knight must be refused and leave no trace.
	b := gm.MustParseFEN("4k3/4r3/8/8/8/4N3/8/4K3 w - - 0 1")
	before := snap(b)
	m := gm.NewMove(gm.Square(20), gm.Square(35), gm.WhiteKnight, gm.NoPiece, gm.NoPiece, gm.FlagNone)
	if ok, _ := b.MakeMove(m); ok {
		t.Fatal("move exposing the king was accepted")
	}
	if snap(b) != before {
		t.Fatal("rejected move left residue on the board")
	}
}
