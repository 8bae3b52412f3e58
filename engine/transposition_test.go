package engine

import (
	"testing"

	gm "merlin-engine/merlinmg"
)

func newTestTT() *TransTable {
	var tt TransTable
	tt.Init(1)
	return &tt
}

func TestTTStoreProbe(t *testing.T) {
	tt := newTestTT()
	move := gm.NewMove(12, 28, gm.WhitePawn, gm.NoPiece, gm.NoPiece, gm.FlagNone)
	tt.Store(0xDEADBEEF, 6, 0, move, 42, ExactFlag)

	entry, hit := tt.Probe(0xDEADBEEF)
	if !hit {
		t.Fatal("probe missed a stored key")
	}
	if entry.Move != move || entry.Score != 42 || entry.Depth != 6 || entry.Flag != ExactFlag {
		t.Fatalf("entry corrupted: %+v", entry)
	}
	if _, hit := tt.Probe(0xDEADBEF0); hit {
		t.Fatal("probe hit a key that was never stored")
	}
}

func TestTTReplaceByDepth(t *testing.T) {
	tt := newTestTT()
	deep := gm.NewMove(12, 28, gm.WhitePawn, gm.NoPiece, gm.NoPiece, gm.FlagNone)
	shallow := gm.NewMove(11, 27, gm.WhitePawn, gm.NoPiece, gm.NoPiece, gm.FlagNone)

	tt.Store(1234, 8, 0, deep, 50, ExactFlag)
	tt.Store(1234, 3, 0, shallow, -10, AlphaFlag)

	entry, hit := tt.Probe(1234)
	if !hit || entry.Depth != 8 || entry.Move != deep {
		t.Fatalf("shallow store overwrote a deeper entry: %+v", entry)
	}

	tt.Store(1234, 10, 0, shallow, 70, BetaFlag)
	entry, _ = tt.Probe(1234)
	if entry.Depth != 10 || entry.Score != 70 {
		t.Fatalf("deeper store failed to replace: %+v", entry)
	}
}

func TestTTClear(t *testing.T) {
	tt := newTestTT()
	tt.Store(99, 4, 0, 0, 1, ExactFlag)
	tt.Clear()
	if _, hit := tt.Probe(99); hit {
		t.Fatal("entry survived Clear")
	}
}

func TestTTMateScoreAdjustment(t *testing.T) {
	// A mate found at ply 4 stored from that node must read back as the
	// same distance-to-mate when probed at ply 2.
	mateAt4 := MaxScore - 7 // mate in a few plies, seen from ply 4
	stored := scoreToTT(mateAt4, 4)
	if got := scoreFromTT(stored, 4); got != mateAt4 {
		t.Fatalf("store/probe at same ply changed score: %d -> %d", mateAt4, got)
	}
	atPly2 := scoreFromTT(stored, 2)
	if atPly2 != mateAt4+2 {
		t.Fatalf("probe at shallower ply: got %d, want %d", atPly2, mateAt4+2)
	}

	mated := -MaxScore + 9
	stored = scoreToTT(mated, 3)
	if got := scoreFromTT(stored, 3); got != mated {
		t.Fatalf("negative mate score round trip: %d -> %d", mated, got)
	}

	if got := scoreFromTT(scoreToTT(314, 7), 7); got != 314 {
		t.Fatalf("ordinary score must pass through unchanged, got %d", got)
	}
}
