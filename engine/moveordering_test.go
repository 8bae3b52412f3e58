package engine

import (
	"testing"

	gm "merlin-engine/merlinmg"
)

func TestOrderingYieldsEachMoveOnceDescending(t *testing.T) {
	b := gm.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	moves := b.GenerateMoves()
	list := scoreMoves(b, moves, 0, 0, 0)

	seen := make(map[gm.Move]bool)
	lastScore := int32(1 << 30)
	for i := 0; i < len(list.moves); i++ {
		m := orderNextMove(i, &list)
		if seen[m] {
			t.Fatalf("move %s yielded twice", m)
		}
		seen[m] = true
		if s := list.moves[i].score; s > lastScore {
			t.Fatalf("score increased from %d to %d at %s", lastScore, s, m)
		} else {
			lastScore = s
		}
	}
	if len(seen) != len(moves) {
		t.Fatalf("yielded %d of %d moves", len(seen), len(moves))
	}
}

func TestOrderingTTMoveFirst(t *testing.T) {
	b := gm.MustParseFEN(gm.FENStartPos)
	moves := b.GenerateMoves()
	ttMove := moves[len(moves)-1]
	list := scoreMoves(b, moves, 0, ttMove, 0)
	if first := orderNextMove(0, &list); first != ttMove {
		t.Fatalf("expected TT move %s first, got %s", ttMove, first)
	}
}

func TestOrderingCapturesBeforeQuiets(t *testing.T) {
	// White can win a queen with exd5 or play any number of quiets.
	b := gm.MustParseFEN("k7/8/8/3q4/4P3/8/8/K7 w - - 0 1")
	list := scoreMoves(b, b.GenerateMoves(), 0, 0, 0)
	if first := orderNextMove(0, &list); first.String() != "e4d5" {
		t.Fatalf("winning capture not ordered first, got %s", first)
	}
}

func TestOrderingLosingCapturesBelowQuiets(t *testing.T) {
	// Rook takes a defended pawn: the capture loses the exchange and must
	// rank below quiet moves.
	b := gm.MustParseFEN("k7/2p5/3p4/8/8/8/3R4/K7 w - - 0 1")
	moves := b.GenerateMoves()
	list := scoreMoves(b, moves, 0, 0, 0)

	var captureScore int32
	var bestQuiet int32 = -(1 << 30)
	for _, sm := range list.moves {
		if sm.move.String() == "d2d6" {
			captureScore = sm.score
		} else if !sm.move.IsCapture() {
			bestQuiet = Max(bestQuiet, sm.score)
		}
	}
	if captureScore >= bestQuiet {
		t.Fatalf("losing capture scored %d, above quiet score %d", captureScore, bestQuiet)
	}
}

func TestOrderingKillersAboveQuiets(t *testing.T) {
	b := gm.MustParseFEN(gm.FENStartPos)
	moves := b.GenerateMoves()
	killer := moves[3]
	killers.Clear()
	killers.Insert(killer, 5)
	defer killers.Clear()

	list := scoreMoves(b, moves, 5, 0, 0)
	if first := orderNextMove(0, &list); first != killer {
		t.Fatalf("killer %s not ordered first among quiets, got %s", killer, first)
	}
}
