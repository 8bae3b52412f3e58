package engine

import (
	"math/bits"

	gm "merlin-engine/merlinmg"
)

// Fixed piece values for exchange evaluation, independent of the
// evaluator's tunable weights.
var seePieceValue = [7]int32{
	gm.PieceTypePawn:   100,
	gm.PieceTypeKnight: 300,
	gm.PieceTypeBishop: 300,
	gm.PieceTypeRook:   500,
	gm.PieceTypeQueen:  900,
	gm.PieceTypeKing:   5000,
}

// see estimates the material outcome of the capture sequence started by
// move: each side keeps recapturing on the target square with its least
// valuable attacker, x-rays included, and may stand pat once continuing
// would lose material. A non-negative result means the move does not lose
// material by force.
func see(b *gm.Board, move gm.Move) int32 {
	var gain [32]int32
	to := move.To()
	from := move.From()
	attacker := move.MovedPiece().Type()
	stm := b.SideToMove()

	gain[0] = 0
	if victim := move.CapturedPiece(); victim != gm.NoPiece {
		gain[0] = seePieceValue[victim.Type()]
	}
	if promo := move.PromotionPieceType(); promo != gm.PieceTypeNone {
		gain[0] += seePieceValue[promo] - seePieceValue[gm.PieceTypePawn]
		attacker = promo
	}

	occ := b.AllOccupancy()
	if move.Flags() == gm.FlagEnPassant {
		capSq := to - 8
		if stm == gm.Black {
			capSq = to + 8
		}
		occ &^= gm.SquareBB(capSq)
	}

	attadef := b.AttackersTo(to, occ)
	fromBB := gm.SquareBB(from)
	side := stm
	d := 0

	for fromBB != 0 {
		d++
		gain[d] = seePieceValue[attacker] - gain[d-1]
		// Both captures from here on would lose material; stand pat.
		if Max(-gain[d-1], gain[d]) < 0 {
			break
		}
		attadef &^= fromBB
		occ &^= fromBB
		// Re-scan sliders so pieces lined up behind the one just removed
		// join the exchange.
		attadef |= b.AttackersTo(to, occ) & occ
		side = side.Other()
		fromBB, attacker = leastValuableAttacker(b, attadef&occ, side)
		if d >= len(gain)-2 {
			break
		}
	}

	for d--; d > 0; d-- {
		gain[d-1] = -Max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// leastValuableAttacker picks the cheapest attacker of the given side from
// the attacker set, returning its single-bit board and type.
func leastValuableAttacker(b *gm.Board, attadef uint64, side gm.Color) (uint64, gm.PieceType) {
	for pt := gm.PieceTypePawn; pt <= gm.PieceTypeKing; pt++ {
		if subset := attadef & b.PieceBB(side, pt); subset != 0 {
			return uint64(1) << uint(bits.TrailingZeros64(subset)), pt
		}
	}
	return 0, gm.PieceTypeNone
}
