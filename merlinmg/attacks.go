package merlinmg

import (
	"math/bits"
	"math/rand"
)

// Leaper attack tables, built once at package init.
var pawnAttackTable [2][64]uint64
var knightAttackTable [64]uint64
var kingAttackTable [64]uint64

// Directional rays, excluding the origin square. The first four directions
// run toward higher square indices, the last four toward lower ones.
const (
	dirN = iota
	dirE
	dirNE
	dirNW
	dirS
	dirW
	dirSE
	dirSW
)

var rays [64][8]uint64

// between[a][b] holds the squares strictly between a and b when they share
// a rank, file or diagonal, and is zero otherwise.
var between [64][64]uint64

// queenRays[sq] is the union of all eight rays from sq; any square from
// which a move could uncover sq lies on it.
var queenRays [64]uint64

// Magic describes one square's slider attack lookup: the relevant blocker
// mask, the multiplier hashing masked occupancies into the dense table,
// and the shift extracting the index.
type Magic struct {
	Mask    uint64
	Magic   uint64
	Shift   uint8
	attacks []uint64
}

var rookMagics [64]Magic
var bishopMagics [64]Magic

// One seed per rank, used when hunting magic numbers for the squares on it.
var magicSeeds = [8]uint64{728, 10316, 55013, 32803, 12281, 15100, 16645, 255}

func init() {
	initLeaperTables()
	initRays()
	initMagics(&rookMagics, rookDirs, rookRelevantMask)
	initMagics(&bishopMagics, bishopDirs, bishopRelevantMask)
}

// PawnAttacks returns the squares a pawn of the given color attacks from sq.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttackTable[c][sq] }

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) uint64 { return knightAttackTable[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) uint64 { return kingAttackTable[sq] }

// RookAttacks returns the rook attack set from sq for the given occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	m := &rookMagics[sq]
	return m.attacks[((occ&m.Mask)*m.Magic)>>m.Shift]
}

// BishopAttacks returns the bishop attack set from sq for the given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	m := &bishopMagics[sq]
	return m.attacks[((occ&m.Mask)*m.Magic)>>m.Shift]
}

// QueenAttacks returns the queen attack set from sq for the given occupancy.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

func initLeaperTables() {
	for sq := Square(0); sq < 64; sq++ {
		bit := SquareBB(sq)

		pawnAttackTable[White][sq] = ShiftNE(bit) | ShiftNW(bit)
		pawnAttackTable[Black][sq] = ShiftSE(bit) | ShiftSW(bit)

		n := ShiftNorth(ShiftNE(bit)|ShiftNW(bit)) |
			ShiftSouth(ShiftSE(bit)|ShiftSW(bit)) |
			ShiftEast(ShiftNE(bit)|ShiftSE(bit)) |
			ShiftWest(ShiftNW(bit)|ShiftSW(bit))
		knightAttackTable[sq] = n

		k := ShiftNorth(bit) | ShiftSouth(bit) | ShiftEast(bit) | ShiftWest(bit) |
			ShiftNE(bit) | ShiftNW(bit) | ShiftSE(bit) | ShiftSW(bit)
		kingAttackTable[sq] = k
	}
}

// Per-direction single-step shifts, indexed like rays.
var dirShift = [8]func(uint64) uint64{
	dirN: ShiftNorth, dirE: ShiftEast, dirNE: ShiftNE, dirNW: ShiftNW,
	dirS: ShiftSouth, dirW: ShiftWest, dirSE: ShiftSE, dirSW: ShiftSW,
}

var rookDirs = [4]int{dirN, dirE, dirS, dirW}
var bishopDirs = [4]int{dirNE, dirNW, dirSE, dirSW}

func initRays() {
	for sq := Square(0); sq < 64; sq++ {
		for d := 0; d < 8; d++ {
			var ray uint64
			step := dirShift[d]
			for bit := step(SquareBB(sq)); bit != 0; bit = step(bit) {
				ray |= bit
			}
			rays[sq][d] = ray
			queenRays[sq] |= ray
		}
	}
	for a := Square(0); a < 64; a++ {
		for d := 0; d < 8; d++ {
			targets := rays[a][d]
			for t := targets; t != 0; {
				bsq := Square(PopLsb(&t))
				// Squares on the same ray, closer to a than b.
				between[a][bsq] = rays[a][d] &^ rays[bsq][d] &^ SquareBB(bsq)
			}
		}
	}
}

// firstOnRay returns the square of the blocker nearest to the ray origin,
// or NoSquare if the ray is empty.
func firstOnRay(d int, blockers uint64) Square {
	if blockers == 0 {
		return NoSquare
	}
	if d < 4 { // toward higher indices
		return Square(bits.TrailingZeros64(blockers))
	}
	return Square(63 - bits.LeadingZeros64(blockers))
}

// slowSliderAttacks ray-walks the attack set for table construction;
// blockers stop each ray but are themselves attacked.
func slowSliderAttacks(sq Square, occ uint64, dirs [4]int) uint64 {
	var att uint64
	for _, d := range dirs {
		ray := rays[sq][d]
		if first := firstOnRay(d, ray&occ); first != NoSquare {
			ray &^= rays[first][d]
		}
		att |= ray
	}
	return att
}

// Relevant-occupancy masks exclude board edges: a blocker on the edge
// square of a ray cannot alter the attack set.
func rookRelevantMask(sq Square) uint64 {
	m := rays[sq][dirN]&^Rank8BB | rays[sq][dirS]&^Rank1BB |
		rays[sq][dirE]&^FileHBB | rays[sq][dirW]&^FileABB
	return m
}

func bishopRelevantMask(sq Square) uint64 {
	edges := uint64(Rank1BB | Rank8BB | FileABB | FileHBB)
	return (rays[sq][dirNE] | rays[sq][dirNW] | rays[sq][dirSE] | rays[sq][dirSW]) &^ edges
}

// initMagics finds a magic number for every square by seeded random search
// and fills the dense attack tables. Candidates are kept sparse, and weak
// ones rejected early by the popcount filter on the top product bits.
func initMagics(table *[64]Magic, dirs [4]int, maskFor func(Square) uint64) {
	var occs, atts [4096]uint64

	for sq := Square(0); sq < 64; sq++ {
		m := &table[sq]
		m.Mask = maskFor(sq)
		relevant := bits.OnesCount64(m.Mask)
		m.Shift = uint8(64 - relevant)
		size := 1 << relevant

		// Enumerate every blocker subset of the mask (carry-rippler) and
		// compute its reference attack set.
		n := 0
		for blocker := uint64(0); n == 0 || blocker != 0; n++ {
			occs[n] = blocker
			atts[n] = slowSliderAttacks(sq, blocker, dirs)
			blocker = (blocker - m.Mask) & m.Mask
		}

		m.attacks = make([]uint64, size)
		epoch := make([]int, size)
		rnd := rand.New(rand.NewSource(int64(magicSeeds[RankOf(sq)])))

		for attempt := 1; ; attempt++ {
			candidate := rnd.Uint64() & rnd.Uint64() & rnd.Uint64()
			if bits.OnesCount64((m.Mask*candidate)>>56) < 6 {
				continue
			}
			ok := true
			for i := 0; i < n; i++ {
				idx := (occs[i] * candidate) >> m.Shift
				if epoch[idx] != attempt {
					epoch[idx] = attempt
					m.attacks[idx] = atts[i]
				} else if m.attacks[idx] != atts[i] {
					ok = false
					break
				}
			}
			if ok {
				m.Magic = candidate
				break
			}
		}
	}
}

// AttackersTo returns a bitboard of all pieces of both colors that attack
// sq, given an explicit occupancy (which may differ from the board's, e.g.
// during an exchange evaluation).
func (b *Board) AttackersTo(sq Square, occ uint64) uint64 {
	knights := b.pieceBB[White][PieceTypeKnight] | b.pieceBB[Black][PieceTypeKnight]
	kings := b.pieceBB[White][PieceTypeKing] | b.pieceBB[Black][PieceTypeKing]
	rq := b.pieceBB[White][PieceTypeRook] | b.pieceBB[Black][PieceTypeRook] |
		b.pieceBB[White][PieceTypeQueen] | b.pieceBB[Black][PieceTypeQueen]
	bq := b.pieceBB[White][PieceTypeBishop] | b.pieceBB[Black][PieceTypeBishop] |
		b.pieceBB[White][PieceTypeQueen] | b.pieceBB[Black][PieceTypeQueen]

	return pawnAttackTable[Black][sq]&b.pieceBB[White][PieceTypePawn] |
		pawnAttackTable[White][sq]&b.pieceBB[Black][PieceTypePawn] |
		knightAttackTable[sq]&knights |
		kingAttackTable[sq]&kings |
		RookAttacks(sq, occ)&rq |
		BishopAttacks(sq, occ)&bq
}

// attackedWithOcc reports whether sq is attacked by the given side under an
// explicit occupancy. Piece placement is read from the current bitboards.
func (b *Board) attackedWithOcc(sq Square, by Color, occ uint64) bool {
	if pawnAttackTable[by.Other()][sq]&b.pieceBB[by][PieceTypePawn] != 0 {
		return true
	}
	if knightAttackTable[sq]&b.pieceBB[by][PieceTypeKnight] != 0 {
		return true
	}
	if kingAttackTable[sq]&b.pieceBB[by][PieceTypeKing] != 0 {
		return true
	}
	rq := b.pieceBB[by][PieceTypeRook] | b.pieceBB[by][PieceTypeQueen]
	if rq != 0 && RookAttacks(sq, occ)&rq != 0 {
		return true
	}
	bq := b.pieceBB[by][PieceTypeBishop] | b.pieceBB[by][PieceTypeQueen]
	return bq != 0 && BishopAttacks(sq, occ)&bq != 0
}

// IsSquareAttacked reports whether sq is attacked by the given side.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.attackedWithOcc(sq, by, b.AllOccupancy())
}
