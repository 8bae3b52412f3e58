package engine

import (
	"math/bits"

	gm "merlin-engine/merlinmg"
)

// Game phase weights: minor pieces count one, rooks two, queens four.
// A full board sums to TotalPhase; the blend slides toward the endgame
// tables as material leaves the board.
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2
)

// Piece base values. Exposed as variables so setoption can adjust them.
var (
	PawnValueMG   = 82
	PawnValueEG   = 104
	KnightValueMG = 320
	KnightValueEG = 300
	BishopValueMG = 330
	BishopValueEG = 320
	RookValueMG   = 500
	RookValueEG   = 540
	QueenValueMG  = 950
	QueenValueEG  = 940

	BishopPairBonusMG       = 25
	BishopPairBonusEG       = 45
	RookOpenFileBonusMG     = 25
	RookSemiOpenFileBonusMG = 12
	DoubledPawnPenaltyMG    = 10
	DoubledPawnPenaltyEG    = 18
	IsolatedPawnMG          = 12
	IsolatedPawnEG          = 8
	KingShieldBonusMG       = 9
	TempoBonus              = 12
)

var pieceValueMG = [7]int{}
var pieceValueEG = [7]int{}

// Mobility weight per attacked square not occupied by a friendly piece.
var mobilityMG = [7]int{gm.PieceTypeKnight: 4, gm.PieceTypeBishop: 4, gm.PieceTypeRook: 2, gm.PieceTypeQueen: 1}
var mobilityEG = [7]int{gm.PieceTypeKnight: 3, gm.PieceTypeBishop: 3, gm.PieceTypeRook: 4, gm.PieceTypeQueen: 2}

// Passed pawn bonus by relative rank (rank 1 .. rank 8 from the mover's
// point of view; first and last entries are unreachable).
var passedPawnMG = [8]int{0, 4, 8, 14, 28, 48, 80, 0}
var passedPawnEG = [8]int{0, 12, 20, 32, 56, 92, 140, 0}

// Piece-square tables, written as the board is printed (first row is rank
// 8). White pieces index them through a vertical flip, Black directly.
var psqtMG = [7][64]int{
	gm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeKnight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	gm.PieceTypeBishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	gm.PieceTypeRook: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	},
	gm.PieceTypeQueen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	gm.PieceTypeKing: {
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	},
}

var psqtEG = [7][64]int{
	gm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		80, 80, 80, 80, 80, 80, 80, 80,
		50, 50, 50, 50, 50, 50, 50, 50,
		30, 30, 30, 30, 30, 30, 30, 30,
		20, 20, 20, 20, 20, 20, 20, 20,
		10, 10, 10, 10, 10, 10, 10, 10,
		10, 10, 10, 10, 10, 10, 10, 10,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeKnight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	gm.PieceTypeBishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	gm.PieceTypeRook: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeQueen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	gm.PieceTypeKing: {
		-50, -40, -30, -20, -20, -30, -40, -50,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-50, -30, -30, -30, -30, -30, -30, -50,
	},
}

// Derived masks, built once at engine init.
var adjacentFiles [8]uint64
var passedMask [2][64]uint64
var shieldMask [2][64]uint64

func initEvalTables() {
	setPieceValues()

	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= gm.FileMasks[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= gm.FileMasks[f+1]
		}
	}
	for sq := gm.Square(0); sq < 64; sq++ {
		f := gm.FileOf(sq)
		r := gm.RankOf(sq)
		span := gm.FileMasks[f] | adjacentFiles[f]

		var ahead, behind uint64
		for rr := r + 1; rr < 8; rr++ {
			ahead |= gm.RankMasks[rr]
		}
		for rr := r - 1; rr >= 0; rr-- {
			behind |= gm.RankMasks[rr]
		}
		passedMask[gm.White][sq] = span & ahead
		passedMask[gm.Black][sq] = span & behind

		front := gm.KingAttacks(sq) & span
		shieldMask[gm.White][sq] = front & ahead
		shieldMask[gm.Black][sq] = front & behind
	}
}

// setPieceValues rebuilds the value lookup after a setoption change.
func setPieceValues() {
	pieceValueMG = [7]int{
		gm.PieceTypePawn: PawnValueMG, gm.PieceTypeKnight: KnightValueMG, gm.PieceTypeBishop: BishopValueMG,
		gm.PieceTypeRook: RookValueMG, gm.PieceTypeQueen: QueenValueMG,
	}
	pieceValueEG = [7]int{
		gm.PieceTypePawn: PawnValueEG, gm.PieceTypeKnight: KnightValueEG, gm.PieceTypeBishop: BishopValueEG,
		gm.PieceTypeRook: RookValueEG, gm.PieceTypeQueen: QueenValueEG,
	}
}

// GetPiecePhase measures remaining material on the TotalPhase scale.
func GetPiecePhase(b *gm.Board) int {
	phase := 0
	for c := gm.White; c <= gm.Black; c++ {
		phase += bits.OnesCount64(b.PieceBB(c, gm.PieceTypeKnight)) * KnightPhase
		phase += bits.OnesCount64(b.PieceBB(c, gm.PieceTypeBishop)) * BishopPhase
		phase += bits.OnesCount64(b.PieceBB(c, gm.PieceTypeRook)) * RookPhase
		phase += bits.OnesCount64(b.PieceBB(c, gm.PieceTypeQueen)) * QueenPhase
	}
	return Min(phase, TotalPhase)
}

// Evaluate scores the position in centipawns from the side to move's
// perspective: middlegame and endgame totals blended by the material
// phase, plus a tempo bonus for having the move.
func Evaluate(b *gm.Board) int32 {
	var mg, eg int

	for c := gm.White; c <= gm.Black; c++ {
		cmg, ceg := evaluateSide(b, c)
		if c == gm.White {
			mg += cmg
			eg += ceg
		} else {
			mg -= cmg
			eg -= ceg
		}
	}

	phase := GetPiecePhase(b)
	score := (mg*phase + eg*(TotalPhase-phase)) / TotalPhase
	if b.SideToMove() == gm.Black {
		score = -score
	}
	return int32(score + TempoBonus)
}

func evaluateSide(b *gm.Board, us gm.Color) (mg, eg int) {
	them := us.Other()
	ownOcc := b.Occupancy(us)
	allOcc := b.AllOccupancy()
	ownPawns := b.PieceBB(us, gm.PieceTypePawn)
	oppPawns := b.PieceBB(them, gm.PieceTypePawn)

	flip := us == gm.White

	for pt := gm.PieceTypePawn; pt <= gm.PieceTypeKing; pt++ {
		for pieces := b.PieceBB(us, pt); pieces != 0; {
			sq := gm.Square(gm.PopLsb(&pieces))
			tableSq := sq
			if flip {
				tableSq = gm.FlipVertical(sq)
			}
			mg += pieceValueMG[pt] + psqtMG[pt][tableSq]
			eg += pieceValueEG[pt] + psqtEG[pt][tableSq]

			switch pt {
			case gm.PieceTypePawn:
				if passedMask[us][sq]&oppPawns == 0 {
					rel := gm.RankOf(sq)
					if us == gm.Black {
						rel = 7 - rel
					}
					mg += passedPawnMG[rel]
					eg += passedPawnEG[rel]
				}
				if adjacentFiles[gm.FileOf(sq)]&ownPawns == 0 {
					mg -= IsolatedPawnMG
					eg -= IsolatedPawnEG
				}
			case gm.PieceTypeKnight:
				mob := bits.OnesCount64(gm.KnightAttacks(sq) &^ ownOcc)
				mg += mob * mobilityMG[pt]
				eg += mob * mobilityEG[pt]
			case gm.PieceTypeBishop:
				mob := bits.OnesCount64(gm.BishopAttacks(sq, allOcc) &^ ownOcc)
				mg += mob * mobilityMG[pt]
				eg += mob * mobilityEG[pt]
			case gm.PieceTypeRook:
				mob := bits.OnesCount64(gm.RookAttacks(sq, allOcc) &^ ownOcc)
				mg += mob * mobilityMG[pt]
				eg += mob * mobilityEG[pt]
				file := gm.FileMasks[gm.FileOf(sq)]
				if file&ownPawns == 0 {
					if file&oppPawns == 0 {
						mg += RookOpenFileBonusMG
					} else {
						mg += RookSemiOpenFileBonusMG
					}
				}
			case gm.PieceTypeQueen:
				mob := bits.OnesCount64(gm.QueenAttacks(sq, allOcc) &^ ownOcc)
				mg += mob * mobilityMG[pt]
				eg += mob * mobilityEG[pt]
			case gm.PieceTypeKing:
				mg += bits.OnesCount64(shieldMask[us][sq]&ownPawns) * KingShieldBonusMG
			}
		}
	}

	// Doubled pawns, counted once per extra pawn on a file.
	for f := 0; f < 8; f++ {
		if n := bits.OnesCount64(ownPawns & gm.FileMasks[f]); n > 1 {
			mg -= (n - 1) * DoubledPawnPenaltyMG
			eg -= (n - 1) * DoubledPawnPenaltyEG
		}
	}

	if bits.OnesCount64(b.PieceBB(us, gm.PieceTypeBishop)) >= 2 {
		mg += BishopPairBonusMG
		eg += BishopPairBonusEG
	}
	return mg, eg
}
