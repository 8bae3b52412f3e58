package merlinmg

import "math/rand"

// Zobrist key tables. Piece keys are indexed by the raw Piece code, so the
// unused codes 0, 7 and 8 simply hold keys that are never XORed in.
var zobristPiece [15][64]uint64
var zobristCastle [16]uint64
var zobristEnPassant [8]uint64
var zobristSide uint64

func init() {
	// Fixed seed so hashes are reproducible across runs and in tests.
	rnd := rand.New(rand.NewSource(0x4D45524C))

	for p := 0; p < 15; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeZobrist recomputes the position hash from scratch. Make/unmake
// maintain the same value incrementally; the two must always agree.
//
// The en-passant file key is XORed whenever an en-passant square is set,
// whether or not a capture is actually possible.
func (b *Board) ComputeZobrist() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if p := b.pieces[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}
	if b.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[b.castling]
	if b.epSquare != NoSquare {
		key ^= zobristEnPassant[FileOf(b.epSquare)]
	}
	return key
}
