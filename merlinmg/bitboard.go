package merlinmg

import "math/bits"

// File and rank masks. FileMasks[0] is the a-file, RankMasks[0] is rank 1.
var FileMasks = [8]uint64{
	0x0101010101010101, 0x0202020202020202, 0x0404040404040404, 0x0808080808080808,
	0x1010101010101010, 0x2020202020202020, 0x4040404040404040, 0x8080808080808080,
}
var RankMasks = [8]uint64{
	0x00000000000000FF, 0x000000000000FF00, 0x0000000000FF0000, 0x00000000FF000000,
	0x000000FF00000000, 0x0000FF0000000000, 0x00FF000000000000, 0xFF00000000000000,
}

const (
	FileABB = 0x0101010101010101
	FileHBB = 0x8080808080808080
	Rank1BB = 0x00000000000000FF
	Rank8BB = 0xFF00000000000000
)

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) uint64 { return 1 << uint(sq) }

// SetBit returns b with the given square's bit set.
func SetBit(b uint64, sq Square) uint64 { return b | SquareBB(sq) }

// ClearBit returns b with the given square's bit cleared.
func ClearBit(b uint64, sq Square) uint64 { return b &^ SquareBB(sq) }

// TestBit reports whether the given square's bit is set.
func TestBit(b uint64, sq Square) bool { return b&SquareBB(sq) != 0 }

// FileOf returns the file (0-7) of a square.
func FileOf(sq Square) int { return int(sq) & 7 }

// RankOf returns the rank (0-7) of a square.
func RankOf(sq Square) int { return int(sq) >> 3 }

// FlipVertical mirrors a square across the horizontal axis (a1 <-> a8).
func FlipVertical(sq Square) Square { return sq ^ 56 }

// SquareDistance is the Chebyshev distance between two squares.
func SquareDistance(a, b Square) int {
	df := FileOf(a) - FileOf(b)
	if df < 0 {
		df = -df
	}
	dr := RankOf(a) - RankOf(b)
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

// PopCount returns the number of set bits.
func PopCount(b uint64) int { return bits.OnesCount64(b) }

// Lsb returns the index of the least significant set bit. b must be non-zero.
func Lsb(b uint64) int { return bits.TrailingZeros64(b) }

// Msb returns the index of the most significant set bit. b must be non-zero.
func Msb(b uint64) int { return 63 - bits.LeadingZeros64(b) }

// PopLsb removes the least significant set bit from the mask and returns its index.
func PopLsb(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// Direction shifts. Bits that would wrap around a board edge are dropped.

func ShiftNorth(b uint64) uint64 { return b << 8 }
func ShiftSouth(b uint64) uint64 { return b >> 8 }
func ShiftEast(b uint64) uint64  { return (b &^ FileHBB) << 1 }
func ShiftWest(b uint64) uint64  { return (b &^ FileABB) >> 1 }
func ShiftNE(b uint64) uint64    { return (b &^ FileHBB) << 9 }
func ShiftNW(b uint64) uint64    { return (b &^ FileABB) << 7 }
func ShiftSE(b uint64) uint64    { return (b &^ FileHBB) >> 7 }
func ShiftSW(b uint64) uint64    { return (b &^ FileABB) >> 9 }
