package merlinmg

import "math/bits"

// Piece encodes color and type in one byte: type in the low three bits
// (1..6), bit 3 set for Black.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is the colorless piece kind, used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type strips the color from a piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side owning the piece. NoPiece maps to White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// PieceFromType combines a side and a colorless type into a Piece.
func PieceFromType(c Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	return Piece(pt) | Piece(c)<<3
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

// CastlingRights is a four-bit mask of the remaining castling options.
type CastlingRights uint8

const (
	CastleWhiteKing CastlingRights = 1 << iota
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen
)

// Square indexes the board with a1 = 0, h1 = 7, a8 = 56, h8 = 63.
type Square int

const NoSquare Square = -1

// Named squares used by castling and the UCI layer.
const (
	SqA1, SqB1, SqC1, SqD1, SqE1, SqF1, SqG1, SqH1 Square = 0, 1, 2, 3, 4, 5, 6, 7
	SqA8, SqB8, SqC8, SqD8, SqE8, SqF8, SqG8, SqH8 Square = 56, 57, 58, 59, 60, 61, 62, 63
)

// CheckInfo summarizes the king situation of the side to move: which enemy
// pieces give check, the squares a non-king move may target (all ones when
// not in check, block-or-capture squares in single check, empty in double
// check), and which of our pieces are pinned.
type CheckInfo struct {
	Checkers    uint64
	CheckRay    uint64
	Pinned      uint64
	DoubleCheck bool
}

// Board is the full position state. It is a plain value type: copying the
// struct copies the position.
type Board struct {
	pieceBB  [2][7]uint64 // per color and piece type; index 0 unused
	occupied [2]uint64
	pieces   [64]Piece // mailbox
	kingSq   [2]Square

	sideToMove     Color
	castling       CastlingRights
	epSquare       Square // square behind a double-pushed pawn, or NoSquare
	halfmoveClock  int
	fullmoveNumber int

	zobristKey uint64
	check      CheckInfo // for the side to move
}

// ==========================
// Accessors
// ==========================

func (b *Board) SideToMove() Color              { return b.sideToMove }
func (b *Board) Castling() CastlingRights       { return b.castling }
func (b *Board) EnPassantSquare() Square        { return b.epSquare }
func (b *Board) HalfmoveClock() int             { return b.halfmoveClock }
func (b *Board) FullmoveNumber() int            { return b.fullmoveNumber }
func (b *Board) Hash() uint64                   { return b.zobristKey }
func (b *Board) PieceAt(sq Square) Piece        { return b.pieces[sq] }
func (b *Board) KingSquare(c Color) Square      { return b.kingSq[c] }
func (b *Board) Occupancy(c Color) uint64       { return b.occupied[c] }
func (b *Board) AllOccupancy() uint64           { return b.occupied[0] | b.occupied[1] }
func (b *Board) PieceBB(c Color, pt PieceType) uint64 { return b.pieceBB[c][pt] }

// CheckState returns the cached check/pin summary for the side to move.
func (b *Board) CheckState() CheckInfo { return b.check }

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool { return b.check.Checkers != 0 }

// ColorInCheck reports whether the given side's king is attacked.
func (b *Board) ColorInCheck(c Color) bool {
	ksq := b.kingSq[c]
	if ksq == NoSquare {
		return false
	}
	return b.attackedWithOcc(ksq, c.Other(), b.AllOccupancy())
}

// ==========================
// Piece placement
// ==========================

// putPiece places a piece on an empty square, keeping bitboards, mailbox,
// king cache and the Zobrist key in sync.
func (b *Board) putPiece(p Piece, sq Square) {
	c := p.Color()
	pt := p.Type()
	bit := SquareBB(sq)
	b.pieces[sq] = p
	b.pieceBB[c][pt] |= bit
	b.occupied[c] |= bit
	if pt == PieceTypeKing {
		b.kingSq[c] = sq
	}
	b.zobristKey ^= zobristPiece[p][sq]
}

// liftPiece removes the piece on sq and returns it.
func (b *Board) liftPiece(sq Square) Piece {
	p := b.pieces[sq]
	if p == NoPiece {
		return NoPiece
	}
	c := p.Color()
	bit := SquareBB(sq)
	b.pieces[sq] = NoPiece
	b.pieceBB[c][p.Type()] &^= bit
	b.occupied[c] &^= bit
	b.zobristKey ^= zobristPiece[p][sq]
	return p
}

// ==========================
// Draw helpers for drivers
// ==========================

// HasLegalMoves reports whether the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	var buf [64]Move
	return len(b.GenerateMovesInto(buf[:0])) > 0
}

// InCheckmate reports whether the side to move is checkmated.
func (b *Board) InCheckmate() bool { return b.InCheck() && !b.HasLegalMoves() }

// InStalemate reports whether the side to move is stalemated.
func (b *Board) InStalemate() bool { return !b.InCheck() && !b.HasLegalMoves() }

// IsDrawBy50 reports a 50-move-rule draw. The clock counts half-moves.
func (b *Board) IsDrawBy50() bool { return b.halfmoveClock >= 100 }

// Validate cross-checks the mailbox against the bitboards, the king cache,
// and the incremental Zobrist key. Used by tests.
func (b *Board) Validate() bool {
	var occ [2]uint64
	var pieceBB [2][7]uint64
	for sq := Square(0); sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		c := p.Color()
		bit := SquareBB(sq)
		occ[c] |= bit
		pieceBB[c][p.Type()] |= bit
	}
	if occ != b.occupied || pieceBB != b.pieceBB {
		return false
	}
	if occ[White]&occ[Black] != 0 {
		return false
	}
	for c := White; c <= Black; c++ {
		kings := b.pieceBB[c][PieceTypeKing]
		if bits.OnesCount64(kings) != 1 {
			return false
		}
		if b.kingSq[c] != Square(bits.TrailingZeros64(kings)) {
			return false
		}
	}
	return b.zobristKey == b.ComputeZobrist()
}
