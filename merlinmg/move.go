package merlinmg

import (
	"errors"
	"strings"
)

// Move packs a move into 32 bits:
//
//	bits  0-5   from square
//	bits  6-11  to square
//	bits 12-15  moving piece
//	bits 16-19  captured piece (NoPiece if none; the en-passant victim for EP)
//	bits 20-23  promotion piece (NoPiece if not a promotion)
//	bits 24-25  flags
//
// The zero value is the null move and never matches a legal move.
type Move uint32

const (
	moveToShift      = 6
	movePieceShift   = 12
	moveCaptureShift = 16
	movePromoShift   = 20
	moveFlagShift    = 24
)

// Move flags. Promotions are indicated by a non-zero promotion piece.
const (
	FlagNone uint8 = iota
	FlagCastle
	FlagEnPassant
)

// NewMove assembles a move from its components.
func NewMove(from, to Square, piece, captured, promotion Piece, flag uint8) Move {
	return Move(uint32(from&0x3F) |
		uint32(to&0x3F)<<moveToShift |
		uint32(piece&0xF)<<movePieceShift |
		uint32(captured&0xF)<<moveCaptureShift |
		uint32(promotion&0xF)<<movePromoShift |
		uint32(flag&0x3)<<moveFlagShift)
}

func (m Move) From() Square          { return Square(m & 0x3F) }
func (m Move) To() Square            { return Square(m >> moveToShift & 0x3F) }
func (m Move) MovedPiece() Piece     { return Piece(m >> movePieceShift & 0xF) }
func (m Move) CapturedPiece() Piece  { return Piece(m >> moveCaptureShift & 0xF) }
func (m Move) PromotionPiece() Piece { return Piece(m >> movePromoShift & 0xF) }
func (m Move) Flags() uint8          { return uint8(m >> moveFlagShift & 0x3) }

// PromotionPieceType is the colorless promotion kind, PieceTypeNone if none.
func (m Move) PromotionPieceType() PieceType { return m.PromotionPiece().Type() }

// IsCapture reports whether the move captures (including en passant).
func (m Move) IsCapture() bool { return m.CapturedPiece() != NoPiece }

// String renders the move in UCI long algebraic form ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == 0 {
		return "0000"
	}
	from, to := m.From(), m.To()
	s := []byte{
		'a' + byte(FileOf(from)), '1' + byte(RankOf(from)),
		'a' + byte(FileOf(to)), '1' + byte(RankOf(to)),
	}
	if promo := m.PromotionPieceType(); promo != PieceTypeNone {
		s = append(s, " pnbrqk"[promo])
	}
	return string(s)
}

// ParseMove converts UCI long algebraic text into a bare from/to/promotion
// move. The caller matches it against generated legal moves to recover the
// full encoding.
func ParseMove(text string) (Move, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "0000" {
		return 0, nil
	}
	if len(text) < 4 || len(text) > 5 {
		return 0, errors.New("invalid move length")
	}
	from, err := parseSquare(text[0:2])
	if err != nil {
		return 0, err
	}
	to, err := parseSquare(text[2:4])
	if err != nil {
		return 0, err
	}
	var promo Piece
	if len(text) == 5 {
		switch text[4] {
		case 'q':
			promo = WhiteQueen
		case 'r':
			promo = WhiteRook
		case 'b':
			promo = WhiteBishop
		case 'n':
			promo = WhiteKnight
		default:
			return 0, errors.New("invalid promotion piece")
		}
	}
	return NewMove(from, to, NoPiece, NoPiece, promo, FlagNone), nil
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, errors.New("invalid square")
	}
	return Square(int(s[0]-'a') + int(s[1]-'1')*8), nil
}

// MatchesUCI reports whether the generated move m corresponds to the bare
// parsed move p (same from/to and promotion kind).
func (m Move) MatchesUCI(p Move) bool {
	return m.From() == p.From() && m.To() == p.To() &&
		m.PromotionPieceType() == p.PromotionPieceType()
}

// GivesCheck reports whether the move, assumed legal for the side to move,
// leaves the opposing king in check. The board is not mutated.
func (b *Board) GivesCheck(m Move) bool {
	us := b.sideToMove
	them := us.Other()
	ksq := b.kingSq[them]

	from, to := m.From(), m.To()
	fromBB, toBB := SquareBB(from), SquareBB(to)
	moved := m.MovedPiece()
	flag := m.Flags()

	// Occupancy after the move.
	occ := b.AllOccupancy() &^ fromBB | toBB
	if flag == FlagEnPassant {
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		occ &^= SquareBB(capSq)
	}

	landed := moved
	if promo := m.PromotionPiece(); promo != NoPiece {
		landed = promo
	}

	// Direct check from the landing square.
	switch landed.Type() {
	case PieceTypePawn:
		if pawnAttackTable[us][to]&SquareBB(ksq) != 0 {
			return true
		}
	case PieceTypeKnight:
		if knightAttackTable[to]&SquareBB(ksq) != 0 {
			return true
		}
	case PieceTypeBishop:
		if BishopAttacks(to, occ)&SquareBB(ksq) != 0 {
			return true
		}
	case PieceTypeRook:
		if RookAttacks(to, occ)&SquareBB(ksq) != 0 {
			return true
		}
	case PieceTypeQueen:
		if QueenAttacks(to, occ)&SquareBB(ksq) != 0 {
			return true
		}
	}

	// Discovered check: slider bitboards adjusted for the move.
	rq := (b.pieceBB[us][PieceTypeRook] | b.pieceBB[us][PieceTypeQueen]) &^ fromBB
	bq := (b.pieceBB[us][PieceTypeBishop] | b.pieceBB[us][PieceTypeQueen]) &^ fromBB

	// Castling: the rook lands beside the king and may check.
	if flag == FlagCastle {
		rookFrom, rookTo := castleRookFrom(to), castleRookTo(to)
		occ = occ&^SquareBB(rookFrom) | SquareBB(rookTo)
		rq = rq&^SquareBB(rookFrom) | SquareBB(rookTo)
		if RookAttacks(rookTo, occ)&SquareBB(ksq) != 0 {
			return true
		}
	}
	switch landed.Type() {
	case PieceTypeRook:
		rq |= toBB
	case PieceTypeBishop:
		bq |= toBB
	case PieceTypeQueen:
		rq |= toBB
		bq |= toBB
	}
	if rq != 0 && RookAttacks(ksq, occ)&rq != 0 {
		return true
	}
	if bq != 0 && BishopAttacks(ksq, occ)&bq != 0 {
		return true
	}
	return false
}

// Castling rook squares, keyed by the king's destination.
func castleRookFrom(kingTo Square) Square {
	switch kingTo {
	case SqG1:
		return SqH1
	case SqC1:
		return SqA1
	case SqG8:
		return SqH8
	default:
		return SqA8
	}
}

func castleRookTo(kingTo Square) Square {
	switch kingTo {
	case SqG1:
		return SqF1
	case SqC1:
		return SqD1
	case SqG8:
		return SqF8
	default:
		return SqD8
	}
}
