package merlinmg

// MoveState records everything needed to undo a move.
type MoveState struct {
	move          Move
	captured      Piece
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	prevCheck     CheckInfo
}

// NullState records everything needed to undo a null move.
type NullState struct {
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	prevCheck     CheckInfo
}

// castlingMask[sq] holds the castling rights that disappear when a move
// touches sq, either by moving from it or by capturing on it.
var castlingMask [64]CastlingRights

func init() {
	castlingMask[SqA1] = CastleWhiteQueen
	castlingMask[SqH1] = CastleWhiteKing
	castlingMask[SqE1] = CastleWhiteKing | CastleWhiteQueen
	castlingMask[SqA8] = CastleBlackQueen
	castlingMask[SqH8] = CastleBlackKing
	castlingMask[SqE8] = CastleBlackKing | CastleBlackQueen
}

// MakeMove applies a move. If the move would leave the mover's own king in
// check it restores the position and returns ok=false. On success the
// board's clocks, Zobrist key and check summary all describe the position
// with the opposing side to move.
func (b *Board) MakeMove(m Move) (ok bool, st MoveState) {
	st = MoveState{
		move:          m,
		captured:      NoPiece,
		prevCastling:  b.castling,
		prevEnPassant: b.epSquare,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
		prevCheck:     b.check,
	}

	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	promo := m.PromotionPiece()
	flag := m.Flags()
	us := b.sideToMove
	them := us.Other()

	if b.epSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[FileOf(b.epSquare)]
		b.epSquare = NoSquare
	}

	// Remove the captured piece, which for en passant sits behind 'to'.
	switch {
	case flag == FlagEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		st.captured = b.liftPiece(capSq)
	case b.pieces[to] != NoPiece:
		st.captured = b.liftPiece(to)
	}

	// Move the piece, applying promotion.
	b.liftPiece(from)
	if promo != NoPiece {
		b.putPiece(promo, to)
	} else {
		b.putPiece(moved, to)
	}

	// Castling also moves the rook.
	if flag == FlagCastle {
		rook := b.liftPiece(castleRookFrom(to))
		b.putPiece(rook, castleRookTo(to))
	}

	// Castling rights lost by touching a king or rook home square.
	if newCR := b.castling &^ (castlingMask[from] | castlingMask[to]); newCR != b.castling {
		b.zobristKey ^= zobristCastle[b.castling] ^ zobristCastle[newCR]
		b.castling = newCR
	}

	// A double pawn push sets the en-passant square behind the pawn.
	if moved.Type() == PieceTypePawn && (to-from == 16 || from-to == 16) {
		b.epSquare = (from + to) / 2
		b.zobristKey ^= zobristEnPassant[FileOf(b.epSquare)]
	}

	b.sideToMove = them
	b.zobristKey ^= zobristSide

	// Reject a move that leaves the mover's king attacked. The generator
	// only emits legal moves, so this fires for externally supplied moves;
	// the ray gate skips the query when the origin cannot uncover the king.
	ksq := b.kingSq[us]
	needCheck := st.prevCheck.Checkers != 0 || moved.Type() == PieceTypeKing ||
		flag == FlagEnPassant || queenRays[ksq]&SquareBB(from) != 0
	if needCheck && b.attackedWithOcc(ksq, them, b.AllOccupancy()) {
		b.UnmakeMove(m, st)
		return false, st
	}

	if moved.Type() == PieceTypePawn || st.captured != NoPiece {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if us == Black {
		b.fullmoveNumber++
	}

	b.updateCheckInfo()
	return true, st
}

// UnmakeMove restores the position recorded in st.
func (b *Board) UnmakeMove(m Move, st MoveState) {
	b.sideToMove = b.sideToMove.Other()

	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	flag := m.Flags()
	them := b.sideToMove.Other()

	if flag == FlagCastle {
		rook := b.liftPiece(castleRookTo(to))
		b.putPiece(rook, castleRookFrom(to))
	}

	b.liftPiece(to)
	b.putPiece(moved, from) // a promotion lifted the promoted piece, the pawn returns

	if st.captured != NoPiece {
		capSq := to
		if flag == FlagEnPassant {
			capSq = to - 8
			if them == White {
				capSq = to + 8
			}
		}
		b.putPiece(st.captured, capSq)
	}

	b.castling = st.prevCastling
	b.epSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.zobristKey = st.prevZobrist
	b.check = st.prevCheck
}

// MakeNullMove passes the turn without moving a piece: the en-passant
// square clears, the clocks advance, and the side flips. The caller must
// not be in check.
func (b *Board) MakeNullMove() (st NullState) {
	st = NullState{
		prevEnPassant: b.epSquare,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
		prevCheck:     b.check,
	}
	if b.epSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[FileOf(b.epSquare)]
		b.epSquare = NoSquare
	}
	b.halfmoveClock++
	if b.sideToMove == Black {
		b.fullmoveNumber++
	}
	b.sideToMove = b.sideToMove.Other()
	b.zobristKey ^= zobristSide
	b.updateCheckInfo()
	return st
}

// UnmakeNullMove restores the position prior to MakeNullMove.
func (b *Board) UnmakeNullMove(st NullState) {
	b.sideToMove = b.sideToMove.Other()
	b.epSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.zobristKey = st.prevZobrist
	b.check = st.prevCheck
}
