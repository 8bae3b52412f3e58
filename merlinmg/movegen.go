package merlinmg

import "math/bits"

// Generation filters.
const (
	genAll = iota
	genCaptures
	genQuiets
)

// analyzeKing computes the check and pin state for the given side: the
// checkers bitboard, the target mask for non-king moves (all ones when not
// in check), the pinned-piece mask, and for each pinned piece the ray it
// is confined to (king through pinner, inclusive).
func (b *Board) analyzeKing(side Color) (info CheckInfo, pinRay [64]uint64) {
	us := side
	them := side.Other()
	ksq := b.kingSq[us]
	occ := b.AllOccupancy()

	info.Checkers = pawnAttackTable[us][ksq]&b.pieceBB[them][PieceTypePawn] |
		knightAttackTable[ksq]&b.pieceBB[them][PieceTypeKnight] |
		BishopAttacks(ksq, occ)&(b.pieceBB[them][PieceTypeBishop]|b.pieceBB[them][PieceTypeQueen]) |
		RookAttacks(ksq, occ)&(b.pieceBB[them][PieceTypeRook]|b.pieceBB[them][PieceTypeQueen])

	switch bits.OnesCount64(info.Checkers) {
	case 0:
		info.CheckRay = ^uint64(0)
	case 1:
		csq := Square(bits.TrailingZeros64(info.Checkers))
		// Block the ray or capture the checker; contact checkers leave
		// only the capture.
		info.CheckRay = between[ksq][csq] | info.Checkers
	default:
		info.DoubleCheck = true
	}

	// A pinned piece is the sole blocker between our king and an enemy
	// slider of the matching kind.
	for d := 0; d < 8; d++ {
		ray := rays[ksq][d]
		blockers := ray & occ
		first := firstOnRay(d, blockers)
		if first == NoSquare || b.occupied[us]&SquareBB(first) == 0 {
			continue
		}
		next := firstOnRay(d, rays[first][d]&occ)
		if next == NoSquare {
			continue
		}
		p := b.pieces[next]
		if p.Color() != them {
			continue
		}
		pt := p.Type()
		orthogonal := d == dirN || d == dirS || d == dirE || d == dirW
		if pt == PieceTypeQueen ||
			(orthogonal && pt == PieceTypeRook) ||
			(!orthogonal && pt == PieceTypeBishop) {
			info.Pinned |= SquareBB(first)
			pinRay[first] = between[ksq][next] | SquareBB(next)
		}
	}
	return info, pinRay
}

// updateCheckInfo refreshes the cached check summary for the side to move.
func (b *Board) updateCheckInfo() {
	b.check, _ = b.analyzeKing(b.sideToMove)
}

// generateFiltered appends legal moves matching the filter into dst.
func (b *Board) generateFiltered(dst []Move, filter int) []Move {
	moves := dst[:0]
	us := b.sideToMove
	them := us.Other()
	ownOcc := b.occupied[us]
	oppOcc := b.occupied[them]
	allOcc := ownOcc | oppOcc

	info, pinRay := b.analyzeKing(us)

	// Non-king moves must stay inside the check ray and, for pinned
	// pieces, on the pin ray; in double check only the king may move.
	if !info.DoubleCheck {
		allowed := info.CheckRay
		switch filter {
		case genCaptures:
			allowed &= oppOcc
		case genQuiets:
			allowed &^= oppOcc
		}

		moves = b.genPawnMoves(moves, filter, info, pinRay)

		for pieces := b.pieceBB[us][PieceTypeKnight]; pieces != 0; {
			from := Square(PopLsb(&pieces))
			if info.Pinned&SquareBB(from) != 0 {
				continue // a pinned knight can never stay on its ray
			}
			moves = b.appendTargets(moves, from, knightAttackTable[from]&^ownOcc&allowed)
		}
		for pieces := b.pieceBB[us][PieceTypeBishop]; pieces != 0; {
			from := Square(PopLsb(&pieces))
			targets := BishopAttacks(from, allOcc) &^ ownOcc & allowed
			if info.Pinned&SquareBB(from) != 0 {
				targets &= pinRay[from]
			}
			moves = b.appendTargets(moves, from, targets)
		}
		for pieces := b.pieceBB[us][PieceTypeRook]; pieces != 0; {
			from := Square(PopLsb(&pieces))
			targets := RookAttacks(from, allOcc) &^ ownOcc & allowed
			if info.Pinned&SquareBB(from) != 0 {
				targets &= pinRay[from]
			}
			moves = b.appendTargets(moves, from, targets)
		}
		for pieces := b.pieceBB[us][PieceTypeQueen]; pieces != 0; {
			from := Square(PopLsb(&pieces))
			targets := QueenAttacks(from, allOcc) &^ ownOcc & allowed
			if info.Pinned&SquareBB(from) != 0 {
				targets &= pinRay[from]
			}
			moves = b.appendTargets(moves, from, targets)
		}
	}

	// King moves: exclude squares the enemy attacks once our king has
	// stepped off its square, so sliders see through it.
	ksq := b.kingSq[us]
	occNoKing := allOcc &^ SquareBB(ksq)
	king := b.pieces[ksq]
	targets := kingAttackTable[ksq] &^ ownOcc
	if filter == genCaptures {
		targets &= oppOcc
	} else if filter == genQuiets {
		targets &^= oppOcc
	}
	for t := targets; t != 0; {
		to := Square(PopLsb(&t))
		if b.attackedWithOcc(to, them, occNoKing) {
			continue
		}
		moves = append(moves, NewMove(ksq, to, king, b.pieces[to], NoPiece, FlagNone))
	}

	if filter != genCaptures && !info.DoubleCheck && info.Checkers == 0 {
		moves = b.genCastles(moves, allOcc)
	}
	return moves
}

// appendTargets emits one move per target bit for a non-pawn piece.
func (b *Board) appendTargets(moves []Move, from Square, targets uint64) []Move {
	piece := b.pieces[from]
	for targets != 0 {
		to := Square(PopLsb(&targets))
		moves = append(moves, NewMove(from, to, piece, b.pieces[to], NoPiece, FlagNone))
	}
	return moves
}

func (b *Board) genPawnMoves(moves []Move, filter int, info CheckInfo, pinRay [64]uint64) []Move {
	us := b.sideToMove
	them := us.Other()
	allOcc := b.AllOccupancy()
	oppOcc := b.occupied[them]

	push, promoRank, startRank := 8, 7, 1
	if us == Black {
		push, promoRank, startRank = -8, 0, 6
	}

	for pawns := b.pieceBB[us][PieceTypePawn]; pawns != 0; {
		from := Square(PopLsb(&pawns))
		pawn := b.pieces[from]
		restrict := info.CheckRay
		if info.Pinned&SquareBB(from) != 0 {
			restrict &= pinRay[from]
		}

		// Pushes. Promotion pushes also count as tactical, so the
		// captures filter keeps them for quiescence.
		one := from + Square(push)
		if allOcc&SquareBB(one) == 0 {
			if SquareBB(one)&restrict != 0 {
				if RankOf(one) == promoRank {
					if filter != genQuiets {
						moves = appendPromotions(moves, from, one, pawn, NoPiece, us)
					}
				} else if filter != genCaptures {
					moves = append(moves, NewMove(from, one, pawn, NoPiece, NoPiece, FlagNone))
				}
			}
			if filter != genCaptures {
				if RankOf(from) == startRank {
					two := one + Square(push)
					if allOcc&SquareBB(two) == 0 && SquareBB(two)&restrict != 0 {
						moves = append(moves, NewMove(from, two, pawn, NoPiece, NoPiece, FlagNone))
					}
				}
			}
		}

		// Captures.
		if filter != genQuiets {
			for caps := pawnAttackTable[us][from] & oppOcc & restrict; caps != 0; {
				to := Square(PopLsb(&caps))
				victim := b.pieces[to]
				if RankOf(to) == promoRank {
					moves = appendPromotions(moves, from, to, pawn, victim, us)
				} else {
					moves = append(moves, NewMove(from, to, pawn, victim, NoPiece, FlagNone))
				}
			}

			if b.epSquare != NoSquare && pawnAttackTable[us][from]&SquareBB(b.epSquare) != 0 {
				if info.Pinned&SquareBB(from) == 0 || pinRay[from]&SquareBB(b.epSquare) != 0 {
					if b.epLegal(from, b.epSquare) {
						victim := PieceFromType(them, PieceTypePawn)
						moves = append(moves, NewMove(from, b.epSquare, pawn, victim, NoPiece, FlagEnPassant))
					}
				}
			}
		}
	}
	return moves
}

func appendPromotions(moves []Move, from, to Square, pawn, victim Piece, us Color) []Move {
	return append(moves,
		NewMove(from, to, pawn, victim, PieceFromType(us, PieceTypeQueen), FlagNone),
		NewMove(from, to, pawn, victim, PieceFromType(us, PieceTypeRook), FlagNone),
		NewMove(from, to, pawn, victim, PieceFromType(us, PieceTypeBishop), FlagNone),
		NewMove(from, to, pawn, victim, PieceFromType(us, PieceTypeKnight), FlagNone),
	)
}

// epLegal validates an en-passant capture by rebuilding the attack picture
// with both pawns gone. The double removal on one rank is the one case a
// pin ray cannot express, and the same simulation also confirms that the
// capture resolves any existing check.
func (b *Board) epLegal(from, ep Square) bool {
	us := b.sideToMove
	them := us.Other()
	ksq := b.kingSq[us]

	capSq := ep - 8
	if us == Black {
		capSq = ep + 8
	}
	occ := b.AllOccupancy()&^SquareBB(from)&^SquareBB(capSq) | SquareBB(ep)

	if RookAttacks(ksq, occ)&(b.pieceBB[them][PieceTypeRook]|b.pieceBB[them][PieceTypeQueen]) != 0 {
		return false
	}
	if BishopAttacks(ksq, occ)&(b.pieceBB[them][PieceTypeBishop]|b.pieceBB[them][PieceTypeQueen]) != 0 {
		return false
	}
	if knightAttackTable[ksq]&b.pieceBB[them][PieceTypeKnight] != 0 {
		return false
	}
	if pawnAttackTable[us][ksq]&(b.pieceBB[them][PieceTypePawn]&^SquareBB(capSq)) != 0 {
		return false
	}
	return true
}

// genCastles emits castling moves; never called while in check.
func (b *Board) genCastles(moves []Move, occ uint64) []Move {
	if b.sideToMove == White {
		if b.castling&CastleWhiteKing != 0 &&
			b.pieces[SqF1] == NoPiece && b.pieces[SqG1] == NoPiece &&
			b.pieces[SqH1] == WhiteRook &&
			!b.attackedWithOcc(SqF1, Black, occ) && !b.attackedWithOcc(SqG1, Black, occ) {
			moves = append(moves, NewMove(SqE1, SqG1, WhiteKing, NoPiece, NoPiece, FlagCastle))
		}
		if b.castling&CastleWhiteQueen != 0 &&
			b.pieces[SqB1] == NoPiece && b.pieces[SqC1] == NoPiece && b.pieces[SqD1] == NoPiece &&
			b.pieces[SqA1] == WhiteRook &&
			!b.attackedWithOcc(SqD1, Black, occ) && !b.attackedWithOcc(SqC1, Black, occ) {
			moves = append(moves, NewMove(SqE1, SqC1, WhiteKing, NoPiece, NoPiece, FlagCastle))
		}
	} else {
		if b.castling&CastleBlackKing != 0 &&
			b.pieces[SqF8] == NoPiece && b.pieces[SqG8] == NoPiece &&
			b.pieces[SqH8] == BlackRook &&
			!b.attackedWithOcc(SqF8, White, occ) && !b.attackedWithOcc(SqG8, White, occ) {
			moves = append(moves, NewMove(SqE8, SqG8, BlackKing, NoPiece, NoPiece, FlagCastle))
		}
		if b.castling&CastleBlackQueen != 0 &&
			b.pieces[SqB8] == NoPiece && b.pieces[SqC8] == NoPiece && b.pieces[SqD8] == NoPiece &&
			b.pieces[SqA8] == BlackRook &&
			!b.attackedWithOcc(SqD8, White, occ) && !b.attackedWithOcc(SqC8, White, occ) {
			moves = append(moves, NewMove(SqE8, SqC8, BlackKing, NoPiece, NoPiece, FlagCastle))
		}
	}
	return moves
}

// GenerateMoves returns all legal moves for the side to move.
func (b *Board) GenerateMoves() []Move { return b.GenerateMovesInto(make([]Move, 0, 64)) }

// GenerateMovesInto appends all legal moves into dst (reused from index 0).
func (b *Board) GenerateMovesInto(dst []Move) []Move {
	return b.generateFiltered(dst, genAll)
}

// GenerateCapturesInto appends all legal captures, including en passant and
// capturing promotions, plus the non-capturing promotion pushes.
func (b *Board) GenerateCapturesInto(dst []Move) []Move {
	return b.generateFiltered(dst, genCaptures)
}

// GenerateQuietsInto appends all legal non-capturing moves except promotion
// pushes, which the captures filter emits instead.
func (b *Board) GenerateQuietsInto(dst []Move) []Move {
	return b.generateFiltered(dst, genQuiets)
}

// GenerateCaptures returns a new slice of legal captures.
func (b *Board) GenerateCaptures() []Move { return b.GenerateCapturesInto(make([]Move, 0, 32)) }

// GenerateChecksInto appends all legal moves that give check, filtering
// the full move list through the same post-move attack query the search
// uses for its tactical classification.
func (b *Board) GenerateChecksInto(dst []Move) []Move {
	moves := b.GenerateMovesInto(dst)
	out := moves[:0]
	for _, m := range moves {
		if b.GivesCheck(m) {
			out = append(out, m)
		}
	}
	return out
}

// GenerateChecks returns a new slice of legal checking moves.
func (b *Board) GenerateChecks() []Move { return b.GenerateChecksInto(make([]Move, 0, 32)) }

// ==========================
// Perft
// ==========================

// Perft counts leaf nodes at the given depth, exercising the generator and
// make/unmake together.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][]Move, depth+1)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 128)
	}
	return perftRec(b, depth, bufs)
}

func perftRec(b *Board, depth int, bufs [][]Move) uint64 {
	moves := b.GenerateMovesInto(bufs[depth])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		if ok, st := b.MakeMove(m); ok {
			nodes += perftRec(b, depth-1, bufs)
			b.UnmakeMove(m, st)
		}
	}
	return nodes
}

// PerftDivide maps each root move to its subtree leaf count.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range b.GenerateMoves() {
		if ok, st := b.MakeMove(m); ok {
			result[m] = Perft(b, depth-1)
			b.UnmakeMove(m, st)
		}
	}
	return result
}

// GeneratePseudoMovesInto appends pseudo-legal moves: piece rules and
// blockers are respected, king safety is not. Castling needs only rights
// and an empty path. Useful for generator diagnostics; the legal
// generator's output is always a subset.
func (b *Board) GeneratePseudoMovesInto(dst []Move) []Move {
	moves := dst[:0]
	us := b.sideToMove
	them := us.Other()
	ownOcc := b.occupied[us]
	oppOcc := b.occupied[them]
	allOcc := ownOcc | oppOcc

	push, promoRank, startRank := 8, 7, 1
	if us == Black {
		push, promoRank, startRank = -8, 0, 6
	}

	for pawns := b.pieceBB[us][PieceTypePawn]; pawns != 0; {
		from := Square(PopLsb(&pawns))
		pawn := b.pieces[from]

		one := from + Square(push)
		if allOcc&SquareBB(one) == 0 {
			if RankOf(one) == promoRank {
				moves = appendPromotions(moves, from, one, pawn, NoPiece, us)
			} else {
				moves = append(moves, NewMove(from, one, pawn, NoPiece, NoPiece, FlagNone))
				if RankOf(from) == startRank {
					two := one + Square(push)
					if allOcc&SquareBB(two) == 0 {
						moves = append(moves, NewMove(from, two, pawn, NoPiece, NoPiece, FlagNone))
					}
				}
			}
		}
		for caps := pawnAttackTable[us][from] & oppOcc; caps != 0; {
			to := Square(PopLsb(&caps))
			if RankOf(to) == promoRank {
				moves = appendPromotions(moves, from, to, pawn, b.pieces[to], us)
			} else {
				moves = append(moves, NewMove(from, to, pawn, b.pieces[to], NoPiece, FlagNone))
			}
		}
		if b.epSquare != NoSquare && pawnAttackTable[us][from]&SquareBB(b.epSquare) != 0 {
			moves = append(moves, NewMove(from, b.epSquare, pawn, PieceFromType(them, PieceTypePawn), NoPiece, FlagEnPassant))
		}
	}

	for pieces := b.pieceBB[us][PieceTypeKnight]; pieces != 0; {
		from := Square(PopLsb(&pieces))
		moves = b.appendTargets(moves, from, knightAttackTable[from]&^ownOcc)
	}
	for pieces := b.pieceBB[us][PieceTypeBishop]; pieces != 0; {
		from := Square(PopLsb(&pieces))
		moves = b.appendTargets(moves, from, BishopAttacks(from, allOcc)&^ownOcc)
	}
	for pieces := b.pieceBB[us][PieceTypeRook]; pieces != 0; {
		from := Square(PopLsb(&pieces))
		moves = b.appendTargets(moves, from, RookAttacks(from, allOcc)&^ownOcc)
	}
	for pieces := b.pieceBB[us][PieceTypeQueen]; pieces != 0; {
		from := Square(PopLsb(&pieces))
		moves = b.appendTargets(moves, from, QueenAttacks(from, allOcc)&^ownOcc)
	}

	ksq := b.kingSq[us]
	moves = b.appendTargets(moves, ksq, kingAttackTable[ksq]&^ownOcc)

	if us == White {
		if b.castling&CastleWhiteKing != 0 && b.pieces[SqF1] == NoPiece && b.pieces[SqG1] == NoPiece && b.pieces[SqH1] == WhiteRook {
			moves = append(moves, NewMove(SqE1, SqG1, WhiteKing, NoPiece, NoPiece, FlagCastle))
		}
		if b.castling&CastleWhiteQueen != 0 && b.pieces[SqB1] == NoPiece && b.pieces[SqC1] == NoPiece && b.pieces[SqD1] == NoPiece && b.pieces[SqA1] == WhiteRook {
			moves = append(moves, NewMove(SqE1, SqC1, WhiteKing, NoPiece, NoPiece, FlagCastle))
		}
	} else {
		if b.castling&CastleBlackKing != 0 && b.pieces[SqF8] == NoPiece && b.pieces[SqG8] == NoPiece && b.pieces[SqH8] == BlackRook {
			moves = append(moves, NewMove(SqE8, SqG8, BlackKing, NoPiece, NoPiece, FlagCastle))
		}
		if b.castling&CastleBlackQueen != 0 && b.pieces[SqB8] == NoPiece && b.pieces[SqC8] == NoPiece && b.pieces[SqD8] == NoPiece && b.pieces[SqA8] == BlackRook {
			moves = append(moves, NewMove(SqE8, SqC8, BlackKing, NoPiece, NoPiece, FlagCastle))
		}
	}
	return moves
}

// GeneratePseudoMoves returns a new slice of pseudo-legal moves.
func (b *Board) GeneratePseudoMoves() []Move { return b.GeneratePseudoMovesInto(make([]Move, 0, 64)) }
