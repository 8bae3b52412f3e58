package engine

import (
	gm "merlin-engine/merlinmg"
)

type scoredMove struct {
	move  gm.Move
	score int32
}

type moveList struct {
	moves []scoredMove
}

// Most Valuable Victim - Least Valuable Aggressor; breaks ties between
// captures with equal exchange scores.
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim Knight
	{0, 34, 33, 32, 31, 30, 0}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim Rook
	{0, 54, 53, 52, 51, 50, 0}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},
}

/*
Move ordering priorities, highest first:
  - the transposition-table move,
  - captures that do not lose material, ranked by their exchange score with
    an MVV-LVA tiebreak, and non-capturing promotions, ranked by the value
    of the promoted piece (a queen promotion outranks a capture that wins
    less than about four pawns),
  - killer moves of this ply,
  - remaining quiets by history score, capped below the killers; the
    counter to the previous move gets a fixed bonus on top, which can lift
    it above a killer,
  - captures the exchange evaluator calls losing, at their raw negative
    score, below every quiet.
*/
const (
	ttMoveScore     int32 = 30000
	captureOffset   int32 = 10000
	promotionOffset int32 = 9500
	killerScore     int32 = 900
	counterBonus    int32 = 600
)

// scoreMoves assigns an ordering score to every generated move.
func scoreMoves(b *gm.Board, moves []gm.Move, ply int8, ttMove, prevMove gm.Move) moveList {
	stm := b.SideToMove()
	list := moveList{moves: make([]scoredMove, len(moves))}

	for i, move := range moves {
		var score int32
		switch {
		case move == ttMove:
			score = ttMoveScore
		case move.IsCapture():
			if exchange := see(b, move); exchange >= 0 {
				score = captureOffset + exchange + mvvLva[move.CapturedPiece().Type()][move.MovedPiece().Type()]
			} else {
				score = exchange
			}
		case move.PromotionPiece() != gm.NoPiece:
			score = promotionOffset + seePieceValue[move.PromotionPieceType()]
		case killers.moves[ply][0] == move:
			score = killerScore
		case killers.moves[ply][1] == move:
			score = killerScore - 10
		default:
			score = Min(historyMove[stm][move.From()][move.To()], killerScore-20)
			if counterMove[stm][prevMove.From()][prevMove.To()] == move {
				score += counterBonus
			}
		}
		list.moves[i] = scoredMove{move: move, score: score}
	}
	return list
}

// scoreCaptures ranks quiescence moves: promotions first, then captures by
// exchange score.
func scoreCaptures(b *gm.Board, moves []gm.Move) moveList {
	list := moveList{moves: make([]scoredMove, len(moves))}
	for i, move := range moves {
		var score int32
		if move.PromotionPiece() != gm.NoPiece {
			score = promotionOffset + seePieceValue[move.PromotionPieceType()]
		}
		if move.IsCapture() {
			score += see(b, move) + mvvLva[move.CapturedPiece().Type()][move.MovedPiece().Type()]
		}
		list.moves[i] = scoredMove{move: move, score: score}
	}
	return list
}

// orderNextMove swaps the best remaining move into position index, so each
// pick costs one scan and the list yields moves in non-increasing score
// order, each exactly once.
func orderNextMove(index int, list *moveList) gm.Move {
	best := index
	for i := index + 1; i < len(list.moves); i++ {
		if list.moves[i].score > list.moves[best].score {
			best = i
		}
	}
	list.moves[index], list.moves[best] = list.moves[best], list.moves[index]
	return list.moves[index].move
}
