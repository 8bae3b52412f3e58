package engine

import (
	"fmt"
	"sync/atomic"

	gm "merlin-engine/merlinmg"
)

// Score constants. Mate scores live in (Checkmate, MaxScore]; everything
// the evaluator produces stays below Checkmate.
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0

	MaxDepth = 100

	// How many nodes pass between stop-flag and deadline checks.
	stopCheckInterval = 2048
)

// Stop is the cooperative stop flag shared with the UCI thread; "stop" and
// "quit" set it, the worker observes it within stopCheckInterval nodes.
var Stop atomic.Bool

var (
	killers      KillerTable
	timeHandler  TimeHandler
	nodesChecked uint64
	nodeLimit    uint64
	searchAbort  bool
	prevScore    int32
	infoWriter   = true // silenced in tests

	aspirationWindow int32 = 35
)

func init() {
	initLMRTable()
	initEvalTables()
}

// Pruning margins indexed by remaining depth.
var futilityMargins = [8]int32{0, 120, 220, 320, 420, 520, 620, 720}
var rfpMargins = [8]int32{0, 100, 200, 300, 400, 500, 600, 700}
var latePruneMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

// ResetForNewGame clears every table that carries state between searches.
func ResetForNewGame() {
	TT.Clear()
	killers.Clear()
	clearHistoryTables()
	gameHistory = gameHistory[:0]
	stateStack = stateStack[:0]
	prevScore = 0
}

// SetTTSize re-allocates the transposition table to the given budget.
func SetTTSize(sizeMB int) {
	TT.Init(Clamp(sizeMB, 1, 4096))
}

// QuietSearch disables info output for the next searches (test hook).
func QuietSearch(quiet bool) { infoWriter = !quiet }

// StartSearch runs an iterative-deepening search on b within the given
// limits and returns the best move with its score. The board comes back in
// its root state. A null move means the root has no legal moves.
func StartSearch(b *gm.Board, limits Limits) (gm.Move, int32) {
	if !TT.initialized {
		TT.Init(DefaultTTSizeMB)
	}
	Stop.Store(false)
	searchAbort = false
	nodesChecked = 0
	resetCutStats()
	nodeLimit = limits.Nodes
	syncStateStack(b)
	timeHandler.Start(b, limits)

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	rootMoves := b.GenerateMoves()
	if len(rootMoves) == 0 {
		return 0, DrawScore
	}

	var pvLine, prevPVLine PVLine
	alpha, beta := -MaxScore, MaxScore
	if prevScore != 0 {
		alpha = prevScore - aspirationWindow
		beta = prevScore + aspirationWindow
	}
	window := aspirationWindow
	bestScore := -MaxScore

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && timeHandler.SoftExceeded() {
			break
		}

		pvLine.Clear()
		score := alphabeta(b, alpha, beta, int8(depth), 0, &pvLine, 0, false)

		if Stop.Load() || searchAbort {
			// The interrupted iteration is discarded, except when no
			// iteration ever completed.
			if len(prevPVLine.Moves) == 0 && len(pvLine.Moves) > 0 {
				prevPVLine = pvLine.Clone()
				bestScore = score
			}
			break
		}

		// A result outside the aspiration window is only a bound; widen
		// and redo the iteration.
		if score <= alpha || score >= beta {
			window = Min(window*2, MaxScore)
			alpha = Max(score-window, -MaxScore)
			beta = Min(score+window, MaxScore)
			depth--
			continue
		}

		bestScore = score
		prevScore = score
		window = aspirationWindow
		alpha = Max(score-window, -MaxScore)
		beta = Min(score+window, MaxScore)
		prevPVLine = pvLine.Clone()
		timeHandler.UpdateStability(prevPVLine.GetPVMove())

		printInfo(depth, score, &prevPVLine)

		if score > Checkmate || score < -Checkmate {
			break // forced mate found; deeper iterations cannot improve it
		}
	}

	if PrintCutStats && infoWriter {
		dumpCutStats()
	}

	best := prevPVLine.GetPVMove()
	if best == 0 {
		// Interrupted before depth 1 completed; fall back to the first
		// move in ordering terms rather than resigning.
		list := scoreMoves(b, rootMoves, 0, 0, 0)
		best = orderNextMove(0, &list)
	}
	return best, bestScore
}

func printInfo(depth int, score int32, pv *PVLine) {
	if !infoWriter {
		return
	}
	elapsed := timeHandler.Elapsed().Milliseconds()
	if elapsed == 0 {
		elapsed = 1
	}
	nps := nodesChecked * 1000 / uint64(elapsed)
	fmt.Println("info depth", depth,
		"score", mateOrCPScore(score),
		"nodes", nodesChecked,
		"nps", nps,
		"time", elapsed,
		"pv", pv.String(),
	)
}

// mateOrCPScore formats a score as "cp N" or "mate N" (negative when the
// side to move is being mated).
func mateOrCPScore(score int32) string {
	if score > Checkmate {
		plies := MaxScore - score
		return fmt.Sprintf("mate %d", (plies+1)/2)
	}
	if score < -Checkmate {
		plies := MaxScore + score
		return fmt.Sprintf("mate %d", -(plies+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// checkLimits runs every stopCheckInterval nodes; it aborts on the hard
// deadline or the node budget.
func checkLimits() {
	if nodeLimit > 0 && nodesChecked >= nodeLimit {
		searchAbort = true
	}
	if timeHandler.HardExceeded() {
		searchAbort = true
	}
}

func shouldStop() bool {
	return searchAbort || Stop.Load()
}

// alphabeta is the negamax workhorse: transposition probes, check
// extension, null-move pruning, futility and late-move pruning, and
// principal variation search with late-move reductions.
func alphabeta(b *gm.Board, alpha, beta int32, depth, ply int8, pvLine *PVLine, prevMove gm.Move, didNull bool) int32 {
	nodesChecked++
	if nodesChecked%stopCheckInterval == 0 {
		checkLimits()
	}
	if shouldStop() {
		return 0
	}
	if ply >= MaxDepth {
		return Evaluate(b)
	}

	isRoot := ply == 0
	isPVNode := beta-alpha > 1

	if !isRoot && isDraw() {
		return DrawScore
	}

	inCheck := b.InCheck()
	if inCheck && depth < MaxDepth {
		depth++ // check extension
	}
	if depth <= 0 {
		return quiescence(b, alpha, beta, ply)
	}

	posHash := b.Hash()
	var ttMove gm.Move
	entry, ttHit := TT.Probe(posHash)
	if ttHit {
		ttMove = entry.Move
		if !isRoot && !isPVNode && entry.Depth >= depth {
			ttScore := scoreFromTT(entry.Score, ply)
			switch entry.Flag {
			case ExactFlag:
				cutStats.TTCutoffs++
				return ttScore
			case BetaFlag:
				alpha = Max(alpha, ttScore)
			case AlphaFlag:
				beta = Min(beta, ttScore)
			}
			if alpha >= beta {
				cutStats.TTCutoffs++
				return ttScore
			}
		}
	}

	var staticScore int32
	if !inCheck {
		staticScore = Evaluate(b)
	}

	// Reverse futility: a position comfortably above beta even after a
	// depth-scaled margin will not fall below it in quiet play.
	if !inCheck && !isPVNode && !isRoot && depth <= 7 && Abs(beta) < Checkmate {
		if staticScore-rfpMargins[depth] >= beta {
			cutStats.RFPCutoffs++
			return staticScore - rfpMargins[depth]
		}
	}

	// Null-move pruning: hand over the move and search reduced; a score
	// still above beta marks the position as too good to need proof.
	if !inCheck && !isPVNode && !isRoot && !didNull && depth >= 3 && hasNonPawnMaterial(b) {
		st := b.MakeNullMove()
		pushState(b)
		reduction := int8(3) + depth/3
		if reduction > depth-1 {
			reduction = depth - 1
		}
		var nullPV PVLine
		score := -alphabeta(b, -beta, -beta+1, depth-1-reduction, ply+1, &nullPV, 0, true)
		popState()
		b.UnmakeNullMove(st)
		if shouldStop() {
			return 0
		}
		if score >= beta && score < Checkmate {
			cutStats.NullMoveCutoffs++
			return beta
		}
	}

	moves := b.GenerateMoves()
	if len(moves) == 0 {
		if inCheck {
			return -MaxScore + int32(ply) // mated, preferring the longer defense
		}
		return DrawScore // stalemate
	}

	list := scoreMoves(b, moves, ply, ttMove, prevMove)
	var childPV PVLine
	var bestMove gm.Move
	bestScore := -MaxScore
	ttFlag := int8(AlphaFlag)
	legal := 0
	quietsTried := make([]gm.Move, 0, 16)

	for index := 0; index < len(list.moves); index++ {
		move := orderNextMove(index, &list)
		isCapture := move.IsCapture()
		isPromotion := move.PromotionPiece() != gm.NoPiece
		givesCheck := b.GivesCheck(move)
		tactical := isCapture || isPromotion || givesCheck
		legal++

		// Late move pruning: quiet moves deep in the ordering at shallow
		// depth rarely rescue the node.
		if !isPVNode && !isRoot && !inCheck && !tactical && depth <= 8 {
			if legal > latePruneMargins[depth] {
				cutStats.LateMovePrunes++
				continue
			}
		}

		// Futility: at shallow depth a quiet move cannot lift a hopeless
		// static score past alpha.
		if !isPVNode && !isRoot && !inCheck && !tactical && depth <= 7 && Abs(alpha) < Checkmate {
			if staticScore+futilityMargins[depth] <= alpha {
				cutStats.FutilityPrunes++
				continue
			}
		}

		ok, st := b.MakeMove(move)
		if !ok {
			legal--
			continue
		}
		pushState(b)

		var score int32
		if legal == 1 {
			score = -alphabeta(b, -beta, -alpha, depth-1, ply+1, &childPV, move, false)
		} else {
			// Null-window probe, reduced for late quiet moves; re-search
			// on any fail-high.
			var reduction int8
			if depth >= 3 && legal > 2 && !tactical && !inCheck {
				reduction = lmrTable[depth][Min(legal, 63)]
				if killers.IsKiller(move, ply) {
					reduction--
				}
				if historyMove[b.SideToMove().Other()][move.From()][move.To()] > 0 {
					reduction--
				}
				reduction = Clamp(reduction, 0, depth-2)
			}
			score = -alphabeta(b, -alpha-1, -alpha, depth-1-reduction, ply+1, &childPV, move, false)
			if score > alpha && reduction > 0 {
				score = -alphabeta(b, -alpha-1, -alpha, depth-1, ply+1, &childPV, move, false)
			}
			if score > alpha && score < beta {
				score = -alphabeta(b, -beta, -alpha, depth-1, ply+1, &childPV, move, false)
			}
		}

		popState()
		b.UnmakeMove(move, st)
		if shouldStop() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			pvLine.Update(move, childPV)
		}
		if alpha >= beta {
			cutStats.BetaCutoffs++
			ttFlag = BetaFlag
			if !isCapture && !isPromotion {
				killers.Insert(move, ply)
				storeCounter(b.SideToMove(), prevMove, move)
				incrementHistory(b.SideToMove(), move, depth)
				for _, failed := range quietsTried {
					decrementHistory(b.SideToMove(), failed)
				}
			}
			break
		}
		if !isCapture {
			quietsTried = append(quietsTried, move)
		}
		childPV.Clear()
	}

	if legal == 0 {
		if inCheck {
			return -MaxScore + int32(ply)
		}
		return DrawScore
	}

	if !shouldStop() {
		TT.Store(posHash, depth, ply, bestMove, bestScore, ttFlag)
	}
	return bestScore
}

// quiescence resolves captures (and all evasions while in check) until the
// position is quiet enough for the static evaluation to stand.
func quiescence(b *gm.Board, alpha, beta int32, ply int8) int32 {
	nodesChecked++
	if nodesChecked%stopCheckInterval == 0 {
		checkLimits()
	}
	if shouldStop() {
		return 0
	}
	if ply >= MaxDepth {
		return Evaluate(b)
	}

	inCheck := b.InCheck()
	var bestScore, standPat int32

	var list moveList
	if inCheck {
		moves := b.GenerateMoves()
		if len(moves) == 0 {
			return -MaxScore + int32(ply)
		}
		bestScore = -MaxScore
		list = scoreMoves(b, moves, ply, 0, 0)
	} else {
		standPat = Evaluate(b)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
		bestScore = standPat
		list = scoreCaptures(b, b.GenerateCaptures())
	}

	for index := 0; index < len(list.moves); index++ {
		move := orderNextMove(index, &list)

		if !inCheck {
			// Skip captures that lose material outright, and captures
			// whose best case still leaves us under alpha.
			if move.IsCapture() && see(b, move) < 0 {
				cutStats.QSeePrunes++
				continue
			}
			gain := int32(0)
			if victim := move.CapturedPiece(); victim != gm.NoPiece {
				gain = int32(pieceValueMG[victim.Type()])
			}
			if promo := move.PromotionPieceType(); promo != gm.PieceTypeNone {
				gain += int32(pieceValueMG[promo] - pieceValueMG[gm.PieceTypePawn])
			}
			if standPat+gain+200 < alpha {
				cutStats.QDeltaPrunes++
				continue
			}
		}

		ok, st := b.MakeMove(move)
		if !ok {
			continue
		}
		pushState(b)
		score := -quiescence(b, -beta, -alpha, ply+1)
		popState()
		b.UnmakeMove(move, st)
		if shouldStop() {
			return 0
		}

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			cutStats.QBetaCutoffs++
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	return bestScore
}

// hasNonPawnMaterial reports whether the side to move still has a piece,
// guarding null-move pruning against zugzwang-heavy pawn endings.
func hasNonPawnMaterial(b *gm.Board) bool {
	us := b.SideToMove()
	return b.PieceBB(us, gm.PieceTypeKnight)|b.PieceBB(us, gm.PieceTypeBishop)|
		b.PieceBB(us, gm.PieceTypeRook)|b.PieceBB(us, gm.PieceTypeQueen) != 0
}
