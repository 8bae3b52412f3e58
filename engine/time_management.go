package engine

import (
	"time"

	gm "merlin-engine/merlinmg"
)

// Limits carries the constraints of one "go" command.
type Limits struct {
	Depth    int
	MoveTime int // milliseconds
	WTime    int
	BTime    int
	WInc     int
	BInc     int
	Nodes    uint64
	Infinite bool
}

// TimeHandler turns a clock state into a soft deadline (stop starting new
// iterations) and a hard deadline (abort the search mid-iteration).
type TimeHandler struct {
	searchStart time.Time
	soft        time.Time
	hard        time.Time
	hasDeadline bool

	lastBest gm.Move
	extended bool
}

const (
	overheadMs   = 30  // reserve for I/O jitter between us and the GUI
	minMoveMs    = 5
	maxTimeFrac  = 0.7 // never burn more than this share of the clock
	panicLimitMs = 1000
)

// Start computes the deadlines for a search on b under the given limits.
func (th *TimeHandler) Start(b *gm.Board, limits Limits) {
	th.searchStart = time.Now()
	th.hasDeadline = false
	th.lastBest = 0
	th.extended = false

	if limits.Infinite {
		return
	}
	if limits.MoveTime > 0 {
		budget := Max(limits.MoveTime-overheadMs, minMoveMs)
		th.soft = th.searchStart.Add(time.Duration(budget) * time.Millisecond)
		th.hard = th.soft
		th.hasDeadline = true
		return
	}

	remaining, increment := limits.WTime, limits.WInc
	if b.SideToMove() == gm.Black {
		remaining, increment = limits.BTime, limits.BInc
	}
	if remaining <= 0 {
		return // depth- or node-limited search
	}

	movesLeft := estimateMovesRemaining(GetPiecePhase(b))

	var alloc int
	if increment > 0 && remaining < panicLimitMs {
		// Nearly flagged: live off the increment and bank a little.
		alloc = increment * 9 / 10
	} else {
		alloc = remaining/movesLeft + increment*3/4
	}
	alloc = Min(alloc, int(float64(remaining)*maxTimeFrac))
	alloc = Max(Min(alloc, remaining-overheadMs), minMoveMs)

	th.soft = th.searchStart.Add(time.Duration(alloc) * time.Millisecond)
	hardMs := Min(alloc*4, int(float64(remaining)*maxTimeFrac))
	th.hard = th.searchStart.Add(time.Duration(Max(hardMs, alloc)) * time.Millisecond)
	th.hasDeadline = true
}

// estimateMovesRemaining interpolates between 20 moves (bare endgame) and
// 45 (full board) from the material phase.
func estimateMovesRemaining(phase int) int {
	return phase*25/TotalPhase + 20
}

// SoftExceeded reports that no further iteration should start.
func (th *TimeHandler) SoftExceeded() bool {
	return th.hasDeadline && time.Now().After(th.soft)
}

// HardExceeded reports that the running iteration must abort.
func (th *TimeHandler) HardExceeded() bool {
	return th.hasDeadline && time.Now().After(th.hard)
}

// Elapsed is the time since the search started.
func (th *TimeHandler) Elapsed() time.Duration { return time.Since(th.searchStart) }

// UpdateStability tracks best-move churn between iterations; a changed
// best move once grants extra soft time to settle the choice.
func (th *TimeHandler) UpdateStability(best gm.Move) {
	changed := th.lastBest != 0 && best != th.lastBest
	th.lastBest = best
	if changed && th.hasDeadline && !th.extended {
		th.extended = true
		extra := th.soft.Sub(th.searchStart) / 2
		if next := th.soft.Add(extra); next.Before(th.hard) {
			th.soft = next
		} else {
			th.soft = th.hard
		}
	}
}
