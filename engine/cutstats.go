package engine

import "fmt"

// CutStatistics counts how often each pruning mechanism fires during a
// search. Useful when tuning margins; dumped as info strings on demand.
type CutStatistics struct {
	TTCutoffs       uint64
	RFPCutoffs      uint64
	NullMoveCutoffs uint64
	FutilityPrunes  uint64
	LateMovePrunes  uint64
	BetaCutoffs     uint64
	QSeePrunes      uint64
	QDeltaPrunes    uint64
	QBetaCutoffs    uint64
}

var cutStats CutStatistics

// PrintCutStats makes the next finished search dump its cut statistics.
var PrintCutStats bool

func resetCutStats() {
	cutStats = CutStatistics{}
}

func dumpCutStats() {
	fmt.Println("info string cut statistics:")
	fmt.Printf("info string   TT cutoffs: %d\n", cutStats.TTCutoffs)
	fmt.Printf("info string   reverse futility cutoffs: %d\n", cutStats.RFPCutoffs)
	fmt.Printf("info string   null-move cutoffs: %d\n", cutStats.NullMoveCutoffs)
	fmt.Printf("info string   futility prunes: %d\n", cutStats.FutilityPrunes)
	fmt.Printf("info string   late move prunes: %d\n", cutStats.LateMovePrunes)
	fmt.Printf("info string   beta cutoffs: %d\n", cutStats.BetaCutoffs)
	fmt.Printf("info string   qsearch SEE prunes: %d\n", cutStats.QSeePrunes)
	fmt.Printf("info string   qsearch delta prunes: %d\n", cutStats.QDeltaPrunes)
	fmt.Printf("info string   qsearch beta cutoffs: %d\n", cutStats.QBetaCutoffs)
}
