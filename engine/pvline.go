package engine

import (
	"strings"

	gm "merlin-engine/merlinmg"
)

// PVLine collects the principal variation while the tree unwinds.
type PVLine struct {
	Moves []gm.Move
}

// Clear empties the line, keeping its capacity.
func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

// Update sets the line to move followed by the child line.
func (pv *PVLine) Update(move gm.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clone returns an independent copy of the line.
func (pv PVLine) Clone() PVLine {
	return PVLine{Moves: append([]gm.Move(nil), pv.Moves...)}
}

// GetPVMove returns the first move of the line, or the null move.
func (pv PVLine) GetPVMove() gm.Move {
	if len(pv.Moves) == 0 {
		return 0
	}
	return pv.Moves[0]
}

// String renders the line as space-separated UCI moves.
func (pv PVLine) String() string {
	parts := make([]string, len(pv.Moves))
	for i, m := range pv.Moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
