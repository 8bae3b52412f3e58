package engine

import (
	"unsafe"

	gm "merlin-engine/merlinmg"
)

const (
	// Bound kinds. AlphaFlag marks an upper bound (score failed low),
	// BetaFlag a lower bound (score failed high).
	AlphaFlag = iota
	BetaFlag
	ExactFlag

	// DefaultTTSizeMB is used until the GUI sends a Hash option.
	DefaultTTSizeMB = 64

	clusterSize = 4
)

// TTEntry is one transposition table slot. The full 64-bit hash doubles as
// the probe verification, so index collisions read as misses.
type TTEntry struct {
	Hash  uint64
	Move  gm.Move
	Score int16
	Depth int8
	Flag  int8
}

// TransTable is a fixed-size, cluster-indexed transposition table owned by
// the search. It is sized once from a megabyte budget and never grows.
type TransTable struct {
	entries      []TTEntry
	clusterCount uint64
	initialized  bool
}

var TT TransTable

// Init sizes the table to the given megabyte budget and clears it.
func (tt *TransTable) Init(sizeMB int) {
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	clusterCount := uint64(sizeMB) * 1024 * 1024 / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	tt.clusterCount = clusterCount
	tt.entries = make([]TTEntry, clusterCount*clusterSize)
	tt.initialized = true
}

// Clear wipes every entry; called on ucinewgame.
func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
}

// Probe returns the entry stored for hash, if any. The returned entry is a
// copy; storing requires a separate Store call.
func (tt *TransTable) Probe(hash uint64) (TTEntry, bool) {
	if tt.clusterCount == 0 {
		return TTEntry{}, false
	}
	base := int(hash % tt.clusterCount * clusterSize)
	for i := 0; i < clusterSize; i++ {
		if tt.entries[base+i].Hash == hash {
			return tt.entries[base+i], true
		}
	}
	return TTEntry{}, false
}

// Store writes an entry under the replace-by-depth policy: an existing
// entry for the same position is only overwritten by an equal or deeper
// search, and cluster eviction picks the shallowest slot, again only if
// the new entry searched at least as deep.
func (tt *TransTable) Store(hash uint64, depth, ply int8, move gm.Move, score int32, flag int8) {
	if tt.clusterCount == 0 {
		return
	}
	base := int(hash % tt.clusterCount * clusterSize)

	target := -1
	for i := 0; i < clusterSize; i++ {
		if tt.entries[base+i].Hash == hash {
			if tt.entries[base+i].Depth > depth {
				return
			}
			target = base + i
			break
		}
	}
	if target == -1 {
		for i := 0; i < clusterSize; i++ {
			if tt.entries[base+i].Hash == 0 {
				target = base + i
				break
			}
		}
	}
	if target == -1 {
		shallowest := base
		for i := 1; i < clusterSize; i++ {
			if tt.entries[base+i].Depth < tt.entries[shallowest].Depth {
				shallowest = base + i
			}
		}
		if tt.entries[shallowest].Depth > depth {
			return
		}
		target = shallowest
	}

	tt.entries[target] = TTEntry{
		Hash:  hash,
		Move:  move,
		Score: scoreToTT(score, ply),
		Depth: depth,
		Flag:  flag,
	}
}

// Mate scores are stored relative to the storing node so the entry stays
// meaningful when probed at a different ply.
func scoreToTT(score int32, ply int8) int16 {
	if score > Checkmate {
		score += int32(ply)
	} else if score < -Checkmate {
		score -= int32(ply)
	}
	return int16(score)
}

func scoreFromTT(score int16, ply int8) int32 {
	s := int32(score)
	if s > Checkmate {
		s -= int32(ply)
	} else if s < -Checkmate {
		s += int32(ply)
	}
	return s
}
