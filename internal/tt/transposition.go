// Package tt implements a clustered, lock-free transposition table: an
// array of 4-entry clusters of packed atomic 64-bit words, probed by
// the high 64 bits of key * cluster_count.
package tt

import (
	"math/bits"
	"sync/atomic"

	"github.com/pbnjay/memory"
)

// ClusterSize is the number of entries per cluster.
const ClusterSize = 4

// Bound describes the relationship between a stored score and the true
// minimax value.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundLower
	BoundUpper
	BoundExact
)

// Packed bit layout:
//
//	bits  0-15: key fragment (16 bits)
//	bits 16-31: score       (16 bits, signed)
//	bits 32-38: best move square (7 bits)
//	bits 39-40: bound        (2 bits)
//	bits 41-46: depth        (6 bits)
//	bits 47-49: selectivity  (3 bits)
//	bits 50-56: generation   (7 bits)
const (
	keyShift        = 0
	scoreShift      = 16
	bestMoveShift   = 32
	boundShift      = 39
	depthShift      = 41
	selectivityShift = 47
	generationShift = 50

	keyMask        = 0xFFFF
	scoreMask      = 0xFFFF
	bestMoveMask   = 0x7F
	boundMask      = 0x3
	depthMask      = 0x3F
	selectivityMask = 0x7
	generationMask = 0x7F
)

// Data is the unpacked view of one entry, returned by Probe.
type Data struct {
	Key         uint16
	Score       int16
	BestMove    uint8
	Bound       Bound
	Depth       uint8
	Selectivity uint8
	Generation  uint8
}

func pack(d Data) uint64 {
	return uint64(d.Key)&keyMask<<keyShift |
		uint64(uint16(d.Score))&scoreMask<<scoreShift |
		uint64(d.BestMove)&bestMoveMask<<bestMoveShift |
		uint64(d.Bound)&boundMask<<boundShift |
		uint64(d.Depth)&depthMask<<depthShift |
		uint64(d.Selectivity)&selectivityMask<<selectivityShift |
		uint64(d.Generation)&generationMask<<generationShift
}

func unpack(v uint64) Data {
	return Data{
		Key:         uint16(v >> keyShift & keyMask),
		Score:       int16(uint16(v >> scoreShift & scoreMask)),
		BestMove:    uint8(v >> bestMoveShift & bestMoveMask),
		Bound:       Bound(v >> boundShift & boundMask),
		Depth:       uint8(v >> depthShift & depthMask),
		Selectivity: uint8(v >> selectivityShift & selectivityMask),
		Generation:  uint8(v >> generationShift & generationMask),
	}
}

// entry is one atomic cluster slot.
type entry struct {
	word atomic.Uint64
}

// Table is the clustered transposition table.
type Table struct {
	clusters     [][ClusterSize]entry
	clusterCount uint64
	generation   uint8
}

// maxTableFraction caps a requested table size to this fraction of
// total system memory, so a misconfigured TTSizeMB cannot make the
// engine swap.
const maxTableFraction = 4

// NewTable allocates a table sized for roughly mb megabytes, capped
// against available system memory (queried via
// github.com/pbnjay/memory, the way odnocam sizes its own hash tables).
func NewTable(mb int) *Table {
	if total := memory.TotalMemory(); total > 0 {
		capMB := int(total / (1024 * 1024) / maxTableFraction)
		if capMB > 0 && mb > capMB {
			mb = capMB
		}
	}

	const bytesPerCluster = ClusterSize * 8
	clusterCount := uint64(mb) * 1024 * 1024 / bytesPerCluster
	if clusterCount == 0 {
		clusterCount = 1
	}
	return &Table{
		clusters:     make([][ClusterSize]entry, clusterCount),
		clusterCount: clusterCount,
	}
}

// clusterIdx computes the cluster index as the high 64 bits of
// key * cluster_count, using bits.Mul64 as the Go
// equivalent of a 128-bit multiply-high.
func (t *Table) clusterIdx(key uint64) uint64 {
	hi, _ := bits.Mul64(key, t.clusterCount)
	return hi
}

// NewGeneration advances the replacement-policy generation counter.
// No search path in this module calls it; Search.Init resets the
// counter through Clear.
func (t *Table) NewGeneration() {
	t.generation++
}

// Clear resets every entry to unoccupied (bound == none) and resets the
// generation counter, called by Search.init().
func (t *Table) Clear() {
	for c := range t.clusters {
		for i := range t.clusters[c] {
			t.clusters[c][i].word.Store(0)
		}
	}
	t.generation = 0
}

func keyFragment(key uint64) uint16 { return uint16(key) }

// Probe looks up key, returning its data, the cluster slot index to use
// for a subsequent Store, and whether it was a hit.
func (t *Table) Probe(key uint64) (Data, int, bool) {
	idx := t.clusterIdx(key)
	cluster := &t.clusters[idx]
	frag := keyFragment(key)

	victim := 0
	victimScore := int32(1 << 30)
	for i := 0; i < ClusterSize; i++ {
		v := cluster[i].word.Load()
		d := unpack(v)
		if d.Bound != BoundNone && d.Key == frag {
			return d, i, true
		}
		relativeAge := int32(t.generation) - int32(d.Generation)
		replScore := int32(d.Depth) - relativeAge*8
		if d.Bound == BoundNone {
			replScore = -(1 << 30) // empty slots are always preferred victims
		}
		if replScore < victimScore {
			victimScore = replScore
			victim = i
		}
	}
	return Data{}, victim, false
}

// Store writes d into the given cluster slot, following a replace
// policy that writes only if the bound is exact, the key fragment
// differs, the new depth is >= the old depth, selectivity is higher,
// or the old entry is from an older generation.
func (t *Table) Store(key uint64, slot int, d Data) {
	idx := t.clusterIdx(key)
	cluster := &t.clusters[idx]
	d.Key = keyFragment(key)
	d.Generation = t.generation

	old := unpack(cluster[slot].word.Load())
	shouldWrite := d.Bound == BoundExact ||
		old.Key != d.Key ||
		d.Depth >= old.Depth ||
		d.Selectivity > old.Selectivity ||
		old.Generation != t.generation
	if shouldWrite {
		cluster[slot].word.Store(pack(d))
	}
}

// DetermineBound computes the bound byte for a completed search at a
// node: Lower if the best score met or exceeded beta, Exact at a PV
// node that stayed inside the window, Upper otherwise.
func DetermineBound(bestScore, beta int32, isPV bool) Bound {
	switch {
	case bestScore >= beta:
		return BoundLower
	case isPV:
		return BoundExact
	default:
		return BoundUpper
	}
}

// ShouldCutoff reports whether a probed entry is deep/selective enough
// and bound-compatible with the window [alpha, beta] to short-circuit
// the search at this node.
func ShouldCutoff(d Data, depth Depth, selectivity uint8, alpha, beta int32) (int32, bool) {
	if Depth(d.Depth) < depth || d.Selectivity < selectivity {
		return 0, false
	}
	score := int32(d.Score)
	switch d.Bound {
	case BoundExact:
		return score, true
	case BoundLower:
		if score >= beta {
			return score, true
		}
	case BoundUpper:
		if score <= alpha {
			return score, true
		}
	}
	return 0, false
}

// Depth is a local alias avoiding a dependency from tt -> search engines
// that only need the numeric depth type.
type Depth = int32
