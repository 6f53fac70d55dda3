package reversi

import (
	"sort"
	"sync/atomic"
)

// MaxMoves bounds the number of simultaneous legal moves ever possible
// in Reversi.
const MaxMoves = 34

// Sentinel sort-value constants.
const (
	WipeoutValue = 1 << 30
	TTMoveValue  = 1 << 20
)

// Move is a candidate move: the square played, the flip mask it
// produces, its current sort value, and a precomputed LMR reduction
// depth.
type Move struct {
	Sq       Square
	Flipped  uint64
	Value    int64
	Reduction Depth
}

// IsWipeout reports whether this move flips every opponent disc.
func (m Move) IsWipeout(opponent uint64) bool { return m.Flipped == opponent }

// MoveList is a bounded, unsorted-until-asked buffer of legal moves for
// one position, along with a cached wipeout shortcut.
type MoveList struct {
	Moves       [MaxMoves]Move
	Count       int
	WipeoutSq   Square
	HasWipeout  bool
}

// GenerateMoves fills a MoveList with every legal move for (player,
// opponent), computing each move's flip mask eagerly.
func GenerateMoves(player, opponent uint64) *MoveList {
	ml := &MoveList{WipeoutSq: None}
	moves := GetMoves(player, opponent)
	it := NewBitboardIterator(moves)
	for {
		sq, ok := it.Next()
		if !ok {
			break
		}
		flipped := Flip(sq, player, opponent)
		ml.Moves[ml.Count] = Move{Sq: sq, Flipped: flipped}
		if flipped == opponent {
			ml.HasWipeout = true
			ml.WipeoutSq = sq
		}
		ml.Count++
	}
	return ml
}

// SortStable stable-sorts the first Count moves by descending Value.
func (ml *MoveList) SortStable() {
	sort.SliceStable(ml.Moves[:ml.Count], func(i, j int) bool {
		return ml.Moves[i].Value > ml.Moves[j].Value
	})
}

// Find returns a pointer to the move playing sq, or nil.
func (ml *MoveList) Find(sq Square) *Move {
	for i := 0; i < ml.Count; i++ {
		if ml.Moves[i].Sq == sq {
			return &ml.Moves[i]
		}
	}
	return nil
}

// MarkTTMove boosts the sort value of the transposition-table-recommended
// move so it is searched first.
func (ml *MoveList) MarkTTMove(sq Square) {
	if m := ml.Find(sq); m != nil {
		m.Value = TTMoveValue
	}
}

// EvaluateCheap assigns each move's Value using the cheap heuristic:
// corner stability of the resulting opponent position plus a mobility
// term on the child's legal moves. Moves already
// marked as a wipeout or TT move keep their sentinel value.
func (ml *MoveList) EvaluateCheap(player, opponent uint64) {
	const cornerStabilityWeight = 1 << 11
	const mobilityWeight = 1 << 14
	for i := 0; i < ml.Count; i++ {
		m := &ml.Moves[i]
		if m.Value == WipeoutValue || m.Value == TTMoveValue {
			continue
		}
		next := Board{Player: player, Opponent: opponent}.MakeMove(m.Sq, m.Flipped)
		mobility := CornerWeightedMobility(next.GetMoves())
		m.Value = int64(CornerStability(next.Opponent)*cornerStabilityWeight) +
			int64((36-mobility)*mobilityWeight)
		if m.IsWipeout(opponent) {
			m.Value = WipeoutValue
		}
	}
}

// minDepthForDeepEval is the per-empty-count threshold below which the
// cheap heuristic is replaced by a shallow recursive evaluation. Values mirror the shape described for MIN_DEPTH in the
// original engine: deep sort evaluation only kicks in once few enough
// empties remain that a shallow search is affordable, and never at the
// very start or very end of the game.
var minDepthForDeepEval = buildMinDepthTable()

func buildMinDepthTable() [64]Depth {
	var t [64]Depth
	for n := 0; n < 64; n++ {
		switch {
		case n > 27:
			t[n] = 99 // too many empties: stick to the cheap heuristic
		case n > 18:
			t[n] = 12
		case n > 12:
			t[n] = 8
		default:
			t[n] = 5
		}
	}
	return t
}

// NeedsDeepEval reports whether, at the given remaining empty count and
// search depth, move ordering should fall back to a shallow recursive
// evaluation rather than the cheap heuristic.
func NeedsDeepEval(depth Depth, emptyCount int) bool {
	if emptyCount < 0 || emptyCount > 63 {
		return false
	}
	return depth >= minDepthForDeepEval[emptyCount]
}

// ConcurrentMoveIterator wraps a sorted MoveList with an atomic
// fetch-add cursor so multiple search threads can pull moves from the
// same split point without a lock.
type ConcurrentMoveIterator struct {
	list   *MoveList
	cursor atomic.Int32
}

// NewConcurrentMoveIterator creates an iterator over ml.
func NewConcurrentMoveIterator(ml *MoveList) *ConcurrentMoveIterator {
	return &ConcurrentMoveIterator{list: ml}
}

// Next returns the next move and its 1-based move number, or
// (nil, 0, false) once exhausted.
func (it *ConcurrentMoveIterator) Next() (*Move, int, bool) {
	idx := int(it.cursor.Add(1)) - 1
	if idx >= it.list.Count {
		return nil, 0, false
	}
	return &it.list.Moves[idx], idx + 1, true
}

// BestFirstMoveIterator performs a lazy partial selection sort over an
// index permutation, yielding the highest-value remaining move on each
// call without mutating the underlying MoveList — useful when a single
// thread wants best-first order without paying for a full sort upfront.
type BestFirstMoveIterator struct {
	list  *MoveList
	perm  [MaxMoves]int
	taken int
}

// NewBestFirstMoveIterator creates an iterator over ml.
func NewBestFirstMoveIterator(ml *MoveList) *BestFirstMoveIterator {
	bf := &BestFirstMoveIterator{list: ml}
	for i := 0; i < ml.Count; i++ {
		bf.perm[i] = i
	}
	return bf
}

// Next returns the next-best move, or (nil, false) once exhausted.
func (bf *BestFirstMoveIterator) Next() (*Move, bool) {
	if bf.taken >= bf.list.Count {
		return nil, false
	}
	best := bf.taken
	for i := bf.taken + 1; i < bf.list.Count; i++ {
		if bf.list.Moves[bf.perm[i]].Value > bf.list.Moves[bf.perm[best]].Value {
			best = i
		}
	}
	bf.perm[bf.taken], bf.perm[best] = bf.perm[best], bf.perm[bf.taken]
	m := &bf.list.Moves[bf.perm[bf.taken]]
	bf.taken++
	return m, true
}
