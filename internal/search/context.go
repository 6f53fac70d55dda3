package search

import (
	"sync/atomic"

	"github.com/natsutteatsuiyone/neural-reversi/internal/eval"
	"github.com/natsutteatsuiyone/neural-reversi/internal/probcut"
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
	"github.com/natsutteatsuiyone/neural-reversi/internal/tt"
)

// MaxPly mirrors the pattern-feature table's ply horizon.
const MaxPly = eval.MaxPly

// EvalMode selects between neural-network evaluation (midgame) and
// exact disc-difference evaluation (endgame).
type EvalMode uint8

const (
	EvalMidgame EvalMode = iota
	EvalEndgame
)

// SearchContext is the per-thread scratchpad threaded through every
// recursive call: node counter, selectivity, the empty-list
// walker, the shared transposition table handle, the shared root-move
// list, the evaluator, incremental pattern features, a per-ply PV
// stack, and the current evaluation mode.
type SearchContext struct {
	Nodes       uint64
	Selectivity probcut.Selectivity
	Mode        EvalMode

	Empties *reversi.EmptyList
	TT      *tt.Table
	Root    *RootMoves
	Net     *eval.Network
	Feats   *eval.FeatureSet
	ProbCut *probcut.Table

	// EndgameProbCut holds the endgame-specific regression parameters,
	// keyed by (plyBucket, shallow, n_empties) rather than by search
	// depth: the exact solver's "depth" axis is the empty-square count.
	EndgameProbCut *probcut.Table

	pvStack [MaxPly + 1][]reversi.Square

	abort *atomic.Bool
}

// NewSearchContext builds a fresh per-thread context against the given
// board and shared resources, ready to run an iterative-deepening
// search from the root. probCut and endgameProbCut may be nil, which
// disables ProbCut pruning for that phase of the search.
func NewSearchContext(b reversi.Board, table *tt.Table, net *eval.Network, root *RootMoves, probCut, endgameProbCut *probcut.Table) *SearchContext {
	return &SearchContext{
		Empties:        reversi.NewEmptyList(b.EmptySquares()),
		TT:             table,
		Root:           root,
		Net:            net,
		Feats:          eval.NewFeatureSet(b, 0),
		ProbCut:        probCut,
		EndgameProbCut: endgameProbCut,
		abort:          &atomic.Bool{},
	}
}

// Abort requests cooperative cancellation; checked between moves by
// every recursive call.
func (ctx *SearchContext) Abort() { ctx.abort.Store(true) }

// Aborted reports whether cancellation has been requested.
func (ctx *SearchContext) Aborted() bool { return ctx.abort.Load() }

// SetPV records the principal variation found at ply (the move played
// at ply followed by the continuation reported by the child call).
func (ctx *SearchContext) SetPV(ply int, sq reversi.Square, childPV []reversi.Square) {
	pv := make([]reversi.Square, 0, len(childPV)+1)
	pv = append(pv, sq)
	pv = append(pv, childPV...)
	ctx.pvStack[ply] = pv
}

// PV returns the principal variation recorded at ply.
func (ctx *SearchContext) PV(ply int) []reversi.Square { return ctx.pvStack[ply] }
