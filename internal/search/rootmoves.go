// Package search implements the midgame/endgame tree search: iterative
// deepening with aspiration windows and Multi-PV at the root, PVS with
// late-move reductions at interior midgame nodes, and a specialised
// exact solver near the end of the game.
package search

import (
	"sort"
	"sync/atomic"

	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
)

// RootMove is one candidate move at the root, tracked across
// iterations for aspiration-window seeding and Multi-PV reporting.
type RootMove struct {
	Square        reversi.Square
	CurrentScore  reversi.ScaledScore
	PreviousScore reversi.ScaledScore
	AverageScore  float64
	PV            []reversi.Square
}

// RootMoves is the shared, mutable candidate list searched at the
// root. It is a standalone container distinct from MoveList: it
// persists across iterative-deepening iterations and carries
// per-move score history, whereas MoveList is regenerated fresh at
// every node.
type RootMoves struct {
	Moves []RootMove
	pvIdx atomic.Int32
}

// NewRootMoves builds a RootMoves list from every legal move available
// in the position (player, opponent).
func NewRootMoves(player, opponent uint64) *RootMoves {
	ml := reversi.GenerateMoves(player, opponent)
	rm := &RootMoves{Moves: make([]RootMove, 0, ml.Count)}
	for i := 0; i < ml.Count; i++ {
		rm.Moves = append(rm.Moves, RootMove{
			Square:        ml.Moves[i].Sq,
			CurrentScore:  -reversi.ScaledInf,
			PreviousScore: -reversi.ScaledInf,
		})
	}
	return rm
}

// PVIndex returns the current Multi-PV walk position.
func (r *RootMoves) PVIndex() int { return int(r.pvIdx.Load()) }

// SetPVIndex sets the current Multi-PV walk position.
func (r *RootMoves) SetPVIndex(i int) { r.pvIdx.Store(int32(i)) }

// Find returns the index of the root move for sq, or -1.
func (r *RootMoves) Find(sq reversi.Square) int {
	for i := range r.Moves {
		if r.Moves[i].Square == sq {
			return i
		}
	}
	return -1
}

// BeginIteration copies CurrentScore into PreviousScore for every move,
// ahead of a new iterative-deepening depth.
func (r *RootMoves) BeginIteration() {
	for i := range r.Moves {
		r.Moves[i].PreviousScore = r.Moves[i].CurrentScore
	}
}

// SortFrom stable-sorts moves at indices [from:] by descending
// CurrentScore.
func (r *RootMoves) SortFrom(from int) {
	tail := r.Moves[from:]
	sort.SliceStable(tail, func(i, j int) bool {
		return tail[i].CurrentScore > tail[j].CurrentScore
	})
}

// Best returns the move at index 0, the current best line.
func (r *RootMoves) Best() RootMove {
	if len(r.Moves) == 0 {
		return RootMove{Square: reversi.None}
	}
	return r.Moves[0]
}
