package search

import (
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
)

// evaluateLeaf scores a position with no further search: exact
// disc-difference in endgame mode, NNUE evaluation otherwise.
func (ctx *SearchContext) evaluateLeaf(b reversi.Board, ply int) reversi.ScaledScore {
	if ctx.Mode == EvalEndgame {
		return reversi.FromDiscDiff(b.Score())
	}
	return ctx.Net.Evaluate(b, ctx.Feats, clampPly(ply))
}

func clampPly(ply int) int {
	if ply >= MaxPly {
		return MaxPly - 1
	}
	return ply
}

// EvaluateDepth0 returns the static evaluation of b with no search,
// after handling the forced-pass/terminal cases that a 0-ply call
// must still resolve.
func (ctx *SearchContext) EvaluateDepth0(b reversi.Board, ply int) reversi.ScaledScore {
	if b.HasLegalMoves() {
		return ctx.evaluateLeaf(b, ply)
	}
	switched := b.SwitchPlayers()
	if switched.HasLegalMoves() {
		return -ctx.evaluateLeaf(switched, ply)
	}
	return reversi.FromDiscDiff(b.Score())
}

// EvaluateDepth1 exhaustively tries every legal move and returns the
// negamax value one ply deep, falling back to EvaluateDepth0 through a
// pass when there is no legal move. A move that flips every opposing
// disc wins immediately, without searching the remaining candidates.
func (ctx *SearchContext) EvaluateDepth1(b reversi.Board, ply int) reversi.ScaledScore {
	moves := reversi.GenerateMoves(b.Player, b.Opponent)
	if moves.Count == 0 {
		switched := b.SwitchPlayers()
		if !switched.HasLegalMoves() {
			return reversi.FromDiscDiff(b.Score())
		}
		return -ctx.EvaluateDepth1(switched, ply)
	}
	if moves.HasWipeout {
		return reversi.ScaledMax
	}

	best := -reversi.ScaledInf
	for i := 0; i < moves.Count; i++ {
		mv := &moves.Moves[i]
		child := b.MakeMove(mv.Sq, mv.Flipped)
		score := -ctx.EvaluateDepth0(child, ply+1)
		if score > best {
			best = score
		}
	}
	return best
}

// EvaluateDepth2 is the two-ply counterpart of EvaluateDepth1.
func (ctx *SearchContext) EvaluateDepth2(b reversi.Board, ply int) reversi.ScaledScore {
	moves := reversi.GenerateMoves(b.Player, b.Opponent)
	if moves.Count == 0 {
		switched := b.SwitchPlayers()
		if !switched.HasLegalMoves() {
			return reversi.FromDiscDiff(b.Score())
		}
		return -ctx.EvaluateDepth2(switched, ply)
	}
	if moves.HasWipeout {
		return reversi.ScaledMax
	}

	best := -reversi.ScaledInf
	for i := 0; i < moves.Count; i++ {
		mv := &moves.Moves[i]
		child := b.MakeMove(mv.Sq, mv.Flipped)
		score := -ctx.EvaluateDepth1(child, ply+1)
		if score > best {
			best = score
		}
	}
	return best
}

// ShallowSearch dispatches to the specialised depth-0/1/2 kernels, or
// to a plain negamax probe at depth 3 and deeper. Negamax's move
// ordering does not call it; it orders moves with EvaluateCheap.
func (ctx *SearchContext) ShallowSearch(b reversi.Board, ply, depth int) reversi.ScaledScore {
	switch {
	case depth <= 0:
		return ctx.EvaluateDepth0(b, ply)
	case depth == 1:
		return ctx.EvaluateDepth1(b, ply)
	case depth == 2:
		return ctx.EvaluateDepth2(b, ply)
	default:
		return ctx.negamaxProbe(b, ply, depth, -reversi.ScaledInf, reversi.ScaledInf)
	}
}

// negamaxProbe is a small plain alpha-beta search (no TT, no
// ordering beyond generation order), reached only through
// ShallowSearch at depth 3 and deeper.
func (ctx *SearchContext) negamaxProbe(b reversi.Board, ply, depth int, alpha, beta reversi.ScaledScore) reversi.ScaledScore {
	if depth <= 2 {
		return ctx.ShallowSearch(b, ply, depth)
	}
	moves := reversi.GenerateMoves(b.Player, b.Opponent)
	if moves.Count == 0 {
		switched := b.SwitchPlayers()
		if !switched.HasLegalMoves() {
			return reversi.FromDiscDiff(b.Score())
		}
		return -ctx.negamaxProbe(switched, ply, depth, -beta, -alpha)
	}
	if moves.HasWipeout {
		return reversi.ScaledMax
	}

	best := -reversi.ScaledInf
	for i := 0; i < moves.Count; i++ {
		mv := &moves.Moves[i]
		child := b.MakeMove(mv.Sq, mv.Flipped)
		score := -ctx.negamaxProbe(child, ply+1, depth-1, -beta, -alpha)
		if score > best {
			best = score
			if best > alpha {
				alpha = best
			}
		}
		if alpha >= beta {
			break
		}
	}
	return best
}
