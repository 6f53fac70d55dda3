package search

import (
	"math"

	"github.com/natsutteatsuiyone/neural-reversi/internal/probcut"
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
	"github.com/natsutteatsuiyone/neural-reversi/internal/stability"
	"github.com/natsutteatsuiyone/neural-reversi/internal/tt"
)

// ProbCutDepthThreshold is the minimum remaining depth at which a node
// attempts a ProbCut shallow-search prediction before the full move
// loop.
const ProbCutDepthThreshold = 5

// plyBucket groups ply into the buckets the regression table was
// fitted over.
func plyBucket(ply int) int { return ply / 10 }

// EndgameDepthThreshold is the empty-square count at or below which
// the searcher switches from NNUE midgame search to the exact endgame
// solver.
const EndgameDepthThreshold = 13

// SplitThreshold is a minimum remaining depth for publishing split
// points to idle workers. Nothing in this module reads it: the worker
// pool does not use split points.
const SplitThreshold = 6

// lmrTable precomputes late-move reduction amounts from remaining
// depth and move index using a Stockfish-derived logarithmic formula.
var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			lmrTable[d][m] = int(0.4 + math.Log(float64(d))*math.Log(float64(m))*0.5)
		}
	}
}

func lmrReduction(depth, moveIndex int) int {
	if depth <= 0 || moveIndex <= 0 || depth >= 64 || moveIndex >= 64 {
		return 0
	}
	return lmrTable[depth][moveIndex]
}

// Negamax runs the midgame alpha-beta search at one node, applying
// PVS, LMR, transposition-table probing, and stability cutoffs. A move
// that flips every opposing disc wins immediately: the position is
// scored at the maximum without searching the remaining candidates.
func (ctx *SearchContext) Negamax(b reversi.Board, depth int, ply int, alpha, beta reversi.ScaledScore, isPV bool) reversi.ScaledScore {
	if ctx.Aborted() {
		return 0
	}
	ctx.Nodes++

	if !b.HasLegalMoves() {
		switched := b.SwitchPlayers()
		if !switched.HasLegalMoves() {
			return reversi.FromDiscDiff(b.Score())
		}
		return -ctx.Negamax(switched, depth, ply, -beta, -alpha, isPV)
	}

	nEmpties := b.EmptyCount()
	if ctx.Mode == EvalMidgame && nEmpties <= EndgameDepthThreshold {
		ctx.Mode = EvalEndgame
		score := ctx.EndgameSearch(b, nEmpties, ply, alpha, beta)
		ctx.Mode = EvalMidgame
		return score
	}

	if depth <= 0 {
		return ctx.EvaluateDepth0(b, ply)
	}

	if !isPV {
		if score, ok := stability.Cutoff(b, nEmpties, alpha.ToDiscDiff()); ok {
			return reversi.FromDiscDiff(score)
		}
	}

	if !isPV && ctx.ProbCut != nil && ctx.Selectivity != probcut.NoSelectivity && depth >= ProbCutDepthThreshold {
		if cut, ok := ctx.probCutAttempt(b, depth, ply, alpha, beta); ok {
			return cut
		}
	}

	hash := b.Hash()
	ttData, slot, hit := ctx.TT.Probe(hash)
	ttMove := reversi.None
	if hit {
		ttMove = reversi.Square(ttData.BestMove)
		if score, ok := tt.ShouldCutoff(ttData, int32(depth), uint8(ctx.Selectivity), int32(alpha), int32(beta)); ok && !isPV {
			return reversi.ScaledScore(score)
		}
	}

	moves := reversi.GenerateMoves(b.Player, b.Opponent)
	if moves.HasWipeout {
		return reversi.ScaledMax
	}
	if ttMove != reversi.None {
		moves.MarkTTMove(ttMove)
	}
	if depth >= 3 {
		moves.EvaluateCheap(b.Player, b.Opponent)
	}
	moves.SortStable()

	origAlpha := alpha
	best := -reversi.ScaledInf
	var bestMove reversi.Square = reversi.None

	for i := 0; i < moves.Count; i++ {
		if ctx.Aborted() {
			return 0
		}
		mv := &moves.Moves[i]
		child := b.MakeMove(mv.Sq, mv.Flipped)

		reduction := 0
		if i >= 3 && depth >= 3 {
			reduction = lmrReduction(depth, i)
		}

		var score reversi.ScaledScore
		if i == 0 {
			score = -ctx.Negamax(child, depth-1, ply+1, -beta, -alpha, isPV)
		} else {
			score = -ctx.Negamax(child, depth-1-reduction, ply+1, -alpha-1, -alpha, false)
			if score > alpha && reduction > 0 {
				score = -ctx.Negamax(child, depth-1, ply+1, -alpha-1, -alpha, false)
			}
			if score > alpha && score < beta {
				score = -ctx.Negamax(child, depth-1, ply+1, -beta, -alpha, true)
			}
		}

		if score > best {
			best = score
			bestMove = mv.Sq
			if isPV {
				ctx.SetPV(ply, mv.Sq, ctx.PV(ply+1))
			}
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	bound := tt.DetermineBound(int32(best), int32(beta), best > origAlpha && best < beta)
	ctx.TT.Store(hash, slot, tt.Data{
		Score:       int16(best),
		BestMove:    uint8(bestMove),
		Bound:       bound,
		Depth:       uint8(depth),
		Selectivity: uint8(ctx.Selectivity),
	})

	return best
}

// probCutAttempt runs a shallow-search prediction: a null-window probe
// at the reduced depth d' decides whether the full search at depth
// would very likely fail high, without running it.
func (ctx *SearchContext) probCutAttempt(b reversi.Board, depth, ply int, alpha, beta reversi.ScaledScore) (reversi.ScaledScore, bool) {
	shallow := probcut.ShallowDepth(depth)
	params, ok := ctx.ProbCut.Lookup(plyBucket(ply), shallow, depth)
	if !ok {
		return 0, false
	}

	betaPrime := reversi.ScaledScore(probcut.BetaBound(float64(beta), ctx.Selectivity, params))
	if betaPrime >= reversi.ScaledInf {
		return 0, false
	}

	score := ctx.Negamax(b, shallow, ply, betaPrime-1, betaPrime, false)
	if score >= betaPrime {
		predicted := reversi.ScaledScore(probcut.PredictedDeepBound(float64(beta), float64(betaPrime)))
		if predicted < alpha {
			predicted = alpha
		}
		return predicted, true
	}
	return 0, false
}
