package search

import (
	"math/bits"

	"github.com/natsutteatsuiyone/neural-reversi/internal/probcut"
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
	"github.com/natsutteatsuiyone/neural-reversi/internal/stability"
	"github.com/natsutteatsuiyone/neural-reversi/internal/tt"
)

// EndgameProbCutThreshold is the minimum number of remaining empties at
// which the endgame solver attempts a ProbCut shallow-search prediction
// before the full move loop.
const EndgameProbCutThreshold = 10

// EndgameSearch is the specialised exact solver used once few enough
// empty squares remain: no NNUE evaluation outside the ProbCut probe
// in endgameProbCutAttempt, moves ordered by the
// presorted empty-square walk biased toward odd-parity quadrants, and
// the same stability cutoff and transposition table as the midgame
// search.
func (ctx *SearchContext) EndgameSearch(b reversi.Board, nEmpties, ply int, alpha, beta reversi.ScaledScore) reversi.ScaledScore {
	if ctx.Aborted() {
		return 0
	}
	ctx.Nodes++

	if nEmpties == 0 {
		return reversi.FromDiscDiff(b.Score())
	}
	if nEmpties == 1 {
		return reversi.FromDiscDiff(ctx.endgameLastMove(b))
	}

	if score, ok := stability.Cutoff(b, nEmpties, alpha.ToDiscDiff()); ok {
		return reversi.FromDiscDiff(score)
	}

	if ctx.EndgameProbCut != nil && ctx.Selectivity != probcut.NoSelectivity && nEmpties >= EndgameProbCutThreshold {
		if cut, ok := ctx.endgameProbCutAttempt(b, nEmpties, ply, alpha, beta); ok {
			return cut
		}
	}

	hash := b.Hash()
	ttData, slot, hit := ctx.TT.Probe(hash)
	ttMove := reversi.None
	if hit {
		ttMove = reversi.Square(ttData.BestMove)
		if score, ok := tt.ShouldCutoff(ttData, int32(nEmpties), 0, int32(alpha), int32(beta)); ok {
			return reversi.ScaledScore(score)
		}
	}

	type candidate struct {
		sq      reversi.Square
		flipped uint64
		parity  uint8
	}
	var candidates []candidate
	for sq, ok := ctx.Empties.Front(); ok; sq, ok = ctx.Empties.NextAfter(sq) {
		flipped := b.Flip(sq)
		if flipped == 0 {
			continue
		}
		candidates = append(candidates, candidate{sq, flipped, ctx.Empties.QuadrantOf(sq)})
	}

	if len(candidates) == 0 {
		switched := b.SwitchPlayers()
		if !switched.HasLegalMoves() {
			return reversi.FromDiscDiff(b.Score())
		}
		return -ctx.EndgameSearch(switched, nEmpties, ply, -beta, -alpha)
	}

	// Parity ordering: prefer moves in quadrants with odd parity
	// relative to the running XOR.
	oddFirst := make([]candidate, 0, len(candidates))
	evenAfter := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if popcount1(ctx.Empties.Parity&c.parity)%2 == 1 {
			oddFirst = append(oddFirst, c)
		} else {
			evenAfter = append(evenAfter, c)
		}
	}
	ordered := append(oddFirst, evenAfter...)
	if ttMove != reversi.None {
		for i, c := range ordered {
			if c.sq == ttMove {
				ordered[0], ordered[i] = ordered[i], ordered[0]
				break
			}
		}
	}

	origAlpha := alpha
	best := -reversi.ScaledInf
	var bestMove reversi.Square = reversi.None

	for _, c := range ordered {
		if ctx.Aborted() {
			return 0
		}
		child := b.MakeMove(c.sq, c.flipped)
		ctx.Empties.Remove(c.sq)
		score := -ctx.EndgameSearch(child, nEmpties-1, ply+1, -beta, -alpha)
		ctx.Empties.Restore(c.sq)

		if score > best {
			best = score
			bestMove = c.sq
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
		Score:    int16(best),
		BestMove: uint8(bestMove),
		Bound:    bound,
		Depth:    uint8(nEmpties),
	})

	return best
}

// endgameProbCutAttempt mirrors probCutAttempt for the exact solver:
// the regression table is keyed by the remaining empty-square count
// rather than by search depth, since the solver has no depth axis of
// its own. Every node the exact solver visits already has few enough
// empties to stay in endgame mode (EndgameSearch only ever recurses
// into itself), so a dynamic shallow re-search would just re-enter the
// exact solver instead of standing in for one; the shallow probe is
// therefore the static NNUE evaluation, depth 0 being the natural
// floor of probcut.ShallowDepth as n_empties shrinks toward the
// solver's own horizon.
func (ctx *SearchContext) endgameProbCutAttempt(b reversi.Board, nEmpties, ply int, alpha, beta reversi.ScaledScore) (reversi.ScaledScore, bool) {
	params, ok := ctx.EndgameProbCut.Lookup(plyBucket(ply), 0, nEmpties)
	if !ok {
		return 0, false
	}

	betaPrime := reversi.ScaledScore(probcut.BetaBound(float64(beta), ctx.Selectivity, params))
	if betaPrime >= reversi.ScaledInf {
		return 0, false
	}

	prevMode := ctx.Mode
	ctx.Mode = EvalMidgame
	score := ctx.evaluateLeaf(b, ply)
	ctx.Mode = prevMode
	if score >= betaPrime {
		predicted := reversi.ScaledScore(probcut.PredictedDeepBound(float64(beta), float64(betaPrime)))
		if predicted < alpha {
			predicted = alpha
		}
		return predicted, true
	}
	return 0, false
}

func popcount1(x uint8) int {
	n := 0
	for x != 0 {
		n += int(x & 1)
		x >>= 1
	}
	return n
}

// endgameLastMove directly computes the exact score when exactly one
// empty square remains, skipping move-list generation entirely.
func (ctx *SearchContext) endgameLastMove(b reversi.Board) reversi.Score {
	empties := b.EmptySquares()
	sq := reversi.Square(leastSignificantBit(empties))
	flipped := b.Flip(sq)
	if flipped != 0 {
		child := b.MakeMove(sq, flipped)
		return child.Score()
	}
	switched := b.SwitchPlayers()
	flipped = switched.Flip(sq)
	if flipped != 0 {
		child := switched.MakeMove(sq, flipped)
		return -child.Score()
	}
	return b.Score()
}

func leastSignificantBit(x uint64) int {
	return bits.TrailingZeros64(x)
}
