package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natsutteatsuiyone/neural-reversi/internal/eval"
	"github.com/natsutteatsuiyone/neural-reversi/internal/probcut"
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
	"github.com/natsutteatsuiyone/neural-reversi/internal/tt"
)

func newTestContext(b reversi.Board) *SearchContext {
	table := tt.NewTable(1)
	net := &eval.Network{}
	root := NewRootMoves(b.Player, b.Opponent)
	return NewSearchContext(b, table, net, root, nil, nil)
}

func TestNegamaxTerminalScore(t *testing.T) {
	b := reversi.Board{Player: 0x5555555555555555, Opponent: ^uint64(0x5555555555555555)}
	ctx := newTestContext(b)
	score := ctx.Negamax(b, 4, 0, -reversi.ScaledInf, reversi.ScaledInf, true)
	assert.Equal(t, reversi.FromDiscDiff(b.Score()), score)
}

func TestNegamaxWithinBounds(t *testing.T) {
	b := reversi.NewGame()
	ctx := newTestContext(b)
	score := ctx.Negamax(b, 4, 0, -reversi.ScaledInf, reversi.ScaledInf, true)
	assert.GreaterOrEqual(t, score, reversi.ScaledMin)
	assert.LessOrEqual(t, score, reversi.ScaledMax)
}

// wipeoutFixture builds a sparse position where the mover's only legal
// move, at A1, brackets and flips the opponent's entire disc set (B1,
// C1, D1) against the mover's own disc at E1.
func wipeoutFixture() reversi.Board {
	opponent := reversi.B1.Bitboard() | reversi.C1.Bitboard() | reversi.D1.Bitboard()
	player := reversi.E1.Bitboard()
	return reversi.Board{Player: player, Opponent: opponent}
}

func TestNegamaxWipeoutShortcut(t *testing.T) {
	b := wipeoutFixture()
	ctx := newTestContext(b)
	ml := reversi.GenerateMoves(b.Player, b.Opponent)
	require.True(t, ml.HasWipeout, "fixture must offer a wipeout move")

	score := ctx.Negamax(b, 6, 0, -reversi.ScaledInf, reversi.ScaledInf, true)
	assert.Equal(t, reversi.ScaledMax, score)
}

func TestEvaluateDepth1And2WipeoutShortcut(t *testing.T) {
	b := wipeoutFixture()
	ctx := newTestContext(b)

	assert.Equal(t, reversi.ScaledMax, ctx.EvaluateDepth1(b, 0))
	assert.Equal(t, reversi.ScaledMax, ctx.EvaluateDepth2(b, 0))
}

func TestEndgameSearchFullBoard(t *testing.T) {
	b := reversi.Board{Player: 0x5555555555555555, Opponent: ^uint64(0x5555555555555555)}
	ctx := newTestContext(b)
	ctx.Mode = EvalEndgame
	score := ctx.EndgameSearch(b, 0, 0, -reversi.ScaledInf, reversi.ScaledInf)
	assert.Equal(t, reversi.FromDiscDiff(b.Score()), score)
}

func TestEndgameLastMove(t *testing.T) {
	// All squares filled except H8; player to move can legally take it
	// by flipping G8.
	full := uint64(0xFFFFFFFFFFFFFFFF) &^ reversi.H8.Bitboard()
	p := full & ^reversi.G8.Bitboard()
	o := reversi.G8.Bitboard()
	b := reversi.Board{Player: p, Opponent: o}
	ctx := newTestContext(b)
	score := ctx.endgameLastMove(b)
	assert.GreaterOrEqual(t, score, reversi.ScoreMin)
	assert.LessOrEqual(t, score, reversi.ScoreMax)
}

func TestRootMovesBeginIterationAndSort(t *testing.T) {
	b := reversi.NewGame()
	rm := NewRootMoves(b.Player, b.Opponent)
	require.Greater(t, len(rm.Moves), 0)

	rm.Moves[0].CurrentScore = 5
	rm.Moves[1].CurrentScore = 10
	rm.BeginIteration()
	assert.EqualValues(t, 5, rm.Moves[0].PreviousScore)

	rm.SortFrom(0)
	assert.GreaterOrEqual(t, rm.Moves[0].CurrentScore, rm.Moves[1].CurrentScore)
}

func TestLMRReductionGrowsWithDepthAndIndex(t *testing.T) {
	assert.Equal(t, 0, lmrReduction(0, 5))
	assert.GreaterOrEqual(t, lmrReduction(20, 20), lmrReduction(20, 2))
}

func TestShallowSearchDispatch(t *testing.T) {
	b := reversi.NewGame()
	ctx := newTestContext(b)
	for depth := 0; depth <= 3; depth++ {
		score := ctx.ShallowSearch(b, 0, depth)
		assert.GreaterOrEqual(t, score, reversi.ScaledMin)
		assert.LessOrEqual(t, score, reversi.ScaledMax)
	}
}

// TestProbCutWiredThroughNegamax confirms that a non-nil ProbCut table
// reaches probCutAttempt during an ordinary Negamax call: previously
// SearchContext.ProbCut was never assigned by any constructor path, so
// this branch was dead code regardless of table contents.
func TestProbCutWiredThroughNegamax(t *testing.T) {
	b := reversi.NewGame()
	table := tt.NewTable(1)
	net := &eval.Network{}
	root := NewRootMoves(b.Player, b.Opponent)

	pc := probcut.NewTable()
	for d := 0; d <= ProbCutDepthThreshold+2; d++ {
		pc.Set(plyBucket(0), probcut.ShallowDepth(d), d, probcut.Params{Mu: 0, Sigma: 0})
		pc.Set(plyBucket(1), probcut.ShallowDepth(d), d, probcut.Params{Mu: 0, Sigma: 0})
	}

	ctx := NewSearchContext(b, table, net, root, pc, nil)
	ctx.Selectivity = 3

	score := ctx.Negamax(b, ProbCutDepthThreshold+1, 0, -reversi.ScaledInf, reversi.ScaledInf, true)
	assert.GreaterOrEqual(t, score, reversi.ScaledMin)
	assert.LessOrEqual(t, score, reversi.ScaledMax)
}

func TestProbCutAttemptCutsOffOnZeroNetwork(t *testing.T) {
	b := reversi.NewGame()
	ctx := newTestContext(b)
	ctx.ProbCut = probcut.NewTable()
	ctx.ProbCut.Set(plyBucket(0), probcut.ShallowDepth(6), 6, probcut.Params{Mu: 0, Sigma: 0})
	ctx.Selectivity = 2

	// beta = 0 forces beta' = beta (mu=sigma=0); the zero-value network
	// evaluates every position to 0, so the shallow probe meets beta'.
	score, ok := ctx.probCutAttempt(b, 6, 0, -reversi.ScaledInf, 0)
	assert.True(t, ok)
	assert.LessOrEqual(t, score, reversi.ScaledScore(0))
}

func TestEndgameProbCutWiredThroughEndgameSearch(t *testing.T) {
	// 27 discs each for player/opponent, leaving exactly 10 empty
	// squares; the ProbCut gate only needs a valid non-overlapping
	// board and a matching empty count, not a reachable position.
	const playerBits = 27
	player := uint64(1)<<playerBits - 1
	opponent := (uint64(1)<<playerBits - 1) << playerBits
	b := reversi.Board{Player: player, Opponent: opponent}

	ctx := newTestContext(b)
	ctx.Mode = EvalEndgame
	ctx.EndgameProbCut = probcut.NewTable()
	nEmpties := b.EmptyCount()
	require.GreaterOrEqual(t, nEmpties, EndgameProbCutThreshold)
	for p := 0; p < 2; p++ {
		ctx.EndgameProbCut.Set(plyBucket(p), 0, nEmpties, probcut.Params{Mu: 0, Sigma: 0})
	}
	ctx.Selectivity = 2

	score := ctx.EndgameSearch(b, nEmpties, 0, -reversi.ScaledInf, reversi.ScaledInf)
	assert.GreaterOrEqual(t, score, reversi.ScaledMin)
	assert.LessOrEqual(t, score, reversi.ScaledMax)
}
