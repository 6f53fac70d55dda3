package engine

import (
	"context"

	"github.com/natsutteatsuiyone/neural-reversi/internal/eval"
	"github.com/natsutteatsuiyone/neural-reversi/internal/probcut"
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversierr"
	"github.com/natsutteatsuiyone/neural-reversi/internal/search"
	"github.com/natsutteatsuiyone/neural-reversi/internal/tt"
	"github.com/natsutteatsuiyone/neural-reversi/internal/xlog"
)

// Level configures the search's aimed-for depth at each phase.
type Level struct {
	MidDepth     int
	EndDepth     int
	PerfectDepth int
}

// SearchOptions configures a Search's static resources. ProbCut and
// EndgameProbCut may be left nil, which disables ProbCut pruning for
// that phase of the search.
type SearchOptions struct {
	TTSizeMB       int
	Threads        int
	Weights        *eval.Network
	ProbCut        *probcut.Table
	EndgameProbCut *probcut.Table
}

// SearchRunOptions configures one call to Search.Run.
type SearchRunOptions struct {
	Level       Level
	Selectivity probcut.Selectivity
	TimeControl *TimeControl
	MultiPV     int
	Progress    func(SearchProgress)
}

// SearchProgress is reported through SearchRunOptions.Progress as each
// iteration completes.
type SearchProgress struct {
	Depth       int
	TargetDepth int
	Score       reversi.Score
	BestMove    reversi.Square
	Nodes       uint64
	PVLine      []reversi.Square
	Phase       search.EvalMode
}

// SearchResult is the value returned by Search.Run.
type SearchResult struct {
	BestMove    reversi.Square
	Score       reversi.Score
	Depth       int
	Selectivity probcut.Selectivity
	Nodes       uint64
	PVLine      []reversi.Square
}

// Search is the top-level engine handle: owns the transposition table,
// the evaluator weights, and a worker pool, and drives root iterative
// deepening with aspiration windows and Multi-PV.
type Search struct {
	opts SearchOptions
	tt   *tt.Table
	pool *ThreadPool
}

// New constructs a Search, allocating the transposition table per
// opts.TTSizeMB.
func New(opts SearchOptions) (*Search, error) {
	if opts.Weights == nil {
		return nil, reversierr.ErrWeightsLoad
	}
	table := tt.NewTable(opts.TTSizeMB)
	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}
	return &Search{
		opts: opts,
		tt:   table,
		pool: NewThreadPool(threads, table, opts.Weights, opts.ProbCut, opts.EndgameProbCut),
	}, nil
}

// Init clears the transposition table and resets its generation to 0.
func (s *Search) Init() {
	s.tt.Clear()
}

// AbortSearch requests cooperative cancellation of any in-flight Run.
func (s *Search) AbortSearch() { s.pool.AbortSearch() }

// WaitForThinkFinished calls ThreadPool.WaitForThinkFinished, which
// returns as soon as the pool's mutex is free; it does not wait for an
// in-flight Run to unwind.
func (s *Search) WaitForThinkFinished() { s.pool.WaitForThinkFinished() }

// Run searches b to the configured level/selectivity/time control,
// driving iterative deepening with aspiration windows and Multi-PV at
// the root. If b has no legal move for the side whose
// masks are given, the search passes automatically: Run always
// assumes board is from the mover's perspective.
func (s *Search) Run(b reversi.Board, opts SearchRunOptions) SearchResult {
	if !b.HasLegalMoves() {
		switched := b.SwitchPlayers()
		if !switched.HasLegalMoves() {
			return SearchResult{BestMove: reversi.None, Score: b.Score()}
		}
		return SearchResult{BestMove: reversi.None, Score: -s.Run(switched, opts).Score}
	}

	root := search.NewRootMoves(b.Player, b.Opponent)
	if len(root.Moves) == 1 {
		return SearchResult{BestMove: root.Moves[0].Square, Score: 0, Depth: 0}
	}

	maxDepth := opts.Level.MidDepth
	if maxDepth <= 0 {
		maxDepth = 1
	}

	var tm *TimeManager
	if opts.TimeControl != nil {
		tm = NewTimeManager(*opts.TimeControl)
		tm.StartMove(b.EmptyCount())
	}

	multiPV := opts.MultiPV
	if multiPV < 1 {
		multiPV = 1
	}
	if multiPV > len(root.Moves) {
		multiPV = len(root.Moves)
	}

	var lastResult SearchResult
	startDepth := 1
	if maxDepth%2 == 0 {
		startDepth = 2
	}

	prevBest := reversi.None
	for depth := startDepth; depth <= maxDepth; {
		if tm != nil && tm.ShouldStopIteration() {
			break
		}

		root.BeginIteration()
		for pvIdx := 0; pvIdx < multiPV; pvIdx++ {
			root.SetPVIndex(pvIdx)
			selectivity := rampSelectivity(opts.Selectivity, maxDepth, depth, tm != nil)

			score, pv := s.aspirationSearch(b, depth, pvIdx, selectivity, root)
			root.Moves[pvIdx].CurrentScore = score
			root.SortFrom(pvIdx)

			if opts.Progress != nil {
				opts.Progress(SearchProgress{
					Depth:       depth,
					TargetDepth: maxDepth,
					Score:       score.ToDiscDiff(),
					BestMove:    root.Moves[0].Square,
					PVLine:      pv,
				})
			}
		}

		best := root.Best()
		lastResult = SearchResult{
			BestMove:    best.Square,
			Score:       best.CurrentScore.ToDiscDiff(),
			Depth:       depth,
			Selectivity: opts.Selectivity,
			PVLine:      best.PV,
		}

		if tm != nil {
			pvChanged := prevBest != reversi.None && best.Square != prevBest
			tm.TryExtendTime(pvChanged, int((best.PreviousScore - best.CurrentScore).ToDiscDiff()))
		}
		prevBest = best.Square

		if depth < 10 {
			depth += 2
		} else {
			depth++
		}
	}

	if tm != nil {
		tm.EndMove()
	}

	return lastResult
}

// rampSelectivity tightens pruning at shallow iterations: without a
// time control, shallower iterations use tighter pruning and only the
// final iteration reaches the caller's configured selectivity.
func rampSelectivity(configured probcut.Selectivity, maxDepth, currentDepth int, hasTimeControl bool) probcut.Selectivity {
	if hasTimeControl || configured == probcut.NoSelectivity {
		return configured
	}
	delta := maxDepth - currentDepth
	sel := int(configured) - delta
	if sel < 0 {
		sel = 0
	}
	return probcut.Selectivity(sel)
}

// aspirationSearch runs depth with an aspiration window seeded from
// the previous iteration's score, widening on fail-high/fail-low.
func (s *Search) aspirationSearch(b reversi.Board, depth, pvIdx int, selectivity probcut.Selectivity, root *search.RootMoves) (reversi.ScaledScore, []reversi.Square) {
	prev := root.Moves[pvIdx].PreviousScore
	ctx := context.Background()

	if depth < 5 || prev <= -reversi.ScaledInf {
		return s.pool.Run(ctx, b, depth, -reversi.ScaledInf, reversi.ScaledInf, selectivity, root)
	}

	delta := reversi.FromDiscDiff(3)
	alpha := prev - delta
	beta := prev + delta

	for {
		score, pv := s.pool.Run(ctx, b, depth, alpha, beta, selectivity, root)

		if score <= alpha {
			beta = (alpha + beta) / 2
			alpha = score - delta
		} else if score >= beta {
			alpha = (alpha + beta) / 2
			beta = score + delta
		} else {
			return score, pv
		}

		delta += delta / 2
		if delta > 2*reversi.ScaledInf {
			xlog.Logger.Warn().Int("depth", depth).Msg("aspiration window collapsed to full width")
			return s.pool.Run(ctx, b, depth, -reversi.ScaledInf, reversi.ScaledInf, selectivity, root)
		}
	}
}
