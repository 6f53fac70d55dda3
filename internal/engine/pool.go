package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/natsutteatsuiyone/neural-reversi/internal/eval"
	"github.com/natsutteatsuiyone/neural-reversi/internal/probcut"
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
	"github.com/natsutteatsuiyone/neural-reversi/internal/search"
	"github.com/natsutteatsuiyone/neural-reversi/internal/tt"
)

// ThreadPool runs the root search across NumWorkers goroutines sharing
// one transposition table. Rather than an explicit split-point
// publish/steal protocol, this is a simplified Lazy-SMP-style pool:
// every worker runs an independent search of the same root with the
// same window, selectivity and move order, the workers interacting only
// through the shared transposition table, using golang.org/x/sync/errgroup for fan-out
// and cancellation (a documented simplification, see DESIGN.md).
type ThreadPool struct {
	NumWorkers     int
	TT             *tt.Table
	Net            *eval.Network
	ProbCut        *probcut.Table
	EndgameProbCut *probcut.Table

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewThreadPool builds a pool of the given size sharing table and net.
// probCut/endgameProbCut may be nil, which disables ProbCut pruning for
// that phase of the search.
func NewThreadPool(numWorkers int, table *tt.Table, net *eval.Network, probCut, endgameProbCut *probcut.Table) *ThreadPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &ThreadPool{
		NumWorkers:     numWorkers,
		TT:             table,
		Net:            net,
		ProbCut:        probCut,
		EndgameProbCut: endgameProbCut,
	}
}

// Run drives depth-ply search of b, within window [alpha, beta] at the
// given selectivity, across all workers, and returns the best score
// found along with the principal variation discovered by whichever
// worker produced it.
func (p *ThreadPool) Run(ctx context.Context, b reversi.Board, depth int, alpha, beta reversi.ScaledScore, selectivity probcut.Selectivity, root *search.RootMoves) (reversi.ScaledScore, []reversi.Square) {
	runCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	type result struct {
		score reversi.ScaledScore
		pv    []reversi.Square
	}
	results := make([]result, p.NumWorkers)

	for w := 0; w < p.NumWorkers; w++ {
		w := w
		g.Go(func() error {
			sc := search.NewSearchContext(b, p.TT, p.Net, root, p.ProbCut, p.EndgameProbCut)
			sc.Selectivity = selectivity
			done := make(chan struct{})
			go func() {
				score := sc.Negamax(b, depth, 0, alpha, beta, true)
				results[w] = result{score: score, pv: sc.PV(0)}
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-gctx.Done():
				sc.Abort()
				<-done
				return nil
			}
		})
	}

	_ = g.Wait()

	best := results[0]
	for _, r := range results[1:] {
		if r.score > best.score {
			best = r
		}
	}
	return best.score, best.pv
}

// AbortSearch requests cooperative cancellation of any in-flight Run.
func (p *ThreadPool) AbortSearch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// WaitForThinkFinished acquires and releases the pool's mutex and
// returns. It does not wait for a Run in progress on another goroutine
// to finish or unwind; Run itself returns only once every worker has
// unwound, so a caller that holds Run's return value has nothing left
// to wait on.
func (p *ThreadPool) WaitForThinkFinished() {
	p.mu.Lock()
	defer p.mu.Unlock()
}
