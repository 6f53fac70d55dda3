// Package probcut implements selectivity-driven forward pruning: a
// cheap shallow search predicts whether a deep search would fail high,
// skipping the deep search when the prediction is confident
// enough. The t-value table is derived from the normal inverse CDF
// rather than a hardcoded constant table, standing in for an offline
// regression fit.
package probcut

import (
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// Selectivity is a probabilistic pruning level: higher levels apply
// tighter (more aggressive) pruning.
type Selectivity uint8

// NoSelectivity disables ProbCut pruning entirely (used by the deepest,
// least time-constrained searches, and by datagen-style full-width
// searches that must not prune).
const NoSelectivity Selectivity = 255

// NumLevels is the number of configured selectivity levels, σ ∈ {0..5}.
const NumLevels = 6

// confidences holds, per selectivity level, a two-tailed confidence
// used to derive the t-value: tighter pruning (higher index) uses a
// lower confidence, accepting more error for more cutoffs.
var confidences = [NumLevels]float64{
	0.999, 0.995, 0.98, 0.95, 0.90, 0.75,
}

var (
	tValuesOnce sync.Once
	tValues     [NumLevels]float64
)

// TValue returns the probit (inverse normal CDF) value for selectivity
// level sel, used to scale the predicted standard deviation when
// computing a ProbCut bound.
func TValue(sel Selectivity) float64 {
	tValuesOnce.Do(func() {
		std := distuv.Normal{Mu: 0, Sigma: 1}
		for i, c := range confidences {
			// Two-tailed confidence c -> upper quantile (1+c)/2.
			tValues[i] = std.Quantile((1 + c) / 2)
		}
	})
	if int(sel) >= NumLevels {
		return 0
	}
	return tValues[sel]
}

// Params is a regression fit mu/sigma for one (ply bucket, shallow
// depth, deep depth) triple, predicting deep-search score from a
// shallow-search score.
type Params struct {
	Mu    float64
	Sigma float64
}

// Table is a lookup of regression parameters, keyed by a caller-chosen
// bucket (ply range) and the (shallow, deep) depth pair. The fitted
// values are produced offline; this package does not load them, and
// callers install them with Set.
type Table struct {
	entries map[[3]int]Params
}

// NewTable builds an empty parameter table. Callers populate it via Set
// before running searches with ProbCut enabled.
func NewTable() *Table {
	return &Table{entries: make(map[[3]int]Params)}
}

// Set installs the regression parameters for one (plyBucket, shallow,
// deep) key.
func (t *Table) Set(plyBucket, shallow, deep int, p Params) {
	t.entries[[3]int{plyBucket, shallow, deep}] = p
}

// Lookup returns the regression parameters for the given key and true,
// or the zero value and false if the key was never Set; callers skip
// ProbCut on false. The zero value itself does not disable pruning:
// with mu=0 and sigma=0 the shallow bound equals beta.
func (t *Table) Lookup(plyBucket, shallow, deep int) (Params, bool) {
	p, ok := t.entries[[3]int{plyBucket, shallow, deep}]
	return p, ok
}

// ShallowDepth computes d' ≈ 0.4*d, rounded down to an even depth.
func ShallowDepth(d int) int {
	shallow := int(float64(d) * 0.4)
	if shallow%2 != 0 {
		shallow--
	}
	if shallow < 0 {
		shallow = 0
	}
	return shallow
}

// BetaBound computes the adjusted shallow-search window bound β′ used
// to probe at the shallow depth.
func BetaBound(beta float64, sel Selectivity, p Params) float64 {
	return beta + TValue(sel)*p.Sigma + p.Mu
}

// PredictedDeepBound returns the predicted deep-search bound once a
// shallow null-window probe at [β′-1, β′] returns >= β′.
func PredictedDeepBound(beta, betaPrime float64) float64 {
	return (beta + betaPrime) / 2
}
