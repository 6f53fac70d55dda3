package probcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTValueDecreasesAsConfidenceDrops(t *testing.T) {
	// Level 0 has the highest confidence (tightest bound kept rare),
	// so it should have the largest t-value.
	assert.Greater(t, TValue(0), TValue(NumLevels-1))
}

func TestTValueOutOfRangeIsZero(t *testing.T) {
	assert.Equal(t, 0.0, TValue(Selectivity(NumLevels)))
}

func TestShallowDepthIsEvenAndSmaller(t *testing.T) {
	for d := 0; d <= 30; d++ {
		sd := ShallowDepth(d)
		assert.LessOrEqual(t, sd, d)
		assert.Equal(t, 0, sd%2)
		assert.GreaterOrEqual(t, sd, 0)
	}
}

func TestTableLookupMiss(t *testing.T) {
	tbl := NewTable()
	_, ok := tbl.Lookup(0, 4, 10)
	assert.False(t, ok)
}

func TestTableSetAndLookup(t *testing.T) {
	tbl := NewTable()
	tbl.Set(2, 4, 10, Params{Mu: 1.5, Sigma: 3.2})
	p, ok := tbl.Lookup(2, 4, 10)
	assert.True(t, ok)
	assert.Equal(t, 1.5, p.Mu)
	assert.Equal(t, 3.2, p.Sigma)
}

func TestBetaBoundAndPredictedDeepBound(t *testing.T) {
	p := Params{Mu: 2, Sigma: 4}
	betaPrime := BetaBound(10, 0, p)
	assert.Greater(t, betaPrime, 10.0)

	deep := PredictedDeepBound(10, betaPrime)
	assert.Greater(t, deep, 10.0)
	assert.Less(t, deep, betaPrime)
}
