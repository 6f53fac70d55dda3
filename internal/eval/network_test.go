package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
)

func TestNetworkEvaluateZeroWeightsStaysInBounds(t *testing.T) {
	net := &Network{}
	b := reversi.NewGame()
	fs := NewFeatureSet(b, 0)

	score := net.Evaluate(b, fs, 0)
	assert.LessOrEqual(t, score, reversi.ScaledMax-1)
	assert.GreaterOrEqual(t, score, reversi.ScaledMin+1)
}

func TestNetworkEvaluateDeterministic(t *testing.T) {
	net := &Network{}
	for i := range net.BaseWeights {
		net.BaseWeights[i][0] = int16(i % 7)
	}
	b := reversi.NewGame()
	fs := NewFeatureSet(b, 0)

	a := net.Evaluate(b, fs, 0)
	c := net.Evaluate(b, fs, 0)
	assert.Equal(t, a, c)
}
