package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natsutteatsuiyone/neural-reversi/internal/eval"
	"github.com/natsutteatsuiyone/neural-reversi/internal/probcut"
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
)

func newTestSearch(t *testing.T) *Search {
	t.Helper()
	s, err := New(SearchOptions{TTSizeMB: 1, Threads: 2, Weights: &eval.Network{}})
	require.NoError(t, err)
	s.Init()
	return s
}

func TestNewRejectsNilWeights(t *testing.T) {
	_, err := New(SearchOptions{TTSizeMB: 1, Threads: 1})
	assert.Error(t, err)
}

func TestRunReturnsLegalOpeningMove(t *testing.T) {
	s := newTestSearch(t)
	b := reversi.NewGame()

	result := s.Run(b, SearchRunOptions{
		Level:       Level{MidDepth: 2, EndDepth: 2, PerfectDepth: 2},
		Selectivity: probcut.NoSelectivity,
	})

	require.NotEqual(t, reversi.None, result.BestMove)
	assert.True(t, b.Flip(result.BestMove) != 0, "reported best move must be legal")
}

func TestRunMultiPVReturnsAMove(t *testing.T) {
	s := newTestSearch(t)
	b := reversi.NewGame()

	result := s.Run(b, SearchRunOptions{
		Level:       Level{MidDepth: 2, EndDepth: 2, PerfectDepth: 2},
		Selectivity: probcut.NoSelectivity,
		MultiPV:     3,
	})

	assert.NotEqual(t, reversi.None, result.BestMove)
}

func TestRunOnTerminalPositionReturnsNoMove(t *testing.T) {
	s := newTestSearch(t)
	full := reversi.Board{Player: 0x5555555555555555, Opponent: ^uint64(0x5555555555555555)}

	result := s.Run(full, SearchRunOptions{Level: Level{MidDepth: 1}})
	assert.Equal(t, reversi.None, result.BestMove)
	assert.Equal(t, full.Score(), result.Score)
}

func TestRampSelectivityReachesConfiguredAtFinalDepth(t *testing.T) {
	sel := rampSelectivity(3, 10, 10, false)
	assert.EqualValues(t, 3, sel)
}

func TestRampSelectivityTightensEarlier(t *testing.T) {
	sel := rampSelectivity(3, 10, 4, false)
	assert.Less(t, int(sel), 3)
}

func TestRampSelectivityIgnoredWithTimeControl(t *testing.T) {
	sel := rampSelectivity(3, 10, 1, true)
	assert.EqualValues(t, 3, sel)
}
