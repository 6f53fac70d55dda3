package stability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
)

func TestGetStableDiscsInitialPositionIsEmpty(t *testing.T) {
	b := reversi.NewGame()
	assert.EqualValues(t, 0, GetStableDiscs(b.Player, b.Opponent))
}

func TestGetStableDiscsCornerIsStable(t *testing.T) {
	// A1 occupied by the player, everything else empty: a corner disc
	// can never be flipped regardless of the rest of the position.
	p := reversi.A1.Bitboard()
	o := uint64(0)
	stable := GetStableDiscs(p, o)
	assert.True(t, stable&p == p)
}

func TestGetStableDiscsFullBoardAllStable(t *testing.T) {
	p := uint64(0x5555555555555555)
	o := ^p
	stable := GetStableDiscs(p, o)
	assert.EqualValues(t, p, stable)
}

func TestCutoffNoCutoffAtLowAlpha(t *testing.T) {
	b := reversi.NewGame()
	_, ok := Cutoff(b, 60, -64)
	assert.False(t, ok)
}

func TestCutoffFullBoard(t *testing.T) {
	b := reversi.Board{Player: 0x5555555555555555, Opponent: ^uint64(0x5555555555555555)}
	score, ok := Cutoff(b, 0, 64)
	if ok {
		assert.LessOrEqual(t, score, reversi.Score(64))
	}
}
