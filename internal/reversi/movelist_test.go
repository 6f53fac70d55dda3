package reversi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMovesInitialPosition(t *testing.T) {
	b := NewGame()
	ml := GenerateMoves(b.Player, b.Opponent)
	assert.Equal(t, 4, ml.Count)
	assert.False(t, ml.HasWipeout)
}

func TestWipeoutDetection(t *testing.T) {
	// Player occupies everything except one empty square and one
	// opponent disc in a straight line that the move at the empty
	// square would flip, wiping out the opponent entirely.
	var player uint64
	for sq := Square(1); sq < 64; sq++ {
		player |= sq.Bitboard()
	}
	player &^= B1.Bitboard()
	opponent := B1.Bitboard()
	ml := GenerateMoves(player, opponent)
	// A1 is empty; playing it flips B1, the opponent's only disc.
	assert.True(t, ml.HasWipeout)
	// Simpler, direct construction: a line where playing flips the lone
	// opponent disc and nothing else remains for the opponent.
	p := C1.Bitboard() | D1.Bitboard() | E1.Bitboard() | F1.Bitboard() | G1.Bitboard() | H1.Bitboard()
	o := B1.Bitboard()
	flipped := Flip(A1, p, o)
	require.NotZero(t, flipped)
	assert.Equal(t, o, flipped, "the single opponent disc must be entirely flipped")
}

func TestEvaluateCheapAssignsValues(t *testing.T) {
	b := NewGame()
	ml := GenerateMoves(b.Player, b.Opponent)
	ml.EvaluateCheap(b.Player, b.Opponent)
	for i := 0; i < ml.Count; i++ {
		assert.NotZero(t, ml.Moves[i].Value)
	}
}

func TestConcurrentMoveIteratorExhausts(t *testing.T) {
	b := NewGame()
	ml := GenerateMoves(b.Player, b.Opponent)
	it := NewConcurrentMoveIterator(ml)
	count := 0
	for {
		_, _, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, ml.Count, count)
}

func TestBestFirstMoveIteratorOrdersDescending(t *testing.T) {
	b := NewGame()
	ml := GenerateMoves(b.Player, b.Opponent)
	ml.EvaluateCheap(b.Player, b.Opponent)
	it := NewBestFirstMoveIterator(ml)
	prev := int64(1 << 62)
	for {
		m, ok := it.Next()
		if !ok {
			break
		}
		assert.LessOrEqual(t, m.Value, prev)
		prev = m.Value
	}
}
