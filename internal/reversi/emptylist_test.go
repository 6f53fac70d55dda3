package reversi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyListRemoveRestoreParity(t *testing.T) {
	b := NewGame()
	el := NewEmptyList(b.EmptySquares())
	initialParity := el.Parity

	sq, ok := el.Front()
	assert.True(t, ok)

	el.Remove(sq)
	assert.NotEqual(t, initialParity, el.Parity)

	el.Restore(sq)
	assert.Equal(t, initialParity, el.Parity)
}

func TestEmptyListWalkVisitsAllEmptySquares(t *testing.T) {
	b := NewGame()
	empty := b.EmptySquares()
	el := NewEmptyList(empty)

	seen := map[Square]bool{}
	sq, ok := el.Front()
	for ok {
		seen[sq] = true
		sq, ok = el.NextAfter(sq)
	}
	for s := Square(0); s < None; s++ {
		if empty&s.Bitboard() != 0 {
			assert.True(t, seen[s], "square %s should be walked", s)
		}
	}
}

func TestEmptyListCornersComeFirst(t *testing.T) {
	full := ^uint64(0)
	el := NewEmptyList(full)
	sq, _ := el.Front()
	assert.Contains(t, []Square{A1, H1, A8, H8}, sq)
}
