package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
)

func TestFeatureSetUpdateChangesNextPly(t *testing.T) {
	b := reversi.NewGame()
	fs := NewFeatureSet(b, 0)

	ml := reversi.GenerateMoves(b.Player, b.Opponent)
	require.Greater(t, ml.Count, 0)
	mv := ml.Moves[0]

	fs.Update(mv.Sq, mv.Flipped, 0, 0)

	assert.NotEqual(t, fs.PFeatures[0], fs.PFeatures[1])
	assert.NotEqual(t, fs.OFeatures[0], fs.OFeatures[1])
}

// TestFeatureSetUpdateMatchesFromScratchAcrossFirstPly checks Update's
// incremental bookkeeping against an independent from-scratch
// computation for every legal reply to the opening position. Update
// keeps each array bound to the physical side it started from rather
// than to whichever side is on move; since a move also hands the turn
// to the other side, the array that comes out as PFeatures after the
// move lines up with a from-scratch OFeatures computed on the
// resulting board, and vice versa.
func TestFeatureSetUpdateMatchesFromScratchAcrossFirstPly(t *testing.T) {
	b := reversi.NewGame()
	ml := reversi.GenerateMoves(b.Player, b.Opponent)
	require.Greater(t, ml.Count, 0)

	for i := 0; i < ml.Count; i++ {
		mv := ml.Moves[i]

		fs := NewFeatureSet(b, 0)
		fs.Update(mv.Sq, mv.Flipped, 0, 0)

		child := b.MakeMove(mv.Sq, mv.Flipped)
		fresh := NewFeatureSet(child, 0)

		assert.Equal(t, fresh.OFeatures[0], fs.PFeatures[1], "move %v", mv.Sq)
		assert.Equal(t, fresh.PFeatures[0], fs.OFeatures[1], "move %v", mv.Sq)
	}
}

func TestPatternOffsetsAreDistinct(t *testing.T) {
	seen := map[uint16]bool{}
	for i := 0; i < NumPatternFeatures; i++ {
		off := patternOffset(i)
		assert.False(t, seen[off])
		seen[off] = true
	}
}
