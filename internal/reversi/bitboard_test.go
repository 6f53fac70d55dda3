package reversi

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareBitboardAndIndex(t *testing.T) {
	assert.Equal(t, uint64(1), A1.Bitboard())
	assert.Equal(t, uint64(0x8000000000000000), H8.Bitboard())
	assert.Equal(t, 27, D4.Index())
	assert.Equal(t, 36, E5.Index())
	assert.Equal(t, 64, None.Index())
}

func TestParseSquareRoundTrip(t *testing.T) {
	for sq := Square(0); sq < None; sq++ {
		parsed, err := ParseSquare(sq.String())
		require.NoError(t, err)
		assert.Equal(t, sq, parsed)
	}
	none, err := ParseSquare("None")
	require.NoError(t, err)
	assert.Equal(t, None, none)

	_, err = ParseSquare("z9")
	assert.Error(t, err)
}

func TestInitialPositionMoveCount(t *testing.T) {
	b := NewGame()
	moves := b.GetMoves()
	assert.Equal(t, 4, bits.OnesCount64(moves))
}

func TestFlipLawfulness(t *testing.T) {
	b := NewGame()
	it := NewBitboardIterator(b.GetMoves())
	for {
		sq, ok := it.Next()
		if !ok {
			break
		}
		flipped := b.Flip(sq)
		assert.NotZero(t, flipped, "legal move must have a non-empty flip mask")
		assert.Equal(t, flipped, flipped&b.Opponent, "flipped must be a subset of opponent")
	}
}

func TestBitboardConsistencyInvariant(t *testing.T) {
	b := NewGame()
	assert.Zero(t, b.Player&b.Opponent)
	total := bits.OnesCount64(b.Player) + bits.OnesCount64(b.Opponent) + bits.OnesCount64(b.EmptySquares())
	assert.Equal(t, 64, total)
}

func TestSymmetryTransformsAreInvolutions(t *testing.T) {
	b := NewGame()

	r := b
	for i := 0; i < 4; i++ {
		r = r.Rotate90()
	}
	assert.Equal(t, b, r)

	assert.Equal(t, b, b.FlipVertical().FlipVertical())
	assert.Equal(t, b, b.FlipHorizontal().FlipHorizontal())
	assert.Equal(t, b, b.FlipDiagA1H8().FlipDiagA1H8())
	assert.Equal(t, b, b.FlipDiagA8H1().FlipDiagA8H1())
}

func TestCornerWeightedMobilityWeightsCorners(t *testing.T) {
	cornerOnly := A1.Bitboard()
	edgeOnly := D1.Bitboard()
	assert.Greater(t, CornerWeightedMobility(cornerOnly), CornerWeightedMobility(edgeOnly))
}
