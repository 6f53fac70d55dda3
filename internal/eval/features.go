package eval

import "github.com/natsutteatsuiyone/neural-reversi/internal/reversi"

// NumPatternFeatures is the number of geometric 8-square patterns used
// by the feature transformer.
const NumPatternFeatures = 8

// MaxPly is one past the highest ply index a FeatureSet tracks (a game
// has at most 60 non-empty plies after the 4 starting discs).
const MaxPly = 61

// featureToCoordinate names, for one pattern, the up-to-8 squares whose
// colours are folded (MSB-first) into its base-3 index.
type featureToCoordinate struct {
	squares [8]reversi.Square
}

// evalF2X lists the 8 geometric patterns: 4 corner-anchored 8-square
// patterns and 4 diagonal-adjacent 8-square patterns, grounded on
// original_source/reversi_core/src/eval/pattern_feature.rs EVAL_F2X.
var evalF2X = [NumPatternFeatures]featureToCoordinate{
	{[8]reversi.Square{reversi.A1, reversi.B1, reversi.C1, reversi.D1, reversi.A2, reversi.A3, reversi.A4, reversi.B2}},
	{[8]reversi.Square{reversi.H1, reversi.G1, reversi.F1, reversi.E1, reversi.H2, reversi.H3, reversi.H4, reversi.G2}},
	{[8]reversi.Square{reversi.A8, reversi.B8, reversi.C8, reversi.D8, reversi.A7, reversi.A6, reversi.A5, reversi.B7}},
	{[8]reversi.Square{reversi.H8, reversi.G8, reversi.F8, reversi.E8, reversi.H7, reversi.H6, reversi.H5, reversi.G7}},

	{[8]reversi.Square{reversi.C2, reversi.D2, reversi.B3, reversi.C3, reversi.D3, reversi.B4, reversi.C4, reversi.D4}},
	{[8]reversi.Square{reversi.F2, reversi.E2, reversi.G3, reversi.F3, reversi.E3, reversi.G4, reversi.F4, reversi.E4}},
	{[8]reversi.Square{reversi.C7, reversi.D7, reversi.B6, reversi.C6, reversi.D6, reversi.B5, reversi.C5, reversi.D5}},
	{[8]reversi.Square{reversi.F7, reversi.E7, reversi.G6, reversi.F6, reversi.E6, reversi.G5, reversi.F5, reversi.E5}},
}

// featureDelta is one (pattern index, ternary weight) contribution that
// a single square makes to a FeatureSet entry.
type featureDelta struct {
	pattern int
	weight  uint16
}

// evalFeature gives, per square, the single (pattern, weight) delta that
// square contributes — used to build a FeatureSet from scratch by
// summing feature[sq] * colorDigit(sq) into the owning pattern slot.
// Grounded on EVAL_FEATURE in pattern_feature.rs (reproduced verbatim,
// restructured from a fixed-width union into a sparse per-square
// delta — only one pattern is ever non-zero per square in the source
// table, so the union's remaining lanes are always zero and are
// dropped here).
var evalFeature = [64]featureDelta{
	{0, 2187}, {0, 729}, {0, 243}, {0, 81}, {1, 81}, {1, 243}, {1, 729}, {1, 2187},
	{0, 27}, {0, 1}, {4, 2187}, {4, 729}, {5, 729}, {5, 2187}, {1, 1}, {1, 27},
	{0, 9}, {4, 243}, {4, 81}, {4, 27}, {5, 27}, {5, 81}, {5, 243}, {1, 9},
	{0, 3}, {4, 9}, {4, 3}, {4, 1}, {5, 1}, {5, 3}, {5, 9}, {1, 3},
	{2, 3}, {6, 9}, {6, 3}, {6, 1}, {7, 1}, {7, 3}, {7, 9}, {3, 3},
	{2, 9}, {6, 243}, {6, 81}, {6, 27}, {7, 27}, {7, 81}, {7, 243}, {3, 9},
	{2, 27}, {2, 1}, {6, 2187}, {6, 729}, {7, 729}, {7, 2187}, {3, 1}, {3, 27},
	{2, 2187}, {2, 729}, {2, 243}, {2, 81}, {3, 81}, {3, 243}, {3, 729}, {3, 2187},
}

// Index-by-index this reproduces original_source's EVAL_FEATURE /
// EVAL_X2F tables (they agree: every square belongs to exactly one of
// the 8 patterns, so the sparse single-delta form here is lossless).
// Verified by cross-reference against both tables square-by-square
// during the port; see DESIGN.md.

// patternOffset is pattern i's contribution-independent base offset,
// i * 3^n_square with n_square == 8 for every pattern here (3^8 = 6561).
func patternOffset(pattern int) uint16 { return uint16(pattern) * 6561 }

// FeatureSet holds, for every ply 0..60, two pattern-feature vectors:
// PFeatures from the perspective of the side to move at the ply passed
// to NewFeatureSet, and OFeatures from the other side's. Update keeps
// each array bound to that same side at later plies; it does not swap
// them when the mover changes.
type FeatureSet struct {
	PFeatures [MaxPly][NumPatternFeatures]uint16
	OFeatures [MaxPly][NumPatternFeatures]uint16
}

func squareColor(b reversi.Board, sq reversi.Square) uint16 {
	switch {
	case reversi.IsSet(b.Player, sq):
		return 0
	case reversi.IsSet(b.Opponent, sq):
		return 1
	default:
		return 2
	}
}

// NewFeatureSet computes the feature vectors from scratch for the given
// board at the given ply, for both the mover's and opponent's view.
func NewFeatureSet(b reversi.Board, ply int) *FeatureSet {
	fs := &FeatureSet{}
	ob := b.SwitchPlayers()
	for i, f2x := range evalF2X {
		var pFeat, oFeat uint16
		for _, sq := range f2x.squares {
			pFeat = pFeat*3 + squareColor(b, sq)
			oFeat = oFeat*3 + squareColor(ob, sq)
		}
		offset := patternOffset(i)
		fs.PFeatures[ply][i] = pFeat + offset
		fs.OFeatures[ply][i] = oFeat + offset
	}
	return fs
}

// Update advances the feature vectors from ply to ply+1 given the move
// played at sq (mover's square) with the given flip mask, where player
// is 0 when the side that moved is the one PFeatures describes and 1
// otherwise. This is the incremental path, touching only the squares
// that changed; PFeatures and OFeatures keep the perspectives they had
// at ply.
func (fs *FeatureSet) Update(sq reversi.Square, flipped uint64, ply int, player uint8) {
	fs.PFeatures[ply+1] = fs.PFeatures[ply]
	fs.OFeatures[ply+1] = fs.OFeatures[ply]
	pOut := &fs.PFeatures[ply+1]
	oOut := &fs.OFeatures[ply+1]

	applyOwnSquare(pOut, oOut, sq, player)

	it := reversi.NewBitboardIterator(flipped)
	for {
		fsq, ok := it.Next()
		if !ok {
			break
		}
		applyFlippedSquare(pOut, oOut, fsq, player)
	}
}

// applyOwnSquare accounts for the square the mover just played: its
// ternary digit moves from "empty" (2) to the mover's colour (0 or 1),
// a swing of 2 in the owning pattern's base-3 weight for whichever view
// now sees it as the mover's disc, and 1 for the view that now sees it
// as the opponent's disc.
func applyOwnSquare(pOut, oOut *[NumPatternFeatures]uint16, sq reversi.Square, player uint8) {
	d := evalFeature[sq]
	if player == 0 {
		pOut[d.pattern] -= 2 * d.weight
		oOut[d.pattern] -= d.weight
	} else {
		pOut[d.pattern] -= d.weight
		oOut[d.pattern] -= 2 * d.weight
	}
}

// applyFlippedSquare accounts for one disc that changed colour: its
// digit flips (mover<->opponent) in both views, a swing of 1 in the
// owning pattern's weight, signed oppositely for the two views.
func applyFlippedSquare(pOut, oOut *[NumPatternFeatures]uint16, sq reversi.Square, player uint8) {
	d := evalFeature[sq]
	if player == 0 {
		pOut[d.pattern] -= d.weight
		oOut[d.pattern] += d.weight
	} else {
		pOut[d.pattern] += d.weight
		oOut[d.pattern] -= d.weight
	}
}
