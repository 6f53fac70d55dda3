package eval

import (
	"fmt"

	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
)

// Network dimension constants. Exact values are baked into
// the weight blob at build time in the original engine; these are the
// dimensions this port's weight format uses.
const (
	// OutDim is the per-side feed-forward width of the base transformer.
	OutDim = 16
	// HiddenDim is the base transformer's total output width: one OutDim
	// block for the mover's view, one for the opponent's.
	HiddenDim = 2 * OutDim
	// PAOutDim is the per-side width of the phase-adaptive transformer.
	PAOutDim = 8
	// PAHiddenDim is the phase-adaptive transformer's total output width.
	PAHiddenDim = 2 * PAOutDim
	// L2InDim is the L2 layer's input width: the clipped-ReLU of the
	// first (HiddenDim+PAHiddenDim)/2 transformer lanes concatenated
	// with the squared-clipped-ReLU of the remaining lanes. The mobility
	// feature has no lane of its own; it is added into lane 0.
	L2InDim = HiddenDim + PAHiddenDim
	// L2OutDim is the hidden linear layer's output width.
	L2OutDim = 32
	// NumPhaseBuckets is the number of phase-adaptive transformer banks,
	// chosen by ply/10.
	NumPhaseBuckets = 6
	// PlyBucketSize is the number of plies per phase bucket.
	PlyBucketSize = 10
	// NumLayerStacks is the number of per-ply output-layer banks.
	NumLayerStacks = 60
	// FeatureDim is the total size of the sparse base/phase-adaptive
	// embedding table: 8 patterns, each a base-3 encoding over 8
	// squares (3^8 = 6561 values), laid out contiguously with the
	// per-pattern offset already baked into the feature index.
	FeatureDim = NumPatternFeatures * 6561

	// MobilityScale scales the raw legal-move count before it is added
	// to the first transformer output lane.
	MobilityScale = 64
)

// layerStack holds the per-ply-bucket weights feeding the L2 and output
// layers, mirroring the original's per-ply LayerStack bank.
type layerStack struct {
	L2Weights  [L2OutDim][L2InDim]int8
	L2Bias     [L2OutDim]int32
	OutWeights [L2OutDim]int16
	OutBias    int32
}

// Network is the fully-loaded quantised evaluator: a shared base
// transformer, a bank of phase-adaptive transformers, and a bank of
// per-ply layer stacks (L2/output), matching the persisted weight
// file layout.
type Network struct {
	BaseBias    [HiddenDim / 2]int16
	BaseWeights [FeatureDim][HiddenDim / 2]int16

	PABias    [NumPhaseBuckets][PAHiddenDim / 2]int16
	PAWeights [NumPhaseBuckets][FeatureDim][PAHiddenDim / 2]int16

	Stacks [NumLayerStacks]layerStack
}

// featureIndices returns the 8 active (own-side, opponent-side) feature
// indices for a FeatureSet entry at one ply, ready to index BaseWeights
// / PAWeights directly (the per-pattern offset is already folded in).
func featureIndices(features [NumPatternFeatures]uint16) [NumPatternFeatures]int {
	var out [NumPatternFeatures]int
	for i, f := range features {
		out[i] = int(f)
	}
	return out
}

// accumulate sums the rows for each active feature plus the bias,
// producing a pre-activation int32 accumulator of width dim.
func accumulate(bias, weights []int16, indices [NumPatternFeatures]int, table func(idx int) []int16, dim int) []int32 {
	acc := make([]int32, dim)
	for i, b := range bias {
		acc[i] = int32(b)
	}
	for _, idx := range indices {
		row := table(idx)
		for i, w := range row {
			acc[i] += int32(w)
		}
	}
	return acc
}

// forwardBase runs the shared base transformer for both perspectives,
// returning the HiddenDim-wide pre-activation accumulator (own-side
// half first, opponent-side half second).
func (n *Network) forwardBase(fs *FeatureSet, ply int) []int32 {
	ownIdx := featureIndices(fs.PFeatures[ply])
	oppIdx := featureIndices(fs.OFeatures[ply])

	own := accumulate(n.BaseBias[:], nil, ownIdx, func(idx int) []int16 { return n.BaseWeights[idx][:] }, HiddenDim/2)
	opp := accumulate(n.BaseBias[:], nil, oppIdx, func(idx int) []int16 { return n.BaseWeights[idx][:] }, HiddenDim/2)

	out := make([]int32, HiddenDim)
	copy(out, own)
	copy(out[HiddenDim/2:], opp)
	return out
}

// forwardPhaseAdaptive runs the phase-adaptive transformer selected by
// ply/PlyBucketSize.
func (n *Network) forwardPhaseAdaptive(fs *FeatureSet, ply int) []int32 {
	bucket := ply / PlyBucketSize
	if bucket >= NumPhaseBuckets {
		bucket = NumPhaseBuckets - 1
	}
	ownIdx := featureIndices(fs.PFeatures[ply])
	oppIdx := featureIndices(fs.OFeatures[ply])

	bias := n.PABias[bucket][:]
	table := func(idx int) []int16 { return n.PAWeights[bucket][idx][:] }
	own := accumulate(bias, nil, ownIdx, table, PAHiddenDim/2)
	opp := accumulate(bias, nil, oppIdx, table, PAHiddenDim/2)

	out := make([]int32, PAHiddenDim)
	copy(out, own)
	copy(out[PAHiddenDim/2:], opp)
	return out
}

// Evaluate runs the full forward pass for the position at ply (board
// used only to compute the mobility feature), returning a ScaledScore
// from the mover's perspective, clipped to reserve the extremes for
// search sentinels.
func (n *Network) Evaluate(b reversi.Board, fs *FeatureSet, ply int) reversi.ScaledScore {
	base := n.forwardBase(fs, ply)
	pa := n.forwardPhaseAdaptive(fs, ply)

	mobility := int32(reversi.PopCount(b.GetMoves())) * MobilityScale

	combined := make([]int32, L2InDim)
	copy(combined, base)
	copy(combined[HiddenDim:], pa)
	if len(combined) > 0 {
		combined[0] += mobility
	}

	half := L2InDim / 2
	crOut := make([]uint8, half)
	sqrOut := make([]uint8, L2InDim-half)
	clippedReLU(combined[:half], crOut)
	sqrClippedReLU(combined[half:], sqrOut)

	l1 := make([]uint8, L2InDim)
	copy(l1, crOut)
	copy(l1[half:], sqrOut)

	stackIdx := ply
	if stackIdx >= NumLayerStacks {
		stackIdx = NumLayerStacks - 1
	}
	stack := &n.Stacks[stackIdx]

	l2 := make([]int32, L2OutDim)
	for o := 0; o < L2OutDim; o++ {
		acc := stack.L2Bias[o]
		for i, v := range l1 {
			acc += int32(stack.L2Weights[o][i]) * int32(v)
		}
		l2[o] = acc
	}
	l2Activated := make([]uint8, L2OutDim)
	clippedReLU(l2, l2Activated)

	out := stack.OutBias
	for i, v := range l2Activated {
		out += int32(stack.OutWeights[i]) * int32(v)
	}
	out >>= WeightScaleBits

	score := reversi.ScaledScore(out)
	if score > reversi.ScaledMax-1 {
		score = reversi.ScaledMax - 1
	}
	if score < reversi.ScaledMin+1 {
		score = reversi.ScaledMin + 1
	}
	return score
}

// String is a debug helper describing the network shape.
func (n *Network) String() string {
	return fmt.Sprintf("Network(hidden=%d, paHidden=%d, l2=%d, stacks=%d)",
		HiddenDim, PAHiddenDim, L2OutDim, NumLayerStacks)
}
