// Package eval implements the pattern-feature position evaluator: an
// incrementally-updated base-3 feature transformer feeding a small
// quantised MLP. The activation kernels here follow the clipped-ReLU
// layer style of a Stockfish-derived NNUE feature transformer, kept
// scalar-only: real engines dispatch to AVX2/AVX-512 kernels at this
// point, but the scalar kernel is the one whose output every other
// kernel must match bit-for-bit, so it is the only one implemented
// here.
package eval

// WeightScaleBits is the number of fractional bits baked into the
// quantised weights, matching the layer's ClippedReLU shift amount.
const WeightScaleBits = 6

// clippedReLU implements clamp(x >> WeightScaleBits, 0, 127).
func clippedReLU(input []int32, output []uint8) {
	for i, v := range input {
		val := v >> WeightScaleBits
		if val < 0 {
			val = 0
		} else if val > 127 {
			val = 127
		}
		output[i] = uint8(val)
	}
}

// sqrClippedReLU implements ((x*x) >> (2*WeightScaleBits+7)).min(127),
// the squared activation used on the second half of the combined
// transformer output: each negative input is clamped to 0, then each
// value is squared and shifted on its own, saturating at 127.
func sqrClippedReLU(input []int32, output []uint8) {
	const shift = 2*WeightScaleBits + 7
	for i, v := range input {
		if v < 0 {
			v = 0
		}
		val := (int64(v) * int64(v)) >> shift
		if val > 127 {
			val = 127
		}
		output[i] = uint8(val)
	}
}
