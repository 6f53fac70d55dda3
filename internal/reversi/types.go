package reversi

import "fmt"

// Depth is a search depth, in plies.
type Depth int32

// Score is a disc-difference score: -64..+64.
type Score int32

// Scoref is a floating-point score, used for ProbCut regression inputs.
type Scoref = float32

const (
	// ScoreMax is the best possible disc-difference score.
	ScoreMax Score = 64
	// ScoreMin is the worst possible disc-difference score.
	ScoreMin Score = -64
	// ScoreInf is a sentinel strictly outside [ScoreMin, ScoreMax], used
	// for alpha-beta search bounds before any real score is known.
	ScoreInf Score = 65
)

// ScaledScore is an internal evaluation score with 8 bits of fractional
// precision (scale 256), letting the search distinguish positions that
// would otherwise tie at whole-disc resolution.
type ScaledScore int32

const (
	// ScaleBits is the number of fractional bits (8 => scale of 256).
	ScaleBits = 8
	// Scale is the scale factor, 256.
	Scale = 1 << ScaleBits
)

// ScaledZero is the zero scaled score.
const ScaledZero ScaledScore = 0

// ScaledMax is the maximum achievable scaled score (+64 discs).
const ScaledMax ScaledScore = ScaledScore(ScoreMax) << ScaleBits

// ScaledMin is the minimum achievable scaled score (-64 discs).
const ScaledMin ScaledScore = ScaledScore(ScoreMin) << ScaleBits

// ScaledInf is the alpha-beta bound sentinel, larger in magnitude than any
// real scaled score (mirrors the original engine's use of i16::MAX).
const ScaledInf ScaledScore = 1<<15 - 1

// FromRaw wraps an already-scaled raw value.
func FromRaw(raw int32) ScaledScore { return ScaledScore(raw) }

// FromDiscDiff scales a disc-difference score up to ScaledScore.
func FromDiscDiff(diff Score) ScaledScore { return ScaledScore(diff) << ScaleBits }

// Value returns the raw (scaled) internal value.
func (s ScaledScore) Value() int32 { return int32(s) }

// ToDiscDiff converts to a disc-difference score, rounding toward
// negative infinity (arithmetic shift).
func (s ScaledScore) ToDiscDiff() Score { return Score(int32(s) >> ScaleBits) }

// ToDiscDiffF returns the full-precision floating point disc difference.
func (s ScaledScore) ToDiscDiffF() float32 { return float32(s) / float32(Scale) }

func (s ScaledScore) String() string { return fmt.Sprintf("%.2f", s.ToDiscDiffF()) }
