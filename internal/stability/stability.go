// Package stability computes stable-disc counts: squares that can never
// be flipped for the remainder of the game. It is grounded on
// original_source's reversi_core/src/stability.rs, ported to the scalar
// fallback path only.
package stability

import (
	"math/bits"
	"sync"

	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
)

const edgeTableSize = 256 * 256

var (
	edgeOnce  sync.Once
	edgeTable [edgeTableSize]uint8
)

// Init builds the 256x256 edge-stability lookup table. It is
// idempotent and safe to call from multiple goroutines; callers don't
// need to call it directly since Init happens lazily on first use.
func Init() {
	edgeOnce.Do(buildEdgeTable)
}

func buildEdgeTable() {
	for p := 0; p < 256; p++ {
		for o := 0; o < 256; o++ {
			if p&o != 0 {
				continue
			}
			edgeTable[p*256+o] = uint8(findEdgeStable(int32(p), int32(o), int32(p)))
		}
	}
}

func xToBit(x int32) int32 { return 1 << uint(x) }

// findEdgeStable recursively determines, for one 8-square edge line,
// which of the squares in old_p remain stable under every possible
// continuation: try the opponent playing each empty square and the
// player playing each empty square, and keep only squares that survive
// both (direct transcription of stability.rs's find_edge_stable).
func findEdgeStable(oldP, oldO, stable int32) int32 {
	e := ^(oldP | oldO)

	stable &= oldP
	if stable == 0 || e == 0 {
		return stable
	}

	for x := int32(0); x < 8; x++ {
		if e&xToBit(x) == 0 {
			continue
		}

		o := oldO
		p := oldP | xToBit(x)
		if x > 1 {
			y := x - 1
			for y > 0 && o&xToBit(y) != 0 {
				y--
			}
			if p&xToBit(y) != 0 {
				y := x - 1
				for y > 0 && o&xToBit(y) != 0 {
					o ^= xToBit(y)
					p ^= xToBit(y)
					y--
				}
			}
		}
		if x < 6 {
			y := x + 1
			for y < 8 && o&xToBit(y) != 0 {
				y++
			}
			if p&xToBit(y) != 0 {
				y := x + 1
				for y < 8 && o&xToBit(y) != 0 {
					o ^= xToBit(y)
					p ^= xToBit(y)
					y++
				}
			}
		}
		stable = findEdgeStable(p, o, stable)
		if stable == 0 {
			return stable
		}

		p = oldP
		o = oldO | xToBit(x)
		if x > 1 {
			y := x - 1
			for y > 0 && p&xToBit(y) != 0 {
				y--
			}
			if o&xToBit(y) != 0 {
				y := x - 1
				for y > 0 && p&xToBit(y) != 0 {
					o ^= xToBit(y)
					p ^= xToBit(y)
					y--
				}
			}
		}
		if x < 6 {
			y := x + 1
			for y < 8 && p&xToBit(y) != 0 {
				y++
			}
			if o&xToBit(y) != 0 {
				y := x + 1
				for y < 8 && p&xToBit(y) != 0 {
					o ^= xToBit(y)
					p ^= xToBit(y)
					y++
				}
			}
		}
		stable = findEdgeStable(p, o, stable)
		if stable == 0 {
			return stable
		}
	}

	return stable
}

func unpackA2A7(x uint8) uint64 {
	a := uint64(x & 0x7e)
	return (a * 0x0000040810204080) & 0x0001010101010100
}

func unpackH2H7(x uint8) uint64 {
	a := uint64(x & 0x7e)
	return (a * 0x0002040810204000) & 0x0080808080808000
}

func packA1A8(x uint64) int {
	a := x & 0x0101010101010101
	return int((a * 0x0102040810204080) >> 56)
}

func packH1H8(x uint64) int {
	a := x & 0x8080808080808080
	return int((a * 0x0002040810204081) >> 56)
}

// getStableEdge returns the stable squares located on the four border
// lines (top, bottom, left, right), derived from the precomputed
// edgeTable via the bit-packing tricks in stability.rs's scalar
// fallback (no AVX2 path; this port always runs it).
func getStableEdge(p, o uint64) uint64 {
	Init()
	return uint64(edgeTable[(p&0xff)*256+(o&0xff)]) |
		uint64(edgeTable[(p>>56)*256+(o>>56)])<<56 |
		unpackA2A7(edgeTable[packA1A8(p)*256+packA1A8(o)]) |
		unpackH2H7(edgeTable[packH1H8(p)*256+packH1H8(o)])
}

// getFullLines returns, per direction, the squares that belong to a
// completely occupied line (no empty square along that line), and
// returns the intersection across all four directions.
func getFullLines(disc uint64, full *[4]uint64) uint64 {
	h := disc
	v := disc
	l7 := disc
	l9 := disc
	r7 := disc
	r9 := disc

	h &= h >> 1
	h &= h >> 2
	h &= h >> 4
	full[0] = (h & 0x0101010101010101) * 0xff

	v &= bits.RotateLeft64(v, -8)
	v &= bits.RotateLeft64(v, -16)
	v &= bits.RotateLeft64(v, 32)
	full[1] = v

	l7 &= 0xff01010101010101 | (l7 >> 7)
	r7 &= 0x80808080808080ff | (r7 << 7)
	l7 &= 0xffff030303030303 | (l7 >> 14)
	r7 &= 0xc0c0c0c0c0c0ffff | (r7 << 14)
	l7 &= 0xffffffff0f0f0f0f | (l7 >> 28)
	r7 &= 0xf0f0f0f0ffffffff | (r7 << 28)
	full[2] = l7 & r7

	l9 &= 0xff80808080808080 | (l9 >> 9)
	r9 &= 0x01010101010101ff | (r9 << 9)
	l9 &= 0xffffc0c0c0c0c0c0 | (l9 >> 18)
	r9 &= 0x030303030303ffff | (r9 << 18)
	full[3] = l9 & r9 & (0x0f0f0f0ff0f0f0f0 | (l9 >> 36) | (r9 << 36))

	return full[0] & full[1] & full[2] & full[3]
}

// getStableByContact grows a stable set by fixpoint iteration: a square
// outside the edges becomes stable once each of its four lines is
// either full or has an already-stable neighbour on at least one side.
func getStableByContact(centralMask, previousStable uint64, full *[4]uint64) uint64 {
	stable := previousStable
	oldStable := uint64(0)

	for stable != oldStable {
		oldStable = stable
		stableH := (stable >> 1) | (stable << 1) | full[0]
		stableV := (stable >> 8) | (stable << 8) | full[1]
		stableD7 := (stable >> 7) | (stable << 7) | full[2]
		stableD9 := (stable >> 9) | (stable << 9) | full[3]
		stable |= stableH & stableV & stableD7 & stableD9 & centralMask
	}
	return stable
}

// GetStableDiscs returns the set of squares in p that cannot be
// flipped under any continuation of the game.
func GetStableDiscs(p, o uint64) uint64 {
	centralMask := p & 0x007e7e7e7e7e7e00
	var full [4]uint64

	stable := getStableEdge(p, o)
	stable |= getFullLines(p|o, &full) & centralMask

	return getStableByContact(centralMask, stable, &full)
}

// nwsStabilityThreshold mirrors stability.rs's NWS_STABILITY_THRESHOLD:
// the minimum alpha, at a given empty-square count, for which a pure
// stability bound can possibly produce a cutoff.
var nwsStabilityThreshold = [64]int32{
	99, 99, 99, 99, 6, 8, 10, 12,
	14, 16, 20, 22, 24, 26, 28, 30,
	32, 34, 36, 38, 40, 42, 44, 46,
	48, 48, 50, 50, 52, 52, 54, 54,
	56, 56, 58, 58, 60, 60, 62, 62,
	64, 64, 64, 64, 64, 64, 64, 64,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// Cutoff attempts a null-window stability cutoff at a node with
// nEmpties empty squares and the given alpha bound: if the opponent's
// stable-disc count already guarantees a final score at or below alpha,
// search can stop early and return that bound.
func Cutoff(b reversi.Board, nEmpties int, alpha reversi.Score) (reversi.Score, bool) {
	if int(alpha) >= int(nwsStabilityThreshold[nEmpties]) {
		switched := b.SwitchPlayers()
		stability := reversi.PopCount(GetStableDiscs(switched.Player, switched.Opponent))
		score := reversi.ScoreMax - 2*reversi.Score(stability)
		if score <= alpha {
			return score, true
		}
	}
	return 0, false
}
