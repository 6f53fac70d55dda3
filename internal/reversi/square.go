// Package reversi implements the Reversi (Othello) board representation:
// squares, bitboard move/flip primitives, the board and game state, the
// empty-square walker, and move lists.
package reversi

import (
	"fmt"
	"strings"
)

// Square is a board square, 0-63 in row-major order (A1=0, H1=7, A8=56,
// H8=63), plus the sentinel None.
type Square uint8

// Square constants for all 64 squares plus the sentinel.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	// None is the sentinel "no square" value. It is NOT the zero value —
	// Default below sets it explicitly, since the zero value A1 is a real
	// square.
	None
)

// Default is the square used for a not-yet-decided best move, etc. It is
// explicitly None, not the Go zero value of Square (which would be A1).
const Default Square = None

// Index returns the 0-63 index, or 64 for None.
func (s Square) Index() int { return int(s) }

// Bitboard returns the single-bit mask for this square, or 0 for None.
func (s Square) Bitboard() uint64 {
	if s >= None {
		return 0
	}
	return uint64(1) << uint(s)
}

// File returns the 0-7 file (column) of the square.
func (s Square) File() int { return int(s) % 8 }

// Rank returns the 0-7 rank (row) of the square.
func (s Square) Rank() int { return int(s) / 8 }

// FromIndex builds a Square from a 0-64 index (64 == None).
func FromIndex(i int) Square {
	if i < 0 || i > 64 {
		return None
	}
	return Square(i)
}

// String formats the square as "a1".."h8", or "None" for the sentinel.
func (s Square) String() string {
	if s >= None {
		return "None"
	}
	return fmt.Sprintf("%c%d", 'a'+rune(s.File()), s.Rank()+1)
}

// ParseSquare parses "a1".."h8" (case-insensitive) into a Square.
func ParseSquare(s string) (Square, error) {
	if strings.EqualFold(s, "none") {
		return None, nil
	}
	if len(s) != 2 {
		return None, fmt.Errorf("reversi: invalid square notation %q", s)
	}
	file := s[0] | 0x20 // lowercase
	rank := s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return None, fmt.Errorf("reversi: invalid square notation %q", s)
	}
	return Square(int(rank-'1')*8 + int(file-'a')), nil
}
