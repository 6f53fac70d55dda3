package reversi

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Board is the mover-relative position: player discs, opponent discs, and
// (implicitly) empty squares as the complement of their union.
//
// Invariant: Player&Opponent == 0.
type Board struct {
	Player   uint64
	Opponent uint64
}

// NewGame returns the standard Reversi starting position, black to move.
func NewGame() Board {
	return Board{
		Player:   E4.Bitboard() | D5.Bitboard(),
		Opponent: D4.Bitboard() | E5.Bitboard(),
	}
}

// EmptySquares returns the bitmask of empty squares.
func (b Board) EmptySquares() uint64 { return ^(b.Player | b.Opponent) }

// EmptyCount returns the number of empty squares.
func (b Board) EmptyCount() int { return PopCount(b.EmptySquares()) }

// GetMoves returns the legal-move bitmask for the side to move.
func (b Board) GetMoves() uint64 { return GetMoves(b.Player, b.Opponent) }

// HasLegalMoves reports whether the mover has any legal move.
func (b Board) HasLegalMoves() bool { return b.GetMoves() != 0 }

// Flip returns the flip mask for playing sq, or 0 if illegal.
func (b Board) Flip(sq Square) uint64 { return Flip(sq, b.Player, b.Opponent) }

// MakeMove returns the board after playing sq with the supplied flip
// mask, from the next mover's perspective.
func (b Board) MakeMove(sq Square, flipped uint64) Board {
	p, o := MakeMove(sq, b.Player, b.Opponent, flipped)
	return Board{Player: p, Opponent: o}
}

// Play looks up the flip mask for sq and applies it. Returns an error
// if the move is illegal; inner search code never calls this, it calls
// MakeMove directly once flip masks are already known.
func (b Board) Play(sq Square) (Board, error) {
	flipped := b.Flip(sq)
	if flipped == 0 {
		return b, fmt.Errorf("reversi: illegal move %s", sq)
	}
	return b.MakeMove(sq, flipped), nil
}

// SwitchPlayers swaps player/opponent, used to record a pass.
func (b Board) SwitchPlayers() Board {
	return Board{Player: b.Opponent, Opponent: b.Player}
}

// Score returns the disc-difference score from the mover's perspective.
// If the game is not yet over (both sides still have a move) this is
// only meaningful as a terminal evaluation; callers must check
// HasLegalMoves first.
func (b Board) Score() Score {
	p := PopCount(b.Player)
	o := PopCount(b.Opponent)
	e := b.EmptyCount()
	if p+o == 64 {
		return Score(p - o)
	}
	// Empties are credited to whichever side is ahead (standard Reversi
	// terminal scoring rule), matching the "exact disc difference" law.
	switch {
	case p > o:
		return Score(p - o + e)
	case o > p:
		return Score(p - o - e)
	default:
		return Score(p - o)
	}
}

// Hash returns a fast 64-bit position hash (player||opponent via
// xxhash), used as the transposition-table key and the evaluator's score
// cache key. Substitutes for the original engine's rapidhash, which has
// no Go port in the example pack.
func (b Board) Hash() uint64 {
	var buf [16]byte
	putU64(buf[0:8], b.Player)
	putU64(buf[8:16], b.Opponent)
	return xxhash.Sum64(buf[:])
}

func putU64(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}

// Rotate90 returns the board rotated 90 degrees clockwise.
func (b Board) Rotate90() Board {
	p, o := Rotate90(b.Player, b.Opponent)
	return Board{Player: p, Opponent: o}
}

// FlipVertical returns the board mirrored top-to-bottom.
func (b Board) FlipVertical() Board {
	p, o := FlipVertical(b.Player, b.Opponent)
	return Board{Player: p, Opponent: o}
}

// FlipHorizontal returns the board mirrored left-to-right.
func (b Board) FlipHorizontal() Board {
	p, o := FlipHorizontal(b.Player, b.Opponent)
	return Board{Player: p, Opponent: o}
}

// FlipDiagA1H8 returns the board transposed across the a1-h8 diagonal.
func (b Board) FlipDiagA1H8() Board {
	p, o := FlipDiagA1H8(b.Player, b.Opponent)
	return Board{Player: p, Opponent: o}
}

// FlipDiagA8H1 returns the board transposed across the a8-h1 diagonal.
func (b Board) FlipDiagA8H1() Board {
	p, o := FlipDiagA8H1(b.Player, b.Opponent)
	return Board{Player: p, Opponent: o}
}

// GameState owns the current board, the mover's colour flag, and an undo
// history so that a sequence of moves (including automatic passes) can be
// unwound bit-for-bit.
type GameState struct {
	Board        Board
	BlackToMove  bool
	history      []undoRecord
}

type undoRecord struct {
	wasPass     bool
	sq          Square
	preBoard    Board
	preMover    bool
}

// NewGameState returns the standard starting position, black to move.
func NewGameState() *GameState {
	return &GameState{Board: NewGame(), BlackToMove: true}
}

// IsTerminal reports whether neither side has a legal move.
func (g *GameState) IsTerminal() bool {
	if g.Board.HasLegalMoves() {
		return false
	}
	return !g.Board.SwitchPlayers().HasLegalMoves()
}

// Play applies a move for the side to move, automatically recording and
// applying a pass if the opponent then has no reply.
func (g *GameState) Play(sq Square) error {
	next, err := g.Board.Play(sq)
	if err != nil {
		return err
	}
	g.history = append(g.history, undoRecord{sq: sq, preBoard: g.Board, preMover: g.BlackToMove})
	g.Board = next
	g.BlackToMove = !g.BlackToMove

	if !g.Board.HasLegalMoves() && g.Board.SwitchPlayers().HasLegalMoves() {
		g.history = append(g.history, undoRecord{wasPass: true, preBoard: g.Board, preMover: g.BlackToMove})
		g.Board = g.Board.SwitchPlayers()
		g.BlackToMove = !g.BlackToMove
	}
	return nil
}

// Undo reverses the most recent Play, including any automatic pass it
// triggered, restoring a bit-identical board and mover.
func (g *GameState) Undo() {
	for len(g.history) > 0 {
		last := g.history[len(g.history)-1]
		g.history = g.history[:len(g.history)-1]
		g.Board = last.preBoard
		g.BlackToMove = last.preMover
		if !last.wasPass {
			return
		}
	}
}
