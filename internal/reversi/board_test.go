package reversi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStateUndoRoundTrip(t *testing.T) {
	g := NewGameState()
	startBoard := g.Board
	startMover := g.BlackToMove

	seq := []Square{C4, D3, C3, C5, D6}
	played := 0
	for _, sq := range seq {
		if err := g.Play(sq); err == nil {
			played++
		}
	}
	require.Greater(t, played, 0)

	for i := 0; i < played; i++ {
		g.Undo()
	}
	assert.Equal(t, startBoard, g.Board)
	assert.Equal(t, startMover, g.BlackToMove)
}

func TestPassSemantics(t *testing.T) {
	// A position where the side to move has no legal move but the
	// opponent does: after SwitchPlayers (a pass) the opponent can play
	// C1, flipping B1.
	b := Board{
		Player:   B1.Bitboard(),
		Opponent: A1.Bitboard(),
	}
	assert.False(t, b.HasLegalMoves())
	assert.True(t, b.SwitchPlayers().HasLegalMoves())
}

func TestTerminalScoreIsExactDiscDifference(t *testing.T) {
	// Fully occupied board: 40 player discs, 24 opponent discs.
	var player, opponent uint64
	for sq := Square(0); sq < 40; sq++ {
		player |= sq.Bitboard()
	}
	for sq := Square(40); sq < 64; sq++ {
		opponent |= sq.Bitboard()
	}
	b := Board{Player: player, Opponent: opponent}
	assert.Equal(t, Score(40-24), b.Score())
}

func TestHashIsStableAndSensitive(t *testing.T) {
	a := NewGame()
	b := NewGame()
	assert.Equal(t, a.Hash(), b.Hash())

	c, err := a.Play(C4)
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash(), c.Hash())
}
