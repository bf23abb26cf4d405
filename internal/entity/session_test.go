package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	t.Run("Seats the creator on the first mark and waits", func(t *testing.T) {
		// Given / When: a fresh connect-three session
		session := NewSession("abc123", VariantConnectThree, "alice")

		// Then: creator holds X, board is empty, phase is waiting
		assert.Equal(t, "alice", session.Seats[MarkX])
		assert.Equal(t, StatusWaiting, session.Status)
		assert.Equal(t, MarkX, session.Turn)
		assert.Equal(t, MarkX, session.Starter)
		assert.Len(t, session.Board, ConnectThreeCells)
		for _, cell := range session.Board {
			assert.Equal(t, EmptyCell, cell)
		}
	})

	t.Run("Sizes the board by variant", func(t *testing.T) {
		session := NewSession("abc123", VariantConnectFour, "alice")

		assert.Len(t, session.Board, ConnectFourCells)
	})
}

func TestSession_MarkOf(t *testing.T) {
	session := NewSession("abc123", VariantConnectThree, "alice")
	session.Seats[MarkO] = "bob"

	t.Run("Resolves both seats", func(t *testing.T) {
		mark, ok := session.MarkOf("alice")
		require.True(t, ok)
		assert.Equal(t, MarkX, mark)

		mark, ok = session.MarkOf("bob")
		require.True(t, ok)
		assert.Equal(t, MarkO, mark)
	})

	t.Run("Rejects strangers", func(t *testing.T) {
		_, ok := session.MarkOf("mallory")
		assert.False(t, ok)
	})
}

func TestSession_Opponent(t *testing.T) {
	t.Run("Returns the other seated identity", func(t *testing.T) {
		session := NewSession("abc123", VariantConnectThree, "alice")
		session.Seats[MarkO] = "bob"

		opponent, ok := session.Opponent("alice")

		require.True(t, ok)
		assert.Equal(t, "bob", opponent)
	})

	t.Run("Reports no opponent while waiting", func(t *testing.T) {
		session := NewSession("abc123", VariantConnectThree, "alice")

		_, ok := session.Opponent("alice")

		assert.False(t, ok)
	})
}

func TestSession_ResetRound(t *testing.T) {
	t.Run("Starter alternates every reset and the board clears", func(t *testing.T) {
		// Given: a finished session with a decided board
		session := NewSession("abc123", VariantConnectThree, "alice")
		session.Seats[MarkO] = "bob"
		session.Status = StatusFinished
		session.Winner = MarkX
		session.Board[0] = MarkX
		session.RematchVotes["alice"] = struct{}{}

		// When: the round resets
		session.ResetRound()

		// Then: O opens the new round on an empty playing board
		assert.Equal(t, StatusPlaying, session.Status)
		assert.Equal(t, MarkO, session.Starter)
		assert.Equal(t, MarkO, session.Turn)
		assert.Empty(t, session.Winner)
		assert.Nil(t, session.WinningLine)
		assert.Empty(t, session.RematchVotes)
		for _, cell := range session.Board {
			assert.Equal(t, EmptyCell, cell)
		}

		// And: after a second reset the starter is back to X
		session.ResetRound()
		assert.Equal(t, MarkX, session.Starter)
	})
}

func TestSession_HasRematchConsensus(t *testing.T) {
	session := NewSession("abc123", VariantConnectThree, "alice")
	session.Seats[MarkO] = "bob"

	t.Run("No votes means no consensus", func(t *testing.T) {
		assert.False(t, session.HasRematchConsensus())
	})

	t.Run("One vote is not consensus", func(t *testing.T) {
		session.RematchVotes["alice"] = struct{}{}
		assert.False(t, session.HasRematchConsensus())
	})

	t.Run("Both seats voting is consensus", func(t *testing.T) {
		session.RematchVotes["bob"] = struct{}{}
		assert.True(t, session.HasRematchConsensus())
	})

	t.Run("A lone seat can never reach consensus", func(t *testing.T) {
		solo := NewSession("def456", VariantConnectThree, "carol")
		solo.RematchVotes["carol"] = struct{}{}
		assert.False(t, solo.HasRematchConsensus())
	})
}

func TestSession_Vacate(t *testing.T) {
	t.Run("Frees the seat and forgets the vote", func(t *testing.T) {
		session := NewSession("abc123", VariantConnectThree, "alice")
		session.Seats[MarkO] = "bob"
		session.RematchVotes["bob"] = struct{}{}

		session.Vacate("bob")

		_, seated := session.MarkOf("bob")
		assert.False(t, seated)
		assert.NotContains(t, session.RematchVotes, "bob")
		assert.Equal(t, "alice", session.Seats[MarkX])
	})
}

func TestToggleMark(t *testing.T) {
	assert.Equal(t, MarkO, ToggleMark(MarkX))
	assert.Equal(t, MarkX, ToggleMark(MarkO))
}
