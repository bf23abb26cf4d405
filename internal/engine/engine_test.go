package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridclash/gridclash-backend/internal/apperror"
	"github.com/gridclash/gridclash-backend/internal/entity"
)

func emptyBoard(variant entity.Variant) []string {
	return make([]string, variant.BoardSize())
}

func TestApplyMove_ConnectThree(t *testing.T) {
	t.Run("Places the mark on a free cell", func(t *testing.T) {
		// Given: an empty 3x3 board
		board := emptyBoard(entity.VariantConnectThree)

		// When: X plays the center cell
		cell, err := ApplyMove(board, entity.VariantConnectThree, entity.MarkX, 4)

		// Then: the mark lands exactly there
		require.NoError(t, err)
		assert.Equal(t, 4, cell)
		assert.Equal(t, entity.MarkX, board[4])
	})

	t.Run("Rejects an occupied cell and leaves the board unchanged", func(t *testing.T) {
		// Given: a board with the center taken
		board := emptyBoard(entity.VariantConnectThree)
		board[4] = entity.MarkO

		// When: X plays the same cell
		_, err := ApplyMove(board, entity.VariantConnectThree, entity.MarkX, 4)

		// Then: the move is rejected and the cell keeps its owner
		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.MarkO, board[4])
	})

	t.Run("Rejects out of range targets", func(t *testing.T) {
		board := emptyBoard(entity.VariantConnectThree)

		for _, target := range []int{-1, 9, 100} {
			_, err := ApplyMove(board, entity.VariantConnectThree, entity.MarkX, target)
			assert.ErrorIs(t, err, apperror.ErrInvalidTarget)
		}

		for _, cell := range board {
			assert.Equal(t, entity.EmptyCell, cell)
		}
	})
}

func TestApplyMove_ConnectFour(t *testing.T) {
	t.Run("Drops the mark to the lowest empty row of the column", func(t *testing.T) {
		// Given: an empty drop board
		board := emptyBoard(entity.VariantConnectFour)

		// When: X drops into column 3
		cell, err := ApplyMove(board, entity.VariantConnectFour, entity.MarkX, 3)

		// Then: the mark lands on the bottom row
		require.NoError(t, err)
		assert.Equal(t, 5*entity.ConnectFourCols+3, cell)
	})

	t.Run("Stacks consecutive drops upward", func(t *testing.T) {
		// Given: a board where column 0 already holds one mark
		board := emptyBoard(entity.VariantConnectFour)
		_, err := ApplyMove(board, entity.VariantConnectFour, entity.MarkX, 0)
		require.NoError(t, err)

		// When: O drops into the same column
		cell, err := ApplyMove(board, entity.VariantConnectFour, entity.MarkO, 0)

		// Then: the new mark sits one row above the first
		require.NoError(t, err)
		assert.Equal(t, 4*entity.ConnectFourCols, cell)
	})

	t.Run("Rejects a full column and leaves the board unchanged", func(t *testing.T) {
		// Given: column 6 filled top to bottom
		board := emptyBoard(entity.VariantConnectFour)
		for i := 0; i < entity.ConnectFourRows; i++ {
			_, err := ApplyMove(board, entity.VariantConnectFour, entity.MarkX, 6)
			require.NoError(t, err)
		}
		snapshot := append([]string(nil), board...)

		// When: another drop targets the same column
		_, err := ApplyMove(board, entity.VariantConnectFour, entity.MarkO, 6)

		// Then: the move is rejected and nothing moved
		assert.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Equal(t, snapshot, board)
	})

	t.Run("Rejects out of range columns", func(t *testing.T) {
		board := emptyBoard(entity.VariantConnectFour)

		for _, column := range []int{-1, 7, 42} {
			_, err := ApplyMove(board, entity.VariantConnectFour, entity.MarkX, column)
			assert.ErrorIs(t, err, apperror.ErrInvalidTarget)
		}
	})
}

func TestDetectOutcome_ConnectThree(t *testing.T) {
	t.Run("Detects every fixed winning triple", func(t *testing.T) {
		for _, triple := range winTriples {
			board := emptyBoard(entity.VariantConnectThree)
			for _, cell := range triple {
				board[cell] = entity.MarkX
			}

			outcome := DetectOutcome(board, entity.VariantConnectThree, entity.MarkX, triple[2])

			assert.Equal(t, OutcomeWin, outcome.Kind)
			assert.Equal(t, []int{triple[0], triple[1], triple[2]}, outcome.Line)
		}
	})

	t.Run("Returns draw when the board is full without a winner", func(t *testing.T) {
		// Given: a full board with no uniform triple
		board := []string{
			entity.MarkX, entity.MarkO, entity.MarkX,
			entity.MarkO, entity.MarkX, entity.MarkO,
			entity.MarkO, entity.MarkX, entity.MarkO,
		}

		outcome := DetectOutcome(board, entity.VariantConnectThree, entity.MarkO, 8)

		assert.Equal(t, OutcomeDraw, outcome.Kind)
		assert.Nil(t, outcome.Line)
	})

	t.Run("Returns ongoing while empty cells remain", func(t *testing.T) {
		board := emptyBoard(entity.VariantConnectThree)
		board[0] = entity.MarkX

		outcome := DetectOutcome(board, entity.VariantConnectThree, entity.MarkX, 0)

		assert.Equal(t, OutcomeOngoing, outcome.Kind)
	})

	t.Run("Does not credit the opponent's triple to the mover", func(t *testing.T) {
		// Given: O holds a triple, X just moved elsewhere
		board := emptyBoard(entity.VariantConnectThree)
		board[0], board[1], board[2] = entity.MarkO, entity.MarkO, entity.MarkO
		board[4] = entity.MarkX

		outcome := DetectOutcome(board, entity.VariantConnectThree, entity.MarkX, 4)

		assert.Equal(t, OutcomeOngoing, outcome.Kind)
	})
}

func TestDetectOutcome_ConnectFour(t *testing.T) {
	drop := func(t *testing.T, board []string, mark string, column int) int {
		t.Helper()
		cell, err := ApplyMove(board, entity.VariantConnectFour, mark, column)
		require.NoError(t, err)
		return cell
	}

	t.Run("Detects a vertical run with the line in ascending order", func(t *testing.T) {
		// Given: X and O alternating, X stacking column 3
		board := emptyBoard(entity.VariantConnectFour)
		var last int
		for i := 0; i < 4; i++ {
			last = drop(t, board, entity.MarkX, 3)
			if i < 3 {
				drop(t, board, entity.MarkO, 0)
			}
		}

		// When: inspecting after X's fourth drop
		outcome := DetectOutcome(board, entity.VariantConnectFour, entity.MarkX, last)

		// Then: the four stacked cells win, sorted ascending
		require.Equal(t, OutcomeWin, outcome.Kind)
		expected := []int{
			2*entity.ConnectFourCols + 3,
			3*entity.ConnectFourCols + 3,
			4*entity.ConnectFourCols + 3,
			5*entity.ConnectFourCols + 3,
		}
		assert.Equal(t, expected, outcome.Line)
	})

	t.Run("Detects a horizontal run completed from the middle", func(t *testing.T) {
		// Given: X on bottom-row columns 0,1,3 and the gap at 2
		board := emptyBoard(entity.VariantConnectFour)
		drop(t, board, entity.MarkX, 0)
		drop(t, board, entity.MarkX, 1)
		drop(t, board, entity.MarkX, 3)

		// When: X fills the gap
		last := drop(t, board, entity.MarkX, 2)
		outcome := DetectOutcome(board, entity.VariantConnectFour, entity.MarkX, last)

		// Then: the run spans columns 0 through 3 of the bottom row
		require.Equal(t, OutcomeWin, outcome.Kind)
		base := 5 * entity.ConnectFourCols
		assert.Equal(t, []int{base, base + 1, base + 2, base + 3}, outcome.Line)
	})

	t.Run("Detects a diagonal run", func(t *testing.T) {
		// Given: a staircase for X on columns 0-3
		board := emptyBoard(entity.VariantConnectFour)
		drop(t, board, entity.MarkX, 0)

		drop(t, board, entity.MarkO, 1)
		drop(t, board, entity.MarkX, 1)

		drop(t, board, entity.MarkO, 2)
		drop(t, board, entity.MarkO, 2)
		drop(t, board, entity.MarkX, 2)

		drop(t, board, entity.MarkO, 3)
		drop(t, board, entity.MarkO, 3)
		drop(t, board, entity.MarkO, 3)

		// When: X tops the staircase
		last := drop(t, board, entity.MarkX, 3)
		outcome := DetectOutcome(board, entity.VariantConnectFour, entity.MarkX, last)

		// Then: the rising diagonal wins
		require.Equal(t, OutcomeWin, outcome.Kind)
		expected := []int{
			2*entity.ConnectFourCols + 3,
			3*entity.ConnectFourCols + 2,
			4*entity.ConnectFourCols + 1,
			5 * entity.ConnectFourCols,
		}
		assert.Equal(t, expected, outcome.Line)
	})

	t.Run("Three in a row is not enough", func(t *testing.T) {
		board := emptyBoard(entity.VariantConnectFour)
		drop(t, board, entity.MarkX, 0)
		drop(t, board, entity.MarkX, 1)
		last := drop(t, board, entity.MarkX, 2)

		outcome := DetectOutcome(board, entity.VariantConnectFour, entity.MarkX, last)

		assert.Equal(t, OutcomeOngoing, outcome.Kind)
	})

	t.Run("Determinism: identical inputs yield identical outcomes", func(t *testing.T) {
		board := emptyBoard(entity.VariantConnectFour)
		drop(t, board, entity.MarkX, 0)
		drop(t, board, entity.MarkX, 1)
		drop(t, board, entity.MarkX, 3)
		last := drop(t, board, entity.MarkX, 2)

		first := DetectOutcome(board, entity.VariantConnectFour, entity.MarkX, last)
		second := DetectOutcome(board, entity.VariantConnectFour, entity.MarkX, last)

		assert.Equal(t, first, second)
	})
}
