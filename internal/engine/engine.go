package engine

import (
	"fmt"
	"slices"

	"github.com/gridclash/gridclash-backend/internal/apperror"
	"github.com/gridclash/gridclash-backend/internal/entity"
)

// winTriples are the eight uniform lines on the 3x3 board.
var winTriples = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// connectFourAxes are the four run directions as (row, col) deltas; each is
// walked in both signs from the placed cell.
var connectFourAxes = [4][2]int{
	{0, 1}, // horizontal
	{1, 0}, // vertical
	{1, 1},
	{1, -1},
}

const connectFourRunLength = 4

type OutcomeKind int

const (
	OutcomeOngoing OutcomeKind = iota
	OutcomeWin
	OutcomeDraw
)

// Outcome is the result of inspecting a board after a move. Line is the
// winning run's cell indices in ascending order, present only for wins.
type Outcome struct {
	Kind OutcomeKind
	Line []int
}

// ApplyMove places the mark on the board and returns the index of the cell it
// landed in. For ConnectThree the target is a cell index; for ConnectFour it
// is a column and the mark falls to the lowest empty row. The board is left
// untouched when the move is rejected.
func ApplyMove(board []string, variant entity.Variant, mark string, target int) (int, error) {
	switch variant {
	case entity.VariantConnectFour:
		return dropIntoColumn(board, mark, target)
	default:
		return placeOnCell(board, mark, target)
	}
}

func placeOnCell(board []string, mark string, cell int) (int, error) {
	if cell < 0 || cell >= len(board) {
		return 0, fmt.Errorf("%w: cell %d", apperror.ErrInvalidTarget, cell)
	}

	if board[cell] != entity.EmptyCell {
		return 0, apperror.ErrCellOccupied
	}

	board[cell] = mark

	return cell, nil
}

func dropIntoColumn(board []string, mark string, column int) (int, error) {
	if column < 0 || column >= entity.ConnectFourCols {
		return 0, fmt.Errorf("%w: column %d", apperror.ErrInvalidTarget, column)
	}

	for row := entity.ConnectFourRows - 1; row >= 0; row-- {
		cell := row*entity.ConnectFourCols + column
		if board[cell] == entity.EmptyCell {
			board[cell] = mark
			return cell, nil
		}
	}

	return 0, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
}

// DetectOutcome inspects the board after the mark was placed on lastCell.
// Identical inputs always yield identical outcomes.
func DetectOutcome(board []string, variant entity.Variant, mark string, lastCell int) Outcome {
	var line []int

	switch variant {
	case entity.VariantConnectFour:
		line = connectFourRun(board, mark, lastCell)
	default:
		line = connectThreeLine(board, mark)
	}

	if line != nil {
		return Outcome{Kind: OutcomeWin, Line: line}
	}

	if slices.Contains(board, entity.EmptyCell) {
		return Outcome{Kind: OutcomeOngoing}
	}

	return Outcome{Kind: OutcomeDraw}
}

func connectThreeLine(board []string, mark string) []int {
	for _, triple := range winTriples {
		if board[triple[0]] == mark && board[triple[1]] == mark && board[triple[2]] == mark {
			return []int{triple[0], triple[1], triple[2]}
		}
	}

	return nil
}

// connectFourRun walks outward from the placed cell along each axis, in both
// directions, collecting contiguous same-mark cells. The first axis whose run
// reaches four wins.
func connectFourRun(board []string, mark string, lastCell int) []int {
	row := lastCell / entity.ConnectFourCols
	col := lastCell % entity.ConnectFourCols

	for _, axis := range connectFourAxes {
		run := []int{lastCell}

		for _, sign := range []int{1, -1} {
			r, c := row+axis[0]*sign, col+axis[1]*sign
			for r >= 0 && r < entity.ConnectFourRows && c >= 0 && c < entity.ConnectFourCols {
				cell := r*entity.ConnectFourCols + c
				if board[cell] != mark {
					break
				}

				run = append(run, cell)
				r, c = r+axis[0]*sign, c+axis[1]*sign
			}
		}

		if len(run) >= connectFourRunLength {
			slices.Sort(run)
			return run
		}
	}

	return nil
}
