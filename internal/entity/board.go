package entity

import (
	"fmt"

	"github.com/dropfour/connectfour-backend/internal/apperror"
)

const (
	BoardRows = 6
	BoardCols = 7

	winLength = 4
)

const (
	EmptyCell  = "blank"
	PlayerBlue = "blue"
	PlayerRed  = "red"

	// PlayerTie marks a finished game where the board filled up with no winner.
	PlayerTie = "-"
)

// Board is a gravity grid of cells. Row 0 is the top row, so pieces
// land at the highest free row index of a column.
type Board struct {
	Cells [][]string `json:"cells"`
}

func NewBoard(rows, cols int) Board {
	cells := make([][]string, rows)
	for row := range cells {
		cells[row] = make([]string, cols)
		for col := range cells[row] {
			cells[row][col] = EmptyCell
		}
	}

	return Board{Cells: cells}
}

func (that *Board) Rows() int {
	return len(that.Cells)
}

func (that *Board) Cols() int {
	if len(that.Cells) == 0 {
		return 0
	}
	return len(that.Cells[0])
}

// Drop places a mark into the lowest empty cell of the column and
// returns the row it landed in.
func (that *Board) Drop(column int, mark string) (int, error) {
	if column < 0 || column >= that.Cols() {
		return 0, fmt.Errorf("%w: column %d", apperror.ErrColumnOutOfRange, column)
	}

	for row := that.Rows() - 1; row >= 0; row-- {
		if that.Cells[row][column] == EmptyCell {
			that.Cells[row][column] = mark
			return row, nil
		}
	}

	return 0, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
}

// Evaluate reports the board outcome: the winning mark if any run of four
// exists, PlayerTie when the top row is full without a winner, or ""
// while the game can continue. The win check runs before the full-board
// check because a winning move can also fill the board. Scan order is
// fixed (rows, columns, down-right diagonals, down-left diagonals).
func (that *Board) Evaluate() string {
	if winner := that.findWinner(); winner != EmptyCell {
		return winner
	}

	for _, cell := range that.Cells[0] {
		if cell == EmptyCell {
			return ""
		}
	}

	return PlayerTie
}

func (that *Board) findWinner() string {
	directions := [][2]int{
		{0, 1},  // rows
		{1, 0},  // columns
		{1, 1},  // diagonal down-right
		{1, -1}, // diagonal down-left
	}

	for _, dir := range directions {
		for row := 0; row < that.Rows(); row++ {
			for col := 0; col < that.Cols(); col++ {
				if mark := that.runAt(row, col, dir[0], dir[1]); mark != EmptyCell {
					return mark
				}
			}
		}
	}

	return EmptyCell
}

// runAt checks whether a full winning run starts at (row, col) in the
// given direction.
func (that *Board) runAt(row, col, rowDelta, colDelta int) string {
	mark := that.Cells[row][col]
	if mark == EmptyCell {
		return EmptyCell
	}

	endRow := row + (winLength-1)*rowDelta
	endCol := col + (winLength-1)*colDelta
	if endRow < 0 || endRow >= that.Rows() || endCol < 0 || endCol >= that.Cols() {
		return EmptyCell
	}

	for step := 1; step < winLength; step++ {
		if that.Cells[row+step*rowDelta][col+step*colDelta] != mark {
			return EmptyCell
		}
	}

	return mark
}
