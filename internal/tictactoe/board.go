package tictactoe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BoardSize is the number of cells on the 3x3 grid, indexed row-major from 0.
const BoardSize = 9

// Mark is the content of a single cell.
type Mark string

const (
	Empty   Mark = ""
	PlayerX Mark = "X"
	PlayerO Mark = "O"
)

var (
	ErrInvalidIndex = errors.New("invalid cell index")
	ErrIllegalMove  = errors.New("illegal move")
	ErrInvalidMark  = errors.New("invalid mark")
	ErrUnreachable  = errors.New("unreachable position")

	// WinCombos lists the rows, columns and diagonals that win when uniformly marked.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Valid reports whether the mark belongs to a player.
func (m Mark) Valid() bool {
	return m == PlayerX || m == PlayerO
}

// Opponent returns the other player's mark, or Empty for anything that is not a player.
func Opponent(mark Mark) Mark {
	switch mark {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

// Board is the authoritative position of a game. Every mutation is explicit and can be undone.
type Board struct {
	cells [BoardSize]Mark
}

func NewBoard() *Board {
	return &Board{}
}

// BoardFrom builds a board from raw cells, rejecting anything but X, O and Empty.
func BoardFrom(cells [BoardSize]Mark) (*Board, error) {
	for i, cell := range cells {
		if cell != Empty && !cell.Valid() {
			return nil, fmt.Errorf("%w: %q at cell %d", ErrInvalidMark, cell, i)
		}
	}

	return &Board{cells: cells}, nil
}

func (that *Board) Cells() [BoardSize]Mark {
	return that.cells
}

func (that *Board) Clone() *Board {
	clone := *that
	return &clone
}

func (that *Board) Cell(index int) (Mark, error) {
	if err := validateIndex(index); err != nil {
		return Empty, err
	}

	return that.cells[index], nil
}

func (that *Board) IsOccupied(index int) (bool, error) {
	if err := validateIndex(index); err != nil {
		return false, err
	}

	return that.cells[index] != Empty, nil
}

// Place marks an empty cell.
func (that *Board) Place(index int, mark Mark) error {
	occupied, err := that.IsOccupied(index)
	if err != nil {
		return err
	}

	if !mark.Valid() {
		return fmt.Errorf("%w: cannot place %q", ErrIllegalMove, mark)
	}

	if occupied {
		return fmt.Errorf("%w: cell %d is already occupied", ErrIllegalMove, index)
	}

	that.cells[index] = mark

	return nil
}

// Undo resets a cell to Empty. It is meant for backtracking during search only.
func (that *Board) Undo(index int) error {
	if err := validateIndex(index); err != nil {
		return err
	}

	that.cells[index] = Empty

	return nil
}

// HasWinner returns the mark of the first uniformly marked win combo.
func (that *Board) HasWinner() (Mark, bool) {
	for _, combo := range WinCombos {
		a, b, c := that.cells[combo[0]], that.cells[combo[1]], that.cells[combo[2]]
		if a != Empty && a == b && b == c {
			return a, true
		}
	}

	return Empty, false
}

// Reachable rejects positions that alternating moves cannot produce: mark counts more
// than one apart, or a completed line for both players.
func (that *Board) Reachable() error {
	var xs, os int
	for _, cell := range that.cells {
		switch cell {
		case PlayerX:
			xs++
		case PlayerO:
			os++
		}
	}

	if xs-os > 1 || os-xs > 1 {
		return fmt.Errorf("%w: %d X against %d O", ErrUnreachable, xs, os)
	}

	var xLine, oLine bool
	for _, combo := range WinCombos {
		a, b, c := that.cells[combo[0]], that.cells[combo[1]], that.cells[combo[2]]
		if a == Empty || a != b || b != c {
			continue
		}

		if a == PlayerX {
			xLine = true
		} else {
			oLine = true
		}
	}

	if xLine && oLine {
		return fmt.Errorf("%w: both players completed a line", ErrUnreachable)
	}

	return nil
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == Empty {
			return false
		}
	}

	return true
}

func (that *Board) IsTerminal() bool {
	if _, ok := that.HasWinner(); ok {
		return true
	}

	return that.IsFull()
}

// LegalMoves returns the empty cells in ascending order.
func (that *Board) LegalMoves() []int {
	moves := make([]int, 0, BoardSize)
	for i, cell := range that.cells {
		if cell == Empty {
			moves = append(moves, i)
		}
	}

	return moves
}

func (that *Board) OccupiedCount() int {
	count := 0
	for _, cell := range that.cells {
		if cell != Empty {
			count++
		}
	}

	return count
}

// String renders the grid with the 1-9 position labels in empty cells.
func (that *Board) String() string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---|---|---\n")
		}

		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteByte('|')
			}

			sb.WriteByte(' ')
			sb.WriteString(Label(that.cells[row*3+col], row*3+col))
			sb.WriteByte(' ')
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}

// Label is what a cell shows on screen: its mark, or its 1-based position when empty.
func Label(mark Mark, index int) string {
	if mark == Empty {
		return strconv.Itoa(index + 1)
	}

	return string(mark)
}

func validateIndex(index int) error {
	if index < 0 || index >= BoardSize {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}

	return nil
}
