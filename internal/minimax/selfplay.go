package minimax

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// Ply is one applied move.
type Ply struct {
	Mark tictactoe.Mark `json:"mark"`
	Cell int            `json:"cell"`
}

type Match struct {
	Plies   []Ply             `json:"plies"`
	Outcome tictactoe.Outcome `json:"outcome"`
}

// SelfPlay lets the engine play both sides from the given board, first to move holding first,
// until the game is over. The board is played on in place.
func (that *Engine) SelfPlay(board *tictactoe.Board, first tictactoe.Mark) (Match, error) {
	if !first.Valid() {
		return Match{}, fmt.Errorf("%w: %q cannot move first", tictactoe.ErrInvalidMark, first)
	}

	var match Match

	for mark := first; !board.IsTerminal(); mark = tictactoe.Opponent(mark) {
		cell, err := that.ChooseMove(board, mark, tictactoe.Opponent(mark))
		if err != nil {
			return match, fmt.Errorf("self play choose for %s: %w", mark, err)
		}

		if err = board.Place(cell, mark); err != nil {
			return match, fmt.Errorf("self play place for %s: %w", mark, err)
		}

		match.Plies = append(match.Plies, Ply{Mark: mark, Cell: cell})
	}

	match.Outcome = board.Outcome()

	return match, nil
}
