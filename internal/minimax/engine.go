// Package minimax picks moves by exhaustive adversarial search over every continuation
// of a tic-tac-toe board. There is no pruning and no memoization: the 3x3 grid keeps the
// full tree small enough to walk on every decision.
package minimax

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// winScore is the value of a win found at depth 0; every extra ply costs one point.
const winScore = 10

var ErrInvalidState = errors.New("board is terminal")

// MoveScore is the value of playing Cell for the searching side.
type MoveScore struct {
	Cell  int `json:"cell"`
	Score int `json:"score"`
}

type Engine struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logger.With("component", "minimax"),
	}
}

// ChooseMove returns the cell that maximizes the engine's score against an opponent playing
// optimally. Ties go to the lowest cell index. The board is left exactly as it was given;
// applying the move is up to the caller.
func (that *Engine) ChooseMove(board *tictactoe.Board, engineMark, opponentMark tictactoe.Mark) (int, error) {
	log := that.logger.With("method", "ChooseMove", "engine", engineMark)

	started := time.Now()

	scores, nodes, err := that.analyze(board, engineMark, opponentMark)
	if err != nil {
		return -1, err
	}

	best := Best(scores)

	log.Debug("move chosen",
		"cell", best.Cell,
		"score", best.Score,
		"nodes", nodes,
		"elapsed", time.Since(started),
	)

	return best.Cell, nil
}

// Analyze returns the search score of every legal move in ascending cell order.
func (that *Engine) Analyze(board *tictactoe.Board, engineMark, opponentMark tictactoe.Mark) ([]MoveScore, error) {
	scores, _, err := that.analyze(board, engineMark, opponentMark)
	if err != nil {
		return nil, err
	}

	return scores, nil
}

// Best returns the first move with the highest score, or Cell -1 for no moves.
func Best(scores []MoveScore) MoveScore {
	best := MoveScore{Cell: -1, Score: math.MinInt}
	for _, move := range scores {
		if move.Score > best.Score {
			best = move
		}
	}

	return best
}

func (that *Engine) analyze(board *tictactoe.Board, engineMark, opponentMark tictactoe.Mark) ([]MoveScore, int, error) {
	if !engineMark.Valid() || !opponentMark.Valid() || engineMark == opponentMark {
		return nil, 0, fmt.Errorf("%w: engine %q, opponent %q", tictactoe.ErrInvalidMark, engineMark, opponentMark)
	}

	if board.IsTerminal() {
		return nil, 0, fmt.Errorf("%w: no move to choose", ErrInvalidState)
	}

	s := &search{
		board:    board,
		engine:   engineMark,
		opponent: opponentMark,
	}

	moves := board.LegalMoves()
	scores := make([]MoveScore, 0, len(moves))

	for _, cell := range moves {
		score, err := s.try(cell, engineMark, 0, false)
		if err != nil {
			return nil, s.nodes, err
		}

		scores = append(scores, MoveScore{Cell: cell, Score: score})
	}

	return scores, s.nodes, nil
}

// search walks the tree on a single board, undoing every placement before returning.
type search struct {
	board    *tictactoe.Board
	engine   tictactoe.Mark
	opponent tictactoe.Mark
	nodes    int
}

// try places mark on cell, scores the resulting position and takes the mark back.
func (that *search) try(cell int, mark tictactoe.Mark, depth int, maximizing bool) (int, error) {
	if err := that.board.Place(cell, mark); err != nil {
		return 0, fmt.Errorf("search place %d: %w", cell, err)
	}

	score, err := that.minimax(depth, maximizing)

	if undoErr := that.board.Undo(cell); undoErr != nil {
		return 0, fmt.Errorf("search undo %d: %w", cell, undoErr)
	}

	return score, err
}

// minimax scores the current position from the engine's point of view.
// depth counts the plies played inside this search.
func (that *search) minimax(depth int, maximizing bool) (int, error) {
	that.nodes++

	if winner, ok := that.board.HasWinner(); ok {
		if winner == that.engine {
			return winScore - depth, nil
		}

		return depth - winScore, nil
	}

	if that.board.IsFull() {
		return 0, nil
	}

	mark, best := that.opponent, math.MaxInt
	if maximizing {
		mark, best = that.engine, math.MinInt
	}

	for _, cell := range that.board.LegalMoves() {
		score, err := that.try(cell, mark, depth+1, !maximizing)
		if err != nil {
			return 0, err
		}

		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best, nil
}
