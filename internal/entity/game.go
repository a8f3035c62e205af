package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

const (
	HardDifficulty = "hard"
	EasyDifficulty = "easy"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is a session between a human player and the engine, as stored and sent to clients.
type Game struct {
	ID         string                              `json:"id"`
	Board      [tictactoe.BoardSize]tictactoe.Mark `json:"board"`
	Winner     string                              `json:"winner"`
	Status     string                              `json:"status"`
	Turn       tictactoe.Mark                      `json:"player_turn"`
	Players    []*Player                           `json:"players,omitempty"`
	Difficulty string                              `json:"difficulty,omitempty"`
	Moves      int                                 `json:"moves"`
}

func NewGame(id, difficulty string) *Game {
	return &Game{
		ID:         id,
		Turn:       tictactoe.PlayerX,
		Status:     StatusOngoing,
		Difficulty: difficulty,
	}
}

// State returns the board as a tictactoe.Board copy.
func (that *Game) State() (*tictactoe.Board, error) {
	board, err := tictactoe.BoardFrom(that.Board)
	if err != nil {
		return nil, fmt.Errorf("game %s has a corrupted board: %w", that.ID, err)
	}

	return board, nil
}

// DetermineGameResult returns the winner's mark, PlayerTie for a full board, or "" while the game goes on.
func (that *Game) DetermineGameResult() string {
	board, err := that.State()
	if err != nil {
		return ""
	}

	switch outcome := board.Outcome(); outcome.Status {
	case tictactoe.StatusWon:
		return string(outcome.Winner)
	case tictactoe.StatusDrawn:
		return PlayerTie
	default:
		return ""
	}
}

func (that *Game) UpdateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	// one player wins
	case string(tictactoe.PlayerX), string(tictactoe.PlayerO):
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = tictactoe.Empty
	// tie
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = tictactoe.Empty
	// game continue
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) MakeTurn(playerMark tictactoe.Mark, cell int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	board, err := that.State()
	if err != nil {
		return err
	}

	if err = board.Place(cell, playerMark); err != nil {
		return fmt.Errorf("turn of %s: %w", playerMark, err)
	}

	that.Board = board.Cells()
	that.Moves++
	that.Turn = tictactoe.Opponent(playerMark)

	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsHard() bool {
	return that.Difficulty != EasyDifficulty
}

// Bot returns the engine's player, if it joined the game.
func (that *Game) Bot() (*Player, bool) {
	for _, player := range that.Players {
		if player.IsBot() {
			return player, true
		}
	}

	return nil, false
}

// Human returns the first non-bot player.
func (that *Game) Human() (*Player, bool) {
	for _, player := range that.Players {
		if !player.IsBot() {
			return player, true
		}
	}

	return nil, false
}

// GetMarks returns the human's and the engine's marks. An empty preference picks at random.
func (that *Game) GetMarks(preferred tictactoe.Mark) (tictactoe.Mark, tictactoe.Mark) {
	if preferred.Valid() {
		return preferred, tictactoe.Opponent(preferred)
	}

	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return tictactoe.PlayerX, tictactoe.PlayerO
	}
	return tictactoe.PlayerO, tictactoe.PlayerX
}

// ValidDifficulty reports whether difficulty names a known bot level.
func ValidDifficulty(difficulty string) bool {
	return difficulty == HardDifficulty || difficulty == EasyDifficulty
}
