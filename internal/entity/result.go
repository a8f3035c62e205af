package entity

import (
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// Result is the record of a finished game.
type Result struct {
	GameID     string         `json:"game_id"`
	Winner     string         `json:"winner"`
	HumanMark  tictactoe.Mark `json:"human_mark"`
	Difficulty string         `json:"difficulty"`
	Moves      int            `json:"moves"`
	FinishedAt time.Time      `json:"finished_at"`
}

func NewResult(game *Game, finishedAt time.Time) *Result {
	result := &Result{
		GameID:     game.ID,
		Winner:     game.Winner,
		Difficulty: game.Difficulty,
		Moves:      game.Moves,
		FinishedAt: finishedAt,
	}

	if human, ok := game.Human(); ok {
		result.HumanMark = human.Mark
	}

	return result
}

// Outcome is the result seen from the human's side: "win", "loss" or "draw".
func (that *Result) Outcome() string {
	switch that.Winner {
	case PlayerTie:
		return OutcomeDraw
	case string(that.HumanMark):
		return OutcomeWin
	default:
		return OutcomeLoss
	}
}

const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"
)

// Stats sums finished games from the human's side.
type Stats struct {
	Games  int `json:"games"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}
