package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	x = tictactoe.PlayerX
	o = tictactoe.PlayerO
	e = tictactoe.Empty
)

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		// Given: a game with StatusFinished
		game := &Game{Status: StatusFinished}

		// When: checking if the game is finished
		isFinished := game.IsFinished()

		// Then: it should return true
		assert.True(t, isFinished)
		assert.False(t, game.IsOngoing())
	})

	t.Run("IsOngoing returns true when game status is ongoing", func(t *testing.T) {
		// Given: a game with StatusOngoing
		game := &Game{Status: StatusOngoing}

		// When: checking if the game is ongoing
		isOngoing := game.IsOngoing()

		// Then: it should return true
		assert.True(t, isOngoing)
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		err := game.ConfirmOngoingState()

		assert.NoError(t, err)
	})

	t.Run("Returns ErrGameFinished when game is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}

		err := game.ConfirmOngoingState()

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		// Given: a game with unknown status
		game := &Game{Status: "unknown"}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return an error
		require.ErrorIs(t, err, ErrUnknownGameStatus)
		assert.Contains(t, err.Error(), "unknown game status")
	})
}

func TestGame_DetermineGameResult(t *testing.T) {
	t.Run("Returns PlayerX when Player X wins", func(t *testing.T) {
		// Given: a game where Player X has a winning combination
		game := &Game{
			Board: [9]tictactoe.Mark{
				x, x, x,
				e, e, e,
				e, e, e,
			},
		}

		// When: determining the game result
		result := game.DetermineGameResult()

		// Then: it should return PlayerX as the winner
		assert.Equal(t, string(x), result)
	})

	t.Run("Returns PlayerO when Player O wins", func(t *testing.T) {
		game := &Game{
			Board: [9]tictactoe.Mark{
				o, x, x,
				e, o, e,
				x, e, o,
			},
		}

		result := game.DetermineGameResult()

		assert.Equal(t, string(o), result)
	})

	t.Run("Returns PlayerTie when the game is a tie", func(t *testing.T) {
		game := &Game{
			Board: [9]tictactoe.Mark{
				x, o, x,
				o, x, o,
				o, x, o,
			},
		}

		result := game.DetermineGameResult()

		assert.Equal(t, PlayerTie, result)
	})

	t.Run("Returns empty string when the game is ongoing", func(t *testing.T) {
		game := &Game{
			Board: [9]tictactoe.Mark{
				x, o, e,
				e, x, e,
				e, e, o,
			},
		}

		result := game.DetermineGameResult()

		assert.Equal(t, "", result)
	})
}

func TestGame_UpdateGameState(t *testing.T) {
	t.Run("Updates game state when Player X wins", func(t *testing.T) {
		// Given: a game where Player X has a winning combination
		game := &Game{
			Board: [9]tictactoe.Mark{
				x, x, x,
				e, e, e,
				e, e, e,
			},
			Status: StatusOngoing,
			Turn:   o,
		}

		// When: updating the game state
		game.UpdateGameState()

		// Then: the game should be finished with Player X as the winner
		assert.Equal(t, StatusFinished, game.Status)
		assert.Equal(t, string(x), game.Winner)
		assert.Equal(t, e, game.Turn)
	})

	t.Run("Updates game state when the game is a tie", func(t *testing.T) {
		game := &Game{
			Board: [9]tictactoe.Mark{
				x, o, x,
				o, x, o,
				o, x, o,
			},
			Status: StatusOngoing,
			Turn:   x,
		}

		game.UpdateGameState()

		assert.Equal(t, StatusFinished, game.Status)
		assert.Equal(t, PlayerTie, game.Winner)
		assert.Equal(t, e, game.Turn)
	})

	t.Run("Game remains ongoing when there is no winner or tie", func(t *testing.T) {
		game := &Game{
			Board: [9]tictactoe.Mark{
				x, o, e,
				e, x, e,
				e, e, o,
			},
			Status: StatusOngoing,
			Turn:   o,
		}

		game.UpdateGameState()

		assert.Equal(t, StatusOngoing, game.Status)
		assert.Equal(t, "", game.Winner)
		assert.Equal(t, o, game.Turn)
	})
}

func TestGame_MakeTurn(t *testing.T) {
	t.Run("Successful Turn", func(t *testing.T) {
		// Given: A new game
		game := NewGame("123", HardDifficulty)

		// When: Player X makes a valid turn
		err := game.MakeTurn(x, 0)
		require.NoError(t, err)

		// Then: The game state should reflect the turn and player turn should switch
		expectedGame := &Game{
			ID:         "123",
			Board:      [9]tictactoe.Mark{x, e, e, e, e, e, e, e, e},
			Turn:       o,
			Winner:     "",
			Status:     StatusOngoing,
			Difficulty: HardDifficulty,
			Moves:      1,
		}

		require.Equal(t, expectedGame, game)
	})

	t.Run("Winning turn finishes the game", func(t *testing.T) {
		// Given: X can complete the top row
		game := NewGame("123", HardDifficulty)
		game.Board = [9]tictactoe.Mark{x, x, e, o, o, e, e, e, e}
		game.Moves = 4

		// When: X completes it
		err := game.MakeTurn(x, 2)

		// Then: the game is finished with X as the winner
		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, string(x), game.Winner)
		assert.Equal(t, 5, game.Moves)
	})

	t.Run("Error on Cell Already Occupied", func(t *testing.T) {
		// Given: A game where cell 0 is occupied by Player X
		game := NewGame("123", HardDifficulty)
		require.NoError(t, game.MakeTurn(x, 0))

		// When: Player O tries to make a move to the same cell
		err := game.MakeTurn(o, 0)

		// Then: An ErrIllegalMove error should be returned
		require.ErrorIs(t, err, tictactoe.ErrIllegalMove)

		// And: The game state should remain unchanged
		assert.Equal(t, [9]tictactoe.Mark{x, e, e, e, e, e, e, e, e}, game.Board)
		assert.Equal(t, o, game.Turn)
		assert.Equal(t, 1, game.Moves)
	})

	t.Run("Error on Playing Out of Turn", func(t *testing.T) {
		// Given: A new game where it's Player X's turn
		game := NewGame("123", HardDifficulty)

		// When: Player O tries to make a move
		err := game.MakeTurn(o, 1)

		// Then: An ErrNotYourTurn error should be returned
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, [9]tictactoe.Mark{}, game.Board)
	})

	t.Run("Error on Invalid Cell Index", func(t *testing.T) {
		game := NewGame("123", HardDifficulty)

		errHigh := game.MakeTurn(x, 20)
		errLow := game.MakeTurn(x, -1)

		assert.ErrorIs(t, errHigh, tictactoe.ErrInvalidIndex)
		assert.ErrorIs(t, errLow, tictactoe.ErrInvalidIndex)
	})

	t.Run("Move After Game Finished", func(t *testing.T) {
		// Given: a game where X has already won
		game := &Game{
			Board:  [9]tictactoe.Mark{x, x, x, e, o, e, e, o, e},
			Status: StatusFinished,
			Turn:   o,
		}

		// When: player O tries to make a move after the game is over
		err := game.MakeTurn(o, 3)

		// Then: ErrGameFinished should be returned
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestGame_Players(t *testing.T) {
	// Given: a game with a human and the engine
	game := NewGame("g1", EasyDifficulty)
	human := &Player{ID: "p1", Mark: x, GameID: "g1"}
	bot := NewBotPlayer("g1", o)
	game.Players = []*Player{human, bot}

	// When: looking both up
	foundBot, okBot := game.Bot()
	foundHuman, okHuman := game.Human()

	// Then: each is found by role
	require.True(t, okBot)
	require.True(t, okHuman)
	assert.Equal(t, bot, foundBot)
	assert.Equal(t, human, foundHuman)
	assert.Equal(t, "bot:g1", foundBot.ID)
	assert.False(t, game.IsHard())
}

func TestGame_GetMarks(t *testing.T) {
	game := NewGame("g1", HardDifficulty)

	t.Run("Honors a preferred mark", func(t *testing.T) {
		human, bot := game.GetMarks(o)

		assert.Equal(t, o, human)
		assert.Equal(t, x, bot)
	})

	t.Run("Random marks are always distinct players", func(t *testing.T) {
		for range 20 {
			human, bot := game.GetMarks(e)

			assert.True(t, human.Valid())
			assert.Equal(t, tictactoe.Opponent(human), bot)
		}
	})
}

func TestResult_Outcome(t *testing.T) {
	finishedAt := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Human win", func(t *testing.T) {
		game := &Game{ID: "g1", Winner: string(x), Players: []*Player{{ID: "p1", Mark: x}}}

		result := NewResult(game, finishedAt)

		assert.Equal(t, OutcomeWin, result.Outcome())
		assert.Equal(t, x, result.HumanMark)
		assert.Equal(t, finishedAt, result.FinishedAt)
	})

	t.Run("Engine win", func(t *testing.T) {
		game := &Game{ID: "g1", Winner: string(o), Players: []*Player{{ID: "p1", Mark: x}, NewBotPlayer("g1", o)}}

		result := NewResult(game, finishedAt)

		assert.Equal(t, OutcomeLoss, result.Outcome())
	})

	t.Run("Draw", func(t *testing.T) {
		game := &Game{ID: "g1", Winner: PlayerTie, Players: []*Player{{ID: "p1", Mark: o}}}

		result := NewResult(game, finishedAt)

		assert.Equal(t, OutcomeDraw, result.Outcome())
	})
}
