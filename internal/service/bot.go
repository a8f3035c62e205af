package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type moveChooser interface {
	ChooseMove(board *tictactoe.Board, engineMark, opponentMark tictactoe.Mark) (int, error)
}

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type botService struct {
	engine moveChooser
	intn   func(n int) int
}

// NewBotService plays hard games with engine and easy games with a random legal cell.
func NewBotService(engine moveChooser) BotService {
	return &botService{
		engine: engine,
		intn:   rand.Intn,
	}
}

func (that *botService) MakeTurn(game *entity.Game) error {
	botPlayer, ok := game.Bot()
	if !ok {
		return ErrBotNotFound
	}

	board, err := game.State()
	if err != nil {
		return err
	}

	availableCells := board.LegalMoves()
	if len(availableCells) == 0 || board.IsTerminal() {
		return ErrNoAvailableMoves
	}

	var chosenCell int
	if game.IsHard() {
		chosenCell, err = that.engine.ChooseMove(board, botPlayer.Mark, tictactoe.Opponent(botPlayer.Mark))
		if err != nil {
			return fmt.Errorf("bot failed to choose move: %w", err)
		}
	} else {
		chosenCell = availableCells[that.intn(len(availableCells))]
	}

	if err = game.MakeTurn(botPlayer.Mark, chosenCell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
