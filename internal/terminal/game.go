// Package terminal is the full-screen console game: a human against the minimax engine.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type phase int

const (
	phaseChooseMark phase = iota
	phaseHumanTurn
	phaseEngineTurn
	phaseGameOver
)

const (
	msgChooseMark  = "Choose your mark: X or O"
	msgYourMove    = "Your move (1-9)"
	msgInvalidMove = "Invalid move, try again."
	msgThinking    = "Engine is thinking..."
	msgPlayAgain   = "Play again? (Y/N)"
	msgHelp        = "Esc: quit"
)

var (
	styleDefault = tcell.StyleDefault
	styleHuman   = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleEngine  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

type moveChooser interface {
	ChooseMove(board *tictactoe.Board, engineMark, opponentMark tictactoe.Mark) (int, error)
}

// engineMove is posted back to the event loop once the engine has decided.
type engineMove struct {
	cell int
	err  error
}

// Game holds everything the console game needs between events.
type Game struct {
	screen     tcell.Screen
	engine     moveChooser
	logger     *slog.Logger
	thinkDelay time.Duration
	humanFirst bool

	board   *tictactoe.Board
	human   tictactoe.Mark
	bot     tictactoe.Mark
	turn    tictactoe.Mark
	phase   phase
	message string
	outcome tictactoe.Outcome
}

// New expects an initialized screen; the caller owns its lifecycle.
func New(screen tcell.Screen, engine moveChooser, logger *slog.Logger, conf config.Terminal) *Game {
	return &Game{
		screen:     screen,
		engine:     engine,
		logger:     logger.With("component", "terminal"),
		thinkDelay: conf.ThinkDelay,
		humanFirst: conf.Opener != config.OpenerX,

		board:   tictactoe.NewBoard(),
		phase:   phaseChooseMark,
		message: msgChooseMark,
	}
}

// Run processes screen events until the player quits or ctx is done.
func (that *Game) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = that.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	that.draw()

	for {
		ev := that.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if quit := that.handleKey(ctx, ev); quit {
				return nil
			}
		case *tcell.EventResize:
			that.screen.Sync()
		case *tcell.EventInterrupt:
			if move, ok := ev.Data().(engineMove); ok {
				that.applyEngineMove(ctx, move)
			} else if ctx.Err() != nil {
				return nil
			}
		}

		that.draw()
	}
}

// handleKey applies one key press and reports whether the player wants to quit.
func (that *Game) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return true
	}

	if ev.Key() != tcell.KeyRune {
		return false
	}

	r := ev.Rune()

	switch that.phase {
	case phaseChooseMark:
		switch r {
		case 'x', 'X':
			that.startRound(ctx, tictactoe.PlayerX)
		case 'o', 'O':
			that.startRound(ctx, tictactoe.PlayerO)
		}
	case phaseHumanTurn:
		that.humanMove(ctx, r)
	case phaseGameOver:
		switch r {
		case 'y', 'Y':
			that.phase = phaseChooseMark
			that.message = msgChooseMark
		case 'n', 'N':
			return true
		}
	case phaseEngineTurn:
		// keys wait for the engine
	}

	return false
}

func (that *Game) startRound(ctx context.Context, human tictactoe.Mark) {
	that.board = tictactoe.NewBoard()
	that.human = human
	that.bot = tictactoe.Opponent(human)
	that.turn = tictactoe.PlayerX
	if that.humanFirst {
		that.turn = human
	}
	that.outcome = tictactoe.Outcome{Status: tictactoe.StatusInProgress}

	that.logger.Info("round started", "human", that.human, "engine", that.bot)

	that.nextTurn(ctx)
}

func (that *Game) humanMove(ctx context.Context, r rune) {
	if r < '1' || r > '9' {
		that.message = msgInvalidMove
		return
	}

	cell := int(r - '1')
	if err := that.board.Place(cell, that.human); err != nil {
		that.logger.Debug("rejected move", "cell", cell, "error", err)
		that.message = msgInvalidMove
		return
	}

	that.turn = that.bot
	that.nextTurn(ctx)
}

func (that *Game) applyEngineMove(ctx context.Context, move engineMove) {
	if that.phase != phaseEngineTurn {
		return
	}

	if move.err == nil {
		move.err = that.board.Place(move.cell, that.bot)
	}

	if move.err != nil {
		that.logger.Error("engine failed to move", "error", move.err)
		that.phase = phaseGameOver
		that.message = fmt.Sprintf("Engine error: %v. %s", move.err, msgPlayAgain)
		return
	}

	that.logger.Debug("engine moved", "cell", move.cell)

	that.turn = that.human
	that.nextTurn(ctx)
}

// nextTurn ends the round on a terminal board or hands the move to whoever holds turn.
func (that *Game) nextTurn(ctx context.Context) {
	if outcome := that.board.Outcome(); outcome.IsTerminal() {
		that.outcome = outcome
		that.phase = phaseGameOver
		that.message = outcome.String() + " " + msgPlayAgain
		that.logger.Info("round finished", "result", outcome.String())
		return
	}

	if that.turn == that.human {
		that.phase = phaseHumanTurn
		that.message = msgYourMove
		return
	}

	that.phase = phaseEngineTurn
	that.message = msgThinking
	that.think(ctx)
}

// think searches on a copy of the board and posts the answer after the configured delay.
func (that *Game) think(ctx context.Context) {
	board := that.board.Clone()
	engineMark, opponentMark := that.bot, that.human

	go func() {
		started := time.Now()
		cell, err := that.engine.ChooseMove(board, engineMark, opponentMark)

		if wait := that.thinkDelay - time.Since(started); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return
			}
		}

		_ = that.screen.PostEvent(tcell.NewEventInterrupt(engineMove{cell: cell, err: err}))
	}()
}
