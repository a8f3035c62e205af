package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
	Stats(ctx context.Context) (*entity.Stats, error)
	Recent(ctx context.Context, limit int) ([]*entity.Result, error)
}

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

type botService interface {
	MakeTurn(game *entity.Game) error
}

type analyzer interface {
	Analyze(board *tictactoe.Board, engineMark, opponentMark tictactoe.Mark) ([]minimax.MoveScore, error)
	SelfPlay(board *tictactoe.Board, first tictactoe.Mark) (minimax.Match, error)
}

// Analysis is the search result for one side of a board.
type Analysis struct {
	Best  int                 `json:"best"`
	Moves []minimax.MoveScore `json:"moves"`

	// Line is the rest of the game under best play from both sides.
	Line    []minimax.Ply      `json:"line,omitempty"`
	Outcome *tictactoe.Outcome `json:"outcome,omitempty"`
}

// RecentResult is a finished game with its outcome from the human's side.
type RecentResult struct {
	*entity.Result
	Outcome string `json:"outcome"`
}

type GameManager struct {
	logger *slog.Logger

	playerRepo playerRepo
	gameRepo   gameRepo
	resultRepo resultRepo

	bot      botService
	analyzer analyzer

	defaultDifficulty string
	now               func() time.Time
}

func NewGameManager(
	logger *slog.Logger,
	playerRepo playerRepo,
	gameRepo gameRepo,
	resultRepo resultRepo,
	bot botService,
	analyzer analyzer,
	defaultDifficulty string,
) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game-manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		resultRepo: resultRepo,

		bot:      bot,
		analyzer: analyzer,

		defaultDifficulty: defaultDifficulty,
		now:               time.Now,
	}
}

// NewGame starts a game against the engine. An empty mark is picked at random and an empty
// difficulty falls back to the configured default. The engine opens when it holds X.
func (that *GameManager) NewGame(ctx context.Context, playerID string, mark tictactoe.Mark, difficulty string) (*entity.Game, error) {
	if mark != tictactoe.Empty && !mark.Valid() {
		return nil, fmt.Errorf("%w: %q", tictactoe.ErrInvalidMark, mark)
	}

	if difficulty == "" {
		difficulty = that.defaultDifficulty
	}

	if !entity.ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidDifficulty, difficulty)
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID != "" {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, player.GameID)
	}

	game := entity.NewGame(pkg.GenerateGameID(), difficulty)

	humanMark, botMark := game.GetMarks(mark)
	player.GameID = game.ID
	player.Mark = humanMark
	game.Players = []*entity.Player{player, entity.NewBotPlayer(game.ID, botMark)}

	if botMark == game.Turn {
		if err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to open: %w", err)
		}
	}

	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game created",
		"game", game.ID,
		"player", player.ID,
		"mark", humanMark,
		"difficulty", difficulty,
	)

	return game, nil
}

// MakeTurn plays the human's cell and, unless that ended the game, the engine's reply.
// A game that finishes is recorded and released before it is returned.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	player, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = game.MakeTurn(player.Mark, cell); err != nil {
		return game, fmt.Errorf("failed make turn: %w", err)
	}

	if game.IsOngoing() {
		if err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if game.IsFinished() {
		that.finishGame(ctx, game)

		return game, nil
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// GetGame returns the player's current game.
func (that *GameManager) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return game, nil
}

// Hint scores every legal move for the human on their turn.
func (that *GameManager) Hint(ctx context.Context, playerID string) (*Analysis, error) {
	player, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if game.Turn != player.Mark {
		return nil, apperror.ErrNotYourTurn
	}

	board, err := game.State()
	if err != nil {
		return nil, err
	}

	return that.analyze(board, player.Mark)
}

// Analyze searches a board for engineMark without touching any session
// and plays the position out to show where best play leads.
func (that *GameManager) Analyze(cells [tictactoe.BoardSize]tictactoe.Mark, engineMark tictactoe.Mark) (*Analysis, error) {
	board, err := tictactoe.BoardFrom(cells)
	if err != nil {
		return nil, err
	}

	if err = board.Reachable(); err != nil {
		return nil, err
	}

	analysis, err := that.analyze(board, engineMark)
	if err != nil {
		return nil, err
	}

	match, err := that.analyzer.SelfPlay(board.Clone(), engineMark)
	if err != nil {
		return nil, fmt.Errorf("failed to play out board: %w", err)
	}

	analysis.Line = match.Plies
	analysis.Outcome = &match.Outcome

	return analysis, nil
}

// LeaveGame drops the player's game without recording a result.
func (that *GameManager) LeaveGame(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	that.deleteGame(ctx, game)

	return game, nil
}

func (that *GameManager) Stats(ctx context.Context) (*entity.Stats, error) {
	stats, err := that.resultRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

// Recent returns the latest finished games, newest first. A limit outside 1..100 is clamped,
// zero or less meaning the default of 10.
func (that *GameManager) Recent(ctx context.Context, limit int) ([]*RecentResult, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}

	results, err := that.resultRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}

	recent := make([]*RecentResult, 0, len(results))
	for _, result := range results {
		recent = append(recent, &RecentResult{Result: result, Outcome: result.Outcome()})
	}

	return recent, nil
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new player %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id %w", err)
	}

	return player, nil
}

func (that *GameManager) analyze(board *tictactoe.Board, mark tictactoe.Mark) (*Analysis, error) {
	moves, err := that.analyzer.Analyze(board, mark, tictactoe.Opponent(mark))
	if err != nil {
		return nil, fmt.Errorf("failed to analyze board: %w", err)
	}

	return &Analysis{
		Best:  minimax.Best(moves).Cell,
		Moves: moves,
	}, nil
}

func (that *GameManager) activeGame(ctx context.Context, playerID string) (*entity.Player, *entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}

	if player.GameID == "" {
		return nil, nil, apperror.ErrNoActiveGames
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return nil, nil, err
	}

	return player, game, nil
}

func (that *GameManager) finishGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "finishGame", "game", game.ID)

	if err := that.resultRepo.Save(ctx, entity.NewResult(game, that.now())); err != nil {
		log.Error("failed to save result", "error", err)
	}

	log.Info("game finished", "winner", game.Winner, "moves", game.Moves)

	that.deleteGame(ctx, game)
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame", "game", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		released := &entity.Player{ID: player.ID}
		if err := that.playerRepo.CreateOrUpdate(ctx, released); err != nil {
			log.Error("failed to update player", "error", err)
		}
	}

	log.Info("game deleted")
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	player := &entity.Player{
		ID: pkg.GenerateNewSessionID(),
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
