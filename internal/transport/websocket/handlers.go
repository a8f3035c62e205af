package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

var errPlayerRequired = errors.New("player is required")

func (that *Server) handleConnect(ctx context.Context, req *request) Payload {
	log := that.logger.With("method", "handleConnect")

	var playerID string
	if req.Player != nil {
		playerID = req.Player.ID
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return Payload{Error: err.Error()}
	}

	if player.GameID == "" {
		log.Info("player connected", "player", player.ID)
		return Payload{Player: player}
	}

	game, err := that.uGame.GetGame(ctx, player.ID)
	if err != nil {
		log.Error("failed to get game", "game", player.GameID, "error", err)
		return Payload{Player: player, Error: err.Error()}
	}

	return Payload{Player: player, Game: game}
}

func (that *Server) handleNewGame(ctx context.Context, req *request) Payload {
	if req.Player == nil {
		return Payload{Error: errPlayerRequired.Error()}
	}

	gameReq := GameRequest{}
	if req.Game != nil {
		gameReq = *req.Game
	}

	game, err := that.uGame.NewGame(ctx, req.Player.ID, gameReq.Mark, gameReq.Difficulty)
	if err != nil {
		that.logger.Error("failed to create game", "player", req.Player.ID, "error", err)
		return Payload{Player: req.Player, Error: err.Error()}
	}

	human, _ := game.Human()

	return Payload{Player: human, Game: game}
}

func (that *Server) handleGameTurn(ctx context.Context, req *request) Payload {
	if req.Player == nil {
		return Payload{Error: errPlayerRequired.Error()}
	}

	if req.Cell == nil {
		return Payload{Player: req.Player, Error: "cell is required"}
	}

	game, err := that.uGame.MakeTurn(ctx, req.Player.ID, *req.Cell)
	if err != nil {
		return Payload{Player: req.Player, Game: game, Cell: req.Cell, Error: err.Error()}
	}

	return Payload{Player: req.Player, Game: game, Cell: req.Cell}
}

func (that *Server) handleHint(ctx context.Context, req *request) Payload {
	if req.Player == nil {
		return Payload{Error: errPlayerRequired.Error()}
	}

	analysis, err := that.uGame.Hint(ctx, req.Player.ID)
	if err != nil {
		return Payload{Player: req.Player, Error: err.Error()}
	}

	return Payload{Player: req.Player, Best: &analysis.Best, Moves: analysis.Moves}
}

func (that *Server) handleLeaveGame(ctx context.Context, req *request) Payload {
	if req.Player == nil {
		return Payload{Error: errPlayerRequired.Error()}
	}

	game, err := that.uGame.LeaveGame(ctx, req.Player.ID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNoActiveGames) {
			that.logger.Error("failed to leave game", "player", req.Player.ID, "error", err)
		}
		return Payload{Player: req.Player, Error: err.Error()}
	}

	game.Status = gameStatusLeave

	return Payload{Player: req.Player, Game: game}
}
