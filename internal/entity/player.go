package entity

import "github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"

const botIDPrefix = "bot:"

type Player struct {
	ID     string         `json:"id"`
	Mark   tictactoe.Mark `json:"mark,omitempty"`
	GameID string         `json:"game_id,omitempty"`
	Bot    bool           `json:"bot,omitempty"`
}

func NewBotPlayer(gameID string, mark tictactoe.Mark) *Player {
	return &Player{
		ID:     botIDPrefix + gameID,
		Mark:   mark,
		GameID: gameID,
		Bot:    true,
	}
}

func (that *Player) IsBot() bool {
	return that.Bot
}
