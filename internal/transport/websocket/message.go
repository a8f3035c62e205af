package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	actionConnect   = "connect"
	actionGameNew   = "game:new"
	actionGameTurn  = "game:turn"
	actionGameHint  = "game:hint"
	actionGameLeave = "game:leave"
	actionPing      = "ping"

	gameStatusLeave = "leave"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type GameRequest struct {
	Mark       tictactoe.Mark `json:"mark,omitempty"`
	Difficulty string         `json:"difficulty,omitempty"`
}

// Payload is shared by requests and responses.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`
	Cell   *int           `json:"cell,omitempty"`

	Best  *int                `json:"best,omitempty"`
	Moves []minimax.MoveScore `json:"moves,omitempty"`

	Error string `json:"error,omitempty"`
}

// request is what clients send; "game" carries the desired mark and difficulty.
type request struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *GameRequest   `json:"game,omitempty"`
	Cell   *int           `json:"cell,omitempty"`
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
