package tictactoe

// Status is the whole-game state. Won and Drawn are absorbing.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDrawn      Status = "drawn"
)

type Outcome struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
}

func (that Outcome) IsTerminal() bool {
	return that.Status != StatusInProgress
}

func (that Outcome) String() string {
	switch that.Status {
	case StatusWon:
		return string(that.Winner) + " Wins!"
	case StatusDrawn:
		return "It's a Draw!"
	default:
		return "in progress"
	}
}

// Outcome checks the board after a move: a winner first, then a full board.
func (that *Board) Outcome() Outcome {
	if winner, ok := that.HasWinner(); ok {
		return Outcome{Status: StatusWon, Winner: winner}
	}

	if that.IsFull() {
		return Outcome{Status: StatusDrawn}
	}

	return Outcome{Status: StatusInProgress}
}
