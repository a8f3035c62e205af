package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	originX = 2
	originY = 1
)

func (that *Game) draw() {
	that.screen.Clear()

	y := originY
	drawText(that.screen, originX, y, styleDefault, "Tic-Tac-Toe")

	if that.human != tictactoe.Empty {
		x := drawText(that.screen, originX+14, y, styleDefault, "You: ")
		x = drawText(that.screen, x, y, styleHuman, string(that.human))
		x = drawText(that.screen, x, y, styleDefault, "  Engine: ")
		drawText(that.screen, x, y, styleEngine, string(that.bot))
	}

	y += 2
	cells := that.board.Cells()
	for row := range 3 {
		x := originX
		for col := range 3 {
			index := row*3 + col
			x = drawText(that.screen, x, y, styleDefault, " ")
			x = drawText(that.screen, x, y, that.cellStyle(cells[index]), tictactoe.Label(cells[index], index))
			x = drawText(that.screen, x, y, styleDefault, " ")
			if col < 2 {
				x = drawText(that.screen, x, y, styleDefault, "|")
			}
		}
		y++

		if row < 2 {
			drawText(that.screen, originX, y, styleDefault, "---|---|---")
			y++
		}
	}

	y++
	drawText(that.screen, originX, y, styleDefault, that.message)
	drawText(that.screen, originX, y+2, styleDim, fmt.Sprintf("%s  %s", msgHelp, that.keysHint()))

	that.screen.Show()
}

func (that *Game) cellStyle(mark tictactoe.Mark) tcell.Style {
	switch mark {
	case tictactoe.Empty:
		return styleDim
	case that.human:
		return styleHuman
	default:
		return styleEngine
	}
}

func (that *Game) keysHint() string {
	switch that.phase {
	case phaseChooseMark:
		return "x/o: pick a mark"
	case phaseHumanTurn:
		return "1-9: place"
	case phaseGameOver:
		return "y/n: replay"
	default:
		return ""
	}
}

// drawText writes s at (x, y) and returns the column after it.
func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) int {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}

	return x
}
