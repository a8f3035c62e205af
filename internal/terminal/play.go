package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
)

// Play opens the terminal screen, runs the game and restores the terminal afterwards.
func Play(ctx context.Context, engine moveChooser, logger *slog.Logger, conf config.Terminal) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}

	if err = screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(styleDefault)

	return New(screen, engine, logger, conf).Run(ctx)
}
