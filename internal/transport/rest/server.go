package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type uGame interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	NewGame(ctx context.Context, playerID string, mark tictactoe.Mark, difficulty string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (*usecase.Analysis, error)
	LeaveGame(ctx context.Context, playerID string) (*entity.Game, error)
	Stats(ctx context.Context) (*entity.Stats, error)
	Recent(ctx context.Context, limit int) ([]*usecase.RecentResult, error)
	Analyze(cells [tictactoe.BoardSize]tictactoe.Mark, engineMark tictactoe.Mark) (*usecase.Analysis, error)
}

type Server struct {
	logger *slog.Logger
	uGame  uGame
}

func New(logger *slog.Logger, uGame uGame) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}
}

// Router builds the HTTP API.
func (that *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/ping", that.pingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Post("/players", that.createPlayer)

		r.Route("/players/{playerID}/game", func(r chi.Router) {
			r.Get("/", that.getGame)
			r.Post("/", that.newGame)
			r.Delete("/", that.leaveGame)
			r.Post("/turn", that.makeTurn)
			r.Get("/hint", that.hint)
		})

		r.Get("/stats", that.stats)
		r.Get("/results", that.results)
		r.Post("/analyze", that.analyze)
	})

	return r
}

// Start - serves the API on port until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
