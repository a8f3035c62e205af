package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

var (
	errInvalidBody  = errors.New("invalid request body")
	errInvalidLimit = errors.New("invalid limit")
)

type newGameRequest struct {
	Mark       tictactoe.Mark `json:"mark"`
	Difficulty string         `json:"difficulty"`
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type analyzeRequest struct {
	Board      [tictactoe.BoardSize]tictactoe.Mark `json:"board"`
	EngineMark tictactoe.Mark                      `json:"engine_mark"`
}

type playerResponse struct {
	Player *entity.Player `json:"player"`
}

type gameResponse struct {
	Game *entity.Game `json:"game"`
}

type resultsResponse struct {
	Results []*usecase.RecentResult `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) createPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := that.uGame.GetOrCreatePlayer(r.Context(), "")
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, playerResponse{Player: player})
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.GetGame(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *Server) newGame(w http.ResponseWriter, r *http.Request) {
	// an empty body asks for a random mark and the default difficulty
	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		that.writeError(w, r, errInvalidBody)
		return
	}

	game, err := that.uGame.NewGame(r.Context(), chi.URLParam(r, "playerID"), req.Mark, req.Difficulty)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{Game: game})
}

func (that *Server) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeError(w, r, errInvalidBody)
		return
	}

	game, err := that.uGame.MakeTurn(r.Context(), chi.URLParam(r, "playerID"), *req.Cell)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *Server) hint(w http.ResponseWriter, r *http.Request) {
	analysis, err := that.uGame.Hint(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, analysis)
}

func (that *Server) leaveGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.LeaveGame(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.uGame.Stats(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *Server) results(w http.ResponseWriter, r *http.Request) {
	// no limit leaves the choice to the game manager
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			that.writeError(w, r, errInvalidLimit)
			return
		}
	}

	results, err := that.uGame.Recent(r.Context(), limit)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, resultsResponse{Results: results})
}

func (that *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, r, errInvalidBody)
		return
	}

	analysis, err := that.uGame.Analyze(req.Board, req.EngineMark)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, analysis)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, errInvalidLimit),
		errors.Is(err, tictactoe.ErrUnreachable),
		errors.Is(err, tictactoe.ErrInvalidIndex),
		errors.Is(err, tictactoe.ErrInvalidMark),
		errors.Is(err, apperror.ErrInvalidDifficulty):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tictactoe.ErrIllegalMove),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrNoActiveGames),
		errors.Is(err, apperror.ErrGameAlreadyExists),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, minimax.ErrInvalidState):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
