package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	idlePingInterval = 30 * time.Second
	sendBuffer       = 16
	shutdownTimeout  = 5 * time.Second
)

type uGame interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	NewGame(ctx context.Context, playerID string, mark tictactoe.Mark, difficulty string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (*usecase.Analysis, error)
	LeaveGame(ctx context.Context, playerID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, req *request) Payload

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	pingInterval time.Duration
	handlers     map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},

		pingInterval: idlePingInterval,
		handlers:     make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameHint] = server.handleHint
	server.handlers[actionGameLeave] = server.handleLeaveGame

	return server
}

// Handler serves the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	send := make(chan []byte, sendBuffer)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if err := that.writeWithHeartbeat(conn, send); err != nil {
			log.Error("failed to write message", "error", err)
			conn.Close()
		}
	}()

	that.handleMessages(ctx, conn, send, done)

	close(send)
	<-done
	conn.Close()
}

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, send chan<- []byte, writerDone <-chan struct{}) {
	log := that.logger.With("method", "handleMessages")

	reply := func(msg []byte) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			if !reply(response(message.Action, Payload{Error: "invalid message"})) {
				return
			}
			continue
		}

		if !reply(that.process(ctx, &message)) {
			return
		}
	}
}

func (that *Server) process(ctx context.Context, message *Message) []byte {
	handler, ok := that.handlers[message.Action]
	if !ok {
		that.logger.Error("unknown action", "action", message.Action)
		return response(message.Action, Payload{Error: "unknown action"})
	}

	var req request
	if len(message.Payload) != 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			return response(message.Action, Payload{Error: "invalid payload"})
		}
	}

	return response(message.Action, handler(ctx, &req))
}

// writeWithHeartbeat sends queued messages and pings connections that stayed quiet too long.
func (that *Server) writeWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(that.pingInterval)
	defer ticker.Stop()

	lastWrite := time.Now()
	ping := response(actionPing, Payload{})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < that.pingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

func response(action string, payload Payload) []byte {
	return mustMarshal(Message{
		Action:  action,
		Payload: mustMarshal(payload),
	})
}
