package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dropfour/connectfour-backend/internal/entity"
)

type gameUseCase interface {
	RegisterPlayer(ctx context.Context, id string) (*entity.Player, error)
	ListOpenGames(ctx context.Context) ([]string, error)
	CreateGame(ctx context.Context, name string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameName, playerID string) (*entity.Game, *entity.Player, error)
	MakeTurn(ctx context.Context, playerID string, column int) (*entity.Game, error)
}

// Server is the connection gateway: it owns the live sockets, routes
// inbound actions to handlers and pushes game events back out. Game
// events go to the one or two handles of a session; lobby-list changes
// go to everyone.
type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase

	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, playerID string, payload json.RawMessage) error

	connectionsMutex sync.RWMutex
	connections      map[string]*websocket.Conn

	writeMutex sync.Mutex
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger,
		gameUseCase: gameUseCase,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		connections: make(map[string]*websocket.Conn),
	}

	server.handlers = map[string]func(context.Context, string, json.RawMessage) error{
		ActionListOpenGames: server.handleListOpenGames,
		ActionCreateGame:    server.handleCreateGame,
		ActionAddPlayer:     server.handleJoinGame,
		ActionPlayerMove:    server.handlePlayerMove,
	}

	return server
}

// Start - starts the WebSocket server and blocks until it stops.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.HandleConnection)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// HandleConnection upgrades the request and serves the connection until
// the client goes away. Every connection gets a transient player handle.
func (that *Server) HandleConnection(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "HandleConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx := req.Context()

	playerID := uuid.NewString()
	if _, err = that.gameUseCase.RegisterPlayer(ctx, playerID); err != nil {
		log.Error("failed to register player", "error", err)
		return
	}

	that.connectionsMutex.Lock()
	that.connections[playerID] = conn
	that.connectionsMutex.Unlock()

	defer that.removeConnection(playerID)

	log.Info("websocket connection established", "playerID", playerID)

	that.readLoop(ctx, playerID, conn)
}

func (that *Server) readLoop(ctx context.Context, playerID string, conn *websocket.Conn) {
	log := that.logger.With("method", "readLoop", "playerID", playerID)

	for {
		_, reqBody, err := conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, playerID, message.Payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) removeConnection(playerID string) {
	that.connectionsMutex.Lock()
	delete(that.connections, playerID)
	that.connectionsMutex.Unlock()

	that.logger.Info("player disconnected", "playerID", playerID)
}

// sendTo delivers one event to one connection handle. Delivery is
// best-effort; a handle without a live connection is skipped.
func (that *Server) sendTo(playerID, event string, payload any) error {
	that.connectionsMutex.RLock()
	conn, ok := that.connections[playerID]
	that.connectionsMutex.RUnlock()

	if !ok {
		return nil
	}

	return that.writeMessage(conn, event, payload)
}

// broadcast delivers one event to every connected handle.
func (that *Server) broadcast(event string, payload any) {
	log := that.logger.With("method", "broadcast")

	that.connectionsMutex.RLock()
	conns := make(map[string]*websocket.Conn, len(that.connections))
	for id, conn := range that.connections {
		conns[id] = conn
	}
	that.connectionsMutex.RUnlock()

	for id, conn := range conns {
		if err := that.writeMessage(conn, event, payload); err != nil {
			log.Error("failed to broadcast", "playerID", id, "error", err)
		}
	}
}

func (that *Server) writeMessage(conn *websocket.Conn, event string, payload any) error {
	message := Message{Action: event}

	if payload != nil {
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		message.Payload = payloadJSON
	}

	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err = conn.WriteMessage(websocket.TextMessage, messageJSON); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
