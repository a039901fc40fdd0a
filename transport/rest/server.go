package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type gameLister interface {
	ListOpenGames(ctx context.Context) ([]string, error)
}

type Server struct {
	logger *slog.Logger
	games  gameLister
}

func NewServer(logger *slog.Logger, games gameLister) *Server {
	return &Server{
		logger: logger,
		games:  games,
	}
}

func (that *Server) Routes() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ping", that.pingHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/games", that.listGamesHandler).Methods(http.MethodGet)

	return router
}

func (that *Server) Start(port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// listGamesHandler is a read-only peek at the lobby; gameplay itself is
// websocket-only.
func (that *Server) listGamesHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "listGamesHandler")

	names, err := that.games.ListOpenGames(r.Context())
	if err != nil {
		log.Error("failed to list open games", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(map[string][]string{"openGameNames": names}); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}
