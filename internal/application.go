package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dropfour/connectfour-backend/internal/config"
	"github.com/dropfour/connectfour-backend/internal/repository"
	"github.com/dropfour/connectfour-backend/internal/repository/storage"
	"github.com/dropfour/connectfour-backend/internal/usecase"
	"github.com/dropfour/connectfour-backend/transport/rest"
	"github.com/dropfour/connectfour-backend/transport/websocket"
)

var ErrUnknownStorage = errors.New("unknown storage backend")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	playerRepo, gameRepo, closeStorage, err := buildRepositories(ctx, conf)
	if err != nil {
		return err
	}
	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	gameManager := usecase.NewGameManager(logger, playerRepo, gameRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.NewServer(logger, gameManager)
		if httpErr := restServer.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// buildRepositories picks the storage backend. Memory is the default;
// redis keeps sessions shared and inspectable outside the process.
func buildRepositories(ctx context.Context, conf *config.Config) (repository.PlayerRepository, repository.GameRepository, func() error, error) {
	switch conf.Storage {
	case config.StorageMemory, "":
		noop := func() error { return nil }
		return repository.NewMemoryPlayerRepository(), repository.NewMemoryGameRepository(), noop, nil

	case config.StorageRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		playerRepo := repository.NewPlayerRepository(redisStorage.Connection)
		gameRepo := repository.NewGameRepository(redisStorage.Connection)

		return playerRepo, gameRepo, redisStorage.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrUnknownStorage, conf.Storage)
	}
}
