package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dropfour/connectfour-backend/internal/apperror"
	"github.com/dropfour/connectfour-backend/internal/connectfour"
	"github.com/dropfour/connectfour-backend/internal/entity"
	"github.com/dropfour/connectfour-backend/internal/repository"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByName(ctx context.Context, name string) (*entity.Game, error)
	ListOpenNames(ctx context.Context) ([]string, error)
}

// GameManager is the session registry and turn coordinator. Every
// mutation of the shared registry runs under one mutex, so the
// read-check-then-write sequences (duplicate name check, slot admission,
// turn validation) are atomic against concurrent events.
type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo

	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
	}
}

// RegisterPlayer records a fresh connection handle.
func (that *GameManager) RegisterPlayer(ctx context.Context, id string) (*entity.Player, error) {
	player := &entity.Player{ID: id}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

// ListOpenGames returns the names of games still waiting for a second
// player, in creation order.
func (that *GameManager) ListOpenGames(ctx context.Context) ([]string, error) {
	names, err := that.gameRepo.ListOpenNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open games: %w", err)
	}

	return names, nil
}

// CreateGame registers a new waiting session under a unique name.
func (that *GameManager) CreateGame(ctx context.Context, name string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, err := that.gameRepo.GetByName(ctx, name)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, name)
	}
	if !errors.Is(err, apperror.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to check game name: %w", err)
	}

	newGame := entity.NewGame(name)
	if err = that.gameRepo.CreateOrUpdate(ctx, newGame); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "game", name)

	return newGame, nil
}

// JoinGame admits a player into the next free slot. Colors go by
// arrival order: first joiner is blue, second is red. The second join
// flips the session to ongoing.
func (that *GameManager) JoinGame(ctx context.Context, gameName, playerID string) (*entity.Game, *entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	existingGame, err := that.gameRepo.GetByName(ctx, gameName)
	if err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to get game by name: %w", err)
	}

	player, err := that.getOrRegisterPlayer(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}

	if player.GameName != "" {
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrPlayerInOtherGame, player.GameName)
	}

	if _, err = existingGame.AddPlayer(player); err != nil {
		return nil, nil, err
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, nil, fmt.Errorf("failed to update player: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, existingGame); err != nil {
		return nil, nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("player joined game", "game", gameName, "player", playerID, "color", player.Color)

	return existingGame, player, nil
}

// MakeTurn applies one move for the player's session. The board is
// recomputed from the server-held state; the column index is the only
// client input trusted here.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, column int) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if player.GameName == "" {
		return nil, apperror.ErrPlayerNotInGame
	}

	game, err := that.gameRepo.GetByName(ctx, player.GameName)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err = connectfour.MakeTurn(game, player.Color, column); err != nil {
		return nil, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		that.logger.Info("game finished", "game", game.Name, "winner", game.Winner)
	}

	return game, nil
}

func (that *GameManager) getOrRegisterPlayer(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		player = &entity.Player{ID: id}
		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return player, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}
