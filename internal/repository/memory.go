package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dropfour/connectfour-backend/internal/apperror"
	"github.com/dropfour/connectfour-backend/internal/entity"
)

// In-memory repositories used as the default storage backend. Values are
// stored marshaled so callers get their own copy, same as the redis
// implementations.

type memoryGame struct {
	mu    sync.RWMutex
	games map[string][]byte
	order []string
}

func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string][]byte),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.Name]; !ok {
		that.order = append(that.order, game.Name)
	}
	that.games[game.Name] = gameJSON

	return nil
}

func (that *memoryGame) GetByName(_ context.Context, name string) (*entity.Game, error) {
	that.mu.RLock()
	gameJSON, ok := that.games[name]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	var existingGame entity.Game
	if err := json.Unmarshal(gameJSON, &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *memoryGame) ListOpenNames(ctx context.Context) ([]string, error) {
	that.mu.RLock()
	names := make([]string, len(that.order))
	copy(names, that.order)
	that.mu.RUnlock()

	openNames := make([]string, 0, len(names))
	for _, name := range names {
		game, err := that.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}

		if game.IsOpen() {
			openNames = append(openNames, name)
		}
	}

	return openNames, nil
}

type memoryPlayer struct {
	mu      sync.RWMutex
	players map[string][]byte
}

func NewMemoryPlayerRepository() PlayerRepository {
	return &memoryPlayer{
		players: make(map[string][]byte),
	}
}

func (that *memoryPlayer) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	that.mu.Lock()
	that.players[player.ID] = playerJSON
	that.mu.Unlock()

	return nil
}

func (that *memoryPlayer) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.RLock()
	playerJSON, ok := that.players[id]
	that.mu.RUnlock()

	if !ok {
		return nil, ErrPlayerNotFound
	}

	var existingPlayer entity.Player
	if err := json.Unmarshal(playerJSON, &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}
