package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dropfour/connectfour-backend/internal/apperror"
	"github.com/dropfour/connectfour-backend/internal/entity"
)

const gamesIndexKey = "games:index"

// GameRepository stores sessions keyed by their unique name. Sessions
// are never evicted; they stay listable until teardown.
type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByName(ctx context.Context, name string) (*entity.Game, error)
	// ListOpenNames returns the names of games still waiting for a second
	// player, in creation order.
	ListOpenNames(ctx context.Context) ([]string, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	gameKey := "game:" + game.Name
	if err = that.client.Set(ctx, gameKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	// NX keeps the original creation rank on updates.
	err = that.client.ZAddNX(ctx, gamesIndexKey, redis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: game.Name,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByName(ctx context.Context, name string) (*entity.Game, error) {
	gameKey := "game:" + name

	response, err := that.client.Get(ctx, gameKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by name: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) ListOpenNames(ctx context.Context) ([]string, error) {
	names, err := that.client.ZRange(ctx, gamesIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games index: %w", err)
	}

	openNames := make([]string, 0, len(names))
	for _, name := range names {
		game, err := that.GetByName(ctx, name)
		if errors.Is(err, apperror.ErrGameNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if game.IsOpen() {
			openNames = append(openNames, name)
		}
	}

	return openNames, nil
}
