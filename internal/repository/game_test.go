package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropfour/connectfour-backend/internal/apperror"
	"github.com/dropfour/connectfour-backend/internal/entity"
	"github.com/dropfour/connectfour-backend/testing/suite"
)

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a fresh waiting game
	game := entity.NewGame("g1")

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, game)

	// Then: no error should be returned, and the game is stored
	require.NoError(t, err)

	stored, err := gameRepo.GetByName(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, game.Name, stored.Name)
	require.Equal(t, game.Status, stored.Status)
	require.Equal(t, game.Board, stored.Board)
}

func TestGameRepository_GetByName(t *testing.T) {
	t.Run("GetByName_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// When: GetByName is called with a name nobody registered
		_, err := gameRepo.GetByName(ctx, "missing")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Updates survive a round trip", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a stored game that later admits two players
		game := entity.NewGame("g1")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		_, err := game.AddPlayer(&entity.Player{ID: "p1"})
		require.NoError(t, err)
		_, err = game.AddPlayer(&entity.Player{ID: "p2"})
		require.NoError(t, err)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the game is read back
		stored, err := gameRepo.GetByName(ctx, "g1")

		// Then: slot order and status survived
		require.NoError(t, err)
		require.Equal(t, entity.StatusOngoing, stored.Status)
		require.Len(t, stored.Players, 2)
		assert.Equal(t, entity.PlayerBlue, stored.Players[0].Color)
		assert.Equal(t, entity.PlayerRed, stored.Players[1].Color)
	})
}

func TestGameRepository_ListOpenNames(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: three games in creation order, the middle one filled up
	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, entity.NewGame(name)))
	}

	full, err := gameRepo.GetByName(ctx, "second")
	require.NoError(t, err)
	_, err = full.AddPlayer(&entity.Player{ID: "p1"})
	require.NoError(t, err)
	_, err = full.AddPlayer(&entity.Player{ID: "p2"})
	require.NoError(t, err)
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, full))

	// When: open names are listed
	names, err := gameRepo.ListOpenNames(ctx)

	// Then: only open games show, in creation order
	require.NoError(t, err)
	require.Equal(t, []string{"first", "third"}, names)
}

func TestPlayerRepository(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a stored player
	player := &entity.Player{ID: "p1", Color: entity.PlayerBlue, GameName: "g1"}
	require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

	// When: the player is read back
	stored, err := playerRepo.GetByID(ctx, "p1")

	// Then: the slot mapping survived
	require.NoError(t, err)
	require.Equal(t, player, stored)

	// And: an unknown ID yields ErrPlayerNotFound
	_, err = playerRepo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrPlayerNotFound)
}
