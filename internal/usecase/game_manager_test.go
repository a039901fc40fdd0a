package usecase

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropfour/connectfour-backend/internal/apperror"
	"github.com/dropfour/connectfour-backend/internal/entity"
	"github.com/dropfour/connectfour-backend/internal/repository"
)

func newTestManager() *GameManager {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewGameManager(logger, repository.NewMemoryPlayerRepository(), repository.NewMemoryGameRepository())
}

func TestGameManager_CreateGame(t *testing.T) {
	t.Run("CreateGame", func(t *testing.T) {
		manager := newTestManager()
		ctx := context.Background()

		// When: a game is created
		game, err := manager.CreateGame(ctx, "jakes_game")

		// Then: it is registered as a waiting session
		require.NoError(t, err)
		require.Equal(t, "jakes_game", game.Name)
		require.Equal(t, entity.StatusWaiting, game.Status)

		names, err := manager.ListOpenGames(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"jakes_game"}, names)
	})

	t.Run("Error on duplicate name", func(t *testing.T) {
		manager := newTestManager()
		ctx := context.Background()

		_, err := manager.CreateGame(ctx, "jakes_game")
		require.NoError(t, err)

		// When: a second game claims the same name
		_, err = manager.CreateGame(ctx, "jakes_game")

		// Then: an error ErrGameAlreadyExists must be returned
		require.ErrorIs(t, err, apperror.ErrGameAlreadyExists)

		names, err := manager.ListOpenGames(ctx)
		require.NoError(t, err)
		require.Len(t, names, 1)
	})
}

func TestGameManager_ListOpenGames(t *testing.T) {
	manager := newTestManager()
	ctx := context.Background()

	// Given: three games created in order, one of them filled up
	for _, name := range []string{"first", "second", "third"} {
		_, err := manager.CreateGame(ctx, name)
		require.NoError(t, err)
	}

	_, _, err := manager.JoinGame(ctx, "second", "p1")
	require.NoError(t, err)
	_, _, err = manager.JoinGame(ctx, "second", "p2")
	require.NoError(t, err)

	// When: the open games are listed
	names, err := manager.ListOpenGames(ctx)

	// Then: only open games show, in creation order
	require.NoError(t, err)
	require.Equal(t, []string{"first", "third"}, names)
}

func TestGameManager_JoinGame(t *testing.T) {
	t.Run("Colors go by arrival order", func(t *testing.T) {
		manager := newTestManager()
		ctx := context.Background()

		_, err := manager.CreateGame(ctx, "g1")
		require.NoError(t, err)

		// When: two players join in order
		game, first, err := manager.JoinGame(ctx, "g1", "p1")
		require.NoError(t, err)
		require.Equal(t, entity.PlayerBlue, first.Color)
		require.Equal(t, entity.StatusWaiting, game.Status)

		game, second, err := manager.JoinGame(ctx, "g1", "p2")
		require.NoError(t, err)

		// Then: the second player is red and the game starts with blue's turn
		require.Equal(t, entity.PlayerRed, second.Color)
		require.Equal(t, entity.StatusOngoing, game.Status)
		require.Equal(t, entity.PlayerBlue, game.Turn)
	})

	t.Run("Error on unknown game", func(t *testing.T) {
		manager := newTestManager()

		_, _, err := manager.JoinGame(context.Background(), "missing", "p1")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Error on full game", func(t *testing.T) {
		manager := newTestManager()
		ctx := context.Background()

		_, err := manager.CreateGame(ctx, "g1")
		require.NoError(t, err)
		_, _, err = manager.JoinGame(ctx, "g1", "p1")
		require.NoError(t, err)
		_, _, err = manager.JoinGame(ctx, "g1", "p2")
		require.NoError(t, err)

		// When: a third player tries to join
		_, _, err = manager.JoinGame(ctx, "g1", "p3")

		// Then: the join is rejected and the game stays closed
		require.ErrorIs(t, err, apperror.ErrGameIsFull)

		names, err := manager.ListOpenGames(ctx)
		require.NoError(t, err)
		require.Empty(t, names)
	})

	t.Run("Error on joining a second game", func(t *testing.T) {
		manager := newTestManager()
		ctx := context.Background()

		_, err := manager.CreateGame(ctx, "g1")
		require.NoError(t, err)
		_, err = manager.CreateGame(ctx, "g2")
		require.NoError(t, err)

		_, _, err = manager.JoinGame(ctx, "g1", "p1")
		require.NoError(t, err)

		// When: the same handle tries to take a slot elsewhere
		_, _, err = manager.JoinGame(ctx, "g2", "p1")

		require.ErrorIs(t, err, apperror.ErrPlayerInOtherGame)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	t.Run("Error when not in a game", func(t *testing.T) {
		manager := newTestManager()
		ctx := context.Background()

		_, err := manager.RegisterPlayer(ctx, "p1")
		require.NoError(t, err)

		_, err = manager.MakeTurn(ctx, "p1", 0)

		assert.ErrorIs(t, err, apperror.ErrPlayerNotInGame)
	})

	t.Run("Error before second player", func(t *testing.T) {
		manager := newTestManager()
		ctx := context.Background()

		_, err := manager.CreateGame(ctx, "g1")
		require.NoError(t, err)
		_, _, err = manager.JoinGame(ctx, "g1", "p1")
		require.NoError(t, err)

		_, err = manager.MakeTurn(ctx, "p1", 0)

		assert.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Out-of-turn move leaves the game untouched", func(t *testing.T) {
		manager := newTestManager()
		ctx := context.Background()

		_, err := manager.CreateGame(ctx, "g1")
		require.NoError(t, err)
		_, _, err = manager.JoinGame(ctx, "g1", "p1")
		require.NoError(t, err)
		_, _, err = manager.JoinGame(ctx, "g1", "p2")
		require.NoError(t, err)

		// When: red moves while it is blue's turn
		_, err = manager.MakeTurn(ctx, "p2", 3)
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)

		// Then: blue can still make the first move onto an empty column
		game, err := manager.MakeTurn(ctx, "p1", 3)
		require.NoError(t, err)
		require.Equal(t, entity.PlayerBlue, game.Board.Cells[5][3])
		require.Equal(t, entity.PlayerRed, game.Turn)
	})
}

// Full match: create, two joins, a column duel, then a horizontal
// blue run on the bottom row.
func TestGameManager_FullMatch(t *testing.T) {
	manager := newTestManager()
	ctx := context.Background()

	_, err := manager.CreateGame(ctx, "g1")
	require.NoError(t, err)

	_, blue, err := manager.JoinGame(ctx, "g1", "p1")
	require.NoError(t, err)
	require.Equal(t, entity.PlayerBlue, blue.Color)

	game, red, err := manager.JoinGame(ctx, "g1", "p2")
	require.NoError(t, err)
	require.Equal(t, entity.PlayerRed, red.Color)
	require.Equal(t, entity.StatusOngoing, game.Status)
	require.Equal(t, entity.PlayerBlue, game.Turn)

	// Both players stack column 3: blue at rows 5,3,1 and red at rows 4,2.
	duel := []struct {
		playerID string
		column   int
		row      int
	}{
		{"p1", 3, 5},
		{"p2", 3, 4},
		{"p1", 3, 3},
		{"p2", 3, 2},
		{"p1", 3, 1},
	}
	for _, move := range duel {
		game, err = manager.MakeTurn(ctx, move.playerID, move.column)
		require.NoError(t, err)
		require.Equal(t, entity.StatusOngoing, game.Status)
	}
	require.Equal(t, entity.PlayerRed, game.Turn)

	// Red wanders off to column 4 while blue builds the bottom row.
	endgame := []struct {
		playerID string
		column   int
	}{
		{"p2", 4},
		{"p1", 0},
		{"p2", 4},
		{"p1", 1},
		{"p2", 4},
	}
	for _, move := range endgame {
		game, err = manager.MakeTurn(ctx, move.playerID, move.column)
		require.NoError(t, err)
		require.Equal(t, entity.StatusOngoing, game.Status)
	}

	// When: blue completes columns 0-3 on the bottom row
	game, err = manager.MakeTurn(ctx, "p1", 2)
	require.NoError(t, err)

	// Then: blue wins and the session is terminal
	require.Equal(t, entity.StatusFinished, game.Status)
	require.Equal(t, entity.PlayerBlue, game.Winner)
	require.Equal(t, "", game.Turn)

	// And: no further moves are accepted
	_, err = manager.MakeTurn(ctx, "p2", 4)
	require.ErrorIs(t, err, apperror.ErrGameFinished)

	// And: the finished game never shows as open
	names, err := manager.ListOpenGames(ctx)
	require.NoError(t, err)
	require.Empty(t, names)
}
