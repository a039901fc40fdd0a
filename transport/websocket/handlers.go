package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dropfour/connectfour-backend/internal/entity"
)

func (that *Server) handleListOpenGames(ctx context.Context, playerID string, _ json.RawMessage) error {
	names, err := that.gameUseCase.ListOpenGames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open games: %w", err)
	}

	return that.sendTo(playerID, EventDisplayListOfGames, GameListPayload{OpenGameNames: names})
}

func (that *Server) handleCreateGame(ctx context.Context, playerID string, payload json.RawMessage) error {
	log := that.logger.With("method", "handleCreateGame", "playerID", playerID)

	var payloadReq CreateGamePayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if _, err := that.gameUseCase.CreateGame(ctx, payloadReq.GameName); err != nil {
		log.Info("failed to create game", "game", payloadReq.GameName, "error", err)
		return that.sendTo(playerID, EventFailedToCreateGame, ErrorPayload{Error: err.Error()})
	}

	if err := that.sendTo(playerID, EventGameCreated, nil); err != nil {
		return err
	}

	// Everyone's lobby list just changed, not only the creator's.
	names, err := that.gameUseCase.ListOpenGames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open games: %w", err)
	}
	that.broadcast(EventDisplayListOfGames, GameListPayload{OpenGameNames: names})

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, playerID string, payload json.RawMessage) error {
	log := that.logger.With("method", "handleJoinGame", "playerID", playerID)

	var payloadReq JoinGamePayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	game, player, err := that.gameUseCase.JoinGame(ctx, payloadReq.GameName, playerID)
	if err != nil {
		log.Info("failed to join game", "game", payloadReq.GameName, "error", err)
		return that.sendTo(playerID, EventFailedToAddPlayer, ErrorPayload{Error: err.Error()})
	}

	err = that.sendTo(playerID, EventPlayerAddedToGame, PlayerAddedPayload{
		PlayerColor: player.Color,
		GameName:    game.Name,
	})
	if err != nil {
		return err
	}

	if game.IsOngoing() {
		that.notifyPlayers(game, EventGameStarted, GameStartedPayload{CurrentTurnColor: game.Turn})
	}

	return nil
}

func (that *Server) handlePlayerMove(ctx context.Context, playerID string, payload json.RawMessage) error {
	log := that.logger.With("method", "handlePlayerMove", "playerID", playerID)

	var payloadReq MovePayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	game, err := that.gameUseCase.MakeTurn(ctx, playerID, payloadReq.Column)
	if err != nil {
		log.Info("move rejected", "column", payloadReq.Column, "error", err)
		return that.sendTo(playerID, EventMoveNotAllowed, ErrorPayload{Error: err.Error()})
	}

	that.notifyPlayers(game, EventGameStateUpdate, GameStatePayload{
		CurrentTurnColor: game.Turn,
		GameState:        game.Board.Cells,
	})

	if game.IsFinished() {
		that.notifyPlayers(game, EventGameOver, GameOverPayload{Winner: game.Winner})
	}

	return nil
}

// notifyPlayers pushes an event to every slot of a session.
func (that *Server) notifyPlayers(game *entity.Game, event string, payload any) {
	log := that.logger.With("method", "notifyPlayers", "game", game.Name)

	for _, player := range game.Players {
		if err := that.sendTo(player.ID, event, payload); err != nil {
			log.Error("failed to send game event", "playerID", player.ID, "event", event, "error", err)
		}
	}
}
