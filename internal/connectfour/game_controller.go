// Package connectfour holds the move rules for a game session.
// Everything here works on the server-held board: the only client input
// a turn takes is the column index.
package connectfour

import (
	"fmt"

	"github.com/dropfour/connectfour-backend/internal/apperror"
	"github.com/dropfour/connectfour-backend/internal/entity"
)

// MakeTurn validates and applies one move. Checks run in a fixed order:
// the game must be in progress, the mover must hold the current turn,
// and the column must be in range with a free cell. On success the
// piece is dropped, the board is re-evaluated and either the turn
// toggles or the game finishes.
func MakeTurn(gameInstance *entity.Game, playerColor string, column int) error {
	if err := gameInstance.ConfirmOngoingState(); err != nil {
		return err
	}

	if gameInstance.Turn != playerColor {
		return apperror.ErrNotYourTurn
	}

	if _, err := gameInstance.Board.Drop(column, playerColor); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	updateGameStatus(gameInstance, playerColor)

	return nil
}

// updateGameStatus - checks the game outcome after a move.
func updateGameStatus(gameInstance *entity.Game, playerColor string) {
	switch winner := gameInstance.Board.Evaluate(); winner {
	case entity.PlayerBlue, entity.PlayerRed:
		gameInstance.Winner = winner
		gameInstance.Status = entity.StatusFinished
		gameInstance.Turn = ""
	case entity.PlayerTie:
		gameInstance.Winner = entity.PlayerTie
		gameInstance.Status = entity.StatusFinished
		gameInstance.Turn = ""
	default:
		gameInstance.Turn = toggleColor(playerColor)
	}
}

func toggleColor(currentColor string) string {
	if currentColor == entity.PlayerBlue {
		return entity.PlayerRed
	}
	return entity.PlayerBlue
}
