package entity

import (
	"fmt"

	"github.com/dropfour/connectfour-backend/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

const maxPlayers = 2

// Game is one session of connect four, identified by the name its
// creator picked. The first player to join gets blue and blue always
// moves first; the second gets red.
type Game struct {
	Name    string    `json:"name"`
	Board   Board     `json:"board"`
	Turn    string    `json:"turn"`
	Winner  string    `json:"winner,omitempty"`
	Status  string    `json:"status"`
	Players []*Player `json:"players,omitempty"`
}

func NewGame(name string) *Game {
	return &Game{
		Name:   name,
		Board:  NewBoard(BoardRows, BoardCols),
		Turn:   PlayerBlue,
		Status: StatusWaiting,
	}
}

// AddPlayer admits a player into the next free slot and returns the
// color that slot carries. Admitting the second player starts the game.
func (that *Game) AddPlayer(player *Player) (string, error) {
	if len(that.Players) >= maxPlayers {
		return "", fmt.Errorf("%w: %s", apperror.ErrGameIsFull, that.Name)
	}

	color := PlayerBlue
	if len(that.Players) == 1 {
		color = PlayerRed
	}

	player.Color = color
	player.GameName = that.Name
	that.Players = append(that.Players, player)

	if len(that.Players) == maxPlayers {
		that.Status = StatusOngoing
	}

	return color, nil
}

func (that *Game) IsOpen() bool {
	return len(that.Players) < maxPlayers
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	default:
		return nil
	}
}
