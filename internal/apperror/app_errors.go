package apperror

import "errors"

var (
	ErrGameAlreadyExists = errors.New("game name is already taken")
	ErrGameNotFound      = errors.New("game not found")
	ErrGameIsFull        = errors.New("game already has two players")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrColumnOutOfRange  = errors.New("column is out of range")
	ErrColumnFull        = errors.New("column is full")
	ErrPlayerNotInGame   = errors.New("player is not in a game")
	ErrPlayerInOtherGame = errors.New("player already holds a slot in another game")
)
