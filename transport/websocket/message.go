package websocket

import "encoding/json"

// Inbound client events and their outbound counterparts. The event
// names are the wire protocol the game client speaks.
const (
	ActionListOpenGames = "getListOfOpenGames"
	ActionCreateGame    = "createNewGame"
	ActionAddPlayer     = "addPlayerToGame"
	ActionPlayerMove    = "playerMove"

	EventDisplayListOfGames = "displayListOfGames"
	EventGameCreated        = "gameCreated"
	EventFailedToCreateGame = "failedToCreateGame"
	EventPlayerAddedToGame  = "playerAddedToGame"
	EventGameStarted        = "gameStarted"
	EventFailedToAddPlayer  = "failedToAddPlayer"
	EventGameStateUpdate    = "gameStateUpdate"
	EventGameOver           = "gameOver"
	EventMoveNotAllowed     = "playerNotAllowedToMove"
)

// Message is one websocket frame: an action name plus its payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreateGamePayload struct {
	GameName string `json:"gameName"`
}

type JoinGamePayload struct {
	GameName string `json:"gameName"`
}

type MovePayload struct {
	Column int `json:"column"`
}

type GameListPayload struct {
	OpenGameNames []string `json:"openGameNames"`
}

type PlayerAddedPayload struct {
	PlayerColor string `json:"playerColor"`
	GameName    string `json:"gameName"`
}

type GameStartedPayload struct {
	CurrentTurnColor string `json:"currentTurnColor"`
}

// GameStatePayload carries the authoritative board: rows of
// "blank"/"blue"/"red" cells, row 0 on top.
type GameStatePayload struct {
	CurrentTurnColor string     `json:"currentTurnColor"`
	GameState        [][]string `json:"gameState"`
}

type GameOverPayload struct {
	Winner string `json:"winner,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
