package entity

// Player is a transient connection handle occupying one slot of a game.
type Player struct {
	ID       string `json:"id"`
	Color    string `json:"color,omitempty"`
	GameName string `json:"game_name,omitempty"`
}
