package protocol

// Outbound command destinations. Sends are fire-and-forget; the server
// answers on the topics above.
const (
	DestCreateRoom     = "game.cmd.createRoom"
	DestJoinRoom       = "game.cmd.joinRoom"
	DestStartCountdown = "game.cmd.startCountdown"
	DestMakeGuess      = "game.cmd.makeGuess"
	DestQuitGame       = "game.cmd.quitGame"
	DestRestartGame    = "game.cmd.restartGame"
	DestRemovePlayer   = "game.cmd.removePlayer"
)

type CreateRoomCommand struct {
	PlayerName   string `json:"playerName"`
	TempPlayerID string `json:"tempPlayerId"`
}

type JoinRoomCommand struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type StartCountdownCommand struct {
	RoomID string `json:"roomId"`
}

type MakeGuessCommand struct {
	RoomID string `json:"roomId"`
	Guess  int    `json:"guess"`
}

type QuitGameCommand struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type RestartGameCommand struct {
	RoomID string `json:"roomId"`
}

type RemovePlayerCommand struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}
