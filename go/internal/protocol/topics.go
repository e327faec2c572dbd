package protocol

// ResponsesTopic carries replies that are not yet scoped to a room or player,
// e.g. errors for a join attempt against an unknown room.
const ResponsesTopic = "game.responses"

// RoomTopic is the per-room broadcast subject.
func RoomTopic(roomID string) string {
	return "game.rooms." + roomID
}

// UserTopic is the per-player subject. The player id may be a temp
// client-generated placeholder until the server confirms the real one.
func UserTopic(playerID string) string {
	return "game.users." + playerID
}

// SessionTopic is this client's personal queue, keyed by a session id minted
// at startup.
func SessionTopic(sessionID string) string {
	return "game.sessions." + sessionID
}
