package game

// Phase is the client's own lifecycle label. It is driven by server messages
// but is distinct from the room's State field: a late roster update can carry
// a LOBBY room while the local player is already PLAYING.
type Phase string

const (
	PhaseMenu     Phase = "MENU"
	PhaseLobby    Phase = "LOBBY"
	PhasePlaying  Phase = "PLAYING"
	PhaseFinished Phase = "FINISHED"
)

// RoomState is the server's lifecycle label for a room.
type RoomState string

const (
	RoomStateLobby    RoomState = "LOBBY"
	RoomStatePlaying  RoomState = "PLAYING"
	RoomStateFinished RoomState = "FINISHED"
)

// Player as assigned by the server. The ID may briefly be a client-generated
// temp placeholder until the server confirms the real one.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

// Room is the server-owned aggregate for one game instance. The client never
// computes any of these fields; it stores the latest copy wholesale and treats
// it as an immutable snapshot (replace, never mutate in place).
type Room struct {
	RoomID             string    `json:"roomId"`
	HostID             string    `json:"hostId"`
	Players            []Player  `json:"players"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	MinRange           int       `json:"minRange"`
	MaxRange           int       `json:"maxRange"`
	State              RoomState `json:"state"`

	// SecretNumber is only present on the game-start message and is never
	// displayed during normal play.
	SecretNumber int `json:"secretNumber,omitempty"`
}

// CurrentPlayer returns the player whose turn it is, or nil if the index is
// not valid for the current roster.
func (r *Room) CurrentPlayer() *Player {
	if r == nil || r.CurrentPlayerIndex < 0 || r.CurrentPlayerIndex >= len(r.Players) {
		return nil
	}
	return &r.Players[r.CurrentPlayerIndex]
}

// PlayerByName returns the roster entry with the given display name, or nil.
// Names are unique within a room.
func (r *Room) PlayerByName(name string) *Player {
	if r == nil {
		return nil
	}
	for i := range r.Players {
		if r.Players[i].Name == name {
			return &r.Players[i]
		}
	}
	return nil
}

// SingleCandidateLeft reports whether exactly one safe number remains, which
// means the next guesser is forced to pick it and lose.
func (r *Room) SingleCandidateLeft() bool {
	return r != nil && r.MinRange == r.MaxRange
}

// Turn is one recorded guess and its server-classified outcome.
type Turn struct {
	PlayerName string `json:"playerName"`
	Guess      int    `json:"guess"`
	Result     string `json:"result"`
}
