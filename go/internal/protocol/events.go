package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/mcdev12/rangebomb/go/internal/game"
)

// EventType discriminates inbound server pushes.
type EventType string

const (
	EventRoomCreated           EventType = "ROOM_CREATED"
	EventPlayerJoined          EventType = "PLAYER_JOINED"
	EventRoomJoined            EventType = "ROOM_JOINED"
	EventGameStartingCountdown EventType = "GAME_STARTING_COUNTDOWN"
	EventGameStarted           EventType = "GAME_STARTED"
	EventGuessMade             EventType = "GUESS_MADE"
	EventPlayerQuit            EventType = "PLAYER_QUIT"
	EventPlayerRemoved         EventType = "PLAYER_REMOVED"
	EventGameRestarted         EventType = "GAME_RESTARTED"
	EventPlayerKicked          EventType = "PLAYER_KICKED"
	EventError                 EventType = "ERROR"
)

// ServerEvent is the push envelope shared by every inbound topic. Unrecognized
// Type values are representable and routed to an explicit ignore path, never
// an error.
type ServerEvent struct {
	Type     EventType  `json:"type"`
	GameRoom *game.Room `json:"gameRoom,omitempty"`
	LastTurn *game.Turn `json:"lastTurn,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// ParseServerEvent decodes one envelope.
func ParseServerEvent(data []byte) (*ServerEvent, error) {
	var ev ServerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal server event: %w", err)
	}
	if ev.Type == "" {
		return nil, fmt.Errorf("server event missing type")
	}
	return &ev, nil
}
