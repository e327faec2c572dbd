package client

import (
	"errors"
	"fmt"
)

// Local action errors. These are rejected synchronously, before any state
// mutation or transport send.
var (
	ErrNotConnected    = errors.New("not connected to server")
	ErrEmptyPlayerName = errors.New("player name must not be empty")
	ErrEmptyRoomID     = errors.New("room id must not be empty")
	ErrNoActiveRoom    = errors.New("no active game room")
)

// roomNotFoundMessage is surfaced when a join attempt resolves nothing within
// the join timeout. The prefix is stable so UIs can distinguish it from
// generic errors.
const roomNotFoundMessage = "Room not found - Please enter an existing Room ID"

// OutOfRangeError rejects a guess outside the room's current range.
type OutOfRangeError struct {
	Guess, Min, Max int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("guess %d must be between %d and %d", e.Guess, e.Min, e.Max)
}
