package protocol

import (
	"testing"

	"github.com/mcdev12/rangebomb/go/internal/game"
)

func TestParseServerEvent(t *testing.T) {
	data := []byte(`{
		"type": "GUESS_MADE",
		"gameRoom": {
			"roomId": "R1",
			"hostId": "P1",
			"players": [{"id": "P1", "name": "Alice", "isHost": true}],
			"currentPlayerIndex": 0,
			"minRange": 42,
			"maxRange": 42,
			"state": "PLAYING"
		},
		"lastTurn": {"playerName": "Alice", "guess": 40, "result": "safe"}
	}`)

	ev, err := ParseServerEvent(data)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.Type != EventGuessMade {
		t.Fatalf("expected GUESS_MADE, got %s", ev.Type)
	}
	if ev.GameRoom == nil || ev.GameRoom.RoomID != "R1" || !ev.GameRoom.SingleCandidateLeft() {
		t.Fatalf("room not decoded: %+v", ev.GameRoom)
	}
	if ev.GameRoom.State != game.RoomStatePlaying {
		t.Fatalf("expected PLAYING room state, got %s", ev.GameRoom.State)
	}
	if ev.LastTurn == nil || ev.LastTurn.Guess != 40 {
		t.Fatalf("turn not decoded: %+v", ev.LastTurn)
	}
}

func TestParseServerEventUnknownTypeIsRepresentable(t *testing.T) {
	ev, err := ParseServerEvent([]byte(`{"type": "FUTURE_THING", "message": "hi"}`))
	if err != nil {
		t.Fatalf("unknown discriminants must still parse: %v", err)
	}
	if ev.Type != EventType("FUTURE_THING") || ev.Message != "hi" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestParseServerEventRejectsGarbage(t *testing.T) {
	if _, err := ParseServerEvent([]byte(`{`)); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if _, err := ParseServerEvent([]byte(`{"message": "no type"}`)); err == nil {
		t.Fatalf("expected error for missing type")
	}
}
