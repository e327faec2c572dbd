package game

import "testing"

func sampleRoom() *Room {
	return &Room{
		RoomID: "R1",
		HostID: "P1",
		Players: []Player{
			{ID: "P1", Name: "Alice", IsHost: true},
			{ID: "P2", Name: "Bob"},
		},
		MinRange: 1,
		MaxRange: 99,
		State:    RoomStateLobby,
	}
}

func TestReduceTransitions(t *testing.T) {
	room := sampleRoom()
	turn := &Turn{PlayerName: "Alice", Guess: 42, Result: "safe"}

	cases := []struct {
		name   string
		setup  []Action
		action Action
		check  func(t *testing.T, s ClientState)
	}{
		{
			name:   "set connected",
			action: Action{Type: ActionSetConnected, Connected: true},
			check: func(t *testing.T, s ClientState) {
				if !s.Connected {
					t.Fatalf("expected connected")
				}
			},
		},
		{
			name:   "set room wholesale",
			action: Action{Type: ActionSetRoom, Room: room},
			check: func(t *testing.T, s ClientState) {
				if s.Room != room {
					t.Fatalf("expected room replaced")
				}
			},
		},
		{
			name:   "add turn sets current turn",
			action: Action{Type: ActionAddTurn, Turn: turn},
			check: func(t *testing.T, s ClientState) {
				if len(s.History) != 1 || s.CurrentTurn == nil || *s.CurrentTurn != *turn {
					t.Fatalf("expected history [turn], got %+v", s)
				}
			},
		},
		{
			name:   "update countdown ignored when not counting",
			action: Action{Type: ActionUpdateCountdown, Count: 3},
			check: func(t *testing.T, s ClientState) {
				if s.Countdown != 0 {
					t.Fatalf("expected countdown untouched, got %d", s.Countdown)
				}
			},
		},
		{
			name: "update countdown while counting",
			setup: []Action{
				{Type: ActionStartCountdown, Count: 5},
			},
			action: Action{Type: ActionUpdateCountdown, Count: 4},
			check: func(t *testing.T, s ClientState) {
				if !s.CountingDown || s.Countdown != 4 {
					t.Fatalf("expected countdown 4, got %+v", s)
				}
			},
		},
		{
			name: "end countdown",
			setup: []Action{
				{Type: ActionStartCountdown, Count: 5},
			},
			action: Action{Type: ActionEndCountdown},
			check: func(t *testing.T, s ClientState) {
				if s.CountingDown || s.Countdown != 0 {
					t.Fatalf("expected countdown ended, got %+v", s)
				}
			},
		},
		{
			name: "clear history",
			setup: []Action{
				{Type: ActionAddTurn, Turn: turn},
			},
			action: Action{Type: ActionClearHistory},
			check: func(t *testing.T, s ClientState) {
				if len(s.History) != 0 || s.CurrentTurn != nil {
					t.Fatalf("expected empty history, got %+v", s)
				}
			},
		},
		{
			name: "reset keeps connection and name",
			setup: []Action{
				{Type: ActionSetConnected, Connected: true},
				{Type: ActionSetPlayerName, Name: "Alice"},
				{Type: ActionSetRoom, Room: room},
				{Type: ActionSetPhase, Phase: PhasePlaying},
				{Type: ActionAddTurn, Turn: turn},
				{Type: ActionSetError, Message: "boom"},
			},
			action: Action{Type: ActionReset},
			check: func(t *testing.T, s ClientState) {
				if !s.Connected || s.PlayerName != "Alice" {
					t.Fatalf("expected connection and name to survive reset, got %+v", s)
				}
				if s.Room != nil || s.Phase != PhaseMenu || len(s.History) != 0 || s.Err != "" {
					t.Fatalf("expected everything else back to initial, got %+v", s)
				}
			},
		},
		{
			name:   "unknown action is a no-op",
			action: Action{Type: ActionType("SOMETHING_NEW")},
			check: func(t *testing.T, s ClientState) {
				if s.Phase != PhaseMenu {
					t.Fatalf("expected untouched state, got %+v", s)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := initialState()
			for _, a := range tc.setup {
				s = Reduce(s, a)
			}
			s = Reduce(s, tc.action)
			tc.check(t, s)
		})
	}
}

// CurrentTurn must always equal the last element of History, or be nil when
// the history is empty, for any transition sequence.
func TestCurrentTurnTracksHistory(t *testing.T) {
	seq := []Action{
		{Type: ActionAddTurn, Turn: &Turn{PlayerName: "Alice", Guess: 10, Result: "safe"}},
		{Type: ActionAddTurn, Turn: &Turn{PlayerName: "Bob", Guess: 20, Result: "safe"}},
		{Type: ActionClearHistory},
		{Type: ActionAddTurn, Turn: &Turn{PlayerName: "Alice", Guess: 30, Result: "lost"}},
		{Type: ActionReset},
		{Type: ActionAddTurn, Turn: &Turn{PlayerName: "Bob", Guess: 40, Result: "safe"}},
	}

	s := initialState()
	for i, a := range seq {
		s = Reduce(s, a)
		if len(s.History) == 0 {
			if s.CurrentTurn != nil {
				t.Fatalf("step %d: current turn set with empty history", i)
			}
			continue
		}
		if s.CurrentTurn == nil || *s.CurrentTurn != s.History[len(s.History)-1] {
			t.Fatalf("step %d: current turn %+v does not match last history entry", i, s.CurrentTurn)
		}
	}
}

func TestAddTurnCopiesHistory(t *testing.T) {
	s := initialState()
	s = Reduce(s, Action{Type: ActionAddTurn, Turn: &Turn{PlayerName: "Alice", Guess: 1, Result: "safe"}})
	old := s
	s = Reduce(s, Action{Type: ActionAddTurn, Turn: &Turn{PlayerName: "Bob", Guess: 2, Result: "safe"}})

	if len(old.History) != 1 {
		t.Fatalf("older snapshot observed new turn: %+v", old.History)
	}
	if len(s.History) != 2 {
		t.Fatalf("expected two turns, got %+v", s.History)
	}
}

func TestStoreApplyReturnsSnapshot(t *testing.T) {
	st := NewStore()
	got := st.Apply(Action{Type: ActionSetPhase, Phase: PhaseLobby})
	if got.Phase != PhaseLobby {
		t.Fatalf("expected LOBBY, got %s", got.Phase)
	}
	if st.Snapshot().Phase != PhaseLobby {
		t.Fatalf("snapshot does not reflect apply")
	}
}

func TestRoomHelpers(t *testing.T) {
	room := sampleRoom()
	room.CurrentPlayerIndex = 1

	if p := room.CurrentPlayer(); p == nil || p.Name != "Bob" {
		t.Fatalf("expected Bob to be current, got %+v", p)
	}
	if p := room.PlayerByName("Alice"); p == nil || p.ID != "P1" {
		t.Fatalf("expected Alice by name, got %+v", p)
	}
	if room.PlayerByName("Zed") != nil {
		t.Fatalf("expected nil for unknown name")
	}

	room.CurrentPlayerIndex = 5
	if room.CurrentPlayer() != nil {
		t.Fatalf("expected nil for out-of-range index")
	}

	if room.SingleCandidateLeft() {
		t.Fatalf("1..99 is not a single candidate")
	}
	room.MinRange, room.MaxRange = 42, 42
	if !room.SingleCandidateLeft() {
		t.Fatalf("42..42 is a single candidate")
	}
}
