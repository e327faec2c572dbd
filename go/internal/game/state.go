package game

import "sync"

// ClientState is the single local snapshot of the game as seen by this
// client. It is replaced wholesale on every transition, never partially
// aliased, so readers can hold a copy without synchronization.
type ClientState struct {
	Connected    bool
	PlayerName   string
	Room         *Room
	History      []Turn
	CurrentTurn  *Turn
	Err          string
	Phase        Phase
	Countdown    int
	CountingDown bool
}

func initialState() ClientState {
	return ClientState{Phase: PhaseMenu}
}

// Reduce applies one transition to a state and returns the next state. It is
// pure: no side effects, no mutation of the input. History is copied on
// append so older snapshots never observe new turns.
func Reduce(s ClientState, a Action) ClientState {
	switch a.Type {
	case ActionSetConnected:
		s.Connected = a.Connected

	case ActionSetPlayerName:
		s.PlayerName = a.Name

	case ActionSetRoom:
		s.Room = a.Room

	case ActionSetPhase:
		s.Phase = a.Phase

	case ActionAddTurn:
		if a.Turn == nil {
			return s
		}
		history := make([]Turn, 0, len(s.History)+1)
		history = append(history, s.History...)
		history = append(history, *a.Turn)
		s.History = history
		s.CurrentTurn = &history[len(history)-1]

	case ActionSetError:
		s.Err = a.Message

	case ActionClearError:
		s.Err = ""

	case ActionStartCountdown:
		s.Countdown = a.Count
		s.CountingDown = true

	case ActionUpdateCountdown:
		if s.CountingDown {
			s.Countdown = a.Count
		}

	case ActionEndCountdown:
		s.Countdown = 0
		s.CountingDown = false

	case ActionClearHistory:
		s.History = nil
		s.CurrentTurn = nil

	case ActionReset:
		next := initialState()
		next.Connected = s.Connected
		next.PlayerName = s.PlayerName
		return next
	}
	return s
}

// Store owns the ClientState. Every mutation goes through Apply; everything
// else reads snapshots. Apply calls are atomic with respect to each other.
type Store struct {
	mu    sync.Mutex
	state ClientState
}

func NewStore() *Store {
	return &Store{state: initialState()}
}

// Apply runs one transition and returns the resulting snapshot.
func (s *Store) Apply(a Action) ClientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// Snapshot returns the current state.
func (s *Store) Snapshot() ClientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
