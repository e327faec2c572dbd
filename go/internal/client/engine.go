package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/rangebomb/go/internal/game"
	"github.com/mcdev12/rangebomb/go/internal/protocol"
	"github.com/mcdev12/rangebomb/go/internal/transport"
	"github.com/rs/zerolog/log"
)

// Engine is the client-side synchronization core. It routes inbound server
// pushes into state transitions, keeps topic subscriptions paired with the
// room lifecycle, and owns the local timers (pre-game countdown, forced
// guess, join timeout, auto-return).
//
// All transitions run under one mutex, so inbound messages, user actions and
// timer firings are applied as a single serialized sequence.
type Engine struct {
	cfg    Config
	store  *game.Store
	tp     transport.Transport
	subs   *subscriptionSet
	timers *timerSet
	clock  clockwork.Clock
	names  *NameStore

	// sessionID keys this client's personal queue topic.
	sessionID string

	mu sync.Mutex
	// epoch is bumped on every room reset. Timer callbacks capture the epoch
	// they were scheduled under and no-op if it has moved on, which defends
	// against a fire that races a not-yet-observed cancellation.
	epoch uint64
}

// NewEngine creates an engine over the given transport.
func NewEngine(tp transport.Transport, cfg Config) *Engine {
	return newEngine(tp, cfg, clockwork.NewRealClock())
}

func newEngine(tp transport.Transport, cfg Config, clock clockwork.Clock) *Engine {
	return &Engine{
		cfg:       cfg,
		store:     game.NewStore(),
		tp:        tp,
		subs:      newSubscriptionSet(tp),
		timers:    newTimerSet(clock),
		clock:     clock,
		names:     NewNameStore(cfg.NameFile),
		sessionID: uuid.NewString(),
	}
}

// Connect establishes the transport, loads the persisted player name and
// subscribes the session's base topics (personal queue, general responses).
func (e *Engine) Connect(ctx context.Context) error {
	if err := e.tp.Connect(ctx); err != nil {
		e.store.Apply(game.Action{Type: game.ActionSetError, Message: "Failed to connect to server"})
		return fmt.Errorf("connect transport: %w", err)
	}
	e.store.Apply(game.Action{Type: game.ActionSetConnected, Connected: true})

	if name, err := e.names.Load(); err != nil {
		log.Warn().Err(err).Msg("failed to load saved player name")
	} else if name != "" {
		e.store.Apply(game.Action{Type: game.ActionSetPlayerName, Name: name})
	}

	if err := e.subs.ensure(protocol.SessionTopic(e.sessionID), e.handleRaw); err != nil {
		return fmt.Errorf("subscribe session queue: %w", err)
	}
	if err := e.subs.ensure(protocol.ResponsesTopic, e.handleRaw); err != nil {
		return fmt.Errorf("subscribe responses topic: %w", err)
	}

	log.Info().Str("session_id", e.sessionID).Msg("engine connected")
	return nil
}

// Close cancels every pending timer and shuts the transport down.
func (e *Engine) Close() error {
	e.timers.cancelAll()
	return e.tp.Close()
}

// State returns the current client snapshot.
func (e *Engine) State() game.ClientState {
	return e.store.Snapshot()
}

// SetPlayerName sets and persists the display name. Persistence failures are
// non-fatal.
func (e *Engine) SetPlayerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyPlayerName
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.setPlayerNameLocked(name)
	return nil
}

func (e *Engine) setPlayerNameLocked(name string) {
	e.store.Apply(game.Action{Type: game.ActionSetPlayerName, Name: name})
	if err := e.names.Save(name); err != nil {
		log.Warn().Err(err).Msg("failed to save player name")
	}
}

// CreateRoom asks the server for a new room. The client optimistically
// subscribes a temp personal topic so the creation response cannot be missed;
// the confirmed host topic is subscribed on ROOM_CREATED.
func (e *Engine) CreateRoom(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyPlayerName
	}
	if !e.store.Snapshot().Connected {
		return ErrNotConnected
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.setPlayerNameLocked(name)

	tempID := "temp_" + uuid.NewString()
	if err := e.subs.ensure(protocol.UserTopic(tempID), e.handleRaw); err != nil {
		return fmt.Errorf("subscribe temp user topic: %w", err)
	}

	log.Info().Str("player", name).Str("temp_player_id", tempID).Msg("creating room")
	return e.send(protocol.DestCreateRoom, protocol.CreateRoomCommand{
		PlayerName:   name,
		TempPlayerID: tempID,
	})
}

// JoinRoom asks to join an existing room and arms the join timeout. Exactly
// one join timeout is outstanding per attempt; a second attempt supersedes
// the first.
func (e *Engine) JoinRoom(roomID, name string) error {
	roomID = strings.TrimSpace(roomID)
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyPlayerName
	}
	if roomID == "" {
		return ErrEmptyRoomID
	}
	if !e.store.Snapshot().Connected {
		return ErrNotConnected
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Apply(game.Action{Type: game.ActionSetPlayerName, Name: name})

	if err := e.subs.ensure(protocol.RoomTopic(roomID), e.handleRaw); err != nil {
		return fmt.Errorf("subscribe room topic: %w", err)
	}
	if err := e.send(protocol.DestJoinRoom, protocol.JoinRoomCommand{RoomID: roomID, PlayerName: name}); err != nil {
		return err
	}

	log.Info().Str("room_id", roomID).Str("player", name).Msg("join requested")
	e.startJoinTimeoutLocked()
	return nil
}

// StartGame asks the server to begin the pre-game countdown. Host only; the
// server enforces that.
func (e *Engine) StartGame() error {
	st := e.store.Snapshot()
	if st.Room == nil {
		return ErrNoActiveRoom
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(protocol.DestStartCountdown, protocol.StartCountdownCommand{RoomID: st.Room.RoomID})
}

// MakeGuess submits a guess for the local player after validating it against
// the room's current range.
func (e *Engine) MakeGuess(guess int) error {
	st := e.store.Snapshot()
	if st.Room == nil {
		return ErrNoActiveRoom
	}
	if !st.Connected {
		return ErrNotConnected
	}
	if guess < st.Room.MinRange || guess > st.Room.MaxRange {
		return &OutOfRangeError{Guess: guess, Min: st.Room.MinRange, Max: st.Room.MaxRange}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(protocol.DestMakeGuess, protocol.MakeGuessCommand{RoomID: st.Room.RoomID, Guess: guess})
}

// QuitGame leaves the current room. Room subscriptions are torn down before
// the state reset so no further room messages are processed against a stale
// room.
func (e *Engine) QuitGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.store.Snapshot()
	if st.Room != nil {
		if err := e.send(protocol.DestQuitGame, protocol.QuitGameCommand{
			RoomID:     st.Room.RoomID,
			PlayerName: st.PlayerName,
		}); err != nil {
			log.Warn().Err(err).Msg("quit send failed; resetting anyway")
		}
		e.teardownRoomSubscriptionsLocked(st)
	}
	e.resetLocked()
	return nil
}

// RestartGame asks the server to return the finished room to its lobby. Also
// invoked by the auto-return timer.
func (e *Engine) RestartGame() error {
	st := e.store.Snapshot()
	if st.Room == nil {
		return ErrNoActiveRoom
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Manual restart supersedes the auto-return countdown.
	e.timers.cancel(timerAutoReturn)
	return e.send(protocol.DestRestartGame, protocol.RestartGameCommand{RoomID: st.Room.RoomID})
}

// RemovePlayer asks the server to kick a player from the room. Host only.
func (e *Engine) RemovePlayer(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyPlayerName
	}
	st := e.store.Snapshot()
	if st.Room == nil {
		return ErrNoActiveRoom
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(protocol.DestRemovePlayer, protocol.RemovePlayerCommand{RoomID: st.Room.RoomID, PlayerName: name})
}

// ClearError dismisses the current error.
func (e *Engine) ClearError() {
	e.store.Apply(game.Action{Type: game.ActionClearError})
}

func (e *Engine) send(dest string, body any) error {
	if err := e.tp.Send(dest, body); err != nil {
		return fmt.Errorf("send %s: %w", dest, err)
	}
	return nil
}

// resetLocked clears room state back to MENU: every timer is cancelled, the
// epoch moves on so in-flight timer callbacks become no-ops, and the store
// resets (keeping connection and player name).
func (e *Engine) resetLocked() {
	e.timers.cancelAll()
	e.epoch++
	e.store.Apply(game.Action{Type: game.ActionReset})
}

// teardownRoomSubscriptionsLocked drops the room topic and the local player's
// personal topic for the given snapshot's room.
func (e *Engine) teardownRoomSubscriptionsLocked(st game.ClientState) {
	if st.Room == nil {
		return
	}
	e.subs.drop(protocol.RoomTopic(st.Room.RoomID))
	if p := st.Room.PlayerByName(st.PlayerName); p != nil {
		e.subs.drop(protocol.UserTopic(p.ID))
	}
}

// startJoinTimeoutLocked arms the "room not found" timeout for the current
// join attempt. ROOM_JOINED and PLAYER_JOINED cancel it; if it fires while
// the client still sits in MENU with no room, the error is surfaced once.
func (e *Engine) startJoinTimeoutLocked() {
	epoch := e.epoch
	e.timers.scheduleOnce(timerJoinTimeout, e.cfg.joinTimeout(), func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.epoch != epoch {
			return
		}
		st := e.store.Snapshot()
		if st.Phase == game.PhaseMenu && st.Room == nil {
			log.Info().Msg("join attempt timed out")
			e.store.Apply(game.Action{Type: game.ActionSetError, Message: roomNotFoundMessage})
		}
	})
}

// startCountdownLocked runs the fixed pre-game countdown, decrementing once
// per tick. GAME_STARTED supersedes it; END_COUNTDOWN is idempotent either
// way.
func (e *Engine) startCountdownLocked() {
	e.store.Apply(game.Action{Type: game.ActionStartCountdown, Count: e.cfg.CountdownStart})

	epoch := e.epoch
	e.timers.scheduleTicker(timerCountdown, countdownTick, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.epoch != epoch {
			return false
		}
		st := e.store.Snapshot()
		if !st.CountingDown {
			return false
		}
		if next := st.Countdown - 1; next > 0 {
			e.store.Apply(game.Action{Type: game.ActionUpdateCountdown, Count: next})
			return true
		}
		e.store.Apply(game.Action{Type: game.ActionEndCountdown})
		return false
	})
}

// scheduleForcedGuessLocked arms the forced move: when only one safe number
// remains, the current player is made to pick it after a short delay. Any
// newer GUESS_MADE, GAME_STARTED or reset cancels it; a stale fire re-checks
// room identity and phase and backs off.
func (e *Engine) scheduleForcedGuessLocked(room *game.Room) {
	roomID := room.RoomID
	value := room.MinRange
	epoch := e.epoch

	log.Info().Str("room_id", roomID).Int("value", value).Msg("single candidate left; scheduling forced guess")
	e.timers.scheduleOnce(timerForcedGuess, e.cfg.forcedGuessDelay(), func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.epoch != epoch {
			return
		}
		st := e.store.Snapshot()
		if st.Room == nil || st.Room.RoomID != roomID {
			return
		}
		if st.Phase != game.PhasePlaying || !st.Room.SingleCandidateLeft() {
			return
		}
		if err := e.send(protocol.DestMakeGuess, protocol.MakeGuessCommand{RoomID: roomID, Guess: value}); err != nil {
			log.Warn().Err(err).Msg("forced guess send failed")
		}
	})
}

// startAutoReturnLocked arms the end-game countdown back to the lobby.
// Cancelled by manual restart, quit, or leaving FINISHED.
func (e *Engine) startAutoReturnLocked(roomID string) {
	epoch := e.epoch
	e.timers.scheduleOnce(timerAutoReturn, e.cfg.autoReturnDelay(), func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.epoch != epoch {
			return
		}
		st := e.store.Snapshot()
		if st.Phase != game.PhaseFinished || st.Room == nil || st.Room.RoomID != roomID {
			return
		}
		log.Info().Str("room_id", roomID).Msg("auto-returning to lobby")
		if err := e.send(protocol.DestRestartGame, protocol.RestartGameCommand{RoomID: roomID}); err != nil {
			log.Warn().Err(err).Msg("auto-return send failed")
		}
	})
}
