package client

import (
	"github.com/mcdev12/rangebomb/go/internal/game"
	"github.com/mcdev12/rangebomb/go/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleRaw is the transport handler for every inbound topic. Malformed
// payloads are dropped; everything else is routed under the engine mutex so
// transitions from different topics never interleave.
func (e *Engine) handleRaw(data []byte) {
	ev, err := protocol.ParseServerEvent(data)
	if err != nil {
		log.Warn().Err(err).Msg("dropping malformed server event")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.routeEvent(ev)
}

// routeEvent maps one inbound discriminant to its transition sequence and
// subscription side effects. Room payloads are last-write-wins replacements,
// never merges, so out-of-order delivery across topics stays harmless.
func (e *Engine) routeEvent(ev *protocol.ServerEvent) {
	log.Debug().Str("type", string(ev.Type)).Msg("server event")

	switch ev.Type {
	case protocol.EventRoomCreated:
		e.store.Apply(game.Action{Type: game.ActionSetRoom, Room: ev.GameRoom})
		e.store.Apply(game.Action{Type: game.ActionSetPhase, Phase: game.PhaseLobby})
		if ev.GameRoom != nil {
			e.ensureEventTopic(protocol.RoomTopic(ev.GameRoom.RoomID))
			e.ensureEventTopic(protocol.UserTopic(ev.GameRoom.HostID))
		}

	case protocol.EventPlayerJoined:
		e.timers.cancel(timerJoinTimeout)
		prev := e.store.Snapshot()
		e.store.Apply(game.Action{Type: game.ActionSetRoom, Room: ev.GameRoom})
		// Only a player not yet in a room treats a roster update as their own
		// join confirmation; anyone already mid-game must not be bounced back
		// to the lobby by a late-arriving update.
		if ev.GameRoom != nil && (prev.Phase == game.PhaseMenu || prev.Room == nil) {
			e.store.Apply(game.Action{Type: game.ActionSetPhase, Phase: game.PhaseLobby})
			if p := ev.GameRoom.PlayerByName(prev.PlayerName); p != nil {
				e.ensureEventTopic(protocol.UserTopic(p.ID))
			}
		}

	case protocol.EventRoomJoined:
		e.timers.cancel(timerJoinTimeout)
		e.store.Apply(game.Action{Type: game.ActionSetRoom, Room: ev.GameRoom})
		e.store.Apply(game.Action{Type: game.ActionSetPhase, Phase: game.PhaseLobby})
		if ev.GameRoom != nil {
			if p := ev.GameRoom.PlayerByName(e.store.Snapshot().PlayerName); p != nil {
				e.ensureEventTopic(protocol.UserTopic(p.ID))
			}
		}

	case protocol.EventGameStartingCountdown:
		e.store.Apply(game.Action{Type: game.ActionSetRoom, Room: ev.GameRoom})
		e.startCountdownLocked()

	case protocol.EventGameStarted:
		// A started game supersedes both the countdown and any pending forced
		// guess from a previous round.
		e.timers.cancel(timerCountdown)
		e.timers.cancel(timerForcedGuess)
		e.store.Apply(game.Action{Type: game.ActionEndCountdown})
		e.store.Apply(game.Action{Type: game.ActionClearHistory})
		e.store.Apply(game.Action{Type: game.ActionSetRoom, Room: ev.GameRoom})
		e.store.Apply(game.Action{Type: game.ActionSetPhase, Phase: game.PhasePlaying})
		if ev.GameRoom != nil && ev.GameRoom.SecretNumber != 0 {
			log.Debug().Int("secret_number", ev.GameRoom.SecretNumber).Msg("game started")
		}

	case protocol.EventGuessMade:
		e.timers.cancel(timerForcedGuess)
		e.store.Apply(game.Action{Type: game.ActionSetRoom, Room: ev.GameRoom})
		if ev.LastTurn != nil {
			e.store.Apply(game.Action{Type: game.ActionAddTurn, Turn: ev.LastTurn})
		}
		if ev.GameRoom == nil {
			return
		}
		if ev.GameRoom.State == game.RoomStateFinished {
			e.store.Apply(game.Action{Type: game.ActionSetPhase, Phase: game.PhaseFinished})
			e.startAutoReturnLocked(ev.GameRoom.RoomID)
		} else if ev.GameRoom.SingleCandidateLeft() {
			e.scheduleForcedGuessLocked(ev.GameRoom)
		}

	case protocol.EventPlayerQuit, protocol.EventPlayerRemoved:
		e.store.Apply(game.Action{Type: game.ActionSetRoom, Room: ev.GameRoom})

	case protocol.EventGameRestarted:
		e.timers.cancel(timerAutoReturn)
		e.store.Apply(game.Action{Type: game.ActionClearHistory})
		e.store.Apply(game.Action{Type: game.ActionSetRoom, Room: ev.GameRoom})
		e.store.Apply(game.Action{Type: game.ActionSetPhase, Phase: game.PhaseLobby})

	case protocol.EventPlayerKicked:
		// Hard local reset: subscriptions come down before the reset so no
		// further messages are processed against the stale room, and the kick
		// message must survive the reset for the player to see.
		log.Info().Str("message", ev.Message).Msg("kicked from room")
		e.teardownRoomSubscriptionsLocked(e.store.Snapshot())
		e.resetLocked()
		e.store.Apply(game.Action{Type: game.ActionSetError, Message: ev.Message})

	case protocol.EventError:
		log.Info().Str("message", ev.Message).Msg("server error")
		e.store.Apply(game.Action{Type: game.ActionSetError, Message: ev.Message})

	default:
		log.Warn().Str("type", string(ev.Type)).Msg("unknown server event type - ignoring")
	}
}

// ensureEventTopic subscribes a topic to the shared event handler, logging
// instead of failing: a subscription error must not derail the transition
// sequence already applied.
func (e *Engine) ensureEventTopic(topic string) {
	if err := e.subs.ensure(topic, e.handleRaw); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("subscribe failed")
	}
}
