package client

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// timerCategory identifies one of the engine's scheduled behaviors. At most
// one timer per category is ever pending; scheduling a new one cancels the
// prior instance first.
type timerCategory int

const (
	timerCountdown timerCategory = iota
	timerForcedGuess
	timerJoinTimeout
	timerAutoReturn
)

func (c timerCategory) String() string {
	switch c {
	case timerCountdown:
		return "countdown"
	case timerForcedGuess:
		return "forced_guess"
	case timerJoinTimeout:
		return "join_timeout"
	case timerAutoReturn:
		return "auto_return"
	}
	return "unknown"
}

// timerHandle is the explicit cancellation handle for one scheduled behavior.
// Closing cancel stops the waiting goroutine; stop releases the underlying
// timer or ticker.
type timerHandle struct {
	cancel chan struct{}
	stop   func()
}

// timerSet owns the engine's cancellable timers as scoped resources. A
// cancelled handle prevents future fires, but a callback that already won the
// select race may still run; callers must re-check state when it does.
type timerSet struct {
	clock clockwork.Clock

	mu     sync.Mutex
	active map[timerCategory]*timerHandle
}

func newTimerSet(clock clockwork.Clock) *timerSet {
	return &timerSet{
		clock:  clock,
		active: make(map[timerCategory]*timerHandle),
	}
}

// scheduleOnce arms a one-shot timer for the category, cancelling any running
// instance of the same category first.
func (ts *timerSet) scheduleOnce(cat timerCategory, d time.Duration, fn func()) {
	timer := ts.clock.NewTimer(d)
	h := &timerHandle{
		cancel: make(chan struct{}),
		stop:   func() { stopAndDrainTimer(timer) },
	}
	ts.replace(cat, h)

	go func() {
		select {
		case <-timer.Chan():
			ts.remove(cat, h)
			fn()
		case <-h.cancel:
		}
	}()

	log.Debug().Stringer("category", cat).Dur("duration", d).Msg("scheduled one-shot timer")
}

// scheduleTicker arms a repeating timer for the category. fn returning false
// stops the ticker.
func (ts *timerSet) scheduleTicker(cat timerCategory, interval time.Duration, fn func() bool) {
	ticker := ts.clock.NewTicker(interval)
	h := &timerHandle{
		cancel: make(chan struct{}),
		stop:   ticker.Stop,
	}
	ts.replace(cat, h)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if !fn() {
					ts.remove(cat, h)
					return
				}
			case <-h.cancel:
				return
			}
		}
	}()

	log.Debug().Stringer("category", cat).Dur("interval", interval).Msg("scheduled ticker")
}

// cancel stops the category's pending timer, if any. Safe to call when
// nothing is scheduled.
func (ts *timerSet) cancel(cat timerCategory) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if h, ok := ts.active[cat]; ok {
		close(h.cancel)
		h.stop()
		delete(ts.active, cat)
		log.Debug().Stringer("category", cat).Msg("cancelled timer")
	}
}

// cancelAll stops every pending timer. Called on room reset so nothing fires
// against a stale room.
func (ts *timerSet) cancelAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for cat, h := range ts.active {
		close(h.cancel)
		h.stop()
		delete(ts.active, cat)
		log.Debug().Stringer("category", cat).Msg("cancelled timer on reset")
	}
}

// replace atomically swaps in a new handle, cancelling any existing timer of
// the same category so the firing count per category stays at most one.
func (ts *timerSet) replace(cat timerCategory, h *timerHandle) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if old, ok := ts.active[cat]; ok {
		close(old.cancel)
		old.stop()
		log.Debug().Stringer("category", cat).Msg("replaced existing timer")
	}
	ts.active[cat] = h
}

// remove drops a handle once its timer has fired, unless it was already
// replaced by a newer one.
func (ts *timerSet) remove(cat timerCategory, h *timerHandle) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.active[cat] == h {
		delete(ts.active, cat)
	}
}

// pending reports whether a timer of the category is currently scheduled.
func (ts *timerSet) pending(cat timerCategory) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	_, ok := ts.active[cat]
	return ok
}

// stopAndDrainTimer safely stops a timer and drains its channel to prevent
// goroutine leaks, per the time.Timer.Stop() documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
