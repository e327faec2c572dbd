package client

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestScheduleOnceFires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := newTimerSet(clock)

	var fired atomic.Int32
	ts.scheduleOnce(timerJoinTimeout, 5*time.Second, func() { fired.Add(1) })
	require.True(t, ts.pending(timerJoinTimeout))

	clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return fired.Load() == 1 }, waitFor, tick)
	require.False(t, ts.pending(timerJoinTimeout))
}

// Starting a second timer of the same category cancels the first: the firing
// count per category stays at most one.
func TestScheduleOnceReplacesSameCategory(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := newTimerSet(clock)

	var first, second atomic.Int32
	ts.scheduleOnce(timerForcedGuess, 3*time.Second, func() { first.Add(1) })
	ts.scheduleOnce(timerForcedGuess, 3*time.Second, func() { second.Add(1) })

	clock.Advance(10 * time.Second)
	require.Eventually(t, func() bool { return second.Load() == 1 }, waitFor, tick)
	require.Equal(t, int32(0), first.Load(), "replaced timer must not fire")
}

func TestCancelPreventsFire(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := newTimerSet(clock)

	var fired atomic.Int32
	ts.scheduleOnce(timerAutoReturn, 20*time.Second, func() { fired.Add(1) })
	ts.cancel(timerAutoReturn)
	require.False(t, ts.pending(timerAutoReturn))

	clock.Advance(time.Minute)
	require.Never(t, func() bool { return fired.Load() > 0 }, 100*time.Millisecond, tick)
}

func TestCancelIsSafeWhenNothingScheduled(t *testing.T) {
	ts := newTimerSet(clockwork.NewFakeClock())
	ts.cancel(timerCountdown) // must not panic
	ts.cancelAll()
}

func TestTickerStopsWhenCallbackSaysSo(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := newTimerSet(clock)

	var ticks atomic.Int32
	ts.scheduleTicker(timerCountdown, time.Second, func() bool {
		return ticks.Add(1) < 3
	})

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		require.Eventually(t, func() bool { return ticks.Load() == int32(i+1) }, waitFor, tick)
	}
	require.Eventually(t, func() bool { return !ts.pending(timerCountdown) }, waitFor, tick)

	clock.Advance(5 * time.Second)
	require.Never(t, func() bool { return ticks.Load() > 3 }, 100*time.Millisecond, tick)
}

func TestCancelAllStopsEveryCategory(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := newTimerSet(clock)

	var fired atomic.Int32
	ts.scheduleOnce(timerForcedGuess, time.Second, func() { fired.Add(1) })
	ts.scheduleOnce(timerJoinTimeout, time.Second, func() { fired.Add(1) })
	ts.scheduleTicker(timerCountdown, time.Second, func() bool { fired.Add(1); return true })

	ts.cancelAll()
	clock.Advance(time.Minute)
	require.Never(t, func() bool { return fired.Load() > 0 }, 100*time.Millisecond, tick)
}

// Independent categories do not disturb each other.
func TestCategoriesAreIndependent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := newTimerSet(clock)

	var forced, join atomic.Int32
	ts.scheduleOnce(timerForcedGuess, 3*time.Second, func() { forced.Add(1) })
	ts.scheduleOnce(timerJoinTimeout, 5*time.Second, func() { join.Add(1) })

	clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool { return forced.Load() == 1 }, waitFor, tick)
	require.Equal(t, int32(0), join.Load())
	require.True(t, ts.pending(timerJoinTimeout))

	clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool { return join.Load() == 1 }, waitFor, tick)
}
