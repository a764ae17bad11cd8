package notify

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.at.After(c.now) {
			t.stopped = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func TestStore_EvictsOldest(t *testing.T) {
	s := NewStore(0)
	for i := 0; i < 7; i++ {
		s.Info(fmt.Sprintf("msg %d", i))
	}

	toasts := s.List()
	require.Len(t, toasts, DefaultCapacity)
	assert.Equal(t, "msg 2", toasts[0].Message)
	assert.Equal(t, "msg 6", toasts[4].Message)
}

func TestStore_AutoDismiss(t *testing.T) {
	clock := &manualClock{now: time.Unix(1000, 0)}
	s := NewStore(5*time.Second, WithClock(clock))

	s.Error("first")
	clock.Advance(3 * time.Second)
	s.Success("second")

	clock.Advance(2 * time.Second)
	toasts := s.List()
	require.Len(t, toasts, 1)
	assert.Equal(t, "second", toasts[0].Message)
	assert.Equal(t, LevelSuccess, toasts[0].Level)

	clock.Advance(3 * time.Second)
	assert.Empty(t, s.List())
}

func TestStore_EvictionStopsTimer(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	s := NewStore(time.Minute, WithClock(clock), WithCapacity(1))

	s.Info("a")
	s.Info("b")

	require.Len(t, clock.timers, 2)
	assert.True(t, clock.timers[0].stopped)
	assert.False(t, clock.timers[1].stopped)
}

func TestStore_DismissAndSubscribe(t *testing.T) {
	s := NewStore(0)

	var seen [][]Toast
	unsubscribe := s.Subscribe(func(toasts []Toast) { seen = append(seen, toasts) })

	id := s.Warn("careful")
	s.Dismiss(id)
	s.Dismiss("unknown")

	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 1)
	assert.Empty(t, seen[1])

	unsubscribe()
	s.Info("after")
	assert.Len(t, seen, 2)
}
