// Package notify holds short-lived user notifications.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of toasts kept before the oldest is evicted.
const DefaultCapacity = 5

// Level is the severity of a toast.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is one notification.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Timer is the part of *time.Timer the store needs.
type Timer interface {
	Stop() bool
}

// Clock schedules auto-dismissal. Tests swap in a manual clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Listener receives the full toast list after every change.
type Listener func([]Toast)

// Store is a bounded FIFO of toasts with timed auto-dismiss.
type Store struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	clock     Clock
	toasts    []Toast
	timers    map[string]Timer
	listeners map[int]Listener
	nextID    int
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity overrides DefaultCapacity.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// NewStore creates a store. A ttl of zero disables auto-dismiss.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		capacity:  DefaultCapacity,
		ttl:       ttl,
		clock:     realClock{},
		timers:    make(map[string]Timer),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push adds a toast, evicting the oldest when full, and returns its ID.
func (s *Store) Push(level Level, message string) string {
	s.mu.Lock()
	t := Toast{ID: uuid.NewString(), Level: level, Message: message, CreatedAt: s.clock.Now()}
	s.toasts = append(s.toasts, t)
	for len(s.toasts) > s.capacity {
		s.dropLocked(s.toasts[0].ID)
	}
	if s.ttl > 0 {
		id := t.ID
		s.timers[id] = s.clock.AfterFunc(s.ttl, func() { s.Dismiss(id) })
	}
	snapshot, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notifyAll(listeners, snapshot)
	return t.ID
}

// Info, Success, Warn and Error are shorthands for Push.
func (s *Store) Info(message string) string    { return s.Push(LevelInfo, message) }
func (s *Store) Success(message string) string { return s.Push(LevelSuccess, message) }
func (s *Store) Warn(message string) string    { return s.Push(LevelWarning, message) }
func (s *Store) Error(message string) string   { return s.Push(LevelError, message) }

// Dismiss removes a toast. Unknown IDs are ignored.
func (s *Store) Dismiss(id string) {
	s.mu.Lock()
	if !s.dropLocked(id) {
		s.mu.Unlock()
		return
	}
	snapshot, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notifyAll(listeners, snapshot)
}

// List returns the current toasts, oldest first.
func (s *Store) List() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Toast(nil), s.toasts...)
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) dropLocked(id string) bool {
	for i, t := range s.toasts {
		if t.ID != id {
			continue
		}
		s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
		if timer, ok := s.timers[id]; ok {
			timer.Stop()
			delete(s.timers, id)
		}
		return true
	}
	return false
}

func (s *Store) snapshotLocked() ([]Toast, []Listener) {
	snapshot := append([]Toast(nil), s.toasts...)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return snapshot, listeners
}

func notifyAll(listeners []Listener, toasts []Toast) {
	for _, l := range listeners {
		l(toasts)
	}
}
