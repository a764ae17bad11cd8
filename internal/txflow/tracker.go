// Package txflow tracks a single transaction from signature request to
// confirmation.
package txflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// State is a step in the transaction lifecycle.
type State int

const (
	Idle State = iota
	AwaitingSignature
	AwaitingConfirmation
	Confirmed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingSignature:
		return "awaiting signature"
	case AwaitingConfirmation:
		return "awaiting confirmation"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == Confirmed || s == Failed
}

// ErrInvalidTransition is returned when a transition is not allowed from
// the current state.
var ErrInvalidTransition = errors.New("invalid transaction state transition")

var transitions = map[State][]State{
	Idle:                 {AwaitingSignature},
	AwaitingSignature:    {AwaitingConfirmation, Failed},
	AwaitingConfirmation: {Confirmed, Failed},
}

// Event describes one transition.
type Event struct {
	From   State
	To     State
	TxHash common.Hash
	Err    error
}

// Observer is called after every transition.
type Observer func(Event)

// Transaction is one on-chain write split into its two blocking halves.
// Send signs and broadcasts; Wait blocks until the transaction is mined.
type Transaction struct {
	Label string
	Send  func(ctx context.Context) (common.Hash, error)
	Wait  func(ctx context.Context, hash common.Hash) error
}

// Tracker is a state machine for one transaction. It is single use: once
// Confirmed or Failed it must be Reset before the next Run.
type Tracker struct {
	mu        sync.Mutex
	state     State
	hash      common.Hash
	err       error
	observers []Observer
}

// NewTracker returns a tracker in the Idle state.
func NewTracker(observers ...Observer) *Tracker {
	return &Tracker{observers: observers}
}

// Observe adds an observer.
func (t *Tracker) Observe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Hash returns the transaction hash once broadcast.
func (t *Tracker) Hash() common.Hash {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hash
}

// Err returns the failure cause when the tracker is Failed.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Transition moves to next, notifying observers.
func (t *Tracker) Transition(next State, hash common.Hash, cause error) error {
	t.mu.Lock()
	from := t.state
	if !allowed(from, next) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}
	t.state = next
	if hash != (common.Hash{}) {
		t.hash = hash
	}
	if next == Failed {
		t.err = cause
	}
	ev := Event{From: from, To: next, TxHash: t.hash, Err: cause}
	observers := append([]Observer(nil), t.observers...)
	t.mu.Unlock()

	for _, o := range observers {
		o(ev)
	}
	return nil
}

// Reset returns a terminal tracker to Idle.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Idle && !t.state.Terminal() {
		return fmt.Errorf("%w: reset while %s", ErrInvalidTransition, t.state)
	}
	t.state = Idle
	t.hash = common.Hash{}
	t.err = nil
	return nil
}

// Run drives tx through the full lifecycle and returns its hash.
func (t *Tracker) Run(ctx context.Context, tx Transaction) (common.Hash, error) {
	if err := t.Transition(AwaitingSignature, common.Hash{}, nil); err != nil {
		return common.Hash{}, err
	}

	hash, err := tx.Send(ctx)
	if err != nil {
		return common.Hash{}, t.fail(err)
	}
	if err := t.Transition(AwaitingConfirmation, hash, nil); err != nil {
		return hash, err
	}

	if tx.Wait != nil {
		if err := tx.Wait(ctx, hash); err != nil {
			return hash, t.fail(err)
		}
	}
	if err := t.Transition(Confirmed, hash, nil); err != nil {
		return hash, err
	}
	return hash, nil
}

func (t *Tracker) fail(cause error) error {
	if err := t.Transition(Failed, common.Hash{}, cause); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
