// Package payment reconciles VNPay gateway returns against the backend and
// tracks the resulting outcome.
package payment

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// State is the reconciliation state shown on the payment result page.
type State string

const (
	Processing State = "processing"
	Success    State = "success"
	Failed     State = "failed"
	Error      State = "error"
)

// Terminal reports whether no further transition is allowed out of s.
func (s State) Terminal() bool { return s != Processing }

// ErrTerminal is returned when a settled outcome is asked to change.
var ErrTerminal = errors.New("payment: outcome already settled")

// transitions lists the allowed next states.  Terminal states have none.
var transitions = map[State][]State{
	Processing: {Success, Failed, Error},
}

// Outcome is the observable result of one reconciliation.
type Outcome struct {
	State        State  `json:"status"`
	BookingCode  string `json:"booking_code,omitempty"`
	BookingID    string `json:"booking_id,omitempty"`
	Amount       int64  `json:"amount,omitempty"`
	ResponseCode string `json:"response_code,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Tracker holds one reconciliation's outcome.  It starts in Processing and
// settles exactly once.
type Tracker struct {
	mu      sync.Mutex
	outcome Outcome
}

func NewTracker() *Tracker {
	return &Tracker{outcome: Outcome{State: Processing}}
}

// Outcome returns the current outcome.
func (t *Tracker) Outcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

// Transition settles the tracker on next.  It fails with ErrTerminal once
// settled and rejects moves the transition table does not list.
func (t *Tracker) Transition(next Outcome) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.outcome.State
	if cur.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrTerminal, cur, next.State)
	}
	if !slices.Contains(transitions[cur], next.State) {
		return fmt.Errorf("payment: invalid transition %s -> %s", cur, next.State)
	}
	t.outcome = next
	return nil
}
