package contact

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the state of a submission attempt.
type Phase int

const (
	Idle       Phase = iota // No attempt in flight
	Validating              // Gate checks running
	Blocked                 // Rejected by validation, nothing sent
	Sending                 // Transport call in flight
	Succeeded               // Transport accepted the payload
	Failed                  // Transport reported an error
)

var phaseNames = [...]string{"idle", "validating", "blocked", "sending", "succeeded", "failed"}

func (p Phase) String() string {
	if p < Idle || p > Failed {
		return "unknown"
	}
	return phaseNames[p]
}

// Terminal reports whether p ends an attempt.
func (p Phase) Terminal() bool {
	return p == Blocked || p == Succeeded || p == Failed
}

// Attempt tracks a single OnSubmit call.
type Attempt struct {
	// ID uniquely identifies the attempt in logs and events.
	ID string

	// StartedAt is when OnSubmit was called.
	StartedAt time.Time

	mu         sync.Mutex
	phase      Phase
	err        error
	payload    Payload
	finishedAt time.Time
	done       chan struct{}
}

func newAttempt(now time.Time) *Attempt {
	return &Attempt{
		ID:        uuid.NewString(),
		StartedAt: now,
		phase:     Validating,
		done:      make(chan struct{}),
	}
}

// Phase returns the current phase.
func (a *Attempt) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Err returns why the attempt was blocked or failed. It wraps
// ErrMissingField, ErrInvalidEmail, or ErrTransport.
func (a *Attempt) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Payload returns what was handed to the transport. It is empty for blocked
// attempts.
func (a *Attempt) Payload() Payload {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.payload
}

// Done is closed once the attempt reaches a terminal phase.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the attempt finishes or ctx is done.
func (a *Attempt) Wait(ctx context.Context) (Phase, error) {
	select {
	case <-a.done:
		return a.Phase(), a.Err()
	case <-ctx.Done():
		return a.Phase(), ctx.Err()
	}
}

// Duration is the time between OnSubmit and the terminal phase, or zero
// while the attempt is running.
func (a *Attempt) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finishedAt.IsZero() {
		return 0
	}
	return a.finishedAt.Sub(a.StartedAt)
}

func (a *Attempt) sending(p Payload) {
	a.mu.Lock()
	a.phase = Sending
	a.payload = p
	a.mu.Unlock()
}

func (a *Attempt) settle(phase Phase, err error, now time.Time) {
	a.mu.Lock()
	a.phase = phase
	a.err = err
	a.finishedAt = now
	a.mu.Unlock()
}

func (a *Attempt) close() {
	close(a.done)
}

// Observer is notified whenever an attempt reaches a terminal phase.
type Observer interface {
	ObserveAttempt(a *Attempt)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(a *Attempt)

func (f ObserverFunc) ObserveAttempt(a *Attempt) {
	f(a)
}
