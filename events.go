package tydux

import (
	"sync"
	"time"

	"github.com/pburgmer/Tydux/observe"
	"github.com/pburgmer/Tydux/store"
)

// MutatorEvent is the commit record published exactly once per successful
// root-level mutator call. Never published for a discarded (panicked)
// mutation.
type MutatorEvent struct {
	// ID identifies this commit record (UUIDv7 by default).
	ID string

	// FacadeID identifies the facade whose mutator committed.
	FacadeID string

	// Action is the dispatched action, including the payload.
	Action store.Action

	// State is the committed sub-state after the mutation.
	State any

	// Duration is the wall-clock time of the synchronous mutator call.
	// Measured in development mode only; zero otherwise.
	Duration time.Duration

	// Seq is the store-wide commit sequence number, monotonic per store.
	Seq int64
}

var (
	eventsMu sync.Mutex
	events   = observe.NewSubject[MutatorEvent]()
)

// MutatorEvents returns the process-wide stream of commit records, across
// all facades. The stream replays the most recent record to new subscribers.
func MutatorEvents() *observe.Stream[MutatorEvent] {
	eventsMu.Lock()
	defer eventsMu.Unlock()
	return events.Stream()
}

// ResetMutatorEvents replaces the process-wide event subject, dropping the
// replay value and all subscribers. Test and harness hook for isolating
// recorded traces between runs.
func ResetMutatorEvents() {
	eventsMu.Lock()
	defer eventsMu.Unlock()
	events = observe.NewSubject[MutatorEvent]()
}

func emitMutatorEvent(e MutatorEvent) {
	eventsMu.Lock()
	subject := events
	eventsMu.Unlock()
	subject.Next(e)
}
