package tydux

import (
	"sync"

	"github.com/pburgmer/Tydux/observe"
)

// Recorder captures commit records from the process-wide mutator-event
// stream, in emission order, optionally filtered to a set of facade ids.
// In-memory only; intended for debugging and scenario traces.
type Recorder struct {
	mu     sync.Mutex
	events []MutatorEvent
	filter map[string]bool
	sub    *observe.Subscription
}

// NewRecorder starts recording. With no facade ids, every commit record is
// captured. Stop the recorder when done; it holds a live subscription.
func NewRecorder(facadeIDs ...string) *Recorder {
	r := &Recorder{}
	if len(facadeIDs) > 0 {
		r.filter = make(map[string]bool, len(facadeIDs))
		for _, id := range facadeIDs {
			r.filter[id] = true
		}
	}
	r.sub = MutatorEvents().Subscribe(r.record)
	return r
}

func (r *Recorder) record(e MutatorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.filter != nil && !r.filter[e.FacadeID] {
		return
	}
	r.events = append(r.events, e)
}

// Events returns a copy of the captured records, in emission order.
func (r *Recorder) Events() []MutatorEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MutatorEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of captured records.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Clear drops the captured records but keeps recording.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Stop ends recording. Idempotent.
func (r *Recorder) Stop() {
	r.sub.Unsubscribe()
}
