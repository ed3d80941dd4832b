package store

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Reducer folds an action into a new root state. Reducers must be pure and
// synchronous; an action a reducer does not own must be returned unchanged.
type Reducer func(root State, a Action) State

// Store is the shared dispatch store: one root state tree, one reducer
// chain, synchronous subscriber fan-out, and the deferred task queue that
// implements the "runs after the current synchronous phase" guarantee.
//
// Dispatch is synchronous: reducers and store subscribers have run before
// Dispatch returns. Deferred tasks enqueued during the dispatch (change
// deliveries) also run before the outermost Dispatch returns, in enqueue
// order.
//
// Thread-safety model:
//   - Dispatch/AddReducer/Subscribe: guarded by a mutex; safe from any
//     goroutine (future-based initial state seeds from its own goroutine).
//   - Re-entrant Dispatch is legal only from the deferred phase (change
//     stream subscribers), which runs outside the mutex.
//   - Reducers and store subscribers must not dispatch.
type Store struct {
	mu        sync.Mutex
	root      State
	reducers  []Reducer
	subs      map[int]func(State)
	nextSubID int

	deferred *taskQueue
	draining atomic.Bool
	depth    atomic.Int64

	clock *Clock
	paths map[string]*MountPoint
}

// New creates an empty store with an empty root tree.
func New() *Store {
	return &Store{
		root:     State{},
		subs:     make(map[int]func(State)),
		deferred: newTaskQueue(),
		clock:    NewClock(),
		paths:    make(map[string]*MountPoint),
	}
}

// GetState returns the current committed root state. The returned tree must
// be treated as read-only; commits replace it, never mutate it.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// AddReducer appends a reducer to the chain. Chain order is insertion
// order; each reducer's output feeds the next on every dispatch.
func (s *Store) AddReducer(r Reducer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reducers = append(s.reducers, r)
}

// Subscribe registers fn to be invoked once per committed root-state
// change, after all reducers ran. Returns an unsubscribe function.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispatch runs the action through the reducer chain, notifies store
// subscribers with the new root, and then drains the deferred queue.
func (s *Store) Dispatch(a Action) {
	s.depth.Add(1)

	s.mu.Lock()
	for _, r := range s.reducers {
		s.root = r(s.root, a)
	}
	root := s.root
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	targets := make([]func(State), 0, len(ids))
	for _, id := range ids {
		targets = append(targets, s.subs[id])
	}
	s.mu.Unlock()

	slog.Debug("action dispatched", "type", a.Type, "payload_len", len(a.Payload))

	// Notify in subscription order, outside the lock, before returning.
	for _, fn := range targets {
		fn(root)
	}

	s.depth.Add(-1)
	s.drain()
}

// Defer schedules fn to run after the current synchronous dispatch phase,
// in FIFO order. Called outside any dispatch, fn runs immediately.
func (s *Store) Defer(fn func()) {
	s.deferred.push(fn)
	if s.depth.Load() == 0 {
		s.drain()
	}
}

// PendingDeferred returns the number of deferred tasks not yet run.
func (s *Store) PendingDeferred() int {
	return s.deferred.len()
}

// Clock returns the store's commit sequence clock.
func (s *Store) Clock() *Clock {
	return s.clock
}

// drain runs deferred tasks in FIFO order. Exactly one drain loop is active
// at a time; a re-entrant dispatch inside a task appends to the queue and
// lets the active loop pick the work up, preserving global FIFO order.
func (s *Store) drain() {
	if !s.draining.CompareAndSwap(false, true) {
		return
	}
	defer s.draining.Store(false)

	for {
		fn, ok := s.deferred.pop()
		if !ok {
			return
		}
		fn()
	}
}

// claimPath registers a mount point path. Reports a collision when the
// exact path is already live.
func (s *Store) claimPath(path string, m *MountPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.paths[path]; exists {
		return &PathCollisionError{Path: path}
	}
	s.paths[path] = m
	return nil
}

// freePath releases a mount point path for reuse.
func (s *Store) freePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.paths, path)
}

// LivePaths returns the currently claimed mount point paths, sorted.
// Intended for introspection and tests.
func (s *Store) LivePaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
