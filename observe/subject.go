package observe

import (
	"slices"
	"sync"
)

// Subscription represents one active subscription to a subject or stream.
// Unsubscribe is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe tears the subscription down. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Subject is a hot, multicast, replay-latest-value stream source.
//
// Next fans a value out to all current subscribers and retains it so that a
// later subscriber immediately receives the latest value on Subscribe.
// Complete terminates the subject: subsequent Next calls are no-ops and
// subscribers added after completion receive nothing.
//
// Callbacks are invoked outside the internal lock, so a subscriber may
// re-entrantly subscribe, unsubscribe or emit.
type Subject[T any] struct {
	mu        sync.Mutex
	subs      map[int]func(T)
	nextID    int
	last      T
	seeded    bool
	completed bool
}

// NewSubject creates an empty subject with no replay value.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[int]func(T))}
}

// NewSeededSubject creates a subject whose replay value is already set, so
// the first subscriber immediately observes initial.
func NewSeededSubject[T any](initial T) *Subject[T] {
	s := NewSubject[T]()
	s.last = initial
	s.seeded = true
	return s
}

// Next publishes v to all subscribers and stores it as the replay value.
// No-op after Complete.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	s.last = v
	s.seeded = true
	targets := make([]func(T), 0, len(s.subs))
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	// Deliver in subscription order for determinism.
	slices.Sort(ids)
	for _, id := range ids {
		targets = append(targets, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range targets {
		fn(v)
	}
}

// Complete terminates the subject. Idempotent.
func (s *Subject[T]) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = true
	s.subs = make(map[int]func(T))
}

// IsCompleted reports whether Complete has been called.
func (s *Subject[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Latest returns the replay value and whether one has been set.
func (s *Subject[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.seeded
}

// Subscribe registers fn and replays the latest value to it, if any.
// Subscribing to a completed subject registers nothing and replays nothing.
func (s *Subject[T]) Subscribe(fn func(T)) *Subscription {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return newSubscription(nil)
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	replay := s.seeded
	last := s.last
	s.mu.Unlock()

	if replay {
		fn(last)
	}
	return newSubscription(func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	})
}

// Stream returns a lazy view over the subject.
func (s *Subject[T]) Stream() *Stream[T] {
	return &Stream[T]{subscribe: s.Subscribe}
}
