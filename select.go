package tydux

import "github.com/pburgmer/Tydux/observe"

// Observe returns the facade's committed-state stream: hot, multicast,
// replaying the latest committed value to new subscribers, de-duplicated by
// identity comparison (shallow element-wise for slices). Delivery is
// deferred until the synchronous dispatch phase that produced a commit has
// settled. The stream completes when the facade is destroyed.
func Observe[S any, C Commands[S]](f *Facade[S, C]) *observe.Stream[S] {
	return observe.DistinctUntilChanged(f.subject.Stream(), func(prev, next S) bool {
		return observe.Equal(prev, next)
	})
}

// Select derives a stream of selector(state), emitting only when the
// selected value changes under identity comparison (shallow element-wise
// when both values are slices).
func Select[S any, C Commands[S], R any](f *Facade[S, C], selector func(S) R) *observe.Stream[R] {
	mapped := observe.Map(f.subject.Stream(), selector)
	return observe.DistinctUntilChanged(mapped, func(prev, next R) bool {
		return observe.Equal(prev, next)
	})
}

// SelectNonNil is Select with nil selected values filtered out.
func SelectNonNil[S any, C Commands[S], R any](f *Facade[S, C], selector func(S) R) *observe.Stream[R] {
	return observe.Filter(Select(f, selector), func(v R) bool {
		return !observe.IsNil(v)
	})
}
