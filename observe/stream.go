package observe

// Stream is a lazy, composable view over a source of values. Nothing runs
// until Subscribe is called; each subscription carries its own operator
// state (e.g. the previous value for DistinctUntilChanged).
type Stream[T any] struct {
	subscribe func(fn func(T)) *Subscription
}

// NewStream builds a stream from a raw subscribe function. The function must
// return a non-nil subscription whose Unsubscribe stops deliveries to fn.
func NewStream[T any](subscribe func(fn func(T)) *Subscription) *Stream[T] {
	return &Stream[T]{subscribe: subscribe}
}

// Subscribe attaches fn to the stream.
func (s *Stream[T]) Subscribe(fn func(T)) *Subscription {
	return s.subscribe(fn)
}

// Map transforms every value with f.
func Map[T, R any](s *Stream[T], f func(T) R) *Stream[R] {
	return NewStream(func(fn func(R)) *Subscription {
		return s.Subscribe(func(v T) {
			fn(f(v))
		})
	})
}

// Filter drops values for which pred returns false.
func Filter[T any](s *Stream[T], pred func(T) bool) *Stream[T] {
	return NewStream(func(fn func(T)) *Subscription {
		return s.Subscribe(func(v T) {
			if pred(v) {
				fn(v)
			}
		})
	})
}

// DistinctUntilChanged suppresses a value when eq reports it equal to the
// previously delivered one. The first value always passes.
func DistinctUntilChanged[T any](s *Stream[T], eq func(prev, next T) bool) *Stream[T] {
	return NewStream(func(fn func(T)) *Subscription {
		var prev T
		seen := false
		return s.Subscribe(func(v T) {
			if seen && eq(prev, v) {
				return
			}
			prev = v
			seen = true
			fn(v)
		})
	})
}

// Take delivers at most n values, then unsubscribes from the source.
func Take[T any](s *Stream[T], n int) *Stream[T] {
	return NewStream(func(fn func(T)) *Subscription {
		if n <= 0 {
			return newSubscription(nil)
		}
		remaining := n
		var sub *Subscription
		sub = s.Subscribe(func(v T) {
			if remaining <= 0 {
				return
			}
			remaining--
			fn(v)
			if remaining == 0 && sub != nil {
				sub.Unsubscribe()
			}
		})
		return sub
	})
}
