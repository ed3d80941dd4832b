package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject_ReplaysLatestOnSubscribe(t *testing.T) {
	s := NewSubject[int]()
	s.Next(1)
	s.Next(2)

	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	assert.Equal(t, []int{2}, got, "late subscriber should replay only the latest value")
}

func TestSubject_SeededSubject(t *testing.T) {
	s := NewSeededSubject(42)

	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	assert.Equal(t, []int{42}, got)
}

func TestSubject_NoReplayWhenEmpty(t *testing.T) {
	s := NewSubject[int]()

	called := false
	s.Subscribe(func(int) { called = true })

	assert.False(t, called)
}

func TestSubject_MulticastInSubscriptionOrder(t *testing.T) {
	s := NewSubject[string]()

	var order []string
	s.Subscribe(func(v string) { order = append(order, "a:"+v) })
	s.Subscribe(func(v string) { order = append(order, "b:"+v) })

	s.Next("x")

	assert.Equal(t, []string{"a:x", "b:x"}, order)
}

func TestSubject_Unsubscribe(t *testing.T) {
	s := NewSubject[int]()

	count := 0
	sub := s.Subscribe(func(int) { count++ })
	s.Next(1)
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent
	s.Next(2)

	assert.Equal(t, 1, count)
}

func TestSubject_CompleteStopsEmissions(t *testing.T) {
	s := NewSubject[int]()

	count := 0
	s.Subscribe(func(int) { count++ })
	s.Next(1)
	s.Complete()
	s.Next(2)

	assert.Equal(t, 1, count)
	assert.True(t, s.IsCompleted())
}

func TestSubject_SubscribeAfterCompleteGetsNothing(t *testing.T) {
	s := NewSubject[int]()
	s.Next(7)
	s.Complete()

	called := false
	s.Subscribe(func(int) { called = true })

	assert.False(t, called, "no replay after completion")
}

func TestSubject_Latest(t *testing.T) {
	s := NewSubject[int]()

	_, ok := s.Latest()
	assert.False(t, ok)

	s.Next(5)
	v, ok := s.Latest()
	assert.True(t, ok)
	assert.Equal(t, 5, v)
}
