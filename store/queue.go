package store

import "sync"

// taskQueue is a thread-safe FIFO queue of deferred tasks.
//
// The queue is unbounded so that a cascade of commits (each buffering a
// change delivery) can enqueue freely without blocking. Enqueuing is safe
// from any goroutine; draining happens in the store's deferred phase.
type taskQueue struct {
	mu    sync.Mutex
	tasks []func()
}

func newTaskQueue() *taskQueue {
	return &taskQueue{tasks: make([]func(), 0, 16)}
}

// push appends a task to the back of the queue.
func (q *taskQueue) push(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, fn)
}

// pop removes and returns the front task.
func (q *taskQueue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}

	fn := q.tasks[0]

	// Nil out the slot so the backing array does not retain the closure
	// (and whatever state it captured) until reallocation.
	q.tasks[0] = nil

	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}
	return fn, true
}

// len returns the number of pending tasks.
func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
