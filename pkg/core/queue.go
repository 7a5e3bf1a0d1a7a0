package core

import "sync"

// Queue is an unbounded FIFO of pending commands. Push is safe to call from
// any goroutine; the owning Fibre drains it once per frame.
type Queue struct {
	mu      sync.Mutex
	pending []Command
	closed  bool

	// onPush is called after a command was accepted, signalling the host
	// that a frame should be rendered. The display loop may be idle until
	// explicitly woken.
	onPush func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// SetOnPush installs the wake-up callback run after every accepted push.
// It is called outside the queue lock, on the pushing goroutine.
func (q *Queue) SetOnPush(fn func()) {
	q.mu.Lock()
	q.onPush = fn
	q.mu.Unlock()
}

// Push appends cmd. It reports false, dropping cmd, once the queue is closed.
func (q *Queue) Push(cmd Command) bool {
	accepted, notify := func() (bool, func()) {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.closed || cmd == nil {
			return false, nil
		}
		q.pending = append(q.pending, cmd)
		return true, q.onPush
	}()

	if accepted && notify != nil {
		notify()
	}
	return accepted
}

// Drain removes and returns every pending command, oldest first.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close discards pending commands and makes further pushes no-ops.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
}

// Closed reports whether Close was called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
