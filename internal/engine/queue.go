package engine

import (
	"sync"

	"github.com/tidewatch/tidewatch/internal/chain"
)

// eventQueue is an unbounded FIFO for incoming chain events. Sources
// enqueue from their own goroutines; the pipeline's Run loop is the only
// dequeuer. The signal channel lets Run wait for work without polling and
// without hanging past context cancellation.
type eventQueue struct {
	mu     sync.Mutex
	events []chain.Event
	closed bool
	signal chan struct{} // buffered size 1, coalesces wakeups
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]chain.Event, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends an event. Safe from any goroutine. Returns false after
// Close, when the event is dropped.
func (q *eventQueue) Enqueue(ev chain.Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, ev)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front event without blocking. ok=false means the
// queue is currently empty.
func (q *eventQueue) TryDequeue() (chain.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil, false
	}
	ev := q.events[0]
	q.events[0] = nil // release the element for GC
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return ev, true
}

// Wait returns the wakeup channel. It fires when an event may be available
// and is closed by Close, so a blocked Run loop always wakes up.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued events.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Drained reports whether the queue is closed with no events left.
func (q *eventQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.events) == 0
}

// Close rejects further enqueues and wakes any blocked waiter.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
