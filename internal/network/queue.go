package network

import (
	"sync"

	"github.com/gammazero/deque"
)

// eventQueue is an unbounded multi-producer single-consumer queue, so posting never blocks
// even when the consumer itself triggers new events
type eventQueue struct {
	events   *deque.Deque[event]
	closed   bool
	signalCh chan struct{}
	mutex    sync.Mutex
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events:   deque.New[event](),
		signalCh: make(chan struct{}, 1),
	}
}

// push returns false if the queue is closed
func (q *eventQueue) push(ev event) bool {
	q.mutex.Lock()
	if q.closed {
		q.mutex.Unlock()
		return false
	}
	q.events.PushBack(ev)
	q.mutex.Unlock()

	select {
	case q.signalCh <- struct{}{}:
	default:
	}
	return true
}

func (q *eventQueue) pop() (event, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.events.Len() == 0 {
		return nil, false
	}
	return q.events.PopFront(), true
}

// signal fires when new events are available
func (q *eventQueue) signal() <-chan struct{} {
	return q.signalCh
}

func (q *eventQueue) len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return q.events.Len()
}

// close rejects further events and returns the ones left unprocessed
func (q *eventQueue) close() []event {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.closed = true
	left := make([]event, 0, q.events.Len())
	for q.events.Len() > 0 {
		left = append(left, q.events.PopFront())
	}
	return left
}
