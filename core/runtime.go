package orchestration

import "sync"

// serialQueue runs handle for every pushed item, one at a time and in push
// order, on a single goroutine. Pushing never blocks, so a handler may push
// onto any queue, including its own.
type serialQueue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool

	wake chan struct{}
	done chan struct{}

	handle func(T)
}

func newSerialQueue[T any](handle func(T)) *serialQueue[T] {
	q := &serialQueue[T]{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		handle: handle,
	}
	go q.run()
	return q
}

// push reports false once the queue is closed.
func (q *serialQueue[T]) push(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.signal()
	return true
}

// close stops accepting items. Items already queued are still handled.
func (q *serialQueue[T]) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// wait blocks until the queue is closed and drained.
func (q *serialQueue[T]) wait() { <-q.done }

func (q *serialQueue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *serialQueue[T]) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.items) == 0 {
			if q.closed {
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		item := q.items[0]
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		q.mu.Unlock()

		q.handle(item)
	}
}
