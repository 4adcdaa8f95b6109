package orchestration

import (
	"sync"
	"testing"
	"time"
)

func TestSerialQueueHandlesItemsInOrder(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []int
	)
	q := newSerialQueue(func(item int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, item)
	})

	for i := range 100 {
		q.push(i)
	}
	q.close()
	q.wait()

	if len(seen) != 100 {
		t.Fatalf("expected 100 items, got %d", len(seen))
	}
	for i, item := range seen {
		if item != i {
			t.Fatalf("expected item %d at position %d", item, i)
		}
	}
}

func TestSerialQueueHandlerCanPushOntoItself(t *testing.T) {
	done := make(chan struct{})
	var q *serialQueue[int]
	q = newSerialQueue(func(item int) {
		if item < 3 {
			q.push(item + 1)
			return
		}
		close(done)
	})
	defer func() {
		q.close()
		q.wait()
	}()

	q.push(0)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for re-entrant push")
	}
}

func TestSerialQueueRejectsPushAfterClose(t *testing.T) {
	q := newSerialQueue(func(int) {})
	q.close()
	q.wait()

	if q.push(1) {
		t.Fatalf("expected push after close to be rejected")
	}
}

func TestCloseRejectsFurtherCalls(t *testing.T) {
	o := NewOrchestrator(WithTransport(&serverStub{}, "ws://translate.test/ws"))
	o.Close()

	if err := o.SendPhrase("hello"); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	o.Close()
}
