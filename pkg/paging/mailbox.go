package paging

import (
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// mailbox is an unbounded FIFO of messages for the owner goroutine. push
// never blocks, so paginators may call back synchronously from within
// NextPage or Reload.
type mailbox struct {
	mu     sync.Mutex
	queue  *linkedlistqueue.Queue
	closed bool

	// wake holds at most one pending signal that the queue is non-empty.
	wake chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{
		queue: linkedlistqueue.New(),
		wake:  make(chan struct{}, 1),
	}
}

// push enqueues msg. It reports false if the mailbox has been closed.
func (m *mailbox) push(msg any) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.queue.Enqueue(msg)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
	return true
}

// drain removes and returns every queued message in arrival order.
func (m *mailbox) drain() []any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.takeLocked()
}

// close rejects further pushes and returns the messages still queued.
func (m *mailbox) close() []any {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return m.takeLocked()
}

func (m *mailbox) takeLocked() []any {
	if m.queue.Empty() {
		return nil
	}
	msgs := make([]any, 0, m.queue.Size())
	for {
		msg, ok := m.queue.Dequeue()
		if !ok {
			break
		}
		msgs = append(msgs, msg)
	}
	return msgs
}
