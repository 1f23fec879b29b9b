// Package invalidation fans out invalidation events to the consumers that
// render paged views.
package invalidation

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/livelist/livelist/internal/build"
	"github.com/livelist/livelist/internal/concurrency"
	"github.com/livelist/livelist/pkg/logger"
	"github.com/livelist/livelist/pkg/paging"
)

var droppedEventsCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: build.ProjectName,
	Name:      "invalidation_events_dropped_total",
	Help:      "The total number of invalidation events dropped because a subscriber was full.",
})

const defaultBufferSize = 16

// BroadcasterOpt defines an option that can be used to change the behavior of a Broadcaster.
type BroadcasterOpt func(*Broadcaster)

// WithBufferSize sets the channel capacity of new subscriptions.
func WithBufferSize(n int) BroadcasterOpt {
	return func(b *Broadcaster) {
		if n >= 0 {
			b.bufferSize = n
		}
	}
}

func WithLogger(l logger.Logger) BroadcasterOpt {
	return func(b *Broadcaster) {
		b.logger = l
	}
}

// Broadcaster is a [paging.InvalidationNotifier] that delivers every event
// to each of its subscribers. Submit never waits: a subscriber whose buffer
// is full misses the event.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan paging.InvalidationEvent
	nextID      uint64
	closed      bool

	bufferSize int
	logger     logger.Logger
}

var _ paging.InvalidationNotifier = (*Broadcaster)(nil)

func NewBroadcaster(opts ...BroadcasterOpt) *Broadcaster {
	b := &Broadcaster{
		subscribers: make(map[uint64]chan paging.InvalidationEvent),
		bufferSize:  defaultBufferSize,
		logger:      logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new subscriber. The returned channel is closed by
// the cancel function, by Close, or once ctx is done.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan paging.InvalidationEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan paging.InvalidationEvent, b.bufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.unsubscribe(id)
		})
	}
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, cancel)
		return ch, func() {
			stop()
			cancel()
		}
	}
	return ch, cancel
}

func (b *Broadcaster) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

// Submit delivers event to every subscriber with room for it.
func (b *Broadcaster) Submit(ctx context.Context, event paging.InvalidationEvent) {
	// the read lock keeps channels from being closed while sending
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		if !concurrency.TrySend(event, ch) {
			droppedEventsCounter.Inc()
			b.logger.WarnWithContext(ctx, "dropping invalidation event",
				zap.Uint64("subscriber", id),
				zap.Stringer("descriptor", event.Descriptor),
				zap.String("reason", string(event.Reason)),
			)
		}
	}
}

// Len returns the number of subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subscribers)
}

// Close closes every subscription. Later subscriptions are closed at once.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}
