// Package memory provides an ephemeral message store whose live paginators
// follow writes as they happen.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/livelist/livelist/pkg/logger"
	"github.com/livelist/livelist/pkg/paging"
)

var tracer = otel.Tracer("livelist/pkg/storage/memory")

var (
	ErrNotFound     = errors.New("message not found")
	ErrInvalidID    = errors.New("message id must not be empty")
	ErrUnauthorized = errors.New("session has no token")
	ErrClosed       = errors.New("backend closed")
)

// StorageOption defines a function type used for configuring a [MemoryBackend] instance.
type StorageOption func(*MemoryBackend)

const (
	defaultPageSize   = 50
	defaultPipeBuffer = 64
)

// WithPageSize sets the number of messages a paginator loads per page.
func WithPageSize(n int) StorageOption {
	return func(m *MemoryBackend) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// WithLogger sets the logger of the backend and its paginators.
func WithLogger(l logger.Logger) StorageOption {
	return func(m *MemoryBackend) {
		m.logger = l
	}
}

// MemoryBackend holds messages in memory and implements [paging.Factory] for
// them. It may be safely shared by multiple goroutines.
type MemoryBackend struct {
	// writeMu orders writes together with their notifications, so every
	// paginator sees events in the order they were applied.
	writeMu sync.Mutex

	mu       sync.RWMutex
	messages *redblacktree.Tree
	byID     map[string]messageKey
	closed   bool

	// failures are handed to the next page loads, one per load.
	failures []error

	watchersMu sync.Mutex
	watchers   map[*paginator]struct{}

	pageSize int
	logger   logger.Logger
}

var _ paging.Factory[Message] = (*MemoryBackend)(nil)

// New creates a new [MemoryBackend] given the options.
func New(opts ...StorageOption) *MemoryBackend {
	m := &MemoryBackend{
		messages: redblacktree.NewWith(keyComparator),
		byID:     make(map[string]messageKey),
		watchers: make(map[*paginator]struct{}),
		pageSize: defaultPageSize,
		logger:   logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Insert stores msgs, replacing messages with the same id, and notifies the
// live paginators.
func (m *MemoryBackend) Insert(ctx context.Context, msgs ...Message) error {
	_, span := tracer.Start(ctx, "memory.Insert", trace.WithAttributes(attribute.Int("messages", len(msgs))))
	defer span.End()

	for _, msg := range msgs {
		if msg.ID == "" {
			return ErrInvalidID
		}
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	return m.insert(msgs)
}

func (m *MemoryBackend) insert(msgs []Message) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	var events []event
	for _, msg := range msgs {
		if prev, ok := m.byID[msg.ID]; ok {
			old, _ := m.messages.Get(prev)
			m.messages.Remove(prev)
			events = append(events, event{kind: eventDelete, msg: old.(Message)})
		}
		key := keyOf(msg)
		m.byID[msg.ID] = key
		m.messages.Put(key, msg)
		events = append(events, event{kind: eventInsert, msg: msg})
	}
	m.mu.Unlock()

	m.broadcast(events)
	return nil
}

// Delete removes the messages with the given ids and notifies the live
// paginators. It fails with ErrNotFound, and deletes nothing, if any id is
// unknown.
func (m *MemoryBackend) Delete(ctx context.Context, ids ...string) error {
	_, span := tracer.Start(ctx, "memory.Delete", trace.WithAttributes(attribute.Int("messages", len(ids))))
	defer span.End()

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	for _, id := range ids {
		if _, ok := m.byID[id]; !ok {
			m.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}
	events := make([]event, 0, len(ids))
	for _, id := range ids {
		key, ok := m.byID[id]
		if !ok {
			// duplicate id in the same call
			continue
		}
		msg, _ := m.messages.Get(key)
		m.messages.Remove(key)
		delete(m.byID, id)
		events = append(events, event{kind: eventDelete, msg: msg.(Message)})
	}
	m.mu.Unlock()

	m.broadcast(events)
	return nil
}

// Get returns the message with the given id.
func (m *MemoryBackend) Get(_ context.Context, id string) (Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key, ok := m.byID[id]
	if !ok {
		return Message{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	msg, _ := m.messages.Get(key)
	return msg.(Message), nil
}

// Len returns the number of stored messages.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.messages.Size()
}

// List returns the messages matching d, newest first.
func (m *MemoryBackend) List(_ context.Context, d paging.Descriptor) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.listLocked(d, nil, 0)
}

// listLocked returns up to limit messages matching d that sort after the
// key after, or all of them if limit is zero. A nil after starts at the top.
func (m *MemoryBackend) listLocked(d paging.Descriptor, after *messageKey, limit int) []Message {
	var out []Message
	it := m.messages.Iterator()
	for it.Next() {
		if after != nil && compareKeys(it.Key().(messageKey), *after) <= 0 {
			continue
		}
		msg := it.Value().(Message)
		if !msg.Matches(d) {
			continue
		}
		out = append(out, msg)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// FailNext makes the next page load of any paginator report err.
func (m *MemoryBackend) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures = append(m.failures, err)
}

func (m *MemoryBackend) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.failures) == 0 {
		return nil
	}
	err := m.failures[0]
	m.failures = m.failures[1:]
	return err
}

// Close destroys every live paginator and rejects further writes.
func (m *MemoryBackend) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.watchersMu.Lock()
	watchers := make([]*paginator, 0, len(m.watchers))
	for p := range m.watchers {
		watchers = append(watchers, p)
	}
	m.watchersMu.Unlock()

	for _, p := range watchers {
		p.Destroy()
	}
}

// Create starts a live paginator over the messages matching descriptor.
func (m *MemoryBackend) Create(ctx context.Context, session paging.Session, descriptor paging.Descriptor, onUpdate paging.UpdateCallback[Message]) (paging.Paginator, error) {
	if session.Token == "" {
		return nil, ErrUnauthorized
	}

	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	p := newPaginator(m, descriptor, onUpdate)

	m.watchersMu.Lock()
	m.watchers[p] = struct{}{}
	m.watchersMu.Unlock()

	m.logger.DebugWithContext(ctx, "live paginator started",
		zap.String("user_id", session.UserID),
		zap.Stringer("descriptor", descriptor),
	)
	return p, nil
}

func (m *MemoryBackend) unwatch(p *paginator) {
	m.watchersMu.Lock()
	defer m.watchersMu.Unlock()

	delete(m.watchers, p)
}

func (m *MemoryBackend) broadcast(events []event) {
	if len(events) == 0 {
		return
	}

	m.watchersMu.Lock()
	watchers := make([]*paginator, 0, len(m.watchers))
	for p := range m.watchers {
		watchers = append(watchers, p)
	}
	m.watchersMu.Unlock()

	for _, p := range watchers {
		for _, e := range events {
			if !p.cmds.Send(command{event: e}) {
				break
			}
		}
	}
}

// MarkRead sets the unread flag of the message with the given id.
func (m *MemoryBackend) MarkRead(ctx context.Context, id string, read bool) error {
	_, span := tracer.Start(ctx, "memory.MarkRead")
	defer span.End()

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	msg, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	msg.Unread = !read
	return m.insert([]Message{msg})
}
