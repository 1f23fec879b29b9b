package paging_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/livelist/livelist/pkg/paging"
	"github.com/livelist/livelist/pkg/scroller"
)

const (
	testUser = "user-1"
	waitFor  = 2 * time.Second
)

var (
	inbox   = paging.ListingDescriptor(testUser, "label", "inbox", false)
	archive = paging.ListingDescriptor(testUser, "label", "archive", false)
)

// fakePaginator records the calls it receives and lets tests emit updates
// through the callback it was created with.
type fakePaginator struct {
	descriptor paging.Descriptor
	emit       paging.UpdateCallback[string]
	calls      chan string
	destroyed  atomic.Int32
}

func (p *fakePaginator) NextPage() error {
	p.calls <- "next"
	return nil
}

func (p *fakePaginator) Reload() error {
	p.calls <- "reload"
	return nil
}

func (p *fakePaginator) Destroy() {
	p.destroyed.Add(1)
}

// expectCall waits for the paginator to receive call.
func (p *fakePaginator) expectCall(t *testing.T, call string) {
	t.Helper()
	require.Equal(t, call, recv[string](t, p.calls))
}

type fakeFactory struct {
	mu      sync.Mutex
	created chan *fakePaginator
	all     []*fakePaginator
	err     error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{created: make(chan *fakePaginator, 16)}
}

func (f *fakeFactory) Create(_ context.Context, _ paging.Session, descriptor paging.Descriptor, onUpdate paging.UpdateCallback[string]) (paging.Paginator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	p := &fakePaginator{
		descriptor: descriptor,
		emit:       onUpdate,
		calls:      make(chan string, 16),
	}
	f.all = append(f.all, p)
	f.created <- p
	return p, nil
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.all)
}

func (f *fakeFactory) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// next waits for the factory to create a paginator.
func (f *fakeFactory) next(t *testing.T) *fakePaginator {
	t.Helper()
	return recv[*fakePaginator](t, f.created)
}

type staticSessions map[string]paging.Session

func (s staticSessions) GetSession(_ context.Context, userID string) (paging.Session, bool) {
	session, ok := s[userID]
	return session, ok
}

func defaultSessions() staticSessions {
	return staticSessions{
		testUser: {UserID: testUser, Token: "token-1"},
		"user-2": {UserID: "user-2", Token: "token-2"},
	}
}

// recordingNotifier collects invalidation events.
type recordingNotifier struct {
	events chan paging.InvalidationEvent
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan paging.InvalidationEvent, 16)}
}

func (n *recordingNotifier) Submit(_ context.Context, event paging.InvalidationEvent) {
	n.events <- event
}

func (n *recordingNotifier) expectNone(t *testing.T) {
	t.Helper()
	select {
	case event := <-n.events:
		t.Fatalf("unexpected invalidation %+v", event)
	default:
	}
}

type pageResult struct {
	items []string
	err   error
}

// getItemsAsync runs GetItems on its own goroutine.
func getItemsAsync(ctx context.Context, c *paging.Coordinator[string], descriptor paging.Descriptor, page paging.PageToLoad) <-chan pageResult {
	out := make(chan pageResult, 1)
	go func() {
		items, err := c.GetItems(ctx, descriptor.UserID, paging.PageSpec{Descriptor: descriptor, Page: page})
		out <- pageResult{items: items, err: err}
	}()
	return out
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		t.Fatal("timed out waiting on channel")
	}
	var zero T
	return zero
}

func requireBlocked[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("expected no value, got %+v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func newCoordinator(t *testing.T, factory paging.Factory[string], opts ...paging.CoordinatorOpt) *paging.Coordinator[string] {
	t.Helper()
	c := paging.NewCoordinator[string](factory, defaultSessions(), opts...)
	t.Cleanup(c.Close)
	return c
}

// emit is a shorthand for delivering an update through a fake paginator.
func emit(p *fakePaginator, u scroller.Update[string]) {
	p.emit(u)
}
