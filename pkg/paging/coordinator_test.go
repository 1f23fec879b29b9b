package paging_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/livelist/livelist/internal/mocks"
	"github.com/livelist/livelist/pkg/invalidation"
	"github.com/livelist/livelist/pkg/logger"
	"github.com/livelist/livelist/pkg/paging"
	"github.com/livelist/livelist/pkg/scroller"
)

func TestGetItems_InboxScenario(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	notifier := newRecordingNotifier()
	c := newCoordinator(t, factory, paging.WithInvalidationNotifier(notifier))
	ctx := context.Background()

	first := getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p := factory.next(t)
	require.Equal(t, inbox, p.descriptor)
	p.expectCall(t, "next")

	emit(p, scroller.Append("m1", "m2", "m3"))
	res := recv(t, first)
	require.NoError(t, res.err)
	require.Equal(t, []string{"m1", "m2", "m3"}, res.items)

	next := getItemsAsync(ctx, c, inbox, paging.PageNext)
	p.expectCall(t, "next")
	emit(p, scroller.Append("m4"))
	res = recv(t, next)
	require.NoError(t, res.err)
	require.Equal(t, []string{"m4"}, res.items)

	require.Equal(t, 1, factory.count())
	notifier.expectNone(t)

	snapshot, err := c.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"m1", "m2", "m3", "m4"}, snapshot)
}

func TestGetItems_NoSession(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	c := newCoordinator(t, factory)

	items, err := c.GetItems(context.Background(), "unknown", paging.PageSpec{Descriptor: inbox, Page: paging.PageFirst})
	require.ErrorIs(t, err, paging.ErrNoSession)
	require.Nil(t, items)
	require.Zero(t, factory.count())
}

func TestGetItems_InvalidPage(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	c := newCoordinator(t, newFakeFactory())

	_, err := c.GetItems(context.Background(), testUser, paging.PageSpec{Descriptor: inbox, Page: paging.PageToLoad(7)})
	require.ErrorIs(t, err, paging.ErrInvalidPage)
}

func TestGetItems_SameDescriptorReusesSession(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	ctrl := gomock.NewController(t)
	factory := mocks.NewMockFactory[string](ctrl)
	paginator := mocks.NewMockPaginator(ctrl)

	var onUpdate paging.UpdateCallback[string]
	factory.EXPECT().
		Create(gomock.Any(), paging.Session{UserID: testUser, Token: "token-1"}, inbox, gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, _ paging.Session, _ paging.Descriptor, cb paging.UpdateCallback[string]) (paging.Paginator, error) {
			onUpdate = cb
			return paginator, nil
		})

	// the paginator answers synchronously from within NextPage
	pages := [][]string{{"m1", "m2"}, {"m3"}}
	paginator.EXPECT().NextPage().Times(2).DoAndReturn(func() error {
		onUpdate(scroller.Append(pages[0]...))
		pages = pages[1:]
		return nil
	})
	paginator.EXPECT().Destroy().Times(1)

	c := paging.NewCoordinator[string](factory, defaultSessions())
	t.Cleanup(c.Close)

	ctx := context.Background()
	items, err := c.GetItems(ctx, testUser, paging.PageSpec{Descriptor: inbox, Page: paging.PageNext})
	require.NoError(t, err)
	require.Equal(t, []string{"m1", "m2"}, items)

	items, err = c.GetItems(ctx, testUser, paging.PageSpec{Descriptor: inbox, Page: paging.PageNext})
	require.NoError(t, err)
	require.Equal(t, []string{"m3"}, items)
}

func TestGetItems_DescriptorChangeRecreatesSession(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	ctrl := gomock.NewController(t)
	factory := mocks.NewMockFactory[string](ctrl)
	first := mocks.NewMockPaginator(ctrl)
	second := mocks.NewMockPaginator(ctrl)

	var callbacks []paging.UpdateCallback[string]
	create := func(p paging.Paginator) func(context.Context, paging.Session, paging.Descriptor, paging.UpdateCallback[string]) (paging.Paginator, error) {
		return func(_ context.Context, _ paging.Session, _ paging.Descriptor, cb paging.UpdateCallback[string]) (paging.Paginator, error) {
			callbacks = append(callbacks, cb)
			return p, nil
		}
	}
	answer := func(items ...string) func() error {
		return func() error {
			callbacks[len(callbacks)-1](scroller.Append(items...))
			return nil
		}
	}

	gomock.InOrder(
		factory.EXPECT().Create(gomock.Any(), gomock.Any(), inbox, gomock.Any()).DoAndReturn(create(first)),
		first.EXPECT().NextPage().DoAndReturn(answer("i1")),
		first.EXPECT().Destroy(),
		factory.EXPECT().Create(gomock.Any(), gomock.Any(), archive, gomock.Any()).DoAndReturn(create(second)),
		second.EXPECT().NextPage().DoAndReturn(answer("a1")),
		second.EXPECT().Destroy(),
	)

	c := paging.NewCoordinator[string](factory, defaultSessions())

	ctx := context.Background()
	items, err := c.GetItems(ctx, testUser, paging.PageSpec{Descriptor: inbox, Page: paging.PageNext})
	require.NoError(t, err)
	require.Equal(t, []string{"i1"}, items)

	items, err = c.GetItems(ctx, testUser, paging.PageSpec{Descriptor: archive, Page: paging.PageNext})
	require.NoError(t, err)
	require.Equal(t, []string{"a1"}, items)

	c.Close()
}

func TestGetItems_FirstPageRecreatesSession(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	c := newCoordinator(t, factory)
	ctx := context.Background()

	res := getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p1 := factory.next(t)
	p1.expectCall(t, "next")
	emit(p1, scroller.Append("m1"))
	require.NoError(t, recv(t, res).err)

	res = getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p2 := factory.next(t)
	require.Equal(t, int32(1), p1.destroyed.Load())
	p2.expectCall(t, "next")
	emit(p2, scroller.Append("m1", "m2"))

	got := recv(t, res)
	require.NoError(t, got.err)
	require.Equal(t, []string{"m1", "m2"}, got.items)
	require.Equal(t, 2, factory.count())
}

func TestGetItems_Refresh(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	notifier := newRecordingNotifier()
	c := newCoordinator(t, factory, paging.WithInvalidationNotifier(notifier))
	ctx := context.Background()

	res := getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p := factory.next(t)
	p.expectCall(t, "next")
	emit(p, scroller.Append("m1", "m2"))
	require.NoError(t, recv(t, res).err)

	t.Run("replace_from_zero_returns_full_snapshot", func(t *testing.T) {
		res := getItemsAsync(ctx, c, inbox, paging.PageAll)
		p.expectCall(t, "reload")
		emit(p, scroller.ReplaceFrom(0, "m0", "m1", "m2"))

		got := recv(t, res)
		require.NoError(t, got.err)
		require.Equal(t, []string{"m0", "m1", "m2"}, got.items)
	})

	t.Run("none_returns_current_snapshot", func(t *testing.T) {
		res := getItemsAsync(ctx, c, inbox, paging.PageAll)
		p.expectCall(t, "reload")
		emit(p, scroller.None[string]())

		got := recv(t, res)
		require.NoError(t, got.err)
		require.Equal(t, []string{"m0", "m1", "m2"}, got.items)
	})

	t.Run("append_returns_full_snapshot", func(t *testing.T) {
		res := getItemsAsync(ctx, c, inbox, paging.PageAll)
		p.expectCall(t, "reload")
		emit(p, scroller.Append("m3"))

		got := recv(t, res)
		require.NoError(t, got.err)
		require.Equal(t, []string{"m0", "m1", "m2", "m3"}, got.items)
	})

	require.Equal(t, 1, factory.count())
	notifier.expectNone(t)
}

func TestGetItems_Unmergeable(t *testing.T) {
	tests := []struct {
		name     string
		update   scroller.Update[string]
		reason   paging.InvalidationReason
		snapshot []string
	}{
		{
			name:     "replace_from_middle",
			update:   scroller.ReplaceFrom(2, "x", "y"),
			reason:   paging.InvalidationReplaceFrom,
			snapshot: []string{"a", "b", "x", "y"},
		},
		{
			name:     "replace_range_inside",
			update:   scroller.ReplaceRange(1, 3, "x"),
			reason:   paging.InvalidationReplaceRange,
			snapshot: []string{"a", "x", "d"},
		},
		{
			name:     "replace_before_without_grace_window",
			update:   scroller.ReplaceBefore(2, "x", "y"),
			reason:   paging.InvalidationReplaceBefore,
			snapshot: []string{"x", "y", "c", "d"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Cleanup(func() {
				goleak.VerifyNone(t)
			})

			factory := newFakeFactory()
			notifier := newRecordingNotifier()
			c := newCoordinator(t, factory, paging.WithInvalidationNotifier(notifier))
			ctx := context.Background()

			res := getItemsAsync(ctx, c, inbox, paging.PageFirst)
			p := factory.next(t)
			p.expectCall(t, "next")
			emit(p, scroller.Append("a", "b", "c", "d"))
			require.NoError(t, recv(t, res).err)

			res = getItemsAsync(ctx, c, inbox, paging.PageNext)
			p.expectCall(t, "next")
			emit(p, test.update)

			got := recv(t, res)
			require.NoError(t, got.err)
			require.Empty(t, got.items)
			require.NotNil(t, got.items)

			event := recv[paging.InvalidationEvent](t, notifier.events)
			require.Equal(t, test.reason, event.Reason)
			require.Equal(t, inbox, event.Descriptor)
			notifier.expectNone(t)

			snapshot, err := c.Snapshot(ctx)
			require.NoError(t, err)
			require.Equal(t, test.snapshot, snapshot)
		})
	}
}

func TestGetItems_ReplaceRangePatterns(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	notifier := newRecordingNotifier()
	c := newCoordinator(t, factory, paging.WithInvalidationNotifier(notifier))
	ctx := context.Background()

	res := getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p := factory.next(t)
	p.expectCall(t, "next")
	emit(p, scroller.Append("a", "b"))
	require.NoError(t, recv(t, res).err)

	t.Run("range_at_end_is_an_append", func(t *testing.T) {
		res := getItemsAsync(ctx, c, inbox, paging.PageNext)
		p.expectCall(t, "next")
		emit(p, scroller.ReplaceRange(2, 2, "c"))

		got := recv(t, res)
		require.NoError(t, got.err)
		require.Equal(t, []string{"c"}, got.items)
	})

	t.Run("whole_range_answers_a_refresh", func(t *testing.T) {
		res := getItemsAsync(ctx, c, inbox, paging.PageAll)
		p.expectCall(t, "reload")
		emit(p, scroller.ReplaceRange(0, 3, "x", "y"))

		got := recv(t, res)
		require.NoError(t, got.err)
		require.Equal(t, []string{"x", "y"}, got.items)
		notifier.expectNone(t)
	})

	t.Run("whole_range_does_not_answer_a_next_page", func(t *testing.T) {
		res := getItemsAsync(ctx, c, inbox, paging.PageNext)
		p.expectCall(t, "next")
		// the only loaded items are removed
		emit(p, scroller.ReplaceRange[string](0, 2))

		got := recv(t, res)
		require.NoError(t, got.err)
		require.Empty(t, got.items)

		event := recv[paging.InvalidationEvent](t, notifier.events)
		require.Equal(t, paging.InvalidationReplaceRange, event.Reason)

		snapshot, err := c.Snapshot(ctx)
		require.NoError(t, err)
		require.Empty(t, snapshot)
	})

	t.Run("unsolicited_whole_range_invalidates", func(t *testing.T) {
		emit(p, scroller.Append("a"))
		event := recv[paging.InvalidationEvent](t, notifier.events)
		require.Equal(t, paging.InvalidationUnsolicited, event.Reason)

		emit(p, scroller.ReplaceRange(0, 1, "b"))
		event = recv[paging.InvalidationEvent](t, notifier.events)
		require.Equal(t, paging.InvalidationReplaceRange, event.Reason)
	})

	notifier.expectNone(t)
}

func TestGetItems_StuckSubscriber(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	broadcaster := invalidation.NewBroadcaster(invalidation.WithBufferSize(0))
	t.Cleanup(broadcaster.Close)
	// never read
	_, unsubscribe := broadcaster.Subscribe(context.Background())
	t.Cleanup(unsubscribe)

	factory := newFakeFactory()
	c := newCoordinator(t, factory, paging.WithInvalidationNotifier(broadcaster))
	ctx := context.Background()

	t.Run("unmergeable_update", func(t *testing.T) {
		res := getItemsAsync(ctx, c, inbox, paging.PageFirst)
		p := factory.next(t)
		p.expectCall(t, "next")
		emit(p, scroller.Append("m1", "m2"))
		require.NoError(t, recv(t, res).err)

		start := time.Now()
		res = getItemsAsync(ctx, c, inbox, paging.PageNext)
		p.expectCall(t, "next")
		emit(p, scroller.ReplaceFrom(1, "x"))

		got := recv(t, res)
		require.NoError(t, got.err)
		require.Empty(t, got.items)
		require.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("grace_follow_up", func(t *testing.T) {
		c := newCoordinator(t, factory,
			paging.WithGraceWindow(250*time.Millisecond),
			paging.WithInvalidationNotifier(broadcaster),
		)
		p := loadFirstPage(t, c, factory, "m1")

		res := getItemsAsync(ctx, c, inbox, paging.PageNext)
		p.expectCall(t, "next")
		emit(p, scroller.None[string]())
		time.Sleep(150 * time.Millisecond)
		emit(p, scroller.ReplaceBefore(0, "m0"))

		got := recv(t, res)
		require.NoError(t, got.err)
		require.Equal(t, []string{"m0"}, got.items)
	})
}

func TestGetItems_UpstreamError(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	c := newCoordinator(t, factory)
	ctx := context.Background()
	cause := errors.New("decryption failed")

	res := getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p := factory.next(t)
	p.expectCall(t, "next")
	emit(p, scroller.Error[string](cause))

	got := recv(t, res)
	require.ErrorIs(t, got.err, cause)
	var upstream *paging.UpstreamError
	require.ErrorAs(t, got.err, &upstream)
	require.Nil(t, got.items)

	// the coordinator stays usable after an upstream error
	res = getItemsAsync(ctx, c, inbox, paging.PageNext)
	p.expectCall(t, "next")
	emit(p, scroller.Append("m1"))
	got = recv(t, res)
	require.NoError(t, got.err)
	require.Equal(t, []string{"m1"}, got.items)
}

func TestGetItems_FactoryError(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	factory.setErr(errors.New("store unavailable"))
	c := newCoordinator(t, factory)
	ctx := context.Background()

	_, err := c.GetItems(ctx, testUser, paging.PageSpec{Descriptor: inbox, Page: paging.PageNext})
	var upstream *paging.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.EqualError(t, upstream.Cause, "store unavailable")

	factory.setErr(nil)
	res := getItemsAsync(ctx, c, inbox, paging.PageNext)
	p := factory.next(t)
	p.expectCall(t, "next")
	emit(p, scroller.Append("m1"))
	require.Equal(t, []string{"m1"}, recv(t, res).items)
}

func TestGetItems_PaginatorRejectsRequest(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	ctrl := gomock.NewController(t)
	paginator := mocks.NewMockPaginator(ctrl)
	paginator.EXPECT().Reload().Return(errors.New("not ready"))
	paginator.EXPECT().Destroy()

	factory := paging.FactoryFunc[string](func(context.Context, paging.Session, paging.Descriptor, paging.UpdateCallback[string]) (paging.Paginator, error) {
		return paginator, nil
	})
	c := newCoordinator(t, factory)

	_, err := c.GetItems(context.Background(), testUser, paging.PageSpec{Descriptor: inbox, Page: paging.PageAll})
	require.ErrorContains(t, err, "not ready")
}

func TestGetItems_SingleResolution(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	notifier := newRecordingNotifier()
	c := newCoordinator(t, factory, paging.WithInvalidationNotifier(notifier))
	ctx := context.Background()

	res := getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p := factory.next(t)
	p.expectCall(t, "next")
	emit(p, scroller.Append("a"))
	emit(p, scroller.Append("b"))
	emit(p, scroller.Error[string](errors.New("late")))

	got := recv(t, res)
	require.NoError(t, got.err)
	require.Equal(t, []string{"a"}, got.items)

	// the unanswered append reaches the cache and invalidates the view
	event := recv[paging.InvalidationEvent](t, notifier.events)
	require.Equal(t, paging.InvalidationUnsolicited, event.Reason)

	snapshot, err := c.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, snapshot)
}

func TestGetItems_OverlappingRequestsShareResult(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	c := newCoordinator(t, factory)
	ctx := context.Background()

	first := getItemsAsync(ctx, c, inbox, paging.PageNext)
	p := factory.next(t)
	p.expectCall(t, "next")

	second := getItemsAsync(ctx, c, inbox, paging.PageNext)
	// give the second caller time to join the in-flight request
	time.Sleep(50 * time.Millisecond)
	emit(p, scroller.Append("m1", "m2"))

	a, b := recv(t, first), recv(t, second)
	require.NoError(t, a.err)
	require.NoError(t, b.err)
	require.Equal(t, []string{"m1", "m2"}, a.items)
	require.Equal(t, []string{"m1", "m2"}, b.items)

	requireBlocked[string](t, p.calls)
	require.Equal(t, 1, factory.count())
}

func TestGetItems_DescriptorChangeSupersedesPendingRequest(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	c := newCoordinator(t, factory)
	ctx := context.Background()

	stale := getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p1 := factory.next(t)
	p1.expectCall(t, "next")

	fresh := getItemsAsync(ctx, c, archive, paging.PageFirst)
	p2 := factory.next(t)

	got := recv(t, stale)
	require.ErrorIs(t, got.err, paging.ErrSuperseded)
	require.Equal(t, int32(1), p1.destroyed.Load())

	// updates of the destroyed paginator are dropped
	emit(p1, scroller.Append("stale"))

	p2.expectCall(t, "next")
	emit(p2, scroller.Append("a1"))
	got = recv(t, fresh)
	require.NoError(t, got.err)
	require.Equal(t, []string{"a1"}, got.items)

	snapshot, err := c.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a1"}, snapshot)
}

func TestGetItems_NewerRequestSupersedesPendingOne(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	c := newCoordinator(t, factory)
	ctx := context.Background()

	next := getItemsAsync(ctx, c, inbox, paging.PageNext)
	p := factory.next(t)
	p.expectCall(t, "next")

	all := getItemsAsync(ctx, c, inbox, paging.PageAll)
	p.expectCall(t, "reload")
	require.ErrorIs(t, recv(t, next).err, paging.ErrSuperseded)

	emit(p, scroller.ReplaceFrom(0, "m1"))
	got := recv(t, all)
	require.NoError(t, got.err)
	require.Equal(t, []string{"m1"}, got.items)
}

func TestGetItems_CallerContext(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	c := newCoordinator(t, factory)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetItems(ctx, testUser, paging.PageSpec{Descriptor: inbox, Page: paging.PageNext})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// the underlying request is still pending and is answered normally
	p := factory.next(t)
	p.expectCall(t, "next")
	emit(p, scroller.Append("m1"))

	require.Eventually(t, func() bool {
		items, err := c.Snapshot(context.Background())
		return err == nil && len(items) == 1
	}, waitFor, 10*time.Millisecond)
}

func TestTerminate(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	c := newCoordinator(t, factory)
	ctx := context.Background()

	t.Run("without_session_is_noop", func(t *testing.T) {
		c.Terminate(testUser)
		c.Terminate(testUser)
	})

	res := getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p := factory.next(t)
	p.expectCall(t, "next")

	t.Run("other_user_is_ignored", func(t *testing.T) {
		c.Terminate("user-2")
		require.Zero(t, p.destroyed.Load())
		requireBlocked(t, res)
	})

	t.Run("owner_destroys_session", func(t *testing.T) {
		c.Terminate(testUser)
		require.Equal(t, int32(1), p.destroyed.Load())
		require.ErrorIs(t, recv(t, res).err, paging.ErrTerminated)

		snapshot, err := c.Snapshot(ctx)
		require.NoError(t, err)
		require.Empty(t, snapshot)
	})

	t.Run("destroy_is_idempotent", func(t *testing.T) {
		c.Terminate(testUser)
		c.Close()
		require.Equal(t, int32(1), p.destroyed.Load())
	})
}

func TestClose(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	factory := newFakeFactory()
	observer, logs := logger.NewObserverLogger("debug")
	c := paging.NewCoordinator[string](factory, defaultSessions(), paging.WithLogger(observer))
	ctx := context.Background()

	res := getItemsAsync(ctx, c, inbox, paging.PageFirst)
	p := factory.next(t)
	p.expectCall(t, "next")

	c.Close()
	c.Close()

	require.ErrorIs(t, recv(t, res).err, paging.ErrClosed)
	require.Equal(t, int32(1), p.destroyed.Load())

	_, err := c.GetItems(ctx, testUser, paging.PageSpec{Descriptor: inbox, Page: paging.PageNext})
	require.ErrorIs(t, err, paging.ErrClosed)

	_, err = c.Snapshot(ctx)
	require.ErrorIs(t, err, paging.ErrClosed)

	c.Terminate(testUser)

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	require.Contains(t, messages, "paginator session created")
	require.Contains(t, messages, "paginator session destroyed on close")
}
