package paging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/livelist/livelist/pkg/logger"
	"github.com/livelist/livelist/pkg/scroller"
	"github.com/livelist/livelist/pkg/telemetry"
)

var tracer = otel.Tracer("livelist/pkg/paging")

var errMissingCause = errors.New("paginator reported an error without a cause")

type issueMsg[T any] struct {
	ctx     context.Context
	session Session
	tracker *tracker[T]
}

type updateMsg[T any] struct {
	sessionID string
	update    scroller.Update[T]
}

type terminateMsg struct {
	userID string
	done   chan struct{}
}

type snapshotMsg[T any] struct {
	reply chan []T
}

// Coordinator serves page requests against a single live paginator session.
//
// All session state (the session slot, its cache and its pending request) is
// owned by one goroutine started by NewCoordinator. Callers, paginator
// callbacks and grace windows talk to it through an unbounded mailbox, so no
// lock is held while a caller waits for its page.
type Coordinator[T any] struct {
	factory     Factory[T]
	sessions    SessionProvider
	notifier    InvalidationNotifier
	logger      logger.Logger
	graceWindow time.Duration

	group singleflight.Group
	inbox *mailbox

	// state is only accessed by the owner goroutine.
	state sessionState[T]

	graceWindows conc.WaitGroup
	done         chan struct{}
	loopDone     chan struct{}
	closeOnce    sync.Once
}

// NewCoordinator starts a Coordinator. Close must be called to release the
// live paginator and stop the owner goroutine.
func NewCoordinator[T any](factory Factory[T], sessions SessionProvider, opts ...CoordinatorOpt) *Coordinator[T] {
	cfg := coordinatorConfig{
		logger:      logger.NewNoopLogger(),
		notifier:    noopNotifier{},
		graceWindow: DefaultGraceWindow,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Coordinator[T]{
		factory:     factory,
		sessions:    sessions,
		notifier:    cfg.notifier,
		logger:      cfg.logger,
		graceWindow: cfg.graceWindow,
		inbox:       newMailbox(),
		done:        make(chan struct{}),
		loopDone:    make(chan struct{}),
	}

	go c.run()

	return c
}

// GetItems loads the page described by spec on behalf of userID. The user id
// overrides spec.Descriptor.UserID.
//
// The call blocks until the live paginator answers, the request is
// abandoned, or ctx is done. Overlapping calls for the same page of the same
// descriptor share one underlying request.
func (c *Coordinator[T]) GetItems(ctx context.Context, userID string, spec PageSpec) ([]T, error) {
	spec.Descriptor.UserID = userID

	ctx, span := tracer.Start(ctx, "coordinator.GetItems", trace.WithAttributes(
		attribute.String("descriptor", spec.Descriptor.String()),
		attribute.String("page", spec.Page.String()),
	))
	defer span.End()

	items, err := c.getItems(ctx, userID, spec)
	if err != nil {
		telemetry.TraceError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("items", len(items)))
	return items, nil
}

func (c *Coordinator[T]) getItems(ctx context.Context, userID string, spec PageSpec) ([]T, error) {
	if spec.Page < PageFirst || spec.Page > PageAll {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPage, spec.Page)
	}

	session, ok := c.sessions.GetSession(ctx, userID)
	if !ok {
		return nil, ErrNoSession
	}

	// the shared request outlives any single caller, so it keeps the values
	// of the first caller's context but not its cancellation
	issueCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(spec.key(), func() (interface{}, error) {
		return c.issue(issueCtx, session, spec)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		items := res.Val.([]T)
		if res.Shared {
			deduplicatedRequestCounter.Inc()
			items = slices.Clone(items)
		}
		return items, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Coordinator[T]) issue(ctx context.Context, session Session, spec PageSpec) ([]T, error) {
	t := newTracker[T](spec)
	if !c.inbox.push(issueMsg[T]{ctx: ctx, session: session, tracker: t}) {
		return nil, ErrClosed
	}

	res := <-t.primary
	return res.items, res.err
}

// Terminate destroys the live session if it belongs to userID. A request
// pending on it fails with ErrTerminated.
func (c *Coordinator[T]) Terminate(userID string) {
	done := make(chan struct{})
	if !c.inbox.push(terminateMsg{userID: userID, done: done}) {
		return
	}
	<-done
}

// Snapshot returns the full cached list of the live session, or an empty
// list if there is none.
func (c *Coordinator[T]) Snapshot(ctx context.Context) ([]T, error) {
	reply := make(chan []T, 1)
	if !c.inbox.push(snapshotMsg[T]{reply: reply}) {
		return nil, ErrClosed
	}

	select {
	case items, ok := <-reply:
		if !ok {
			return nil, ErrClosed
		}
		return items, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close destroys the live paginator, fails every pending request with
// ErrClosed and waits for the goroutines of the coordinator to exit. It is
// safe to call Close more than once.
func (c *Coordinator[T]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	<-c.loopDone
	c.graceWindows.Wait()
}

func (c *Coordinator[T]) run() {
	defer close(c.loopDone)

	for {
		select {
		case <-c.inbox.wake:
			for _, msg := range c.inbox.drain() {
				c.handle(msg)
			}
		case <-c.done:
			c.shutdown()
			return
		}
	}
}

func (c *Coordinator[T]) handle(msg any) {
	switch m := msg.(type) {
	case issueMsg[T]:
		c.handleIssue(m)
	case updateMsg[T]:
		c.handleUpdate(m)
	case graceMsg[T]:
		c.handleGrace(m)
	case terminateMsg:
		c.handleTerminate(m)
	case snapshotMsg[T]:
		if s := c.state.active; s != nil {
			m.reply <- s.cache.Snapshot()
		} else {
			m.reply <- []T{}
		}
	default:
		c.logger.Error("unexpected coordinator message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (c *Coordinator[T]) shutdown() {
	if old := c.state.clear(ErrClosed); old != nil {
		c.logger.Debug("paginator session destroyed on close", zap.String("session_id", old.id))
	}

	for _, msg := range c.inbox.close() {
		switch m := msg.(type) {
		case issueMsg[T]:
			m.tracker.finish(nil, ErrClosed)
		case terminateMsg:
			close(m.done)
		case snapshotMsg[T]:
			close(m.reply)
		}
	}
}

func (c *Coordinator[T]) handleIssue(msg issueMsg[T]) {
	t := msg.tracker
	descriptor := t.spec.Descriptor

	if !c.state.reusable(descriptor, t.spec.Page == PageFirst) {
		if err := c.replaceSession(msg.ctx, msg.session, descriptor); err != nil {
			c.logger.WarnWithContext(msg.ctx, "failed to create paginator",
				zap.Stringer("descriptor", descriptor),
				zap.Error(err),
			)
			t.finish(nil, upstreamError(err))
			return
		}
	}

	s := c.state.active
	if prev := s.abandon(ErrSuperseded); prev != nil {
		c.logger.Debug("pending request superseded",
			zap.String("session_id", s.id),
			zap.String("request_id", prev.id),
		)
	}
	s.pending = t

	var err error
	if t.kind == requestRefresh {
		err = s.handle.Reload()
	} else {
		err = s.handle.NextPage()
	}
	if err != nil {
		c.logger.WarnWithContext(msg.ctx, "paginator rejected page request",
			zap.String("session_id", s.id),
			zap.Stringer("page", t.spec.Page),
			zap.Error(err),
		)
		c.complete(s, t, nil, upstreamError(err))
	}
}

// replaceSession destroys the live session, if any, and installs a new one
// bound to descriptor. On error the coordinator is left without a session.
func (c *Coordinator[T]) replaceSession(ctx context.Context, session Session, descriptor Descriptor) error {
	if old := c.state.clear(ErrSuperseded); old != nil {
		c.logger.Debug("paginator session destroyed",
			zap.String("session_id", old.id),
			zap.Stringer("descriptor", old.descriptor),
		)
	}

	s := newSession[T](descriptor)
	id := s.id
	handle, err := c.factory.Create(ctx, session, descriptor, func(u scroller.Update[T]) {
		c.inbox.push(updateMsg[T]{sessionID: id, update: u})
	})
	if err != nil {
		return err
	}

	s.handle = handle
	c.state.active = s
	sessionsCreatedCounter.Inc()

	c.logger.DebugWithContext(ctx, "paginator session created",
		zap.String("session_id", s.id),
		zap.Stringer("descriptor", descriptor),
	)
	return nil
}

func (c *Coordinator[T]) handleUpdate(msg updateMsg[T]) {
	s, ok := c.state.live(msg.sessionID)
	if !ok {
		staleUpdateCounter.Inc()
		c.logger.Debug("dropping update of a stale session",
			zap.String("session_id", msg.sessionID),
			zap.Stringer("update", msg.update),
		)
		return
	}

	u := msg.update
	prevLen := s.cache.Len()
	s.cache.Apply(u)
	t := s.pending

	switch u.Kind {
	case scroller.KindAppend:
		c.onAppend(s, t, prevLen)

	case scroller.KindReplaceFrom:
		if u.From <= 0 {
			c.onRefresh(s, t)
			return
		}
		c.onUnmergeable(s, t, InvalidationReplaceFrom)

	case scroller.KindReplaceRange:
		from := min(max(u.From, 0), prevLen)
		to := max(min(u.To, prevLen), from)
		switch {
		case from == prevLen:
			c.onAppend(s, t, prevLen)
		case from == 0 && to == prevLen && t != nil && t.kind == requestRefresh:
			c.onRefresh(s, t)
		default:
			c.onUnmergeable(s, t, InvalidationReplaceRange)
		}

	case scroller.KindReplaceBefore:
		// the pending request is answered before the notifier runs
		switch {
		case t == nil:
		case t.followUp != nil:
			// only a prepend at the top can be the payload the grace window
			// is waiting for; anything else leaves it to the timer
			if u.From <= 0 {
				t.deliverFollowUp(slices.Clone(u.Items))
			}
		case t.kind == requestRefresh:
			c.complete(s, t, s.cache.Snapshot(), nil)
		default:
			c.complete(s, t, nil, nil)
		}
		c.invalidate(s, InvalidationReplaceBefore)

	case scroller.KindError:
		cause := u.Err
		if cause == nil {
			cause = errMissingCause
		}
		c.logger.Warn("paginator reported an error",
			zap.String("session_id", s.id),
			zap.Stringer("descriptor", s.descriptor),
			zap.Error(cause),
		)
		if t != nil {
			c.complete(s, t, nil, upstreamError(cause))
		}

	case scroller.KindNone:
		c.onNone(s, t)
	}
}

func (c *Coordinator[T]) onAppend(s *session[T], t *tracker[T], prevLen int) {
	if t == nil {
		c.invalidate(s, InvalidationUnsolicited)
		return
	}
	if t.kind == requestRefresh {
		c.complete(s, t, s.cache.Snapshot(), nil)
		return
	}
	c.complete(s, t, s.cache.Slice(prevLen, s.cache.Len()), nil)
}

func (c *Coordinator[T]) onRefresh(s *session[T], t *tracker[T]) {
	if t == nil {
		c.invalidate(s, InvalidationUnsolicited)
		return
	}
	c.complete(s, t, s.cache.Snapshot(), nil)
}

func (c *Coordinator[T]) onUnmergeable(s *session[T], t *tracker[T], reason InvalidationReason) {
	if t != nil {
		c.complete(s, t, nil, nil)
	}
	c.invalidate(s, reason)
}

func (c *Coordinator[T]) onNone(s *session[T], t *tracker[T]) {
	switch {
	case t == nil:
	case t.kind == requestRefresh:
		c.complete(s, t, s.cache.Snapshot(), nil)
	case t.followUp == nil:
		c.startGraceWindow(s, t)
	}
}

// complete resolves t and clears it from s if it is still the pending request.
func (c *Coordinator[T]) complete(s *session[T], t *tracker[T], items []T, err error) {
	t.finish(items, err)
	if s.pending == t {
		s.pending = nil
	}
}

func (c *Coordinator[T]) invalidate(s *session[T], reason InvalidationReason) {
	invalidationCounter.WithLabelValues(string(reason)).Inc()
	c.logger.Info("invalidating paged view",
		zap.String("session_id", s.id),
		zap.Stringer("descriptor", s.descriptor),
		zap.String("reason", string(reason)),
	)
	c.notifier.Submit(context.Background(), InvalidationEvent{
		Descriptor: s.descriptor,
		Reason:     reason,
		At:         time.Now(),
	})
}

func (c *Coordinator[T]) handleTerminate(msg terminateMsg) {
	defer close(msg.done)

	s := c.state.active
	if s == nil || s.descriptor.UserID != msg.userID {
		return
	}
	c.state.clear(ErrTerminated)
	c.logger.Debug("paginator session terminated",
		zap.String("session_id", s.id),
		zap.String("user_id", msg.userID),
	)
}
