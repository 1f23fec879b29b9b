package paging

import (
	"github.com/oklog/ulid/v2"

	"github.com/livelist/livelist/pkg/scroller"
)

// session binds one descriptor to one live paginator and its cache.
type session[T any] struct {
	id         string
	descriptor Descriptor
	handle     Paginator
	cache      *scroller.Cache[T]

	// pending is the request currently waiting for an answer, if any.
	pending *tracker[T]
}

func newSession[T any](descriptor Descriptor) *session[T] {
	return &session[T]{
		id:         ulid.Make().String(),
		descriptor: descriptor,
		cache:      scroller.NewCache[T](),
	}
}

// abandon fails the pending request, if any, with err.
func (s *session[T]) abandon(err error) *tracker[T] {
	t := s.pending
	if t == nil {
		return nil
	}
	s.pending = nil
	if !t.finish(nil, err) {
		return nil
	}
	return t
}

// sessionState is the single session slot of a Coordinator. A nil active
// session is the NoSession state.
type sessionState[T any] struct {
	active *session[T]
}

// live returns the active session if it was created with id.
func (s *sessionState[T]) live(id string) (*session[T], bool) {
	if s.active == nil || s.active.id != id {
		return nil, false
	}
	return s.active, true
}

// reusable reports whether the active session can serve a request for
// descriptor without being recreated.
func (s *sessionState[T]) reusable(descriptor Descriptor, firstPage bool) bool {
	return s.active != nil && !firstPage && s.active.descriptor == descriptor
}

// clear moves to the NoSession state. The paginator of the previous session
// is destroyed and its pending request, if any, fails with cause. Clearing an
// empty slot is a no-op that returns nil.
func (s *sessionState[T]) clear(cause error) *session[T] {
	old := s.active
	if old == nil {
		return nil
	}
	s.active = nil

	old.abandon(cause)
	if old.handle != nil {
		old.handle.Destroy()
		old.handle = nil
	}
	return old
}
