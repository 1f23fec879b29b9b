//go:generate mockgen -source paging.go -destination ../../internal/mocks/mock_paging.go -package mocks paging

// Package paging serves pages of a list that a live paginator keeps mutating
// in the background. A Coordinator owns the single live paginator session,
// matches each page request to the asynchronous updates that answer it and
// signals downstream consumers when an update cannot be merged incrementally.
package paging

import (
	"context"
	"time"

	"github.com/livelist/livelist/pkg/scroller"
)

// Paginator is a live query bound to one Descriptor. Every method returns
// immediately; results are delivered later through the UpdateCallback the
// paginator was created with.
type Paginator interface {
	NextPage() error
	Reload() error
	Destroy()
}

// UpdateCallback receives the notifications of a Paginator. It may be invoked
// from any goroutine, including from within NextPage or Reload.
type UpdateCallback[T any] func(scroller.Update[T])

// Factory creates live paginators.
type Factory[T any] interface {
	Create(ctx context.Context, session Session, descriptor Descriptor, onUpdate UpdateCallback[T]) (Paginator, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc[T any] func(ctx context.Context, session Session, descriptor Descriptor, onUpdate UpdateCallback[T]) (Paginator, error)

func (f FactoryFunc[T]) Create(ctx context.Context, session Session, descriptor Descriptor, onUpdate UpdateCallback[T]) (Paginator, error) {
	return f(ctx, session, descriptor, onUpdate)
}

// Session is the credential material of an authenticated user.
type Session struct {
	UserID string
	Token  string
}

// SessionProvider resolves the session of a user. It reports false if the
// user has no usable session.
type SessionProvider interface {
	GetSession(ctx context.Context, userID string) (Session, bool)
}

// InvalidationReason tells why a cached view had to be dropped.
type InvalidationReason string

const (
	InvalidationReplaceFrom   InvalidationReason = "replace_from"
	InvalidationReplaceBefore InvalidationReason = "replace_before"
	InvalidationReplaceRange  InvalidationReason = "replace_range"
	InvalidationUnsolicited   InvalidationReason = "unsolicited"
)

// InvalidationEvent asks a downstream paging framework to reload the view of
// Descriptor from its first page.
type InvalidationEvent struct {
	Descriptor Descriptor
	Reason     InvalidationReason
	At         time.Time
}

// InvalidationNotifier receives invalidation events. Submit is called from
// the coordinator's owner goroutine and must not block. Delivering an event
// more than once is acceptable.
type InvalidationNotifier interface {
	Submit(ctx context.Context, event InvalidationEvent)
}

// NotifierFunc adapts a function to the InvalidationNotifier interface.
type NotifierFunc func(ctx context.Context, event InvalidationEvent)

func (f NotifierFunc) Submit(ctx context.Context, event InvalidationEvent) {
	f(ctx, event)
}

type noopNotifier struct{}

func (noopNotifier) Submit(context.Context, InvalidationEvent) {}
