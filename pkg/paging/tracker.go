package paging

import (
	"time"

	"github.com/google/uuid"
)

type requestKind int

const (
	requestAppend requestKind = iota
	requestRefresh
)

func (k requestKind) String() string {
	if k == requestRefresh {
		return "refresh"
	}
	return "append"
}

func requestKindFor(page PageToLoad) requestKind {
	if page == PageAll {
		return requestRefresh
	}
	return requestAppend
}

type result[T any] struct {
	items []T
	err   error
}

// tracker is the bookkeeping of one in-flight page request. Only the owner
// goroutine of a Coordinator touches it after it has been handed over; the
// requesting goroutine only reads from primary.
type tracker[T any] struct {
	id    string
	spec  PageSpec
	kind  requestKind
	start time.Time

	// primary is resolved exactly once.
	primary  chan result[T]
	resolved bool

	// followUp is allocated when the paginator acknowledges an append with
	// None and carries the payload of a later ReplaceBefore(0).
	followUp     chan []T
	followUpSent bool
}

func newTracker[T any](spec PageSpec) *tracker[T] {
	return &tracker[T]{
		id:      uuid.NewString(),
		spec:    spec,
		kind:    requestKindFor(spec.Page),
		start:   time.Now(),
		primary: make(chan result[T], 1),
	}
}

// resolve delivers the outcome of the request. It reports false, and does
// nothing, if the tracker has already been resolved.
func (t *tracker[T]) resolve(items []T, err error) bool {
	if t.resolved {
		return false
	}
	t.resolved = true
	if err == nil && items == nil {
		items = []T{}
	}
	t.primary <- result[T]{items: items, err: err}
	return true
}

// awaitingFollowUp reports whether a grace window is running for t.
func (t *tracker[T]) awaitingFollowUp() bool {
	return t.followUp != nil && !t.followUpSent && !t.resolved
}

// deliverFollowUp hands items to the running grace window. It reports false
// if no grace window is waiting for a payload.
func (t *tracker[T]) deliverFollowUp(items []T) bool {
	if !t.awaitingFollowUp() {
		return false
	}
	t.followUpSent = true
	t.followUp <- items
	return true
}

// finish resolves t and records the outcome.
func (t *tracker[T]) finish(items []T, err error) bool {
	if !t.resolve(items, err) {
		return false
	}
	observeResolution(t.spec.Page, t.start, len(items), err)
	return true
}
