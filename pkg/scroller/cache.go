package scroller

import (
	"iter"
	"slices"
)

// Apply returns the list that results from applying u to current. It never
// modifies current. Indexes outside of [0, len(current)] are clamped and a
// range whose end precedes its start is treated as empty.
func Apply[T any](current []T, u Update[T]) []T {
	n := len(current)

	switch u.Kind {
	case KindAppend:
		next := make([]T, 0, n+len(u.Items))
		next = append(next, current...)
		return append(next, u.Items...)

	case KindReplaceFrom:
		idx := clamp(u.From, n)
		next := make([]T, 0, idx+len(u.Items))
		next = append(next, current[:idx]...)
		return append(next, u.Items...)

	case KindReplaceBefore:
		idx := clamp(u.From, n)
		next := make([]T, 0, len(u.Items)+n-idx)
		next = append(next, u.Items...)
		return append(next, current[idx:]...)

	case KindReplaceRange:
		from := clamp(u.From, n)
		to := max(clamp(u.To, n), from)
		next := make([]T, 0, from+len(u.Items)+n-to)
		next = append(next, current[:from]...)
		next = append(next, u.Items...)
		return append(next, current[to:]...)

	default:
		return current
	}
}

func clamp(idx, n int) int {
	return min(max(idx, 0), n)
}

// Cache is the ordered item list of one live paginated view. It is not safe
// for concurrent use; the owner of a session serializes access to it.
type Cache[T any] struct {
	items []T
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{}
}

// Apply mutates the cache with u and returns the new list. The returned slice
// is owned by the cache and must not be modified by the caller.
func (c *Cache[T]) Apply(u Update[T]) []T {
	c.items = Apply(c.items, u)
	return c.items
}

func (c *Cache[T]) Len() int {
	return len(c.items)
}

// Snapshot returns a copy of the current list.
func (c *Cache[T]) Snapshot() []T {
	return slices.Clone(c.items)
}

// Slice returns a copy of items in [from, to), clamped to the list bounds.
func (c *Cache[T]) Slice(from, to int) []T {
	from = clamp(from, len(c.items))
	to = max(clamp(to, len(c.items)), from)
	return slices.Clone(c.items[from:to])
}

// All returns a restartable sequence over the list as it was when All was
// called.
func (c *Cache[T]) All() iter.Seq[T] {
	items := c.items
	return func(yield func(T) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}
