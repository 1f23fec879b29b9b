// Package scroller holds the ordered item list behind a live paginated view
// and the incremental update notifications that mutate it.
package scroller

import "fmt"

// UpdateKind discriminates the variants of Update.
type UpdateKind int

const (
	// KindNone acknowledges a request without carrying a payload yet.
	KindNone UpdateKind = iota
	KindAppend
	KindReplaceFrom
	KindReplaceBefore
	KindReplaceRange
	KindError
)

func (k UpdateKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAppend:
		return "append"
	case KindReplaceFrom:
		return "replace_from"
	case KindReplaceBefore:
		return "replace_before"
	case KindReplaceRange:
		return "replace_range"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Update is a single notification emitted by a live paginator. Only the
// fields relevant to Kind are set; use the constructors below.
type Update[T any] struct {
	Kind  UpdateKind
	Items []T

	// From is the index of ReplaceFrom, ReplaceBefore and the start of ReplaceRange.
	From int
	// To is the exclusive end of ReplaceRange.
	To int

	Err error
}

func Append[T any](items ...T) Update[T] {
	return Update[T]{Kind: KindAppend, Items: items}
}

// ReplaceFrom drops every item at or after idx and appends items.
func ReplaceFrom[T any](idx int, items ...T) Update[T] {
	return Update[T]{Kind: KindReplaceFrom, From: idx, Items: items}
}

// ReplaceBefore drops every item before idx and prepends items.
func ReplaceBefore[T any](idx int, items ...T) Update[T] {
	return Update[T]{Kind: KindReplaceBefore, From: idx, Items: items}
}

// ReplaceRange substitutes items for the half-open range [from, to).
func ReplaceRange[T any](from, to int, items ...T) Update[T] {
	return Update[T]{Kind: KindReplaceRange, From: from, To: to, Items: items}
}

func None[T any]() Update[T] {
	return Update[T]{Kind: KindNone}
}

func Error[T any](err error) Update[T] {
	return Update[T]{Kind: KindError, Err: err}
}

func (u Update[T]) String() string {
	switch u.Kind {
	case KindAppend:
		return fmt.Sprintf("append(%d)", len(u.Items))
	case KindReplaceFrom, KindReplaceBefore:
		return fmt.Sprintf("%s(%d, %d)", u.Kind, u.From, len(u.Items))
	case KindReplaceRange:
		return fmt.Sprintf("%s(%d, %d, %d)", u.Kind, u.From, u.To, len(u.Items))
	case KindError:
		return fmt.Sprintf("error(%v)", u.Err)
	default:
		return u.Kind.String()
	}
}
