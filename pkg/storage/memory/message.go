package memory

import (
	"slices"
	"strings"
	"time"

	"github.com/livelist/livelist/pkg/paging"
)

// FilterLabel selects messages carrying the label named by the filter value.
const FilterLabel = "label"

// Message is a stored message as returned by live paginators.
type Message struct {
	ID      string
	Subject string
	Labels  []string
	Unread  bool
	Time    time.Time
}

// Matches reports whether m belongs to the list described by d.
func (m Message) Matches(d paging.Descriptor) bool {
	switch d.Kind {
	case paging.QuerySearch:
		return d.Keyword == "" || strings.Contains(strings.ToLower(m.Subject), strings.ToLower(d.Keyword))
	default:
		if d.UnreadOnly && !m.Unread {
			return false
		}
		if d.FilterKind == FilterLabel && d.FilterValue != "" {
			return slices.Contains(m.Labels, d.FilterValue)
		}
		return true
	}
}

// messageKey orders messages newest first, ties broken by id.
type messageKey struct {
	time time.Time
	id   string
}

func keyOf(m Message) messageKey {
	return messageKey{time: m.Time, id: m.ID}
}

func compareKeys(a, b messageKey) int {
	if c := b.time.Compare(a.time); c != 0 {
		return c
	}
	return strings.Compare(a.id, b.id)
}

// keyComparator adapts compareKeys to the red-black tree.
func keyComparator(a, b interface{}) int {
	return compareKeys(a.(messageKey), b.(messageKey))
}
