package paging

import (
	"fmt"
	"strconv"
	"strings"
)

type QueryKind int

const (
	QueryListing QueryKind = iota
	QuerySearch
)

func (k QueryKind) String() string {
	switch k {
	case QueryListing:
		return "listing"
	case QuerySearch:
		return "search"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Descriptor identifies what a paginator queries. Two descriptors are equal
// iff all of their fields are equal, so they can be compared with ==.
type Descriptor struct {
	UserID string
	Kind   QueryKind

	// FilterKind and FilterValue select the listing, e.g. "label" and "inbox".
	FilterKind  string
	FilterValue string
	UnreadOnly  bool

	Keyword string
}

// ListingDescriptor describes a filtered listing such as a label or folder.
func ListingDescriptor(userID, filterKind, filterValue string, unreadOnly bool) Descriptor {
	return Descriptor{
		UserID:      userID,
		Kind:        QueryListing,
		FilterKind:  filterKind,
		FilterValue: filterValue,
		UnreadOnly:  unreadOnly,
	}
}

// SearchDescriptor describes a keyword search.
func SearchDescriptor(userID, keyword string) Descriptor {
	return Descriptor{
		UserID:  userID,
		Kind:    QuerySearch,
		Keyword: keyword,
	}
}

func (d Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString(d.Kind.String())
	sb.WriteString(":")
	sb.WriteString(strconv.Quote(d.UserID))
	switch d.Kind {
	case QuerySearch:
		sb.WriteString(" keyword=")
		sb.WriteString(strconv.Quote(d.Keyword))
	default:
		sb.WriteString(" ")
		sb.WriteString(d.FilterKind)
		sb.WriteString("=")
		sb.WriteString(strconv.Quote(d.FilterValue))
		sb.WriteString(" unread=")
		sb.WriteString(strconv.FormatBool(d.UnreadOnly))
	}
	return sb.String()
}

// PageToLoad selects which page a request asks for.
type PageToLoad int

const (
	// PageFirst restarts the query from scratch and loads its first page.
	PageFirst PageToLoad = iota
	// PageNext loads the page following the ones already served.
	PageNext
	// PageAll reloads everything loaded so far.
	PageAll
)

func (p PageToLoad) String() string {
	switch p {
	case PageFirst:
		return "first"
	case PageNext:
		return "next"
	case PageAll:
		return "all"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// PageSpec is a single page request.
type PageSpec struct {
	Descriptor Descriptor
	Page       PageToLoad
}

func (s PageSpec) key() string {
	return s.Page.String() + "|" + s.Descriptor.String()
}
