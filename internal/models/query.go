package models

import (
	"net/url"
	"strconv"
	"strings"
)

// SearchQuery is the immutable description of one offer search. Build it
// with NewSearchQuery and pass it by value.
type SearchQuery struct {
	Keyword     string
	Kind        Kind
	Origin      string
	Destination string
	Date        string
	Guests      int
	Category    string
}

func NewSearchQuery(keyword string, kind Kind, origin, destination, date string, guests int, category string) SearchQuery {
	if guests < 0 {
		guests = 0
	}
	return SearchQuery{
		Keyword:     strings.TrimSpace(keyword),
		Kind:        kind,
		Origin:      strings.TrimSpace(origin),
		Destination: strings.TrimSpace(destination),
		Date:        strings.TrimSpace(date),
		Guests:      guests,
		Category:    strings.TrimSpace(category),
	}
}

func (q SearchQuery) HasKeyword() bool {
	return q.Keyword != ""
}

func (q SearchQuery) HasRoute() bool {
	return q.Origin != "" && q.Destination != ""
}

func (q SearchQuery) IsEmpty() bool {
	return q.Keyword == "" && q.Origin == "" && q.Destination == "" && q.Date == "" && q.Category == "" && q.Guests == 0
}

// Values returns the non-empty query fields, lower-cased, under their
// canonical names.
func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		val = strings.ToLower(strings.TrimSpace(val))
		if val != "" {
			v.Set(k, val)
		}
	}
	set("keyword", q.Keyword)
	set("kind", string(q.Kind))
	set("origin", q.Origin)
	set("destination", q.Destination)
	set("date", q.Date)
	set("category", q.Category)
	if q.Guests > 0 {
		v.Set("guests", strconv.Itoa(q.Guests))
	}
	return v
}

// Signature is the canonical cache key for the query under a namespace.
// Keys are sorted, so field order never changes the result.
func (q SearchQuery) Signature(namespace string) string {
	return namespace + "?" + q.Values().Encode()
}
