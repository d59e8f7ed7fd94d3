// Package crud is the generic list/table/dialog/delete engine every resource
// screen is built from.
package crud

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/diewo77/store-admin/internal/backend"
)

// PageSizes are the only page sizes offered.
var PageSizes = []int{10, 20, 30, 50}

// Query is the list state carried in the URL: 1-based page, page size,
// free-text search and resource filters keyed by backend parameter name.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Filters  url.Values
}

// ParseQuery reads a Query from request values. Only filter keys named in
// filterKeys are kept; unknown page sizes snap to defaultSize.
func ParseQuery(vals url.Values, filterKeys []string, defaultSize int) Query {
	q := Query{
		Page:     1,
		PageSize: normalizeSize(defaultSize, PageSizes[0]),
		Search:   strings.TrimSpace(vals.Get("q")),
		Filters:  url.Values{},
	}
	if p, err := strconv.Atoi(vals.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	if s, err := strconv.Atoi(vals.Get("size")); err == nil {
		q.PageSize = normalizeSize(s, q.PageSize)
	}
	for _, k := range filterKeys {
		if v := strings.TrimSpace(vals.Get(k)); v != "" {
			q.Filters.Set(k, v)
		}
	}
	return q
}

func normalizeSize(size, fallback int) int {
	for _, s := range PageSizes {
		if s == size {
			return size
		}
	}
	return fallback
}

func (q Query) clone() Query {
	c := q
	c.Filters = url.Values{}
	for k, v := range q.Filters {
		c.Filters[k] = append([]string(nil), v...)
	}
	return c
}

// WithPage moves to page n, keeping every filter.
func (q Query) WithPage(n int) Query {
	c := q.clone()
	if n < 1 {
		n = 1
	}
	c.Page = n
	return c
}

// WithPageSize changes the page size and returns to page 1.
func (q Query) WithPageSize(n int) Query {
	c := q.clone()
	c.PageSize = normalizeSize(n, q.PageSize)
	c.Page = 1
	return c
}

// WithSearch changes the search term and returns to page 1.
func (q Query) WithSearch(s string) Query {
	c := q.clone()
	c.Search = strings.TrimSpace(s)
	c.Page = 1
	return c
}

// WithFilter sets (or clears, for "") a filter and returns to page 1.
func (q Query) WithFilter(key, value string) Query {
	c := q.clone()
	if value == "" {
		c.Filters.Del(key)
	} else {
		c.Filters.Set(key, value)
	}
	c.Page = 1
	return c
}

// Encode renders q as a query string for links.
func (q Query) Encode() string {
	v := url.Values{}
	for k, vals := range q.Filters {
		for _, s := range vals {
			v.Add(k, s)
		}
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.PageSize))
	return v.Encode()
}

// Backend converts q to the backend list parameters.
func (q Query) Backend() backend.ListQuery {
	return backend.ListQuery{Page: q.Page, PageSize: q.PageSize, Search: q.Search, Filters: q.Filters}
}

// PageLink is one entry of the page size selector.
type PageLink struct {
	Size   int
	URL    string
	Active bool
}

// Pager is everything the pagination strip shows.
type Pager struct {
	Page     int
	Pages    int
	PageSize int
	Total    int
	Shown    int
	PrevURL  string
	NextURL  string
	Sizes    []PageLink
}

// NewPager computes the pagination strip for q, given the item count on the
// page and the backend total. base is the list URL.
func NewPager(base string, q Query, shown, total int) Pager {
	pages := 0
	if q.PageSize > 0 {
		pages = (total + q.PageSize - 1) / q.PageSize
	}
	p := Pager{Page: q.Page, Pages: pages, PageSize: q.PageSize, Total: total, Shown: shown}
	if q.Page > 1 {
		p.PrevURL = base + "?" + q.WithPage(q.Page-1).Encode()
	}
	if q.Page < pages {
		p.NextURL = base + "?" + q.WithPage(q.Page+1).Encode()
	}
	for _, s := range PageSizes {
		p.Sizes = append(p.Sizes, PageLink{Size: s, URL: base + "?" + q.WithPageSize(s).Encode(), Active: s == q.PageSize})
	}
	return p
}
