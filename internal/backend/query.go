package backend

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// ListQuery is the paging and search block every list endpoint accepts.
// Resource specific filters (CategoryId, CompanyId, FromDate, Status...) go
// into Filters under the backend's parameter names.
type ListQuery struct {
	Page     int        `url:"PageNumber"`
	PageSize int        `url:"PageSize"`
	Search   string     `url:"Search,omitempty"`
	Filters  url.Values `url:"-"`
}

// Values encodes q into query-string parameters. Empty filter values are dropped.
func (q ListQuery) Values() (url.Values, error) {
	v, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encode list query: %w", err)
	}
	for k, vals := range q.Filters {
		for _, s := range vals {
			if s != "" {
				v.Add(k, s)
			}
		}
	}
	return v, nil
}
