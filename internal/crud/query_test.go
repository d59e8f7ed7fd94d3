package crud

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	q := ParseQuery(url.Values{
		"page":       {"3"},
		"size":       {"20"},
		"q":          {"  milk "},
		"CategoryId": {"4"},
		"Unknown":    {"x"},
	}, []string{"CategoryId", "CompanyId"}, 10)

	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 20, q.PageSize)
	assert.Equal(t, "milk", q.Search)
	assert.Equal(t, url.Values{"CategoryId": {"4"}}, q.Filters)
}

func TestParseQuerySnapsBadValues(t *testing.T) {
	q := ParseQuery(url.Values{"page": {"-2"}, "size": {"7"}}, nil, 30)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 30, q.PageSize)

	q = ParseQuery(url.Values{}, nil, 15)
	assert.Equal(t, PageSizes[0], q.PageSize)
}

func TestChangingCriteriaReturnsToFirstPage(t *testing.T) {
	q := Query{Page: 4, PageSize: 10, Filters: url.Values{"CompanyId": {"2"}}}

	assert.Equal(t, 1, q.WithSearch("rice").Page)
	assert.Equal(t, 1, q.WithFilter("CategoryId", "9").Page)
	assert.Equal(t, 1, q.WithFilter("CompanyId", "").Page)
	assert.Equal(t, 1, q.WithPageSize(50).Page)
	assert.Equal(t, 5, q.WithPage(5).Page)

	moved := q.WithFilter("CategoryId", "9")
	assert.Equal(t, "2", moved.Filters.Get("CompanyId"))
	assert.Empty(t, q.Filters.Get("CategoryId"), "original query is not mutated")
	assert.Empty(t, q.WithFilter("CompanyId", "").Filters.Get("CompanyId"))
	assert.Equal(t, 10, q.WithPageSize(33).PageSize)
}

func TestQueryBackendAndEncode(t *testing.T) {
	q := Query{Page: 2, PageSize: 20, Search: "tea", Filters: url.Values{"CompanyId": {"5"}}}
	b := q.Backend()
	assert.Equal(t, 2, b.Page)
	assert.Equal(t, 20, b.PageSize)
	assert.Equal(t, "tea", b.Search)
	assert.Equal(t, "5", b.Filters.Get("CompanyId"))

	back, err := url.ParseQuery(q.Encode())
	require.NoError(t, err)
	assert.Equal(t, q, ParseQuery(back, []string{"CompanyId"}, 10))
}

func TestPager(t *testing.T) {
	q := Query{Page: 2, PageSize: 10, Filters: url.Values{}}
	p := NewPager("/categories", q, 10, 25)

	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 25, p.Total)
	assert.Contains(t, p.PrevURL, "page=1")
	assert.Contains(t, p.NextURL, "page=3")
	require.Len(t, p.Sizes, len(PageSizes))
	assert.True(t, p.Sizes[0].Active)
	assert.Contains(t, p.Sizes[1].URL, "page=1")

	last := NewPager("/categories", q.WithPage(3), 5, 25)
	assert.Empty(t, last.NextURL)

	empty := NewPager("/categories", q.WithPage(1), 0, 0)
	assert.Zero(t, empty.Pages)
	assert.Empty(t, empty.PrevURL)
	assert.Empty(t, empty.NextURL)
}
