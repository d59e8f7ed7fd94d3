package crud

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/backend/backendtest"
)

type item struct {
	ID     int64  `json:"id"`
	NameEN string `json:"nameEN"`
}

func testConn(t *testing.T, srv *backendtest.Server) *backend.Conn {
	t.Helper()
	c, err := backend.New(backend.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c.For(nil)
}

func TestInflightSupersedes(t *testing.T) {
	f := NewInflight()
	ctx1, t1 := f.Begin(context.Background(), "s|categories")
	ctx2, t2 := f.Begin(context.Background(), "s|categories")
	_, other := f.Begin(context.Background(), "s|companies")

	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())
	assert.False(t, t1.Current())
	assert.True(t, t2.Current())
	assert.True(t, other.Current())

	t1.Done()
	assert.True(t, t2.Current(), "an old ticket must not release the newer slot")
	t2.Done()
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
}

func TestLoaderReturnsPage(t *testing.T) {
	srv := backendtest.New(t)
	srv.Seed("Category", map[string]any{"nameEN": "A"}, map[string]any{"nameEN": "B"}, map[string]any{"nameEN": "C"})
	l := &Loader[item]{Path: "/Category/List", Inflight: NewInflight()}

	res := l.Load(context.Background(), testConn(t, srv), "s|categories", Query{Page: 2, PageSize: 2})
	assert.False(t, res.Failed)
	assert.False(t, res.Stale)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "C", res.Items[0].NameEN)
}

func TestLoaderFailureIsEmptyWithNotice(t *testing.T) {
	srv := backendtest.New(t)
	srv.Seed("Category", map[string]any{"nameEN": "A"})
	srv.Fail("GET", "/Category/List", 500, "Database offline")
	l := &Loader[item]{Path: "/Category/List"}

	res := l.Load(context.Background(), testConn(t, srv), "s|categories", Query{Page: 1, PageSize: 10})
	assert.True(t, res.Failed)
	assert.Empty(t, res.Items)
	assert.Equal(t, "Database offline", res.Notice)
	assert.Equal(t, 1, srv.CountCalls("GET", "/Category/List"), "no retry")
}

func TestLoaderDropsSupersededResponse(t *testing.T) {
	srv := backendtest.New(t)
	srv.Seed("Category", map[string]any{"nameEN": "A"})
	srv.Delay("/Category/List", 300*time.Millisecond)
	conn := testConn(t, srv)
	l := &Loader[item]{Path: "/Category/List", Inflight: NewInflight()}

	first := make(chan Result[item], 1)
	go func() {
		first <- l.Load(context.Background(), conn, "s|categories", Query{Page: 1, PageSize: 10, Search: "a"})
	}()
	require.Eventually(t, func() bool { return srv.CountCalls("GET", "/Category/List") == 1 }, time.Second, 5*time.Millisecond)

	second := l.Load(context.Background(), conn, "s|categories", Query{Page: 1, PageSize: 10})
	assert.False(t, second.Stale)
	assert.Len(t, second.Items, 1)

	select {
	case res := <-first:
		assert.True(t, res.Stale)
		assert.Empty(t, res.Items)
	case <-time.After(2 * time.Second):
		t.Fatal("first load never returned")
	}
}
