package main

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diewo77/store-admin/internal/backend/backendtest"
	"github.com/diewo77/store-admin/internal/config"
	"github.com/diewo77/store-admin/internal/db"
)

func newTestApp(t *testing.T) (*httptest.Server, *backendtest.Server) {
	t.Helper()
	api := backendtest.New(t)
	cfg := config.Load()
	cfg.Backend.URL = api.URL
	cfg.Backend.Timeout = 5 * time.Second
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + "?mode=memory&cache=shared"}
	cfg.App.Dev = false
	cfg.App.SessionSecret = "test-secret"
	cfg.App.CookieSecure = false

	conn, err := db.Open(cfg.Database, nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn, cfg.Database, false, nil))
	app, err := NewApp(cfg, conn, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(app)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return srv, api
}

func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func login(t *testing.T, c *http.Client, base, user, password string) {
	t.Helper()
	resp, err := c.PostForm(base+"/login", url.Values{"userName": {user}, "password": {password}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	srv, _ := newTestApp(t)
	c := browser(t)

	resp, err := c.Get(srv.URL + "/categories")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, err = c.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = c.Get(srv.URL + "/static/app.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestViewerSeesListsButCannotEdit(t *testing.T) {
	srv, api := newTestApp(t)
	api.AddUser("viewer", "pw", "viewer")
	api.Seed("Category", map[string]any{"nameEN": "Grains", "nameAR": "حبوب"})
	c := browser(t)
	login(t, c, srv.URL, "viewer", "pw")

	resp, err := c.Get(srv.URL + "/categories")
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, doc.Find("table").Text(), "Grains")
	assert.Zero(t, doc.Find(`a[href="/categories/new"]`).Length())
	assert.Zero(t, doc.Find(`a[href="/audit"]`).Length())

	for _, path := range []string{"/categories/new", "/audit"} {
		resp, err = c.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestAdminCreatesAndIsAudited(t *testing.T) {
	srv, api := newTestApp(t)
	api.AddUser("admin", "pw", "admin")
	c := browser(t)
	login(t, c, srv.URL, "admin", "pw")

	resp, err := c.PostForm(srv.URL+"/tags", url.Values{"nameEN": {"Organic"}, "nameAR": {"عضوي"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Len(t, api.Items("Tag"), 1)

	resp, err = c.Get(srv.URL + "/audit")
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	rows := doc.Find("#audit tbody tr").Text()
	assert.Contains(t, rows, "tags")
	assert.Contains(t, rows, "login")

	resp, err = c.PostForm(srv.URL+"/logout", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, err = c.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, strings.HasSuffix(resp.Header.Get("Location"), "/login"))
}
