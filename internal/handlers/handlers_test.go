package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/backend/backendtest"
	"github.com/diewo77/store-admin/internal/config"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/internal/db"
	"github.com/diewo77/store-admin/internal/handlers"
	"github.com/diewo77/store-admin/internal/store"
)

type fixture struct {
	srv   *backendtest.Server
	store *store.Store
	deps  crud.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := backendtest.New(t)
	client, err := backend.New(backend.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	st := newStore(t)
	return &fixture{
		srv:   srv,
		store: st,
		deps:  crud.Deps{Client: client, Inflight: crud.NewInflight(), Intents: st, Audit: st},
	}
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + "?mode=memory&cache=shared"}
	conn, err := db.Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn, cfg, false, nil))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.New(conn, "test-secret")
}

// signedIn attaches a fixed operator to every request.
func signedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := auth.Identity{SessionID: "sid", Subject: "1", Name: "mona", Role: "admin"}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

func allowAll(string, gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func router(mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(signedIn)
	mount(r)
	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func post(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

// flash returns the message of the flash cookie set by rec.
func flash(rec *httptest.ResponseRecorder) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name != "flash" {
			continue
		}
		raw, err := url.QueryUnescape(c.Value)
		if err != nil {
			return ""
		}
		if _, msg, ok := strings.Cut(raw, "|"); ok {
			return msg
		}
		return raw
	}
	return ""
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func exportCustomers(f *fixture) http.HandlerFunc {
	return handlers.Export(f.deps, handlers.CustomersSheet)
}
