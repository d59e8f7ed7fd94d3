package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/internal/handlers"
	"github.com/diewo77/store-admin/internal/store"
)

func authRouter(h *handlers.AuthHandler, cookies *auth.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(cookies.Middleware)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	return r
}

func TestLoginOpensSession(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser("mona", "secret", "editor")
	cookies := auth.NewManager("cookie-secret", f.store)
	h := handlers.NewAuthHandler(f.deps.Client, f.store, cookies, time.Hour, nil)
	srv := authRouter(h, cookies)

	rec := post(srv, "/login", url.Values{"userName": {" mona "}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	require.NotNil(t, session)

	entries, total, err := f.store.ListAudit(context.Background(), store.AuditQuery{Resource: "session"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, "login", entries[0].Action)

	var forgotten string
	h.Forget = func(sid string) { forgotten = sid }
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(session)
	out := httptest.NewRecorder()
	srv.ServeHTTP(out, req)
	assert.Equal(t, http.StatusSeeOther, out.Code)
	assert.Equal(t, "/login", out.Header().Get("Location"))
	assert.Equal(t, entries[0].SessionID, forgotten)

	_, err = f.store.LoadIdentity(context.Background(), forgotten)
	assert.Error(t, err, "the session is gone after logout")
}

func TestLoginRejected(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser("mona", "secret", "editor")
	cookies := auth.NewManager("cookie-secret", f.store)
	srv := authRouter(handlers.NewAuthHandler(f.deps.Client, f.store, cookies, time.Hour, nil), cookies)

	rec := post(srv, "/login", url.Values{"userName": {"mona"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, "Invalid credentials", doc.Find(".notice").Text())
	val, _ := doc.Find("#userName").Attr("value")
	assert.Equal(t, "mona", val)

	rec = post(srv, "/login", url.Values{"userName": {""}, "password": {""}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	doc = document(t, rec)
	assert.Equal(t, "Required", doc.Find("#userName-error").Text())
	assert.Equal(t, "Required", doc.Find("#password-error").Text())
	assert.Equal(t, 1, f.srv.CountCalls(http.MethodPost, "/Auth/Login"), "empty fields never reach the backend")
}
