package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/store-admin/internal/backend"
)

type fakeLoader map[string]Identity

func (f fakeLoader) LoadIdentity(_ context.Context, sid string) (Identity, error) {
	id, ok := f[sid]
	if !ok {
		return Identity{}, errors.New("no session")
	}
	return id, nil
}

func sessionCookie(t *testing.T, m *Manager, sid string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	m.CreateSession(rec, sid, time.Now().Add(time.Hour))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func TestParseSessionRejectsTampering(t *testing.T) {
	m := NewManager("secret", fakeLoader{})
	c := sessionCookie(t, m, "abc")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	if sid, ok := m.ParseSession(r); !ok || sid != "abc" {
		t.Fatalf("expected abc, got %q %v", sid, ok)
	}

	forged := *c
	forged.Value = "xyz" + c.Value[3:]
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&forged)
	if _, ok := m.ParseSession(r); ok {
		t.Fatalf("forged cookie accepted")
	}

	other := NewManager("other", fakeLoader{})
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	if _, ok := other.ParseSession(r); ok {
		t.Fatalf("cookie accepted with another secret")
	}
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	loader := fakeLoader{"s1": {SessionID: "s1", Name: "Mona", Auth: backend.NewAuthContext("tok")}}
	m := NewManager("secret", loader)

	var got Identity
	h := m.Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFrom(r.Context())
	})))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(sessionCookie(t, m, "s1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if got.Name != "Mona" || got.Auth.Token() != "tok" {
		t.Fatalf("identity not attached: %+v", got)
	}
}

func TestRequireAuthResponses(t *testing.T) {
	m := NewManager("secret", fakeLoader{})
	h := m.Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})))

	// stale cookie: redirected and cleared
	r := httptest.NewRequest(http.MethodGet, "/categories", nil)
	r.AddCookie(sessionCookie(t, m, "gone"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(rec.Result().Cookies()) == 0 || rec.Result().Cookies()[0].Value != "" {
		t.Fatalf("expected cleared cookie")
	}

	r = httptest.NewRequest(http.MethodGet, "/categories", nil)
	r.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for JSON, got %d", rec.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/categories/rows", nil)
	r.Header.Set("Datastar-Request", "true")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for fragments, got %d", rec.Code)
	}
}
