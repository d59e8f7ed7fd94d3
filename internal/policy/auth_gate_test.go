package policy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/internal/policy"
)

type roles struct {
	bySession map[string]string
	calls     atomic.Int32
}

func (r *roles) SessionRole(_ context.Context, sid string) (string, error) {
	r.calls.Add(1)
	role, ok := r.bySession[sid]
	if !ok {
		return "", gate.ErrNoProfile
	}
	return role, nil
}

func request(sid string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if sid != "" {
		req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{SessionID: sid}))
	}
	return req
}

func newGate() (*policy.AuthGate, *roles) {
	src := &roles{bySession: map[string]string{
		"a": policy.RoleAdmin,
		"e": policy.RoleEditor,
		"s": policy.RoleSupport,
		"v": policy.RoleViewer,
		"x": "intern",
	}}
	return policy.NewAuthGate(src, time.Minute), src
}

func TestRoleProfiles(t *testing.T) {
	ag, _ := newGate()
	cases := []struct {
		sid      string
		resource string
		action   gate.Action
		want     bool
	}{
		{"a", "audit", gate.ActionList, true},
		{"a", "products", gate.ActionDelete, true},
		{"e", "products", gate.ActionCreate, true},
		{"e", "products", gate.ActionDelete, false},
		{"s", "orders", gate.ActionUpdate, true},
		{"s", "products", gate.ActionList, true},
		{"s", "products", gate.ActionUpdate, false},
		{"v", "coupons", gate.ActionView, true},
		{"v", "coupons", gate.ActionCreate, false},
		{"x", "coupons", gate.ActionList, false},
		{"", "coupons", gate.ActionList, false},
	}
	for _, tc := range cases {
		got := ag.Can(request(tc.sid), tc.resource, tc.action)
		assert.Equal(t, tc.want, got, "%s %s:%s", tc.sid, tc.resource, tc.action)
	}
	assert.True(t, ag.IsAdmin(request("a")))
	assert.False(t, ag.IsAdmin(request("e")))
}

func TestProfilesAreCachedUntilForgotten(t *testing.T) {
	ag, src := newGate()
	for i := 0; i < 3; i++ {
		ag.Can(request("e"), "units", gate.ActionList)
	}
	assert.EqualValues(t, 1, src.calls.Load())

	ag.Forget("e")
	ag.Can(request("e"), "units", gate.ActionList)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestRequirePermission(t *testing.T) {
	ag, _ := newGate()
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := ag.RequirePermission("coupons", gate.ActionDelete)(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request("a"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request("v"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request(""))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAdmin(t *testing.T) {
	ag, _ := newGate()
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := ag.RequireAdmin()(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request("s"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request("a"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
