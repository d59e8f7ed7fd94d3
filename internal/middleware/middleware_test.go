package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPrefsPrecedence(t *testing.T) {
	var lang, theme string
	h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang, theme = LangFrom(r), ThemeFrom(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "ar-EG")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "ar", lang)
	assert.Equal(t, "system", theme)

	r = httptest.NewRequest(http.MethodGet, "/?lang=en&theme=dark", nil)
	r.AddCookie(&http.Cookie{Name: "lang", Value: "ar"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "en", lang)
	assert.Equal(t, "dark", theme)
	assert.Len(t, rec.Result().Cookies(), 2)

	r = httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	r.AddCookie(&http.Cookie{Name: "lang", Value: "ar"})
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "ar", lang)
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	Flash(rec, FlashError, "In use | really")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	n, ok := TakeFlash(rec, r)
	require.True(t, ok)
	assert.Equal(t, Notice{Kind: FlashError, Message: "In use | really"}, n)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)

	_, ok = TakeFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestFlashCodeTranslates(t *testing.T) {
	var captured *http.Cookie
	h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FlashCode(w, r, FlashSuccess, "created_ok")
	}))
	r := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" {
			captured = c
		}
	}
	require.NotNil(t, captured)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(captured)
	n, ok := TakeFlash(httptest.NewRecorder(), r)
	require.True(t, ok)
	assert.Equal(t, "Created successfully", n.Message)
}

func TestRequestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/x", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
