package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/diewo77/store-admin/i18n"
)

const flashCookie = "flash"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Notice is a one-shot notification shown on the next rendered page.
type Notice struct {
	Kind    string
	Message string
}

// Flash sets a flash cookie with a literal message.
func Flash(w http.ResponseWriter, kind, message string) {
	if message == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FlashCode translates code in the request language and sets it as flash.
func FlashCode(w http.ResponseWriter, r *http.Request, kind, code string) {
	Flash(w, kind, i18n.T(LangFrom(r), code))
}

// TakeFlash reads and clears the flash cookie.
func TakeFlash(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return Notice{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return Notice{}, false
	}
	kind, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return Notice{Kind: FlashInfo, Message: raw}, true
	}
	return Notice{Kind: kind, Message: msg}, true
}
