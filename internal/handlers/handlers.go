// Package handlers serves the pages that are not plain resource lists:
// login, dashboard, settings, order/customer/complaint actions, exports,
// uploads and the audit log.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/i18n"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/middleware"
	"github.com/diewo77/store-admin/view"
)

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func t(r *http.Request, code string) string {
	return i18n.T(middleware.LangFrom(r), code)
}

// failed reports a backend failure and sends the operator back. An expired
// token goes to login instead.
func failed(w http.ResponseWriter, r *http.Request, err error, back string) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		auth.Unauthorized(w, r)
		return
	case errors.Is(err, backend.ErrNotFound):
		middleware.FlashCode(w, r, middleware.FlashError, "not_found")
	default:
		middleware.Flash(w, middleware.FlashError, backend.Message(err, t(r, "request_failed")))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func done(w http.ResponseWriter, r *http.Request, message, fallback, back string) {
	if message == "" {
		message = t(r, fallback)
	}
	middleware.Flash(w, middleware.FlashSuccess, message)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func render(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, page string, data map[string]any) {
	if err := view.RenderStatus(w, r, status, page, data); err != nil {
		log.Error("render", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// NotFound renders the error page with 404.
func NotFound(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, log, http.StatusNotFound, "error.html", map[string]any{"Title": "not_found", "Code": http.StatusNotFound})
	}
}
