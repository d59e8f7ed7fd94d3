package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/internal/resources"
	"github.com/diewo77/store-admin/validation"
)

// SettingsHandler edits the store settings singleton.
type SettingsHandler struct {
	deps crud.Deps
}

// NewSettingsHandler wires the settings page.
func NewSettingsHandler(deps crud.Deps) *SettingsHandler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &SettingsHandler{deps: deps}
}

// Show renders the form filled from the backend copy.
func (h *SettingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	s, err := backend.Fetch[resources.Setting](r.Context(), h.deps.Conn(r), resources.SettingsGet, nil)
	if err != nil {
		failed(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, resources.NewSettingsForm(s), nil, "")
}

// Save re-reads the settings, applies the form and sends the full object.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	conn := h.deps.Conn(r)
	s, err := backend.Fetch[resources.Setting](r.Context(), conn, resources.SettingsGet, nil)
	if err != nil {
		failed(w, r, err, "/settings")
		return
	}
	f := resources.NewSettingsForm(s)
	d := crud.NewDecoder(r.PostForm)
	f.Decode(d)
	errs := d.Violations()
	f.Validate(errs)
	if !errs.Empty() {
		h.render(w, r, http.StatusBadRequest, f, errs, "")
		return
	}
	out, err := conn.Update(r.Context(), resources.SettingsUpdate, f.Payload(s.ID))
	h.deps.Record(r, "settings", s.ID, "update", err, out.Message)
	if err != nil {
		h.deps.Log.Warn("settings update failed", zap.Error(err))
		h.render(w, r, http.StatusBadGateway, f, nil, backend.Message(err, t(r, "request_failed")))
		return
	}
	done(w, r, out.Message, "updated", "/settings")
}

func (h *SettingsHandler) render(w http.ResponseWriter, r *http.Request, status int, f *resources.SettingsForm, errs validation.Violations, notice string) {
	if errs == nil {
		errs = validation.Violations{}
	}
	d := crud.NewDialog(f, nil, errs, "")
	d.Title = "settings"
	d.Action = "/settings"
	d.Notice = notice
	render(w, r, h.deps.Log, status, "settings.html", map[string]any{
		"Title":  "settings",
		"Dialog": d,
	})
}
