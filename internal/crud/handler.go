package crud

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/httpx"
	"github.com/diewo77/store-admin/i18n"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/middleware"
	"github.com/diewo77/store-admin/validation"
	"github.com/diewo77/store-admin/view"
)

// Guard wraps a route with a permission check.
type Guard func(resource string, action gate.Action) func(http.Handler) http.Handler

// Handler serves the list, dialog and delete routes of one Resource.
type Handler[T any] struct {
	res    Resource[T]
	deps   Deps
	loader *Loader[T]
	guard  DeleteGuard
	base   string
}

// NewHandler builds the handler for res.
func NewHandler[T any](res Resource[T], deps Deps) *Handler[T] {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.DefaultPageSize == 0 {
		deps.DefaultPageSize = PageSizes[0]
	}
	return &Handler[T]{
		res:    res,
		deps:   deps,
		loader: &Loader[T]{Path: res.Endpoints.List, Inflight: deps.Inflight, Log: deps.Log},
		guard:  DeleteGuard{Intents: deps.Intents},
		base:   "/" + res.Name,
	}
}

// Base is the list URL.
func (h *Handler[T]) Base() string { return h.base }

// Mount registers the routes under /{Name}.
func (h *Handler[T]) Mount(r chi.Router, require Guard) {
	name := h.res.Name
	r.Route(h.base, func(r chi.Router) {
		r.With(require(name, gate.ActionList)).Get("/", h.List)
		r.With(require(name, gate.ActionList)).Get("/rows", h.Rows)
		if !h.res.ReadOnly {
			r.With(require(name, gate.ActionCreate)).Get("/new", h.New)
			r.With(require(name, gate.ActionCreate)).Post("/", h.Create)
			r.With(require(name, gate.ActionUpdate)).Get("/{id}/edit", h.Edit)
			r.With(require(name, gate.ActionUpdate)).Post("/{id}", h.Update)
			r.With(require(name, gate.ActionList)).Post("/cancel", h.Cancel)
			r.With(require(name, gate.ActionList)).Get("/options/{field}", h.Options)
		}
		if !h.res.NoDelete {
			r.With(require(name, gate.ActionDelete)).Get("/{id}/delete", h.ConfirmDelete)
			r.With(require(name, gate.ActionDelete)).Post("/{id}/delete", h.Delete)
		}
		if h.res.Extra != nil {
			h.res.Extra(r, require)
		}
	})
}

func (h *Handler[T]) t(r *http.Request, code string) string {
	return i18n.T(middleware.LangFrom(r), code)
}

func (h *Handler[T]) filterKeys() []string {
	keys := make([]string, 0, len(h.res.Filters))
	for _, f := range h.res.Filters {
		keys = append(keys, f.Param)
	}
	return keys
}

// query reads the list state from the URL, overlaid with datastar signals.
func (h *Handler[T]) query(r *http.Request) Query {
	vals := r.URL.Query()
	if httpx.IsDatastar(r) {
		sig := map[string]any{}
		if err := datastar.ReadSignals(r, &sig); err == nil {
			for k, v := range sig {
				vals.Set(k, signalString(v))
			}
		}
	}
	return ParseQuery(vals, h.filterKeys(), h.deps.DefaultPageSize)
}

func signalString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	}
	return ""
}

func (h *Handler[T]) table(r *http.Request) Table[T] {
	t := Table[T]{Columns: h.res.Columns, ItemID: h.res.ItemID}
	if h.res.ItemID == nil {
		return t
	}
	if !h.res.ReadOnly && h.deps.can(r, h.res.Name, gate.ActionUpdate) {
		t.EditHref = func(it T) string { return h.base + "/" + strconv.FormatInt(h.res.ItemID(it), 10) + "/edit" }
	}
	if !h.res.NoDelete && h.deps.can(r, h.res.Name, gate.ActionDelete) {
		t.DeleteHref = func(it T) string { return h.base + "/" + strconv.FormatInt(h.res.ItemID(it), 10) + "/delete" }
	}
	return t
}

// FilterView is the render model of one filter control.
type FilterView struct {
	Filter
	Value string
}

// rowsData loads one page and builds everything the rows fragment shows.
func (h *Handler[T]) rowsData(r *http.Request, q Query) (map[string]any, bool) {
	key := auth.SessionIDFrom(r.Context()) + "|" + h.res.Name
	res := h.loader.Load(r.Context(), h.deps.Conn(r), key, q)
	if res.Stale {
		return nil, false
	}
	notice := ""
	if res.Failed {
		notice = res.Notice
		if notice == "" {
			notice = h.t(r, "load_failed")
		}
	}
	return map[string]any{
		"Base":    h.base,
		"RowsURL": h.base + "/rows",
		"Table":   h.table(r).View(res.Items, false),
		"Pager":   NewPager(h.base, q, len(res.Items), res.Total),
		"Notice":  notice,
	}, true
}

// List renders the full list page.
func (h *Handler[T]) List(w http.ResponseWriter, r *http.Request) {
	q := h.query(r)
	data, ok := h.rowsData(r, q)
	if !ok {
		// the client went away before the page was built
		return
	}
	filters, err := h.filterViews(r, q)
	if err != nil {
		h.deps.Log.Warn("filter options failed", zap.String("resource", h.res.Name), zap.Error(err))
	}
	signals := map[string]any{"q": q.Search, "page": q.Page, "size": q.PageSize, "loading": false}
	for _, f := range h.res.Filters {
		signals[f.Param] = q.Filters.Get(f.Param)
	}
	data["Title"] = h.res.Title
	data["Resource"] = h.res.Name
	data["Query"] = q
	data["Filters"] = filters
	data["Signals"] = signals
	data["Debounce"] = h.res.Debounce
	data["CanCreate"] = !h.res.ReadOnly && h.deps.can(r, h.res.Name, gate.ActionCreate)
	data["Toolbar"] = h.toolbar(r, q)
	if err := view.Render(w, r, "crud_list.html", data); err != nil {
		h.deps.Log.Error("render list", zap.String("resource", h.res.Name), zap.Error(err))
	}
}

// Rows renders the table body fragment for a datastar refresh. A load that
// was superseded by a newer one answers 204 so nothing is patched.
func (h *Handler[T]) Rows(w http.ResponseWriter, r *http.Request) {
	data, ok := h.rowsData(r, h.query(r))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := view.RenderFragment(w, r, http.StatusOK, "crud_rows", data); err != nil {
		h.deps.Log.Error("render rows", zap.String("resource", h.res.Name), zap.Error(err))
	}
}

func (h *Handler[T]) toolbar(r *http.Request, q Query) []ToolbarLink {
	var out []ToolbarLink
	for _, l := range h.res.Toolbar {
		if !h.deps.can(r, h.res.Name, l.Action) {
			continue
		}
		if len(q.Filters) > 0 || q.Search != "" {
			l.Href += "?" + q.WithPage(1).Encode()
		}
		out = append(out, l)
	}
	return out
}

func (h *Handler[T]) filterViews(r *http.Request, q Query) ([]FilterView, error) {
	fields := make([]Field, 0, len(h.res.Filters))
	for _, f := range h.res.Filters {
		fields = append(fields, Field{Name: f.Param, Lookup: f.Lookup})
	}
	opts, err := LoadOptions(r.Context(), h.deps.Conn(r), fields, q.Filters, h.res.Lookups)
	out := make([]FilterView, 0, len(h.res.Filters))
	for _, f := range h.res.Filters {
		if f.Lookup != "" {
			f.Options = opts[f.Param]
		}
		out = append(out, FilterView{Filter: f, Value: q.Filters.Get(f.Param)})
	}
	return out, err
}

func (h *Handler[T]) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func (h *Handler[T]) dialogAction(id int64) string {
	if id == 0 {
		return h.base
	}
	return h.base + "/" + strconv.FormatInt(id, 10)
}

// renderDialog shows f. baseline is the fingerprint the dialog was opened
// with; "" starts a fresh one from f.
func (h *Handler[T]) renderDialog(w http.ResponseWriter, r *http.Request, status int, f Form, id int64, errs validation.Violations, notice, baseline string, confirmLeave bool) {
	if errs == nil {
		errs = validation.Violations{}
	}
	opts, err := LoadOptions(r.Context(), h.deps.Conn(r), f.Fields(), f.Values(), h.res.Lookups)
	if err != nil {
		h.deps.Log.Warn("dialog options failed", zap.String("resource", h.res.Name), zap.Error(err))
		if notice == "" {
			notice = backend.Message(err, h.t(r, "load_failed"))
		}
	}
	d := NewDialog(f, opts, errs, h.base+"/options/")
	d.Title = h.res.Title
	d.Action = h.dialogAction(id)
	d.Cancel = h.base + "/cancel"
	d.ListHref = h.base
	d.Editing = id != 0
	d.Notice = notice
	d.ConfirmLeave = confirmLeave
	if baseline != "" {
		d.Baseline = baseline
	}
	if err := view.RenderStatus(w, r, status, "crud_dialog.html", map[string]any{
		"Title":    h.res.Title,
		"Resource": h.res.Name,
		"Dialog":   d,
		"ID":       id,
	}); err != nil {
		h.deps.Log.Error("render dialog", zap.String("resource", h.res.Name), zap.Error(err))
	}
}

// New opens the create dialog with empty defaults.
func (h *Handler[T]) New(w http.ResponseWriter, r *http.Request) {
	h.renderDialog(w, r, http.StatusOK, h.res.NewForm(), 0, nil, "", "", false)
}

// decode coerces and validates the posted form into f.
func decode(r *http.Request, f Form) validation.Violations {
	d := NewDecoder(r.PostForm)
	f.Decode(d)
	errs := d.Violations()
	f.Validate(errs)
	return errs
}

// Create validates and submits the create dialog. Invalid input never
// reaches the backend.
func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	f := h.res.NewForm()
	if errs := decode(r, f); !errs.Empty() {
		h.renderDialog(w, r, http.StatusBadRequest, f, 0, errs, "", r.PostForm.Get(BaselineField), false)
		return
	}
	conn := h.deps.Conn(r)
	var (
		out backend.Outcome
		err error
	)
	ep := h.res.Endpoints
	if h.res.TwoStepCreate {
		out, err = conn.CreateWithValidID(r.Context(), ep.ValidID, ep.Create, f.Payload)
	} else {
		out, err = conn.Create(r.Context(), ep.Create, f.Payload(0))
	}
	h.deps.Record(r, h.res.Name, out.ID, "create", err, out.Message)
	if err != nil {
		h.mutationFailed(w, r, f, 0, err)
		return
	}
	h.succeeded(w, r, out.Message, "created_ok")
}

// Edit opens the dialog reset from the current backend copy.
func (h *Handler[T]) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	item, err := backend.Get[T](r.Context(), h.deps.Conn(r), h.res.Endpoints.Get, id)
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	h.renderDialog(w, r, http.StatusOK, h.res.EditForm(item), id, nil, "", "", false)
}

// Update re-reads the entity, applies the posted fields and sends the full object.
func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	conn := h.deps.Conn(r)
	item, err := backend.Get[T](r.Context(), conn, h.res.Endpoints.Get, id)
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	f := h.res.EditForm(item)
	if errs := decode(r, f); !errs.Empty() {
		h.renderDialog(w, r, http.StatusBadRequest, f, id, errs, "", r.PostForm.Get(BaselineField), false)
		return
	}
	out, err := conn.Update(r.Context(), h.res.Endpoints.Update, f.Payload(id))
	h.deps.Record(r, h.res.Name, id, "update", err, out.Message)
	if err != nil {
		h.mutationFailed(w, r, f, id, err)
		return
	}
	h.succeeded(w, r, out.Message, "updated")
}

// Cancel closes the dialog, or asks to stay or leave when the form is dirty.
func (h *Handler[T]) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	f := h.res.NewForm()
	f.Decode(NewDecoder(r.PostForm))
	if !Dirty(f, r.PostForm.Get(BaselineField)) {
		httpx.SeeOther(w, r, h.base)
		return
	}
	id, _ := strconv.ParseInt(r.PostForm.Get("_id"), 10, 64)
	h.renderDialog(w, r, http.StatusOK, f, id, nil, "", r.PostForm.Get(BaselineField), true)
}

// Options renders a dependent select for the value of its parent field. A
// selection that is no longer offered is cleared.
func (h *Handler[T]) Options(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "field")
	var field *Field
	for _, f := range h.res.NewForm().Fields() {
		if f.Name == name && f.Lookup != "" {
			field = &f
			break
		}
	}
	if field == nil {
		http.NotFound(w, r)
		return
	}
	fv := FieldView{Field: *field, ID: FieldID(field.Name), Options: []Option{}}
	parent := r.URL.Query().Get("parent")
	if lookup, ok := h.res.Lookups[field.Lookup]; ok && (parent != "" || field.DependsOn == "") {
		opts, err := lookup(r.Context(), h.deps.Conn(r), parent)
		if err != nil {
			h.deps.Log.Warn("options lookup failed", zap.String("field", name), zap.Error(err))
		} else {
			fv.Options = opts
		}
	}
	fv.Value = ReconcileSelection(r.URL.Query().Get("selected"), fv.Options)
	if err := view.RenderFragment(w, r, http.StatusOK, "field_select", fv); err != nil {
		h.deps.Log.Error("render options", zap.String("field", name), zap.Error(err))
	}
}

// ConfirmDelete opens the confirmation dialog with a fresh single-use nonce.
func (h *Handler[T]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	nonce, err := h.guard.Open(r.Context(), auth.SessionIDFrom(r.Context()), h.res.Name, id)
	if err != nil {
		h.deps.Log.Error("open delete intent", zap.Error(err))
		middleware.FlashCode(w, r, middleware.FlashError, "request_failed")
		httpx.SeeOther(w, r, h.base)
		return
	}
	warning := h.res.DeleteWarning
	if warning == "" {
		warning = "delete_warning"
	}
	if err := view.Render(w, r, "crud_delete.html", map[string]any{
		"Title":    h.res.Title,
		"Resource": h.res.Name,
		"ID":       id,
		"Nonce":    nonce,
		"Warning":  warning,
		"Action":   h.dialogAction(id) + "/delete",
		"ListHref": h.base,
	}); err != nil {
		h.deps.Log.Error("render delete", zap.String("resource", h.res.Name), zap.Error(err))
	}
}

// Delete performs the confirmed delete. Replaying a nonce never reaches the backend.
func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	conn := h.deps.Conn(r)
	var out backend.Outcome
	err := h.guard.Confirm(r.Context(), auth.SessionIDFrom(r.Context()), r.PostForm.Get("nonce"), h.res.Name, id,
		func(ctx context.Context) error {
			var derr error
			out, derr = conn.Delete(ctx, h.res.Endpoints.Delete, id)
			return derr
		})
	switch {
	case errors.Is(err, ErrIntentUsed):
		middleware.FlashCode(w, r, middleware.FlashInfo, "delete_in_progress")
		httpx.SeeOther(w, r, h.base)
		return
	case errors.Is(err, ErrIntentInvalid):
		middleware.FlashCode(w, r, middleware.FlashError, "delete_expired")
		httpx.SeeOther(w, r, h.base)
		return
	}
	h.deps.Record(r, h.res.Name, id, "delete", err, out.Message)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			auth.Unauthorized(w, r)
			return
		}
		middleware.Flash(w, middleware.FlashError, backend.Message(err, h.t(r, "request_failed")))
		httpx.SeeOther(w, r, h.base)
		return
	}
	h.succeeded(w, r, out.Message, "deleted")
}

func (h *Handler[T]) succeeded(w http.ResponseWriter, r *http.Request, message, fallback string) {
	if message == "" {
		message = h.t(r, fallback)
	}
	middleware.Flash(w, middleware.FlashSuccess, message)
	httpx.SeeOther(w, r, h.base)
}

// mutationFailed keeps the dialog open with the server message.
func (h *Handler[T]) mutationFailed(w http.ResponseWriter, r *http.Request, f Form, id int64, err error) {
	if errors.Is(err, backend.ErrUnauthorized) {
		auth.Unauthorized(w, r)
		return
	}
	h.deps.Log.Warn("mutation failed", zap.String("resource", h.res.Name), zap.Int64("id", id), zap.Error(err))
	h.renderDialog(w, r, http.StatusBadGateway, f, id, nil, backend.Message(err, h.t(r, "request_failed")), r.PostForm.Get(BaselineField), false)
}

func (h *Handler[T]) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		auth.Unauthorized(w, r)
		return
	case errors.Is(err, backend.ErrNotFound):
		middleware.FlashCode(w, r, middleware.FlashError, "not_found")
	default:
		middleware.Flash(w, middleware.FlashError, backend.Message(err, h.t(r, "request_failed")))
	}
	httpx.SeeOther(w, r, h.base)
}
