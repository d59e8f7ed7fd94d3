package composer

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/httpx"
	"github.com/diewo77/store-admin/i18n"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/internal/middleware"
	"github.com/diewo77/store-admin/validation"
	"github.com/diewo77/store-admin/view"
)

// ProductSource finds pickable products on the backend.
type ProductSource interface {
	Search(ctx context.Context, conn *backend.Conn, term string) ([]Product, error)
	Get(ctx context.Context, conn *backend.Conn, id int64) (Product, error)
}

// Handler serves the composer pages of every target.
type Handler struct {
	deps     crud.Deps
	products ProductSource
	drafts   Drafts
	obs      BatchObserver
}

// NewHandler wires the composer.
func NewHandler(deps crud.Deps, products ProductSource, store DraftStore, obs BatchObserver) *Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Handler{deps: deps, products: products, drafts: Drafts{Store: store}, obs: obs}
}

// Mount registers /{route}/{id}/items for t.
func (h *Handler) Mount(r chi.Router, t Target, require crud.Guard) {
	r.Route("/"+t.Route+"/{id}/items", func(r chi.Router) {
		r.Use(require(t.Resource, gate.ActionUpdate))
		r.Get("/", h.page(t))
		r.Get("/products", h.searchProducts(t))
		r.Post("/product", h.selectProduct(t))
		r.Post("/unit", h.selectUnit(t))
		r.Post("/add", h.add(t))
		r.Post("/lines/{line}/remove", h.remove(t))
		r.Post("/discard", h.discard(t))
		r.Post("/save", h.save(t))
	})
}

func base(t Target, parentID int64) string {
	return "/" + t.Route + "/" + strconv.FormatInt(parentID, 10) + "/items"
}

func parentID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

type parent struct {
	ID     int64  `json:"id"`
	NameEN string `json:"nameEN"`
	NameAR string `json:"nameAR"`
}

// ExistingItem is an item already stored under the parent.
type ExistingItem struct {
	ID            int64   `json:"id"`
	ProductNameEN string  `json:"productNameEN"`
	ProductNameAR string  `json:"productNameAR"`
	UnitNameEN    string  `json:"unitNameEN"`
	UnitNameAR    string  `json:"unitNameAR"`
	BasicPrice    float64 `json:"basicPrice"`
	SpecialPrice  float64 `json:"specialPrice"`
}

// withDraft loads the operator's composer for the parent, runs fn and saves
// the result.
func (h *Handler) withDraft(w http.ResponseWriter, r *http.Request, t Target, fn func(c *Composer, id int64) error) {
	id, ok := parentID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sid := auth.SessionIDFrom(r.Context())
	c, err := h.drafts.Load(r.Context(), sid, t.Name, id)
	if err != nil {
		h.deps.Log.Error("load draft", zap.Error(err))
		middleware.FlashCode(w, r, middleware.FlashError, "request_failed")
		httpx.SeeOther(w, r, base(t, id))
		return
	}
	if err := fn(c, id); err != nil {
		h.flashError(w, r, err)
		httpx.SeeOther(w, r, base(t, id))
		return
	}
	if err := h.drafts.Save(r.Context(), sid, t.Name, id, c); err != nil {
		h.deps.Log.Error("save draft", zap.Error(err))
		middleware.FlashCode(w, r, middleware.FlashError, "request_failed")
	}
	httpx.SeeOther(w, r, base(t, id))
}

func (h *Handler) flashError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoProduct):
		middleware.FlashCode(w, r, middleware.FlashError, "select_product_first")
	case errors.Is(err, ErrUnknownUnit):
		middleware.FlashCode(w, r, middleware.FlashError, "select_unit_first")
	case errors.Is(err, ErrIncomplete):
		middleware.FlashCode(w, r, middleware.FlashError, "line_incomplete")
	case errors.Is(err, ErrNoLine):
		middleware.FlashCode(w, r, middleware.FlashError, "not_found")
	default:
		lang := middleware.LangFrom(r)
		middleware.Flash(w, middleware.FlashError, backend.Message(err, i18n.T(lang, "request_failed")))
	}
}

func (h *Handler) page(t Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parentID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		c, err := h.drafts.Load(r.Context(), auth.SessionIDFrom(r.Context()), t.Name, id)
		if err != nil {
			h.deps.Log.Error("load draft", zap.Error(err))
			c = New()
		}
		h.render(w, r, http.StatusOK, t, id, c, nil)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, t Target, id int64, c *Composer, errs validation.Violations) {
	conn := h.deps.Conn(r)
	p, err := backend.Get[parent](r.Context(), conn, t.ParentGet, id)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			auth.Unauthorized(w, r)
			return
		}
		lang := middleware.LangFrom(r)
		middleware.Flash(w, middleware.FlashError, backend.Message(err, i18n.T(lang, "not_found")))
		httpx.SeeOther(w, r, "/"+t.Route)
		return
	}
	notice := ""
	existing, err := backend.List[ExistingItem](r.Context(), conn, t.ItemsList, backend.ListQuery{
		Page: 1, PageSize: 100,
		Filters: url.Values{t.ParentParam: {strconv.FormatInt(id, 10)}},
	})
	if err != nil {
		notice = backend.Message(err, i18n.T(middleware.LangFrom(r), "load_failed"))
	}
	var unit Unit
	if c.Product != nil {
		unit, _ = c.Product.Unit(c.UnitID)
	}
	if errs == nil {
		errs = validation.Violations{}
	}
	if err := view.RenderStatus(w, r, status, "composer.html", map[string]any{
		"Title":    t.Title,
		"Target":   t,
		"Parent":   p,
		"Base":     base(t, id),
		"C":        c,
		"Unit":     unit,
		"Existing": existing.Items,
		"Notice":   notice,
		"Errors":   errs,
	}); err != nil {
		h.deps.Log.Error("render composer", zap.Error(err))
	}
}

type searchSignals struct {
	ProductQ string `json:"productQ"`
}

// searchProducts answers the debounced product search with the result list.
func (h *Handler) searchProducts(t Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parentID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		term := r.URL.Query().Get("q")
		if httpx.IsDatastar(r) {
			var sig searchSignals
			if err := datastar.ReadSignals(r, &sig); err == nil && sig.ProductQ != "" {
				term = sig.ProductQ
			}
		}
		data := map[string]any{"Base": base(t, id), "Products": []Product{}}
		products, err := h.products.Search(r.Context(), h.deps.Conn(r), strings.TrimSpace(term))
		if err != nil {
			data["Notice"] = backend.Message(err, i18n.T(middleware.LangFrom(r), "load_failed"))
		} else {
			data["Products"] = products
		}
		if err := view.RenderFragment(w, r, http.StatusOK, "composer_products", data); err != nil {
			h.deps.Log.Error("render products", zap.Error(err))
		}
	}
}

func formID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(strings.TrimSpace(r.PostFormValue(name)), 10, 64)
	return id
}

func (h *Handler) selectProduct(t Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.withDraft(w, r, t, func(c *Composer, _ int64) error {
			pid := formID(r, "productId")
			if pid <= 0 {
				return ErrNoProduct
			}
			p, err := h.products.Get(r.Context(), h.deps.Conn(r), pid)
			if err != nil {
				return err
			}
			c.SelectProduct(p)
			return nil
		})
	}
}

func (h *Handler) selectUnit(t Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.withDraft(w, r, t, func(c *Composer, _ int64) error {
			return c.SelectUnit(formID(r, "unitId"))
		})
	}
}

// add applies the posted prices, then appends the line. Invalid prices
// re-render the page with the field errors.
func (h *Handler) add(t Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parentID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		sid := auth.SessionIDFrom(r.Context())
		c, err := h.drafts.Load(r.Context(), sid, t.Name, id)
		if err != nil {
			h.deps.Log.Error("load draft", zap.Error(err))
			middleware.FlashCode(w, r, middleware.FlashError, "request_failed")
			httpx.SeeOther(w, r, base(t, id))
			return
		}
		d := crud.NewDecoder(r.PostForm)
		basic, special := d.Float("basicPrice"), d.Float("specialPrice")
		errs := d.Violations()
		if c.Product != nil && c.UnitID != 0 {
			errs.Merge(c.SetPrices(basic, special))
		}
		if !errs.Empty() {
			h.render(w, r, http.StatusBadRequest, t, id, c, errs)
			return
		}
		if err := c.Add(); err != nil {
			h.flashError(w, r, err)
			httpx.SeeOther(w, r, base(t, id))
			return
		}
		if err := h.drafts.Save(r.Context(), sid, t.Name, id, c); err != nil {
			h.deps.Log.Error("save draft", zap.Error(err))
			middleware.FlashCode(w, r, middleware.FlashError, "request_failed")
		}
		httpx.SeeOther(w, r, base(t, id))
	}
}

func (h *Handler) remove(t Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.withDraft(w, r, t, func(c *Composer, _ int64) error {
			i, err := strconv.Atoi(chi.URLParam(r, "line"))
			if err != nil {
				return ErrNoLine
			}
			return c.Remove(i)
		})
	}
}

// discard throws the draft away and closes the composer.
func (h *Handler) discard(t Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parentID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := h.drafts.Discard(r.Context(), auth.SessionIDFrom(r.Context()), t.Name, id); err != nil {
			h.deps.Log.Error("discard draft", zap.Error(err))
		}
		httpx.SeeOther(w, r, "/"+t.Route)
	}
}

// save submits every line and reports "N of M added". Lines that failed
// stay in the draft for another attempt.
func (h *Handler) save(t Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parentID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		sid := auth.SessionIDFrom(r.Context())
		c, err := h.drafts.Load(r.Context(), sid, t.Name, id)
		if err != nil {
			h.deps.Log.Error("load draft", zap.Error(err))
			middleware.FlashCode(w, r, middleware.FlashError, "request_failed")
			httpx.SeeOther(w, r, base(t, id))
			return
		}
		if len(c.Lines) == 0 {
			middleware.FlashCode(w, r, middleware.FlashInfo, "no_lines")
			httpx.SeeOther(w, r, base(t, id))
			return
		}
		rep := Submit(r.Context(), h.deps.Conn(r), t, id, c, h.obs)
		for _, res := range rep.Results {
			h.deps.Record(r, t.Name+"_item", id, "create", res.Err, "")
		}
		if err := h.drafts.Save(context.WithoutCancel(r.Context()), sid, t.Name, id, c); err != nil {
			h.deps.Log.Error("save draft", zap.Error(err))
		}
		kind := middleware.FlashSuccess
		if rep.Failed() {
			kind = middleware.FlashError
		}
		middleware.Flash(w, kind, i18n.Tf(middleware.LangFrom(r), "batch_report", rep.Added, rep.Total))
		httpx.SeeOther(w, r, base(t, id))
	}
}
