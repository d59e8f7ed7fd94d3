package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/internal/resources"
	"github.com/diewo77/store-admin/validation"
)

// SalesHandler serves the detail pages and actions of orders, customers
// and complaints.
type SalesHandler struct {
	deps crud.Deps
}

// NewSalesHandler wires the sales pages.
func NewSalesHandler(deps crud.Deps) *SalesHandler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &SalesHandler{deps: deps}
}

// Extras returns the routes mounted under each resource base.
func (h *SalesHandler) Extras() resources.Extras {
	return resources.Extras{
		"orders": func(r chi.Router, require crud.Guard) {
			r.With(require("orders", gate.ActionExport)).Get("/export", Export(h.deps, OrdersSheet))
			r.With(require("orders", gate.ActionView)).Get("/{id}", h.Order)
			r.With(require("orders", gate.ActionUpdate)).Post("/{id}/status", h.ChangeStatus)
		},
		"customers": func(r chi.Router, require crud.Guard) {
			r.With(require("customers", gate.ActionExport)).Get("/export", Export(h.deps, CustomersSheet))
			r.With(require("customers", gate.ActionView)).Get("/{id}", h.Customer)
			r.With(require("customers", gate.ActionUpdate)).Post("/{id}/block", h.Block)
		},
		"complaints": func(r chi.Router, require crud.Guard) {
			r.With(require("complaints", gate.ActionView)).Get("/{id}", h.Complaint)
			r.With(require("complaints", gate.ActionUpdate)).Post("/{id}/reply", h.Reply)
		},
	}
}

// OrdersSheet is the order export.
var OrdersSheet = Sheet[resources.Order]{
	Name:     "orders",
	Back:     "/orders",
	ListPath: "/Order/List",
	Filters:  resources.Orders().Filters,
	Headers:  []string{"id", "order_number", "customer", "phone", "address", "status", "sub_total", "delivery_fee", "discount", "total", "coupon", "created_at"},
	Row: func(o resources.Order) []any {
		return []any{o.ID, o.OrderNumber, o.CustomerName, o.CustomerPhone, o.Address, o.Status,
			o.SubTotal, o.DeliveryFee, o.Discount, o.Total, o.CouponCode, o.CreatedDate}
	},
}

// CustomersSheet is the customer export.
var CustomersSheet = Sheet[resources.Customer]{
	Name:     "customers",
	Back:     "/customers",
	ListPath: "/Customer/List",
	Filters:  resources.Customers().Filters,
	Headers:  []string{"id", "name", "phone", "email", "address", "orders", "blocked", "created_at"},
	Row: func(c resources.Customer) []any {
		return []any{c.ID, c.Name, c.Phone, c.Email, c.Address, c.OrdersCount, c.IsBlocked, c.CreatedDate}
	},
}

func itemHref(route string, id int64) string {
	return "/" + route + "/" + strconv.FormatInt(id, 10)
}

// Order shows one order with its lines and the status form.
func (h *SalesHandler) Order(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	o, err := backend.Get[resources.Order](r.Context(), h.deps.Conn(r), "/Order/Get", id)
	if err != nil {
		failed(w, r, err, "/orders")
		return
	}
	h.renderOrder(w, r, http.StatusOK, o, o.Status, "", validation.Violations{})
}

func (h *SalesHandler) renderOrder(w http.ResponseWriter, r *http.Request, status int, o resources.Order, selected, note string, errs validation.Violations) {
	render(w, r, h.deps.Log, status, "order.html", map[string]any{
		"Title":    "order",
		"Order":    o,
		"Statuses": resources.OrderStatuses,
		"Selected": selected,
		"Note":     note,
		"Errors":   errs,
		"CanEdit":  h.deps.Can == nil || h.deps.Can(r, "orders", gate.ActionUpdate),
	})
}

// ChangeStatus moves the order to the posted status.
func (h *SalesHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	back := itemHref("orders", id)
	sc, errs := resources.DecodeStatusChange(id, r.PostForm)
	if !errs.Empty() {
		o, err := backend.Get[resources.Order](r.Context(), h.deps.Conn(r), "/Order/Get", id)
		if err != nil {
			failed(w, r, err, "/orders")
			return
		}
		h.renderOrder(w, r, http.StatusBadRequest, o, sc.Status, crud.Deref(sc.Note), errs)
		return
	}
	out, err := h.deps.Conn(r).Update(r.Context(), resources.OrderChangeStatus, sc)
	h.deps.Record(r, "orders", id, "status:"+sc.Status, err, out.Message)
	if err != nil {
		failed(w, r, err, back)
		return
	}
	done(w, r, out.Message, "status_changed", back)
}

// Customer shows one customer with the block switch.
func (h *SalesHandler) Customer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	c, err := backend.Get[resources.Customer](r.Context(), h.deps.Conn(r), "/Customer/Get", id)
	if err != nil {
		failed(w, r, err, "/customers")
		return
	}
	render(w, r, h.deps.Log, http.StatusOK, "customer.html", map[string]any{
		"Title":    "customer",
		"Customer": c,
		"CanEdit":  h.deps.Can == nil || h.deps.Can(r, "customers", gate.ActionUpdate),
	})
}

// Block sets the blocked flag to the posted value.
func (h *SalesHandler) Block(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	blocked := crud.NewDecoder(r.PostForm).Bool("blocked")
	action, fallback := "unblock", "customer_unblocked"
	if blocked {
		action, fallback = "block", "customer_blocked"
	}
	back := itemHref("customers", id)
	out, err := h.deps.Conn(r).Update(r.Context(), resources.CustomerBlock, resources.BlockChange{ID: id, IsBlocked: blocked})
	h.deps.Record(r, "customers", id, action, err, out.Message)
	if err != nil {
		failed(w, r, err, back)
		return
	}
	done(w, r, out.Message, fallback, back)
}

// Complaint shows one complaint with the reply form.
func (h *SalesHandler) Complaint(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	c, err := backend.Get[resources.Complaint](r.Context(), h.deps.Conn(r), "/Complaint/Get", id)
	if err != nil {
		failed(w, r, err, "/complaints")
		return
	}
	h.renderComplaint(w, r, http.StatusOK, c, crud.Deref(c.Reply), validation.Violations{})
}

func (h *SalesHandler) renderComplaint(w http.ResponseWriter, r *http.Request, status int, c resources.Complaint, reply string, errs validation.Violations) {
	render(w, r, h.deps.Log, status, "complaint.html", map[string]any{
		"Title":     "complaint",
		"Complaint": c,
		"Reply":     reply,
		"Errors":    errs,
		"CanEdit":   h.deps.Can == nil || h.deps.Can(r, "complaints", gate.ActionUpdate),
	})
}

// Reply sends the answer and optionally resolves the complaint.
func (h *SalesHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	back := itemHref("complaints", id)
	rc, errs := resources.DecodeReply(id, r.PostForm)
	if !errs.Empty() {
		c, err := backend.Get[resources.Complaint](r.Context(), h.deps.Conn(r), "/Complaint/Get", id)
		if err != nil {
			failed(w, r, err, "/complaints")
			return
		}
		h.renderComplaint(w, r, http.StatusBadRequest, c, rc.Reply, errs)
		return
	}
	out, err := h.deps.Conn(r).Update(r.Context(), resources.ComplaintReply, rc)
	h.deps.Record(r, "complaints", id, "reply", err, out.Message)
	if err != nil {
		failed(w, r, err, back)
		return
	}
	done(w, r, out.Message, "reply_sent", back)
}
