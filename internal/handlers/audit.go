package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/internal/store"
)

// AuditLister reads the audit log.
type AuditLister interface {
	ListAudit(ctx context.Context, q store.AuditQuery) ([]store.AuditLog, int64, error)
}

// AuditHandler lists recorded mutations.
type AuditHandler struct {
	audit AuditLister
	log   *zap.Logger
}

// NewAuditHandler wires the audit page.
func NewAuditHandler(audit AuditLister, log *zap.Logger) *AuditHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditHandler{audit: audit, log: log}
}

// List renders one page of entries, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := crud.ParseQuery(r.URL.Query(), []string{"resource"}, crud.PageSizes[1])
	resource := strings.TrimSpace(q.Filters.Get("resource"))
	entries, total, err := h.audit.ListAudit(r.Context(), store.AuditQuery{Resource: resource, Page: q.Page, PageSize: q.PageSize})
	notice := ""
	if err != nil {
		h.log.Error("list audit", zap.Error(err))
		notice = t(r, "load_failed")
	}
	render(w, r, h.log, http.StatusOK, "audit.html", map[string]any{
		"Title":    "audit",
		"Entries":  entries,
		"Resource": resource,
		"Notice":   notice,
		"Pager":    crud.NewPager("/audit", q, len(entries), int(total)),
	})
}
