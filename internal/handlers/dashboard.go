package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/internal/services"
)

// DashboardHandler shows the per-resource totals.
type DashboardHandler struct {
	deps  crud.Deps
	stats *services.DashboardService
}

// NewDashboardHandler wires the dashboard.
func NewDashboardHandler(deps crud.Deps, stats *services.DashboardService) *DashboardHandler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &DashboardHandler{deps: deps, stats: stats}
}

// Show renders the tiles the operator may list.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	tiles, err := h.stats.Stats(r.Context(), h.deps.Conn(r))
	if errors.Is(err, backend.ErrUnauthorized) {
		auth.Unauthorized(w, r)
		return
	}
	visible := make([]services.Tile, 0, len(tiles))
	for _, tile := range tiles {
		if h.deps.Can == nil || h.deps.Can(r, tile.Resource, gate.ActionList) {
			visible = append(visible, tile)
		}
	}
	render(w, r, h.deps.Log, http.StatusOK, "dashboard.html", map[string]any{
		"Title": "dashboard",
		"Tiles": visible,
	})
}
