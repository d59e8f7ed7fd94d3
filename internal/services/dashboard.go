// Package services holds read models assembled from several backend calls.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/diewo77/store-admin/internal/backend"
)

// Tile is one dashboard counter. Failed is set when the count could not be read.
type Tile struct {
	Label    string
	Resource string
	Count    int
	Failed   bool
}

// Counted names a resource and the list endpoint its total comes from.
type Counted struct {
	// Label is the translation code; it defaults to Resource.
	Label    string
	Resource string
	ListPath string
	// Filters narrows the count, e.g. pending orders only.
	Filters map[string]string
}

// DefaultTiles are the counters shown on the dashboard.
var DefaultTiles = []Counted{
	{Resource: "products", ListPath: "/Product/List"},
	{Resource: "categories", ListPath: "/Category/List"},
	{Resource: "companies", ListPath: "/Company/List"},
	{Resource: "offers", ListPath: "/Offer/List"},
	{Resource: "coupons", ListPath: "/Coupon/List"},
	{Resource: "orders", ListPath: "/Order/List"},
	{Label: "pending_orders", Resource: "orders", ListPath: "/Order/List", Filters: map[string]string{"Status": "pending"}},
	{Resource: "customers", ListPath: "/Customer/List"},
	{Label: "open_complaints", Resource: "complaints", ListPath: "/Complaint/List", Filters: map[string]string{"Status": "open"}},
}

// DashboardService reads the per-resource totals.
type DashboardService struct {
	tiles []Counted
	log   *zap.Logger
}

// NewDashboardService returns a service counting tiles; nil tiles means DefaultTiles.
func NewDashboardService(tiles []Counted, log *zap.Logger) *DashboardService {
	if tiles == nil {
		tiles = DefaultTiles
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{tiles: tiles, log: log}
}

// Stats fetches every total concurrently. One failing count marks its tile
// and never hides the others.
func (s *DashboardService) Stats(ctx context.Context, conn *backend.Conn) ([]Tile, error) {
	out := make([]Tile, len(s.tiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, c := range s.tiles {
		g.Go(func() error {
			q := backend.ListQuery{Page: 1, PageSize: 1}
			if len(c.Filters) > 0 {
				q.Filters = url.Values{}
				for k, v := range c.Filters {
					q.Filters.Set(k, v)
				}
			}
			page, err := backend.List[json.RawMessage](ctx, conn, c.ListPath, q)
			label := c.Label
			if label == "" {
				label = c.Resource
			}
			out[i] = Tile{Label: label, Resource: c.Resource, Count: page.TotalCount}
			if err != nil {
				if errors.Is(err, backend.ErrUnauthorized) {
					return err
				}
				s.log.Warn("dashboard count failed", zap.String("resource", c.Resource), zap.Error(err))
				out[i].Failed = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
