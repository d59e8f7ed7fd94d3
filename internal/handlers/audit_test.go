package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/store-admin/internal/handlers"
	"github.com/diewo77/store-admin/internal/store"
)

func TestAuditListFiltersAndPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		require.NoError(t, f.store.RecordAudit(ctx, store.AuditLog{Actor: "mona", Resource: "products", EntityID: int64(i + 1), Action: "update", Outcome: "ok"}))
	}
	require.NoError(t, f.store.RecordAudit(ctx, store.AuditLog{Actor: "mona", Resource: "orders", EntityID: 9, Action: "status:confirmed", Outcome: "ok"}))

	h := handlers.NewAuditHandler(f.store, nil)
	srv := router(func(r chi.Router) { r.Get("/audit", h.List) })

	rec := get(srv, "/audit?resource=products")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, 20, doc.Find("#audit tbody tr").Length())
	next, ok := doc.Find(".pager a").Last().Attr("href")
	require.True(t, ok)
	assert.Contains(t, next, "page=2")
	assert.Contains(t, next, "resource=products")

	doc = document(t, get(srv, next))
	assert.Equal(t, 5, doc.Find("#audit tbody tr").Length())

	doc = document(t, get(srv, "/audit?resource=orders"))
	assert.Equal(t, 1, doc.Find("#audit tbody tr").Length())
	assert.Contains(t, doc.Find("#audit tbody tr").Text(), "status:confirmed")
}
