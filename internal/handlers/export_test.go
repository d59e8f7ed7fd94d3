package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestExportOrdersPagesThroughFilteredList(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 130; i++ {
		f.srv.Seed("Order", map[string]any{"orderNumber": fmt.Sprintf("P-%03d", i), "status": "pending", "total": 10})
	}
	f.srv.Seed("Order", map[string]any{"orderNumber": "D-001", "status": "delivered", "total": 5})

	rec := get(salesRouter(f), "/orders/export?Status=pending&page=3&size=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment; filename=orders-"))

	calls := f.srv.Calls(http.MethodGet, "/Order/List")
	require.Len(t, calls, 2)
	for i, c := range calls {
		assert.Equal(t, "pending", c.Query.Get("Status"))
		assert.Equal(t, "100", c.Query.Get("PageSize"))
		assert.Equal(t, fmt.Sprint(i+1), c.Query.Get("PageNumber"))
	}

	b := rec.Body.Bytes()
	file, err := xlsx.OpenReaderAt(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 131)
	assert.Equal(t, "ID", rows[0].Cells[0].String())
	assert.Equal(t, "Order number", rows[0].Cells[1].String())
	assert.Equal(t, "P-000", rows[1].Cells[1].String())
	assert.Equal(t, "pending", rows[130].Cells[5].String())
}

func TestExportFailureGoesBack(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(http.MethodGet, "/Customer/List", 500, "Database offline")
	h := router(func(r chi.Router) {
		r.Get("/customers/export", exportCustomers(f))
	})

	rec := get(h, "/customers/export")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/customers", rec.Header().Get("Location"))
	assert.Equal(t, "Database offline", flash(rec))
}
