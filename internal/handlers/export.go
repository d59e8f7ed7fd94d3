package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/crud"
)

const (
	exportPageSize = 100
	// MaxExportRows caps one spreadsheet.
	MaxExportRows = 10000
)

// Sheet describes the xlsx export of one list endpoint.
type Sheet[T any] struct {
	Name     string
	Back     string
	ListPath string
	Filters  []crud.Filter
	Headers  []string
	Row      func(T) []any
}

func (s Sheet[T]) filterKeys() []string {
	keys := make([]string, 0, len(s.Filters))
	for _, f := range s.Filters {
		keys = append(keys, f.Param)
	}
	return keys
}

// collect pages through the list with the search and filters of the request.
func (s Sheet[T]) collect(r *http.Request, conn *backend.Conn) ([]T, error) {
	q := crud.ParseQuery(r.URL.Query(), s.filterKeys(), crud.PageSizes[0]).Backend()
	q.PageSize = exportPageSize
	var out []T
	for page := 1; len(out) < MaxExportRows; page++ {
		q.Page = page
		res, err := backend.List[T](r.Context(), conn, s.ListPath, q)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Items...)
		if len(res.Items) < exportPageSize || (res.TotalCount > 0 && len(out) >= res.TotalCount) {
			break
		}
	}
	if len(out) > MaxExportRows {
		out = out[:MaxExportRows]
	}
	return out, nil
}

// Export answers the list as an xlsx download.
func Export[T any](deps crud.Deps, s Sheet[T]) http.HandlerFunc {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.collect(r, deps.Conn(r))
		if err != nil {
			failed(w, r, err, s.Back)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet(s.Name)
		if err != nil {
			log.Error("create sheet", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		header := sheet.AddRow()
		for _, h := range s.Headers {
			header.AddCell().SetValue(t(r, h))
		}
		for _, it := range items {
			row := sheet.AddRow()
			for _, v := range s.Row(it) {
				row.AddCell().SetValue(v)
			}
		}

		var buf bytes.Buffer
		if err := file.Write(&buf); err != nil {
			log.Error("write sheet", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		name := s.Name + "-" + time.Now().Format("20060102") + ".xlsx"
		w.Header().Set("Content-Disposition", "attachment; filename="+name)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
		log.Info("export", zap.String("sheet", s.Name), zap.Int("rows", len(items)))
	}
}
