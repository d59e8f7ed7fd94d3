package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/internal/resources"
)

// UploadHandler forwards image uploads to the backend in one multipart request.
type UploadHandler struct {
	deps     crud.Deps
	targets  map[string]resources.UploadTarget
	maxBytes int64
}

// NewUploadHandler limits each request body to maxMB megabytes.
func NewUploadHandler(deps crud.Deps, targets map[string]resources.UploadTarget, maxMB int) *UploadHandler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if maxMB <= 0 {
		maxMB = 10
	}
	return &UploadHandler{deps: deps, targets: targets, maxBytes: int64(maxMB) << 20}
}

// Mount registers /uploads/{kind}/{id} for every target.
func (h *UploadHandler) Mount(r chi.Router, require crud.Guard) {
	kinds := make([]string, 0, len(h.targets))
	for k := range h.targets {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		t := h.targets[k]
		r.Route("/uploads/"+k+"/{id}", func(r chi.Router) {
			r.Use(require(t.Resource, gate.ActionUpload))
			r.Get("/", h.page(t))
			r.Post("/", h.upload(t))
		})
	}
}

func uploadHref(t resources.UploadTarget, id int64) string {
	return "/uploads/" + t.Kind + "/" + strconv.FormatInt(id, 10)
}

func (h *UploadHandler) page(t resources.UploadTarget) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		owner, err := backend.Get[resources.Uploaded](r.Context(), h.deps.Conn(r), t.GetPath, id)
		if err != nil {
			failed(w, r, err, "/"+t.Resource)
			return
		}
		h.render(w, r, http.StatusOK, t, owner, "")
	}
}

func (h *UploadHandler) render(w http.ResponseWriter, r *http.Request, status int, t resources.UploadTarget, owner resources.Uploaded, fieldErr string) {
	render(w, r, h.deps.Log, status, "upload.html", map[string]any{
		"Title":    t.Title,
		"Target":   t,
		"Owner":    owner,
		"Action":   uploadHref(t, owner.ID),
		"ListHref": "/" + t.Resource,
		"MaxMB":    h.maxBytes >> 20,
		"Error":    fieldErr,
	})
}

var (
	errNoFile   = errors.New("no file")
	errTooMany  = errors.New("too many files")
	errNotImage = errors.New("not an image")
	errTooLarge = errors.New("upload too large")
)

// files validates the posted parts of t.FileField.
func (h *UploadHandler) files(w http.ResponseWriter, r *http.Request, t resources.UploadTarget) ([]*multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errTooLarge
		}
		return nil, errNoFile
	}
	fhs := r.MultipartForm.File[t.FileField]
	switch {
	case len(fhs) == 0:
		return nil, errNoFile
	case len(fhs) > 1 && !t.Multiple:
		return nil, errTooMany
	}
	for _, fh := range fhs {
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			return nil, errNotImage
		}
	}
	return fhs, nil
}

func uploadCode(err error) string {
	switch {
	case errors.Is(err, errTooLarge):
		return "upload_too_large"
	case errors.Is(err, errTooMany):
		return "upload_single"
	case errors.Is(err, errNotImage):
		return "upload_not_image"
	}
	return "upload_missing"
}

func (h *UploadHandler) upload(t resources.UploadTarget) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		fhs, err := h.files(w, r, t)
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
		if err != nil {
			owner := resources.Uploaded{ID: id}
			if o, gerr := backend.Get[resources.Uploaded](r.Context(), h.deps.Conn(r), t.GetPath, id); gerr == nil {
				owner = o
			}
			h.render(w, r, http.StatusBadRequest, t, owner, uploadCode(err))
			return
		}

		form := backend.Multipart{Fields: map[string]string{t.IDField: strconv.FormatInt(id, 10)}}
		for _, fh := range fhs {
			f, err := fh.Open()
			if err != nil {
				h.deps.Log.Error("open upload part", zap.Error(err))
				http.Error(w, "bad upload", http.StatusBadRequest)
				return
			}
			defer f.Close()
			form.Files = append(form.Files, backend.File{
				Field:       t.FileField,
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Body:        f,
			})
		}
		out, err := h.deps.Conn(r).Upload(r.Context(), t.Path, form)
		h.deps.Record(r, t.Resource, id, "upload", err, out.Message)
		if err != nil {
			failed(w, r, err, uploadHref(t, id))
			return
		}
		done(w, r, out.Message, "uploaded", uploadHref(t, id))
	}
}
