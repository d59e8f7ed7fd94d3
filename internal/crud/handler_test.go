package crud

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/backend/backendtest"
	"github.com/diewo77/store-admin/internal/store"
)

func notes() Resource[item] {
	return Resource[item]{
		Name:      "notes",
		Title:     "notes",
		Endpoints: Standard("Note"),
		Columns: []Column[item]{
			{Key: "id", Header: "id", ClassName: "num", Cell: func(it item) template.HTML { return Int(it.ID) }},
			{Key: "nameEN", Header: "name_en", Cell: func(it item) template.HTML { return Text(it.NameEN) }},
			{Key: ActionsKey, Header: "actions"},
		},
		Filters:  []Filter{{Param: "CategoryId", Label: "category", Kind: KindText}},
		ItemID:   func(it item) int64 { return it.ID },
		NewForm:  func() Form { return &noteForm{} },
		EditForm: func(it item) Form { return &noteForm{Title: it.NameEN} },
	}
}

type handlerFixture struct {
	srv    *backendtest.Server
	store  *store.Store
	router chi.Router
}

func newHandlerFixture(t *testing.T, opts ...func(*Deps)) handlerFixture {
	t.Helper()
	srv := backendtest.New(t)
	client, err := backend.New(backend.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	st := newStore(t)
	deps := Deps{Client: client, Inflight: NewInflight(), Intents: st, Audit: st}
	for _, o := range opts {
		o(&deps)
	}
	h := NewHandler(notes(), deps)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := auth.Identity{SessionID: "sid", Name: "mona", Role: "admin"}
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), id)))
		})
	})
	h.Mount(r, func(string, gate.Action) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler { return next }
	})
	return handlerFixture{srv: srv, store: st, router: r}
}

func (f handlerFixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func flashOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" {
			v, err := url.QueryUnescape(c.Value)
			require.NoError(t, err)
			return v
		}
	}
	return ""
}

func TestListRendersRowsAndPager(t *testing.T) {
	f := newHandlerFixture(t)
	for i := 0; i < 25; i++ {
		f.srv.Seed("Note", map[string]any{"nameEN": "note"})
	}

	rec := f.do(http.MethodGet, "/notes?page=2&size=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Find("#rows tbody tr[id^=row-]").Length())
	assert.Equal(t, 1, doc.Find("a[href='/notes/new']").Length())
	assert.Equal(t, 5, doc.Find("a[href$='/delete']").Length())
	assert.Equal(t, 5, doc.Find("a[href$='/edit']").Length())

	calls := f.srv.Calls(http.MethodGet, "/Note/List")
	require.Len(t, calls, 1)
	assert.Equal(t, "2", calls[0].Query.Get("PageNumber"))
	assert.Equal(t, "20", calls[0].Query.Get("PageSize"))

	rec = f.do(http.MethodGet, "/notes/rows?page=1&size=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="rows"`)
}

func TestCreateRejectsInvalidInputLocally(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodPost, "/notes", url.Values{"title": {" "}, "price": {"abc"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#field-title-error").Length())
	assert.Equal(t, 1, doc.Find("#field-price-error").Length())
	assert.Zero(t, f.srv.CountCalls(http.MethodPost, "/Note/Create"))
}

func TestCreateSubmitsAndAudits(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodPost, "/notes", url.Values{"title": {"Hello"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/notes", rec.Header().Get("Location"))
	assert.Equal(t, "success|Created successfully", flashOf(t, rec))

	created := f.srv.Calls(http.MethodPost, "/Note/Create")
	require.Len(t, created, 1)
	assert.Equal(t, "Hello", created[0].JSON()["title"])

	entries, total, err := f.store.ListAudit(context.Background(), store.AuditQuery{Resource: "notes"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, "create", entries[0].Action)
	assert.Equal(t, "ok", entries[0].Outcome)
	assert.Equal(t, "mona", entries[0].Actor)
}

func TestCreateFailureKeepsDialogOpen(t *testing.T) {
	f := newHandlerFixture(t)
	f.srv.Fail(http.MethodPost, "/Note/Create", 409, "Title already used")

	rec := f.do(http.MethodPost, "/notes", url.Values{"title": {"Hello"}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title already used")
	assert.Contains(t, rec.Body.String(), `value="Hello"`)

	entries, _, err := f.store.ListAudit(context.Background(), store.AuditQuery{Resource: "notes"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].Outcome)
	assert.Equal(t, "Title already used", entries[0].Message)
}

func TestDeleteNeedsConfirmationAndRunsOnce(t *testing.T) {
	f := newHandlerFixture(t)
	ids := f.srv.Seed("Note", map[string]any{"nameEN": "gone soon"})
	base := "/notes/" + itoa(ids[0]) + "/delete"

	rec := f.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	nonce, ok := doc.Find("#delete-form input[name=nonce]").Attr("value")
	require.True(t, ok)
	require.NotEmpty(t, nonce)
	assert.Zero(t, f.srv.CountCalls(http.MethodDelete, "/Note/Delete"), "opening the dialog deletes nothing")

	rec = f.do(http.MethodPost, base, url.Values{"nonce": {nonce}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "success|Deleted successfully", flashOf(t, rec))

	rec = f.do(http.MethodPost, base, url.Values{"nonce": {nonce}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(flashOf(t, rec), "info|"))
	assert.Equal(t, 1, f.srv.CountCalls(http.MethodDelete, "/Note/Delete"))
	assert.Empty(t, f.srv.Items("Note"))

	rec = f.do(http.MethodPost, base, url.Values{"nonce": {"forged"}})
	assert.True(t, strings.HasPrefix(flashOf(t, rec), "error|"))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func rowIDs(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	var ids []string
	doc.Find("#rows tbody tr[id^=row-]").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, strings.TrimPrefix(s.AttrOr("id", ""), "row-"))
	})
	return ids
}

func TestPagingWithFilterNeverOverlaps(t *testing.T) {
	f := newHandlerFixture(t)
	for i := 0; i < 23; i++ {
		category := 1
		if i%3 == 0 {
			category = 2
		}
		f.srv.Seed("Note", map[string]any{"nameEN": "note", "categoryId": category})
	}

	seen := map[string]bool{}
	total := 0
	for page := 1; page <= 3; page++ {
		rec := f.do(http.MethodGet, "/notes?CategoryId=1&size=10&page="+strconv.Itoa(page), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		for _, id := range rowIDs(t, rec) {
			assert.False(t, seen[id], "id %s listed twice", id)
			seen[id] = true
			total++
		}
	}
	assert.Equal(t, 15, total)
	for _, c := range f.srv.Calls(http.MethodGet, "/Note/List") {
		assert.Equal(t, "1", c.Query.Get("CategoryId"))
	}
}

func TestActionsFollowPermissions(t *testing.T) {
	noDelete := func(d *Deps) {
		d.Can = func(_ *http.Request, _ string, action gate.Action) bool { return action != gate.ActionDelete }
	}
	f := newHandlerFixture(t, noDelete)
	ids := f.srv.Seed("Note", map[string]any{"nameEN": "kept"})

	rec := f.do(http.MethodGet, "/notes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	row := doc.Find("#row-" + itoa(ids[0]))
	assert.Equal(t, 1, row.Find("a[href='/notes/"+itoa(ids[0])+"/edit']").Length())
	assert.Zero(t, row.Find("a[href$='/delete']").Length())
}

func openedBaseline(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	v, ok := doc.Find("input[name=_baseline]").Attr("value")
	require.True(t, ok)
	return v
}

func TestCancelKeepsAskingWhileDirty(t *testing.T) {
	f := newHandlerFixture(t)
	rec := f.do(http.MethodGet, "/notes/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	baseline := openedBaseline(t, rec)

	clean := f.do(http.MethodPost, "/notes/cancel", url.Values{"title": {""}, "price": {""}, BaselineField: {baseline}})
	assert.Equal(t, http.StatusSeeOther, clean.Code)

	typed := url.Values{"title": {"typed"}, BaselineField: {baseline}}
	rec = f.do(http.MethodPost, "/notes/cancel", typed)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="confirm-leave"`)
	assert.Equal(t, baseline, openedBaseline(t, rec), "staying keeps the opening baseline")

	rec = f.do(http.MethodPost, "/notes/cancel", typed)
	assert.Equal(t, http.StatusOK, rec.Code, "a second cancel still asks")
	assert.Contains(t, rec.Body.String(), `id="confirm-leave"`)
}

func TestCancelAfterFailedSubmitStillAsks(t *testing.T) {
	f := newHandlerFixture(t)
	baseline := openedBaseline(t, f.do(http.MethodGet, "/notes/new", nil))

	rec := f.do(http.MethodPost, "/notes", url.Values{"title": {"typed"}, "price": {"abc"}, BaselineField: {baseline}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, baseline, openedBaseline(t, rec))

	f.srv.Fail(http.MethodPost, "/Note/Create", 409, "Title already used")
	rec = f.do(http.MethodPost, "/notes", url.Values{"title": {"typed"}, BaselineField: {baseline}})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, baseline, openedBaseline(t, rec))

	rec = f.do(http.MethodPost, "/notes/cancel", url.Values{"title": {"typed"}, BaselineField: {baseline}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="confirm-leave"`)
}

func TestDeleteFailureKeepsRow(t *testing.T) {
	f := newHandlerFixture(t)
	ids := f.srv.Seed("Note", map[string]any{"nameEN": "busy"})
	base := "/notes/" + itoa(ids[0]) + "/delete"
	doc, err := goquery.NewDocumentFromReader(f.do(http.MethodGet, base, nil).Body)
	require.NoError(t, err)
	nonce := doc.Find("#delete-form input[name=nonce]").AttrOr("value", "")

	f.srv.Fail(http.MethodDelete, "/Note/Delete", 500, "In use")
	rec := f.do(http.MethodPost, base, url.Values{"nonce": {nonce}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/notes", rec.Header().Get("Location"))
	assert.Equal(t, "error|In use", flashOf(t, rec))

	assert.Equal(t, []string{itoa(ids[0])}, rowIDs(t, f.do(http.MethodGet, "/notes", nil)))
	entries, _, err := f.store.ListAudit(context.Background(), store.AuditQuery{Resource: "notes"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].Outcome)
}
