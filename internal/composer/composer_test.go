package composer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/backend/backendtest"
	"github.com/diewo77/store-admin/internal/crud"
)

var milk = Product{ID: 1, NameEN: "Milk", NameAR: "حليب", Units: []Unit{
	{ID: 5, NameEN: "Box", BasicPrice: 60, SpecialPrice: 55},
	{ID: 6, NameEN: "Piece", BasicPrice: 0},
}}

var offer = Target{
	Name: "offer", Route: "offers", Resource: "offers", Title: "offer_items",
	ParentGet: "/Offer/Get", ItemsList: "/OfferItem/List", ItemCreate: "/OfferItem/Create",
	ParentParam: "OfferId", ParentKey: "offerId",
}

func TestComposerSteps(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.SelectUnit(5), ErrNoProduct)
	assert.ErrorIs(t, c.Add(), ErrIncomplete)

	c.SelectProduct(milk)
	assert.Equal(t, StateProductSelected, c.State)
	assert.ErrorIs(t, c.SelectUnit(99), ErrUnknownUnit)

	require.NoError(t, c.SelectUnit(6))
	assert.Equal(t, StateUnitSelected, c.State, "a unit without a price still needs one")

	require.NoError(t, c.SelectUnit(5))
	assert.Equal(t, StatePriceFilled, c.State)
	assert.Equal(t, 55.0, c.SpecialPrice)

	errs := c.SetPrices(0, -1)
	assert.Equal(t, "must_be_positive", errs["basicPrice"])
	assert.Equal(t, "must_not_be_negative", errs["specialPrice"])
	assert.Equal(t, StateUnitSelected, c.State)
	assert.ErrorIs(t, c.Add(), ErrIncomplete)

	require.True(t, c.SetPrices(58, 50).Empty())
	require.NoError(t, c.Add())
	assert.Equal(t, StateAdded, c.State)
	assert.Nil(t, c.Product)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, Line{ProductID: 1, ProductEN: "Milk", ProductAR: "حليب", UnitID: 5, UnitEN: "Box", BasicPrice: 58, SpecialPrice: 50}, c.Lines[0])

	c.SelectProduct(milk)
	require.NoError(t, c.SelectUnit(5))
	require.NoError(t, c.Add())
	assert.Len(t, c.Lines, 2, "the same product and unit may be added twice")

	c.SelectProduct(Product{ID: 2, NameEN: "Bread"})
	assert.Zero(t, c.UnitID, "a new product clears the previous unit")
	assert.Zero(t, c.BasicPrice)

	assert.ErrorIs(t, c.Remove(5), ErrNoLine)
	require.NoError(t, c.Remove(0))
	assert.Len(t, c.Lines, 1)
	assert.Equal(t, StateEmpty, c.State)

	c.Discard()
	assert.Empty(t, c.Lines)
}

func testConn(t *testing.T, srv *backendtest.Server) *backend.Conn {
	t.Helper()
	c, err := backend.New(backend.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c.For(nil)
}

type countObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (o *countObserver) ObserveBatchItem(target, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[target+":"+outcome]++
}

func threeLines() *Composer {
	c := New()
	for _, price := range []float64{10, 20, 30} {
		c.Lines = append(c.Lines, Line{ProductID: 1, UnitID: 5, BasicPrice: price})
	}
	c.State = StateAdded
	return c
}

func TestSubmitContinuesPastFailures(t *testing.T) {
	srv := backendtest.New(t)
	srv.Fail(http.MethodPost, offer.ItemCreate, 400, "Product already in offer")
	obs := &countObserver{}
	c := threeLines()

	rep := Submit(context.Background(), testConn(t, srv), offer, 7, c, obs)
	assert.Equal(t, 2, rep.Added)
	assert.Equal(t, 3, rep.Total)
	assert.True(t, rep.Failed())

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 10.0, c.Lines[0].BasicPrice)
	assert.Equal(t, "Product already in offer", c.Lines[0].Error)
	assert.Equal(t, 2, obs.outcomes["offer:ok"])
	assert.Equal(t, 1, obs.outcomes["offer:failed"])

	calls := srv.Calls(http.MethodPost, offer.ItemCreate)
	require.Len(t, calls, 3)
	body := calls[1].JSON()
	assert.EqualValues(t, 7, body["offerId"])
	assert.EqualValues(t, 20, body["basicPrice"])

	rep = Submit(context.Background(), testConn(t, srv), offer, 7, c, nil)
	assert.Equal(t, 1, rep.Added)
	assert.Empty(t, c.Lines)
	assert.Equal(t, StateEmpty, c.State)
}

func TestSubmitStopsWhenCancelled(t *testing.T) {
	srv := backendtest.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := threeLines()

	rep := Submit(ctx, testConn(t, srv), offer, 7, c, nil)
	assert.Zero(t, rep.Added)
	assert.Len(t, c.Lines, 3)
	assert.Zero(t, srv.CountCalls(http.MethodPost, offer.ItemCreate))
}

type memDrafts struct {
	mu   sync.Mutex
	data map[string][]byte
}

func key(sessionID, target string, parentID int64) string {
	return sessionID + "|" + target + "|" + strconv.FormatInt(parentID, 10)
}

func (m *memDrafts) SaveDraft(_ context.Context, sessionID, target string, parentID int64, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key(sessionID, target, parentID)] = payload
	return nil
}

func (m *memDrafts) LoadDraft(_ context.Context, sessionID, target string, parentID int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key(sessionID, target, parentID)], nil
}

func (m *memDrafts) DeleteDraft(_ context.Context, sessionID, target string, parentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key(sessionID, target, parentID))
	return nil
}

func TestDraftsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &memDrafts{}
	d := Drafts{Store: store}

	c := New()
	c.SelectProduct(milk)
	require.NoError(t, c.SelectUnit(5))
	require.NoError(t, d.Save(ctx, "sid", "offer", 7, c))

	got, err := d.Load(ctx, "sid", "offer", 7)
	require.NoError(t, err)
	assert.Equal(t, StatePriceFilled, got.State)
	assert.Equal(t, int64(5), got.UnitID)

	other, err := d.Load(ctx, "other", "offer", 7)
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, other.State, "drafts are per session")

	got.Discard()
	require.NoError(t, d.Save(ctx, "sid", "offer", 7, got))
	assert.Empty(t, store.data, "an empty composer removes the draft")
}

type fixedProducts struct{}

func (fixedProducts) Search(context.Context, *backend.Conn, string) ([]Product, error) {
	return []Product{milk}, nil
}

func (fixedProducts) Get(_ context.Context, _ *backend.Conn, id int64) (Product, error) {
	if id != milk.ID {
		return Product{}, backend.ErrNotFound
	}
	return milk, nil
}

func TestHandlerBuildsAndSavesLines(t *testing.T) {
	srv := backendtest.New(t)
	ids := srv.Seed("Offer", map[string]any{"nameEN": "Summer", "nameAR": "صيف"})
	client, err := backend.New(backend.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	drafts := &memDrafts{}
	h := NewHandler(crud.Deps{Client: client}, fixedProducts{}, drafts, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := auth.Identity{SessionID: "sid", Name: "mona"}
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), id)))
		})
	})
	h.Mount(r, offer, func(string, gate.Action) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler { return next }
	})
	base := "/offers/" + itoa(ids[0]) + "/items"

	send := func(path string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, base+path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := send("/add", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "flash=")

	require.Equal(t, http.StatusSeeOther, send("/product", url.Values{"productId": {"1"}}).Code)
	require.Equal(t, http.StatusSeeOther, send("/unit", url.Values{"unitId": {"5"}}).Code)

	rec = send("/add", url.Values{"basicPrice": {"-2"}, "specialPrice": {"1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusSeeOther, send("/add", url.Values{"basicPrice": {"58"}, "specialPrice": {"50"}}).Code)

	page := httptest.NewRecorder()
	r.ServeHTTP(page, httptest.NewRequest(http.MethodGet, base+"/", nil))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Summer")

	rec = send("/save", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), url.QueryEscape("1 of 1 items added"))
	created := srv.Calls(http.MethodPost, offer.ItemCreate)
	require.Len(t, created, 1)
	assert.EqualValues(t, 58, created[0].JSON()["basicPrice"])
	assert.Empty(t, drafts.data)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestBackDiscardsTheDraft(t *testing.T) {
	srv := backendtest.New(t)
	ids := srv.Seed("Offer", map[string]any{"nameEN": "Summer", "nameAR": "صيف"})
	client, err := backend.New(backend.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	drafts := &memDrafts{}
	h := NewHandler(crud.Deps{Client: client}, fixedProducts{}, drafts, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{SessionID: "sid"})))
		})
	})
	h.Mount(r, offer, func(string, gate.Action) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler { return next }
	})
	base := "/offers/" + itoa(ids[0]) + "/items"

	c := New()
	c.SelectProduct(milk)
	require.NoError(t, c.SelectUnit(5))
	require.NoError(t, c.Add())
	require.NoError(t, Drafts{Store: drafts}.Save(context.Background(), "sid", offer.Name, ids[0], c))

	page := httptest.NewRecorder()
	r.ServeHTTP(page, httptest.NewRequest(http.MethodGet, base+"/", nil))
	require.Equal(t, http.StatusOK, page.Code)
	doc, err := goquery.NewDocumentFromReader(page.Body)
	require.NoError(t, err)
	assert.Zero(t, doc.Find(`a[href="/offers"]`).Length(), "leaving never skips the discard")
	assert.Equal(t, 1, doc.Find("#confirm-leave").Length(), "pending lines ask before leaving")
	action, _ := doc.Find("#leave").Closest("form").Attr("action")
	assert.Equal(t, base+"/discard", action)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, base+"/discard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/offers", rec.Header().Get("Location"))
	assert.Empty(t, drafts.data)
	assert.Zero(t, srv.CountCalls(http.MethodPost, offer.ItemCreate))
}
