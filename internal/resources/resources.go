// Package resources declares every store entity screen on top of the
// generic crud engine: wire types, typed forms, columns, filters and lookups.
package resources

import (
	"context"
	"html/template"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/composer"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/validation"
)

// lookupPageSize bounds the option lists fetched for selects.
const lookupPageSize = 500

// Lookup names shared by the resource forms and filters.
const (
	LookupCategories          = "categories"
	LookupCategoriesByCompany = "categories_by_company"
	LookupCompanies           = "companies"
	LookupUnits               = "units"
	LookupTags                = "tags"
	LookupNotices             = "notices"
)

// named is the bilingual header every option-providing entity carries.
type named struct {
	ID     int64  `json:"id"`
	NameEN string `json:"nameEN"`
	NameAR string `json:"nameAR"`
}

// listLookup builds options from a list endpoint. With filter set, the
// parent value is sent under that parameter.
func listLookup(path, filter string) crud.Lookup {
	return func(ctx context.Context, conn *backend.Conn, parent string) ([]crud.Option, error) {
		q := backend.ListQuery{Page: 1, PageSize: lookupPageSize}
		if filter != "" {
			q.Filters = url.Values{filter: {parent}}
		}
		page, err := backend.List[named](ctx, conn, path, q)
		if err != nil {
			return nil, err
		}
		opts := make([]crud.Option, 0, len(page.Items))
		for _, it := range page.Items {
			opts = append(opts, crud.Option{Value: strconv.FormatInt(it.ID, 10), Label: it.NameEN, LabelAR: it.NameAR})
		}
		return opts, nil
	}
}

// Lookups returns every shared lookup.
func Lookups() map[string]crud.Lookup {
	return map[string]crud.Lookup{
		LookupCategories:          listLookup("/Category/List", ""),
		LookupCategoriesByCompany: listLookup("/Category/List", "CompanyId"),
		LookupCompanies:           listLookup("/Company/List", ""),
		LookupUnits:               listLookup("/Unit/List", ""),
		LookupTags:                listLookup("/Tag/List", ""),
		LookupNotices:             listLookup("/Notice/List", ""),
	}
}

// basics is the bilingual name, note and ordering block most forms share.
type basics struct {
	NameEN  string
	NameAR  string
	NoteEN  string
	NoteAR  string
	Arrange int
	// notes enables the note fields.
	notes bool
}

func newBasics(nameEN, nameAR string, noteEN, noteAR *string, arrange int, notes bool) basics {
	return basics{
		NameEN:  nameEN,
		NameAR:  nameAR,
		NoteEN:  crud.Deref(noteEN),
		NoteAR:  crud.Deref(noteAR),
		Arrange: arrange,
		notes:   notes,
	}
}

func (b *basics) fields() []crud.Field {
	fs := []crud.Field{
		{Name: "nameEN", Label: "name_en", Kind: crud.KindText, Required: true, MaxLen: 100},
		{Name: "nameAR", Label: "name_ar", Kind: crud.KindText, Required: true, MaxLen: 100},
	}
	if b.notes {
		fs = append(fs,
			crud.Field{Name: "noteEN", Label: "note_en", Kind: crud.KindTextarea, MaxLen: 500},
			crud.Field{Name: "noteAR", Label: "note_ar", Kind: crud.KindTextarea, MaxLen: 500},
		)
	}
	return append(fs, crud.Field{Name: "arrange", Label: "arrange", Kind: crud.KindNumber})
}

func (b *basics) values(v url.Values) {
	v.Set("nameEN", b.NameEN)
	v.Set("nameAR", b.NameAR)
	if b.notes {
		v.Set("noteEN", b.NoteEN)
		v.Set("noteAR", b.NoteAR)
	}
	v.Set("arrange", strconv.Itoa(b.Arrange))
}

func (b *basics) decode(d *crud.Decoder) {
	b.NameEN = d.String("nameEN")
	b.NameAR = d.String("nameAR")
	if b.notes {
		b.NoteEN = d.String("noteEN")
		b.NoteAR = d.String("noteAR")
	}
	b.Arrange = d.Int("arrange")
}

func (b *basics) validate(v validation.Violations) {
	validation.Required("nameEN", b.NameEN, v)
	validation.Required("nameAR", b.NameAR, v)
	validation.MaxLen("nameEN", b.NameEN, 100, v)
	validation.MaxLen("nameAR", b.NameAR, 100, v)
	if b.notes {
		validation.MaxLen("noteEN", b.NoteEN, 500, v)
		validation.MaxLen("noteAR", b.NoteAR, 500, v)
	}
	validation.NonNegativeInt("arrange", b.Arrange, v)
}

// Shared columns.

func idColumn[T any](id func(T) int64) crud.Column[T] {
	return crud.Column[T]{Key: "id", Header: "id", ClassName: "num", Cell: func(it T) template.HTML { return crud.Int(id(it)) }}
}

func textColumn[T any](key, header string, get func(T) string) crud.Column[T] {
	return crud.Column[T]{Key: key, Header: header, Cell: func(it T) template.HTML { return crud.Text(get(it)) }}
}

func arrangeColumn[T any](get func(T) int) crud.Column[T] {
	return crud.Column[T]{Key: "arrange", Header: "arrange", ClassName: "num", Cell: func(it T) template.HTML { return crud.Int(int64(get(it))) }}
}

func dateColumn[T any](key, header string, get func(T) string) crud.Column[T] {
	return crud.Column[T]{Key: key, Header: header, Cell: func(it T) template.HTML { return crud.Date(get(it)) }}
}

func actionsColumn[T any]() crud.Column[T] {
	return crud.Column[T]{Key: crud.ActionsKey, Header: "actions"}
}

func itemPath(route string, id int64, suffix string) string {
	return "/" + route + "/" + strconv.FormatInt(id, 10) + suffix
}

// Extras are routes mounted under a resource base, keyed by resource name.
type Extras map[string]func(chi.Router, crud.Guard)

// Set holds every mountable resource handler.
type Set struct {
	mounts []func(chi.Router, crud.Guard)
	extras Extras
	// Targets are the composer parents (offers, spotlights).
	Targets []composer.Target
}

func add[T any](s *Set, res crud.Resource[T], deps crud.Deps) *crud.Handler[T] {
	if res.Lookups == nil {
		res.Lookups = Lookups()
	}
	if res.Extra == nil {
		res.Extra = s.extras[res.Name]
	}
	h := crud.NewHandler(res, deps)
	s.mounts = append(s.mounts, h.Mount)
	return h
}

// NewSet builds the handlers of every resource screen.
func NewSet(deps crud.Deps, extras Extras) *Set {
	s := &Set{extras: extras, Targets: []composer.Target{OfferTarget, SpotlightTarget}}
	add(s, Categories(), deps)
	add(s, Companies(), deps)
	add(s, Units(), deps)
	add(s, Tags(), deps)
	add(s, Notices(), deps)
	add(s, Flavours(), deps)
	add(s, Products(), deps)
	add(s, WholesaleProducts(), deps)
	add(s, Offers(), deps)
	add(s, Spotlights(), deps)
	add(s, Coupons(), deps)
	add(s, DeliveryFees(), deps)
	add(s, Orders(), deps)
	add(s, Customers(), deps)
	add(s, Complaints(), deps)
	return s
}

// Mount registers every resource route.
func (s *Set) Mount(r chi.Router, require crud.Guard) {
	for _, m := range s.mounts {
		m(r, require)
	}
}
