package resources

import (
	"html/template"
	"net/url"

	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/validation"
)

// Category is a product category.
type Category struct {
	ID           int64   `json:"id"`
	NameEN       string  `json:"nameEN"`
	NameAR       string  `json:"nameAR"`
	NoteEN       *string `json:"noteEN"`
	NoteAR       *string `json:"noteAR"`
	Arrange      int     `json:"arrange"`
	CreatedDate  string  `json:"createdDate,omitempty"`
	ModifiedDate *string `json:"modifiedDate,omitempty"`
}

type categoryPayload struct {
	ID      int64   `json:"id"`
	NameEN  string  `json:"nameEN"`
	NameAR  string  `json:"nameAR"`
	NoteEN  *string `json:"noteEN"`
	NoteAR  *string `json:"noteAR"`
	Arrange int     `json:"arrange"`
}

// CategoryForm edits a Category.
type CategoryForm struct {
	basics
}

func (f *CategoryForm) Fields() []crud.Field { return f.fields() }

func (f *CategoryForm) Values() url.Values {
	v := url.Values{}
	f.values(v)
	return v
}

func (f *CategoryForm) Decode(d *crud.Decoder) { f.decode(d) }
func (f *CategoryForm) Validate(v validation.Violations) { f.validate(v) }

func (f *CategoryForm) Payload(id int64) any {
	return categoryPayload{
		ID:      id,
		NameEN:  f.NameEN,
		NameAR:  f.NameAR,
		NoteEN:  crud.Nullable(f.NoteEN),
		NoteAR:  crud.Nullable(f.NoteAR),
		Arrange: f.Arrange,
	}
}

// Categories is the category screen.
func Categories() crud.Resource[Category] {
	return crud.Resource[Category]{
		Name:      "categories",
		Title:     "categories",
		Endpoints: crud.Standard("Category"),
		ItemID:    func(c Category) int64 { return c.ID },
		Columns: []crud.Column[Category]{
			idColumn(func(c Category) int64 { return c.ID }),
			textColumn("nameEN", "name_en", func(c Category) string { return c.NameEN }),
			textColumn("nameAR", "name_ar", func(c Category) string { return c.NameAR }),
			arrangeColumn(func(c Category) int { return c.Arrange }),
			dateColumn("createdDate", "created_at", func(c Category) string { return c.CreatedDate }),
			actionsColumn[Category](),
		},
		NewForm: func() crud.Form { return &CategoryForm{basics{notes: true}} },
		EditForm: func(c Category) crud.Form {
			return &CategoryForm{newBasics(c.NameEN, c.NameAR, c.NoteEN, c.NoteAR, c.Arrange, true)}
		},
		DeleteWarning: "delete_category_warning",
	}
}

// Company is a supplier.
type Company struct {
	ID          int64   `json:"id"`
	NameEN      string  `json:"nameEN"`
	NameAR      string  `json:"nameAR"`
	NoteEN      *string `json:"noteEN"`
	NoteAR      *string `json:"noteAR"`
	Arrange     int     `json:"arrange"`
	Phone       string  `json:"phone"`
	IsActive    bool    `json:"isActive"`
	Image       string  `json:"image,omitempty"`
	CreatedDate string  `json:"createdDate,omitempty"`
}

// CompanyForm edits a Company. The logo is changed through the upload screen.
type CompanyForm struct {
	basics
	Phone    string
	IsActive bool
	image    string
}

func (f *CompanyForm) Fields() []crud.Field {
	return append(f.fields(),
		crud.Field{Name: "phone", Label: "phone", Kind: crud.KindText, MaxLen: 20},
		crud.Field{Name: "isActive", Label: "active", Kind: crud.KindCheckbox},
	)
}

func (f *CompanyForm) Values() url.Values {
	v := url.Values{}
	f.values(v)
	v.Set("phone", f.Phone)
	crud.FormatBool(v, "isActive", f.IsActive)
	return v
}

func (f *CompanyForm) Decode(d *crud.Decoder) {
	f.decode(d)
	f.Phone = d.String("phone")
	f.IsActive = d.Bool("isActive")
}

func (f *CompanyForm) Validate(v validation.Violations) {
	f.validate(v)
	validation.Phone("phone", f.Phone, v)
}

func (f *CompanyForm) Payload(id int64) any {
	return Company{
		ID:       id,
		NameEN:   f.NameEN,
		NameAR:   f.NameAR,
		NoteEN:   crud.Nullable(f.NoteEN),
		NoteAR:   crud.Nullable(f.NoteAR),
		Arrange:  f.Arrange,
		Phone:    f.Phone,
		IsActive: f.IsActive,
		Image:    f.image,
	}
}

// Companies is the company screen.
func Companies() crud.Resource[Company] {
	return crud.Resource[Company]{
		Name:      "companies",
		Title:     "companies",
		Endpoints: crud.Standard("Company"),
		ItemID:    func(c Company) int64 { return c.ID },
		Columns: []crud.Column[Company]{
			idColumn(func(c Company) int64 { return c.ID }),
			{Key: "image", Header: "image", Cell: func(c Company) template.HTML { return crud.Image(c.Image) }},
			textColumn("nameEN", "name_en", func(c Company) string { return c.NameEN }),
			textColumn("nameAR", "name_ar", func(c Company) string { return c.NameAR }),
			textColumn("phone", "phone", func(c Company) string { return c.Phone }),
			{Key: "isActive", Header: "active", Cell: func(c Company) template.HTML { return crud.Check(c.IsActive) }},
			arrangeColumn(func(c Company) int { return c.Arrange }),
			{Key: "upload", Header: "logo", Cell: func(c Company) template.HTML {
				return crud.Link(itemPath("uploads/company", c.ID, ""), "⤒", "btn btn-sm")
			}},
			actionsColumn[Company](),
		},
		NewForm: func() crud.Form { return &CompanyForm{basics: basics{notes: true}, IsActive: true} },
		EditForm: func(c Company) crud.Form {
			return &CompanyForm{
				basics:   newBasics(c.NameEN, c.NameAR, c.NoteEN, c.NoteAR, c.Arrange, true),
				Phone:    c.Phone,
				IsActive: c.IsActive,
				image:    c.Image,
			}
		},
		DeleteWarning: "delete_company_warning",
	}
}

// Simple is the shape of units, tags and notices: a bilingual name and an order.
type Simple struct {
	ID          int64  `json:"id"`
	NameEN      string `json:"nameEN"`
	NameAR      string `json:"nameAR"`
	Arrange     int    `json:"arrange"`
	CreatedDate string `json:"createdDate,omitempty"`
}

// SimpleForm edits a Simple entity.
type SimpleForm struct {
	basics
}

func (f *SimpleForm) Fields() []crud.Field { return f.fields() }

func (f *SimpleForm) Values() url.Values {
	v := url.Values{}
	f.values(v)
	return v
}

func (f *SimpleForm) Decode(d *crud.Decoder) { f.decode(d) }
func (f *SimpleForm) Validate(v validation.Violations) { f.validate(v) }

func (f *SimpleForm) Payload(id int64) any {
	return Simple{ID: id, NameEN: f.NameEN, NameAR: f.NameAR, Arrange: f.Arrange}
}

func simple(name, backendName, warning string) crud.Resource[Simple] {
	return crud.Resource[Simple]{
		Name:      name,
		Title:     name,
		Endpoints: crud.Standard(backendName),
		ItemID:    func(s Simple) int64 { return s.ID },
		Columns: []crud.Column[Simple]{
			idColumn(func(s Simple) int64 { return s.ID }),
			textColumn("nameEN", "name_en", func(s Simple) string { return s.NameEN }),
			textColumn("nameAR", "name_ar", func(s Simple) string { return s.NameAR }),
			arrangeColumn(func(s Simple) int { return s.Arrange }),
			actionsColumn[Simple](),
		},
		NewForm: func() crud.Form { return &SimpleForm{} },
		EditForm: func(s Simple) crud.Form {
			return &SimpleForm{newBasics(s.NameEN, s.NameAR, nil, nil, s.Arrange, false)}
		},
		DeleteWarning: warning,
	}
}

// Units is the unit screen (box, piece, kilo...).
func Units() crud.Resource[Simple] { return simple("units", "Unit", "delete_unit_warning") }

// Tags is the product tag screen.
func Tags() crud.Resource[Simple] { return simple("tags", "Tag", "") }

// Notices is the product notice screen.
func Notices() crud.Resource[Simple] { return simple("notices", "Notice", "") }

// Flavour is a product flavour with an image.
type Flavour struct {
	ID      int64  `json:"id"`
	NameEN  string `json:"nameEN"`
	NameAR  string `json:"nameAR"`
	Arrange int    `json:"arrange"`
	Image   string `json:"image,omitempty"`
}

// FlavourForm edits a Flavour, keeping its image.
type FlavourForm struct {
	basics
	image string
}

func (f *FlavourForm) Fields() []crud.Field { return f.fields() }

func (f *FlavourForm) Values() url.Values {
	v := url.Values{}
	f.values(v)
	return v
}

func (f *FlavourForm) Decode(d *crud.Decoder) { f.decode(d) }
func (f *FlavourForm) Validate(v validation.Violations) { f.validate(v) }

func (f *FlavourForm) Payload(id int64) any {
	return Flavour{ID: id, NameEN: f.NameEN, NameAR: f.NameAR, Arrange: f.Arrange, Image: f.image}
}

// Flavours is the flavour screen.
func Flavours() crud.Resource[Flavour] {
	return crud.Resource[Flavour]{
		Name:      "flavours",
		Title:     "flavours",
		Endpoints: crud.Standard("Flavour"),
		ItemID:    func(f Flavour) int64 { return f.ID },
		Columns: []crud.Column[Flavour]{
			idColumn(func(f Flavour) int64 { return f.ID }),
			{Key: "image", Header: "image", Cell: func(f Flavour) template.HTML { return crud.Image(f.Image) }},
			textColumn("nameEN", "name_en", func(f Flavour) string { return f.NameEN }),
			textColumn("nameAR", "name_ar", func(f Flavour) string { return f.NameAR }),
			arrangeColumn(func(f Flavour) int { return f.Arrange }),
			{Key: "upload", Header: "image", Cell: func(f Flavour) template.HTML {
				return crud.Link(itemPath("uploads/flavour", f.ID, ""), "⤒", "btn btn-sm")
			}},
			actionsColumn[Flavour](),
		},
		NewForm: func() crud.Form { return &FlavourForm{} },
		EditForm: func(f Flavour) crud.Form {
			return &FlavourForm{basics: newBasics(f.NameEN, f.NameAR, nil, nil, f.Arrange, false), image: f.Image}
		},
	}
}
