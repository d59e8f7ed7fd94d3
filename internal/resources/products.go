package resources

import (
	"context"
	"html/template"
	"net/url"
	"strconv"

	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/composer"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/validation"
)

// ProductUnit is one of the two units a product is sold in, with its prices.
type ProductUnit struct {
	UnitID       int64   `json:"unitId"`
	NameEN       string  `json:"nameEN,omitempty"`
	NameAR       string  `json:"nameAR,omitempty"`
	BasicPrice   float64 `json:"basicPrice"`
	SpecialPrice float64 `json:"specialPrice"`
}

// Product is a retail product. The small unit is optional.
type Product struct {
	ID               int64        `json:"id"`
	NameEN           string       `json:"nameEN"`
	NameAR           string       `json:"nameAR"`
	NoteEN           *string      `json:"noteEN"`
	NoteAR           *string      `json:"noteAR"`
	Arrange          int          `json:"arrange"`
	CategoryID       int64        `json:"categoryId"`
	CompanyID        int64        `json:"companyId"`
	CategoryNameEN   string       `json:"categoryNameEN,omitempty"`
	CompanyNameEN    string       `json:"companyNameEN,omitempty"`
	BigUnit          *ProductUnit `json:"bigUnit"`
	SmallUnit        *ProductUnit `json:"smallUnit"`
	SmallUnitsPerBig int          `json:"smallUnitsPerBig"`
	TagIDs           []int64      `json:"tagIds"`
	NoticeIDs        []int64      `json:"noticeIds"`
	IsActive         bool         `json:"isActive"`
	Image            string       `json:"image,omitempty"`
	CreatedDate      string       `json:"createdDate,omitempty"`
}

// Units lists the big unit then the small one, skipping absent units.
func (p Product) Units() []composer.Unit {
	var out []composer.Unit
	for _, u := range []*ProductUnit{p.BigUnit, p.SmallUnit} {
		if u == nil || u.UnitID == 0 {
			continue
		}
		out = append(out, composer.Unit{
			ID:           u.UnitID,
			NameEN:       u.NameEN,
			NameAR:       u.NameAR,
			BasicPrice:   u.BasicPrice,
			SpecialPrice: u.SpecialPrice,
		})
	}
	return out
}

// Pickable converts p for the item composer.
func (p Product) Pickable() composer.Product {
	return composer.Product{ID: p.ID, NameEN: p.NameEN, NameAR: p.NameAR, Units: p.Units()}
}

// ProductForm edits a Product.
type ProductForm struct {
	basics
	CategoryID          int64
	CompanyID           int64
	BigUnitID           int64
	BigUnitBasicPrice   float64
	BigUnitSpecialPrice float64
	SmallUnitID         int64
	SmallBasicPrice     float64
	SmallSpecialPrice   float64
	SmallUnitsPerBig    int
	TagIDs              []int64
	NoticeIDs           []int64
	IsActive            bool
	image               string
}

func (f *ProductForm) Fields() []crud.Field {
	return append(f.fields(),
		crud.Field{Name: "categoryId", Label: "category", Kind: crud.KindSelect, Required: true, Lookup: LookupCategories},
		crud.Field{Name: "companyId", Label: "company", Kind: crud.KindSelect, Required: true, Lookup: LookupCompanies},
		crud.Field{Name: "bigUnitId", Label: "big_unit", Kind: crud.KindSelect, Required: true, Lookup: LookupUnits},
		crud.Field{Name: "bigUnitBasicPrice", Label: "basic_price", Kind: crud.KindDecimal, Required: true, Step: "0.01"},
		crud.Field{Name: "bigUnitSpecialPrice", Label: "special_price", Kind: crud.KindDecimal, Step: "0.01"},
		crud.Field{Name: "smallUnitId", Label: "small_unit", Kind: crud.KindSelect, Lookup: LookupUnits},
		crud.Field{Name: "smallUnitBasicPrice", Label: "basic_price", Kind: crud.KindDecimal, Step: "0.01"},
		crud.Field{Name: "smallUnitSpecialPrice", Label: "special_price", Kind: crud.KindDecimal, Step: "0.01"},
		crud.Field{Name: "smallUnitsPerBig", Label: "small_units_per_big", Kind: crud.KindNumber},
		crud.Field{Name: "tagIds", Label: "tags", Kind: crud.KindMultiSelect, Lookup: LookupTags},
		crud.Field{Name: "noticeIds", Label: "notices", Kind: crud.KindMultiSelect, Lookup: LookupNotices},
		crud.Field{Name: "isActive", Label: "active", Kind: crud.KindCheckbox},
	)
}

func (f *ProductForm) Values() url.Values {
	v := url.Values{}
	f.values(v)
	v.Set("categoryId", crud.FormatID(f.CategoryID))
	v.Set("companyId", crud.FormatID(f.CompanyID))
	v.Set("bigUnitId", crud.FormatID(f.BigUnitID))
	v.Set("bigUnitBasicPrice", crud.FormatFloat(f.BigUnitBasicPrice))
	v.Set("bigUnitSpecialPrice", crud.FormatFloat(f.BigUnitSpecialPrice))
	v.Set("smallUnitId", crud.FormatID(f.SmallUnitID))
	v.Set("smallUnitBasicPrice", crud.FormatFloat(f.SmallBasicPrice))
	v.Set("smallUnitSpecialPrice", crud.FormatFloat(f.SmallSpecialPrice))
	v.Set("smallUnitsPerBig", strconv.Itoa(f.SmallUnitsPerBig))
	v["tagIds"] = crud.FormatIDs(f.TagIDs)
	v["noticeIds"] = crud.FormatIDs(f.NoticeIDs)
	crud.FormatBool(v, "isActive", f.IsActive)
	return v
}

func (f *ProductForm) Decode(d *crud.Decoder) {
	f.decode(d)
	f.CategoryID = d.ID("categoryId")
	f.CompanyID = d.ID("companyId")
	f.BigUnitID = d.ID("bigUnitId")
	f.BigUnitBasicPrice = d.Float("bigUnitBasicPrice")
	f.BigUnitSpecialPrice = d.Float("bigUnitSpecialPrice")
	f.SmallUnitID = d.ID("smallUnitId")
	f.SmallBasicPrice = d.Float("smallUnitBasicPrice")
	f.SmallSpecialPrice = d.Float("smallUnitSpecialPrice")
	f.SmallUnitsPerBig = d.Int("smallUnitsPerBig")
	f.TagIDs = d.IDs("tagIds")
	f.NoticeIDs = d.IDs("noticeIds")
	f.IsActive = d.Bool("isActive")
}

func (f *ProductForm) Validate(v validation.Violations) {
	f.validate(v)
	validation.RequiredID("categoryId", f.CategoryID, v)
	validation.RequiredID("companyId", f.CompanyID, v)
	validation.RequiredID("bigUnitId", f.BigUnitID, v)
	validation.PositiveFloat("bigUnitBasicPrice", f.BigUnitBasicPrice, v)
	validation.NonNegativeFloat("bigUnitSpecialPrice", f.BigUnitSpecialPrice, v)
	if f.SmallUnitID > 0 {
		validation.PositiveFloat("smallUnitBasicPrice", f.SmallBasicPrice, v)
		validation.NonNegativeFloat("smallUnitSpecialPrice", f.SmallSpecialPrice, v)
		validation.PositiveFloat("smallUnitsPerBig", float64(f.SmallUnitsPerBig), v)
	}
}

func (f *ProductForm) Payload(id int64) any {
	p := Product{
		ID:         id,
		NameEN:     f.NameEN,
		NameAR:     f.NameAR,
		NoteEN:     crud.Nullable(f.NoteEN),
		NoteAR:     crud.Nullable(f.NoteAR),
		Arrange:    f.Arrange,
		CategoryID: f.CategoryID,
		CompanyID:  f.CompanyID,
		BigUnit:    &ProductUnit{UnitID: f.BigUnitID, BasicPrice: f.BigUnitBasicPrice, SpecialPrice: f.BigUnitSpecialPrice},
		TagIDs:     f.TagIDs,
		NoticeIDs:  f.NoticeIDs,
		IsActive:   f.IsActive,
		Image:      f.image,
	}
	if f.SmallUnitID > 0 {
		p.SmallUnit = &ProductUnit{UnitID: f.SmallUnitID, BasicPrice: f.SmallBasicPrice, SpecialPrice: f.SmallSpecialPrice}
		p.SmallUnitsPerBig = f.SmallUnitsPerBig
	}
	return p
}

func productForm(p Product) *ProductForm {
	f := &ProductForm{
		basics:           newBasics(p.NameEN, p.NameAR, p.NoteEN, p.NoteAR, p.Arrange, true),
		CategoryID:       p.CategoryID,
		CompanyID:        p.CompanyID,
		SmallUnitsPerBig: p.SmallUnitsPerBig,
		TagIDs:           p.TagIDs,
		NoticeIDs:        p.NoticeIDs,
		IsActive:         p.IsActive,
		image:            p.Image,
	}
	if p.BigUnit != nil {
		f.BigUnitID = p.BigUnit.UnitID
		f.BigUnitBasicPrice = p.BigUnit.BasicPrice
		f.BigUnitSpecialPrice = p.BigUnit.SpecialPrice
	}
	if p.SmallUnit != nil {
		f.SmallUnitID = p.SmallUnit.UnitID
		f.SmallBasicPrice = p.SmallUnit.BasicPrice
		f.SmallSpecialPrice = p.SmallUnit.SpecialPrice
	}
	return f
}

func unitPrice(u *ProductUnit) template.HTML {
	if u == nil {
		return crud.Text("")
	}
	return crud.Decimal(u.BasicPrice)
}

// Products is the retail product screen. New products take their id from
// the backend before being created.
func Products() crud.Resource[Product] {
	return crud.Resource[Product]{
		Name:          "products",
		Title:         "products",
		Endpoints:     crud.Standard("Product"),
		TwoStepCreate: true,
		ItemID:        func(p Product) int64 { return p.ID },
		Columns: []crud.Column[Product]{
			idColumn(func(p Product) int64 { return p.ID }),
			{Key: "image", Header: "image", Cell: func(p Product) template.HTML { return crud.Image(p.Image) }},
			textColumn("nameEN", "name_en", func(p Product) string { return p.NameEN }),
			textColumn("nameAR", "name_ar", func(p Product) string { return p.NameAR }),
			textColumn("category", "category", func(p Product) string { return p.CategoryNameEN }),
			textColumn("company", "company", func(p Product) string { return p.CompanyNameEN }),
			{Key: "price", Header: "basic_price", ClassName: "num", Cell: func(p Product) template.HTML { return unitPrice(p.BigUnit) }},
			{Key: "isActive", Header: "active", Cell: func(p Product) template.HTML { return crud.Check(p.IsActive) }},
			{Key: "upload", Header: "image", Cell: func(p Product) template.HTML {
				return crud.Link(itemPath("uploads/product", p.ID, ""), "⤒", "btn btn-sm")
			}},
			actionsColumn[Product](),
		},
		Filters: []crud.Filter{
			{Param: "CategoryId", Label: "category", Kind: crud.KindSelect, Lookup: LookupCategories},
			{Param: "CompanyId", Label: "company", Kind: crud.KindSelect, Lookup: LookupCompanies},
		},
		NewForm:       func() crud.Form { return &ProductForm{basics: basics{notes: true}, IsActive: true} },
		EditForm:      func(p Product) crud.Form { return productForm(p) },
		DeleteWarning: "delete_product_warning",
		Debounce:      true,
	}
}

// ProductSource feeds the item composer from the product endpoints.
type ProductSource struct {
	Endpoints crud.Endpoints
}

// NewProductSource uses the standard product endpoints.
func NewProductSource() ProductSource {
	return ProductSource{Endpoints: crud.Standard("Product")}
}

// Search returns the first page of products matching term.
func (s ProductSource) Search(ctx context.Context, conn *backend.Conn, term string) ([]composer.Product, error) {
	page, err := backend.List[Product](ctx, conn, s.Endpoints.List, backend.ListQuery{Page: 1, PageSize: 20, Search: term})
	if err != nil {
		return nil, err
	}
	out := make([]composer.Product, 0, len(page.Items))
	for _, p := range page.Items {
		out = append(out, p.Pickable())
	}
	return out, nil
}

// Get loads one product with its units.
func (s ProductSource) Get(ctx context.Context, conn *backend.Conn, id int64) (composer.Product, error) {
	p, err := backend.Get[Product](ctx, conn, s.Endpoints.Get, id)
	if err != nil {
		return composer.Product{}, err
	}
	return p.Pickable(), nil
}

// WholesaleProduct is sold to businesses, per company.
type WholesaleProduct struct {
	ID                  int64   `json:"id"`
	NameEN              string  `json:"nameEN"`
	NameAR              string  `json:"nameAR"`
	NoteEN              *string `json:"noteEN"`
	NoteAR              *string `json:"noteAR"`
	Arrange             int     `json:"arrange"`
	CompanyID           int64   `json:"companyId"`
	CategoryID          int64   `json:"categoryId"`
	Price               float64 `json:"price"`
	MinimumQuantity     int     `json:"minimumQuantity"`
	SellByCustomValue   bool    `json:"sellByCustomValue"`
	CustomValue         float64 `json:"customValue"`
	HasMaxAmountPerUser bool    `json:"hasMaxAmountPerUser"`
	MaxAmountPerUser    int     `json:"maxAmountPerUser"`
	IsActive            bool    `json:"isActive"`
	CompanyNameEN       string  `json:"companyNameEN,omitempty"`
}

// WholesaleForm edits a WholesaleProduct. The category options depend on
// the chosen company. The gated values keep what was typed while their flag
// is off; the payload sends zero for them instead.
type WholesaleForm struct {
	basics
	CompanyID           int64
	CategoryID          int64
	Price               float64
	MinimumQuantity     int
	SellByCustomValue   bool
	CustomValue         float64
	HasMaxAmountPerUser bool
	MaxAmountPerUser    int
	IsActive            bool
}

func (f *WholesaleForm) Fields() []crud.Field {
	return append(f.fields(),
		crud.Field{Name: "companyId", Label: "company", Kind: crud.KindSelect, Required: true, Lookup: LookupCompanies},
		crud.Field{Name: "categoryId", Label: "category", Kind: crud.KindSelect, Required: true, Lookup: LookupCategoriesByCompany, DependsOn: "companyId"},
		crud.Field{Name: "price", Label: "price", Kind: crud.KindDecimal, Required: true, Step: "0.01"},
		crud.Field{Name: "minimumQuantity", Label: "minimum_quantity", Kind: crud.KindNumber},
		crud.Field{Name: "sellByCustomValue", Label: "sell_by_custom_value", Kind: crud.KindCheckbox},
		crud.Field{Name: "customValue", Label: "custom_value", Kind: crud.KindDecimal, ShowIf: "sellByCustomValue", Step: "0.01"},
		crud.Field{Name: "hasMaxAmountPerUser", Label: "has_max_amount_per_user", Kind: crud.KindCheckbox},
		crud.Field{Name: "maxAmountPerUser", Label: "max_amount_per_user", Kind: crud.KindNumber, ShowIf: "hasMaxAmountPerUser"},
		crud.Field{Name: "isActive", Label: "active", Kind: crud.KindCheckbox},
	)
}

func (f *WholesaleForm) Values() url.Values {
	v := url.Values{}
	f.values(v)
	v.Set("companyId", crud.FormatID(f.CompanyID))
	v.Set("categoryId", crud.FormatID(f.CategoryID))
	v.Set("price", crud.FormatFloat(f.Price))
	v.Set("minimumQuantity", strconv.Itoa(f.MinimumQuantity))
	crud.FormatBool(v, "sellByCustomValue", f.SellByCustomValue)
	v.Set("customValue", crud.FormatFloat(f.CustomValue))
	crud.FormatBool(v, "hasMaxAmountPerUser", f.HasMaxAmountPerUser)
	v.Set("maxAmountPerUser", strconv.Itoa(f.MaxAmountPerUser))
	crud.FormatBool(v, "isActive", f.IsActive)
	return v
}

func (f *WholesaleForm) Decode(d *crud.Decoder) {
	f.decode(d)
	f.CompanyID = d.ID("companyId")
	f.CategoryID = d.ID("categoryId")
	f.Price = d.Float("price")
	f.MinimumQuantity = d.Int("minimumQuantity")
	f.SellByCustomValue = d.Bool("sellByCustomValue")
	f.CustomValue = d.Float("customValue")
	f.HasMaxAmountPerUser = d.Bool("hasMaxAmountPerUser")
	f.MaxAmountPerUser = d.Int("maxAmountPerUser")
	f.IsActive = d.Bool("isActive")
}

func (f *WholesaleForm) Validate(v validation.Violations) {
	f.validate(v)
	validation.RequiredID("companyId", f.CompanyID, v)
	validation.RequiredID("categoryId", f.CategoryID, v)
	validation.PositiveFloat("price", f.Price, v)
	validation.NonNegativeInt("minimumQuantity", f.MinimumQuantity, v)
	if f.SellByCustomValue {
		validation.PositiveFloat("customValue", f.CustomValue, v)
	}
	if f.HasMaxAmountPerUser {
		validation.PositiveFloat("maxAmountPerUser", float64(f.MaxAmountPerUser), v)
	}
}

func (f *WholesaleForm) Payload(id int64) any {
	w := WholesaleProduct{
		ID:                  id,
		NameEN:              f.NameEN,
		NameAR:              f.NameAR,
		NoteEN:              crud.Nullable(f.NoteEN),
		NoteAR:              crud.Nullable(f.NoteAR),
		Arrange:             f.Arrange,
		CompanyID:           f.CompanyID,
		CategoryID:          f.CategoryID,
		Price:               f.Price,
		MinimumQuantity:     f.MinimumQuantity,
		SellByCustomValue:   f.SellByCustomValue,
		HasMaxAmountPerUser: f.HasMaxAmountPerUser,
		IsActive:            f.IsActive,
	}
	if f.SellByCustomValue {
		w.CustomValue = f.CustomValue
	}
	if f.HasMaxAmountPerUser {
		w.MaxAmountPerUser = f.MaxAmountPerUser
	}
	return w
}

// WholesaleProducts is the wholesale product screen.
func WholesaleProducts() crud.Resource[WholesaleProduct] {
	return crud.Resource[WholesaleProduct]{
		Name:      "wholesale-products",
		Title:     "wholesale_products",
		Endpoints: crud.Standard("WholesaleProduct"),
		ItemID:    func(w WholesaleProduct) int64 { return w.ID },
		Columns: []crud.Column[WholesaleProduct]{
			idColumn(func(w WholesaleProduct) int64 { return w.ID }),
			textColumn("nameEN", "name_en", func(w WholesaleProduct) string { return w.NameEN }),
			textColumn("nameAR", "name_ar", func(w WholesaleProduct) string { return w.NameAR }),
			textColumn("company", "company", func(w WholesaleProduct) string { return w.CompanyNameEN }),
			{Key: "price", Header: "price", ClassName: "num", Cell: func(w WholesaleProduct) template.HTML { return crud.Decimal(w.Price) }},
			{Key: "isActive", Header: "active", Cell: func(w WholesaleProduct) template.HTML { return crud.Check(w.IsActive) }},
			actionsColumn[WholesaleProduct](),
		},
		Filters: []crud.Filter{
			{Param: "CompanyId", Label: "company", Kind: crud.KindSelect, Lookup: LookupCompanies},
		},
		NewForm: func() crud.Form { return &WholesaleForm{basics: basics{notes: true}, IsActive: true} },
		EditForm: func(w WholesaleProduct) crud.Form {
			return &WholesaleForm{
				basics:              newBasics(w.NameEN, w.NameAR, w.NoteEN, w.NoteAR, w.Arrange, true),
				CompanyID:           w.CompanyID,
				CategoryID:          w.CategoryID,
				Price:               w.Price,
				MinimumQuantity:     w.MinimumQuantity,
				SellByCustomValue:   w.SellByCustomValue,
				CustomValue:         w.CustomValue,
				HasMaxAmountPerUser: w.HasMaxAmountPerUser,
				MaxAmountPerUser:    w.MaxAmountPerUser,
				IsActive:            w.IsActive,
			}
		},
		Debounce: true,
	}
}
