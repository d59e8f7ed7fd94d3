package resources

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/diewo77/store-admin/internal/composer"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/validation"
)

// OfferTarget creates offer items from the composer.
var OfferTarget = composer.Target{
	Name:        "offer",
	Route:       "offers",
	Resource:    "offers",
	Title:       "offer_items",
	ParentGet:   "/Offer/Get",
	ItemsList:   "/OfferItem/List",
	ItemCreate:  "/OfferItem/Create",
	ParentParam: "OfferId",
	ParentKey:   "offerId",
}

// SpotlightTarget creates spotlight items from the composer.
var SpotlightTarget = composer.Target{
	Name:        "spotlight",
	Route:       "spotlights",
	Resource:    "spotlights",
	Title:       "spotlight_items",
	ParentGet:   "/Spotlight/Get",
	ItemsList:   "/SpotlightItem/List",
	ItemCreate:  "/SpotlightItem/Create",
	ParentParam: "SpotlightId",
	ParentKey:   "spotlightId",
}

// dateValue reduces a backend timestamp to the date input format.
func dateValue(s string) string {
	t := crud.ParseDate(s)
	if t.IsZero() {
		return ""
	}
	return t.Format(crud.DateLayout)
}

// period is the validity window shared by offers, spotlights and coupons.
type period struct {
	FromDate string
	ToDate   string
}

func (p *period) fields() []crud.Field {
	return []crud.Field{
		{Name: "fromDate", Label: "from_date", Kind: crud.KindDate, Required: true},
		{Name: "toDate", Label: "to_date", Kind: crud.KindDate, Required: true},
	}
}

func (p *period) values(v url.Values) {
	v.Set("fromDate", p.FromDate)
	v.Set("toDate", p.ToDate)
}

func (p *period) decode(d *crud.Decoder) {
	p.FromDate = d.Date("fromDate")
	p.ToDate = d.Date("toDate")
}

func (p *period) validate(v validation.Violations) {
	validation.Required("fromDate", p.FromDate, v)
	validation.Required("toDate", p.ToDate, v)
	validation.DateOrder("toDate", crud.ParseDate(p.FromDate), crud.ParseDate(p.ToDate), v)
}

// Offer is a time-boxed set of discounted products.
type Offer struct {
	ID          int64  `json:"id"`
	NameEN      string `json:"nameEN"`
	NameAR      string `json:"nameAR"`
	Arrange     int    `json:"arrange"`
	FromDate    string `json:"fromDate"`
	ToDate      string `json:"toDate"`
	IsActive    bool   `json:"isActive"`
	Image       string `json:"image,omitempty"`
	CreatedDate string `json:"createdDate,omitempty"`
}

// OfferForm edits an Offer.
type OfferForm struct {
	basics
	period
	IsActive bool
	image    string
}

func (f *OfferForm) Fields() []crud.Field {
	fs := append(f.basics.fields(), f.period.fields()...)
	return append(fs, crud.Field{Name: "isActive", Label: "active", Kind: crud.KindCheckbox})
}

func (f *OfferForm) Values() url.Values {
	v := url.Values{}
	f.basics.values(v)
	f.period.values(v)
	crud.FormatBool(v, "isActive", f.IsActive)
	return v
}

func (f *OfferForm) Decode(d *crud.Decoder) {
	f.basics.decode(d)
	f.period.decode(d)
	f.IsActive = d.Bool("isActive")
}

func (f *OfferForm) Validate(v validation.Violations) {
	f.basics.validate(v)
	f.period.validate(v)
}

func (f *OfferForm) Payload(id int64) any {
	return Offer{
		ID:       id,
		NameEN:   f.NameEN,
		NameAR:   f.NameAR,
		Arrange:  f.Arrange,
		FromDate: f.FromDate,
		ToDate:   f.ToDate,
		IsActive: f.IsActive,
		Image:    f.image,
	}
}

// Offers is the offer screen; each row links to its item composer.
func Offers() crud.Resource[Offer] {
	return crud.Resource[Offer]{
		Name:      "offers",
		Title:     "offers",
		Endpoints: crud.Standard("Offer"),
		ItemID:    func(o Offer) int64 { return o.ID },
		Columns: []crud.Column[Offer]{
			idColumn(func(o Offer) int64 { return o.ID }),
			{Key: "image", Header: "image", Cell: func(o Offer) template.HTML { return crud.Image(o.Image) }},
			textColumn("nameEN", "name_en", func(o Offer) string { return o.NameEN }),
			textColumn("nameAR", "name_ar", func(o Offer) string { return o.NameAR }),
			dateColumn("fromDate", "from_date", func(o Offer) string { return o.FromDate }),
			dateColumn("toDate", "to_date", func(o Offer) string { return o.ToDate }),
			{Key: "isActive", Header: "active", Cell: func(o Offer) template.HTML { return crud.Check(o.IsActive) }},
			{Key: "items", Header: "items", Cell: func(o Offer) template.HTML {
				return crud.Link(itemPath("offers", o.ID, "/items"), "+", "btn btn-sm")
			}},
			actionsColumn[Offer](),
		},
		Filters: []crud.Filter{
			{Param: "IsActive", Label: "active", Kind: crud.KindSelect, Options: activeOptions},
		},
		NewForm: func() crud.Form { return &OfferForm{IsActive: true} },
		EditForm: func(o Offer) crud.Form {
			return &OfferForm{
				basics:   newBasics(o.NameEN, o.NameAR, nil, nil, o.Arrange, false),
				period:   period{FromDate: dateValue(o.FromDate), ToDate: dateValue(o.ToDate)},
				IsActive: o.IsActive,
				image:    o.Image,
			}
		},
		DeleteWarning: "delete_offer_warning",
	}
}

var activeOptions = []crud.Option{
	{Value: "true", Label: "Active", LabelAR: "نشط"},
	{Value: "false", Label: "Inactive", LabelAR: "غير نشط"},
}

// Spotlight is a home screen banner group with its own product list.
type Spotlight struct {
	ID           int64    `json:"id"`
	NameEN       string   `json:"nameEN"`
	NameAR       string   `json:"nameAR"`
	Arrange      int      `json:"arrange"`
	FromDate     string   `json:"fromDate"`
	ToDate       string   `json:"toDate"`
	IsActive     bool     `json:"isActive"`
	BannerImages []string `json:"bannerImages,omitempty"`
}

// SpotlightForm edits a Spotlight; banners are managed by upload.
type SpotlightForm struct {
	OfferForm
	banners []string
}

func (f *SpotlightForm) Payload(id int64) any {
	return Spotlight{
		ID:           id,
		NameEN:       f.NameEN,
		NameAR:       f.NameAR,
		Arrange:      f.Arrange,
		FromDate:     f.FromDate,
		ToDate:       f.ToDate,
		IsActive:     f.IsActive,
		BannerImages: f.banners,
	}
}

// Spotlights is the spotlight screen.
func Spotlights() crud.Resource[Spotlight] {
	return crud.Resource[Spotlight]{
		Name:      "spotlights",
		Title:     "spotlights",
		Endpoints: crud.Standard("Spotlight"),
		ItemID:    func(s Spotlight) int64 { return s.ID },
		Columns: []crud.Column[Spotlight]{
			idColumn(func(s Spotlight) int64 { return s.ID }),
			textColumn("nameEN", "name_en", func(s Spotlight) string { return s.NameEN }),
			textColumn("nameAR", "name_ar", func(s Spotlight) string { return s.NameAR }),
			dateColumn("fromDate", "from_date", func(s Spotlight) string { return s.FromDate }),
			dateColumn("toDate", "to_date", func(s Spotlight) string { return s.ToDate }),
			{Key: "banners", Header: "banners", ClassName: "num", Cell: func(s Spotlight) template.HTML {
				return crud.Int(int64(len(s.BannerImages)))
			}},
			{Key: "isActive", Header: "active", Cell: func(s Spotlight) template.HTML { return crud.Check(s.IsActive) }},
			{Key: "items", Header: "items", Cell: func(s Spotlight) template.HTML {
				return crud.Join(
					crud.Link(itemPath("spotlights", s.ID, "/items"), "+", "btn btn-sm"),
					crud.Link(itemPath("uploads/spotlight", s.ID, ""), "⤒", "btn btn-sm"),
				)
			}},
			actionsColumn[Spotlight](),
		},
		Filters: []crud.Filter{
			{Param: "IsActive", Label: "active", Kind: crud.KindSelect, Options: activeOptions},
		},
		NewForm: func() crud.Form { return &SpotlightForm{OfferForm: OfferForm{IsActive: true}} },
		EditForm: func(s Spotlight) crud.Form {
			return &SpotlightForm{
				OfferForm: OfferForm{
					basics:   newBasics(s.NameEN, s.NameAR, nil, nil, s.Arrange, false),
					period:   period{FromDate: dateValue(s.FromDate), ToDate: dateValue(s.ToDate)},
					IsActive: s.IsActive,
				},
				banners: s.BannerImages,
			}
		},
	}
}

// Coupon is a discount code.
type Coupon struct {
	ID              int64   `json:"id"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discountPercent"`
	MaxDiscount     float64 `json:"maxDiscount"`
	FromDate        string  `json:"fromDate"`
	ToDate          string  `json:"toDate"`
	UsageLimit      int     `json:"usageLimit"`
	UsedCount       int     `json:"usedCount,omitempty"`
	IsActive        bool    `json:"isActive"`
}

// CouponForm edits a Coupon. Codes are stored upper case.
type CouponForm struct {
	period
	Code            string
	DiscountPercent float64
	MaxDiscount     float64
	UsageLimit      int
	IsActive        bool
}

func (f *CouponForm) Fields() []crud.Field {
	fs := []crud.Field{
		{Name: "code", Label: "code", Kind: crud.KindText, Required: true, MaxLen: 30},
		{Name: "discountPercent", Label: "discount_percent", Kind: crud.KindDecimal, Required: true, Step: "0.01"},
		{Name: "maxDiscount", Label: "max_discount", Kind: crud.KindDecimal, Step: "0.01"},
	}
	fs = append(fs, f.period.fields()...)
	return append(fs,
		crud.Field{Name: "usageLimit", Label: "usage_limit", Kind: crud.KindNumber, Help: "usage_limit_help"},
		crud.Field{Name: "isActive", Label: "active", Kind: crud.KindCheckbox},
	)
}

func (f *CouponForm) Values() url.Values {
	v := url.Values{}
	v.Set("code", f.Code)
	v.Set("discountPercent", crud.FormatFloat(f.DiscountPercent))
	v.Set("maxDiscount", crud.FormatFloat(f.MaxDiscount))
	f.period.values(v)
	v.Set("usageLimit", strconv.Itoa(f.UsageLimit))
	crud.FormatBool(v, "isActive", f.IsActive)
	return v
}

func (f *CouponForm) Decode(d *crud.Decoder) {
	f.Code = strings.ToUpper(d.String("code"))
	f.DiscountPercent = d.Float("discountPercent")
	f.MaxDiscount = d.Float("maxDiscount")
	f.period.decode(d)
	f.UsageLimit = d.Int("usageLimit")
	f.IsActive = d.Bool("isActive")
}

func (f *CouponForm) Validate(v validation.Violations) {
	validation.Required("code", f.Code, v)
	validation.MaxLen("code", f.Code, 30, v)
	validation.RangeFloat("discountPercent", f.DiscountPercent, 0.01, 100, v)
	validation.NonNegativeFloat("maxDiscount", f.MaxDiscount, v)
	f.period.validate(v)
	validation.NonNegativeInt("usageLimit", f.UsageLimit, v)
}

func (f *CouponForm) Payload(id int64) any {
	return Coupon{
		ID:              id,
		Code:            f.Code,
		DiscountPercent: f.DiscountPercent,
		MaxDiscount:     f.MaxDiscount,
		FromDate:        f.FromDate,
		ToDate:          f.ToDate,
		UsageLimit:      f.UsageLimit,
		IsActive:        f.IsActive,
	}
}

// Coupons is the coupon screen.
func Coupons() crud.Resource[Coupon] {
	return crud.Resource[Coupon]{
		Name:      "coupons",
		Title:     "coupons",
		Endpoints: crud.Standard("Coupon"),
		ItemID:    func(c Coupon) int64 { return c.ID },
		Columns: []crud.Column[Coupon]{
			idColumn(func(c Coupon) int64 { return c.ID }),
			{Key: "code", Header: "code", Cell: func(c Coupon) template.HTML { return crud.Badge(c.Code) }},
			{Key: "discountPercent", Header: "discount_percent", ClassName: "num", Cell: func(c Coupon) template.HTML {
				return crud.Decimal(c.DiscountPercent)
			}},
			dateColumn("fromDate", "from_date", func(c Coupon) string { return c.FromDate }),
			dateColumn("toDate", "to_date", func(c Coupon) string { return c.ToDate }),
			{Key: "usage", Header: "usage_limit", ClassName: "num", Cell: func(c Coupon) template.HTML {
				return crud.Text(strconv.Itoa(c.UsedCount) + " / " + strconv.Itoa(c.UsageLimit))
			}},
			{Key: "isActive", Header: "active", Cell: func(c Coupon) template.HTML { return crud.Check(c.IsActive) }},
			actionsColumn[Coupon](),
		},
		Filters: []crud.Filter{
			{Param: "IsActive", Label: "active", Kind: crud.KindSelect, Options: activeOptions},
		},
		NewForm: func() crud.Form { return &CouponForm{IsActive: true} },
		EditForm: func(c Coupon) crud.Form {
			return &CouponForm{
				period:          period{FromDate: dateValue(c.FromDate), ToDate: dateValue(c.ToDate)},
				Code:            c.Code,
				DiscountPercent: c.DiscountPercent,
				MaxDiscount:     c.MaxDiscount,
				UsageLimit:      c.UsageLimit,
				IsActive:        c.IsActive,
			}
		},
	}
}
