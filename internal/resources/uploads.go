package resources

// UploadTarget describes one image upload: the multipart field carrying
// the file(s) and the field naming the owner record.
type UploadTarget struct {
	Kind string
	// Resource is the permission resource and list route.
	Resource  string
	Title     string
	Path      string
	GetPath   string
	IDField   string
	FileField string
	Multiple  bool
}

// UploadTargets are keyed by the {kind} URL segment.
var UploadTargets = map[string]UploadTarget{
	"product": {
		Kind: "product", Resource: "products", Title: "product_image",
		Path: "/Product/UploadImage", GetPath: "/Product/Get",
		IDField: "ItemId", FileField: "Image",
	},
	"company": {
		Kind: "company", Resource: "companies", Title: "company_logo",
		Path: "/Company/UploadImage", GetPath: "/Company/Get",
		IDField: "CompanyId", FileField: "Image",
	},
	"flavour": {
		Kind: "flavour", Resource: "flavours", Title: "flavour_image",
		Path: "/Flavour/UploadImage", GetPath: "/Flavour/Get",
		IDField: "FlavourId", FileField: "Image",
	},
	"spotlight": {
		Kind: "spotlight", Resource: "spotlights", Title: "spotlight_banners",
		Path: "/Spotlight/UploadBanners", GetPath: "/Spotlight/Get",
		IDField: "ItemId", FileField: "BannerImages", Multiple: true,
	},
}

// Uploaded is the part of the owner record the upload page shows.
type Uploaded struct {
	ID           int64    `json:"id"`
	NameEN       string   `json:"nameEN"`
	NameAR       string   `json:"nameAR"`
	Image        string   `json:"image"`
	BannerImages []string `json:"bannerImages"`
}

// Images lists the current images, banners first.
func (u Uploaded) Images() []string {
	if len(u.BannerImages) > 0 {
		return u.BannerImages
	}
	if u.Image != "" {
		return []string{u.Image}
	}
	return nil
}
