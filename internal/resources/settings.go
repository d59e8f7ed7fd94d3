package resources

import (
	"net/url"

	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/validation"
)

// Settings endpoints; the backend keeps a single row.
const (
	SettingsGet    = "/Setting/Get"
	SettingsUpdate = "/Setting/Update"
)

// Setting is the store-wide configuration.
type Setting struct {
	ID              int64   `json:"id"`
	StoreNameEN     string  `json:"storeNameEN"`
	StoreNameAR     string  `json:"storeNameAR"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	WhatsApp        string  `json:"whatsApp"`
	MinimumOrder    float64 `json:"minimumOrder"`
	IsStoreOpen     bool    `json:"isStoreOpen"`
	ClosedMessageEN *string `json:"closedMessageEN"`
	ClosedMessageAR *string `json:"closedMessageAR"`
	AppVersion      string  `json:"appVersion"`
	ForceUpdate     bool    `json:"forceUpdate"`
}

// SettingsForm edits the Setting singleton.
type SettingsForm struct {
	StoreNameEN     string
	StoreNameAR     string
	Phone           string
	Email           string
	WhatsApp        string
	MinimumOrder    float64
	IsStoreOpen     bool
	ClosedMessageEN string
	ClosedMessageAR string
	AppVersion      string
	ForceUpdate     bool
}

// NewSettingsForm fills the form from the stored settings.
func NewSettingsForm(s Setting) *SettingsForm {
	return &SettingsForm{
		StoreNameEN:     s.StoreNameEN,
		StoreNameAR:     s.StoreNameAR,
		Phone:           s.Phone,
		Email:           s.Email,
		WhatsApp:        s.WhatsApp,
		MinimumOrder:    s.MinimumOrder,
		IsStoreOpen:     s.IsStoreOpen,
		ClosedMessageEN: crud.Deref(s.ClosedMessageEN),
		ClosedMessageAR: crud.Deref(s.ClosedMessageAR),
		AppVersion:      s.AppVersion,
		ForceUpdate:     s.ForceUpdate,
	}
}

func (f *SettingsForm) Fields() []crud.Field {
	return []crud.Field{
		{Name: "storeNameEN", Label: "store_name_en", Kind: crud.KindText, Required: true, MaxLen: 100},
		{Name: "storeNameAR", Label: "store_name_ar", Kind: crud.KindText, Required: true, MaxLen: 100},
		{Name: "phone", Label: "phone", Kind: crud.KindText, MaxLen: 20},
		{Name: "whatsApp", Label: "whatsapp", Kind: crud.KindText, MaxLen: 20},
		{Name: "email", Label: "email", Kind: crud.KindText, MaxLen: 100},
		{Name: "minimumOrder", Label: "minimum_order", Kind: crud.KindDecimal, Step: "0.01"},
		{Name: "isStoreOpen", Label: "store_open", Kind: crud.KindCheckbox},
		{Name: "closedMessageEN", Label: "closed_message_en", Kind: crud.KindTextarea, MaxLen: 500},
		{Name: "closedMessageAR", Label: "closed_message_ar", Kind: crud.KindTextarea, MaxLen: 500},
		{Name: "appVersion", Label: "app_version", Kind: crud.KindText, MaxLen: 20},
		{Name: "forceUpdate", Label: "force_update", Kind: crud.KindCheckbox},
	}
}

func (f *SettingsForm) Values() url.Values {
	v := url.Values{}
	v.Set("storeNameEN", f.StoreNameEN)
	v.Set("storeNameAR", f.StoreNameAR)
	v.Set("phone", f.Phone)
	v.Set("whatsApp", f.WhatsApp)
	v.Set("email", f.Email)
	v.Set("minimumOrder", crud.FormatFloat(f.MinimumOrder))
	crud.FormatBool(v, "isStoreOpen", f.IsStoreOpen)
	v.Set("closedMessageEN", f.ClosedMessageEN)
	v.Set("closedMessageAR", f.ClosedMessageAR)
	v.Set("appVersion", f.AppVersion)
	crud.FormatBool(v, "forceUpdate", f.ForceUpdate)
	return v
}

func (f *SettingsForm) Decode(d *crud.Decoder) {
	f.StoreNameEN = d.String("storeNameEN")
	f.StoreNameAR = d.String("storeNameAR")
	f.Phone = d.String("phone")
	f.WhatsApp = d.String("whatsApp")
	f.Email = d.String("email")
	f.MinimumOrder = d.Float("minimumOrder")
	f.IsStoreOpen = d.Bool("isStoreOpen")
	f.ClosedMessageEN = d.String("closedMessageEN")
	f.ClosedMessageAR = d.String("closedMessageAR")
	f.AppVersion = d.String("appVersion")
	f.ForceUpdate = d.Bool("forceUpdate")
}

func (f *SettingsForm) Validate(v validation.Violations) {
	validation.Required("storeNameEN", f.StoreNameEN, v)
	validation.Required("storeNameAR", f.StoreNameAR, v)
	validation.MaxLen("storeNameEN", f.StoreNameEN, 100, v)
	validation.MaxLen("storeNameAR", f.StoreNameAR, 100, v)
	validation.Phone("phone", f.Phone, v)
	validation.Phone("whatsApp", f.WhatsApp, v)
	validation.MaxLen("email", f.Email, 100, v)
	validation.NonNegativeFloat("minimumOrder", f.MinimumOrder, v)
	validation.MaxLen("closedMessageEN", f.ClosedMessageEN, 500, v)
	validation.MaxLen("closedMessageAR", f.ClosedMessageAR, 500, v)
}

func (f *SettingsForm) Payload(id int64) any {
	return Setting{
		ID:              id,
		StoreNameEN:     f.StoreNameEN,
		StoreNameAR:     f.StoreNameAR,
		Phone:           f.Phone,
		Email:           f.Email,
		WhatsApp:        f.WhatsApp,
		MinimumOrder:    f.MinimumOrder,
		IsStoreOpen:     f.IsStoreOpen,
		ClosedMessageEN: crud.Nullable(f.ClosedMessageEN),
		ClosedMessageAR: crud.Nullable(f.ClosedMessageAR),
		AppVersion:      f.AppVersion,
		ForceUpdate:     f.ForceUpdate,
	}
}
