package crud

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/store-admin/validation"
)

// Kind selects the input widget of a field.
type Kind string

const (
	KindText        Kind = "text"
	KindTextarea    Kind = "textarea"
	KindNumber      Kind = "number"
	KindDecimal     Kind = "decimal"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
	KindCheckbox    Kind = "checkbox"
	KindDate        Kind = "date"
	KindHidden      Kind = "hidden"
)

// DateLayout is the wire and input format of date fields.
const DateLayout = "2006-01-02"

// Option is one entry of a select. LabelAR is shown to Arabic readers when set.
type Option struct {
	Value   string
	Label   string
	LabelAR string
}

// Field describes one form input. Label is a translation code.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	// Lookup names the resource lookup filling the options of a select.
	Lookup string
	// Options are used when Lookup is empty.
	Options []Option
	// ShowIf names a checkbox field; the input is hidden, not removed, while it is off.
	ShowIf string
	// DependsOn names the field whose value parents the lookup.
	DependsOn string
	MaxLen    int
	Step      string
	Help      string
}

// Form is the typed form of one resource. Values is the canonical encoding
// used both to render the inputs and to detect unsaved changes.
type Form interface {
	Fields() []Field
	Values() url.Values
	Decode(d *Decoder)
	Validate(v validation.Violations)
	// Payload builds the request body; id is 0 for a plain create.
	Payload(id int64) any
}

// Decoder coerces posted strings into typed values, recording a violation
// for every value that does not parse.
type Decoder struct {
	vals url.Values
	v    validation.Violations
}

// NewDecoder wraps posted form values.
func NewDecoder(vals url.Values) *Decoder {
	return &Decoder{vals: vals, v: validation.Violations{}}
}

// Violations returns the coercion errors found so far.
func (d *Decoder) Violations() validation.Violations { return d.v }

// String returns the trimmed value.
func (d *Decoder) String(name string) string {
	return strings.TrimSpace(d.vals.Get(name))
}

// Int parses an integer; empty is zero.
func (d *Decoder) Int(name string) int {
	s := d.String(name)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		d.v.Add(name, "invalid_number")
		return 0
	}
	return n
}

// ID parses a reference id; empty is zero.
func (d *Decoder) ID(name string) int64 {
	s := d.String(name)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d.v.Add(name, "invalid_number")
		return 0
	}
	return n
}

// IDs parses every value of a multi-select.
func (d *Decoder) IDs(name string) []int64 {
	out := []int64{}
	for _, s := range d.vals[name] {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			d.v.Add(name, "invalid_number")
			continue
		}
		out = append(out, n)
	}
	return out
}

// Float parses a decimal; a comma decimal separator is accepted.
func (d *Decoder) Float(name string) float64 {
	s := strings.ReplaceAll(d.String(name), ",", ".")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		d.v.Add(name, "invalid_number")
		return 0
	}
	return f
}

// Bool reads a checkbox.
func (d *Decoder) Bool(name string) bool {
	switch strings.ToLower(d.String(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Date validates a yyyy-mm-dd value and returns it unchanged, or "".
func (d *Decoder) Date(name string) string {
	s := d.String(name)
	if s == "" {
		return ""
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		d.v.Add(name, "invalid_date")
		return ""
	}
	return s
}

// ParseDate parses a yyyy-mm-dd or backend timestamp; invalid input is the zero time.
func ParseDate(s string) time.Time {
	if len(s) >= len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Nullable maps "" to nil so blank optional text is sent as JSON null.
func Nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref is the inverse of Nullable.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FormatID encodes a reference id, leaving the zero id blank.
func FormatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// FormatIDs encodes the values of a multi-select.
func FormatIDs(ids []int64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out
}

// FormatFloat encodes a decimal without trailing zeros.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatBool encodes a checkbox; false is omitted like an unchecked box.
func FormatBool(vals url.Values, name string, b bool) {
	if b {
		vals.Set(name, "on")
	}
}
