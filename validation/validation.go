package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Violations maps a form field name to a translation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
// The first problem found for a field is the one shown to the user.
func (v Violations) Add(field, code string) {
	if _, exists := v[field]; exists {
		return
	}
	v[field] = code
}

// Merge copies other into v without overwriting existing entries.
func (v Violations) Merge(other Violations) {
	for f, c := range other {
		v.Add(f, c)
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v.Add(field, "must_be_positive")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v.Add(field, "must_not_be_negative")
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v.Add(field, "must_not_be_negative")
	}
}

// RequiredID flags a missing reference (zero or negative id).
func RequiredID(field string, id int64, v Violations) {
	if id <= 0 {
		v.Add(field, "required")
	}
}

func MaxLen(field, value string, n int, v Violations) {
	if utf8.RuneCountInString(value) > n {
		v.Add(field, "too_long")
	}
}

var phonePattern = regexp.MustCompile(`^\+?[0-9 ]{6,20}$`)

// Phone accepts digits and spaces with an optional leading plus. Empty is allowed.
func Phone(field, value string, v Violations) {
	value = strings.TrimSpace(value)
	if value != "" && !phonePattern.MatchString(value) {
		v.Add(field, "invalid_phone")
	}
}

// DateOrder requires to >= from when both are set. The violation lands on toField.
func DateOrder(toField string, from, to time.Time, v Violations) {
	if from.IsZero() || to.IsZero() {
		return
	}
	if to.Before(from) {
		v.Add(toField, "invalid_range")
	}
}
