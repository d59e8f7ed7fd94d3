package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequiredKeepsFirstViolation(t *testing.T) {
	v := Violations{}
	Required("nameEN", "  ", v)
	MaxLen("nameEN", "", 3, v)
	v.Add("nameEN", "too_long")
	assert.Equal(t, "required", v["nameEN"])
	assert.False(t, v.Empty())
}

func TestNumericRules(t *testing.T) {
	v := Violations{}
	NonNegativeInt("arrange", -1, v)
	PositiveFloat("price", 0, v)
	RangeFloat("value", 120, 0, 100, v)
	NonNegativeFloat("fee", 0, v)
	RequiredID("categoryId", 0, v)
	assert.Equal(t, Violations{
		"arrange":    "must_not_be_negative",
		"price":      "must_be_positive",
		"value":      "out_of_range",
		"categoryId": "required",
	}, v)
}

func TestPhone(t *testing.T) {
	v := Violations{}
	Phone("phone", "", v)
	Phone("phone2", "+965 5555 1234", v)
	Phone("phone3", "abc", v)
	assert.Equal(t, Violations{"phone3": "invalid_phone"}, v)
}

func TestDateOrder(t *testing.T) {
	from := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	v := Violations{}
	DateOrder("toDate", from, from.AddDate(0, 0, -1), v)
	assert.Equal(t, "invalid_range", v["toDate"])

	v = Violations{}
	DateOrder("toDate", from, time.Time{}, v)
	assert.True(t, v.Empty())
}

func TestMerge(t *testing.T) {
	v := Violations{"a": "required"}
	v.Merge(Violations{"a": "too_long", "b": "required"})
	assert.Equal(t, Violations{"a": "required", "b": "required"}, v)
}
