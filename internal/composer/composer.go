// Package composer implements the "add items" picker of offers and
// spotlights: a product is chosen, then one of its units, whose prices are
// filled in; the resulting lines accumulate in a per-operator draft and are
// submitted as individual create calls.
package composer

import (
	"errors"

	"github.com/diewo77/store-admin/validation"
)

// State is the composer step.
type State string

const (
	StateEmpty           State = "empty"
	StateProductSelected State = "product_selected"
	StateUnitSelected    State = "unit_selected"
	StatePriceFilled     State = "price_filled"
	StateAdded           State = "added"
)

var (
	ErrNoProduct   = errors.New("composer: no product selected")
	ErrUnknownUnit = errors.New("composer: unit not offered by product")
	ErrIncomplete  = errors.New("composer: line is not complete")
	ErrNoLine      = errors.New("composer: no such line")
)

// Unit is one sellable unit of a product with its prices.
type Unit struct {
	ID           int64   `json:"id"`
	NameEN       string  `json:"nameEN"`
	NameAR       string  `json:"nameAR"`
	BasicPrice   float64 `json:"basicPrice"`
	SpecialPrice float64 `json:"specialPrice"`
}

// Product is a pickable product and the units derived from it.
type Product struct {
	ID     int64  `json:"id"`
	NameEN string `json:"nameEN"`
	NameAR string `json:"nameAR"`
	Units  []Unit `json:"units"`
}

// Unit returns the unit with id.
func (p Product) Unit(id int64) (Unit, bool) {
	for _, u := range p.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// Line is one accumulated item. Error holds the backend message of a failed submit.
type Line struct {
	ProductID    int64   `json:"productId"`
	ProductEN    string  `json:"productEN"`
	ProductAR    string  `json:"productAR"`
	UnitID       int64   `json:"unitId"`
	UnitEN       string  `json:"unitEN"`
	UnitAR       string  `json:"unitAR"`
	BasicPrice   float64 `json:"basicPrice"`
	SpecialPrice float64 `json:"specialPrice"`
	Error        string  `json:"error,omitempty"`
}

// Composer is the picker state plus the accumulated lines. It is what a
// draft persists.
type Composer struct {
	State        State    `json:"state"`
	Product      *Product `json:"product,omitempty"`
	UnitID       int64    `json:"unitId,omitempty"`
	BasicPrice   float64  `json:"basicPrice,omitempty"`
	SpecialPrice float64  `json:"specialPrice,omitempty"`
	Lines        []Line   `json:"lines"`
}

// New returns an empty composer.
func New() *Composer {
	return &Composer{State: StateEmpty, Lines: []Line{}}
}

func (c *Composer) clearPick() {
	c.Product = nil
	c.UnitID = 0
	c.BasicPrice = 0
	c.SpecialPrice = 0
}

// SelectProduct starts a new line for p. Any unit and prices picked for the
// previous product are cleared.
func (c *Composer) SelectProduct(p Product) {
	c.clearPick()
	c.Product = &p
	c.State = StateProductSelected
}

// SelectUnit picks a unit of the selected product and copies its prices,
// overwriting whatever was entered before.
func (c *Composer) SelectUnit(id int64) error {
	if c.Product == nil {
		return ErrNoProduct
	}
	u, ok := c.Product.Unit(id)
	if !ok {
		return ErrUnknownUnit
	}
	c.UnitID = u.ID
	c.BasicPrice = u.BasicPrice
	c.SpecialPrice = u.SpecialPrice
	c.State = StateUnitSelected
	if c.BasicPrice > 0 {
		c.State = StatePriceFilled
	}
	return nil
}

// SetPrices overrides the prices of the selected unit.
func (c *Composer) SetPrices(basic, special float64) validation.Violations {
	v := validation.Violations{}
	if c.Product == nil || c.UnitID == 0 {
		v.Add("unitId", "required")
		return v
	}
	validation.PositiveFloat("basicPrice", basic, v)
	validation.NonNegativeFloat("specialPrice", special, v)
	c.BasicPrice = basic
	c.SpecialPrice = special
	if v.Empty() {
		c.State = StatePriceFilled
	} else {
		c.State = StateUnitSelected
	}
	return v
}

// Add appends the current pick as a line. Lines are not deduplicated.
func (c *Composer) Add() error {
	if c.State != StatePriceFilled || c.Product == nil {
		return ErrIncomplete
	}
	u, _ := c.Product.Unit(c.UnitID)
	c.Lines = append(c.Lines, Line{
		ProductID:    c.Product.ID,
		ProductEN:    c.Product.NameEN,
		ProductAR:    c.Product.NameAR,
		UnitID:       u.ID,
		UnitEN:       u.NameEN,
		UnitAR:       u.NameAR,
		BasicPrice:   c.BasicPrice,
		SpecialPrice: c.SpecialPrice,
	})
	c.clearPick()
	c.State = StateAdded
	return nil
}

// Remove drops line i and resets the picker.
func (c *Composer) Remove(i int) error {
	if i < 0 || i >= len(c.Lines) {
		return ErrNoLine
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.clearPick()
	c.State = StateEmpty
	return nil
}

// Discard forgets every line and the current pick.
func (c *Composer) Discard() {
	c.clearPick()
	c.Lines = []Line{}
	c.State = StateEmpty
}
