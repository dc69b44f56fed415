package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/matst80/slask-facets/pkg/types"
)

// Change is one user action on the filter panel. The set of implementations is closed;
// Apply is the only way to get from one State to the next.
type Change interface {
	Kind() types.FacetKind
	apply(State) State
}

// ToggleRating selects a minimum rating, or clears it when it is already selected.
type ToggleRating struct{ Value int }

type ToggleBrand struct{ Value string }

type ToggleGender struct{ Value string }

type ToggleColor struct{ Value string }

type ToggleSize struct{ Value string }

// ToggleSubcategory toggles a leaf subcategory, whichever group it was rendered in.
type ToggleSubcategory struct{ Value string }

// SetPriceRange replaces both bounds, typically from a preset range.
type SetPriceRange struct{ Min, Max float64 }

// SetMaxPrice comes from the price slider, which always starts at 0.
type SetMaxPrice struct{ Max float64 }

// SetAvailability sets whether products without stock are hidden.
type SetAvailability struct{ ExcludeOutOfStock bool }

type SetCategory struct{ Category string }

func (ToggleRating) Kind() types.FacetKind      { return types.FacetRating }
func (ToggleBrand) Kind() types.FacetKind       { return types.FacetBrand }
func (ToggleGender) Kind() types.FacetKind      { return types.FacetGender }
func (ToggleColor) Kind() types.FacetKind       { return types.FacetColor }
func (ToggleSize) Kind() types.FacetKind        { return types.FacetSize }
func (ToggleSubcategory) Kind() types.FacetKind { return types.FacetSubcategory }
func (SetPriceRange) Kind() types.FacetKind     { return types.FacetPriceRange }
func (SetMaxPrice) Kind() types.FacetKind       { return types.FacetMaxPrice }
func (SetAvailability) Kind() types.FacetKind   { return types.FacetAvailability }
func (SetCategory) Kind() types.FacetKind       { return types.FacetCategory }

func (c ToggleRating) apply(s State) State {
	if c.Value < 0 || c.Value > MaxRating {
		return s
	}
	if s.Rating == c.Value {
		s.Rating = 0
	} else {
		s.Rating = c.Value
	}
	return s
}

func toggle(s State, kind types.FacetKind, value string) State {
	value = strings.TrimSpace(value)
	if value == "" {
		return s
	}
	sel, _ := s.selection(kind)
	return s.withSelection(kind, sel.toggled(value))
}

func (c ToggleBrand) apply(s State) State       { return toggle(s, types.FacetBrand, c.Value) }
func (c ToggleGender) apply(s State) State      { return toggle(s, types.FacetGender, c.Value) }
func (c ToggleColor) apply(s State) State       { return toggle(s, types.FacetColor, c.Value) }
func (c ToggleSize) apply(s State) State        { return toggle(s, types.FacetSize, c.Value) }
func (c ToggleSubcategory) apply(s State) State { return toggle(s, types.FacetSubcategory, c.Value) }

func (c SetPriceRange) apply(s State) State {
	if !isFinite(c.Min) || !isFinite(c.Max) {
		return s
	}
	lo, hi := max(c.Min, 0), max(c.Max, 0)
	if lo > hi {
		lo, hi = hi, lo
	}
	s.MinPrice, s.MaxPrice = lo, hi
	return s
}

func (c SetMaxPrice) apply(s State) State {
	return SetPriceRange{Min: 0, Max: c.Max}.apply(s)
}

func (c SetAvailability) apply(s State) State {
	s.ExcludeOutOfStock = c.ExcludeOutOfStock
	return s
}

func (c SetCategory) apply(s State) State {
	s.Category = strings.TrimSpace(c.Category)
	return s
}

// Apply returns the state after the change. A nil change leaves the state as is.
func Apply(s State, c Change) State {
	if c == nil {
		return s
	}
	return c.apply(s)
}

// ParseChange turns a view event into a Change. Unknown kinds and values that do not
// parse for their kind report false.
func ParseChange(kind types.FacetKind, value string) (Change, bool) {
	value = strings.TrimSpace(value)
	switch kind {
	case types.FacetRating:
		v, err := strconv.Atoi(value)
		if err != nil {
			return nil, false
		}
		return ToggleRating{Value: v}, true
	case types.FacetBrand:
		return ToggleBrand{Value: value}, value != ""
	case types.FacetGender:
		return ToggleGender{Value: value}, value != ""
	case types.FacetColor:
		return ToggleColor{Value: value}, value != ""
	case types.FacetSize:
		return ToggleSize{Value: value}, value != ""
	case types.FacetSubcategory:
		return ToggleSubcategory{Value: value}, value != ""
	case types.FacetPriceRange:
		minPart, maxPart, found := strings.Cut(value, "-")
		if !found {
			return nil, false
		}
		lo, err := parseFinite(minPart)
		if err != nil {
			return nil, false
		}
		hi, err := parseFinite(maxPart)
		if err != nil {
			return nil, false
		}
		return SetPriceRange{Min: lo, Max: hi}, true
	case types.FacetMaxPrice:
		hi, err := parseFinite(value)
		if err != nil {
			return nil, false
		}
		return SetMaxPrice{Max: hi}, true
	case types.FacetAvailability:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, false
		}
		return SetAvailability{ExcludeOutOfStock: v}, true
	case types.FacetCategory:
		return SetCategory{Category: value}, true
	}
	return nil, false
}

// ApplyKind parses and applies a view event in one step.
func ApplyKind(s State, kind types.FacetKind, value string) State {
	c, ok := ParseChange(kind, value)
	if !ok {
		return s
	}
	return Apply(s, c)
}

func parseFinite(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if !isFinite(v) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
