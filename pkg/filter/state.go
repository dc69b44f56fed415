package filter

import (
	"github.com/matst80/slask-facets/pkg/types"
)

const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 10000
	MaxRating       = 5
)

// State is one revision of the shopper's filter selection. Values are replaced, never
// mutated, so a State handed to an evaluator stays consistent.
type State struct {
	Category          string    `json:"category"`
	MinPrice          float64   `json:"minPrice"`
	MaxPrice          float64   `json:"maxPrice"`
	Rating            int       `json:"rating"`
	Brands            Selection `json:"brands"`
	Genders           Selection `json:"genders"`
	Colors            Selection `json:"colors"`
	Sizes             Selection `json:"sizes"`
	Subcategories     Selection `json:"subcategories"`
	ExcludeOutOfStock bool      `json:"excludeOutOfStock"`
}

func NewState(category string) State {
	return State{
		Category:      category,
		MinPrice:      DefaultMinPrice,
		MaxPrice:      DefaultMaxPrice,
		Brands:        NewSelection(),
		Genders:       NewSelection(),
		Colors:        NewSelection(),
		Sizes:         NewSelection(),
		Subcategories: NewSelection(),
	}
}

// Cleared resets every selection but keeps the active category.
func (s State) Cleared() State {
	return NewState(s.Category)
}

func (s State) HasPriceFilter() bool {
	return s.MinPrice != DefaultMinPrice || s.MaxPrice != DefaultMaxPrice
}

// ActiveCount is the number shown on the filter badge: every selected set value, plus
// one for a rating threshold and one for a non-default price range.
func (s State) ActiveCount() int {
	count := s.Brands.Len() + s.Genders.Len() + s.Colors.Len() + s.Sizes.Len() + s.Subcategories.Len()
	if s.Rating != 0 {
		count++
	}
	if s.HasPriceFilter() {
		count++
	}
	return count
}

func (s State) selection(kind types.FacetKind) (Selection, bool) {
	switch kind {
	case types.FacetBrand:
		return s.Brands, true
	case types.FacetGender:
		return s.Genders, true
	case types.FacetColor:
		return s.Colors, true
	case types.FacetSize:
		return s.Sizes, true
	case types.FacetSubcategory:
		return s.Subcategories, true
	}
	return nil, false
}

func (s State) withSelection(kind types.FacetKind, sel Selection) State {
	switch kind {
	case types.FacetBrand:
		s.Brands = sel
	case types.FacetGender:
		s.Genders = sel
	case types.FacetColor:
		s.Colors = sel
	case types.FacetSize:
		s.Sizes = sel
	case types.FacetSubcategory:
		s.Subcategories = sel
	}
	return s
}

// without drops the selection of one facet, used when counting values for that facet.
func (s State) without(kind types.FacetKind) State {
	switch kind {
	case types.FacetRating:
		s.Rating = 0
	case types.FacetPriceRange, types.FacetMaxPrice:
		s.MinPrice, s.MaxPrice = DefaultMinPrice, DefaultMaxPrice
	case types.FacetAvailability:
		s.ExcludeOutOfStock = false
	default:
		if _, ok := s.selection(kind); ok {
			s = s.withSelection(kind, NewSelection())
		}
	}
	return s
}
