package filter

import (
	"strings"

	"github.com/matst80/slask-facets/pkg/currency"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/samber/lo"
)

type predicate func(p *types.Product) bool

// Evaluator filters a product snapshot with a State. It holds no mutable state and is
// safe for concurrent use.
type Evaluator struct {
	Converter currency.Converter
}

func NewEvaluator(rate float64) Evaluator {
	return Evaluator{Converter: currency.NewConverter(rate)}
}

// predicates returns the active checks in a fixed order. Facets without a selection are
// left out, which makes them pass-through.
func (e Evaluator) predicates(s State) []predicate {
	ret := make([]predicate, 0, 9)

	if category := strings.ToLower(strings.TrimSpace(s.Category)); category != "" {
		ret = append(ret, func(p *types.Product) bool {
			return strings.Contains(strings.ToLower(p.Category), category)
		})
	}

	if s.HasPriceFilter() {
		minPrice, maxPrice := s.MinPrice, s.MaxPrice
		ret = append(ret, func(p *types.Product) bool {
			return e.Converter.InRange(p.GetPrice(), minPrice, maxPrice)
		})
	}

	if s.Rating != 0 {
		threshold := float64(s.Rating)
		ret = append(ret, func(p *types.Product) bool {
			return p.GetRating() >= threshold
		})
	}

	if s.Brands.Len() > 0 {
		brands := s.Brands
		ret = append(ret, func(p *types.Product) bool {
			return brands.Has(p.Brand)
		})
	}

	if s.Genders.Len() > 0 {
		genders := s.Genders.lowered()
		ret = append(ret, func(p *types.Product) bool {
			gender := strings.ToLower(p.Gender)
			return lo.Contains(genders, gender)
		})
	}

	if s.Colors.Len() > 0 {
		colors := s.Colors.lowered()
		ret = append(ret, func(p *types.Product) bool {
			color := strings.ToLower(p.Color)
			return lo.SomeBy(colors, func(c string) bool {
				return strings.Contains(color, c)
			})
		})
	}

	if s.Subcategories.Len() > 0 {
		subcategories := s.Subcategories.lowered()
		ret = append(ret, func(p *types.Product) bool {
			return lo.Contains(subcategories, strings.ToLower(p.Subcategory))
		})
	}

	if s.Sizes.Len() > 0 {
		sizes := s.Sizes.lowered()
		ret = append(ret, func(p *types.Product) bool {
			return lo.SomeBy(p.Sizes, func(size string) bool {
				return lo.Contains(sizes, strings.ToLower(size))
			})
		})
	}

	if s.ExcludeOutOfStock {
		ret = append(ret, func(p *types.Product) bool {
			return p.HasStock()
		})
	}

	return ret
}

// Evaluate returns the products matching every active facet, in input order. The input
// slice is not modified and the result never aliases it.
func (e Evaluator) Evaluate(products []types.Product, s State) []types.Product {
	checks := e.predicates(s)
	return lo.Filter(products, func(p types.Product, _ int) bool {
		for _, check := range checks {
			if !check(&p) {
				return false
			}
		}
		return true
	})
}

// Matches reports whether a single product passes the state.
func (e Evaluator) Matches(p types.Product, s State) bool {
	for _, check := range e.predicates(s) {
		if !check(&p) {
			return false
		}
	}
	return true
}
