package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matst80/slask-facets/pkg/types"
)

type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
	SortDiscount  SortOrder = "discount"
	SortName      SortOrder = "name"
)

func ParseSortOrder(value string) SortOrder {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(value))); order {
	case SortPriceAsc, SortPriceDesc, SortRating, SortDiscount, SortName:
		return order
	}
	return SortRelevance
}

// SortProducts returns a sorted copy. Ties keep their input order; relevance keeps the
// input order entirely.
func SortProducts(products []types.Product, order SortOrder) []types.Product {
	ret := slices.Clone(products)
	if ret == nil {
		ret = []types.Product{}
	}
	var compare func(a, b types.Product) int
	switch order {
	case SortPriceAsc:
		compare = func(a, b types.Product) int { return cmp.Compare(a.GetPrice(), b.GetPrice()) }
	case SortPriceDesc:
		compare = func(a, b types.Product) int { return cmp.Compare(b.GetPrice(), a.GetPrice()) }
	case SortRating:
		compare = func(a, b types.Product) int { return cmp.Compare(b.GetRating(), a.GetRating()) }
	case SortDiscount:
		compare = func(a, b types.Product) int { return cmp.Compare(b.GetDiscount(), a.GetDiscount()) }
	case SortName:
		compare = func(a, b types.Product) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	default:
		return ret
	}
	slices.SortStableFunc(ret, compare)
	return ret
}
