package filter

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/matst80/slask-facets/pkg/types"
)

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func productValues(kind types.FacetKind, p *types.Product) []string {
	switch kind {
	case types.FacetBrand:
		return []string{p.Brand}
	case types.FacetGender:
		return []string{p.Gender}
	case types.FacetColor:
		return []string{p.Color}
	case types.FacetSubcategory:
		return []string{p.Subcategory}
	case types.FacetSize:
		return p.Sizes
	}
	return nil
}

// CountValues counts, per value of one facet, the products that would remain if that
// value were the only selection of the facet. The facet's own selection is ignored so
// sibling values keep their counts. Rating counts are cumulative thresholds 1 to 5.
func (e Evaluator) CountValues(products []types.Product, s State, kind types.FacetKind) []ValueCount {
	if kind == types.FacetRating {
		base := e.Evaluate(products, s.without(kind))
		ret := make([]ValueCount, 0, MaxRating)
		for r := MaxRating; r >= 1; r-- {
			count := 0
			for i := range base {
				if base[i].GetRating() >= float64(r) {
					count++
				}
			}
			ret = append(ret, ValueCount{Value: strconv.Itoa(r), Count: count})
		}
		return ret
	}

	if _, ok := s.selection(kind); !ok {
		return nil
	}
	base := e.Evaluate(products, s.without(kind))

	counts := map[string]int{}
	for i := range base {
		seen := map[string]struct{}{}
		for _, v := range productValues(kind, &base[i]) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			counts[v]++
		}
	}
	ret := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		ret = append(ret, ValueCount{Value: v, Count: c})
	}
	slices.SortFunc(ret, func(a, b ValueCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return ret
}
