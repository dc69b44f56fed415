package facet

import (
	"strings"

	"github.com/matst80/slask-facets/pkg/types"
)

type keywordGroup struct {
	category types.CategoryType
	keywords []string
}

// Checked in order, first hit wins. Shoes must come before fashion and watches before
// electronics so "fashion shoes" and "smartwatch" land in the narrower type.
var keywordGroups = []keywordGroup{
	{types.CategoryShoes, []string{"shoe", "footwear", "sneaker", "boot"}},
	{types.CategoryWatches, []string{"watch"}},
	{types.CategoryFashion, []string{"fashion", "clothing", "apparel", "dress", "shirt"}},
	{types.CategoryElectronics, []string{"electronic", "laptop", "phone", "computer", "tv", "camera", "gaming"}},
	{types.CategoryKitchen, []string{"kitchen", "appliance", "cookware"}},
	{types.CategoryGroceries, []string{"grocer", "food", "beverage"}},
	{types.CategoryBeauty, []string{"beauty", "cosmetic", "skincare", "fragrance"}},
	{types.CategoryToys, []string{"toy", "kids", "baby"}},
	{types.CategorySports, []string{"sport", "fitness", "outdoor"}},
}

// Resolve maps a free-form category label onto a category type. Labels that match no
// keyword resolve to general.
func Resolve(label string) types.CategoryType {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return types.CategoryGeneral
	}
	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.category
			}
		}
	}
	return types.CategoryGeneral
}
