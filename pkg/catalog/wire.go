package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matst80/slask-facets/pkg/types"
)

type wireProduct map[string]any

func (w wireProduct) first(keys ...string) any {
	for _, k := range keys {
		if v, ok := w[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func (w wireProduct) str(keys ...string) string {
	switch v := w.first(keys...).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any:
		// localized values, {"en": "..."}
		if en, ok := v["en"].(string); ok {
			return strings.TrimSpace(en)
		}
	}
	return ""
}

func (w wireProduct) number(keys ...string) float64 {
	var f float64
	switch v := w.first(keys...).(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func (w wireProduct) list(keys ...string) []string {
	switch v := w.first(keys...).(type) {
	case []any:
		ret := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" && item != nil {
				ret = append(ret, s)
			}
		}
		return ret
	case string:
		ret := make([]string, 0)
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ret = append(ret, part)
			}
		}
		return ret
	}
	return nil
}

// toProduct maps a loosely typed API record. Missing or malformed fields become zero
// values instead of failing the whole collection.
func (w wireProduct) toProduct() types.Product {
	return types.Product{
		Id:          types.ProductId(w.str("id", "_id", "sku")),
		Title:       w.str("title", "name"),
		Category:    w.str("category", "categoryName"),
		Subcategory: w.str("subcategory", "subCategory", "sub_category"),
		Brand:       w.str("brand"),
		Color:       w.str("color", "colour"),
		Gender:      w.str("gender", "ageGroup"),
		Sizes:       w.list("sizes", "size"),
		Price:       w.number("price"),
		Rating:      w.number("rating", "stars"),
		Stock:       int(w.number("stock", "stockQuantity", "quantity")),
		Discount:    w.number("discount", "discountPercentage"),
	}
}

func decodeProducts(records []wireProduct) []types.Product {
	ret := make([]types.Product, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		ret = append(ret, r.toProduct())
	}
	return ret
}
