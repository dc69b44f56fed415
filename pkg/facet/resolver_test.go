package facet

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		label    string
		expected types.CategoryType
	}{
		{"Shoes", types.CategoryShoes},
		{"Men's FOOTWEAR", types.CategoryShoes},
		{"Fashion Shoes", types.CategoryShoes},
		{"Smartwatch", types.CategoryWatches},
		{"fashion", types.CategoryFashion},
		{"Women Clothing", types.CategoryFashion},
		{"Laptops", types.CategoryElectronics},
		{"Mobile Phones", types.CategoryElectronics},
		{"Consumer Electronics", types.CategoryElectronics},
		{"Kitchen & Dining", types.CategoryKitchen},
		{"Home Appliances", types.CategoryKitchen},
		{"Groceries", types.CategoryGroceries},
		{"Skincare", types.CategoryBeauty},
		{"Toys", types.CategoryToys},
		{"Outdoor", types.CategorySports},
		{"Furniture", types.CategoryGeneral},
		{"", types.CategoryGeneral},
		{"   ", types.CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.label))
		})
	}
}

func TestResolveAnyLabelContainingShoe(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		word := "shoe"
		switch i % 3 {
		case 1:
			word = "SHOE"
		case 2:
			word = "ShOe"
		}
		label := f.Word() + " " + word + f.LetterN(3) + " " + f.Word()
		assert.Equal(t, types.CategoryShoes, Resolve(label), label)
	}
}

func TestResolveIsStable(t *testing.T) {
	f := gofakeit.New(7)
	for i := 0; i < 100; i++ {
		label := f.ProductCategory()
		first := Resolve(label)
		assert.Equal(t, first, Resolve(label))
		assert.Equal(t, first, Resolve(strings.ToUpper(label)))
	}
}
