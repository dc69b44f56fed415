package facet

import (
	"testing"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSubcategoryLeavesFromBothShapes(t *testing.T) {
	flat := Flat("Sneakers", "Boots", "Sneakers", " ")
	assert.Equal(t, []string{"Sneakers", "Boots"}, flat.Leaves())

	grouped := Grouped(
		SubcategoryGroup{Label: "Women", Items: []string{"Dresses", "Jeans"}},
		SubcategoryGroup{Label: "Men", Items: []string{"Shirts", "Jeans"}},
	)
	assert.Equal(t, []string{"Dresses", "Jeans", "Shirts"}, grouped.Leaves())
	assert.True(t, grouped.Contains("jeans"))
	assert.False(t, grouped.Contains("Women"))
	assert.True(t, Flat().IsEmpty())
}

func TestSubcategoriesFromYaml(t *testing.T) {
	var doc struct {
		A Subcategories `yaml:"a"`
		B Subcategories `yaml:"b"`
	}
	err := yaml.Unmarshal([]byte(`
a: [One, Two]
b:
  Second: [X]
  First: [Y, Z]
`), &doc)
	require.NoError(t, err)
	assert.Equal(t, ShapeFlat, doc.A.Shape)
	assert.Equal(t, []string{"One", "Two"}, doc.A.Items)
	assert.Equal(t, ShapeGrouped, doc.B.Shape)
	require.Len(t, doc.B.Groups, 2)
	assert.Equal(t, "Second", doc.B.Groups[0].Label)
	assert.Equal(t, []string{"X", "Y", "Z"}, doc.B.Leaves())
}

func TestSubcategoriesRejectScalar(t *testing.T) {
	var doc struct {
		A Subcategories `yaml:"a"`
	}
	err := yaml.Unmarshal([]byte("a: nope\n"), &doc)
	assert.Error(t, err)
}

func TestSubcategoriesJson(t *testing.T) {
	grouped := Grouped(SubcategoryGroup{Label: "Men", Items: []string{"Shirts"}})
	data, err := jsoncompat.Marshal(grouped)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"grouped","groups":[{"label":"Men","items":["Shirts"]}]}`, string(data))

	var back Subcategories
	require.NoError(t, jsoncompat.Unmarshal(data, &back))
	assert.Equal(t, []string{"Shirts"}, back.Leaves())
}
