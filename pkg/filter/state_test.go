package filter

import (
	"testing"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveCount(t *testing.T) {
	s := NewState("shoes")
	assert.Equal(t, 0, s.ActiveCount())

	s = ApplyKind(s, types.FacetBrand, "Nike")
	s = ApplyKind(s, types.FacetBrand, "Adidas")
	s = ApplyKind(s, types.FacetColor, "Black")
	assert.Equal(t, 3, s.ActiveCount())

	s = ApplyKind(s, types.FacetRating, "4")
	s = ApplyKind(s, types.FacetMaxPrice, "500")
	assert.Equal(t, 5, s.ActiveCount())

	s = ApplyKind(s, types.FacetAvailability, "true")
	assert.Equal(t, 5, s.ActiveCount())

	cleared := s.Cleared()
	assert.Equal(t, 0, cleared.ActiveCount())
	assert.Equal(t, "shoes", cleared.Category)
	assert.False(t, cleared.ExcludeOutOfStock)
}

func TestStateJson(t *testing.T) {
	s := ApplyKind(NewState("fashion"), types.FacetBrand, "Zara")
	s = ApplyKind(s, types.FacetBrand, "Mango")
	data, err := jsoncompat.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"brands":["Mango","Zara"]`)

	var back State
	require.NoError(t, jsoncompat.Unmarshal(data, &back))
	assert.True(t, back.Brands.Has("Zara"))
	assert.Equal(t, s.ActiveCount(), back.ActiveCount())
}
