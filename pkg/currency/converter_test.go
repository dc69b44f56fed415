package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInclusiveBounds(t *testing.T) {
	c := Converter{}
	assert.False(t, c.InRange(199.99, 200, 250))
	assert.True(t, c.InRange(200.00, 200, 250))
	assert.True(t, c.InRange(250.00, 200, 250))
	assert.False(t, c.InRange(250.01, 200, 250))
}

func TestConvertedBounds(t *testing.T) {
	// 1 display unit = 3.75 stored units
	c := NewConverter(3.75)
	assert.True(t, c.InRange(750, 200, 250))
	assert.True(t, c.InRange(937.5, 200, 250))
	assert.False(t, c.InRange(937.51, 200, 250))
	assert.False(t, c.InRange(749.99, 200, 250))
	assert.InDelta(t, 200.0, c.ToDisplay(750), 0.0001)
}

func TestInvalidRateFallsBackToIdentity(t *testing.T) {
	for _, rate := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		c := NewConverter(rate)
		assert.Equal(t, "12.5", c.ToStored(12.5).String())
	}
}

func TestOpenBounds(t *testing.T) {
	c := Converter{}
	assert.True(t, c.InRange(1e9, 0, math.Inf(1)))
	assert.True(t, c.InRange(10, math.NaN(), 20))
	assert.False(t, c.InRange(10, math.Inf(1), 20))
	assert.True(t, c.InRange(math.NaN(), 0, 10))
}
