package currency

import (
	"math"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Converter translates display-currency amounts into the stored catalog currency.
// The zero value converts 1:1.
type Converter struct {
	// Rate is the number of stored units per display unit.
	Rate decimal.Decimal
}

func NewConverter(rate float64) Converter {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return Converter{Rate: one}
	}
	return Converter{Rate: decimal.NewFromFloat(rate)}
}

func (c Converter) rate() decimal.Decimal {
	if c.Rate.Sign() <= 0 {
		return one
	}
	return c.Rate
}

func (c Converter) ToStored(display float64) decimal.Decimal {
	return decimal.NewFromFloat(display).Mul(c.rate())
}

func (c Converter) ToDisplay(stored float64) float64 {
	if math.IsNaN(stored) || math.IsInf(stored, 0) {
		return 0
	}
	return decimal.NewFromFloat(stored).Div(c.rate()).InexactFloat64()
}

// InRange reports whether a stored price lies within [minDisplay, maxDisplay] once both
// bounds are converted. Bounds are inclusive; an infinite bound is open on that side.
func (c Converter) InRange(stored, minDisplay, maxDisplay float64) bool {
	if math.IsNaN(stored) || math.IsInf(stored, 0) {
		stored = 0
	}
	price := decimal.NewFromFloat(stored)
	switch {
	case math.IsNaN(minDisplay), math.IsInf(minDisplay, -1):
	case math.IsInf(minDisplay, 1):
		return false
	default:
		if price.LessThan(c.ToStored(minDisplay)) {
			return false
		}
	}
	switch {
	case math.IsNaN(maxDisplay), math.IsInf(maxDisplay, 1):
	case math.IsInf(maxDisplay, -1):
		return false
	default:
		if price.GreaterThan(c.ToStored(maxDisplay)) {
			return false
		}
	}
	return true
}
