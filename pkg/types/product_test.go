package types

import (
	"math"
	"testing"
)

func TestProductDefaultsForBrokenNumbers(t *testing.T) {
	p := Product{Price: math.NaN(), Rating: math.Inf(1), Discount: -5}
	if p.GetPrice() != 0 {
		t.Errorf("Expected price 0, got %v", p.GetPrice())
	}
	if p.GetRating() != 0 {
		t.Errorf("Expected rating 0, got %v", p.GetRating())
	}
	if p.GetDiscount() != 0 {
		t.Errorf("Expected discount 0, got %v", p.GetDiscount())
	}
}

func TestProductHasStock(t *testing.T) {
	if (&Product{Stock: 0}).HasStock() {
		t.Error("Expected no stock")
	}
	if !(&Product{Stock: 2}).HasStock() {
		t.Error("Expected stock")
	}
}
