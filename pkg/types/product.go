package types

import "math"

type ProductId string

// Product is a read-only catalog record. Zero values stand in for missing fields.
type Product struct {
	Id          ProductId `json:"id"`
	Title       string    `json:"title,omitempty"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Color       string    `json:"color,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	Stock       int       `json:"stock"`
	Discount    float64   `json:"discount,omitempty"`
}

func (p *Product) GetPrice() float64 {
	return finiteOrZero(p.Price)
}

func (p *Product) GetRating() float64 {
	return finiteOrZero(p.Rating)
}

func (p *Product) GetDiscount() float64 {
	return finiteOrZero(p.Discount)
}

func (p *Product) HasStock() bool {
	return p.Stock > 0
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
