package catalog

import "github.com/baggolabs/baggo/internal/domain"

// BasePrice is the product's list price, clamped to non-negative.
func BasePrice(p *domain.Product) float64 {
	if p == nil || p.Price < 0 {
		return 0
	}
	return p.Price
}

// DiscountPrice returns the discount override stored inside the stock
// blob. It only counts when positive and strictly below the base price;
// anything else reads as "no discount". The override lives inside stock
// because the hosted products table has no discount column.
func DiscountPrice(p *domain.Product) (float64, bool) {
	if p == nil || p.Stock.DiscountPrice == nil {
		return 0, false
	}
	dp := *p.Stock.DiscountPrice
	if dp <= 0 || dp >= BasePrice(p) {
		return 0, false
	}
	return dp, true
}

func HasDiscount(p *domain.Product) bool {
	_, ok := DiscountPrice(p)
	return ok
}

// UnitPrice is the effective price a cart line pays right now.
func UnitPrice(p *domain.Product) float64 {
	if dp, ok := DiscountPrice(p); ok {
		return dp
	}
	return BasePrice(p)
}
