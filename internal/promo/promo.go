// Package promo validates promo codes and derives the cart discount.
package promo

import (
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/pkg/common"
)

var (
	ErrNotFound    = errors.New("promo code not found")
	ErrInactive    = errors.New("promo code is not active")
	ErrExpired     = errors.New("promo code has expired")
	ErrMinSubtotal = errors.New("order subtotal below promo minimum")
)

// Normalize canonicalizes user input: codes are stored upper-case.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check validates a promo against a subtotal at a given time.
func Check(p *domain.PromoCode, subtotal float64, now time.Time) error {
	if p == nil {
		return ErrNotFound
	}
	if p.Status != common.ENABLED {
		return ErrInactive
	}
	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return ErrExpired
	}
	if subtotal < p.MinSubtotal {
		return ErrMinSubtotal
	}
	return nil
}

// Discount computes the money taken off the subtotal, clamped to
// [0, subtotal] so a generous fixed code can never drive the total
// negative.
func Discount(p *domain.PromoCode, subtotal float64) float64 {
	if p == nil || subtotal <= 0 {
		return 0
	}
	var d float64
	switch p.Type {
	case domain.PromoTypeFixed:
		d = p.Value
	case domain.PromoTypePercent:
		d = subtotal * p.Value / 100
	default:
		return 0
	}
	return math.Max(0, math.Min(subtotal, d))
}
