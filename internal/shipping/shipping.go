// Package shipping resolves the delivery fee for a checkout.
package shipping

import "github.com/baggolabs/baggo/internal/domain"

// FindMethod returns the active method matching code, or nil.
func FindMethod(s *domain.ShippingSettings, code string) *domain.ShippingMethod {
	if s == nil {
		return nil
	}
	for i := range s.Methods {
		if s.Methods[i].Code == code && s.Methods[i].Active {
			return &s.Methods[i]
		}
	}
	return nil
}

// FirstActive returns the default method for pre-selection.
func FirstActive(s *domain.ShippingSettings) *domain.ShippingMethod {
	if s == nil {
		return nil
	}
	for i := range s.Methods {
		if s.Methods[i].Active {
			return &s.Methods[i]
		}
	}
	return nil
}

// Fee computes the shipping fee for the selected method on a base total
// (subtotal minus promo discount). Orders at or over the free-shipping
// threshold ship free; an unknown method ships free as well, since the
// fee must never block a checkout.
func Fee(s *domain.ShippingSettings, methodCode string, baseTotal float64) float64 {
	if s == nil {
		return 0
	}
	if s.FreeThreshold != nil && baseTotal >= *s.FreeThreshold {
		return 0
	}
	m := FindMethod(s, methodCode)
	if m == nil || m.Fee < 0 {
		return 0
	}
	return m.Fee
}
