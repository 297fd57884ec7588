// Package catalog answers stock, pricing and display questions about a
// product regardless of which of the two stock encodings it carries.
// All queries are pure and fail safe: malformed data reads as zero
// stock, never as an error.
package catalog

import (
	"fmt"
	"strings"

	"github.com/baggolabs/baggo/internal/domain"
)

// NoVariant marks a line that has no per-image variant (legacy stock).
const NoVariant = -1

// IsPerImage reports whether the product uses the per-image stock
// encoding.
func IsPerImage(p *domain.Product) bool {
	return p != nil && p.Stock.PerImage
}

// perImageQty resolves the quantity of size for one variant. A variant
// without an explicit entry for the size falls back to variant 0, the
// base stock pool. Out-of-range indexes behave like empty variants.
func perImageQty(st domain.Stock, variantIndex int, size string) int {
	if variantIndex < 0 {
		variantIndex = 0
	}
	if variantIndex < len(st.Variants) {
		if q, ok := st.Variants[variantIndex].Qty(size); ok {
			return q
		}
	}
	if len(st.Variants) > 0 {
		if q, ok := st.Variants[0].Qty(size); ok {
			return q
		}
	}
	return 0
}

// QuantityFor returns the available quantity for (size, variantIndex).
// variantIndex is ignored for legacy stock; pass NoVariant there.
func QuantityFor(p *domain.Product, size string, variantIndex int) int {
	if p == nil {
		return 0
	}
	s := strings.TrimSpace(size)
	if s == "" {
		return 0
	}
	if !p.Stock.PerImage {
		return p.Stock.Sizes[s]
	}
	return perImageQty(p.Stock, variantIndex, s)
}

// TotalQuantityForSize sums a size across all variants. The fallback to
// variant 0 is applied independently per variant, exactly as the
// storefront has always done it.
func TotalQuantityForSize(p *domain.Product, size string) int {
	if p == nil {
		return 0
	}
	s := strings.TrimSpace(size)
	if s == "" {
		return 0
	}
	if !p.Stock.PerImage {
		return p.Stock.Sizes[s]
	}
	total := 0
	for vi := range p.Stock.Variants {
		total += perImageQty(p.Stock, vi, s)
	}
	return total
}

// TotalQuantity sums every declared size (low-stock badges, admin).
func TotalQuantity(p *domain.Product) int {
	if p == nil {
		return 0
	}
	total := 0
	for _, s := range p.Sizes {
		total += TotalQuantityForSize(p, s)
	}
	return total
}

// HasAnyStock reports whether the product is orderable at all. A
// product with no declared sizes is not size-gated and always reads as
// available.
func HasAnyStock(p *domain.Product) bool {
	if p == nil {
		return false
	}
	if len(p.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if TotalQuantityForSize(p, s) > 0 {
			return true
		}
	}
	return false
}

// Pick is a quick-add target: the (size, variant) pair chosen for a
// one-tap add to cart. Size "" and VariantIndex NoVariant mean the
// product has no size/variant axis.
type Pick struct {
	Size         string
	VariantIndex int
	Image        string
}

func imageAt(p *domain.Product, idx int) string {
	if idx >= 0 && idx < len(p.Images) {
		return p.Images[idx]
	}
	return p.Image()
}

// PickFirstInStock selects a default in-stock pair for quick add.
// Sizes are scanned in declared order, variants in index order within
// each size: sizes are the user-facing choice axis, so matching the
// declared size order wins over variant order. When nothing is in
// stock it falls back to the first size (and variant 0), leaving the
// caller to gate the action on HasAnyStock.
func PickFirstInStock(p *domain.Product) Pick {
	if p == nil {
		return Pick{VariantIndex: NoVariant}
	}
	if len(p.Sizes) == 0 {
		return Pick{Size: "", VariantIndex: NoVariant, Image: p.Image()}
	}

	if p.Stock.PerImage {
		for _, s := range p.Sizes {
			for vi := range p.Stock.Variants {
				if perImageQty(p.Stock, vi, s) > 0 {
					return Pick{Size: s, VariantIndex: vi, Image: imageAt(p, vi)}
				}
			}
		}
		return Pick{Size: p.Sizes[0], VariantIndex: 0, Image: p.Image()}
	}

	for _, s := range p.Sizes {
		if p.Stock.Sizes[s] > 0 {
			return Pick{Size: s, VariantIndex: NoVariant, Image: p.Image()}
		}
	}
	return Pick{Size: p.Sizes[0], VariantIndex: NoVariant, Image: p.Image()}
}

// StockEntry is a flattened inventory row: one per size in legacy mode,
// one per (variant, size) pair in per-image mode.
type StockEntry struct {
	Size         string `json:"size"`
	Qty          int    `json:"qty"`
	VariantIndex int    `json:"variant_index"`
	VariantName  string `json:"variant_name,omitempty"`
	Image        string `json:"image,omitempty"`
}

// ListEntries flattens the stock blob for admin/inventory views.
func ListEntries(p *domain.Product) []StockEntry {
	if p == nil || len(p.Sizes) == 0 {
		return nil
	}

	if p.Stock.PerImage {
		rows := make([]StockEntry, 0, len(p.Stock.Variants)*len(p.Sizes))
		for vi, v := range p.Stock.Variants {
			name := strings.TrimSpace(v.Name)
			if name == "" {
				name = fmt.Sprintf("Variant %d", vi+1)
			}
			for _, s := range p.Sizes {
				rows = append(rows, StockEntry{
					Size:         s,
					Qty:          perImageQty(p.Stock, vi, s),
					VariantIndex: vi,
					VariantName:  name,
					Image:        imageAt(p, vi),
				})
			}
		}
		return rows
	}

	rows := make([]StockEntry, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		rows = append(rows, StockEntry{
			Size:         s,
			Qty:          p.Stock.Sizes[s],
			VariantIndex: NoVariant,
			Image:        p.Image(),
		})
	}
	return rows
}
