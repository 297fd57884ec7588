package catalog

import "github.com/baggolabs/baggo/internal/domain"

// Meta is optional per-image display info resolved for one image index.
type Meta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Index       int    `json:"index"`
}

// ImageIndex finds the position of url in the product's image sequence.
// A miss resolves to 0 (the cover image) because image URLs are not
// guaranteed stable between selection and lookup.
func ImageIndex(p *domain.Product, url string) int {
	if p == nil || url == "" {
		return 0
	}
	for i, img := range p.Images {
		if img == url {
			return i
		}
	}
	return 0
}

// MetaFor resolves the display name/description for an image index.
// Per-image mode reads the variant at that index; legacy mode reads the
// parallel __image_meta array. Missing entries yield empty strings so
// nothing null ever leaks into persisted order rows.
func MetaFor(p *domain.Product, index int) Meta {
	if index < 0 {
		index = 0
	}
	m := Meta{Index: index}
	if p == nil {
		return m
	}
	if p.Stock.PerImage {
		if index < len(p.Stock.Variants) {
			m.Name = p.Stock.Variants[index].Name
			m.Description = p.Stock.Variants[index].Description
		}
		return m
	}
	if index < len(p.Stock.ImageMeta) {
		m.Name = p.Stock.ImageMeta[index].Name
		m.Description = p.Stock.ImageMeta[index].Description
	}
	return m
}
