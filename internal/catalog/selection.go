package catalog

import (
	"github.com/pkg/errors"

	"github.com/baggolabs/baggo/internal/domain"
)

// ErrSizeRequired is returned by Confirm when a multi-size product has
// no size chosen yet.
var ErrSizeRequired = errors.New("size selection required")

// Selector tracks the active image and selected size for a single
// product view. Image and size are not independent axes: with per-image
// stock the valid size set depends on which variant is active, so the
// two have to be kept mutually consistent here rather than by two
// unrelated dropdowns.
type Selector struct {
	product      *domain.Product
	size         string
	activeImage  string
	variantIndex int
}

// NewSelector starts a selection for p. A single-size product gets that
// size auto-selected; with multiple sizes the user must choose. The
// active image defaults to the cover image.
func NewSelector(p *domain.Product) *Selector {
	s := &Selector{product: p, variantIndex: NoVariant}
	if p == nil {
		return s
	}
	if len(p.Sizes) == 1 {
		s.size = p.Sizes[0]
	}
	s.activeImage = p.Image()
	if p.Stock.PerImage {
		s.variantIndex = ImageIndex(p, s.activeImage)
	}
	return s
}

func (s *Selector) Product() *domain.Product { return s.product }
func (s *Selector) Size() string             { return s.size }
func (s *Selector) ActiveImage() string      { return s.activeImage }

// VariantIndex is the variant matching the active image, or NoVariant
// for legacy stock.
func (s *Selector) VariantIndex() int { return s.variantIndex }

// SetActiveImage switches the active image. In per-image mode the
// variant index follows the image; if the currently selected size has
// no stock under the new variant the selection is cleared so the user
// must re-choose, instead of being silently moved to another size.
func (s *Selector) SetActiveImage(url string) {
	if s.product == nil {
		return
	}
	s.activeImage = url
	if !s.product.Stock.PerImage {
		s.variantIndex = NoVariant
		return
	}
	s.variantIndex = ImageIndex(s.product, url)
	if s.size != "" && QuantityFor(s.product, s.size, s.variantIndex) <= 0 {
		s.size = ""
	}
}

// SelectSize records the chosen size. The choice is kept even when the
// size is out of stock for the active variant; callers use OutOfStock
// to disable the add action and surface the state.
func (s *Selector) SelectSize(size string) {
	s.size = size
}

// ClearSize drops the current size selection.
func (s *Selector) ClearSize() {
	s.size = ""
}

// OutOfStock reports whether the add action should be disabled for the
// current selection.
func (s *Selector) OutOfStock() bool {
	if s.product == nil {
		return true
	}
	if len(s.product.Sizes) == 0 {
		return false
	}
	if s.size == "" {
		return !HasAnyStock(s.product)
	}
	return QuantityFor(s.product, s.size, s.variantIndex) <= 0
}

// Selection is a confirmed (size, variant, image) choice ready to be
// turned into a cart line.
type Selection struct {
	Size         string
	VariantIndex int
	Image        string
	Meta         Meta
}

// Confirm validates the current state for add-to-cart: multi-size
// products require an explicit size, single-size products auto-fill it,
// size-less products need nothing.
func (s *Selector) Confirm() (Selection, error) {
	if s.product == nil {
		return Selection{}, errors.New("no product selected")
	}
	size := s.size
	switch {
	case len(s.product.Sizes) == 0:
		size = ""
	case len(s.product.Sizes) == 1:
		size = s.product.Sizes[0]
	case size == "":
		return Selection{}, ErrSizeRequired
	}

	img := s.activeImage
	if img == "" {
		img = s.product.Image()
	}
	idx := ImageIndex(s.product, img)
	return Selection{
		Size:         size,
		VariantIndex: s.variantIndex,
		Image:        img,
		Meta:         MetaFor(s.product, idx),
	}, nil
}
