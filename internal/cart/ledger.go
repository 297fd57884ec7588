// Package cart keeps the persisted collection of cart line items. The
// ledger is bookkeeping only: quantity clamping against live stock is
// the caller's job, since stock can change between cart-add and
// checkout and the ledger must not pretend to be inventory authority.
package cart

import (
	"sync"

	"go.uber.org/zap"

	"github.com/baggolabs/baggo/internal/catalog"
	"github.com/baggolabs/baggo/internal/domain"
)

// Item is one cart line. Identity is the four-field tuple
// (ProductID, Size, VariantIndex, Image): the same product with a
// different image or size is a different line. Display fields and the
// price snapshot are denormalized at add time. VariantIndex serializes
// as -1 for legacy-stock lines where the web client sends null; both
// mean "no variant" and compare equal after binding.
type Item struct {
	ProductID    string `json:"product_id"`
	Size         string `json:"size,omitempty"`
	VariantIndex int    `json:"variantIndex"`
	Image        string `json:"image,omitempty"`

	Quantity int `json:"quantity"`

	Name             string   `json:"name"`
	ImageName        string   `json:"imageName,omitempty"`
	ImageDescription string   `json:"imageDescription,omitempty"`
	ImageIndex       int      `json:"imageIndex"`
	BasePrice        float64  `json:"basePrice"`
	DiscountPrice    *float64 `json:"discountPrice,omitempty"`
}

// sameLine compares composite identity.
func (it Item) sameLine(productID, size string, variantIndex int, image string) bool {
	return it.ProductID == productID &&
		it.Size == size &&
		it.VariantIndex == variantIndex &&
		it.Image == image
}

// UnitPrice is the effective price of this line, from the snapshot
// taken at add time. The discount is only honored while it is positive
// and strictly below the base price, mirroring the catalog rule.
func (it Item) UnitPrice() float64 {
	base := it.BasePrice
	if base < 0 {
		base = 0
	}
	if it.DiscountPrice != nil && *it.DiscountPrice > 0 && *it.DiscountPrice < base {
		return *it.DiscountPrice
	}
	return base
}

func (it Item) HasDiscount() bool {
	return it.DiscountPrice != nil && *it.DiscountPrice > 0 && *it.DiscountPrice < it.BasePrice
}

// NewItem builds a cart line from a product and a confirmed selection.
func NewItem(p *domain.Product, sel catalog.Selection, quantity int) Item {
	if quantity < 1 {
		quantity = 1
	}
	var dp *float64
	if v, ok := catalog.DiscountPrice(p); ok {
		dp = &v
	}
	return Item{
		ProductID:        p.ID,
		Size:             sel.Size,
		VariantIndex:     sel.VariantIndex,
		Image:            sel.Image,
		Quantity:         quantity,
		Name:             p.Name,
		ImageName:        sel.Meta.Name,
		ImageDescription: sel.Meta.Description,
		ImageIndex:       sel.Meta.Index,
		BasePrice:        catalog.BasePrice(p),
		DiscountPrice:    dp,
	}
}

// Store persists the whole collection atomically on every mutation, so
// a crash mid-write can never corrupt previously stored entries.
type Store interface {
	Load() ([]Item, error)
	Save(items []Item) error
}

// Ledger owns the in-memory cart and mirrors it to its Store.
// Mutations apply optimistically; a persistence failure is logged, not
// rolled back.
type Ledger struct {
	mu    sync.Mutex
	items []Item
	store Store
}

// NewLedger loads the ledger from store. A load failure starts empty;
// an unreadable cart must not take the storefront down.
func NewLedger(store Store) *Ledger {
	l := &Ledger{store: store}
	if store == nil {
		return l
	}
	items, err := store.Load()
	if err != nil {
		zap.L().Warn("cart load failed, starting empty", zap.Error(err))
		return l
	}
	l.items = items
	return l
}

func (l *Ledger) persist() {
	if l.store == nil {
		return
	}
	if err := l.store.Save(append([]Item(nil), l.items...)); err != nil {
		zap.L().Warn("cart persist failed", zap.Error(err))
	}
}

// AddItem merges by composite identity: an existing line gains the
// incoming quantity, otherwise the item is appended as a new line.
func (l *Ledger) AddItem(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].sameLine(item.ProductID, item.Size, item.VariantIndex, item.Image) {
			l.items[i].Quantity += item.Quantity
			l.persist()
			return
		}
	}
	l.items = append(l.items, item)
	l.persist()
}

// UpdateQuantity sets the quantity of the matching line directly.
// newQuantity <= 0 removes the line. Missing lines are a no-op.
func (l *Ledger) UpdateQuantity(productID, size string, newQuantity, variantIndex int, image string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if !l.items[i].sameLine(productID, size, variantIndex, image) {
			continue
		}
		if newQuantity <= 0 {
			l.items = append(l.items[:i], l.items[i+1:]...)
		} else {
			l.items[i].Quantity = newQuantity
		}
		l.persist()
		return
	}
}

// RemoveItem deletes the matching line; no-op when absent.
func (l *Ledger) RemoveItem(productID, size string, variantIndex int, image string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].sameLine(productID, size, variantIndex, image) {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.persist()
			return
		}
	}
}

// Clear empties the ledger (after a completed checkout).
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.persist()
}

// Items returns a copy of the current lines.
func (l *Ledger) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Item(nil), l.items...)
}

// TotalQuantity is the badge count: the sum of line quantities.
func (l *Ledger) TotalQuantity() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, it := range l.items {
		n += it.Quantity
	}
	return n
}

// Subtotal sums unit price times quantity over all lines.
func (l *Ledger) Subtotal() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	sum := 0.0
	for _, it := range l.items {
		sum += it.UnitPrice() * float64(it.Quantity)
	}
	return sum
}

// OrderLines snapshots the ledger for order submission. Price is the
// resolved unit price, not the base price.
func (l *Ledger) OrderLines() domain.OrderItems {
	l.mu.Lock()
	defer l.mu.Unlock()
	lines := make(domain.OrderItems, 0, len(l.items))
	for _, it := range l.items {
		lines = append(lines, domain.OrderItem{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Price:        it.UnitPrice(),
			Quantity:     it.Quantity,
			Size:         it.Size,
			VariantIndex: it.VariantIndex,
			Image:        it.Image,
		})
	}
	return lines
}
