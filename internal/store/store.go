// Package store is the catalog persistence layer. The same Repository
// interface is served by postgres (cloud mode) and by an embedded bbolt
// file (local demo mode), so everything above it is agnostic to where
// the data lives.
package store

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"

	"github.com/baggolabs/baggo/internal/domain"
)

// TopicChanged is published on the event bus after every catalog
// mutation, with the entity kind as argument. Consumers use it to drop
// caches; it is a best-effort change notification, not a sync protocol.
const TopicChanged = "store.changed"

type OrderFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpsertProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpsertCategory(ctx context.Context, c *domain.Category) error
	// DeleteCategory removes the category and every product in it.
	DeleteCategory(ctx context.Context, slug string) error

	GetSiteSettings(ctx context.Context) (*domain.SiteSettings, error)
	SaveSiteSettings(ctx context.Context, s *domain.SiteSettings) error

	GetShippingSettings(ctx context.Context) (*domain.ShippingSettings, error)
	SaveShippingSettings(ctx context.Context, s *domain.ShippingSettings) error

	ListPromos(ctx context.Context) ([]domain.PromoCode, error)
	GetPromoByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	UpsertPromo(ctx context.Context, p *domain.PromoCode) error
	DeletePromo(ctx context.Context, id int64) error

	CreateOrder(ctx context.Context, o *domain.Order) error
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	DeleteOrder(ctx context.Context, id string) error
}

func publish(bus EventBus.Bus, kind string) {
	if bus != nil {
		bus.Publish(TopicChanged, kind)
	}
}

// NormalizeProduct cleans a product the way the admin form does before
// saving: trimmed name, lower-case category slug, blank-free image and
// size lists, non-negative price, and a fresh id when missing. The
// stock blob itself is already validated by its codec.
func NormalizeProduct(p *domain.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	if p.Price < 0 || math.IsNaN(p.Price) {
		p.Price = 0
	}
	p.Images = compact(p.Images)
	p.Sizes = compact(p.Sizes)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
}

// NormalizeCategory lower-cases the slug and trims the label.
func NormalizeCategory(c *domain.Category) {
	c.Slug = strings.ToLower(strings.TrimSpace(c.Slug))
	c.Label = strings.TrimSpace(c.Label)
	if c.ID == "" {
		c.ID = c.Slug
	}
}

func compact(in domain.StringList) domain.StringList {
	out := make(domain.StringList, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
