package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/pkg/common"
)

// demoStock blobs cover both wire formats so the demo catalog
// exercises legacy and per-image resolution paths.
var demoProducts = []struct {
	name, description, category string
	price                       float64
	featured                    bool
	images, sizes               []string
	stock                       string
}{
	{
		name: "Canvas Tote", description: "Everyday 14oz canvas carry bag.",
		category: "bags", price: 29, featured: true,
		images: []string{"tote-natural.jpg", "tote-black.jpg"},
		sizes:  []string{"One Size"},
		stock: `{"__mode":"per_image","variants":[
			{"name":"Natural","description":"Raw canvas","stock":{"One Size":12}},
			{"name":"Black","description":"Dyed canvas","stock":{"One Size":4}}]}`,
	},
	{
		name: "Weekender Duffel", description: "48h travel duffel with shoe pocket.",
		category: "bags", price: 89, featured: true,
		images: []string{"duffel.jpg"},
		sizes:  []string{"S", "M", "L"},
		stock:  `{"S":3,"M":5,"L":0,"__discount_price":69}`,
	},
	{
		name: "Card Wallet", description: "Slim six card leather wallet.",
		category: "accessories", price: 19,
		images: []string{"wallet.jpg"},
		sizes:  []string{"One Size"},
		stock:  `{"One Size":25}`,
	},
}

var demoCategories = []domain.Category{
	{Slug: "bags", Label: "Bags", Visible: true, SortOrder: 1},
	{Slug: "accessories", Label: "Accessories", Visible: true, SortOrder: 2},
}

// SeedDemo fills an empty repository with the demo catalog. A
// repository that already has products is left alone.
func SeedDemo(ctx context.Context, repo Repository) error {
	existing, err := repo.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for i := range demoCategories {
		c := demoCategories[i]
		c.ID = common.UUID()
		if err := repo.UpsertCategory(ctx, &c); err != nil {
			return err
		}
	}
	for _, d := range demoProducts {
		p := domain.Product{
			Name:        d.name,
			Description: d.description,
			Category:    d.category,
			Price:       d.price,
			Featured:    d.featured,
			Visible:     true,
			Images:      d.images,
			Sizes:       d.sizes,
		}
		if err := p.Stock.UnmarshalJSON([]byte(d.stock)); err != nil {
			return err
		}
		if err := repo.UpsertProduct(ctx, &p); err != nil {
			return err
		}
	}
	def := domain.DefaultSiteSettings()
	if err := repo.SaveSiteSettings(ctx, &def); err != nil {
		return err
	}
	ship := domain.DefaultShippingSettings()
	if err := repo.SaveShippingSettings(ctx, &ship); err != nil {
		return err
	}
	zap.L().Info("seeded demo catalog",
		zap.Int("products", len(demoProducts)),
		zap.Int("categories", len(demoCategories)))
	return nil
}
