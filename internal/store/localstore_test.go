package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	bolt "go.etcd.io/bbolt"

	"github.com/baggolabs/baggo/internal/domain"
)

func openRepo(t *testing.T) *BoltRepository {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "store.db"), 0o600, nil)
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo, err := NewBoltRepository(db, EventBus.New())
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func TestBoltProductRoundTrip(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	p := domain.Product{Name: "  Tote  ", Category: "Bags", Price: 29, Visible: true}
	if err := repo.UpsertProduct(ctx, &p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated id")
	}
	got, err := repo.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Name != "Tote" || got.Category != "bags" {
		t.Fatalf("unexpected product: %+v", got)
	}

	if err := repo.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = repo.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil after delete")
	}
}

func TestBoltDeleteCategoryCascades(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	if err := repo.UpsertCategory(ctx, &domain.Category{ID: "c1", Slug: "bags", Label: "Bags"}); err != nil {
		t.Fatalf("category: %v", err)
	}
	inCat := domain.Product{Name: "Tote", Category: "bags", Price: 29}
	other := domain.Product{Name: "Wallet", Category: "accessories", Price: 19}
	for _, p := range []*domain.Product{&inCat, &other} {
		if err := repo.UpsertProduct(ctx, p); err != nil {
			t.Fatalf("product: %v", err)
		}
	}

	if err := repo.DeleteCategory(ctx, "bags"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	rows, err := repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Wallet" {
		t.Fatalf("expected only wallet to survive, got %+v", rows)
	}
	cats, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 0 {
		t.Fatalf("expected no categories, got %+v", cats)
	}
}

func TestBoltSettingsDefaults(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	site, err := repo.GetSiteSettings(ctx)
	if err != nil {
		t.Fatalf("site settings: %v", err)
	}
	if site == nil {
		t.Fatal("expected default site settings")
	}

	ship, err := repo.GetShippingSettings(ctx)
	if err != nil {
		t.Fatalf("shipping settings: %v", err)
	}
	if len(ship.Methods) == 0 {
		t.Fatal("expected default shipping methods")
	}

	ship.FreeThreshold = nil
	if err := repo.SaveShippingSettings(ctx, ship); err != nil {
		t.Fatalf("save shipping: %v", err)
	}
	again, err := repo.GetShippingSettings(ctx)
	if err != nil {
		t.Fatalf("reload shipping: %v", err)
	}
	if again.FreeThreshold != nil {
		t.Fatal("expected persisted nil threshold")
	}
}

func TestBoltPromoByCode(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	p := domain.PromoCode{Code: "WELCOME10", Type: domain.PromoTypePercent, Value: 10, Status: "enabled"}
	if err := repo.UpsertPromo(ctx, &p); err != nil {
		t.Fatalf("upsert promo: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected generated promo id")
	}
	got, err := repo.GetPromoByCode(ctx, "WELCOME10")
	if err != nil {
		t.Fatalf("get promo: %v", err)
	}
	if got == nil || got.Value != 10 {
		t.Fatalf("unexpected promo: %+v", got)
	}
	miss, err := repo.GetPromoByCode(ctx, "NOPE")
	if err != nil {
		t.Fatalf("miss promo: %v", err)
	}
	if miss != nil {
		t.Fatal("expected nil for unknown code")
	}
	if err := repo.DeletePromo(ctx, p.ID); err != nil {
		t.Fatalf("delete promo: %v", err)
	}
	rows, _ := repo.ListPromos(ctx)
	if len(rows) != 0 {
		t.Fatalf("expected no promos, got %+v", rows)
	}
}

func TestBoltOrderFilter(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	old := domain.Order{ID: "o1", Status: domain.OrderStatusNew, CreatedAt: time.Now().Add(-48 * time.Hour)}
	recent := domain.Order{ID: "o2", Status: domain.OrderStatusNew, CreatedAt: time.Now()}
	for _, o := range []*domain.Order{&old, &recent} {
		if err := repo.CreateOrder(ctx, o); err != nil {
			t.Fatalf("create order: %v", err)
		}
	}

	from := time.Now().Add(-24 * time.Hour)
	rows, err := repo.ListOrders(ctx, OrderFilter{From: &from})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "o2" {
		t.Fatalf("expected only recent order, got %+v", rows)
	}

	if err := repo.UpdateOrderStatus(ctx, "o2", domain.OrderStatusShipped); err != nil {
		t.Fatalf("status: %v", err)
	}
	rows, err = repo.ListOrders(ctx, OrderFilter{Status: domain.OrderStatusShipped})
	if err != nil {
		t.Fatalf("list shipped: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "o2" {
		t.Fatalf("expected shipped order, got %+v", rows)
	}
}

func TestSeedDemoIdempotent(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	if err := SeedDemo(ctx, repo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	first, err := repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected seeded products")
	}
	if err := SeedDemo(ctx, repo); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	second, _ := repo.ListProducts(ctx)
	if len(second) != len(first) {
		t.Fatalf("reseed changed product count: %d != %d", len(second), len(first))
	}
}
