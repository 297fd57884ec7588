package store

import (
	"context"
	"errors"
	"time"

	"github.com/asaskevich/EventBus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/pkg/common"
)

// GormRepository is the cloud-mode Repository over postgres.
type GormRepository struct {
	db  *gorm.DB
	bus EventBus.Bus
}

func NewGormRepository(db *gorm.DB, bus EventBus.Bus) *GormRepository {
	return &GormRepository{db: db, bus: bus}
}

var _ Repository = (*GormRepository)(nil)

func (r *GormRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *GormRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepository) UpsertProduct(ctx context.Context, p *domain.Product) error {
	NormalizeProduct(p)
	p.UpdatedAt = time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(p).Error
	if err == nil {
		publish(r.bus, "products")
	}
	return err
}

func (r *GormRepository) DeleteProduct(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error
	if err == nil {
		publish(r.bus, "products")
	}
	return err
}

func (r *GormRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []domain.Category
	err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&rows).Error
	return rows, err
}

func (r *GormRepository) UpsertCategory(ctx context.Context, c *domain.Category) error {
	NormalizeCategory(c)
	if c.Slug == "" || c.Label == "" {
		return errors.New("category slug and label are required")
	}
	c.UpdatedAt = time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		UpdateAll: true,
	}).Create(c).Error
	if err == nil {
		publish(r.bus, "categories")
	}
	return err
}

// DeleteCategory removes the category's products first: the storefront
// treats a removed category as a cascade delete, not an orphaning.
func (r *GormRepository) DeleteCategory(ctx context.Context, slug string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_slug = ?", slug).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		return tx.Where("slug = ?", slug).Delete(&domain.Category{}).Error
	})
	if err == nil {
		publish(r.bus, "categories")
	}
	return err
}

func (r *GormRepository) GetSiteSettings(ctx context.Context) (*domain.SiteSettings, error) {
	var s domain.SiteSettings
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := domain.DefaultSiteSettings()
		return &def, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) SaveSiteSettings(ctx context.Context, s *domain.SiteSettings) error {
	s.ID = 1
	s.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(s).Error
	if err == nil {
		publish(r.bus, "settings")
	}
	return err
}

func (r *GormRepository) GetShippingSettings(ctx context.Context) (*domain.ShippingSettings, error) {
	var s domain.ShippingSettings
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := domain.DefaultShippingSettings()
		return &def, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) SaveShippingSettings(ctx context.Context, s *domain.ShippingSettings) error {
	s.ID = 1
	s.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(s).Error
	if err == nil {
		publish(r.bus, "shipping")
	}
	return err
}

func (r *GormRepository) ListPromos(ctx context.Context) ([]domain.PromoCode, error) {
	var rows []domain.PromoCode
	err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *GormRepository) GetPromoByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var p domain.PromoCode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepository) UpsertPromo(ctx context.Context, p *domain.PromoCode) error {
	if p.ID == 0 {
		p.ID = common.UUIDint64()
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(p).Error
	if err == nil {
		publish(r.bus, "promos")
	}
	return err
}

func (r *GormRepository) DeletePromo(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.PromoCode{}).Error
	if err == nil {
		publish(r.bus, "promos")
	}
	return err
}

func (r *GormRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.UpdatedAt = o.CreatedAt
	err := r.db.WithContext(ctx).Create(o).Error
	if err == nil {
		publish(r.bus, "orders")
	}
	return err
}

func (r *GormRepository) ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	var rows []domain.Order
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *GormRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepository) UpdateOrderStatus(ctx context.Context, id, status string) error {
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error
	if err == nil {
		publish(r.bus, "orders")
	}
	return err
}

func (r *GormRepository) DeleteOrder(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Order{}).Error
	if err == nil {
		publish(r.bus, "orders")
	}
	return err
}
