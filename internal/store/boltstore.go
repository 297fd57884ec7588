package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	bucketProducts   = "products"
	bucketCategories = "categories"
	bucketSettings   = "settings"
	bucketPromos     = "promos"
	bucketOrders     = "orders"

	keySiteSettings     = "site"
	keyShippingSettings = "shipping"
)

// BoltRepository is the demo-mode Repository over an embedded bbolt
// file. Every write replaces the full serialized record in one
// transaction.
type BoltRepository struct {
	db  *bolt.DB
	bus EventBus.Bus
}

func NewBoltRepository(db *bolt.DB, bus EventBus.Bus) (*BoltRepository, error) {
	r := &BoltRepository{db: db, bus: bus}
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketProducts, bucketCategories, bucketSettings, bucketPromos, bucketOrders} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "init local store")
	}
	return r, nil
}

var _ Repository = (*BoltRepository)(nil)

func (r *BoltRepository) put(bucket, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), raw)
	})
}

func (r *BoltRepository) get(bucket, key string, v interface{}) (bool, error) {
	found := false
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, v)
	})
	return found, err
}

func (r *BoltRepository) delete(bucket, key string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Delete([]byte(key))
	})
}

func (r *BoltRepository) ListProducts(_ context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketProducts)).ForEach(func(_, raw []byte) error {
			var p domain.Product
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			rows = append(rows, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (r *BoltRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	found, err := r.get(bucketProducts, id, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (r *BoltRepository) UpsertProduct(_ context.Context, p *domain.Product) error {
	NormalizeProduct(p)
	p.UpdatedAt = time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	if err := r.put(bucketProducts, p.ID, p); err != nil {
		return err
	}
	publish(r.bus, "products")
	return nil
}

func (r *BoltRepository) DeleteProduct(_ context.Context, id string) error {
	if err := r.delete(bucketProducts, id); err != nil {
		return err
	}
	publish(r.bus, "products")
	return nil
}

func (r *BoltRepository) ListCategories(_ context.Context) ([]domain.Category, error) {
	var rows []domain.Category
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketCategories)).ForEach(func(_, raw []byte) error {
			var c domain.Category
			if err := json.Unmarshal(raw, &c); err != nil {
				return err
			}
			rows = append(rows, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SortOrder < rows[j].SortOrder
	})
	return rows, nil
}

func (r *BoltRepository) UpsertCategory(_ context.Context, c *domain.Category) error {
	NormalizeCategory(c)
	if c.Slug == "" || c.Label == "" {
		return errors.New("category slug and label are required")
	}
	c.UpdatedAt = time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}
	if err := r.put(bucketCategories, c.Slug, c); err != nil {
		return err
	}
	publish(r.bus, "categories")
	return nil
}

func (r *BoltRepository) DeleteCategory(ctx context.Context, slug string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	err := r.db.Update(func(tx *bolt.Tx) error {
		products := tx.Bucket([]byte(bucketProducts))
		var doomed [][]byte
		err := products.ForEach(func(k, raw []byte) error {
			var p domain.Product
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			if p.Category == slug {
				doomed = append(doomed, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range doomed {
			if err := products.Delete(k); err != nil {
				return err
			}
		}
		return tx.Bucket([]byte(bucketCategories)).Delete([]byte(slug))
	})
	if err != nil {
		return err
	}
	publish(r.bus, "categories")
	return nil
}

func (r *BoltRepository) GetSiteSettings(_ context.Context) (*domain.SiteSettings, error) {
	var s domain.SiteSettings
	found, err := r.get(bucketSettings, keySiteSettings, &s)
	if err != nil {
		return nil, err
	}
	if !found {
		def := domain.DefaultSiteSettings()
		return &def, nil
	}
	return &s, nil
}

func (r *BoltRepository) SaveSiteSettings(_ context.Context, s *domain.SiteSettings) error {
	s.ID = 1
	s.UpdatedAt = time.Now()
	if err := r.put(bucketSettings, keySiteSettings, s); err != nil {
		return err
	}
	publish(r.bus, "settings")
	return nil
}

func (r *BoltRepository) GetShippingSettings(_ context.Context) (*domain.ShippingSettings, error) {
	var s domain.ShippingSettings
	found, err := r.get(bucketSettings, keyShippingSettings, &s)
	if err != nil {
		return nil, err
	}
	if !found {
		def := domain.DefaultShippingSettings()
		return &def, nil
	}
	return &s, nil
}

func (r *BoltRepository) SaveShippingSettings(_ context.Context, s *domain.ShippingSettings) error {
	s.ID = 1
	s.UpdatedAt = time.Now()
	if err := r.put(bucketSettings, keyShippingSettings, s); err != nil {
		return err
	}
	publish(r.bus, "shipping")
	return nil
}

func (r *BoltRepository) ListPromos(_ context.Context) ([]domain.PromoCode, error) {
	var rows []domain.PromoCode
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPromos)).ForEach(func(_, raw []byte) error {
			var p domain.PromoCode
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			rows = append(rows, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows, nil
}

func (r *BoltRepository) GetPromoByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	rows, err := r.ListPromos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Code == code {
			return &rows[i], nil
		}
	}
	return nil, nil
}

func (r *BoltRepository) UpsertPromo(_ context.Context, p *domain.PromoCode) error {
	if p.ID == 0 {
		p.ID = common.UUIDint64()
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	if err := r.put(bucketPromos, p.Code, p); err != nil {
		return err
	}
	publish(r.bus, "promos")
	return nil
}

func (r *BoltRepository) DeletePromo(ctx context.Context, id int64) error {
	rows, err := r.ListPromos(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.ID == id {
			if err := r.delete(bucketPromos, row.Code); err != nil {
				return err
			}
			publish(r.bus, "promos")
			return nil
		}
	}
	return nil
}

func (r *BoltRepository) CreateOrder(_ context.Context, o *domain.Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.UpdatedAt = o.CreatedAt
	if err := r.put(bucketOrders, o.ID, o); err != nil {
		return err
	}
	publish(r.bus, "orders")
	return nil
}

func (r *BoltRepository) ListOrders(_ context.Context, filter OrderFilter) ([]domain.Order, error) {
	var rows []domain.Order
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketOrders)).ForEach(func(_, raw []byte) error {
			var o domain.Order
			if err := json.Unmarshal(raw, &o); err != nil {
				return err
			}
			if filter.Status != "" && o.Status != filter.Status {
				return nil
			}
			if filter.From != nil && o.CreatedAt.Before(*filter.From) {
				return nil
			}
			if filter.To != nil && o.CreatedAt.After(*filter.To) {
				return nil
			}
			rows = append(rows, o)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (r *BoltRepository) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	found, err := r.get(bucketOrders, id, &o)
	if err != nil || !found {
		return nil, err
	}
	return &o, nil
}

func (r *BoltRepository) UpdateOrderStatus(ctx context.Context, id, status string) error {
	o, err := r.GetOrder(ctx, id)
	if err != nil || o == nil {
		return err
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	if err := r.put(bucketOrders, id, o); err != nil {
		return err
	}
	publish(r.bus, "orders")
	return nil
}

func (r *BoltRepository) DeleteOrder(_ context.Context, id string) error {
	if err := r.delete(bucketOrders, id); err != nil {
		return err
	}
	publish(r.bus, "orders")
	return nil
}
