package cart

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MemoryStore is a non-durable Store for tests and ephemeral carts.
type MemoryStore struct {
	items []Item
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() ([]Item, error) {
	return append([]Item(nil), s.items...), nil
}

func (s *MemoryStore) Save(items []Item) error {
	s.items = append([]Item(nil), items...)
	return nil
}

const cartsBucket = "carts"

// BoltStore persists one cart collection per cart id inside a shared
// bbolt file. Each Save writes the whole serialized collection in a
// single transaction, which gives the atomicity the ledger relies on.
type BoltStore struct {
	db     *bolt.DB
	cartID string
}

func NewBoltStore(db *bolt.DB, cartID string) *BoltStore {
	return &BoltStore{db: db, cartID: cartID}
}

func (s *BoltStore) Load() ([]Item, error) {
	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cartsBucket))
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(s.cartID))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &items)
	})
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	return items, nil
}

func (s *BoltStore) Save(items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(cartsBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(s.cartID), raw)
	})
	return errors.Wrap(err, "save cart")
}

// Delete drops the persisted cart entirely.
func (s *BoltStore) Delete() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cartsBucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(s.cartID))
	})
}
