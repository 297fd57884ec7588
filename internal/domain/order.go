package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// OrderItem is a write-once snapshot of a cart line taken at checkout.
// Price is the resolved unit price at submission time, so historical
// orders stay stable when the catalog changes later. VariantIndex is -1
// for legacy-stock lines.
type OrderItem struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	Size         string  `json:"size,omitempty"`
	VariantIndex int     `json:"variantIndex"`
	Image        string  `json:"image,omitempty"`
}

type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	b, err := json.Marshal([]OrderItem(items))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (items *OrderItems) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*items = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported items column type %T", src)
	}
	var out []OrderItem
	if err := json.Unmarshal(data, &out); err != nil {
		*items = nil
		return nil
	}
	*items = out
	return nil
}

// Customer is optional checkout contact info, stored as jsonb.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (c Customer) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *Customer) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = Customer{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported customer column type %T", src)
	}
	var out Customer
	if err := json.Unmarshal(data, &out); err != nil {
		*c = Customer{}
		return nil
	}
	*c = out
	return nil
}

const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDone      = "done"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID             string     `gorm:"primaryKey;size:64" json:"id" form:"id"`
	Status         string     `gorm:"index" json:"status" form:"status"`
	Customer       Customer   `gorm:"type:jsonb" json:"customer"`
	Items          OrderItems `gorm:"type:jsonb" json:"items"`
	PromoCode      string     `json:"promo_code" form:"promo_code"`
	DeliveryMethod string     `json:"delivery_method" form:"delivery_method"`
	Notes          string     `json:"notes" form:"notes"`
	Subtotal       float64    `json:"subtotal"`
	Discount       float64    `json:"discount"`
	Shipping       float64    `json:"shipping"`
	Total          float64    `json:"total"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
