package domain

import "time"

// Product is a catalog item. Images are ordered; in per-image stock mode
// variant i corresponds to images[i]. The stock jsonb blob is the sole
// source of truth for availability and also carries the discount
// override and per-image display metadata (see Stock).
type Product struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id" form:"id"`
	Name        string     `gorm:"index" json:"name" form:"name"`
	Description string     `json:"description" form:"description"`
	Category    string     `gorm:"column:category_slug;index" json:"category" form:"category"`
	Price       float64    `json:"price" form:"price"`
	Featured    bool       `json:"featured" form:"featured"`
	Visible     bool       `json:"visible" form:"visible"`
	Images      StringList `gorm:"type:jsonb" json:"images" form:"images"`
	Sizes       StringList `gorm:"type:jsonb" json:"sizes" form:"sizes"`
	Stock       Stock      `gorm:"type:jsonb" json:"stock"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Image returns the cover image (images[0]).
func (p *Product) Image() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

const (
	CategoryTypeNormal = "normal"
	CategoryTypeSecret = "secret"
)

// Category is a storefront collection. A "secret" category carries a
// plain password; clients must verify it before showing the collection.
// The password never leaves the admin surface.
type Category struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id" form:"id"`
	Slug         string    `gorm:"uniqueIndex" json:"slug" form:"slug"`
	Label        string    `json:"label" form:"label"`
	CategoryType string    `json:"category_type,omitempty" form:"category_type"`
	Password     string    `json:"password,omitempty" form:"password"`
	Visible      bool      `json:"visible" form:"visible"`
	SortOrder    int       `json:"sort_order" form:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// IsSecret reports whether the category is password gated. An empty
// type means "normal".
func (c *Category) IsSecret() bool {
	return c.CategoryType == CategoryTypeSecret
}
