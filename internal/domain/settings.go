package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// BannerSettings and HeroSettings drive the storefront homepage.
type BannerSettings struct {
	Enabled     bool   `json:"enabled"`
	Text        string `json:"text"`
	ButtonLabel string `json:"buttonLabel"`
	ButtonHref  string `json:"buttonHref"`
}

type HeroSettings struct {
	BadgeText         string `json:"badgeText"`
	Title             string `json:"title"`
	Subtitle          string `json:"subtitle"`
	PrimaryCtaLabel   string `json:"primaryCtaLabel"`
	PrimaryCtaHref    string `json:"primaryCtaHref"`
	SecondaryCtaLabel string `json:"secondaryCtaLabel"`
	SecondaryCtaHref  string `json:"secondaryCtaHref"`
	MainProductID     string `json:"mainProductId"`
	SideProductID     string `json:"sideProductId"`
}

// SiteSettings is a single-row table (id=1), like the hosted
// site_settings table the storefront reads.
type SiteSettings struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	SiteName  string         `json:"site_name" form:"site_name"`
	Whatsapp  string         `json:"whatsapp" form:"whatsapp"`
	Banner    BannerSettings `gorm:"embedded;embeddedPrefix:banner_" json:"banner"`
	Hero      HeroSettings   `gorm:"embedded;embeddedPrefix:hero_" json:"hero"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (SiteSettings) TableName() string {
	return "site_settings"
}

func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		ID:       1,
		SiteName: "Baggo",
		Banner: BannerSettings{
			Enabled: true,
			Text:    "This is Baggo",
		},
		Hero: HeroSettings{
			BadgeText:         "New drop • Minimal, premium pieces",
			Title:             "Carry better. Shop Baggo.",
			Subtitle:          "Discover products, save favorites, and add to cart in one tap.",
			PrimaryCtaLabel:   "Shop now",
			PrimaryCtaHref:    "/shop",
			SecondaryCtaLabel: "Explore bags",
			SecondaryCtaHref:  "/shop?category=bags",
		},
	}
}

// ShippingMethod is one selectable delivery option.
type ShippingMethod struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Fee    float64 `json:"fee"`
	Active bool    `json:"active"`
}

type ShippingMethods []ShippingMethod

func (m ShippingMethods) Value() (driver.Value, error) {
	b, err := json.Marshal([]ShippingMethod(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *ShippingMethods) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported methods column type %T", src)
	}
	var out []ShippingMethod
	if err := json.Unmarshal(data, &out); err != nil {
		*m = nil
		return nil
	}
	*m = out
	return nil
}

// ShippingSettings is a single-row table. FreeThreshold nil disables
// free shipping.
type ShippingSettings struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	Methods       ShippingMethods `gorm:"type:jsonb" json:"methods"`
	FreeThreshold *float64        `json:"free_threshold" form:"free_threshold"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (ShippingSettings) TableName() string {
	return "shipping_settings"
}

func DefaultShippingSettings() ShippingSettings {
	return ShippingSettings{
		ID: 1,
		Methods: ShippingMethods{
			{Code: "standard", Label: "Standard delivery", Fee: 5, Active: true},
			{Code: "express", Label: "Express delivery", Fee: 12, Active: true},
			{Code: "pickup", Label: "Store pickup", Fee: 0, Active: true},
		},
	}
}

const (
	PromoTypeFixed   = "fixed"
	PromoTypePercent = "percent"
)

// PromoCode is an admin-managed discount code.
type PromoCode struct {
	ID          int64      `gorm:"primaryKey" json:"id,string" form:"id"`
	Code        string     `gorm:"uniqueIndex" json:"code" form:"code"`
	Type        string     `json:"type" form:"type"`
	Value       float64    `json:"value" form:"value"`
	MinSubtotal float64    `json:"min_subtotal" form:"min_subtotal"`
	ExpiresAt   *time.Time `json:"expires_at" form:"expires_at"`
	Status      string     `gorm:"index" json:"status" form:"status"`
	Remark      string     `json:"remark" form:"remark"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (PromoCode) TableName() string {
	return "promo_codes"
}
