package domain

import (
	"database/sql/driver"
	"fmt"
	"math"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Stock wire format keys. The hosted products table has a single jsonb
// stock column and no discount/metadata columns, so those ride inside
// the blob as side-channel keys.
const (
	stockModeKey      = "__mode"
	stockVariantsKey  = "variants"
	discountPriceKey  = "__discount_price"
	imageMetaKey      = "__image_meta"
	StockModePerImage = "per_image"
)

// ImageMeta is optional per-image display info (caption name/description).
type ImageMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Variant is one image-aligned stock bucket in per-image mode.
// Sizes holds only explicitly set quantities; a size absent from the map
// falls back to variant 0 at query time.
type Variant struct {
	Name        string
	Description string
	Sizes       map[string]int
}

// Qty returns the explicit quantity for size, and whether it was set.
func (v Variant) Qty(size string) (int, bool) {
	q, ok := v.Sizes[size]
	return q, ok
}

// Stock is the tagged union of the two stock encodings:
//
//	legacy:    {"S": 4, "M": 0}
//	per-image: {"__mode":"per_image","variants":[{"name":...,"stock":{"S":2}}, ...]}
//
// Either encoding may additionally carry __discount_price and (legacy
// only) __image_meta side-channel keys. Quantities are validated once
// here, at the boundary: floored, clamped at zero, garbage coerced to an
// explicit zero, null/empty treated as not set.
type Stock struct {
	PerImage bool
	Sizes    map[string]int // legacy mode
	Variants []Variant      // per-image mode

	// Side channels, not part of quantity semantics.
	DiscountPrice *float64
	ImageMeta     []ImageMeta

	// Unknown "__" keys are carried through untouched so foreign
	// side-channel data survives a read-modify-write cycle.
	extra map[string]jsoniter.RawMessage
}

// coerceQty mirrors the storefront's tolerant number handling: anything
// numeric is floored and clamped at zero, anything else counts as zero.
func coerceQty(v interface{}) int {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := int(math.Floor(f))
	if n < 0 {
		return 0
	}
	return n
}

// isUnset reports whether a raw stock value means "no entry" (fall back
// to variant 0) as opposed to an explicit quantity.
func isUnset(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}

func parseSizeMap(raw map[string]interface{}) map[string]int {
	out := make(map[string]int, len(raw))
	for k, v := range raw {
		if isUnset(v) {
			continue
		}
		out[k] = coerceQty(v)
	}
	return out
}

func parseVariant(raw interface{}) Variant {
	v := Variant{Sizes: map[string]int{}}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return v
	}
	v.Name = strings.TrimSpace(cast.ToString(m["name"]))
	v.Description = cast.ToString(m["description"])
	if sm, ok := m["stock"].(map[string]interface{}); ok {
		v.Sizes = parseSizeMap(sm)
	}
	return v
}

func parseDiscount(v interface{}) *float64 {
	if isUnset(v) {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseImageMeta(v interface{}) []ImageMeta {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]ImageMeta, len(arr))
	for i, e := range arr {
		if m, ok := e.(map[string]interface{}); ok {
			out[i] = ImageMeta{
				Name:        cast.ToString(m["name"]),
				Description: cast.ToString(m["description"]),
			}
		}
	}
	return out
}

// UnmarshalJSON never fails on malformed payloads: anything that is not
// a recognizable stock object degrades to an empty legacy map, which
// reads as zero stock everywhere.
func (s *Stock) UnmarshalJSON(data []byte) error {
	*s = Stock{Sizes: map[string]int{}}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil
	}

	if cast.ToString(raw[stockModeKey]) == StockModePerImage {
		if vs, ok := raw[stockVariantsKey].([]interface{}); ok {
			s.PerImage = true
			s.Variants = make([]Variant, len(vs))
			for i, rv := range vs {
				s.Variants[i] = parseVariant(rv)
			}
		}
	}

	s.DiscountPrice = parseDiscount(raw[discountPriceKey])
	s.ImageMeta = parseImageMeta(raw[imageMetaKey])

	for k, v := range raw {
		switch k {
		case stockModeKey, stockVariantsKey, discountPriceKey, imageMetaKey:
			continue
		}
		if strings.HasPrefix(k, "__") {
			b, err := json.Marshal(v)
			if err == nil {
				if s.extra == nil {
					s.extra = map[string]jsoniter.RawMessage{}
				}
				s.extra[k] = b
			}
			continue
		}
		if s.PerImage {
			// quantity keys are meaningless next to variants; drop them
			continue
		}
		if !isUnset(v) {
			s.Sizes[k] = coerceQty(v)
		}
	}
	return nil
}

func (s Stock) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if s.PerImage {
		out[stockModeKey] = StockModePerImage
		vs := make([]map[string]interface{}, len(s.Variants))
		for i, v := range s.Variants {
			vs[i] = map[string]interface{}{
				"name":        v.Name,
				"description": v.Description,
				"stock":       v.Sizes,
			}
		}
		out[stockVariantsKey] = vs
	} else {
		for k, q := range s.Sizes {
			out[k] = q
		}
		if len(s.ImageMeta) > 0 {
			out[imageMetaKey] = s.ImageMeta
		}
	}
	if s.DiscountPrice != nil {
		out[discountPriceKey] = *s.DiscountPrice
	}
	for k, v := range s.extra {
		out[k] = v
	}
	return json.Marshal(out)
}

// Value / Scan make Stock usable as a gorm jsonb column.
func (s Stock) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Stock) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = Stock{Sizes: map[string]int{}}
		return nil
	case []byte:
		return s.UnmarshalJSON(v)
	case string:
		return s.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("unsupported stock column type %T", src)
	}
}

// SizeLabels returns the declared legacy size keys in stable order,
// used by inventory views when the product record lacks a sizes list.
func (s Stock) SizeLabels() []string {
	labels := make([]string, 0, len(s.Sizes))
	for k := range s.Sizes {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// StringList is a jsonb-backed ordered list of strings (images, sizes).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported list column type %T", src)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		*l = nil
		return nil
	}
	*l = out
	return nil
}
