package catalog

import (
	"errors"
	"testing"
)

func TestSelectorSingleSizeAutoSelect(t *testing.T) {
	p := productWithStock(t, `{"M":3}`, []string{"M"}, []string{"a.jpg"})
	s := NewSelector(p)
	if s.Size() != "M" {
		t.Fatalf("size = %q, want auto-selected M", s.Size())
	}
	sel, err := s.Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if sel.Size != "M" || sel.Image != "a.jpg" {
		t.Fatalf("selection = %+v", sel)
	}
}

func TestSelectorMultiSizeRequiresChoice(t *testing.T) {
	p := legacyProduct(t, `{"S":1,"M":1}`)
	s := NewSelector(p)
	if s.Size() != "" {
		t.Fatalf("size = %q, want unselected", s.Size())
	}
	if _, err := s.Confirm(); !errors.Is(err, ErrSizeRequired) {
		t.Fatalf("confirm err = %v, want ErrSizeRequired", err)
	}
	s.SelectSize("M")
	sel, err := s.Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if sel.Size != "M" {
		t.Fatalf("selection = %+v", sel)
	}
}

func TestSelectorSizelessProduct(t *testing.T) {
	p := productWithStock(t, `{}`, nil, []string{"a.jpg"})
	s := NewSelector(p)
	if s.OutOfStock() {
		t.Fatal("size-less product should never be out of stock")
	}
	sel, err := s.Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if sel.Size != "" || sel.VariantIndex != NoVariant {
		t.Fatalf("selection = %+v", sel)
	}
}

func TestSelectorImageChangeClearsDeadSize(t *testing.T) {
	p := productWithStock(t, `{"__mode":"per_image","variants":[
		{"stock":{"S":2,"M":1}},
		{"stock":{"S":0,"M":4}}
	]}`, []string{"S", "M"}, []string{"a.jpg", "b.jpg"})

	s := NewSelector(p)
	s.SelectSize("S")
	if s.VariantIndex() != 0 {
		t.Fatalf("variant = %d, want 0", s.VariantIndex())
	}

	// switching to the image whose variant has no S forces a re-choice
	s.SetActiveImage("b.jpg")
	if s.VariantIndex() != 1 {
		t.Fatalf("variant = %d, want 1", s.VariantIndex())
	}
	if s.Size() != "" {
		t.Fatalf("size = %q, want cleared", s.Size())
	}

	// switching back does not resurrect the choice
	s.SetActiveImage("a.jpg")
	if s.Size() != "" {
		t.Fatalf("size = %q, want still cleared", s.Size())
	}
}

func TestSelectorImageChangeKeepsLiveSize(t *testing.T) {
	p := productWithStock(t, `{"__mode":"per_image","variants":[
		{"stock":{"S":2}},
		{"stock":{"S":1}}
	]}`, []string{"S", "M"}, []string{"a.jpg", "b.jpg"})

	s := NewSelector(p)
	s.SelectSize("S")
	s.SetActiveImage("b.jpg")
	if s.Size() != "S" {
		t.Fatalf("size = %q, want kept", s.Size())
	}
}

func TestSelectorOutOfStockExposure(t *testing.T) {
	p := productWithStock(t, `{"__mode":"per_image","variants":[
		{"stock":{"S":1,"M":0}}
	]}`, []string{"S", "M"}, []string{"a.jpg"})

	s := NewSelector(p)
	// recording an out-of-stock size is allowed, the flag exposes it
	s.SelectSize("M")
	if s.Size() != "M" {
		t.Fatalf("size = %q, want M recorded", s.Size())
	}
	if !s.OutOfStock() {
		t.Fatal("M should read out of stock")
	}
	s.SelectSize("S")
	if s.OutOfStock() {
		t.Fatal("S should read in stock")
	}
}

func TestSelectorLegacyImageChangeKeepsSize(t *testing.T) {
	p := legacyProduct(t, `{"S":0,"M":2}`)
	s := NewSelector(p)
	s.SelectSize("M")
	s.SetActiveImage("b.jpg")
	if s.VariantIndex() != NoVariant {
		t.Fatalf("variant = %d, want NoVariant", s.VariantIndex())
	}
	if s.Size() != "M" {
		t.Fatalf("size = %q, want kept (one shared stock pool)", s.Size())
	}
}

func TestSelectorConfirmCarriesMeta(t *testing.T) {
	p := productWithStock(t, `{"__mode":"per_image","variants":[
		{"name":"Black","description":"Matte","stock":{"S":1}},
		{"name":"Tan","description":"Leather","stock":{"S":1}}
	]}`, []string{"S"}, []string{"a.jpg", "b.jpg"})

	s := NewSelector(p)
	s.SetActiveImage("b.jpg")
	sel, err := s.Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if sel.Meta.Name != "Tan" || sel.Meta.Index != 1 || sel.Image != "b.jpg" {
		t.Fatalf("selection = %+v", sel)
	}
}
