package shipping

import (
	"testing"

	"github.com/baggolabs/baggo/internal/domain"
)

func settings(freeThreshold *float64) *domain.ShippingSettings {
	return &domain.ShippingSettings{
		ID: 1,
		Methods: domain.ShippingMethods{
			{Code: "standard", Label: "Standard", Fee: 5, Active: true},
			{Code: "express", Label: "Express", Fee: 12, Active: true},
			{Code: "drone", Label: "Drone", Fee: 50, Active: false},
		},
		FreeThreshold: freeThreshold,
	}
}

func TestFindMethod(t *testing.T) {
	s := settings(nil)
	if m := FindMethod(s, "express"); m == nil || m.Fee != 12 {
		t.Fatalf("express = %+v", m)
	}
	// inactive methods are not selectable
	if m := FindMethod(s, "drone"); m != nil {
		t.Fatalf("drone = %+v, want nil", m)
	}
	if m := FindMethod(s, "teleport"); m != nil {
		t.Fatalf("unknown = %+v, want nil", m)
	}
}

func TestFirstActive(t *testing.T) {
	s := settings(nil)
	if m := FirstActive(s); m == nil || m.Code != "standard" {
		t.Fatalf("first = %+v", m)
	}
	if m := FirstActive(nil); m != nil {
		t.Fatalf("nil settings = %+v", m)
	}
}

func TestFee(t *testing.T) {
	s := settings(nil)
	if got := Fee(s, "standard", 30); got != 5 {
		t.Fatalf("fee = %v, want 5", got)
	}
	if got := Fee(s, "unknown", 30); got != 0 {
		t.Fatalf("unknown method fee = %v, want 0", got)
	}
	if got := Fee(nil, "standard", 30); got != 0 {
		t.Fatalf("nil settings fee = %v, want 0", got)
	}
}

func TestFreeThreshold(t *testing.T) {
	thr := 100.0
	s := settings(&thr)
	if got := Fee(s, "express", 100); got != 0 {
		t.Fatalf("at threshold = %v, want free", got)
	}
	if got := Fee(s, "express", 99.5); got != 12 {
		t.Fatalf("below threshold = %v, want 12", got)
	}
}
