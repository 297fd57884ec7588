package catalog

import "testing"

func TestImageIndex(t *testing.T) {
	p := legacyProduct(t, `{}`)
	if got := ImageIndex(p, "b.jpg"); got != 1 {
		t.Fatalf("index = %d, want 1", got)
	}
	// unknown URLs resolve to the cover image
	if got := ImageIndex(p, "gone.jpg"); got != 0 {
		t.Fatalf("miss index = %d, want 0", got)
	}
	if got := ImageIndex(p, ""); got != 0 {
		t.Fatalf("empty index = %d, want 0", got)
	}
}

func TestMetaForPerImage(t *testing.T) {
	p := legacyProduct(t, `{"__mode":"per_image","variants":[
		{"name":"Black","description":"Matte black","stock":{}},
		{"stock":{}}
	]}`)

	m := MetaFor(p, 0)
	if m.Name != "Black" || m.Description != "Matte black" || m.Index != 0 {
		t.Fatalf("meta 0 = %+v", m)
	}
	m = MetaFor(p, 1)
	if m.Name != "" || m.Description != "" {
		t.Fatalf("meta 1 = %+v, want empty strings", m)
	}
	m = MetaFor(p, 9)
	if m.Name != "" || m.Index != 9 {
		t.Fatalf("out-of-range meta = %+v", m)
	}
}

func TestMetaForLegacySideArray(t *testing.T) {
	p := legacyProduct(t, `{"S":1,"__image_meta":[{"name":"Front","description":"Front view"}]}`)

	m := MetaFor(p, 0)
	if m.Name != "Front" || m.Description != "Front view" {
		t.Fatalf("meta = %+v", m)
	}
	m = MetaFor(p, 1)
	if m.Name != "" || m.Description != "" {
		t.Fatalf("missing meta = %+v, want empty strings", m)
	}
	if m := MetaFor(p, -3); m.Index != 0 {
		t.Fatalf("negative index = %+v, want clamped to 0", m)
	}
	if m := MetaFor(nil, 2); m.Name != "" || m.Index != 2 {
		t.Fatalf("nil product meta = %+v", m)
	}
}
