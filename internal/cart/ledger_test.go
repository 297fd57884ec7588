package cart

import (
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/baggolabs/baggo/internal/catalog"
	"github.com/baggolabs/baggo/internal/domain"
)

func testItem(productID, size string, variantIndex int, image string) Item {
	return Item{
		ProductID:    productID,
		Size:         size,
		VariantIndex: variantIndex,
		Image:        image,
		Quantity:     1,
		Name:         "Tote",
		BasePrice:    40,
	}
}

func TestAddItemMergesIdenticalLines(t *testing.T) {
	l := NewLedger(NewMemoryStore())
	l.AddItem(testItem("p1", "S", 0, "a.jpg"))
	l.AddItem(testItem("p1", "S", 0, "a.jpg"))

	items := l.Items()
	if len(items) != 1 {
		t.Fatalf("lines = %d, want 1 merged line", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", items[0].Quantity)
	}
}

func TestAddItemDistinctIdentity(t *testing.T) {
	l := NewLedger(NewMemoryStore())
	l.AddItem(testItem("p1", "S", 0, "a.jpg"))
	// same product and size, different image/variant: a new line
	l.AddItem(testItem("p1", "S", 1, "b.jpg"))
	l.AddItem(testItem("p1", "M", 0, "a.jpg"))

	if got := len(l.Items()); got != 3 {
		t.Fatalf("lines = %d, want 3 distinct lines", got)
	}
	if got := l.TotalQuantity(); got != 3 {
		t.Fatalf("total quantity = %d, want 3", got)
	}
}

func TestAddItemDefaultsQuantity(t *testing.T) {
	l := NewLedger(NewMemoryStore())
	it := testItem("p1", "S", 0, "a.jpg")
	it.Quantity = 0
	l.AddItem(it)
	if got := l.Items()[0].Quantity; got != 1 {
		t.Fatalf("quantity = %d, want defaulted 1", got)
	}
}

func TestUpdateQuantitySetsDirectly(t *testing.T) {
	l := NewLedger(NewMemoryStore())
	l.AddItem(testItem("p1", "S", 0, "a.jpg"))
	l.UpdateQuantity("p1", "S", 5, 0, "a.jpg")
	if got := l.Items()[0].Quantity; got != 5 {
		t.Fatalf("quantity = %d, want 5 (set, not merged)", got)
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	l := NewLedger(NewMemoryStore())
	l.AddItem(testItem("p1", "S", 0, "a.jpg"))
	l.UpdateQuantity("p1", "S", 0, 0, "a.jpg")
	if got := len(l.Items()); got != 0 {
		t.Fatalf("lines = %d, want 0 after zero update", got)
	}

	l.AddItem(testItem("p1", "S", 0, "a.jpg"))
	l.UpdateQuantity("p1", "S", -2, 0, "a.jpg")
	if got := len(l.Items()); got != 0 {
		t.Fatalf("lines = %d, want 0 after negative update", got)
	}
}

func TestUpdateQuantityMissingLineIsNoop(t *testing.T) {
	l := NewLedger(NewMemoryStore())
	l.AddItem(testItem("p1", "S", 0, "a.jpg"))
	l.UpdateQuantity("p1", "S", 9, 1, "b.jpg")
	if got := l.Items()[0].Quantity; got != 1 {
		t.Fatalf("quantity = %d, want untouched 1", got)
	}
}

func TestRemoveItem(t *testing.T) {
	l := NewLedger(NewMemoryStore())
	l.AddItem(testItem("p1", "S", 0, "a.jpg"))
	l.AddItem(testItem("p1", "S", 1, "b.jpg"))

	l.RemoveItem("p1", "S", 0, "a.jpg")
	items := l.Items()
	if len(items) != 1 || items[0].Image != "b.jpg" {
		t.Fatalf("items = %+v, want only the b.jpg line", items)
	}
	// removing again is a no-op
	l.RemoveItem("p1", "S", 0, "a.jpg")
	if got := len(l.Items()); got != 1 {
		t.Fatalf("lines = %d after duplicate remove", got)
	}
}

func TestItemUnitPriceSnapshot(t *testing.T) {
	dp := 25.0
	it := testItem("p1", "S", 0, "a.jpg")
	it.DiscountPrice = &dp

	if got := it.UnitPrice(); got != 25 {
		t.Fatalf("unit = %v, want discounted 25", got)
	}
	if !it.HasDiscount() {
		t.Fatal("HasDiscount = false")
	}

	bad := 40.0 // equal to base: not a discount
	it.DiscountPrice = &bad
	if got := it.UnitPrice(); got != 40 {
		t.Fatalf("unit = %v, want base 40", got)
	}
}

func TestOrderLinesUseResolvedPrice(t *testing.T) {
	dp := 25.0
	l := NewLedger(NewMemoryStore())
	it := testItem("p1", "S", 0, "a.jpg")
	it.Quantity = 2
	it.DiscountPrice = &dp
	l.AddItem(it)

	lines := l.OrderLines()
	if len(lines) != 1 {
		t.Fatalf("lines = %d", len(lines))
	}
	if lines[0].Price != 25 {
		t.Fatalf("price = %v, want the resolved unit price 25", lines[0].Price)
	}
	if lines[0].Quantity != 2 || lines[0].ProductID != "p1" || lines[0].Size != "S" {
		t.Fatalf("line = %+v", lines[0])
	}
	if got := l.Subtotal(); got != 50 {
		t.Fatalf("subtotal = %v, want 50", got)
	}
}

func TestNewItemFromSelection(t *testing.T) {
	var st domain.Stock
	if err := st.UnmarshalJSON([]byte(`{"S":3,"__discount_price":25}`)); err != nil {
		t.Fatalf("stock: %v", err)
	}
	p := &domain.Product{
		ID:     "p1",
		Name:   "Tote",
		Price:  40,
		Sizes:  domain.StringList{"S"},
		Images: domain.StringList{"a.jpg"},
		Stock:  st,
	}
	sel := catalog.Selection{Size: "S", VariantIndex: catalog.NoVariant, Image: "a.jpg"}
	it := NewItem(p, sel, 0)
	if it.Quantity != 1 {
		t.Fatalf("quantity = %d, want defaulted 1", it.Quantity)
	}
	if it.BasePrice != 40 || it.UnitPrice() != 25 {
		t.Fatalf("prices = base %v unit %v", it.BasePrice, it.UnitPrice())
	}
}

func TestBoltStoreRoundTrip(t *testing.T) {
	db, err := bolt.Open(filepath.Join(t.TempDir(), "cart.db"), 0600, nil)
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	defer db.Close()

	store := NewBoltStore(db, "session-1")
	l := NewLedger(store)
	l.AddItem(testItem("p1", "S", 0, "a.jpg"))
	l.AddItem(testItem("p2", "", -1, "c.jpg"))

	// a fresh ledger over the same store sees the persisted lines
	l2 := NewLedger(NewBoltStore(db, "session-1"))
	items := l2.Items()
	if len(items) != 2 {
		t.Fatalf("reloaded lines = %d, want 2", len(items))
	}

	// carts are isolated per id
	other := NewLedger(NewBoltStore(db, "session-2"))
	if got := len(other.Items()); got != 0 {
		t.Fatalf("other cart lines = %d, want 0", got)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	l3 := NewLedger(NewBoltStore(db, "session-1"))
	if got := len(l3.Items()); got != 0 {
		t.Fatalf("lines after delete = %d, want 0", got)
	}
}
