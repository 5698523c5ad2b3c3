package aggregate

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"cargoflow/internal/models"
)

func item(mark string, qty int, cbm string) models.WarehouseItem {
	return models.WarehouseItem{
		ShippingMark: mark,
		Quantity:     qty,
		Cbm:          decimal.RequireFromString(cbm),
	}
}

func TestGroupByShippingMark(t *testing.T) {
	items := []models.WarehouseItem{
		item("A", 3, "1.2"),
		item("A", 2, "0.5"),
		item("B", 1, "0.1"),
	}

	groups := GroupByShippingMark(items, nil)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	a := groups["A"]
	if a.TotalQuantity != 5 {
		t.Errorf("A quantity = %d, want 5", a.TotalQuantity)
	}
	if !a.TotalCbm.Equal(decimal.RequireFromString("1.7")) {
		t.Errorf("A cbm = %s, want 1.7", a.TotalCbm)
	}
	b := groups["B"]
	if b.TotalQuantity != 1 || !b.TotalCbm.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("B totals = %d/%s, want 1/0.1", b.TotalQuantity, b.TotalCbm)
	}
}

func TestEmptyMarkFallsIntoUnknown(t *testing.T) {
	items := []models.WarehouseItem{
		item("", 2, "0.3"),
		item("  ", 1, "0.2"),
		item("A", 1, "0.1"),
	}

	groups := GroupByShippingMark(items, nil)

	unknown, ok := groups[UnknownMark]
	if !ok {
		t.Fatal("expected an Unknown group for items without a mark")
	}
	if len(unknown.Items) != 2 || unknown.TotalQuantity != 3 {
		t.Errorf("Unknown group has %d items / qty %d, want 2 / 3", len(unknown.Items), unknown.TotalQuantity)
	}
}

// Shuffling the input must not change group totals or membership.
func TestOrderIndependence(t *testing.T) {
	items := []models.WarehouseItem{
		item("A", 3, "1.2"), item("B", 1, "0.1"), item("A", 2, "0.5"),
		item("C", 7, "2.25"), item("B", 4, "0.75"), item("", 1, "0.05"),
	}

	want := GroupByShippingMark(items, nil)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]models.WarehouseItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := GroupByShippingMark(shuffled, nil)
		if len(got) != len(want) {
			t.Fatalf("trial %d: %d groups, want %d", trial, len(got), len(want))
		}
		for mark, w := range want {
			g, ok := got[mark]
			if !ok {
				t.Fatalf("trial %d: missing group %q", trial, mark)
			}
			if g.TotalQuantity != w.TotalQuantity || !g.TotalCbm.Equal(w.TotalCbm) || len(g.Items) != len(w.Items) {
				t.Errorf("trial %d: group %q diverged", trial, mark)
			}
		}
	}
}

// The sum of group totals must equal the sum over the filtered input.
func TestTotalsReconcile(t *testing.T) {
	items := []models.WarehouseItem{
		item("A", 3, "1.2"), item("B", 1, "0.1"), item("", 2, "0.4"),
		item("C", 5, "0.33"), item("A", 2, "0.5"),
	}

	groups := GroupByShippingMark(items, nil)

	var gotQty, wantQty int
	gotCbm, wantCbm := decimal.Zero, decimal.Zero
	for _, g := range groups {
		gotQty += g.TotalQuantity
		gotCbm = gotCbm.Add(g.TotalCbm)
	}
	for _, it := range items {
		wantQty += it.Quantity
		wantCbm = wantCbm.Add(it.Cbm)
	}
	if gotQty != wantQty {
		t.Errorf("group quantity sum = %d, input sum = %d", gotQty, wantQty)
	}
	if !gotCbm.Equal(wantCbm) {
		t.Errorf("group cbm sum = %s, input sum = %s", gotCbm, wantCbm)
	}
}

func TestMatchQuery(t *testing.T) {
	items := []models.WarehouseItem{
		{TrackingID: "TRK-001", ShippingMark: "ACCRA-01", Description: "electronics"},
		{TrackingID: "TRK-002", ShippingMark: "KUMASI-02", Description: "textiles"},
	}

	cases := []struct {
		query string
		want  int
	}{
		{"accra", 1},
		{"TRK", 2},
		{"textile", 1},
		{"nothing-matches", 0},
		{"", 2},
	}
	for _, c := range cases {
		groups := GroupByShippingMark(items, MatchQuery(c.query))
		total := 0
		for _, g := range groups {
			total += len(g.Items)
		}
		if total != c.want {
			t.Errorf("query %q matched %d items, want %d", c.query, total, c.want)
		}
	}
}

func TestMarksSorted(t *testing.T) {
	groups := GroupByShippingMark([]models.WarehouseItem{
		item("C", 1, "0"), item("A", 1, "0"), item("B", 1, "0"),
	}, nil)

	marks := Marks(groups)
	want := []string{"A", "B", "C"}
	for i, m := range want {
		if marks[i] != m {
			t.Fatalf("Marks() = %v, want %v", marks, want)
		}
	}
}
