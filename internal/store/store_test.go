package store

import (
	"context"
	"testing"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"cargoflow/internal/coordinator"
	"cargoflow/internal/models"
	"cargoflow/internal/registry"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	err = db.AutoMigrate(
		&models.WarehouseItem{},
		&models.Container{},
		&models.Claim{},
		&models.ClaimImage{},
		&models.StatusEvent{},
	).Error
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func seedItems(t *testing.T, s *Store) {
	t.Helper()
	reg := registry.New()
	rows := []models.WarehouseItem{
		{ShippingMark: "ACCRA-01", Description: "phone cases", Quantity: 3,
			Cbm: decimal.RequireFromString("1.2"), Warehouse: models.WarehouseChina, Mode: models.ModeSea},
		{ShippingMark: "ACCRA-01", Description: "chargers", Quantity: 2,
			Cbm: decimal.RequireFromString("0.5"), Warehouse: models.WarehouseChina, Mode: models.ModeSea},
		{ShippingMark: "KUMASI-02", Description: "fabrics", Quantity: 1,
			Cbm: decimal.RequireFromString("0.1"), Warehouse: models.WarehouseGhana, Mode: models.ModeAir},
	}
	for i := range rows {
		if err := s.CreateItem(&rows[i], reg); err != nil {
			t.Fatalf("seed item %d: %v", i, err)
		}
	}
}

func TestCreateAndListItems(t *testing.T) {
	s := testStore(t)
	seedItems(t, s)

	items, count, err := s.ListItems(ListFilters{}, nil)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if count != 3 || len(items) != 3 {
		t.Fatalf("count=%d len=%d, want 3/3", count, len(items))
	}
	for _, it := range items {
		if it.TrackingID == "" {
			t.Error("created item missing generated tracking id")
		}
		if it.Status != "PENDING" {
			t.Errorf("created item status = %q, want PENDING", it.Status)
		}
	}
}

func TestListItemsFilters(t *testing.T) {
	s := testStore(t)
	seedItems(t, s)

	items, count, err := s.ListItems(ListFilters{Search: "kumasi"}, nil)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if count != 1 || items[0].ShippingMark != "KUMASI-02" {
		t.Errorf("search kumasi: count=%d items=%v", count, items)
	}

	_, count, err = s.ListItems(ListFilters{Warehouse: models.WarehouseChina, CargoType: models.ModeSea}, nil)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if count != 2 {
		t.Errorf("china sea count = %d, want 2", count)
	}
}

func TestListItemsPagination(t *testing.T) {
	s := testStore(t)
	seedItems(t, s)

	items, count, err := s.ListItems(ListFilters{Page: 2, PageSize: 2, Ordering: "quantity"}, nil)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want total 3 regardless of page", count)
	}
	if len(items) != 1 {
		t.Errorf("page 2 of size 2 has %d items, want 1", len(items))
	}
}

func TestUpdateStatusWritesHistory(t *testing.T) {
	s := testStore(t)
	seedItems(t, s)

	items, _, _ := s.ListItems(ListFilters{}, nil)
	id := items[0].ID

	err := s.UpdateStatus(context.Background(), registry.KindItem, id, "PENDING", "READY_FOR_SHIPPING", 1)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	got, err := s.GetItem(id)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Status != "READY_FOR_SHIPPING" {
		t.Errorf("status = %q, want READY_FOR_SHIPPING", got.Status)
	}

	events, err := s.ItemHistory(id)
	if err != nil {
		t.Fatalf("ItemHistory: %v", err)
	}
	if len(events) != 1 || events[0].FromStatus != "PENDING" || events[0].ToStatus != "READY_FOR_SHIPPING" {
		t.Errorf("history = %+v, want one PENDING -> READY_FOR_SHIPPING event", events)
	}
}

func TestUpdateStatusMissingRow(t *testing.T) {
	s := testStore(t)

	err := s.UpdateStatus(context.Background(), registry.KindItem, 999, "PENDING", "READY_FOR_SHIPPING", 1)
	if err != coordinator.ErrNotFound {
		t.Errorf("UpdateStatus on missing row = %v, want ErrNotFound", err)
	}
}

func TestBulkUpdateStatusReportsMissing(t *testing.T) {
	s := testStore(t)
	seedItems(t, s)
	items, _, _ := s.ListItems(ListFilters{}, nil)

	ids := []uint{items[0].ID, items[1].ID, 12345}
	failed, err := s.BulkUpdateStatus(context.Background(), registry.KindItem, ids, "READY_FOR_SHIPPING")
	if err != nil {
		t.Fatalf("BulkUpdateStatus: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("failed = %v, want only the missing id", failed)
	}
	if failed[12345] != coordinator.ErrNotFound {
		t.Errorf("failed[12345] = %v, want ErrNotFound", failed[12345])
	}
}

func TestDeleteIsSoft(t *testing.T) {
	s := testStore(t)
	seedItems(t, s)
	items, _, _ := s.ListItems(ListFilters{}, nil)
	id := items[0].ID

	if err := s.Delete(context.Background(), registry.KindItem, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetItem(id); err != coordinator.ErrNotFound {
		t.Errorf("GetItem after delete = %v, want ErrNotFound", err)
	}
	_, count, _ := s.ListItems(ListFilters{}, nil)
	if count != 2 {
		t.Errorf("count after delete = %d, want 2", count)
	}
	// Deleting the same row again reports it gone.
	if err := s.Delete(context.Background(), registry.KindItem, id); err != coordinator.ErrNotFound {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestCreateClaimCapsImages(t *testing.T) {
	s := testStore(t)
	claim := &models.Claim{
		TrackingID: "TRK-9",
		ItemName:   "blender",
		CustomerID: 7,
		Images: []models.ClaimImage{
			{URL: "a.jpg"}, {URL: "b.jpg"}, {URL: "c.jpg"}, {URL: "d.jpg"},
		},
	}
	if err := s.CreateClaim(claim, registry.New()); err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}
	got, err := s.GetClaim(claim.ID)
	if err != nil {
		t.Fatalf("GetClaim: %v", err)
	}
	if len(got.Images) != models.MaxClaimImages {
		t.Errorf("claim stored %d images, want %d", len(got.Images), models.MaxClaimImages)
	}
	if got.Status != "PENDING" {
		t.Errorf("claim status = %q, want PENDING", got.Status)
	}
}
