// Package store is the gorm-backed persistence boundary. It implements the
// coordinator's Remote interface and list/get/create for the API layer.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"cargoflow/internal/coordinator"
	"cargoflow/internal/models"
	"cargoflow/internal/registry"
)

// ListFilters are the query parameters recognized by every list operation.
type ListFilters struct {
	Search    string
	Status    string
	Warehouse string
	CargoType string
	Page      int
	PageSize  int
	Ordering  string
}

// Scope narrows a query to the rows a user may see, typically built by the
// policy package.
type Scope func(*gorm.DB) *gorm.DB

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// orderings whitelists client-supplied ordering values per table.
var orderings = map[string]string{
	"date_received":  "date_received asc",
	"-date_received": "date_received desc",
	"arrival_date":   "arrival_date asc",
	"-arrival_date":  "arrival_date desc",
	"created_at":     "created_at asc",
	"-created_at":    "created_at desc",
	"quantity":       "quantity asc",
	"-quantity":      "quantity desc",
}

func paginate(q *gorm.DB, f ListFilters) *gorm.DB {
	if order, ok := orderings[f.Ordering]; ok {
		q = q.Order(order)
	} else {
		q = q.Order("created_at desc")
	}
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * pageSize).Limit(pageSize)
}

// ListItems returns one page of warehouse items plus the total count for
// the filter set.
func (s *Store) ListItems(f ListFilters, scope Scope) ([]models.WarehouseItem, int, error) {
	q := s.db.Model(&models.WarehouseItem{})
	if scope != nil {
		q = scope(q)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(tracking_id) LIKE ? OR LOWER(shipping_mark) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Warehouse != "" {
		q = q.Where("warehouse = ?", f.Warehouse)
	}
	if f.CargoType != "" {
		q = q.Where("mode = ?", f.CargoType)
	}

	var count int
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var items []models.WarehouseItem
	if err := paginate(q, f).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

// ListContainers returns one page of containers plus the total count.
func (s *Store) ListContainers(f ListFilters, scope Scope) ([]models.Container, int, error) {
	q := s.db.Model(&models.Container{})
	if scope != nil {
		q = scope(q)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(container_id) LIKE ?", like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Warehouse != "" {
		q = q.Where("origin_warehouse = ? OR dest_warehouse = ?", f.Warehouse, f.Warehouse)
	}
	if f.CargoType != "" {
		q = q.Where("type = ?", f.CargoType)
	}

	var count int
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var containers []models.Container
	if err := paginate(q, f).Find(&containers).Error; err != nil {
		return nil, 0, err
	}
	return containers, count, nil
}

// ListClaims returns one page of claims with images plus the total count.
func (s *Store) ListClaims(f ListFilters, scope Scope) ([]models.Claim, int, error) {
	q := s.db.Model(&models.Claim{})
	if scope != nil {
		q = scope(q)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(tracking_id) LIKE ? OR LOWER(item_name) LIKE ?", like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var count int
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var claims []models.Claim
	if err := paginate(q, f).Preload("Images").Find(&claims).Error; err != nil {
		return nil, 0, err
	}
	return claims, count, nil
}

// GetItem loads one warehouse item by primary key.
func (s *Store) GetItem(id uint) (*models.WarehouseItem, error) {
	var item models.WarehouseItem
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &item, nil
}

// GetContainer loads one container by primary key.
func (s *Store) GetContainer(id uint) (*models.Container, error) {
	var ctn models.Container
	if err := s.db.First(&ctn, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &ctn, nil
}

// GetClaim loads one claim with its images by primary key.
func (s *Store) GetClaim(id uint) (*models.Claim, error) {
	var claim models.Claim
	if err := s.db.Preload("Images").First(&claim, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &claim, nil
}

// CreateItem inserts a new item in its initial state with a generated
// tracking reference.
func (s *Store) CreateItem(item *models.WarehouseItem, reg *registry.Registry) error {
	if item.TrackingID == "" {
		item.TrackingID = uuid.New().String()
	}
	item.Status = reg.InitialState(registry.KindItem)
	if item.DateReceived.IsZero() {
		item.DateReceived = time.Now()
	}
	return s.db.Create(item).Error
}

// CreateContainer inserts a new container in its initial state.
func (s *Store) CreateContainer(ctn *models.Container, reg *registry.Registry) error {
	ctn.Status = reg.InitialState(registry.KindContainer)
	return s.db.Create(ctn).Error
}

// CreateClaim inserts a new claim in its initial state, capping supporting
// images at the limit.
func (s *Store) CreateClaim(claim *models.Claim, reg *registry.Registry) error {
	claim.Status = reg.InitialState(registry.KindClaim)
	if len(claim.Images) > models.MaxClaimImages {
		claim.Images = claim.Images[:models.MaxClaimImages]
	}
	return s.db.Create(claim).Error
}

// ItemHistory returns the recorded status transitions for an item, newest
// first.
func (s *Store) ItemHistory(id uint) ([]models.StatusEvent, error) {
	var events []models.StatusEvent
	err := s.db.Where("entity_kind = ? AND entity_id = ?", string(registry.KindItem), id).
		Order("created_at desc").Find(&events).Error
	return events, err
}

// UpdateStatus persists a status transition and appends a history event.
func (s *Store) UpdateStatus(ctx context.Context, kind registry.EntityKind, id uint, from, to string, actorID uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	updates := map[string]interface{}{"status": to}
	if kind == registry.KindContainer && to == string(models.ContainerStatusFlagged) {
		updates["prior_status"] = from
	}
	res := tx.Table(tableFor(kind)).Where("id = ? AND deleted_at IS NULL", id).Updates(updates)
	if res.Error != nil {
		tx.Rollback()
		return res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return coordinator.ErrNotFound
	}
	event := models.StatusEvent{
		EntityKind: string(kind),
		EntityID:   id,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
	}
	if err := tx.Create(&event).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// UpdateFields persists a field patch.
func (s *Store) UpdateFields(ctx context.Context, kind registry.EntityKind, id uint, patch map[string]interface{}) error {
	res := s.db.Table(tableFor(kind)).Where("id = ? AND deleted_at IS NULL", id).Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return coordinator.ErrNotFound
	}
	return nil
}

// BulkUpdateStatus moves many rows in one statement. Rows that have
// disappeared are reported per member rather than failing the batch.
func (s *Store) BulkUpdateStatus(ctx context.Context, kind registry.EntityKind, ids []uint, to string) (map[uint]error, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	res := s.db.Table(tableFor(kind)).Where("id IN (?) AND deleted_at IS NULL", ids).Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}
	if int(res.RowsAffected) == len(ids) {
		return nil, nil
	}
	// Some members were missing; find out which.
	var present []uint
	if err := s.db.Table(tableFor(kind)).Where("id IN (?) AND deleted_at IS NULL", ids).Pluck("id", &present).Error; err != nil {
		return nil, err
	}
	found := make(map[uint]bool, len(present))
	for _, id := range present {
		found[id] = true
	}
	failed := make(map[uint]error)
	for _, id := range ids {
		if !found[id] {
			failed[id] = coordinator.ErrNotFound
		}
	}
	return failed, nil
}

// Delete soft-deletes a row.
func (s *Store) Delete(ctx context.Context, kind registry.EntityKind, id uint) error {
	var res *gorm.DB
	switch kind {
	case registry.KindItem:
		res = s.db.Where("id = ?", id).Delete(&models.WarehouseItem{})
	case registry.KindContainer:
		res = s.db.Where("id = ?", id).Delete(&models.Container{})
	case registry.KindClaim:
		res = s.db.Where("id = ?", id).Delete(&models.Claim{})
	default:
		return fmt.Errorf("unknown entity kind %q", kind)
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return coordinator.ErrNotFound
	}
	return nil
}

func tableFor(kind registry.EntityKind) string {
	switch kind {
	case registry.KindItem:
		return "warehouse_items"
	case registry.KindContainer:
		return "containers"
	case registry.KindClaim:
		return "claims"
	}
	return ""
}

func (s *Store) translate(err error) error {
	if gorm.IsRecordNotFoundError(err) {
		return coordinator.ErrNotFound
	}
	return err
}
