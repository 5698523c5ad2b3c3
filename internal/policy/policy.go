// Package policy centralizes role-based visibility: which rows a user may
// query, which columns they see, and which mutations they may perform.
package policy

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"cargoflow/internal/models"
	"cargoflow/internal/registry"
)

// Action names a mutation a caller wants to perform.
type Action string

const (
	ActionCreate       Action = "create"
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
	ActionStatusChange Action = "status_change"
)

// ForbiddenError reports a mutation outside the role's permissions.
type ForbiddenError struct {
	Role   string
	Action Action
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %s is not allowed to %s", e.Role, e.Action)
}

// ScopeQuery returns a gorm scope restricting a query to the rows the user
// may see. Customers only see rows carrying their own shipping mark (or,
// for claims, rows they submitted); staff are limited to their warehouse
// access set, empty meaning unrestricted.
func ScopeQuery(user *models.User, kind registry.EntityKind) func(*gorm.DB) *gorm.DB {
	if user.IsStaff() {
		warehouses := user.WarehouseList()
		return func(db *gorm.DB) *gorm.DB {
			if len(warehouses) == 0 || kind == registry.KindClaim {
				return db
			}
			switch kind {
			case registry.KindContainer:
				return db.Where("origin_warehouse IN (?) OR dest_warehouse IN (?)", warehouses, warehouses)
			default:
				return db.Where("warehouse IN (?)", warehouses)
			}
		}
	}
	return func(db *gorm.DB) *gorm.DB {
		switch kind {
		case registry.KindClaim:
			return db.Where("customer_id = ?", user.ID)
		default:
			return db.Where("shipping_mark = ?", user.ShippingMark)
		}
	}
}

// ScopeItems filters an in-memory item slice the same way ScopeQuery scopes
// a database query, for callers that already hold the rows.
func ScopeItems(user *models.User, items []models.WarehouseItem) []models.WarehouseItem {
	if user.IsStaff() {
		warehouses := user.WarehouseList()
		if len(warehouses) == 0 {
			return items
		}
		allowed := make(map[string]bool, len(warehouses))
		for _, w := range warehouses {
			allowed[w] = true
		}
		out := items[:0:0]
		for _, it := range items {
			if allowed[it.Warehouse] {
				out = append(out, it)
			}
		}
		return out
	}
	out := items[:0:0]
	for _, it := range items {
		if it.ShippingMark == user.ShippingMark {
			out = append(out, it)
		}
	}
	return out
}

// VisibleColumns returns the field set the role may see for the entity
// kind. Redaction happens after retrieval and before serialization;
// client-supplied role flags are never trusted.
func VisibleColumns(role string, kind registry.EntityKind) map[string]bool {
	staff := role != models.RoleCustomer
	switch kind {
	case registry.KindItem:
		cols := set("tracking_id", "shipping_mark", "description", "quantity",
			"cbm", "weight", "status", "warehouse", "mode", "date_received")
		if staff {
			cols["supply_tracking"] = true
			cols["customer_id"] = true
			cols["container_id"] = true
		}
		return cols
	case registry.KindContainer:
		// Customers see a reduced container view.
		if !staff {
			return set("container_id", "arrival_date", "status")
		}
		return set("container_id", "type", "origin_warehouse", "dest_warehouse",
			"status", "prior_status", "load_date", "arrival_date", "rate", "item_count")
	case registry.KindClaim:
		cols := set("tracking_id", "item_name", "description", "images", "status", "created_at")
		if staff {
			cols["admin_notes"] = true
			cols["customer_id"] = true
		}
		return cols
	}
	return nil
}

// CanMutate decides whether the role may perform the action on the entity
// kind at all. Per-row rules (a customer editing somebody else's PENDING
// claim) are checked by the mutation coordinator, which also knows the row.
func CanMutate(role string, kind registry.EntityKind, action Action) error {
	if role != models.RoleCustomer {
		return nil
	}
	// Customers may only manage their own claims; item and container
	// mutations are staff-only.
	if kind == registry.KindClaim {
		switch action {
		case ActionCreate, ActionEdit, ActionDelete:
			return nil
		}
	}
	return &ForbiddenError{Role: role, Action: action}
}

// CanTouchClaim applies the per-row claim rule: a customer may edit or
// delete only their own claim, and only while it is still PENDING. Staff
// are unrestricted.
func CanTouchClaim(user *models.User, claim *models.Claim, action Action) error {
	if user.IsStaff() {
		return nil
	}
	if action == ActionStatusChange {
		return &ForbiddenError{Role: user.Role, Action: action}
	}
	if claim.CustomerID != user.ID || claim.Status != string(models.ClaimStatusPending) {
		return &ForbiddenError{Role: user.Role, Action: action}
	}
	return nil
}

// Redact drops the fields the role may not see from a serialized row.
func Redact(role string, kind registry.EntityKind, row map[string]interface{}) map[string]interface{} {
	visible := VisibleColumns(role, kind)
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		if visible[k] {
			out[k] = v
		}
	}
	return out
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
