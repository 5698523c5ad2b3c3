package models

import (
	"strings"

	"github.com/jinzhu/gorm"
)

// User is the session-scoped actor driving visibility decisions. Customers
// carry a shipping mark; staff carry a warehouse access set.
type User struct {
	gorm.Model
	Name         string
	Role         string `gorm:"size:20;index"`
	ShippingMark string `gorm:"size:100"`
	// Warehouses is a comma-separated access list, empty meaning all.
	Warehouses string
}

// Roles
const (
	RoleCustomer   = "CUSTOMER"
	RoleStaff      = "STAFF"
	RoleManager    = "MANAGER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// IsStaff reports whether the user's role is any of the staff-side roles.
func (u *User) IsStaff() bool {
	switch u.Role {
	case RoleStaff, RoleManager, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// WarehouseList returns the user's warehouse access set, nil meaning
// unrestricted.
func (u *User) WarehouseList() []string {
	if u.Warehouses == "" {
		return nil
	}
	parts := strings.Split(u.Warehouses, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
