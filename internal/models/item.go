package models

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// WarehouseItem represents a unit of cargo received at a warehouse.
type WarehouseItem struct {
	gorm.Model
	TrackingID     string `gorm:"size:36;unique_index"`
	ShippingMark   string `gorm:"index"`
	SupplyTracking string
	Description    string
	Quantity       int
	Cbm            decimal.Decimal `gorm:"type:decimal(20,4)"`
	Weight         decimal.Decimal `gorm:"type:decimal(20,4)"`
	Status         string          `gorm:"size:50;index"`
	Warehouse      string          `gorm:"size:20;index"`
	Mode           string          `gorm:"size:10"`
	Side           string          `gorm:"size:20"`
	DateReceived   time.Time
	CustomerID     uint `gorm:"index"`
	ContainerID    uint `gorm:"index"`
}

// ItemStatus represents the possible states of a warehouse item
type ItemStatus string

const (
	ItemStatusPending          ItemStatus = "PENDING"
	ItemStatusReadyForShipping ItemStatus = "READY_FOR_SHIPPING"
	ItemStatusShipped          ItemStatus = "SHIPPED"
	ItemStatusFlagged          ItemStatus = "FLAGGED"
	ItemStatusCancelled        ItemStatus = "CANCELLED"
	ItemStatusReadyForDelivery ItemStatus = "READY_FOR_DELIVERY"
	ItemStatusDelivered        ItemStatus = "DELIVERED"
)

// Warehouse locations
const (
	WarehouseChina = "china"
	WarehouseGhana = "ghana"
)

// Cargo modes
const (
	ModeSea = "sea"
	ModeAir = "air"
)

// Warehouse sides. Origin-side items ship out; destination-side items
// additionally move through delivery states.
const (
	SideOrigin      = "origin"
	SideDestination = "destination"
)
