package models

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// Container represents a shipment batch (sea container or air waybill)
// moving many items between warehouses.
type Container struct {
	gorm.Model
	ContainerID     string `gorm:"size:50;unique_index"`
	Type            string `gorm:"size:10"`
	OriginWarehouse string `gorm:"size:20"`
	DestWarehouse   string `gorm:"size:20"`
	Status          string `gorm:"size:50;index"`
	// PriorStatus remembers the state a container was in when it was
	// flagged, so unflagging can offer a one-step restore.
	PriorStatus string `gorm:"size:50"`
	LoadDate    time.Time
	ArrivalDate time.Time
	Rate        decimal.Decimal `gorm:"type:decimal(20,4)"`
	ItemCount   int
}

// ContainerStatus represents the possible states of a container
type ContainerStatus string

const (
	ContainerStatusPending          ContainerStatus = "pending"
	ContainerStatusProcessing       ContainerStatus = "processing"
	ContainerStatusReadyForDelivery ContainerStatus = "ready_for_delivery"
	ContainerStatusDelivered        ContainerStatus = "delivered"
	ContainerStatusFlagged          ContainerStatus = "flagged"
)
