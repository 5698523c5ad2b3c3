package models

import (
	"github.com/jinzhu/gorm"
)

// StatusEvent is an append-only history row recorded on every successful
// status transition.
type StatusEvent struct {
	gorm.Model
	EntityKind string `gorm:"size:20;index:idx_status_event_entity"`
	EntityID   uint   `gorm:"index:idx_status_event_entity"`
	FromStatus string `gorm:"size:50"`
	ToStatus   string `gorm:"size:50"`
	ActorID    uint
}
