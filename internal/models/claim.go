package models

import (
	"github.com/jinzhu/gorm"
)

// MaxClaimImages limits the supporting images attached to one claim.
const MaxClaimImages = 3

// Claim represents a customer-filed report of a lost or damaged item.
type Claim struct {
	gorm.Model
	TrackingID  string       `gorm:"size:36;index"`
	ItemName    string
	Description string
	Images      []ClaimImage `gorm:"foreignkey:ClaimID"`
	Status      string       `gorm:"size:50;index"`
	AdminNotes  string
	CustomerID  uint `gorm:"index"`
}

// ClaimImage references an uploaded supporting image. The upload itself
// happens at the file boundary; only the reference is stored here.
type ClaimImage struct {
	gorm.Model
	ClaimID uint `gorm:"index"`
	URL     string
}

// ClaimStatus represents the possible states of a claim
type ClaimStatus string

const (
	ClaimStatusPending     ClaimStatus = "PENDING"
	ClaimStatusUnderReview ClaimStatus = "UNDER_REVIEW"
	ClaimStatusApproved    ClaimStatus = "APPROVED"
	ClaimStatusRejected    ClaimStatus = "REJECTED"
	ClaimStatusResolved    ClaimStatus = "RESOLVED"
)
