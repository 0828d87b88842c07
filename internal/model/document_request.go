package model

import (
	"time"
)

// Request status constants. Cancelled is terminal and only reachable through
// the soft-delete path.
const (
	StatusPending   = "Pending"
	StatusReturned  = "Returned"
	StatusRejected  = "Rejected"
	StatusApproved  = "Approved"
	StatusForPrint  = "For Print"
	StatusCompleted = "Completed"
	StatusForPickup = "For Pickup"
	StatusCancelled = "Cancelled"
)

// Action label defaults shown to staff, derived from status on transition.
const (
	ActionReview        = "Review"
	ActionUpdateRequest = "Update Request"
	ActionReject        = "Reject"
	ActionPickup        = "Pickup"
	ActionResubmitted   = "Resubmitted"
)

// ValidStatus reports whether s names a known request status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReturned, StatusRejected, StatusApproved,
		StatusForPrint, StatusCompleted, StatusForPickup, StatusCancelled:
		return true
	}
	return false
}

// DocumentRequest is a resident's request for an official barangay document.
// Contact is a denormalized snapshot of the owner's normalized contact at
// creation time. PickupDate is set on the first transition into For Pickup
// and never cleared afterwards.
type DocumentRequest struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	DocumentType string     `gorm:"type:varchar(100);not null" json:"document_type"`
	Purpose      string     `gorm:"type:varchar(255);not null" json:"purpose"`
	Copies       int        `gorm:"not null;default:1" json:"copies"`
	Requirements string     `gorm:"type:text;default:''" json:"requirements"`
	Photo        *string    `gorm:"type:text" json:"photo"`
	Status       string     `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Action       string     `gorm:"type:varchar(30);not null;default:'Review'" json:"action"`
	Notes        string     `gorm:"type:text;default:''" json:"notes"`
	Contact      string     `gorm:"type:varchar(20);not null;index" json:"contact"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PickupDate   *time.Time `json:"pickup_date"`
	IsDeleted    bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
