package model

import (
	"time"
)

// Role constants
const (
	RoleResident  = "resident"
	RoleSecretary = "secretary"
	RoleAdmin     = "admin"
)

// Account approval status constants
const (
	UserStatusPending  = "Pending"
	UserStatusApproved = "Approved"
	UserStatusRejected = "Rejected"
)

// User represents a registered resident or staff account. The contact number
// is stored in normalized local form and acts as the join key for document
// requests.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"type:varchar(100);not null" json:"first_name"`
	MiddleName  *string   `gorm:"type:varchar(100)" json:"middle_name"`
	LastName    string    `gorm:"type:varchar(100);not null" json:"last_name"`
	DOB         time.Time `gorm:"not null" json:"dob"`
	Gender      string    `gorm:"type:varchar(20);not null" json:"gender"`
	CivilStatus string    `gorm:"type:varchar(30);not null" json:"civil_status"`
	Contact     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"contact"`
	Purok       string    `gorm:"type:varchar(100);not null" json:"purok"`
	Barangay    string    `gorm:"type:varchar(100);not null" json:"barangay"`
	City        string    `gorm:"type:varchar(100);not null" json:"city"`
	Province    string    `gorm:"type:varchar(100);not null" json:"province"`
	PostalCode  string    `gorm:"type:varchar(10);not null" json:"postal_code"`
	Password    string    `gorm:"type:varchar(255);not null" json:"-"`
	Photo       string    `gorm:"type:text;not null" json:"photo"`
	Role        string    `gorm:"type:varchar(20);not null" json:"role"`
	Status      string    `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Owned children, removed via application-level cascade when the user
	// is deleted, not via storage-engine cascade config.
	DocumentRequests []DocumentRequest `gorm:"foreignKey:UserID" json:"-"`
	Notifications    []Notification    `gorm:"foreignKey:UserID" json:"-"`
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
