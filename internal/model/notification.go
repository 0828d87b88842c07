package model

import (
	"time"
)

// Notification type tags
const (
	NotifTypeInfo         = "info"
	NotifTypeRegistration = "registration"
	NotifTypeRequest      = "request"
	NotifTypeAccount      = "account"
)

// Notification is an append-only record addressed to a user. UserID is
// nullable to allow system-wide notices. The only permitted mutation after
// creation is the one-way IsRead flip.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"type:varchar(50);not null;default:'info'" json:"type"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
