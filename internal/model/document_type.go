package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType is a catalog entry for an issuable barangay document. Fee is
// the processing charge per copy.
type DocumentType struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string          `gorm:"type:text;default:''" json:"description"`
	Fee         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"fee"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
