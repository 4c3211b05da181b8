package model

import (
	"time"
)

// Setting represents the single-row settings table shared with the store
// service. The row with ID 1 is the live record.
type Setting struct {
	ID                uint      `gorm:"primaryKey"`
	MinDeposit        int64     `gorm:"not null"`
	MaxDeposit        int64     `gorm:"not null"`
	Maintenance       bool      `gorm:"not null;default:false"`
	AutoCheckEnabled  bool      `gorm:"not null;default:true"`
	AutoCheckMaxTries int       `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "settings"
}
