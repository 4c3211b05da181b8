package model

import (
	"time"
)

// Deposit represents the database model for deposits
type Deposit struct {
	ID                string    `gorm:"primaryKey;size:64"`
	UserID            int64     `gorm:"not null;index"`
	Amount            int64     `gorm:"not null"`
	Method            string    `gorm:"not null;size:20"`
	Status            string    `gorm:"not null;size:20;index"`
	ProviderReference string    `gorm:"size:128;index"`
	ProviderStatus    string    `gorm:"size:64"`
	ProviderPayload   string    `gorm:"type:text"`
	QRString          string    `gorm:"type:text"`
	QRImageURL        string    `gorm:"type:text"`
	ExpiresAt         *time.Time
	CreatedAt         time.Time `gorm:"not null;index"`
	ProcessedAt       *time.Time
	LastCheckedAt     *time.Time
	PollCount         int `gorm:"not null;default:0"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Deposit
func (Deposit) TableName() string {
	return "deposits"
}
