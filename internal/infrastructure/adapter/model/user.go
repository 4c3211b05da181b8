package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	ID           int64     `gorm:"primaryKey"` // Telegram user id
	Username     string    `gorm:"size:64"`
	FirstName    string    `gorm:"size:128"`
	Balance      int64     `gorm:"not null;default:0"` // Rupiah
	TotalDeposit int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
	LastActiveAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
