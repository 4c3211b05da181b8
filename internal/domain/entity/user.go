package entity

import (
	"time"

	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
)

// User represents a storefront customer with an internally tracked balance.
// The catalog/store service owns the rest of the user record; this core only
// ever increments Balance and TotalDeposit, atomically with a deposit approval.
type User struct {
	ID           int64  // Telegram user id
	Username     string // Last known @username, informational only
	FirstName    string
	Balance      int64 // Rupiah, never negative
	TotalDeposit int64 // Monotonic accumulator of credited deposits
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// NewUser creates a new user with a zero balance
func NewUser(id int64, username, firstName string, timeProvider coreport.TimeProvider) (*User, error) {
	if id <= 0 {
		return nil, errs.ErrInvalidUserID
	}

	now := timeProvider.Now()
	return &User{
		ID:           id,
		Username:     username,
		FirstName:    firstName,
		CreatedAt:    now,
		LastActiveAt: now,
	}, nil
}

// Credit applies an approved deposit to the balance. Both fields move
// together; the accumulator never decreases.
func (u *User) Credit(amount int64, timeProvider coreport.TimeProvider) {
	u.Balance += amount
	u.TotalDeposit += amount
	u.LastActiveAt = timeProvider.Now()
}
