package deposit

import (
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
)

// Validator checks deposit admission rules against the current settings
type Validator struct{}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAmount enforces min_deposit <= amount <= max_deposit. The boundary
// values themselves are accepted.
func (v *Validator) ValidateAmount(amount int64, settings entity.Settings) error {
	if amount < settings.MinDeposit || amount > settings.MaxDeposit {
		return errs.NewInvalidAmountError(amount, settings.MinDeposit, settings.MaxDeposit)
	}
	return nil
}

// ValidateUser rejects non-positive user ids before they reach persistence
func (v *Validator) ValidateUser(userID int64) error {
	if userID <= 0 {
		return errs.ErrInvalidUserID
	}
	return nil
}
