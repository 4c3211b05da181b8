package persistence

import (
	"context"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
)

// UserRepository defines the slice of the store service's user relation this
// core touches: lookups for the deposit flow, and the locked balance credit.
type UserRepository interface {
	// GetByID retrieves a user by Telegram id
	//
	// Possible errors:
	// - ErrUserNotFound: if no such user exists
	// - ErrStorage: if persistence fails
	GetByID(ctx context.Context, id int64) (*entity.User, error)

	// GetByIDForUpdate retrieves a user and takes an exclusive row lock for
	// the remainder of the enclosing transaction. Used on the credit path so
	// the balance mutation and the deposit approval commit together.
	//
	// Possible errors:
	// - ErrUserNotFound: if no such user exists
	// - ErrStorage: if persistence fails
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.User, error)

	// Create persists a new user
	//
	// Possible errors:
	// - ErrStorage: if persistence fails
	Create(ctx context.Context, user *entity.User) error

	// Update writes back a mutated user
	//
	// Possible errors:
	// - ErrUserNotFound: if the user disappeared
	// - ErrStorage: if persistence fails
	Update(ctx context.Context, user *entity.User) error
}
