package persistence

import (
	"context"
	"time"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
)

// DepositRepository defines essential methods to interact with deposit data
type DepositRepository interface {
	// Create persists a new pending deposit
	//
	// Possible errors:
	// - ErrStorage: if persistence fails
	Create(ctx context.Context, deposit *entity.Deposit) error

	// GetByID retrieves a deposit by its external id
	//
	// Possible errors:
	// - ErrDepositNotFound: if no deposit with the given id exists
	// - ErrStorage: if persistence fails
	GetByID(ctx context.Context, id string) (*entity.Deposit, error)

	// GetByIDForUpdate retrieves a deposit and takes an exclusive row lock for
	// the remainder of the enclosing transaction. This is the serialization
	// point for concurrent reconciliation attempts on the same deposit.
	//
	// Possible errors:
	// - ErrDepositNotFound: if no deposit with the given id exists
	// - ErrStorage: if persistence fails
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Deposit, error)

	// Update writes back a mutated deposit
	//
	// Possible errors:
	// - ErrDepositNotFound: if the deposit disappeared
	// - ErrStorage: if persistence fails
	Update(ctx context.Context, deposit *entity.Deposit) error

	// ListPendingWithin returns pending deposits created within the recent
	// window, oldest first. Older pending deposits are considered abandoned
	// and are left to the expiry path.
	//
	// Possible errors:
	// - ErrStorage: if persistence fails
	ListPendingWithin(ctx context.Context, window time.Duration) ([]*entity.Deposit, error)
}
