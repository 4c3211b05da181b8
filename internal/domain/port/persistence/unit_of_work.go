package persistence

import (
	"context"
)

// UnitOfWork coordinates repository operations inside a single database
// transaction so the deposit state transition and the balance credit either
// both commit or both roll back.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetDepositRepository returns a deposit repository bound to the current transaction
	GetDepositRepository(ctx context.Context) DepositRepository

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository
}
