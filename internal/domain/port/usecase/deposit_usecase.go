package usecase

import (
	"context"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/gateway"
)

// ReconcileOutcome reports what a reconciliation attempt did. Credited is true
// on exactly one call per deposit ever; callers key emit-once side effects
// (user notification, UI cleanup) off it.
type ReconcileOutcome struct {
	Status       entity.DepositStatus
	Credited     bool  // This call performed the balance credit
	Transitioned bool  // This call moved the deposit into a terminal state
	NewBalance   int64 // Owning user's balance after the call, valid when Credited
}

// DepositUseCase is the deposit core's entry surface, driven by the chat
// transport and the operator API.
type DepositUseCase interface {
	// CreateDeposit validates the amount against settings, creates the payment
	// intent with the gateway and persists a pending deposit.
	//
	// Possible errors:
	// - ErrInvalidAmount: amount outside min/max bounds
	// - gateway errors: the provider call failed
	// - ErrStorage: persistence failed
	CreateDeposit(ctx context.Context, userID, amount int64) (*entity.Deposit, error)

	// CheckDeposit performs an on-demand gateway poll for one deposit and
	// feeds the result through reconciliation.
	CheckDeposit(ctx context.Context, depositID string) (ReconcileOutcome, error)

	// CancelDeposit rejects a pending deposit on the user's request. Returns
	// ErrDepositNotPending when a concurrent reconciliation finalized it first.
	CancelDeposit(ctx context.Context, userID int64, depositID string) (*entity.Deposit, error)

	// GetDeposit fetches a deposit by id
	GetDeposit(ctx context.Context, depositID string) (*entity.Deposit, error)
}

// DepositReconciler is the single mutation entrypoint for provider status
// updates, consumed by both polling mechanisms.
type DepositReconciler interface {
	// Reconcile applies one provider status snapshot to one deposit under a
	// per-row lock. Idempotent: terminal deposits yield a no-op outcome.
	Reconcile(ctx context.Context, depositID string, status *gateway.PaymentStatus) (ReconcileOutcome, error)

	// ForceExpire locally expires a deposit whose poll budget ran out,
	// without any gateway call.
	ForceExpire(ctx context.Context, depositID string) (ReconcileOutcome, error)
}

// UserUseCase is the slice of user management the deposit flow needs
type UserUseCase interface {
	// EnsureUser fetches a user, creating the record on first contact
	EnsureUser(ctx context.Context, id int64, username, firstName string) (*entity.User, error)

	// GetBalance returns the user's current balance in rupiah
	GetBalance(ctx context.Context, id int64) (int64, error)
}
