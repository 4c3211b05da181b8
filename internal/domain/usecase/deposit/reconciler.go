package deposit

import (
	"context"
	"fmt"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/gateway"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/persistence"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/usecase"
)

// Reconciler owns the deposit state machine. Every status mutation funnels
// through it inside one database transaction with the deposit row locked, so
// the sweep loop, the fast-poll and a user cancellation can race freely:
// whichever transaction commits first wins and the rest short-circuit on the
// terminal state.
type Reconciler struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	alerter      coreport.Alerter
}

// NewReconciler creates a new Reconciler
func NewReconciler(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	alerter coreport.Alerter,
) *Reconciler {
	return &Reconciler{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
		alerter:      alerter,
	}
}

// Reconcile applies one provider status snapshot to one deposit.
//
// Invariant: the transition into approved and the owning user's balance
// credit happen in the same transaction, and at most once per deposit.
// Replaying any status against a terminal deposit is a no-op.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	depositID string,
	status *gateway.PaymentStatus,
) (usecase.ReconcileOutcome, error) {
	if status == nil {
		return usecase.ReconcileOutcome{}, fmt.Errorf("%w: nil provider status", errs.ErrInternalServer)
	}

	outcome, err := r.inTransaction(ctx, depositID, func(txCtx context.Context) (usecase.ReconcileOutcome, error) {
		return r.applyStatus(txCtx, depositID, status)
	})
	if err != nil {
		// A settled payment we failed to record is the one failure that must
		// not stay buried in logs.
		if entity.NormalizeProviderStatus(status.Status) == entity.OutcomeSettled {
			r.raiseCreditAlert(ctx, depositID, err)
		}
		return usecase.ReconcileOutcome{}, err
	}

	return outcome, nil
}

// ForceExpire locally expires a deposit whose poll budget ran out. No gateway
// call is made; the provider-side intent is left to lapse on its own.
func (r *Reconciler) ForceExpire(ctx context.Context, depositID string) (usecase.ReconcileOutcome, error) {
	return r.inTransaction(ctx, depositID, func(txCtx context.Context) (usecase.ReconcileOutcome, error) {
		deposits := r.uow.GetDepositRepository(txCtx)

		dep, err := deposits.GetByIDForUpdate(txCtx, depositID)
		if err != nil {
			return usecase.ReconcileOutcome{}, err
		}
		if dep.IsTerminal() {
			return usecase.ReconcileOutcome{Status: dep.Status}, nil
		}

		dep.Expire(r.timeProvider)
		if err := deposits.Update(txCtx, dep); err != nil {
			return usecase.ReconcileOutcome{}, err
		}

		r.logger.Info("Deposit force-expired after poll cap", map[string]any{
			"deposit_id": depositID,
			"poll_count": dep.PollCount,
		})
		return usecase.ReconcileOutcome{Status: entity.DepositExpired, Transitioned: true}, nil
	})
}

// MarkCancelled rejects a pending deposit on the user's request. It re-checks
// the status under the same row lock reconciliation uses, so a cancellation
// that loses the race against an approval fails with ErrDepositNotPending
// instead of clobbering the credit.
func (r *Reconciler) MarkCancelled(ctx context.Context, depositID string) (usecase.ReconcileOutcome, error) {
	return r.inTransaction(ctx, depositID, func(txCtx context.Context) (usecase.ReconcileOutcome, error) {
		deposits := r.uow.GetDepositRepository(txCtx)

		dep, err := deposits.GetByIDForUpdate(txCtx, depositID)
		if err != nil {
			return usecase.ReconcileOutcome{}, err
		}
		if dep.Status != entity.DepositPending {
			return usecase.ReconcileOutcome{}, fmt.Errorf("%w: status is %s", errs.ErrDepositNotPending, dep.Status)
		}

		dep.Reject(r.timeProvider)
		if err := deposits.Update(txCtx, dep); err != nil {
			return usecase.ReconcileOutcome{}, err
		}

		r.logger.Info("Deposit cancelled by user", map[string]any{
			"deposit_id": depositID,
			"user_id":    dep.UserID,
		})
		return usecase.ReconcileOutcome{Status: entity.DepositRejected, Transitioned: true}, nil
	})
}

// applyStatus holds the actual state machine. Runs with the deposit row locked.
func (r *Reconciler) applyStatus(
	txCtx context.Context,
	depositID string,
	status *gateway.PaymentStatus,
) (usecase.ReconcileOutcome, error) {
	deposits := r.uow.GetDepositRepository(txCtx)

	dep, err := deposits.GetByIDForUpdate(txCtx, depositID)
	if err != nil {
		return usecase.ReconcileOutcome{}, err
	}

	// Idempotent short-circuit: terminal states absorb every later snapshot.
	if dep.IsTerminal() {
		r.logger.Debug("Reconcile no-op on terminal deposit", map[string]any{
			"deposit_id": depositID,
			"status":     string(dep.Status),
		})
		return usecase.ReconcileOutcome{Status: dep.Status}, nil
	}

	dep.ProviderStatus = status.Status
	if status.Raw != "" {
		dep.ProviderPayload = status.Raw
	}

	switch entity.NormalizeProviderStatus(status.Status) {
	case entity.OutcomeSettled:
		return r.approveAndCredit(txCtx, deposits, dep)

	case entity.OutcomeExpired:
		dep.Expire(r.timeProvider)
		if err := deposits.Update(txCtx, dep); err != nil {
			return usecase.ReconcileOutcome{}, err
		}
		r.logger.Info("Deposit expired by provider", map[string]any{
			"deposit_id":      depositID,
			"provider_status": status.Status,
		})
		return usecase.ReconcileOutcome{Status: entity.DepositExpired, Transitioned: true}, nil

	default:
		dep.RecordPoll(r.timeProvider)
		if err := deposits.Update(txCtx, dep); err != nil {
			return usecase.ReconcileOutcome{}, err
		}
		r.logger.Debug("Deposit still pending", map[string]any{
			"deposit_id":      depositID,
			"provider_status": status.Status,
			"poll_count":      dep.PollCount,
		})
		return usecase.ReconcileOutcome{Status: entity.DepositPending}, nil
	}
}

// approveAndCredit performs the one-and-only balance credit for a deposit.
// Both rows are locked inside the same transaction.
func (r *Reconciler) approveAndCredit(
	txCtx context.Context,
	deposits persistence.DepositRepository,
	dep *entity.Deposit,
) (usecase.ReconcileOutcome, error) {
	users := r.uow.GetUserRepository(txCtx)

	user, err := users.GetByIDForUpdate(txCtx, dep.UserID)
	if err != nil {
		return usecase.ReconcileOutcome{}, err
	}

	dep.Approve(r.timeProvider)
	user.Credit(dep.Amount, r.timeProvider)

	if err := users.Update(txCtx, user); err != nil {
		return usecase.ReconcileOutcome{}, err
	}
	if err := deposits.Update(txCtx, dep); err != nil {
		return usecase.ReconcileOutcome{}, err
	}

	r.logger.Info("Deposit approved, balance credited", map[string]any{
		"deposit_id":  dep.ID,
		"user_id":     dep.UserID,
		"amount":      dep.Amount,
		"new_balance": user.Balance,
	})

	return usecase.ReconcileOutcome{
		Status:       entity.DepositApproved,
		Credited:     true,
		Transitioned: true,
		NewBalance:   user.Balance,
	}, nil
}

// inTransaction wraps fn in a unit of work with full rollback on error
func (r *Reconciler) inTransaction(
	ctx context.Context,
	depositID string,
	fn func(txCtx context.Context) (usecase.ReconcileOutcome, error),
) (usecase.ReconcileOutcome, error) {
	txCtx, err := r.uow.Begin(ctx)
	if err != nil {
		return usecase.ReconcileOutcome{}, errs.NewStorageError("begin", depositID, err)
	}

	outcome, err := fn(txCtx)
	if err != nil {
		if rbErr := r.uow.Rollback(txCtx); rbErr != nil {
			r.logger.Error("Rollback failed", map[string]any{
				"deposit_id": depositID,
				"error":      rbErr.Error(),
			})
		}
		return usecase.ReconcileOutcome{}, err
	}

	if err := r.uow.Commit(txCtx); err != nil {
		if rbErr := r.uow.Rollback(txCtx); rbErr != nil {
			r.logger.Error("Rollback after failed commit failed", map[string]any{
				"deposit_id": depositID,
				"error":      rbErr.Error(),
			})
		}
		return usecase.ReconcileOutcome{}, errs.NewStorageError("commit", depositID, err)
	}

	return outcome, nil
}

// raiseCreditAlert routes a failed credit to the operator channel
func (r *Reconciler) raiseCreditAlert(ctx context.Context, depositID string, cause error) {
	var userID, amount int64

	// The failed transaction is gone; reread outside it for alert context.
	dep, err := r.uow.GetDepositRepository(ctx).GetByID(ctx, depositID)
	if err == nil {
		userID = dep.UserID
		amount = dep.Amount
	}

	r.logger.Error("Credit path failure: settled payment not recorded", map[string]any{
		"deposit_id": depositID,
		"user_id":    userID,
		"amount":     amount,
		"error":      cause.Error(),
	})

	if r.alerter != nil {
		r.alerter.CreditFailure(coreport.CreditFailure{
			DepositID: depositID,
			UserID:    userID,
			Amount:    amount,
			Reason:    cause.Error(),
		})
	}
}
