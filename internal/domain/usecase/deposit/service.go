package deposit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	gatewayport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/gateway"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/persistence"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/usecase"
)

// Service ties together validation, the payment gateway and the reconciler
// behind the deposit entry points the transports call.
type Service struct {
	depositRepo  persistence.DepositRepository
	settingsRepo persistence.SettingsRepository
	gateway      gatewayport.PaymentGateway
	reconciler   *Reconciler
	validator    *Validator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new deposit service
func NewService(
	depositRepo persistence.DepositRepository,
	settingsRepo persistence.SettingsRepository,
	gw gatewayport.PaymentGateway,
	reconciler *Reconciler,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		depositRepo:  depositRepo,
		settingsRepo: settingsRepo,
		gateway:      gw,
		reconciler:   reconciler,
		validator:    NewValidator(),
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Reconciler exposes the underlying reconciler for the polling schedulers
func (s *Service) Reconciler() *Reconciler {
	return s.reconciler
}

// CreateDeposit validates the amount, creates a payment intent with the
// provider and persists the pending deposit seeded from it.
func (s *Service) CreateDeposit(ctx context.Context, userID, amount int64) (*entity.Deposit, error) {
	if err := s.validator.ValidateUser(userID); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAmount(amount, settings); err != nil {
		return nil, err
	}

	// Unique per attempt: the provider treats reff_id as an idempotency key,
	// so a retried creation must not reuse a previous reference.
	requestRef := fmt.Sprintf("%d-%s", userID, uuid.NewString()[:8])

	intent, err := s.gateway.CreatePayment(ctx, requestRef, amount)
	if err != nil {
		s.logger.Warn("Payment intent creation failed", map[string]any{
			"user_id": userID,
			"amount":  amount,
			"error":   err.Error(),
		})
		return nil, err
	}

	dep, err := entity.NewDeposit(userID, amount, s.timeProvider)
	if err != nil {
		return nil, err
	}
	dep.AttachIntent(intent.Reference, intent.Status, intent.QRString, intent.QRImageURL, intent.ExpiresAt)
	dep.ProviderPayload = intent.Raw

	if err := s.depositRepo.Create(ctx, dep); err != nil {
		return nil, err
	}

	s.logger.Info("Deposit created", map[string]any{
		"deposit_id":   dep.ID,
		"user_id":      userID,
		"amount":       amount,
		"provider_ref": dep.ProviderReference,
	})
	return dep, nil
}

// CheckDeposit performs an on-demand full status poll for one deposit and
// feeds the snapshot through reconciliation.
func (s *Service) CheckDeposit(ctx context.Context, depositID string) (usecase.ReconcileOutcome, error) {
	dep, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return usecase.ReconcileOutcome{}, err
	}
	if dep.IsTerminal() {
		return usecase.ReconcileOutcome{Status: dep.Status}, nil
	}
	if dep.ProviderReference == "" {
		return usecase.ReconcileOutcome{}, fmt.Errorf("%w: deposit has no provider reference", errs.ErrDepositNotFound)
	}

	status, err := s.gateway.CheckStatus(ctx, dep.ProviderReference)
	if err != nil {
		return usecase.ReconcileOutcome{}, err
	}

	return s.reconciler.Reconcile(ctx, depositID, status)
}

// CancelDeposit rejects a pending deposit on the user's request. The provider
// cancellation is best effort: a gateway failure there never blocks the local
// rejection.
func (s *Service) CancelDeposit(ctx context.Context, userID int64, depositID string) (*entity.Deposit, error) {
	dep, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if dep.UserID != userID {
		// Callback payloads are forgeable; a foreign deposit id reads as absent.
		return nil, errs.ErrDepositNotFound
	}

	if dep.ProviderReference != "" {
		if err := s.gateway.CancelPayment(ctx, dep.ProviderReference); err != nil {
			s.logger.Warn("Provider-side cancel failed, rejecting locally anyway", map[string]any{
				"deposit_id": depositID,
				"error":      err.Error(),
			})
		}
	}

	if _, err := s.reconciler.MarkCancelled(ctx, depositID); err != nil {
		return nil, err
	}

	return s.depositRepo.GetByID(ctx, depositID)
}

// GetDeposit fetches a deposit by id
func (s *Service) GetDeposit(ctx context.Context, depositID string) (*entity.Deposit, error) {
	return s.depositRepo.GetByID(ctx, depositID)
}
