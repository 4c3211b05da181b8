package scheduler

import (
	"context"
	"time"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	gatewayport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/gateway"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/messenger"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/persistence"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/usecase"
)

// SweepConfig bounds the global safety-net poll
type SweepConfig struct {
	// Interval between sweep ticks
	Interval time.Duration
	// Window limits the sweep to recently created pending deposits; older
	// ones are abandoned and handled by the expiry path
	Window time.Duration
	// ItemDelay is inserted between per-deposit gateway calls so a long
	// pending list does not burst the provider
	ItemDelay time.Duration
}

// DefaultSweepConfig returns the production defaults
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Interval:  5 * time.Second,
		Window:    30 * time.Minute,
		ItemDelay: 500 * time.Millisecond,
	}
}

// activePollers is the slice of the fast-poll registry the sweep needs
type activePollers interface {
	IsActive(depositID string) bool
}

// Sweeper periodically walks every recent pending deposit and feeds a gateway
// snapshot through reconciliation. It is the coarse safety net under the
// per-deposit fast-poll; the reconciler's row lock plus terminal short-circuit
// make the overlap harmless.
type Sweeper struct {
	cfg          SweepConfig
	gateway      gatewayport.PaymentGateway
	reconciler   usecase.DepositReconciler
	depositRepo  persistence.DepositRepository
	settingsRepo persistence.SettingsRepository
	fastPolls    activePollers
	notifier     messenger.Notifier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewSweeper creates a new sweep loop
func NewSweeper(
	cfg SweepConfig,
	gw gatewayport.PaymentGateway,
	reconciler usecase.DepositReconciler,
	depositRepo persistence.DepositRepository,
	settingsRepo persistence.SettingsRepository,
	fastPolls activePollers,
	notifier messenger.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Sweeper {
	return &Sweeper{
		cfg:          cfg,
		gateway:      gw,
		reconciler:   reconciler,
		depositRepo:  depositRepo,
		settingsRepo: settingsRepo,
		fastPolls:    fastPolls,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Run executes the sweep loop until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Deposit sweep loop started", map[string]any{
		"interval": s.cfg.Interval.String(),
		"window":   s.cfg.Window.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Deposit sweep loop stopped", nil)
			return
		case <-s.timeProvider.After(s.cfg.Interval):
		}

		s.Sweep(ctx)
	}
}

// Sweep performs a single pass over the recent pending deposits
func (s *Sweeper) Sweep(ctx context.Context) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Warn("Sweep skipped: settings unavailable", map[string]any{"error": err.Error()})
		return
	}
	if !settings.AutoCheckEnabled {
		return
	}

	pending, err := s.depositRepo.ListPendingWithin(ctx, s.cfg.Window)
	if err != nil {
		s.logger.Warn("Sweep skipped: listing pending deposits failed", map[string]any{"error": err.Error()})
		return
	}
	if len(pending) == 0 {
		return
	}

	s.logger.Debug("Sweeping pending deposits", map[string]any{"count": len(pending)})

	for i, dep := range pending {
		if ctx.Err() != nil {
			return
		}

		// A registered fast-poll already covers this deposit
		if s.fastPolls != nil && s.fastPolls.IsActive(dep.ID) {
			continue
		}

		s.sweepOne(ctx, dep, settings)

		if i < len(pending)-1 && s.cfg.ItemDelay > 0 {
			s.timeProvider.Sleep(s.cfg.ItemDelay)
		}
	}
}

// sweepOne reconciles a single deposit, expiring it locally when its poll
// budget ran out and polling the gateway otherwise.
func (s *Sweeper) sweepOne(ctx context.Context, dep *entity.Deposit, settings entity.Settings) {
	if dep.PollCount >= settings.AutoCheckMaxTries || dep.ProviderReference == "" {
		outcome, err := s.reconciler.ForceExpire(ctx, dep.ID)
		if err != nil {
			s.logger.Warn("Force-expire failed", map[string]any{
				"deposit_id": dep.ID,
				"error":      err.Error(),
			})
			return
		}
		if outcome.Transitioned {
			s.notifier.DepositExpired(ctx, dep)
		}
		return
	}

	status, err := s.gateway.CheckInstant(ctx, dep.ProviderReference, false)
	if err != nil {
		// Retried naturally on the next tick; nothing user-visible.
		s.logger.Debug("Sweep gateway error", map[string]any{
			"deposit_id": dep.ID,
			"error":      err.Error(),
		})
		return
	}

	outcome, err := s.reconciler.Reconcile(ctx, dep.ID, status)
	if err != nil {
		s.logger.Warn("Sweep reconcile failed", map[string]any{
			"deposit_id": dep.ID,
			"error":      err.Error(),
		})
		return
	}

	// Transitioned is true for exactly one reconciliation per deposit, which
	// makes the notification emit-once even with the fast-poll racing us.
	if outcome.Credited {
		s.notifier.DepositApproved(ctx, dep, outcome.NewBalance)
	} else if outcome.Transitioned && outcome.Status == entity.DepositExpired {
		s.notifier.DepositExpired(ctx, dep)
	}
}
