package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	gatewayport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/gateway"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/messenger"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/persistence"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/usecase"
)

// FastPollConfig bounds the per-deposit fast path
type FastPollConfig struct {
	// Interval between instant-status polls
	Interval time.Duration
	// Lifetime caps the wall-clock duration of one fast-poll regardless of
	// outcome. Distinct from the sweep's poll-count budget.
	Lifetime time.Duration
}

// DefaultFastPollConfig returns the production defaults
func DefaultFastPollConfig() FastPollConfig {
	return FastPollConfig{
		Interval: 3 * time.Second,
		Lifetime: 15 * time.Minute,
	}
}

// FastPoller runs a short-lived, high-frequency poll per deposit, started
// right after creation. Pollers are registered in a table keyed by deposit id
// so they can be cancelled early and so the sweep can skip ids that already
// have a fast path running. Entries never leak: every exit path deregisters.
type FastPoller struct {
	cfg          FastPollConfig
	gateway      gatewayport.PaymentGateway
	reconciler   usecase.DepositReconciler
	depositRepo  persistence.DepositRepository
	notifier     messenger.Notifier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	mu     sync.Mutex
	active map[string]context.CancelFunc
	wg     sync.WaitGroup
}

// NewFastPoller creates a new fast-poll registry
func NewFastPoller(
	cfg FastPollConfig,
	gw gatewayport.PaymentGateway,
	reconciler usecase.DepositReconciler,
	depositRepo persistence.DepositRepository,
	notifier messenger.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *FastPoller {
	return &FastPoller{
		cfg:          cfg,
		gateway:      gw,
		reconciler:   reconciler,
		depositRepo:  depositRepo,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
		active:       make(map[string]context.CancelFunc),
	}
}

// Start launches a fast-poll for the deposit. Returns false when one is
// already running for this id; the existing poller keeps its schedule.
func (p *FastPoller) Start(ctx context.Context, depositID string) bool {
	p.mu.Lock()
	if _, exists := p.active[depositID]; exists {
		p.mu.Unlock()
		return false
	}

	pollCtx, cancel := context.WithCancel(ctx)
	p.active[depositID] = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	p.logger.Debug("Fast-poll started", map[string]any{"deposit_id": depositID})

	go p.run(pollCtx, depositID)
	return true
}

// Stop cancels the fast-poll for a deposit, if any
func (p *FastPoller) Stop(depositID string) {
	p.mu.Lock()
	cancel, exists := p.active[depositID]
	p.mu.Unlock()
	if exists {
		cancel()
	}
}

// IsActive reports whether a fast-poll is currently registered for the id.
// The sweep uses this to avoid doubling up on a deposit.
func (p *FastPoller) IsActive(depositID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, exists := p.active[depositID]
	return exists
}

// ActiveCount returns the number of registered fast-polls
func (p *FastPoller) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

// Shutdown cancels every poller and waits for them to deregister
func (p *FastPoller) Shutdown() {
	p.mu.Lock()
	for _, cancel := range p.active {
		cancel()
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// run is the per-deposit loop. Exits on terminal state, lifetime cap,
// cancellation, or the deposit disappearing.
func (p *FastPoller) run(ctx context.Context, depositID string) {
	defer p.deregister(depositID)

	started := p.timeProvider.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.timeProvider.After(p.cfg.Interval):
		}

		if p.timeProvider.Since(started) >= p.cfg.Lifetime {
			p.logger.Debug("Fast-poll lifetime reached", map[string]any{"deposit_id": depositID})
			return
		}

		if done := p.Tick(ctx, depositID); done {
			return
		}
	}
}

// Tick performs one fast-poll iteration. Returns true when the poller should
// stop. Exported so the sweep-equivalent unit tests can drive it directly.
func (p *FastPoller) Tick(ctx context.Context, depositID string) bool {
	dep, err := p.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		p.logger.Warn("Fast-poll could not load deposit", map[string]any{
			"deposit_id": depositID,
			"error":      err.Error(),
		})
		return true
	}
	if dep.IsTerminal() {
		return true
	}
	if dep.ProviderReference == "" {
		return true
	}

	// forceRefresh bypasses provider-side caching: the fast path exists to
	// catch a settlement seconds after the user scans.
	status, err := p.gateway.CheckInstant(ctx, dep.ProviderReference, true)
	if err != nil {
		// Transient gateway trouble is invisible to the user; the next tick
		// or the sweep retries.
		p.logger.Debug("Fast-poll gateway error", map[string]any{
			"deposit_id": depositID,
			"error":      err.Error(),
		})
		return false
	}

	outcome, err := p.reconciler.Reconcile(ctx, depositID, status)
	if err != nil {
		p.logger.Warn("Fast-poll reconcile failed", map[string]any{
			"deposit_id": depositID,
			"error":      err.Error(),
		})
		return false
	}

	if outcome.Credited {
		p.notifier.DepositApproved(ctx, dep, outcome.NewBalance)
		return true
	}
	if outcome.Transitioned && outcome.Status == entity.DepositExpired {
		p.notifier.DepositExpired(ctx, dep)
		return true
	}
	return outcome.Status != entity.DepositPending
}

func (p *FastPoller) deregister(depositID string) {
	p.mu.Lock()
	if cancel, exists := p.active[depositID]; exists {
		cancel()
		delete(p.active, depositID)
	}
	p.mu.Unlock()
	p.wg.Done()
	p.logger.Debug("Fast-poll deregistered", map[string]any{"deposit_id": depositID})
}
