package deposit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	gatewayport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/gateway"
	mgw "github.com/ardiansyah-dev/gamestore-bot/mocks/port/gateway"
	mpers "github.com/ardiansyah-dev/gamestore-bot/mocks/port/persistence"
)

type serviceFixture struct {
	depositRepo  *mpers.MockDepositRepository
	settingsRepo *mpers.MockSettingsRepository
	gateway      *mgw.MockPaymentGateway
	uow          *mpers.MockUnitOfWork
	service      *Service
}

func newServiceFixture(now time.Time) *serviceFixture {
	depositRepo := new(mpers.MockDepositRepository)
	settingsRepo := new(mpers.MockSettingsRepository)
	gw := new(mgw.MockPaymentGateway)
	uow := new(mpers.MockUnitOfWork)

	clock := newMockClock(now)
	logger := newMockLogger()
	reconciler := NewReconciler(uow, clock, logger, nil)

	return &serviceFixture{
		depositRepo:  depositRepo,
		settingsRepo: settingsRepo,
		gateway:      gw,
		uow:          uow,
		service:      NewService(depositRepo, settingsRepo, gw, reconciler, clock, logger),
	}
}

func TestCreateDeposit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	expires := now.Add(30 * time.Minute)

	t.Run("happy path seeds the deposit from the intent", func(t *testing.T) {
		f := newServiceFixture(now)

		f.settingsRepo.On("Get", ctx).Return(entity.DefaultSettings(), nil)
		f.gateway.On("CreatePayment", ctx, mock.AnythingOfType("string"), int64(50000)).
			Return(&gatewayport.PaymentIntent{
				Reference:  "ATL99",
				Amount:     50000,
				Status:     "pending",
				QRString:   "000201payload",
				QRImageURL: "https://cdn.example/qr.png",
				ExpiresAt:  &expires,
				Raw:        `{"id":"ATL99"}`,
			}, nil)
		f.depositRepo.On("Create", ctx, mock.AnythingOfType("*entity.Deposit")).Return(nil)

		dep, err := f.service.CreateDeposit(ctx, 42, 50000)

		require.NoError(t, err)
		assert.Equal(t, entity.DepositPending, dep.Status)
		assert.Equal(t, "ATL99", dep.ProviderReference)
		assert.Equal(t, "000201payload", dep.QRString)
		assert.Equal(t, "https://cdn.example/qr.png", dep.QRImageURL)
		assert.Equal(t, `{"id":"ATL99"}`, dep.ProviderPayload)
		require.NotNil(t, dep.ExpiresAt)
		assert.Equal(t, expires, *dep.ExpiresAt)

		f.depositRepo.AssertExpectations(t)
	})

	t.Run("request references are unique per attempt", func(t *testing.T) {
		f := newServiceFixture(now)

		refs := make(map[string]bool)
		f.settingsRepo.On("Get", ctx).Return(entity.DefaultSettings(), nil)
		f.gateway.On("CreatePayment", ctx, mock.AnythingOfType("string"), int64(50000)).
			Run(func(args mock.Arguments) {
				ref := args.String(1)
				assert.False(t, refs[ref], "request reference %s reused", ref)
				refs[ref] = true
			}).
			Return(&gatewayport.PaymentIntent{Reference: "ATL1", Amount: 50000}, nil)
		f.depositRepo.On("Create", ctx, mock.Anything).Return(nil)

		for i := 0; i < 5; i++ {
			_, err := f.service.CreateDeposit(ctx, 42, 50000)
			require.NoError(t, err)
		}
		assert.Len(t, refs, 5)
	})

	t.Run("amount outside bounds never reaches the gateway", func(t *testing.T) {
		f := newServiceFixture(now)
		f.settingsRepo.On("Get", ctx).Return(entity.Settings{MinDeposit: 1000, MaxDeposit: 1000000}, nil)

		_, err := f.service.CreateDeposit(ctx, 42, 500)

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		f.gateway.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything, mock.Anything)
		f.depositRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("gateway failure leaves nothing persisted", func(t *testing.T) {
		f := newServiceFixture(now)
		f.settingsRepo.On("Get", ctx).Return(entity.DefaultSettings(), nil)
		f.gateway.On("CreatePayment", ctx, mock.Anything, int64(50000)).
			Return(nil, errs.NewGatewayError("create", 0, "", errs.ErrGatewayTimeout))

		_, err := f.service.CreateDeposit(ctx, 42, 50000)

		assert.ErrorIs(t, err, errs.ErrGatewayTimeout)
		f.depositRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid user id fails before settings lookup", func(t *testing.T) {
		f := newServiceFixture(now)

		_, err := f.service.CreateDeposit(ctx, 0, 50000)

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		f.settingsRepo.AssertNotCalled(t, "Get", mock.Anything)
	})
}

func TestCheckDeposit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("terminal deposit short-circuits without a gateway call", func(t *testing.T) {
		f := newServiceFixture(now)
		dep := pendingDeposit(t, now)
		dep.Approve(newMockClock(now))

		f.depositRepo.On("GetByID", ctx, dep.ID).Return(dep, nil)

		outcome, err := f.service.CheckDeposit(ctx, dep.ID)

		require.NoError(t, err)
		assert.Equal(t, entity.DepositApproved, outcome.Status)
		assert.False(t, outcome.Credited)
		f.gateway.AssertNotCalled(t, "CheckStatus", mock.Anything, mock.Anything)
	})

	t.Run("pending deposit feeds the snapshot through reconciliation", func(t *testing.T) {
		f := newServiceFixture(now)
		dep := pendingDeposit(t, now)
		txCtx := context.WithValue(ctx, txKey, "tx")

		f.depositRepo.On("GetByID", ctx, dep.ID).Return(dep, nil)
		f.gateway.On("CheckStatus", ctx, "ATL1").
			Return(&gatewayport.PaymentStatus{Reference: "ATL1", Status: "pending"}, nil)

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("GetDepositRepository", txCtx).Return(f.depositRepo)
		f.uow.On("Commit", txCtx).Return(nil)
		f.depositRepo.On("GetByIDForUpdate", txCtx, dep.ID).Return(dep, nil)
		f.depositRepo.On("Update", txCtx, dep).Return(nil)

		outcome, err := f.service.CheckDeposit(ctx, dep.ID)

		require.NoError(t, err)
		assert.Equal(t, entity.DepositPending, outcome.Status)
		assert.Equal(t, 1, dep.PollCount)
	})

	t.Run("unknown deposit", func(t *testing.T) {
		f := newServiceFixture(now)
		f.depositRepo.On("GetByID", ctx, "missing").Return(nil, errs.ErrDepositNotFound)

		_, err := f.service.CheckDeposit(ctx, "missing")

		assert.ErrorIs(t, err, errs.ErrDepositNotFound)
	})
}

func TestCancelDeposit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("cancels a pending deposit and voids the provider intent", func(t *testing.T) {
		f := newServiceFixture(now)
		dep := pendingDeposit(t, now)
		txCtx := context.WithValue(ctx, txKey, "tx")

		f.depositRepo.On("GetByID", ctx, dep.ID).Return(dep, nil)
		f.gateway.On("CancelPayment", ctx, "ATL1").Return(nil)

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("GetDepositRepository", txCtx).Return(f.depositRepo)
		f.uow.On("Commit", txCtx).Return(nil)
		f.depositRepo.On("GetByIDForUpdate", txCtx, dep.ID).Return(dep, nil)
		f.depositRepo.On("Update", txCtx, dep).Return(nil)

		cancelled, err := f.service.CancelDeposit(ctx, 42, dep.ID)

		require.NoError(t, err)
		assert.Equal(t, entity.DepositRejected, cancelled.Status)
	})

	t.Run("provider-side cancel failure never blocks the local rejection", func(t *testing.T) {
		f := newServiceFixture(now)
		dep := pendingDeposit(t, now)
		txCtx := context.WithValue(ctx, txKey, "tx")

		f.depositRepo.On("GetByID", ctx, dep.ID).Return(dep, nil)
		f.gateway.On("CancelPayment", ctx, "ATL1").
			Return(errs.NewGatewayError("cancel", 0, "", errs.ErrGatewayUnreachable))

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("GetDepositRepository", txCtx).Return(f.depositRepo)
		f.uow.On("Commit", txCtx).Return(nil)
		f.depositRepo.On("GetByIDForUpdate", txCtx, dep.ID).Return(dep, nil)
		f.depositRepo.On("Update", txCtx, dep).Return(nil)

		cancelled, err := f.service.CancelDeposit(ctx, 42, dep.ID)

		require.NoError(t, err)
		assert.Equal(t, entity.DepositRejected, cancelled.Status)
	})

	t.Run("foreign deposit id reads as absent", func(t *testing.T) {
		f := newServiceFixture(now)
		dep := pendingDeposit(t, now)

		f.depositRepo.On("GetByID", ctx, dep.ID).Return(dep, nil)

		_, err := f.service.CancelDeposit(ctx, 777, dep.ID)

		assert.ErrorIs(t, err, errs.ErrDepositNotFound)
		f.gateway.AssertNotCalled(t, "CancelPayment", mock.Anything, mock.Anything)
	})

	t.Run("already finalized deposit cannot be cancelled", func(t *testing.T) {
		f := newServiceFixture(now)
		dep := pendingDeposit(t, now)
		dep.Approve(newMockClock(now))
		txCtx := context.WithValue(ctx, txKey, "tx")

		f.depositRepo.On("GetByID", ctx, dep.ID).Return(dep, nil)
		f.gateway.On("CancelPayment", ctx, "ATL1").Return(nil)

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("GetDepositRepository", txCtx).Return(f.depositRepo)
		f.uow.On("Rollback", txCtx).Return(nil)
		f.depositRepo.On("GetByIDForUpdate", txCtx, dep.ID).Return(dep, nil)

		_, err := f.service.CancelDeposit(ctx, 42, dep.ID)

		assert.ErrorIs(t, err, errs.ErrDepositNotPending)
	})
}
