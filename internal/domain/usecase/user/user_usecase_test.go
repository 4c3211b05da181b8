package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	mcore "github.com/ardiansyah-dev/gamestore-bot/mocks/port/core"
	mpers "github.com/ardiansyah-dev/gamestore-bot/mocks/port/persistence"
)

func newFixture(now time.Time) (*mpers.MockUserRepository, *UseCase) {
	repo := new(mpers.MockUserRepository)

	tp := new(mcore.MockTimeProvider)
	tp.On("Now").Return(now)

	logger := new(mcore.MockLogger)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()

	return repo, NewUseCase(repo, tp, logger)
}

func TestEnsureUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns the existing user unchanged", func(t *testing.T) {
		repo, uc := newFixture(now)

		existing := &entity.User{ID: 42, Username: "budi", Balance: 75000}
		repo.On("GetByID", ctx, int64(42)).Return(existing, nil)

		got, err := uc.EnsureUser(ctx, 42, "budi-renamed", "Budi")

		require.NoError(t, err)
		assert.Same(t, existing, got)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("registers on first contact", func(t *testing.T) {
		repo, uc := newFixture(now)

		repo.On("GetByID", ctx, int64(42)).Return(nil, errs.ErrUserNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

		got, err := uc.EnsureUser(ctx, 42, "budi", "Budi")

		require.NoError(t, err)
		assert.Equal(t, int64(42), got.ID)
		assert.Equal(t, "budi", got.Username)
		assert.Zero(t, got.Balance)
		assert.Equal(t, now, got.CreatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		repo, uc := newFixture(now)

		repo.On("GetByID", ctx, int64(42)).Return(nil, errs.NewStorageError("get", "", assert.AnError))

		_, err := uc.EnsureUser(ctx, 42, "budi", "Budi")

		assert.ErrorIs(t, err, errs.ErrStorage)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid id is rejected before persistence", func(t *testing.T) {
		repo, uc := newFixture(now)

		repo.On("GetByID", ctx, int64(-1)).Return(nil, errs.ErrUserNotFound)

		_, err := uc.EnsureUser(ctx, -1, "x", "X")

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns the current balance", func(t *testing.T) {
		repo, uc := newFixture(now)
		repo.On("GetByID", ctx, int64(42)).Return(&entity.User{ID: 42, Balance: 125000}, nil)

		balance, err := uc.GetBalance(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, int64(125000), balance)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo, uc := newFixture(now)
		repo.On("GetByID", ctx, int64(9)).Return(nil, errs.ErrUserNotFound)

		_, err := uc.GetBalance(ctx, 9)

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}
