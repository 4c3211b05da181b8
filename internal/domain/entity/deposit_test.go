package entity_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	mcore "github.com/ardiansyah-dev/gamestore-bot/mocks/port/core"
)

func fixedClock(now time.Time) *mcore.MockTimeProvider {
	tp := new(mcore.MockTimeProvider)
	tp.On("Now").Return(now)
	return tp
}

func TestNewDeposit(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("creates pending QRIS deposit", func(t *testing.T) {
		dep, err := entity.NewDeposit(12345, 50000, fixedClock(now))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(dep.ID, "D"), "id should carry the deposit prefix")
		assert.Equal(t, int64(12345), dep.UserID)
		assert.Equal(t, int64(50000), dep.Amount)
		assert.Equal(t, entity.MethodQRIS, dep.Method)
		assert.Equal(t, entity.DepositPending, dep.Status)
		assert.Equal(t, now, dep.CreatedAt)
		assert.Zero(t, dep.PollCount)
		assert.Nil(t, dep.ProcessedAt)
		assert.False(t, dep.IsTerminal())
	})

	t.Run("ids do not collide for concurrent creations", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 200; i++ {
			dep, err := entity.NewDeposit(1, 1000, fixedClock(now))
			require.NoError(t, err)
			assert.False(t, seen[dep.ID], "duplicate id %s", dep.ID)
			seen[dep.ID] = true
		}
	})

	t.Run("rejects non-positive user id", func(t *testing.T) {
		_, err := entity.NewDeposit(0, 1000, fixedClock(now))
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)

		_, err = entity.NewDeposit(-5, 1000, fixedClock(now))
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := entity.NewDeposit(1, 0, fixedClock(now))
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = entity.NewDeposit(1, -100, fixedClock(now))
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestDepositTransitions(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	later := created.Add(5 * time.Minute)

	newPending := func(t *testing.T) *entity.Deposit {
		dep, err := entity.NewDeposit(7, 25000, fixedClock(created))
		require.NoError(t, err)
		return dep
	}

	t.Run("approve stamps processed and last checked", func(t *testing.T) {
		dep := newPending(t)
		dep.Approve(fixedClock(later))

		assert.Equal(t, entity.DepositApproved, dep.Status)
		require.NotNil(t, dep.ProcessedAt)
		assert.Equal(t, later, *dep.ProcessedAt)
		require.NotNil(t, dep.LastCheckedAt)
		assert.Equal(t, later, *dep.LastCheckedAt)
		assert.True(t, dep.IsTerminal())
	})

	t.Run("expire is terminal with no balance effect implied", func(t *testing.T) {
		dep := newPending(t)
		dep.Expire(fixedClock(later))

		assert.Equal(t, entity.DepositExpired, dep.Status)
		require.NotNil(t, dep.ProcessedAt)
		assert.True(t, dep.IsTerminal())
	})

	t.Run("reject is terminal", func(t *testing.T) {
		dep := newPending(t)
		dep.Reject(fixedClock(later))

		assert.Equal(t, entity.DepositRejected, dep.Status)
		require.NotNil(t, dep.ProcessedAt)
		assert.True(t, dep.IsTerminal())
	})

	t.Run("record poll increments count and stamps the attempt", func(t *testing.T) {
		dep := newPending(t)
		dep.RecordPoll(fixedClock(later))
		dep.RecordPoll(fixedClock(later.Add(3 * time.Second)))

		assert.Equal(t, 2, dep.PollCount)
		require.NotNil(t, dep.LastCheckedAt)
		assert.Equal(t, later.Add(3*time.Second), *dep.LastCheckedAt)
		assert.Equal(t, entity.DepositPending, dep.Status)
	})
}

func TestDepositAttachIntent(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	expires := created.Add(30 * time.Minute)

	dep, err := entity.NewDeposit(7, 25000, fixedClock(created))
	require.NoError(t, err)

	dep.AttachIntent("ATL123", "pending", "000201qris-payload", "https://cdn.example/qr.png", &expires)

	assert.Equal(t, "ATL123", dep.ProviderReference)
	assert.Equal(t, "pending", dep.ProviderStatus)
	assert.Equal(t, "000201qris-payload", dep.QRString)
	assert.Equal(t, "https://cdn.example/qr.png", dep.QRImageURL)
	require.NotNil(t, dep.ExpiresAt)
	assert.Equal(t, expires, *dep.ExpiresAt)

	// An empty provider status must not erase an earlier one
	dep.AttachIntent("ATL123", "", "payload", "", nil)
	assert.Equal(t, "pending", dep.ProviderStatus)
}
