package presentation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/messenger"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/logger"
	mcore "github.com/ardiansyah-dev/gamestore-bot/mocks/port/core"
	mmess "github.com/ardiansyah-dev/gamestore-bot/mocks/port/messenger"
)

func testDeposit(t *testing.T, now time.Time) *entity.Deposit {
	t.Helper()
	tp := new(mcore.MockTimeProvider)
	tp.On("Now").Return(now)
	dep, err := entity.NewDeposit(42, 50000, tp)
	require.NoError(t, err)
	return dep
}

func TestDepositApprovedNotification(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("cleans up the tracked UI and announces the new balance", func(t *testing.T) {
		m := new(mmess.MockMessenger)
		tracker := NewMessageTracker(m, trackerClock(now), logger.NewNoopLogger())
		n := NewDepositNotifier(m, tracker, logger.NewNoopLogger())

		dep := testDeposit(t, now)
		tracker.Track(dep.ID, 42, messenger.MessageRef{ChatID: 555, MessageID: 9})

		m.On("DeleteMessage", ctx, messenger.MessageRef{ChatID: 555, MessageID: 9}).Return(nil).Once()

		var sentText string
		m.On("SendText", ctx, int64(555), mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { sentText = args.String(2) }).
			Return(messenger.MessageRef{ChatID: 555, MessageID: 10}, nil).Once()

		n.DepositApproved(ctx, dep, 175000)

		m.AssertExpectations(t)
		assert.Contains(t, sentText, "Deposit Berhasil")
		assert.Contains(t, sentText, "Rp 50.000")
		assert.Contains(t, sentText, "Rp 175.000")
		assert.Contains(t, sentText, dep.ID)
		assert.Equal(t, 0, tracker.Size())
	})

	t.Run("untracked deposit falls back to the private chat", func(t *testing.T) {
		m := new(mmess.MockMessenger)
		tracker := NewMessageTracker(m, trackerClock(now), logger.NewNoopLogger())
		n := NewDepositNotifier(m, tracker, logger.NewNoopLogger())

		dep := testDeposit(t, now)

		// Private bot chats share the user's Telegram id
		m.On("SendText", ctx, int64(42), mock.Anything, mock.Anything).
			Return(messenger.MessageRef{ChatID: 42, MessageID: 1}, nil).Once()

		n.DepositApproved(ctx, dep, 50000)

		m.AssertExpectations(t)
	})

	t.Run("send failure is swallowed", func(t *testing.T) {
		m := new(mmess.MockMessenger)
		tracker := NewMessageTracker(m, trackerClock(now), logger.NewNoopLogger())
		n := NewDepositNotifier(m, tracker, logger.NewNoopLogger())

		dep := testDeposit(t, now)
		m.On("SendText", ctx, int64(42), mock.Anything, mock.Anything).
			Return(messenger.MessageRef{}, errors.New("blocked by user"))

		n.DepositApproved(ctx, dep, 50000)
	})
}

func TestDepositExpiredNotification(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	m := new(mmess.MockMessenger)
	tracker := NewMessageTracker(m, trackerClock(now), logger.NewNoopLogger())
	n := NewDepositNotifier(m, tracker, logger.NewNoopLogger())

	dep := testDeposit(t, now)

	var sentText string
	var keyboard messenger.Keyboard
	m.On("SendText", ctx, int64(42), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sentText = args.String(2)
			keyboard = args.Get(3).(messenger.Keyboard)
		}).
		Return(messenger.MessageRef{ChatID: 42, MessageID: 1}, nil).Once()

	n.DepositExpired(ctx, dep)

	assert.Contains(t, sentText, "Kedaluwarsa")
	assert.Contains(t, sentText, "Rp 50.000")
	require.Len(t, keyboard, 2)
	assert.Equal(t, "nav_deposit", keyboard[0][0].Data)
}

func TestDepositCancelledNotification(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	m := new(mmess.MockMessenger)
	tracker := NewMessageTracker(m, trackerClock(now), logger.NewNoopLogger())
	n := NewDepositNotifier(m, tracker, logger.NewNoopLogger())

	dep := testDeposit(t, now)

	var sentText string
	m.On("SendText", ctx, int64(42), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sentText = args.String(2) }).
		Return(messenger.MessageRef{ChatID: 42, MessageID: 1}, nil).Once()

	n.DepositCancelled(ctx, dep)

	assert.Contains(t, sentText, "Dibatalkan")
	assert.Contains(t, sentText, "Saldo tidak berubah")
}
