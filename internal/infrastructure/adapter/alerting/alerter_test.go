package alerting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/messenger"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/logger"
	mcore "github.com/ardiansyah-dev/gamestore-bot/mocks/port/core"
	mmess "github.com/ardiansyah-dev/gamestore-bot/mocks/port/messenger"
)

func alertClock(now time.Time) *mcore.MockTimeProvider {
	tp := new(mcore.MockTimeProvider)
	tp.On("Now").Return(now)
	tp.On("WithTimeout", mock.Anything, mock.Anything).
		Return(context.Background(), context.CancelFunc(func() {})).Maybe()
	return tp
}

func TestCreditFailureRecording(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("owner chat id zero keeps only the in-memory record", func(t *testing.T) {
		m := new(mmess.MockMessenger)
		a := NewCreditAlerter(m, alertClock(now), logger.NewNoopLogger(), 0)

		a.CreditFailure(coreport.CreditFailure{
			DepositID: "D1",
			UserID:    42,
			Amount:    50000,
			Reason:    "commit failed",
		})

		recent := a.Recent()
		require.Len(t, recent, 1)
		assert.Equal(t, "D1", recent[0].Failure.DepositID)
		assert.Equal(t, now, recent[0].ObservedAt)
		m.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ring is bounded", func(t *testing.T) {
		a := NewCreditAlerter(nil, alertClock(now), logger.NewNoopLogger(), 0)

		for i := 0; i < ringSize+25; i++ {
			a.CreditFailure(coreport.CreditFailure{DepositID: fmt.Sprintf("D%d", i)})
		}

		recent := a.Recent()
		assert.Len(t, recent, ringSize)
		// Oldest entries fell off the front
		assert.Equal(t, fmt.Sprintf("D%d", 25), recent[0].Failure.DepositID)
		assert.Equal(t, fmt.Sprintf("D%d", ringSize+24), recent[len(recent)-1].Failure.DepositID)
	})

	t.Run("owner is notified in a detached send", func(t *testing.T) {
		m := new(mmess.MockMessenger)
		sent := make(chan string, 1)
		m.On("SendText", mock.Anything, int64(777), mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				sent <- args.String(2)
			}).
			Return(messenger.MessageRef{ChatID: 777, MessageID: 1}, nil)

		a := NewCreditAlerter(m, alertClock(now), logger.NewNoopLogger(), 777)

		a.CreditFailure(coreport.CreditFailure{
			DepositID: "D9",
			UserID:    42,
			Amount:    50000,
			Reason:    "deadlock detected",
		})

		select {
		case text := <-sent:
			assert.Contains(t, text, "D9")
			assert.Contains(t, text, "Rp 50.000")
			assert.Contains(t, text, "deadlock detected")
		case <-time.After(2 * time.Second):
			t.Fatal("owner notification was never sent")
		}
	})
}
