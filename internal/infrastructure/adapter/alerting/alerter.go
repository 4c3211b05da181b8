package alerting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/messenger"
)

// ringSize bounds the in-memory alert history exposed to the operator API
const ringSize = 100

// RecordedAlert is one credit failure with its observation time
type RecordedAlert struct {
	Failure    coreport.CreditFailure
	ObservedAt time.Time
}

// CreditAlerter implements core.Alerter. It keeps a bounded in-memory ring of
// recent failures for the operator API and pushes each one to the owner's
// private chat. Delivery is fire-and-forget; the reconciler never waits on it.
type CreditAlerter struct {
	messenger    messenger.Messenger
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	ownerChatID  int64

	mu     sync.Mutex
	recent []RecordedAlert
}

// NewCreditAlerter creates a new credit failure alerter. ownerChatID of zero
// disables the chat push and keeps only the in-memory record.
func NewCreditAlerter(m messenger.Messenger, timeProvider coreport.TimeProvider, logger coreport.Logger, ownerChatID int64) *CreditAlerter {
	return &CreditAlerter{
		messenger:    m,
		timeProvider: timeProvider,
		logger:       logger,
		ownerChatID:  ownerChatID,
	}
}

// CreditFailure records the failure and notifies the owner
func (a *CreditAlerter) CreditFailure(failure coreport.CreditFailure) {
	record := RecordedAlert{
		Failure:    failure,
		ObservedAt: a.timeProvider.Now(),
	}

	a.mu.Lock()
	a.recent = append(a.recent, record)
	if len(a.recent) > ringSize {
		a.recent = a.recent[len(a.recent)-ringSize:]
	}
	a.mu.Unlock()

	a.logger.Error("Credit failure alert", map[string]any{
		"deposit_id": failure.DepositID,
		"user_id":    failure.UserID,
		"amount":     failure.Amount,
		"reason":     failure.Reason,
	})

	if a.ownerChatID == 0 || a.messenger == nil {
		return
	}

	text := "🚨 *GAGAL KREDIT SALDO*\n\n" +
		fmt.Sprintf("🆔 *Deposit:* `%s`\n", failure.DepositID) +
		fmt.Sprintf("👤 *User:* `%d`\n", failure.UserID) +
		fmt.Sprintf("💰 *Nominal:* %s\n", entity.FormatRupiah(failure.Amount)) +
		fmt.Sprintf("⚠️ *Sebab:* %s\n\n", failure.Reason) +
		"Pembayaran terdeteksi tapi saldo belum masuk. Periksa segera."

	go func() {
		ctx, cancel := a.timeProvider.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := a.messenger.SendText(ctx, a.ownerChatID, text, nil); err != nil {
			a.logger.Warn("Failed to deliver credit failure alert to owner", map[string]any{
				"deposit_id": failure.DepositID,
				"error":      err.Error(),
			})
		}
	}()
}

// Recent returns the recorded failures, newest last
func (a *CreditAlerter) Recent() []RecordedAlert {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]RecordedAlert, len(a.recent))
	copy(out, a.recent)
	return out
}
