package presentation

import (
	"context"
	"fmt"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/messenger"
)

// DepositNotifier implements messenger.Notifier on top of the chat transport.
// Every method is best effort: a failed send is logged and dropped, never
// retried, because the ledger transition it reports has already committed.
type DepositNotifier struct {
	messenger messenger.Messenger
	tracker   *MessageTracker
	logger    coreport.Logger
}

// NewDepositNotifier creates a new deposit notifier
func NewDepositNotifier(m messenger.Messenger, tracker *MessageTracker, logger coreport.Logger) *DepositNotifier {
	return &DepositNotifier{
		messenger: m,
		tracker:   tracker,
		logger:    logger,
	}
}

// chatFor resolves the chat to notify. For private bot chats the chat id
// equals the Telegram user id, which covers untracked deposits after restart.
func (n *DepositNotifier) chatFor(deposit *entity.Deposit) int64 {
	if chatID, ok := n.tracker.ChatFor(deposit.ID); ok {
		return chatID
	}
	return deposit.UserID
}

// DepositApproved tells the user their balance was credited
func (n *DepositNotifier) DepositApproved(ctx context.Context, deposit *entity.Deposit, newBalance int64) {
	chatID := n.chatFor(deposit)
	n.tracker.Cleanup(ctx, deposit.ID)

	text := "✅ *Deposit Berhasil!*\n\n" +
		fmt.Sprintf("💰 *Nominal:* %s\n", entity.FormatRupiah(deposit.Amount)) +
		fmt.Sprintf("💵 *Saldo Sekarang:* %s\n", entity.FormatRupiah(newBalance)) +
		fmt.Sprintf("🆔 *ID Deposit:* `%s`\n\n", deposit.ID) +
		"Terima kasih! Saldo sudah bisa digunakan untuk berbelanja."

	keyboard := messenger.Keyboard{
		{{Label: "🏠 Menu Utama", Data: "nav_main"}},
	}

	if _, err := n.messenger.SendText(ctx, chatID, text, keyboard); err != nil {
		n.logger.Warn("Failed to send approval notification", map[string]any{
			"deposit_id": deposit.ID,
			"chat_id":    chatID,
			"error":      err.Error(),
		})
		return
	}

	n.logger.Info("Approval notification sent", map[string]any{
		"deposit_id": deposit.ID,
		"user_id":    deposit.UserID,
	})
}

// DepositExpired tells the user the payment window closed
func (n *DepositNotifier) DepositExpired(ctx context.Context, deposit *entity.Deposit) {
	chatID := n.chatFor(deposit)
	n.tracker.Cleanup(ctx, deposit.ID)

	text := "⌛ *Deposit Kedaluwarsa*\n\n" +
		fmt.Sprintf("💰 *Nominal:* %s\n", entity.FormatRupiah(deposit.Amount)) +
		fmt.Sprintf("🆔 *ID Deposit:* `%s`\n\n", deposit.ID) +
		"Pembayaran tidak terdeteksi dalam batas waktu. Silakan buat deposit baru."

	keyboard := messenger.Keyboard{
		{{Label: "💳 Topup Lagi", Data: "nav_deposit"}},
		{{Label: "🏠 Menu Utama", Data: "nav_main"}},
	}

	if _, err := n.messenger.SendText(ctx, chatID, text, keyboard); err != nil {
		n.logger.Warn("Failed to send expiry notification", map[string]any{
			"deposit_id": deposit.ID,
			"chat_id":    chatID,
			"error":      err.Error(),
		})
	}
}

// DepositCancelled confirms a user-initiated cancellation
func (n *DepositNotifier) DepositCancelled(ctx context.Context, deposit *entity.Deposit) {
	chatID := n.chatFor(deposit)
	n.tracker.Cleanup(ctx, deposit.ID)

	text := "❌ *Deposit Dibatalkan*\n\n" +
		fmt.Sprintf("💰 *Nominal:* %s\n", entity.FormatRupiah(deposit.Amount)) +
		fmt.Sprintf("🆔 *ID Deposit:* `%s`\n\n", deposit.ID) +
		"Deposit dibatalkan. Saldo tidak berubah."

	keyboard := messenger.Keyboard{
		{{Label: "💳 Topup Saldo", Data: "nav_deposit"}},
		{{Label: "🏠 Menu Utama", Data: "nav_main"}},
	}

	if _, err := n.messenger.SendText(ctx, chatID, text, keyboard); err != nil {
		n.logger.Warn("Failed to send cancellation notification", map[string]any{
			"deposit_id": deposit.ID,
			"chat_id":    chatID,
			"error":      err.Error(),
		})
	}
}
