package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/messenger"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/persistence"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/usecase"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/presentation"
)

// Callback payload prefixes for the deposit UI
const (
	callbackMainMenu    = "nav_main"
	callbackDeposit     = "nav_deposit"
	callbackCheckPrefix = "check_qris_"
	callbackCancelPfx   = "cancel_qris_"
)

// fastPollControl is the slice of the fast-poll registry the bot drives
type fastPollControl interface {
	Start(ctx context.Context, depositID string) bool
	Stop(depositID string)
}

// Bot drives the Telegram update loop for the deposit flow
type Bot struct {
	api          *tgbotapi.BotAPI
	messenger    *BotMessenger
	deposits     usecase.DepositUseCase
	users        usecase.UserUseCase
	fastPolls    fastPollControl
	qr           *presentation.QRRenderer
	tracker      *presentation.MessageTracker
	notifier     messenger.Notifier
	settingsRepo persistence.SettingsRepository
	logger       coreport.Logger
	ownerID      int64

	// gatewayReady is set once at startup after the credential check; the
	// deposit entry point stays closed while it is false
	gatewayReady bool

	runCtx context.Context

	mu             sync.Mutex
	awaitingAmount map[int64]bool
}

// NewBot creates a new bot front end
func NewBot(
	api *tgbotapi.BotAPI,
	m *BotMessenger,
	deposits usecase.DepositUseCase,
	users usecase.UserUseCase,
	fastPolls fastPollControl,
	qr *presentation.QRRenderer,
	tracker *presentation.MessageTracker,
	notifier messenger.Notifier,
	settingsRepo persistence.SettingsRepository,
	logger coreport.Logger,
	ownerID int64,
) *Bot {
	return &Bot{
		api:            api,
		messenger:      m,
		deposits:       deposits,
		users:          users,
		fastPolls:      fastPolls,
		qr:             qr,
		tracker:        tracker,
		notifier:       notifier,
		settingsRepo:   settingsRepo,
		logger:         logger,
		ownerID:        ownerID,
		awaitingAmount: make(map[int64]bool),
	}
}

// SetGatewayReady records the startup credential check result
func (b *Bot) SetGatewayReady(ready bool) {
	b.gatewayReady = ready
}

// Run consumes updates until the context is cancelled
func (b *Bot) Run(ctx context.Context) {
	b.runCtx = ctx

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.Info("Telegram update loop started", map[string]any{
		"bot": b.api.Self.UserName,
	})

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("Telegram update loop stopped", nil)
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Panic while handling update", map[string]any{
				"panic": fmt.Sprintf("%v", r),
			})
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

// underMaintenance reports whether the deposit surface is closed to this user
func (b *Bot) underMaintenance(ctx context.Context, userID int64) bool {
	settings, err := b.settingsRepo.Get(ctx)
	if err != nil {
		return false
	}
	return settings.Maintenance && userID != b.ownerID
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if b.underMaintenance(ctx, userID) {
		_, _ = b.messenger.SendText(ctx, chatID, "🔧 *Maintenance*\n\nBot sedang dalam perbaikan. Silakan coba lagi nanti.", nil)
		return
	}

	if msg.IsCommand() {
		b.clearAwaiting(chatID)
		switch msg.Command() {
		case "start":
			b.sendMainMenu(ctx, msg)
		case "saldo":
			b.sendBalance(ctx, userID, chatID)
		case "topup":
			b.promptAmount(ctx, chatID)
		default:
			_, _ = b.messenger.SendText(ctx, chatID, "Perintah tidak dikenal. Gunakan /start.", nil)
		}
		return
	}

	if b.isAwaiting(chatID) {
		b.clearAwaiting(chatID)
		b.handleAmountInput(ctx, msg)
		return
	}

	_, _ = b.messenger.SendText(ctx, chatID, "Silakan gunakan tombol menu atau /start.", nil)
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From == nil || query.Message == nil {
		return
	}
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	data := query.Data

	ack := func(text string) {
		_, _ = b.api.Request(tgbotapi.NewCallback(query.ID, text))
	}

	if b.underMaintenance(ctx, userID) {
		ack("🔧 Bot sedang maintenance")
		return
	}

	switch {
	case data == callbackMainMenu:
		ack("")
		b.clearAwaiting(chatID)
		b.sendBalance(ctx, userID, chatID)

	case data == callbackDeposit:
		ack("")
		b.promptAmount(ctx, chatID)

	case strings.HasPrefix(data, callbackCheckPrefix):
		b.handleCheck(ctx, query, strings.TrimPrefix(data, callbackCheckPrefix), ack)

	case strings.HasPrefix(data, callbackCancelPfx):
		b.handleCancel(ctx, userID, strings.TrimPrefix(data, callbackCancelPfx), ack)

	default:
		ack("")
	}
}

func (b *Bot) sendMainMenu(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.EnsureUser(ctx, msg.From.ID, msg.From.UserName, msg.From.FirstName)
	if err != nil {
		b.logger.Error("Failed to ensure user", map[string]any{
			"user_id": msg.From.ID,
			"error":   err.Error(),
		})
		_, _ = b.messenger.SendText(ctx, msg.Chat.ID, "Terjadi kesalahan. Silakan coba lagi.", nil)
		return
	}

	text := fmt.Sprintf("👋 Halo, *%s*!\n\n", user.FirstName) +
		fmt.Sprintf("💰 *Saldo:* %s\n", entity.FormatRupiah(user.Balance)) +
		fmt.Sprintf("📈 *Total Deposit:* %s\n\n", entity.FormatRupiah(user.TotalDeposit)) +
		"Gunakan tombol di bawah untuk topup saldo."

	keyboard := messenger.Keyboard{
		{{Label: "💳 Topup Saldo", Data: callbackDeposit}},
		{{Label: "💰 Cek Saldo", Data: callbackMainMenu}},
	}

	_, _ = b.messenger.SendText(ctx, msg.Chat.ID, text, keyboard)
}

func (b *Bot) sendBalance(ctx context.Context, userID, chatID int64) {
	balance, err := b.users.GetBalance(ctx, userID)
	if err != nil {
		_, _ = b.messenger.SendText(ctx, chatID, "Terjadi kesalahan saat membaca saldo.", nil)
		return
	}

	text := fmt.Sprintf("💵 *Saldo Saat Ini:* %s", entity.FormatRupiah(balance))
	keyboard := messenger.Keyboard{
		{{Label: "💳 Topup Saldo", Data: callbackDeposit}},
	}
	_, _ = b.messenger.SendText(ctx, chatID, text, keyboard)
}

func (b *Bot) promptAmount(ctx context.Context, chatID int64) {
	if !b.gatewayReady {
		_, _ = b.messenger.SendText(ctx, chatID,
			"⚠️ *Topup Tidak Tersedia*\n\nKoneksi ke penyedia pembayaran bermasalah. Silakan coba lagi nanti.", nil)
		return
	}

	settings, err := b.settingsRepo.Get(ctx)
	if err != nil {
		_, _ = b.messenger.SendText(ctx, chatID, "Terjadi kesalahan. Silakan coba lagi.", nil)
		return
	}

	b.setAwaiting(chatID)

	text := "💳 *Topup Saldo via QRIS*\n\n" +
		fmt.Sprintf("⬇️ Minimal: %s\n", entity.FormatRupiah(settings.MinDeposit)) +
		fmt.Sprintf("⬆️ Maksimal: %s\n\n", entity.FormatRupiah(settings.MaxDeposit)) +
		"Ketik nominal deposit (contoh: `50000`):"

	_, _ = b.messenger.SendText(ctx, chatID, text, nil)
}

// handleAmountInput parses the typed nominal and runs the deposit creation flow
func (b *Bot) handleAmountInput(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	amount, err := parseAmount(msg.Text)
	if err != nil {
		_, _ = b.messenger.SendText(ctx, chatID, "❌ Nominal tidak valid. Ketik angka saja, contoh: `50000`.", nil)
		return
	}

	if _, err := b.users.EnsureUser(ctx, userID, msg.From.UserName, msg.From.FirstName); err != nil {
		_, _ = b.messenger.SendText(ctx, chatID, "Terjadi kesalahan. Silakan coba lagi.", nil)
		return
	}

	dep, err := b.deposits.CreateDeposit(ctx, userID, amount)
	if err != nil {
		b.sendCreateError(ctx, chatID, err)
		return
	}

	b.sendDepositUI(ctx, chatID, dep)

	// The fast poll runs on the bot lifecycle context, not the update's
	if b.fastPolls != nil {
		b.fastPolls.Start(b.runCtx, dep.ID)
	}
}

func (b *Bot) sendCreateError(ctx context.Context, chatID int64, err error) {
	switch {
	case errs.IsInvalidAmountError(err):
		_, _ = b.messenger.SendText(ctx, chatID,
			fmt.Sprintf("❌ *Nominal Ditolak*\n\n%s", err.Error()), nil)
	case errs.IsGatewayError(err):
		_, _ = b.messenger.SendText(ctx, chatID,
			"⚠️ Penyedia pembayaran sedang bermasalah. Silakan coba beberapa saat lagi.", nil)
	default:
		_, _ = b.messenger.SendText(ctx, chatID, "Terjadi kesalahan. Silakan coba lagi.", nil)
	}
}

// sendDepositUI renders the QR and posts the payment instructions
func (b *Bot) sendDepositUI(ctx context.Context, chatID int64, dep *entity.Deposit) {
	expiry := "30 menit"
	if dep.ExpiresAt != nil {
		expiry = dep.ExpiresAt.Format("15:04:05")
	}

	caption := "💳 *Pembayaran QRIS*\n\n" +
		fmt.Sprintf("💰 *Nominal:* %s\n", entity.FormatRupiah(dep.Amount)) +
		fmt.Sprintf("🆔 *ID Deposit:* `%s`\n", dep.ID) +
		fmt.Sprintf("⏰ *Batas Waktu:* %s\n\n", expiry) +
		"Scan QR di atas, saldo masuk otomatis setelah pembayaran terdeteksi."

	keyboard := messenger.Keyboard{
		{{Label: "🔄 Cek Status", Data: callbackCheckPrefix + dep.ID}},
		{{Label: "❌ Batalkan", Data: callbackCancelPfx + dep.ID}},
	}

	png, err := b.qr.Render(dep.QRString)
	if err != nil {
		// Text fallback keeps the payment usable when rendering fails
		b.logger.Warn("QR render failed, sending payload as text", map[string]any{
			"deposit_id": dep.ID,
			"error":      err.Error(),
		})
		text := caption + "\n\n📋 *Kode QRIS:*\n`" + dep.QRString + "`"
		ref, sendErr := b.messenger.SendText(ctx, chatID, text, keyboard)
		if sendErr == nil {
			b.tracker.Track(dep.ID, dep.UserID, ref)
		}
		return
	}

	ref, err := b.messenger.SendPhoto(ctx, chatID, png, caption, keyboard)
	if err != nil {
		b.logger.Error("Failed to send deposit UI", map[string]any{
			"deposit_id": dep.ID,
			"error":      err.Error(),
		})
		return
	}
	b.tracker.Track(dep.ID, dep.UserID, ref)
}

// handleCheck runs an on-demand status poll from the inline button
func (b *Bot) handleCheck(ctx context.Context, query *tgbotapi.CallbackQuery, depositID string, ack func(string)) {
	outcome, err := b.deposits.CheckDeposit(ctx, depositID)
	if err != nil {
		if errs.IsNotFoundError(err) {
			ack("Deposit tidak ditemukan")
			return
		}
		if errs.IsGatewayError(err) {
			ack("⚠️ Penyedia pembayaran tidak merespon, coba lagi")
			return
		}
		b.logger.Warn("Manual check failed", map[string]any{
			"deposit_id": depositID,
			"error":      err.Error(),
		})
		ack("Terjadi kesalahan, coba lagi")
		return
	}

	dep, depErr := b.deposits.GetDeposit(ctx, depositID)

	switch {
	case outcome.Credited:
		ack("✅ Pembayaran diterima!")
		if b.fastPolls != nil {
			b.fastPolls.Stop(depositID)
		}
		if depErr == nil {
			b.notifier.DepositApproved(ctx, dep, outcome.NewBalance)
		}
	case outcome.Transitioned && outcome.Status == entity.DepositExpired:
		ack("⌛ Deposit kedaluwarsa")
		if b.fastPolls != nil {
			b.fastPolls.Stop(depositID)
		}
		if depErr == nil {
			b.notifier.DepositExpired(ctx, dep)
		}
	case outcome.Status == entity.DepositPending:
		ack("⏳ Pembayaran belum terdeteksi")
		// Re-arm the fast path; a user pressing check usually just paid
		if b.fastPolls != nil {
			b.fastPolls.Start(b.runCtx, depositID)
		}
	default:
		// Already finalized earlier; the notification went out then
		ack("Deposit sudah diproses")
	}
}

// handleCancel rejects a pending deposit from the inline button
func (b *Bot) handleCancel(ctx context.Context, userID int64, depositID string, ack func(string)) {
	dep, err := b.deposits.CancelDeposit(ctx, userID, depositID)
	if err != nil {
		switch {
		case errs.IsDepositNotPendingError(err):
			// A reconciliation finalized it first; that path already notified
			ack("Deposit sudah diproses, tidak bisa dibatalkan")
		case errs.IsNotFoundError(err):
			ack("Deposit tidak ditemukan")
		default:
			b.logger.Warn("Cancel failed", map[string]any{
				"deposit_id": depositID,
				"error":      err.Error(),
			})
			ack("Terjadi kesalahan, coba lagi")
		}
		return
	}

	ack("Deposit dibatalkan")
	if b.fastPolls != nil {
		b.fastPolls.Stop(depositID)
	}
	b.notifier.DepositCancelled(ctx, dep)
}

// parseAmount accepts plain digits with optional thousand separators
func parseAmount(input string) (int64, error) {
	cleaned := strings.TrimSpace(strings.ToLower(input))
	cleaned = strings.TrimPrefix(cleaned, "rp")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	amount, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", input)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return amount, nil
}

func (b *Bot) setAwaiting(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.awaitingAmount[chatID] = true
}

func (b *Bot) clearAwaiting(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.awaitingAmount, chatID)
}

func (b *Bot) isAwaiting(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.awaitingAmount[chatID]
}
