package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
)

// DepositStatus defines the lifecycle states of a deposit
type DepositStatus string

// Deposit lifecycle states. Approved, rejected and expired are terminal:
// no transition ever leaves them.
const (
	DepositPending  DepositStatus = "pending"
	DepositApproved DepositStatus = "approved"
	DepositRejected DepositStatus = "rejected"
	DepositExpired  DepositStatus = "expired"
)

// MethodQRIS is the only supported top-up method
const MethodQRIS = "QRIS"

// Deposit represents a user-initiated balance top-up request. It is a
// permanent audit record: it is created once, transitioned by reconciliation
// or cancellation, and never deleted.
type Deposit struct {
	ID                string        // Stable external correlation key, used in UI callbacks
	UserID            int64         // Owning user
	Amount            int64         // Rupiah, immutable after creation
	Method            string        // Always MethodQRIS in this core
	Status            DepositStatus // Current lifecycle state
	ProviderReference string        // The aggregator's own id for the payment intent
	ProviderStatus    string        // Last raw provider status string, for audit
	ProviderPayload   string        // Last raw provider snapshot, for audit/debug
	QRString          string        // Scannable payment code payload
	QRImageURL        string        // Provider-rendered image, when supplied
	ExpiresAt         *time.Time    // Provider-supplied expiry, when supplied
	CreatedAt         time.Time
	ProcessedAt       *time.Time // Stamped when a terminal state is reached
	LastCheckedAt     *time.Time // Stamped on every reconciliation attempt
	PollCount         int        // Reconciliation attempts so far, caps retries
}

// NewDeposit creates a pending deposit owned by userID. The id combines a
// millisecond timestamp with a random suffix so concurrent creations cannot
// collide.
func NewDeposit(userID, amount int64, timeProvider coreport.TimeProvider) (*Deposit, error) {
	if userID <= 0 {
		return nil, errs.ErrInvalidUserID
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", errs.ErrInvalidAmount)
	}

	now := timeProvider.Now()
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])

	return &Deposit{
		ID:        fmt.Sprintf("D%d%s", now.UnixMilli(), suffix),
		UserID:    userID,
		Amount:    amount,
		Method:    MethodQRIS,
		Status:    DepositPending,
		CreatedAt: now,
	}, nil
}

// IsTerminal reports whether the deposit reached a final state
func (d *Deposit) IsTerminal() bool {
	return d.Status == DepositApproved || d.Status == DepositRejected || d.Status == DepositExpired
}

// AttachIntent seeds provider fields from a freshly created payment intent
func (d *Deposit) AttachIntent(reference, providerStatus, qrString, qrImageURL string, expiresAt *time.Time) {
	d.ProviderReference = reference
	if providerStatus != "" {
		d.ProviderStatus = providerStatus
	}
	d.QRString = qrString
	d.QRImageURL = qrImageURL
	d.ExpiresAt = expiresAt
}

// RecordPoll stamps a reconciliation attempt that left the deposit pending
func (d *Deposit) RecordPoll(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	d.PollCount++
	d.LastCheckedAt = &now
}

// Approve transitions the deposit to approved. The caller is responsible for
// crediting the owning user in the same atomic unit.
func (d *Deposit) Approve(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	d.Status = DepositApproved
	d.ProcessedAt = &now
	d.LastCheckedAt = &now
}

// Expire transitions the deposit to expired with no balance effect
func (d *Deposit) Expire(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	d.Status = DepositExpired
	d.ProcessedAt = &now
	d.LastCheckedAt = &now
}

// Reject transitions the deposit to rejected. Used for user cancellation.
func (d *Deposit) Reject(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	d.Status = DepositRejected
	d.ProcessedAt = &now
}
