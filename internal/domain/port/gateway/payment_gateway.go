package gateway

import (
	"context"
	"time"
)

// PaymentIntent is the normalized result of creating a payment with the
// external QRIS aggregator.
type PaymentIntent struct {
	Reference  string     // The provider's own id for this payment
	RequestRef string     // Our unique reference submitted with the request
	Amount     int64      // Echoed amount in rupiah
	Status     string     // Raw provider status string at creation time
	QRString   string     // Scannable code payload
	QRImageURL string     // Provider-rendered image, when the provider supplies one
	ExpiresAt  *time.Time // Provider-supplied expiry, when present
	Raw        string     // Raw response body kept for audit
}

// PaymentStatus is a point-in-time status snapshot for an existing payment.
// Status stays the raw provider string; entity.NormalizeProviderStatus owns
// the mapping to the closed outcome set.
type PaymentStatus struct {
	Reference string
	Status    string
	Raw       string
}

// PaymentGateway isolates all network interaction with the payment provider.
// Implementations normalize transport failures into the domain gateway error
// taxonomy; callers never see raw HTTP or decoding errors.
type PaymentGateway interface {
	// CreatePayment asks the provider for a new payment intent. requestRef must
	// be unique per attempt and amount must be >= 1.
	CreatePayment(ctx context.Context, requestRef string, amount int64) (*PaymentIntent, error)

	// CheckStatus performs the full status check
	CheckStatus(ctx context.Context, providerReference string) (*PaymentStatus, error)

	// CheckInstant performs the provider's lighter-weight poll. forceRefresh
	// asks the provider to bypass its own caching.
	CheckInstant(ctx context.Context, providerReference string, forceRefresh bool) (*PaymentStatus, error)

	// CancelPayment is best effort; callers proceed with local rejection even
	// when it fails.
	CancelPayment(ctx context.Context, providerReference string) error

	// ValidateCredentials is a lightweight connectivity and credential check
	// used to gate the deposit flow. It never returns an error, only false.
	ValidateCredentials(ctx context.Context) bool
}
