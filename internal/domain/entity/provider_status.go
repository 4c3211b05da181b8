package entity

import "strings"

// ProviderOutcome is the closed set the provider's stringly-typed status
// vocabulary collapses into. Every call site goes through NormalizeProviderStatus
// instead of matching raw strings.
type ProviderOutcome int

const (
	// OutcomePending means the payment has not settled yet; keep polling.
	// Unrecognized provider strings also land here on purpose.
	OutcomePending ProviderOutcome = iota
	// OutcomeSettled means the payment is complete and the deposit may be credited
	OutcomeSettled
	// OutcomeExpired means the provider gave up on the payment intent
	OutcomeExpired
)

// String returns a readable name for logging
func (o ProviderOutcome) String() string {
	switch o {
	case OutcomeSettled:
		return "settled"
	case OutcomeExpired:
		return "expired"
	default:
		return "pending"
	}
}

// NormalizeProviderStatus maps the provider's status strings onto the closed
// outcome set. "process" is deliberately non-terminal: the provider reports it
// while a payment is still being confirmed, so crediting on it would risk
// crediting payments that later fail.
func NormalizeProviderStatus(status string) ProviderOutcome {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "paid":
		return OutcomeSettled
	case "expired":
		return OutcomeExpired
	default:
		// "pending", "process" and anything unknown: remain pending
		return OutcomePending
	}
}
