package core

// CreditFailure describes a reconciliation that observed a settled payment but
// could not persist the approval and balance credit. These must reach an
// operator: the user has paid and has not been credited yet.
type CreditFailure struct {
	DepositID string
	UserID    int64
	Amount    int64
	Reason    string
}

// Alerter delivers operator-visible alerts. Implementations are best effort
// and must never block the reconciliation path.
type Alerter interface {
	CreditFailure(failure CreditFailure)
}
