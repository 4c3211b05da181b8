package dto

import "time"

// DepositResponse represents one deposit in operator listings
type DepositResponse struct {
	ID                string     `json:"id"`
	UserID            int64      `json:"userId"`
	Amount            int64      `json:"amount"`
	Status            string     `json:"status"`
	ProviderReference string     `json:"providerReference"`
	PollCount         int        `json:"pollCount"`
	CreatedAt         time.Time  `json:"createdAt"`
	LastCheckedAt     *time.Time `json:"lastCheckedAt,omitempty"`
}

// PendingDepositsResponse is the operator view of the pending backlog
type PendingDepositsResponse struct {
	Count    int               `json:"count"`
	Deposits []DepositResponse `json:"deposits"`
}

// AlertResponse represents one recorded credit failure
type AlertResponse struct {
	DepositID  string    `json:"depositId"`
	UserID     int64     `json:"userId"`
	Amount     int64     `json:"amount"`
	Reason     string    `json:"reason"`
	ObservedAt time.Time `json:"observedAt"`
}

// HealthResponse reports process liveness and scheduler state
type HealthResponse struct {
	Status          string `json:"status"`
	GatewayReady    bool   `json:"gatewayReady"`
	ActiveFastPolls int    `json:"activeFastPolls"`
}
