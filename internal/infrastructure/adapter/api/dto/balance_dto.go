package dto

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	UserID  int64 `json:"userId"`
	Balance int64 `json:"balance"`
}
