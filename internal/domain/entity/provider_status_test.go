package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
)

func TestNormalizeProviderStatus(t *testing.T) {
	tests := []struct {
		status   string
		expected entity.ProviderOutcome
	}{
		{"success", entity.OutcomeSettled},
		{"paid", entity.OutcomeSettled},
		{"SUCCESS", entity.OutcomeSettled},
		{"  Paid  ", entity.OutcomeSettled},
		{"expired", entity.OutcomeExpired},
		{"Expired", entity.OutcomeExpired},
		{"pending", entity.OutcomePending},
		// "process" means the provider is still confirming; never credit on it
		{"process", entity.OutcomePending},
		{"processing", entity.OutcomePending},
		{"", entity.OutcomePending},
		{"unknown-future-status", entity.OutcomePending},
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			assert.Equal(t, tt.expected, entity.NormalizeProviderStatus(tt.status))
		})
	}
}

func TestProviderOutcomeString(t *testing.T) {
	assert.Equal(t, "settled", entity.OutcomeSettled.String())
	assert.Equal(t, "expired", entity.OutcomeExpired.String())
	assert.Equal(t, "pending", entity.OutcomePending.String())
}
