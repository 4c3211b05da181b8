package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"50000", 50000, false},
		{"50.000", 50000, false},
		{"Rp 50.000", 50000, false},
		{"rp50000", 50000, false},
		{"  25,000  ", 25000, false},
		{"1.000.000", 1000000, false},
		{"0", 0, true},
		{"-5000", 0, true},
		{"lima puluh ribu", 0, true},
		{"", 0, true},
		{"50rb", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			amount, err := parseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, amount)
		})
	}
}
