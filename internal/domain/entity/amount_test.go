package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1000, "Rp 1.000"},
		{25000, "Rp 25.000"},
		{100000, "Rp 100.000"},
		{1000000, "Rp 1.000.000"},
		{1234567890, "Rp 1.234.567.890"},
		{-15000, "-Rp 15.000"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, entity.FormatRupiah(tt.amount))
		})
	}
}
