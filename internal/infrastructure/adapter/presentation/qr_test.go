package presentation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
)

func TestQRRender(t *testing.T) {
	r := NewQRRenderer()

	t.Run("renders a PNG for a QRIS payload", func(t *testing.T) {
		png, err := r.Render("00020101021226660014ID.CO.EXAMPLE01189360091800000000005204581253033605802ID")

		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output should be a PNG")
	})

	t.Run("empty payload fails with the render sentinel", func(t *testing.T) {
		_, err := r.Render("")

		assert.ErrorIs(t, err, errs.ErrRender)
	})
}
