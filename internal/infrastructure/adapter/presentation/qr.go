package presentation

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
)

// QR rendering parameters. High error correction keeps codes scannable on
// low-quality phone screens.
const (
	qrRecoveryLevel = qrcode.High
	qrImageSize     = 400
)

// QRRenderer renders QRIS payload strings into PNG images
type QRRenderer struct{}

// NewQRRenderer creates a new QR renderer
func NewQRRenderer() *QRRenderer {
	return &QRRenderer{}
}

// Render encodes the payload into a PNG. Callers fall back to sending the
// plain payload text when rendering fails.
func (r *QRRenderer) Render(qrString string) ([]byte, error) {
	if qrString == "" {
		return nil, fmt.Errorf("%w: empty payload", errs.ErrRender)
	}

	png, err := qrcode.Encode(qrString, qrRecoveryLevel, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrRender, err.Error())
	}

	return png, nil
}
