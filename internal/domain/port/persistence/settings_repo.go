package persistence

import (
	"context"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
)

// SettingsRepository exposes the store service's settings record. The deposit
// core only reads it; implementations seed defaults on first access.
type SettingsRepository interface {
	// Get returns the current settings
	//
	// Possible errors:
	// - ErrStorage: if persistence fails
	Get(ctx context.Context) (entity.Settings, error)
}
