package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/model"
)

// SettingsRepository implements persistence.SettingsRepository using GORM.
// The settings table is a single row owned by the store service; when the row
// is missing the built-in defaults are returned instead of an error.
type SettingsRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewSettingsRepository creates a new SettingsRepository instance
func NewSettingsRepository(db *gorm.DB, logger coreport.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the current settings
func (r *SettingsRepository) Get(ctx context.Context) (entity.Settings, error) {
	var settingModel model.Setting
	result := r.db.WithContext(ctx).First(&settingModel, 1)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			r.logger.Warn("Settings row missing, using defaults", nil)
			return entity.DefaultSettings(), nil
		}
		r.logger.Error("Failed to load settings", map[string]any{
			"error": result.Error.Error(),
		})
		return entity.Settings{}, errs.NewStorageError("get settings", "", result.Error)
	}

	return entity.Settings{
		MinDeposit:        settingModel.MinDeposit,
		MaxDeposit:        settingModel.MaxDeposit,
		Maintenance:       settingModel.Maintenance,
		AutoCheckEnabled:  settingModel.AutoCheckEnabled,
		AutoCheckMaxTries: settingModel.AutoCheckMaxTries,
	}, nil
}
