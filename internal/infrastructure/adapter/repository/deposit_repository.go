package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/model"
)

// DepositRepository implements persistence.DepositRepository using GORM
type DepositRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewDepositRepository creates a new DepositRepository instance
func NewDepositRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *DepositRepository {
	return &DepositRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a deposit entity to its database model
func depositEntityToModel(dep *entity.Deposit) *model.Deposit {
	return &model.Deposit{
		ID:                dep.ID,
		UserID:            dep.UserID,
		Amount:            dep.Amount,
		Method:            dep.Method,
		Status:            string(dep.Status),
		ProviderReference: dep.ProviderReference,
		ProviderStatus:    dep.ProviderStatus,
		ProviderPayload:   dep.ProviderPayload,
		QRString:          dep.QRString,
		QRImageURL:        dep.QRImageURL,
		ExpiresAt:         dep.ExpiresAt,
		CreatedAt:         dep.CreatedAt,
		ProcessedAt:       dep.ProcessedAt,
		LastCheckedAt:     dep.LastCheckedAt,
		PollCount:         dep.PollCount,
	}
}

// modelToEntity converts a deposit model to an entity
func depositModelToEntity(m *model.Deposit) *entity.Deposit {
	return &entity.Deposit{
		ID:                m.ID,
		UserID:            m.UserID,
		Amount:            m.Amount,
		Method:            m.Method,
		Status:            entity.DepositStatus(m.Status),
		ProviderReference: m.ProviderReference,
		ProviderStatus:    m.ProviderStatus,
		ProviderPayload:   m.ProviderPayload,
		QRString:          m.QRString,
		QRImageURL:        m.QRImageURL,
		ExpiresAt:         m.ExpiresAt,
		CreatedAt:         m.CreatedAt,
		ProcessedAt:       m.ProcessedAt,
		LastCheckedAt:     m.LastCheckedAt,
		PollCount:         m.PollCount,
	}
}

// handleDatabaseError standardizes database error handling
func (r *DepositRepository) handleDatabaseError(operation string, err error, depositID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("Deposit not found", map[string]any{
			"deposit_id": depositID,
			"operation":  operation,
		})
		return errs.ErrDepositNotFound
	}

	r.logger.Error("Database error on deposit operation", map[string]any{
		"deposit_id": depositID,
		"operation":  operation,
		"error":      err.Error(),
		"error_kind": string(r.errorClassifier.Classify(err)),
	})

	return errs.NewStorageError(operation, depositID, err)
}

// Create persists a new pending deposit
func (r *DepositRepository) Create(ctx context.Context, deposit *entity.Deposit) error {
	r.logger.Debug("Creating deposit", map[string]any{
		"deposit_id": deposit.ID,
		"user_id":    deposit.UserID,
		"amount":     deposit.Amount,
	})

	depositModel := depositEntityToModel(deposit)
	result := r.db.WithContext(ctx).Create(depositModel)

	if result.Error != nil {
		return r.handleDatabaseError("create deposit", result.Error, deposit.ID)
	}

	r.logger.Info("Deposit created", map[string]any{
		"deposit_id": deposit.ID,
		"user_id":    deposit.UserID,
		"amount":     deposit.Amount,
	})
	return nil
}

// GetByID retrieves a deposit by its external id
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*entity.Deposit, error) {
	var depositModel model.Deposit
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&depositModel)

	if result.Error != nil {
		return nil, r.handleDatabaseError("get deposit", result.Error, id)
	}

	return depositModelToEntity(&depositModel), nil
}

// GetByIDForUpdate retrieves a deposit and takes an exclusive row lock. Must
// run inside a transaction for the lock to outlive the call.
func (r *DepositRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Deposit, error) {
	var depositModel model.Deposit
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&depositModel)

	if result.Error != nil {
		return nil, r.handleDatabaseError("lock deposit", result.Error, id)
	}

	return depositModelToEntity(&depositModel), nil
}

// Update writes back a mutated deposit
func (r *DepositRepository) Update(ctx context.Context, deposit *entity.Deposit) error {
	r.logger.Debug("Updating deposit", map[string]any{
		"deposit_id": deposit.ID,
		"status":     string(deposit.Status),
		"poll_count": deposit.PollCount,
	})

	result := r.db.WithContext(ctx).Model(&model.Deposit{}).
		Where("id = ?", deposit.ID).
		Updates(map[string]interface{}{
			"status":             string(deposit.Status),
			"provider_reference": deposit.ProviderReference,
			"provider_status":    deposit.ProviderStatus,
			"provider_payload":   deposit.ProviderPayload,
			"qr_string":          deposit.QRString,
			"qr_image_url":       deposit.QRImageURL,
			"expires_at":         deposit.ExpiresAt,
			"processed_at":       deposit.ProcessedAt,
			"last_checked_at":    deposit.LastCheckedAt,
			"poll_count":         deposit.PollCount,
		})

	if result.Error != nil {
		return r.handleDatabaseError("update deposit", result.Error, deposit.ID)
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Deposit not found during update", map[string]any{
			"deposit_id": deposit.ID,
		})
		return errs.ErrDepositNotFound
	}

	return nil
}

// ListPendingWithin returns pending deposits created within the recent window,
// oldest first
func (r *DepositRepository) ListPendingWithin(ctx context.Context, window time.Duration) ([]*entity.Deposit, error) {
	cutoff := r.timeProvider.Now().Add(-window)

	var models []model.Deposit
	result := r.db.WithContext(ctx).
		Where("status = ? AND created_at >= ?", string(entity.DepositPending), cutoff).
		Order("created_at asc").
		Find(&models)

	if result.Error != nil {
		return nil, r.handleDatabaseError("list pending deposits", result.Error, "")
	}

	deposits := make([]*entity.Deposit, 0, len(models))
	for i := range models {
		deposits = append(deposits, depositModelToEntity(&models[i]))
	}

	return deposits, nil
}
