package user

import (
	"context"
	"errors"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/persistence"
)

// UseCase handles the user-side business logic the deposit flow needs:
// first-contact registration and balance reads. Balance writes happen only
// inside the reconciler's transaction.
type UseCase struct {
	userRepo     persistence.UserRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUseCase creates a new user use case
func NewUseCase(
	userRepo persistence.UserRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *UseCase {
	return &UseCase{
		userRepo:     userRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// EnsureUser fetches a user, creating the record the first time a Telegram
// account talks to the bot.
func (u *UseCase) EnsureUser(ctx context.Context, id int64, username, firstName string) (*entity.User, error) {
	existing, err := u.userRepo.GetByID(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		return nil, err
	}

	created, err := entity.NewUser(id, username, firstName, u.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := u.userRepo.Create(ctx, created); err != nil {
		return nil, err
	}

	u.logger.Info("User registered", map[string]any{
		"user_id":  id,
		"username": username,
	})
	return created, nil
}

// GetBalance returns the user's current balance in rupiah
func (u *UseCase) GetBalance(ctx context.Context, id int64) (int64, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}
