package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainerr "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/persistence"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/usecase"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/alerting"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/api/dto"
)

// defaultPendingWindow bounds the pending listing when no window is given
const defaultPendingWindow = 30 * time.Minute

// pollCounter is the slice of the fast-poll registry health reporting needs
type pollCounter interface {
	ActiveCount() int
}

// OpsHandler serves the operator-facing read endpoints
type OpsHandler struct {
	depositRepo  persistence.DepositRepository
	userUseCase  usecase.UserUseCase
	alerter      *alerting.CreditAlerter
	fastPolls    pollCounter
	gatewayReady func() bool
	logger       coreport.Logger
}

// NewOpsHandler creates a new operator API handler
func NewOpsHandler(
	depositRepo persistence.DepositRepository,
	userUseCase usecase.UserUseCase,
	alerter *alerting.CreditAlerter,
	fastPolls pollCounter,
	gatewayReady func() bool,
	logger coreport.Logger,
) *OpsHandler {
	return &OpsHandler{
		depositRepo:  depositRepo,
		userUseCase:  userUseCase,
		alerter:      alerter,
		fastPolls:    fastPolls,
		gatewayReady: gatewayReady,
		logger:       logger,
	}
}

// Health handles the GET /health endpoint
func (h *OpsHandler) Health(c *gin.Context) {
	ready := true
	if h.gatewayReady != nil {
		ready = h.gatewayReady()
	}

	active := 0
	if h.fastPolls != nil {
		active = h.fastPolls.ActiveCount()
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:          "ok",
		GatewayReady:    ready,
		ActiveFastPolls: active,
	})
}

// PendingDeposits handles the GET /ops/deposits/pending endpoint. An optional
// window_minutes query widens or narrows the listing.
func (h *OpsHandler) PendingDeposits(c *gin.Context) {
	window := defaultPendingWindow
	if raw := c.Query("window_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.CodeInvalidAmount,
				Message: "window_minutes must be a positive integer",
			})
			return
		}
		window = time.Duration(minutes) * time.Minute
	}

	pending, err := h.depositRepo.ListPendingWithin(c.Request.Context(), window)
	if err != nil {
		h.logger.Error("Failed to list pending deposits", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Failed to list pending deposits",
		})
		return
	}

	deposits := make([]dto.DepositResponse, 0, len(pending))
	for _, dep := range pending {
		deposits = append(deposits, dto.DepositResponse{
			ID:                dep.ID,
			UserID:            dep.UserID,
			Amount:            dep.Amount,
			Status:            string(dep.Status),
			ProviderReference: dep.ProviderReference,
			PollCount:         dep.PollCount,
			CreatedAt:         dep.CreatedAt,
			LastCheckedAt:     dep.LastCheckedAt,
		})
	}

	c.JSON(http.StatusOK, dto.PendingDepositsResponse{
		Count:    len(deposits),
		Deposits: deposits,
	})
}

// Alerts handles the GET /ops/alerts endpoint
func (h *OpsHandler) Alerts(c *gin.Context) {
	recent := h.alerter.Recent()

	alerts := make([]dto.AlertResponse, 0, len(recent))
	for _, record := range recent {
		alerts = append(alerts, dto.AlertResponse{
			DepositID:  record.Failure.DepositID,
			UserID:     record.Failure.UserID,
			Amount:     record.Failure.Amount,
			Reason:     record.Failure.Reason,
			ObservedAt: record.ObservedAt,
		})
	}

	c.JSON(http.StatusOK, alerts)
}

// GetBalance handles the GET /ops/users/:userId/balance endpoint
func (h *OpsHandler) GetBalance(c *gin.Context) {
	userIDParam := c.Param("userId")
	userID, err := strconv.ParseInt(userIDParam, 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return
	}

	balance, err := h.userUseCase.GetBalance(c.Request.Context(), userID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		if errors.Is(err, domainerr.ErrUserNotFound) {
			statusCode = http.StatusNotFound
			errorMessage = "User not found"
		}

		h.logger.Error("Error getting user balance", map[string]any{
			"userId": userID,
			"error":  err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  userID,
		Balance: balance,
	})
}
