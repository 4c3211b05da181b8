package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/api/handler"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the operator API
func SetupRoutes(router *gin.Engine, opsHandler *handler.OpsHandler) {
	router.GET("/health", opsHandler.Health)

	opsRoutes := router.Group("/ops")
	{
		// GET /ops/deposits/pending
		opsRoutes.GET("/deposits/pending", opsHandler.PendingDeposits)

		// GET /ops/alerts
		opsRoutes.GET("/alerts", opsHandler.Alerts)

		// GET /ops/users/:userId/balance
		opsRoutes.GET("/users/:userId/balance", opsHandler.GetBalance)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
