package server

import (
	"github.com/gin-gonic/gin"

	"github.com/quotedesk/quotedesk-backend/internal/http/handlers"
	"github.com/quotedesk/quotedesk-backend/internal/http/middleware"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *middleware.AuthMiddleware
	HealthHandler  *handlers.HealthHandler
	QuoteHandler   *handlers.QuoteHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireTenant())
	{
		tenant := api.Group("/tenants/:tenantID")
		tenant.GET("/quotes/:quoteID", cfg.QuoteHandler.GetQuote)
		tenant.GET("/quotes/:quoteID/versions", cfg.QuoteHandler.ListVersions)
		tenant.POST("/quotes/:quoteID/reestimate", cfg.QuoteHandler.Reestimate)
	}

	return router
}
