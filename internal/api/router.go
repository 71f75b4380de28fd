package api

import (
	v1 "github.com/bowshygow/uadbill/internal/api/v1"
	"github.com/bowshygow/uadbill/internal/logger"
	"github.com/bowshygow/uadbill/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Billing *v1.BillingHandler
	Health  *v1.HealthHandler
}

func NewRouter(handlers Handlers, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Invoice routes
	invoices := router.Group("/invoices")
	{
		invoices.POST("/preview", handlers.Billing.PreviewInvoices)
	}

	// Aggregation routes
	aggregations := router.Group("/aggregations")
	{
		aggregations.POST("/preview", handlers.Billing.PreviewAggregation)
	}

	// Churn routes
	churn := router.Group("/churn")
	{
		churn.POST("/preview", handlers.Billing.PreviewChurn)
	}
}
