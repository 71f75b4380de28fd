package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bowshygow/uadbill/internal/api"
	v1 "github.com/bowshygow/uadbill/internal/api/v1"
	"github.com/bowshygow/uadbill/internal/config"
	"github.com/bowshygow/uadbill/internal/logger"
	"github.com/bowshygow/uadbill/internal/service"
	"github.com/bowshygow/uadbill/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Services
			service.NewServiceParams,
			service.NewInvoiceService,
			service.NewAggregationService,
			service.NewChurnService,

			// Handlers
			v1.NewBillingHandler,
			v1.NewHealthHandler,
			newHandlers,

			// Router
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func newHandlers(billing *v1.BillingHandler, health *v1.HealthHandler) api.Handlers {
	return api.Handlers{
		Billing: billing,
		Health:  health,
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	router *gin.Engine,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("starting server on %s", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}
