package service

import (
	"github.com/bowshygow/uadbill/internal/config"
	"github.com/bowshygow/uadbill/internal/domain/proration"
	"github.com/bowshygow/uadbill/internal/logger"
	"github.com/bowshygow/uadbill/internal/types"
	"github.com/go-playground/validator/v10"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger    *logger.Logger
	Config    *config.Configuration
	Validator *validator.Validate
}

// NewServiceParams assembles the common service dependencies.
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	validator *validator.Validate,
) ServiceParams {
	return ServiceParams{
		Logger:    logger,
		Config:    config,
		Validator: validator,
	}
}

// CalculatorFor resolves a proration calculator for the requested strategy,
// falling back to the configured default when the caller passes an empty
// strategy. An explicit but unknown strategy is an error.
func (p ServiceParams) CalculatorFor(strategy types.ProrationStrategy) (proration.Calculator, error) {
	if strategy == "" {
		strategy = p.Config.Billing.DefaultProrationStrategy
	}
	return proration.NewCalculator(strategy)
}
