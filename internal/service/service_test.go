package service

import (
	"testing"
	"time"

	"github.com/bowshygow/uadbill/internal/config"
	"github.com/bowshygow/uadbill/internal/logger"
	"github.com/bowshygow/uadbill/internal/validator"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestParams(t *testing.T) ServiceParams {
	t.Helper()
	log, err := logger.NewLogger()
	require.NoError(t, err)
	return NewServiceParams(log, config.GetDefaultConfig(), validator.NewValidator())
}
