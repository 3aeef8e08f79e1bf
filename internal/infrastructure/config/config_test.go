package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "lendingd", cfg.ServiceName)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "lending-events", cfg.KafkaTopic)

	snap := cfg.Engine.Snapshot()
	assert.Equal(t, 24*time.Hour, snap.InterestReportingPeriod)
	assert.Equal(t, time.Minute, snap.SweepInterval)
	assert.Equal(t, 8, snap.SweepWorkers)
	assert.True(t, snap.Alpha.Equal(decimal.RequireFromString("0.3")))
	assert.True(t, snap.ScoreRangeMin.Equal(decimal.NewFromInt(300)))
	assert.True(t, snap.ScoreRangeMax.Equal(decimal.NewFromInt(850)))
	assert.Equal(t, int32(3), snap.SigFigs)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "7001")
	t.Setenv("SWEEP_INTERVAL", "5m")
	t.Setenv("SCORE_ALPHA", "0.7")
	t.Setenv("SCORE_RANGE_MIN", "0")
	t.Setenv("SCORE_RANGE_MAX", "1000")

	cfg := config.Load()

	assert.Equal(t, 7001, cfg.GRPCPort)
	snap := cfg.Engine.Snapshot()
	assert.Equal(t, 5*time.Minute, snap.SweepInterval)
	assert.True(t, snap.Alpha.Equal(decimal.RequireFromString("0.7")))
	assert.True(t, snap.ScoreRangeMin.IsZero())
	assert.True(t, snap.ScoreRangeMax.Equal(decimal.NewFromInt(1000)))
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("GRPC_PORT", "not-a-port")
	t.Setenv("SWEEP_INTERVAL", "sometime soon")
	t.Setenv("SCORE_ALPHA", "lots")

	cfg := config.Load()

	assert.Equal(t, 9090, cfg.GRPCPort)
	snap := cfg.Engine.Snapshot()
	assert.Equal(t, time.Minute, snap.SweepInterval)
	assert.True(t, snap.Alpha.Equal(decimal.RequireFromString("0.3")))
}

func TestValidate_RequiresSecrets(t *testing.T) {
	cfg := config.Load()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")

	var confErr *port.ConfigurationError
	assert.True(t, errors.As(err, &confErr))
}

func TestValidate_RequiresJWTSecret(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	err := config.Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_PortsMustDiffer(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GRPC_PORT", "8080")

	err := config.Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ports must differ")
}

func TestValidate_RejectsBadEngineSettings(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SCORE_ALPHA", "1.5")

	err := config.Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha")
}

func TestValidate_RejectsBankruptcyScoreOutOfRange(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SCORE_BANKRUPTCY", "1.5")

	err := config.Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bankruptcy")
}

func TestValidate_AcceptsCompleteConfig(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "secret")

	assert.NoError(t, config.Load().Validate())
}
