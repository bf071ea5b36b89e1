package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv(EnvFREDAPIKey, "abc123")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvWeightsDir, "")
	t.Setenv(EnvMetricsPort, "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.FREDAPIKey)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "weights", cfg.WeightsDir)
	assert.Equal(t, DefaultMacroSeries, cfg.MacroSeries)
	assert.Equal(t, 0, cfg.MetricsPort)
}

func TestFromEnv_MissingFREDKey(t *testing.T) {
	t.Setenv(EnvFREDAPIKey, "")

	_, err := FromEnv()
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestFromEnv_BadMetricsPort(t *testing.T) {
	t.Setenv(EnvFREDAPIKey, "abc123")
	t.Setenv(EnvMetricsPort, "not-a-port")

	_, err := FromEnv()
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{FREDAPIKey: "k", DataDir: "d", WeightsDir: "w", MetricsPort: 70000}
	assert.True(t, pkgerrors.IsValidation(cfg.Validate()))

	cfg.MetricsPort = 9100
	assert.NoError(t, cfg.Validate())
}
