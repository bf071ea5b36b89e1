// Package config holds the pipeline configuration. Values come from the
// environment (the CLIs load a .env first) and are validated up front so a
// missing credential fails before any network call.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
)

// Environment variable names.
const (
	EnvFREDAPIKey   = "FRED_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvDataDir      = "STOCKCAST_DATA_DIR"
	EnvWeightsDir   = "STOCKCAST_WEIGHTS_DIR"
	EnvMetricsPort  = "STOCKCAST_METRICS_PORT"
)

// DefaultMacroSeries are the FRED series joined into every dataset, in join
// order: 10-year breakeven inflation, S&P 500, 180-day average SOFR, the
// Indeed hiring index and the 15-year mortgage rate index.
var DefaultMacroSeries = []string{
	"T10YIE",
	"SP500",
	"SOFR180DAYAVG",
	"IHLIDXUS",
	"OBMMIC15YF",
}

// Config carries everything the collection and forecasting pipelines need.
type Config struct {
	FREDAPIKey   string `validate:"required"`
	OpenAIAPIKey string // optional, only the name resolver needs it
	DataDir      string `validate:"required"`
	WeightsDir   string `validate:"required"`
	MacroSeries  []string
	MetricsPort  int `validate:"gte=0,lte=65535"` // 0 disables the listener
}

// FromEnv builds a Config from environment variables, applying defaults for
// the directories and macro series list.
func FromEnv() (*Config, error) {
	cfg := &Config{
		FREDAPIKey:   os.Getenv(EnvFREDAPIKey),
		OpenAIAPIKey: os.Getenv(EnvOpenAIAPIKey),
		DataDir:      envOr(EnvDataDir, "data"),
		WeightsDir:   envOr(EnvWeightsDir, "weights"),
		MacroSeries:  append([]string(nil), DefaultMacroSeries...),
	}
	if raw := os.Getenv(EnvMetricsPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, pkgerrors.NewValidationError(EnvMetricsPort, "not a number: "+raw)
		}
		cfg.MetricsPort = port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags and reports the first violation as a
// ValidationError naming the offending field.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return pkgerrors.NewValidationError(fe.Field(),
			"failed rule "+strings.TrimSpace(fe.Tag()+" "+fe.Param()))
	}
	return pkgerrors.NewValidationError("config", err.Error())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
