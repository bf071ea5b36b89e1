package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/quantbay/stockcast/internal/config"
	"github.com/quantbay/stockcast/internal/dataset"
	"github.com/quantbay/stockcast/internal/macro"
	"github.com/quantbay/stockcast/internal/market"
	"github.com/quantbay/stockcast/internal/monitoring"
	"github.com/quantbay/stockcast/internal/pipeline"
	"github.com/quantbay/stockcast/internal/resolver"
	"github.com/quantbay/stockcast/pkg/reporting"
	"github.com/quantbay/stockcast/pkg/types"
)

func main() {
	var (
		ticker      = flag.String("ticker", "", "Ticker symbol to collect (4 uppercase letters)")
		companyName = flag.String("company", "", "Free-text company name, resolved to a ticker")
		outputDir   = flag.String("output-dir", "", "Dataset directory (default from environment)")
		envFile     = flag.String("env", ".env", "Environment file to load")
		timeout     = flag.Duration("timeout", 2*time.Minute, "Overall collection timeout")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := loadEnvFile(*envFile); err != nil {
		log.Warn().Str("file", *envFile).Msg("no env file loaded")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *outputDir != "" {
		cfg.DataDir = *outputDir
	}
	if cfg.MetricsPort > 0 {
		monitoring.StartMetricsServer(cfg.MetricsPort, log)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	symbolText := *ticker
	if symbolText == "" && *companyName != "" {
		symbolText, err = resolver.New(cfg.OpenAIAPIKey).Resolve(ctx, *companyName)
		if err != nil {
			log.Fatal().Err(err).Msg("ticker resolution failed")
		}
		if symbolText == "" {
			log.Fatal().Str("company", *companyName).Msg("no ticker symbol available")
		}
		log.Info().Str("company", *companyName).Str("ticker", symbolText).Msg("ticker resolved")
	}
	if symbolText == "" {
		fmt.Fprintln(os.Stderr, "one of -ticker or -company is required")
		flag.Usage()
		os.Exit(2)
	}

	symbol, err := types.ParseTicker(symbolText)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ticker symbol")
	}

	store, err := dataset.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset store unavailable")
	}
	collector := pipeline.NewCollector(
		market.NewYahooFetcher(),
		macro.NewFREDClient(cfg.FREDAPIKey),
		store,
		cfg.MacroSeries,
		log,
	)

	frame, err := collector.Collect(ctx, symbol)
	if err != nil {
		log.Fatal().Err(err).Str("ticker", string(symbol)).Msg("collection failed")
	}

	reporting.NewConsoleReporter(os.Stdout).DatasetSummary(string(symbol), frame)
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}
