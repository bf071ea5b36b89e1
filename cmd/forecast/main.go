package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/quantbay/stockcast/internal/config"
	"github.com/quantbay/stockcast/internal/dataset"
	"github.com/quantbay/stockcast/internal/forecast"
	"github.com/quantbay/stockcast/internal/resolver"
	"github.com/quantbay/stockcast/internal/weights"
	"github.com/quantbay/stockcast/pkg/reporting"
)

func main() {
	var (
		company    = flag.String("company", "", "Dataset key to forecast")
		resolve    = flag.String("resolve", "", "Free-text company name, resolved to a dataset key")
		dataDir    = flag.String("data-dir", "", "Dataset directory (default from environment)")
		weightsDir = flag.String("weights-dir", "", "Weight store directory (default from environment)")
		algorithms = flag.String("algorithms", "ets,prophet,sarimax,varmax", "Comma-separated algorithm list")
		horizon    = flag.Int("horizon", 90, "Forecast horizon in days")
		xlsxPath   = flag.String("xlsx", "", "Optional path for an Excel report")
		listOnly   = flag.Bool("list", false, "List available datasets and exit")
		envFile    = flag.String("env", ".env", "Environment file to load")
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
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *weightsDir != "" {
		cfg.WeightsDir = *weightsDir
	}

	store, err := dataset.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset store unavailable")
	}

	if *listOnly {
		keys, err := store.List()
		if err != nil {
			log.Fatal().Err(err).Msg("listing datasets failed")
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return
	}

	if *company == "" && *resolve != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		symbol, err := resolver.New(cfg.OpenAIAPIKey).Resolve(ctx, *resolve)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("ticker resolution failed")
		}
		if symbol == "" {
			log.Fatal().Str("company", *resolve).Msg("no ticker symbol available")
		}
		log.Info().Str("company", *resolve).Str("ticker", symbol).Msg("ticker resolved")
		*company = symbol
	}
	if *company == "" {
		fmt.Fprintln(os.Stderr, "one of -company or -resolve is required")
		flag.Usage()
		os.Exit(2)
	}
	if *horizon < 1 {
		log.Fatal().Int("horizon", *horizon).Msg("horizon must be at least one day")
	}

	algs, err := parseAlgorithms(*algorithms)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid algorithm list")
	}

	frame, err := store.Load(*company)
	if err != nil {
		log.Fatal().Err(err).Str("company", *company).Msg("dataset not loadable")
	}

	zoo := forecast.NewZoo(weights.NewStore(cfg.WeightsDir), log)
	var sets []reporting.ForecastSet
	for _, alg := range algs {
		model, err := zoo.Resolve(*company, alg, frame)
		if err != nil {
			log.Fatal().Err(err).Str("algorithm", string(alg)).Msg("model resolution failed")
		}
		points, err := model.Predict(*horizon)
		if err != nil {
			log.Fatal().Err(err).Str("algorithm", string(alg)).Msg("prediction failed")
		}
		sets = append(sets, reporting.ForecastSet{Algorithm: alg, Points: points})
	}

	console := reporting.NewConsoleReporter(os.Stdout)
	console.DatasetSummary(*company, frame)
	console.ForecastTable(*company, sets)

	if *xlsxPath != "" {
		if err := reporting.NewExcelReporter().WriteReport(*xlsxPath, *company, frame, sets); err != nil {
			log.Fatal().Err(err).Str("path", *xlsxPath).Msg("excel report failed")
		}
		log.Info().Str("path", *xlsxPath).Msg("excel report written")
	}
}

func parseAlgorithms(list string) ([]forecast.Algorithm, error) {
	var algs []forecast.Algorithm
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		alg, err := forecast.ParseAlgorithm(strings.ToLower(raw))
		if err != nil {
			return nil, err
		}
		algs = append(algs, alg)
	}
	if len(algs) == 0 {
		return nil, fmt.Errorf("no algorithms selected")
	}
	return algs, nil
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}
