package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stocksage/internal/backtest"
	"stocksage/internal/interfaces"
	"stocksage/internal/logger"
	"stocksage/internal/news"
	"stocksage/internal/pipeline"
	"stocksage/internal/pipeline/pipelineobs"
	"stocksage/internal/prices"
	"stocksage/internal/runlog"
	"stocksage/internal/store"
	"stocksage/internal/types"
)

// initializeSystem loads .env and sets up logging, which also owns tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	compressOldRuns(context.Background())
	return nil
}

// compressOldRuns gzips old run journals when STOCKSAGE_LOG_RETENTION_DAYS is set.
func compressOldRuns(ctx context.Context) {
	v := os.Getenv("STOCKSAGE_LOG_RETENTION_DAYS")
	if v == "" {
		return
	}
	days, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn(ctx, "Ignoring invalid STOCKSAGE_LOG_RETENTION_DAYS", "value", v)
		return
	}
	n, err := runlog.CompressOlder(runlog.Dir(), days, time.Now())
	if err != nil {
		logger.Warn(ctx, "Failed to compress old run journals", "error", err)
		return
	}
	if n > 0 {
		logger.Info(ctx, "Compressed old run journals", "files", n)
	}
}

func shutdownSystem() {
	_ = logger.Shutdown(context.Background())
}

// loadConfig reads the config file and applies flag overrides. A missing default config
// file falls back to built-in defaults.
func loadConfig(ctx context.Context, cmd *cobra.Command) (*store.Config, error) {
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || cmd.Flags().Changed("config") {
			logger.ErrorWithErr(ctx, "Failed to load config", err, "path", configPath)
			return nil, err
		}
		logger.Debug(ctx, "No config file, using defaults", "path", configPath)
		cfg = store.Default()
	}

	if provider != "" {
		cfg.Prices.Provider = strings.ToUpper(provider)
	}
	if horizon != "" {
		h, err := backtest.ParseHorizon(horizon)
		if err != nil {
			return nil, err
		}
		cfg.Backtest.Horizon = h.String()
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Backtest.Threshold = threshold
	}
	if exportDir != "" {
		cfg.Export.Dir = exportDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// initializePriceProvider builds the configured provider behind a TTL cache.
func initializePriceProvider(ctx context.Context, cfg *store.Config) (interfaces.PriceProvider, error) {
	var p interfaces.PriceProvider
	switch cfg.Prices.Provider {
	case "YAHOO":
		p = prices.NewYahooProvider(cfg.Prices.YahooBaseURL, cfg.Prices.Timeout)
		logger.Info(ctx, "Using Yahoo Finance daily closes")
	case "KITE":
		apiKey, token := os.Getenv("KITE_API_KEY"), os.Getenv("KITE_ACCESS_TOKEN")
		if apiKey == "" || token == "" {
			return nil, errors.New("KITE provider needs KITE_API_KEY and KITE_ACCESS_TOKEN")
		}
		p = prices.NewKiteProvider(apiKey, token, cfg.Prices.Exchange)
		logger.Info(ctx, "Using Zerodha Kite historical candles", "exchange", cfg.Prices.Exchange)
	case "CSV":
		p = prices.NewCSVProvider(cfg.Prices.CSVPath)
		logger.Info(ctx, "Using price CSV", "path", cfg.Prices.CSVPath)
	default:
		p = prices.NewStaticProvider(cfg.Prices.Seed)
		logger.Warn(ctx, "Using STATIC synthetic prices")
	}
	return prices.NewCachingProvider(p, cfg.Prices.CacheTTL), nil
}

// initializePipeline wires provider, fetcher and pipeline, with observability.
func initializePipeline(ctx context.Context, cfg *store.Config) (interfaces.Pipeline, error) {
	p, err := initializePriceProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fetcher := prices.NewFetcher(p,
		prices.WithRateLimit(cfg.Prices.RatePerSecond),
		prices.WithConcurrency(cfg.Prices.Concurrency),
	)
	pl, err := pipeline.New(cfg, fetcher, nil)
	if err != nil {
		return nil, err
	}
	return pipelineobs.Wrap(pl), nil
}

// loadHeadlines reads the headline file named on the command line, or the bundled sample.
func loadHeadlines(ctx context.Context, args []string) ([]types.HeadlineEvent, error) {
	path := sampleHeadlines
	switch {
	case len(args) > 0:
		path = args[0]
	case !useSample:
		return nil, errors.New("no headline file given: pass a CSV path or --sample")
	}
	events, err := news.LoadHeadlinesFile(path)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Headlines loaded", "path", path, "headlines", len(events))
	return events, nil
}
