package main

import (
	"context"
	"fmt"
	"os"

	"llm-paper-trader/internal/interfaces"
	"llm-paper-trader/internal/llm"
	"llm-paper-trader/internal/llm/llmobs"
	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/marketdata"
	"llm-paper-trader/internal/marketdata/mdobs"
	"llm-paper-trader/internal/news"
	"llm-paper-trader/internal/news/newsobs"
	"llm-paper-trader/internal/store"
	"llm-paper-trader/internal/trace"
	"llm-paper-trader/internal/tradelog"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger, and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old tradelog files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeMarketData builds the price store for the whole simulation
// window and loads it up front, wrapped with observability middleware.
func initializeMarketData(ctx context.Context, cfg *store.Config) (interfaces.PriceSource, error) {
	provider, err := marketdata.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	provider = mdobs.Wrap(provider)

	end, err := cfg.EndDate()
	if err != nil {
		return nil, err
	}
	days := cfg.Simulation.Days
	interval := cfg.Simulation.IntervalDays
	start := end.AddDate(0, 0, -(days-1)*interval)
	from := start.AddDate(0, 0, -cfg.Market.LookbackDays)

	logger.Info(ctx, "Loading market data",
		"provider", cfg.Market.Provider,
		"from", from.Format("2006-01-02"),
		"to", end.Format("2006-01-02"),
	)

	st := marketdata.NewStore(provider, cfg.Symbols, from, end)
	if err := st.Load(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// initializeNews initializes and returns the news fetcher with observability
func initializeNews(ctx context.Context, cfg *store.Config) interfaces.NewsFetcher {
	return newsobs.Wrap(news.NewService(ctx, cfg))
}

// initializeRecommender initializes and returns the recommender with observability
func initializeRecommender(ctx context.Context, cfg *store.Config) (interfaces.Recommender, error) {
	svc, err := llm.NewService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return llmobs.Wrap(svc), nil
}
