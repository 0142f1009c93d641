package main

import (
	"context"
	"fmt"
	"os"

	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/portfolio"
	"llm-paper-trader/internal/report"
	"llm-paper-trader/internal/sim"
	"llm-paper-trader/internal/trace"

	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := initializeSystem(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	compressOldLogs(ctx)

	prices, err := initializeMarketData(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load market data", err)
		return err
	}

	fetcher := initializeNews(ctx, cfg)

	recommender, err := initializeRecommender(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize recommender", err)
		return err
	}

	pf := portfolio.New(decimal.NewFromFloat(cfg.InitialCash))
	engine := sim.New(cfg, prices, fetcher, recommender, pf)

	result, err := engine.Run(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Simulation failed", err)
		return err
	}

	end, err := cfg.EndDate()
	if err != nil {
		return err
	}
	paths, err := report.Write(cfg.Report.Dir, end, pf.Transactions(), result)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to write report", err)
		return err
	}
	logger.Info(ctx, "Report written", "trades", paths.Trades, "stats", paths.Stats)

	return nil
}
