package mdobs

import (
	"context"
	"time"

	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/marketdata"
	"llm-paper-trader/internal/trace"
	"llm-paper-trader/internal/types"
)

// observableProvider wraps a history provider with observability
// (logging & tracing)
type observableProvider struct {
	provider marketdata.Provider
}

// Compile-time interface check
var _ marketdata.Provider = (*observableProvider)(nil)

// Wrap wraps a provider with observability middleware
func Wrap(provider marketdata.Provider) marketdata.Provider {
	return &observableProvider{provider: provider}
}

func (op *observableProvider) DailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.DailyHistory")
	defer span.End()

	start := time.Now()
	candles, err := op.provider.DailyHistory(ctx, symbol, from, to)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch price history", err,
			"symbol", symbol,
			"from", from.Format("2006-01-02"),
			"to", to.Format("2006-01-02"),
		)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Price history fetched",
		"symbol", symbol,
		"candles", len(candles),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return candles, nil
}
