package noop

import (
	"context"
	"time"

	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

var (
	buyFactor  = decimal.NewFromFloat(0.95)
	sellFactor = decimal.NewFromFloat(1.05)
)

// Recommender is the fallback provider used when no LLM is configured.
// It always answers HOLD with ±5% limits, so a credential-free run
// still exercises the whole simulation loop.
type Recommender struct{}

func NewRecommender() *Recommender {
	return &Recommender{}
}

func (r *Recommender) Analyze(ctx context.Context, symbol string, news []types.NewsItem, price decimal.Decimal, date time.Time) (types.Recommendation, error) {
	logger.Debug(ctx, "Noop recommender called - always returns HOLD", "symbol", symbol)
	return types.Recommendation{
		Symbol:    symbol,
		BuyLimit:  price.Mul(buyFactor),
		SellLimit: price.Mul(sellFactor),
		Action:    types.ActionHold,
	}, nil
}
