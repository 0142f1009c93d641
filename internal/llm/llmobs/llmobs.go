package llmobs

import (
	"context"
	"time"

	"llm-paper-trader/internal/interfaces"
	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/trace"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

// observableRecommender wraps a Recommender with observability
// (logging & tracing)
type observableRecommender struct {
	recommender interfaces.Recommender
}

// Compile-time interface check
var _ interfaces.Recommender = (*observableRecommender)(nil)

// Wrap wraps a recommender with observability middleware
func Wrap(recommender interfaces.Recommender) interfaces.Recommender {
	return &observableRecommender{recommender: recommender}
}

func (or *observableRecommender) Analyze(ctx context.Context, symbol string, news []types.NewsItem, price decimal.Decimal, date time.Time) types.Outcome {
	ctx, span := trace.StartSpan(ctx, "llm.Analyze")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting trade recommendation",
		"symbol", symbol,
		"price", price.String(),
		"news_items", len(news),
	)

	outcome := or.recommender.Analyze(ctx, symbol, news, price, date)

	if outcome.Degraded {
		logger.WarnSkip(ctx, 1, "Recommendation degraded to fallback",
			"symbol", symbol,
			"reason", outcome.FallbackReason,
		)
	} else {
		logger.InfoSkip(ctx, 1, "Recommendation received",
			"symbol", symbol,
			"action", string(outcome.Recommendation.Action),
			"buy_limit", outcome.Recommendation.BuyLimit.String(),
			"sell_limit", outcome.Recommendation.SellLimit.String(),
		)
	}
	return outcome
}
