package interfaces

import (
	"context"
	"time"

	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

// Recommender turns news and a current price into a trade recommendation.
// Implementations never fail outward: any provider error degrades to a
// conservative HOLD with ±5% limits, flagged on the Outcome.
type Recommender interface {
	Analyze(ctx context.Context, symbol string, news []types.NewsItem, price decimal.Decimal, date time.Time) types.Outcome
}
