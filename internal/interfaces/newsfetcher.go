package interfaces

import (
	"context"
	"time"

	"llm-paper-trader/internal/types"
)

// NewsFetcher returns up to a handful of news items for a symbol on a
// simulated date, most recent first. Implementations never fail outward:
// any internal error degrades to a synthetic placeholder item.
type NewsFetcher interface {
	FetchNews(ctx context.Context, symbol string, date time.Time) []types.NewsItem
}
