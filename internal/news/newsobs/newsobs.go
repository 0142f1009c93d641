package newsobs

import (
	"context"
	"time"

	"llm-paper-trader/internal/interfaces"
	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/trace"
	"llm-paper-trader/internal/types"
)

// observableFetcher wraps a NewsFetcher with observability (logging & tracing)
type observableFetcher struct {
	fetcher interfaces.NewsFetcher
}

// Compile-time interface check
var _ interfaces.NewsFetcher = (*observableFetcher)(nil)

// Wrap wraps a news fetcher with observability middleware
func Wrap(fetcher interfaces.NewsFetcher) interfaces.NewsFetcher {
	return &observableFetcher{fetcher: fetcher}
}

func (of *observableFetcher) FetchNews(ctx context.Context, symbol string, date time.Time) []types.NewsItem {
	ctx, span := trace.StartSpan(ctx, "news.FetchNews")
	defer span.End()

	start := time.Now()
	items := of.fetcher.FetchNews(ctx, symbol, date)

	logger.DebugSkip(ctx, 1, "News resolved",
		"symbol", symbol,
		"date", date.Format("2006-01-02"),
		"items", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return items
}
