package news

import (
	"context"
	"fmt"
	"os"
	"time"

	"llm-paper-trader/internal/interfaces"
	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/store"
	"llm-paper-trader/internal/types"
)

// provider is the internal contract news backends implement. Providers
// may fail; the Service is what guarantees the never-fails-outward
// behavior the simulation loop depends on.
type provider interface {
	fetch(ctx context.Context, symbol string, date time.Time, limit int) ([]types.NewsItem, error)
}

// Service resolves news for a symbol and day. Any provider failure or
// missing credential degrades to a single synthetic placeholder item.
type Service struct {
	provider provider
	maxItems int
}

var _ interfaces.NewsFetcher = (*Service)(nil)

// NewService builds the news fetcher selected by config.
func NewService(ctx context.Context, cfg *store.Config) *Service {
	svc := &Service{maxItems: cfg.News.MaxItems}

	switch cfg.News.Provider {
	case "NEWSAPI":
		apiKey := os.Getenv("NEWS_API_KEY")
		if apiKey == "" {
			logger.Warn(ctx, "NEWS_API_KEY not set - news degrades to placeholder items")
		} else {
			svc.provider = newNewsAPIProvider(apiKey)
		}
	case "SCRAPER":
		svc.provider = newScraperProvider(20 * time.Second)
	case "NONE":
		logger.Info(ctx, "News disabled - using placeholder items")
	}
	return svc
}

// FetchNews implements interfaces.NewsFetcher.
func (s *Service) FetchNews(ctx context.Context, symbol string, date time.Time) []types.NewsItem {
	dateStr := date.Format("2006-01-02")

	if s.provider == nil {
		logger.Info(ctx, "Using placeholder news", "date", dateStr, "symbol", symbol)
		return []types.NewsItem{placeholder(symbol, dateStr)}
	}

	items, err := s.provider.fetch(ctx, symbol, date, s.maxItems)
	if err != nil {
		logger.ErrorWithErr(ctx, "News fetch failed - using placeholder", err,
			"date", dateStr, "symbol", symbol)
		return []types.NewsItem{placeholder(symbol, dateStr)}
	}
	if len(items) == 0 {
		logger.Info(ctx, "No news found - using placeholder", "date", dateStr, "symbol", symbol)
		return []types.NewsItem{placeholder(symbol, dateStr)}
	}
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}

	logger.Info(ctx, "News fetched", "date", dateStr, "symbol", symbol, "articles", len(items))
	return items
}

func placeholder(symbol, dateStr string) types.NewsItem {
	return types.NewsItem{
		Title:       fmt.Sprintf("Market update for %s on %s", symbol, dateStr),
		Description: "No news available for this date.",
	}
}
