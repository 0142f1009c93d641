package news

import (
	"context"
	"net/url"
	"strings"
	"time"

	"llm-paper-trader/internal/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// scraperProvider scrapes public finance sites for recent headlines.
// Scraped pages have no reliable per-day archive, so this backend is
// best effort on the date axis: it returns whatever currently ranks
// for the symbol. Useful when no NewsAPI key is available.
type scraperProvider struct {
	sources []scrapeSource
	timeout time.Duration
}

type scrapeSource struct {
	Name       string
	BaseURL    string
	SearchPath string // "{symbol}" is substituted
	Selectors  articleSelectors
}

type articleSelectors struct {
	ArticleContainer string
	Title            string
	Summary          string
}

func newScraperProvider(timeout time.Duration) *scraperProvider {
	return &scraperProvider{
		sources: defaultScrapeSources(),
		timeout: timeout,
	}
}

func defaultScrapeSources() []scrapeSource {
	return []scrapeSource{
		{
			Name:       "YahooFinance",
			BaseURL:    "https://finance.yahoo.com",
			SearchPath: "/quote/{symbol}/news",
			Selectors: articleSelectors{
				ArticleContainer: "li.js-stream-content, li.stream-item",
				Title:            "h3",
				Summary:          "p",
			},
		},
		{
			Name:       "MarketWatch",
			BaseURL:    "https://www.marketwatch.com",
			SearchPath: "/investing/stock/{symbol}",
			Selectors: articleSelectors{
				ArticleContainer: "div.element--article",
				Title:            "h3.article__headline a",
				Summary:          "p.article__summary",
			},
		},
	}
}

func (s *scraperProvider) fetch(ctx context.Context, symbol string, date time.Time, limit int) ([]types.NewsItem, error) {
	var items []types.NewsItem
	var lastErr error

	for _, source := range s.sources {
		if len(items) >= limit {
			break
		}
		got, err := s.scrapeSource(ctx, source, symbol, limit-len(items))
		if err != nil {
			lastErr = err
			continue
		}
		items = append(items, got...)
	}

	if len(items) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return items, nil
}

func (s *scraperProvider) scrapeSource(ctx context.Context, source scrapeSource, symbol string, limit int) ([]types.NewsItem, error) {
	var items []types.NewsItem

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(items) >= limit {
			return
		}
		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}
		summary, err := flattenHTML(e.ChildText(source.Selectors.Summary))
		if err != nil {
			summary = ""
		}
		items = append(items, types.NewsItem{Title: title, Description: summary})
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", strings.ToUpper(symbol))
	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	c.Wait()

	return items, nil
}

// flattenHTML strips markup out of a scraped summary fragment.
func flattenHTML(fragment string) (string, error) {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment), nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Text()), nil
}

func domainOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
