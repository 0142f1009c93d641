package news

import (
	"context"
	"fmt"
	"time"

	"llm-paper-trader/internal/types"

	"github.com/go-resty/resty/v2"
)

// newsAPIProvider queries newsapi.org's /v2/everything endpoint with a
// from/to window pinned to the simulated date, so historical runs see
// the news of that day, not today's.
type newsAPIProvider struct {
	client *resty.Client
	apiKey string
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"articles"`
}

func newNewsAPIProvider(apiKey string) *newsAPIProvider {
	client := resty.New()
	client.SetBaseURL("https://newsapi.org/v2")
	client.SetTimeout(20 * time.Second)
	return &newsAPIProvider{client: client, apiKey: apiKey}
}

func (p *newsAPIProvider) fetch(ctx context.Context, symbol string, date time.Time, limit int) ([]types.NewsItem, error) {
	dateStr := date.Format("2006-01-02")

	var body newsAPIResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      symbol,
			"from":   dateStr,
			"to":     dateStr,
			"sortBy": "publishedAt",
			"apiKey": p.apiKey,
		}).
		SetResult(&body).
		SetError(&body).
		Get("/everything")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("newsapi http %d: %s %s", resp.StatusCode(), body.Code, body.Message)
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q: %s", body.Status, body.Message)
	}

	items := make([]types.NewsItem, 0, limit)
	for _, a := range body.Articles {
		if len(items) >= limit {
			break
		}
		if a.Title == "" {
			continue
		}
		items = append(items, types.NewsItem{Title: a.Title, Description: a.Description})
	}
	return items, nil
}
