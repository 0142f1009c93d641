package news

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"llm-paper-trader/internal/types"
)

type stubProvider struct {
	items []types.NewsItem
	err   error
}

func (s *stubProvider) fetch(ctx context.Context, symbol string, date time.Time, limit int) ([]types.NewsItem, error) {
	return s.items, s.err
}

var newsDay = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func TestFetchNewsCapsItems(t *testing.T) {
	items := make([]types.NewsItem, 8)
	for i := range items {
		items[i] = types.NewsItem{Title: "headline"}
	}
	svc := &Service{provider: &stubProvider{items: items}, maxItems: 5}

	got := svc.FetchNews(context.Background(), "AAPL", newsDay)
	if len(got) != 5 {
		t.Errorf("Expected 5 items, got %d", len(got))
	}
}

func TestFetchNewsProviderErrorDegradesToPlaceholder(t *testing.T) {
	svc := &Service{provider: &stubProvider{err: errors.New("boom")}, maxItems: 5}

	got := svc.FetchNews(context.Background(), "AAPL", newsDay)
	if len(got) != 1 {
		t.Fatalf("Expected exactly 1 placeholder item, got %d", len(got))
	}
	if !strings.Contains(got[0].Title, "AAPL") || !strings.Contains(got[0].Title, "2025-06-02") {
		t.Errorf("Placeholder should mention symbol and date, got %q", got[0].Title)
	}
}

func TestFetchNewsEmptyResultDegradesToPlaceholder(t *testing.T) {
	svc := &Service{provider: &stubProvider{}, maxItems: 5}

	got := svc.FetchNews(context.Background(), "MSFT", newsDay)
	if len(got) != 1 {
		t.Fatalf("Expected exactly 1 placeholder item, got %d", len(got))
	}
}

func TestFetchNewsNoProviderConfigured(t *testing.T) {
	svc := &Service{maxItems: 5}

	got := svc.FetchNews(context.Background(), "GOOG", newsDay)
	if len(got) != 1 {
		t.Fatalf("Expected exactly 1 placeholder item, got %d", len(got))
	}
}

func TestFlattenHTML(t *testing.T) {
	out, err := flattenHTML(`<p>Shares <b>rallied</b> today.</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Shares rallied today." {
		t.Errorf("flattenHTML = %q", out)
	}

	out, err = flattenHTML("plain text")
	if err != nil || out != "plain text" {
		t.Errorf("flattenHTML plain = %q, %v", out, err)
	}
}
