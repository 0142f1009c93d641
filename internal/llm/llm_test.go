package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"llm-paper-trader/internal/llm/noop"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

type scriptedProvider struct {
	rec types.Recommendation
	err error
}

func (s *scriptedProvider) Analyze(ctx context.Context, symbol string, news []types.NewsItem, price decimal.Decimal, date time.Time) (types.Recommendation, error) {
	return s.rec, s.err
}

var (
	llmDay   = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	llmPrice = decimal.NewFromInt(100)
)

func analyze(t *testing.T, p Provider) types.Outcome {
	t.Helper()
	return NewServiceWith(p).Analyze(context.Background(), "AAPL", nil, llmPrice, llmDay)
}

func TestProviderErrorDegradesToFallback(t *testing.T) {
	out := analyze(t, &scriptedProvider{err: errors.New("api down")})

	if !out.Degraded {
		t.Fatal("Expected degraded outcome")
	}
	if out.FallbackReason != "api down" {
		t.Errorf("Expected fallback reason to carry the error, got %q", out.FallbackReason)
	}
	rec := out.Recommendation
	if rec.Action != types.ActionHold {
		t.Errorf("Expected HOLD fallback, got %s", rec.Action)
	}
	if !rec.BuyLimit.Equal(decimal.NewFromInt(95)) || !rec.SellLimit.Equal(decimal.NewFromInt(105)) {
		t.Errorf("Expected ±5%% limits, got buy=%s sell=%s", rec.BuyLimit, rec.SellLimit)
	}
}

func TestInvalidActionDegradesToFallback(t *testing.T) {
	out := analyze(t, &scriptedProvider{rec: types.Recommendation{
		Symbol:    "AAPL",
		BuyLimit:  decimal.NewFromInt(90),
		SellLimit: decimal.NewFromInt(110),
		Action:    "SHORT",
	}})

	if !out.Degraded {
		t.Fatal("Expected degraded outcome for invalid action")
	}
	if out.Recommendation.Action != types.ActionHold {
		t.Errorf("Expected HOLD fallback, got %s", out.Recommendation.Action)
	}
}

func TestNonPositiveLimitDegradesToFallback(t *testing.T) {
	out := analyze(t, &scriptedProvider{rec: types.Recommendation{
		Symbol:    "AAPL",
		BuyLimit:  decimal.NewFromInt(-5),
		SellLimit: decimal.NewFromInt(110),
		Action:    types.ActionBuy,
	}})

	if !out.Degraded {
		t.Fatal("Expected degraded outcome for non-positive limit")
	}
}

func TestValidRecommendationPassesThrough(t *testing.T) {
	out := analyze(t, &scriptedProvider{rec: types.Recommendation{
		Symbol:    "AAPL",
		BuyLimit:  decimal.NewFromInt(95),
		SellLimit: decimal.NewFromInt(120),
		Action:    "buy", // case-insensitive on the wire
	}})

	if out.Degraded {
		t.Fatalf("Expected ok outcome, got fallback: %s", out.FallbackReason)
	}
	if out.Recommendation.Action != types.ActionBuy {
		t.Errorf("Expected normalized BUY, got %s", out.Recommendation.Action)
	}
}

func TestMissingSymbolIsBackfilled(t *testing.T) {
	out := analyze(t, &scriptedProvider{rec: types.Recommendation{
		BuyLimit:  decimal.NewFromInt(95),
		SellLimit: decimal.NewFromInt(120),
		Action:    types.ActionHold,
	}})

	if out.Degraded {
		t.Fatalf("Expected ok outcome, got fallback: %s", out.FallbackReason)
	}
	if out.Recommendation.Symbol != "AAPL" {
		t.Errorf("Expected backfilled symbol, got %q", out.Recommendation.Symbol)
	}
}

func TestNoopProviderHoldsWithFivePercentLimits(t *testing.T) {
	out := analyze(t, noop.NewRecommender())

	if out.Degraded {
		t.Fatal("Noop answers are valid, not degraded")
	}
	rec := out.Recommendation
	if rec.Action != types.ActionHold {
		t.Errorf("Expected HOLD, got %s", rec.Action)
	}
	if !rec.BuyLimit.Equal(decimal.NewFromInt(95)) || !rec.SellLimit.Equal(decimal.NewFromInt(105)) {
		t.Errorf("Expected ±5%% limits, got buy=%s sell=%s", rec.BuyLimit, rec.SellLimit)
	}
}
