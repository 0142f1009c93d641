package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"llm-paper-trader/internal/interfaces"
	"llm-paper-trader/internal/llm/gemini"
	"llm-paper-trader/internal/llm/noop"
	"llm-paper-trader/internal/llm/openai"
	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/store"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

var (
	fallbackBuyFactor  = decimal.NewFromFloat(0.95)
	fallbackSellFactor = decimal.NewFromFloat(1.05)
)

// Provider is the raw recommendation backend. Providers may fail or
// return malformed shapes; Service is the boundary that turns both into
// the safe fallback so the simulation loop never sees either.
type Provider interface {
	Analyze(ctx context.Context, symbol string, news []types.NewsItem, price decimal.Decimal, date time.Time) (types.Recommendation, error)
}

// Service validates provider output once at the boundary and degrades
// any failure to HOLD with ±5% limits. Implements interfaces.Recommender.
type Service struct {
	provider Provider
}

var _ interfaces.Recommender = (*Service)(nil)

// NewService builds the recommender selected by config.
func NewService(ctx context.Context, cfg *store.Config) (*Service, error) {
	var provider Provider
	switch cfg.LLM.Provider {
	case "OPENAI":
		provider = openai.NewRecommender(cfg)
	case "GEMINI":
		g, err := gemini.NewRecommender(ctx, cfg)
		if err != nil {
			return nil, err
		}
		provider = g
	default:
		logger.Warn(ctx, "No LLM provider configured - using noop recommender (always HOLD)")
		provider = noop.NewRecommender()
	}
	return &Service{provider: provider}, nil
}

// NewServiceWith wraps an explicit provider; used by tests.
func NewServiceWith(provider Provider) *Service {
	return &Service{provider: provider}
}

// Analyze implements interfaces.Recommender.
func (s *Service) Analyze(ctx context.Context, symbol string, news []types.NewsItem, price decimal.Decimal, date time.Time) types.Outcome {
	rec, err := s.provider.Analyze(ctx, symbol, news, price, date)
	if err != nil {
		logger.ErrorWithErr(ctx, "Recommendation failed - using fallback", err,
			"date", date.Format("2006-01-02"), "symbol", symbol)
		return Fallback(symbol, price, err.Error())
	}
	if reason := normalize(&rec, symbol); reason != "" {
		logger.Error(ctx, "Malformed recommendation - using fallback",
			"date", date.Format("2006-01-02"), "symbol", symbol, "reason", reason)
		return Fallback(symbol, price, reason)
	}
	return types.Outcome{Recommendation: rec}
}

// Fallback is the conservative HOLD with ±5% limits substituted when no
// valid structured answer could be produced.
func Fallback(symbol string, price decimal.Decimal, reason string) types.Outcome {
	return types.Outcome{
		Recommendation: types.Recommendation{
			Symbol:    symbol,
			BuyLimit:  price.Mul(fallbackBuyFactor),
			SellLimit: price.Mul(fallbackSellFactor),
			Action:    types.ActionHold,
		},
		Degraded:       true,
		FallbackReason: reason,
	}
}

// normalize validates a provider answer in place. It returns a non-empty
// rejection reason when the shape cannot be trusted.
func normalize(rec *types.Recommendation, symbol string) string {
	rec.Action = types.Action(strings.ToUpper(strings.TrimSpace(string(rec.Action))))
	if !rec.Action.Valid() {
		return fmt.Sprintf("invalid action %q", rec.Action)
	}
	if rec.BuyLimit.Sign() <= 0 || rec.SellLimit.Sign() <= 0 {
		return "non-positive limit price"
	}
	if rec.Symbol == "" {
		rec.Symbol = symbol
	}
	return ""
}
