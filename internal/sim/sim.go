package sim

import (
	"context"
	"time"

	"llm-paper-trader/internal/interfaces"
	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/portfolio"
	"llm-paper-trader/internal/store"
	"llm-paper-trader/internal/trace"
	"llm-paper-trader/internal/tradelog"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

// DayValue is the end-of-day portfolio valuation for one simulated day.
type DayValue struct {
	Date  time.Time
	Value decimal.Decimal
}

// Result summarizes a completed simulation run.
type Result struct {
	DailyValues []DayValue
	FinalValue  decimal.Decimal
}

// Engine drives the day-by-day simulation: resolve prices, fetch news,
// obtain a recommendation, apply the limit-price trade policy against
// the portfolio, and report the end-of-day value. Fully sequential.
type Engine struct {
	cfg    *store.Config
	prices interfaces.PriceSource
	news   interfaces.NewsFetcher
	rec    interfaces.Recommender
	pf     *portfolio.Portfolio
}

func New(cfg *store.Config, prices interfaces.PriceSource, news interfaces.NewsFetcher, rec interfaces.Recommender, pf *portfolio.Portfolio) *Engine {
	return &Engine{cfg: cfg, prices: prices, news: news, rec: rec, pf: pf}
}

// Run executes the configured number of simulated days ending at the
// configured anchor. Every iteration advances the date by the interval,
// whether or not any price resolved for it.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	end, err := e.cfg.EndDate()
	if err != nil {
		return nil, err
	}

	days := e.cfg.Simulation.Days
	interval := e.cfg.Simulation.IntervalDays
	start := end.AddDate(0, 0, -(days-1)*interval)
	pause := time.Duration(e.cfg.Simulation.PauseMs) * time.Millisecond

	logger.Info(ctx, "Starting simulation",
		"symbols", e.cfg.Symbols,
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"days", days,
		"interval_days", interval,
	)

	result := &Result{}
	date := start
	for i := 0; i < days; i++ {
		if dv, ok := e.runDay(ctx, date); ok {
			result.DailyValues = append(result.DailyValues, dv)
		}
		date = date.AddDate(0, 0, interval)

		// Courtesy pause so the collaborators' rate limits survive
		// long runs. No correctness meaning.
		if pause > 0 && i < days-1 {
			time.Sleep(pause)
		}
	}

	result.FinalValue = e.pf.Value(e.prices.Snapshot(end))
	logger.Info(ctx, "Trading simulation complete",
		"final_value", result.FinalValue.String(),
		"transactions", len(e.pf.Transactions()),
	)
	return result, nil
}

// runDay processes a single simulated trading day. It returns the
// end-of-day valuation, or ok=false when no symbol had a resolvable
// price and the whole day was skipped.
func (e *Engine) runDay(ctx context.Context, date time.Time) (DayValue, bool) {
	ctx, span := trace.StartSpan(ctx, "sim.day")
	defer span.End()

	dateStr := date.Format("2006-01-02")
	prices := e.prices.Snapshot(date)
	if len(prices) == 0 {
		logger.Info(ctx, "No trading data for any symbol - skipping day", "date", dateStr)
		return DayValue{}, false
	}

	logger.Info(ctx, "=== Trading day ===", "date", dateStr, "resolved_symbols", len(prices))
	for _, symbol := range e.cfg.Symbols {
		price, ok := prices[symbol]
		if !ok {
			logger.Info(ctx, "Skipping symbol - no price data", "date", dateStr, "symbol", symbol)
			continue
		}
		e.step(ctx, date, symbol, price)
	}

	value := e.pf.Value(prices)
	logger.Valuation(ctx, dateStr, value.String(), "cash", e.pf.Cash().String())
	_ = tradelog.AppendValuation(tradelog.ValuationEntry{Date: dateStr, Value: value.String()})

	return DayValue{Date: date, Value: value}, true
}

// step runs the per-symbol state machine: news, recommendation, then
// the limit policy. The declared action is authoritative; the opposite
// branch is never evaluated even when its condition would hold.
func (e *Engine) step(ctx context.Context, date time.Time, symbol string, price decimal.Decimal) {
	ctx, span := trace.StartSpan(ctx, "sim.step")
	defer span.End()

	dateStr := date.Format("2006-01-02")
	newsItems := e.news.FetchNews(ctx, symbol, date)
	outcome := e.rec.Analyze(ctx, symbol, newsItems, price, date)
	rec := outcome.Recommendation

	traded := false
	switch rec.Action {
	case types.ActionBuy:
		if price.LessThanOrEqual(rec.BuyLimit) {
			shares := e.pf.MaxAffordable(price)
			if shares > 0 {
				if err := e.pf.Buy(ctx, symbol, price, shares, date); err == nil {
					traded = true
					_ = tradelog.Append(tradelog.Entry{Date: dateStr, Symbol: symbol, Side: string(types.ActionBuy), Shares: shares, Price: price.String()})
				}
			} else {
				logger.Info(ctx, "Buy condition met but cash covers no whole share",
					"date", dateStr, "symbol", symbol, "price", price.String(), "cash", e.pf.Cash().String())
			}
		}
	case types.ActionSell:
		if price.GreaterThanOrEqual(rec.SellLimit) {
			shares := e.pf.Holding(symbol)
			if shares > 0 {
				if err := e.pf.Sell(ctx, symbol, price, shares, date); err == nil {
					traded = true
					_ = tradelog.Append(tradelog.Entry{Date: dateStr, Symbol: symbol, Side: string(types.ActionSell), Shares: shares, Price: price.String()})
				}
			}
		}
	}

	if !traded {
		logger.Info(ctx, "No trade executed",
			"date", dateStr, "symbol", symbol, "action", string(rec.Action), "degraded", outcome.Degraded)
	}

	logger.Decision(ctx, dateStr, symbol, string(rec.Action), outcome.Degraded,
		"buy_limit", rec.BuyLimit.String(),
		"sell_limit", rec.SellLimit.String(),
		"price", price.String(),
		"traded", traded,
	)
	_ = tradelog.AppendDecision(tradelog.DecisionEntry{
		Date:      dateStr,
		Symbol:    symbol,
		Action:    string(rec.Action),
		Degraded:  outcome.Degraded,
		Reason:    outcome.FallbackReason,
		Price:     price.String(),
		BuyLimit:  rec.BuyLimit.String(),
		SellLimit: rec.SellLimit.String(),
		Traded:    traded,
	})
}
