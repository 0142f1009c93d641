package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"llm-paper-trader/internal/interfaces"
	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

// Provider fetches daily candles for one symbol over a date range.
type Provider interface {
	DailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error)
}

type pricePoint struct {
	date  time.Time
	close decimal.Decimal
}

// Series is a time-ordered sequence of (date, close) pairs for one symbol.
type Series struct {
	points []pricePoint
}

// NewSeries builds a series from candles, normalized to day granularity
// and sorted ascending by date.
func NewSeries(candles []types.Candle) Series {
	points := make([]pricePoint, 0, len(candles))
	for _, c := range candles {
		points = append(points, pricePoint{date: Day(c.Date), close: c.Close})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].date.Before(points[j].date) })
	return Series{points: points}
}

// Len returns the number of recorded trading days.
func (s Series) Len() int { return len(s.points) }

// AsOf returns the close of the most recent trading day at or before
// date. Dates before the first recorded price are unavailable; dates
// after the last recorded price return the last known close, so
// staleness is unbounded. That mirrors the lookup the strategy was
// built against and is a policy choice, not a bug.
func (s Series) AsOf(date time.Time) (decimal.Decimal, bool) {
	d := Day(date)
	i := sort.Search(len(s.points), func(i int) bool { return s.points[i].date.After(d) })
	if i == 0 {
		return decimal.Decimal{}, false
	}
	return s.points[i-1].close, true
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Store loads and holds price history for the configured symbols and
// answers as-of lookups against it. It implements interfaces.PriceSource.
type Store struct {
	provider Provider
	symbols  []string
	from, to time.Time
	series   map[string]Series
}

var _ interfaces.PriceSource = (*Store)(nil)

func NewStore(provider Provider, symbols []string, from, to time.Time) *Store {
	return &Store{
		provider: provider,
		symbols:  symbols,
		from:     Day(from),
		to:       Day(to),
		series:   map[string]Series{},
	}
}

// Load fetches history for every symbol. A symbol with no history at
// all makes the whole load fail: the simulation cannot proceed
// meaningfully without it.
func (st *Store) Load(ctx context.Context) error {
	for _, symbol := range st.symbols {
		logger.Info(ctx, "Downloading price history",
			"symbol", symbol,
			"from", st.from.Format("2006-01-02"),
			"to", st.to.Format("2006-01-02"),
		)
		candles, err := st.provider.DailyHistory(ctx, symbol, st.from, st.to)
		if err != nil {
			return fmt.Errorf("price history for %s: %w", symbol, err)
		}
		series := NewSeries(candles)
		if series.Len() == 0 {
			return fmt.Errorf("no price history for %s between %s and %s",
				symbol, st.from.Format("2006-01-02"), st.to.Format("2006-01-02"))
		}
		st.series[symbol] = series
		logger.Debug(ctx, "Price history loaded", "symbol", symbol, "days", series.Len())
	}
	return nil
}

// PriceAsOf implements interfaces.PriceSource.
func (st *Store) PriceAsOf(symbol string, date time.Time) (decimal.Decimal, bool) {
	series, ok := st.series[symbol]
	if !ok {
		return decimal.Decimal{}, false
	}
	return series.AsOf(date)
}

// Snapshot implements interfaces.PriceSource.
func (st *Store) Snapshot(date time.Time) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(st.symbols))
	for _, symbol := range st.symbols {
		if price, ok := st.PriceAsOf(symbol, date); ok {
			prices[symbol] = price
		}
	}
	return prices
}
