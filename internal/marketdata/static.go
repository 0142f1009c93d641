package marketdata

import (
	"context"
	"fmt"
	"time"

	"llm-paper-trader/internal/store"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

// StaticProvider serves candles from config fixtures. Used for offline
// runs and tests, mirroring the LIVE/STATIC data source switch the live
// providers hang off.
type StaticProvider struct {
	bars map[string][]store.StaticBar
}

var _ Provider = (*StaticProvider)(nil)

func NewStaticProvider(bars map[string][]store.StaticBar) *StaticProvider {
	return &StaticProvider{bars: bars}
}

func (s *StaticProvider) DailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error) {
	fixtures, ok := s.bars[symbol]
	if !ok {
		return nil, nil
	}

	var candles []types.Candle
	for _, bar := range fixtures {
		d, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			return nil, fmt.Errorf("static bar for %s: invalid date %q: %w", symbol, bar.Date, err)
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		close := decimal.NewFromFloat(bar.Close)
		candles = append(candles, types.Candle{
			Date:  d,
			Open:  close,
			High:  close,
			Low:   close,
			Close: close,
		})
	}
	return candles, nil
}
