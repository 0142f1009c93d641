package marketdata

import (
	"context"
	"fmt"
	"time"

	"llm-paper-trader/internal/types"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// YahooProvider pulls daily bars from Yahoo Finance. No credentials.
type YahooProvider struct{}

var _ Provider = (*YahooProvider)(nil)

func NewYahooProvider() *YahooProvider { return &YahooProvider{} }

func (y *YahooProvider) DailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	var candles []types.Candle
	for iter.Next() {
		bar := iter.Bar()
		candles = append(candles, types.Candle{
			Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart for %s: %w", symbol, err)
	}
	return candles, nil
}
