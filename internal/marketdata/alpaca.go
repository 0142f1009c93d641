package marketdata

import (
	"context"
	"fmt"
	"time"

	"llm-paper-trader/internal/types"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// AlpacaProvider pulls daily bars from the Alpaca market data API.
// Credentials come from the standard APCA_API_* environment variables,
// which the client reads on its own.
type AlpacaProvider struct {
	mdClient *marketdata.Client
}

var _ Provider = (*AlpacaProvider)(nil)

func NewAlpacaProvider() *AlpacaProvider {
	return &AlpacaProvider{mdClient: marketdata.NewClient(marketdata.ClientOpts{})}
}

func (a *AlpacaProvider) DailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error) {
	bars, err := a.mdClient.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     from,
		End:       to,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars for %s: %w", symbol, err)
	}

	candles := make([]types.Candle, 0, len(bars))
	for _, b := range bars {
		candles = append(candles, types.Candle{
			Date:   b.Timestamp.UTC(),
			Open:   decimal.NewFromFloat(b.Open),
			High:   decimal.NewFromFloat(b.High),
			Low:    decimal.NewFromFloat(b.Low),
			Close:  decimal.NewFromFloat(b.Close),
			Volume: int64(b.Volume),
		})
	}
	return candles, nil
}
