package marketdata

import (
	"context"
	"fmt"
	"time"

	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// KiteProvider pulls daily candles from the Zerodha Kite Connect API.
// Kite addresses instruments by numeric token, so the config must map
// each traded symbol to its token.
type KiteProvider struct {
	kc     *kiteconnect.Client
	tokens map[string]int
}

var _ Provider = (*KiteProvider)(nil)

func NewKiteProvider(apiKey, accessToken string, tokens map[string]int) *KiteProvider {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteProvider{kc: kc, tokens: tokens}
}

func (k *KiteProvider) DailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error) {
	token, ok := k.tokens[symbol]
	if !ok {
		return nil, fmt.Errorf("no instrument token configured for %s", symbol)
	}

	data, err := k.kc.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("kite historical data for %s: %w", symbol, err)
	}

	candles := make([]types.Candle, 0, len(data))
	for _, d := range data {
		candles = append(candles, types.Candle{
			Date:   d.Date.Time.UTC(),
			Open:   decimal.NewFromFloat(d.Open),
			High:   decimal.NewFromFloat(d.High),
			Low:    decimal.NewFromFloat(d.Low),
			Close:  decimal.NewFromFloat(d.Close),
			Volume: int64(d.Volume),
		})
	}
	return candles, nil
}
