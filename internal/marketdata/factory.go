package marketdata

import (
	"errors"
	"os"

	"llm-paper-trader/internal/store"
)

// NewProvider builds the history provider selected by config. Missing
// credentials for an explicitly selected provider are configuration-
// fatal; there is no sensible price fallback.
func NewProvider(cfg *store.Config) (Provider, error) {
	switch cfg.Market.Provider {
	case "YAHOO":
		return NewYahooProvider(), nil
	case "KITE":
		apiKey := os.Getenv("KITE_API_KEY")
		accessToken := os.Getenv("KITE_ACCESS_TOKEN")
		if apiKey == "" || accessToken == "" {
			return nil, errors.New("KITE_API_KEY and KITE_ACCESS_TOKEN required for KITE market provider")
		}
		return NewKiteProvider(apiKey, accessToken, cfg.Market.InstrumentTokens), nil
	case "ALPACA":
		return NewAlpacaProvider(), nil
	case "STATIC":
		return NewStaticProvider(cfg.Market.Static), nil
	default:
		return nil, errors.New("unknown market provider: " + cfg.Market.Provider)
	}
}
