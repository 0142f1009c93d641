package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is the closed set of moves a recommendation can ask for.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Valid reports whether a is one of BUY, SELL, HOLD.
func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell || a == ActionHold
}

type Candle struct {
	Date                   time.Time
	Open, High, Low, Close decimal.Decimal
	Volume                 int64
}

type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Recommendation is the structured answer of the LLM boundary. It is
// produced fresh per symbol per simulated day and consumed immediately.
type Recommendation struct {
	Symbol    string          `json:"symbol"`
	BuyLimit  decimal.Decimal `json:"buy_limit"`
	SellLimit decimal.Decimal `json:"sell_limit"`
	Action    Action          `json:"action"`
}

// Outcome wraps a recommendation with the path that produced it, so the
// loop (and tests) can tell a real answer from the safe fallback.
type Outcome struct {
	Recommendation Recommendation `json:"recommendation"`
	Degraded       bool           `json:"degraded"`
	FallbackReason string         `json:"fallback_reason,omitempty"`
}

type Transaction struct {
	Date   time.Time       `json:"date"`
	Symbol string          `json:"symbol"`
	Action Action          `json:"action"`
	Price  decimal.Decimal `json:"price"`
	Shares int64           `json:"shares"`
}
