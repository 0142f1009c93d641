package portfolio

import (
	"context"
	"errors"
	"time"

	"llm-paper-trader/internal/logger"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientCash is returned by Buy when cash cannot cover the cost.
	ErrInsufficientCash = errors.New("insufficient cash")
	// ErrInsufficientShares is returned by Sell when the holding is too small.
	ErrInsufficientShares = errors.New("insufficient shares")
)

// Portfolio owns the cash balance, per-symbol share holdings, and an
// append-only transaction log. Invariants: cash never goes negative,
// holdings never go negative, and every transaction is applied together
// with its cash/holdings delta or not at all.
//
// Not safe for concurrent use; the simulation is single-threaded.
type Portfolio struct {
	cash         decimal.Decimal
	holdings     map[string]int64
	transactions []types.Transaction
}

// New creates a portfolio with the given starting cash.
func New(initialCash decimal.Decimal) *Portfolio {
	return &Portfolio{
		cash:     initialCash,
		holdings: map[string]int64{},
	}
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() decimal.Decimal { return p.cash }

// Holding returns the share count held for symbol (0 when unknown).
func (p *Portfolio) Holding(symbol string) int64 { return p.holdings[symbol] }

// Transactions returns a copy of the transaction log in append order.
func (p *Portfolio) Transactions() []types.Transaction {
	out := make([]types.Transaction, len(p.transactions))
	copy(out, p.transactions)
	return out
}

// MaxAffordable returns the largest whole-share quantity the current
// cash can pay for at price. Zero when price is not positive.
func (p *Portfolio) MaxAffordable(price decimal.Decimal) int64 {
	if price.Sign() <= 0 {
		return 0
	}
	return p.cash.Div(price).IntPart()
}

// Buy debits cash by price*shares, credits the holding, and records a
// BUY transaction. Returns ErrInsufficientCash without mutation when
// cash cannot cover the cost. Callers must pass positive shares.
func (p *Portfolio) Buy(ctx context.Context, symbol string, price decimal.Decimal, shares int64, date time.Time) error {
	cost := price.Mul(decimal.NewFromInt(shares))
	if p.cash.LessThan(cost) {
		logger.Warn(ctx, "Insufficient cash to buy",
			"date", date.Format("2006-01-02"),
			"symbol", symbol,
			"shares", shares,
			"price", price.String(),
			"cost", cost.String(),
			"cash", p.cash.String(),
		)
		return ErrInsufficientCash
	}
	p.cash = p.cash.Sub(cost)
	p.holdings[symbol] += shares
	p.transactions = append(p.transactions, types.Transaction{
		Date:   date,
		Symbol: symbol,
		Action: types.ActionBuy,
		Price:  price,
		Shares: shares,
	})
	logger.Trade(ctx, date.Format("2006-01-02"), symbol, string(types.ActionBuy), shares, price.String(),
		"cash_after", p.cash.String())
	return nil
}

// Sell credits cash by price*shares, debits the holding, and records a
// SELL transaction. Returns ErrInsufficientShares without mutation when
// the holding is smaller than shares. No short selling.
func (p *Portfolio) Sell(ctx context.Context, symbol string, price decimal.Decimal, shares int64, date time.Time) error {
	if p.holdings[symbol] < shares {
		logger.Warn(ctx, "Insufficient shares to sell",
			"date", date.Format("2006-01-02"),
			"symbol", symbol,
			"shares", shares,
			"held", p.holdings[symbol],
		)
		return ErrInsufficientShares
	}
	p.holdings[symbol] -= shares
	p.cash = p.cash.Add(price.Mul(decimal.NewFromInt(shares)))
	p.transactions = append(p.transactions, types.Transaction{
		Date:   date,
		Symbol: symbol,
		Action: types.ActionSell,
		Price:  price,
		Shares: shares,
	})
	logger.Trade(ctx, date.Format("2006-01-02"), symbol, string(types.ActionSell), shares, price.String(),
		"cash_after", p.cash.String())
	return nil
}

// Value computes cash plus the mark-to-market value of all holdings.
// Symbols missing from currentPrices contribute 0 to this valuation
// only; holdings are not mutated.
func (p *Portfolio) Value(currentPrices map[string]decimal.Decimal) decimal.Decimal {
	total := p.cash
	for symbol, shares := range p.holdings {
		price, ok := currentPrices[symbol]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(shares)))
	}
	return total
}
