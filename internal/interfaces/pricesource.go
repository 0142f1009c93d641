package interfaces

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource answers price queries against already-loaded history.
// Lookups are as-of: the latest known close at or before the date.
type PriceSource interface {
	// PriceAsOf returns the most recent close at or before date, or
	// false when the symbol has no data at or before that date.
	PriceAsOf(symbol string, date time.Time) (decimal.Decimal, bool)

	// Snapshot resolves every symbol that has a price as of date.
	// Symbols with no resolvable price are simply absent from the map.
	Snapshot(date time.Time) map[string]decimal.Decimal
}
