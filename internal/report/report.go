package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"llm-paper-trader/internal/sim"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

type aggRow struct {
	Symbol    string
	BuyQty    int64
	BuyValue  decimal.Decimal
	SellQty   int64
	SellValue decimal.Decimal
}

// Stats summarizes the run's equity curve.
type Stats struct {
	InitialValue     float64
	FinalValue       float64
	CumulativeReturn float64
	MeanDailyReturn  float64
	StdDailyReturn   float64
	MaxDrawdown      float64
}

// Paths names the files a completed report was written to.
type Paths struct {
	Trades string
	Stats  string
}

// ComputeStats derives return statistics from the per-day valuations.
// Returns are simple day-over-day changes; drawdown is measured from
// the running peak. Fewer than two valued days yields zeroes.
func ComputeStats(values []sim.DayValue) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	curve := make([]float64, len(values))
	for i, dv := range values {
		curve[i] = dv.Value.InexactFloat64()
	}

	s := Stats{InitialValue: curve[0], FinalValue: curve[len(curve)-1]}
	if curve[0] != 0 {
		s.CumulativeReturn = (s.FinalValue - s.InitialValue) / s.InitialValue
	}
	if len(curve) < 2 {
		return s
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		if curve[i-1] != 0 {
			returns = append(returns, (curve[i]-curve[i-1])/curve[i-1])
		}
	}
	if len(returns) > 0 {
		s.MeanDailyReturn = stat.Mean(returns, nil)
	}
	if len(returns) > 1 {
		s.StdDailyReturn = stat.StdDev(returns, nil)
	}

	peak := curve[0]
	for _, v := range curve[1:] {
		if v > peak {
			peak = v
		} else if peak != 0 {
			dd := (peak - v) / peak
			s.MaxDrawdown = math.Max(s.MaxDrawdown, dd)
		}
	}
	return s
}

// Write renders the run report: a per-symbol trade summary CSV and a
// run statistics CSV, both under dir and named by the run's end date.
func Write(dir string, end time.Time, txns []types.Transaction, result *sim.Result) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("failed to create report dir: %w", err)
	}
	d := end.Format("2006-01-02")
	p := Paths{
		Trades: filepath.Join(dir, d+"-trades.csv"),
		Stats:  filepath.Join(dir, d+"-stats.csv"),
	}
	if err := writeTrades(p.Trades, txns); err != nil {
		return Paths{}, err
	}
	if err := writeStats(p.Stats, ComputeStats(result.DailyValues)); err != nil {
		return Paths{}, err
	}
	return p, nil
}

func writeTrades(path string, txns []types.Transaction) error {
	aggs := map[string]*aggRow{}
	for _, tx := range txns {
		row := aggs[tx.Symbol]
		if row == nil {
			row = &aggRow{Symbol: tx.Symbol}
			aggs[tx.Symbol] = row
		}
		value := tx.Price.Mul(decimal.NewFromInt(tx.Shares))
		switch tx.Action {
		case types.ActionBuy:
			row.BuyQty += tx.Shares
			row.BuyValue = row.BuyValue.Add(value)
		case types.ActionSell:
			row.SellQty += tx.Shares
			row.SellValue = row.SellValue.Add(value)
		}
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trade report: %w", err)
	}
	defer out.Close()
	w := csv.NewWriter(out)
	defer w.Flush()

	headers := []string{"symbol", "buy_qty", "buy_avg", "sell_qty", "sell_avg", "realized_pnl", "gross_buy_value", "gross_sell_value"}
	if err := w.Write(headers); err != nil {
		return err
	}

	totalBuy, totalSell, totalPnL := decimal.Zero, decimal.Zero, decimal.Zero
	for _, k := range keys {
		r := aggs[k]
		buyAvg, sellAvg := decimal.Zero, decimal.Zero
		if r.BuyQty > 0 {
			buyAvg = r.BuyValue.Div(decimal.NewFromInt(r.BuyQty))
		}
		if r.SellQty > 0 {
			sellAvg = r.SellValue.Div(decimal.NewFromInt(r.SellQty))
		}
		matched := r.BuyQty
		if r.SellQty < matched {
			matched = r.SellQty
		}
		pnl := sellAvg.Sub(buyAvg).Mul(decimal.NewFromInt(matched))

		rec := []string{
			r.Symbol,
			strconv.FormatInt(r.BuyQty, 10),
			buyAvg.StringFixed(4),
			strconv.FormatInt(r.SellQty, 10),
			sellAvg.StringFixed(4),
			pnl.StringFixed(2),
			r.BuyValue.StringFixed(2),
			r.SellValue.StringFixed(2),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
		totalBuy = totalBuy.Add(r.BuyValue)
		totalSell = totalSell.Add(r.SellValue)
		totalPnL = totalPnL.Add(pnl)
	}
	return w.Write([]string{"TOTAL", "", "", "", "", totalPnL.StringFixed(2), totalBuy.StringFixed(2), totalSell.StringFixed(2)})
}

func writeStats(path string, s Stats) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create stats report: %w", err)
	}
	defer out.Close()
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"metric", "value"}); err != nil {
		return err
	}
	rows := [][]string{
		{"initial_value", fmt.Sprintf("%.2f", s.InitialValue)},
		{"final_value", fmt.Sprintf("%.2f", s.FinalValue)},
		{"cumulative_return", fmt.Sprintf("%.6f", s.CumulativeReturn)},
		{"mean_daily_return", fmt.Sprintf("%.6f", s.MeanDailyReturn)},
		{"stddev_daily_return", fmt.Sprintf("%.6f", s.StdDailyReturn)},
		{"max_drawdown", fmt.Sprintf("%.6f", s.MaxDrawdown)},
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
