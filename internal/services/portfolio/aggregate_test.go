package portfolio

import (
	"testing"

	"github.com/bobmcallan/pulse/internal/models"
)

func TestAggregate_TotalsReconcileWithRowSum(t *testing.T) {
	svc := newTestService()

	rows := []models.PositionRow{
		{Ticker: "AAPL", Shares: "10", CostBasis: "150"},
		{Ticker: "MSFT", Shares: "4", CostBasis: "300"},
		{Ticker: "NVDA", Shares: "2", CostBasis: "0"}, // basis falls back to price
	}
	quotes := []models.QuoteSample{
		{Ticker: "AAPL", Price: 200, DayChangePct: 1.0, MonthChangePct: 4.0},
		{Ticker: "MSFT", Price: 400, DayChangePct: -0.5, MonthChangePct: 2.0},
		{Ticker: "NVDA", Price: 900, DayChangePct: 3.0, MonthChangePct: 12.0},
	}

	merged := svc.MergePositions(rows, quotes)
	totals := svc.Aggregate(merged)

	var rowSum float64
	for _, m := range merged {
		rowSum += m.TotalGainLoss
	}
	// The header figure must equal the displayed row sum exactly, not a
	// recomputation from totals.
	if totals.TotalGainLoss != rowSum {
		t.Errorf("TotalGainLoss = %v, want row sum %v", totals.TotalGainLoss, rowSum)
	}

	// 10*200 + 4*400 + 2*900 = 5400
	if !approxEqual(totals.TotalValue, 5400, 0.01) {
		t.Errorf("TotalValue = %.2f, want 5400", totals.TotalValue)
	}
	// 10*150 + 4*300 + 2*900 = 4500
	if !approxEqual(totals.TotalCost, 4500, 0.01) {
		t.Errorf("TotalCost = %.2f, want 4500", totals.TotalCost)
	}
	if !approxEqual(totals.TotalGainPct, 20.0, 0.001) {
		t.Errorf("TotalGainPct = %.4f, want 20.0", totals.TotalGainPct)
	}
}

func TestAggregate_WeightedDayChange(t *testing.T) {
	svc := newTestService()

	// Two equal-value positions, +10% and flat: blended day change is the
	// value-weighted figure, not the average of the percentages.
	positions := []models.MergedPosition{
		{Value: 1100, PrevValue: 1000, PrevMonthValue: 1000},
		{Value: 1000, PrevValue: 1000, PrevMonthValue: 1000},
	}

	totals := svc.Aggregate(positions)

	if !approxEqual(totals.DayGainDollar, 100, 0.01) {
		t.Errorf("DayGainDollar = %.2f, want 100", totals.DayGainDollar)
	}
	// 100 / 2000 * 100 = 5%
	if !approxEqual(totals.DayChangePct, 5.0, 0.001) {
		t.Errorf("DayChangePct = %.4f, want 5.0", totals.DayChangePct)
	}
	if !approxEqual(totals.MonthChangePct, 5.0, 0.001) {
		t.Errorf("MonthChangePct = %.4f, want 5.0", totals.MonthChangePct)
	}
}

func TestAggregate_EmptyAndZeroDenominators(t *testing.T) {
	svc := newTestService()

	totals := svc.Aggregate(nil)
	if totals.TotalValue != 0 || totals.TotalGainPct != 0 || totals.DayChangePct != 0 || totals.MonthChangePct != 0 {
		t.Errorf("empty aggregate = %+v, want all zeros", totals)
	}

	// Zero prior values must not divide.
	totals = svc.Aggregate([]models.MergedPosition{{Value: 100}})
	if totals.DayChangePct != 0 || totals.MonthChangePct != 0 {
		t.Errorf("zero-baseline aggregate = %+v, want zero percentages", totals)
	}
}

func TestSplitWatchlist(t *testing.T) {
	mk := func(tickers ...string) []models.MergedPosition {
		rows := make([]models.MergedPosition, len(tickers))
		for i, tk := range tickers {
			rows[i] = models.MergedPosition{Ticker: tk}
		}
		return rows
	}

	cases := []struct {
		n         int
		wantLeft  int
		wantRight int
	}{
		{0, 0, 0},
		{1, 1, 0},
		{4, 2, 2},
		{5, 3, 2},
	}

	for _, c := range cases {
		tickers := make([]string, c.n)
		for i := range tickers {
			tickers[i] = string(rune('A' + i))
		}
		left, right := SplitWatchlist(mk(tickers...))
		if len(left) != c.wantLeft || len(right) != c.wantRight {
			t.Errorf("n=%d: split = %d|%d, want %d|%d", c.n, len(left), len(right), c.wantLeft, c.wantRight)
		}
		// Concatenation preserves order.
		for i, m := range append(left, right...) {
			if m.Ticker != tickers[i] {
				t.Errorf("n=%d: order broken at %d", c.n, i)
			}
		}
	}
}
