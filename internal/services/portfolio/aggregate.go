package portfolio

import (
	"github.com/bobmcallan/pulse/internal/models"
)

// Aggregate computes portfolio-level totals and the reconstructed
// prior-period baselines. TotalGainLoss is summed from the per-row
// figures rather than recomputed from totals, so the report header
// reconciles exactly with the displayed row sum.
func (s *Service) Aggregate(positions []models.MergedPosition) *models.PortfolioTotals {
	totals := &models.PortfolioTotals{}

	var totalPrevValue, totalPrevMonthValue float64
	for _, p := range positions {
		totals.TotalValue += p.Value
		totals.TotalCost += p.Shares * p.CostBasis
		totals.TotalGainLoss += p.TotalGainLoss
		totalPrevValue += p.PrevValue
		totalPrevMonthValue += p.PrevMonthValue
	}

	if totals.TotalCost > 0 {
		totals.TotalGainPct = (totals.TotalValue - totals.TotalCost) / totals.TotalCost * 100
	}

	totals.DayGainDollar = totals.TotalValue - totalPrevValue
	if totalPrevValue > 0 {
		totals.DayChangePct = totals.DayGainDollar / totalPrevValue * 100
	}

	if totalPrevMonthValue > 0 {
		totals.MonthChangePct = (totals.TotalValue - totalPrevMonthValue) / totalPrevMonthValue * 100
	}

	return totals
}

// SplitWatchlist splits sorted watchlist rows into two display halves.
// The left half takes the extra row when the count is odd; concatenating
// the halves preserves the input order.
func SplitWatchlist(rows []models.MergedPosition) (left, right []models.MergedPosition) {
	mid := (len(rows) + 1) / 2
	return rows[:mid], rows[mid:]
}
