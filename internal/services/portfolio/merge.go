package portfolio

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bobmcallan/pulse/internal/models"
)

// MergePositions inner-joins raw rows with normalized quotes on ticker.
// Rows whose ticker has no quote are dropped silently — the normalizer
// already reported them unavailable, and a dropped row must be absent
// from every downstream sum, not zero-valued within it.
//
// Numeric coercion happens here: unparseable or missing Shares/CostBasis
// become 0. A zero cost basis is then substituted with the current price
// so an account with unset cost basis never shows a fabricated 100% gain.
// Output is sorted by day change descending.
func (s *Service) MergePositions(rows []models.PositionRow, quotes []models.QuoteSample) []models.MergedPosition {
	byTicker := make(map[string]models.QuoteSample, len(quotes))
	for _, q := range quotes {
		byTicker[models.NormalizeTicker(q.Ticker)] = q
	}

	merged := make([]models.MergedPosition, 0, len(rows))
	for _, row := range rows {
		ticker := models.NormalizeTicker(row.Ticker)
		quote, ok := byTicker[ticker]
		if !ok {
			continue
		}

		shares := coerceFloat(row.Shares)
		costBasis := coerceFloat(row.CostBasis)
		if costBasis <= 0 {
			costBasis = quote.Price
		}

		value := shares * quote.Price

		m := models.MergedPosition{
			Ticker:         ticker,
			Shares:         shares,
			CostBasis:      costBasis,
			Price:          quote.Price,
			DayChangePct:   quote.DayChangePct,
			MonthChangePct: quote.MonthChangePct,
			Value:          value,
			TotalGainLoss:  value - shares*costBasis,
			PrevValue:      reconstructBaseline(value, quote.DayChangePct),
			PrevMonthValue: reconstructBaseline(value, quote.MonthChangePct),
		}
		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DayChangePct > merged[j].DayChangePct
	})

	return merged
}

// coerceFloat parses a raw spreadsheet field. Missing or junk values
// become 0, never an error.
func coerceFloat(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// reconstructBaseline derives a prior-period value algebraically from
// today's value and a percentage change. No per-position price history is
// retained, so this approximation stands in for a true historical ledger;
// it is exact only when no shares changed since the reference point.
func reconstructBaseline(value, changePct float64) float64 {
	denom := 1 + changePct/100
	if denom == 0 {
		return 0
	}
	return value / denom
}
