package models

import (
	"strings"
	"time"
)

// PositionRow is a raw position or watchlist row as read from the
// spreadsheet export. Shares and CostBasis stay unparsed strings here —
// the merger owns all numeric coercion, so a blank or junk field becomes
// 0 there rather than an error at the boundary.
type PositionRow struct {
	Ticker    string `json:"ticker"`
	Shares    string `json:"shares,omitempty"`
	CostBasis string `json:"cost_basis,omitempty"`
}

// NormalizeTicker uppercases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// PositionSet is the stored set of position rows, kept as one document
// keyed by name ("positions" or "watchlist").
type PositionSet struct {
	Name      string        `json:"name"`
	Rows      []PositionRow `json:"rows"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// FindByTicker returns the row and its index, or (zero, -1).
func (s *PositionSet) FindByTicker(ticker string) (PositionRow, int) {
	ticker = NormalizeTicker(ticker)
	for i, r := range s.Rows {
		if NormalizeTicker(r.Ticker) == ticker {
			return r, i
		}
	}
	return PositionRow{}, -1
}

// MergedPosition is a position row joined with its normalized quote,
// with derived per-row metrics attached. Recomputed every run, never
// persisted.
type MergedPosition struct {
	Ticker         string  `json:"ticker"`
	Shares         float64 `json:"shares"`
	CostBasis      float64 `json:"cost_basis"` // effective: 0 replaced by price
	Price          float64 `json:"price"`
	DayChangePct   float64 `json:"day_change_pct"`
	MonthChangePct float64 `json:"month_change_pct"`
	Value          float64 `json:"value"`            // shares * price
	TotalGainLoss  float64 `json:"total_gain_loss"`  // value - shares*cost_basis
	PrevValue      float64 `json:"prev_value"`       // value / (1 + day%/100)
	PrevMonthValue float64 `json:"prev_month_value"` // value / (1 + month%/100)
}

// PortfolioTotals are the aggregated portfolio-level metrics for one run.
type PortfolioTotals struct {
	TotalValue     float64 `json:"total_value"`
	TotalCost      float64 `json:"total_cost"`
	TotalGainLoss  float64 `json:"total_gain_loss"` // sum of per-row figures
	TotalGainPct   float64 `json:"total_gain_pct"`
	DayGainDollar  float64 `json:"day_gain_dollar"`
	DayChangePct   float64 `json:"day_change_pct"`   // weighted via reconstructed prev value
	MonthChangePct float64 `json:"month_change_pct"` // weighted via reconstructed month value
}

// HistoryRow is one persisted ledger row: a single calendar date's
// aggregate snapshot. Date is the formatted "2006-01-02" key in the
// ledger's configured timezone.
type HistoryRow struct {
	Date          string  `json:"date"`
	TotalValue    float64 `json:"total_value"`
	TotalGainLoss float64 `json:"total_gain_loss"`
}

// HistoryLedger is the stored ledger document. Row order is whatever the
// store accumulated — consumers must sort by date before windowing.
type HistoryLedger struct {
	Name      string       `json:"name"`
	Rows      []HistoryRow `json:"rows"`
	UpdatedAt time.Time    `json:"updated_at"`
}
