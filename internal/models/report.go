package models

import "time"

// PulseReport is the assembled output of one pipeline run.
type PulseReport struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Date        string           `json:"date"` // ledger date key for this run
	Totals      *PortfolioTotals `json:"totals"`
	Positions   []MergedPosition `json:"positions"` // sorted by day change desc
	Watchlist   []MergedPosition `json:"watchlist"` // sorted by day change desc
	Narrative   string           `json:"narrative"` // AI summary HTML, or placeholder
	Subject     string           `json:"subject"`   // email subject line
	HTML        string           `json:"-"`         // rendered email body
	ChartPNG    []byte           `json:"-"`         // nil when fewer than 2 ledger rows
}
