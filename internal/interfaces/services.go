package interfaces

import (
	"context"

	"github.com/bobmcallan/pulse/internal/models"
)

// MarketService normalizes raw close-price history into quote samples.
type MarketService interface {
	// FetchQuotes returns one QuoteSample per ticker that had at least two
	// valid closes. Tickers are display symbols; aliasing to and from the
	// provider convention happens inside. A symbol the source has no data
	// for is excluded; a source failure returns an error — callers must
	// treat that as fatal, not partial.
	FetchQuotes(ctx context.Context, tickers []string) ([]models.QuoteSample, error)
}

// PortfolioService merges rows with quotes, aggregates totals, and
// maintains the history ledger.
type PortfolioService interface {
	// MergePositions inner-joins rows with quotes, coerces numeric fields,
	// and derives per-row metrics, sorted by day change descending.
	MergePositions(rows []models.PositionRow, quotes []models.QuoteSample) []models.MergedPosition

	// Aggregate computes portfolio totals and reconstructed baselines.
	Aggregate(positions []models.MergedPosition) *models.PortfolioTotals

	// RecordSnapshot upserts the date-keyed ledger row for date.
	RecordSnapshot(ctx context.Context, date string, totals *models.PortfolioTotals) error

	// TrendChart renders the windowed ledger trend as PNG. Returns
	// (nil, nil) when fewer than 2 rows exist.
	TrendChart(ctx context.Context, window int) ([]byte, error)
}

// ReportService runs the full daily pipeline.
type ReportService interface {
	GenerateReport(ctx context.Context) (*models.PulseReport, error)
}
