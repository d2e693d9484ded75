// Package report assembles the daily portfolio pulse report
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
	"github.com/bobmcallan/pulse/internal/services/portfolio"
)

// Compile-time interface check
var _ interfaces.ReportService = (*Service)(nil)

// narrativePlaceholder is shown when the narrative service is missing or
// failing; the run continues either way.
const narrativePlaceholder = "<i>AI analysis unavailable</i>"

// positionSetName and watchlistSetName are the stored row-set documents.
const (
	positionSetName  = "positions"
	watchlistSetName = "watchlist"
)

// Service implements ReportService: the full daily pipeline from raw rows
// to rendered report.
type Service struct {
	storage   interfaces.StorageManager
	market    interfaces.MarketService
	portfolio interfaces.PortfolioService
	narrative interfaces.NarrativeClient
	window    int
	location  *time.Location
	logger    *common.Logger
}

// NewService creates a new report service. narrative may be nil, in which
// case the placeholder text is used.
func NewService(
	storage interfaces.StorageManager,
	market interfaces.MarketService,
	portfolioSvc interfaces.PortfolioService,
	narrative interfaces.NarrativeClient,
	window int,
	location *time.Location,
	logger *common.Logger,
) *Service {
	if window <= 0 {
		window = 30
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		storage:   storage,
		market:    market,
		portfolio: portfolioSvc,
		narrative: narrative,
		window:    window,
		location:  location,
		logger:    logger,
	}
}

// GenerateReport runs the pipeline: load rows, fetch quotes, merge,
// aggregate, upsert the ledger, generate narrative, render the chart and
// the HTML body. Quote-source failure aborts before any ledger write.
func (s *Service) GenerateReport(ctx context.Context) (*models.PulseReport, error) {
	runID := uuid.NewString()
	s.logger.Info().Str("run_id", runID).Msg("Generating pulse report")

	positionSet, err := s.storage.PositionStore().GetSet(ctx, positionSetName)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	if len(positionSet.Rows) == 0 {
		return nil, fmt.Errorf("position set is empty — import positions first")
	}

	// A missing watchlist is fine; the report just has no watchlist panel.
	var watchRows []models.PositionRow
	if watchSet, err := s.storage.PositionStore().GetSet(ctx, watchlistSetName); err == nil {
		watchRows = watchSet.Rows
	} else {
		s.logger.Warn().Err(err).Msg("No watchlist found (continuing)")
	}

	tickers := collectTickers(positionSet.Rows, watchRows)

	quotes, err := s.market.FetchQuotes(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}

	merged := s.portfolio.MergePositions(positionSet.Rows, quotes)
	if len(merged) == 0 {
		return nil, fmt.Errorf("no positions had quotes — aborting before ledger write")
	}
	watchMerged := s.portfolio.MergePositions(watchRows, quotes)

	totals := s.portfolio.Aggregate(merged)

	date := time.Now().In(s.location).Format("2006-01-02")
	if err := s.portfolio.RecordSnapshot(ctx, date, totals); err != nil {
		return nil, fmt.Errorf("record snapshot: %w", err)
	}

	report := &models.PulseReport{
		RunID:       runID,
		GeneratedAt: time.Now().In(s.location),
		Date:        date,
		Totals:      totals,
		Positions:   merged,
		Watchlist:   watchMerged,
		Subject:     fmt.Sprintf("\U0001F4CA Market Pulse: %s", formatMoney(totals.TotalValue)),
	}

	report.Narrative = s.generateNarrative(ctx, report)

	chartPNG, err := s.portfolio.TrendChart(ctx, s.window)
	if err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	report.ChartPNG = chartPNG

	watchLeft, watchRight := portfolio.SplitWatchlist(watchMerged)
	report.HTML = formatHTML(report, watchLeft, watchRight)

	s.logger.Info().
		Str("run_id", runID).
		Str("date", date).
		Int("positions", len(merged)).
		Int("watchlist", len(watchMerged)).
		Float64("total_value", totals.TotalValue).
		Bool("chart", chartPNG != nil).
		Msg("Pulse report generated")

	return report, nil
}

// generateNarrative asks the narrative client for commentary, degrading
// to the placeholder on any failure.
func (s *Service) generateNarrative(ctx context.Context, report *models.PulseReport) string {
	if s.narrative == nil {
		return narrativePlaceholder
	}

	text, err := s.narrative.GenerateInsights(ctx, report)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Narrative generation failed — using placeholder")
		return narrativePlaceholder
	}
	if text == "" {
		return narrativePlaceholder
	}
	return text
}

// collectTickers returns the deduplicated union of position and watchlist
// tickers in first-seen order.
func collectTickers(positions, watchlist []models.PositionRow) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, row := range append(append([]models.PositionRow{}, positions...), watchlist...) {
		t := models.NormalizeTicker(row.Ticker)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}
	return tickers
}
