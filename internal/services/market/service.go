// Package market provides quote collection and normalization services
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

// Compile-time interface check
var _ interfaces.MarketService = (*Service)(nil)

// minDayCloses is the observation floor below which a ticker is excluded
// entirely rather than reported with fabricated changes.
const minDayCloses = 2

// monthCloses is the observation count needed for a month change
// (~21 trading days back plus the current close).
const monthCloses = 22

// Service implements MarketService: it fetches raw close series from the
// quote client and normalizes them into QuoteSamples.
type Service struct {
	client       interfaces.QuoteClient
	aliases      *models.AliasMap
	lookbackDays int
	logger       *common.Logger
}

// NewService creates a new market service. The alias map translates
// display symbols to the provider convention before lookup and back after.
func NewService(client interfaces.QuoteClient, aliases *models.AliasMap, lookbackDays int, logger *common.Logger) *Service {
	if lookbackDays <= 0 {
		lookbackDays = 90
	}
	return &Service{
		client:       client,
		aliases:      aliases,
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

// FetchQuotes retrieves and normalizes quotes for the given display
// tickers. A ticker with fewer than two valid closes, or one the source
// has no data for, is omitted — callers must treat an omitted ticker as
// unavailable, never zero. A source failure aborts the whole batch.
func (s *Service) FetchQuotes(ctx context.Context, tickers []string) ([]models.QuoteSample, error) {
	samples := make([]models.QuoteSample, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))

	for _, display := range tickers {
		display = models.NormalizeTicker(display)
		if display == "" || seen[display] {
			continue
		}
		seen[display] = true

		provider := s.aliases.Provider(display)

		series, err := s.client.GetDailyCloses(ctx, provider, s.lookbackDays)
		if err != nil {
			if errors.Is(err, interfaces.ErrNoQuoteData) {
				s.logger.Warn().Str("ticker", display).Err(err).Msg("No quote data — ticker excluded")
				continue
			}
			return nil, fmt.Errorf("quote source failed for %s: %w", display, err)
		}

		sample, ok := Normalize(display, series.Closes)
		if !ok {
			s.logger.Warn().Str("ticker", display).Int("closes", len(series.Closes)).
				Msg("Insufficient history — ticker excluded")
			continue
		}

		samples = append(samples, sample)
	}

	s.logger.Info().Int("requested", len(seen)).Int("normalized", len(samples)).Msg("Quotes normalized")

	if len(samples) == 0 {
		return nil, fmt.Errorf("no tickers had sufficient quote history")
	}

	return samples, nil
}

// Normalize derives a QuoteSample from a chronological close series.
// Returns ok=false when fewer than two valid closes exist. Short history
// reports a flat 0.0 month change rather than excluding the ticker.
func Normalize(displayTicker string, closes []models.DailyClose) (models.QuoteSample, bool) {
	valid := closes[:0:0]
	for _, c := range closes {
		if c.Close > 0 {
			valid = append(valid, c)
		}
	}

	if len(valid) < minDayCloses {
		return models.QuoteSample{}, false
	}

	current := valid[len(valid)-1].Close
	prev := valid[len(valid)-2].Close
	dayPct := (current - prev) / prev * 100

	monthPct := 0.0
	if len(valid) >= monthCloses {
		monthStart := valid[len(valid)-monthCloses].Close
		monthPct = (current - monthStart) / monthStart * 100
	}

	return models.QuoteSample{
		Ticker:         displayTicker,
		Price:          current,
		DayChangePct:   dayPct,
		MonthChangePct: monthPct,
	}, true
}
