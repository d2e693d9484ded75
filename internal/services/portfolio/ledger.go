package portfolio

import (
	"context"
	"fmt"

	"github.com/bobmcallan/pulse/internal/models"
)

// RecordSnapshot upserts the ledger row for the given date key. When a
// row for the date already exists it is overwritten in place; otherwise
// a new row is appended. Re-running on the same calendar day therefore
// never duplicates a date. Date matching is string-exact, so the caller
// must format the date in the ledger's configured timezone every run.
func (s *Service) RecordSnapshot(ctx context.Context, date string, totals *models.PortfolioTotals) error {
	if date == "" {
		return fmt.Errorf("snapshot date is required")
	}

	rows, err := s.storage.LedgerStore().Rows(ctx)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	row := models.HistoryRow{
		Date:          date,
		TotalValue:    totals.TotalValue,
		TotalGainLoss: totals.TotalGainLoss,
	}

	for i, existing := range rows {
		if existing.Date == date {
			if err := s.storage.LedgerStore().UpdateRow(ctx, i, row); err != nil {
				return fmt.Errorf("failed to update ledger row for %s: %w", date, err)
			}
			s.logger.Info().Str("date", date).Float64("total_value", row.TotalValue).Msg("Ledger row updated")
			return nil
		}
	}

	if err := s.storage.LedgerStore().AppendRow(ctx, row); err != nil {
		return fmt.Errorf("failed to append ledger row for %s: %w", date, err)
	}
	s.logger.Info().Str("date", date).Float64("total_value", row.TotalValue).Msg("Ledger row appended")
	return nil
}
