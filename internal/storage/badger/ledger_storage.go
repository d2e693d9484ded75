package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

// ledgerKey is the document key for the single history ledger.
const ledgerKey = "history"

type ledgerStorage struct {
	store  *Store
	logger *common.Logger
}

// NewLedgerStorage creates a new LedgerStore backed by BadgerHold. The
// ledger is held as one row-list document, so the row-oriented interface
// maps onto in-place slice updates.
func NewLedgerStorage(store *Store, logger *common.Logger) *ledgerStorage {
	return &ledgerStorage{store: store, logger: logger}
}

func (s *ledgerStorage) load() (*models.HistoryLedger, error) {
	var ledger models.HistoryLedger
	err := s.store.db.Get(ledgerKey, &ledger)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return &models.HistoryLedger{Name: ledgerKey}, nil
		}
		return nil, fmt.Errorf("failed to load history ledger: %w", err)
	}
	return &ledger, nil
}

func (s *ledgerStorage) save(ledger *models.HistoryLedger) error {
	ledger.Name = ledgerKey
	ledger.UpdatedAt = time.Now()
	if err := s.store.db.Upsert(ledgerKey, ledger); err != nil {
		return fmt.Errorf("failed to save history ledger: %w", err)
	}
	return nil
}

func (s *ledgerStorage) Rows(_ context.Context) ([]models.HistoryRow, error) {
	ledger, err := s.load()
	if err != nil {
		return nil, err
	}
	rows := make([]models.HistoryRow, len(ledger.Rows))
	copy(rows, ledger.Rows)
	return rows, nil
}

func (s *ledgerStorage) UpdateRow(_ context.Context, index int, row models.HistoryRow) error {
	ledger, err := s.load()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(ledger.Rows) {
		return fmt.Errorf("ledger row index %d out of range (have %d rows)", index, len(ledger.Rows))
	}
	ledger.Rows[index] = row
	if err := s.save(ledger); err != nil {
		return err
	}
	s.logger.Debug().Str("date", row.Date).Int("index", index).Msg("Ledger row updated")
	return nil
}

func (s *ledgerStorage) AppendRow(_ context.Context, row models.HistoryRow) error {
	ledger, err := s.load()
	if err != nil {
		return err
	}
	ledger.Rows = append(ledger.Rows, row)
	if err := s.save(ledger); err != nil {
		return err
	}
	s.logger.Debug().Str("date", row.Date).Int("rows", len(ledger.Rows)).Msg("Ledger row appended")
	return nil
}

// Ensure ledgerStorage implements LedgerStore
var _ interfaces.LedgerStore = (*ledgerStorage)(nil)
