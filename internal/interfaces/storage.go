package interfaces

import (
	"context"

	"github.com/bobmcallan/pulse/internal/models"
)

// StorageManager coordinates all storage backends.
type StorageManager interface {
	PositionStore() PositionStore
	LedgerStore() LedgerStore

	// Lifecycle
	Close() error
}

// PositionStore manages raw position and watchlist row sets. Sets are
// named documents ("positions", "watchlist"); row fields are tolerated
// as-is and only coerced downstream.
type PositionStore interface {
	GetSet(ctx context.Context, name string) (*models.PositionSet, error)
	SaveSet(ctx context.Context, set *models.PositionSet) error
	DeleteSet(ctx context.Context, name string) error
}

// LedgerStore is the row-oriented history ledger transport. Rows come
// back in stored order — callers sort by date before windowing. The
// date-keyed upsert lives above this interface so idempotence is
// testable without the backing store.
type LedgerStore interface {
	Rows(ctx context.Context) ([]models.HistoryRow, error)
	UpdateRow(ctx context.Context, index int, row models.HistoryRow) error
	AppendRow(ctx context.Context, row models.HistoryRow) error
}
