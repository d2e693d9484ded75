// Package storage provides the storage manager facade over the BadgerHold backends.
package storage

import (
	"fmt"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/storage/badger"
)

// Manager coordinates the storage backends.
type Manager struct {
	store     *badger.Store
	positions interfaces.PositionStore
	ledger    interfaces.LedgerStore
	logger    *common.Logger
}

// NewManager opens the user storage area and wires up the stores.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.User.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user storage: %w", err)
	}

	return &Manager{
		store:     store,
		positions: badger.NewPositionStorage(store, logger),
		ledger:    badger.NewLedgerStorage(store, logger),
		logger:    logger,
	}, nil
}

// PositionStore returns the position/watchlist row store.
func (m *Manager) PositionStore() interfaces.PositionStore {
	return m.positions
}

// LedgerStore returns the history ledger store.
func (m *Manager) LedgerStore() interfaces.LedgerStore {
	return m.ledger
}

// Close releases the underlying database.
func (m *Manager) Close() error {
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
