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

type positionStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPositionStorage creates a new PositionStore backed by BadgerHold.
func NewPositionStorage(store *Store, logger *common.Logger) *positionStorage {
	return &positionStorage{store: store, logger: logger}
}

func (s *positionStorage) GetSet(_ context.Context, name string) (*models.PositionSet, error) {
	var set models.PositionSet
	err := s.store.db.Get(name, &set)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("position set '%s' not found", name)
		}
		return nil, fmt.Errorf("failed to get position set '%s': %w", name, err)
	}
	return &set, nil
}

func (s *positionStorage) SaveSet(_ context.Context, set *models.PositionSet) error {
	if set.Name == "" {
		return fmt.Errorf("position set name is required")
	}
	set.UpdatedAt = time.Now()

	if err := s.store.db.Upsert(set.Name, set); err != nil {
		return fmt.Errorf("failed to save position set '%s': %w", set.Name, err)
	}
	s.logger.Debug().Str("name", set.Name).Int("rows", len(set.Rows)).Msg("Position set saved")
	return nil
}

func (s *positionStorage) DeleteSet(_ context.Context, name string) error {
	err := s.store.db.Delete(name, models.PositionSet{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete position set '%s': %w", name, err)
	}
	s.logger.Debug().Str("name", name).Msg("Position set deleted")
	return nil
}

// Ensure positionStorage implements PositionStore
var _ interfaces.PositionStore = (*positionStorage)(nil)
