// Package portfolio implements the performance reconciliation engine:
// position merging, portfolio aggregation, the history ledger, and the
// trend chart.
package portfolio

import (
	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

// Service implements PortfolioService.
type Service struct {
	storage interfaces.StorageManager
	window  int // trend chart window in ledger rows
	logger  *common.Logger
}

// NewService creates a new portfolio service.
func NewService(storage interfaces.StorageManager, window int, logger *common.Logger) *Service {
	if window <= 0 {
		window = 30
	}
	return &Service{
		storage: storage,
		window:  window,
		logger:  logger,
	}
}
