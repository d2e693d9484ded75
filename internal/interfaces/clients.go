// Package interfaces defines service contracts for Pulse
package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/pulse/internal/models"
)

// ErrNoQuoteData indicates the source has no data for one symbol
// (unknown or delisted). Callers may skip the symbol; any other error
// means the source itself failed.
var ErrNoQuoteData = errors.New("no quote data for symbol")

// QuoteClient provides access to a daily close-price source.
type QuoteClient interface {
	// GetDailyCloses retrieves up to lookbackDays of daily closes for a
	// provider-format ticker, ascending by date. Rows with no close price
	// are dropped before return. An unknown or delisted symbol returns an
	// error wrapping ErrNoQuoteData.
	GetDailyCloses(ctx context.Context, ticker string, lookbackDays int) (*models.CloseSeries, error)
}

// NarrativeClient generates the AI portfolio commentary.
type NarrativeClient interface {
	// GenerateInsights produces an HTML commentary block for the given
	// merged rows and totals.
	GenerateInsights(ctx context.Context, report *models.PulseReport) (string, error)
}

// MailClient delivers the rendered report.
type MailClient interface {
	// SendHTML sends an HTML email with an optional inline PNG chart
	// (referenced as cid:chart). A nil chart is simply omitted.
	SendHTML(ctx context.Context, subject, htmlBody string, chartPNG []byte) error
}
