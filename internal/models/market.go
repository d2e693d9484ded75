// Package models defines data structures for Pulse
package models

import "time"

// DailyClose is a single daily closing price observation.
type DailyClose struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// CloseSeries is the chronological daily close history for one ticker,
// as returned by the quote source. Rows with a missing close have already
// been dropped by the client.
type CloseSeries struct {
	Ticker string       `json:"ticker"` // provider symbol
	Closes []DailyClose `json:"closes"` // ascending by date
}

// QuoteSample is the normalized point-in-time quote for one ticker.
// A ticker absent from the normalized set had insufficient history and
// must be excluded downstream, not zero-filled.
type QuoteSample struct {
	Ticker         string  `json:"ticker"` // display symbol (alias reversed)
	Price          float64 `json:"price"`
	DayChangePct   float64 `json:"day_change_pct"`
	MonthChangePct float64 `json:"month_change_pct"`
}

// AliasMap is a bidirectional ticker symbol substitution between display
// symbols and data-provider symbols (e.g. ".VIX" <-> "^VIX").
type AliasMap struct {
	toProvider map[string]string
	toDisplay  map[string]string
}

// NewAliasMap builds an AliasMap from a display->provider mapping.
func NewAliasMap(displayToProvider map[string]string) *AliasMap {
	m := &AliasMap{
		toProvider: make(map[string]string, len(displayToProvider)),
		toDisplay:  make(map[string]string, len(displayToProvider)),
	}
	for display, provider := range displayToProvider {
		m.toProvider[display] = provider
		m.toDisplay[provider] = display
	}
	return m
}

// Provider maps a display symbol to its provider symbol. Unmapped symbols
// pass through unchanged.
func (m *AliasMap) Provider(display string) string {
	if m == nil {
		return display
	}
	if p, ok := m.toProvider[display]; ok {
		return p
	}
	return display
}

// Display maps a provider symbol back to its display symbol.
func (m *AliasMap) Display(provider string) string {
	if m == nil {
		return provider
	}
	if d, ok := m.toDisplay[provider]; ok {
		return d
	}
	return provider
}
