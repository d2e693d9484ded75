package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/pulse/internal/models"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234,567", formatMoney(1234567.4))
	assert.Equal(t, "$0", formatMoney(0))
	assert.Equal(t, "$999", formatMoney(999))
	assert.Equal(t, "$1,000", formatMoney(1000))
}

func TestFormatSignedMoney(t *testing.T) {
	assert.Equal(t, "+1,500", formatSignedMoney(1500))
	assert.Equal(t, "-2,300", formatSignedMoney(-2300))
	assert.Equal(t, "+0", formatSignedMoney(0))
}

func TestFormatSignedPct(t *testing.T) {
	assert.Equal(t, "+1.25%", formatSignedPct(1.25))
	assert.Equal(t, "-0.50%", formatSignedPct(-0.5))
	assert.Equal(t, "+0.00%", formatSignedPct(0))
}

func TestSignColor(t *testing.T) {
	assert.Equal(t, colorUp, signColor(0.01))
	assert.Equal(t, colorUp, signColor(0))
	assert.Equal(t, colorDown, signColor(-0.01))
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "1,234", groupThousands("1234"))
	assert.Equal(t, "12", groupThousands("12"))
	assert.Equal(t, "-12,345", groupThousands("-12345"))
	assert.Equal(t, "1,234.56", groupThousands("1234.56"))
	assert.Equal(t, "900.00", groupThousands("900.00"))
}

func testReport(chart []byte) *models.PulseReport {
	return &models.PulseReport{
		Date: "2026-08-31",
		Totals: &models.PortfolioTotals{
			TotalValue:     125000,
			TotalCost:      100000,
			TotalGainLoss:  25000,
			TotalGainPct:   25.0,
			DayGainDollar:  1500,
			DayChangePct:   1.21,
			MonthChangePct: 3.4,
		},
		Positions: []models.MergedPosition{
			{Ticker: "NVDA", Price: 900, DayChangePct: 3.1, MonthChangePct: 12.0, Value: 9000, TotalGainLoss: 4000},
			{Ticker: "AAPL", Price: 200, DayChangePct: -0.8, MonthChangePct: 2.0, Value: 2000, TotalGainLoss: -150},
		},
		Narrative: "<p>Markets were mixed.</p>",
		ChartPNG:  chart,
	}
}

func TestFormatHTML_ContainsSections(t *testing.T) {
	report := testReport([]byte{0x89})
	html := formatHTML(report, nil, nil)

	assert.Contains(t, html, "Market Pulse: $125,000")
	assert.Contains(t, html, "CIO Executive Summary")
	assert.Contains(t, html, "<p>Markets were mixed.</p>")
	assert.Contains(t, html, "Holdings")
	assert.Contains(t, html, "Watchlist")
	assert.Contains(t, html, "NVDA")
	assert.Contains(t, html, "TOTAL")
	assert.Contains(t, html, "cid:chart")
}

func TestFormatHTML_NoChartOmitsImage(t *testing.T) {
	report := testReport(nil)
	html := formatHTML(report, nil, nil)

	assert.NotContains(t, html, "cid:chart")
	assert.NotContains(t, html, "Value Trend")
}

func TestFormatHTML_TotalRowUsesRowSum(t *testing.T) {
	report := testReport(nil)
	html := formatHTML(report, nil, nil)

	// Header and TOTAL footer both show the aggregated gain figure.
	assert.Contains(t, html, "+25,000")
}

func TestHoldingsTable_SignColors(t *testing.T) {
	report := testReport(nil)
	table := holdingsTable(report.Positions, report.Totals)

	assert.Contains(t, table, colorUp)
	assert.Contains(t, table, colorDown)
	assert.Contains(t, table, "+3.10%")
	assert.Contains(t, table, "-0.80%")
}

func TestWatchlistTable_PadsShortSide(t *testing.T) {
	left := []models.MergedPosition{
		{Ticker: "SPY", Price: 500, DayChangePct: 0.5},
		{Ticker: ".VIX", Price: 15, DayChangePct: -2.0},
	}
	right := []models.MergedPosition{
		{Ticker: "QQQ", Price: 430, DayChangePct: 0.8},
	}

	table := watchlistTable(left, right)

	assert.Contains(t, table, "SPY")
	assert.Contains(t, table, ".VIX")
	assert.Contains(t, table, "QQQ")
	// Second row's right side is padded, not truncated.
	assert.Equal(t, 2, strings.Count(table, "<tr><td style='text-align:left"))
	assert.Contains(t, table, "&nbsp;")
}
