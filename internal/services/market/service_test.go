package market

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

func approxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// fakeQuoteClient serves canned close series keyed by provider symbol.
// Unknown symbols report ErrNoQuoteData the way the yahoo client does.
type fakeQuoteClient struct {
	series map[string][]models.DailyClose
	calls  []string
	err    error
}

func (f *fakeQuoteClient) GetDailyCloses(_ context.Context, ticker string, _ int) (*models.CloseSeries, error) {
	f.calls = append(f.calls, ticker)
	if f.err != nil {
		return nil, f.err
	}
	closes, ok := f.series[ticker]
	if !ok {
		return nil, fmt.Errorf("no data for %s, symbol may be delisted: %w", ticker, interfaces.ErrNoQuoteData)
	}
	return &models.CloseSeries{Ticker: ticker, Closes: closes}, nil
}

func closesOf(values ...float64) []models.DailyClose {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	closes := make([]models.DailyClose, len(values))
	for i, v := range values {
		closes[i] = models.DailyClose{Date: start.AddDate(0, 0, i), Close: v}
	}
	return closes
}

func newTestService(client *fakeQuoteClient, aliases map[string]string) *Service {
	return NewService(client, models.NewAliasMap(aliases), 90, common.NewSilentLogger())
}

func TestNormalize_DayChangeFromLastTwoCloses(t *testing.T) {
	sample, ok := Normalize("AAPL", closesOf(100, 102, 110))
	if !ok {
		t.Fatal("expected sample, got excluded")
	}

	if sample.Price != 110 {
		t.Errorf("Price = %.2f, want 110", sample.Price)
	}
	// (110 - 102) / 102 * 100
	if !approxEqual(sample.DayChangePct, 7.8431, 0.001) {
		t.Errorf("DayChangePct = %.4f, want 7.8431", sample.DayChangePct)
	}
	// Only 3 closes: month change defaults flat.
	if sample.MonthChangePct != 0.0 {
		t.Errorf("MonthChangePct = %.4f, want 0.0", sample.MonthChangePct)
	}
}

func TestNormalize_FewerThanTwoClosesExcluded(t *testing.T) {
	if _, ok := Normalize("IPO", closesOf(42)); ok {
		t.Error("single close should be excluded")
	}
	if _, ok := Normalize("EMPTY", nil); ok {
		t.Error("empty series should be excluded")
	}
}

func TestNormalize_NonPositiveClosesDropped(t *testing.T) {
	// Only the two positive closes count.
	sample, ok := Normalize("X", closesOf(0, 100, -5, 105))
	if !ok {
		t.Fatal("expected sample, got excluded")
	}
	if !approxEqual(sample.DayChangePct, 5.0, 0.001) {
		t.Errorf("DayChangePct = %.4f, want 5.0", sample.DayChangePct)
	}

	// One positive close left after filtering: excluded.
	if _, ok := Normalize("Y", closesOf(0, 0, 50)); ok {
		t.Error("series with one positive close should be excluded")
	}
}

func TestNormalize_MonthChangeNeedsTwentyTwoCloses(t *testing.T) {
	base := make([]float64, 0, 22)
	for i := 0; i < 21; i++ {
		base = append(base, 100)
	}
	base = append(base, 110)

	// 22 closes: month change measured from the 22nd-from-last close.
	sample, ok := Normalize("FULL", closesOf(base...))
	if !ok {
		t.Fatal("expected sample")
	}
	if !approxEqual(sample.MonthChangePct, 10.0, 0.001) {
		t.Errorf("MonthChangePct = %.4f, want 10.0", sample.MonthChangePct)
	}

	// 21 closes: flat zero, not excluded.
	sample, ok = Normalize("SHORT", closesOf(base[1:]...))
	if !ok {
		t.Fatal("expected sample")
	}
	if sample.MonthChangePct != 0.0 {
		t.Errorf("MonthChangePct = %.4f, want exactly 0.0", sample.MonthChangePct)
	}
}

func TestFetchQuotes_AliasRoundTrip(t *testing.T) {
	client := &fakeQuoteClient{series: map[string][]models.DailyClose{
		"^VIX": closesOf(15, 16),
	}}
	svc := newTestService(client, map[string]string{".VIX": "^VIX"})

	samples, err := svc.FetchQuotes(context.Background(), []string{".VIX"})
	if err != nil {
		t.Fatalf("FetchQuotes failed: %v", err)
	}

	if len(client.calls) != 1 || client.calls[0] != "^VIX" {
		t.Errorf("provider lookups = %v, want [^VIX]", client.calls)
	}
	if len(samples) != 1 || samples[0].Ticker != ".VIX" {
		t.Errorf("samples = %+v, want display ticker .VIX", samples)
	}
}

func TestFetchQuotes_InsufficientHistoryOmitsTicker(t *testing.T) {
	client := &fakeQuoteClient{series: map[string][]models.DailyClose{
		"AAPL": closesOf(100, 101),
		"IPO":  closesOf(42),
	}}
	svc := newTestService(client, nil)

	samples, err := svc.FetchQuotes(context.Background(), []string{"AAPL", "IPO"})
	if err != nil {
		t.Fatalf("FetchQuotes failed: %v", err)
	}

	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	for _, s := range samples {
		if s.Ticker == "IPO" {
			t.Error("ticker with one close must be omitted, not zero-filled")
		}
	}
}

func TestFetchQuotes_SourceErrorAbortsBatch(t *testing.T) {
	client := &fakeQuoteClient{err: fmt.Errorf("rate limited")}
	svc := newTestService(client, nil)

	if _, err := svc.FetchQuotes(context.Background(), []string{"AAPL", "GOOG"}); err == nil {
		t.Fatal("expected error when the source fails")
	}
}

func TestFetchQuotes_DelistedTickerExcludedNotFatal(t *testing.T) {
	// One good ticker alongside one the source has no data for: the run
	// keeps the good quote instead of aborting.
	client := &fakeQuoteClient{series: map[string][]models.DailyClose{
		"AAPL": closesOf(100, 102),
	}}
	svc := newTestService(client, nil)

	samples, err := svc.FetchQuotes(context.Background(), []string{"AAPL", "DEAD"})
	if err != nil {
		t.Fatalf("FetchQuotes failed: %v", err)
	}

	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	if samples[0].Ticker != "AAPL" {
		t.Errorf("samples[0] = %s, want AAPL", samples[0].Ticker)
	}
	if len(client.calls) != 2 {
		t.Errorf("provider lookups = %d, want 2", len(client.calls))
	}
}

func TestFetchQuotes_DeduplicatesTickers(t *testing.T) {
	client := &fakeQuoteClient{series: map[string][]models.DailyClose{
		"AAPL": closesOf(100, 101),
	}}
	svc := newTestService(client, nil)

	samples, err := svc.FetchQuotes(context.Background(), []string{"AAPL", "aapl", " AAPL "})
	if err != nil {
		t.Fatalf("FetchQuotes failed: %v", err)
	}

	if len(client.calls) != 1 {
		t.Errorf("provider lookups = %d, want 1", len(client.calls))
	}
	if len(samples) != 1 {
		t.Errorf("samples = %d, want 1", len(samples))
	}
}

func TestFetchQuotes_AllExcludedReturnsError(t *testing.T) {
	client := &fakeQuoteClient{series: map[string][]models.DailyClose{
		"IPO": closesOf(42),
	}}
	svc := newTestService(client, nil)

	if _, err := svc.FetchQuotes(context.Background(), []string{"IPO"}); err == nil {
		t.Fatal("expected error when no ticker has sufficient history")
	}
}
