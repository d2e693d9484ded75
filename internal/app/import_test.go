package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

type memStorage struct {
	sets map[string]*models.PositionSet
}

func (m *memStorage) PositionStore() interfaces.PositionStore { return m }
func (m *memStorage) LedgerStore() interfaces.LedgerStore     { return nil }
func (m *memStorage) Close() error                            { return nil }

func (m *memStorage) GetSet(_ context.Context, name string) (*models.PositionSet, error) {
	set, ok := m.sets[name]
	if !ok {
		return nil, fmt.Errorf("set not found: %s", name)
	}
	return set, nil
}

func (m *memStorage) SaveSet(_ context.Context, set *models.PositionSet) error {
	m.sets[set.Name] = set
	return nil
}

func (m *memStorage) DeleteSet(_ context.Context, name string) error {
	delete(m.sets, name)
	return nil
}

func newImportApp() (*App, *memStorage) {
	storage := &memStorage{sets: make(map[string]*models.PositionSet)}
	return &App{Storage: storage, Logger: common.NewSilentLogger()}, storage
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportPositions_HeaderSkippedFieldsRaw(t *testing.T) {
	app, storage := newImportApp()
	path := writeCSV(t, "Ticker,Shares,Cost Basis\naapl,10,150.50\nMSFT,\"1,200\",\n")

	if err := app.ImportPositions(path, "positions"); err != nil {
		t.Fatalf("ImportPositions failed: %v", err)
	}

	set := storage.sets["positions"]
	if set == nil || len(set.Rows) != 2 {
		t.Fatalf("set = %+v", set)
	}
	if set.Rows[0].Ticker != "AAPL" || set.Rows[0].Shares != "10" || set.Rows[0].CostBasis != "150.50" {
		t.Errorf("rows[0] = %+v", set.Rows[0])
	}
	// Raw fields survive import unparsed; coercion happens downstream.
	if set.Rows[1].Shares != "1,200" || set.Rows[1].CostBasis != "" {
		t.Errorf("rows[1] = %+v", set.Rows[1])
	}
}

func TestImportPositions_NoHeader(t *testing.T) {
	app, storage := newImportApp()
	path := writeCSV(t, "SPY\n.VIX\n")

	if err := app.ImportPositions(path, "watchlist"); err != nil {
		t.Fatalf("ImportPositions failed: %v", err)
	}

	set := storage.sets["watchlist"]
	if len(set.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(set.Rows))
	}
	if set.Rows[1].Ticker != ".VIX" {
		t.Errorf("rows[1] = %+v", set.Rows[1])
	}
}

func TestImportPositions_EmptyFileRejected(t *testing.T) {
	app, _ := newImportApp()
	path := writeCSV(t, "ticker,shares,cost_basis\n")

	if err := app.ImportPositions(path, "positions"); err == nil {
		t.Fatal("expected error for header-only file")
	}
}

func TestImportPositions_MissingFile(t *testing.T) {
	app, _ := newImportApp()

	if err := app.ImportPositions("does/not/exist.csv", "positions"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
