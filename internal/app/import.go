package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bobmcallan/pulse/internal/models"
)

// ImportPositions loads a holdings CSV into the named position set.
// Expected columns: ticker, shares, cost_basis. A header row is detected
// and skipped; shares and cost basis are stored raw and coerced at merge
// time.
func (a *App) ImportPositions(path, setName string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	set := &models.PositionSet{
		Name:      setName,
		UpdatedAt: time.Now(),
	}

	for i, record := range rows {
		if len(record) == 0 {
			continue
		}
		if i == 0 && isHeaderRow(record) {
			continue
		}

		ticker := models.NormalizeTicker(record[0])
		if ticker == "" {
			continue
		}

		row := models.PositionRow{Ticker: ticker}
		if len(record) > 1 {
			row.Shares = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			row.CostBasis = strings.TrimSpace(record[2])
		}
		set.Rows = append(set.Rows, row)
	}

	if len(set.Rows) == 0 {
		return fmt.Errorf("no rows imported from %s", path)
	}

	if err := a.Storage.PositionStore().SaveSet(context.Background(), set); err != nil {
		return fmt.Errorf("failed to save set %s: %w", setName, err)
	}

	a.Logger.Info().Str("set", setName).Int("rows", len(set.Rows)).Str("path", path).
		Msg("Imported position set")
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

// isHeaderRow reports whether a CSV record looks like column names rather
// than data.
func isHeaderRow(record []string) bool {
	first := strings.ToLower(strings.TrimSpace(record[0]))
	switch first {
	case "ticker", "symbol", "code":
		return true
	}
	return false
}
