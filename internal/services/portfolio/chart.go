package portfolio

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/pulse/internal/models"
)

// TrendChart reads the ledger back, windows it to the most recent rows,
// and renders the trend PNG. Returns (nil, nil) when fewer than 2 points
// exist — a defined no-chart outcome, not an error.
func (s *Service) TrendChart(ctx context.Context, window int) ([]byte, error) {
	if window <= 0 {
		window = s.window
	}

	rows, err := s.storage.LedgerStore().Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	return RenderTrendChart(rows, window)
}

// trendPoint is a ledger row with its parsed date.
type trendPoint struct {
	date  time.Time
	value float64
}

// trendTitle builds the chart title and its sign color from the windowed
// points. The title labels the actual elapsed span — runs may be sparse,
// so the window rarely covers exactly 30 calendar days.
func trendTitle(points []trendPoint) (string, drawing.Color) {
	startVal := points[0].value
	endVal := points[len(points)-1].value

	pctChange := 0.0
	if startVal > 0 {
		pctChange = (endVal - startVal) / startVal * 100
	}

	spanDays := int(points[len(points)-1].date.Sub(points[0].date).Hours() / 24)
	prefix := "Trend"
	if spanDays > 0 {
		prefix = fmt.Sprintf("%d-Day Trend", spanDays)
	}

	sign := ""
	if pctChange >= 0 {
		sign = "+"
	}

	color := drawing.ColorFromHex("c0392b") // red
	if pctChange >= 0 {
		color = drawing.ColorFromHex("27ae60") // green
	}

	return fmt.Sprintf("%s (%s%.2f%%)", prefix, sign, pctChange), color
}

// RenderTrendChart renders a windowed line chart of ledger total values.
// The ledger arrives in stored order; rows are sorted by date here before
// the window is taken. Fewer than 2 usable points yields (nil, nil).
func RenderTrendChart(rows []models.HistoryRow, window int) ([]byte, error) {
	points := make([]trendPoint, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		points = append(points, trendPoint{date: date, value: r.TotalValue})
	}

	if len(points) < 2 {
		return nil, nil
	}

	sort.Slice(points, func(i, j int) bool { return points[i].date.Before(points[j].date) })

	if len(points) > window {
		points = points[len(points)-window:]
	}

	title, titleColor := trendTitle(points)

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	yMin, yMax := points[0].value, points[0].value
	for i, p := range points {
		xValues[i] = p.date
		yValues[i] = p.value
		if p.value < yMin {
			yMin = p.value
		}
		if p.value > yMax {
			yMax = p.value
		}
	}

	padding := (yMax - yMin) * 0.10
	if padding == 0 {
		// Flat series: pad by 2% of the level to avoid a zero-height axis.
		padding = yMin * 0.02
	}

	lineColor := drawing.ColorFromHex("0052cc")

	series := chart.TimeSeries{
		Name: "Total Value",
		Style: chart.Style{
			StrokeColor: lineColor,
			StrokeWidth: 2.0,
			FillColor:   lineColor.WithAlpha(25),
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1000,
		Height: 400,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: titleColor,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{
				Min: yMin - padding,
				Max: yMax + padding,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
