package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/bobmcallan/pulse/internal/models"
)

const (
	colorUp   = "#27ae60"
	colorDown = "#c0392b"

	cellStyle       = "text-align:right; padding:6px; border-bottom:1px solid #f0f0f0;"
	tickerCellStyle = "text-align:left; font-weight:bold; padding:6px; border-bottom:1px solid #f0f0f0;"
	headerCellStyle = "background: #f8f9fa; padding: 8px; color: #666; font-size: 10px; text-transform: uppercase; border-bottom: 2px solid #eee;"
	totalCellStyle  = "font-weight: bold; padding: 8px; border-top: 2px solid #ccc; background-color: #fafafa;"
	dividerStyle    = "width:2px; background-color:#ccc; padding:0;"
)

// formatMoney renders a dollar amount with thousands separators and no cents.
func formatMoney(v float64) string {
	return "$" + groupThousands(fmt.Sprintf("%.0f", v))
}

// formatSignedMoney renders a signed dollar delta without the currency symbol.
func formatSignedMoney(v float64) string {
	s := groupThousands(fmt.Sprintf("%.0f", math.Abs(v)))
	if v < 0 {
		return "-" + s
	}
	return "+" + s
}

// formatSignedPct renders a signed percentage with two decimals.
func formatSignedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func signColor(v float64) string {
	if v >= 0 {
		return colorUp
	}
	return colorDown
}

// groupThousands inserts commas into a formatted number string,
// preserving a leading minus sign and any decimal part.
func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	frac := ""
	if dot := strings.IndexByte(digits, '.'); dot >= 0 {
		frac = digits[dot:]
		digits = digits[:dot]
	}
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String() + frac
	}
	return sb.String() + frac
}

// formatHTML renders the full email-safe HTML body: header, AI section,
// holdings table with a reconciling TOTAL row, side-by-side watchlist
// halves, and the inline chart reference.
func formatHTML(report *models.PulseReport, watchLeft, watchRight []models.MergedPosition) string {
	t := report.Totals

	var sb strings.Builder
	sb.WriteString(`<html>
<head>
<meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
</head>
<body style="font-family: Helvetica, Arial, sans-serif; color: #333; background-color: #ffffff; margin: 0; padding: 20px;">
`)

	// Header
	fmt.Fprintf(&sb, `<table width="100%%" cellpadding="0" cellspacing="0" border="0">
<tr><td style="padding-bottom: 20px;">
<h2 style="margin: 0;">&#128640; Market Pulse: %s
<span style="color:%s">(%s)</span>
<span style="font-size: 16px; color:%s"> %s</span>
</h2>
</td></tr>
</table>
`,
		formatMoney(t.TotalValue),
		signColor(t.DayGainDollar), formatSignedMoney(t.DayGainDollar),
		signColor(t.DayChangePct), formatSignedPct(t.DayChangePct))

	// AI section
	fmt.Fprintf(&sb, `<table width="100%%" cellpadding="0" cellspacing="0" border="0" style="margin-bottom: 25px;">
<tr><td style="background-color: #f4f6f8; padding: 15px; border-left: 5px solid #2c3e50; border-radius: 4px;">
<h3 style="margin-top: 0; margin-bottom: 10px;">&#129504; CIO Executive Summary</h3>
%s
</td></tr>
</table>
`, report.Narrative)

	// Holdings + watchlist side by side
	sb.WriteString(`<table width="100%" cellpadding="0" cellspacing="0" border="0">
<tr>
<td width="48%" valign="top" style="border: 1px solid #eee; padding: 15px; border-radius: 5px;">
<h3 style="margin-top: 0;">&#128188; Holdings</h3>
`)
	sb.WriteString(holdingsTable(report.Positions, t))
	sb.WriteString(`</td>
<td width="4%">&nbsp;</td>
<td width="48%" valign="top" style="border: 1px solid #eee; padding: 15px; border-radius: 5px;">
<h3 style="margin-top: 0;">&#128064; Watchlist</h3>
`)
	sb.WriteString(watchlistTable(watchLeft, watchRight))
	sb.WriteString(`</td>
</tr>
</table>
`)

	// Chart section (the mail client attaches the PNG as cid:chart)
	if report.ChartPNG != nil {
		sb.WriteString(`<table width="100%" cellpadding="0" cellspacing="0" border="0" style="margin-top: 25px;">
<tr><td>
<h3>&#128197; Value Trend</h3>
<img src="cid:chart" style="width: 100%; max-width: 800px; border: 1px solid #ddd; border-radius: 4px;">
</td></tr>
</table>
`)
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// holdingsTable renders the holdings rows plus the TOTAL footer. The
// footer gain cell uses the aggregated row sum so the two always agree.
func holdingsTable(positions []models.MergedPosition, t *models.PortfolioTotals) string {
	var sb strings.Builder
	sb.WriteString(`<table width="100%" cellpadding="0" cellspacing="0" border="0" style="font-size: 11px;">
<tr>
`)
	for _, h := range []string{"Ticker", "Price", "Day %", "Mth %", "Total G/L"} {
		align := "text-align: right;"
		if h == "Ticker" {
			align = "text-align: left;"
		}
		fmt.Fprintf(&sb, "<th style=\"%s %s\">%s</th>\n", align, headerCellStyle, h)
	}
	sb.WriteString("</tr>\n")

	for _, p := range positions {
		sb.WriteString("<tr>")
		fmt.Fprintf(&sb, "<td style='%s'>%s</td>", tickerCellStyle, p.Ticker)
		fmt.Fprintf(&sb, "<td style='%s'>%s</td>", cellStyle, groupThousands(fmt.Sprintf("%.2f", p.Price)))
		fmt.Fprintf(&sb, "<td style='color:%s; %s'>%s</td>", signColor(p.DayChangePct), cellStyle, formatSignedPct(p.DayChangePct))
		fmt.Fprintf(&sb, "<td style='color:%s; %s'>%s</td>", signColor(p.MonthChangePct), cellStyle, formatSignedPct(p.MonthChangePct))
		fmt.Fprintf(&sb, "<td style='color:%s; %s'>%s</td>", signColor(p.TotalGainLoss), cellStyle, groupThousands(fmt.Sprintf("%.0f", p.TotalGainLoss)))
		sb.WriteString("</tr>\n")
	}

	sb.WriteString("<tr>")
	fmt.Fprintf(&sb, "<td style=\"text-align: left; %s\">TOTAL</td>", totalCellStyle)
	fmt.Fprintf(&sb, "<td style=\"text-align: right; %s\">-</td>", totalCellStyle)
	fmt.Fprintf(&sb, "<td style=\"text-align: right; %s color: %s;\">%s</td>", totalCellStyle, signColor(t.DayChangePct), formatSignedPct(t.DayChangePct))
	fmt.Fprintf(&sb, "<td style=\"text-align: right; %s color: %s;\">%s</td>", totalCellStyle, signColor(t.MonthChangePct), formatSignedPct(t.MonthChangePct))
	fmt.Fprintf(&sb, "<td style=\"text-align: right; %s color: %s;\">%s</td>", totalCellStyle, signColor(t.TotalGainLoss), formatSignedMoney(t.TotalGainLoss))
	sb.WriteString("</tr>\n</table>\n")

	return sb.String()
}

// watchlistTable renders the two watchlist halves side by side with a
// vertical divider column. Short sides are padded with empty cells.
func watchlistTable(left, right []models.MergedPosition) string {
	var sb strings.Builder
	sb.WriteString(`<table width="100%" cellpadding="0" cellspacing="0" border="0" style="font-size: 11px;">
<tr>
`)
	writeWatchHeaders := func() {
		for _, h := range []string{"Ticker", "Price", "Day %", "Mth %"} {
			align := "text-align: right;"
			if h == "Ticker" {
				align = "text-align: left;"
			}
			fmt.Fprintf(&sb, "<th style=\"%s %s\">%s</th>\n", align, headerCellStyle, h)
		}
	}
	writeWatchHeaders()
	fmt.Fprintf(&sb, "<th style=\"%s border-bottom: 2px solid #ccc;\"></th>\n", dividerStyle)
	writeWatchHeaders()
	sb.WriteString("</tr>\n")

	writeCells := func(rows []models.MergedPosition, i int) {
		if i < len(rows) {
			w := rows[i]
			fmt.Fprintf(&sb, "<td style='%s'>%s</td>", tickerCellStyle, w.Ticker)
			fmt.Fprintf(&sb, "<td style='%s'>%s</td>", cellStyle, groupThousands(fmt.Sprintf("%.2f", w.Price)))
			fmt.Fprintf(&sb, "<td style='color:%s; %s'>%s</td>", signColor(w.DayChangePct), cellStyle, formatSignedPct(w.DayChangePct))
			fmt.Fprintf(&sb, "<td style='color:%s; %s'>%s</td>", signColor(w.MonthChangePct), cellStyle, formatSignedPct(w.MonthChangePct))
			return
		}
		for range 4 {
			fmt.Fprintf(&sb, "<td style='padding:6px; border-bottom:1px solid #f0f0f0;'>&nbsp;</td>")
		}
	}

	rowCount := len(left)
	if len(right) > rowCount {
		rowCount = len(right)
	}
	for i := 0; i < rowCount; i++ {
		sb.WriteString("<tr>")
		writeCells(left, i)
		fmt.Fprintf(&sb, "<td style='%s'></td>", dividerStyle)
		writeCells(right, i)
		sb.WriteString("</tr>\n")
	}

	sb.WriteString("</table>\n")
	return sb.String()
}
