// Package report renders the end-of-scan run report for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trend-scannerv1/internal/scan"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	summaryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// Render formats the scan result as a styled terminal report. topN limits
// the ranked-candidate table; topN <= 0 shows all.
func Render(res *scan.Result, topN int) string {
	var b strings.Builder

	title := fmt.Sprintf("Daily Scan — %s", res.Date.Format("2006-01-02"))
	if res.DryRun {
		title += " (dry run)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(summaryStyle.Render(summaryBlock(res)))
	b.WriteString("\n\n")

	if len(res.Exits) > 0 {
		b.WriteString(sectionStyle.Render("Exits"))
		b.WriteString("\n")
		for _, t := range res.Exits {
			line := fmt.Sprintf("  SELL %-6s %6d @ %9.2f  %s  %s",
				t.Symbol, t.Shares, t.Price, pnl(t.PnL), t.Reason)
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(res.Entries) > 0 {
		b.WriteString(sectionStyle.Render("Entries"))
		b.WriteString("\n")
		for _, t := range res.Entries {
			b.WriteString(fmt.Sprintf("  BUY  %-6s %6d @ %9.2f\n", t.Symbol, t.Shares, t.Price))
		}
		b.WriteString("\n")
	}

	if len(res.Ranked) > 0 {
		b.WriteString(sectionStyle.Render("Ranked candidates"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %-4s %-6s %9s %8s %7s %7s %7s",
			"#", "SYMBOL", "CLOSE", "SLOPE", "TREND", "EXT", "SCORE")))
		b.WriteString("\n")
		n := len(res.Ranked)
		if topN > 0 && topN < n {
			n = topN
		}
		for i := 0; i < n; i++ {
			r := res.Ranked[i]
			b.WriteString(fmt.Sprintf("  %-4d %-6s %9.2f %8.2f %7.3f %7.3f %7.3f\n",
				i+1, r.Symbol, r.Close, r.SlopeBps, r.ScoreTrend, r.ScoreExt, r.Score))
		}
		if n < len(res.Ranked) {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more\n", len(res.Ranked)-n)))
		}
		b.WriteString("\n")
	}

	counts := fmt.Sprintf("scanned %d · holds %d · skipped %d", res.Scanned, res.Holds, res.SkippedTotal())
	for reason, n := range res.Skipped {
		counts += fmt.Sprintf(" (%s: %d)", reason, n)
	}
	b.WriteString(dimStyle.Render(counts))
	b.WriteString("\n")

	return b.String()
}

// Print writes the rendered report to stdout.
func Print(res *scan.Result, topN int) {
	fmt.Print(Render(res, topN))
}

func summaryBlock(res *scan.Result) string {
	s := res.Summary
	return fmt.Sprintf(
		"Equity     %12.2f   (start %.2f)\n"+
			"Cash       %12.2f\n"+
			"Invested   %12.2f\n"+
			"Realized   %12s\n"+
			"Positions  %6d open / %d records",
		s.Equity, res.StartingEquity,
		s.Cash,
		s.Invested,
		pnl(s.RealizedPnL),
		s.OpenPositions, s.TotalRecords)
}

func pnl(v float64) string {
	s := fmt.Sprintf("%+.2f", v)
	if v < 0 {
		return lossStyle.Render(s)
	}
	return gainStyle.Render(s)
}
