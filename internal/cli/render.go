package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dualsubstrate/web4r-go/internal/models"
)

// Theme holds the color scheme for resolver output.
type Theme struct {
	Metric  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Metric:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#10B981"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) metricLabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Transform(strings.ToUpper)
}

func (t Theme) metricValueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Metric).Bold(true)
}

func (t Theme) summaryBoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Success).
		PaddingLeft(1)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// renderDecodeResult builds the human-readable view of a decoded
// coordinate: the metric trio, the summary box, the ranked claims, and the
// prime factors when present.
func renderDecodeResult(result models.DecodeResult, showRaw bool) string {
	t := defaultTheme
	var b strings.Builder

	b.WriteString(renderMetric(t, "Coherence Norm", result.Meta.Coherence.String()))
	b.WriteString(renderMetric(t, "Mediator Prime", result.Meta.Mediator))
	b.WriteString(renderMetric(t, "Type", result.Meta.Type))
	b.WriteString(renderMetric(t, "Namespace", result.Meta.Namespace))
	b.WriteString(renderMetric(t, "Timestamp", result.Meta.Timestamp))
	b.WriteString("\n")

	b.WriteString("Reconstructed Knowledge Tree\n\n")
	b.WriteString(t.summaryBoxStyle().Render("Summary: "+result.Content.Summary) + "\n\n")

	b.WriteString("Key Claims (Prime Nodes)\n")
	if len(result.Content.Claims) == 0 {
		b.WriteString(t.hintStyle().Render("  No discrete prime nodes returned.") + "\n")
	}
	for i, claim := range result.Content.Claims {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, claim))
	}

	if len(result.Primes) > 0 {
		b.WriteString(fmt.Sprintf("\nPrimes: %v\n", result.Primes))
	}
	if result.Content.Context != "" {
		b.WriteString("\n" + t.hintStyle().Render("Context: "+result.Content.Context) + "\n")
	}

	if showRaw {
		b.WriteString("\nRaw Ledger JSON\n")
		b.WriteString(indentJSON(result.Raw) + "\n")
	}

	return b.String()
}

func renderMetric(t Theme, label, value string) string {
	return fmt.Sprintf("%s %s\n",
		t.metricLabelStyle().Width(16).Render(label),
		t.metricValueStyle().Render(value),
	)
}

// renderInspection builds the walk inspection table: one row per path
// position with the lawfulness and score of the hop that reached it.
func renderInspection(rows []models.InspectionRow) string {
	var b strings.Builder
	b.WriteString("Walk Inspection\n")
	b.WriteString(fmt.Sprintf("  %3s  %-28s %-12s %s\n", "hop", "coord", "lawfulness", "score"))
	for _, row := range rows {
		lawfulness := row.Lawfulness
		if lawfulness == "" {
			lawfulness = "-"
		}
		b.WriteString(fmt.Sprintf("  %3d  %-28s %-12s %s\n", row.Hop, row.Coord, lawfulness, row.Score))
	}
	return b.String()
}

// renderCoherenceSeries shows the chosen-hop scores in hop order.
func renderCoherenceSeries(series []float64) string {
	if len(series) == 0 {
		return ""
	}
	parts := make([]string, len(series))
	for i, v := range series {
		parts[i] = fmt.Sprintf("%.3f", v)
	}
	return "Coherence series: " + strings.Join(parts, ", ") + "\n"
}

func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
