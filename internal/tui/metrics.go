package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/esaudit-go/internal/format"
)

// renderMetricCard renders a single metric card with title, value, and sparkline.
//
// Layout (3 rows inside a rounded border):
//
//	╭──────────────────╮
//	│ Title            │   ← titleStyle (normally dim; yellow/red when threshold exceeded)
//	│ 1,204.3 /s       │   ← bold, metric color
//	│ ▁▂▃▅▇█▇▅▃▂       │   ← colored sparkline
//	╰──────────────────╯
func renderMetricCard(title, value string, sparkValues []float64, cardWidth int, color lipgloss.Color, titleStyle lipgloss.Style) string {
	// Minimum of 8 avoids zero/negative Width() args.
	const minCardWidth = 8
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}

	// Inner width = card width minus border (2) and padding (2).
	// lipgloss Width() includes padding in its measurement, so available content
	// width = Width - padding = (cardWidth-4) - 2 = cardWidth-6.
	innerWidth := cardWidth - 6
	if innerWidth < 1 {
		innerWidth = 1
	}

	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(color)

	titleLine := titleStyle.Render(title)
	valueLine := valueStyle.Render(value)
	sparkLine := RenderSparkline(sparkValues, innerWidth, color)

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(0, 1).
		Width(cardWidth - 4)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleLine,
		valueLine,
		sparkLine,
	))
}

// renderMetricsRow renders 3 metric cards (Write Rate, Search Rate, Max
// Old-Gen Heap) with a "Cluster Activity" section label. The old-gen card
// title turns yellow/red when the worst node crosses the alert bands.
// Wide terminals (>= 80 cols): 1x3 horizontal row.
// Narrow terminals (< 80 cols): 2 cards on top, 1 below.
// Returns empty string when no data is available.
func renderMetricsRow(app *App) string {
	if app.current == nil {
		return ""
	}

	label := StyleDim.Render("Cluster Activity")

	oldGenTitleStyle := severityTitleStyle(oldGenSeverity(app.maxOldGen, app.th.HeapOldGenPercent))

	if app.width > 0 && app.width < 80 {
		// Stacked layout for narrow terminals. Each card renders at
		// (cardWidth-2) chars wide (lipgloss Width includes padding, border
		// adds 2). For 2 cards to fill app.width: 2*(cardWidth-2)=app.width
		// → cardWidth=(app.width+4)/2. Return empty below the minimum card
		// size rather than overflow horizontally.
		cardWidth := (app.width + 4) / 2
		if cardWidth < 8 {
			return ""
		}
		narrowLabel := StyleDim.MaxWidth(app.width).Render("Cluster Activity")
		top := lipgloss.JoinHorizontal(lipgloss.Top,
			renderMetricCard("Write Rate", format.FormatRate(app.writeRate), app.history.Values("writeRate"), cardWidth, colorGreen, StyleDim),
			renderMetricCard("Search Rate", format.FormatRate(app.searchRate), app.history.Values("searchRate"), cardWidth, colorCyan, StyleDim),
		)
		bottom := renderMetricCard("Max Old-Gen", format.FormatPercent(app.maxOldGen), app.history.Values("maxOldGen"), cardWidth, colorOrange, oldGenTitleStyle)
		return lipgloss.JoinVertical(lipgloss.Left, narrowLabel, top, bottom)
	}

	// 1x3 horizontal row for wide terminals: 3*(cardWidth-2)=app.width
	// → cardWidth=(app.width+6)/3.
	cardWidth := (app.width + 6) / 3
	if cardWidth < 20 {
		cardWidth = 20
	}

	cards := []string{
		renderMetricCard("Write Rate", format.FormatRate(app.writeRate), app.history.Values("writeRate"), cardWidth, colorGreen, StyleDim),
		renderMetricCard("Search Rate", format.FormatRate(app.searchRate), app.history.Values("searchRate"), cardWidth, colorCyan, StyleDim),
		renderMetricCard("Max Old-Gen", format.FormatPercent(app.maxOldGen), app.history.Values("maxOldGen"), cardWidth, colorOrange, oldGenTitleStyle),
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	return lipgloss.JoinVertical(lipgloss.Left, label, row)
}
