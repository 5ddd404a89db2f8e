package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/esaudit-go/internal/format"
)

// renderOverview renders the 7-stat overview bar.
// Wide terminals (>= 80 cols): all 7 cards in a single horizontal row.
// Narrow terminals (< 80 cols): cards stacked in rows of 2 (4 rows: 2+2+2+1).
// Returns empty string if no snapshot is available yet.
func renderOverview(app *App) string {
	if app.current == nil {
		return ""
	}

	width := app.width
	if width <= 0 {
		width = 80
	}

	narrowMode := width < 80

	var cardWidth int
	if narrowMode {
		// 2 cards per row: split width evenly between 2 cards.
		cardWidth = (width - 4) / 2
		if cardWidth < 10 {
			cardWidth = 10
		}
	} else {
		cardWidth = (width - 14) / 7
		if cardWidth < 8 {
			cardWidth = 8
		}
	}

	// Mini bar inner width: card width minus padding (1 char each side).
	barWidth := cardWidth - 4
	if barWidth < 4 {
		barWidth = 4
	}

	health := app.current.Health
	stats := app.current.ClusterStats

	// Card 1: Cluster Status — colored background.
	statusText := strings.ToUpper(sanitize(health.Status))
	if statusText == "" {
		statusText = "UNKNOWN"
	}
	var statusBg lipgloss.Color
	switch health.Status {
	case "green":
		statusBg = colorGreen
	case "yellow":
		statusBg = colorYellow
	case "red":
		statusBg = colorRed
	default:
		statusBg = colorGray
	}
	card1 := StyleOverviewCard.
		Background(statusBg).
		Foreground(colorDark).
		Bold(true).
		Width(cardWidth).
		Render(statusText + "\nStatus")

	// Card 2: Node count — blue foreground.
	card2 := StyleOverviewCard.
		Foreground(colorBlue).
		Width(cardWidth).
		Render(fmt.Sprintf("%d", health.NumberOfNodes) + "\nNodes")

	// Card 3: Active shards — indigo foreground.
	card3 := StyleOverviewCard.
		Foreground(colorIndigo).
		Width(cardWidth).
		Render(fmt.Sprintf("%d", health.ActiveShards) + "\nActive Shards")

	// Card 4: Unassigned shards — green when zero, red otherwise.
	unassignedFg := colorGreen
	if health.UnassignedShards > 0 {
		unassignedFg = colorRed
	}
	card4 := StyleOverviewCard.
		Foreground(unassignedFg).
		Width(cardWidth).
		Render(fmt.Sprintf("%d", health.UnassignedShards) + "\nUnassigned")

	// Card 5: Document count — purple foreground.
	card5 := StyleOverviewCard.
		Foreground(colorPurple).
		Width(cardWidth).
		Render(format.FormatNumber(stats.Indices.Docs.Count) + "\nDocs")

	// Card 6: Store size — cyan foreground.
	card6 := StyleOverviewCard.
		Foreground(colorCyan).
		Width(cardWidth).
		Render(format.FormatBytes(stats.Indices.Store.SizeInBytes) + "\nStore")

	// Card 7: Worst old-gen heap occupancy with mini bar — threshold-colored.
	oldGenPct := app.maxOldGen
	oldGenSev := oldGenSeverity(oldGenPct, app.th.HeapOldGenPercent)
	oldGenVal := fmt.Sprintf("%.1f%%", oldGenPct)
	if oldGenSev == severityCritical {
		oldGenVal += "!"
	}
	oldGenBar := renderMiniBar(oldGenPct, barWidth)
	card7 := StyleOverviewCard.
		Foreground(severityFg(oldGenSev)).
		Width(cardWidth).
		Render(oldGenVal + "\n" + oldGenBar + "\nMax Old-Gen")

	if narrowMode {
		// Arrange 7 cards in rows of 2 (4 rows: 2+2+2+1).
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, card1, card2)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, card3, card4)
		row3 := lipgloss.JoinHorizontal(lipgloss.Top, card5, card6)
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2, row3, card7)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, card1, card2, card3, card4, card5, card6, card7)
}

// severityFg maps a severity level to a card foreground color.
func severityFg(s severity) lipgloss.Color {
	switch s {
	case severityCritical:
		return colorRed
	case severityWarning:
		return colorYellow
	default:
		return colorGreen
	}
}

// renderMiniBar renders a mini progress bar using Unicode block characters.
// Fills proportionally using "█" (U+2588) for filled and "░" (U+2591) for empty cells.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
