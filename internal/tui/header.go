package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/esaudit-go/internal/model"
)

// maxHeaderErrLen bounds the connection error shown in the header bar.
const maxHeaderErrLen = 40

// renderHeader renders the top header bar.
//
//	left:   cluster name + active view label (or "Connecting to <URL>..." on first connect)
//	center: colored "● STATUS" plus the finding counts of the last pass
//	        (or "● DISCONNECTED  <error>" when offline)
//	right:  "Last: HH:MM:SS  Poll: Ns" (or "Press r to retry" when offline)
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	offline := app.connState == stateDisconnected && app.lastError != nil

	var left, center, right string
	switch {
	case app.current == nil:
		left = "Connecting to " + app.baseURL + "..."
		if offline {
			center = StyleError.Render("● DISCONNECTED  " + truncateError(app.lastError))
			right = StyleError.Render("Press r to retry")
		}

	case app.connState == stateDisconnected:
		// Stale data on screen, cluster gone since the last good cycle.
		left = headerTitle(app)
		center = "● DISCONNECTED"
		if app.lastError != nil {
			center += "  " + truncateError(app.lastError)
		}
		center = StyleError.Render(center)
		right = StyleError.Render("Press r to retry")

	default:
		left = headerTitle(app)

		status := strings.ToUpper(app.current.Health.Status)
		if status == "" {
			status = "UNKNOWN"
		}
		center = StatusStyle(app.current.Health.Status).Render("● " + status)
		if badge := findingsBadge(app.findings); badge != "" {
			center += "  " + badge
		}

		lastStr := "Connecting..."
		if !app.lastUpdated.IsZero() {
			lastStr = app.lastUpdated.Format("15:04:05")
		}
		right = StyleDim.Render(fmt.Sprintf("Last: %s  Poll: %s", lastStr, formatDuration(app.pollInterval)))
	}

	// left + gap + center + gap + right, spread over the inner width.
	// StyleHeader pads one cell on each side, hence width-2.
	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	row := left +
		strings.Repeat(" ", gap/2) +
		center +
		strings.Repeat(" ", gap-gap/2) +
		right

	return StyleHeader.Width(width).Render(row)
}

// headerTitle is the cluster name (URL when the cluster reports none) with the
// active view label.
func headerTitle(app *App) string {
	name := app.current.Health.ClusterName
	if name == "" {
		name = app.baseURL
	}
	return name + "  " + StyleDim.Render("["+viewLabel(app.view)+"]")
}

// findingsBadge compresses the current finding list into a severity-colored
// count, empty when there is nothing above info level.
func findingsBadge(findings []model.Finding) string {
	var crit, warn int
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityCritical:
			crit++
		case model.SeverityWarning:
			warn++
		}
	}
	switch {
	case crit > 0:
		return StyleRed.Render(fmt.Sprintf("%d critical / %d warning", crit, warn))
	case warn > 0:
		return StyleYellow.Render(fmt.Sprintf("%d warning", warn))
	default:
		return ""
	}
}

// truncateError shortens an error for the single header line.
func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > maxHeaderErrLen {
		return msg[:maxHeaderErrLen] + "..."
	}
	return msg
}

// formatDuration formats a poll interval as a compact string, e.g. "10s" or "2m".
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
