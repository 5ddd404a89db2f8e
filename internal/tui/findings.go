package tui

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/esaudit-go/internal/model"
)

// scrollStep is the page-scroll distance for pgup/pgdn.
const scrollStep = 10

// severityBadge returns a colored, fixed-width badge for the given severity.
func severityBadge(sev model.Severity) string {
	label := "[INFO]    "
	switch sev {
	case model.SeverityCritical:
		label = "[CRITICAL]"
	case model.SeverityWarning:
		label = "[WARN]    "
	}
	return FindingStyle(sev).Bold(true).Render(label)
}

// wrapText wraps text at maxWidth rune-columns, breaking at word boundaries.
// Returns the original string unchanged when it fits within maxWidth.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 || utf8.RuneCountInString(text) <= maxWidth {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	var lines []string
	var current strings.Builder
	var currentLen int // rune count of current line
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if currentLen == 0 {
			current.WriteString(word)
			currentLen = wordLen
		} else if currentLen+1+wordLen <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			currentLen += 1 + wordLen
		} else {
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
			currentLen = wordLen
		}
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}

// orderFindings returns a copy sorted most severe first. Order within a
// severity is preserved, which keeps node findings ahead of cluster ones.
func orderFindings(findings []model.Finding) []model.Finding {
	out := make([]model.Finding, len(findings))
	copy(out, findings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity > out[j].Severity
	})
	return out
}

// findingCounts tallies findings per severity.
func findingCounts(findings []model.Finding) (critical, warning, info int) {
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityWarning:
			warning++
		default:
			info++
		}
	}
	return critical, warning, info
}

// buildFindingLines returns the full list of rendered content lines for the
// findings view. Extracted so the same logic can be used both during
// rendering and when clamping the scroll offset in Update().
func buildFindingLines(findings []model.Finding, width int) []string {
	var lines []string
	if len(findings) == 0 {
		lines = append(lines, "")
		lines = append(lines, "  "+StyleGreen.Bold(true).Render("No findings at current thresholds"))
		lines = append(lines, "")
		return lines
	}

	crit, warn, info := findingCounts(findings)
	counts := StyleRed.Render(fmt.Sprintf("%d critical", crit)) + "  " +
		StyleYellow.Render(fmt.Sprintf("%d warning", warn)) + "  " +
		StyleBlue.Render(fmt.Sprintf("%d info", info))
	lines = append(lines, "", "  "+counts, "")

	for _, f := range orderFindings(findings) {
		title := f.Kind.String()
		if f.Entity != "" {
			title += " (" + sanitize(f.Entity) + ")"
		}
		lines = append(lines, fmt.Sprintf("  %s %s", severityBadge(f.Severity), title))
		if f.Message != "" {
			wrapped := wrapText(sanitize(f.Message), width-6)
			for _, mline := range strings.Split(wrapped, "\n") {
				lines = append(lines, "    "+StyleDim.Render(mline))
			}
		}
	}
	return lines
}

// renderViewTitle renders a view's title bar: left title + right hint, styled
// like the cluster header.
func renderViewTitle(width int, title, hint string) string {
	hintText := StyleDim.Render(hint)
	hintVW := lipgloss.Width(hintText)
	titleVW := lipgloss.Width(title)
	innerWidth := width - 2 // StyleHeader has Padding(0,1) -> 1 char per side
	gap := innerWidth - titleVW - hintVW
	if gap < 1 {
		gap = 1
	}
	titleRow := title + strings.Repeat(" ", gap) + hintText
	return StyleHeader.Width(width).MaxWidth(width).Render(titleRow)
}

// contentHeight returns the lines available to a view body: terminal height
// minus the cluster header, the view's own title bar, and the footer.
func contentHeight(app *App, titleBar string) int {
	height := app.height
	if height <= 0 {
		height = 24
	}
	availH := height -
		lipgloss.Height(renderHeader(app)) -
		lipgloss.Height(titleBar) -
		lipgloss.Height(renderFooter(app))
	if availH < 1 {
		availH = 1
	}
	return availH
}

// maxScroll returns the maximum valid scroll offset for availH visible lines.
// Called from Update() to clamp stored offsets after a scroll key, preventing
// overscroll debt where the stored offset exceeds the real content bound and
// subsequent scroll-up presses appear non-responsive.
func maxScroll(lines []string, availH int) int {
	overflows := len(lines) > availH
	contentH := availH
	if overflows && contentH > 1 {
		contentH--
	}
	m := len(lines) - contentH
	if m < 0 {
		m = 0
	}
	return m
}

// scrollBody slices lines to the window starting at offset, pads the window
// to availH, and appends a scroll hint when the content overflows.
func scrollBody(lines []string, offset, availH int) string {
	overflows := len(lines) > availH
	contentH := availH
	if overflows && contentH > 1 {
		contentH--
	}

	// Clamp offset to valid range (read-only; model state is not mutated in View).
	maxOffset := len(lines) - contentH
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}

	end := offset + contentH
	if end > len(lines) {
		end = len(lines)
	}
	var visible []string
	if offset < len(lines) {
		visible = append(visible, lines[offset:end]...)
	}
	for len(visible) < contentH {
		visible = append(visible, "")
	}

	if overflows {
		var hint string
		switch {
		case offset == 0:
			hint = StyleDim.Render("  ↓ scroll for more")
		case offset >= maxOffset:
			hint = StyleDim.Render("  ↑ scroll up")
		default:
			hint = StyleDim.Render("  ↑↓ scroll")
		}
		visible = append(visible, hint)
	}

	return strings.Join(visible, "\n")
}

// renderFindings renders the findings title bar followed by the scrollable,
// severity-ordered finding list.
func renderFindings(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	titleBar := renderViewTitle(width, fmt.Sprintf("Findings (%d)", len(app.findings)), "[tab: next view]")
	lines := buildFindingLines(app.findings, width)
	return titleBar + "\n" + scrollBody(lines, app.findingsScroll, contentHeight(app, titleBar))
}
