package tui

import (
	"fmt"
	"strings"

	"github.com/dm/esaudit-go/internal/model"
)

// buildCausalityLines returns the full list of rendered content lines for the
// causality view: one block per pressured node, the chain lines indented
// beneath the node name in their diagnostic order.
func buildCausalityLines(reports []model.CausalityReport, width int) []string {
	var lines []string
	if len(reports) == 0 {
		lines = append(lines, "")
		lines = append(lines, "  "+StyleGreen.Bold(true).Render("No node is under old-gen heap pressure"))
		lines = append(lines, "")
		return lines
	}

	for _, rep := range reports {
		lines = append(lines, "")
		lines = append(lines, "  "+StyleRed.Bold(true).Render("● "+sanitize(rep.NodeName)))
		for _, rl := range rep.ReportLines {
			wrapped := wrapText(sanitize(rl), width-8)
			for i, wl := range strings.Split(wrapped, "\n") {
				prefix := "    "
				if i > 0 {
					prefix = "      "
				}
				lines = append(lines, prefix+wl)
			}
		}
	}
	return lines
}

// renderCausality renders the causality title bar followed by the scrollable
// per-node diagnostic chains.
func renderCausality(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	titleBar := renderViewTitle(width, fmt.Sprintf("Causality (%d nodes)", len(app.causality)), "[tab: next view]")
	lines := buildCausalityLines(app.causality, width)
	return titleBar + "\n" + scrollBody(lines, app.causalityScroll, contentHeight(app, titleBar))
}
