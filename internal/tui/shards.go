package tui

import (
	"fmt"
	"strings"

	"github.com/dm/esaudit-go/internal/model"
)

// skewBarWidth is the maximum bar length for per-node primary counts.
const skewBarWidth = 20

// buildShardLines returns the full list of rendered content lines for the
// shards view: the per-pattern distribution table followed by one block per
// imbalanced pattern with its per-node primary spread.
func buildShardLines(groups []model.ShardGroup, skews []model.PatternSkew, width int) []string {
	var lines []string
	if len(groups) == 0 {
		lines = append(lines, "")
		lines = append(lines, "  "+StyleDim.Render("(no shards)"))
		lines = append(lines, "")
		return lines
	}

	lines = append(lines, "")
	lines = append(lines, "  "+StyleTableHeader.Render(fmt.Sprintf("%-28s %8s %6s %6s %9s %6s",
		"PATTERN", "SHARDS", "PRI", "REP", "SIZE GB", "NODES")))
	for _, g := range groups {
		name := truncateName(sanitize(g.Key), 28)
		lines = append(lines, fmt.Sprintf("  %-28s %8d %6d %6d %9.1f %6d",
			name, g.TotalShards, g.Primaries, g.Replicas, g.TotalGB, g.NodesInvolved))
	}

	if len(skews) > 0 {
		lines = append(lines, "")
		lines = append(lines, "  "+StyleDim.Bold(true).Underline(true).Render("Imbalanced patterns"))
		for _, sk := range skews {
			lines = append(lines, "")
			head := fmt.Sprintf("%s  %d primaries across %d nodes  stddev %.1f",
				sanitize(sk.Pattern), sk.Primaries, len(sk.NodeCounts), sk.StdDev)
			lines = append(lines, "  "+StyleYellow.Bold(true).Render(head))

			maxCount := 0
			for _, nc := range sk.NodeCounts {
				if nc.Count > maxCount {
					maxCount = nc.Count
				}
			}
			for _, nc := range sk.NodeCounts {
				var bar string
				if maxCount > 0 {
					bar = strings.Repeat("█", nc.Count*skewBarWidth/maxCount)
				}
				lines = append(lines, fmt.Sprintf("    %-24s %4d %s",
					truncateName(sanitize(nc.Node), 24), nc.Count, StyleCyan.Render(bar)))
			}
		}
	}
	return lines
}

// renderShards renders the shards title bar followed by the scrollable
// distribution table and imbalance blocks.
func renderShards(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	titleBar := renderViewTitle(width, fmt.Sprintf("Shards (%d patterns)", len(app.shardGroups)), "[tab: next view]")
	lines := buildShardLines(app.shardGroups, app.skews, width)
	return titleBar + "\n" + scrollBody(lines, app.shardsScroll, contentHeight(app, titleBar))
}
