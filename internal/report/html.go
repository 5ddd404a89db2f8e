package report

import (
	"fmt"
	"html"
	"os"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/dm/esaudit-go/internal/model"
)

var severityColors = map[model.Severity]string{
	model.SeverityCritical: "#d73027",
	model.SeverityWarning:  "#fdae61",
	model.SeverityInfo:     "#4575b4",
}

// WriteHTML writes a standalone HTML report to path: a header with the run
// identity, the findings table, and three charts (old-gen heap per node, top
// heap-consuming indices, primary distribution per pattern). Charts with no
// data are skipped; the header and table are always present.
func (r *Report) WriteHTML(path string) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Cluster Audit %s", r.RunID)

	if c := r.oldGenChart(); c != nil {
		page.AddCharts(c)
	}
	if c := r.topHeapChart(); c != nil {
		page.AddCharts(c)
	}
	if c := r.patternChart(); c != nil {
		page.AddCharts(c)
	}

	var buf strings.Builder
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}

	// The page renderer owns <head> and <body>; the report header and the
	// findings table are injected around the chart containers.
	content := buf.String()
	content = strings.Replace(content, "</head>", reportCSS+"</head>", 1)
	content = strings.Replace(content, "<body>", "<body>\n"+r.headerHTML()+r.findingsTableHTML(), 1)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// oldGenChart plots old-gen heap usage per node against the alert threshold.
func (r *Report) oldGenChart() *charts.Bar {
	if len(r.Snapshot.Nodes) == 0 {
		return nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Old-Gen Heap by Node",
			Subtitle: fmt.Sprintf("Alert threshold: %.0f%%", r.Thresholds.HeapOldGenPercent),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Old-gen %", Type: "value"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	xLabels := make([]string, 0, len(r.Snapshot.Nodes))
	data := make([]opts.BarData, 0, len(r.Snapshot.Nodes))
	for _, n := range r.Snapshot.Nodes {
		xLabels = append(xLabels, n.Name)
		color := "#5470c6"
		if n.HeapOldGenPercent > r.Thresholds.HeapOldGenPercent {
			color = severityColors[model.SeverityCritical]
		}
		data = append(data, opts.BarData{
			Value:     n.HeapOldGenPercent,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}

	bar.SetXAxis(xLabels).AddSeries("Old-gen %", data,
		charts.WithBarChartOpts(opts.BarChart{BarGap: "10%"}),
	)
	return bar
}

// topHeapChart plots the heap footprint of the heaviest indices.
func (r *Report) topHeapChart() *charts.Bar {
	if len(r.Snapshot.TopHeapIndices) == 0 {
		return nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Top Heap-Consuming Indices"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Heap MB", Type: "value"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	xLabels := make([]string, 0, len(r.Snapshot.TopHeapIndices))
	data := make([]opts.BarData, 0, len(r.Snapshot.TopHeapIndices))
	for _, idx := range r.Snapshot.TopHeapIndices {
		xLabels = append(xLabels, idx.Name)
		data = append(data, opts.BarData{Value: idx.HeapUsageMB})
	}

	bar.SetXAxis(xLabels).AddSeries("Heap MB", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#5470c6"}),
	)
	return bar
}

// patternChart stacks per-node primary counts under each index pattern, so a
// pattern concentrated on one node shows as a single-color column.
func (r *Report) patternChart() *charts.Bar {
	counts := make(map[string]map[string]int)
	nodeSet := make(map[string]bool)
	for _, sh := range r.Snapshot.Shards {
		if !sh.Primary || sh.Node == "" {
			continue
		}
		p := model.PatternFor(sh.Index)
		if counts[p] == nil {
			counts[p] = make(map[string]int)
		}
		counts[p][sh.Node]++
		nodeSet[sh.Node] = true
	}
	if len(counts) == 0 {
		return nil
	}

	patterns := make([]string, 0, len(counts))
	for p := range counts {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		ti, tj := 0, 0
		for _, c := range counts[patterns[i]] {
			ti += c
		}
		for _, c := range counts[patterns[j]] {
			tj += c
		}
		if ti != tj {
			return ti > tj
		}
		return patterns[i] < patterns[j]
	})

	nodes := make([]string, 0, len(nodeSet))
	for n := range nodeSet {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Primary Shard Distribution by Pattern"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Primaries", Type: "value"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	bar.SetXAxis(patterns)
	for _, node := range nodes {
		data := make([]opts.BarData, 0, len(patterns))
		for _, p := range patterns {
			data = append(data, opts.BarData{Value: counts[p][node]})
		}
		bar.AddSeries(node, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "primaries"}),
		)
	}
	return bar
}

func (r *Report) headerHTML() string {
	name := r.Snapshot.Health.ClusterName
	if name == "" {
		name = "N/A"
	}
	status := r.Snapshot.Health.Status
	if status == "" {
		status = "unknown"
	}

	var sb strings.Builder
	sb.WriteString(`<div class="report-header">
`)
	fmt.Fprintf(&sb, "    <h1>Cluster Health Report: %s</h1>\n", html.EscapeString(name))
	fmt.Fprintf(&sb, `    <div class="run-id">Run %s &middot; %s &middot; status %s</div>
`, html.EscapeString(r.RunID), r.GeneratedAt.Format("2006-01-02 15:04:05 MST"), html.EscapeString(status))
	sb.WriteString(`</div>
`)
	return sb.String()
}

func (r *Report) findingsTableHTML() string {
	var sb strings.Builder
	sb.WriteString(`<div class="findings-section">
    <h3>Findings</h3>
`)

	if len(r.Findings) == 0 {
		sb.WriteString(`    <p>No findings at current thresholds.</p>
</div>
`)
		return sb.String()
	}

	sb.WriteString(`    <table class="findings-table">
        <tr><th>Severity</th><th>Kind</th><th>Entity</th><th>Message</th></tr>
`)
	for _, sev := range severityOrder {
		for _, f := range r.Findings {
			if f.Severity != sev {
				continue
			}
			fmt.Fprintf(&sb, `        <tr><td style="color:%s">%s</td><td>%s</td><td>%s</td><td>%s</td></tr>
`, severityColors[f.Severity], f.Severity, f.Kind, html.EscapeString(f.Entity), html.EscapeString(f.Message))
		}
	}
	sb.WriteString(`    </table>
</div>
`)
	return sb.String()
}

const reportCSS = `
    <style>
        * {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
        }
        body {
            max-width: 1400px;
            margin: 0 auto;
            padding: 20px;
            font-size: 14px;
        }
        .report-header {
            margin: 0 0 20px 0;
            padding-bottom: 10px;
            border-bottom: 2px solid #333;
        }
        .report-header h1 {
            margin: 0;
            font-size: 18px;
            font-weight: bold;
        }
        .report-header .run-id {
            font-size: 11px;
            color: #666;
            font-family: monospace;
        }
        .findings-section {
            margin-bottom: 20px;
            padding: 15px;
            background: #f5f5f5;
            border: 1px solid #ddd;
        }
        .findings-section h3 {
            margin: 0 0 10px 0;
            font-size: 13px;
        }
        .findings-table {
            width: 100%;
            border-collapse: collapse;
            font-size: 12px;
        }
        .findings-table th {
            text-align: left;
            padding: 3px 8px;
            border-bottom: 1px solid #999;
        }
        .findings-table td {
            padding: 3px 8px;
            vertical-align: top;
            border-bottom: 1px solid #eee;
        }
        .container {
            display: block !important;
            margin: 0 0 10px 0 !important;
            padding: 15px !important;
            background: #f5f5f5 !important;
            border: 1px solid #ddd !important;
            box-sizing: border-box !important;
            overflow: hidden !important;
        }
        .item {
            margin: 0 !important;
        }
    </style>
`
