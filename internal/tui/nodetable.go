package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/esaudit-go/internal/format"
	"github.com/dm/esaudit-go/internal/model"
)

// NodeTableModel is a sortable, paginated, filterable table of per-node
// JVM and load statistics.
type NodeTableModel struct {
	tableModel
	allRows     []model.NodeMetric // unfiltered source data
	displayRows []model.NodeMetric // after filter + sort applied
}

// NewNodeTable returns a NodeTableModel with the 8-column layout and
// default sort by old-gen heap occupancy (col 4) descending.
func NewNodeTable() NodeTableModel {
	cols := []columnDef{
		{Title: "Node", Width: 22, Align: lipgloss.Left},
		{Title: "Tier", Width: 8, Align: lipgloss.Left},
		{Title: "CPU%", Width: 7, Align: lipgloss.Right},
		{Title: "Heap%", Width: 7, Align: lipgloss.Right},
		{Title: "OldGen%", Width: 8, Align: lipgloss.Right},
		{Title: "GC", Width: 8, Align: lipgloss.Right},
		{Title: "Reject", Width: 7, Align: lipgloss.Right},
		{Title: "Breakers", Width: 9, Align: lipgloss.Right},
	}
	m := NodeTableModel{
		tableModel: newTableModel(cols),
	}
	m.sortCol = 4 // HeapOldGenPercent
	m.sortDesc = true
	return m
}

// SetData applies the current filter and sort to rows, storing the result as
// displayRows ready for rendering.
func (m *NodeTableModel) SetData(rows []model.NodeMetric) {
	m.allRows = rows
	filtered := filterNodeRows(m.allRows, m.search)
	m.displayRows = sortNodeRows(filtered, m.sortCol, m.sortDesc)
	m.clampPage(len(m.displayRows))
}

// Update handles keyboard events for sorting, pagination, and filtering. It
// delegates to the embedded tableModel and re-applies filter/sort when the
// sort column, direction, or filter term changes.
func (m NodeTableModel) Update(msg tea.Msg) (NodeTableModel, tea.Cmd) {
	prevSort := m.sortCol
	prevDesc := m.sortDesc
	prevSearch := m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		filtered := filterNodeRows(m.allRows, m.search)
		m.displayRows = sortNodeRows(filtered, m.sortCol, m.sortDesc)
	}
	m.clampPage(len(m.displayRows)) // always clamp after any key (e.g. NextPage)
	return m, cmd
}

// renderTable renders the complete "Nodes" section: the title line followed
// by the lipgloss table body for the current page. JVM and load cells are
// colored by their alert severity against the configured thresholds.
func (m *NodeTableModel) renderTable(app *App) string {
	hdr := m.renderTitle("Nodes", len(m.displayRows))

	var colWidths []int
	if app != nil && app.width > 0 {
		colWidths = columnWidths(app.width, m.columns)
	}
	headers := sortArrowHeaders(m.columns, m.sortCol, m.sortDesc, colWidths)

	allIdx := make([]int, len(m.displayRows))
	for i := range m.displayRows {
		allIdx[i] = i
	}
	pageIdx := currentPageIndices(allIdx, m.page, m.pageSize)

	if len(pageIdx) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render("  (no nodes)"))
	}

	pageRows := make([]model.NodeMetric, len(pageIdx))
	for i, idx := range pageIdx {
		pageRows[i] = m.displayRows[idx]
	}

	th := app.th
	cols := m.columns
	sortCol := m.sortCol
	t := ltable.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == sortCol {
					return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
				}
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			if col < len(cols) {
				base = base.Align(cols[col].Align)
			}
			if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			if row < 0 || row >= len(pageRows) {
				return base.Foreground(colorWhite)
			}
			r := pageRows[row]
			switch col {
			case 1:
				return base.Foreground(colorBlue)
			case 2:
				return cellStyle(base, cpuSeverity(r.CPUPercent, th.CPUPercent))
			case 3:
				return cellStyle(base, heapSeverity(r.HeapPercent))
			case 4:
				return cellStyle(base, oldGenSeverity(r.HeapOldGenPercent, th.HeapOldGenPercent))
			case 5:
				return cellStyle(base, gcSeverity(r.GCTimeMs, th.GCTimeMs))
			case 6:
				return cellStyle(base, rejectionSeverity(r.Rejections))
			case 7:
				return cellStyle(base, breakerSeverity(r.BreakersTripped))
			default:
				return base.Foreground(colorWhite)
			}
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	if app != nil && app.width > 0 {
		t = t.Width(app.width)
	}

	for _, r := range pageRows {
		cells := make([]string, len(m.columns))
		for col := range m.columns {
			cells[col] = nodeCellValue(r, col)
		}
		if len(colWidths) > 0 && colWidths[0] > 0 {
			cells[0] = truncateName(cells[0], colWidths[0])
		}
		t = t.Row(cells...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String())
}

// nodeCellValue formats a NodeMetric field for a given column index.
func nodeCellValue(r model.NodeMetric, col int) string {
	switch col {
	case 0:
		return sanitize(r.Name)
	case 1:
		return sanitize(r.Tier)
	case 2:
		return format.FormatPercent(r.CPUPercent)
	case 3:
		return format.FormatPercent(r.HeapPercent)
	case 4:
		return format.FormatPercent(r.HeapOldGenPercent)
	case 5:
		return format.FormatLatency(float64(r.GCTimeMs))
	case 6:
		return format.FormatNumber(r.Rejections)
	case 7:
		return format.FormatNumber(r.BreakersTripped)
	default:
		return ""
	}
}

// cellStyle layers the severity foreground onto the positional base style.
func cellStyle(base lipgloss.Style, sev severity) lipgloss.Style {
	switch sev {
	case severityCritical:
		return base.Foreground(colorRed).Bold(true)
	case severityWarning:
		return base.Foreground(colorYellow)
	default:
		return base.Foreground(colorWhite)
	}
}

// sortArrowHeaders builds the column header strings, appending a direction
// arrow to the active sort column and padding each header to its target
// width so the table allocates proportional space.
func sortArrowHeaders(cols []columnDef, sortCol int, sortDesc bool, colWidths []int) []string {
	headers := make([]string, len(cols))
	for i, c := range cols {
		if i == sortCol {
			arrow := "↓"
			if !sortDesc {
				arrow = "↑"
			}
			headers[i] = c.Title + arrow
		} else {
			headers[i] = c.Title
		}
	}
	if len(colWidths) == len(cols) {
		for i, h := range headers {
			runes := []rune(h)
			if len(runes) < colWidths[i] {
				headers[i] = h + strings.Repeat(" ", colWidths[i]-len(runes))
			}
		}
	}
	return headers
}
