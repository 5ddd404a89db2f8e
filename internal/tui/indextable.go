package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/esaudit-go/internal/format"
	"github.com/dm/esaudit-go/internal/model"
)

// IndexTableModel is a sortable, paginated, filterable table of per-index
// size, activity, and heap-footprint statistics.
type IndexTableModel struct {
	tableModel
	allRows     []model.IndexMetric // unfiltered source data
	displayRows []model.IndexMetric // after filter + sort applied
}

// NewIndexTable returns an IndexTableModel with the 6-column layout and
// default sort by write rate (col 3) descending.
func NewIndexTable() IndexTableModel {
	cols := []columnDef{
		{Title: "Index", Width: 28, Align: lipgloss.Left},
		{Title: "Docs", Width: 10, Align: lipgloss.Right},
		{Title: "Size", Width: 9, Align: lipgloss.Right},
		{Title: "Write/s", Width: 9, Align: lipgloss.Right},
		{Title: "Search/s", Width: 9, Align: lipgloss.Right},
		{Title: "Heap MB", Width: 9, Align: lipgloss.Right},
	}
	m := IndexTableModel{
		tableModel: newTableModel(cols),
	}
	m.sortCol = 3 // WriteRate
	m.sortDesc = true
	return m
}

// SetData applies the current filter and sort to rows, storing the result as
// displayRows ready for rendering.
func (m *IndexTableModel) SetData(rows []model.IndexMetric) {
	m.allRows = rows
	filtered := filterIndexRows(m.allRows, m.search)
	m.displayRows = sortIndexRows(filtered, m.sortCol, m.sortDesc)
	m.clampPage(len(m.displayRows))
}

// Update handles keyboard events for sorting, pagination, and filtering. It
// delegates to the embedded tableModel and re-applies filter/sort when the
// sort column, direction, or filter term changes.
func (m IndexTableModel) Update(msg tea.Msg) (IndexTableModel, tea.Cmd) {
	prevSort := m.sortCol
	prevDesc := m.sortDesc
	prevSearch := m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		filtered := filterIndexRows(m.allRows, m.search)
		m.displayRows = sortIndexRows(filtered, m.sortCol, m.sortDesc)
	}
	m.clampPage(len(m.displayRows))
	return m, cmd
}

// renderTable renders the complete "Indices" section: the title line
// followed by the lipgloss table body for the current page.
func (m *IndexTableModel) renderTable(app *App) string {
	hdr := m.renderTitle("Indices", len(m.displayRows))

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
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render("  (no indices)"))
	}

	pageRows := make([]model.IndexMetric, len(pageIdx))
	for i, idx := range pageIdx {
		pageRows[i] = m.displayRows[idx]
	}

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
			switch col {
			case 1:
				return base.Foreground(colorPurple)
			case 2:
				return base.Foreground(colorIndigo)
			case 3:
				return base.Foreground(colorGreen)
			case 4:
				return base.Foreground(colorCyan)
			case 5:
				return base.Foreground(colorOrange)
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
			cells[col] = indexCellValue(r, col)
		}
		if len(colWidths) > 0 && colWidths[0] > 0 {
			cells[0] = truncateName(cells[0], colWidths[0])
		}
		t = t.Row(cells...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String())
}

// indexCellValue formats an IndexMetric field for a given column index.
func indexCellValue(r model.IndexMetric, col int) string {
	switch col {
	case 0:
		return sanitize(r.Name)
	case 1:
		return format.FormatNumber(r.DocCount)
	case 2:
		return format.FormatBytes(int64(r.StoreSizeMB * 1024 * 1024))
	case 3:
		return format.FormatRate(r.WriteRate)
	case 4:
		return format.FormatRate(r.SearchRate)
	case 5:
		return format.FormatNumber(int64(r.HeapUsageMB))
	default:
		return ""
	}
}
