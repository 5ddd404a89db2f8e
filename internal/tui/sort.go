package tui

import (
	"sort"
	"strings"

	"github.com/dm/esaudit-go/internal/model"
)

// sortNodeRows returns a sorted copy of rows.
// Column mapping:
//
//	0=Name, 1=Tier, 2=CPU%, 3=Heap%, 4=OldGen%, 5=GCTime, 6=Rejections, 7=Breakers
//
// col -1 means no sort (preserve order).
// Ties are broken by Name ascending.
func sortNodeRows(rows []model.NodeMetric, col int, desc bool) []model.NodeMetric {
	out := make([]model.NodeMetric, len(rows))
	copy(out, rows)

	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case 0:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case 1:
			if a.Tier != b.Tier {
				less = strings.ToLower(a.Tier) < strings.ToLower(b.Tier)
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 2:
			if a.CPUPercent != b.CPUPercent {
				less = a.CPUPercent < b.CPUPercent
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 3:
			if a.HeapPercent != b.HeapPercent {
				less = a.HeapPercent < b.HeapPercent
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 4:
			if a.HeapOldGenPercent != b.HeapOldGenPercent {
				less = a.HeapOldGenPercent < b.HeapOldGenPercent
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 5:
			if a.GCTimeMs != b.GCTimeMs {
				less = a.GCTimeMs < b.GCTimeMs
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 6:
			if a.Rejections != b.Rejections {
				less = a.Rejections < b.Rejections
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 7:
			if a.BreakersTripped != b.BreakersTripped {
				less = a.BreakersTripped < b.BreakersTripped
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		default:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

// sortIndexRows returns a sorted copy of rows.
// Column mapping:
//
//	0=Name, 1=DocCount, 2=StoreSize, 3=WriteRate, 4=SearchRate, 5=HeapMB
//
// col -1 means no sort (preserve order).
// Ties are broken by Name ascending.
func sortIndexRows(rows []model.IndexMetric, col int, desc bool) []model.IndexMetric {
	out := make([]model.IndexMetric, len(rows))
	copy(out, rows)

	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case 0:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case 1:
			if a.DocCount != b.DocCount {
				less = a.DocCount < b.DocCount
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 2:
			if a.StoreSizeMB != b.StoreSizeMB {
				less = a.StoreSizeMB < b.StoreSizeMB
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 3:
			if a.WriteRate != b.WriteRate {
				less = a.WriteRate < b.WriteRate
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 4:
			if a.SearchRate != b.SearchRate {
				less = a.SearchRate < b.SearchRate
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 5:
			if a.HeapUsageMB != b.HeapUsageMB {
				less = a.HeapUsageMB < b.HeapUsageMB
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		default:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

// filterNodeRows returns rows whose Name or Tier contains search (case-insensitive).
// Returns all rows when search is empty.
func filterNodeRows(rows []model.NodeMetric, search string) []model.NodeMetric {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), lower) ||
			strings.Contains(strings.ToLower(r.Tier), lower) {
			out = append(out, r)
		}
	}
	return out
}

// filterIndexRows returns rows whose Name contains search (case-insensitive).
// Returns all rows when search is empty.
func filterIndexRows(rows []model.IndexMetric, search string) []model.IndexMetric {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), lower) {
			out = append(out, r)
		}
	}
	return out
}
