package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esaudit-go/internal/model"
)

// nodeFixtures returns a reproducible set of node rows.
func nodeFixtures() []model.NodeMetric {
	return []model.NodeMetric{
		{Name: "node-1", Tier: "master", CPUPercent: 40, HeapPercent: 62, HeapOldGenPercent: 30, GCTimeMs: 80, Rejections: 0, BreakersTripped: 0},
		{Name: "node-2", Tier: "hot", CPUPercent: 85, HeapPercent: 71, HeapOldGenPercent: 82, GCTimeMs: 450, Rejections: 12, BreakersTripped: 1},
		{Name: "node-3", Tier: "warm", CPUPercent: 15, HeapPercent: 48, HeapOldGenPercent: 22, GCTimeMs: 20, Rejections: 0, BreakersTripped: 0},
		{Name: "Node-10", Tier: "hot", CPUPercent: 60, HeapPercent: 55, HeapOldGenPercent: 50, GCTimeMs: 200, Rejections: 3, BreakersTripped: 0},
	}
}

// indexFixtures returns a reproducible set of index rows.
func indexFixtures() []model.IndexMetric {
	return []model.IndexMetric{
		{Name: "logs-2024", DocCount: 500, StoreSizeMB: 1000, WriteRate: 100, SearchRate: 50, HeapUsageMB: 12},
		{Name: "app-events", DocCount: 1500, StoreSizeMB: 3000, WriteRate: 300, SearchRate: 200, HeapUsageMB: 40},
		{Name: "metrics", DocCount: 250, StoreSizeMB: 500, WriteRate: 50, SearchRate: 10, HeapUsageMB: 4},
		{Name: "Audit-Logs", DocCount: 750, StoreSizeMB: 1500, WriteRate: 150, SearchRate: 75, HeapUsageMB: 20},
	}
}

func nodeNames(rows []model.NodeMetric) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names
}

func indexNames(rows []model.IndexMetric) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names
}

func TestSortNodeRows_ByName(t *testing.T) {
	got := sortNodeRows(nodeFixtures(), 0, false)
	// Case-insensitive: "Node-10" sorts between node-1 and node-2.
	assert.Equal(t, []string{"node-1", "Node-10", "node-2", "node-3"}, nodeNames(got))

	got = sortNodeRows(nodeFixtures(), 0, true)
	assert.Equal(t, []string{"node-3", "node-2", "Node-10", "node-1"}, nodeNames(got))
}

func TestSortNodeRows_ByTier(t *testing.T) {
	got := sortNodeRows(nodeFixtures(), 1, false)
	// hot < master < warm; within "hot", Node-10 < node-2 by name.
	assert.Equal(t, []string{"Node-10", "node-2", "node-1", "node-3"}, nodeNames(got))
}

func TestSortNodeRows_ByCPU(t *testing.T) {
	got := sortNodeRows(nodeFixtures(), 2, true)
	assert.Equal(t, []string{"node-2", "Node-10", "node-1", "node-3"}, nodeNames(got))

	got = sortNodeRows(nodeFixtures(), 2, false)
	assert.Equal(t, []string{"node-3", "node-1", "Node-10", "node-2"}, nodeNames(got))
}

func TestSortNodeRows_ByOldGen(t *testing.T) {
	got := sortNodeRows(nodeFixtures(), 4, true)
	assert.Equal(t, []string{"node-2", "Node-10", "node-1", "node-3"}, nodeNames(got))
}

func TestSortNodeRows_ByGCTime(t *testing.T) {
	got := sortNodeRows(nodeFixtures(), 5, true)
	assert.Equal(t, []string{"node-2", "Node-10", "node-1", "node-3"}, nodeNames(got))
}

func TestSortNodeRows_ByRejections(t *testing.T) {
	got := sortNodeRows(nodeFixtures(), 6, true)
	require.Equal(t, "node-2", got[0].Name)
	require.Equal(t, "Node-10", got[1].Name)
	// node-1 and node-3 both have zero rejections; tie broken by name.
	assert.Equal(t, []string{"node-1", "node-3"}, nodeNames(got[2:]))
}

func TestSortNodeRows_ByBreakers(t *testing.T) {
	got := sortNodeRows(nodeFixtures(), 7, true)
	assert.Equal(t, "node-2", got[0].Name)
}

func TestSortNodeRows_NoSortPreservesOrder(t *testing.T) {
	rows := nodeFixtures()
	got := sortNodeRows(rows, -1, false)
	assert.Equal(t, nodeNames(rows), nodeNames(got))
}

func TestSortNodeRows_DoesNotMutateInput(t *testing.T) {
	rows := nodeFixtures()
	_ = sortNodeRows(rows, 2, true)
	assert.Equal(t, nodeNames(nodeFixtures()), nodeNames(rows))
}

func TestSortNodeRows_TieBrokenByName(t *testing.T) {
	rows := []model.NodeMetric{
		{Name: "zeta", CPUPercent: 50},
		{Name: "alpha", CPUPercent: 50},
		{Name: "mike", CPUPercent: 50},
	}
	got := sortNodeRows(rows, 2, true)
	assert.Equal(t, []string{"alpha", "mike", "zeta"}, nodeNames(got))
}

func TestSortIndexRows_ByName(t *testing.T) {
	got := sortIndexRows(indexFixtures(), 0, false)
	assert.Equal(t, []string{"app-events", "Audit-Logs", "logs-2024", "metrics"}, indexNames(got))
}

func TestSortIndexRows_ByDocCount(t *testing.T) {
	got := sortIndexRows(indexFixtures(), 1, true)
	assert.Equal(t, []string{"app-events", "Audit-Logs", "logs-2024", "metrics"}, indexNames(got))
}

func TestSortIndexRows_ByStoreSize(t *testing.T) {
	got := sortIndexRows(indexFixtures(), 2, false)
	assert.Equal(t, []string{"metrics", "logs-2024", "Audit-Logs", "app-events"}, indexNames(got))
}

func TestSortIndexRows_ByWriteRate(t *testing.T) {
	got := sortIndexRows(indexFixtures(), 3, true)
	assert.Equal(t, []string{"app-events", "Audit-Logs", "logs-2024", "metrics"}, indexNames(got))
}

func TestSortIndexRows_BySearchRate(t *testing.T) {
	got := sortIndexRows(indexFixtures(), 4, true)
	assert.Equal(t, "app-events", got[0].Name)
	assert.Equal(t, "metrics", got[3].Name)
}

func TestSortIndexRows_ByHeapUsage(t *testing.T) {
	got := sortIndexRows(indexFixtures(), 5, true)
	assert.Equal(t, []string{"app-events", "Audit-Logs", "logs-2024", "metrics"}, indexNames(got))
}

func TestSortIndexRows_NoSortPreservesOrder(t *testing.T) {
	rows := indexFixtures()
	got := sortIndexRows(rows, -1, true)
	assert.Equal(t, indexNames(rows), indexNames(got))
}

func TestSortIndexRows_DoesNotMutateInput(t *testing.T) {
	rows := indexFixtures()
	_ = sortIndexRows(rows, 1, true)
	assert.Equal(t, indexNames(indexFixtures()), indexNames(rows))
}

func TestFilterNodeRows(t *testing.T) {
	rows := nodeFixtures()

	// Empty search returns everything.
	assert.Len(t, filterNodeRows(rows, ""), 4)

	// Name match, case-insensitive.
	got := filterNodeRows(rows, "NODE-1")
	assert.Equal(t, []string{"node-1", "Node-10"}, nodeNames(got))

	// Tier match.
	got = filterNodeRows(rows, "hot")
	assert.Equal(t, []string{"node-2", "Node-10"}, nodeNames(got))

	// No match.
	assert.Empty(t, filterNodeRows(rows, "coordinator"))
}

func TestFilterNodeRows_DoesNotMutateInput(t *testing.T) {
	rows := nodeFixtures()
	_ = filterNodeRows(rows, "hot")
	assert.Len(t, rows, 4)
	assert.Equal(t, "node-1", rows[0].Name)
}

func TestFilterIndexRows(t *testing.T) {
	rows := indexFixtures()

	assert.Len(t, filterIndexRows(rows, ""), 4)

	got := filterIndexRows(rows, "logs")
	assert.Equal(t, []string{"logs-2024", "Audit-Logs"}, indexNames(got))

	got = filterIndexRows(rows, "EVENTS")
	assert.Equal(t, []string{"app-events"}, indexNames(got))

	assert.Empty(t, filterIndexRows(rows, "nonexistent"))
}
