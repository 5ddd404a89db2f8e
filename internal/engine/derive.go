package engine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dm/esaudit-go/internal/client"
	"github.com/dm/esaudit-go/internal/model"
)

// buildSnapshot derives the normalized snapshot from one cycle's raw
// documents. Missing documents yield empty collections, never errors.
func buildSnapshot(raw *rawCycle, now time.Time) *model.Snapshot {
	snap := &model.Snapshot{FetchedAt: now}

	if raw.health != nil {
		snap.Health = *raw.health
	}
	if raw.stats != nil {
		snap.ClusterStats = *raw.stats
	}
	snap.Nodes, snap.NodeDetails = deriveNodes(raw.nodesInfo, raw.nodeStats)
	snap.Indices = deriveIndices(raw.catIndices, raw.indexStats)
	snap.Shards = deriveShards(raw.catShards)
	snap.TopHeapIndices = topHeapIndices(snap.Indices, 5)
	snap.MappingFields = countMappingFields(raw.mappings)
	if raw.pending != nil {
		snap.PendingTasks = raw.pending.Tasks
	}
	snap.SearchTasks = deriveSearchTasks(raw.tasks)
	snap.Templates = raw.templates
	if raw.settings != nil {
		snap.Settings = *raw.settings
	}
	return snap
}

// deriveNodes computes the per-node metric rows and retains each node's raw
// thread-pool and breaker blobs for the deep-dive view. Both slices come back
// sorted by node name (then id) so consecutive cycles line up row for row.
func deriveNodes(info *client.NodesInfoResponse, stats *client.NodeStatsResponse) ([]model.NodeMetric, []model.NodeDetail) {
	if stats == nil || len(stats.Nodes) == 0 {
		return nil, nil
	}

	nodes := make([]model.NodeMetric, 0, len(stats.Nodes))
	details := make([]model.NodeDetail, 0, len(stats.Nodes))

	for id, ns := range stats.Nodes {
		name := ns.Name
		if name == "" {
			name = "N/A"
		}

		tier := "undefined"
		if info != nil {
			if ni, ok := info.Nodes[id]; ok {
				tier = tierFromAttributes(ni.Attributes)
			}
		}

		n := model.NodeMetric{ID: id, Name: name, Tier: tier}

		if ns.OS != nil {
			n.CPUPercent = ns.OS.CPU.Percent
		}
		if ns.JVM != nil {
			n.HeapPercent = float64(ns.JVM.Mem.HeapUsedPercent)
			n.HeapOldGenPercent = oldGenPercent(ns.JVM.Mem.Pools.Old)
			if gc := ns.JVM.GC.Collectors.Old; gc != nil {
				n.GCCount = gc.CollectionCount
				n.GCTimeMs = gc.CollectionTimeInMillis
			}
		}
		for _, tp := range ns.ThreadPool {
			n.Rejections += tp.Rejected
		}
		for _, b := range ns.Breakers {
			n.BreakersTripped += b.Tripped
		}

		nodes = append(nodes, n)
		details = append(details, model.NodeDetail{
			ID:       id,
			Name:     name,
			Pools:    ns.ThreadPool,
			Breakers: ns.Breakers,
		})
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Name != nodes[j].Name {
			return nodes[i].Name < nodes[j].Name
		}
		return nodes[i].ID < nodes[j].ID
	})
	sort.Slice(details, func(i, j int) bool {
		if details[i].Name != details[j].Name {
			return details[i].Name < details[j].Name
		}
		return details[i].ID < details[j].ID
	})
	return nodes, details
}

// oldGenPercent returns used/max of the old generation as a percentage, or 0
// when the pool or its max is absent.
func oldGenPercent(pool *client.JVMMemoryPool) float64 {
	if pool == nil || pool.MaxInBytes <= 0 {
		return 0
	}
	return float64(pool.UsedInBytes) / float64(pool.MaxInBytes) * 100
}

// tierFromAttributes picks the value of the first attribute key containing
// "tier", scanning keys in sorted order so the pick is stable.
func tierFromAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(k, "tier") {
			return attrs[k]
		}
	}
	return "undefined"
}

// deriveIndices inner-joins the open indices of the cat listing with the
// index-stats document. An index present in only one of the two sources is
// dropped for this cycle; no partial rows are produced.
func deriveIndices(cat []client.CatIndexRow, stats *client.IndexStatsResponse) []model.IndexMetric {
	if stats == nil || len(cat) == 0 {
		return nil
	}

	indices := make([]model.IndexMetric, 0, len(cat))
	for _, row := range cat {
		if row.Status != "open" {
			continue
		}
		entry, ok := stats.Indices[row.Index]
		if !ok {
			continue
		}

		idx := model.IndexMetric{
			Name:          row.Index,
			Health:        row.Health,
			UUID:          row.UUID,
			PrimaryShards: int(catInt(row.Pri)),
			ReplicaShards: int(catInt(row.Rep)),
			DocCount:      catInt(row.DocsCount),
			StoreSizeMB:   catFloat(row.StoreSize),
		}

		if t := entry.Total; t != nil {
			if t.Indexing != nil {
				idx.IndexingTotal = t.Indexing.IndexTotal
			}
			if t.Search != nil {
				idx.SearchTotal = t.Search.QueryTotal
			}
			if t.Segments != nil {
				idx.SegmentsCount = t.Segments.Count
				idx.SegmentsMB = float64(t.Segments.MemoryInBytes) / 1e6
			}
			if t.QueryCache != nil {
				idx.CacheMB = float64(t.QueryCache.MemorySizeInBytes) / 1e6
			}
			if t.Fielddata != nil {
				idx.FielddataMB = float64(t.Fielddata.MemorySizeInBytes) / 1e6
			}
		}
		idx.HeapUsageMB = idx.SegmentsMB + idx.CacheMB + idx.FielddataMB

		indices = append(indices, idx)
	}

	sort.Slice(indices, func(i, j int) bool { return indices[i].Name < indices[j].Name })
	return indices
}

// deriveShards converts the cat-shards listing. Unassigned shards keep empty
// node and ip columns; numeric columns missing there parse to zero.
func deriveShards(cat []client.CatShardRow) []model.ShardMetric {
	if len(cat) == 0 {
		return nil
	}

	shards := make([]model.ShardMetric, 0, len(cat))
	for _, row := range cat {
		shards = append(shards, model.ShardMetric{
			Index:   row.Index,
			Shard:   int(catInt(row.Shard)),
			Primary: row.PriRep == "p",
			State:   row.State,
			Docs:    catInt(row.Docs),
			StoreMB: catFloat(row.Store),
			IP:      row.IP,
			Node:    row.Node,
		})
	}

	sort.Slice(shards, func(i, j int) bool {
		a, b := shards[i], shards[j]
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		if a.Shard != b.Shard {
			return a.Shard < b.Shard
		}
		if a.Primary != b.Primary {
			return a.Primary
		}
		return a.Node < b.Node
	})
	return shards
}

// topHeapIndices returns the n indices with the greatest heap usage,
// descending. The sort is stable so equal heap users keep their collection
// order.
func topHeapIndices(indices []model.IndexMetric, n int) []model.IndexMetric {
	if len(indices) == 0 {
		return nil
	}
	top := append([]model.IndexMetric(nil), indices...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].HeapUsageMB > top[j].HeapUsageMB })
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// countMappingFields computes the recursive field count per index: each
// declared property counts one, plus the count of its own nested properties.
func countMappingFields(m client.MappingsResponse) map[string]int {
	if m == nil {
		return nil
	}
	counts := make(map[string]int, len(m))
	for index, im := range m {
		counts[index] = countProperties(im.Mappings)
	}
	return counts
}

func countProperties(obj client.MappingObject) int {
	total := 0
	for _, child := range obj.Properties {
		total += 1 + countProperties(child)
	}
	return total
}

// deriveSearchTasks flattens the per-node task grouping, resolving each
// task's hosting node name, longest running first.
func deriveSearchTasks(resp *client.TasksResponse) []model.TaskMetric {
	if resp == nil || len(resp.Nodes) == 0 {
		return nil
	}

	var tasks []model.TaskMetric
	for _, node := range resp.Nodes {
		name := node.Name
		if name == "" {
			name = "N/A"
		}
		for _, t := range node.Tasks {
			desc := t.Description
			if desc == "" {
				desc = "N/A"
			}
			tasks = append(tasks, model.TaskMetric{
				Node:               name,
				Action:             t.Action,
				Description:        desc,
				RunningTimeInNanos: t.RunningTimeInNanos,
			})
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].RunningTimeInNanos != tasks[j].RunningTimeInNanos {
			return tasks[i].RunningTimeInNanos > tasks[j].RunningTimeInNanos
		}
		return tasks[i].Description < tasks[j].Description
	})
	return tasks
}

// catInt parses a cat-API numeric column, returning 0 for empty or
// malformed values.
func catInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// catFloat parses a cat-API numeric column, returning 0 for empty or
// malformed values.
func catFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
