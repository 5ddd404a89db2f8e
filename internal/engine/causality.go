package engine

import (
	"fmt"
	"sort"

	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/model"
)

// BuildCausality assembles, for every node over the old-gen heap threshold,
// the ordered evidentiary chain behind the pressure: the symptom, whether GC
// time corroborates it, which indices drive load into the node's primary
// shards, the cluster-wide top heap consumer, and a closing hypothesis. The
// line order is the diagnostic narrative and is preserved by every renderer.
func BuildCausality(snap *model.Snapshot, th config.Thresholds) []model.CausalityReport {
	if snap == nil {
		return nil
	}

	var reports []model.CausalityReport
	for _, n := range snap.Nodes {
		if n.HeapOldGenPercent <= th.HeapOldGenPercent {
			continue
		}
		reports = append(reports, model.CausalityReport{
			NodeName:    n.Name,
			ReportLines: chainFor(n, snap, th),
		})
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].NodeName < reports[j].NodeName })
	return reports
}

func chainFor(n model.NodeMetric, snap *model.Snapshot, th config.Thresholds) []string {
	lines := []string{
		fmt.Sprintf("Symptom: old-gen heap on node '%s' is at %.1f%%, above the %.0f%% threshold.",
			n.Name, n.HeapOldGenPercent, th.HeapOldGenPercent),
	}

	if n.GCTimeMs > th.GCTimeMs {
		lines = append(lines, fmt.Sprintf(
			"GC correlation: %dms spent collecting the old generation (threshold %dms) confirms memory pressure.",
			n.GCTimeMs, th.GCTimeMs))
	} else {
		lines = append(lines, fmt.Sprintf(
			"GC correlation: %dms of old-gen collection time is under the %dms threshold; GC evidence is inconclusive.",
			n.GCTimeMs, th.GCTimeMs))
	}

	topWrite, topSearch := topContributors(n.Name, snap)
	switch {
	case topWrite != nil && topSearch != nil:
		lines = append(lines, fmt.Sprintf(
			"Load attribution: primary shards here take the heaviest writes from '%s' (%.1f docs/s) and the heaviest searches from '%s' (%.1f req/s).",
			topWrite.Name, topWrite.WriteRate, topSearch.Name, topSearch.SearchRate))
	case topWrite != nil:
		lines = append(lines, fmt.Sprintf(
			"Load attribution: primary shards here take the heaviest writes from '%s' (%.1f docs/s).",
			topWrite.Name, topWrite.WriteRate))
	case topSearch != nil:
		lines = append(lines, fmt.Sprintf(
			"Load attribution: primary shards here take the heaviest searches from '%s' (%.1f req/s).",
			topSearch.Name, topSearch.SearchRate))
	default:
		lines = append(lines, "Load attribution: no measurable write or search load on this node's primary shards.")
	}

	var topHeap *model.IndexMetric
	if len(snap.TopHeapIndices) > 0 {
		topHeap = &snap.TopHeapIndices[0]
		lines = append(lines, fmt.Sprintf(
			"Cluster-wide, index '%s' holds the most index heap at %.1fMB.", topHeap.Name, topHeap.HeapUsageMB))
	}

	lines = append(lines, hypothesis(n.Name, topWrite, topSearch, topHeap))
	return lines
}

// topContributors finds the indices with the highest write and search rates
// among those holding a primary shard on the node. A contributor whose rate
// is zero is omitted.
func topContributors(node string, snap *model.Snapshot) (topWrite, topSearch *model.IndexMetric) {
	onNode := make(map[string]bool)
	for _, sh := range snap.Shards {
		if sh.Primary && sh.Node == node {
			onNode[sh.Index] = true
		}
	}

	for i := range snap.Indices {
		idx := &snap.Indices[i]
		if !onNode[idx.Name] {
			continue
		}
		if idx.WriteRate > 0 && (topWrite == nil || idx.WriteRate > topWrite.WriteRate) {
			topWrite = idx
		}
		if idx.SearchRate > 0 && (topSearch == nil || idx.SearchRate > topSearch.SearchRate) {
			topSearch = idx
		}
	}
	return topWrite, topSearch
}

// hypothesis closes the chain with a one-sentence synthesis of the load and
// heap evidence, degrading to whatever evidence exists.
func hypothesis(node string, topWrite, topSearch, topHeap *model.IndexMetric) string {
	load := ""
	switch {
	case topWrite != nil:
		load = topWrite.Name
	case topSearch != nil:
		load = topSearch.Name
	}

	switch {
	case load != "" && topHeap != nil:
		return fmt.Sprintf("Hypothesis: load on '%s' combined with heap retained by '%s' keeps old-gen occupancy high on '%s'.",
			load, topHeap.Name, node)
	case topHeap != nil:
		return fmt.Sprintf("Hypothesis: heap retained by '%s' keeps old-gen occupancy high on '%s'.",
			topHeap.Name, node)
	case load != "":
		return fmt.Sprintf("Hypothesis: sustained load on '%s' keeps old-gen occupancy high on '%s'.",
			load, node)
	default:
		return fmt.Sprintf("Hypothesis: old-gen pressure on '%s' is not explained by current shard load; inspect long-lived heap users (fielddata, caches).", node)
	}
}
