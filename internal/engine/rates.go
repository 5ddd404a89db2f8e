package engine

import (
	"math"
	"sort"

	"github.com/dm/esaudit-go/internal/model"
)

// ApplyRates fills per-index write and search rates on curr from the counter
// deltas against prev over elapsed seconds.
//
// Rates stay 0 when:
//   - prev is nil or was never populated (first cycle, no baseline)
//   - the index did not exist in prev (newly created, no spurious spike)
//   - the counter moved backwards (index recreated, counter reset)
//
// A zero or negative elapsed is replaced by 1.0 so a misbehaving clock can
// never divide by zero.
func ApplyRates(prev, curr *model.Snapshot, elapsed float64) {
	if curr == nil || prev == nil || prev.FetchedAt.IsZero() {
		return
	}
	if elapsed <= 0 {
		elapsed = 1.0
	}

	prevByName := make(map[string]model.IndexMetric, len(prev.Indices))
	for _, idx := range prev.Indices {
		prevByName[idx.Name] = idx
	}

	for i := range curr.Indices {
		p, ok := prevByName[curr.Indices[i].Name]
		if !ok {
			continue
		}
		curr.Indices[i].WriteRate = rateDelta(curr.Indices[i].IndexingTotal, p.IndexingTotal, elapsed)
		curr.Indices[i].SearchRate = rateDelta(curr.Indices[i].SearchTotal, p.SearchTotal, elapsed)
	}
}

func rateDelta(curr, prev int64, elapsed float64) float64 {
	d := curr - prev
	if d < 0 {
		return 0
	}
	return float64(d) / elapsed
}

// ShardImbalance computes, per index pattern, how unevenly the pattern's
// primary shards are spread across the nodes hosting them. Unassigned
// primaries carry no node and are ignored. Patterns hosted on a single node
// are excluded, as is any pattern whose per-node counts are perfectly even.
// Each skew is joined with the pattern-level sum of its indices' write and
// search rates; results come back worst skew first.
func ShardImbalance(shards []model.ShardMetric, indices []model.IndexMetric) []model.PatternSkew {
	counts := make(map[string]map[string]int)
	for _, sh := range shards {
		if !sh.Primary || sh.Node == "" {
			continue
		}
		p := model.PatternFor(sh.Index)
		if counts[p] == nil {
			counts[p] = make(map[string]int)
		}
		counts[p][sh.Node]++
	}

	writeRate := make(map[string]float64)
	searchRate := make(map[string]float64)
	for _, idx := range indices {
		p := model.PatternFor(idx.Name)
		writeRate[p] += idx.WriteRate
		searchRate[p] += idx.SearchRate
	}

	var skews []model.PatternSkew
	for pattern, byNode := range counts {
		if len(byNode) < 2 {
			continue
		}

		nodeCounts := make([]model.NodeShardCount, 0, len(byNode))
		total := 0
		for node, count := range byNode {
			nodeCounts = append(nodeCounts, model.NodeShardCount{Node: node, Count: count})
			total += count
		}
		sd := countStdDev(nodeCounts)
		if sd <= 0 {
			continue
		}

		sort.Slice(nodeCounts, func(i, j int) bool {
			if nodeCounts[i].Count != nodeCounts[j].Count {
				return nodeCounts[i].Count > nodeCounts[j].Count
			}
			return nodeCounts[i].Node < nodeCounts[j].Node
		})

		skews = append(skews, model.PatternSkew{
			Pattern:    pattern,
			StdDev:     sd,
			Primaries:  total,
			NodeCounts: nodeCounts,
			WriteRate:  writeRate[pattern],
			SearchRate: searchRate[pattern],
		})
	}

	sort.Slice(skews, func(i, j int) bool {
		if skews[i].StdDev != skews[j].StdDev {
			return skews[i].StdDev > skews[j].StdDev
		}
		return skews[i].Pattern < skews[j].Pattern
	})
	return skews
}

// countStdDev is the population standard deviation of the per-node counts.
func countStdDev(counts []model.NodeShardCount) float64 {
	if len(counts) == 0 {
		return 0
	}
	var sum float64
	for _, c := range counts {
		sum += float64(c.Count)
	}
	mean := sum / float64(len(counts))

	var sq float64
	for _, c := range counts {
		d := float64(c.Count) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(counts)))
}
