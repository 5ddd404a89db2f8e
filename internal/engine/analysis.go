package engine

import (
	"fmt"
	"path"
	"regexp"
	"sort"

	"github.com/dm/esaudit-go/internal/client"
	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/model"
)

// Shard-distribution grouping and ordering keys accepted by ShardGroups.
const (
	GroupByPattern = "pattern"
	GroupByIndex   = "index"

	SortByTotalShards   = "total_shards"
	SortByTotalGB       = "total_gb"
	SortByPrimaries     = "primaries"
	SortByNodesInvolved = "nodes_involved"
)

// NodeLoads correlates each node's resource gauges with the rate load flowing
// through the shards it hosts. Write load sums only the node's primaries
// (replicas do not index on their own); search load sums every shard copy on
// the node. Busiest CPU first.
func NodeLoads(snap *model.Snapshot) []model.NodeLoad {
	if snap == nil {
		return nil
	}

	rates := make(map[string]model.IndexMetric, len(snap.Indices))
	for _, idx := range snap.Indices {
		rates[idx.Name] = idx
	}

	loads := make([]model.NodeLoad, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		load := model.NodeLoad{
			Node:        n.Name,
			CPUPercent:  n.CPUPercent,
			HeapPercent: n.HeapPercent,
		}
		for _, sh := range snap.Shards {
			if sh.Node != n.Name {
				continue
			}
			load.TotalShards++
			load.SearchLoad += rates[sh.Index].SearchRate
			if sh.Primary {
				load.Primaries++
				load.WriteLoad += rates[sh.Index].WriteRate
			}
		}
		loads = append(loads, load)
	}

	sort.Slice(loads, func(i, j int) bool {
		if loads[i].CPUPercent != loads[j].CPUPercent {
			return loads[i].CPUPercent > loads[j].CPUPercent
		}
		return loads[i].Node < loads[j].Node
	})
	return loads
}

// ShardGroups aggregates the shard table by index pattern or by individual
// index and orders the groups by the requested column, largest first.
// Unknown groupBy falls back to pattern; unknown sortBy to total shards.
func ShardGroups(shards []model.ShardMetric, groupBy, sortBy string) []model.ShardGroup {
	type agg struct {
		group model.ShardGroup
		nodes map[string]bool
	}

	groups := make(map[string]*agg)
	for _, sh := range shards {
		key := model.PatternFor(sh.Index)
		if groupBy == GroupByIndex {
			key = sh.Index
		}
		a := groups[key]
		if a == nil {
			a = &agg{group: model.ShardGroup{Key: key}, nodes: make(map[string]bool)}
			groups[key] = a
		}
		a.group.TotalShards++
		if sh.Primary {
			a.group.Primaries++
		} else {
			a.group.Replicas++
		}
		a.group.TotalGB += sh.StoreMB / 1024
		if sh.Node != "" {
			a.nodes[sh.Node] = true
		}
	}

	result := make([]model.ShardGroup, 0, len(groups))
	for _, a := range groups {
		a.group.NodesInvolved = len(a.nodes)
		result = append(result, a.group)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch sortBy {
		case SortByTotalGB:
			if a.TotalGB != b.TotalGB {
				return a.TotalGB > b.TotalGB
			}
		case SortByPrimaries:
			if a.Primaries != b.Primaries {
				return a.Primaries > b.Primaries
			}
		case SortByNodesInvolved:
			if a.NodesInvolved != b.NodesInvolved {
				return a.NodesInvolved > b.NodesInvolved
			}
		default:
			if a.TotalShards != b.TotalShards {
				return a.TotalShards > b.TotalShards
			}
		}
		return a.Key < b.Key
	})
	return result
}

// SlowTasks returns the search tasks running longer than limitMinutes,
// slowest first.
func SlowTasks(tasks []model.TaskMetric, limitMinutes float64) []model.SlowTask {
	var slow []model.SlowTask
	for _, t := range tasks {
		if t.RunningMinutes() <= limitMinutes {
			continue
		}
		slow = append(slow, model.SlowTask{
			Node:        t.Node,
			TimeMin:     t.RunningMinutes(),
			Description: t.Description,
		})
	}
	sort.Slice(slow, func(i, j int) bool {
		if slow[i].TimeMin != slow[j].TimeMin {
			return slow[i].TimeMin > slow[j].TimeMin
		}
		return slow[i].Description < slow[j].Description
	})
	return slow
}

// tenantRe matches explicit tenant markers such as "tenant:acme" or
// "tenant_42" inside a task description.
var tenantRe = regexp.MustCompile(`(?i)tenant[:=_-]([a-zA-Z0-9-]+)`)

// taskIndicesRe pulls the first index name out of a search task description,
// which usually starts with "indices[a,b,...]".
var taskIndicesRe = regexp.MustCompile(`indices\[([^\],]+)`)

// ToxicTenants annotates search tasks running beyond limitMinutes with the
// hosting node's CPU and a best-effort tenant identity pulled from the task
// description. The extraction is a heuristic over an opaque string and may
// yield "unknown"; nothing else depends on it.
func ToxicTenants(snap *model.Snapshot, limitMinutes float64) []model.ToxicTenant {
	if snap == nil {
		return nil
	}

	cpuByNode := make(map[string]float64, len(snap.Nodes))
	for _, n := range snap.Nodes {
		cpuByNode[n.Name] = n.CPUPercent
	}

	var tenants []model.ToxicTenant
	for _, t := range snap.SearchTasks {
		if t.RunningMinutes() <= limitMinutes {
			continue
		}
		tenants = append(tenants, model.ToxicTenant{
			NodeName:     t.Node,
			CPU:          cpuByNode[t.Node],
			TenantID:     extractTenant(t.Description),
			RunningTimeS: t.RunningSeconds(),
			Description:  t.Description,
		})
	}

	sort.Slice(tenants, func(i, j int) bool {
		if tenants[i].RunningTimeS != tenants[j].RunningTimeS {
			return tenants[i].RunningTimeS > tenants[j].RunningTimeS
		}
		return tenants[i].NodeName < tenants[j].NodeName
	})
	return tenants
}

// extractTenant guesses the tenant behind a query description: an explicit
// tenant token wins, otherwise the first targeted index stands in for it.
func extractTenant(description string) string {
	if m := tenantRe.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	if m := taskIndicesRe.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	return "unknown"
}

// TemplateAudits correlates each index template with the open indices its
// patterns match and lists the configuration problems found on it. Templates
// come back sorted by name.
func TemplateAudits(templates []client.IndexTemplate, indices []model.IndexMetric, maxShards int) []model.TemplateAudit {
	audits := make([]model.TemplateAudit, 0, len(templates))
	for _, t := range templates {
		audit := model.TemplateAudit{
			Name:     t.Name,
			Patterns: t.Patterns,
		}

		for _, idx := range indices {
			if !matchesAny(t.Patterns, idx.Name) {
				continue
			}
			audit.IndexCount++
			audit.TotalDocs += idx.DocCount
			audit.TotalSizeMB += idx.StoreSizeMB
		}

		if !t.HasLifecycle {
			audit.Diagnostics = append(audit.Diagnostics, "no ILM policy")
		}
		if t.NumberOfShards > maxShards {
			audit.Diagnostics = append(audit.Diagnostics, fmt.Sprintf("high shard count (%d)", t.NumberOfShards))
		}
		for _, p := range t.Patterns {
			if p == "*" || p == "*-*" {
				audit.Diagnostics = append(audit.Diagnostics, fmt.Sprintf("generic wildcard (%q)", p))
			}
		}

		audits = append(audits, audit)
	}

	sort.Slice(audits, func(i, j int) bool { return audits[i].Name < audits[j].Name })
	return audits
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// MappingReport turns the per-index recursive field counts into rows with
// their verdicts against the explosion thresholds, widest mapping first.
func MappingReport(fields map[string]int, th config.Thresholds) []model.MappingFieldCount {
	rows := make([]model.MappingFieldCount, 0, len(fields))
	for name, count := range fields {
		diag := "ok"
		switch {
		case count > th.MappingFields:
			diag = fmt.Sprintf("exceeds the %d-field limit", th.MappingFields)
		case count > th.MappingFieldsWarn:
			diag = fmt.Sprintf("approaching the %d-field limit", th.MappingFields)
		}
		rows = append(rows, model.MappingFieldCount{Index: name, FieldCount: count, Diagnostic: diag})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FieldCount != rows[j].FieldCount {
			return rows[i].FieldCount > rows[j].FieldCount
		}
		return rows[i].Index < rows[j].Index
	})
	return rows
}

// DeepDive builds the per-node thread-pool and breaker detail with
// cycle-over-cycle deltas. Nodes present only in curr show zero deltas.
func DeepDive(curr, prev *model.Snapshot) []model.NodeDeepDive {
	if curr == nil {
		return nil
	}

	prevByID := make(map[string]model.NodeDetail)
	if prev != nil {
		for _, d := range prev.NodeDetails {
			prevByID[d.ID] = d
		}
	}

	dives := make([]model.NodeDeepDive, 0, len(curr.NodeDetails))
	for _, d := range curr.NodeDetails {
		before := prevByID[d.ID]
		dive := model.NodeDeepDive{Node: d.Name}

		for _, pool := range sortedPoolNames(d.Pools) {
			stats := d.Pools[pool]
			row := model.PoolRow{
				Pool:     pool,
				Active:   stats.Active,
				Queue:    stats.Queue,
				Rejected: stats.Rejected,
			}
			if prevStats, ok := before.Pools[pool]; ok {
				row.RejectedDelta = stats.Rejected - prevStats.Rejected
			}
			dive.Pools = append(dive.Pools, row)
		}

		for _, name := range sortedBreakerNames(d.Breakers) {
			stats := d.Breakers[name]
			row := model.BreakerRow{
				Breaker:     name,
				EstimatedMB: float64(stats.EstimatedSizeInBytes) / 1e6,
				LimitMB:     float64(stats.LimitSizeInBytes) / 1e6,
				Tripped:     stats.Tripped,
			}
			if prevStats, ok := before.Breakers[name]; ok {
				row.TrippedDelta = stats.Tripped - prevStats.Tripped
			}
			dive.Breakers = append(dive.Breakers, row)
		}

		dives = append(dives, dive)
	}
	return dives
}

func sortedPoolNames(m map[string]client.ThreadPoolStats) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedBreakerNames(m map[string]client.BreakerStats) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
