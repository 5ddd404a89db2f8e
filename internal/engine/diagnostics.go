package engine

import (
	"fmt"
	"sort"

	"github.com/dm/esaudit-go/internal/client"
	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/model"
)

// Evaluate runs every diagnostic rule over the snapshot against the threshold
// table and returns the full finding set for this cycle. The evaluation is
// stateless: nothing is remembered or deduplicated across cycles, and no
// finding suppresses another. Returns an empty (non-nil) slice when snap is
// nil or healthy.
func Evaluate(snap *model.Snapshot, th config.Thresholds) []model.Finding {
	findings := []model.Finding{}
	if snap == nil {
		return findings
	}

	findings = append(findings, nodeFindings(snap.Nodes, snap.TopHeapIndices, th)...)
	findings = append(findings, clusterFindings(snap.Health)...)
	findings = append(findings, imbalanceFindings(snap.Shards, snap.Indices)...)
	findings = append(findings, shardFindings(snap.Shards, th)...)
	findings = append(findings, mappingFindings(snap.MappingFields, th)...)
	findings = append(findings, driftFindings(snap.Settings)...)
	findings = append(findings, taskFindings(snap.SearchTasks, th)...)
	findings = append(findings, templateFindings(snap.Templates, th)...)
	return findings
}

// nodeFindings evaluates the per-node resource rules. The heap finding names
// the cluster's top heap-consuming index when one is known, since that is the
// first place to look.
func nodeFindings(nodes []model.NodeMetric, topHeap []model.IndexMetric, th config.Thresholds) []model.Finding {
	var findings []model.Finding

	for _, n := range nodes {
		if n.HeapOldGenPercent > th.HeapOldGenPercent {
			msg := fmt.Sprintf("node %s: old-gen heap %.1f%% exceeds %.0f%%", n.Name, n.HeapOldGenPercent, th.HeapOldGenPercent)
			if len(topHeap) > 0 {
				msg += fmt.Sprintf("; top consumer index %s uses %.1fMB", topHeap[0].Name, topHeap[0].HeapUsageMB)
			}
			findings = append(findings, model.Finding{
				Kind:     model.FindingHeapOldGenHigh,
				Severity: model.SeverityCritical,
				Entity:   n.Name,
				Value:    n.HeapOldGenPercent,
				Message:  msg,
			})
		}

		if n.CPUPercent > th.CPUPercent {
			findings = append(findings, model.Finding{
				Kind:     model.FindingCpuHigh,
				Severity: model.SeverityWarning,
				Entity:   n.Name,
				Value:    n.CPUPercent,
				Message:  fmt.Sprintf("node %s: CPU %.1f%% exceeds %.0f%%", n.Name, n.CPUPercent, th.CPUPercent),
			})
		}

		if n.GCTimeMs > th.GCTimeMs {
			findings = append(findings, model.Finding{
				Kind:     model.FindingGcExcessive,
				Severity: model.SeverityWarning,
				Entity:   n.Name,
				Value:    float64(n.GCTimeMs),
				Message:  fmt.Sprintf("node %s: %dms spent in old-gen GC (%d collections) exceeds %dms", n.Name, n.GCTimeMs, n.GCCount, th.GCTimeMs),
			})
		}

		if n.Rejections > 0 {
			findings = append(findings, model.Finding{
				Kind:     model.FindingWriteRejections,
				Severity: model.SeverityWarning,
				Entity:   n.Name,
				Value:    float64(n.Rejections),
				Message:  fmt.Sprintf("node %s: %d thread-pool rejections; the node is shedding load", n.Name, n.Rejections),
			})
		}

		if n.BreakersTripped > 0 {
			findings = append(findings, model.Finding{
				Kind:     model.FindingCircuitBreakerTripped,
				Severity: model.SeverityCritical,
				Entity:   n.Name,
				Value:    float64(n.BreakersTripped),
				Message:  fmt.Sprintf("node %s: circuit breakers tripped %d times; requests were rejected to protect memory", n.Name, n.BreakersTripped),
			})
		}
	}
	return findings
}

// clusterFindings evaluates cluster-health level rules.
func clusterFindings(health client.ClusterHealth) []model.Finding {
	if health.UnassignedShards <= 0 {
		return nil
	}
	entity := health.ClusterName
	if entity == "" {
		entity = "cluster"
	}
	return []model.Finding{{
		Kind:     model.FindingUnassignedShards,
		Severity: model.SeverityCritical,
		Entity:   entity,
		Value:    float64(health.UnassignedShards),
		Message:  fmt.Sprintf("cluster %s: %d unassigned shards (status %s)", entity, health.UnassignedShards, health.Status),
	}}
}

// imbalanceFindings turns each reported pattern skew into a finding.
func imbalanceFindings(shards []model.ShardMetric, indices []model.IndexMetric) []model.Finding {
	var findings []model.Finding
	for _, skew := range ShardImbalance(shards, indices) {
		top := skew.NodeCounts[0]
		findings = append(findings, model.Finding{
			Kind:     model.FindingShardImbalance,
			Severity: model.SeverityWarning,
			Entity:   skew.Pattern,
			Value:    skew.StdDev,
			Message: fmt.Sprintf("pattern %s: %d primaries skewed across %d nodes (stddev %.2f, heaviest node %s holds %d)",
				skew.Pattern, skew.Primaries, len(skew.NodeCounts), skew.StdDev, top.Node, top.Count),
		})
	}
	return findings
}

// shardFindings flags started shards that are empty or small enough that
// their per-shard overhead outweighs the data they hold.
func shardFindings(shards []model.ShardMetric, th config.Thresholds) []model.Finding {
	var findings []model.Finding
	for _, sh := range shards {
		if sh.State != model.ShardStateStarted {
			continue
		}
		entity := fmt.Sprintf("%s[%d]", sh.Index, sh.Shard)

		if sh.Docs == 0 {
			findings = append(findings, model.Finding{
				Kind:     model.FindingEmptyShard,
				Severity: model.SeverityInfo,
				Entity:   entity,
				Value:    0,
				Message:  fmt.Sprintf("shard %s on %s: started but holds no documents", entity, sh.Node),
			})
			continue
		}

		if sh.StoreMB < th.DustyShardMB {
			findings = append(findings, model.Finding{
				Kind:     model.FindingDustyShard,
				Severity: model.SeverityInfo,
				Entity:   entity,
				Value:    sh.StoreMB,
				Message:  fmt.Sprintf("shard %s on %s: %d docs in %.1fMB, below the %.0fMB dust threshold", entity, sh.Node, sh.Docs, sh.StoreMB, th.DustyShardMB),
			})
		}
	}
	return findings
}

// mappingFindings flags indices whose recursive mapping field count has
// exploded past, or is approaching, the field limit.
func mappingFindings(fields map[string]int, th config.Thresholds) []model.Finding {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []model.Finding
	for _, name := range names {
		count := fields[name]
		switch {
		case count > th.MappingFields:
			findings = append(findings, model.Finding{
				Kind:     model.FindingMappingExplosion,
				Severity: model.SeverityCritical,
				Entity:   name,
				Value:    float64(count),
				Message:  fmt.Sprintf("index %s: %d mapped fields exceeds the %d-field limit", name, count, th.MappingFields),
			})
		case count > th.MappingFieldsWarn:
			findings = append(findings, model.Finding{
				Kind:     model.FindingMappingExplosion,
				Severity: model.SeverityWarning,
				Entity:   name,
				Value:    float64(count),
				Message:  fmt.Sprintf("index %s: %d mapped fields approaching the %d-field limit", name, count, th.MappingFields),
			})
		}
	}
	return findings
}

// driftFindings reports persistent settings that deviate from the declared
// defaults and every transient setting. A transient value disappears on full
// cluster restart, so carrying one is always worth surfacing.
func driftFindings(settings client.ClusterSettings) []model.Finding {
	var findings []model.Finding

	for _, key := range sortedKeys(settings.Persistent) {
		value := settings.Persistent[key]
		if def, ok := settings.Defaults[key]; ok && def == value {
			continue
		}
		findings = append(findings, model.Finding{
			Kind:     model.FindingConfigDrift,
			Severity: model.SeverityWarning,
			Entity:   key,
			Message:  fmt.Sprintf("setting %s: persistent value %q overrides the default", key, value),
		})
	}

	for _, key := range sortedKeys(settings.Transient) {
		findings = append(findings, model.Finding{
			Kind:     model.FindingConfigDrift,
			Severity: model.SeverityCritical,
			Entity:   key,
			Message:  fmt.Sprintf("setting %s: transient value %q is set and will be lost on restart", key, settings.Transient[key]),
		})
	}
	return findings
}

// taskFindings flags search tasks that have been running beyond the slow-task
// threshold.
func taskFindings(tasks []model.TaskMetric, th config.Thresholds) []model.Finding {
	var findings []model.Finding
	for _, t := range tasks {
		minutes := t.RunningMinutes()
		if minutes <= th.SlowTaskMinutes {
			continue
		}
		findings = append(findings, model.Finding{
			Kind:     model.FindingSlowTask,
			Severity: model.SeverityWarning,
			Entity:   t.Node,
			Value:    minutes,
			Message:  fmt.Sprintf("node %s: search task running %.1f min exceeds %.0f min: %s", t.Node, minutes, th.SlowTaskMinutes, truncateString(t.Description, 120)),
		})
	}
	return findings
}

// templateFindings evaluates the index-template configuration rules.
func templateFindings(templates []client.IndexTemplate, th config.Thresholds) []model.Finding {
	var findings []model.Finding
	for _, t := range templates {
		if !t.HasLifecycle {
			findings = append(findings, model.Finding{
				Kind:     model.FindingTemplateNoILM,
				Severity: model.SeverityWarning,
				Entity:   t.Name,
				Message:  fmt.Sprintf("template %s: no lifecycle policy attached; matching indices grow unbounded", t.Name),
			})
		}
		if t.NumberOfShards > th.TemplateMaxShards {
			findings = append(findings, model.Finding{
				Kind:     model.FindingTemplateHighShards,
				Severity: model.SeverityWarning,
				Entity:   t.Name,
				Value:    float64(t.NumberOfShards),
				Message:  fmt.Sprintf("template %s: declares %d primary shards per index, above %d", t.Name, t.NumberOfShards, th.TemplateMaxShards),
			})
		}
		for _, p := range t.Patterns {
			if p == "*" || p == "*-*" {
				findings = append(findings, model.Finding{
					Kind:     model.FindingTemplateWildcard,
					Severity: model.SeverityCritical,
					Entity:   t.Name,
					Message:  fmt.Sprintf("template %s: pattern %q captures every new index", t.Name, p),
				})
			}
		}
	}
	return findings
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncateString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
