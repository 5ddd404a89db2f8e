package model

import (
	"time"

	"github.com/dm/esaudit-go/internal/client"
)

// NodeDetail retains one node's raw thread-pool and breaker blobs for the
// deep-dive views, which render deltas between consecutive cycles.
type NodeDetail struct {
	ID       string                            `json:"node_id"`
	Name     string                            `json:"node_name"`
	Pools    map[string]client.ThreadPoolStats `json:"thread_pools"`
	Breakers map[string]client.BreakerStats    `json:"breakers"`
}

// Snapshot is the normalized result of one refresh cycle: the derived entity
// collections plus the auxiliary documents the audits read. A snapshot is
// never mutated after the refresh that built it completes.
type Snapshot struct {
	Health         client.ClusterHealth
	ClusterStats   client.ClusterStats
	Nodes          []NodeMetric
	Indices        []IndexMetric
	Shards         []ShardMetric
	TopHeapIndices []IndexMetric
	NodeDetails    []NodeDetail
	MappingFields  map[string]int
	PendingTasks   []client.PendingTask
	SearchTasks    []TaskMetric
	Templates      []client.IndexTemplate
	Settings       client.ClusterSettings
	FetchedAt      time.Time
}

// Empty reports whether the snapshot carries no entity data at all.
func (s *Snapshot) Empty() bool {
	if s == nil {
		return true
	}
	return len(s.Nodes) == 0 && len(s.Indices) == 0 && len(s.Shards) == 0
}

// Clone returns a deep copy. Mutating the original afterwards is never
// visible through the copy: every slice and map is duplicated, not aliased.
// This is what makes the current→previous rotation a real copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s

	out.Nodes = append([]NodeMetric(nil), s.Nodes...)
	out.Indices = append([]IndexMetric(nil), s.Indices...)
	out.Shards = append([]ShardMetric(nil), s.Shards...)
	out.TopHeapIndices = append([]IndexMetric(nil), s.TopHeapIndices...)
	out.PendingTasks = append([]client.PendingTask(nil), s.PendingTasks...)
	out.SearchTasks = append([]TaskMetric(nil), s.SearchTasks...)

	if s.NodeDetails != nil {
		out.NodeDetails = make([]NodeDetail, len(s.NodeDetails))
		for i, d := range s.NodeDetails {
			out.NodeDetails[i] = NodeDetail{
				ID:       d.ID,
				Name:     d.Name,
				Pools:    clonePoolMap(d.Pools),
				Breakers: cloneBreakerMap(d.Breakers),
			}
		}
	}

	if s.MappingFields != nil {
		out.MappingFields = make(map[string]int, len(s.MappingFields))
		for k, v := range s.MappingFields {
			out.MappingFields[k] = v
		}
	}

	if s.Templates != nil {
		out.Templates = make([]client.IndexTemplate, len(s.Templates))
		copy(out.Templates, s.Templates)
		for i := range out.Templates {
			out.Templates[i].Patterns = append([]string(nil), out.Templates[i].Patterns...)
		}
	}

	out.Settings = client.ClusterSettings{
		Persistent: cloneStringMap(s.Settings.Persistent),
		Transient:  cloneStringMap(s.Settings.Transient),
		Defaults:   cloneStringMap(s.Settings.Defaults),
	}

	return &out
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func clonePoolMap(in map[string]client.ThreadPoolStats) map[string]client.ThreadPoolStats {
	if in == nil {
		return nil
	}
	out := make(map[string]client.ThreadPoolStats, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneBreakerMap(in map[string]client.BreakerStats) map[string]client.BreakerStats {
	if in == nil {
		return nil
	}
	out := make(map[string]client.BreakerStats, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
