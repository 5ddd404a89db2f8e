package model

// NodeLoad correlates one node's resource gauges with the write and search
// load flowing through the shards it hosts. WriteLoad sums write rates over
// the node's primaries only (replicas do not index independently); SearchLoad
// sums search rates over every shard copy on the node.
type NodeLoad struct {
	Node        string  `json:"node"`
	CPUPercent  float64 `json:"cpu_percent"`
	HeapPercent float64 `json:"heap_percent"`
	Primaries   int     `json:"primaries"`
	TotalShards int     `json:"total_shards"`
	WriteLoad   float64 `json:"write_load"`
	SearchLoad  float64 `json:"search_load"`
}

// ShardGroup is one row of the shard-distribution view, aggregated by index
// pattern or by individual index.
type ShardGroup struct {
	Key           string  `json:"key"`
	TotalShards   int     `json:"total_shards"`
	Primaries     int     `json:"primaries"`
	Replicas      int     `json:"replicas"`
	TotalGB       float64 `json:"total_gb"`
	NodesInvolved int     `json:"nodes_involved"`
}

// MappingFieldCount is one index's recursive mapping field count with its
// verdict against the explosion thresholds.
type MappingFieldCount struct {
	Index      string `json:"index_name"`
	FieldCount int    `json:"field_count"`
	Diagnostic string `json:"diagnostic"`
}

// TemplateAudit is one index template correlated with the indices it matches
// and the configuration problems found on it.
type TemplateAudit struct {
	Name        string   `json:"name"`
	Patterns    []string `json:"index_patterns"`
	IndexCount  int      `json:"index_count"`
	TotalDocs   int64    `json:"total_docs"`
	TotalSizeMB float64  `json:"total_size_mb"`
	Diagnostics []string `json:"diagnostics"`
}

// PoolRow is one thread pool of one node in the deep-dive view, with the
// rejection delta against the previous cycle.
type PoolRow struct {
	Pool          string `json:"pool"`
	Active        int64  `json:"active"`
	Queue         int64  `json:"queue"`
	Rejected      int64  `json:"rejected"`
	RejectedDelta int64  `json:"rejected_delta"`
}

// BreakerRow is one circuit breaker of one node in the deep-dive view, with
// the trip delta against the previous cycle.
type BreakerRow struct {
	Breaker      string  `json:"breaker"`
	EstimatedMB  float64 `json:"estimated_mb"`
	LimitMB      float64 `json:"limit_mb"`
	Tripped      int64   `json:"tripped"`
	TrippedDelta int64   `json:"tripped_delta"`
}

// NodeDeepDive is the per-node detail panel: every thread pool and breaker
// with cycle-over-cycle movement.
type NodeDeepDive struct {
	Node     string       `json:"node"`
	Pools    []PoolRow    `json:"thread_pools"`
	Breakers []BreakerRow `json:"breakers"`
}
