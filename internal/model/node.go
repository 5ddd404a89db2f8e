package model

// NodeMetric is the derived per-node view computed on every refresh. Instances
// are rebuilt whole each cycle and never mutated afterwards; the prior cycle's
// instances survive unmodified in the previous snapshot.
type NodeMetric struct {
	ID                string  `json:"node_id"`
	Name              string  `json:"node_name"`
	Tier              string  `json:"tier"`
	CPUPercent        float64 `json:"cpu_percent"`
	HeapPercent       float64 `json:"heap_percent"`
	HeapOldGenPercent float64 `json:"heap_old_gen_percent"`
	GCCount           int64   `json:"gc_count"`
	GCTimeMs          int64   `json:"gc_time_ms"`
	BreakersTripped   int64   `json:"breakers_tripped"`
	Rejections        int64   `json:"rejections"`
}
