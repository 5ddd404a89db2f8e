package model

// IndexMetric is the per-index join of the cat-indices row with the index
// stats document. WriteRate and SearchRate stay zero until a rate pass runs
// against a previous snapshot, so a freshly observed index always reports
// zero rates.
type IndexMetric struct {
	Name          string  `json:"index"`
	Health        string  `json:"health"`
	UUID          string  `json:"uuid"`
	PrimaryShards int     `json:"pri"`
	ReplicaShards int     `json:"rep"`
	DocCount      int64   `json:"docs_count"`
	StoreSizeMB   float64 `json:"store_size_mb"`
	IndexingTotal int64   `json:"indexing_total"`
	SearchTotal   int64   `json:"search_total"`
	SegmentsCount int64   `json:"segments_count"`
	SegmentsMB    float64 `json:"memory_segments_mb"`
	CacheMB       float64 `json:"memory_cache_mb"`
	FielddataMB   float64 `json:"memory_fielddata_mb"`
	HeapUsageMB   float64 `json:"heap_usage_mb"`
	WriteRate     float64 `json:"write_rate"`
	SearchRate    float64 `json:"search_rate"`
}
