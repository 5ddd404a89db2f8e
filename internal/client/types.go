package client

// ClusterHealth represents the response from /_cluster/health.
type ClusterHealth struct {
	ClusterName         string `json:"cluster_name"`
	Status              string `json:"status"`
	NumberOfNodes       int    `json:"number_of_nodes"`
	NumberOfDataNodes   int    `json:"number_of_data_nodes"`
	ActivePrimaryShards int    `json:"active_primary_shards"`
	ActiveShards        int    `json:"active_shards"`
	RelocatingShards    int    `json:"relocating_shards"`
	InitializingShards  int    `json:"initializing_shards"`
	UnassignedShards    int    `json:"unassigned_shards"`
	PendingTasks        int    `json:"number_of_pending_tasks"`
}

// ClusterStats represents the subset of /_cluster/stats used for the overview.
type ClusterStats struct {
	Indices struct {
		Count int64 `json:"count"`
		Docs  struct {
			Count int64 `json:"count"`
		} `json:"docs"`
		Store struct {
			SizeInBytes int64 `json:"size_in_bytes"`
		} `json:"store"`
		Shards struct {
			Total     int64 `json:"total"`
			Primaries int64 `json:"primaries"`
		} `json:"shards"`
	} `json:"indices"`
	Nodes struct {
		Count struct {
			Total int `json:"total"`
		} `json:"count"`
	} `json:"nodes"`
}

// NodeStatsResponse represents the response from /_nodes/stats.
type NodeStatsResponse struct {
	Nodes map[string]NodeStats `json:"nodes"`
}

// NodeStats holds the per-node sections requested by the node-stats query.
// Sections the server omits decode to nil and must be treated as zero.
type NodeStats struct {
	Name       string                     `json:"name"`
	Host       string                     `json:"host"`
	IP         string                     `json:"ip"`
	OS         *NodeOSStats               `json:"os,omitempty"`
	JVM        *NodeJVMStats              `json:"jvm,omitempty"`
	FS         *NodeFSStats               `json:"fs,omitempty"`
	ThreadPool map[string]ThreadPoolStats `json:"thread_pool,omitempty"`
	Breakers   map[string]BreakerStats    `json:"breakers,omitempty"`
}

// NodeOSStats holds OS-level metrics.
type NodeOSStats struct {
	CPU struct {
		Percent float64 `json:"percent"`
	} `json:"cpu"`
}

// NodeJVMStats holds JVM heap and garbage-collection metrics.
type NodeJVMStats struct {
	Mem struct {
		HeapUsedPercent int64 `json:"heap_used_percent"`
		HeapUsedInBytes int64 `json:"heap_used_in_bytes"`
		HeapMaxInBytes  int64 `json:"heap_max_in_bytes"`
		Pools           struct {
			Young    *JVMMemoryPool `json:"young,omitempty"`
			Survivor *JVMMemoryPool `json:"survivor,omitempty"`
			Old      *JVMMemoryPool `json:"old,omitempty"`
		} `json:"pools"`
	} `json:"mem"`
	GC struct {
		Collectors struct {
			Young *JVMCollector `json:"young,omitempty"`
			Old   *JVMCollector `json:"old,omitempty"`
		} `json:"collectors"`
	} `json:"gc"`
}

// JVMMemoryPool holds usage of a single JVM memory generation.
type JVMMemoryPool struct {
	UsedInBytes int64 `json:"used_in_bytes"`
	MaxInBytes  int64 `json:"max_in_bytes"`
}

// JVMCollector holds cumulative counters for a single garbage collector.
type JVMCollector struct {
	CollectionCount        int64 `json:"collection_count"`
	CollectionTimeInMillis int64 `json:"collection_time_in_millis"`
}

// NodeFSStats holds filesystem metrics.
type NodeFSStats struct {
	Total struct {
		TotalInBytes     int64 `json:"total_in_bytes"`
		AvailableInBytes int64 `json:"available_in_bytes"`
	} `json:"total"`
}

// ThreadPoolStats holds counters for a single node thread pool.
type ThreadPoolStats struct {
	Threads   int64 `json:"threads"`
	Queue     int64 `json:"queue"`
	Active    int64 `json:"active"`
	Rejected  int64 `json:"rejected"`
	Largest   int64 `json:"largest"`
	Completed int64 `json:"completed"`
}

// BreakerStats holds counters for a single circuit breaker.
type BreakerStats struct {
	LimitSizeInBytes     int64   `json:"limit_size_in_bytes"`
	EstimatedSizeInBytes int64   `json:"estimated_size_in_bytes"`
	Overhead             float64 `json:"overhead"`
	Tripped              int64   `json:"tripped"`
}

// NodesInfoResponse represents the response from /_nodes/_all/info.
type NodesInfoResponse struct {
	Nodes map[string]NodeInfo `json:"nodes"`
}

// NodeInfo holds static node identity from the info endpoint.
type NodeInfo struct {
	Name       string            `json:"name"`
	Roles      []string          `json:"roles"`
	Attributes map[string]string `json:"attributes"`
}

// CatIndexRow represents a single index entry from /_cat/indices.
// The cat API returns every column as a string; missing values decode to "".
type CatIndexRow struct {
	Health    string `json:"health"`
	Status    string `json:"status"`
	Index     string `json:"index"`
	UUID      string `json:"uuid"`
	Pri       string `json:"pri"`
	Rep       string `json:"rep"`
	DocsCount string `json:"docs.count"`
	StoreSize string `json:"store.size"`
}

// CatShardRow represents a single shard entry from /_cat/shards.
// Unassigned shards carry empty node/ip/store columns.
type CatShardRow struct {
	Index  string `json:"index"`
	Shard  string `json:"shard"`
	PriRep string `json:"prirep"`
	State  string `json:"state"`
	Docs   string `json:"docs"`
	Store  string `json:"store"`
	IP     string `json:"ip"`
	Node   string `json:"node"`
}

// IndexStatsResponse represents the response from /_stats.
type IndexStatsResponse struct {
	Indices map[string]IndexStatEntry `json:"indices"`
}

// IndexStatEntry holds per-index statistics; only the "total" rollup is
// consumed here.
type IndexStatEntry struct {
	Total *IndexStatSections `json:"total,omitempty"`
}

// IndexStatSections holds the stat sections requested by the index-stats query.
type IndexStatSections struct {
	Indexing   *IndexingStats   `json:"indexing,omitempty"`
	Search     *SearchStats     `json:"search,omitempty"`
	Segments   *SegmentsStats   `json:"segments,omitempty"`
	QueryCache *QueryCacheStats `json:"query_cache,omitempty"`
	Fielddata  *FielddataStats  `json:"fielddata,omitempty"`
}

// IndexingStats holds indexing operation counters.
type IndexingStats struct {
	IndexTotal        int64 `json:"index_total"`
	IndexTimeInMillis int64 `json:"index_time_in_millis"`
}

// SearchStats holds search query counters.
type SearchStats struct {
	QueryTotal        int64 `json:"query_total"`
	QueryTimeInMillis int64 `json:"query_time_in_millis"`
}

// SegmentsStats holds segment count and memory.
type SegmentsStats struct {
	Count         int64 `json:"count"`
	MemoryInBytes int64 `json:"memory_in_bytes"`
}

// QueryCacheStats holds query cache memory.
type QueryCacheStats struct {
	MemorySizeInBytes int64 `json:"memory_size_in_bytes"`
}

// FielddataStats holds fielddata memory.
type FielddataStats struct {
	MemorySizeInBytes int64 `json:"memory_size_in_bytes"`
}

// PendingTasksResponse represents the response from /_cluster/pending_tasks.
type PendingTasksResponse struct {
	Tasks []PendingTask `json:"tasks"`
}

// PendingTask is one queued cluster-state update.
type PendingTask struct {
	InsertOrder       int64  `json:"insert_order"`
	Priority          string `json:"priority"`
	Source            string `json:"source"`
	TimeInQueueMillis int64  `json:"time_in_queue_millis"`
}

// TasksResponse represents the response from /_tasks grouped by node.
type TasksResponse struct {
	Nodes map[string]TaskNode `json:"nodes"`
}

// TaskNode holds one node's in-flight tasks.
type TaskNode struct {
	Name  string              `json:"name"`
	Tasks map[string]TaskInfo `json:"tasks"`
}

// TaskInfo is a single in-flight task.
type TaskInfo struct {
	Node               string `json:"node"`
	Action             string `json:"action"`
	Description        string `json:"description"`
	StartTimeInMillis  int64  `json:"start_time_in_millis"`
	RunningTimeInNanos int64  `json:"running_time_in_nanos"`
	Cancellable        bool   `json:"cancellable"`
}

// IndexTemplate is one _index_template entry reduced to the fields the
// template audit needs. NumberOfShards is 0 when the template does not set it.
type IndexTemplate struct {
	Name           string   `json:"name"`
	Patterns       []string `json:"index_patterns"`
	NumberOfShards int      `json:"number_of_shards"`
	HasLifecycle   bool     `json:"has_lifecycle"`
}

// indexTemplatesResponse mirrors the raw /_index_template wire shape.
type indexTemplatesResponse struct {
	IndexTemplates []struct {
		Name          string `json:"name"`
		IndexTemplate struct {
			IndexPatterns []string `json:"index_patterns"`
			Template      struct {
				Settings map[string]any `json:"settings"`
			} `json:"template"`
		} `json:"index_template"`
	} `json:"index_templates"`
}

// MappingsResponse maps index name to its mapping document.
type MappingsResponse map[string]IndexMappings

// IndexMappings holds one index's mapping document.
type IndexMappings struct {
	Mappings MappingObject `json:"mappings"`
}

// MappingObject is a (possibly nested) properties container.
type MappingObject struct {
	Properties map[string]MappingObject `json:"properties"`
}

// ClusterSettings holds the flattened persistent/transient/default setting
// maps from /_cluster/settings.
type ClusterSettings struct {
	Persistent map[string]string `json:"persistent"`
	Transient  map[string]string `json:"transient"`
	Defaults   map[string]string `json:"defaults"`
}

// clusterSettingsResponse mirrors the raw wire shape before flattening.
type clusterSettingsResponse struct {
	Persistent map[string]any `json:"persistent"`
	Transient  map[string]any `json:"transient"`
	Defaults   map[string]any `json:"defaults"`
}
