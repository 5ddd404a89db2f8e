package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// newTestClient creates a DefaultClient pointed at the given test server URL.
func newTestClient(t *testing.T, baseURL string) *DefaultClient {
	t.Helper()
	c, err := NewDefaultClient(ClientConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	return c
}

func TestNewDefaultClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewDefaultClient(ClientConfig{}); err == nil {
		t.Error("expected error for empty BaseURL, got nil")
	}
}

func TestNewDefaultClient_DefaultTimeout(t *testing.T) {
	c, err := NewDefaultClient(ClientConfig{BaseURL: "http://localhost:9200"})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	if c.http.Timeout != 10*time.Second {
		t.Errorf("default timeout = %v, want 10s", c.http.Timeout)
	}

	c2, err := NewDefaultClient(ClientConfig{BaseURL: "http://localhost:9200", RequestTimeout: 3 * time.Second})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	if c2.http.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", c2.http.Timeout)
	}
}

func TestBaseURL(t *testing.T) {
	c := newTestClient(t, "http://es1:9200")
	if c.BaseURL() != "http://es1:9200" {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), "http://es1:9200")
	}
}

func TestTrailingSlashBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_cluster/health" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/_cluster/health")
		}
		_, _ = w.Write([]byte(`{"status":"green"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/")
	if _, err := c.GetClusterHealth(context.Background()); err != nil {
		t.Fatalf("GetClusterHealth: %v", err)
	}
}

func TestGetClusterHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_cluster/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cluster_name": "prod",
			"status": "yellow",
			"number_of_nodes": 5,
			"number_of_data_nodes": 3,
			"active_primary_shards": 120,
			"active_shards": 230,
			"relocating_shards": 2,
			"initializing_shards": 1,
			"unassigned_shards": 9,
			"number_of_pending_tasks": 4
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	health, err := c.GetClusterHealth(context.Background())
	if err != nil {
		t.Fatalf("GetClusterHealth: %v", err)
	}
	if health.ClusterName != "prod" {
		t.Errorf("ClusterName = %q, want %q", health.ClusterName, "prod")
	}
	if health.Status != "yellow" {
		t.Errorf("Status = %q, want %q", health.Status, "yellow")
	}
	if health.NumberOfDataNodes != 3 {
		t.Errorf("NumberOfDataNodes = %d, want 3", health.NumberOfDataNodes)
	}
	if health.UnassignedShards != 9 {
		t.Errorf("UnassignedShards = %d, want 9", health.UnassignedShards)
	}
	if health.PendingTasks != 4 {
		t.Errorf("PendingTasks = %d, want 4", health.PendingTasks)
	}
}

func TestGetClusterStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_cluster/stats" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"indices": {
				"count": 12,
				"docs": {"count": 3400000},
				"store": {"size_in_bytes": 9663676416},
				"shards": {"total": 48, "primaries": 24}
			},
			"nodes": {"count": {"total": 5}}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	stats, err := c.GetClusterStats(context.Background())
	if err != nil {
		t.Fatalf("GetClusterStats: %v", err)
	}
	if stats.Indices.Count != 12 {
		t.Errorf("Indices.Count = %d, want 12", stats.Indices.Count)
	}
	if stats.Indices.Docs.Count != 3400000 {
		t.Errorf("Docs.Count = %d, want 3400000", stats.Indices.Docs.Count)
	}
	if stats.Indices.Store.SizeInBytes != 9663676416 {
		t.Errorf("Store.SizeInBytes = %d, want 9663676416", stats.Indices.Store.SizeInBytes)
	}
	if stats.Indices.Shards.Primaries != 24 {
		t.Errorf("Shards.Primaries = %d, want 24", stats.Indices.Shards.Primaries)
	}
	if stats.Nodes.Count.Total != 5 {
		t.Errorf("Nodes.Count.Total = %d, want 5", stats.Nodes.Count.Total)
	}
}

func TestGetNodeStats(t *testing.T) {
	fixture := `{
		"nodes": {
			"abc123": {
				"name": "es-data-1",
				"host": "10.0.0.1",
				"ip": "10.0.0.1:9300",
				"os": {"cpu": {"percent": 45}},
				"jvm": {
					"mem": {
						"heap_used_percent": 62,
						"heap_used_in_bytes": 536870912,
						"heap_max_in_bytes": 1073741824,
						"pools": {
							"young": {"used_in_bytes": 67108864, "max_in_bytes": 268435456},
							"old": {"used_in_bytes": 402653184, "max_in_bytes": 715827200}
						}
					},
					"gc": {
						"collectors": {
							"young": {"collection_count": 120, "collection_time_in_millis": 900},
							"old": {"collection_count": 4, "collection_time_in_millis": 350}
						}
					}
				},
				"fs": {"total": {"total_in_bytes": 10737418240, "available_in_bytes": 5368709120}},
				"thread_pool": {
					"search": {"threads": 7, "queue": 12, "active": 3, "rejected": 5},
					"write": {"threads": 4, "queue": 0, "active": 1, "rejected": 0}
				},
				"breakers": {
					"parent": {"limit_size_in_bytes": 700000000, "estimated_size_in_bytes": 650000000, "overhead": 1.0, "tripped": 2}
				}
			},
			"def456": {"name": "es-master-1"}
		}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/_nodes/stats/") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.GetNodeStats(context.Background())
	if err != nil {
		t.Fatalf("GetNodeStats: %v", err)
	}
	if len(resp.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(resp.Nodes))
	}

	data := resp.Nodes["abc123"]
	if data.Name != "es-data-1" {
		t.Errorf("Name = %q, want %q", data.Name, "es-data-1")
	}
	if data.OS == nil || data.OS.CPU.Percent != 45 {
		t.Errorf("OS.CPU.Percent = %+v, want 45", data.OS)
	}
	if data.JVM == nil {
		t.Fatal("JVM section missing")
	}
	if data.JVM.Mem.HeapUsedPercent != 62 {
		t.Errorf("HeapUsedPercent = %d, want 62", data.JVM.Mem.HeapUsedPercent)
	}
	old := data.JVM.Mem.Pools.Old
	if old == nil || old.UsedInBytes != 402653184 || old.MaxInBytes != 715827200 {
		t.Errorf("Pools.Old = %+v, want used 402653184 max 715827200", old)
	}
	oldGC := data.JVM.GC.Collectors.Old
	if oldGC == nil || oldGC.CollectionTimeInMillis != 350 {
		t.Errorf("Collectors.Old = %+v, want time 350", oldGC)
	}
	if data.FS == nil || data.FS.Total.AvailableInBytes != 5368709120 {
		t.Errorf("FS.Total = %+v, want available 5368709120", data.FS)
	}
	if got := data.ThreadPool["search"].Rejected; got != 5 {
		t.Errorf("ThreadPool[search].Rejected = %d, want 5", got)
	}
	if got := data.Breakers["parent"].Tripped; got != 2 {
		t.Errorf("Breakers[parent].Tripped = %d, want 2", got)
	}

	// A node missing whole sections decodes with nil pointers, not zero structs.
	master := resp.Nodes["def456"]
	if master.OS != nil || master.JVM != nil || master.FS != nil {
		t.Errorf("expected nil sections for bare node, got %+v", master)
	}
	if master.ThreadPool != nil {
		t.Errorf("expected nil ThreadPool, got %+v", master.ThreadPool)
	}
}

func TestGetNodesInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/_nodes/_all/info") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"nodes": {
				"abc123": {
					"name": "es-data-1",
					"roles": ["data_hot", "ingest"],
					"attributes": {"zone": "a", "box_type": "hot"}
				}
			}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.GetNodesInfo(context.Background())
	if err != nil {
		t.Fatalf("GetNodesInfo: %v", err)
	}
	info := resp.Nodes["abc123"]
	if info.Name != "es-data-1" {
		t.Errorf("Name = %q, want %q", info.Name, "es-data-1")
	}
	if len(info.Roles) != 2 || info.Roles[0] != "data_hot" {
		t.Errorf("Roles = %v, want [data_hot ingest]", info.Roles)
	}
	if info.Attributes["box_type"] != "hot" {
		t.Errorf("Attributes[box_type] = %q, want %q", info.Attributes["box_type"], "hot")
	}
}

func TestGetCatIndices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_cat/indices" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if !strings.Contains(r.URL.RawQuery, "format=json") {
			t.Errorf("format=json missing from query: %q", r.URL.RawQuery)
		}
		if !strings.Contains(r.URL.RawQuery, "bytes=mb") {
			t.Errorf("bytes=mb missing from query: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[
			{"health":"green","status":"open","index":"logs-2024.01.15","uuid":"u1","pri":"3","rep":"1","docs.count":"1000000","store.size":"2048"},
			{"health":"yellow","status":"open","index":"orders","uuid":"u2","pri":"1","rep":"1","docs.count":"5000","store.size":"12"}
		]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	rows, err := c.GetCatIndices(context.Background())
	if err != nil {
		t.Fatalf("GetCatIndices: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Index != "logs-2024.01.15" {
		t.Errorf("rows[0].Index = %q, want %q", rows[0].Index, "logs-2024.01.15")
	}
	if rows[0].DocsCount != "1000000" {
		t.Errorf("rows[0].DocsCount = %q, want %q", rows[0].DocsCount, "1000000")
	}
	if rows[0].StoreSize != "2048" {
		t.Errorf("rows[0].StoreSize = %q, want %q", rows[0].StoreSize, "2048")
	}
	if rows[1].Health != "yellow" {
		t.Errorf("rows[1].Health = %q, want %q", rows[1].Health, "yellow")
	}
}

func TestGetCatShards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_cat/shards" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"index":"logs-2024.01.15","shard":"0","prirep":"p","state":"STARTED","docs":"500000","store":"1024","ip":"10.0.0.1","node":"es-data-1"},
			{"index":"logs-2024.01.15","shard":"1","prirep":"r","state":"UNASSIGNED","docs":"","store":"","ip":"","node":""}
		]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	rows, err := c.GetCatShards(context.Background())
	if err != nil {
		t.Fatalf("GetCatShards: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].PriRep != "p" || rows[0].State != "STARTED" || rows[0].Node != "es-data-1" {
		t.Errorf("rows[0] = %+v, want primary STARTED on es-data-1", rows[0])
	}
	if rows[1].State != "UNASSIGNED" || rows[1].Node != "" {
		t.Errorf("rows[1] = %+v, want UNASSIGNED with empty node", rows[1])
	}
}

func TestGetIndexStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/_stats/") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"indices": {
				"logs-2024.01.15": {
					"total": {
						"indexing": {"index_total": 150000, "index_time_in_millis": 60000},
						"search": {"query_total": 80000, "query_time_in_millis": 42000},
						"segments": {"count": 42, "memory_in_bytes": 12582912},
						"query_cache": {"memory_size_in_bytes": 1048576},
						"fielddata": {"memory_size_in_bytes": 524288}
					}
				},
				"closed-index": {}
			}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.GetIndexStats(context.Background())
	if err != nil {
		t.Fatalf("GetIndexStats: %v", err)
	}

	entry := resp.Indices["logs-2024.01.15"]
	if entry.Total == nil {
		t.Fatal("Total section missing")
	}
	if entry.Total.Indexing.IndexTotal != 150000 {
		t.Errorf("IndexTotal = %d, want 150000", entry.Total.Indexing.IndexTotal)
	}
	if entry.Total.Search.QueryTotal != 80000 {
		t.Errorf("QueryTotal = %d, want 80000", entry.Total.Search.QueryTotal)
	}
	if entry.Total.Segments.Count != 42 {
		t.Errorf("Segments.Count = %d, want 42", entry.Total.Segments.Count)
	}
	if entry.Total.QueryCache.MemorySizeInBytes != 1048576 {
		t.Errorf("QueryCache = %d, want 1048576", entry.Total.QueryCache.MemorySizeInBytes)
	}
	if entry.Total.Fielddata.MemorySizeInBytes != 524288 {
		t.Errorf("Fielddata = %d, want 524288", entry.Total.Fielddata.MemorySizeInBytes)
	}

	if closed := resp.Indices["closed-index"]; closed.Total != nil {
		t.Errorf("expected nil Total for stat-less index, got %+v", closed.Total)
	}
}

func TestGetPendingTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_cluster/pending_tasks" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"tasks": [
				{"insert_order": 101, "priority": "URGENT", "source": "create-index [foo]", "time_in_queue_millis": 86}
			]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.GetPendingTasks(context.Background())
	if err != nil {
		t.Fatalf("GetPendingTasks: %v", err)
	}
	if len(resp.Tasks) != 1 {
		t.Fatalf("len(Tasks) = %d, want 1", len(resp.Tasks))
	}
	task := resp.Tasks[0]
	if task.Priority != "URGENT" {
		t.Errorf("Priority = %q, want URGENT", task.Priority)
	}
	if task.Source != "create-index [foo]" {
		t.Errorf("Source = %q, want %q", task.Source, "create-index [foo]")
	}
	if task.TimeInQueueMillis != 86 {
		t.Errorf("TimeInQueueMillis = %d, want 86", task.TimeInQueueMillis)
	}
}

func TestGetSearchTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_tasks" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if !strings.Contains(r.URL.RawQuery, "actions=*search*") {
			t.Errorf("actions filter missing from query: %q", r.URL.RawQuery)
		}
		if !strings.Contains(r.URL.RawQuery, "detailed=true") {
			t.Errorf("detailed=true missing from query: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
			"nodes": {
				"abc123": {
					"name": "es-data-1",
					"tasks": {
						"abc123:456": {
							"node": "abc123",
							"action": "indices:data/read/search",
							"description": "indices[logs-*], search_type[QUERY_THEN_FETCH]",
							"start_time_in_millis": 1700000000000,
							"running_time_in_nanos": 320000000000,
							"cancellable": true
						}
					}
				}
			}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.GetSearchTasks(context.Background())
	if err != nil {
		t.Fatalf("GetSearchTasks: %v", err)
	}
	node := resp.Nodes["abc123"]
	if node.Name != "es-data-1" {
		t.Errorf("node.Name = %q, want %q", node.Name, "es-data-1")
	}
	task := node.Tasks["abc123:456"]
	if task.Action != "indices:data/read/search" {
		t.Errorf("Action = %q, want search action", task.Action)
	}
	if task.RunningTimeInNanos != 320000000000 {
		t.Errorf("RunningTimeInNanos = %d, want 320000000000", task.RunningTimeInNanos)
	}
	if !task.Cancellable {
		t.Error("Cancellable = false, want true")
	}
}

func TestGetIndexTemplates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_index_template" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"index_templates": [
				{
					"name": "logs-template",
					"index_template": {
						"index_patterns": ["logs-*"],
						"template": {
							"settings": {
								"index.number_of_shards": "6",
								"index": {"lifecycle": {"name": "logs-policy"}}
							}
						}
					}
				},
				{
					"name": "bare-template",
					"index_template": {
						"index_patterns": ["bare-*"],
						"template": {}
					}
				}
			]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	templates, err := c.GetIndexTemplates(context.Background())
	if err != nil {
		t.Fatalf("GetIndexTemplates: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("len(templates) = %d, want 2", len(templates))
	}

	logs := templates[0]
	if logs.Name != "logs-template" {
		t.Errorf("Name = %q, want %q", logs.Name, "logs-template")
	}
	if len(logs.Patterns) != 1 || logs.Patterns[0] != "logs-*" {
		t.Errorf("Patterns = %v, want [logs-*]", logs.Patterns)
	}
	if logs.NumberOfShards != 6 {
		t.Errorf("NumberOfShards = %d, want 6", logs.NumberOfShards)
	}
	if !logs.HasLifecycle {
		t.Error("HasLifecycle = false, want true")
	}

	bare := templates[1]
	if bare.NumberOfShards != 0 {
		t.Errorf("NumberOfShards = %d, want 0 for template without settings", bare.NumberOfShards)
	}
	if bare.HasLifecycle {
		t.Error("HasLifecycle = true, want false")
	}
}

func TestGetMappings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_all/_mapping" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"logs-2024.01.15": {
				"mappings": {
					"properties": {
						"message": {"type": "text"},
						"user": {
							"properties": {
								"id": {"type": "keyword"},
								"name": {"type": "text"}
							}
						}
					}
				}
			}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	mappings, err := c.GetMappings(context.Background(), "_all")
	if err != nil {
		t.Fatalf("GetMappings: %v", err)
	}

	idx, ok := mappings["logs-2024.01.15"]
	if !ok {
		t.Fatalf("index missing from response: %v", mappings)
	}
	props := idx.Mappings.Properties
	if len(props) != 2 {
		t.Fatalf("len(properties) = %d, want 2", len(props))
	}
	if len(props["user"].Properties) != 2 {
		t.Errorf("user sub-properties = %d, want 2", len(props["user"].Properties))
	}
	if props["message"].Properties != nil {
		t.Errorf("leaf field has sub-properties: %v", props["message"].Properties)
	}
}

func TestGetClusterSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_cluster/settings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if !strings.Contains(r.URL.RawQuery, "include_defaults=true") {
			t.Errorf("include_defaults missing from query: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
			"persistent": {"cluster.routing.allocation.enable": "all"},
			"transient": {"indices": {"recovery": {"max_bytes_per_sec": "40mb"}}},
			"defaults": {
				"cluster.remote.initial_connect_timeout": "30s",
				"search.default_search_timeout": -1,
				"cluster.initial_master_nodes": ["es-master-1", "es-master-2"]
			}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	settings, err := c.GetClusterSettings(context.Background())
	if err != nil {
		t.Fatalf("GetClusterSettings: %v", err)
	}
	if got := settings.Persistent["cluster.routing.allocation.enable"]; got != "all" {
		t.Errorf("persistent enable = %q, want %q", got, "all")
	}
	// Nested groups flatten to the same dotted keys as flat ones.
	if got := settings.Transient["indices.recovery.max_bytes_per_sec"]; got != "40mb" {
		t.Errorf("transient recovery = %q, want %q", got, "40mb")
	}
	if got := settings.Defaults["search.default_search_timeout"]; got != "-1" {
		t.Errorf("default search timeout = %q, want %q", got, "-1")
	}
	if got := settings.Defaults["cluster.initial_master_nodes"]; got != "es-master-1,es-master-2" {
		t.Errorf("initial master nodes = %q, want comma-joined list", got)
	}
}

func TestPing_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_cluster/health" {
			t.Errorf("Ping: unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"green"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestPing_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.Ping(context.Background()); err == nil {
		t.Error("expected error from Ping on non-2xx, got nil")
	}
}

func TestBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		_, _ = w.Write([]byte(`{"status":"green"}`))
	}))
	defer srv.Close()

	c, err := NewDefaultClient(ClientConfig{
		BaseURL:  srv.URL,
		Username: "elastic",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if gotUser != "elastic" {
		t.Errorf("user = %q, want %q", gotUser, "elastic")
	}
	if gotPass != "secret" {
		t.Errorf("pass = %q, want %q", gotPass, "secret")
	}
}

func TestBasicAuthPasswordOnly(t *testing.T) {
	var gotUser, gotPass string
	var gotOK bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		_, _ = w.Write([]byte(`{"status":"green"}`))
	}))
	defer srv.Close()

	c, err := NewDefaultClient(ClientConfig{
		BaseURL:  srv.URL,
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if !gotOK {
		t.Error("expected Authorization header to be sent, but it was absent")
	}
	if gotUser != "" {
		t.Errorf("user = %q, want empty", gotUser)
	}
	if gotPass != "secret" {
		t.Errorf("pass = %q, want %q", gotPass, "secret")
	}
}

func TestNoAuthHeaderByDefault(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"green"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty without credentials", gotAuth)
	}
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"missing auth"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetClusterHealth(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q does not contain %q", err.Error(), "401")
	}
	if !strings.Contains(err.Error(), "missing auth") {
		t.Errorf("error %q does not carry the response body", err.Error())
	}
}

func TestHTTPErrorBodyTruncated(t *testing.T) {
	long := strings.Repeat("x", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(long))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetClusterHealth(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.HasSuffix(err.Error(), "...") {
		t.Errorf("long body not truncated: %q", err.Error())
	}
	if strings.Contains(err.Error(), strings.Repeat("x", 201)) {
		t.Errorf("error carries more than 200 body bytes: %d chars", len(err.Error()))
	}
}

func TestContextCancellation(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		// Block until the client disconnects
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.GetClusterHealth(ctx)
		done <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected error after context cancellation, got nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for cancelled request to return")
	}
}

func TestTLSSkipVerify(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"green"}`))
	}))
	defer srv.Close()

	// Without InsecureSkipVerify, TLS handshake should fail (self-signed cert).
	c, err := NewDefaultClient(ClientConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Error("expected TLS certificate error without InsecureSkipVerify, got nil")
	}

	// With InsecureSkipVerify=true, the request should succeed.
	c2, err := NewDefaultClient(ClientConfig{
		BaseURL:            srv.URL,
		RequestTimeout:     5 * time.Second,
		InsecureSkipVerify: true,
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	if err := c2.Ping(context.Background()); err != nil {
		t.Errorf("Ping with InsecureSkipVerify=true: %v", err)
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"broken":`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.GetClusterHealth(context.Background()); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}
