package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esaudit-go/internal/client"
	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/metrics"
	"github.com/dm/esaudit-go/internal/model"
)

type stubSource struct {
	curr *model.Snapshot
	prev *model.Snapshot
}

func (s stubSource) Current() *model.Snapshot { return s.curr }

func (s stubSource) Pair() (*model.Snapshot, *model.Snapshot) { return s.curr, s.prev }

// auditSnapshot is a snapshot with something to report on every route.
func auditSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Health: client.ClusterHealth{ClusterName: "prod", Status: "yellow", UnassignedShards: 1},
		Nodes: []model.NodeMetric{
			{ID: "a", Name: "es-data-1", CPUPercent: 40, HeapOldGenPercent: 81, GCTimeMs: 350},
			{ID: "b", Name: "es-data-2", CPUPercent: 10, HeapOldGenPercent: 30},
		},
		Indices: []model.IndexMetric{
			{Name: "logs-2024-01-15", DocCount: 5000, WriteRate: 60, HeapUsageMB: 200},
			{Name: "orders", DocCount: 100, SearchRate: 5, HeapUsageMB: 10},
		},
		Shards: []model.ShardMetric{
			{Index: "logs-2024-01-15", Shard: 0, Primary: true, State: "STARTED", Docs: 5000, StoreMB: 900, Node: "es-data-1"},
			{Index: "logs-2024-01-16", Shard: 0, Primary: true, State: "STARTED", Docs: 4000, StoreMB: 800, Node: "es-data-1"},
			{Index: "orders", Shard: 0, Primary: true, State: "STARTED", Docs: 0, StoreMB: 0.1, Node: "es-data-2"},
		},
		TopHeapIndices: []model.IndexMetric{{Name: "logs-2024-01-15", HeapUsageMB: 200}},
		NodeDetails: []model.NodeDetail{{
			ID:    "a",
			Name:  "es-data-1",
			Pools: map[string]client.ThreadPoolStats{"write": {Rejected: 3}},
		}},
		MappingFields: map[string]int{"wide": 1200},
		SearchTasks: []model.TaskMetric{
			{Node: "es-data-1", Description: "indices[orders], tenant:acme", RunningTimeInNanos: 600e9},
		},
		Templates: []client.IndexTemplate{
			{Name: "catchall", Patterns: []string{"*"}, NumberOfShards: 8},
		},
		Settings: client.ClusterSettings{
			Transient: map[string]string{"cluster.routing.rebalance.enable": "none"},
		},
		FetchedAt: time.Now(),
	}
}

func newTestServer(snap *model.Snapshot) *Server {
	return New(stubSource{curr: snap, prev: &model.Snapshot{}}, config.DefaultThresholds(), prometheus.NewRegistry())
}

func doGet(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// findingDoc mirrors the finding wire shape. The enum fields marshal as
// strings, so responses decode into this instead of model.Finding.
type findingDoc struct {
	Kind     string  `json:"kind"`
	Severity string  `json:"severity"`
	Entity   string  `json:"entity"`
	Value    float64 `json:"value"`
	Message  string  `json:"message"`
}

func TestHealth(t *testing.T) {
	t.Run("before first refresh", func(t *testing.T) {
		s := newTestServer(&model.Snapshot{})
		var resp healthResponse
		decode(t, doGet(t, s, "/health"), &resp)
		assert.Equal(t, "ok", resp.Status)
		assert.Empty(t, resp.LastFetch)
		assert.Zero(t, resp.AgeSeconds)
	})

	t.Run("with snapshot", func(t *testing.T) {
		s := newTestServer(auditSnapshot())
		var resp healthResponse
		decode(t, doGet(t, s, "/health"), &resp)
		assert.Equal(t, "ok", resp.Status)
		assert.NotEmpty(t, resp.LastFetch)
		assert.GreaterOrEqual(t, resp.AgeSeconds, 0.0)
	})
}

func TestDashboard(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var resp dashboardResponse
	decode(t, doGet(t, s, "/api/v1/live/dashboard"), &resp)

	assert.Equal(t, "prod", resp.Health.ClusterName)
	assert.Len(t, resp.Nodes, 2)
	require.Len(t, resp.Indices, 2)
	assert.Equal(t, 60.0, resp.Indices[0].WriteRate)
	assert.False(t, resp.FetchedAt.IsZero())
}

func TestShardDistribution(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var byPattern []model.ShardGroup
	decode(t, doGet(t, s, "/api/v1/live/shard-distribution"), &byPattern)
	require.Len(t, byPattern, 2, "defaults group by pattern")
	assert.Equal(t, "logs-*", byPattern[0].Key)
	assert.Equal(t, 2, byPattern[0].TotalShards)

	var byIndex []model.ShardGroup
	decode(t, doGet(t, s, "/api/v1/live/shard-distribution?group_by=index&sort_by=total_gb"), &byIndex)
	require.Len(t, byIndex, 3)
	assert.Equal(t, "logs-2024-01-15", byIndex[0].Key, "heaviest index first")
}

func TestDeepDive(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var dives []model.NodeDeepDive
	decode(t, doGet(t, s, "/api/v1/live/deep-dive"), &dives)
	require.Len(t, dives, 1)
	assert.Equal(t, "es-data-1", dives[0].Node)
	require.Len(t, dives[0].Pools, 1)
	assert.Equal(t, int64(3), dives[0].Pools[0].Rejected)
}

func TestNodeLoadCorrelation(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var loads []model.NodeLoad
	decode(t, doGet(t, s, "/api/v1/audit/node-load-correlation"), &loads)
	require.Len(t, loads, 2)
	assert.Equal(t, "es-data-1", loads[0].Node, "busiest CPU first")
	assert.Equal(t, 2, loads[0].Primaries)
	assert.Equal(t, 60.0, loads[0].WriteLoad)
}

func TestShardImbalance(t *testing.T) {
	snap := auditSnapshot()
	snap.Shards = append(snap.Shards, model.ShardMetric{
		Index: "logs-2024-01-17", Shard: 0, Primary: true, State: "STARTED", Docs: 1, StoreMB: 1, Node: "es-data-2",
	})
	s := newTestServer(snap)

	var skews []model.PatternSkew
	decode(t, doGet(t, s, "/api/v1/audit/shard-imbalance"), &skews)
	require.Len(t, skews, 1)
	assert.Equal(t, "logs-*", skews[0].Pattern)
	assert.Equal(t, 3, skews[0].Primaries)
}

func TestShardImbalance_EmptyIsArray(t *testing.T) {
	s := newTestServer(&model.Snapshot{})

	rec := doGet(t, s, "/api/v1/audit/shard-imbalance")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestShardToxicity(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var tenants []model.ToxicTenant
	decode(t, doGet(t, s, "/api/v1/audit/shard-toxicity"), &tenants)
	require.Len(t, tenants, 1)
	assert.Equal(t, "acme", tenants[0].TenantID)
	assert.Equal(t, 40.0, tenants[0].CPU)
}

func TestSlowTasks(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var slow []model.SlowTask
	decode(t, doGet(t, s, "/api/v1/audit/slow-tasks"), &slow)
	require.Len(t, slow, 1)
	assert.InDelta(t, 10.0, slow[0].TimeMin, 1e-9)
}

func TestCausalityChain(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var reports []model.CausalityReport
	decode(t, doGet(t, s, "/api/v1/audit/causality-chain"), &reports)
	require.Len(t, reports, 1)
	assert.Equal(t, "es-data-1", reports[0].NodeName)
	assert.NotEmpty(t, reports[0].ReportLines)
}

func TestIndexTemplates(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var audits []model.TemplateAudit
	decode(t, doGet(t, s, "/api/v1/audit/index-templates"), &audits)
	require.Len(t, audits, 1)
	assert.Equal(t, "catchall", audits[0].Name)
	assert.NotEmpty(t, audits[0].Diagnostics)
}

func TestMappingExplosion(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var rows []model.MappingFieldCount
	decode(t, doGet(t, s, "/api/v1/audit/mapping-explosion"), &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "wide", rows[0].Index)
	assert.Equal(t, 1200, rows[0].FieldCount)
}

func TestDustyShards(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var findings []findingDoc
	decode(t, doGet(t, s, "/api/v1/audit/dusty-shards"), &findings)
	require.Len(t, findings, 1)
	assert.Equal(t, "empty_shard", findings[0].Kind)
	assert.Equal(t, "orders[0]", findings[0].Entity)
}

func TestConfigurationDrift(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var findings []findingDoc
	decode(t, doGet(t, s, "/api/v1/audit/configuration-drift"), &findings)
	require.Len(t, findings, 1)
	assert.Equal(t, "config_drift", findings[0].Kind)
	assert.Equal(t, "critical", findings[0].Severity)
}

func TestSuggestions(t *testing.T) {
	s := newTestServer(auditSnapshot())

	var resp suggestionsResponse
	decode(t, doGet(t, s, "/api/v1/report/suggestions"), &resp)

	assert.Equal(t, len(resp.Findings), resp.Total)
	assert.Greater(t, resp.Total, 3, "the fixture trips heap, gc, unassigned, mapping, drift, task and template rules")
	assert.Positive(t, resp.BySeverity["critical"])
	assert.Positive(t, resp.BySeverity["warning"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveRefresh(250*time.Millisecond, false)

	s := New(stubSource{curr: &model.Snapshot{}, prev: &model.Snapshot{}}, config.DefaultThresholds(), reg)

	rec := doGet(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "esaudit_refresh_total 1")
}

func TestRequestIDIsUUID(t *testing.T) {
	s := newTestServer(&model.Snapshot{})

	rec := doGet(t, s, "/health")
	id := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}
