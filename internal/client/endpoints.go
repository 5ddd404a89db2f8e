package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	endpointClusterHealth   = "/_cluster/health"
	endpointClusterStats    = "/_cluster/stats"
	endpointPendingTasks    = "/_cluster/pending_tasks"
	endpointClusterSettings = "/_cluster/settings?include_defaults=true&flat_settings=true"
	endpointNodeStats       = "/_nodes/stats/jvm,fs,os,process,thread_pool,transport,breaker"
	endpointNodesInfo       = "/_nodes/_all/info/name,roles,attributes"
	endpointIndexStats      = "/_stats/indexing,search,segments,query_cache,fielddata"
	endpointCatIndices      = "/_cat/indices?format=json&bytes=mb&h=health,status,index,uuid,pri,rep,docs.count,store.size"
	endpointCatShards       = "/_cat/shards?format=json&bytes=mb&h=index,shard,prirep,state,docs,store,ip,node"
	endpointSearchTasks     = "/_tasks?actions=*search*&detailed=true"
	endpointIndexTemplates  = "/_index_template"
)

// GetClusterHealth fetches cluster health from /_cluster/health.
func (c *DefaultClient) GetClusterHealth(ctx context.Context) (*ClusterHealth, error) {
	body, err := c.doGet(ctx, endpointClusterHealth)
	if err != nil {
		return nil, fmt.Errorf("GetClusterHealth: %w", err)
	}

	var result ClusterHealth
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetClusterHealth decode: %w", err)
	}
	return &result, nil
}

// GetClusterStats fetches cluster-wide rollups from /_cluster/stats.
func (c *DefaultClient) GetClusterStats(ctx context.Context) (*ClusterStats, error) {
	body, err := c.doGet(ctx, endpointClusterStats)
	if err != nil {
		return nil, fmt.Errorf("GetClusterStats: %w", err)
	}

	var result ClusterStats
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetClusterStats decode: %w", err)
	}
	return &result, nil
}

// GetNodeStats fetches per-node statistics from /_nodes/stats.
func (c *DefaultClient) GetNodeStats(ctx context.Context) (*NodeStatsResponse, error) {
	body, err := c.doGet(ctx, endpointNodeStats)
	if err != nil {
		return nil, fmt.Errorf("GetNodeStats: %w", err)
	}

	var result NodeStatsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetNodeStats decode: %w", err)
	}
	return &result, nil
}

// GetNodesInfo fetches node identity (name, roles, attributes) from /_nodes/_all/info.
func (c *DefaultClient) GetNodesInfo(ctx context.Context) (*NodesInfoResponse, error) {
	body, err := c.doGet(ctx, endpointNodesInfo)
	if err != nil {
		return nil, fmt.Errorf("GetNodesInfo: %w", err)
	}

	var result NodesInfoResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetNodesInfo decode: %w", err)
	}
	return &result, nil
}

// GetCatIndices fetches the index catalog from /_cat/indices with sizes in MB.
func (c *DefaultClient) GetCatIndices(ctx context.Context) ([]CatIndexRow, error) {
	body, err := c.doGet(ctx, endpointCatIndices)
	if err != nil {
		return nil, fmt.Errorf("GetCatIndices: %w", err)
	}

	var result []CatIndexRow
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetCatIndices decode: %w", err)
	}
	return result, nil
}

// GetCatShards fetches the shard catalog from /_cat/shards with sizes in MB.
func (c *DefaultClient) GetCatShards(ctx context.Context) ([]CatShardRow, error) {
	body, err := c.doGet(ctx, endpointCatShards)
	if err != nil {
		return nil, fmt.Errorf("GetCatShards: %w", err)
	}

	var result []CatShardRow
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetCatShards decode: %w", err)
	}
	return result, nil
}

// GetIndexStats fetches per-index statistics from /_stats.
func (c *DefaultClient) GetIndexStats(ctx context.Context) (*IndexStatsResponse, error) {
	body, err := c.doGet(ctx, endpointIndexStats)
	if err != nil {
		return nil, fmt.Errorf("GetIndexStats: %w", err)
	}

	var result IndexStatsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetIndexStats decode: %w", err)
	}
	return &result, nil
}

// GetPendingTasks fetches queued cluster-state updates from /_cluster/pending_tasks.
func (c *DefaultClient) GetPendingTasks(ctx context.Context) (*PendingTasksResponse, error) {
	body, err := c.doGet(ctx, endpointPendingTasks)
	if err != nil {
		return nil, fmt.Errorf("GetPendingTasks: %w", err)
	}

	var result PendingTasksResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetPendingTasks decode: %w", err)
	}
	return &result, nil
}

// GetSearchTasks fetches in-flight search tasks from /_tasks with descriptions.
func (c *DefaultClient) GetSearchTasks(ctx context.Context) (*TasksResponse, error) {
	body, err := c.doGet(ctx, endpointSearchTasks)
	if err != nil {
		return nil, fmt.Errorf("GetSearchTasks: %w", err)
	}

	var result TasksResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetSearchTasks decode: %w", err)
	}
	return &result, nil
}

// GetIndexTemplates fetches composable templates from /_index_template and
// reduces each to its audit-relevant fields.
func (c *DefaultClient) GetIndexTemplates(ctx context.Context) ([]IndexTemplate, error) {
	body, err := c.doGet(ctx, endpointIndexTemplates)
	if err != nil {
		return nil, fmt.Errorf("GetIndexTemplates: %w", err)
	}

	var raw indexTemplatesResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("GetIndexTemplates decode: %w", err)
	}

	templates := make([]IndexTemplate, 0, len(raw.IndexTemplates))
	for _, t := range raw.IndexTemplates {
		flat := make(map[string]string)
		flattenSettings("", t.IndexTemplate.Template.Settings, flat)
		templates = append(templates, IndexTemplate{
			Name:           t.Name,
			Patterns:       t.IndexTemplate.IndexPatterns,
			NumberOfShards: settingInt(flat, "index.number_of_shards"),
			HasLifecycle:   flat["index.lifecycle.name"] != "",
		})
	}
	return templates, nil
}

// GetMappings fetches field mappings for the given index expression.
// Pass "_all" to cover every index.
func (c *DefaultClient) GetMappings(ctx context.Context, index string) (MappingsResponse, error) {
	body, err := c.doGet(ctx, "/"+url.PathEscape(index)+"/_mapping")
	if err != nil {
		return nil, fmt.Errorf("GetMappings: %w", err)
	}

	var result MappingsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetMappings decode: %w", err)
	}
	return result, nil
}

// GetClusterSettings fetches /_cluster/settings including server defaults and
// returns the three scopes flattened to dotted keys.
func (c *DefaultClient) GetClusterSettings(ctx context.Context) (*ClusterSettings, error) {
	body, err := c.doGet(ctx, endpointClusterSettings)
	if err != nil {
		return nil, fmt.Errorf("GetClusterSettings: %w", err)
	}

	var raw clusterSettingsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("GetClusterSettings decode: %w", err)
	}

	result := &ClusterSettings{
		Persistent: make(map[string]string),
		Transient:  make(map[string]string),
		Defaults:   make(map[string]string),
	}
	flattenSettings("", raw.Persistent, result.Persistent)
	flattenSettings("", raw.Transient, result.Transient)
	flattenSettings("", raw.Defaults, result.Defaults)
	return result, nil
}
