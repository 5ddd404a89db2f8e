package engine

import (
	"context"
	"errors"

	"github.com/dm/esaudit-go/internal/client"
)

// MockESClient implements client.ESClient for testing. Any Fn left nil falls
// back to a small healthy-cluster default.
type MockESClient struct {
	HealthFn       func(ctx context.Context) (*client.ClusterHealth, error)
	StatsFn        func(ctx context.Context) (*client.ClusterStats, error)
	NodeStatsFn    func(ctx context.Context) (*client.NodeStatsResponse, error)
	NodesInfoFn    func(ctx context.Context) (*client.NodesInfoResponse, error)
	CatIndicesFn   func(ctx context.Context) ([]client.CatIndexRow, error)
	CatShardsFn    func(ctx context.Context) ([]client.CatShardRow, error)
	IndexStatsFn   func(ctx context.Context) (*client.IndexStatsResponse, error)
	PendingTasksFn func(ctx context.Context) (*client.PendingTasksResponse, error)
	SearchTasksFn  func(ctx context.Context) (*client.TasksResponse, error)
	TemplatesFn    func(ctx context.Context) ([]client.IndexTemplate, error)
	MappingsFn     func(ctx context.Context, index string) (client.MappingsResponse, error)
	SettingsFn     func(ctx context.Context) (*client.ClusterSettings, error)
	PingFn         func(ctx context.Context) error
}

func (m *MockESClient) GetClusterHealth(ctx context.Context) (*client.ClusterHealth, error) {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return &client.ClusterHealth{ClusterName: "test", Status: "green", NumberOfNodes: 1}, nil
}

func (m *MockESClient) GetClusterStats(ctx context.Context) (*client.ClusterStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return &client.ClusterStats{}, nil
}

func (m *MockESClient) GetNodeStats(ctx context.Context) (*client.NodeStatsResponse, error) {
	if m.NodeStatsFn != nil {
		return m.NodeStatsFn(ctx)
	}
	return &client.NodeStatsResponse{Nodes: map[string]client.NodeStats{}}, nil
}

func (m *MockESClient) GetNodesInfo(ctx context.Context) (*client.NodesInfoResponse, error) {
	if m.NodesInfoFn != nil {
		return m.NodesInfoFn(ctx)
	}
	return &client.NodesInfoResponse{Nodes: map[string]client.NodeInfo{}}, nil
}

func (m *MockESClient) GetCatIndices(ctx context.Context) ([]client.CatIndexRow, error) {
	if m.CatIndicesFn != nil {
		return m.CatIndicesFn(ctx)
	}
	return nil, nil
}

func (m *MockESClient) GetCatShards(ctx context.Context) ([]client.CatShardRow, error) {
	if m.CatShardsFn != nil {
		return m.CatShardsFn(ctx)
	}
	return nil, nil
}

func (m *MockESClient) GetIndexStats(ctx context.Context) (*client.IndexStatsResponse, error) {
	if m.IndexStatsFn != nil {
		return m.IndexStatsFn(ctx)
	}
	return &client.IndexStatsResponse{Indices: map[string]client.IndexStatEntry{}}, nil
}

func (m *MockESClient) GetPendingTasks(ctx context.Context) (*client.PendingTasksResponse, error) {
	if m.PendingTasksFn != nil {
		return m.PendingTasksFn(ctx)
	}
	return &client.PendingTasksResponse{}, nil
}

func (m *MockESClient) GetSearchTasks(ctx context.Context) (*client.TasksResponse, error) {
	if m.SearchTasksFn != nil {
		return m.SearchTasksFn(ctx)
	}
	return &client.TasksResponse{Nodes: map[string]client.TaskNode{}}, nil
}

func (m *MockESClient) GetIndexTemplates(ctx context.Context) ([]client.IndexTemplate, error) {
	if m.TemplatesFn != nil {
		return m.TemplatesFn(ctx)
	}
	return nil, nil
}

func (m *MockESClient) GetMappings(ctx context.Context, index string) (client.MappingsResponse, error) {
	if m.MappingsFn != nil {
		return m.MappingsFn(ctx, index)
	}
	return client.MappingsResponse{}, nil
}

func (m *MockESClient) GetClusterSettings(ctx context.Context) (*client.ClusterSettings, error) {
	if m.SettingsFn != nil {
		return m.SettingsFn(ctx)
	}
	return &client.ClusterSettings{}, nil
}

func (m *MockESClient) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

func (m *MockESClient) BaseURL() string {
	return "http://mock:9200"
}

var errMockFailure = errors.New("mock failure")
