package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ESClient defines the read-only query surface the audit engine needs from an
// Elasticsearch cluster. One method per query shape; every method tolerates
// the cluster being unreachable by returning an error, never panicking.
type ESClient interface {
	GetClusterHealth(ctx context.Context) (*ClusterHealth, error)
	GetClusterStats(ctx context.Context) (*ClusterStats, error)
	GetNodeStats(ctx context.Context) (*NodeStatsResponse, error)
	GetNodesInfo(ctx context.Context) (*NodesInfoResponse, error)
	GetCatIndices(ctx context.Context) ([]CatIndexRow, error)
	GetCatShards(ctx context.Context) ([]CatShardRow, error)
	GetIndexStats(ctx context.Context) (*IndexStatsResponse, error)
	GetPendingTasks(ctx context.Context) (*PendingTasksResponse, error)
	GetSearchTasks(ctx context.Context) (*TasksResponse, error)
	GetIndexTemplates(ctx context.Context) ([]IndexTemplate, error)
	GetMappings(ctx context.Context, index string) (MappingsResponse, error)
	GetClusterSettings(ctx context.Context) (*ClusterSettings, error)
	Ping(ctx context.Context) error
	BaseURL() string
}

// ClientConfig carries the connection settings for DefaultClient.
type ClientConfig struct {
	BaseURL            string
	Username           string
	Password           string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
}

const (
	// defaultRequestTimeout applies when ClientConfig leaves RequestTimeout unset.
	defaultRequestTimeout = 10 * time.Second

	// errBodySample caps how much of an error response body gets quoted in errors.
	errBodySample = 200

	// maxResponseBytes bounds a single response read. _mapping on a wide
	// cluster is the largest payload we pull, and it stays far below this.
	maxResponseBytes = 32 << 20
)

// DefaultClient is the net/http implementation of ESClient. Every request is
// a plain GET with optional basic auth; the tool never mutates cluster state.
type DefaultClient struct {
	http   *http.Client
	config ClientConfig
}

// NewDefaultClient validates cfg and builds a client with its own transport,
// so the TLS setting never leaks into http.DefaultTransport.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	return &DefaultClient{
		http:   &http.Client{Timeout: cfg.RequestTimeout, Transport: tr},
		config: cfg,
	}, nil
}

// BaseURL returns the configured cluster address.
func (c *DefaultClient) BaseURL() string {
	return c.config.BaseURL
}

// Ping probes /_cluster/health with a short deadline so startup and the TUI
// retry path fail fast on a dead cluster.
func (c *DefaultClient) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	_, err := c.doGet(pingCtx, endpointClusterHealth)
	return err
}

// doGet issues one GET against path (joined onto BaseURL) and returns the raw
// body. Non-2xx statuses become errors quoting the start of the body.
func (c *DefaultClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.Username != "" || c.config.Password != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

// endpoint joins a request path onto the base URL, tolerating a trailing
// slash in the configured address.
func (c *DefaultClient) endpoint(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

func statusError(code int, body []byte) error {
	sample := string(body)
	if len(body) > errBodySample {
		sample = string(body[:errBodySample]) + "..."
	}
	return fmt.Errorf("unexpected status %d: %s", code, sample)
}
