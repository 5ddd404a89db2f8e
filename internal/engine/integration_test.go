//go:build integration

package engine_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esaudit-go/internal/client"
	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/engine"
)

// esClient creates a DefaultClient from $ES_URI or skips the test if unset.
func esClient(t *testing.T) client.ESClient {
	t.Helper()
	uri := os.Getenv("ES_URI")
	if uri == "" {
		t.Skip("ES_URI not set; skipping integration test")
	}
	c, err := client.NewDefaultClient(client.ClientConfig{
		BaseURL:        uri,
		RequestTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	return c
}

// TestLiveCluster_RefreshPopulatesSnapshot connects to $ES_URI, runs one
// refresh across all endpoints, and verifies the snapshot carries data.
func TestLiveCluster_RefreshPopulatesSnapshot(t *testing.T) {
	c := esClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := engine.NewStore(c, nil, nil)
	require.NoError(t, store.Refresh(ctx))

	snap := store.Current()
	require.NotNil(t, snap)
	assert.NotEmpty(t, snap.Health.ClusterName, "cluster name should not be empty")
	assert.NotEmpty(t, snap.Health.Status, "cluster status should not be empty")
	assert.NotEmpty(t, snap.Nodes, "node metrics should be non-empty")
	assert.False(t, snap.FetchedAt.IsZero(), "fetch timestamp should be set")
}

// TestLiveCluster_RatesNonNegative runs two consecutive refreshes (2 s apart)
// and verifies that every computed index rate is >= 0.
func TestLiveCluster_RatesNonNegative(t *testing.T) {
	c := esClient(t)
	ctx := context.Background()

	store := engine.NewStore(c, nil, nil)
	require.NoError(t, store.Refresh(ctx))

	time.Sleep(2 * time.Second)
	require.NoError(t, store.Refresh(ctx))

	curr, prev := store.Pair()
	require.NotNil(t, curr)
	assert.False(t, prev.Empty(), "first cycle should have rotated into previous")

	for _, idx := range curr.Indices {
		assert.GreaterOrEqual(t, idx.WriteRate, 0.0, "write rate must be >= 0 for %s", idx.Name)
		assert.GreaterOrEqual(t, idx.SearchRate, 0.0, "search rate must be >= 0 for %s", idx.Name)
	}

	findings := engine.Evaluate(curr, config.DefaultThresholds())
	assert.NotNil(t, findings)
}

// TestLiveCluster_HTTPSWithInsecure skips unless ES_URI is https://.
// Verifies that InsecureSkipVerify=true allows connecting to a self-signed cert ES.
func TestLiveCluster_HTTPSWithInsecure(t *testing.T) {
	uri := os.Getenv("ES_URI")
	if uri == "" {
		t.Skip("ES_URI not set; skipping integration test")
	}
	if !strings.HasPrefix(uri, "https://") {
		t.Skip("ES_URI is not https://; skipping TLS insecure test")
	}

	c, err := client.NewDefaultClient(client.ClientConfig{
		BaseURL:            uri,
		InsecureSkipVerify: true,
		RequestTimeout:     10 * time.Second,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := engine.NewStore(c, nil, nil)
	require.NoError(t, store.Refresh(ctx))
	assert.NotEmpty(t, store.Current().Health.ClusterName, "cluster name should not be empty with insecure TLS")
}
