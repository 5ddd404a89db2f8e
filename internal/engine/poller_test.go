package engine

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esaudit-go/internal/client"
	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/metrics"
)

func TestPollerRun_RefreshesImmediately(t *testing.T) {
	total := int64(1000)
	store := NewStore(clusterMock(&total), nil, nil)
	p := NewPoller(store, time.Hour, config.DefaultThresholds(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// The first cycle runs before the ticker, so the snapshot appears well
	// within the hour-long interval.
	require.Eventually(t, func() bool {
		return !store.Current().Empty()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

func TestPollerRun_PublishesFindingCounts(t *testing.T) {
	total := int64(1000)
	mock := clusterMock(&total)
	// Push the node over the old-gen threshold so the cycle emits findings.
	mock.NodeStatsFn = func(ctx context.Context) (*client.NodeStatsResponse, error) {
		return makeNodeStats("n1", "node-1", 20, 40, 810, 1000, 2, 50), nil
	}

	store := NewStore(mock, nil, nil)
	m := metrics.New(prometheus.NewRegistry())
	p := NewPoller(store, time.Hour, config.DefaultThresholds(), m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		return !store.Current().Empty()
	}, 2*time.Second, 10*time.Millisecond)

	findings := Evaluate(store.Current(), config.DefaultThresholds())
	assert.NotEmpty(t, findings, "81% old-gen heap must produce a finding")

	cancel()
	<-done
}
