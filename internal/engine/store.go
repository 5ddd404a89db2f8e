package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dm/esaudit-go/internal/client"
	"github.com/dm/esaudit-go/internal/metrics"
	"github.com/dm/esaudit-go/internal/model"
	"github.com/dm/esaudit-go/internal/snapshot"
)

// Store owns the current and previous snapshots. Refresh rotates
// current→previous and repopulates current from the cluster; everything else
// only reads. At most one Refresh runs at a time per Store; a concurrent call
// blocks until the in-flight one finishes.
type Store struct {
	mu      sync.Mutex
	client  client.ESClient
	metrics *metrics.Metrics
	files   *snapshot.FileStore

	current  *model.Snapshot
	previous *model.Snapshot
}

// NewStore returns a Store polling the given cluster client. metrics and
// files may be nil; self-observability and snapshot persistence are then
// disabled.
func NewStore(c client.ESClient, m *metrics.Metrics, files *snapshot.FileStore) *Store {
	return &Store{
		client:   c,
		metrics:  m,
		files:    files,
		current:  &model.Snapshot{},
		previous: &model.Snapshot{},
	}
}

// rawCycle accumulates the raw endpoint documents of one refresh. Fields of
// failed fetches stay nil/empty and degrade that portion of the snapshot.
type rawCycle struct {
	health     *client.ClusterHealth
	stats      *client.ClusterStats
	nodeStats  *client.NodeStatsResponse
	nodesInfo  *client.NodesInfoResponse
	catIndices []client.CatIndexRow
	catShards  []client.CatShardRow
	indexStats *client.IndexStatsResponse
	pending    *client.PendingTasksResponse
	tasks      *client.TasksResponse
	templates  []client.IndexTemplate
	mappings   client.MappingsResponse
	settings   *client.ClusterSettings
}

// Refresh fetches all endpoints concurrently, derives a fresh snapshot,
// computes index rates against the prior cycle, and rotates the pair. A
// failed endpoint leaves its collection empty for this cycle; the only error
// Refresh itself returns is context cancellation, reported before any
// rotation happens.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	raw := s.fetchRaw(ctx)
	if err := ctx.Err(); err != nil {
		s.metrics.ObserveRefresh(time.Since(start), true)
		return err
	}

	snap := buildSnapshot(raw, time.Now())

	prev := s.current
	elapsed := 0.0
	if !prev.FetchedAt.IsZero() {
		elapsed = snap.FetchedAt.Sub(prev.FetchedAt).Seconds()
	}
	ApplyRates(prev, snap, elapsed)

	if !s.current.Empty() {
		s.previous = s.current.Clone()
	}
	s.current = snap

	s.persist(snap)
	s.metrics.ObserveRefresh(time.Since(start), snap.Empty())
	return nil
}

// fetchRaw issues all endpoint queries concurrently. Individual failures are
// logged and counted but never abort the cycle.
func (s *Store) fetchRaw(ctx context.Context) *rawCycle {
	raw := &rawCycle{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(s.collect("cluster-health", func() error {
		var err error
		raw.health, err = s.client.GetClusterHealth(gctx)
		return err
	}))
	g.Go(s.collect("cluster-stats", func() error {
		var err error
		raw.stats, err = s.client.GetClusterStats(gctx)
		return err
	}))
	g.Go(s.collect("node-stats", func() error {
		var err error
		raw.nodeStats, err = s.client.GetNodeStats(gctx)
		return err
	}))
	g.Go(s.collect("node-info", func() error {
		var err error
		raw.nodesInfo, err = s.client.GetNodesInfo(gctx)
		return err
	}))
	g.Go(s.collect("cat-indices", func() error {
		var err error
		raw.catIndices, err = s.client.GetCatIndices(gctx)
		return err
	}))
	g.Go(s.collect("cat-shards", func() error {
		var err error
		raw.catShards, err = s.client.GetCatShards(gctx)
		return err
	}))
	g.Go(s.collect("index-stats", func() error {
		var err error
		raw.indexStats, err = s.client.GetIndexStats(gctx)
		return err
	}))
	g.Go(s.collect("pending-tasks", func() error {
		var err error
		raw.pending, err = s.client.GetPendingTasks(gctx)
		return err
	}))
	g.Go(s.collect("tasks-search", func() error {
		var err error
		raw.tasks, err = s.client.GetSearchTasks(gctx)
		return err
	}))
	g.Go(s.collect("index-templates", func() error {
		var err error
		raw.templates, err = s.client.GetIndexTemplates(gctx)
		return err
	}))
	g.Go(s.collect("index-mapping", func() error {
		var err error
		raw.mappings, err = s.client.GetMappings(gctx, "_all")
		return err
	}))
	g.Go(s.collect("cluster-settings", func() error {
		var err error
		raw.settings, err = s.client.GetClusterSettings(gctx)
		return err
	}))

	// No collector returns an error, so Wait only orders the goroutines.
	_ = g.Wait()
	return raw
}

// collect wraps one endpoint fetch so its failure degrades to empty data
// instead of failing the cycle.
func (s *Store) collect(endpoint string, fn func() error) func() error {
	return func() error {
		if err := fn(); err != nil {
			logrus.WithError(err).Warnf("fetch %s failed, continuing without it", endpoint)
			s.metrics.FetchError(endpoint)
		}
		return nil
	}
}

// persist hands the fresh snapshot to the file store and runs retention.
// Both steps are best effort.
func (s *Store) persist(snap *model.Snapshot) {
	if s.files == nil {
		return
	}
	written, err := s.files.MaybeWrite(snap.Nodes, snap.Indices)
	if err != nil {
		logrus.WithError(err).Warn("snapshot write failed")
		return
	}
	if !written {
		return
	}
	s.metrics.SnapshotWritten()

	purged, err := s.files.Purge()
	if err != nil {
		logrus.WithError(err).Warn("snapshot purge failed")
	}
	if purged > 0 {
		logrus.Debugf("purged %d expired snapshot files", purged)
		s.metrics.SnapshotsPurged(purged)
	}
}

// Pair returns the current and previous snapshots. Snapshots are never
// mutated after publication, so callers may read them without copying.
func (s *Store) Pair() (current, previous *model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.previous
}

// Current returns the latest snapshot.
func (s *Store) Current() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Previous returns the snapshot of the cycle before the latest one.
func (s *Store) Previous() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previous
}
