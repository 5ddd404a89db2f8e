package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the self-observability collectors for the audit engine. All
// observation methods are nil-receiver safe, so components that are wired
// without metrics can call them unconditionally.
type Metrics struct {
	refreshTotal    prometheus.Counter
	refreshFailures prometheus.Counter
	refreshSeconds  prometheus.Histogram
	fetchErrors     *prometheus.CounterVec
	findings        *prometheus.GaugeVec
	snapshotWrites  prometheus.Counter
	snapshotsPurged prometheus.Counter
}

// New creates the collector set and registers it on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refreshTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "esaudit_refresh_total",
			Help: "Total number of completed refresh cycles.",
		}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "esaudit_refresh_failures_total",
			Help: "Total number of refresh cycles that produced no usable snapshot.",
		}),
		refreshSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "esaudit_refresh_duration_seconds",
			Help:    "Histogram of refresh cycle duration.",
			Buckets: prometheus.DefBuckets,
		}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "esaudit_fetch_errors_total",
			Help: "Total number of failed endpoint fetches, by endpoint.",
		}, []string{"endpoint"}),
		findings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "esaudit_findings",
			Help: "Findings emitted by the last diagnostic pass, by severity.",
		}, []string{"severity"}),
		snapshotWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "esaudit_snapshot_writes_total",
			Help: "Total number of snapshot pairs persisted to disk.",
		}),
		snapshotsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "esaudit_snapshots_purged_total",
			Help: "Total number of persisted snapshot files removed by retention.",
		}),
	}

	reg.MustRegister(
		m.refreshTotal,
		m.refreshFailures,
		m.refreshSeconds,
		m.fetchErrors,
		m.findings,
		m.snapshotWrites,
		m.snapshotsPurged,
	)
	return m
}

// ObserveRefresh records one refresh cycle.
func (m *Metrics) ObserveRefresh(d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.refreshTotal.Inc()
	m.refreshSeconds.Observe(d.Seconds())
	if failed {
		m.refreshFailures.Inc()
	}
}

// FetchError records one failed endpoint fetch.
func (m *Metrics) FetchError(endpoint string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(endpoint).Inc()
}

// SetFindings publishes the finding counts of the latest diagnostic pass.
// Severities absent from the map are reset to zero so stale gauges never
// outlive the pass that produced them.
func (m *Metrics) SetFindings(bySeverity map[string]int) {
	if m == nil {
		return
	}
	for _, sev := range []string{"info", "warning", "critical"} {
		m.findings.WithLabelValues(sev).Set(float64(bySeverity[sev]))
	}
}

// SnapshotWritten records one persisted snapshot pair.
func (m *Metrics) SnapshotWritten() {
	if m == nil {
		return
	}
	m.snapshotWrites.Inc()
}

// SnapshotsPurged records n files removed by retention.
func (m *Metrics) SnapshotsPurged(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.snapshotsPurged.Add(float64(n))
}
