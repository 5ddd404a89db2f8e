package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/metrics"
)

// Poller drives the refresh loop for the headless modes. It refreshes once
// immediately, then on every interval tick, and publishes the finding counts
// of each cycle to the metrics gauge.
type Poller struct {
	store    *Store
	interval time.Duration
	th       config.Thresholds
	metrics  *metrics.Metrics
}

// NewPoller returns a poller over store. m may be nil.
func NewPoller(store *Store, interval time.Duration, th config.Thresholds, m *metrics.Metrics) *Poller {
	return &Poller{store: store, interval: interval, th: th, metrics: m}
}

// Run blocks until ctx is cancelled and returns the context's error.
func (p *Poller) Run(ctx context.Context) error {
	p.cycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	if err := p.store.Refresh(ctx); err != nil {
		// Refresh only errors on context cancellation; the loop exits on
		// the next select.
		return
	}

	findings := Evaluate(p.store.Current(), p.th)
	bySeverity := make(map[string]int)
	for _, f := range findings {
		bySeverity[f.Severity.String()]++
	}
	p.metrics.SetFindings(bySeverity)

	logrus.WithFields(logrus.Fields{
		"nodes":    len(p.store.Current().Nodes),
		"indices":  len(p.store.Current().Indices),
		"findings": len(findings),
	}).Debug("refresh cycle complete")
}
