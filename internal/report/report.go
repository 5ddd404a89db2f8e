// Package report implements the one-shot audit mode: two refresh cycles so
// rates exist, then a plain-text rendering of findings and causality chains,
// optionally accompanied by a standalone HTML report.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/engine"
	"github.com/dm/esaudit-go/internal/format"
	"github.com/dm/esaudit-go/internal/model"
)

// Refresher is the store surface the collector drives: force refresh cycles,
// then read the resulting snapshot pair.
type Refresher interface {
	Refresh(ctx context.Context) error
	Pair() (current, previous *model.Snapshot)
}

// Report is the assembled result of one audit run.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Snapshot    *model.Snapshot
	Findings    []model.Finding
	Causality   []model.CausalityReport
	Loads       []model.NodeLoad
	Thresholds  config.Thresholds
}

// Collect runs two refresh cycles separated by wait, so the second snapshot
// carries real per-second rates, and evaluates the result. The wait honors
// context cancellation.
func Collect(ctx context.Context, src Refresher, wait time.Duration, th config.Thresholds) (*Report, error) {
	if err := src.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("first refresh: %w", err)
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	if err := src.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("second refresh: %w", err)
	}

	curr, _ := src.Pair()
	if curr == nil {
		curr = &model.Snapshot{}
	}

	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Snapshot:    curr,
		Findings:    engine.Evaluate(curr, th),
		Causality:   engine.BuildCausality(curr, th),
		Loads:       engine.NodeLoads(curr),
		Thresholds:  th,
	}, nil
}

// severityOrder fixes the section order of the text rendering.
var severityOrder = []model.Severity{
	model.SeverityCritical,
	model.SeverityWarning,
	model.SeverityInfo,
}

// WriteText renders the report as plain text.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	name := r.Snapshot.Health.ClusterName
	if name == "" {
		name = "N/A"
	}
	status := r.Snapshot.Health.Status
	if status == "" {
		status = "unknown"
	}

	fmt.Fprintf(&b, "Cluster Health Report: %s (%s)\n", name, status)
	fmt.Fprintf(&b, "Run ID:     %s\n", r.RunID)
	fmt.Fprintf(&b, "Generated:  %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Nodes: %d    Indices: %d    Shards: %d\n",
		len(r.Snapshot.Nodes), len(r.Snapshot.Indices), len(r.Snapshot.Shards))

	if len(r.Findings) == 0 {
		b.WriteString("\nNo findings at current thresholds.\n")
	} else {
		grouped := make(map[model.Severity][]model.Finding)
		for _, f := range r.Findings {
			grouped[f.Severity] = append(grouped[f.Severity], f)
		}
		for _, sev := range severityOrder {
			group := grouped[sev]
			if len(group) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n%s (%d)\n", strings.ToUpper(sev.String()), len(group))
			for _, f := range group {
				fmt.Fprintf(&b, "  [%s] %s\n", f.Kind, f.Message)
			}
		}
	}

	if len(r.Causality) > 0 {
		b.WriteString("\nCausality\n")
		for _, rep := range r.Causality {
			fmt.Fprintf(&b, "  node %s:\n", rep.NodeName)
			for _, line := range rep.ReportLines {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
	}

	if len(r.Loads) > 0 {
		b.WriteString("\nNode load\n")
		fmt.Fprintf(&b, "  %-24s %8s %10s %14s\n", "NODE", "CPU", "PRIMARIES", "WRITE RATE")
		for _, l := range r.Loads {
			fmt.Fprintf(&b, "  %-24s %8s %10d %14s\n",
				l.Node, format.FormatPercent(l.CPUPercent), l.Primaries, format.FormatRate(l.WriteLoad))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
