package tui

import (
	"time"

	"github.com/dm/esaudit-go/internal/model"
)

// SnapshotMsg delivers one completed refresh cycle to the TUI: the rotated
// snapshot pair plus everything the rule engine derived from it.
type SnapshotMsg struct {
	Current   *model.Snapshot
	Previous  *model.Snapshot
	Findings  []model.Finding
	Causality []model.CausalityReport
	Skews     []model.PatternSkew
	Groups    []model.ShardGroup
}

// FetchErrorMsg signals a poll failure.
type FetchErrorMsg struct{ Err error }

// TickMsg triggers the next scheduled poll.
type TickMsg time.Time
