package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/engine"
	"github.com/dm/esaudit-go/internal/model"
)

type connState int

const (
	stateConnected connState = iota
	stateDisconnected
)

// viewID enumerates the tab-cycled screens.
type viewID int

const (
	viewOverview viewID = iota
	viewFindings
	viewCausality
	viewShards
	viewCount
)

// next returns the view following v in the tab cycle.
func (v viewID) next() viewID {
	return (v + 1) % viewCount
}

// viewLabel returns the short display name of a view.
func viewLabel(v viewID) string {
	switch v {
	case viewFindings:
		return "Findings"
	case viewCausality:
		return "Causality"
	case viewShards:
		return "Shards"
	default:
		return "Overview"
	}
}

// SnapshotRefresher is the store surface the TUI polls. *engine.Store
// satisfies it.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
	Pair() (current, previous *model.Snapshot)
}

// errNoData reports a refresh cycle in which every endpoint degraded at once.
// The store tolerates partial failures; a fully empty snapshot means the
// cluster is unreachable.
var errNoData = errors.New("no data from cluster; all endpoints failed")

// App is the root Bubble Tea model for esaudit.
type App struct {
	store        SnapshotRefresher
	baseURL      string
	pollInterval time.Duration
	th           config.Thresholds

	// Poll state
	fetching    bool // true while a refreshCmd goroutine is in-flight
	current     *model.Snapshot
	previous    *model.Snapshot
	findings    []model.Finding
	causality   []model.CausalityReport
	skews       []model.PatternSkew
	shardGroups []model.ShardGroup
	history     *model.SparklineHistory

	// Cluster-wide gauges derived for the metric cards.
	writeRate  float64
	searchRate float64
	maxOldGen  float64

	// Connection state
	connState        connState
	consecutiveFails int
	lastError        error
	lastUpdated      time.Time

	// Tables on the overview screen; exactly one holds focus.
	nodeTable  NodeTableModel
	indexTable IndexTableModel

	// View state
	view            viewID
	findingsScroll  int
	causalityScroll int
	shardsScroll    int

	// Layout
	width, height int

	// UI state
	showHelp bool
}

// NewApp creates a new App polling the given store. baseURL is shown while
// connecting and when the cluster does not report a name.
func NewApp(store SnapshotRefresher, baseURL string, interval time.Duration, th config.Thresholds) *App {
	nt := NewNodeTable()
	nt.focused = true
	return &App{
		store:        store,
		baseURL:      baseURL,
		pollInterval: interval,
		th:           th,
		history:      model.NewSparklineHistory(0),
		connState:    stateDisconnected,
		fetching:     true, // Init() always issues an immediate refreshCmd
		nodeTable:    nt,
		indexTable:   NewIndexTable(),
	}
}

// Init implements tea.Model. Starts the first refresh immediately on launch.
func (app *App) Init() tea.Cmd {
	return refreshCmd(app.store, app.th, app.pollInterval)
}

// Update implements tea.Model — the single state-mutation entry point.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case SnapshotMsg:
		app.fetching = false
		app.current = msg.Current
		app.previous = msg.Previous
		app.findings = msg.Findings
		app.causality = msg.Causality
		app.skews = msg.Skews
		app.shardGroups = msg.Groups
		app.writeRate, app.searchRate = clusterRates(msg.Current)
		app.maxOldGen = maxOldGenPercent(msg.Current)
		// Only push to history when a previous snapshot exists — the first
		// cycle has no delta, so the rates are zero and would corrupt the
		// sparkline baseline.
		if msg.Previous != nil {
			app.history.Push(model.SparklinePoint{
				Timestamp:        msg.Current.FetchedAt,
				WriteRate:        app.writeRate,
				SearchRate:       app.searchRate,
				MaxOldGenPercent: app.maxOldGen,
			})
		}
		app.nodeTable.SetData(msg.Current.Nodes)
		app.indexTable.SetData(msg.Current.Indices)
		app.consecutiveFails = 0
		app.lastError = nil
		app.connState = stateConnected
		app.lastUpdated = msg.Current.FetchedAt
		return app, tickCmd(app.pollInterval)

	case FetchErrorMsg:
		app.fetching = false
		app.consecutiveFails++
		app.lastError = msg.Err
		app.connState = stateDisconnected
		backoff := backoffDuration(app.consecutiveFails)
		return app, tea.Tick(backoff, func(t time.Time) tea.Msg {
			return TickMsg(t)
		})

	case TickMsg:
		if app.fetching {
			return app, nil
		}
		app.fetching = true
		return app, refreshCmd(app.store, app.th, app.pollInterval)

	case tea.KeyMsg:
		return app.handleKey(msg)
	}

	return app, nil
}

// handleKey routes keyboard input: the focused table's filter prompt takes
// precedence, then global keys, then the active view.
func (app *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if app.view == viewOverview && app.focusedSearchActive() {
		// The filter prompt swallows everything except an emergency quit.
		if msg.String() == "ctrl+c" {
			return app, tea.Quit
		}
		return app.updateTables(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return app, tea.Quit
	case key.Matches(msg, keys.Refresh):
		if app.fetching {
			return app, nil
		}
		app.fetching = true
		return app, refreshCmd(app.store, app.th, app.pollInterval)
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
		return app, nil
	case key.Matches(msg, keys.Tab):
		app.view = app.view.next()
		return app, nil
	case key.Matches(msg, keys.ShiftTab):
		if app.view == viewOverview {
			app.nodeTable.focused = !app.nodeTable.focused
			app.indexTable.focused = !app.indexTable.focused
		}
		return app, nil
	}

	if app.view == viewOverview {
		return app.updateTables(msg)
	}
	app.scrollActiveView(msg)
	return app, nil
}

// scrollActiveView applies a scroll key to the active full-screen view,
// clamping the stored offset to the real content bounds.
func (app *App) scrollActiveView(msg tea.KeyMsg) {
	delta := scrollDelta(msg)
	if delta == 0 {
		return
	}

	width := app.width
	if width <= 0 {
		width = 80
	}

	var titleBar string
	var lines []string
	var offset *int
	switch app.view {
	case viewFindings:
		titleBar = renderViewTitle(width, fmt.Sprintf("Findings (%d)", len(app.findings)), "[tab: next view]")
		lines = buildFindingLines(app.findings, width)
		offset = &app.findingsScroll
	case viewCausality:
		titleBar = renderViewTitle(width, fmt.Sprintf("Causality (%d nodes)", len(app.causality)), "[tab: next view]")
		lines = buildCausalityLines(app.causality, width)
		offset = &app.causalityScroll
	case viewShards:
		titleBar = renderViewTitle(width, fmt.Sprintf("Shards (%d patterns)", len(app.shardGroups)), "[tab: next view]")
		lines = buildShardLines(app.shardGroups, app.skews, width)
		offset = &app.shardsScroll
	default:
		return
	}

	*offset += delta
	max := maxScroll(lines, contentHeight(app, titleBar))
	if *offset > max {
		*offset = max
	}
	if *offset < 0 {
		*offset = 0
	}
}

// scrollDelta converts a key press to a scroll distance; 0 for non-scroll keys.
func scrollDelta(msg tea.KeyMsg) int {
	switch {
	case key.Matches(msg, keys.Up):
		return -1
	case key.Matches(msg, keys.Down):
		return 1
	case key.Matches(msg, keys.PageUp):
		return -scrollStep
	case key.Matches(msg, keys.PageDown):
		return scrollStep
	default:
		return 0
	}
}

// updateTables forwards a key to whichever overview table holds focus.
func (app *App) updateTables(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if app.nodeTable.focused {
		app.nodeTable, cmd = app.nodeTable.Update(msg)
	} else {
		app.indexTable, cmd = app.indexTable.Update(msg)
	}
	return app, cmd
}

// focusedSearchActive reports whether the focused table's filter prompt is open.
func (app *App) focusedSearchActive() bool {
	if app.nodeTable.focused {
		return app.nodeTable.searchActive()
	}
	return app.indexTable.searchActive()
}

// View implements tea.Model. Renders the header, the active view, and the footer.
func (app *App) View() string {
	var parts []string

	if h := renderHeader(app); h != "" {
		parts = append(parts, h)
	}

	switch app.view {
	case viewFindings:
		parts = append(parts, renderFindings(app))
	case viewCausality:
		parts = append(parts, renderCausality(app))
	case viewShards:
		parts = append(parts, renderShards(app))
	default:
		if o := renderOverview(app); o != "" {
			parts = append(parts, o)
		}
		if m := renderMetricsRow(app); m != "" {
			parts = append(parts, m)
		}
		if app.current != nil {
			parts = append(parts, app.nodeTable.renderTable(app))
			parts = append(parts, app.indexTable.renderTable(app))
		}
	}

	parts = append(parts, renderFooter(app))

	return strings.Join(parts, "\n")
}

// tickCmd schedules the next poll after duration d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// refreshCmd is a Bubble Tea command that runs one store refresh cycle,
// evaluates the rules against the fresh snapshot, and returns a SnapshotMsg
// or FetchErrorMsg.
func refreshCmd(store SnapshotRefresher, th config.Thresholds, interval time.Duration) tea.Cmd {
	return func() tea.Msg {
		timeout := interval - 500*time.Millisecond
		if timeout < 500*time.Millisecond {
			timeout = 500 * time.Millisecond
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := store.Refresh(ctx); err != nil {
			return FetchErrorMsg{Err: err}
		}
		curr, prev := store.Pair()
		if curr.Empty() {
			return FetchErrorMsg{Err: errNoData}
		}

		return SnapshotMsg{
			Current:   curr,
			Previous:  prev,
			Findings:  engine.Evaluate(curr, th),
			Causality: engine.BuildCausality(curr, th),
			Skews:     engine.ShardImbalance(curr.Shards, curr.Indices),
			Groups:    engine.ShardGroups(curr.Shards, engine.GroupByPattern, engine.SortByTotalShards),
		}
	}
}

// clusterRates sums the per-index write and search rates.
func clusterRates(snap *model.Snapshot) (write, search float64) {
	if snap == nil {
		return 0, 0
	}
	for _, ix := range snap.Indices {
		write += ix.WriteRate
		search += ix.SearchRate
	}
	return write, search
}

// maxOldGenPercent returns the worst per-node old-gen heap occupancy.
func maxOldGenPercent(snap *model.Snapshot) float64 {
	if snap == nil {
		return 0
	}
	var max float64
	for _, n := range snap.Nodes {
		if n.HeapOldGenPercent > max {
			max = n.HeapOldGenPercent
		}
	}
	return max
}

// backoffDuration returns min(2^fails * time.Second, 60*time.Second).
// At fails=1: 2s, fails=2: 4s, fails=3: 8s, ..., fails>=6: 60s.
func backoffDuration(fails int) time.Duration {
	const maxBackoff = 60 * time.Second
	if fails <= 0 {
		return time.Second
	}
	if fails >= 6 {
		return maxBackoff
	}
	return time.Duration(1<<fails) * time.Second
}
