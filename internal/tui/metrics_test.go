package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMetricCard_ContainsTitleAndValue(t *testing.T) {
	card := renderMetricCard("Write Rate", "120.5 /s", []float64{10, 20, 30}, 30, colorGreen, StyleDim)
	stripped := stripANSI(card)

	assert.Contains(t, stripped, "Write Rate")
	assert.Contains(t, stripped, "120.5 /s")
	// The border rows are present.
	assert.Contains(t, stripped, "╭")
	assert.Contains(t, stripped, "╰")
}

func TestRenderMetricCard_EnforcesMinimumWidth(t *testing.T) {
	// A tiny width must not panic; it is clamped to the minimum card size.
	card := renderMetricCard("X", "1", nil, 2, colorGreen, StyleDim)
	assert.NotEmpty(t, card)
}

func TestRenderMetricCard_EmptySparklineStillRenders(t *testing.T) {
	card := renderMetricCard("Search Rate", "0.0 /s", nil, 24, colorCyan, StyleDim)
	stripped := stripANSI(card)
	assert.Contains(t, stripped, "Search Rate")
	assert.Contains(t, stripped, "0.0 /s")
}

func TestRenderMetricsRow_NilSnapshot(t *testing.T) {
	app := newTestApp()
	app.width = 120
	assert.Equal(t, "", renderMetricsRow(app))
}

func TestRenderMetricsRow_WithData(t *testing.T) {
	app := newTestApp()
	app.width = 120
	app.current = makeFixtureSnapshot()
	app.writeRate = 110
	app.searchRate = 250
	app.maxOldGen = 42

	row := renderMetricsRow(app)
	require.NotEmpty(t, row)
	stripped := stripANSI(row)

	assert.Contains(t, stripped, "Cluster Activity")
	assert.Contains(t, stripped, "Write Rate")
	assert.Contains(t, stripped, "Search Rate")
	assert.Contains(t, stripped, "Max Old-Gen")
	assert.Contains(t, stripped, "42.0%")
}

func TestRenderMetricsRow_Narrow(t *testing.T) {
	app := newTestApp()
	app.width = 60
	app.current = makeFixtureSnapshot()

	row := renderMetricsRow(app)
	require.NotEmpty(t, row)
	stripped := stripANSI(row)

	assert.Contains(t, stripped, "Write Rate")
	assert.Contains(t, stripped, "Max Old-Gen")
	// Narrow layout stacks the third card below: more lines than the 1x3 row.
	wideApp := newTestApp()
	wideApp.width = 120
	wideApp.current = app.current
	wideRow := renderMetricsRow(wideApp)

	narrowLines := len(strings.Split(stripped, "\n"))
	wideLines := len(strings.Split(stripANSI(wideRow), "\n"))
	assert.Greater(t, narrowLines, wideLines)
}

func TestRenderMetricsRow_TooNarrowReturnsEmpty(t *testing.T) {
	app := newTestApp()
	app.width = 8 // cardWidth would be 6 < 8 minimum
	app.current = makeFixtureSnapshot()

	assert.Equal(t, "", renderMetricsRow(app))
}
