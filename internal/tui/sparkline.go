package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkRamp holds the eight block glyphs from floor to full height.
const sparkRamp = "▁▂▃▄▅▆▇█"

// RenderSparkline draws values as a block-glyph strip in the given color.
// The strip always comes out exactly width runes wide: a long series shows
// only its most recent width samples, a short one is padded with leading
// spaces so new samples march in from the right.
//
// Levels scale against the window maximum. Zero and negative samples sit on
// the floor glyph, and a window with no positive sample renders flat.
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}
	if n := len(values); n > width {
		values = values[n-width:]
	}

	var peak float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	ramp := []rune(sparkRamp)
	out := make([]rune, 0, width)
	for pad := width - len(values); pad > 0; pad-- {
		out = append(out, ' ')
	}
	for _, v := range values {
		out = append(out, ramp[sparkLevel(v, peak)])
	}

	return lipgloss.NewStyle().Foreground(color).Render(string(out))
}

// sparkLevel maps one sample to a ramp index in [0, 7].
func sparkLevel(v, peak float64) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	lvl := int(v / peak * 7)
	if lvl > 7 {
		lvl = 7
	}
	return lvl
}
