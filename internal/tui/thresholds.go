package tui

import "github.com/charmbracelet/lipgloss"

// severity represents the alert level for a metric value.
type severity int

const (
	severityNormal   severity = iota
	severityWarning           // yellow
	severityCritical          // red
)

// cpuSeverity grades CPU against the configured alert threshold.
// The warning band starts at 80% of the threshold.
func cpuSeverity(pct, threshold float64) severity {
	switch {
	case pct > threshold:
		return severityCritical
	case pct > threshold*0.8:
		return severityWarning
	default:
		return severityNormal
	}
}

// oldGenSeverity grades old-gen heap occupancy against the configured
// alert threshold, with a warning band starting at 80% of it.
func oldGenSeverity(pct, threshold float64) severity {
	switch {
	case pct > threshold:
		return severityCritical
	case pct > threshold*0.8:
		return severityWarning
	default:
		return severityNormal
	}
}

// heapSeverity grades total JVM heap occupancy. Total heap has no configured
// threshold; the 75/85 bands match the usual ES circuit-breaker headroom.
func heapSeverity(pct float64) severity {
	switch {
	case pct > 85:
		return severityCritical
	case pct > 75:
		return severityWarning
	default:
		return severityNormal
	}
}

// gcSeverity grades old-gen GC time per cycle against the configured
// threshold. Twice the threshold is critical.
func gcSeverity(ms, threshold int64) severity {
	switch {
	case threshold > 0 && ms > 2*threshold:
		return severityCritical
	case ms > threshold:
		return severityWarning
	default:
		return severityNormal
	}
}

// rejectionSeverity grades thread-pool rejections. Any rejection means the
// node is already shedding load.
func rejectionSeverity(n int64) severity {
	if n > 0 {
		return severityWarning
	}
	return severityNormal
}

// breakerSeverity grades circuit-breaker trips. A tripped breaker dropped
// real requests.
func breakerSeverity(n int64) severity {
	if n > 0 {
		return severityCritical
	}
	return severityNormal
}

// severityToStyle maps a severity level to the appropriate lipgloss style.
func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return StyleYellow
	case severityCritical:
		return StyleRed
	default:
		return lipgloss.NewStyle()
	}
}

// severityTitleStyle returns the metric-card title style for a severity level.
// Normal severity keeps the standard dim style.
func severityTitleStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return StyleYellow.Bold(true)
	case severityCritical:
		return StyleRed.Bold(true)
	default:
		return StyleDim
	}
}
